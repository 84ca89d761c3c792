package apiversion

import (
	"context"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	if got := FromContext(ctx); got != "" {
		t.Fatalf("FromContext on empty ctx = %q, want empty", got)
	}

	ctx = WithContext(ctx, "v1")
	if got := FromContext(ctx); got != "v1" {
		t.Fatalf("FromContext = %q, want v1", got)
	}
}
