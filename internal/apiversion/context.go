package apiversion

import "context"

type ctxKey struct{}

// WithContext returns a context carrying the resolved version for the current
// request. The resolver sets this once; context immutability keeps it from
// changing or leaking across requests.
func WithContext(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, ctxKey{}, version)
}

// FromContext returns the version resolved for this request, or "" when the
// request was unversioned.
func FromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}
