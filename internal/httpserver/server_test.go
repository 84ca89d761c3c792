package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kmercer/jobs-api/internal/apiversion"
	"github.com/kmercer/jobs-api/internal/health"
	"github.com/kmercer/jobs-api/internal/jobshttp"
	"github.com/kmercer/jobs-api/internal/log"
)

func testOptions(t *testing.T) *Options {
	t.Helper()
	supported, err := apiversion.NewSet("v1")
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	registry := apiversion.Registry{}
	return &Options{
		Logger:       log.Nop(),
		UseRecoverMW: true,
		Supported:    supported,
		Deprecated:   registry,
		Routes: []RouteRegistrar{
			jobshttp.NewAPI(jobshttp.NewStore(), nil),
			health.NewAPI(nil, nil),
		},
	}
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", path, http.NoBody))
	return rec
}

func TestHandler_RootRedirectsToDocs(t *testing.T) {
	h := NewHandler(testOptions(t))

	rec := get(h, "/")
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/v1/docs" {
		t.Fatalf("Location = %q", loc)
	}
}

func TestHandler_LegacyDocsRedirects(t *testing.T) {
	h := NewHandler(testOptions(t))

	rec := get(h, "/docs")
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
}

func TestHandler_VersionedDocsServed(t *testing.T) {
	h := NewHandler(testOptions(t))

	rec := get(h, "/api/v1/docs")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Jobs API") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestHandler_JobsRoutesMounted(t *testing.T) {
	h := NewHandler(testOptions(t))

	rec := get(h, "/api/v1/jobs")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestHandler_HealthRoutesMounted(t *testing.T) {
	h := NewHandler(testOptions(t))

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := get(h, path)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestHandler_UnsupportedVersion404(t *testing.T) {
	h := NewHandler(testOptions(t))

	rec := get(h, "/api/v2/jobs")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	want := `{"detail":"API version v2 not found"}` + "\n"
	if rec.Body.String() != want {
		t.Fatalf("body = %q, want %q", rec.Body.String(), want)
	}
}

func TestHandler_DeprecationHeaders(t *testing.T) {
	opts := testOptions(t)
	supported, _ := apiversion.NewSet("v1", "v2")
	opts.Supported = supported
	opts.Deprecated = apiversion.Registry{
		"v1": {
			Sunset:      "Sat, 01 Jan 2028 00:00:00 GMT",
			Replacement: "v2",
		},
	}
	h := NewHandler(opts)

	rec := get(h, "/api/v1/jobs")
	if rec.Header().Get("Deprecation") != "true" {
		t.Fatal("Deprecation header missing")
	}
	if got := rec.Header().Get("Sunset"); got != "Sat, 01 Jan 2028 00:00:00 GMT" {
		t.Fatalf("Sunset = %q", got)
	}
	if got := rec.Header().Get("Link"); got != `</api/v2/docs>; rel="successor-version"` {
		t.Fatalf("Link = %q", got)
	}
}

func TestHandler_NoDeprecationOnCurrentVersion(t *testing.T) {
	h := NewHandler(testOptions(t))

	rec := get(h, "/api/v1/jobs")
	if rec.Header().Get("Deprecation") != "" {
		t.Fatal("Deprecation header set for non-deprecated version")
	}
}

func TestHandler_RequestIDEchoed(t *testing.T) {
	h := NewHandler(testOptions(t))

	rec := get(h, "/api/v1/jobs")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID missing from response")
	}
}

func TestHandler_TimingHeader(t *testing.T) {
	h := NewHandler(testOptions(t))

	rec := get(h, "/api/v1/jobs")
	got := rec.Header().Get("X-Response-Time")
	if !regexp.MustCompile(`^\d+\.\d{2}ms$`).MatchString(got) {
		t.Fatalf("X-Response-Time = %q", got)
	}
}

func TestHandler_SecurityHeaders(t *testing.T) {
	h := NewHandler(testOptions(t))

	rec := get(h, "/health")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
}

type panicRegistrar struct{}

func (panicRegistrar) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})
}

func TestHandler_RecoversFromPanic(t *testing.T) {
	opts := testOptions(t)
	opts.Routes = append(opts.Routes, panicRegistrar{})
	panicked := false
	opts.OnPanic = func() { panicked = true }
	h := NewHandler(opts)

	rec := get(h, "/api/v1/boom")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Internal server error") {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if !panicked {
		t.Fatal("OnPanic hook not called")
	}
}

func TestHandler_MaxBodyEnforced(t *testing.T) {
	opts := testOptions(t)
	opts.MaxBodyBytes = 16
	h := NewHandler(opts)

	body := strings.NewReader(`{"name":"x","payload":"` + strings.Repeat("a", 64) + `"}`)
	req := httptest.NewRequest("POST", "/api/v1/jobs", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for oversized body", rec.Code)
	}
}

func TestStart_ServesAndStops(t *testing.T) {
	opts := testOptions(t)
	opts.Port = 18231

	ctx := context.Background()
	stop, err := Start(ctx, opts)
	if err != nil {
		t.Skipf("listen: %v", err)
	}
	defer func() { _ = stop(context.Background()) }()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://127.0.0.1:18231/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	if err := stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	// idempotent
	if err := stop(context.Background()); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}
