package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(api *API) *chi.Mux {
	r := chi.NewRouter()
	api.RegisterRoutes(r)
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) healthResponse {
	t.Helper()
	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealth_AlwaysOK(t *testing.T) {
	r := newTestRouter(NewAPI(Fixed(false, "down"), Fixed(false, "down")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/health", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	body := decode(t, rec)
	if body.Status != "ok" || body.Message != "Service is running" {
		t.Fatalf("body = %+v", body)
	}
}

func TestLive_OK(t *testing.T) {
	r := newTestRouter(NewAPI(Fixed(true, ""), nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/health/live", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decode(t, rec)
	if body.Status != "ok" {
		t.Fatalf("status field = %q", body.Status)
	}
	if body.Timestamp == 0 {
		t.Fatal("timestamp missing from liveness response")
	}
}

func TestLive_Failing(t *testing.T) {
	r := newTestRouter(NewAPI(Fixed(false, "deadlocked"), nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/health/live", http.NoBody))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	body := decode(t, rec)
	if body.Reason != "deadlocked" {
		t.Fatalf("reason = %q", body.Reason)
	}
}

func TestReady_OK(t *testing.T) {
	r := newTestRouter(NewAPI(nil, Fixed(true, "")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/health/ready", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestReady_GatedByShutdown(t *testing.T) {
	var gate ShutdownGate
	r := newTestRouter(NewAPI(nil, All(Fixed(true, ""), gate.Probe())))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/health/ready", http.NoBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("status before drain = %d, want 200", rec.Code)
	}

	gate.Set("draining")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/health/ready", http.NoBody))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status during drain = %d, want 503", rec.Code)
	}
	if body := decode(t, rec); body.Reason != "draining" {
		t.Fatalf("reason = %q", body.Reason)
	}
}

func TestNilProbes_AlwaysPass(t *testing.T) {
	r := newTestRouter(NewAPI(nil, nil))

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", path, http.NoBody))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
