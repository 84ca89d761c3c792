package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// API serves the health endpoints. Live gates /health/live, Ready gates
// /health/ready; nil probes always pass.
type API struct {
	Live  Probe
	Ready Probe
}

func NewAPI(live, ready Probe) *API {
	return &API{Live: live, Ready: ready}
}

type healthResponse struct {
	Status    string  `json:"status"`
	Message   string  `json:"message,omitempty"`
	Timestamp float64 `json:"timestamp,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, body healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// RegisterRoutes attaches /health, /health/live, /health/ready.
func (api *API) RegisterRoutes(r chi.Router) {
	// super-dumb liveness: "is the process up and answering?"
	r.Method(http.MethodGet, "/health",
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, healthResponse{
				Status:  "ok",
				Message: "Service is running",
			})
		}),
	)

	r.Method(http.MethodGet, "/health/live",
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if api.Live != nil {
				if err := api.Live.Check(r.Context()); err != nil {
					writeJSON(w, http.StatusServiceUnavailable, healthResponse{
						Status: "error",
						Reason: err.Error(),
					})
					return
				}
			}
			writeJSON(w, http.StatusOK, healthResponse{
				Status:    "ok",
				Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
				Message:   "Application is live",
			})
		}),
	)

	// "can we actually serve traffic?"
	r.Method(http.MethodGet, "/health/ready",
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if api.Ready != nil {
				if err := api.Ready.Check(r.Context()); err != nil {
					writeJSON(w, http.StatusServiceUnavailable, healthResponse{
						Status: "error",
						Reason: err.Error(),
					})
					return
				}
			}
			writeJSON(w, http.StatusOK, healthResponse{
				Status:  "ok",
				Message: "Application is ready to accept requests",
			})
		}),
	)
}
