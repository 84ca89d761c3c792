// Package jobshttp serves the versioned jobs resource.
package jobshttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kmercer/jobs-api/internal/log"
	"github.com/kmercer/jobs-api/internal/textutil"
)

// API implements the jobs endpoints under /api/v1.
type API struct {
	store  *Store
	logger log.Logger
}

func NewAPI(store *Store, logger log.Logger) *API {
	if logger == nil {
		logger = log.Nop()
	}
	return &API{store: store, logger: logger}
}

// RegisterRoutes attaches the jobs endpoints to the router.
func (api *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/jobs", func(r chi.Router) {
		r.Get("/", api.HandleList)
		r.Post("/", api.HandleCreate)
		r.Get("/{id}", api.HandleGet)
		r.Delete("/{id}", api.HandleDelete)
	})
}

type createJobRequest struct {
	Name    string `json:"name"`
	Payload string `json:"payload"`
}

// JobResponse is a single job plus derived display fields.
type JobResponse struct {
	Job
	PayloadSize string `json:"payload_size,omitempty"`
}

type jobListResponse struct {
	Jobs  []JobResponse `json:"jobs"`
	Total int           `json:"total"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func toResponse(j Job) JobResponse {
	out := JobResponse{Job: j}
	if j.Payload != "" {
		out.PayloadSize = textutil.FormatSize(int64(len(j.Payload)))
	}
	return out
}

func (api *API) HandleList(w http.ResponseWriter, r *http.Request) {
	jobs := api.store.List()
	resp := jobListResponse{Jobs: make([]JobResponse, 0, len(jobs)), Total: len(jobs)}
	for _, j := range jobs {
		resp.Jobs = append(resp.Jobs, toResponse(j))
	}
	api.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (api *API) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Detail: "invalid JSON body"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		api.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{Detail: "name is required"})
		return
	}

	j := api.store.Create(req.Name, req.Payload)
	api.logger.Info(ctx, "job created", "job_id", j.ID, "job_name", j.Name)
	api.writeJSON(ctx, w, http.StatusCreated, toResponse(j))
}

func (api *API) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	j, err := api.store.Get(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Detail: "Job " + id + " not found"})
			return
		}
		api.logger.Error(ctx, err, "job lookup failed", "job_id", id)
		api.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
		return
	}
	api.writeJSON(ctx, w, http.StatusOK, toResponse(j))
}

func (api *API) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := api.store.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			api.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Detail: "Job " + id + " not found"})
			return
		}
		api.logger.Error(ctx, err, "job delete failed", "job_id", id)
		api.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
		return
	}
	api.logger.Info(ctx, "job deleted", "job_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (api *API) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		api.logger.Warn(ctx, "failed to encode JSON response", "error", err)
	}
}
