package httpmw

import (
	"encoding/json"
	"net/http"

	"github.com/kmercer/jobs-api/internal/log"
	"github.com/kmercer/jobs-api/internal/xerrors"
)

type panicResponse struct {
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

// Recover catches handler panics, logs them with the request ID, and serves
// a JSON 500. onPanic, if non-nil, runs for each recovered panic (metrics).
// http.ErrAbortHandler is re-raised so the server's own abort path still
// works.
func Recover(base log.Logger, onPanic func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				if onPanic != nil {
					onPanic()
				}

				ctx := r.Context()
				reqID := RequestIDFromContext(ctx)

				err, ok := rec.(error)
				if !ok {
					err = xerrors.Newf("panic: %v", rec)
				}
				L := base
				if L == nil {
					L = log.FromContext(ctx)
				}
				L.Error(ctx, xerrors.EnsureTrace(err), "panic in http handler",
					"request_id", reqID,
					"http.request.method", r.Method,
					"url.path", r.URL.Path,
				)

				// may fail if the handler already wrote; nothing to do then
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(panicResponse{
					Detail:    "Internal server error",
					RequestID: reqID,
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
