package httpmw

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kmercer/jobs-api/internal/log"
)

// timedWriter stamps X-Response-Time just before the first byte of the
// response goes out, which is the last moment a header can still be set.
type timedWriter struct {
	*statusWriter
	start   time.Time
	stamped bool
}

func (tw *timedWriter) stamp() {
	if tw.stamped {
		return
	}
	tw.stamped = true
	ms := float64(time.Since(tw.start)) / float64(time.Millisecond)
	tw.Header().Set("X-Response-Time", fmt.Sprintf("%.2fms", ms))
}

func (tw *timedWriter) WriteHeader(code int) {
	tw.stamp()
	tw.statusWriter.WriteHeader(code)
}

func (tw *timedWriter) Write(b []byte) (int, error) {
	tw.stamp()
	return tw.statusWriter.Write(b)
}

// Timing adds an X-Response-Time header and warns on requests slower than
// slowThreshold. A zero threshold disables the slow-request warning.
func Timing(slowThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			tw := &timedWriter{
				statusWriter: &statusWriter{ResponseWriter: w},
				start:        start,
			}

			next.ServeHTTP(tw, r)

			duration := time.Since(start)
			if slowThreshold > 0 && duration > slowThreshold {
				ctx := r.Context()
				log.FromContext(ctx).Warn(ctx, "slow request",
					"http.request.method", r.Method,
					"url.path", r.URL.Path,
					"http.server.request.duration", duration.Seconds(),
					"slow_threshold", slowThreshold.Seconds(),
				)
			}
		})
	}
}
