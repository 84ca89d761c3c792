package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kmercer/jobs-api/internal/httpmw"
	"github.com/kmercer/jobs-api/internal/xerrors"
)

const defaultMaxBodyBytes = 1 << 20 // 1 MB

// NewHandler builds the HTTP handler with routes + middleware
// main() owns *http.Server so it can do graceful shutdown
func NewHandler(opts *Options) http.Handler {
	// chi router
	r := chi.NewRouter()

	// Compress JSON responses
	r.Use(middleware.Compress(5,
		"application/json",
		"text/html",
	))

	// Access log middleware
	r.Use(httpmw.AccessLog())

	maxBody := opts.MaxBodyBytes
	if maxBody == 0 {
		maxBody = defaultMaxBodyBytes
	}
	r.Use(httpmw.MaxBody(maxBody))

	// Root and the legacy docs path redirect to the current versioned docs.
	r.Get("/", redirectTo("/api/v1/docs"))
	r.Get("/docs", redirectTo("/api/v1/docs"))
	r.Get("/api/v1/docs", handleDocs)

	for _, reg := range opts.Routes {
		if reg != nil {
			reg.RegisterRoutes(r)
		}
	}

	// Middleware (outermost first in wrapping order)
	var h http.Handler = r

	// Deprecation headers for versions resolved by the version middleware
	h = httpmw.DeprecationHeaders(opts.Deprecated, opts.VersionMetrics)(h)

	// Version resolution (rejects unsupported /api/vN/ prefixes with a 404)
	h = httpmw.ResolveVersion(httpmw.VersionOptions{
		Supported: opts.Supported,
		Metrics:   opts.VersionMetrics,
	})(h)

	// Response timing header, slow request warnings. Inside WithLogger so
	// the warning carries the request-scoped fields.
	h = httpmw.Timing(opts.SlowRequestThreshold)(h)

	// Request-scoped logging (inner so it sees trace_id, etc)
	h = httpmw.WithLogger(opts.Logger)(h)

	// Metrics middleware for prometheus instrumentation
	if opts.MetricsMW != nil {
		h = opts.MetricsMW(h)
	}

	// Decide which requests get traced
	shouldTrace := func(p string) bool {
		if p == "/favicon.ico" || p == "/robots.txt" {
			return false
		}
		// health checks are noise at any sample rate
		if p == "/health" || p == "/health/live" || p == "/health/ready" {
			return false
		}
		return true
	}

	h = otelhttp.NewHandler(
		h,
		"http.server",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return shouldTrace(r.URL.Path)
		}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithPublicEndpointFn(func(r *http.Request) bool { return true }),
	)

	// Request ID (outer so everything downstream sees it)
	h = httpmw.RequestID("X-Request-ID")(h)

	// Recovery middleware to log panics and serve 500 response
	if opts.UseRecoverMW {
		h = httpmw.Recover(opts.Logger, opts.OnPanic)(h)
	}

	// Security headers outermost to ensure they are served on every response
	h = httpmw.SecurityHeaders(h)

	return h
}

func redirectTo(url string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
	}
}

func handleDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(docsPage))
}

const docsPage = `<!DOCTYPE html>
<html>
<head><title>Jobs API</title></head>
<body>
<h1>Jobs API v1</h1>
<ul>
<li><code>GET /api/v1/jobs</code> list jobs</li>
<li><code>POST /api/v1/jobs</code> create a job</li>
<li><code>GET /api/v1/jobs/{id}</code> fetch a job</li>
<li><code>DELETE /api/v1/jobs/{id}</code> delete a job</li>
<li><code>GET /health</code> service health</li>
</ul>
</body>
</html>
`

// Server timeout defaults, shared with opshttp.
const (
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultReadTimeout       = 10 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
	DefaultMaxHeaderBytes    = 1 << 20 // 1 MB
)

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
		MaxHeaderBytes:    DefaultMaxHeaderBytes,
	}
}

// Start runs the public HTTP server.
// Returns stop(ctx) for graceful shutdown
func Start(ctx context.Context, opts *Options) (func(context.Context) error, error) {
	port := opts.Port
	if port == 0 {
		port = 8080
	}
	addr := fmt.Sprintf(":%d", port)

	handler := NewHandler(opts)
	srv := NewServer(addr, handler)

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp4", addr)
	if err != nil {
		return nil, xerrors.EnsureTrace(err)
	}

	go func() {
		opts.Logger.Info(ctx, "http server listening", "addr", addr)
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			opts.Logger.Error(ctx, err, "http server error")
		}
	}()

	var once sync.Once
	stop := func(sctx context.Context) (retErr error) {
		once.Do(func() {
			opts.Logger.Info(sctx, "http server shutting down")
			c, cancel := context.WithTimeout(sctx, 5*time.Second)
			defer cancel()
			retErr = srv.Shutdown(c)
		})
		return retErr
	}
	return stop, nil
}
