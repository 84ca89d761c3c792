package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kmercer/jobs-api/internal/apiversion"
	"github.com/kmercer/jobs-api/internal/httpmw"
	"github.com/kmercer/jobs-api/internal/log"
)

// RouteRegistrar attaches a group of endpoints to the main router.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

type Options struct {
	Logger       log.Logger
	Port         int
	UseRecoverMW bool
	OnPanic      func()
	MetricsMW    func(http.Handler) http.Handler

	// Version pipeline
	Supported      apiversion.Set
	Deprecated     apiversion.Registry
	VersionMetrics httpmw.VersionMetrics

	// Routes holds the API groups to mount (jobs, health, ...).
	Routes []RouteRegistrar

	SlowRequestThreshold time.Duration
	MaxBodyBytes         int64
}
