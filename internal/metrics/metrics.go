package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kmercer/jobs-api/internal/version"
)

type ServerMetrics struct {
	reg      *prometheus.Registry
	handler  http.Handler
	inflight prometheus.Gauge
	reqTotal *prometheus.CounterVec
	reqDur   *prometheus.HistogramVec

	httpPanicTotal prometheus.Counter
	buildInfo      *prometheus.GaugeVec

	// version pipeline
	versionRequests  *prometheus.CounterVec
	versionRejected  *prometheus.CounterVec
	deprecatedServed *prometheus.CounterVec
}

// New returns a fresh registry + standard collectors + HTTP metrics.
// Safe labels only (method, route, code, version) to avoid path/cardinality
// explosions.
func New() *ServerMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &ServerMetrics{
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests",
		}),
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route, and status",
		}, []string{"method", "route", "status"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		httpPanicTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_panic_total",
			Help: "Total number of recovered http handler panics",
		}),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build metadata (value is always 1)",
		}, []string{"app", "version", "commit", "build_date", "go_version"}),
		versionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_version_requests_total",
			Help: "Requests that resolved to a supported API version",
		}, []string{"version"}),
		versionRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_version_rejected_total",
			Help: "Requests rejected for an unsupported API version",
		}, []string{"version"}),
		deprecatedServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_deprecated_responses_total",
			Help: "Responses annotated with deprecation headers, by version",
		}, []string{"version"}),
	}

	reg.MustRegister(
		m.inflight,
		m.reqTotal,
		m.reqDur,
		m.httpPanicTotal,
		m.buildInfo,
		m.versionRequests,
		m.versionRejected,
		m.deprecatedServed,
	)

	m.reg = reg
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return m
}

func (m *ServerMetrics) Handler() http.Handler { return m.handler }

func (m *ServerMetrics) IncHttpPanic() { m.httpPanicTotal.Inc() }

func (m *ServerMetrics) SetBuildInfoFromVersion(app string, vi version.Info) {
	m.buildInfo.WithLabelValues(app, vi.Version, vi.Commit, vi.BuildDate, vi.GoVersion).Set(1)
}

// httpmw.VersionMetrics implementation

func (m *ServerMetrics) VersionResolved(v string) { m.versionRequests.WithLabelValues(v).Inc() }

func (m *ServerMetrics) VersionRejected(v string) { m.versionRejected.WithLabelValues(v).Inc() }

func (m *ServerMetrics) DeprecatedServed(v string) { m.deprecatedServed.WithLabelValues(v).Inc() }
