package httpmw

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kmercer/jobs-api/internal/apiversion"
	"github.com/kmercer/jobs-api/internal/log"
)

// VersionMetrics receives version pipeline events. Implemented by the metrics
// package; nil disables instrumentation.
type VersionMetrics interface {
	VersionResolved(version string)
	VersionRejected(version string)
	DeprecatedServed(version string)
}

// VersionOptions configures version resolution.
type VersionOptions struct {
	Supported apiversion.Set

	// Paths that skip version handling entirely. Zero values get the
	// defaults: exact "/", prefixes "/health" and "/docs".
	BypassExact    []string
	BypassPrefixes []string

	Metrics VersionMetrics
}

func (o *VersionOptions) bypass(path string) bool {
	exact := o.BypassExact
	if exact == nil {
		exact = []string{"/"}
	}
	prefixes := o.BypassPrefixes
	if prefixes == nil {
		prefixes = []string{"/health", "/docs"}
	}
	for _, p := range exact {
		if path == p {
			return true
		}
	}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// ResolveVersion extracts and validates the API version from the request
// path. Unversioned paths pass through untouched. A recognized but
// unsupported version short-circuits the chain with a 404 and a JSON body
// naming the version; the rest of the chain never runs. A supported version
// is stored in the request context for downstream stages.
func ResolveVersion(opts VersionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if opts.bypass(path) {
				next.ServeHTTP(w, r)
				return
			}

			version := apiversion.FromPath(path)
			if version == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			if !opts.Supported.Contains(version) {
				if opts.Metrics != nil {
					opts.Metrics.VersionRejected(version)
				}
				log.FromContext(ctx).Warn(ctx, "unsupported api version requested",
					"api_version", version,
				)
				writeVersionNotFound(w, version)
				return
			}

			if opts.Metrics != nil {
				opts.Metrics.VersionResolved(version)
			}
			if span := trace.SpanFromContext(ctx); span != nil && span.IsRecording() {
				span.SetAttributes(attribute.String("api.version", version))
			}

			ctx = apiversion.WithContext(ctx, version)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type versionNotFound struct {
	Detail string `json:"detail"`
}

func writeVersionNotFound(w http.ResponseWriter, version string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(versionNotFound{
		Detail: "API version " + version + " not found",
	})
}
