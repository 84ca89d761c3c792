package httpmw

import (
	"net/http"

	"github.com/kmercer/jobs-api/internal/apiversion"
)

// DeprecationHeaders stamps RFC 8594 headers on responses for requests that
// resolved to a deprecated API version. Runs inside ResolveVersion so the
// resolved version is already in the request context; headers are set before
// the handler writes, so they ride out on whatever response it produces.
//
// Requests with no resolved version, or a version absent from the registry,
// pass through untouched. Header values are overwritten, never appended, so
// re-annotation is a no-op.
func DeprecationHeaders(registry apiversion.Registry, m VersionMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			version := apiversion.FromContext(r.Context())
			if version != "" {
				if d, ok := registry.Lookup(version); ok {
					h := w.Header()
					h.Set("Deprecation", "true")
					h.Set("Sunset", d.Sunset)
					h.Set("Link", `<`+d.SuccessorDocsURL()+`>; rel="successor-version"`)
					if m != nil {
						m.DeprecatedServed(version)
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
