package httpmw

import "net/http"

// SecurityHeaders adds the header set appropriate for a JSON API: no content
// sniffing, no framing, no referrer leakage. CSP and the browser-feature
// policies from full web frontends are intentionally omitted.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}
