// Package textutil has small string helpers shared by logging and tooling.
package textutil

import (
	"fmt"
	"net/http"
	"strings"
)

// sensitiveHeaders are masked before headers reach a log record.
var sensitiveHeaders = map[string]struct{}{
	"authorization":       {},
	"cookie":              {},
	"set-cookie":          {},
	"x-api-key":           {},
	"proxy-authorization": {},
}

// SanitizeHeaders flattens headers for logging, masking sensitive values.
func SanitizeHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vals := range h {
		if _, ok := sensitiveHeaders[strings.ToLower(k)]; ok {
			out[k] = Mask(strings.Join(vals, ", "))
			continue
		}
		out[k] = strings.Join(vals, ", ")
	}
	return out
}

// Mask hides a secret, keeping two characters on each end when long enough
// to be useful for correlation.
func Mask(s string) string {
	if len(s) <= 4 {
		return "***"
	}
	return s[:2] + "***" + s[len(s)-2:]
}

// FormatSize renders a byte count human-readable, e.g. "1.5 MB".
func FormatSize(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}
