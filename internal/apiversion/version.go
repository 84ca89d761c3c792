// Package apiversion holds the API version vocabulary for the service: which
// versions exist, which are deprecated, and which version a given request
// resolved to. Both tables are built once at startup and are read-only
// afterwards, so request handling reads them without locking.
package apiversion

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kmercer/jobs-api/internal/xerrors"
)

// tokenRe matches a whole version identifier: "v" followed by digits.
var tokenRe = regexp.MustCompile(`^v[0-9]+$`)

// IsToken reports whether s has the form of a version identifier.
func IsToken(s string) bool { return tokenRe.MatchString(s) }

// FromPath returns the version token occupying the path segment immediately
// after a literal "/api/" prefix, or "" when the path carries none.
// "/api/jobs" and "/api/v1x/jobs" are unversioned; "/api/v1/jobs" is v1.
func FromPath(path string) string {
	const prefix = "/api/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	seg, _, _ := strings.Cut(path[len(prefix):], "/")
	if IsToken(seg) {
		return seg
	}
	return ""
}

// Set is the immutable collection of version identifiers this process
// accepts. Built once at startup; safe for unsynchronized concurrent reads.
type Set map[string]struct{}

func NewSet(versions ...string) (Set, error) {
	s := make(Set, len(versions))
	for _, v := range versions {
		if !IsToken(v) {
			return nil, xerrors.Newf("invalid version identifier %q (want v<digits>)", v)
		}
		s[v] = struct{}{}
	}
	return s, nil
}

func (s Set) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

// List returns the members sorted, for logging.
func (s Set) List() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
