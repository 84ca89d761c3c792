package apiversion

import (
	"github.com/kmercer/jobs-api/internal/xerrors"
)

// DeprecatedVersion is the retirement metadata for a single API version.
// Sunset is carried verbatim into the Sunset response header; no date parsing
// happens at this layer.
type DeprecatedVersion struct {
	Sunset      string `koanf:"sunset" json:"sunset"`
	Replacement string `koanf:"replacement" json:"replacement"`
	DocsURL     string `koanf:"docs_url" json:"docs_url,omitempty"`
}

// SuccessorDocsURL returns the documentation URL advertised in the Link
// header: the configured docs_url, or the successor's default docs path.
func (d DeprecatedVersion) SuccessorDocsURL() string {
	if d.DocsURL != "" {
		return d.DocsURL
	}
	return "/api/" + d.Replacement + "/docs"
}

// Registry maps deprecated version identifiers to their retirement metadata.
// Loaded once at startup and read-only afterwards.
type Registry map[string]DeprecatedVersion

// Lookup returns the entry for v, if v is deprecated.
func (r Registry) Lookup(v string) (DeprecatedVersion, bool) {
	d, ok := r[v]
	return d, ok
}

// Validate rejects malformed registry entries. A deprecated version without a
// replacement is a configuration defect: the server refuses to start rather
// than emit broken successor links at request time.
func (r Registry) Validate() error {
	for v, d := range r {
		if !IsToken(v) {
			return xerrors.Newf("deprecated version %q: invalid identifier (want v<digits>)", v)
		}
		if d.Replacement == "" {
			return xerrors.Newf("deprecated version %q: replacement is required", v)
		}
		if !IsToken(d.Replacement) {
			return xerrors.Newf("deprecated version %q: invalid replacement %q (want v<digits>)", v, d.Replacement)
		}
		if d.Sunset == "" {
			return xerrors.Newf("deprecated version %q: sunset date is required", v)
		}
	}
	return nil
}
