package apiversion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRegistry(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "versions.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write registry: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Supported) != 1 || cfg.Supported[0] != "v1" {
		t.Fatalf("Supported = %v, want [v1]", cfg.Supported)
	}
	if len(cfg.Registry()) != 0 {
		t.Fatalf("Registry() = %v, want empty", cfg.Registry())
	}
}

func TestLoad_File(t *testing.T) {
	path := writeRegistry(t, `
supported: [v1, v2]
deprecated:
  v1:
    sunset: "2026-04-22"
    replacement: v2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	set, err := cfg.SupportedSet()
	if err != nil {
		t.Fatalf("SupportedSet: %v", err)
	}
	if !set.Contains("v1") || !set.Contains("v2") {
		t.Fatalf("set = %v", set.List())
	}

	d, ok := cfg.Registry().Lookup("v1")
	if !ok {
		t.Fatal("v1 not in registry")
	}
	if d.Sunset != "2026-04-22" || d.Replacement != "v2" {
		t.Fatalf("entry = %+v", d)
	}
	if d.SuccessorDocsURL() != "/api/v2/docs" {
		t.Fatalf("SuccessorDocsURL = %q", d.SuccessorDocsURL())
	}
}

func TestLoad_EnvOverridesSupported(t *testing.T) {
	path := writeRegistry(t, `supported: [v1]`)
	t.Setenv("JOBSAPI_VERSIONS_SUPPORTED", "v1 v2 v3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Supported) != 3 {
		t.Fatalf("Supported = %v, want three entries", cfg.Supported)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_RejectsDeprecatedWithoutReplacement(t *testing.T) {
	path := writeRegistry(t, `
supported: [v1]
deprecated:
  v1:
    sunset: "2026-04-22"
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "replacement is required") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoad_RejectsMalformedSupported(t *testing.T) {
	path := writeRegistry(t, `supported: [one]`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for malformed supported version")
	}
}
