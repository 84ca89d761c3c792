// Command update-badges rewrites the version badges in README.md from the
// dependency versions pinned in go.mod. The badge block sits between
// <!-- BADGES:START --> and <!-- BADGES:END --> markers.
package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/mod/modfile"
)

const (
	startMarker = "<!-- BADGES:START -->"
	endMarker   = "<!-- BADGES:END -->"
)

// badgeDeps maps badge labels to the module paths whose versions they show.
var badgeDeps = []struct {
	label string
	path  string
	color string
}{
	{"chi", "github.com/go-chi/chi/v5", "green"},
	{"OpenTelemetry", "go.opentelemetry.io/otel", "blue"},
	{"Prometheus", "github.com/prometheus/client_golang", "orange"},
}

func main() {
	var (
		readmePath = flag.String("readme", "README.md", "path to the README to update")
		goModPath  = flag.String("gomod", "go.mod", "path to go.mod to read versions from")
		dryRun     = flag.Bool("dry-run", false, "show changes without modifying files")
	)
	flag.Parse()

	changed, err := updateBadges(*readmePath, *goModPath, *dryRun)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if !changed {
		fmt.Println("No changes needed - badges are already up to date.")
	}
}

func updateBadges(readmePath, goModPath string, dryRun bool) (bool, error) {
	versions, err := depVersions(goModPath)
	if err != nil {
		return false, err
	}

	content, err := os.ReadFile(readmePath)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", readmePath, err)
	}

	updated, err := replaceBadgeBlock(string(content), generateBadges(versions))
	if err != nil {
		return false, err
	}
	if updated == string(content) {
		return false, nil
	}

	if dryRun {
		fmt.Println("DRY RUN - would update badge block to:")
		fmt.Println(generateBadges(versions))
		return true, nil
	}

	if err := os.WriteFile(readmePath, []byte(updated), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", readmePath, err)
	}
	fmt.Printf("Updated badges in %s\n", readmePath)
	return true, nil
}

// depVersions returns module path -> version for everything in the require
// block, plus the toolchain version under the pseudo-path "go".
func depVersions(goModPath string) (map[string]string, error) {
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", goModPath, err)
	}
	mf, err := modfile.Parse(goModPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", goModPath, err)
	}

	out := make(map[string]string, len(mf.Require)+1)
	if mf.Go != nil {
		out["go"] = mf.Go.Version
	}
	for _, r := range mf.Require {
		out[r.Mod.Path] = r.Mod.Version
	}
	return out, nil
}

func generateBadges(versions map[string]string) string {
	var b strings.Builder
	if goVer, ok := versions["go"]; ok {
		b.WriteString(badge("Go", goVer, "00ADD8"))
		b.WriteString("\n")
	}
	for _, d := range badgeDeps {
		v, ok := versions[d.path]
		if !ok {
			v = "unknown"
		}
		b.WriteString(badge(d.label, strings.TrimPrefix(v, "v"), d.color))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func badge(label, message, color string) string {
	enc := func(s string) string {
		s = strings.ReplaceAll(s, "-", "--")
		return strings.ReplaceAll(s, " ", "%20")
	}
	return fmt.Sprintf("![%s](https://img.shields.io/badge/%s-%s-%s.svg)", label, enc(label), enc(message), color)
}

func replaceBadgeBlock(content, badges string) (string, error) {
	if !strings.Contains(content, startMarker) || !strings.Contains(content, endMarker) {
		return "", fmt.Errorf("badge markers not found (add %s and %s)", startMarker, endMarker)
	}
	re := regexp.MustCompile(`(?s)` + regexp.QuoteMeta(startMarker) + `.*?` + regexp.QuoteMeta(endMarker))
	return re.ReplaceAllString(content, startMarker+"\n"+badges+"\n"+endMarker), nil
}
