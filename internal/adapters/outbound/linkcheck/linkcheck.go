// Package linkcheck validates documentation links: external URLs, internal
// file references, and diagram source/render pairs.
package linkcheck

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/relkit/relkit/internal/domain"
)

const (
	// External probes are a sample, not a crawl.
	maxExternalChecks = 10
	probeTimeout      = 10 * time.Second
)

var (
	urlPattern      = regexp.MustCompile(`https?://[^\s\)\]"'<>]+`)
	internalRefs    = regexp.MustCompile(`\]\((\./[^)#]+)\)`)
	trailingPunct   = regexp.MustCompile(`[.,;:]+$`)
)

// Checker implements domain.LinkChecker.
type Checker struct {
	client *http.Client
	// ProjectURL skips self-references: the repo URL does not resolve
	// until the release is published.
	ProjectURL string
}

func New(projectURL string) *Checker {
	return &Checker{
		client:     &http.Client{Timeout: probeTimeout},
		ProjectURL: projectURL,
	}
}

// CheckDocs validates links across the given markdown files (project-root
// relative). Findings cover broken internal references, failing external
// URLs, and .puml diagrams without rendered SVGs.
func (c *Checker) CheckDocs(ctx context.Context, root string, docFiles []string) []domain.Finding {
	var findings []domain.Finding
	external := map[string]bool{}

	for _, rel := range docFiles {
		path := filepath.Join(root, filepath.FromSlash(rel))
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		content := string(data)

		for _, url := range urlPattern.FindAllString(content, -1) {
			url = trailingPunct.ReplaceAllString(url, "")
			// SVG namespace URLs are identifiers, not links.
			if strings.Contains(url, "w3.org") {
				continue
			}
			external[url] = true
		}

		for _, m := range internalRefs.FindAllStringSubmatch(content, -1) {
			ref := m[1]
			refPath := filepath.Join(filepath.Dir(path), filepath.FromSlash(ref))
			if _, err := os.Stat(refPath); err != nil {
				findings = append(findings, domain.Finding{
					File:    rel,
					Message: fmt.Sprintf("broken reference %q", ref),
				})
			}
		}
	}

	findings = append(findings, c.probeExternal(ctx, external)...)
	findings = append(findings, checkDiagrams(root)...)
	return findings
}

func (c *Checker) probeExternal(ctx context.Context, urls map[string]bool) []domain.Finding {
	sorted := make([]string, 0, len(urls))
	for u := range urls {
		sorted = append(sorted, u)
	}
	sort.Strings(sorted)

	var findings []domain.Finding
	checked := 0
	for _, url := range sorted {
		if checked >= maxExternalChecks {
			break
		}
		if c.ProjectURL != "" && strings.HasPrefix(url, c.ProjectURL) {
			continue
		}
		checked++

		if err := c.probe(ctx, url); err != nil {
			findings = append(findings, domain.Finding{
				Message: fmt.Sprintf("%s (%v)", url, err),
			})
		}
	}
	return findings
}

// probe sends HEAD, falling back to GET when the server rejects the
// method.
func (c *Checker) probe(ctx context.Context, url string) error {
	status, err := c.request(ctx, http.MethodHead, url)
	if err != nil {
		return err
	}
	if status == http.StatusMethodNotAllowed {
		status, err = c.request(ctx, http.MethodGet, url)
		if err != nil {
			return err
		}
	}
	if status >= 400 {
		return fmt.Errorf("HTTP %d", status)
	}
	return nil
}

func (c *Checker) request(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (link validator)")
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// checkDiagrams verifies every PlantUML source in docs/diagrams has a
// rendered SVG next to it.
func checkDiagrams(root string) []domain.Finding {
	dir := filepath.Join(root, "docs", "diagrams")
	pumls, _ := filepath.Glob(filepath.Join(dir, "*.puml"))

	var findings []domain.Finding
	for _, puml := range pumls {
		svg := strings.TrimSuffix(puml, ".puml") + ".svg"
		if _, err := os.Stat(svg); err != nil {
			findings = append(findings, domain.Finding{
				File:    "docs/diagrams/" + filepath.Base(puml),
				Message: "missing rendered SVG",
			})
		}
	}
	return findings
}
