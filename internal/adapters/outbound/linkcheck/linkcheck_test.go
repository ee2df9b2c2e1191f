package linkcheck_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relkit/relkit/internal/adapters/outbound/linkcheck"
)

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCheckDocs_InternalReferences(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "docs/guide.md", "See [setup](./setup.md) and [missing](./nowhere.md).\n")
	writeDoc(t, root, "docs/setup.md", "# Setup\n")

	findings := linkcheck.New("").CheckDocs(context.Background(), root, []string{"docs/guide.md"})
	require.Len(t, findings, 1)
	assert.Equal(t, "docs/guide.md", findings[0].File)
	assert.Contains(t, findings[0].Message, "./nowhere.md")
}

func TestCheckDocs_ExternalProbes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	root := t.TempDir()
	writeDoc(t, root, "README.md", fmt.Sprintf("[ok](%s/fine) and [broken](%s/gone).\n", srv.URL, srv.URL))

	findings := linkcheck.New("").CheckDocs(context.Background(), root, []string{"README.md"})
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "/gone")
	assert.Contains(t, findings[0].Message, "HTTP 404")
}

func TestCheckDocs_ProjectURLSkipped(t *testing.T) {
	// the project's own repo URL does not resolve before the first push
	root := t.TempDir()
	writeDoc(t, root, "README.md", "[repo](https://git.invalid/widgets/widgetkit)\n")

	checker := linkcheck.New("https://git.invalid/widgets/widgetkit")
	assert.Empty(t, checker.CheckDocs(context.Background(), root, []string{"README.md"}))
}

func TestCheckDocs_W3OrgIgnored(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "README.md", `<svg xmlns="http://www.w3.org/2000/svg"></svg>`+"\n")

	assert.Empty(t, linkcheck.New("").CheckDocs(context.Background(), root, []string{"README.md"}))
}

func TestCheckDocs_DiagramPairs(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "docs/diagrams/flow.puml", "@startuml\n@enduml\n")
	writeDoc(t, root, "docs/diagrams/arch.puml", "@startuml\n@enduml\n")
	writeDoc(t, root, "docs/diagrams/arch.svg", "<svg/>\n")

	findings := linkcheck.New("").CheckDocs(context.Background(), root, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, "docs/diagrams/flow.puml", findings[0].File)
	assert.Contains(t, findings[0].Message, "missing rendered SVG")
}
