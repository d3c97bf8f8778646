package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/liamg/memoryfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezerfernandes/mdinclude/internal/config"
)

const remoteReadme = `# Tool

Start with the [guide](docs/guide.md).

## Install

go install example.com/tool@latest

## License

MIT
`

// setup isolates the working directory and configuration and serves
// remoteReadme at /org/tool/README.md.
func setup(t *testing.T) (string, *httptest.Server) {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	mux := http.NewServeMux()
	mux.HandleFunc("/org/tool/README.md", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(remoteReadme))
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return dir, ts
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	err := run(args, strings.NewReader(stdin), &stdout, &stderr)

	return stdout.String(), stderr.String(), err
}

func TestRenderStdin(t *testing.T) {
	_, ts := setup(t)

	page := "# Local\n\n@include(\"" + ts.URL + "/org/tool/README.md\", \"## Install\")\nafter\n"

	stdout, stderr, err := execute(t, page, "render")
	require.NoError(t, err)

	assert.Equal(t, "# Local\n\n\ngo install example.com/tool@latest\n\n\nafter\n", stdout)
	assert.Empty(t, stderr)
}

func TestRenderWholeDocumentRewritesLinks(t *testing.T) {
	_, ts := setup(t)

	stdout, _, err := execute(t, "@include('"+ts.URL+"/org/tool/README.md')\n", "render", "-")
	require.NoError(t, err)

	assert.NotContains(t, stdout, "# Tool")
	assert.Contains(t, stdout, "[guide]("+ts.URL+"/org/tool/docs/guide.md)")
	assert.Contains(t, stdout, "## License\n\nMIT\n")
}

func TestRenderFailuresDegradeToEmpty(t *testing.T) {
	_, ts := setup(t)

	page := strings.Join([]string{
		"a",
		"@include(\"" + ts.URL + "/org/tool/missing.md\")",
		"@include(\"" + ts.URL + "/org/tool/README.md\", \"## Nope\")",
		"@include(\"" + ts.URL + "/org/tool/README.md\", \"Install\")",
		"@include(\"not a url\")",
		"@include(broken",
		"z",
	}, "\n")

	stdout, stderr, err := execute(t, page, "render")
	require.NoError(t, err)

	assert.Equal(t, "a\n\n\n\n\n\nz", stdout)
	assert.Contains(t, stderr, "returned status code: 404")
	assert.Contains(t, stderr, "section not found")
	assert.Contains(t, stderr, "missing markdown section level")
	assert.Contains(t, stderr, "not a valid markdown URL")
	assert.Contains(t, stderr, "skipping directive")
	assert.Contains(t, stderr, "line=6")
}

func TestRenderJSONLogsStayOffStdout(t *testing.T) {
	_, ts := setup(t)

	page := "@include(\"" + ts.URL + "/org/tool/README.md\", \"## Missing\")\n"

	stdout, stderr, err := execute(t, page, "render", "--log-format", "json")
	require.NoError(t, err)

	assert.Equal(t, "\n", stdout)
	assert.Contains(t, stderr, `"msg":"include failed"`)
	assert.Contains(t, stderr, `"section":"## Missing"`)
}

func TestRenderLeavesFencedDirectives(t *testing.T) {
	_, ts := setup(t)

	page := "```\n@include(\"" + ts.URL + "/org/tool/README.md\")\n```\n"

	stdout, _, err := execute(t, page, "render")
	require.NoError(t, err)
	assert.Equal(t, page, stdout)
}

func TestRenderExpandsEnvironment(t *testing.T) {
	_, ts := setup(t)
	t.Setenv("DOCS_HOST", ts.URL)

	stdout, _, err := execute(t, "@include(\"${DOCS_HOST}/org/tool/README.md\", \"## License\")\n", "render")
	require.NoError(t, err)
	assert.Equal(t, "\nMIT\n\n", stdout)
}

func TestRenderWriteDirectory(t *testing.T) {
	dir, ts := setup(t)

	directive := "@include(\"" + ts.URL + "/org/tool/README.md\", \"## License\") {title=keep}\n"

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs", "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs", ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "index.md"), []byte("# Index\n"+directive), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "sub", "page.md"), []byte(directive), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "notes.txt"), []byte(directive), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", ".git", "x.md"), []byte(directive), 0o644))

	stdout, stderr, err := execute(t, "", "render", "--write", "docs")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "updated "+filepath.Join("docs", "index.md"))

	got, err := os.ReadFile(filepath.Join(dir, "docs", "index.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Index\n\nMIT\n\n", string(got))

	got, err = os.ReadFile(filepath.Join(dir, "docs", "sub", "page.md"))
	require.NoError(t, err)
	assert.Equal(t, "\nMIT\n\n", string(got))

	for _, untouched := range []string{"notes.txt", filepath.Join(".git", "x.md")} {
		got, err = os.ReadFile(filepath.Join(dir, "docs", untouched))
		require.NoError(t, err)
		assert.Equal(t, directive, string(got), untouched)
	}
}

func TestRenderQuiet(t *testing.T) {
	dir, ts := setup(t)

	file := filepath.Join(dir, "page.md")
	require.NoError(t, os.WriteFile(file, []byte("@include(\""+ts.URL+"/org/tool/README.md\")\n"), 0o644))

	_, stderr, err := execute(t, "", "render", "-q", "-w", file)
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestRenderJobsKeepsOrder(t *testing.T) {
	_, ts := setup(t)

	var page strings.Builder
	for _, heading := range []string{"## License", "## Install", "## License", "## Missing", "## Install"} {
		page.WriteString("@include(\"" + ts.URL + "/org/tool/README.md\", \"" + heading + "\")\n")
	}

	sequential, _, err := execute(t, page.String(), "render")
	require.NoError(t, err)

	concurrent, _, err := execute(t, page.String(), "render", "--jobs", "3")
	require.NoError(t, err)

	assert.Equal(t, sequential, concurrent)
	assert.True(t, strings.HasPrefix(concurrent, "\nMIT\n\n\ngo install"))
}

func TestRenderRejectsMixedStdin(t *testing.T) {
	setup(t)

	_, _, err := execute(t, "", "render", "-", "README.md")
	require.ErrorIs(t, err, errStdinMixed)
}

func TestRenderInvalidJobs(t *testing.T) {
	setup(t)

	_, _, err := execute(t, "", "render", "--jobs", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jobs must be at least 1")
}

func TestFetch(t *testing.T) {
	_, ts := setup(t)

	stdout, _, err := execute(t, "", "fetch", ts.URL+"/org/tool/README.md", "## License")
	require.NoError(t, err)
	assert.Equal(t, "\nMIT\n", stdout)

	stdout, _, err = execute(t, "", "fetch", "--keep-title", "--keep-links", ts.URL+"/org/tool/README.md")
	require.NoError(t, err)
	assert.Equal(t, remoteReadme, stdout)
}

func TestFetchFails(t *testing.T) {
	_, ts := setup(t)

	_, _, err := execute(t, "", "fetch", ts.URL+"/org/tool/README.md", "## Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "section not found")

	_, _, err = execute(t, "", "fetch", ts.URL+"/org/tool/other.md")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestList(t *testing.T) {
	dir, _ := setup(t)

	content := "@include(\"https://h.io/a.md\", \"## A\") {links=keep}\n@include(nope)\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte(content), 0o644))

	stdout, _, err := execute(t, "", "list", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "URL")
	assert.Contains(t, lines[1], "https://h.io/a.md")
	assert.Contains(t, lines[1], "## A")
	assert.Contains(t, lines[1], "links=keep")
	assert.Contains(t, lines[2], "error: malformed include directive")
}

func TestHeadings(t *testing.T) {
	_, ts := setup(t)

	stdout, _, err := execute(t, "", "headings", ts.URL+"/org/tool/README.md")
	require.NoError(t, err)

	assert.Contains(t, stdout, "## Install")
	assert.Contains(t, stdout, "## License")
	assert.NotContains(t, stdout, "# Tool")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "mdinclude dev\n", stdout)
}

func TestMatchFiles(t *testing.T) {
	memfs := memoryfs.New()

	require.NoError(t, memfs.MkdirAll("docs/guide", 0o755))
	require.NoError(t, memfs.MkdirAll(".cache", 0o755))

	for _, name := range []string{"README.md", "docs/index.md", "docs/guide/setup.md", "docs/logo.png", ".cache/old.md"} {
		require.NoError(t, memfs.WriteFile(name, []byte("x"), 0o644))
	}

	globs, err := config.CompileGlobs([]string{"**.md"})
	require.NoError(t, err)

	names, err := matchFiles(memfs, globs)
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "docs/guide/setup.md", "docs/index.md"}, names)

	globs, err = config.CompileGlobs([]string{"docs/*.md", "*.png"})
	require.NoError(t, err)

	names, err = matchFiles(memfs, globs)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/index.md"}, names)
}
