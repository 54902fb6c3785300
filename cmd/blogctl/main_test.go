package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/techblog/internal/cms"
)

const guideMarkdown = "# Guide\n\nIntro text.\n\n## Setup\n\nRun it.\n\n```\ngo run .\n```\n"

const storedDocument = `{"root":{"type":"root","children":[
	{"type":"heading","tag":"h2","children":[{"type":"text","text":"Getting started","format":0}]},
	{"type":"paragraph","children":[{"type":"text","text":"Plain words here.","format":0}]}
]}}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRender_MarkdownFileToHTML(t *testing.T) {
	path := writeFile(t, "guide.md", guideMarkdown)

	out, err := execute(t, "render", path)
	require.NoError(t, err)
	assert.Contains(t, out, "<h2")
	assert.Contains(t, out, "Setup")
	assert.Contains(t, out, "Run it.")
	assert.Contains(t, out, "code-block")
	assert.NotContains(t, out, "Guide", "leading h1 becomes the title")
}

func TestRender_StoredDocumentToMarkdown(t *testing.T) {
	path := writeFile(t, "post.json", storedDocument)

	out, err := execute(t, "render", "--markdown", path)
	require.NoError(t, err)
	assert.Contains(t, out, "## Getting started")
	assert.Contains(t, out, "Plain words here.")
}

func TestInspect_Summary(t *testing.T) {
	path := writeFile(t, "guide.md", guideMarkdown)

	out, err := execute(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Guide")
	assert.Contains(t, out, "Blocks:       4")
	assert.Contains(t, out, "Reading time: 1 min")
	assert.Contains(t, out, "paragraph h2 paragraph code")
}

func TestInspect_Dump(t *testing.T) {
	path := writeFile(t, "guide.md", guideMarkdown)

	out, err := execute(t, "inspect", "--dump", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Root:")
	assert.Contains(t, out, `"Intro text."`)
}

func TestImport_TitleNeedsSingleFile(t *testing.T) {
	a := writeFile(t, "a.md", "one")
	b := writeFile(t, "b.md", "two")

	_, err := execute(t, "import", "--title", "Both", a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single file")
}

func TestImport_RequiresAPIKey(t *testing.T) {
	t.Setenv("CMS_URL", "http://cms.invalid/api")
	t.Setenv("CMS_API_KEY", "")
	path := writeFile(t, "a.md", "one")

	_, err := execute(t, "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CMS_API_KEY")
}

func TestLoadDocument_Errors(t *testing.T) {
	_, _, err := loadDocument(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)

	_, _, err = loadDocument(writeFile(t, "notes.xyz", "text"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")

	_, _, err = loadDocument(writeFile(t, "bad.json", `{"root":`))
	assert.Error(t, err)
}

func TestLoadDocument_StoredTitleFromFilename(t *testing.T) {
	doc, title, err := loadDocument(writeFile(t, "release-notes.json", storedDocument))
	require.NoError(t, err)
	assert.Equal(t, "release-notes", title)
	assert.Len(t, doc.Root.Children, 2)
}

func TestFormatRow_TruncatesByDisplayWidth(t *testing.T) {
	row := formatRow([]string{"id1", "2025-01-02", strings.Repeat("長", 40), "Go"})

	want := 24 + 2 + 10 + 2 + 48 + 2 + len("Go")
	assert.Equal(t, want, runewidth.StringWidth(row))
	assert.Contains(t, row, "…")
}

func TestReadingMinutes(t *testing.T) {
	assert.Equal(t, 1, readingMinutes(0))
	assert.Equal(t, 1, readingMinutes(200))
	assert.Equal(t, 2, readingMinutes(201))
}

func TestPostMarkdown(t *testing.T) {
	published := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	post := &cms.Post{
		ID:            "p1",
		Title:         "Hello",
		Excerpt:       "A short intro",
		Content:       json.RawMessage(storedDocument),
		PublishedDate: &published,
	}

	md, err := postMarkdown(post)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "# Hello\n\n"))
	assert.Contains(t, md, "March 4, 2025")
	assert.Contains(t, md, "> A short intro")
	assert.Contains(t, md, "## Getting started")

	post.Content = json.RawMessage(`[]`)
	md, err = postMarkdown(post)
	require.NoError(t, err)
	assert.Contains(t, md, "could not be displayed")
}

func TestList_PrintsTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"docs":[{"id":"p1","title":"First post","slug":"first-post","status":"published",
			"createdAt":"2025-01-02T00:00:00Z","category":{"id":"c1","name":"Go","slug":"go"}}],
			"totalDocs":1,"totalPages":1,"page":1}`))
	}))
	defer srv.Close()
	t.Setenv("CMS_URL", srv.URL+"/api")

	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "First post")
	assert.Contains(t, out, "2025-01-02")
	assert.Contains(t, out, "Go")
	assert.Contains(t, out, "page 1 of 1 · 1 posts")
}
