// ABOUTME: Tests for document loading from disk
// ABOUTME: Front matter parsing, title fallbacks, and URL derivation
package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDirFrontMatterTitle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "chapter-1/intro.md", "---\ntitle: \"Introduction\"\nweight: 1\n---\n\nWelcome to the book.")

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "Introduction", doc.Title)
	assert.Equal(t, "chapter-1_intro", doc.ID)
	assert.Equal(t, "/chapter-1/intro", doc.URL)
	assert.Equal(t, "Welcome to the book.", doc.Content)
	assert.NotContains(t, doc.Content, "weight:", "front matter is stripped")
}

func TestLoadDirHeadingTitleFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "# Study Notes\n\nSome content here.")

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Study Notes", docs[0].Title)
}

func TestLoadDirFilenameTitleFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cell-biology_basics.txt", "Cells are the basic unit of life.")

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "cell biology basics", docs[0].Title)
}

func TestLoadDirSkipsNonSourceAndHidden(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.md", "kept content")
	writeFile(t, dir, "image.png", "binary-ish")
	writeFile(t, dir, "data.json", "{}")
	writeFile(t, dir, ".git/config", "hidden")

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "keep", docs[0].ID)
}

func TestLoadDirSkipsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.md", "   \n\n")

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSplitFrontMatterWithoutBlock(t *testing.T) {
	meta, body := splitFrontMatter("no front matter here")
	assert.Empty(t, meta)
	assert.Equal(t, "no front matter here", body)
}
