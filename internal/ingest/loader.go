// ABOUTME: Loads textbook source files from disk for indexing
// ABOUTME: Handles markdown front matter, title discovery, and URL derivation
package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Document is one source file ready for chunking.
type Document struct {
	ID      string
	Title   string
	URL     string
	Content string
}

var sourceExtensions = map[string]bool{
	".md":  true,
	".mdx": true,
	".txt": true,
}

// LoadDir walks root and loads every markdown and text file beneath it.
func LoadDir(root string) ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !sourceExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		doc, err := loadFile(root, path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		if doc.Content != "" {
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func loadFile(root, path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}

	content := string(raw)
	frontMatter, body := splitFrontMatter(content)

	title := frontMatter["title"]
	if title == "" {
		title = firstHeading(body)
	}
	if title == "" {
		title = titleFromFilename(rel)
	}

	return Document{
		ID:      docID(rel),
		Title:   title,
		URL:     urlFromPath(rel),
		Content: strings.TrimSpace(body),
	}, nil
}

// splitFrontMatter strips a leading YAML front matter block and returns its
// simple key: value pairs plus the remaining body. Nested YAML is ignored.
func splitFrontMatter(content string) (map[string]string, string) {
	meta := map[string]string{}
	if !strings.HasPrefix(content, "---\n") && !strings.HasPrefix(content, "---\r\n") {
		return meta, content
	}

	rest := content[strings.Index(content, "\n")+1:]
	endIdx := strings.Index(rest, "\n---")
	if endIdx < 0 {
		return meta, content
	}

	for _, line := range strings.Split(rest[:endIdx], "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		if key != "" && value != "" {
			meta[key] = value
		}
	}

	body := rest[endIdx+len("\n---"):]
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:]
	}
	return meta, body
}

func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

func titleFromFilename(rel string) string {
	base := filepath.Base(rel)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	return strings.TrimSpace(base)
}

func docID(rel string) string {
	id := filepath.ToSlash(rel)
	id = strings.TrimSuffix(id, filepath.Ext(id))
	return strings.ReplaceAll(id, "/", "_")
}

func urlFromPath(rel string) string {
	url := filepath.ToSlash(rel)
	url = strings.TrimSuffix(url, filepath.Ext(url))
	return "/" + url
}
