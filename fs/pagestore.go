// Package fs exports rendered help pages as Markdown files.
package fs

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/apicat"
)

// Document is one help page rendered to Markdown.
type Document struct {
	PageID   string
	Title    string
	Kind     apicat.NodeKind
	Markdown string
}

// PagePath converts a page entry id to a relative Markdown file path.
// Example: objects/Array/methods/Add.html → objects/Array/methods/Add.md
func PagePath(id string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(id, "\\", "/"))
	if clean == "/" || strings.Contains(id, "..") {
		return "", apicat.Errorf(apicat.EINVALID, "invalid page id %q: path traversal or empty", id)
	}
	clean = strings.TrimPrefix(clean, "/")
	clean = strings.TrimSuffix(clean, path.Ext(clean))
	return filepath.FromSlash(clean + ".md"), nil
}

// FormatDocument formats a document with YAML frontmatter.
func FormatDocument(doc *Document) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("page: ")
	b.WriteString(doc.PageID)
	b.WriteString("\ntitle: ")
	b.WriteString(doc.Title)
	if doc.Kind != "" {
		b.WriteString("\nkind: ")
		b.WriteString(string(doc.Kind))
	}
	b.WriteString("\n---\n\n")
	if doc.Title != "" {
		b.WriteString("# ")
		b.WriteString(doc.Title)
		b.WriteString("\n\n")
	}
	b.WriteString(strings.TrimRight(doc.Markdown, "\n"))
	b.WriteString("\n")
	return b.String()
}

// FileStore writes documents with atomic update semantics.
// Documents are saved to a temporary directory, then moved on Commit.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes doc under the temporary directory.
func (s *FileStore) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relPath, err := PagePath(doc.PageID)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(FormatDocument(doc)), 0o644)
}

// Commit replaces the output directory with the saved documents.
func (s *FileStore) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved documents.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
