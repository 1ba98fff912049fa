package catalog

import (
	"context"
	"runtime"
	"sync"

	"github.com/fwojciec/apicat"
	"golang.org/x/sync/errgroup"
)

// Loader runs the load pipeline: open the container, parse the table of
// contents, extract every page and build the catalog.
type Loader struct {
	opener apicat.ArchiveOpener
	parser apicat.PageParser

	// Concurrency bounds parallel page extraction. Zero uses GOMAXPROCS.
	Concurrency int
}

// NewLoader creates a Loader.
func NewLoader(opener apicat.ArchiveOpener, parser apicat.PageParser) *Loader {
	return &Loader{opener: opener, parser: parser}
}

// Load builds a new catalog from the container at path. Archive and table
// of contents failures abort the load; page failures are recorded in the
// catalog's statistics. Cancellation is checked before each page.
func (l *Loader) Load(ctx context.Context, path string) (*Catalog, error) {
	archive, err := l.opener.Open(path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	toc, err := archive.TOC()
	if err != nil {
		return nil, err
	}

	var paths []string
	seen := make(map[string]bool)
	toc.Walk(func(n *apicat.TOCNode, _ int) bool {
		if n.Path != "" && !seen[n.Path] {
			seen[n.Path] = true
			paths = append(paths, n.Path)
		}
		return true
	})

	pages := make(map[string]*apicat.Page, len(paths))
	failures := make([]*apicat.PageFailure, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency())
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			page, err := l.parsePage(archive, p)
			if err != nil {
				failures[i] = &apicat.PageFailure{
					PageID:  p,
					Code:    apicat.ErrorCode(err),
					Message: apicat.ErrorMessage(err),
				}
				return nil
			}
			mu.Lock()
			pages[p] = page
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := LoadReport{TOCNodes: toc.Len(), Pages: len(paths)}
	for _, f := range failures {
		if f != nil {
			report.Failures = append(report.Failures, *f)
		}
	}
	return New(Build(toc, pages), report), nil
}

func (l *Loader) parsePage(archive apicat.Archive, id string) (*apicat.Page, error) {
	rc, err := archive.ReadEntry(id)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return l.parser.Parse(id, rc)
}

func (l *Loader) concurrency() int {
	if l.Concurrency > 0 {
		return l.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}
