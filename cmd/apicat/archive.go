package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fwojciec/apicat"
	"github.com/fwojciec/apicat/fs"
)

// Run executes the toc command.
func (c *TOCCmd) Run(deps *Dependencies) error {
	archive, err := deps.Opener.Open(deps.Archive)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}
	defer archive.Close()

	toc, err := archive.TOC()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}

	toc.Walk(func(n *apicat.TOCNode, depth int) bool {
		if n.IsRoot() {
			return true
		}
		line := strings.Repeat("  ", depth-1) + n.Title + " [" + string(n.Kind) + "]"
		if n.Path != "" {
			line += " " + n.Path
		}
		fmt.Fprintln(deps.Stdout, line)
		return c.Depth == 0 || depth < c.Depth
	})
	return nil
}

// Run executes the page command.
func (c *PageCmd) Run(deps *Dependencies) error {
	archive, err := deps.Opener.Open(deps.Archive)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}
	defer archive.Close()

	rc, err := archive.ReadEntry(c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		if apicat.ErrorCode(err) == apicat.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Hint: use 'apicat toc' to list page ids")
		}
		return err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}
	if c.Raw {
		_, err = deps.Stdout.Write(raw)
		return err
	}

	title, md, err := renderPage(deps, raw)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}
	if title != "" {
		fmt.Fprintf(deps.Stdout, "# %s\n\n", title)
	}
	if md != "" {
		fmt.Fprintln(deps.Stdout, md)
	}
	return nil
}

// renderPage extracts a page's title and converts its content to Markdown.
func renderPage(deps *Dependencies, raw []byte) (title, md string, err error) {
	page, err := deps.Extractor.Extract(string(raw))
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(page.ContentHTML) == "" {
		return page.Title, "", nil
	}
	md, err = deps.Converter.Convert(page.ContentHTML)
	if err != nil {
		return "", "", err
	}
	return page.Title, strings.TrimRight(md, "\n"), nil
}

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	archive, err := deps.Opener.Open(deps.Archive)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}
	defer archive.Close()

	toc, err := archive.TOC()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}

	dir := filepath.Clean(c.Dir)
	store := fs.NewFileStore(filepath.Dir(dir), filepath.Base(dir))

	var exported, failed int
	seen := make(map[string]bool)
	var walkErr error
	toc.Walk(func(n *apicat.TOCNode, _ int) bool {
		if walkErr != nil {
			return false
		}
		if n.Path == "" || seen[n.Path] {
			return true
		}
		seen[n.Path] = true

		doc, err := exportPage(archive, deps, n)
		if err == nil {
			err = store.Save(deps.Ctx, doc)
		}
		switch {
		case deps.Ctx.Err() != nil:
			walkErr = deps.Ctx.Err()
		case err != nil:
			failed++
			deps.Logger.Warn("export page", "page", n.Path, "code", apicat.ErrorCode(err), "err", apicat.ErrorMessage(err))
		default:
			exported++
		}
		return true
	})
	if walkErr != nil {
		_ = store.Abort()
		return walkErr
	}
	if exported == 0 {
		err := apicat.Errorf(apicat.EINVALID, "no pages exported (%d failed)", failed)
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}
	if err := store.Commit(); err != nil {
		_ = store.Abort()
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d pages to %s", exported, dir)
	if failed > 0 {
		fmt.Fprintf(deps.Stdout, " (%d failed)", failed)
	}
	fmt.Fprintln(deps.Stdout)
	return nil
}

func exportPage(archive apicat.Archive, deps *Dependencies, n *apicat.TOCNode) (*fs.Document, error) {
	rc, err := archive.ReadEntry(n.Path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	title, md, err := renderPage(deps, raw)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = n.Title
	}
	return &fs.Document{PageID: n.Path, Title: title, Kind: n.Kind, Markdown: md}, nil
}
