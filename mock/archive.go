package mock

import (
	"io"
	"iter"

	"github.com/fwojciec/apicat"
)

var _ apicat.Archive = (*Archive)(nil)

// Archive is a mock implementation of apicat.Archive.
type Archive struct {
	EntriesFn   func() iter.Seq[string]
	ReadEntryFn func(id string) (io.ReadCloser, error)
	TOCFn       func() (*apicat.TOC, error)
	CloseFn     func() error
}

func (a *Archive) Entries() iter.Seq[string] {
	return a.EntriesFn()
}

func (a *Archive) ReadEntry(id string) (io.ReadCloser, error) {
	return a.ReadEntryFn(id)
}

func (a *Archive) TOC() (*apicat.TOC, error) {
	return a.TOCFn()
}

func (a *Archive) Close() error {
	if a.CloseFn == nil {
		return nil
	}
	return a.CloseFn()
}

var _ apicat.ArchiveOpener = (*ArchiveOpener)(nil)

// ArchiveOpener is a mock implementation of apicat.ArchiveOpener.
type ArchiveOpener struct {
	OpenFn func(path string) (apicat.Archive, error)
}

func (o *ArchiveOpener) Open(path string) (apicat.Archive, error) {
	return o.OpenFn(path)
}
