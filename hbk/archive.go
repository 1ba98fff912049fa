package hbk

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/fwojciec/apicat"
)

// Ensure types implement the archive interfaces at compile time.
var (
	_ apicat.Archive       = (*Archive)(nil)
	_ apicat.ArchiveOpener = (*Opener)(nil)
)

// Opener opens book containers from the filesystem.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open reads the container at path.
func (o *Opener) Open(path string) (apicat.Archive, error) {
	return Open(path)
}

// Archive is an opened syntax-helper book.
type Archive struct {
	elements map[string][]byte
	files    []*zip.File
	byID     map[string]*zip.File
}

// Open reads and decodes the container at path.
func Open(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a container held in memory.
func Parse(data []byte) (*Archive, error) {
	elements, err := parseContainer(data)
	if err != nil {
		return nil, err
	}

	a := &Archive{
		elements: make(map[string][]byte, len(elements)),
		byID:     make(map[string]*zip.File),
	}
	for _, el := range elements {
		a.elements[el.name] = el.data
	}

	storage, ok := a.elements[FileStorageElement]
	if !ok {
		return nil, apicat.Errorf(apicat.ECORRUPT, "container has no %s element", FileStorageElement)
	}
	zr, err := zip.NewReader(bytes.NewReader(storage), int64(len(storage)))
	if err != nil {
		return nil, apicat.Errorf(apicat.ECORRUPT, "file storage: %v", err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		id := NormalizeID(f.Name)
		if _, dup := a.byID[id]; dup {
			continue
		}
		a.files = append(a.files, f)
		a.byID[id] = f
	}
	return a, nil
}

// NormalizeID converts a page path as written in the TOC or the file
// storage into the entry id used for lookups.
func NormalizeID(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return strings.TrimPrefix(p, "/")
}

// Entries yields page entry ids in storage order.
func (a *Archive) Entries() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range a.files {
			if !yield(NormalizeID(f.Name)) {
				return
			}
		}
	}
}

// EntryInfo describes every page entry in storage order.
func (a *Archive) EntryInfo() []apicat.ArchiveEntry {
	out := make([]apicat.ArchiveEntry, len(a.files))
	for i, f := range a.files {
		out[i] = apicat.ArchiveEntry{
			ID:             NormalizeID(f.Name),
			CompressedSize: int64(f.CompressedSize64),
			Size:           int64(f.UncompressedSize64),
		}
	}
	return out
}

// ReadEntry returns a decompressing reader for the entry.
// Corruption detected while reading surfaces as EDECOMPRESS from Read.
func (a *Archive) ReadEntry(id string) (io.ReadCloser, error) {
	f, ok := a.byID[NormalizeID(id)]
	if !ok {
		return nil, apicat.Errorf(apicat.ENOTFOUND, "entry %q not found", id)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, apicat.Errorf(apicat.EDECOMPRESS, "entry %q: %v", id, err)
	}
	return &entryReader{id: id, rc: rc}, nil
}

// TOC reads and parses the table of contents.
func (a *Archive) TOC() (*apicat.TOC, error) {
	raw, err := a.tocBytes()
	if err != nil {
		return nil, err
	}
	return ParseTOC(raw)
}

func (a *Archive) tocBytes() ([]byte, error) {
	pack, ok := a.elements[PackBlockElement]
	if !ok {
		return nil, apicat.Errorf(apicat.ETOC, "table of contents entry missing")
	}
	zr, err := zip.NewReader(bytes.NewReader(pack), int64(len(pack)))
	if err != nil {
		return nil, apicat.Errorf(apicat.ETOC, "table of contents truncated: %v", err)
	}
	if len(zr.File) == 0 {
		return nil, apicat.Errorf(apicat.ETOC, "table of contents entry is empty")
	}
	rc, err := zr.File[0].Open()
	if err != nil {
		return nil, apicat.Errorf(apicat.ETOC, "table of contents: %v", err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, apicat.Errorf(apicat.ETOC, "table of contents truncated: %v", err)
	}
	return raw, nil
}

// Close releases the container. The archive holds no file handles once
// opened, so Close only drops references.
func (a *Archive) Close() error {
	a.elements = nil
	a.files = nil
	a.byID = nil
	return nil
}

// entryReader maps decompression failures to EDECOMPRESS.
type entryReader struct {
	id string
	rc io.ReadCloser
}

func (r *entryReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, apicat.Errorf(apicat.EDECOMPRESS, "entry %q: %v", r.id, err)
	}
	return n, err
}

func (r *entryReader) Close() error {
	return r.rc.Close()
}
