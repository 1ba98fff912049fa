package apicat

import (
	"io"
	"iter"
)

// ArchiveEntry describes one page file stored in the container.
type ArchiveEntry struct {
	ID             string `json:"id"`
	CompressedSize int64  `json:"compressedSize"`
	Size           int64  `json:"size"`
}

// Archive is an opened documentation container.
type Archive interface {
	// Entries yields page entry ids in container storage order.
	// Each call starts a fresh iteration.
	Entries() iter.Seq[string]

	// ReadEntry returns the decompressed content of an entry.
	// Returns ENOTFOUND if the entry does not exist and EDECOMPRESS if
	// its data is corrupt. Streams are not cached by the archive.
	ReadEntry(id string) (io.ReadCloser, error)

	// TOC reads and parses the table of contents.
	// Returns ETOC if it is missing or inconsistent.
	TOC() (*TOC, error)

	// Close releases the container.
	Close() error
}

// ArchiveOpener opens documentation containers.
type ArchiveOpener interface {
	// Open reads the container at path.
	// Returns ECORRUPT if the container signature or layout is invalid.
	Open(path string) (Archive, error)
}
