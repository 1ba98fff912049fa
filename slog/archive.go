// Package slog decorates apicat services with structured logging.
package slog

import (
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/apicat"
)

// Ensure LoggingOpener implements apicat.ArchiveOpener.
var _ apicat.ArchiveOpener = (*LoggingOpener)(nil)

// LoggingOpener wraps an ArchiveOpener with logging. Archives it opens are
// wrapped as well.
type LoggingOpener struct {
	next   apicat.ArchiveOpener
	logger *slog.Logger
}

// NewLoggingOpener creates a new LoggingOpener.
func NewLoggingOpener(next apicat.ArchiveOpener, logger *slog.Logger) *LoggingOpener {
	return &LoggingOpener{next: next, logger: logger}
}

// Open delegates to the wrapped opener and logs the operation.
func (o *LoggingOpener) Open(path string) (archive apicat.Archive, err error) {
	defer func(begin time.Time) {
		o.logger.Info("open archive",
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	archive, err = o.next.Open(path)
	if err != nil {
		return nil, err
	}
	return &loggingArchive{Archive: archive, logger: o.logger.With("path", path)}, nil
}

// loggingArchive logs table of contents reads and entry failures.
type loggingArchive struct {
	apicat.Archive
	logger *slog.Logger
}

func (a *loggingArchive) TOC() (toc *apicat.TOC, err error) {
	defer func(begin time.Time) {
		nodes := 0
		if toc != nil {
			nodes = toc.Len()
		}
		a.logger.Info("read toc",
			"nodes", nodes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.Archive.TOC()
}

func (a *loggingArchive) ReadEntry(id string) (io.ReadCloser, error) {
	rc, err := a.Archive.ReadEntry(id)
	if err != nil {
		a.logger.Warn("read entry", "entry", id, "err", err)
	}
	return rc, err
}
