package slog

import (
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/apicat"
)

// Ensure LoggingPageParser implements apicat.PageParser.
var _ apicat.PageParser = (*LoggingPageParser)(nil)

// LoggingPageParser wraps a PageParser with logging. Successful pages are
// logged at debug level; failures are warnings.
type LoggingPageParser struct {
	next   apicat.PageParser
	logger *slog.Logger
}

// NewLoggingPageParser creates a new LoggingPageParser.
func NewLoggingPageParser(next apicat.PageParser, logger *slog.Logger) *LoggingPageParser {
	return &LoggingPageParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the operation.
func (p *LoggingPageParser) Parse(id string, r io.Reader) (page *apicat.Page, err error) {
	defer func(begin time.Time) {
		if err != nil {
			p.logger.Warn("parse page",
				"page", id,
				"code", apicat.ErrorCode(err),
				"err", apicat.ErrorMessage(err),
			)
			return
		}
		p.logger.Debug("parse page",
			"page", id,
			"records", len(page.Records),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return p.next.Parse(id, r)
}
