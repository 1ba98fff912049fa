package slog_test

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/fwojciec/apicat"
	"github.com/fwojciec/apicat/mock"
	catslog "github.com/fwojciec/apicat/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingPageParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("logs parsed pages at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.PageParser{
			ParseFn: func(id string, r io.Reader) (*apicat.Page, error) {
				return &apicat.Page{ID: id, Records: []apicat.Record{&apicat.NameRecord{Local: "Массив"}}}, nil
			},
		}

		page, err := catslog.NewLoggingPageParser(inner, logger).Parse("objects/Array.html", strings.NewReader(""))

		require.NoError(t, err)
		assert.Equal(t, "objects/Array.html", page.ID)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "page=objects/Array.html")
		assert.Contains(t, output, "records=1")
	})

	t.Run("stays quiet at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.PageParser{
			ParseFn: func(id string, r io.Reader) (*apicat.Page, error) {
				return &apicat.Page{ID: id}, nil
			},
		}

		_, err := catslog.NewLoggingPageParser(inner, logger).Parse("a.html", strings.NewReader(""))

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})

	t.Run("warns with the error code on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.PageParser{
			ParseFn: func(id string, r io.Reader) (*apicat.Page, error) {
				return nil, apicat.Errorf(apicat.EUNKNOWNBLOCK, "unknown block marker %q", "V8SH_mystery")
			},
		}

		_, err := catslog.NewLoggingPageParser(inner, logger).Parse("broken.html", strings.NewReader(""))

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "code=unknown_block")
		assert.Contains(t, output, "V8SH_mystery")
	})
}
