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

func TestLoggingOpener_Open(t *testing.T) {
	t.Parallel()

	t.Run("logs open and toc reads", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		toc := apicat.NewTOC(&apicat.TOCNode{Children: []*apicat.TOCNode{{ID: 1}}})
		inner := &mock.ArchiveOpener{
			OpenFn: func(path string) (apicat.Archive, error) {
				return &mock.Archive{
					TOCFn: func() (*apicat.TOC, error) { return toc, nil },
				}, nil
			},
		}

		archive, err := catslog.NewLoggingOpener(inner, logger).Open("/data/shcntx_ru.hbk")
		require.NoError(t, err)
		got, err := archive.TOC()
		require.NoError(t, err)

		assert.Same(t, toc, got)
		output := buf.String()
		assert.Contains(t, output, "open archive")
		assert.Contains(t, output, "path=/data/shcntx_ru.hbk")
		assert.Contains(t, output, "read toc")
		assert.Contains(t, output, "nodes=1")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ArchiveOpener{
			OpenFn: func(path string) (apicat.Archive, error) {
				return nil, apicat.Errorf(apicat.ECORRUPT, "bad signature")
			},
		}

		_, err := catslog.NewLoggingOpener(inner, logger).Open("/data/x.hbk")

		assert.Equal(t, apicat.ECORRUPT, apicat.ErrorCode(err))
		assert.Contains(t, buf.String(), "bad signature")
	})

	t.Run("warns on unreadable entries", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ArchiveOpener{
			OpenFn: func(path string) (apicat.Archive, error) {
				return &mock.Archive{
					ReadEntryFn: func(id string) (io.ReadCloser, error) {
						if id == "ok.html" {
							return io.NopCloser(strings.NewReader("<p>ok</p>")), nil
						}
						return nil, apicat.Errorf(apicat.ENOTFOUND, "entry %q not found", id)
					},
				}, nil
			},
		}

		archive, err := catslog.NewLoggingOpener(inner, logger).Open("/data/x.hbk")
		require.NoError(t, err)

		rc, err := archive.ReadEntry("ok.html")
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.NotContains(t, buf.String(), "read entry")

		_, err = archive.ReadEntry("missing.html")
		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "entry=missing.html")
	})
}
