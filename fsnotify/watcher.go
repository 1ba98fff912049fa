// Package fsnotify reloads the catalog when its container file changes.
package fsnotify

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/fwojciec/apicat"
	"golang.org/x/time/rate"
)

// Default watcher timings.
const (
	DefaultDebounce    = 500 * time.Millisecond
	DefaultMinInterval = 5 * time.Second
)

// Reloader rebuilds and publishes the catalog from a container.
type Reloader interface {
	Reload(ctx context.Context, path string) (*apicat.Statistics, error)
}

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period after the last change before a reload.
	Debounce time.Duration

	// MinInterval is the minimum time between two reloads.
	MinInterval time.Duration

	// OnReload, if set, is called after every reload attempt.
	OnReload func(stats *apicat.Statistics, err error)
}

// Watcher watches a container file and reloads the catalog after it
// changes. A failed reload leaves the published catalog in place.
type Watcher struct {
	path     string
	reloader Reloader
	logger   *slog.Logger
	opts     Options

	watcher   *fsnotify.Watcher
	limiter   *rate.Limiter
	debouncer *debouncer
	fire      chan struct{}
}

// NewWatcher starts watching path. The containing directory is watched so
// that replacing the file by rename is noticed.
func NewWatcher(path string, reloader Reloader, logger *slog.Logger, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, apicat.Errorf(apicat.EINVALID, "invalid path %q: %v", path, err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = DefaultMinInterval
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     filepath.Clean(abs),
		reloader: reloader,
		logger:   logger,
		opts:     opts,
		watcher:  fsw,
		limiter:  rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		fire:     make(chan struct{}, 1),
	}
	w.debouncer = newDebouncer(opts.Debounce, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
	return w, nil
}

// Run processes change events until ctx is done or the watcher is closed.
// Reloads run on the calling goroutine, one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.debouncer.stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(ev) {
				w.logger.Debug("container changed", "path", w.path, "op", ev.Op.String())
				w.debouncer.push()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		case <-w.fire:
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			w.reload(ctx)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) reload(ctx context.Context) {
	begin := time.Now()
	stats, err := w.reloader.Reload(ctx, w.path)
	if err != nil {
		w.logger.Warn("reload failed, keeping previous catalog",
			"path", w.path,
			"code", apicat.ErrorCode(err),
			"err", err,
		)
	} else {
		w.logger.Info("catalog reloaded",
			"path", w.path,
			"generation", stats.Generation,
			"skipped", stats.Skipped,
			"duration", time.Since(begin),
		)
	}
	if w.opts.OnReload != nil {
		w.opts.OnReload(stats, err)
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.debouncer.stop()
	return w.watcher.Close()
}
