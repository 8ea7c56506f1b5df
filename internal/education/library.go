package education

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 200 * time.Millisecond

// Library serves searches from the current index of one page file and
// swaps in a fresh index when the file changes.
type Library struct {
	path    string
	logger  *zap.Logger
	current atomic.Pointer[Index]
	reloads atomic.Int64
}

// Open indexes the page at path.
func Open(path string, logger *zap.Logger) (*Library, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	lib := &Library{path: path, logger: logger}
	if err := lib.Reload(); err != nil {
		return nil, err
	}
	return lib, nil
}

// Reload re-reads the page. The previous index stays in place on failure.
func (l *Library) Reload() error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("open education page: %w", err)
	}
	defer f.Close()
	ix, err := Parse(f)
	if err != nil {
		return err
	}
	l.current.Store(ix)
	l.reloads.Add(1)
	l.logger.Info("education index loaded", zap.String("path", l.path), zap.Int("articles", ix.Len()))
	return nil
}

// Index returns the index currently served.
func (l *Library) Index() *Index { return l.current.Load() }

// Reloads counts successful loads, including the initial one.
func (l *Library) Reloads() int64 { return l.reloads.Load() }

// Search queries the current index.
func (l *Library) Search(query string) Results {
	return l.Index().Search(query)
}

// Watch re-indexes the page whenever it is written, created or renamed
// into place, until ctx is cancelled. The parent directory is watched so
// editors that replace the file are still seen.
func (l *Library) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(l.path)); err != nil {
		return fmt.Errorf("watch %s: %w", l.path, err)
	}
	target := filepath.Clean(l.path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return errors.New("education watcher closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(reloadDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("education watcher closed")
			}
			l.logger.Warn("education watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			if err := l.Reload(); err != nil {
				l.logger.Warn("education reload failed", zap.Error(err))
			}
		}
	}
}
