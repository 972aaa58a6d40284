package telemetry

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of write events most editors and
// exporters produce for a single logical update.
const DefaultDebounce = 250 * time.Millisecond

// Watcher re-reads the export whenever the file changes and publishes the
// resulting records. The parent directory is watched rather than the file
// itself, which survives the rename-and-replace pattern atomic writers use.
type Watcher struct {
	reader   *Reader
	fs       *fsnotify.Watcher
	watched  map[string]struct{}
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	timer   *time.Timer
	updates chan *Record
}

// NewWatcher wires a Watcher over the reader's export paths.
func NewWatcher(reader *Reader, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if reader == nil {
		return nil, errors.New("reader cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		reader:   reader,
		fs:       fs,
		watched:  make(map[string]struct{}),
		debounce: debounce,
		logger:   logger.With(zap.String("component", "telemetry_watcher")),
		updates:  make(chan *Record, 1),
	}

	for _, path := range reader.paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			fs.Close()
			return nil, fmt.Errorf("failed to resolve path %q: %w", path, err)
		}
		w.watched[abs] = struct{}{}
		if err := fs.Add(filepath.Dir(abs)); err != nil {
			fs.Close()
			return nil, fmt.Errorf("failed to watch directory for %q: %w", path, err)
		}
	}
	return w, nil
}

// Updates delivers re-read records. The channel holds only the latest
// record; a slow consumer never blocks the watch loop.
func (w *Watcher) Updates() <-chan *Record {
	return w.updates
}

// Run blocks processing filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("Watching telemetry export", zap.Int("paths", len(w.watched)))
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, watched := w.watched[abs]; !watched {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

// scheduleReload arms the debounce timer, restarting it if already armed.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) reload() {
	rec, err := w.reader.Read()
	if err != nil {
		w.logger.Debug("Reload after change produced no record", zap.Error(err))
		return
	}
	w.logger.Debug("Telemetry export reloaded",
		zap.Int64("timestamp", rec.Timestamp),
		zap.Int("npcs", len(rec.NPCs)))

	// Latest record wins.
	for {
		select {
		case w.updates <- rec:
			return
		default:
			select {
			case <-w.updates:
			default:
			}
		}
	}
}
