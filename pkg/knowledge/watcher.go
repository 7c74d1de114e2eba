package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before it is ingested
const DefaultDebounce = 500 * time.Millisecond

// Watcher ingests files as they appear or change in the knowledge directory
type Watcher struct {
	svc      *Service
	debounce time.Duration
	pending  map[string]time.Time
	ingested chan string
}

// NewWatcher creates a watcher for svc's directory
func NewWatcher(svc *Service, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{svc: svc, debounce: debounce, pending: map[string]time.Time{}}
}

// Notify sends the name of every ingested file to ch. Sends never block.
func (w *Watcher) Notify(ch chan string) {
	w.ingested = ch
}

// Run watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.svc.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create knowledge directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.svc.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.svc.dir, err)
	}
	w.svc.logger.Info("watching knowledge directory", "dir", w.svc.dir)

	tick := time.NewTicker(w.debounce / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			w.pending[event.Name] = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.svc.logger.Error("knowledge watcher error", "error", err)

		case now := <-tick.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) flush(ctx context.Context, now time.Time) {
	for path, seen := range w.pending {
		if now.Sub(seen) < w.debounce {
			continue
		}
		delete(w.pending, path)

		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if _, err := w.svc.IngestFile(ctx, path); err != nil {
			w.svc.logger.Warn("failed to ingest watched file", "file", path, "error", err)
			continue
		}
		if w.ingested != nil {
			select {
			case w.ingested <- filepath.Base(path):
			default:
			}
		}
	}
}
