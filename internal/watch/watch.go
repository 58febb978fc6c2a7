// Package watch files logs dropped into an inbox directory, one at a time.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/m-mizutani/goerr/v2"

	"github.com/suykerbuyk/logvault/internal/logging"
)

// ProcessedDir is where filed inbox files are moved.
const ProcessedDir = "processed"

// DefaultExts are the file extensions picked up from the inbox.
var DefaultExts = []string{".txt", ".md", ".log"}

// Handler files one settled inbox file. Returning nil moves it into
// ProcessedDir; an error leaves it in place.
type Handler func(ctx context.Context, path string) error

// Watcher watches Dir and calls Handle for each file that has not changed
// for Settle.
type Watcher struct {
	Dir    string
	Settle time.Duration
	Exts   []string
	Handle Handler

	pending map[string]time.Time
}

// Run processes files already in Dir, then watches for new ones until ctx
// is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	logger := logging.From(ctx)

	if w.Handle == nil {
		return goerr.New("watch handler is not set")
	}
	if w.Settle <= 0 {
		w.Settle = 500 * time.Millisecond
	}
	if len(w.Exts) == 0 {
		w.Exts = DefaultExts
	}
	w.pending = make(map[string]time.Time)

	if err := os.MkdirAll(filepath.Join(w.Dir, ProcessedDir), 0o755); err != nil {
		return goerr.Wrap(err, "create processed dir", goerr.V("dir", w.Dir))
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return goerr.Wrap(err, "create watcher")
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return goerr.Wrap(err, "watch inbox", goerr.V("dir", w.Dir))
	}
	logger.Info("watching inbox", "dir", w.Dir, "settle", w.Settle.String())

	if err := w.queueExisting(); err != nil {
		return err
	}

	ticker := time.NewTicker(w.Settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				w.touch(ev.Name, time.Now())
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				delete(w.pending, ev.Name)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err.Error())

		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) queueExisting() error {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return goerr.Wrap(err, "read inbox", goerr.V("dir", w.Dir))
	}
	// Already settled, so due on the first tick.
	past := time.Now().Add(-w.Settle)
	for _, e := range entries {
		if !e.IsDir() {
			w.touch(filepath.Join(w.Dir, e.Name()), past)
		}
	}
	return nil
}

func (w *Watcher) touch(path string, at time.Time) {
	if filepath.Dir(path) != filepath.Clean(w.Dir) || !w.accepts(path) {
		return
	}
	w.pending[path] = at
}

func (w *Watcher) accepts(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range w.Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// flush handles every settled file in name order.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var due []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.Settle {
			due = append(due, path)
		}
	}
	sort.Strings(due)

	for _, path := range due {
		delete(w.pending, path)
		w.process(ctx, path)
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	logger := logging.From(ctx)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	if err := w.Handle(ctx, path); err != nil {
		logger.Error("file inbox entry", "path", path, "error", err.Error())
		return
	}

	dest, err := Move(path, filepath.Join(w.Dir, ProcessedDir))
	if err != nil {
		logger.Error("move processed file", "path", path, "error", err.Error())
		return
	}
	logger.Debug("moved processed file", "from", path, "to", dest)
}

// Move renames path into dir, adding a numeric suffix if the name is taken.
func Move(path, dir string) (string, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	dest := filepath.Join(dir, base)
	for i := 1; ; i++ {
		if _, err := os.Stat(dest); err != nil {
			break
		}
		dest = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
	}

	if err := os.Rename(path, dest); err != nil {
		return "", goerr.Wrap(err, "move file", goerr.V("from", path), goerr.V("to", dest))
	}
	return dest, nil
}
