// Package dropzone turns a watched directory into a drop target: every file
// that appears in it is handed to an accept callback once it stops changing.
package dropzone

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/photowall/internal/localfile"
	"github.com/dmitrijs2005/photowall/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a file must stay unchanged before it is taken.
const DefaultSettle = 250 * time.Millisecond

// AcceptFunc receives the dropped files; it matches uploader.AcceptFiles.
type AcceptFunc func(files ...localfile.File) int

type Watcher struct {
	dir    string
	accept AcceptFunc
	logger logging.Logger
	settle time.Duration

	fw     *fsnotify.Watcher
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Watch starts watching dir. Files already present are not taken.
func Watch(ctx context.Context, dir string, settle time.Duration, accept AcceptFunc, logger logging.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(abs); err != nil {
		_ = fw.Close()
		return nil, err
	}

	if settle <= 0 {
		settle = DefaultSettle
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		dir:    abs,
		accept: accept,
		logger: logger.With("module", "dropzone", "dir", abs),
		settle: settle,
		fw:     fw,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go w.loop(ctx)

	w.logger.Info(ctx, "watching drop folder")
	return w, nil
}

func (w *Watcher) Dir() string { return w.dir }

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		err = w.fw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	seen := make(map[string]time.Time)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.logger.Debug(ctx, "received event", "event", event.Op.String(), "name", event.Name)
			switch {
			case event.Has(fsnotify.Create):
				if !hidden(event.Name) {
					seen[event.Name] = time.Now()
				}
			case event.Has(fsnotify.Write):
				// only files created since Watch are tracked
				if _, ok := seen[event.Name]; ok {
					seen[event.Name] = time.Now()
				}
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				delete(seen, event.Name)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "watcher error", "error", err)

		case now := <-ticker.C:
			w.flush(ctx, seen, now)

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) flush(ctx context.Context, seen map[string]time.Time, now time.Time) {
	var files []localfile.File
	for path, at := range seen {
		if now.Sub(at) < w.settle {
			continue
		}
		delete(seen, path)

		f, err := localfile.FromPath(path)
		if err != nil {
			// directories and files gone again
			w.logger.Debug(ctx, "skipping dropped path", "path", path, "error", err)
			continue
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return
	}

	n := w.accept(files...)
	w.logger.Info(ctx, "files dropped", "seen", len(files), "accepted", n)
}

func hidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~")
}
