package zone

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/dmorley/portalmap/pkg/logging"
)

// Watcher serves the vocabulary from a file and hot-reloads it when the
// file changes, so zone tables can be updated without restarting.
// Collaborators hold the Watcher itself; the vocabulary pointer behind it
// is swapped atomically on reload.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	current  atomic.Pointer[Vocabulary]
	logger   logging.Logger
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher loads the vocabulary at path and begins watching its
// directory for changes. The initial load must succeed; later reload
// failures keep the previous vocabulary and log a warning.
func NewWatcher(path string, logger logging.Logger) (*Watcher, error) {
	vocab, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create vocabulary watcher: %w", err)
	}
	// Watch the directory, not the file: editors and atomic writers
	// replace the file, which would silently drop a file-level watch.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch vocabulary dir: %w", err)
	}

	w := &Watcher{
		path:   path,
		fsw:    fsw,
		logger: logger.With(logging.Component("zone.watcher")),
		done:   make(chan struct{}),
	}
	w.current.Store(vocab)

	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("vocabulary watch error", logging.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	vocab, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("vocabulary reload failed, keeping previous",
			logging.Path(w.path), logging.Error(err))
		return
	}
	w.current.Store(vocab)
	w.logger.Info("vocabulary reloaded",
		logging.Path(w.path), logging.Count(vocab.Size()))
}

// Current returns the vocabulary as of the last successful load.
func (w *Watcher) Current() *Vocabulary {
	return w.current.Load()
}

// Classify delegates to the current vocabulary, making the Watcher itself
// a stable Classifier handle.
func (w *Watcher) Classify(id string) Category {
	return w.current.Load().Classify(id)
}

// Close stops watching. Idempotent.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
