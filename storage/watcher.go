package storage

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"stash/logging"
)

// Watcher reports when a FolderStore's folder file is edited outside the
// overlay (for example by hand, or by a sync tool). Writes made by the store
// itself are recognized by content digest and ignored.
//
// The notify callback runs on the watcher goroutine; hosts hand it over to
// their UI thread and call FolderStore.Reload there.
type Watcher struct {
	watcher  *fsnotify.Watcher
	detector changeDetector
	notify   func()
	target   string
	debounce time.Duration
	log      *logrus.Entry

	mu      sync.Mutex
	timer   *time.Timer
	done    chan struct{}
	stopped bool
}

// NewWatcher starts watching the store's folder file. Stores whose persister
// cannot detect external changes (SQLite) get a nil Watcher and no error.
func NewWatcher(store *FolderStore, debounce time.Duration, notify func()) (*Watcher, error) {
	detector, ok := store.persister.(changeDetector)
	if !ok {
		return nil, nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	target := filepath.Clean(store.Location())
	dir := filepath.Dir(target)
	if err := EnsureDir(dir); err != nil {
		fw.Close()
		return nil, err
	}
	// fsnotify loses the file across rename-based saves; watch the directory.
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		detector: detector,
		notify:   notify,
		target:   target,
		debounce: debounce,
		log:      logging.NewLogger("folder-watcher"),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("watch error")
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.check)
}

func (w *Watcher) check() {
	changed, err := w.detector.ChangedExternally()
	if err != nil {
		w.log.WithError(err).Warn("failed to inspect folder file")
		return
	}
	if !changed {
		return
	}
	w.log.WithField("path", w.target).Info("folder file changed externally")
	w.notify()
}

// Close stops watching.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	close(w.done)
	return w.watcher.Close()
}
