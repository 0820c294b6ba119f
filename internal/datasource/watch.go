package datasource

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	// debounceDelay collapses a burst of writes into one reload.
	debounceDelay = 100 * time.Millisecond
	// replaceDelay is how long a removed or renamed catalog may stay missing
	// before a reload is signalled anyway. Editors that save by writing a
	// temp file and renaming it recreate the catalog well within it.
	replaceDelay = 750 * time.Millisecond
)

// Watcher signals when a local catalog changes on disk.
type Watcher struct {
	fs    *fsnotify.Watcher
	match func(base string) bool
	path  string
	log   *zap.Logger

	debounce time.Duration
	replace  time.Duration

	changes chan struct{}
	done    chan struct{}
	stopped chan struct{}
}

// NewWatcher watches the file behind src. Only local sources can be watched.
//
// The parent directory is watched rather than the file itself, so a catalog
// replaced by rename keeps being followed. SQLite catalogs also reload on
// writes to their -wal and -journal companions; plain files ignore them.
func NewWatcher(src Source, log *zap.Logger) (*Watcher, error) {
	path, ok := Watchable(src)
	if !ok {
		return nil, fmt.Errorf("%s is not a local catalog", src)
	}
	if log == nil {
		log = zap.NewNop()
	}
	_, sqlite := src.(*SQLiteSource)
	return newWatcher(path, catalogMatcher(path, sqlite), debounceDelay, replaceDelay, log)
}

func newWatcher(path string, match func(string) bool, debounce, replace time.Duration, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		fs:       fw,
		match:    match,
		path:     path,
		log:      log,
		debounce: debounce,
		replace:  replace,
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// catalogMatcher reports which directory entries belong to the catalog.
func catalogMatcher(path string, sqlite bool) func(string) bool {
	name := filepath.Base(path)
	if !sqlite {
		return func(base string) bool { return base == name }
	}
	return func(base string) bool {
		switch base {
		case name, name + "-wal", name + "-shm", name + "-journal":
			return true
		}
		return false
	}
}

// Changes receives one signal per settled change. It is never closed.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fs.Close()
	<-w.stopped
	return err
}

// delayFor returns how long to wait before signalling ev, or false when ev
// does not concern the catalog.
func (w *Watcher) delayFor(ev fsnotify.Event) (time.Duration, bool) {
	if !w.match(filepath.Base(ev.Name)) {
		return 0, false
	}
	switch {
	case ev.Op.Has(fsnotify.Write), ev.Op.Has(fsnotify.Create):
		return w.debounce, true
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		// Only the catalog itself going away matters; the file may be
		// about to be replaced.
		if filepath.Base(ev.Name) != filepath.Base(w.path) {
			return 0, false
		}
		return w.replace, true
	}
	return 0, false
}

func (w *Watcher) loop() {
	defer close(w.stopped)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			delay, ok := w.delayFor(ev)
			if !ok {
				continue
			}
			w.log.Debug("catalog event", zap.String("name", ev.Name), zap.Stringer("op", ev.Op))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(delay, w.signal)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("catalog watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) signal() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
