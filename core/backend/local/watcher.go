package local

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"dat-workbench/core/backend"
	"dat-workbench/core/descriptor"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// resolveFunc maps an export file under rawDir to its descriptor.
type resolveFunc func(path, rawDir string) (descriptor.Descriptor, bool)

// watcher turns fsnotify events under <project>/raw_data into file-change
// events. fsnotify is not recursive, so every directory of the tree is
// added individually and new directories are picked up as they appear.
type watcher struct {
	fs      *fsnotify.Watcher
	logger  *zap.Logger
	resolve resolveFunc
	emit    func(backend.FileChangeEvent)

	mu      sync.Mutex
	project string
	rawDir  string

	done chan struct{}
}

func newWatcher(resolve resolveFunc, emit func(backend.FileChangeEvent), logger *zap.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{
		fs:      fw,
		logger:  logger,
		resolve: resolve,
		emit:    emit,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// watch moves the watch to project. An empty project stops watching.
func (w *watcher) watch(project string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range w.fs.WatchList() {
		_ = w.fs.Remove(p)
	}
	w.project = project
	w.rawDir = ""
	if project == "" {
		return
	}

	w.rawDir = filepath.Join(project, RawDataDir)
	// The project root is watched so a later raw_data directory is noticed.
	if err := w.fs.Add(project); err != nil {
		w.logger.Warn("Failed to watch project", zap.String("path", project), zap.Error(err))
	}
	w.addTree(w.rawDir)
}

// addTree watches dir and every directory below it. Caller holds mu.
func (w *watcher) addTree(dir string) {
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(p); err != nil {
			w.logger.Debug("Failed to watch directory", zap.String("path", p), zap.Error(err))
		}
		return nil
	})
}

func (w *watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

func (w *watcher) handle(ev fsnotify.Event) {
	w.mu.Lock()
	rawDir := w.rawDir
	if rawDir == "" || !within(ev.Name, rawDir) {
		w.mu.Unlock()
		return
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			w.addTree(ev.Name)
			w.mu.Unlock()
			return
		}
	}
	w.mu.Unlock()

	var isDelete bool
	switch {
	case ev.Has(fsnotify.Create):
		isDelete = false
	case ev.Has(fsnotify.Remove):
		isDelete = true
	default:
		return
	}

	if filepath.Ext(ev.Name) != descriptor.ExportExt {
		return
	}
	d, ok := w.resolve(ev.Name, rawDir)
	if !ok {
		w.logger.Debug("Could not map file to a DAT", zap.String("path", ev.Name))
		return
	}
	w.emit(backend.FileChangeEvent{Descriptor: d, IsDelete: isDelete})
}

func (w *watcher) close() error {
	err := w.fs.Close()
	<-w.done
	return err
}

// within reports whether p is dir or lies below it.
func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
