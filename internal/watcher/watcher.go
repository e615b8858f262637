// Package watcher reports when cmake writes a new reply index.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"cmakefileapi/internal/observability"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

const indexPattern = "index-*.json"

// Watcher watches a reply directory and calls onChange with the index files
// that appeared or changed, once events have been quiet for the debounce
// interval. When the reply directory does not exist yet the closest existing
// ancestor is watched instead, and the watch moves down as directories are
// created.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	replyDir  string
	debounce  time.Duration
	filter    glob.Glob
	onChange  func([]string)

	callbackMu sync.Mutex

	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer

	watchedMu sync.Mutex
	watched   string
	done      chan struct{}

	// beforeWatch, when set, runs between locating a directory and adding
	// the watch on it.
	beforeWatch func(dir string)
}

func NewWatcher(replyDir string, debounce time.Duration, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}

	filter, err := glob.Compile(indexPattern)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsw,
		replyDir:  filepath.Clean(replyDir),
		debounce:  debounce,
		filter:    filter,
		onChange:  onChange,
		pending:   make(map[string]time.Time),
		done:      make(chan struct{}),
	}, nil
}

// Start adds the initial watch and processes events in the background.
func (w *Watcher) Start() error {
	if err := w.watchClosest(); err != nil {
		return err
	}
	go w.run()
	return nil
}

// Watched returns the directory currently being watched.
func (w *Watcher) Watched() string {
	w.watchedMu.Lock()
	defer w.watchedMu.Unlock()
	return w.watched
}

// watchClosest moves the watch to the reply directory or, while it is
// missing, to its nearest existing ancestor. Levels created before the watch
// was added produce no event, so the walk repeats until the watch settles.
func (w *Watcher) watchClosest() error {
	for {
		dir, err := w.closestExisting()
		if err != nil {
			return err
		}
		moved, err := w.moveWatch(dir)
		if err != nil || !moved {
			return err
		}
	}
}

func (w *Watcher) closestExisting() (string, error) {
	dir := w.replyDir
	for {
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

func (w *Watcher) moveWatch(dir string) (bool, error) {
	if w.beforeWatch != nil {
		w.beforeWatch(dir)
	}

	w.watchedMu.Lock()
	defer w.watchedMu.Unlock()
	if dir == w.watched {
		return false, nil
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return false, err
	}
	if w.watched != "" {
		_ = w.fsWatcher.Remove(w.watched)
	}
	w.watched = dir
	slog.Debug("watching for reply index", "dir", dir)
	return true, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()

			if w.Watched() != w.replyDir {
				if event.Op&fsnotify.Create == fsnotify.Create {
					if err := w.watchClosest(); err != nil {
						slog.Warn("failed to move watch", "path", event.Name, "error", err)
					} else if w.Watched() == w.replyDir {
						w.enqueueExisting()
					}
				}
				continue
			}

			if !w.isIndex(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.scheduleChange(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// isIndex matches index file names in the reply directory. The extension is
// compared case-insensitively, as the reply reader does.
func (w *Watcher) isIndex(path string) bool {
	if filepath.Dir(path) != w.replyDir {
		return false
	}
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	return w.filter.Match(strings.TrimSuffix(name, ext) + strings.ToLower(ext))
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.onChange(paths)
}

// enqueueExisting schedules index files already present when the reply
// directory first becomes watchable.
func (w *Watcher) enqueueExisting() {
	entries, err := os.ReadDir(w.replyDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		path := filepath.Join(w.replyDir, e.Name())
		if !e.IsDir() && w.isIndex(path) {
			w.scheduleChange(path)
		}
	}
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()

	select {
	case <-w.done:
	default:
		close(w.done)
	}
	return w.fsWatcher.Close()
}
