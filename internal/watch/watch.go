// Package watch reports edits to the configuration and places files so a
// running daemon can reload without a restart.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // File written, created or replaced
	ChangeRemoved                    // File deleted or renamed away
)

func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// Change represents a detected change to one of the watched files.
type Change struct {
	Kind ChangeKind
	File string // Absolute path
}

// Debounce is how long a file must stay quiet before its change is emitted.
const Debounce = 100 * time.Millisecond

// Watcher monitors a fixed set of files using fsnotify. The parent
// directories are watched so that editors which save by rename are seen.
type Watcher struct {
	Files   []string
	Changes <-chan Change // Read-only external channel

	changes chan Change // Internal write channel
	done    chan struct{}
	watched map[string]bool
	watcher *fsnotify.Watcher
}

// New creates a watcher for the given files. Empty paths are ignored.
func New(files ...string) (*Watcher, error) {
	watched := make(map[string]bool)
	var abs []string
	for _, f := range files {
		if f == "" {
			continue
		}
		p, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %q: %w", f, err)
		}
		if !watched[p] {
			watched[p] = true
			abs = append(abs, p)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Files:   abs,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watched: watched,
		watcher: fw,
	}, nil
}

// Start begins watching the parent directory of every file.
func (w *Watcher) Start() error {
	dirs := make(map[string]bool)
	for _, f := range w.Files {
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch: add %s: %w", dir, err)
		}
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(Debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file := range pending {
					w.emitChange(file)
				}
				return
			}

			if !w.watched[filepath.Clean(event.Name)] {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[filepath.Clean(event.Name)] = time.Now()
			}

		case now := <-ticker.C:
			for file, t := range pending {
				if now.Sub(t) >= Debounce {
					w.emitChange(file)
					delete(pending, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

// emitChange never blocks; a reader that falls behind sees the latest
// state on its next reload anyway.
func (w *Watcher) emitChange(file string) {
	kind := ChangeModified
	if _, err := os.Stat(file); err != nil {
		kind = ChangeRemoved
	}
	select {
	case w.changes <- Change{Kind: kind, File: file}:
	default:
	}
}
