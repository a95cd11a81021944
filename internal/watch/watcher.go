// Package watch monitors a source tree and reports changed source files so
// the CLI can re-run analysis as code is edited. Events are debounced per
// file and filtered to the extensions of the configured language.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/grafolab/grafo/internal/config"
)

const debounce = 200 * time.Millisecond

// Watcher monitors a directory tree using fsnotify.
type Watcher struct {
	Dir     string
	Changes <-chan string // Read-only external channel

	exts    map[string]bool
	changes chan string // Internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for source files of language under dir.
func NewWatcher(dir, language string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	exts := make(map[string]bool)
	for _, e := range config.Extensions(language) {
		exts[e] = true
	}

	ch := make(chan string, 16)
	return &Watcher{
		Dir:     dir,
		Changes: ch,
		exts:    exts,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start registers the directory tree and begins watching. fsnotify watches
// are not recursive, so every subdirectory is added individually and new
// subdirectories are added as they appear.
func (w *Watcher) Start() error {
	err := filepath.WalkDir(w.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: track last event time per file.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file := range pending {
					w.changes <- file
				}
				return
			}

			if event.Has(fsnotify.Create) {
				// A new directory needs its own watch.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.watcher.Add(event.Name)
					continue
				}
			}

			if !w.isSourceFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending[event.Name] = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) >= debounce {
					w.changes <- file
					delete(pending, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Ignore watch errors; they're non-fatal.
		}
	}
}

func (w *Watcher) isSourceFile(name string) bool {
	return w.exts[strings.ToLower(filepath.Ext(name))]
}
