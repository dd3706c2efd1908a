// Package watch reports external changes to the active site-packages
// directory so the presentation layer can offer a reload instead of
// silently clobbering edits made outside the program.
package watch

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher forwards .pth file changes under one directory. Events is
// buffered; when the receiver lags, changes are dropped rather than
// queued, a reload picks up everything anyway.
type Watcher struct {
	Events chan string

	fs  *fsnotify.Watcher
	log zerolog.Logger
}

// New starts watching dir. The directory must exist.
func New(dir string, log zerolog.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}
	w := &Watcher{
		Events: make(chan string, 16),
		fs:     fs,
		log:    log,
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.Events)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !isPathFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case w.Events <- ev.Name:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func isPathFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pth")
}

// Close stops the watcher; Events is closed once the internal loop
// drains.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
