// Package watcher provides config file watching with debouncing.
package watcher

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a single file and invokes a callback when it changes.
// Rapid event bursts (editors often write a file several times per save) are
// coalesced through a Debouncer.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce *Debouncer
	onChange func()
	done     chan struct{}
}

// WatchFile starts watching path and calls onChange after each (debounced)
// modification. The parent directory is watched rather than the file itself
// so rename-and-replace saves keep working.
func WatchFile(path string, onChange func()) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}

	fw := &FileWatcher{
		path:     abs,
		watcher:  w,
		debounce: NewDebouncer(0),
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

func (fw *FileWatcher) loop() {
	for {
		select {
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != fw.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fw.debounce.Trigger(fw.onChange)
			}
		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next poll of the file by the
			// user is a restart away.
		case <-fw.done:
			return
		}
	}
}

// Close stops watching and cancels any pending callback.
func (fw *FileWatcher) Close() error {
	close(fw.done)
	fw.debounce.Cancel()
	return fw.watcher.Close()
}
