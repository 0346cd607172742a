package worksheet

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-validates a worksheet whenever it changes on disk. The parent
// directory is watched rather than the file itself so that editors which
// replace the file on save keep triggering events.
type Watcher struct {
	validator *Validator
	watcher   *fsnotify.Watcher
	path      string
	results   chan Result
	done      chan struct{}
}

// NewWatcher starts watching the worksheet at path.
func NewWatcher(path string, v *Validator) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		validator: v,
		watcher:   fw,
		path:      filepath.Clean(path),
		results:   make(chan Result, 16),
		done:      make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == 0 && event.Op&fsnotify.Write == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			select {
			case w.results <- w.validator.Validate(w.path):
			case <-w.done:
				return
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Results delivers a validation result for each observed change.
func (w *Watcher) Results() <-chan Result {
	return w.results
}

// Close stops watching. Safe to call once.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
