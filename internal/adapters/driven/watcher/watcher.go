// Package watcher reports external file changes to the editor so an
// open annotated file can be re-read when another program writes it.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
	"github.com/telar-labs/weave-cli/internal/logger"
)

// Ensure FileWatcher implements the interface.
var _ driven.SourceWatcher = (*FileWatcher)(nil)

// debounceWindow coalesces the burst of events an editor save
// produces (write, rename, chmod) into one emission.
const debounceWindow = 250 * time.Millisecond

// FileWatcher watches single files through fsnotify. The file's
// directory is watched, not the file itself: editors that save via
// rename-and-replace would otherwise silently detach the watch.
type FileWatcher struct {
	mu      sync.Mutex
	cancels []context.CancelFunc
	closed  bool
}

// NewFileWatcher creates a new file watcher.
func NewFileWatcher() *FileWatcher {
	return &FileWatcher{}
}

// Watch emits on the returned channel whenever path changes on disk.
// The channel is closed when ctx is cancelled or Close is called.
func (w *FileWatcher) Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		cancel()
		fsw.Close()
		return nil, fmt.Errorf("watcher is closed")
	}
	w.cancels = append(w.cancels, cancel)
	w.mu.Unlock()

	changes := make(chan struct{}, 1)
	go w.run(ctx, fsw, abs, changes)
	return changes, nil
}

// Close stops all watches and releases resources.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	for _, cancel := range w.cancels {
		cancel()
	}
	w.cancels = nil
	return nil
}

// run forwards debounced events for one file until ctx is cancelled.
func (w *FileWatcher) run(ctx context.Context, fsw *fsnotify.Watcher, path string, changes chan<- struct{}) {
	defer close(changes)
	defer fsw.Close()

	var pending *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: %s on %s", event.Op, path)
			if pending == nil {
				pending = time.NewTimer(debounceWindow)
				fire = pending.C
			} else {
				pending.Reset(debounceWindow)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher: %v", err)

		case <-fire:
			pending = nil
			fire = nil
			select {
			case changes <- struct{}{}:
			default:
				// Receiver is behind; it will reload anyway.
			}
		}
	}
}
