package driven

import "context"

// SourceWatcher reports external changes to an open source file so the
// editor can re-extract fragments. Optional; without it the editor
// simply never reloads.
type SourceWatcher interface {
	// Watch emits on the returned channel whenever path changes on
	// disk. The channel is closed when ctx is cancelled or Close is
	// called. Bursts may be coalesced into a single emission.
	Watch(ctx context.Context, path string) (<-chan struct{}, error)

	// Close stops all watches and releases resources.
	Close() error
}
