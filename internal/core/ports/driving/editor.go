package driving

import (
	"context"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// SourceFileView is an annotated file opened for editing: the raw
// source, its extracted fragments and the composite they combine into.
type SourceFileView struct {
	// Path is the file location on disk.
	Path string

	// Source is the raw file content.
	Source string

	// Fragments are the extracted fragments, in source order.
	Fragments []domain.Fragment

	// Composite is Combine(Fragments).
	Composite string
}

// EditorService drives the fragment editing workflow over files and
// the backend: open, splice back, format, and pull/push query code.
type EditorService interface {
	// OpenFile reads an annotated file and extracts its fragments.
	OpenFile(path string) (*SourceFileView, error)

	// SaveComposite splices an edited composite back into the file,
	// preserving every non-fragment line.
	SaveComposite(path string, edited string) error

	// FormatComposite returns the file's composite, formatted.
	FormatComposite(path string) (string, error)

	// Pull writes a backend query's annotated source to a local file.
	Pull(ctx context.Context, queryID, path string) error

	// Push sends a local file's content back to a backend query.
	Push(ctx context.Context, path, queryID string) (domain.Query, error)
}
