package driving

import "github.com/telar-labs/weave-cli/internal/core/domain"

// SyncService keeps annotated source documents and their editable SQL
// composite consistent, in both directions. All operations are pure
// text transforms: no I/O, no retained state.
type SyncService interface {
	// Locate extracts fragments from a source document, in source
	// order. Zero markers yield an empty slice, never an error.
	Locate(source string) []domain.Fragment

	// Combine merges fragments into one editable composite. With a
	// single fragment the composite is its text verbatim; with more,
	// each gets a label header and fragments are blank-line separated.
	Combine(fragments []domain.Fragment) string

	// Format normalises SQL keyword casing and clause layout.
	// Idempotent.
	Format(sql string) string

	// Split writes an edited composite back into the source document,
	// leaving every non-fragment line untouched.
	Split(source string, fragments []domain.Fragment, edited string) string

	// Nodes parses the full annotation blocks of a source document,
	// including type and datastore bindings.
	Nodes(source string) []domain.Node
}
