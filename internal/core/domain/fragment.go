package domain

import "fmt"

// Annotation marker prefixes recognised in source documents.
// A marker line is any line whose content, after trimming leading
// whitespace, starts with one of these prefixes.
const (
	// QueryMarker marks a line carrying an embedded SQL fragment.
	// The fragment body is the remainder of the line after the prefix.
	QueryMarker = "# @query:"

	// NodeMarker names the node a following query fragment belongs to.
	NodeMarker = "# @node:"

	// TypeMarker declares the node type (e.g. "query").
	TypeMarker = "# @type:"

	// DatastoreMarker binds a node to a datastore by ID.
	DatastoreMarker = "# @datastore:"

	// ConnectorMarker is the legacy spelling of DatastoreMarker.
	// Still honoured on read, never written.
	ConnectorMarker = "# @connector:"

	// CommentPrefix identifies a comment line in source documents.
	CommentPrefix = "#"

	// LabelHeaderPrefix introduces a fragment label inside a composite
	// document. Composite headers are SQL comments so the composite
	// stays runnable as plain SQL.
	LabelHeaderPrefix = "--"
)

// Fragment is a single SQL snippet extracted from a source document.
// Fragments are transient: recomputed from the source on every read,
// never cached across edits of the source itself.
type Fragment struct {
	// Line is the zero-based offset of the marker line within the
	// source document at extraction time.
	Line int

	// Text is the SQL body, the marker line's content after the
	// query marker prefix, trimmed.
	Text string

	// Label is the display name from the nearest preceding node
	// marker, or a generic placeholder when none is found.
	Label string
}

// DefaultFragmentLabel returns the placeholder label for the n-th
// fragment (zero-based) of a document when no node marker names it.
func DefaultFragmentLabel(n int) string {
	return fmt.Sprintf("query %d", n+1)
}

// Node is the full annotation block around a query marker: the richer
// view used when listing a document's nodes or binding datastores.
// The sync engine itself only needs Fragment.
type Node struct {
	// Name is the node name from the node marker.
	Name string

	// Type is the declared node type, empty when absent.
	Type string

	// DatastoreID is the bound datastore, empty when absent.
	DatastoreID string

	// Query is the embedded SQL body, empty when the block carries
	// no query marker.
	Query string

	// StartLine is the zero-based offset of the node marker line.
	StartLine int
}

// HasQuery returns true if the node carries an embedded SQL fragment.
func (n *Node) HasQuery() bool {
	return n.Query != ""
}
