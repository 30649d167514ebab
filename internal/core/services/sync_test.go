package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// --- Locate ---

func TestLocate_NoMarkers(t *testing.T) {
	engine := NewSyncEngine()

	fragments := engine.Locate("x = 1\nprint(x)\n")

	assert.Empty(t, fragments)
}

func TestLocate_LabelledFragment(t *testing.T) {
	engine := NewSyncEngine()
	source := "# @node: total revenue\n# @type: query\n# @query: SELECT sum(total) FROM orders"

	fragments := engine.Locate(source)

	require.Len(t, fragments, 1)
	assert.Equal(t, 2, fragments[0].Line)
	assert.Equal(t, "SELECT sum(total) FROM orders", fragments[0].Text)
	assert.Equal(t, "total revenue", fragments[0].Label)
}

func TestLocate_DefaultLabels(t *testing.T) {
	engine := NewSyncEngine()
	source := "# @query: SELECT 1\nx = 1\n# @query: SELECT 2"

	fragments := engine.Locate(source)

	require.Len(t, fragments, 2)
	assert.Equal(t, "query 1", fragments[0].Label)
	assert.Equal(t, "query 2", fragments[1].Label)
}

func TestLocate_BlankLineBreaksLabelBlock(t *testing.T) {
	engine := NewSyncEngine()
	source := "# @node: revenue\n\n# @query: SELECT 1"

	fragments := engine.Locate(source)

	require.Len(t, fragments, 1)
	assert.Equal(t, "query 1", fragments[0].Label)
}

func TestLocate_CodeLineBreaksLabelBlock(t *testing.T) {
	engine := NewSyncEngine()
	source := "# @node: revenue\nx = 1\n# @query: SELECT 1"

	fragments := engine.Locate(source)

	require.Len(t, fragments, 1)
	assert.Equal(t, "query 1", fragments[0].Label)
}

func TestLocate_NearestNodeMarkerWins(t *testing.T) {
	engine := NewSyncEngine()
	source := "# @node: old\n# @node: new\n# @query: SELECT 1"

	fragments := engine.Locate(source)

	require.Len(t, fragments, 1)
	assert.Equal(t, "new", fragments[0].Label)
}

func TestLocate_IndentedMarker(t *testing.T) {
	engine := NewSyncEngine()

	fragments := engine.Locate("def f():\n    # @query: SELECT 1\n    pass")

	require.Len(t, fragments, 1)
	assert.Equal(t, 1, fragments[0].Line)
	assert.Equal(t, "SELECT 1", fragments[0].Text)
}

// --- Combine ---

func TestCombine_Empty(t *testing.T) {
	engine := NewSyncEngine()

	assert.Equal(t, "", engine.Combine(nil))
}

func TestCombine_SingleFragmentHasNoHeader(t *testing.T) {
	engine := NewSyncEngine()
	fragments := []domain.Fragment{{Line: 0, Text: "SELECT 1", Label: "revenue"}}

	assert.Equal(t, "SELECT 1", engine.Combine(fragments))
}

func TestCombine_MultipleFragments(t *testing.T) {
	engine := NewSyncEngine()
	fragments := []domain.Fragment{
		{Line: 0, Text: "SELECT 1", Label: "revenue"},
		{Line: 3, Text: "SELECT 2", Label: "customers"},
	}

	want := "-- revenue\nSELECT 1\n\n-- customers\nSELECT 2"
	assert.Equal(t, want, engine.Combine(fragments))
}

// --- Split ---

func TestSplit_NoFragmentsLeavesSourceAlone(t *testing.T) {
	engine := NewSyncEngine()

	got := engine.Split("x = 1\n", nil, "SELECT 99")

	assert.Equal(t, "x = 1\n", got)
}

func TestSplit_SingleFragmentReplace(t *testing.T) {
	engine := NewSyncEngine()
	source := "x = 1\n# @query: SELECT 1\ny = 2"
	fragments := engine.Locate(source)

	got := engine.Split(source, fragments, "SELECT 2\nFROM t")

	assert.Equal(t, "x = 1\n# @query: SELECT 2 FROM t\ny = 2", got)
}

func TestSplit_PreservesMarkerIndentation(t *testing.T) {
	engine := NewSyncEngine()
	source := "def f():\n    # @query: SELECT 1\n    pass"
	fragments := engine.Locate(source)

	got := engine.Split(source, fragments, "SELECT 2")

	assert.Equal(t, "def f():\n    # @query: SELECT 2\n    pass", got)
}

func TestSplit_MultiFragmentReplace(t *testing.T) {
	engine := NewSyncEngine()
	source := "# @node: revenue\n# @query: SELECT sum(total) FROM orders\n\n# @node: customers\n# @query: SELECT count(*) FROM customers"
	fragments := engine.Locate(source)

	edited := "-- revenue\nSELECT sum(total)\nFROM orders\n\n-- customers\nSELECT 99"
	got := engine.Split(source, fragments, edited)

	// The first section only changed layout, so collapsing it back
	// matches the original text and the line stays untouched.
	want := "# @node: revenue\n# @query: SELECT sum(total) FROM orders\n\n# @node: customers\n# @query: SELECT 99"
	assert.Equal(t, want, got)
}

func TestSplit_FewerSectionsThanFragments(t *testing.T) {
	engine := NewSyncEngine()
	source := "# @query: SELECT 1\n\n# @query: SELECT 2"
	fragments := engine.Locate(source)
	require.Len(t, fragments, 2)

	// Deleting a whole section from the composite truncates the
	// write-back: unmatched fragments keep their current text.
	got := engine.Split(source, fragments, "-- query 1\nSELECT 99")

	assert.Equal(t, "# @query: SELECT 99\n\n# @query: SELECT 2", got)
}

func TestSplit_CommentInsideSectionSurvives(t *testing.T) {
	engine := NewSyncEngine()
	source := "# @query: SELECT 1\n\n# @query: SELECT 2"
	fragments := engine.Locate(source)

	// Only a header after a blank line opens a section. The "-- all"
	// comment sits mid-section and stays part of the SQL.
	edited := "-- query 1\nSELECT a\n-- all\nFROM t\n\n-- query 2\nSELECT b"
	got := engine.Split(source, fragments, edited)

	assert.Equal(t, "# @query: SELECT a -- all FROM t\n\n# @query: SELECT b", got)
}

// --- Round trips ---

func TestRoundTrip_MultiFragment(t *testing.T) {
	engine := NewSyncEngine()
	source := "# @node: revenue\n# @query: SELECT sum(total) FROM orders\n\ndef build():\n    pass\n\n# @node: customers\n# @query: SELECT count(*) FROM customers\n"

	fragments := engine.Locate(source)
	composite := engine.Combine(fragments)
	got := engine.Split(source, fragments, composite)

	assert.Equal(t, source, got)
}

func TestRoundTrip_SingleFragment(t *testing.T) {
	engine := NewSyncEngine()
	source := "x = 1\n# @query: SELECT 1\ny = 2"

	fragments := engine.Locate(source)
	got := engine.Split(source, fragments, engine.Combine(fragments))

	assert.Equal(t, source, got)
}

func TestRoundTrip_OddMarkerSpacing(t *testing.T) {
	engine := NewSyncEngine()

	// No space after the marker, double space inside the SQL. An
	// untouched composite must not rewrite either line.
	source := "# @query:SELECT 1\n\n# @query: SELECT a,  b FROM t"

	fragments := engine.Locate(source)
	got := engine.Split(source, fragments, engine.Combine(fragments))

	assert.Equal(t, source, got)
}

func TestRoundTrip_EditFlow(t *testing.T) {
	engine := NewSyncEngine()
	source := "# @node: total\n# @query: SELECT 1"

	fragments := engine.Locate(source)
	require.Equal(t, "SELECT 1", engine.Combine(fragments))

	got := engine.Split(source, fragments, "SELECT 2")

	assert.Equal(t, "# @node: total\n# @query: SELECT 2", got)
}

// --- Nodes ---

func TestNodes_FullBlock(t *testing.T) {
	engine := NewSyncEngine()
	source := "# @node: revenue\n# @type: query\n# @datastore: ds-1\n# @query: SELECT 1"

	nodes := engine.Nodes(source)

	require.Len(t, nodes, 1)
	assert.Equal(t, "revenue", nodes[0].Name)
	assert.Equal(t, "query", nodes[0].Type)
	assert.Equal(t, "ds-1", nodes[0].DatastoreID)
	assert.Equal(t, "SELECT 1", nodes[0].Query)
	assert.Equal(t, 0, nodes[0].StartLine)
	assert.True(t, nodes[0].HasQuery())
}

func TestNodes_LegacyConnectorMarker(t *testing.T) {
	engine := NewSyncEngine()

	nodes := engine.Nodes("# @node: a\n# @connector: legacy-1")

	require.Len(t, nodes, 1)
	assert.Equal(t, "legacy-1", nodes[0].DatastoreID)
}

func TestNodes_DatastoreMarkerBeatsConnector(t *testing.T) {
	engine := NewSyncEngine()

	nodes := engine.Nodes("# @node: a\n# @connector: legacy-1\n# @datastore: ds-1")

	require.Len(t, nodes, 1)
	assert.Equal(t, "ds-1", nodes[0].DatastoreID)
}

func TestNodes_OrphanQueryDropped(t *testing.T) {
	engine := NewSyncEngine()
	source := "# @query: SELECT 1\n# @node: a\n# @query: SELECT 2"

	nodes := engine.Nodes(source)

	// The node view drops query markers before the first node; the
	// fragment view still reports them.
	require.Len(t, nodes, 1)
	assert.Equal(t, "SELECT 2", nodes[0].Query)
	assert.Len(t, engine.Locate(source), 2)
}

func TestNodes_BlockSpansCodeLines(t *testing.T) {
	engine := NewSyncEngine()
	source := "# @node: a\nx = 1\n# @query: SELECT 1\n\n# @node: b"

	nodes := engine.Nodes(source)

	require.Len(t, nodes, 2)
	assert.Equal(t, "SELECT 1", nodes[0].Query)
	assert.False(t, nodes[1].HasQuery())
}
