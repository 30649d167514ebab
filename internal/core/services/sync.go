package services

import (
	"regexp"
	"strings"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
	"github.com/telar-labs/weave-cli/internal/sqlfmt"
)

// Ensure SyncEngine implements the interface.
var _ driving.SyncService = (*SyncEngine)(nil)

// SyncEngine keeps a source document and its SQL composite consistent.
// Every method is a pure text transform over the arguments; the engine
// holds no state between calls.
type SyncEngine struct{}

// NewSyncEngine creates a new sync engine.
func NewSyncEngine() *SyncEngine {
	return &SyncEngine{}
}

// Locate extracts every embedded SQL fragment from a source document,
// in source order. A document without query markers yields no
// fragments; that is not an error.
func (e *SyncEngine) Locate(source string) []domain.Fragment {
	lines := strings.Split(source, "\n")

	var fragments []domain.Fragment
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, domain.QueryMarker) {
			continue
		}

		label := precedingNodeLabel(lines, i)
		if label == "" {
			label = domain.DefaultFragmentLabel(len(fragments))
		}

		fragments = append(fragments, domain.Fragment{
			Line:  i,
			Text:  strings.TrimSpace(trimmed[len(domain.QueryMarker):]),
			Label: label,
		})
	}
	return fragments
}

// Combine merges fragments into one editable composite. A single
// fragment becomes the composite verbatim, with no header; multiple
// fragments each get a label header and are separated by a blank line.
func (e *SyncEngine) Combine(fragments []domain.Fragment) string {
	switch len(fragments) {
	case 0:
		return ""
	case 1:
		return fragments[0].Text
	}

	sections := make([]string, len(fragments))
	for i, frag := range fragments {
		sections[i] = domain.LabelHeaderPrefix + " " + frag.Label + "\n" + frag.Text
	}
	return strings.Join(sections, "\n\n")
}

// Format normalises SQL keyword casing and clause layout.
func (e *SyncEngine) Format(sql string) string {
	return sqlfmt.Format(sql)
}

// Split writes an edited composite back into the source document.
// Fragment lines whose SQL did not change are left byte-identical, so
// splitting an untouched composite returns the source unchanged. When
// the composite has fewer sections than there are fragments, the
// unmatched fragments keep their current text.
func (e *SyncEngine) Split(source string, fragments []domain.Fragment, edited string) string {
	if len(fragments) == 0 {
		return source
	}

	var parts []string
	if len(fragments) == 1 {
		// A single-fragment composite has no headers to strip; the
		// whole edit is the new fragment body.
		parts = []string{collapseLines(edited)}
	} else {
		parts = splitComposite(edited)
	}

	lines := strings.Split(source, "\n")
	for i, frag := range fragments {
		if i >= len(parts) {
			break
		}
		if frag.Line < 0 || frag.Line >= len(lines) {
			continue
		}
		if parts[i] == frag.Text {
			continue
		}
		lines[frag.Line] = rewriteMarkerLine(lines[frag.Line], parts[i])
	}
	return strings.Join(lines, "\n")
}

// Nodes parses the full annotation blocks of a source document. A node
// opens at a node marker and collects every later marker up to the
// next node marker, whatever lies between them. Query markers before
// the first node marker belong to no node and are dropped from this
// view; Locate still reports them.
func (e *SyncEngine) Nodes(source string) []domain.Node {
	lines := strings.Split(source, "\n")

	var nodes []domain.Node
	var current *domain.Node
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, domain.NodeMarker):
			if current != nil {
				nodes = append(nodes, *current)
			}
			current = &domain.Node{
				Name:      strings.TrimSpace(trimmed[len(domain.NodeMarker):]),
				StartLine: i,
			}

		case current == nil:
			// Nothing to attach to yet.

		case strings.HasPrefix(trimmed, domain.TypeMarker):
			current.Type = strings.TrimSpace(trimmed[len(domain.TypeMarker):])

		case strings.HasPrefix(trimmed, domain.DatastoreMarker):
			current.DatastoreID = strings.TrimSpace(trimmed[len(domain.DatastoreMarker):])

		case strings.HasPrefix(trimmed, domain.ConnectorMarker):
			// Legacy spelling, honoured only when no datastore marker
			// has claimed the binding.
			if current.DatastoreID == "" {
				current.DatastoreID = strings.TrimSpace(trimmed[len(domain.ConnectorMarker):])
			}

		case strings.HasPrefix(trimmed, domain.QueryMarker):
			current.Query = strings.TrimSpace(trimmed[len(domain.QueryMarker):])
		}
	}
	if current != nil {
		nodes = append(nodes, *current)
	}
	return nodes
}

// precedingNodeLabel walks the contiguous comment block directly above
// a marker line. The walk stops at the first blank or non-comment
// line; the nearest node marker inside the block names the fragment.
func precedingNodeLabel(lines []string, marker int) string {
	for j := marker - 1; j >= 0; j-- {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" || !strings.HasPrefix(trimmed, domain.CommentPrefix) {
			return ""
		}
		if strings.HasPrefix(trimmed, domain.NodeMarker) {
			return strings.TrimSpace(trimmed[len(domain.NodeMarker):])
		}
	}
	return ""
}

// lineBreakRun matches a newline together with the indentation around
// it, so collapsing a formatted SQL block yields single spaces rather
// than runs of them. Whitespace not touching a newline is preserved.
var lineBreakRun = regexp.MustCompile(`[ \t]*\n[ \t\n]*`)

// collapseLines folds a multi-line SQL text onto one line so it fits
// back on a single marker line.
func collapseLines(text string) string {
	return lineBreakRun.ReplaceAllString(strings.TrimSpace(text), " ")
}

// splitComposite is the inverse of Combine for multi-fragment
// composites. A label header opening the composite, or directly
// following a blank line, starts a new section and is itself dropped.
// Anything else is section body, so SQL comments inside a section
// survive.
func splitComposite(edited string) []string {
	lines := strings.Split(edited, "\n")

	var parts []string
	var current []string
	started := false
	prevBlank := true
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if prevBlank && strings.HasPrefix(trimmed, domain.LabelHeaderPrefix) {
			if started || len(current) > 0 {
				parts = append(parts, collapseLines(strings.Join(current, "\n")))
				current = nil
			}
			started = true
			prevBlank = false
			continue
		}
		current = append(current, line)
		prevBlank = trimmed == ""
	}
	parts = append(parts, collapseLines(strings.Join(current, "\n")))
	return parts
}

// rewriteMarkerLine replaces the SQL body after the query marker,
// keeping everything up to and including the marker intact. A line
// that no longer carries a marker is returned untouched.
func rewriteMarkerLine(line, text string) string {
	idx := strings.Index(line, domain.QueryMarker)
	if idx < 0 {
		return line
	}
	prefix := line[:idx+len(domain.QueryMarker)]
	if text == "" {
		return prefix
	}
	return prefix + " " + text
}
