package domain

// MentionType classifies what an @mention points at.
type MentionType string

// Available mention types.
const (
	// MentionBoard references a dashboard board.
	MentionBoard MentionType = "board"

	// MentionQuery references a saved query.
	MentionQuery MentionType = "query"
)

// IsValid returns true if the mention type is recognised.
func (t MentionType) IsValid() bool {
	switch t {
	case MentionBoard, MentionQuery:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t MentionType) String() string {
	return string(t)
}

// MentionEntity is a board or query that an @name token resolves to.
type MentionEntity struct {
	// Type classifies the entity.
	Type MentionType

	// ID is the backend identifier.
	ID string

	// Name is the display name the user typed after @.
	Name string
}

// EntityRef is an id/name pair returned by entity search.
type EntityRef struct {
	// ID is the backend identifier.
	ID string

	// Name is the display name.
	Name string
}

// EntitySearchResult groups entity search hits by kind.
type EntitySearchResult struct {
	// Boards are the matching boards.
	Boards []EntityRef

	// Queries are the matching queries.
	Queries []EntityRef
}

// IsEmpty returns true when the search produced no hits of any kind.
func (r EntitySearchResult) IsEmpty() bool {
	return len(r.Boards) == 0 && len(r.Queries) == 0
}

// EntityContent is the fetched body of a mentioned entity, used to
// build context blocks for an outbound prompt.
type EntityContent struct {
	// Content is the entity's source code or definition.
	Content string

	// Description is the optional human-written summary.
	Description string
}
