package domain

import "time"

// Board is a dashboard board as listed by the backend.
type Board struct {
	// ID is the backend identifier.
	ID string

	// Name is the display name.
	Name string

	// Description is the optional human-written summary.
	Description string

	// UpdatedAt is when the board last changed.
	UpdatedAt time.Time
}

// Query is a saved query as listed by the backend. Its Code is an
// annotated source document: the sync engine's input.
type Query struct {
	// ID is the backend identifier.
	ID string

	// BoardID is the board this query feeds, empty when unattached.
	BoardID string

	// Name is the display name.
	Name string

	// Description is the optional human-written summary.
	Description string

	// Code is the annotated source document.
	Code string

	// UpdatedAt is when the query last changed.
	UpdatedAt time.Time
}

// Datastore is a configured database connection as listed by the
// backend. Config stays server-side; the CLI only ever sees identity.
type Datastore struct {
	// ID is the backend identifier.
	ID string

	// Name is the display name.
	Name string

	// Type is the engine kind (postgres, bigquery, ...).
	Type string
}
