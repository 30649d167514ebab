package driven

import (
	"context"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// BackendDirectory lists and edits the dashboard backend's boards,
// queries and datastores. This is plain CRUD over the backend REST
// API; all heavy lifting stays server-side.
type BackendDirectory interface {
	// ListBoards returns all boards visible to the user.
	ListBoards(ctx context.Context) ([]domain.Board, error)

	// ListQueries returns a board's queries; empty boardID lists all.
	ListQueries(ctx context.Context, boardID string) ([]domain.Query, error)

	// GetQuery returns one query including its annotated source.
	// Returns domain.ErrNotFound if it does not exist.
	GetQuery(ctx context.Context, id string) (domain.Query, error)

	// SaveQuery creates or updates a query and returns the stored
	// version. A query with an empty ID is created.
	SaveQuery(ctx context.Context, query domain.Query) (domain.Query, error)

	// ListDatastores returns the configured datastores.
	ListDatastores(ctx context.Context) ([]domain.Datastore, error)
}

// QueryTester asks the backend to test-execute an annotated source
// document. Execution happens server-side; the CLI never touches a
// database.
type QueryTester interface {
	// TestQuery runs the document against its bound datastore and
	// returns the outcome, success or failure, as data.
	TestQuery(ctx context.Context, code string, limitRows int) (domain.TestResult, error)
}

// BackendAuth performs login against the dashboard backend.
type BackendAuth interface {
	// LoginWithToken validates a pasted API token and returns the
	// profile it belongs to.
	LoginWithToken(ctx context.Context, token string) (domain.UserProfile, error)

	// ExchangeGoogleCode trades a Google authorization code for a
	// backend-issued token.
	ExchangeGoogleCode(ctx context.Context, code, redirectURI, codeVerifier string) (domain.Credentials, domain.UserProfile, error)

	// WhoAmI returns the profile for the stored credentials.
	// Returns domain.ErrAuthInvalid if the backend rejects them.
	WhoAmI(ctx context.Context) (domain.UserProfile, error)
}
