package driven

// PromptStore provides access to system prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fall back to built-in defaults when nothing is customised.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// One per chat scope, mirroring the backend's prompt catalog so local
// overrides line up with server behaviour.
const (
	// PromptBoardSystem steers board-scoped sessions.
	PromptBoardSystem = "board_system"

	// PromptQuerySystem steers query-scoped sessions.
	PromptQuerySystem = "query_system"

	// PromptDatastoreSystem steers datastore exploration sessions.
	PromptDatastoreSystem = "datastore_system"

	// PromptGeneralSystem steers unscoped sessions.
	PromptGeneralSystem = "general_system"

	// PromptMentionContext frames fetched entity content appended to
	// a prompt. Expects %s (entity name) and %s (content) placeholders.
	PromptMentionContext = "mention_context"
)
