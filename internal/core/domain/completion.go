package domain

// TriggerKind identifies which prefix opened an inline completion.
type TriggerKind string

// Available trigger kinds.
const (
	// TriggerMention is the @ prefix for boards and queries.
	TriggerMention TriggerKind = "mention"

	// TriggerCommand is the / prefix for slash commands.
	TriggerCommand TriggerKind = "command"
)

// IsValid returns true if the trigger kind is recognised.
func (k TriggerKind) IsValid() bool {
	switch k {
	case TriggerMention, TriggerCommand:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k TriggerKind) String() string {
	return string(k)
}

// Candidate is one selectable completion item.
type Candidate struct {
	// Kind tells whether accepting inserts a mention or a command.
	Kind TriggerKind

	// Entity is the referenced entity for mention candidates.
	Entity MentionEntity

	// Command is the command name for command candidates.
	Command string

	// Detail is the one-line description shown next to the name.
	Detail string
}

// DisplayName returns the text shown in the completion list.
func (c Candidate) DisplayName() string {
	if c.Kind == TriggerCommand {
		return "/" + c.Command
	}
	return "@" + c.Entity.Name
}

// Completion is the active completion state for an input box at a
// given cursor position. A nil Completion means no trigger is open.
type Completion struct {
	// Kind tells which trigger is open.
	Kind TriggerKind

	// TriggerPos is the byte offset of the trigger character, in the
	// same coordinates as the cursor.
	TriggerPos int

	// Query is the text between the trigger and the cursor.
	Query string

	// Candidates are the matching items, in display order.
	Candidates []Candidate
}

// SlashCommand is one entry of the fixed command catalog.
type SlashCommand struct {
	// Name is the command without the leading slash.
	Name string

	// Description is the one-line help text.
	Description string
}

// AllSlashCommands returns the fixed command catalog, in display order.
func AllSlashCommands() []SlashCommand {
	return []SlashCommand{
		{Name: "format", Description: "Format the SQL in the editor"},
		{Name: "test", Description: "Test-run the current query"},
		{Name: "clear", Description: "Clear the conversation"},
		{Name: "model", Description: "Switch the chat model"},
		{Name: "help", Description: "Show available commands"},
		{Name: "quit", Description: "Leave the chat"},
	}
}
