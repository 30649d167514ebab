package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui"
	"github.com/telar-labs/weave-cli/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the dashboard assistant",
	Long: `Open the interactive chat with the dashboard's AI assistant.

Scope the conversation to a board, query or datastore to give the
assistant the matching context. Without a scope flag the conversation
is general.

Inside the chat, @ mentions boards and queries, / runs commands
(/format, /test, /clear, /model, /help, /quit).

Examples:
  weave chat
  weave chat --board b_12
  weave chat --query q_7
  weave chat --session 2f9c...   # resume a stored session`,
	RunE: runChat,
}

var (
	chatBoardID     string
	chatQueryID     string
	chatDatastoreID string
	chatSessionID   string
)

func init() {
	chatCmd.Flags().StringVar(&chatBoardID, "board", "", "Scope the chat to a board")
	chatCmd.Flags().StringVar(&chatQueryID, "query", "", "Scope the chat to a query")
	chatCmd.Flags().StringVar(&chatDatastoreID, "datastore", "", "Scope the chat to a datastore")
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "Resume a stored session by ID")
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("chat needs an interactive terminal")
	}

	scope, err := chatScope()
	if err != nil {
		return err
	}

	return tui.Run(tui.Ports{
		Chat:     chatService,
		Sync:     syncService,
		Editor:   editorService,
		Settings: settingsService,
		Tester:   queryTester,
		Watcher:  sourceWatcher,
	}, tui.Options{
		Scope:       scope,
		BoardID:     chatBoardID,
		QueryID:     chatQueryID,
		DatastoreID: chatDatastoreID,
		SessionID:   chatSessionID,
	})
}

// chatScope derives the scope from the flag combination. At most one
// scope flag may be set.
func chatScope() (domain.ChatScope, error) {
	set := 0
	scope := domain.ScopeGeneral
	if chatBoardID != "" {
		set++
		scope = domain.ScopeBoard
	}
	if chatQueryID != "" {
		set++
		scope = domain.ScopeQuery
	}
	if chatDatastoreID != "" {
		set++
		scope = domain.ScopeDatastore
	}
	if set > 1 {
		return "", fmt.Errorf("at most one of --board, --query, --datastore may be set")
	}
	return scope, nil
}
