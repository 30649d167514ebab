package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui"
	"github.com/telar-labs/weave-cli/internal/core/domain"
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Edit the SQL fragments of an annotated file",
	Long: `Open the interactive editor on an annotated source file.

The editor extracts every '# @query:' fragment, combines them into one
SQL composite, and splices your edits back on save. Lines outside the
fragments are never touched. External changes to the file are picked
up automatically while the editor is open.

Keys: ctrl+f formats, ctrl+s saves, ctrl+l opens the session list.

Example:
  weave edit dashboards/revenue.py`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(_ *cobra.Command, args []string) error {
	if editorService == nil {
		return errors.New("editor service not configured")
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("edit needs an interactive terminal")
	}

	return tui.Run(tui.Ports{
		Chat:     chatService,
		Sync:     syncService,
		Editor:   editorService,
		Settings: settingsService,
		Tester:   queryTester,
		Watcher:  sourceWatcher,
	}, tui.Options{
		Scope:    domain.ScopeGeneral,
		FilePath: args[0],
	})
}
