// Package cli implements the weave command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
	"github.com/telar-labs/weave-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired in by Execute. Commands nil-check the ones they need
// so partial wiring (tests) stays usable.
var (
	chatService     driving.ChatService
	syncService     driving.SyncService
	editorService   driving.EditorService
	settingsService driving.SettingsService
	authService     driving.AuthService
	directory       driven.BackendDirectory
	queryTester     driven.QueryTester
	entitySearcher  driven.EntitySearcher
	sourceWatcher   driven.SourceWatcher
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "weave",
	Short: "Terminal companion for your AI-assisted dashboard",
	Long: `weave edits the SQL inside annotated dashboard queries, chats with
the dashboard's AI assistant from the terminal, and keeps local files
and backend queries in sync.

Run 'weave chat' for the interactive assistant, 'weave edit <file>' to
edit a file's SQL fragments, or see the subcommands below.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Config carries the wired services into the CLI.
type Config struct {
	Chat      driving.ChatService
	Sync      driving.SyncService
	Editor    driving.EditorService
	Settings  driving.SettingsService
	Auth      driving.AuthService
	Directory driven.BackendDirectory
	Tester    driven.QueryTester
	Searcher  driven.EntitySearcher
	Watcher   driven.SourceWatcher

	// Version overrides the build-time version string when set.
	Version string
}

// Execute wires the services and runs the root command.
func Execute(cfg Config) error {
	chatService = cfg.Chat
	syncService = cfg.Sync
	editorService = cfg.Editor
	settingsService = cfg.Settings
	authService = cfg.Auth
	directory = cfg.Directory
	queryTester = cfg.Tester
	entitySearcher = cfg.Searcher
	sourceWatcher = cfg.Watcher
	if cfg.Version != "" {
		version = cfg.Version
	}

	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
