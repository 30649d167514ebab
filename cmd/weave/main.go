package main

import (
	"fmt"
	"os"

	"github.com/telar-labs/weave-cli/internal/adapters/driven/auth"
	"github.com/telar-labs/weave-cli/internal/adapters/driven/backend"
	chatbackend "github.com/telar-labs/weave-cli/internal/adapters/driven/chatstream/backend"
	"github.com/telar-labs/weave-cli/internal/adapters/driven/config/file"
	"github.com/telar-labs/weave-cli/internal/adapters/driven/storage/sqlite"
	"github.com/telar-labs/weave-cli/internal/adapters/driven/watcher"
	"github.com/telar-labs/weave-cli/internal/adapters/driving/cli"
	"github.com/telar-labs/weave-cli/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("failed to open config store: %w", err)
	}
	settings := services.NewSettingsService(configStore)
	credentials := auth.NewCredentialsStore(configStore)

	appSettings, err := settings.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	client, err := backend.NewClient(backend.Config{
		BaseURL:     appSettings.Backend.BaseURL,
		Credentials: credentials,
	})
	if err != nil {
		return fmt.Errorf("failed to create backend client: %w", err)
	}
	backendAuth := backend.NewAuth(client)
	directory := backend.NewDirectory(client)
	search := backend.NewEntitySearch(client)

	streamer, err := chatbackend.NewStreamer(chatbackend.Config{
		BaseURL:     appSettings.Backend.BaseURL,
		Credentials: credentials,
	})
	if err != nil {
		return fmt.Errorf("failed to create chat streamer: %w", err)
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("failed to open prompt store: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer store.Close()

	syncEngine := services.NewSyncEngine()
	chat := services.NewChatManager(
		streamer,
		search,
		search,
		prompts,
		store.SessionStore(),
		store.MessageStore(),
		settings,
	)
	editor := services.NewEditorService(syncEngine, directory, settings)
	authService := services.NewAuthService(backendAuth, credentials, configStore)

	return cli.Execute(cli.Config{
		Chat:      chat,
		Sync:      syncEngine,
		Editor:    editor,
		Settings:  settings,
		Auth:      authService,
		Directory: directory,
		Tester:    directory,
		Searcher:  search,
		Watcher:   watcher.NewFileWatcher(),
		Version:   version,
	})
}
