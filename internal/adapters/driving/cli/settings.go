package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the backend connection, chat model and editor
behaviour. Settings live in ~/.config/weave/config.toml.

Examples:
  weave settings show
  weave settings backend https://bi.example.com
  weave settings model gemini-2.0-flash`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsBackendCmd = &cobra.Command{
	Use:   "backend [url]",
	Short: "Set the backend base URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsBackend,
}

var settingsModelCmd = &cobra.Command{
	Use:   "model [name]",
	Short: "Set the default chat model",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsModel,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsBackendCmd)
	settingsCmd.AddCommand(settingsModelCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  URL: %s\n", settings.Backend.BaseURL)
	cmd.Println()

	cmd.Println("[Chat]")
	cmd.Printf("  Model: %s\n", settings.Chat.Model)
	cmd.Printf("  History limit: %d\n", settings.Chat.HistoryLimit)
	cmd.Println()

	cmd.Println("[Editor]")
	cmd.Printf("  Format on save: %v\n", settings.Editor.FormatOnSave)
	cmd.Printf("  Watch files: %v\n", settings.Editor.Watch)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsBackend(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetBackendURL(args[0]); err != nil {
		return fmt.Errorf("failed to set backend URL: %w", err)
	}

	cmd.Printf("Backend URL set to: %s\n", args[0])
	return nil
}

func runSettingsModel(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetModel(args[0]); err != nil {
		return fmt.Errorf("failed to set model: %w", err)
	}

	cmd.Printf("Chat model set to: %s\n", args[0])
	return nil
}
