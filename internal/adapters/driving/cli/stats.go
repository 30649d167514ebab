package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show local chat history statistics",
	Long: `Summarise the locally stored chat history: session and message
counts, tool calls, and a per-model breakdown.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	stats, err := chatService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to derive stats: %w", err)
	}

	cmd.Println("Chat History")
	cmd.Println("============")
	cmd.Printf("  Sessions:   %d\n", stats.Sessions)
	cmd.Printf("  Messages:   %d\n", stats.Messages)
	cmd.Printf("  Tool calls: %d\n", stats.ToolCalls)

	if len(stats.ByModel) > 0 {
		cmd.Println()
		cmd.Println("Sessions by model:")
		models := make([]string, 0, len(stats.ByModel))
		for model := range stats.ByModel {
			models = append(models, model)
		}
		sort.Strings(models)
		for _, model := range models {
			cmd.Printf("  %-24s %d\n", model, stats.ByModel[model])
		}
	}
	return nil
}
