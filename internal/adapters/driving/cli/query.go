package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Work with backend queries",
	Long: `List, inspect and sync the dashboard backend's saved queries.

'pull' writes a query's annotated source to a local file; 'push' sends
a local file back, replacing the query's code while keeping its board
binding and metadata.

Examples:
  weave query list
  weave query list --board b_12
  weave query show q_7
  weave query pull q_7 revenue.py
  weave query push revenue.py q_7`,
}

var queryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved queries",
	RunE:  runQueryList,
}

var queryShowCmd = &cobra.Command{
	Use:   "show [query-id]",
	Short: "Show a query and its annotated source",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueryShow,
}

var queryPullCmd = &cobra.Command{
	Use:   "pull [query-id] [file]",
	Short: "Write a query's source to a local file",
	Args:  cobra.ExactArgs(2),
	RunE:  runQueryPull,
}

var queryPushCmd = &cobra.Command{
	Use:   "push [file] [query-id]",
	Short: "Send a local file's content to a query",
	Args:  cobra.ExactArgs(2),
	RunE:  runQueryPush,
}

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List boards",
	RunE:  runBoards,
}

var datastoresCmd = &cobra.Command{
	Use:   "datastores",
	Short: "List datastores",
	RunE:  runDatastores,
}

var queryListBoardID string

func init() {
	queryListCmd.Flags().StringVar(&queryListBoardID, "board", "", "Only queries of this board")

	queryCmd.AddCommand(queryListCmd)
	queryCmd.AddCommand(queryShowCmd)
	queryCmd.AddCommand(queryPullCmd)
	queryCmd.AddCommand(queryPushCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(boardsCmd)
	rootCmd.AddCommand(datastoresCmd)
}

func runQueryList(cmd *cobra.Command, _ []string) error {
	if directory == nil {
		return errors.New("backend not configured")
	}

	queries, err := directory.ListQueries(context.Background(), queryListBoardID)
	if err != nil {
		return fmt.Errorf("failed to list queries: %w", err)
	}

	if len(queries) == 0 {
		cmd.Println("No queries found.")
		return nil
	}

	for i := range queries {
		cmd.Printf("  %s\n", queries[i].ID)
		cmd.Printf("    Name: %s\n", queries[i].Name)
		if queries[i].BoardID != "" {
			cmd.Printf("    Board: %s\n", queries[i].BoardID)
		}
		if queries[i].Description != "" {
			cmd.Printf("    Description: %s\n", queries[i].Description)
		}
		cmd.Printf("    Updated: %s\n", queries[i].UpdatedAt.Format(time.RFC3339))
		cmd.Println()
	}
	return nil
}

func runQueryShow(cmd *cobra.Command, args []string) error {
	if directory == nil {
		return errors.New("backend not configured")
	}

	query, err := directory.GetQuery(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get query: %w", err)
	}

	cmd.Printf("ID: %s\n", query.ID)
	cmd.Printf("Name: %s\n", query.Name)
	if query.BoardID != "" {
		cmd.Printf("Board: %s\n", query.BoardID)
	}
	if query.Description != "" {
		cmd.Printf("Description: %s\n", query.Description)
	}
	cmd.Println()
	cmd.Println(strings.TrimRight(query.Code, "\n"))
	return nil
}

func runQueryPull(cmd *cobra.Command, args []string) error {
	if editorService == nil {
		return errors.New("editor service not configured")
	}

	queryID, path := args[0], args[1]
	if err := editorService.Pull(context.Background(), queryID, path); err != nil {
		return fmt.Errorf("failed to pull query: %w", err)
	}

	cmd.Printf("Pulled query %s into %s\n", queryID, path)
	return nil
}

func runQueryPush(cmd *cobra.Command, args []string) error {
	if editorService == nil {
		return errors.New("editor service not configured")
	}

	path, queryID := args[0], args[1]
	query, err := editorService.Push(context.Background(), path, queryID)
	if err != nil {
		return fmt.Errorf("failed to push query: %w", err)
	}

	cmd.Printf("Pushed %s to query %s (%s)\n", path, query.ID, query.Name)
	return nil
}

func runBoards(cmd *cobra.Command, _ []string) error {
	if directory == nil {
		return errors.New("backend not configured")
	}

	boards, err := directory.ListBoards(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list boards: %w", err)
	}

	if len(boards) == 0 {
		cmd.Println("No boards found.")
		return nil
	}

	for i := range boards {
		cmd.Printf("  %s  %s\n", boards[i].ID, boards[i].Name)
		if boards[i].Description != "" {
			cmd.Printf("      %s\n", boards[i].Description)
		}
	}
	return nil
}

func runDatastores(cmd *cobra.Command, _ []string) error {
	if directory == nil {
		return errors.New("backend not configured")
	}

	datastores, err := directory.ListDatastores(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list datastores: %w", err)
	}

	if len(datastores) == 0 {
		cmd.Println("No datastores found.")
		return nil
	}

	for i := range datastores {
		cmd.Printf("  %s  %s (%s)\n", datastores[i].ID, datastores[i].Name, datastores[i].Type)
	}
	return nil
}
