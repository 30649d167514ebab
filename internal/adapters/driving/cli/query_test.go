package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Query Command Tests

func TestQueryCmd_Use(t *testing.T) {
	assert.Equal(t, "query", queryCmd.Use)
}

func TestQueryCmd_HasSubcommands(t *testing.T) {
	commands := queryCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "pull")
	assert.Contains(t, commandNames, "push")
}

// Query List Tests

func TestQueryListCmd_ListsQueries(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "query", "list")

	assert.NoError(t, err)
	assert.Contains(t, out, "q1")
	assert.Contains(t, out, "Name: totals")
	assert.Contains(t, out, "Board: b1")
}

func TestQueryListCmd_FiltersByBoard(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "query", "list", "--board", "other")

	assert.NoError(t, err)
	assert.Contains(t, out, "No queries found.")

	queryListBoardID = ""
}

func TestQueryListCmd_WithoutBackend(t *testing.T) {
	_, err := execute(t, "query", "list")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "backend not configured")
}

// Query Show Tests

func TestQueryShowCmd_PrintsSource(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "query", "show", "q1")

	assert.NoError(t, err)
	assert.Contains(t, out, "ID: q1")
	assert.Contains(t, out, "# @query: select count(*) from orders")
}

func TestQueryShowCmd_UnknownQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "query", "show", "nope")

	assert.Error(t, err)
}

func TestQueryShowCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "query", "show")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

// Query Pull / Push Tests

func TestQueryPullCmd_WritesFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTestFile(t, "")
	out, err := execute(t, "query", "pull", "q1", path)

	assert.NoError(t, err)
	assert.Contains(t, out, "Pulled query q1")

	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Contains(t, string(content), "# @query: select count(*) from orders")
}

func TestQueryPushCmd_SendsFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTestFile(t, "# @query: select 1\n")
	out, err := execute(t, "query", "push", path, "q1")

	assert.NoError(t, err)
	assert.Contains(t, out, "Pushed")
	assert.Contains(t, out, "q1")
}

// Boards / Datastores Tests

func TestBoardsCmd_ListsBoards(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "boards")

	assert.NoError(t, err)
	assert.Contains(t, out, "b1  Revenue")
	assert.Contains(t, out, "Monthly numbers")
}

func TestDatastoresCmd_ListsDatastores(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "datastores")

	assert.NoError(t, err)
	assert.Contains(t, out, "d1  warehouse (postgres)")
}
