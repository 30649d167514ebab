package mcp

import (
	"context"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRequest(uri string) *sdk.ReadResourceRequest {
	return &sdk.ReadResourceRequest{
		Params: &sdk.ReadResourceParams{URI: uri},
	}
}

// --- queries resource ---

func TestQueriesResource_ListsQueries(t *testing.T) {
	server := testServer(t, testPorts())

	result, err := server.handleQueriesResource(context.Background(), readRequest("weave://queries"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, `"id": "q1"`)
	assert.Contains(t, result.Contents[0].Text, `"monthly totals"`)
}

func TestQueriesResource_WithoutDirectory(t *testing.T) {
	ports := testPorts()
	ports.Directory = nil
	server := testServer(t, ports)

	result, err := server.handleQueriesResource(context.Background(), readRequest("weave://queries"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "[]", result.Contents[0].Text)
}

// --- query source resource ---

func TestQuerySourceResource_ReturnsCode(t *testing.T) {
	server := testServer(t, testPorts())

	result, err := server.handleQuerySourceResource(context.Background(),
		readRequest("weave://queries/q1"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "# @query: select 1\n", result.Contents[0].Text)
}

func TestQuerySourceResource_UnknownQuery(t *testing.T) {
	server := testServer(t, testPorts())

	_, err := server.handleQuerySourceResource(context.Background(),
		readRequest("weave://queries/nope"))

	assert.Error(t, err)
}

func TestQuerySourceResource_MalformedURI(t *testing.T) {
	server := testServer(t, testPorts())

	_, err := server.handleQuerySourceResource(context.Background(),
		readRequest("weave://other/q1"))

	assert.Error(t, err)
}

// --- file composite resource ---

func TestFileCompositeResource_ReturnsComposite(t *testing.T) {
	server := testServer(t, testPorts())

	result, err := server.handleFileCompositeResource(context.Background(),
		readRequest("weave://files/dash.py"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "select count(*) from orders", result.Contents[0].Text)
}

func TestFileCompositeResource_MissingFile(t *testing.T) {
	server := testServer(t, testPorts())

	_, err := server.handleFileCompositeResource(context.Background(),
		readRequest("weave://files/missing.py"))

	assert.Error(t, err)
}

func TestFileCompositeResource_WithoutEditor(t *testing.T) {
	ports := testPorts()
	ports.Editor = nil
	server := testServer(t, ports)

	_, err := server.handleFileCompositeResource(context.Background(),
		readRequest("weave://files/dash.py"))

	assert.Error(t, err)
}

// --- URI helpers ---

func TestExtractQueryID(t *testing.T) {
	assert.Equal(t, "q1", extractQueryID("weave://queries/q1"))
	assert.Empty(t, extractQueryID("weave://files/q1"))
}

func TestExtractFilePath(t *testing.T) {
	assert.Equal(t, "dash.py", extractFilePath("weave://files/dash.py"))
	assert.Equal(t, "a/b/dash.py", extractFilePath("weave://files/a/b/dash.py"))
	assert.Empty(t, extractFilePath("weave://queries/q1"))
}
