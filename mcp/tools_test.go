package mcp

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestFailureResultIsStructuredText(t *testing.T) {
	result := failureResult(errors.New("remote search failed"))

	// Tool failures are reported as data, not protocol errors.
	assert.False(t, result.IsError)

	var failure toolFailure
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &failure))
	assert.Equal(t, "error", failure.Status)
	assert.Equal(t, "remote search failed", failure.Message)
	assert.NotEmpty(t, failure.Timestamp)
}

func TestJSONResult(t *testing.T) {
	result, err := jsonResult(map[string]int{"total": 3})
	require.NoError(t, err)

	assert.JSONEq(t, `{"total":3}`, textContent(t, result))
}
