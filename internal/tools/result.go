// Package tools implements the MCP tool handlers over the dashboard stores.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/kovin-ide/kovin/internal/apperr"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// toolFailure reports a store error, prefixed with its code when it has one
func toolFailure(action string, err error) *mcp.CallToolResult {
	if code := apperr.CodeOf(err); code != "" {
		return toolError("Failed to %s [%s]: %v", action, code, err)
	}
	return toolError("Failed to %s: %v", action, err)
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
