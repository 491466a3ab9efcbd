package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/bobmcallan/earnings-insight/internal/apperr"
	"github.com/mark3labs/mcp-go/mcp"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// kindErrorResult reports err as a tool error prefixed with its kind, e.g.
// "[data] No earnings data found for ZZZZ".
func kindErrorResult(err error) *mcp.CallToolResult {
	return errorResult(fmt.Sprintf("[%s] %s", apperr.KindOf(err), apperr.UserMessage(err)))
}

// jsonResult marshals v into a text content result.
func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult("failed to marshal result")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(out))},
	}
}
