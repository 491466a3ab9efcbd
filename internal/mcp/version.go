package mcp

import (
	"context"

	"github.com/bobmcallan/earnings-insight/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool(ToolGetVersion,
		mcp.WithDescription("Get the earnings-insight server version. Use this to verify connectivity."),
	)
}

// VersionToolHandler reports the build metadata of the running binary.
func VersionToolHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(config.Current()), nil
	}
}
