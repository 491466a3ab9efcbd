// Package mcp exposes the dashboard operations as MCP tools over
// streamable HTTP.
package mcp

import (
	"net/http"

	"github.com/bobmcallan/earnings-insight/internal/common"
	"github.com/bobmcallan/earnings-insight/internal/config"
	"github.com/bobmcallan/earnings-insight/internal/interfaces"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ServerName identifies this server to MCP clients.
const ServerName = "earnings-insight"

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
	tools      []string
}

// NewHandler creates an MCP handler whose tools call service.
func NewHandler(service interfaces.InsightService, logger *common.Logger) *Handler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	mcpSrv := mcpserver.NewMCPServer(
		ServerName,
		config.Version,
		mcpserver.WithToolCapabilities(true),
	)
	names := RegisterTools(mcpSrv, service, logger)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", len(names)).
		Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
		tools:      names,
	}
}

// Tools returns the names of the registered tools.
func (h *Handler) Tools() []string {
	out := make([]string, len(h.tools))
	copy(out, h.tools)
	return out
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
