package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Dashboard endpoints, served at the root and under /api/
	for _, prefix := range []string{"", "/api"} {
		mux.HandleFunc(prefix+"/ticker/{ticker}", s.app.InsightHandler.HandleTicker)
		mux.HandleFunc(prefix+"/analyze/{ticker}/{quarter}", s.app.InsightHandler.HandleAnalyze)
		mux.HandleFunc(prefix+"/summarize/{ticker}", s.app.InsightHandler.HandleSummarize)
	}

	// MCP endpoint (streamable HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
