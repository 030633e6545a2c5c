package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bobmcallan/weather-mcp/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *mux.Router {
	router := mux.NewRouter()

	// MCP endpoint (JSON-RPC over HTTP)
	router.Handle("/mcp", s.app.MCPHandler).Methods(http.MethodPost)

	router.Handle("/health", s.app.HealthHandler).Methods(http.MethodGet, http.MethodHead)
	router.Handle("/api/version", s.app.VersionHandler).Methods(http.MethodGet, http.MethodHead)

	router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	return router
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "The requested endpoint does not exist")
}

// handleMethodNotAllowed returns a JSON 405 for known routes hit with the wrong method.
func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
