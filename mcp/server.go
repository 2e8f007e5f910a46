// Package mcp exposes the catalog's search, ingestion, and recommendation
// operations as MCP tools and resources.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/mcp-search-server/services"
)

// Server wraps the mcp-go MCPServer with the project's tool and resource
// registrations.
type Server struct {
	mcp       *server.MCPServer
	query     services.QueryService
	refresher *services.ProjectRefresher
	logger    zerolog.Logger
}

// NewServer creates the MCP server and registers every tool and resource.
func NewServer(name, version string, query services.QueryService, refresher *services.ProjectRefresher) *Server {
	mcpServer := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
	)

	s := &Server{
		mcp:       mcpServer,
		query:     query,
		refresher: refresher,
		logger:    log.With().Str("component", "mcp_server").Logger(),
	}

	s.registerSearchTools()
	s.registerInstallTools()
	s.registerRecommendationTools()
	s.registerResources()

	return s
}

// MCP returns the underlying MCPServer.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio runs the server over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info().Msg("Serving MCP over stdio")
	return server.ServeStdio(s.mcp)
}

// NewStreamableHTTPServer creates the HTTP transport wrapping this server.
// Routing to the endpoint path is handled by the surrounding mux.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}
