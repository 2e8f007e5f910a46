package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/mcp-search-server/config"
)

// HTTPServer serves the MCP streamable HTTP transport plus a health probe.
type HTTPServer struct {
	*http.Server
}

// NewHTTPServer mounts the MCP server on a chi router at /mcp.
func NewHTTPServer(s *Server, c map[string]string) HTTPServer {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	router := chi.NewRouter()
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"status":"ok"}`))
	})
	router.Mount("/mcp", s.NewStreamableHTTPServer())

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(c, "READ_TIMEOUT_SECONDS", 180),
		WriteTimeout: config.GetDuration(c, "WRITE_TIMEOUT_SECONDS", 180),
		IdleTimeout:  config.GetDuration(c, "IDLE_TIMEOUT_SECONDS", 180),
	}

	return HTTPServer{server}
}

func (s HTTPServer) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s HTTPServer) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
