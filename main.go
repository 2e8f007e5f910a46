package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/mcp-search-server/config"
	"github.com/rpupo63/mcp-search-server/database"
	"github.com/rpupo63/mcp-search-server/github"
	"github.com/rpupo63/mcp-search-server/mcp"
	"github.com/rpupo63/mcp-search-server/services"
)

const (
	serverName    = "mcp-search-server"
	serverVersion = "0.1.0"
)

func main() {
	// stdout belongs to the stdio MCP transport; all logging goes to stderr.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded, using environment variables")
	}

	c := config.New()

	db, err := database.Open(config.GetString(c, "DATABASE_URL", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	store := database.New(db)

	token := config.GetString(c, "GITHUB_TOKEN", "")
	if token == "" {
		log.Warn().Msg("GitHub token not provided, some features may be limited")
	}

	refresher := services.NewProjectRefresher(store, func() github.RepoSource {
		return github.NewClient(token)
	})
	query := services.NewQueryService(store)

	server := mcp.NewServer(serverName, serverVersion, query, refresher)

	switch transport := config.GetString(c, "TRANSPORT", "stdio"); transport {
	case "http":
		errChannel := make(chan error)
		defer close(errChannel)

		httpServer := mcp.NewHTTPServer(server, c)
		go httpServer.Start(errChannel)

		// Listen for interrupt signals to gracefully shutdown the server
		go listenToInterrupt(errChannel)

		fatalErr := <-errChannel
		log.Info().Msgf("Closing server: %v", fatalErr)

		httpServer.ShutdownGracefully(30 * time.Second)
	default:
		if err := server.ServeStdio(); err != nil {
			log.Fatal().Err(err).Msg("Stdio server stopped")
		}
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
