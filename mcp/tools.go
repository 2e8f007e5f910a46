package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// toolFailure is the structured error object returned to tool callers.
// Failures never raise past the facade boundary.
type toolFailure struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func failureResult(err error) *mcp.CallToolResult {
	payload, marshalErr := json.Marshal(toolFailure{
		Status:    "error",
		Message:   err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if marshalErr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(payload))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) registerSearchTools() {
	searchTool := mcp.NewTool(
		"search_projects",
		mcp.WithDescription(
			"Search indexed MCP projects by keyword. Matches name, description, "+
				"or readme text; results are ordered by descending star count.",
		),
		mcp.WithString("query", mcp.Description("Search keyword; empty returns everything")),
		mcp.WithNumber("page", mcp.Description("1-indexed page number (default 1)")),
		mcp.WithNumber("size", mcp.Description("Page size (default 10)")),
		mcp.WithString("category", mcp.Description("Restrict results to one category")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.mcp.AddTool(searchTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		page := req.GetInt("page", 1)
		size := req.GetInt("size", 10)
		category := req.GetString("category", "")

		results, err := s.query.SearchProjects(query, page, size, category)
		if err != nil {
			s.logger.Error().Err(err).Str("query", query).Msg("search_projects failed")
			return failureResult(err), nil
		}
		return jsonResult(results)
	})

	listTool := mcp.NewTool(
		"list_awesome_projects",
		mcp.WithDescription("List projects in the curated awesome-mcp category, ordered by stars."),
		mcp.WithNumber("page", mcp.Description("1-indexed page number (default 1)")),
		mcp.WithNumber("size", mcp.Description("Page size (default 10)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.mcp.AddTool(listTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		page := req.GetInt("page", 1)
		size := req.GetInt("size", 10)

		results, err := s.query.ListAwesome(page, size)
		if err != nil {
			s.logger.Error().Err(err).Msg("list_awesome_projects failed")
			return failureResult(err), nil
		}
		return jsonResult(results)
	})

	refreshTool := mcp.NewTool(
		"refresh_projects",
		mcp.WithDescription(
			"Crawl the remote project API and reconcile the results into the "+
				"catalog. Returns counts of newly created and updated projects.",
		),
		mcp.WithBoolean("force", mcp.Description("Reserved; the crawl scope is currently fixed")),
	)

	s.mcp.AddTool(refreshTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		force := req.GetBool("force", false)

		// Refresh returns a structured report for both success and failure;
		// partial progress is already committed either way.
		report := s.refresher.Refresh(ctx, force)
		return jsonResult(report)
	})
}

func (s *Server) registerInstallTools() {
	installTool := mcp.NewTool(
		"install_project",
		mcp.WithDescription("Install an MCP project by URL. Installation is not implemented yet."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Repository URL of the project to install")),
	)

	s.mcp.AddTool(installTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, err := req.RequireString("url"); err != nil {
			return nil, err
		}
		return jsonResult(map[string]string{
			"status":  "pending",
			"message": "Installation started",
		})
	})
}

func (s *Server) registerRecommendationTools() {
	recommendTool := mcp.NewTool(
		"get_daily_recommendations",
		mcp.WithDescription("Get the current top starred projects as daily recommendations."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.mcp.AddTool(recommendTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, err := s.query.DailyRecommendations()
		if err != nil {
			s.logger.Error().Err(err).Msg("get_daily_recommendations failed")
			return failureResult(err), nil
		}
		return jsonResult(items)
	})
}
