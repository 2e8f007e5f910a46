package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	daily := mcp.NewResource(
		"daily://recommendations",
		"Daily project recommendations",
		mcp.WithResourceDescription("Markdown list of the current top starred projects"),
		mcp.WithMIMEType("text/markdown"),
	)

	s.mcp.AddResource(daily, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		items, err := s.query.DailyRecommendations()
		if err != nil {
			return nil, err
		}

		var b strings.Builder
		b.WriteString("# Daily MCP Project Recommendations\n\n")
		for _, item := range items {
			fmt.Fprintf(&b, "## %s\n", item.Name)
			fmt.Fprintf(&b, "%s\n\n", item.Description)
			fmt.Fprintf(&b, "- Stars: %d\n", item.Stars)
			fmt.Fprintf(&b, "- Language: %s\n", item.Language)
			fmt.Fprintf(&b, "- URL: %s\n\n", item.RepoURL)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     b.String(),
			},
		}, nil
	})

	stats := mcp.NewResource(
		"stats://overview",
		"Catalog statistics",
		mcp.WithResourceDescription("Plain-text summary of the indexed catalog"),
		mcp.WithMIMEType("text/plain"),
	)

	s.mcp.AddResource(stats, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		overview, err := s.query.StatsOverview()
		if err != nil {
			return nil, err
		}

		topName := "none yet"
		if overview.TopProject != nil {
			topName = overview.TopProject.Name
		}

		text := fmt.Sprintf(
			"MCP Project Catalog\n\n- Total projects: %d\n- Top starred: %s\n",
			overview.TotalProjects, topName,
		)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "text/plain",
				Text:     text,
			},
		}, nil
	})
}
