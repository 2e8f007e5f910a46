package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/mcp-search-server/database"
	"github.com/rpupo63/mcp-search-server/github"
	"github.com/rpupo63/mcp-search-server/readme"
)

// crawlTopicQuery identifies in-scope projects on the remote API.
const crawlTopicQuery = "topic:mcp-project"

// crawlBatchSize is the fixed search page size for one ingestion run.
const crawlBatchSize = 30

// RefreshReport is the structured outcome of one ingestion run. On failure
// Status is "error" and Message carries the cause; counts reflect whatever
// was committed before the run aborted.
type RefreshReport struct {
	Status          string `json:"status"`
	Message         string `json:"message,omitempty"`
	NewProjects     int    `json:"new_projects"`
	UpdatedProjects int    `json:"updated_projects"`
	RunID           string `json:"run_id"`
	Timestamp       string `json:"timestamp"`
}

// SourceFactory opens a remote client session for one ingestion run.
type SourceFactory func() github.RepoSource

// ProjectRefresher coordinates the remote project client and the readme
// extractor to reconcile crawled repositories into the catalog store.
type ProjectRefresher struct {
	db        database.Database
	newSource SourceFactory
}

func NewProjectRefresher(db database.Database, newSource SourceFactory) *ProjectRefresher {
	return &ProjectRefresher{db: db, newSource: newSource}
}

// Refresh runs one crawl-and-upsert pass over the fixed topic search.
// Each upsert commits independently: a failure aborts the remaining items
// but retains the progress already written. Re-running after an
// interruption is safe because the upsert is idempotent by repository URL.
//
// force is accepted as a documented extension point; batch size and
// filtering are currently fixed, so it does not change behavior.
func (r *ProjectRefresher) Refresh(ctx context.Context, force bool) RefreshReport {
	runID := uuid.New().String()
	logger := log.With().Str("run_id", runID).Logger()

	if force {
		logger.Info().Msg("Force refresh requested; crawl scope is fixed, running the standard batch")
	}

	source := r.newSource()
	defer source.Close()

	results, err := source.SearchRepos(ctx, crawlTopicQuery, 1, crawlBatchSize)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to search projects")
		return failureReport(runID, err)
	}

	logger.Info().
		Int("total_count", results.TotalCount).
		Int("batch", len(results.Items)).
		Msg("Starting ingestion run")

	newCount := 0
	updatedCount := 0

	for _, item := range results.Items {
		owner, repo, ok := strings.Cut(item.FullName, "/")
		if !ok {
			err := fmt.Errorf("malformed repository name %q", item.FullName)
			logger.Error().Err(err).Msg("Aborting ingestion run")
			return partialFailureReport(runID, err, newCount, updatedCount)
		}

		readmeText, err := source.GetReadme(ctx, owner, repo)
		if err != nil {
			logger.Error().Err(err).Str("repo", item.FullName).Msg("Aborting ingestion run")
			return partialFailureReport(runID, err, newCount, updatedCount)
		}

		stats, err := source.GetRepoStats(ctx, owner, repo)
		if err != nil {
			logger.Error().Err(err).Str("repo", item.FullName).Msg("Aborting ingestion run")
			return partialFailureReport(runID, err, newCount, updatedCount)
		}

		summary := readme.Extract(readmeText)

		// Prefer the API's native description, falling back to the one
		// derived from the readme.
		description := item.Description
		if description == "" {
			description = summary.Description
		}

		input := database.ProjectInput{
			Name:          item.Name,
			Description:   description,
			RepoURL:       item.HTMLURL,
			ReadmeContent: readmeText,
			Stars:         stats.Stars,
			Forks:         stats.Forks,
			Language:      stats.Language,
			Categories:    summary.Categories,
			Tags:          summary.Tags,
			RelatedLinks:  summary.RelatedLinks,
		}

		_, created, err := r.db.CreateOrUpdateProject(input)
		if err != nil {
			logger.Error().Err(err).Str("repo", item.FullName).Msg("Aborting ingestion run")
			return partialFailureReport(runID, err, newCount, updatedCount)
		}

		if created {
			newCount++
		} else {
			updatedCount++
		}
	}

	logger.Info().
		Int("new", newCount).
		Int("updated", updatedCount).
		Msg("Ingestion run finished")

	return RefreshReport{
		Status:          "success",
		NewProjects:     newCount,
		UpdatedProjects: updatedCount,
		RunID:           runID,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
}

func failureReport(runID string, cause error) RefreshReport {
	return partialFailureReport(runID, cause, 0, 0)
}

func partialFailureReport(runID string, cause error, newCount, updatedCount int) RefreshReport {
	return RefreshReport{
		Status:          "error",
		Message:         cause.Error(),
		NewProjects:     newCount,
		UpdatedProjects: updatedCount,
		RunID:           runID,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
}
