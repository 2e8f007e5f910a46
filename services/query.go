package services

import (
	"github.com/rpupo63/mcp-search-server/database"
	"github.com/rpupo63/mcp-search-server/models"
)

// awesomeCategory is the curated-list category surfaced by the awesome
// listing tool.
const awesomeCategory = "awesome-mcp"

const dailyRecommendationCount = 5

// QueryService is a thin read facade over the catalog store. It holds no
// state beyond the store handle and performs no side effects.
type QueryService struct {
	db database.Database
}

func NewQueryService(db database.Database) QueryService {
	return QueryService{db: db}
}

// SearchProjects runs a paginated multi-predicate search.
func (s QueryService) SearchProjects(query string, page, size int, category string) (database.SearchResults, error) {
	return s.db.SearchProjects(database.SearchParams{
		Query:    query,
		Page:     page,
		Size:     size,
		Category: category,
	})
}

// ListAwesome lists members of the curated awesome category.
func (s QueryService) ListAwesome(page, size int) (database.SearchResults, error) {
	return s.db.SearchProjects(database.SearchParams{
		Page:     page,
		Size:     size,
		Category: awesomeCategory,
	})
}

// DailyRecommendations returns the top starred projects.
func (s QueryService) DailyRecommendations() ([]models.ProjectSummary, error) {
	results, err := s.db.SearchProjects(database.SearchParams{
		Page: 1,
		Size: dailyRecommendationCount,
	})
	if err != nil {
		return nil, err
	}
	return results.Items, nil
}

// StatsOverview summarizes the catalog: total indexed projects and the
// current top-starred one (nil when the catalog is empty).
type StatsOverview struct {
	TotalProjects int64                  `json:"total_projects"`
	TopProject    *models.ProjectSummary `json:"top_project,omitempty"`
}

func (s QueryService) StatsOverview() (StatsOverview, error) {
	results, err := s.db.SearchProjects(database.SearchParams{Page: 1, Size: 1})
	if err != nil {
		return StatsOverview{}, err
	}

	overview := StatsOverview{TotalProjects: results.Total}
	if len(results.Items) > 0 {
		top := results.Items[0]
		overview.TopProject = &top
	}
	return overview, nil
}
