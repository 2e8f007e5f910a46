package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/mcp-search-server/database"
)

func seedProjects(t *testing.T, store database.Database, count int, categories ...string) {
	t.Helper()

	for i := 1; i <= count; i++ {
		input := database.ProjectInput{
			Name:        fmt.Sprintf("project-%02d", i),
			Description: fmt.Sprintf("project %d description", i),
			RepoURL:     fmt.Sprintf("https://github.com/org/project-%02d", i),
			Stars:       i,
			Categories:  categories,
		}
		_, _, err := store.CreateOrUpdateProject(input)
		require.NoError(t, err)
	}
}

func TestDailyRecommendationsCapped(t *testing.T) {
	store := newTestStore(t)
	seedProjects(t, store, 8)

	query := NewQueryService(store)

	items, err := query.DailyRecommendations()
	require.NoError(t, err)

	require.Len(t, items, 5)
	assert.Equal(t, "project-08", items[0].Name)
	assert.Equal(t, "project-04", items[4].Name)
}

func TestListAwesomeFiltersByCategory(t *testing.T) {
	store := newTestStore(t)
	seedProjects(t, store, 2, "awesome-mcp")

	_, _, err := store.CreateOrUpdateProject(database.ProjectInput{
		Name:    "plain",
		RepoURL: "https://github.com/org/plain",
		Stars:   99,
	})
	require.NoError(t, err)

	query := NewQueryService(store)

	results, err := query.ListAwesome(1, 10)
	require.NoError(t, err)

	assert.EqualValues(t, 2, results.Total)
	for _, item := range results.Items {
		assert.Contains(t, item.Categories, "awesome-mcp")
	}
}

func TestStatsOverview(t *testing.T) {
	store := newTestStore(t)
	query := NewQueryService(store)

	overview, err := query.StatsOverview()
	require.NoError(t, err)
	assert.Zero(t, overview.TotalProjects)
	assert.Nil(t, overview.TopProject)

	seedProjects(t, store, 3)

	overview, err = query.StatsOverview()
	require.NoError(t, err)
	assert.EqualValues(t, 3, overview.TotalProjects)
	require.NotNil(t, overview.TopProject)
	assert.Equal(t, "project-03", overview.TopProject.Name)
}
