package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/mcp-search-server/errs"
)

// newTestClient points a Client at a local fake of the GitHub REST API.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("")
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	c.gh.BaseURL = baseURL

	return c, server
}

func TestSearchRepos(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "topic:mcp-project", r.URL.Query().Get("q"))
		assert.Equal(t, "stars", r.URL.Query().Get("sort"))
		assert.Equal(t, "desc", r.URL.Query().Get("order"))

		json.NewEncoder(w).Encode(map[string]any{
			"total_count": 2,
			"items": []map[string]any{
				{
					"full_name":        "org/server-one",
					"name":             "server-one",
					"description":      "first server",
					"html_url":         "https://github.com/org/server-one",
					"language":         "Go",
					"stargazers_count": 100,
					"forks_count":      7,
				},
				{
					"full_name":        "org/server-two",
					"name":             "server-two",
					"html_url":         "https://github.com/org/server-two",
					"stargazers_count": 50,
				},
			},
		})
	})

	c, _ := newTestClient(t, mux)
	defer c.Close()

	result, err := c.SearchRepos(context.Background(), "topic:mcp-project", 1, 30)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalCount)
	require.Len(t, result.Items, 2)
	assert.Equal(t, RepoItem{
		FullName:    "org/server-one",
		Name:        "server-one",
		Description: "first server",
		HTMLURL:     "https://github.com/org/server-one",
		Language:    "Go",
		Stars:       100,
		Forks:       7,
	}, result.Items[0])
	assert.Equal(t, "server-two", result.Items[1].Name)
}

func TestSearchReposStatusErrorRecovered(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Validation Failed"}`, http.StatusUnprocessableEntity)
	}))
	defer c.Close()

	result, err := c.SearchRepos(context.Background(), "topic:mcp-project", 1, 30)
	require.NoError(t, err)

	assert.Zero(t, result.TotalCount)
	require.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
}

func TestSearchReposTransportErrorPropagates(t *testing.T) {
	c, server := newTestClient(t, http.NewServeMux())
	defer c.Close()
	server.Close()

	_, err := c.SearchRepos(context.Background(), "topic:mcp-project", 1, 30)
	require.Error(t, err)
	assert.True(t, errs.IsTransportError(err))
}

func TestGetReadme(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/org/server-one/readme", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte("# Hello\n\nreadme body")),
		})
	})

	c, _ := newTestClient(t, mux)
	defer c.Close()

	text, err := c.GetReadme(context.Background(), "org", "server-one")
	require.NoError(t, err)
	assert.Equal(t, "# Hello\n\nreadme body", text)
}

func TestGetReadmeMissingRecovered(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer c.Close()

	text, err := c.GetReadme(context.Background(), "org", "no-such-repo")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestGetRepoStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/org/server-one", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"stargazers_count": 321,
			"forks_count":      12,
			"language":         "Go",
			"created_at":       "2024-05-01T10:00:00Z",
			"updated_at":       "2025-01-15T09:30:00Z",
		})
	})

	c, _ := newTestClient(t, mux)
	defer c.Close()

	stats, err := c.GetRepoStats(context.Background(), "org", "server-one")
	require.NoError(t, err)

	assert.Equal(t, RepoStats{
		Stars:     321,
		Forks:     12,
		Language:  "Go",
		CreatedAt: "2024-05-01T10:00:00Z",
		UpdatedAt: "2025-01-15T09:30:00Z",
	}, stats)
}

func TestGetRepoStatsMissingDefaults(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer c.Close()

	stats, err := c.GetRepoStats(context.Background(), "org", "no-such-repo")
	require.NoError(t, err)

	assert.Equal(t, RepoStats{}, stats)
}
