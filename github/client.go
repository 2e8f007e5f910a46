// Package github is the remote project API access layer. It wraps the
// GitHub REST API behind a narrow client used by ingestion.
//
// Failure policy: transport-level errors (timeouts, DNS, connection refused)
// propagate to the caller wrapped in errs.ErrTransport; HTTP-level
// non-success responses are recovered into empty or default results with a
// logged warning. Batch ingestion depends on this asymmetry to survive
// partial API failures.
package github

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/rpupo63/mcp-search-server/errs"
)

// RepoSource is the surface the ingestion coordinator consumes. A source is
// scoped to one ingestion run; Close releases its connections.
type RepoSource interface {
	SearchRepos(ctx context.Context, query string, page, perPage int) (SearchResult, error)
	GetReadme(ctx context.Context, owner, repo string) (string, error)
	GetRepoStats(ctx context.Context, owner, repo string) (RepoStats, error)
	Close()
}

// RepoItem is one repository from a search result.
type RepoItem struct {
	FullName    string `json:"full_name"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
}

// SearchResult is the shape of one search page, sorted by descending stars.
// Failed searches yield the zero shape with a non-nil empty Items slice.
type SearchResult struct {
	TotalCount int        `json:"total_count"`
	Items      []RepoItem `json:"items"`
}

// RepoStats carries the star/fork/language statistics for one repository.
// Missing data defaults to zero values.
type RepoStats struct {
	Stars     int    `json:"stars"`
	Forks     int    `json:"forks"`
	UpdatedAt string `json:"updated_at"`
	CreatedAt string `json:"created_at"`
	Language  string `json:"language"`
}

// Client implements RepoSource against the real GitHub API.
type Client struct {
	gh     *github.Client
	http   *http.Client
	logger zerolog.Logger
}

var _ RepoSource = (*Client)(nil)

// NewClient creates a client holding the bearer credential for its lifetime.
// An empty token produces an unauthenticated client for public data.
func NewClient(token string) *Client {
	httpClient := &http.Client{}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	httpClient.Timeout = 30 * time.Second

	return &Client{
		gh:     github.NewClient(httpClient),
		http:   httpClient,
		logger: log.With().Str("component", "github_client").Logger(),
	}
}

// Close releases the client's idle connections. Callers own the client's
// scope and must close it on every exit path.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// isStatusError reports whether err is an HTTP-level non-success response
// (as opposed to a transport failure that never produced a response).
func isStatusError(err error) bool {
	var errResp *github.ErrorResponse
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	return errors.As(err, &errResp) || errors.As(err, &rateErr) || errors.As(err, &abuseErr)
}

// GetRepoInfo returns the repository metadata. A non-success response is
// logged and recovered into an empty record, never an error; only transport
// failures are surfaced.
func (c *Client) GetRepoInfo(ctx context.Context, owner, repo string) (*github.Repository, error) {
	info, _, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		if isStatusError(err) {
			c.logger.Warn().Err(err).
				Str("owner", owner).
				Str("repo", repo).
				Msg("Failed to get repo info")
			return &github.Repository{}, nil
		}
		return nil, errs.NewTransportError("get repo info", err)
	}
	return info, nil
}

// GetReadme fetches the repository readme. The API returns the body as a
// base64 content field which the API client decodes to UTF-8 text. Missing
// or undecodable content yields an empty string.
func (c *Client) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	content, _, err := c.gh.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		if isStatusError(err) {
			c.logger.Warn().Err(err).
				Str("owner", owner).
				Str("repo", repo).
				Msg("Failed to get readme")
			return "", nil
		}
		return "", errs.NewTransportError("get readme", err)
	}

	text, err := content.GetContent()
	if err != nil {
		c.logger.Warn().Err(err).
			Str("owner", owner).
			Str("repo", repo).
			Msg("Failed to decode readme content")
		return "", nil
	}
	return text, nil
}

// SearchRepos searches repositories matching the query, sorted by
// descending star count. A non-success response yields the empty result
// shape, never an error.
func (c *Client) SearchRepos(ctx context.Context, query string, page, perPage int) (SearchResult, error) {
	empty := SearchResult{Items: []RepoItem{}}

	opts := &github.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}

	result, _, err := c.gh.Search.Repositories(ctx, query, opts)
	if err != nil {
		if isStatusError(err) {
			c.logger.Warn().Err(err).
				Str("query", query).
				Msg("Failed to search repos")
			return empty, nil
		}
		return empty, errs.NewTransportError("search repos", err)
	}

	items := make([]RepoItem, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		items = append(items, convertRepoItem(repo))
	}

	return SearchResult{
		TotalCount: result.GetTotal(),
		Items:      items,
	}, nil
}

// GetRepoStats derives repository statistics from GetRepoInfo. All fields
// default to zero/empty when the underlying lookup soft-failed.
func (c *Client) GetRepoStats(ctx context.Context, owner, repo string) (RepoStats, error) {
	info, err := c.GetRepoInfo(ctx, owner, repo)
	if err != nil {
		return RepoStats{}, err
	}

	stats := RepoStats{
		Stars:    info.GetStargazersCount(),
		Forks:    info.GetForksCount(),
		Language: info.GetLanguage(),
	}
	if created := info.GetCreatedAt(); !created.IsZero() {
		stats.CreatedAt = created.UTC().Format(time.RFC3339)
	}
	if updated := info.GetUpdatedAt(); !updated.IsZero() {
		stats.UpdatedAt = updated.UTC().Format(time.RFC3339)
	}
	return stats, nil
}

func convertRepoItem(repo *github.Repository) RepoItem {
	return RepoItem{
		FullName:    repo.GetFullName(),
		Name:        repo.GetName(),
		Description: repo.GetDescription(),
		HTMLURL:     repo.GetHTMLURL(),
		Language:    repo.GetLanguage(),
		Stars:       repo.GetStargazersCount(),
		Forks:       repo.GetForksCount(),
	}
}
