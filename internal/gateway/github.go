// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/rs/zerolog"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

// SearchHit is one repository returned by the repository search.
type SearchHit struct {
	Owner     string
	Name      string
	FullName  string
	Language  string
	Stars     int
	Forks     int
	Watchers  int
	CreatedAt time.Time
}

// Activity holds the pull request and issue totals of a repository.
type Activity struct {
	PullRequests int
	Issues       int
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	SearchRepositories(ctx context.Context, query string, limit int) ([]SearchHit, error)
	FetchActivity(ctx context.Context, owner, name string) (Activity, error)
	CountContributors(ctx context.Context, owner, name string) (int, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        zerolog.Logger
}

// activityQuery reads both totals in a single round trip.
type activityQuery struct {
	Repository struct {
		PullRequests struct {
			TotalCount int
		}
		Issues struct {
			TotalCount int
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// An empty token yields an unauthenticated client with the lower rate limit.
func NewGitHubGateway(token string, logger zerolog.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}
	httpClient := &http.Client{Transport: transport}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// SearchRepositories runs a repository search and returns at most limit hits,
// most starred first.
func (g *GitHubGateway) SearchRepositories(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	g.logger.Info().Str("query", query).Int("limit", limit).Msg("searching repositories")
	opts := &github.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: min(limit, 100)},
	}
	hits := make([]SearchHit, 0, limit)
	for len(hits) < limit {
		result, resp, err := g.restClient.Search.Repositories(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search repositories with REST API: %w", err)
		}
		for _, repo := range result.Repositories {
			if len(hits) == limit {
				break
			}
			hits = append(hits, SearchHit{
				Owner:     repo.GetOwner().GetLogin(),
				Name:      repo.GetName(),
				FullName:  repo.GetFullName(),
				Language:  repo.GetLanguage(),
				Stars:     repo.GetStargazersCount(),
				Forks:     repo.GetForksCount(),
				Watchers:  repo.GetWatchersCount(),
				CreatedAt: repo.GetCreatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug().Int("page", opts.Page).Msg("fetching next page of repositories")
	}
	g.logger.Info().Int("repositories", len(hits)).Msg("completed repository search")
	return hits, nil
}

// FetchActivity returns the pull request and issue totals of owner/name via GraphQL.
func (g *GitHubGateway) FetchActivity(ctx context.Context, owner, name string) (Activity, error) {
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	var q activityQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return Activity{}, fmt.Errorf("failed to execute GraphQL query for %s/%s: %w", owner, name, err)
	}
	return Activity{
		PullRequests: q.Repository.PullRequests.TotalCount,
		Issues:       q.Repository.Issues.TotalCount,
	}, nil
}

// CountContributors asks for one contributor per page and reads the total
// from the last page link.
func (g *GitHubGateway) CountContributors(ctx context.Context, owner, name string) (int, error) {
	opts := &github.ListContributorsOptions{
		Anon:        "true",
		ListOptions: github.ListOptions{PerPage: 1},
	}
	contributors, resp, err := g.restClient.Repositories.ListContributors(ctx, owner, name, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to list contributors of %s/%s: %w", owner, name, err)
	}
	if resp.LastPage > 0 {
		return resp.LastPage, nil
	}
	return len(contributors), nil
}
