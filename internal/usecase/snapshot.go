package usecase

import (
	"context"
	"fmt"

	"github.com/naka-gawa/repodash/internal/dataset"
	"github.com/naka-gawa/repodash/internal/domain"
	"github.com/naka-gawa/repodash/internal/gateway"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultFetchConcurrency bounds the enrichment requests in flight.
const DefaultFetchConcurrency = 4

// SnapshotParams selects which repositories to fetch and the file layout to produce.
type SnapshotParams struct {
	Query       string `json:"query" validate:"required"`
	Limit       int    `json:"limit" validate:"min=1,max=1000"`
	Dataset     string `json:"dataset" validate:"required"`
	Concurrency int    `json:"concurrency" validate:"min=1,max=16"`
}

// Snapshotter is the use case for building dataset files from live GitHub data.
// It orchestrates the search and the per-repository enrichment.
type Snapshotter struct {
	fetcher gateway.Fetcher
	logger  zerolog.Logger
}

// NewSnapshotter creates a new Snapshotter instance.
func NewSnapshotter(fetcher gateway.Fetcher, logger zerolog.Logger) *Snapshotter {
	return &Snapshotter{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Snapshot searches repositories, enriches each one concurrently and returns
// them in search order. Repositories without a language are skipped since the
// loader would drop them anyway.
func (s *Snapshotter) Snapshot(ctx context.Context, p SnapshotParams) (*dataset.Snapshot, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	kind, err := domain.ParseKind(p.Dataset)
	if err != nil {
		return nil, err
	}

	hits, err := s.fetcher.SearchRepositories(ctx, p.Query, p.Limit)
	if err != nil {
		return nil, err
	}
	kept := hits[:0:0]
	for _, h := range hits {
		if h.Language == "" {
			s.logger.Debug().Str("repository", h.FullName).Msg("skipping repository without language")
			continue
		}
		kept = append(kept, h)
	}
	s.logger.Info().Int("found", len(hits)).Int("kept", len(kept)).Msg("enriching repositories")

	repos := make([]domain.Repository, len(kept))
	issues := make([]int, len(kept))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.Concurrency)
	for i, h := range kept {
		i, h := i, h
		eg.Go(func() error {
			activity, err := s.fetcher.FetchActivity(egCtx, h.Owner, h.Name)
			if err != nil {
				return err
			}
			repo := domain.Repository{
				Name:         h.FullName,
				Language:     h.Language,
				Stars:        h.Stars,
				Forks:        h.Forks,
				PullRequests: activity.PullRequests,
				Watchers:     h.Watchers,
				CreatedAt:    h.CreatedAt,
			}
			if kind == domain.KindGitHub {
				n, err := s.fetcher.CountContributors(egCtx, h.Owner, h.Name)
				if err != nil {
					return err
				}
				repo.Contributors = n
			}
			repos[i] = repo
			issues[i] = activity.Issues
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to enrich repositories: %w", err)
	}
	s.logger.Info().Int("repositories", len(repos)).Msg("snapshot complete")

	snap := &dataset.Snapshot{Kind: kind, Repos: repos, Issues: make(map[string]int, len(repos))}
	for i, r := range repos {
		snap.Issues[r.Name] = issues[i]
	}
	return snap, nil
}
