// Package usecase contains the business logic of the application.
package usecase

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/repodash/internal/domain"
	"github.com/rs/zerolog"
)

// DatasetSource hands out loaded datasets by kind.
type DatasetSource interface {
	Get(kind domain.Kind) (*domain.Dataset, error)
}

// Analyzer is the use case behind every dashboard view.
// It resolves parameters, runs the engine and shapes the results.
type Analyzer struct {
	datasets DatasetSource
	logger   zerolog.Logger
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(datasets DatasetSource, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		datasets: datasets,
		logger:   logger,
	}
}

func (a *Analyzer) dataset(name string) (*domain.Dataset, error) {
	kind, err := domain.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return a.datasets.Get(kind)
}

// Distribution computes the percentage of repositories using a language in
// each group of a metric.
func (a *Analyzer) Distribution(p DistributionParams) (*domain.Distribution, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	ds, err := a.dataset(p.Dataset)
	if err != nil {
		return nil, err
	}
	metric, err := domain.ParseMetric(p.Metric)
	if err != nil {
		return nil, err
	}

	gd, err := CreateGroups(ds, metric)
	if err != nil {
		return nil, err
	}
	table, err := PercentageGrouped(gd, domain.GroupColumn, domain.LanguageAlias)
	if err != nil {
		return nil, err
	}
	points, err := table.Series(p.Language)
	if err != nil {
		return nil, err
	}
	for i := range points {
		points[i].Percentage = round2(points[i].Percentage)
	}

	a.logger.Debug().
		Str("dataset", string(ds.Kind)).
		Str("metric", metric).
		Str("language", p.Language).
		Ints("edges", gd.Edges[:]).
		Int("unassigned", gd.Unassigned()).
		Msg("distribution computed")

	return &domain.Distribution{
		Dataset:    ds.Kind,
		Metric:     metric,
		Language:   p.Language,
		Edges:      gd.Edges,
		Points:     points,
		Unassigned: gd.Unassigned(),
	}, nil
}

// Trend counts the repositories of a language created in each year. Every
// year present in the dataset is reported, with 0 where the language has none.
func (a *Analyzer) Trend(p TrendParams) (*domain.Trend, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	ds, err := a.dataset(p.Dataset)
	if err != nil {
		return nil, err
	}
	if !ds.HasCreatedAt {
		return nil, fmt.Errorf("%w: the %s dataset has no %s column", domain.ErrInvalidColumn, ds.Kind, domain.ColumnCreatedAt)
	}
	if p.Language == "" {
		return nil, fmt.Errorf("%w: no language selected", domain.ErrEmptySelection)
	}

	counts := make(map[int]int)
	found := false
	for _, r := range ds.Records {
		y := r.CreatedAt.Year()
		if _, ok := counts[y]; !ok {
			counts[y] = 0
		}
		if r.Language == p.Language {
			counts[y]++
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: language %q does not occur in the %s dataset", domain.ErrEmptySelection, p.Language, ds.Kind)
	}

	years := make([]domain.YearCount, 0, len(counts))
	for y, c := range counts {
		years = append(years, domain.YearCount{Year: y, Count: c})
	}
	sort.Slice(years, func(i, j int) bool {
		return years[i].Year < years[j].Year
	})

	return &domain.Trend{Dataset: ds.Kind, Language: p.Language, Years: years}, nil
}

// Correlation returns the stars vs forks scatter and its Pearson coefficient.
func (a *Analyzer) Correlation(p CorrelationParams) (*domain.Correlation, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	ds, err := a.dataset(p.Dataset)
	if err != nil {
		return nil, err
	}
	if len(ds.Records) < 2 {
		return nil, fmt.Errorf("%w: need at least two repositories to correlate", domain.ErrEmptySelection)
	}

	stars, err := ds.Values(domain.ColumnStars)
	if err != nil {
		return nil, err
	}
	forks, err := ds.Values(domain.ColumnForks)
	if err != nil {
		return nil, err
	}
	r, err := stats.Pearson(stats.Float64Data(stars), stats.Float64Data(forks))
	if err != nil {
		return nil, fmt.Errorf("failed to correlate stars and forks: %w", err)
	}

	points := make([]domain.ScatterPoint, len(ds.Records))
	for i, rec := range ds.Records {
		points[i] = domain.ScatterPoint{Name: rec.Name, Stars: rec.Stars, Forks: rec.Forks}
	}
	return &domain.Correlation{Dataset: ds.Kind, Pearson: round2(r), Points: points}, nil
}

// Top ranks the N repositories with the largest metric value. Ties keep
// file order.
func (a *Analyzer) Top(p TopParams) (*domain.Ranking, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	ds, err := a.dataset(p.Dataset)
	if err != nil {
		return nil, err
	}
	metric, err := domain.ParseMetric(p.Metric)
	if err != nil {
		return nil, err
	}
	if !ds.HasNumeric(metric) {
		return nil, fmt.Errorf("%w: %q is not a numeric column of the %s dataset", domain.ErrInvalidColumn, metric, ds.Kind)
	}

	order := make([]int, len(ds.Records))
	for i := range order {
		order[i] = i
	}
	value := func(i int) int {
		v, _ := ds.Records[i].Metric(metric)
		return v
	}
	sort.SliceStable(order, func(i, j int) bool {
		return value(order[i]) > value(order[j])
	})

	n := min(p.N, len(order))
	rows := make([]domain.RankedRepo, 0, n)
	for rank, idx := range order[:n] {
		rec := ds.Records[idx]
		rows = append(rows, domain.RankedRepo{
			Rank:     rank + 1,
			Name:     rec.Name,
			Value:    value(idx),
			Language: rec.Language,
		})
	}
	return &domain.Ranking{Dataset: ds.Kind, Metric: metric, Rows: rows}, nil
}

// Languages lists the distinct languages of a dataset in first-seen order.
func (a *Analyzer) Languages(dataset string) ([]string, error) {
	ds, err := a.dataset(dataset)
	if err != nil {
		return nil, err
	}
	return ds.Languages(), nil
}

// Dataset returns the loaded dataset of kind for raw display.
func (a *Analyzer) Dataset(kind domain.Kind) (*domain.Dataset, error) {
	return a.datasets.Get(kind)
}

// Summaries describes every loaded dataset.
func (a *Analyzer) Summaries() []domain.DatasetSummary {
	out := make([]domain.DatasetSummary, 0, len(domain.Kinds))
	for _, kind := range domain.Kinds {
		ds, err := a.datasets.Get(kind)
		if err != nil {
			continue
		}
		out = append(out, domain.DatasetSummary{
			Dataset:      ds.Kind,
			Records:      len(ds.Records),
			RowsRead:     ds.RowsRead,
			RowsDropped:  ds.RowsDropped,
			Metrics:      ds.Numeric,
			HasCreatedAt: ds.HasCreatedAt,
			Languages:    len(ds.Languages()),
		})
	}
	return out
}

func round2(x float64) float64 {
	r, err := stats.Round(x, 2)
	if err != nil {
		return x
	}
	return r
}
