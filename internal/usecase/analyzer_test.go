package usecase

import (
	"testing"
	"time"

	"github.com/naka-gawa/repodash/internal/domain"
	"github.com/naka-gawa/repodash/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockSource is a mock implementation of the DatasetSource interface.
type mockSource struct {
	mock.Mock
}

func (m *mockSource) Get(kind domain.Kind) (*domain.Dataset, error) {
	args := m.Called(kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func repositoryDataset() *domain.Dataset {
	schema := domain.SchemaFor(domain.KindRepository)
	at := func(year int) time.Time { return time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC) }
	return &domain.Dataset{
		Kind:         domain.KindRepository,
		Schema:       schema,
		Numeric:      schema.Numeric,
		HasCreatedAt: true,
		Records: []domain.Repository{
			{Name: "alpha", Language: "Go", Stars: 400, Forks: 40, Watchers: 400, CreatedAt: at(2014)},
			{Name: "beta", Language: "Python", Stars: 300, Forks: 30, Watchers: 300, CreatedAt: at(2014)},
			{Name: "gamma", Language: "Go", Stars: 300, Forks: 30, Watchers: 300, CreatedAt: at(2016)},
			{Name: "delta", Language: "Rust", Stars: 100, Forks: 10, Watchers: 100, CreatedAt: at(2017)},
			{Name: "eps", Language: "Go", Stars: 0, Forks: 0, Watchers: 0, CreatedAt: at(2017)},
			{Name: "zeta", Language: "Python", Stars: 200, Forks: 20, Watchers: 200, CreatedAt: at(2015)},
		},
	}
}

func newTestAnalyzer(t *testing.T) (*Analyzer, *mockSource) {
	t.Helper()
	source := new(mockSource)
	source.On("Get", domain.KindRepository).Return(repositoryDataset(), nil)
	source.On("Get", domain.KindGitHub).Return(nil, domain.ErrUnknownDataset)
	return NewAnalyzer(source, logger.Nop()), source
}

func TestAnalyzer_Distribution(t *testing.T) {
	testCases := []struct {
		name           string
		params         DistributionParams
		expectedPoints []domain.SeriesPoint
		expectErr      error
	}{
		{
			name:   "happy path - go share by stars",
			params: DistributionParams{Dataset: "repository", Metric: "stars", Language: "Go"},
			// Edges {0, 100, 200, 300, 400}.
			expectedPoints: []domain.SeriesPoint{
				{Label: "Group 1: 0 - 100", Percentage: 50, Total: 2},
				{Label: "Group 2: 100 - 200", Percentage: 0, Total: 1},
				{Label: "Group 3: 200 - 300", Percentage: 50, Total: 2},
				{Label: "Group 4: 300 - 400", Percentage: 100, Total: 1},
			},
		},
		{
			name:      "no language selected",
			params:    DistributionParams{Dataset: "repository", Metric: "stars"},
			expectErr: domain.ErrEmptySelection,
		},
		{
			name:      "metric missing from this dataset",
			params:    DistributionParams{Dataset: "repository", Metric: "contributors", Language: "Go"},
			expectErr: domain.ErrInvalidColumn,
		},
		{
			name:      "missing metric parameter",
			params:    DistributionParams{Dataset: "repository", Language: "Go"},
			expectErr: domain.ErrInvalidParams,
		},
		{
			name:      "unknown dataset",
			params:    DistributionParams{Dataset: "gitlab", Metric: "stars", Language: "Go"},
			expectErr: domain.ErrUnknownDataset,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			analyzer, _ := newTestAnalyzer(t)

			// --- Act ---
			dist, err := analyzer.Distribution(tc.params)

			// --- Assert ---
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				assert.Nil(t, dist)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.Edges{0, 100, 200, 300, 400}, dist.Edges)
			assert.Equal(t, tc.expectedPoints, dist.Points)
			assert.Equal(t, 0, dist.Unassigned)
		})
	}
}

func TestAnalyzer_Trend(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t)

	trend, err := analyzer.Trend(TrendParams{Dataset: "repository", Language: "Go"})
	require.NoError(t, err)
	assert.Equal(t, []domain.YearCount{
		{Year: 2014, Count: 1},
		{Year: 2015, Count: 0},
		{Year: 2016, Count: 1},
		{Year: 2017, Count: 1},
	}, trend.Years)

	_, err = analyzer.Trend(TrendParams{Dataset: "repository", Language: "COBOL"})
	assert.ErrorIs(t, err, domain.ErrEmptySelection)

	_, err = analyzer.Trend(TrendParams{Dataset: "repository"})
	assert.ErrorIs(t, err, domain.ErrEmptySelection)
}

func TestAnalyzer_TrendRequiresCreatedAt(t *testing.T) {
	gh := newGitHubDataset([]int{1, 2, 3}, []string{"Go", "Go", "C"})
	source := new(mockSource)
	source.On("Get", domain.KindGitHub).Return(gh, nil)
	analyzer := NewAnalyzer(source, logger.Nop())

	_, err := analyzer.Trend(TrendParams{Dataset: "github", Language: "Go"})

	assert.ErrorIs(t, err, domain.ErrInvalidColumn)
	source.AssertExpectations(t)
}

func TestAnalyzer_Correlation(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t)

	corr, err := analyzer.Correlation(CorrelationParams{Dataset: "repository"})

	require.NoError(t, err)
	assert.InDelta(t, 1.0, corr.Pearson, 1e-9)
	assert.Len(t, corr.Points, 6)
	assert.Equal(t, domain.ScatterPoint{Name: "alpha", Stars: 400, Forks: 40}, corr.Points[0])
}

func TestAnalyzer_Top(t *testing.T) {
	testCases := []struct {
		name          string
		params        TopParams
		expectedNames []string
		expectErr     error
	}{
		{
			name:          "ties keep file order and N caps at dataset size",
			params:        TopParams{Dataset: "repository", Metric: "stars", N: 10},
			expectedNames: []string{"alpha", "beta", "gamma", "zeta", "delta", "eps"},
		},
		{
			name:          "watchers ranking",
			params:        TopParams{Dataset: "repo", Metric: "watchers", N: 5},
			expectedNames: []string{"alpha", "beta", "gamma", "zeta", "delta"},
		},
		{
			name:      "N below range",
			params:    TopParams{Dataset: "repository", Metric: "stars", N: 4},
			expectErr: domain.ErrInvalidParams,
		},
		{
			name:      "N above range",
			params:    TopParams{Dataset: "repository", Metric: "stars", N: 51},
			expectErr: domain.ErrInvalidParams,
		},
		{
			name:      "metric not in dataset",
			params:    TopParams{Dataset: "repository", Metric: "pull_requests", N: 5},
			expectErr: domain.ErrInvalidColumn,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			analyzer, _ := newTestAnalyzer(t)

			ranking, err := analyzer.Top(tc.params)

			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			names := make([]string, len(ranking.Rows))
			for i, row := range ranking.Rows {
				names[i] = row.Name
				assert.Equal(t, i+1, row.Rank)
			}
			assert.Equal(t, tc.expectedNames, names)
		})
	}
}

func TestAnalyzer_TopErrorMessage(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t)

	_, err := analyzer.Top(TopParams{Dataset: "repository", Metric: "stars", N: 60})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "n must be 50 or less")
}

func TestAnalyzer_SummariesAndLanguages(t *testing.T) {
	analyzer, source := newTestAnalyzer(t)

	summaries := analyzer.Summaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.KindRepository, summaries[0].Dataset)
	assert.Equal(t, 6, summaries[0].Records)
	assert.Equal(t, 3, summaries[0].Languages)

	langs, err := analyzer.Languages("repository")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Python", "Rust"}, langs)

	ds, err := analyzer.Dataset(domain.KindRepository)
	require.NoError(t, err)
	assert.Len(t, ds.Records, 6)

	source.AssertExpectations(t)
}
