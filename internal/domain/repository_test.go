package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetric(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "short alias", input: "stars", expected: ColumnStars},
		{name: "column name", input: "forks_count", expected: ColumnForks},
		{name: "display name", input: "Pull Requests", expected: ColumnPullRequests},
		{name: "watchers", input: " Watchers ", expected: ColumnWatchers},
		{name: "contributors", input: "Contributors", expected: ColumnContributors},
		{name: "unknown metric", input: "issues", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseMetric(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidColumn)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("Repo")
	require.NoError(t, err)
	assert.Equal(t, KindRepository, kind)

	_, err = ParseKind("gitlab")
	assert.ErrorIs(t, err, ErrUnknownDataset)
}

func TestDataset_Values(t *testing.T) {
	ds := &Dataset{
		Kind:    KindGitHub,
		Schema:  SchemaFor(KindGitHub),
		Numeric: SchemaFor(KindGitHub).Numeric,
		Records: []Repository{
			{Name: "a", Language: "Go", Stars: 3, Contributors: 7},
			{Name: "b", Language: "Python", Stars: 5, Contributors: 1},
		},
	}

	stars, err := ds.Values(ColumnStars)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5}, stars)

	_, err = ds.Values(ColumnWatchers)
	assert.ErrorIs(t, err, ErrInvalidColumn)

	assert.True(t, ds.IsLanguageColumn("language"))
	assert.False(t, ds.IsLanguageColumn("primary_language"))
}

func TestDataset_Languages(t *testing.T) {
	ds := &Dataset{Records: []Repository{
		{Language: "Go"}, {Language: "Python"}, {Language: "Go"}, {Language: "Rust"},
	}}
	assert.Equal(t, []string{"Go", "Python", "Rust"}, ds.Languages())
}

func TestPercentageTable_Series(t *testing.T) {
	table := &PercentageTable{
		Column: "language",
		Values: []string{"Go", "Python"},
		Rows: []GroupShare{
			{Group: Group{Index: 1, Label: "Group 1: 0 - 10"}, Total: 4, Shares: map[string]float64{"Go": 25, "Python": 75}},
			{Group: Group{Index: 2, Label: "Group 2: 10 - 20"}, Total: 0, Shares: map[string]float64{"Go": 0, "Python": 0}},
		},
	}

	points, err := table.Series("Go")
	require.NoError(t, err)
	assert.Equal(t, []SeriesPoint{
		{Label: "Group 1: 0 - 10", Percentage: 25, Total: 4},
		{Label: "Group 2: 10 - 20", Percentage: 0, Total: 0},
	}, points)

	_, err = table.Series("")
	assert.ErrorIs(t, err, ErrEmptySelection)
	_, err = table.Series("Haskell")
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestGroup_Contains(t *testing.T) {
	first := Group{Index: 1, Low: 0, High: 10}
	second := Group{Index: 2, Low: 10, High: 20}

	assert.True(t, first.Contains(0))
	assert.True(t, first.Contains(10))
	assert.False(t, second.Contains(10))
	assert.True(t, second.Contains(20))
}
