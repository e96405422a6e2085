// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies which of the two datasets a Dataset was loaded from.
type Kind string

const (
	KindGitHub     Kind = "github"
	KindRepository Kind = "repository"
)

// Kinds lists every supported dataset kind in display order.
var Kinds = []Kind{KindGitHub, KindRepository}

// ParseKind accepts the dataset names used on the command line and in URLs.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "github", "gh", "github-dataset":
		return KindGitHub, nil
	case "repository", "repo", "repos", "repository-data":
		return KindRepository, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDataset, s)
}

// Column names shared by both dataset files.
const (
	ColumnStars        = "stars_count"
	ColumnForks        = "forks_count"
	ColumnPullRequests = "pull_requests"
	ColumnContributors = "contributors"
	ColumnWatchers     = "watchers"
	ColumnCreatedAt    = "created_at"

	// GroupColumn is the virtual categorical column added by binning.
	GroupColumn = "group"
	// LanguageAlias resolves to whichever language column a dataset uses.
	LanguageAlias = "language"
)

// Repository is one record of either dataset. Fields a dataset does not
// carry stay at their zero value; the Schema says which ones are real.
type Repository struct {
	Name         string    `json:"name"`
	Language     string    `json:"language"`
	Stars        int       `json:"stars_count"`
	Forks        int       `json:"forks_count"`
	PullRequests int       `json:"pull_requests,omitempty"`
	Contributors int       `json:"contributors,omitempty"`
	Watchers     int       `json:"watchers,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Metric returns the value of a numeric column for r.
func (r Repository) Metric(column string) (int, bool) {
	switch column {
	case ColumnStars:
		return r.Stars, true
	case ColumnForks:
		return r.Forks, true
	case ColumnPullRequests:
		return r.PullRequests, true
	case ColumnContributors:
		return r.Contributors, true
	case ColumnWatchers:
		return r.Watchers, true
	}
	return 0, false
}

// Schema maps a dataset kind onto its CSV column names.
type Schema struct {
	Kind             Kind
	IdentifierColumn string
	LanguageColumn   string
	Numeric          []string
	OptionalNumeric  []string
	TemporalColumn   string
}

// SchemaFor returns the expected file layout for kind.
func SchemaFor(kind Kind) Schema {
	if kind == KindRepository {
		return Schema{
			Kind:             KindRepository,
			IdentifierColumn: "name",
			LanguageColumn:   "primary_language",
			Numeric:          []string{ColumnStars, ColumnForks, ColumnWatchers},
			OptionalNumeric:  []string{ColumnPullRequests},
			TemporalColumn:   ColumnCreatedAt,
		}
	}
	return Schema{
		Kind:             KindGitHub,
		IdentifierColumn: "repositories",
		LanguageColumn:   "language",
		Numeric:          []string{ColumnStars, ColumnForks, ColumnPullRequests, ColumnContributors},
	}
}

// Dataset is an immutable, fully typed view of one loaded CSV file.
type Dataset struct {
	Kind    Kind
	Schema  Schema
	Records []Repository

	// Numeric lists the numeric columns actually present in the file.
	Numeric []string
	// HasCreatedAt reports whether the temporal column was loaded.
	HasCreatedAt bool

	RowsRead    int
	RowsDropped int
}

// HasNumeric reports whether column is a loaded numeric column.
func (d *Dataset) HasNumeric(column string) bool {
	for _, c := range d.Numeric {
		if c == column {
			return true
		}
	}
	return false
}

// Values returns the column as float64s in record order.
func (d *Dataset) Values(column string) ([]float64, error) {
	if !d.HasNumeric(column) {
		return nil, fmt.Errorf("%w: %q is not a numeric column of the %s dataset", ErrInvalidColumn, column, d.Kind)
	}
	out := make([]float64, len(d.Records))
	for i, r := range d.Records {
		v, _ := r.Metric(column)
		out[i] = float64(v)
	}
	return out, nil
}

// IsLanguageColumn reports whether column names the categorical language field.
func (d *Dataset) IsLanguageColumn(column string) bool {
	return column == LanguageAlias || column == d.Schema.LanguageColumn
}

// Languages returns distinct languages in order of first appearance.
func (d *Dataset) Languages() []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, r := range d.Records {
		if !seen[r.Language] {
			seen[r.Language] = true
			out = append(out, r.Language)
		}
	}
	return out
}

// ParseMetric resolves a user-facing metric name to its column name.
func ParseMetric(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stars", "stars-count", "stars count", ColumnStars:
		return ColumnStars, nil
	case "forks", "forks-count", "forks count", ColumnForks:
		return ColumnForks, nil
	case "prs", "pull-requests", "pull requests", ColumnPullRequests:
		return ColumnPullRequests, nil
	case ColumnContributors:
		return ColumnContributors, nil
	case ColumnWatchers:
		return ColumnWatchers, nil
	}
	return "", fmt.Errorf("%w: unknown metric %q", ErrInvalidColumn, s)
}

// MetricTitle is the display name used in chart titles.
func MetricTitle(column string) string {
	switch column {
	case ColumnStars:
		return "Stars Count"
	case ColumnForks:
		return "Forks Count"
	case ColumnPullRequests:
		return "Pull Requests"
	case ColumnContributors:
		return "Contributors"
	case ColumnWatchers:
		return "Watchers"
	}
	return column
}
