// Package dataset loads the repository CSV files into typed, immutable
// domain.Dataset values and writes dataset snapshots back out.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/naka-gawa/repodash/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// missingValues are the cell contents treated as a missing field.
var missingValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<nil>", "None"}

// createdAtLayouts are tried in order when parsing created_at.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Loader reads dataset files from disk.
type Loader struct {
	logger zerolog.Logger
}

// NewLoader creates a new Loader instance.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logger}
}

// Datasets is the pair of datasets the application works on.
type Datasets struct {
	GitHub     *domain.Dataset
	Repository *domain.Dataset
}

// Get returns the dataset of the given kind.
func (d Datasets) Get(kind domain.Kind) (*domain.Dataset, error) {
	switch kind {
	case domain.KindGitHub:
		if d.GitHub != nil {
			return d.GitHub, nil
		}
	case domain.KindRepository:
		if d.Repository != nil {
			return d.Repository, nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDataset, kind)
	}
	return nil, fmt.Errorf("%w: %s dataset is not loaded", domain.ErrUnknownDataset, kind)
}

// LoadAll loads both files concurrently.
func (l *Loader) LoadAll(ctx context.Context, githubPath, repoPath string) (Datasets, error) {
	var out Datasets
	eg, _ := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		out.GitHub, err = l.LoadFile(githubPath, domain.KindGitHub)
		return err
	})
	eg.Go(func() error {
		var err error
		out.Repository, err = l.LoadFile(repoPath, domain.KindRepository)
		return err
	})

	if err := eg.Wait(); err != nil {
		return Datasets{}, err
	}
	return out, nil
}

// LoadFile opens path and loads it as a dataset of the given kind.
func (l *Loader) LoadFile(path string, kind domain.Kind) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s dataset: %w", kind, err)
	}
	defer f.Close()

	ds, err := l.Load(f, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return ds, nil
}

// Load reads CSV data, drops every row with a missing field in any column
// and converts the rest into typed records.
func (l *Loader) Load(r io.Reader, kind domain.Kind) (*domain.Dataset, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	var df dataframe.DataFrame
	if len(records) == 1 {
		// header only: an empty dataset, not a parse failure
		df = stringFrame(records[0], nil)
	} else {
		df = dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(false),
			dataframe.DefaultType(series.String),
			dataframe.NaNValues(missingValues),
		)
	}
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", df.Err)
	}

	rowsRead := df.Nrow()
	keep := completeRows(df)
	if len(keep) > 0 && len(keep) < rowsRead {
		df = df.Subset(keep)
	}
	l.logger.Debug().
		Str("dataset", string(kind)).
		Int("rows_read", rowsRead).
		Int("rows_kept", len(keep)).
		Msg("dropped incomplete rows")

	ds, err := convert(df, domain.SchemaFor(kind), len(keep))
	if err != nil {
		return nil, err
	}
	ds.RowsRead = rowsRead
	ds.RowsDropped = rowsRead - len(ds.Records)
	return ds, nil
}

// completeRows returns the indexes of rows without a missing value in any column.
func completeRows(df dataframe.DataFrame) []int {
	complete := make([]bool, df.Nrow())
	for i := range complete {
		complete[i] = true
	}
	for _, name := range df.Names() {
		for i, missing := range df.Col(name).IsNaN() {
			if missing {
				complete[i] = false
			}
		}
	}

	keep := make([]int, 0, len(complete))
	for i, ok := range complete {
		if ok {
			keep = append(keep, i)
		}
	}
	return keep
}

// convert validates the columns against the schema and builds n typed
// records; n is 0 when every row was incomplete.
func convert(df dataframe.DataFrame, schema domain.Schema, n int) (*domain.Dataset, error) {
	names := make(map[string]bool)
	for _, name := range df.Names() {
		names[name] = true
	}

	required := []string{schema.IdentifierColumn, schema.LanguageColumn}
	required = append(required, schema.Numeric...)
	for _, col := range required {
		if !names[col] {
			return nil, fmt.Errorf("%w: %s dataset is missing column %q", domain.ErrInvalidColumn, schema.Kind, col)
		}
	}

	ds := &domain.Dataset{
		Kind:    schema.Kind,
		Schema:  schema,
		Records: make([]domain.Repository, n),
	}
	if n == 0 {
		ds.Numeric = presentNumeric(schema, names)
		ds.HasCreatedAt = schema.TemporalColumn != "" && names[schema.TemporalColumn]
		return ds, nil
	}

	for i, v := range df.Col(schema.IdentifierColumn).Records() {
		ds.Records[i].Name = v
	}
	for i, v := range df.Col(schema.LanguageColumn).Records() {
		ds.Records[i].Language = strings.TrimSpace(v)
	}

	ds.Numeric = presentNumeric(schema, names)
	for _, col := range ds.Numeric {
		values, err := numericColumn(df, col)
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			setMetric(&ds.Records[i], col, v)
		}
	}

	if schema.TemporalColumn != "" && names[schema.TemporalColumn] {
		for i, raw := range df.Col(schema.TemporalColumn).Records() {
			t, err := parseCreatedAt(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %s %q is not a timestamp", domain.ErrInvalidColumn, i+1, schema.TemporalColumn, raw)
			}
			ds.Records[i].CreatedAt = t
		}
		ds.HasCreatedAt = true
	}
	return ds, nil
}

func presentNumeric(schema domain.Schema, names map[string]bool) []string {
	out := append([]string(nil), schema.Numeric...)
	for _, col := range schema.OptionalNumeric {
		if names[col] {
			out = append(out, col)
		}
	}
	return out
}

// numericColumn converts a string column to integers, failing on the first
// cell that is not a whole number. "12.0" is accepted, "12.7" is not.
func numericColumn(df dataframe.DataFrame, col string) ([]int, error) {
	raw := df.Col(col).Records()
	floats := series.New(raw, series.Float, col)
	out := make([]int, len(raw))
	for i, nan := range floats.IsNaN() {
		if nan {
			return nil, fmt.Errorf("%w: row %d: %s %q is not numeric", domain.ErrInvalidColumn, i+1, col, raw[i])
		}
	}
	for i, v := range floats.Float() {
		if math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: row %d: %s %q is not a whole number", domain.ErrInvalidColumn, i+1, col, raw[i])
		}
		out[i] = int(v)
	}
	return out, nil
}

func setMetric(r *domain.Repository, col string, v int) {
	switch col {
	case domain.ColumnStars:
		r.Stars = v
	case domain.ColumnForks:
		r.Forks = v
	case domain.ColumnPullRequests:
		r.PullRequests = v
	case domain.ColumnContributors:
		r.Contributors = v
	case domain.ColumnWatchers:
		r.Watchers = v
	}
}

func parseCreatedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range createdAtLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
