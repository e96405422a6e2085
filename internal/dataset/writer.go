package dataset

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/naka-gawa/repodash/internal/domain"
)

// Snapshot is a set of repositories in the layout of one dataset kind,
// plus the issue counts the GitHub dataset file carries.
type Snapshot struct {
	Kind   domain.Kind
	Repos  []domain.Repository
	Issues map[string]int
}

// Header returns the CSV columns written for kind, matching the files Load reads.
func Header(kind domain.Kind) []string {
	if kind == domain.KindRepository {
		return []string{"name", "stars_count", "forks_count", "watchers", "pull_requests", "primary_language", "created_at"}
	}
	return []string{"repositories", "stars_count", "forks_count", "issues_count", "pull_requests", "contributors", "language"}
}

// WriteCSV writes the snapshot in the layout Load expects for its kind. An
// empty snapshot writes the header alone.
func WriteCSV(w io.Writer, snap Snapshot) error {
	rows := make([][]string, 0, len(snap.Repos))
	for _, r := range snap.Repos {
		rows = append(rows, row(snap, r))
	}

	df := stringFrame(Header(snap.Kind), rows)
	if df.Err != nil {
		return fmt.Errorf("failed to build snapshot frame: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// stringFrame builds a frame of string columns named by header. Unlike
// dataframe.LoadRecords it accepts a header with no rows.
func stringFrame(header []string, rows [][]string) dataframe.DataFrame {
	columns := make([]series.Series, len(header))
	for j, name := range header {
		cells := make([]string, len(rows))
		for i, r := range rows {
			cells[i] = r[j]
		}
		columns[j] = series.New(cells, series.String, name)
	}
	return dataframe.New(columns...)
}

func row(snap Snapshot, r domain.Repository) []string {
	itoa := strconv.Itoa
	if snap.Kind == domain.KindRepository {
		created := ""
		if !r.CreatedAt.IsZero() {
			created = r.CreatedAt.UTC().Format(time.RFC3339)
		}
		return []string{r.Name, itoa(r.Stars), itoa(r.Forks), itoa(r.Watchers), itoa(r.PullRequests), r.Language, created}
	}
	return []string{r.Name, itoa(r.Stars), itoa(r.Forks), itoa(snap.Issues[r.Name]), itoa(r.PullRequests), itoa(r.Contributors), r.Language}
}
