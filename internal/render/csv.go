package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/naka-gawa/repodash/internal/domain"
)

// writeCSV writes a header and rows through a string-typed dataframe. The
// frame is built column by column so a header without rows still writes.
func writeCSV(w io.Writer, header []string, rows [][]string) error {
	columns := make([]series.Series, len(header))
	for j, name := range header {
		cells := make([]string, len(rows))
		for i, row := range rows {
			cells[i] = row[j]
		}
		columns[j] = series.New(cells, series.String, name)
	}
	df := dataframe.New(columns...)
	if df.Err != nil {
		return fmt.Errorf("failed to build CSV frame: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func distributionCSV(w io.Writer, d *domain.Distribution) error {
	rows := make([][]string, 0, len(d.Points))
	for _, p := range d.Points {
		rows = append(rows, []string{p.Label, strconv.Itoa(p.Total), percent(p.Percentage)})
	}
	return writeCSV(w, []string{"group", "repositories", "percentage"}, rows)
}

func trendCSV(w io.Writer, t *domain.Trend) error {
	rows := make([][]string, 0, len(t.Years))
	for _, y := range t.Years {
		rows = append(rows, []string{strconv.Itoa(y.Year), strconv.Itoa(y.Count)})
	}
	return writeCSV(w, []string{"year", "count"}, rows)
}

func correlationCSV(w io.Writer, c *domain.Correlation) error {
	rows := make([][]string, 0, len(c.Points))
	for _, p := range c.Points {
		rows = append(rows, []string{p.Name, strconv.Itoa(p.Stars), strconv.Itoa(p.Forks)})
	}
	return writeCSV(w, []string{"name", domain.ColumnStars, domain.ColumnForks}, rows)
}

func rankingCSV(w io.Writer, r *domain.Ranking) error {
	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, []string{strconv.Itoa(row.Rank), row.Name, strconv.Itoa(row.Value), row.Language})
	}
	return writeCSV(w, []string{"rank", "name", r.Metric, "language"}, rows)
}

func rawCSV(w io.Writer, ds *domain.Dataset) error {
	header := []string{ds.Schema.IdentifierColumn, ds.Schema.LanguageColumn}
	header = append(header, ds.Numeric...)
	if ds.HasCreatedAt {
		header = append(header, ds.Schema.TemporalColumn)
	}

	rows := make([][]string, 0, len(ds.Records))
	for _, r := range ds.Records {
		row := []string{r.Name, r.Language}
		for _, col := range ds.Numeric {
			v, _ := r.Metric(col)
			row = append(row, strconv.Itoa(v))
		}
		if ds.HasCreatedAt {
			row = append(row, r.CreatedAt.Format("2006-01-02"))
		}
		rows = append(rows, row)
	}
	return writeCSV(w, header, rows)
}

// percent formats a share the way CSV cells carry it.
func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
