package render

import (
	"io"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/naka-gawa/repodash/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats the caption lines with digit grouping.
var printer = message.NewPrinter(language.English)

func caption(w io.Writer, format string, args ...any) error {
	_, err := printer.Fprintf(w, format+"\n", args...)
	return err
}

func distributionTable(w io.Writer, d *domain.Distribution) error {
	if err := caption(w, "%s share by %s (%d unassigned)", d.Language, domain.MetricTitle(d.Metric), d.Unassigned); err != nil {
		return err
	}
	var (
		groups []string
		totals []int
		shares []float64
	)
	for _, p := range d.Points {
		groups = append(groups, p.Label)
		totals = append(totals, p.Total)
		shares = append(shares, p.Percentage)
	}
	tab := new(table.Builder).
		Add("group", groups).
		Add("repositories", totals).
		Add("percentage", shares).
		Done()
	table.Fprint(w, tab, "%s", "%d", "%.2f")
	return nil
}

func trendTable(w io.Writer, t *domain.Trend) error {
	if err := caption(w, "%s repositories created per year", t.Language); err != nil {
		return err
	}
	var years, counts []int
	for _, y := range t.Years {
		years = append(years, y.Year)
		counts = append(counts, y.Count)
	}
	tab := new(table.Builder).
		Add("year", years).
		Add("count", counts).
		Done()
	table.Fprint(w, tab)
	return nil
}

func correlationTable(w io.Writer, c *domain.Correlation) error {
	if err := caption(w, "stars vs forks over %d repositories, pearson r = %.2f", len(c.Points), c.Pearson); err != nil {
		return err
	}
	var (
		names        []string
		stars, forks []int
	)
	for _, p := range c.Points {
		names = append(names, p.Name)
		stars = append(stars, p.Stars)
		forks = append(forks, p.Forks)
	}
	tab := new(table.Builder).
		Add("name", names).
		Add(domain.ColumnStars, stars).
		Add(domain.ColumnForks, forks).
		Done()
	table.Fprint(w, tab)
	return nil
}

func rankingTable(w io.Writer, r *domain.Ranking) error {
	if err := caption(w, "Top %d repositories by %s", len(r.Rows), domain.MetricTitle(r.Metric)); err != nil {
		return err
	}
	var (
		ranks, values []int
		names, langs  []string
	)
	for _, row := range r.Rows {
		ranks = append(ranks, row.Rank)
		names = append(names, row.Name)
		values = append(values, row.Value)
		langs = append(langs, row.Language)
	}
	tab := new(table.Builder).
		Add("rank", ranks).
		Add("name", names).
		Add(r.Metric, values).
		Add("language", langs).
		Done()
	table.Fprint(w, tab)
	return nil
}

func summaryTable(w io.Writer, ss []domain.DatasetSummary) error {
	var (
		kinds, metrics               []string
		records, read, dropped, nlng []int
		created                      []bool
	)
	for _, s := range ss {
		kinds = append(kinds, string(s.Dataset))
		records = append(records, s.Records)
		read = append(read, s.RowsRead)
		dropped = append(dropped, s.RowsDropped)
		nlng = append(nlng, s.Languages)
		created = append(created, s.HasCreatedAt)
		metrics = append(metrics, strings.Join(s.Metrics, ","))
	}
	tab := new(table.Builder).
		Add("dataset", kinds).
		Add("records", records).
		Add("rows_read", read).
		Add("rows_dropped", dropped).
		Add("languages", nlng).
		Add("created_at", created).
		Add("metrics", metrics).
		Done()
	table.Fprint(w, tab)
	return nil
}

func languageTable(w io.Writer, langs []string) error {
	tab := new(table.Builder).Add("language", langs).Done()
	table.Fprint(w, tab)
	return nil
}

func rawTable(w io.Writer, ds *domain.Dataset) error {
	if err := caption(w, "%s dataset: %d records (%d rows read, %d dropped)", ds.Kind, len(ds.Records), ds.RowsRead, ds.RowsDropped); err != nil {
		return err
	}
	var names, langs, created []string
	metrics := make([][]int, len(ds.Numeric))
	for _, r := range ds.Records {
		names = append(names, r.Name)
		langs = append(langs, r.Language)
		for j, col := range ds.Numeric {
			v, _ := r.Metric(col)
			metrics[j] = append(metrics[j], v)
		}
		if ds.HasCreatedAt {
			created = append(created, r.CreatedAt.Format("2006-01-02"))
		}
	}

	b := new(table.Builder).
		Add(ds.Schema.IdentifierColumn, names).
		Add(ds.Schema.LanguageColumn, langs)
	for j, col := range ds.Numeric {
		b.Add(col, metrics[j])
	}
	if ds.HasCreatedAt {
		b.Add(ds.Schema.TemporalColumn, created)
	}
	table.Fprint(w, b.Done())
	return nil
}
