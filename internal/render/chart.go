package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aclements/go-moremath/stats"
	"github.com/naka-gawa/repodash/internal/domain"
	chart "github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 960
	chartHeight = 540
)

// renderable is satisfied by both chart.Chart and chart.BarChart.
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func writeChart(w io.Writer, f Format, c renderable) error {
	rp := chart.SVG
	if f == FormatPNG {
		rp = chart.PNG
	}
	if err := c.Render(rp, w); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", f, err)
	}
	return nil
}

func titleStyle() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}}
}

func distributionChart(d *domain.Distribution) chart.BarChart {
	bars := make([]chart.Value, len(d.Points))
	for i, p := range d.Points {
		bars[i] = chart.Value{Label: p.Label, Value: p.Percentage}
	}
	return chart.BarChart{
		Title:      fmt.Sprintf("Percentage of Repositories Using %s by %s", d.Language, domain.MetricTitle(d.Metric)),
		Background: titleStyle(),
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   100,
		YAxis: chart.YAxis{
			Name:  "Percentage of Repositories",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: bars,
	}
}

func trendChart(t *domain.Trend) chart.Chart {
	years := chartYears(t.Years)
	xs := make([]float64, len(years))
	ys := make([]float64, len(years))
	ticks := make([]chart.Tick, len(years))
	for i, y := range years {
		xs[i] = float64(y.Year)
		ys[i] = float64(y.Count)
		ticks[i] = chart.Tick{Value: xs[i], Label: strconv.Itoa(y.Year)}
	}

	return chart.Chart{
		Title:      "Number of Repositories Created per Year: " + t.Language,
		Background: titleStyle(),
		Width:      chartWidth,
		Height:     chartHeight,
		XAxis: chart.XAxis{
			Name:  "Year",
			Range: paddedRange(xs, false),
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Number of Repositories",
			Range: paddedRange(ys, true),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: t.Language, XValues: xs, YValues: ys},
		},
	}
}

// chartYears widens a single-year trend with empty neighbour years, since the
// year ticks pin the x axis and go-chart needs two distinct x values.
func chartYears(years []domain.YearCount) []domain.YearCount {
	if len(years) != 1 {
		return years
	}
	y := years[0].Year
	return []domain.YearCount{{Year: y - 1}, years[0], {Year: y + 1}}
}

func correlationChart(c *domain.Correlation) chart.Chart {
	xs := make([]float64, len(c.Points))
	ys := make([]float64, len(c.Points))
	for i, p := range c.Points {
		xs[i] = float64(p.Stars)
		ys[i] = float64(p.Forks)
	}

	scatter := chart.ContinuousSeries{
		Name: "repositories",
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    3,
		},
		XValues: xs,
		YValues: ys,
	}
	series := []chart.Series{scatter}
	if lo, hi := stats.Bounds(xs); lo < hi {
		series = append(series, &chart.LinearRegressionSeries{Name: "fit", InnerSeries: scatter})
	}

	return chart.Chart{
		Title:      fmt.Sprintf("Correlation Between Stars and Forks (r = %.2f)", c.Pearson),
		Background: titleStyle(),
		Width:      chartWidth,
		Height:     chartHeight,
		XAxis:      chart.XAxis{Name: "Stars Count", Range: paddedRange(xs, true)},
		YAxis:      chart.YAxis{Name: "Forks Count", Range: paddedRange(ys, true)},
		Series:     series,
	}
}

// paddedRange spans the values and never collapses to a single point, which
// go-chart refuses to draw.
func paddedRange(vs []float64, fromZero bool) *chart.ContinuousRange {
	lo, hi := stats.Bounds(vs)
	if fromZero && lo > 0 {
		lo = 0
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
		if fromZero && lo < 0 {
			lo = 0
		}
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}
