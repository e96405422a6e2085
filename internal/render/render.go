// Package render turns analysis results into JSON, text tables, CSV or
// SVG/PNG charts.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/naka-gawa/repodash/internal/domain"
	chart "github.com/wcharczuk/go-chart/v2"
)

// ErrUnsupportedFormat means the result cannot be rendered in the requested format.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format is an output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatSVG   Format = "svg"
	FormatPNG   Format = "png"
)

// ParseFormat resolves a user-supplied format name. The empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatTable, FormatCSV, FormatSVG, FormatPNG:
		return f, nil
	case "text", "txt":
		return FormatTable, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType is the HTTP media type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatSVG:
		return chart.ContentTypeSVG
	case FormatPNG:
		return chart.ContentTypePNG
	case FormatTable:
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// IsChart reports whether f is an image format.
func (f Format) IsChart() bool {
	return f == FormatSVG || f == FormatPNG
}

// RawData is the full record listing of a dataset.
type RawData struct {
	Dataset *domain.Dataset
}

// MarshalJSON emits the dataset kind with its records.
func (r RawData) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Dataset domain.Kind         `json:"dataset"`
		Records []domain.Repository `json:"records"`
	}{r.Dataset.Kind, r.Dataset.Records})
}

// Write renders v in format f. JSON accepts any value; the other formats
// accept the result types of the analyzer.
func Write(w io.Writer, f Format, v any) error {
	if f == FormatJSON {
		return writeJSON(w, v)
	}

	var err error
	switch res := v.(type) {
	case *domain.Distribution:
		switch {
		case f.IsChart():
			return writeChart(w, f, distributionChart(res))
		case f == FormatTable:
			err = distributionTable(w, res)
		case f == FormatCSV:
			err = distributionCSV(w, res)
		default:
			return unsupported(f, v)
		}
	case *domain.Trend:
		switch {
		case f.IsChart():
			return writeChart(w, f, trendChart(res))
		case f == FormatTable:
			err = trendTable(w, res)
		case f == FormatCSV:
			err = trendCSV(w, res)
		default:
			return unsupported(f, v)
		}
	case *domain.Correlation:
		switch {
		case f.IsChart():
			return writeChart(w, f, correlationChart(res))
		case f == FormatTable:
			err = correlationTable(w, res)
		case f == FormatCSV:
			err = correlationCSV(w, res)
		default:
			return unsupported(f, v)
		}
	case *domain.Ranking:
		switch f {
		case FormatTable:
			err = rankingTable(w, res)
		case FormatCSV:
			err = rankingCSV(w, res)
		default:
			return unsupported(f, v)
		}
	case []*domain.Ranking:
		for i, r := range res {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if err := Write(w, f, r); err != nil {
				return err
			}
		}
	case RawData:
		switch f {
		case FormatTable:
			err = rawTable(w, res.Dataset)
		case FormatCSV:
			err = rawCSV(w, res.Dataset)
		default:
			return unsupported(f, v)
		}
	case []domain.DatasetSummary:
		if f != FormatTable {
			return unsupported(f, v)
		}
		err = summaryTable(w, res)
	case []string:
		if f != FormatTable {
			return unsupported(f, v)
		}
		err = languageTable(w, res)
	default:
		return unsupported(f, v)
	}
	return err
}

func unsupported(f Format, v any) error {
	return fmt.Errorf("%w: %s output is not available for %T", ErrUnsupportedFormat, f, v)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
