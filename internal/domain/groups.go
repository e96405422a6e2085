package domain

import (
	"fmt"
	"sort"
)

// GroupCount is the fixed number of bins produced for a numeric column.
const GroupCount = 4

// Unassigned marks a record whose value fell outside every group.
const Unassigned = -1

// Edges are the GroupCount+1 integer bin boundaries, non-decreasing.
type Edges [GroupCount + 1]int

// Group is one labelled bin. Group 1 covers [Low, High]; later groups
// cover (Low, High].
type Group struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Low   int    `json:"low"`
	High  int    `json:"high"`
	Size  int    `json:"size"`
}

// Contains applies the bin inclusion policy to v.
func (g Group) Contains(v float64) bool {
	if g.Index == 1 {
		return v >= float64(g.Low) && v <= float64(g.High)
	}
	return v > float64(g.Low) && v <= float64(g.High)
}

// GroupLabel formats the display label of the 1-based group k.
func GroupLabel(k, low, high int) string {
	return fmt.Sprintf("Group %d: %d - %d", k, low, high)
}

// GroupedDataset is a Dataset augmented with a group assignment per record.
// The embedded dataset is shared, not copied, and never modified.
type GroupedDataset struct {
	Dataset    *Dataset
	Column     string
	Min        float64
	Max        float64
	Edges      Edges
	Groups     [GroupCount]Group
	Assignment []int
}

// GroupOf returns the label of record i, or "" when it is unassigned.
func (g *GroupedDataset) GroupOf(i int) string {
	idx := g.Assignment[i]
	if idx == Unassigned {
		return ""
	}
	return g.Groups[idx].Label
}

// Unassigned counts records that landed in no group.
func (g *GroupedDataset) Unassigned() int {
	n := 0
	for _, idx := range g.Assignment {
		if idx == Unassigned {
			n++
		}
	}
	return n
}

// GroupShare is one row of a PercentageTable.
type GroupShare struct {
	Group  Group              `json:"group"`
	Total  int                `json:"total"`
	Shares map[string]float64 `json:"shares"`
}

// PercentageTable is the per-group distribution over a categorical column.
// Rows are in bin order; every row has an entry for every value in Values.
type PercentageTable struct {
	Column string       `json:"column"`
	Values []string     `json:"values"`
	Rows   []GroupShare `json:"rows"`
}

// Has reports whether value occurs in any group.
func (t *PercentageTable) Has(value string) bool {
	i := sort.SearchStrings(t.Values, value)
	return i < len(t.Values) && t.Values[i] == value
}

// SeriesPoint is the percentage of one value within one group.
type SeriesPoint struct {
	Label      string  `json:"label"`
	Percentage float64 `json:"percentage"`
	Total      int     `json:"total"`
}

// Series extracts the per-group percentages of value, in bin order.
func (t *PercentageTable) Series(value string) ([]SeriesPoint, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: no %s selected", ErrEmptySelection, t.Column)
	}
	if !t.Has(value) {
		return nil, fmt.Errorf("%w: %s %q does not occur in any group", ErrEmptySelection, t.Column, value)
	}
	out := make([]SeriesPoint, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, SeriesPoint{
			Label:      row.Group.Label,
			Percentage: row.Shares[value],
			Total:      row.Total,
		})
	}
	return out, nil
}
