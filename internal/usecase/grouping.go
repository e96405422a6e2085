package usecase

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
	"github.com/naka-gawa/repodash/internal/domain"
)

// lowestEdgeAdjust widens the first bin below the minimum by this fraction
// of the range so the minimum itself is binned before rounding.
const lowestEdgeAdjust = 0.001

// BinEdges computes GroupCount equal-width bins spanning [lo, hi].
// Edges are rounded to the nearest integer, ties to even, so narrow ranges
// can yield repeated edges; the groups between them are simply empty.
func BinEdges(lo, hi float64) (domain.Edges, error) {
	var edges domain.Edges
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return edges, fmt.Errorf("%w: invalid range [%v, %v]", domain.ErrDegenerateRange, lo, hi)
	}
	if lo == hi {
		return edges, fmt.Errorf("%w: every value equals %v", domain.ErrDegenerateRange, lo)
	}

	span := hi - lo
	step := span / domain.GroupCount
	for i := range edges {
		x := float64(i)*step + lo
		switch i {
		case 0:
			x = lo - span*lowestEdgeAdjust
		case domain.GroupCount:
			x = hi
		}
		edges[i] = int(math.RoundToEven(x))
	}
	return edges, nil
}

// CreateGroups bins the numeric column of ds into GroupCount labelled groups
// and assigns every record to one of them. ds is not modified.
func CreateGroups(ds *domain.Dataset, column string) (*domain.GroupedDataset, error) {
	values, err := ds.Values(column)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: the %s dataset has no records", domain.ErrEmptySelection, ds.Kind)
	}

	lo, hi := stats.Bounds(values)
	edges, err := BinEdges(lo, hi)
	if err != nil {
		return nil, fmt.Errorf("cannot group %s: %w", column, err)
	}

	gd := &domain.GroupedDataset{
		Dataset:    ds,
		Column:     column,
		Min:        lo,
		Max:        hi,
		Edges:      edges,
		Assignment: make([]int, len(values)),
	}
	for k := range gd.Groups {
		gd.Groups[k] = domain.Group{
			Index: k + 1,
			Label: domain.GroupLabel(k+1, edges[k], edges[k+1]),
			Low:   edges[k],
			High:  edges[k+1],
		}
	}

	for i, v := range values {
		gd.Assignment[i] = domain.Unassigned
		for k := range gd.Groups {
			if gd.Groups[k].Contains(v) {
				gd.Assignment[i] = k
				gd.Groups[k].Size++
				break
			}
		}
	}
	return gd, nil
}

// PercentageGrouped cross-tabulates the groups of gd against valueColumn.
// Each row holds, for every distinct value, its percentage among the
// records of that group. Empty groups report 0 for every value and
// unassigned records are left out.
func PercentageGrouped(gd *domain.GroupedDataset, groupColumn, valueColumn string) (*domain.PercentageTable, error) {
	if groupColumn != domain.GroupColumn {
		return nil, fmt.Errorf("%w: %q is not a group column", domain.ErrInvalidColumn, groupColumn)
	}
	if !gd.Dataset.IsLanguageColumn(valueColumn) {
		return nil, fmt.Errorf("%w: %q is not a categorical column of the %s dataset", domain.ErrInvalidColumn, valueColumn, gd.Dataset.Kind)
	}

	var counts [domain.GroupCount]map[string]int
	for k := range counts {
		counts[k] = make(map[string]int)
	}
	seen := make(map[string]bool)
	for i, r := range gd.Dataset.Records {
		k := gd.Assignment[i]
		if k == domain.Unassigned {
			continue
		}
		counts[k][r.Language]++
		seen[r.Language] = true
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)

	table := &domain.PercentageTable{
		Column: gd.Dataset.Schema.LanguageColumn,
		Values: values,
		Rows:   make([]domain.GroupShare, domain.GroupCount),
	}
	for k, g := range gd.Groups {
		shares := make(map[string]float64, len(values))
		for _, v := range values {
			shares[v] = 0
			if g.Size > 0 {
				shares[v] = 100 * float64(counts[k][v]) / float64(g.Size)
			}
		}
		table.Rows[k] = domain.GroupShare{Group: g, Total: g.Size, Shares: shares}
	}
	return table, nil
}
