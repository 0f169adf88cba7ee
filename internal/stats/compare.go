package stats

import (
	"github.com/gazelab/saccade.report/internal/grid"
)

// Kind tags which half of a test result a column carries.
type Kind string

const (
	// KindStatistic marks a test-statistic column.
	KindStatistic Kind = "statistic"
	// KindPValue marks a p-value column.
	KindPValue Kind = "p-value"
)

// PairStat is a composite output column: a column pair crossed with a
// measurement kind.
type PairStat struct {
	Pair grid.Pair
	Kind Kind
}

// String renders the composite column header.
func (ps PairStat) String() string {
	return ps.Pair.String() + " (" + string(ps.Kind) + ")"
}

// Compare applies the test to every pooled measurement-list pair of the
// grid. NaN measurements are dropped before testing; an empty or all-NaN
// side leaves a null cell. Output columns are ordered so all entries sharing
// a first pair member are grouped together, statistics before p-values
// within each group.
func Compare(pooled *grid.Grid[string, []float64], test Test) *grid.Grid[PairStat, grid.NullFloat] {
	pairs := grid.Pairs(pooled, true)
	out := grid.New[PairStat, grid.NullFloat]()

	// Register columns up front to fix their order.
	for _, first := range pooled.Columns() {
		for _, pair := range pairs {
			if pair.A == first {
				out.AddColumn(PairStat{Pair: pair, Kind: KindStatistic})
			}
		}
		for _, pair := range pairs {
			if pair.A == first {
				out.AddColumn(PairStat{Pair: pair, Kind: KindPValue})
			}
		}
	}

	for _, row := range pooled.Rows() {
		out.AddRow(row)
		for _, pair := range pairs {
			a, okA := pooled.Get(row.Key, pair.A)
			b, okB := pooled.Get(row.Key, pair.B)
			statCol := PairStat{Pair: pair, Kind: KindStatistic}
			pCol := PairStat{Pair: pair, Kind: KindPValue}
			if !okA || !okB {
				out.Set(row, statCol, grid.NullFloat{})
				out.Set(row, pCol, grid.NullFloat{})
				continue
			}
			xs := grid.DropNaN(a)
			ys := grid.DropNaN(b)
			res := TwoSample(test, xs, ys)
			if !res.Valid {
				out.Set(row, statCol, grid.NullFloat{})
				out.Set(row, pCol, grid.NullFloat{})
				continue
			}
			out.Set(row, statCol, grid.NullFloat{Value: res.Statistic, Valid: true})
			out.Set(row, pCol, grid.NullFloat{Value: res.PValue, Valid: true})
		}
	}
	return out
}
