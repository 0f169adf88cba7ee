package grid

import "math"

// NullFloat is a measurement cell that may be missing. Degenerate input
// (an empty or all-NaN measurement list on either side of a pair) produces
// an invalid cell rather than an error, so one bad recording never aborts a
// batch.
type NullFloat struct {
	Value float64
	Valid bool
}

// MetricFunc computes a scalar measure between two value lists. Returning
// ok=false marks the cell as missing.
type MetricFunc[E any] func(a, b []E) (float64, bool)

// ApplyOnColumnPairs invokes fn for every (row, column-pair) of the grid and
// collects the results in a pair-columned grid sharing the input's rows.
// A pair is skipped, leaving an invalid cell, when either side's list is
// empty, absent, or entirely NaN.
func ApplyOnColumnPairs[E any](g *Grid[string, []E], symmetric bool, fn MetricFunc[E]) *Grid[Pair, NullFloat] {
	pairs := Pairs(g, symmetric)
	out := New[Pair, NullFloat]()
	for _, row := range g.Rows() {
		out.AddRow(row)
		for _, pair := range pairs {
			a, okA := g.Get(row.Key, pair.A)
			b, okB := g.Get(row.Key, pair.B)
			if !okA || !okB || degenerate(a) || degenerate(b) {
				out.Set(row, pair, NullFloat{})
				continue
			}
			v, ok := fn(a, b)
			out.Set(row, pair, NullFloat{Value: v, Valid: ok})
		}
	}
	return out
}

// degenerate reports whether a value list carries no usable measurement:
// it is empty, or every float in it is NaN.
func degenerate[E any](vals []E) bool {
	if len(vals) == 0 {
		return true
	}
	for _, v := range vals {
		f, isFloat := any(v).(float64)
		if !isFloat || !math.IsNaN(f) {
			return false
		}
	}
	return true
}

// DropNaN returns the values with NaN entries removed. Individual NaN
// measurements are excluded from pooled lists before any statistic runs.
func DropNaN(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
