package grid

import "fmt"

// GroupByStimulus is the grouping key pooling recordings that share a
// stimulus.
const GroupByStimulus = "stimulus"

// AllGroup names the synthetic row pooling every recording regardless of
// group. It is added only when more than one distinct group exists.
const AllGroup = "all"

// GroupAndAggregate pools per-row measurement lists into per-group rows.
// An empty groupBy returns the input unchanged. Within a group, lists
// concatenate in row order; with more than one distinct group a synthetic
// "all" row pools every original row. Unknown grouping keys are a
// configuration error.
func GroupAndAggregate[C comparable](g *Grid[C, []float64], groupBy string) (*Grid[C, []float64], error) {
	if groupBy == "" {
		return g, nil
	}
	if groupBy != GroupByStimulus {
		return nil, fmt.Errorf("unknown grouping key %q", groupBy)
	}

	out := New[C, []float64]()
	groups := []string{}
	seen := map[string]bool{}
	for _, row := range g.Rows() {
		if !seen[row.Stimulus] {
			seen[row.Stimulus] = true
			groups = append(groups, row.Stimulus)
		}
	}

	for _, group := range groups {
		groupRow := GroupRow(group)
		out.AddRow(groupRow)
		for _, col := range g.Columns() {
			pooled := []float64{}
			for _, row := range g.Rows() {
				if row.Stimulus != group {
					continue
				}
				if vals, ok := g.Get(row.Key, col); ok {
					pooled = append(pooled, vals...)
				}
			}
			out.Set(groupRow, col, pooled)
		}
	}

	if len(groups) > 1 {
		allRow := GroupRow(AllGroup)
		out.AddRow(allRow)
		for _, col := range g.Columns() {
			pooled := []float64{}
			for _, row := range g.Rows() {
				if vals, ok := g.Get(row.Key, col); ok {
					pooled = append(pooled, vals...)
				}
			}
			out.Set(allRow, col, pooled)
		}
	}
	return out, nil
}
