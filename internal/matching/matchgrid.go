package matching

import (
	"github.com/gazelab/saccade.report/internal/events"
	"github.com/gazelab/saccade.report/internal/grid"
)

// MatchGrid runs MatchSequence over every (row, column-pair) cell of an
// event-sequence grid. Matching is computed independently per cell with no
// cross-pair state. In symmetric mode each unordered column pair is matched
// once with the pair's first column (in grid column order) fixed as ground
// truth; in asymmetric mode every ordered pair is matched independently.
// Rows missing either sequence produce no cell.
func MatchGrid(g *grid.Grid[string, events.Sequence], symmetric bool, cfg Config) *grid.Grid[grid.Pair, Match] {
	pairs := grid.Pairs(g, symmetric)
	out := grid.New[grid.Pair, Match]()
	for _, row := range g.Rows() {
		out.AddRow(row)
		for _, pair := range pairs {
			gt, okGT := g.Get(row.Key, pair.A)
			pred, okPred := g.Get(row.Key, pair.B)
			if !okGT || !okPred {
				continue
			}
			out.Set(row, pair, MatchSequence(gt, pred, cfg))
		}
	}
	return out
}
