package stats

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gazelab/saccade.report/internal/grid"
	"github.com/gazelab/saccade.report/internal/testutil"
)

func measurementGrid(cells map[string][]float64, order []string) *grid.Grid[string, []float64] {
	return testutil.MeasurementGrid(grid.GroupRow("all"), cells, order)
}

func TestCompareColumnOrder(t *testing.T) {
	g := measurementGrid(map[string][]float64{
		"RA":  {1, 2, 3},
		"RB":  {1.1, 2.1, 3.1},
		"alg": {5, 6, 7},
	}, []string{"RA", "RB", "alg"})

	out := Compare(g, MannWhitneyU)

	// Columns group by first pair member, statistics before p-values.
	want := []PairStat{
		{Pair: grid.Pair{A: "RA", B: "RB"}, Kind: KindStatistic},
		{Pair: grid.Pair{A: "RA", B: "alg"}, Kind: KindStatistic},
		{Pair: grid.Pair{A: "RA", B: "RB"}, Kind: KindPValue},
		{Pair: grid.Pair{A: "RA", B: "alg"}, Kind: KindPValue},
		{Pair: grid.Pair{A: "RB", B: "alg"}, Kind: KindStatistic},
		{Pair: grid.Pair{A: "RB", B: "alg"}, Kind: KindPValue},
	}
	if diff := cmp.Diff(want, out.Columns()); diff != "" {
		t.Errorf("column order mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareValues(t *testing.T) {
	g := measurementGrid(map[string][]float64{
		"RA": {1, 2, 3, 4, 5},
		"RB": {10, 11, 12, 13, 14},
	}, []string{"RA", "RB"})

	out := Compare(g, MannWhitneyU)
	key := grid.RowKey{Subject: "all"}
	pair := grid.Pair{A: "RA", B: "RB"}

	stat, ok := out.Get(key, PairStat{Pair: pair, Kind: KindStatistic})
	if !ok || !stat.Valid {
		t.Fatalf("statistic cell = %+v, want valid", stat)
	}
	p, _ := out.Get(key, PairStat{Pair: pair, Kind: KindPValue})
	if !p.Valid || p.Value <= 0 || p.Value >= 0.05 {
		t.Errorf("p-value cell = %+v, want significant and positive", p)
	}
}

func TestCompareDegenerateCells(t *testing.T) {
	g := measurementGrid(map[string][]float64{
		"RA":  {1, 2, 3},
		"RB":  {},
		"nan": {math.NaN(), math.NaN()},
	}, []string{"RA", "RB", "nan"})

	out := Compare(g, MannWhitneyU)
	key := grid.RowKey{Subject: "all"}

	for _, pair := range []grid.Pair{
		{A: "RA", B: "RB"},
		{A: "RA", B: "nan"},
		{A: "RB", B: "nan"},
	} {
		v, ok := out.Get(key, PairStat{Pair: pair, Kind: KindPValue})
		if !ok {
			t.Errorf("pair %v: cell absent, want a null cell", pair)
			continue
		}
		if v.Valid {
			t.Errorf("pair %v: cell = %+v, want invalid", pair, v)
		}
	}
}

func TestPairStatString(t *testing.T) {
	ps := PairStat{Pair: grid.Pair{A: "RA", B: "RB"}, Kind: KindPValue}
	if got, want := ps.String(), "RA vs RB (p-value)"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}
