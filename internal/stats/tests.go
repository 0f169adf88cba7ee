// Package stats runs two-sample significance tests over pooled measurement
// lists. Tests are selected by name through a closed enumeration; both
// implemented tests use the large-sample normal approximation, which is the
// operating regime for pooled per-stimulus measurement lists.
package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Test selects a two-sample significance test.
type Test int

const (
	// MannWhitneyU is the Mann-Whitney U test with tie and continuity
	// corrections. The reported statistic is U of the first sample.
	MannWhitneyU Test = iota
	// RankSums is the Wilcoxon rank-sum test without tie correction. The
	// reported statistic is the z-score.
	RankSums
)

// String returns the canonical test name.
func (t Test) String() string {
	switch t {
	case MannWhitneyU:
		return "mann whitney u"
	case RankSums:
		return "wilcoxon rank sum"
	}
	return fmt.Sprintf("test(%d)", int(t))
}

// ParseTest resolves a test name. Matching is case-insensitive and treats
// underscores and hyphens as spaces, so "Mann-Whitney_U" and "mannwhitneyu"
// both parse. Unknown names fail with a configuration error.
func ParseTest(name string) (Test, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("_", " ", "-", " ").Replace(normalized)
	switch normalized {
	case "u", "u test", "mann whitney", "mann whitney u", "mannwhitneyu":
		return MannWhitneyU, nil
	case "rank sum", "ranksum", "ranksums", "wilcoxon rank sum":
		return RankSums, nil
	}
	return MannWhitneyU, fmt.Errorf("unknown statistical test %q", name)
}

// Result holds a test outcome. Valid is false for degenerate input (either
// sample empty, or zero rank variance), which yields a null cell rather
// than an error.
type Result struct {
	Statistic float64
	PValue    float64
	Valid     bool
}

// TwoSample applies the selected test to the two samples.
func TwoSample(test Test, xs, ys []float64) Result {
	switch test {
	case MannWhitneyU:
		return mannWhitneyU(xs, ys)
	case RankSums:
		return rankSums(xs, ys)
	}
	return Result{}
}

// mannWhitneyU computes the two-sided Mann-Whitney U test using the normal
// approximation with tie correction and a 0.5 continuity correction.
func mannWhitneyU(xs, ys []float64) Result {
	n1, n2 := float64(len(xs)), float64(len(ys))
	if n1 == 0 || n2 == 0 {
		return Result{}
	}
	ranks, tieTerm := rankCombined(xs, ys)
	var r1 float64
	for i := 0; i < len(xs); i++ {
		r1 += ranks[i]
	}
	u1 := r1 - n1*(n1+1)/2
	n := n1 + n2
	mu := n1 * n2 / 2
	variance := n1 * n2 / 12 * ((n + 1) - tieTerm/(n*(n-1)))
	if variance <= 0 {
		return Result{}
	}
	sigma := math.Sqrt(variance)
	diff := u1 - mu
	// Continuity correction toward the mean.
	switch {
	case diff > 0:
		diff -= 0.5
	case diff < 0:
		diff += 0.5
	}
	z := diff / sigma
	p := 2 * distuv.UnitNormal.Survival(math.Abs(z))
	if p > 1 {
		p = 1
	}
	return Result{Statistic: u1, PValue: p, Valid: true}
}

// rankSums computes the two-sided Wilcoxon rank-sum test with the plain
// normal approximation.
func rankSums(xs, ys []float64) Result {
	n1, n2 := float64(len(xs)), float64(len(ys))
	if n1 == 0 || n2 == 0 {
		return Result{}
	}
	ranks, _ := rankCombined(xs, ys)
	var r1 float64
	for i := 0; i < len(xs); i++ {
		r1 += ranks[i]
	}
	n := n1 + n2
	expected := n1 * (n + 1) / 2
	sigma := math.Sqrt(n1 * n2 * (n + 1) / 12)
	if sigma == 0 {
		return Result{}
	}
	z := (r1 - expected) / sigma
	p := 2 * distuv.UnitNormal.Survival(math.Abs(z))
	if p > 1 {
		p = 1
	}
	return Result{Statistic: z, PValue: p, Valid: true}
}

// rankCombined assigns midranks to the concatenation xs||ys and returns the
// ranks in input order together with the tie term sum(t^3 - t) over tie
// groups.
func rankCombined(xs, ys []float64) (ranks []float64, tieTerm float64) {
	n := len(xs) + len(ys)
	order := make([]int, n)
	vals := make([]float64, n)
	copy(vals, xs)
	copy(vals[len(xs):], ys)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return vals[order[a]] < vals[order[b]] })

	ranks = make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && vals[order[j+1]] == vals[order[i]] {
			j++
		}
		// Positions i..j share the average rank.
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		t := float64(j - i + 1)
		tieTerm += t*t*t - t
		i = j + 1
	}
	return ranks, tieTerm
}
