// Package metrics implements sample-level agreement metrics over label
// sequences and distances between label-transition matrices. All metrics
// operate on the closed label set from the events package; the integer label
// values serve directly as class IDs.
package metrics

import (
	"math"

	"github.com/gazelab/saccade.report/internal/events"
)

// confusionMatrix tallies aligned label pairs over the common prefix of the
// two sequences. Sequences of different lengths are compared up to the
// shorter one; Levenshtein metrics handle the unaligned remainder.
func confusionMatrix(gt, pred []events.Label) [events.NumLabels][events.NumLabels]int {
	var cm [events.NumLabels][events.NumLabels]int
	n := len(gt)
	if len(pred) < n {
		n = len(pred)
	}
	for i := 0; i < n; i++ {
		cm[gt[i]][pred[i]]++
	}
	return cm
}

// BalancedAccuracy returns the mean per-class recall over the classes
// present in the ground-truth sequence. Returns false when no aligned
// samples exist.
func BalancedAccuracy(gt, pred []events.Label) (float64, bool) {
	cm := confusionMatrix(gt, pred)
	var recallSum float64
	var classes int
	for c := 0; c < events.NumLabels; c++ {
		var support, hits int
		for p := 0; p < events.NumLabels; p++ {
			support += cm[c][p]
		}
		if support == 0 {
			continue
		}
		hits = cm[c][c]
		recallSum += float64(hits) / float64(support)
		classes++
	}
	if classes == 0 {
		return 0, false
	}
	return recallSum / float64(classes), true
}

// CohenKappa returns Cohen's kappa coefficient between the two sequences:
// observed agreement corrected for the agreement expected by chance.
// Degenerate input (no samples, or chance agreement of 1) yields false.
func CohenKappa(gt, pred []events.Label) (float64, bool) {
	cm := confusionMatrix(gt, pred)
	var total, observed int
	var rowSum, colSum [events.NumLabels]int
	for i := 0; i < events.NumLabels; i++ {
		for j := 0; j < events.NumLabels; j++ {
			total += cm[i][j]
			rowSum[i] += cm[i][j]
			colSum[j] += cm[i][j]
		}
		observed += cm[i][i]
	}
	if total == 0 {
		return 0, false
	}
	po := float64(observed) / float64(total)
	var pe float64
	for i := 0; i < events.NumLabels; i++ {
		pe += float64(rowSum[i]) * float64(colSum[i])
	}
	pe /= float64(total) * float64(total)
	if pe == 1 {
		return 0, false
	}
	return (po - pe) / (1 - pe), true
}

// MatthewsCorrelation returns the multiclass Matthews correlation
// coefficient. A zero denominator (all samples in one class on either side)
// yields 0, matching the usual convention.
func MatthewsCorrelation(gt, pred []events.Label) (float64, bool) {
	cm := confusionMatrix(gt, pred)
	var total, correct float64
	var rowSum, colSum [events.NumLabels]float64
	for i := 0; i < events.NumLabels; i++ {
		for j := 0; j < events.NumLabels; j++ {
			v := float64(cm[i][j])
			total += v
			rowSum[i] += v
			colSum[j] += v
		}
		correct += float64(cm[i][i])
	}
	if total == 0 {
		return 0, false
	}
	var dotTP, sumP2, sumT2 float64
	for i := 0; i < events.NumLabels; i++ {
		dotTP += rowSum[i] * colSum[i]
		sumP2 += colSum[i] * colSum[i]
		sumT2 += rowSum[i] * rowSum[i]
	}
	num := correct*total - dotTP
	den := math.Sqrt(total*total-sumP2) * math.Sqrt(total*total-sumT2)
	if den == 0 {
		return 0, true
	}
	return num / den, true
}

// LevenshteinDistance returns the edit distance between the two sequences
// with unit insert, delete and substitute costs. When normalize is set the
// distance is divided by the length of the longer sequence.
func LevenshteinDistance(gt, pred []events.Label, normalize bool) (float64, bool) {
	longer := len(gt)
	if len(pred) > longer {
		longer = len(pred)
	}
	if longer == 0 {
		return 0, false
	}
	d := editDistance(gt, pred, 1)
	if normalize {
		return float64(d) / float64(longer), true
	}
	return float64(d), true
}

// LevenshteinRatio returns the normalized similarity of the two sequences:
// 1 - d/(len(gt)+len(pred)) where d is the edit distance with substitution
// cost 2 (the indel metric).
func LevenshteinRatio(gt, pred []events.Label) (float64, bool) {
	lensum := len(gt) + len(pred)
	if lensum == 0 {
		return 0, false
	}
	d := editDistance(gt, pred, 2)
	return 1 - float64(d)/float64(lensum), true
}

// editDistance is the standard two-row dynamic program with a configurable
// substitution cost.
func editDistance(a, b []events.Label, subCost int) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			sub := prev[j-1]
			if a[i-1] != b[j-1] {
				sub += subCost
			}
			ins := curr[j-1] + 1
			del := prev[j] + 1
			best := sub
			if ins < best {
				best = ins
			}
			if del < best {
				best = del
			}
			curr[j] = best
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
