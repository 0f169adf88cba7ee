package analysis

import (
	"github.com/gazelab/saccade.report/internal/events"
	"github.com/gazelab/saccade.report/internal/grid"
	"github.com/gazelab/saccade.report/internal/matching"
)

// Canonical matched-event feature names. Jitters and differences are signed
// (ground truth minus prediction); IoU and overlap time measure the match
// itself.
const (
	MatchedOnsetJitter     = "Onset Jitter"
	MatchedOffsetJitter    = "Offset Jitter"
	MatchedL2Timing        = "L2 Timing Difference"
	MatchedIoU             = "IoU"
	MatchedOverlapTime     = "Overlap Time"
	MatchedDurationDiff    = "Duration Difference"
	MatchedAmplitudeDiff   = "Amplitude Difference"
	MatchedAzimuthDiff     = "Azimuth Difference"
	MatchedPeakVelocityDif = "Peak Velocity Difference"
)

// MatchedFeatureFunc computes one scalar from a matched (ground truth,
// prediction) event pair. Returning false skips the pair, used when an
// optional attribute is absent on either side.
type MatchedFeatureFunc func(gt, pred events.Event) (float64, bool)

// matchedFeatures holds the built-in matched-event features in a fixed
// deterministic order.
var matchedFeatureOrder = []string{
	MatchedOnsetJitter, MatchedOffsetJitter, MatchedL2Timing, MatchedIoU,
	MatchedOverlapTime, MatchedDurationDiff, MatchedAmplitudeDiff,
	MatchedAzimuthDiff, MatchedPeakVelocityDif,
}

var matchedFeatures = map[string]MatchedFeatureFunc{
	MatchedOnsetJitter: func(gt, pred events.Event) (float64, bool) {
		return gt.StartTime - pred.StartTime, true
	},
	MatchedOffsetJitter: func(gt, pred events.Event) (float64, bool) {
		return gt.EndTime - pred.EndTime, true
	},
	MatchedL2Timing: func(gt, pred events.Event) (float64, bool) {
		return gt.L2TimingOffset(pred), true
	},
	MatchedIoU: func(gt, pred events.Event) (float64, bool) {
		return gt.IntersectionOverUnion(pred), true
	},
	MatchedOverlapTime: func(gt, pred events.Event) (float64, bool) {
		return gt.OverlapTime(pred), true
	},
	MatchedDurationDiff: func(gt, pred events.Event) (float64, bool) {
		return gt.Duration() - pred.Duration(), true
	},
	MatchedAmplitudeDiff:   attrDiff(events.Event.Amplitude),
	MatchedAzimuthDiff:     attrDiff(events.Event.Azimuth),
	MatchedPeakVelocityDif: attrDiff(events.Event.PeakVelocity),
}

// attrDiff builds a matched feature for the signed difference of an optional
// attribute, defined only when both events carry it.
func attrDiff(get func(events.Event) events.Attr) MatchedFeatureFunc {
	return func(gt, pred events.Event) (float64, bool) {
		a, b := get(gt), get(pred)
		if !a.Valid || !b.Valid {
			return 0, false
		}
		return a.Value - b.Value, true
	}
}

// extractMatchedFeature walks a match grid and collects the feature over
// every matched pair of every (row, column-pair) cell, honoring the ignore
// set on the ground-truth side.
func extractMatchedFeature(
	eventGrid *grid.Grid[string, events.Sequence],
	matchGrid *grid.Grid[grid.Pair, matching.Match],
	fn MatchedFeatureFunc,
	ignore events.LabelSet,
) *grid.Grid[grid.Pair, []float64] {
	out := grid.New[grid.Pair, []float64]()
	for _, col := range matchGrid.Columns() {
		out.AddColumn(col)
	}
	for _, row := range matchGrid.Rows() {
		out.AddRow(row)
		for _, pair := range matchGrid.Columns() {
			match, ok := matchGrid.Get(row.Key, pair)
			if !ok {
				continue
			}
			gtSeq, _ := eventGrid.Get(row.Key, pair.A)
			predSeq, _ := eventGrid.Get(row.Key, pair.B)
			vals := []float64{}
			for gi := range gtSeq {
				if ignore.Contains(gtSeq[gi].Label) {
					continue
				}
				for _, pi := range match[gi] {
					if v, keep := fn(gtSeq[gi], predSeq[pi]); keep {
						vals = append(vals, v)
					}
				}
			}
			out.Set(row, pair, vals)
		}
	}
	return out
}

// matchRatios computes, per (row, column-pair), the percentage of
// ground-truth events that found a match, excluding ignored labels from
// both counts. A row without ground-truth events yields an empty list.
func matchRatios(
	eventGrid *grid.Grid[string, events.Sequence],
	matchGrid *grid.Grid[grid.Pair, matching.Match],
	ignore events.LabelSet,
) *grid.Grid[grid.Pair, []float64] {
	out := grid.New[grid.Pair, []float64]()
	for _, col := range matchGrid.Columns() {
		out.AddColumn(col)
	}
	for _, row := range matchGrid.Rows() {
		out.AddRow(row)
		for _, pair := range matchGrid.Columns() {
			match, ok := matchGrid.Get(row.Key, pair)
			if !ok {
				continue
			}
			gtSeq, _ := eventGrid.Get(row.Key, pair.A)
			var gtCount, matched int
			for gi := range gtSeq {
				if ignore.Contains(gtSeq[gi].Label) {
					continue
				}
				gtCount++
				if len(match[gi]) > 0 {
					matched++
				}
			}
			if gtCount == 0 {
				out.Set(row, pair, []float64{})
				continue
			}
			out.Set(row, pair, []float64{100 * float64(matched) / float64(gtCount)})
		}
	}
	return out
}
