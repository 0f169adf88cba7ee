// Package matching aligns a ground-truth event sequence against a predicted
// sequence under configurable temporal and geometric criteria. Matching is a
// pure function of its inputs: identical event sequences and configuration
// always produce an identical match, with ties broken by prediction order.
package matching

import (
	"math"

	"github.com/gazelab/saccade.report/internal/events"
)

// Thresholds holds the acceptance criteria a prediction must satisfy to be
// considered a candidate match for a ground-truth event. The zero value of
// each field is meaningful, so use DefaultThresholds to leave criteria
// unconstrained.
type Thresholds struct {
	MinOverlap       float64 // minimum overlap time in ms
	MinIoU           float64 // minimum intersection-over-union
	MaxOnsetLatency  float64 // maximum |pred.start - gt.start| in ms
	MaxOffsetLatency float64 // maximum |pred.end - gt.end| in ms
}

// DefaultThresholds returns thresholds that accept everything: minimums at
// -Inf and maximums at +Inf. Named matching strategies bind only the
// criteria they care about and leave the rest open.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinOverlap:       math.Inf(-1),
		MinIoU:           math.Inf(-1),
		MaxOnsetLatency:  math.Inf(1),
		MaxOffsetLatency: math.Inf(1),
	}
}

// Candidates returns the predictions that may match the ground-truth event.
// When cross matching is disallowed, predictions with a different label are
// excluded first. A prediction is a candidate only if it passes every active
// threshold simultaneously. The returned slice preserves prediction order.
func Candidates(gt events.Event, predictions []events.Event, allowCrossMatching bool, th Thresholds) []events.Event {
	var out []events.Event
	for _, p := range predictions {
		if !allowCrossMatching && p.Label != gt.Label {
			continue
		}
		if gt.OverlapTime(p) >= th.MinOverlap &&
			gt.IntersectionOverUnion(p) >= th.MinIoU &&
			gt.OnsetLatency(p) <= th.MaxOnsetLatency &&
			gt.OffsetLatency(p) <= th.MaxOffsetLatency {
			out = append(out, p)
		}
	}
	return out
}

// candidateIndices is Candidates over prediction indices, used by the
// matching engine so matches reference predictions by position.
func candidateIndices(gt events.Event, predictions []events.Event, allowCrossMatching bool, th Thresholds) []int {
	var out []int
	for i, p := range predictions {
		if !allowCrossMatching && p.Label != gt.Label {
			continue
		}
		if gt.OverlapTime(p) >= th.MinOverlap &&
			gt.IntersectionOverUnion(p) >= th.MinIoU &&
			gt.OnsetLatency(p) <= th.MaxOnsetLatency &&
			gt.OffsetLatency(p) <= th.MaxOffsetLatency {
			out = append(out, i)
		}
	}
	return out
}
