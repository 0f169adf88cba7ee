package matching

import (
	"github.com/gazelab/saccade.report/internal/events"
)

// Config holds the full set of matching parameters. AllowCrossMatching has
// no blessed default: the original evaluation protocols enable it for
// overlap-style matching and disable it for latency-style matching, so every
// call site states it explicitly.
type Config struct {
	Thresholds         Thresholds
	Reduction          Reduction
	AllowCrossMatching bool
}

// Match maps a ground-truth event (by its index in the ground-truth
// sequence) to the matched prediction indices. A missing key means no
// prediction passed every active threshold for that event, which is distinct
// from an empty match. Index handles keep the mapping stable without
// depending on event object identity.
type Match map[int][]int

// MatchedPairs returns the (gt, prediction) event pairs of the match in
// ground-truth order. Events are resolved through the sequences the match
// was computed from.
func (m Match) MatchedPairs(gt, predictions events.Sequence) [][2]events.Event {
	var out [][2]events.Event
	for gi := range gt {
		for _, pi := range m[gi] {
			out = append(out, [2]events.Event{gt[gi], predictions[pi]})
		}
	}
	return out
}

// MatchSequence aligns each ground-truth event against the predictions:
// candidates are filtered through every active threshold, then reduced to
// the kept matches. Cost is O(|gt|*|predictions|), fine for per-trial
// sequences. Ground-truth events with no acceptable candidate are absent
// from the result.
func MatchSequence(gt, predictions events.Sequence, cfg Config) Match {
	match := make(Match)
	for gi, g := range gt {
		candidates := candidateIndices(g, predictions, cfg.AllowCrossMatching, cfg.Thresholds)
		kept := reduceIndices(g, predictions, candidates, cfg.Reduction)
		if len(kept) > 0 {
			match[gi] = kept
		}
	}
	return match
}

// The named strategies below mirror the standard event-matching methods from
// the evaluation literature. Each binds only the thresholds relevant to its
// criterion and leaves the rest unconstrained.

// FirstOverlap matches the earliest prediction overlapping each ground-truth
// event by at least minOverlap.
func FirstOverlap(minOverlap float64, allowCross bool) Config {
	th := DefaultThresholds()
	th.MinOverlap = minOverlap
	return Config{Thresholds: th, Reduction: ReduceFirst, AllowCrossMatching: allowCross}
}

// LastOverlap matches the latest prediction overlapping each ground-truth
// event by at least minOverlap.
func LastOverlap(minOverlap float64, allowCross bool) Config {
	th := DefaultThresholds()
	th.MinOverlap = minOverlap
	return Config{Thresholds: th, Reduction: ReduceLast, AllowCrossMatching: allowCross}
}

// LongestOverlap matches the longest prediction overlapping each
// ground-truth event by at least minOverlap.
func LongestOverlap(minOverlap float64, allowCross bool) Config {
	th := DefaultThresholds()
	th.MinOverlap = minOverlap
	return Config{Thresholds: th, Reduction: ReduceLongest, AllowCrossMatching: allowCross}
}

// MaxOverlap matches the prediction with maximal overlap time above
// minOverlap.
func MaxOverlap(minOverlap float64, allowCross bool) Config {
	th := DefaultThresholds()
	th.MinOverlap = minOverlap
	return Config{Thresholds: th, Reduction: ReduceMaxOverlap, AllowCrossMatching: allowCross}
}

// IoU matches the prediction with maximal intersection-over-union above
// minIoU.
func IoU(minIoU float64, allowCross bool) Config {
	th := DefaultThresholds()
	th.MinIoU = minIoU
	return Config{Thresholds: th, Reduction: ReduceIoU, AllowCrossMatching: allowCross}
}

// OnsetLatency matches the prediction with least onset latency at most
// maxLatency.
func OnsetLatency(maxLatency float64, allowCross bool) Config {
	th := DefaultThresholds()
	th.MaxOnsetLatency = maxLatency
	return Config{Thresholds: th, Reduction: ReduceOnsetLatency, AllowCrossMatching: allowCross}
}

// OffsetLatency matches the prediction with least offset latency at most
// maxLatency.
func OffsetLatency(maxLatency float64, allowCross bool) Config {
	th := DefaultThresholds()
	th.MaxOffsetLatency = maxLatency
	return Config{Thresholds: th, Reduction: ReduceOffsetLatency, AllowCrossMatching: allowCross}
}

// WindowBased matches predictions whose onset and offset latencies both fall
// within a window, reduced by the supplied strategy.
func WindowBased(maxOnsetLatency, maxOffsetLatency float64, reduction Reduction, allowCross bool) Config {
	th := DefaultThresholds()
	th.MaxOnsetLatency = maxOnsetLatency
	th.MaxOffsetLatency = maxOffsetLatency
	return Config{Thresholds: th, Reduction: reduction, AllowCrossMatching: allowCross}
}
