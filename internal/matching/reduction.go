package matching

import (
	"fmt"
	"strings"

	"github.com/gazelab/saccade.report/internal/events"
)

// Reduction names the tie-break strategy used to pick matches out of a
// candidate set when more than one prediction passes the thresholds.
type Reduction int

const (
	// ReduceAll keeps every candidate.
	ReduceAll Reduction = iota
	// ReduceFirst keeps the candidate with the minimal start time.
	ReduceFirst
	// ReduceLast keeps the candidate with the maximal start time.
	ReduceLast
	// ReduceLongest keeps the candidate with the maximal duration.
	ReduceLongest
	// ReduceMaxOverlap keeps the candidate with maximal overlap time with
	// the ground-truth event.
	ReduceMaxOverlap
	// ReduceIoU keeps the candidate with maximal intersection-over-union
	// with the ground-truth event.
	ReduceIoU
	// ReduceOnsetLatency keeps the candidate with minimal onset latency.
	ReduceOnsetLatency
	// ReduceOffsetLatency keeps the candidate with minimal offset latency.
	ReduceOffsetLatency
)

// String returns the canonical reduction name.
func (r Reduction) String() string {
	switch r {
	case ReduceAll:
		return "all"
	case ReduceFirst:
		return "first"
	case ReduceLast:
		return "last"
	case ReduceLongest:
		return "longest"
	case ReduceMaxOverlap:
		return "max overlap"
	case ReduceIoU:
		return "iou"
	case ReduceOnsetLatency:
		return "onset latency"
	case ReduceOffsetLatency:
		return "offset latency"
	}
	return fmt.Sprintf("reduction(%d)", int(r))
}

// ParseReduction resolves a reduction name. Matching is case-insensitive and
// treats underscores and hyphens as spaces. Unknown names fail with a
// configuration error rather than silently defaulting.
func ParseReduction(name string) (Reduction, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("_", " ", "-", " ").Replace(normalized)
	switch normalized {
	case "all":
		return ReduceAll, nil
	case "first":
		return ReduceFirst, nil
	case "last":
		return ReduceLast, nil
	case "longest":
		return ReduceLongest, nil
	case "max overlap":
		return ReduceMaxOverlap, nil
	case "iou":
		return ReduceIoU, nil
	case "onset latency":
		return ReduceOnsetLatency, nil
	case "offset latency":
		return ReduceOffsetLatency, nil
	}
	return ReduceAll, fmt.Errorf("unknown reduction %q", name)
}

// Reduce chooses which candidates to keep for the ground-truth event.
// Zero candidates yield no match; a single candidate is kept regardless of
// the reduction. With two or more candidates, ties on the reduction
// criterion resolve to the first occurrence in candidate order, which keeps
// the result deterministic.
func Reduce(gt events.Event, candidates []events.Event, r Reduction) []events.Event {
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		return candidates[:1]
	}
	if r == ReduceAll {
		return candidates
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if prefer(gt, candidates[i], candidates[best], r) {
			best = i
		}
	}
	return candidates[best : best+1]
}

// reduceIndices mirrors Reduce over candidate index slices.
func reduceIndices(gt events.Event, predictions []events.Event, candidates []int, r Reduction) []int {
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 || r == ReduceAll {
		return candidates
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if prefer(gt, predictions[candidates[i]], predictions[candidates[best]], r) {
			best = i
		}
	}
	return candidates[best : best+1]
}

// prefer reports whether candidate a strictly beats candidate b under the
// reduction criterion. Strict comparison preserves first-occurrence order on
// ties.
func prefer(gt, a, b events.Event, r Reduction) bool {
	switch r {
	case ReduceFirst:
		return a.StartTime < b.StartTime
	case ReduceLast:
		return a.StartTime > b.StartTime
	case ReduceLongest:
		return a.Duration() > b.Duration()
	case ReduceMaxOverlap:
		return gt.OverlapTime(a) > gt.OverlapTime(b)
	case ReduceIoU:
		return gt.IntersectionOverUnion(a) > gt.IntersectionOverUnion(b)
	case ReduceOnsetLatency:
		return gt.OnsetLatency(a) < gt.OnsetLatency(b)
	case ReduceOffsetLatency:
		return gt.OffsetLatency(a) < gt.OffsetLatency(b)
	}
	return false
}
