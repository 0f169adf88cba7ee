package events

import "fmt"

// Sequence is an ordered, non-overlapping list of events detected in one
// (subject, trial) recording by a single rater or detector.
type Sequence []Event

// Validate fails fast if the sequence is out of order, contains overlapping
// events, or carries a label outside the closed set. It runs before any
// matching or metric computation so degenerate input never reaches the core.
func (s Sequence) Validate() error {
	for i, e := range s {
		if e.EndTime < e.StartTime {
			return fmt.Errorf("event %d: end time %.3f before start time %.3f", i, e.EndTime, e.StartTime)
		}
		if !e.Label.Valid() {
			return fmt.Errorf("event %d: invalid label %d", i, int(e.Label))
		}
		if i > 0 && e.StartTime < s[i-1].EndTime {
			return fmt.Errorf("event %d: starts at %.3f before previous event ends at %.3f",
				i, e.StartTime, s[i-1].EndTime)
		}
	}
	return nil
}

// Filter returns the events whose label is not in the ignore set. A nil or
// empty set returns the sequence unchanged.
func (s Sequence) Filter(ignore LabelSet) Sequence {
	if len(ignore) == 0 {
		return s
	}
	out := make(Sequence, 0, len(s))
	for _, e := range s {
		if !ignore.Contains(e.Label) {
			out = append(out, e)
		}
	}
	return out
}

// Labels samples the sequence at a fixed step and returns one label per
// timestep over [start of first event, end of last event). Gaps between
// events sample as Undefined. An empty sequence yields nil.
func (s Sequence) Labels(step float64) []Label {
	if len(s) == 0 || step <= 0 {
		return nil
	}
	start := s[0].StartTime
	end := s[len(s)-1].EndTime
	n := int((end - start) / step)
	labels := make([]Label, 0, n)
	i := 0
	for t := start; t < end; t += step {
		for i < len(s) && s[i].EndTime <= t {
			i++
		}
		if i < len(s) && s[i].StartTime <= t {
			labels = append(labels, s[i].Label)
		} else {
			labels = append(labels, Undefined)
		}
	}
	return labels
}

// Counts returns the number of events per label.
func (s Sequence) Counts() [NumLabels]int {
	var counts [NumLabels]int
	for _, e := range s {
		if e.Label.Valid() {
			counts[e.Label]++
		}
	}
	return counts
}
