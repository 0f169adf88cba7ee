package events

import (
	"fmt"
	"strings"
)

// Label identifies the kind of eye-movement event. The integer values double
// as class IDs for sample-level metrics and transition-matrix indices, so
// they must stay dense and start at zero.
type Label int

const (
	Undefined Label = iota
	Fixation
	Saccade
	PSO
	SmoothPursuit
	Blink

	// NumLabels is the size of the closed label set.
	NumLabels = int(Blink) + 1
)

// String returns the canonical lowercase name of the label.
func (l Label) String() string {
	switch l {
	case Undefined:
		return "undefined"
	case Fixation:
		return "fixation"
	case Saccade:
		return "saccade"
	case PSO:
		return "pso"
	case SmoothPursuit:
		return "smooth pursuit"
	case Blink:
		return "blink"
	}
	return fmt.Sprintf("label(%d)", int(l))
}

// Valid reports whether the label is a member of the closed label set.
func (l Label) Valid() bool {
	return l >= Undefined && int(l) < NumLabels
}

// ParseLabel resolves a label name to its Label value. Matching is
// case-insensitive and ignores underscores and hyphens, so "Smooth_Pursuit"
// and "smooth-pursuit" both parse. Unknown names are a configuration error.
func ParseLabel(name string) (Label, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("_", " ", "-", " ").Replace(normalized)
	switch normalized {
	case "undefined", "undef":
		return Undefined, nil
	case "fixation":
		return Fixation, nil
	case "saccade":
		return Saccade, nil
	case "pso", "post saccadic oscillation":
		return PSO, nil
	case "smooth pursuit", "pursuit":
		return SmoothPursuit, nil
	case "blink":
		return Blink, nil
	}
	return Undefined, fmt.Errorf("unknown event label %q", name)
}

// LabelSet is a set of labels, used to exclude event kinds from analysis.
type LabelSet map[Label]bool

// Contains reports whether l is in the set. A nil set contains nothing.
func (s LabelSet) Contains(l Label) bool {
	return s != nil && s[l]
}
