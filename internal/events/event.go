// Package events defines the eye-movement event value types shared by the
// matching engine and the comparison framework. Events are immutable labelled
// time intervals with optional geometric attributes; which attributes exist
// is determined by the event's label at construction time.
package events

import "math"

// Attr is an optional geometric attribute of an event. Absence is a typed
// empty value rather than a probed runtime property: events constructed for
// labels that lack an attribute carry Valid=false.
type Attr struct {
	Value float64
	Valid bool
}

// attr wraps a concrete value into a present Attr.
func attr(v float64) Attr { return Attr{Value: v, Valid: true} }

// Event is an immutable half-open time interval [StartTime, EndTime) with a
// label from the closed label set. Times are in milliseconds from recording
// start. Event is a comparable value type, so equality is defined over
// (start, end, label, geometry).
type Event struct {
	StartTime float64
	EndTime   float64
	Label     Label

	amplitude    Attr
	azimuth      Attr
	peakVelocity Attr
}

// New returns an event with no geometric attributes. Use the per-label
// constructors when geometry is available.
func New(label Label, start, end float64) Event {
	return Event{StartTime: start, EndTime: end, Label: label}
}

// NewFixation returns a fixation event. Fixations carry a peak velocity but
// no amplitude or azimuth.
func NewFixation(start, end, peakVelocity float64) Event {
	return Event{StartTime: start, EndTime: end, Label: Fixation,
		peakVelocity: attr(peakVelocity)}
}

// NewSaccade returns a saccade event with its full geometry: movement
// amplitude (degrees), azimuth (degrees, counterclockwise from positive x)
// and peak velocity (deg/s).
func NewSaccade(start, end, amplitude, azimuth, peakVelocity float64) Event {
	return Event{StartTime: start, EndTime: end, Label: Saccade,
		amplitude: attr(amplitude), azimuth: attr(azimuth), peakVelocity: attr(peakVelocity)}
}

// NewSmoothPursuit returns a smooth-pursuit event with the same geometry as
// a saccade.
func NewSmoothPursuit(start, end, amplitude, azimuth, peakVelocity float64) Event {
	return Event{StartTime: start, EndTime: end, Label: SmoothPursuit,
		amplitude: attr(amplitude), azimuth: attr(azimuth), peakVelocity: attr(peakVelocity)}
}

// NewPSO returns a post-saccadic-oscillation event. PSOs carry a peak
// velocity only.
func NewPSO(start, end, peakVelocity float64) Event {
	return Event{StartTime: start, EndTime: end, Label: PSO,
		peakVelocity: attr(peakVelocity)}
}

// NewBlink returns a blink event. Blinks have no geometric attributes.
func NewBlink(start, end float64) Event {
	return Event{StartTime: start, EndTime: end, Label: Blink}
}

// Duration returns the event length in milliseconds.
func (e Event) Duration() float64 { return e.EndTime - e.StartTime }

// Amplitude returns the movement amplitude, absent for labels without one.
func (e Event) Amplitude() Attr { return e.amplitude }

// Azimuth returns the movement azimuth, absent for labels without one.
func (e Event) Azimuth() Attr { return e.azimuth }

// PeakVelocity returns the peak velocity, absent for labels without one.
func (e Event) PeakVelocity() Attr { return e.peakVelocity }

// OverlapTime returns the duration both events are active simultaneously.
// Non-overlapping events yield 0.
func (e Event) OverlapTime(other Event) float64 {
	overlap := math.Min(e.EndTime, other.EndTime) - math.Max(e.StartTime, other.StartTime)
	if overlap < 0 {
		return 0
	}
	return overlap
}

// IntersectionOverUnion returns the ratio between the overlap of the two
// intervals and their union. Two zero-length events yield 0.
func (e Event) IntersectionOverUnion(other Event) float64 {
	intersection := e.OverlapTime(other)
	union := e.Duration() + other.Duration() - intersection
	if union <= 0 {
		return 0
	}
	return intersection / union
}

// OnsetLatency returns the absolute difference between the two events'
// start times.
func (e Event) OnsetLatency(other Event) float64 {
	return math.Abs(e.StartTime - other.StartTime)
}

// OffsetLatency returns the absolute difference between the two events'
// end times.
func (e Event) OffsetLatency(other Event) float64 {
	return math.Abs(e.EndTime - other.EndTime)
}

// L2TimingOffset returns the Euclidean distance between the two events'
// (start, end) pairs.
func (e Event) L2TimingOffset(other Event) float64 {
	ds := e.StartTime - other.StartTime
	de := e.EndTime - other.EndTime
	return math.Hypot(ds, de)
}
