// Package analysis orchestrates detector-comparison studies: collect event
// sequences per (subject, trial) from each rater or detector, match them
// across every relevant column pair, extract per-event and matched-event
// features, pool per stimulus, and run significance tests. The matching and
// aggregation core stays fixed; studies extend through the feature and
// sample-metric registries.
package analysis

import (
	"fmt"

	"github.com/gazelab/saccade.report/internal/events"
	"github.com/gazelab/saccade.report/internal/grid"
	"github.com/gazelab/saccade.report/internal/monitoring"
)

// Detector supplies detected event sequences per recording. Human raters
// and detection algorithms both satisfy it; detection itself happens outside
// this package, which only consumes already-validated event collections.
type Detector interface {
	Name() string
	Detect(subject, trial string) (events.Sequence, error)
}

// StaticDetector serves pre-computed sequences, keyed by recording. It backs
// human annotations loaded from disk and test fixtures.
type StaticDetector struct {
	name      string
	sequences map[grid.RowKey]events.Sequence
}

// NewStaticDetector returns a detector serving the given sequences.
func NewStaticDetector(name string, sequences map[grid.RowKey]events.Sequence) *StaticDetector {
	return &StaticDetector{name: name, sequences: sequences}
}

// Name returns the detector's column name.
func (d *StaticDetector) Name() string { return d.name }

// Detect returns the stored sequence for the recording. Recordings without
// one yield an empty sequence.
func (d *StaticDetector) Detect(subject, trial string) (events.Sequence, error) {
	return d.sequences[grid.RowKey{Subject: subject, Trial: trial}], nil
}

// CollectEvents builds the event-sequence grid for the batch: one row per
// recording, one column per detector. Every sequence is validated before it
// enters the grid, so downstream stages never see overlapping or unordered
// events.
func CollectEvents(rows []grid.Row, detectors []Detector) (*grid.Grid[string, events.Sequence], error) {
	g := grid.New[string, events.Sequence]()
	for _, d := range detectors {
		g.AddColumn(d.Name())
	}
	for _, row := range rows {
		g.AddRow(row)
		for _, d := range detectors {
			seq, err := d.Detect(row.Key.Subject, row.Key.Trial)
			if err != nil {
				return nil, fmt.Errorf("detector %s on (%s, %s): %w", d.Name(), row.Key.Subject, row.Key.Trial, err)
			}
			if err := seq.Validate(); err != nil {
				return nil, fmt.Errorf("detector %s on (%s, %s): invalid sequence: %w",
					d.Name(), row.Key.Subject, row.Key.Trial, err)
			}
			g.Set(row, d.Name(), seq)
		}
	}
	monitoring.Logf("collected events: %d recordings x %d detectors", len(rows), len(detectors))
	return g, nil
}
