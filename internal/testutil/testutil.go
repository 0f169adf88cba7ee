// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common event, sequence and grid builders to
// reduce code duplication across test files and improve test
// maintainability.
package testutil

import (
	"math"
	"testing"

	"github.com/gazelab/saccade.report/internal/events"
	"github.com/gazelab/saccade.report/internal/grid"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertNear fails the test unless got is within tol of want.
func AssertNear(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Errorf("value = %v, want %v (±%v)", got, want, tol)
	}
}

// Row builds a grid row for a (subject, trial) recording.
func Row(subject, trial, stimulus string) grid.Row {
	return grid.Row{Key: grid.RowKey{Subject: subject, Trial: trial}, Stimulus: stimulus}
}

// Fixations builds a sequence of back-to-back fixation events of the given
// duration starting at start, separated by gap.
func Fixations(start, duration, gap float64, n int) events.Sequence {
	seq := make(events.Sequence, 0, n)
	t := start
	for i := 0; i < n; i++ {
		seq = append(seq, events.NewFixation(t, t+duration, 10))
		t += duration + gap
	}
	return seq
}

// AlternatingSequence builds a fixation/saccade alternation covering
// [start, start+n*duration), useful for transition-matrix fixtures.
func AlternatingSequence(start, duration float64, n int) events.Sequence {
	seq := make(events.Sequence, 0, n)
	t := start
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			seq = append(seq, events.NewFixation(t, t+duration, 15))
		} else {
			seq = append(seq, events.NewSaccade(t, t+duration, 2.5, 90, 300))
		}
		t += duration
	}
	return seq
}

// MeasurementGrid builds a single-row grid with the given per-column
// measurement lists, for comparator tests.
func MeasurementGrid(row grid.Row, cells map[string][]float64, order []string) *grid.Grid[string, []float64] {
	g := grid.New[string, []float64]()
	g.AddRow(row)
	for _, col := range order {
		g.Set(row, col, cells[col])
	}
	return g
}
