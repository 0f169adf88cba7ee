package events

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSequenceValidate(t *testing.T) {
	valid := Sequence{
		NewFixation(0, 100, 10),
		NewSaccade(100, 140, 3, 45, 280),
		NewFixation(150, 300, 12),
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid sequence rejected: %v", err)
	}

	if err := (Sequence{New(Fixation, 100, 50)}).Validate(); err == nil {
		t.Error("end before start should fail validation")
	}
	overlapping := Sequence{
		NewFixation(0, 100, 10),
		NewSaccade(90, 140, 3, 45, 280),
	}
	if err := overlapping.Validate(); err == nil {
		t.Error("overlapping events should fail validation")
	}
	if err := (Sequence{New(Label(99), 0, 10)}).Validate(); err == nil {
		t.Error("label outside the closed set should fail validation")
	}
	if err := (Sequence{}).Validate(); err != nil {
		t.Errorf("empty sequence should validate, got %v", err)
	}
}

func TestSequenceFilter(t *testing.T) {
	seq := Sequence{
		NewFixation(0, 100, 10),
		NewBlink(100, 150),
		NewSaccade(150, 190, 3, 45, 280),
	}

	got := seq.Filter(LabelSet{Blink: true})
	want := Sequence{seq[0], seq[2]}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Event{})); diff != "" {
		t.Errorf("Filter mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(seq, seq.Filter(nil), cmp.AllowUnexported(Event{})); diff != "" {
		t.Errorf("nil filter should be identity (-want +got):\n%s", diff)
	}
}

func TestSequenceLabels(t *testing.T) {
	seq := Sequence{
		New(Fixation, 0, 3),
		New(Saccade, 5, 7),
	}
	got := seq.Labels(1)
	want := []Label{Fixation, Fixation, Fixation, Undefined, Undefined, Saccade, Saccade}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Labels mismatch (-want +got):\n%s", diff)
	}

	if got := (Sequence{}).Labels(1); got != nil {
		t.Errorf("empty sequence Labels = %v, want nil", got)
	}
	if got := seq.Labels(0); got != nil {
		t.Errorf("non-positive step Labels = %v, want nil", got)
	}
}

func TestSequenceLabelsOffsetStart(t *testing.T) {
	// Sampling starts at the first event, not at time zero.
	seq := Sequence{New(Blink, 10, 12)}
	got := seq.Labels(1)
	want := []Label{Blink, Blink}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Labels mismatch (-want +got):\n%s", diff)
	}
}

func TestSequenceCounts(t *testing.T) {
	seq := Sequence{
		NewFixation(0, 100, 10),
		NewSaccade(100, 140, 3, 45, 280),
		NewFixation(150, 300, 12),
		NewBlink(300, 350),
	}
	counts := seq.Counts()
	if counts[Fixation] != 2 || counts[Saccade] != 1 || counts[Blink] != 1 {
		t.Errorf("Counts = %v, want 2 fixations, 1 saccade, 1 blink", counts)
	}
	if counts[SmoothPursuit] != 0 || counts[PSO] != 0 {
		t.Errorf("Counts = %v, want zero pursuits and PSOs", counts)
	}
}
