package matching

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gazelab/saccade.report/internal/events"
	"github.com/gazelab/saccade.report/internal/grid"
	"github.com/gazelab/saccade.report/internal/testutil"
)

func TestCandidatesLabelFilter(t *testing.T) {
	gt := events.New(events.Saccade, 0, 10)
	predictions := []events.Event{
		events.New(events.Fixation, 0, 10),
		events.New(events.Saccade, 1, 9),
		events.New(events.Blink, 2, 8),
	}

	got := Candidates(gt, predictions, false, DefaultThresholds())
	if len(got) != 1 || got[0] != predictions[1] {
		t.Errorf("same-label candidates = %v, want only the saccade", got)
	}

	got = Candidates(gt, predictions, true, DefaultThresholds())
	if len(got) != 3 {
		t.Errorf("cross-matching candidates = %d events, want all 3", len(got))
	}
}

func TestCandidatesThresholds(t *testing.T) {
	gt := events.New(events.Fixation, 0, 100)
	predictions := []events.Event{
		events.New(events.Fixation, 0, 100),   // exact
		events.New(events.Fixation, 80, 180),  // 20ms overlap, large latencies
		events.New(events.Fixation, 200, 300), // disjoint
	}

	th := DefaultThresholds()
	th.MinOverlap = 50
	got := Candidates(gt, predictions, false, th)
	if len(got) != 1 || got[0] != predictions[0] {
		t.Errorf("min-overlap candidates = %v, want only the exact prediction", got)
	}

	th = DefaultThresholds()
	th.MinIoU = 0.5
	got = Candidates(gt, predictions, false, th)
	if len(got) != 1 || got[0] != predictions[0] {
		t.Errorf("min-iou candidates = %v, want only the exact prediction", got)
	}

	th = DefaultThresholds()
	th.MaxOnsetLatency = 90
	got = Candidates(gt, predictions, false, th)
	if len(got) != 2 {
		t.Errorf("max-onset candidates = %v, want the first two predictions", got)
	}

	// Every threshold must pass simultaneously.
	th = DefaultThresholds()
	th.MinOverlap = 10
	th.MaxOnsetLatency = 50
	got = Candidates(gt, predictions, false, th)
	if len(got) != 1 || got[0] != predictions[0] {
		t.Errorf("combined candidates = %v, want only the exact prediction", got)
	}
}

func TestCandidatesSubsetAndOrder(t *testing.T) {
	gt := events.New(events.Fixation, 0, 100)
	predictions := []events.Event{
		events.New(events.Fixation, 90, 150),
		events.New(events.Fixation, 10, 60),
		events.New(events.Fixation, 50, 95),
	}
	got := Candidates(gt, predictions, false, DefaultThresholds())

	want := predictions
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(events.Event{})); diff != "" {
		t.Errorf("candidates should preserve prediction order (-want +got):\n%s", diff)
	}
}

func TestReduceEmptyAndSingle(t *testing.T) {
	gt := events.New(events.Fixation, 0, 100)
	if got := Reduce(gt, nil, ReduceLongest); got != nil {
		t.Errorf("Reduce of no candidates = %v, want nil", got)
	}

	// A single candidate is kept under every reduction.
	single := []events.Event{events.New(events.Fixation, 10, 20)}
	for r := ReduceAll; r <= ReduceOffsetLatency; r++ {
		got := Reduce(gt, single, r)
		if len(got) != 1 || got[0] != single[0] {
			t.Errorf("Reduce(%v) of single candidate = %v, want that candidate", r, got)
		}
	}
}

func TestReduceStrategiesDiverge(t *testing.T) {
	// Three candidates chosen so first, longest and max-overlap each pick a
	// different one.
	gt := events.New(events.Fixation, 0, 100)
	earliest := events.New(events.Fixation, 5, 25)    // first, 20ms overlap
	longest := events.New(events.Fixation, 60, 180)   // 120ms long, 40ms overlap
	bestOverlap := events.New(events.Fixation, 20, 95) // 75ms overlap
	candidates := []events.Event{earliest, longest, bestOverlap}

	tests := []struct {
		r    Reduction
		want events.Event
	}{
		{ReduceFirst, earliest},
		{ReduceLast, longest},
		{ReduceLongest, longest},
		{ReduceMaxOverlap, bestOverlap},
		{ReduceIoU, bestOverlap},
		{ReduceOnsetLatency, earliest},
		{ReduceOffsetLatency, bestOverlap},
	}
	for _, tt := range tests {
		got := Reduce(gt, candidates, tt.r)
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("Reduce(%v) = %v, want [%v]", tt.r, got, tt.want)
		}
	}

	if got := Reduce(gt, candidates, ReduceAll); len(got) != 3 {
		t.Errorf("Reduce(all) kept %d candidates, want 3", len(got))
	}
}

func TestReduceTieKeepsFirst(t *testing.T) {
	gt := events.New(events.Fixation, 0, 100)
	a := events.NewFixation(10, 30, 5)
	b := events.NewFixation(10, 30, 9) // same timing, different geometry
	got := Reduce(gt, []events.Event{a, b}, ReduceLongest)
	if len(got) != 1 || got[0] != a {
		t.Errorf("tied candidates should resolve to the first, got %v", got)
	}
}

func TestMatchSequenceOnsetLatency(t *testing.T) {
	gt := events.Sequence{events.New(events.Saccade, 0, 10)}
	predictions := events.Sequence{
		events.New(events.Saccade, 2, 8),
		events.New(events.Saccade, 9, 20),
	}

	match := MatchSequence(gt, predictions, OnsetLatency(5, false))
	want := Match{0: []int{0}}
	if diff := cmp.Diff(want, match); diff != "" {
		t.Errorf("match mismatch (-want +got):\n%s", diff)
	}

	pairs := match.MatchedPairs(gt, predictions)
	if len(pairs) != 1 || pairs[0][1] != predictions[0] {
		t.Errorf("MatchedPairs = %v, want the 2-8 saccade", pairs)
	}
}

func TestMatchSequenceNoCandidates(t *testing.T) {
	gt := events.Sequence{
		events.New(events.Saccade, 0, 10),
		events.New(events.Saccade, 100, 120),
	}
	predictions := events.Sequence{events.New(events.Saccade, 102, 118)}

	match := MatchSequence(gt, predictions, OnsetLatency(5, false))
	if _, ok := match[0]; ok {
		t.Error("event with no candidate should be absent from the match")
	}
	if got, want := match[1], []int{0}; len(got) != 1 || got[0] != want[0] {
		t.Errorf("match[1] = %v, want %v", got, want)
	}
}

func TestMatchSequenceReduceAllKeepsEvery(t *testing.T) {
	gt := events.Sequence{events.New(events.Fixation, 0, 100)}
	predictions := testutil.Fixations(0, 40, 0, 3)
	cfg := Config{Thresholds: DefaultThresholds(), Reduction: ReduceAll}
	match := MatchSequence(gt, predictions, cfg)
	if got := match[0]; len(got) != 3 {
		t.Errorf("match[0] = %v, want all three predictions", got)
	}
}

func TestMatchSequenceDeterministic(t *testing.T) {
	gt := events.Sequence{
		events.New(events.Fixation, 0, 100),
		events.New(events.Saccade, 100, 140),
	}
	predictions := events.Sequence{
		events.New(events.Fixation, 5, 95),
		events.New(events.Saccade, 98, 142),
	}
	cfg := MaxOverlap(0, false)
	first := MatchSequence(gt, predictions, cfg)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, MatchSequence(gt, predictions, cfg)); diff != "" {
			t.Fatalf("repeated matching diverged (-first +repeat):\n%s", diff)
		}
	}
}

func TestParseReduction(t *testing.T) {
	tests := []struct {
		in   string
		want Reduction
	}{
		{"all", ReduceAll},
		{"First", ReduceFirst},
		{"last", ReduceLast},
		{"longest", ReduceLongest},
		{"max_overlap", ReduceMaxOverlap},
		{"Max-Overlap", ReduceMaxOverlap},
		{"iou", ReduceIoU},
		{"onset latency", ReduceOnsetLatency},
		{"offset_latency", ReduceOffsetLatency},
	}
	for _, tt := range tests {
		got, err := ParseReduction(tt.in)
		if err != nil {
			t.Errorf("ParseReduction(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseReduction(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseReduction("closest"); err == nil {
		t.Error("ParseReduction should reject unknown names")
	}
}

func TestMatchGrid(t *testing.T) {
	g := grid.New[string, events.Sequence]()
	rowA := testutil.Row("s01", "t1", "dots")
	rowB := testutil.Row("s02", "t1", "dots")
	g.AddColumn("RA")
	g.AddColumn("RB")
	g.AddRow(rowA)
	g.AddRow(rowB)
	g.Set(rowA, "RA", events.Sequence{events.New(events.Fixation, 0, 100)})
	g.Set(rowA, "RB", events.Sequence{events.New(events.Fixation, 5, 95)})
	g.Set(rowB, "RA", events.Sequence{events.New(events.Saccade, 0, 40)})
	// rowB has no RB sequence.

	out := MatchGrid(g, true, MaxOverlap(0, false))
	pair := grid.Pair{A: "RA", B: "RB"}

	match, ok := out.Get(rowA.Key, pair)
	if !ok {
		t.Fatal("expected a match cell for the complete row")
	}
	if diff := cmp.Diff(Match{0: []int{0}}, match); diff != "" {
		t.Errorf("match mismatch (-want +got):\n%s", diff)
	}

	if _, ok := out.Get(rowB.Key, pair); ok {
		t.Error("row missing one sequence should produce no cell")
	}

	// Asymmetric mode matches both directions.
	out = MatchGrid(g, false, MaxOverlap(0, false))
	if _, ok := out.Get(rowA.Key, grid.Pair{A: "RB", B: "RA"}); !ok {
		t.Error("asymmetric mode should match the reversed pair too")
	}
}
