package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gazelab/saccade.report/internal/events"
	"github.com/gazelab/saccade.report/internal/matching"
	"github.com/gazelab/saccade.report/internal/stats"
	"github.com/gazelab/saccade.report/internal/testutil"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration invalid: %v", err)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.Matching.Reduction != matching.ReduceOnsetLatency {
		t.Errorf("reduction = %v, want onset latency", opts.Matching.Reduction)
	}
	if opts.Matching.Thresholds.MaxOnsetLatency != 15 {
		t.Errorf("max onset latency = %v, want 15", opts.Matching.Thresholds.MaxOnsetLatency)
	}
	if opts.Matching.AllowCrossMatching {
		t.Error("default should not allow cross matching")
	}
	if opts.Test != stats.MannWhitneyU {
		t.Errorf("test = %v, want Mann-Whitney U", opts.Test)
	}
	if !opts.Symmetric {
		t.Error("default should use symmetric pairs")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown reduction", func(c *Config) { c.Matching.Reduction = "closest" }},
		{"unknown test", func(c *Config) { c.StatTest = "t-test" }},
		{"unknown grouping", func(c *Config) { c.GroupBy = "subject" }},
		{"unknown label", func(c *Config) { c.IgnoreLabels = []string{"microsaccade"} }},
		{"zero sampling step", func(c *Config) { c.SamplingStepMs = 0 }},
		{"negative amplitude", func(c *Config) { c.MicroSaccadeAmplitudeDeg = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestThresholdsUnsetUnconstrained(t *testing.T) {
	var m Matching
	th := m.Thresholds()
	if !math.IsInf(th.MinOverlap, -1) || !math.IsInf(th.MinIoU, -1) {
		t.Errorf("unset minimums = %+v, want -Inf", th)
	}
	if !math.IsInf(th.MaxOnsetLatency, 1) || !math.IsInf(th.MaxOffsetLatency, 1) {
		t.Errorf("unset maximums = %+v, want +Inf", th)
	}

	iou := 0.4
	m.MinIoU = &iou
	if got := m.Thresholds().MinIoU; got != 0.4 {
		t.Errorf("MinIoU = %v, want 0.4", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	doc := `
matching:
  reduction: iou
  min_iou: 0.3
  allow_cross_matching: true
symmetric: false
stat_test: ranksums
ignore_labels: [blink]
sampling_step_ms: 2
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	testutil.AssertNoError(t, err)
	opts, err := cfg.Options()
	testutil.AssertNoError(t, err)

	if opts.Matching.Reduction != matching.ReduceIoU {
		t.Errorf("reduction = %v, want iou", opts.Matching.Reduction)
	}
	if opts.Matching.Thresholds.MinIoU != 0.3 {
		t.Errorf("min IoU = %v, want 0.3", opts.Matching.Thresholds.MinIoU)
	}
	if !opts.Matching.AllowCrossMatching {
		t.Error("cross matching should be enabled by the file")
	}
	if opts.Symmetric {
		t.Error("symmetric should be disabled by the file")
	}
	if opts.Test != stats.RankSums {
		t.Errorf("test = %v, want rank sums", opts.Test)
	}
	if !opts.IgnoreLabels.Contains(events.Blink) {
		t.Error("blink should be ignored")
	}
	if opts.SamplingStep != 2 {
		t.Errorf("sampling step = %v, want 2", opts.SamplingStep)
	}
	// Untouched fields keep their defaults.
	if opts.MicroSaccadeAmplitude != 1 {
		t.Errorf("micro-saccade amplitude = %v, want the default 1", opts.MicroSaccadeAmplitude)
	}
}

func TestLoadRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	if err := os.WriteFile(path, []byte("matching:\n  reduction: closest\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	testutil.AssertError(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	testutil.AssertError(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SACCADE_STAT_TEST", "ranksums")
	t.Setenv("SACCADE_MATCHING__REDUCTION", "longest")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StatTest != "ranksums" {
		t.Errorf("StatTest = %q, want ranksums", cfg.StatTest)
	}
	if cfg.Matching.Reduction != "longest" {
		t.Errorf("Reduction = %q, want longest", cfg.Matching.Reduction)
	}
}
