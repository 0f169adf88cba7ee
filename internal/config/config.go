// Package config defines the analysis configuration and its loading rules.
// Configuration layers defaults, an optional YAML file, and SACCADE_-prefixed
// environment variables; every name-keyed field resolves through its closed
// enumeration at validation time, so unknown reduction, test, norm, or label
// names fail before any computation starts.
package config

import (
	"fmt"

	"github.com/gazelab/saccade.report/internal/analysis"
	"github.com/gazelab/saccade.report/internal/events"
	"github.com/gazelab/saccade.report/internal/grid"
	"github.com/gazelab/saccade.report/internal/matching"
	"github.com/gazelab/saccade.report/internal/stats"
)

// Matching holds the event-matching parameters. Threshold fields are
// pointers so a partial config file leaves unset criteria unconstrained.
type Matching struct {
	Reduction          string   `koanf:"reduction"`
	MinOverlapMs       *float64 `koanf:"min_overlap_ms"`
	MinIoU             *float64 `koanf:"min_iou"`
	MaxOnsetLatencyMs  *float64 `koanf:"max_onset_latency_ms"`
	MaxOffsetLatencyMs *float64 `koanf:"max_offset_latency_ms"`
	// AllowCrossMatching is always explicit; evaluation protocols disagree
	// on its value, so there is no hidden default.
	AllowCrossMatching bool `koanf:"allow_cross_matching"`
}

// Config is the full analysis configuration.
type Config struct {
	Detectors                []string `koanf:"detectors"`
	Matching                 Matching `koanf:"matching"`
	Symmetric                bool     `koanf:"symmetric"`
	GroupBy                  string   `koanf:"group_by"`
	StatTest                 string   `koanf:"stat_test"`
	Features                 []string `koanf:"features"`
	SampleMetrics            []string `koanf:"sample_metrics"`
	IgnoreLabels             []string `koanf:"ignore_labels"`
	SamplingStepMs           float64  `koanf:"sampling_step_ms"`
	MicroSaccadeAmplitudeDeg float64  `koanf:"microsaccade_amplitude_deg"`
}

// Default returns the standard detector-comparison configuration:
// onset-latency matching within 15ms without cross matching, symmetric
// pairs, per-stimulus pooling, and the Mann-Whitney U test. These are the
// only defaults in the system; nothing reads process-wide state.
func Default() Config {
	maxOnset := 15.0
	return Config{
		Matching: Matching{
			Reduction:          "onset latency",
			MaxOnsetLatencyMs:  &maxOnset,
			AllowCrossMatching: false,
		},
		Symmetric:                true,
		GroupBy:                  grid.GroupByStimulus,
		StatTest:                 "mann whitney u",
		SamplingStepMs:           1,
		MicroSaccadeAmplitudeDeg: 1.0,
	}
}

// Validate resolves every named field through its parser and checks numeric
// ranges. It returns the first configuration error found.
func (c *Config) Validate() error {
	if _, err := matching.ParseReduction(c.Matching.Reduction); err != nil {
		return err
	}
	if _, err := stats.ParseTest(c.StatTest); err != nil {
		return err
	}
	if c.GroupBy != "" && c.GroupBy != grid.GroupByStimulus {
		return fmt.Errorf("unknown grouping key %q", c.GroupBy)
	}
	for _, name := range c.IgnoreLabels {
		if _, err := events.ParseLabel(name); err != nil {
			return err
		}
	}
	if c.SamplingStepMs <= 0 {
		return fmt.Errorf("sampling_step_ms must be positive, got %g", c.SamplingStepMs)
	}
	if c.MicroSaccadeAmplitudeDeg < 0 {
		return fmt.Errorf("microsaccade_amplitude_deg must be non-negative, got %g", c.MicroSaccadeAmplitudeDeg)
	}
	return nil
}

// Thresholds converts the configured matching criteria, leaving unset
// fields unconstrained.
func (m Matching) Thresholds() matching.Thresholds {
	th := matching.DefaultThresholds()
	if m.MinOverlapMs != nil {
		th.MinOverlap = *m.MinOverlapMs
	}
	if m.MinIoU != nil {
		th.MinIoU = *m.MinIoU
	}
	if m.MaxOnsetLatencyMs != nil {
		th.MaxOnsetLatency = *m.MaxOnsetLatencyMs
	}
	if m.MaxOffsetLatencyMs != nil {
		th.MaxOffsetLatency = *m.MaxOffsetLatencyMs
	}
	return th
}

// Options converts the validated configuration into analyzer options.
func (c *Config) Options() (analysis.Options, error) {
	if err := c.Validate(); err != nil {
		return analysis.Options{}, err
	}
	reduction, _ := matching.ParseReduction(c.Matching.Reduction)
	test, _ := stats.ParseTest(c.StatTest)
	var ignore events.LabelSet
	if len(c.IgnoreLabels) > 0 {
		ignore = make(events.LabelSet, len(c.IgnoreLabels))
		for _, name := range c.IgnoreLabels {
			label, _ := events.ParseLabel(name)
			ignore[label] = true
		}
	}
	return analysis.Options{
		Matching: matching.Config{
			Thresholds:         c.Matching.Thresholds(),
			Reduction:          reduction,
			AllowCrossMatching: c.Matching.AllowCrossMatching,
		},
		Symmetric:             c.Symmetric,
		GroupBy:               c.GroupBy,
		Test:                  test,
		SamplingStep:          c.SamplingStepMs,
		MicroSaccadeAmplitude: c.MicroSaccadeAmplitudeDeg,
		IgnoreLabels:          ignore,
		Features:              c.Features,
		SampleMetrics:         c.SampleMetrics,
	}, nil
}
