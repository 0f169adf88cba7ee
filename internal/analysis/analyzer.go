package analysis

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gazelab/saccade.report/internal/events"
	"github.com/gazelab/saccade.report/internal/grid"
	"github.com/gazelab/saccade.report/internal/matching"
	"github.com/gazelab/saccade.report/internal/monitoring"
	"github.com/gazelab/saccade.report/internal/stats"
)

// Options configures one analysis run. All defaults are explicit: the
// analyzer has no process-wide state, so two runs with equal options and
// input always produce equal results.
type Options struct {
	// Matching drives event alignment between column pairs. Cross matching
	// has no universal default; the calling protocol decides it.
	Matching matching.Config
	// Symmetric selects unordered (true) or ordered (false) column pairs.
	Symmetric bool
	// GroupBy pools measurements per stimulus when set; empty disables
	// pooling.
	GroupBy string
	// Test is the two-sample significance test applied to pooled features.
	Test stats.Test
	// SamplingStep is the timestep in ms used to derive per-sample label
	// sequences for sample-level metrics.
	SamplingStep float64
	// MicroSaccadeAmplitude is the amplitude threshold in degrees below
	// which a saccade counts as a micro-saccade.
	MicroSaccadeAmplitude float64
	// IgnoreLabels excludes event kinds from feature extraction and match
	// counting.
	IgnoreLabels events.LabelSet
	// Features are the per-event features to extract; nil selects every
	// registered feature.
	Features []string
	// SampleMetrics are the sample-level metrics to compute; nil selects
	// every registered metric.
	SampleMetrics []string
}

// DefaultOptions mirrors the standard detector-comparison protocol:
// onset-latency matching within 15ms, same-label matches only, symmetric
// pairs, pooling per stimulus, Mann-Whitney U, 1ms sampling, and a 1 degree
// micro-saccade threshold.
func DefaultOptions() Options {
	return Options{
		Matching:              matching.OnsetLatency(15, false),
		Symmetric:             true,
		GroupBy:               grid.GroupByStimulus,
		Test:                  stats.MannWhitneyU,
		SamplingStep:          1,
		MicroSaccadeAmplitude: 1.0,
	}
}

// Batch is one unit of analysis work: the recordings to evaluate and the
// raters/detectors whose output to compare.
type Batch struct {
	Rows      []grid.Row
	Detectors []Detector
}

// ResultBundle carries every grid an analysis run produces, keyed by
// feature or metric name.
type ResultBundle struct {
	// RunID identifies this analysis run in logs and exports.
	RunID uuid.UUID
	// Features holds pooled per-event feature measurements per detector.
	Features map[string]*grid.Grid[string, []float64]
	// FeatureStats holds the significance-test results per feature.
	FeatureStats map[string]*grid.Grid[stats.PairStat, grid.NullFloat]
	// MatchRatio holds pooled percentages of matched ground-truth events
	// per column pair.
	MatchRatio *grid.Grid[grid.Pair, []float64]
	// MatchedFeatures holds pooled matched-event measurements per column
	// pair.
	MatchedFeatures map[string]*grid.Grid[grid.Pair, []float64]
	// SampleMetrics holds pooled sample-level agreement measurements per
	// column pair.
	SampleMetrics map[string]*grid.Grid[grid.Pair, []float64]
}

// Analyzer runs detector-comparison studies. Feature and sample-metric
// registries are per-analyzer, so studies can extend them without touching
// shared state.
type Analyzer struct {
	opts          Options
	features      *FeatureRegistry
	sampleMetrics *SampleMetricRegistry
}

// New returns an analyzer with the default feature and sample-metric
// registries.
func New(opts Options) *Analyzer {
	return &Analyzer{
		opts:          opts,
		features:      DefaultFeatureRegistry(),
		sampleMetrics: DefaultSampleMetricRegistry(),
	}
}

// Features exposes the per-event feature registry for extension.
func (a *Analyzer) Features() *FeatureRegistry { return a.features }

// SampleMetrics exposes the sample-metric registry for extension.
func (a *Analyzer) SampleMetrics() *SampleMetricRegistry { return a.sampleMetrics }

// Run executes the full pipeline over the batch: collect events, match
// every column pair, extract per-event and matched-event features, pool per
// stimulus, compute sample metrics, and test pooled features for
// significance. Degenerate cells yield null results; they never abort the
// batch.
func (a *Analyzer) Run(batch Batch) (*ResultBundle, error) {
	featureNames := a.opts.Features
	if featureNames == nil {
		featureNames = a.features.Names()
	}
	metricNames := a.opts.SampleMetrics
	if metricNames == nil {
		metricNames = a.sampleMetrics.Names()
	}
	// Resolve every name before any computation starts.
	for _, name := range featureNames {
		if _, ok := a.features.Get(name); !ok {
			return nil, fmt.Errorf("unknown feature %q", name)
		}
	}
	for _, name := range metricNames {
		if _, ok := a.sampleMetrics.Get(name); !ok {
			return nil, fmt.Errorf("unknown sample metric %q", name)
		}
	}

	eventGrid, err := CollectEvents(batch.Rows, batch.Detectors)
	if err != nil {
		return nil, err
	}

	bundle := &ResultBundle{
		RunID:           uuid.New(),
		Features:        make(map[string]*grid.Grid[string, []float64]),
		FeatureStats:    make(map[string]*grid.Grid[stats.PairStat, grid.NullFloat]),
		MatchedFeatures: make(map[string]*grid.Grid[grid.Pair, []float64]),
		SampleMetrics:   make(map[string]*grid.Grid[grid.Pair, []float64]),
	}

	// Per-event features, pooled and tested.
	for _, name := range featureNames {
		fn, _ := a.features.Get(name)
		obs := grid.New[string, []float64]()
		for _, col := range eventGrid.Columns() {
			obs.AddColumn(col)
		}
		for _, row := range eventGrid.Rows() {
			obs.AddRow(row)
			for _, col := range eventGrid.Columns() {
				seq, ok := eventGrid.Get(row.Key, col)
				if !ok {
					continue
				}
				vals := fn(seq.Filter(a.opts.IgnoreLabels), a.opts)
				obs.Set(row, col, grid.DropNaN(vals))
			}
		}
		pooled, err := grid.GroupAndAggregate(obs, a.opts.GroupBy)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", name, err)
		}
		bundle.Features[name] = pooled
		bundle.FeatureStats[name] = stats.Compare(pooled, a.opts.Test)
		monitoring.Logf("extracted feature %s", name)
	}

	// Event matching per column pair, then matched-event features.
	matchGrid := matching.MatchGrid(eventGrid, a.opts.Symmetric, a.opts.Matching)
	ratios := matchRatios(eventGrid, matchGrid, a.opts.IgnoreLabels)
	bundle.MatchRatio, err = grid.GroupAndAggregate(ratios, a.opts.GroupBy)
	if err != nil {
		return nil, fmt.Errorf("match ratio: %w", err)
	}
	for _, name := range matchedFeatureOrder {
		fn := matchedFeatures[name]
		extracted := extractMatchedFeature(eventGrid, matchGrid, fn, a.opts.IgnoreLabels)
		pooled, err := grid.GroupAndAggregate(extracted, a.opts.GroupBy)
		if err != nil {
			return nil, fmt.Errorf("matched feature %s: %w", name, err)
		}
		bundle.MatchedFeatures[name] = pooled
	}
	monitoring.Logf("matched %d column pairs", len(matchGrid.Columns()))

	// Sample-level metrics over per-timestep label sequences.
	labelGrid := grid.New[string, []events.Label]()
	for _, col := range eventGrid.Columns() {
		labelGrid.AddColumn(col)
	}
	for _, row := range eventGrid.Rows() {
		labelGrid.AddRow(row)
		for _, col := range eventGrid.Columns() {
			seq, ok := eventGrid.Get(row.Key, col)
			if !ok {
				continue
			}
			labelGrid.Set(row, col, seq.Labels(a.opts.SamplingStep))
		}
	}
	for _, name := range metricNames {
		fn, _ := a.sampleMetrics.Get(name)
		res := grid.ApplyOnColumnPairs(labelGrid, true, grid.MetricFunc[events.Label](fn))
		pooled, err := grid.GroupAndAggregate(asMeasurements(res), a.opts.GroupBy)
		if err != nil {
			return nil, fmt.Errorf("sample metric %s: %w", name, err)
		}
		bundle.SampleMetrics[name] = pooled
		monitoring.Logf("computed sample metric %s", name)
	}

	return bundle, nil
}

// asMeasurements converts a scalar-result grid into a measurement-list grid
// so it can be pooled: valid cells become single-element lists, null cells
// empty ones.
func asMeasurements(g *grid.Grid[grid.Pair, grid.NullFloat]) *grid.Grid[grid.Pair, []float64] {
	out := grid.New[grid.Pair, []float64]()
	for _, col := range g.Columns() {
		out.AddColumn(col)
	}
	for _, row := range g.Rows() {
		out.AddRow(row)
		for _, col := range g.Columns() {
			v, ok := g.Get(row.Key, col)
			if !ok || !v.Valid {
				out.Set(row, col, []float64{})
				continue
			}
			out.Set(row, col, []float64{v.Value})
		}
	}
	return out
}
