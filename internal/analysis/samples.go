package analysis

import (
	"sort"
	"sync"

	"github.com/gazelab/saccade.report/internal/events"
	"github.com/gazelab/saccade.report/internal/metrics"
)

// Canonical sample-metric names.
const (
	SampleBalancedAccuracy = "Balanced Accuracy"
	SampleLevenshtein      = "Levenshtein Distance"
	SampleCohenKappa       = "Cohen's Kappa"
	SampleMatthewsCorr     = "Matthews Correlation"
	SampleTransitionL2     = "Transition Matrix l2-norm"
	SampleTransitionKL     = "Transition Matrix KL-Divergence"
)

// SampleMetricFunc compares two per-timestep label sequences. Returning
// false marks the measurement as unavailable for that pair.
type SampleMetricFunc func(gt, pred []events.Label) (float64, bool)

// SampleMetricRegistry maps sample-metric names to their implementations.
type SampleMetricRegistry struct {
	mu      sync.RWMutex
	metrics map[string]SampleMetricFunc
}

// NewSampleMetricRegistry returns an empty registry.
func NewSampleMetricRegistry() *SampleMetricRegistry {
	return &SampleMetricRegistry{metrics: make(map[string]SampleMetricFunc)}
}

// Register adds a sample metric. An existing name is replaced.
func (r *SampleMetricRegistry) Register(name string, fn SampleMetricFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics[name] = fn
}

// Get retrieves a sample metric by name.
func (r *SampleMetricRegistry) Get(name string) (SampleMetricFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.metrics[name]
	return fn, ok
}

// Names returns the registered metric names sorted alphabetically.
func (r *SampleMetricRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultSampleMetricRegistry returns a registry pre-loaded with the
// built-in label-sequence metrics and transition-matrix distances.
func DefaultSampleMetricRegistry() *SampleMetricRegistry {
	reg := NewSampleMetricRegistry()
	reg.Register(SampleBalancedAccuracy, metrics.BalancedAccuracy)
	reg.Register(SampleLevenshtein, func(gt, pred []events.Label) (float64, bool) {
		return metrics.LevenshteinDistance(gt, pred, true)
	})
	reg.Register(SampleCohenKappa, metrics.CohenKappa)
	reg.Register(SampleMatthewsCorr, metrics.MatthewsCorrelation)
	reg.Register(SampleTransitionL2, transitionMetric(metrics.NormFrobenius))
	reg.Register(SampleTransitionKL, transitionMetric(metrics.NormKL))
	return reg
}

// transitionMetric adapts a transition-matrix distance to a sample metric.
// Degenerate matrices (no unit eigenvalue) yield a missing measurement
// rather than aborting the batch.
func transitionMetric(norm metrics.Norm) SampleMetricFunc {
	return func(gt, pred []events.Label) (float64, bool) {
		d, err := metrics.TransitionMatrixDistance(gt, pred, norm)
		if err != nil {
			return 0, false
		}
		return d, true
	}
}
