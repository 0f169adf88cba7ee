package analysis

import (
	"math"
	"sort"
	"sync"

	"github.com/gazelab/saccade.report/internal/events"
)

// Canonical per-event feature names.
const (
	FeatureCount            = "Count"
	FeatureDuration         = "Duration"
	FeatureAmplitude        = "Amplitude"
	FeatureAzimuth          = "Azimuth"
	FeaturePeakVelocity     = "Peak Velocity"
	FeatureMicroSaccadeRate = "Micro-Saccade Ratio"
)

// FeatureFunc extracts a list of scalar measurements from one event
// sequence. Events lacking an optional attribute contribute nothing; that
// is expected, not an error.
type FeatureFunc func(seq events.Sequence, opts Options) []float64

// FeatureRegistry maps feature names to extractors. New comparison studies
// register their features here without touching the matching or aggregation
// core.
type FeatureRegistry struct {
	mu       sync.RWMutex
	features map[string]FeatureFunc
}

// NewFeatureRegistry returns an empty registry.
func NewFeatureRegistry() *FeatureRegistry {
	return &FeatureRegistry{features: make(map[string]FeatureFunc)}
}

// Register adds a feature extractor. An existing name is replaced.
func (r *FeatureRegistry) Register(name string, fn FeatureFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.features[name] = fn
}

// Get retrieves a feature extractor by name.
func (r *FeatureRegistry) Get(name string) (FeatureFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.features[name]
	return fn, ok
}

// Names returns the registered feature names sorted alphabetically for
// deterministic output.
func (r *FeatureRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.features))
	for name := range r.features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultFeatureRegistry returns a registry pre-loaded with the built-in
// per-event features.
func DefaultFeatureRegistry() *FeatureRegistry {
	reg := NewFeatureRegistry()
	reg.Register(FeatureCount, func(seq events.Sequence, opts Options) []float64 {
		return []float64{float64(len(seq))}
	})
	reg.Register(FeatureDuration, func(seq events.Sequence, opts Options) []float64 {
		out := make([]float64, 0, len(seq))
		for _, e := range seq {
			out = append(out, e.Duration())
		}
		return out
	})
	reg.Register(FeatureAmplitude, attrFeature(events.Event.Amplitude))
	reg.Register(FeatureAzimuth, attrFeature(events.Event.Azimuth))
	reg.Register(FeaturePeakVelocity, attrFeature(events.Event.PeakVelocity))
	reg.Register(FeatureMicroSaccadeRate, microSaccadeRatio)
	return reg
}

// attrFeature builds an extractor for one optional geometric attribute,
// keeping only events that carry it.
func attrFeature(get func(events.Event) events.Attr) FeatureFunc {
	return func(seq events.Sequence, opts Options) []float64 {
		var out []float64
		for _, e := range seq {
			if a := get(e); a.Valid {
				out = append(out, a.Value)
			}
		}
		return out
	}
}

// microSaccadeRatio returns the fraction of saccades whose amplitude falls
// below the configured micro-saccade threshold. A trial without saccades
// yields NaN, which pooling later excludes.
func microSaccadeRatio(seq events.Sequence, opts Options) []float64 {
	var saccades, micro int
	for _, e := range seq {
		if e.Label != events.Saccade {
			continue
		}
		saccades++
		if a := e.Amplitude(); a.Valid && a.Value < opts.MicroSaccadeAmplitude {
			micro++
		}
	}
	if saccades == 0 {
		return []float64{math.NaN()}
	}
	return []float64{float64(micro) / float64(saccades)}
}
