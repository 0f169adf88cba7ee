package metrics

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/gazelab/saccade.report/internal/events"
)

// eigenvalueTolerance bounds |λ - 1| when locating the stationary
// eigenvector of a transition matrix.
const eigenvalueTolerance = 1e-6

// stationaryFloor replaces zero entries of a stationary distribution so
// KL-divergence stays finite.
const stationaryFloor = 1e-10

// Norm selects the distance between two transition matrices.
type Norm int

const (
	// NormFrobenius is the elementwise L2 (Frobenius) norm of the
	// difference matrix.
	NormFrobenius Norm = iota
	// NormL1 is the maximum absolute column sum of the difference matrix.
	NormL1
	// NormLInf is the maximum absolute row sum of the difference matrix.
	NormLInf
	// NormKL is the Kullback-Leibler divergence between the stationary
	// distributions of the two matrices.
	NormKL
)

// String returns the canonical norm name.
func (n Norm) String() string {
	switch n {
	case NormFrobenius:
		return "frobenius"
	case NormL1:
		return "l1"
	case NormLInf:
		return "linf"
	case NormKL:
		return "kl"
	}
	return fmt.Sprintf("norm(%d)", int(n))
}

// ParseNorm resolves a norm name, accepting the usual synonyms. Unknown
// names fail with a configuration error.
func ParseNorm(name string) (Norm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fro", "frobenius", "euclidean", "l2":
		return NormFrobenius, nil
	case "l1", "manhattan":
		return NormL1, nil
	case "linf", "infinity", "inf", "max":
		return NormLInf, nil
	case "kl", "kullback-leibler", "kullback leibler":
		return NormKL, nil
	}
	return NormFrobenius, fmt.Errorf("unknown transition-matrix norm %q", name)
}

// TransitionMatrix builds the row-stochastic label-transition matrix of a
// sequence: cell (i, j) holds P(next=j | current=i) estimated from adjacent
// label pairs. Rows with no outgoing transitions stay all-zero rather than
// being renormalized.
func TransitionMatrix(seq []events.Label) *mat.Dense {
	n := events.NumLabels
	counts := mat.NewDense(n, n, nil)
	for i := 0; i+1 < len(seq); i++ {
		from, to := int(seq[i]), int(seq[i+1])
		counts.Set(from, to, counts.At(from, to)+1)
	}
	for r := 0; r < n; r++ {
		var rowSum float64
		for c := 0; c < n; c++ {
			rowSum += counts.At(r, c)
		}
		if rowSum == 0 {
			continue
		}
		for c := 0; c < n; c++ {
			counts.Set(r, c, counts.At(r, c)/rowSum)
		}
	}
	return counts
}

// StationaryDistribution returns the equilibrium probability vector of a
// transition matrix: the real, non-negative, sum-normalized left eigenvector
// for eigenvalue 1. Zero entries are floored to a small positive value and
// the vector re-normalized so downstream KL-divergence stays finite.
func StationaryDistribution(m *mat.Dense) ([]float64, error) {
	n, _ := m.Dims()
	var eig mat.Eigen
	if ok := eig.Factorize(m.T(), mat.EigenRight); !ok {
		return nil, fmt.Errorf("eigendecomposition failed")
	}
	values := eig.Values(nil)
	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	col := -1
	for i, v := range values {
		if math.Abs(real(v)-1) < eigenvalueTolerance && math.Abs(imag(v)) < eigenvalueTolerance {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("no unit eigenvalue found")
	}

	stationary := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		stationary[i] = real(vectors.At(i, col))
		sum += stationary[i]
	}
	if sum == 0 {
		return nil, fmt.Errorf("degenerate stationary eigenvector")
	}
	for i := range stationary {
		stationary[i] /= sum
		if stationary[i] < 0 {
			stationary[i] = 0
		}
	}

	// Floor zeros and renormalize to keep log ratios finite.
	var floored float64
	for i := range stationary {
		if stationary[i] == 0 {
			stationary[i] = stationaryFloor
		}
		floored += stationary[i]
	}
	for i := range stationary {
		stationary[i] /= floored
	}
	return stationary, nil
}

// TransitionMatrixDistance compares the label-transition structure of two
// sequences under the selected norm.
func TransitionMatrixDistance(gt, pred []events.Label, norm Norm) (float64, error) {
	tm1 := TransitionMatrix(gt)
	tm2 := TransitionMatrix(pred)
	switch norm {
	case NormFrobenius, NormL1, NormLInf:
		var diff mat.Dense
		diff.Sub(tm1, tm2)
		switch norm {
		case NormFrobenius:
			return mat.Norm(&diff, 2), nil
		case NormL1:
			return mat.Norm(&diff, 1), nil
		default:
			return mat.Norm(&diff, math.Inf(1)), nil
		}
	case NormKL:
		s1, err := StationaryDistribution(tm1)
		if err != nil {
			return 0, fmt.Errorf("ground truth: %w", err)
		}
		s2, err := StationaryDistribution(tm2)
		if err != nil {
			return 0, fmt.Errorf("prediction: %w", err)
		}
		var kl float64
		for i := range s1 {
			kl += s1[i] * math.Log(s1[i]/s2[i])
		}
		return kl, nil
	}
	return 0, fmt.Errorf("unknown transition-matrix norm %v", norm)
}
