// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ttkit-ml/ttkit/tensor"
)

// InitPolicy selects the variance-calibration target for VarianceScaled.
type InitPolicy int

const (
	// Glorot targets entry variance 2/(fanIn+fanOut) in the implicit dense
	// matrix, where fanIn is the total row count and fanOut the total
	// column count.
	Glorot InitPolicy = iota
	// He targets entry variance 2/fanIn.
	He
)

// String returns a human-readable policy name.
func (p InitPolicy) String() string {
	switch p {
	case Glorot:
		return "glorot"
	case He:
		return "he"
	default:
		return "unknown"
	}
}

// Random builds a TT-matrix whose core entries are independent draws from
// N(0, 1). The scalar rank is applied at every internal link, clipped to the
// natural bound r_k ≤ min(∏_{i≤k} n_i·m_i, ∏_{i>k} n_i·m_i).
// Fails with ErrInvalidRank if rank < 1 and ErrShapeMismatch for a bad
// factorization.
func Random(rowFactors, colFactors []int, rank int) (*Matrix, error) {
	return randomScaled(rowFactors, colFactors, rank, 1)
}

// VarianceScaled builds a random TT-matrix whose implicit dense matrix has
// entry variance approximating the policy target.
//
// Each entry of the implicit matrix is a sum over R = ∏ internal r_k rank
// paths, each path a product of d independent zero-mean core entries. With
// per-entry core variance s², the entry variance is therefore R·s^(2d): the
// variance of a product of independent factors compounds multiplicatively and
// the R paths add. Solving R·s^(2d) = σ² gives the per-core standard
// deviation s = (σ²/R)^(1/(2d)); the chain must be calibrated as a chain,
// not as if it had order 1.
func VarianceScaled(rowFactors, colFactors []int, rank int, policy InitPolicy) (*Matrix, error) {
	fanIn := tensor.Prod(rowFactors)
	fanOut := tensor.Prod(colFactors)

	var target float64
	switch policy {
	case Glorot:
		target = 2.0 / float64(fanIn+fanOut)
	case He:
		target = 2.0 / float64(fanIn)
	default:
		return nil, fmt.Errorf("%w: unknown init policy %d", ErrInvalidRank, policy)
	}

	ranks, err := boundedRanks(rowFactors, colFactors, rank)
	if err != nil {
		return nil, err
	}
	pathCount := 1.0
	for k := 1; k < len(ranks)-1; k++ {
		pathCount *= float64(ranks[k])
	}
	d := float64(len(rowFactors))
	coreStd := math.Pow(target/pathCount, 1.0/(2.0*d))

	return randomScaled(rowFactors, colFactors, rank, coreStd)
}

func randomScaled(rowFactors, colFactors []int, rank int, std float64) (*Matrix, error) {
	if err := ValidateFactorization(rowFactors, colFactors,
		tensor.Prod(rowFactors), tensor.Prod(colFactors)); err != nil {
		return nil, err
	}
	ranks, err := boundedRanks(rowFactors, colFactors, rank)
	if err != nil {
		return nil, err
	}

	d := len(rowFactors)
	cores := make([]*Core, d)
	for k := 0; k < d; k++ {
		data := make([]float64, ranks[k]*rowFactors[k]*colFactors[k]*ranks[k+1])
		for i := range data {
			//nolint:gosec // math/rand is fine for weight initialization
			data[i] = rand.NormFloat64() * std
		}
		cores[k] = coreFromData(data, ranks[k], rowFactors[k], colFactors[k], ranks[k+1])
	}
	return New(cores, rowFactors, colFactors)
}
