// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ttkit-ml/ttkit/tensor"
)

// DecomposeOption configures rank truncation for Decompose.
type DecomposeOption func(*decomposeConfig)

type decomposeConfig struct {
	maxRank    int
	maxRankSet bool
	ranks      []int // per-link caps, nil = unset
	tol        float64
	tolSet     bool
}

// WithMaxRank caps every internal link at the given rank. Truncation is
// exact: the rank sequence of the result carries this value at every link,
// zero-padded where the unfolding has fewer singular values.
func WithMaxRank(r int) DecomposeOption {
	return func(c *decomposeConfig) { c.maxRank, c.maxRankSet = r, true }
}

// WithRanks caps each link individually. The sequence must have length
// order+1 with the first and last entries equal to 1.
func WithRanks(ranks []int) DecomposeOption {
	return func(c *decomposeConfig) { c.ranks = append([]int(nil), ranks...) }
}

// WithTolerance truncates each SVD step at the smallest rank whose discarded
// singular values carry squared mass at most tol²·‖M‖_F²/d. Splitting the
// error budget evenly across the d steps bounds the aggregate reconstruction
// error by tol·‖M‖_F. May be combined with a rank cap, in which case the
// tighter of the two wins.
func WithTolerance(tol float64) DecomposeOption {
	return func(c *decomposeConfig) { c.tol, c.tolSet = tol, true }
}

// Decompose converts a dense matrix into a TT-matrix approximation over the
// given mode factorizations, by the sequential unfold-and-truncate TT-SVD:
// the matrix is permuted into a d-way tensor of combined (n_k, m_k) modes,
// then swept left to right, each step computing a thin SVD of the current
// residual's unfolding, keeping a truncated left factor as core k and
// carrying diag(s)·Vᵀ forward as the next residual. The sweep is inherently
// sequential: step k consumes step k−1's residual.
//
// With no option the natural unfolding ranks are kept and the result
// reconstructs the input exactly up to rounding. Construction is
// all-or-nothing: on any error no partial chain is returned.
//
// Errors: ErrShapeMismatch (factorization disagrees with the matrix),
// ErrInvalidRank / ErrInvalidTolerance (bad truncation request),
// ErrDecompositionFailed (SVD non-convergence).
func Decompose(dense *tensor.Dense, rowFactors, colFactors []int, opts ...DecomposeOption) (*Matrix, error) {
	ds := dense.Shape()
	if len(ds) != 2 {
		return nil, fmt.Errorf("%w: Decompose requires a 2D matrix, got shape %v",
			ErrShapeMismatch, ds)
	}
	rows, cols := ds[0], ds[1]
	if err := ValidateFactorization(rowFactors, colFactors, rows, cols); err != nil {
		return nil, err
	}

	d := len(rowFactors)
	var cfg decomposeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	reqRanks, err := requestedRanks(&cfg, d)
	if err != nil {
		return nil, err
	}

	// Per-step discarded-energy budget for tolerance truncation.
	budget := 0.0
	if cfg.tol > 0 {
		fro := dense.FrobeniusNorm()
		budget = cfg.tol * cfg.tol * fro * fro / float64(d)
	}

	resid := interleaveModes(dense, rowFactors, colFactors)
	ranks := make([]int, d+1)
	ranks[0], ranks[d] = 1, 1
	cores := make([]*Core, d)

	for k := 0; k < d-1; k++ {
		mode := rowFactors[k] * colFactors[k]
		unfoldRows := ranks[k] * mode
		unfoldCols := len(resid) / unfoldRows

		var svd mat.SVD
		if !svd.Factorize(mat.NewDense(unfoldRows, unfoldCols, resid), mat.SVDThin) {
			return nil, fmt.Errorf("%w: SVD did not converge at step %d", ErrDecompositionFailed, k)
		}
		sv := svd.Values(nil)
		keep := truncationRank(sv, reqRanks[k+1], cfg.tol > 0, budget)

		// Retained left singular vectors become core k, zero-padded past the
		// natural rank when an exact larger rank was requested.
		var u mat.Dense
		svd.UTo(&u)
		coreData := make([]float64, unfoldRows*keep)
		for r := 0; r < unfoldRows; r++ {
			for c := 0; c < min(keep, len(sv)); c++ {
				coreData[r*keep+c] = u.At(r, c)
			}
		}
		cores[k] = coreFromData(coreData, ranks[k], rowFactors[k], colFactors[k], keep)
		ranks[k+1] = keep

		// diag(s)·Vᵀ is the residual for the next step.
		var v mat.Dense
		svd.VTo(&v)
		next := make([]float64, keep*unfoldCols)
		for r := 0; r < min(keep, len(sv)); r++ {
			for c := 0; c < unfoldCols; c++ {
				next[r*unfoldCols+c] = sv[r] * v.At(c, r)
			}
		}
		resid = next
	}

	// The final residual is the last core, right rank fixed to 1.
	cores[d-1] = coreFromData(resid, ranks[d-1], rowFactors[d-1], colFactors[d-1], 1)

	return New(cores, rowFactors, colFactors)
}

// requestedRanks resolves the truncation options to a per-link cap sequence
// of length d+1, 0 meaning unbounded.
func requestedRanks(cfg *decomposeConfig, d int) ([]int, error) {
	if cfg.maxRankSet && cfg.ranks != nil {
		return nil, fmt.Errorf("%w: WithMaxRank and WithRanks are mutually exclusive", ErrInvalidRank)
	}
	if cfg.tolSet && cfg.tol <= 0 {
		return nil, fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidTolerance, cfg.tol)
	}

	req := make([]int, d+1)
	switch {
	case cfg.maxRankSet:
		if cfg.maxRank < 1 {
			return nil, fmt.Errorf("%w: max rank %d, must be >= 1", ErrInvalidRank, cfg.maxRank)
		}
		for k := 1; k < d; k++ {
			req[k] = cfg.maxRank
		}
	case cfg.ranks != nil:
		if len(cfg.ranks) != d+1 {
			return nil, fmt.Errorf("%w: rank sequence has length %d, want order+1 = %d",
				ErrInvalidRank, len(cfg.ranks), d+1)
		}
		if cfg.ranks[0] != 1 || cfg.ranks[d] != 1 {
			return nil, fmt.Errorf("%w: rank sequence ends must be 1, got %d and %d",
				ErrInvalidRank, cfg.ranks[0], cfg.ranks[d])
		}
		for k := 1; k < d; k++ {
			if cfg.ranks[k] < 1 {
				return nil, fmt.Errorf("%w: rank %d at link %d, must be >= 1",
					ErrInvalidRank, cfg.ranks[k], k)
			}
			req[k] = cfg.ranks[k]
		}
	}
	return req, nil
}

// truncationRank picks the retained rank for one SVD step.
func truncationRank(sv []float64, capRank int, useTol bool, budget float64) int {
	nat := len(sv)
	keep := nat
	if useTol {
		// Smallest rank whose discarded tail fits the budget.
		tail := 0.0
		keep = nat
		for r := nat - 1; r >= 1; r-- {
			tail += sv[r] * sv[r]
			if tail > budget {
				break
			}
			keep = r
		}
	}
	if capRank > 0 {
		if useTol {
			keep = min(keep, capRank)
		} else {
			// Exact truncation: pad past nat with zeros if requested.
			keep = capRank
		}
	}
	return max(keep, 1)
}

// interleaveModes reshapes a (rows, cols) matrix into the d-way tensor whose
// k-th mode is the combined (i_k, j_k) index pair, returning the flat
// row-major data. This is the mode ordering the TT-SVD sweep unfolds.
func interleaveModes(dense *tensor.Dense, rowFactors, colFactors []int) []float64 {
	d := len(rowFactors)
	src := dense.Data()
	out := make([]float64, len(src))

	// Strides of the combined modes s_k = n_k·m_k.
	modes := make([]int, d)
	for k := range modes {
		modes[k] = rowFactors[k] * colFactors[k]
	}
	tStrides := tensor.Shape(modes).ComputeStrides()

	rows, cols := dense.Shape()[0], dense.Shape()[1]
	rowIdx := make([]int, d)
	for i := 0; i < rows; i++ {
		// Partial target offsets contributed by the row multi-index.
		base := 0
		for k := range rowIdx {
			base += rowIdx[k] * colFactors[k] * tStrides[k]
		}

		colIdx := make([]int, d)
		for j := 0; j < cols; j++ {
			t := base
			for k := range colIdx {
				t += colIdx[k] * tStrides[k]
			}
			out[t] = src[i*cols+j]

			for ax := d - 1; ax >= 0; ax-- {
				colIdx[ax]++
				if colIdx[ax] < colFactors[ax] {
					break
				}
				colIdx[ax] = 0
			}
		}

		for ax := d - 1; ax >= 0; ax-- {
			rowIdx[ax]++
			if rowIdx[ax] < rowFactors[ax] {
				break
			}
			rowIdx[ax] = 0
		}
	}
	return out
}
