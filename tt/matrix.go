// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt

import (
	"fmt"

	"github.com/ttkit-ml/ttkit/tensor"
)

// Matrix is a TT-matrix: an ordered chain of cores plus the row and column
// mode factorizations, together defining an implicit dense matrix of shape
// (∏rowFactors, ∏colFactors).
//
// A Matrix is immutable once constructed. Chains are created atomically by
// the constructors and the decomposer; any rank or shape change produces a
// new Matrix. Concurrent reads, including Multiply from many goroutines,
// need no locking.
type Matrix struct {
	cores      []*Core
	rowFactors []int
	colFactors []int
}

// New assembles a Matrix from a core chain and factorizations, validating
// rank consistency and that each core's factor axes match the factorization.
// The cores are adopted, not copied; callers must not retain mutable aliases.
func New(cores []*Core, rowFactors, colFactors []int) (*Matrix, error) {
	if err := ValidateFactorization(rowFactors, colFactors,
		tensor.Prod(rowFactors), tensor.Prod(colFactors)); err != nil {
		return nil, err
	}
	if len(cores) != len(rowFactors) {
		return nil, fmt.Errorf("%w: %d cores for order-%d factorization",
			ErrShapeMismatch, len(cores), len(rowFactors))
	}
	if err := validateChain(cores); err != nil {
		return nil, err
	}
	for k, c := range cores {
		if c.rowDim != rowFactors[k] || c.colDim != colFactors[k] {
			return nil, fmt.Errorf("%w: core %d has factor dims (%d, %d), factorization expects (%d, %d)",
				ErrShapeMismatch, k, c.rowDim, c.colDim, rowFactors[k], colFactors[k])
		}
	}
	return &Matrix{
		cores:      cores,
		rowFactors: append([]int(nil), rowFactors...),
		colFactors: append([]int(nil), colFactors...),
	}, nil
}

// Shape returns the implicit dense matrix's (rows, cols).
func (m *Matrix) Shape() (rows, cols int) {
	return tensor.Prod(m.rowFactors), tensor.Prod(m.colFactors)
}

// Order returns the chain length d.
func (m *Matrix) Order() int {
	return len(m.cores)
}

// Rank returns the rank sequence r_0..r_d, with r_0 = r_d = 1. This
// sequence, not any single scalar, is "the rank" of a TT-matrix.
func (m *Matrix) Rank() []int {
	ranks := make([]int, len(m.cores)+1)
	ranks[0] = 1
	for k, c := range m.cores {
		ranks[k+1] = c.rightRank
	}
	return ranks
}

// RowFactors returns a copy of the row mode factorization.
func (m *Matrix) RowFactors() []int {
	return append([]int(nil), m.rowFactors...)
}

// ColFactors returns a copy of the column mode factorization.
func (m *Matrix) ColFactors() []int {
	return append([]int(nil), m.colFactors...)
}

// Cores returns the core chain. The slice is a copy but the cores are the
// originals; treat them as read-only unless this Matrix is being used as a
// bag of trainable parameters by a host framework.
func (m *Matrix) Cores() []*Core {
	return append([]*Core(nil), m.cores...)
}

// NumParameters returns the total entry count across the chain, i.e. the
// compressed storage cost.
func (m *Matrix) NumParameters() int {
	n := 0
	for _, c := range m.cores {
		n += c.NumElements()
	}
	return n
}

// At returns the implicit matrix entry at (i, j) by chaining the
// (r_{k-1} × r_k) core slices selected by the multi-indices of i and j.
// Cost O(d · max(r)²); use Multiply for anything batch shaped.
func (m *Matrix) At(i, j int) float64 {
	rowIdx := unravel(i, m.rowFactors)
	colIdx := unravel(j, m.colFactors)

	vec := []float64{1}
	for k, c := range m.cores {
		next := make([]float64, c.rightRank)
		for a := 0; a < c.leftRank; a++ {
			va := vec[a]
			if va == 0 {
				continue
			}
			for b := 0; b < c.rightRank; b++ {
				next[b] += va * c.At(a, rowIdx[k], colIdx[k], b)
			}
		}
		vec = next
	}
	return vec[0]
}

// Reconstruct materializes the full dense matrix by contracting the chain.
// Cost O(rows · cols · max(r)); only ever worth it for testing and for
// matrices small enough to hold.
func (m *Matrix) Reconstruct() *tensor.Dense {
	d := len(m.cores)

	// Chain the cores left to right. After step k the running matrix has
	// rows indexed by the interleaved modes (i_0, j_0, ..., i_k, j_k) and
	// columns by the link rank r_{k+1}.
	c0 := m.cores[0]
	res := mustDense(append([]float64(nil), c0.data...),
		tensor.Shape{c0.rowDim * c0.colDim, c0.rightRank})
	for k := 1; k < d; k++ {
		c := m.cores[k]
		core2d := mustDense(c.data, tensor.Shape{c.leftRank, c.rowDim * c.colDim * c.rightRank})
		prod := res.MatMul(core2d)
		res = prod.Reshape(prod.NumElements()/c.rightRank, c.rightRank)
	}

	// res is now the full tensor in interleaved mode order
	// (i_0, j_0, i_1, j_1, ...). Permute into (i_0..i_{d-1}, j_0..j_{d-1})
	// and flatten to (rows, cols).
	rows, cols := m.Shape()
	out := tensor.Zeros(tensor.Shape{rows, cols})
	outData := out.Data()
	src := res.Data()

	interleaved := make([]int, 2*d)
	for k := 0; k < d; k++ {
		interleaved[2*k] = m.rowFactors[k]
		interleaved[2*k+1] = m.colFactors[k]
	}
	rowStrides := tensor.Shape(m.rowFactors).ComputeStrides()
	colStrides := tensor.Shape(m.colFactors).ComputeStrides()

	idx := make([]int, 2*d)
	for p := range src {
		i, j := 0, 0
		for k := 0; k < d; k++ {
			i += idx[2*k] * rowStrides[k]
			j += idx[2*k+1] * colStrides[k]
		}
		outData[i*cols+j] = src[p]

		// Odometer increment over the interleaved modes.
		for ax := 2*d - 1; ax >= 0; ax-- {
			idx[ax]++
			if idx[ax] < interleaved[ax] {
				break
			}
			idx[ax] = 0
		}
	}
	return out
}

// AllClose reports whether two TT-matrices reconstruct to the same dense
// matrix within the given tolerance. Chains are never compared structurally:
// TT representations are not unique.
func (m *Matrix) AllClose(other *Matrix, tol float64) bool {
	mr, mc := m.Shape()
	or, oc := other.Shape()
	if mr != or || mc != oc {
		return false
	}
	return m.Reconstruct().AllClose(other.Reconstruct(), tol)
}

// unravel decodes a flat index into a multi-index over the given factors,
// row-major.
func unravel(i int, factors []int) []int {
	idx := make([]int, len(factors))
	for k := len(factors) - 1; k >= 0; k-- {
		idx[k] = i % factors[k]
		i /= factors[k]
	}
	return idx
}

// mustDense wraps FromSlice for internal call sites whose shapes are
// correct by construction.
func mustDense(data []float64, shape tensor.Shape) *tensor.Dense {
	d, err := tensor.FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return d
}
