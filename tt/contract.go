// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ttkit-ml/ttkit/internal/parallel"
	"github.com/ttkit-ml/ttkit/tensor"
)

// Multiply computes x @ Wᵀ for a dense batch x of shape (batch, cols) against
// a TT-matrix W of shape (rows, cols), without ever materializing W. The
// result has shape (batch, rows) and equals x @ W.Reconstruct()ᵀ up to
// floating-point rounding.
//
// The batch is contracted against one core at a time, right to left: each
// step is a single GEMM of the running intermediate against a reshaped core,
// consuming one column-factor axis and producing one row-factor axis. Cost
// O(batch · Σ_k r_{k-1}·n_k·m_k·r_k), far below the dense
// O(batch · rows · cols) whenever ranks are small relative to factor sizes.
//
// Fails with ErrDimensionMismatch if x's feature length does not equal cols.
func Multiply(w *Matrix, x *tensor.Dense) (*tensor.Dense, error) {
	xs := x.Shape()
	if len(xs) != 2 {
		return nil, fmt.Errorf("%w: batch must be 2D (batch, features), got shape %v",
			ErrDimensionMismatch, xs)
	}
	rows, cols := w.Shape()
	batch := xs[0]
	if xs[1] != cols {
		return nil, fmt.Errorf("%w: batch feature length %d, TT-matrix column count %d",
			ErrDimensionMismatch, xs[1], cols)
	}

	cfg := parallel.DefaultConfig()
	d := w.Order()

	// Sweep right to left. Entering step k the intermediate is laid out as
	// (R, m_k, r_{k+1}) with R collecting the batch axis, the not-yet-consumed
	// column factors, and the already-produced row factors. The step contracts
	// (m_k, r_{k+1}) against core k and prepends the produced n_k axis.
	data := x.Data()
	for k := d - 1; k >= 0; k-- {
		c := w.cores[k]
		jb := c.colDim * c.rightRank
		r := len(data) / jb

		dataMat := mat.NewDense(r, jb, data)
		core2d := mat.NewDense(c.leftRank*c.rowDim, jb, c.data)

		// (R, m_k·r_{k+1}) @ (m_k·r_{k+1}, r_k·n_k) -> (R, r_k·n_k)
		prod := mat.NewDense(r, c.leftRank*c.rowDim, nil)
		prod.Mul(dataMat, core2d.T())

		// Permute (R, r_k, n_k) -> (n_k, R, r_k) so the produced row factor
		// leads and the left rank trails for the next contraction. Rows of
		// the product are independent.
		next := make([]float64, r*c.leftRank*c.rowDim)
		src := prod.RawMatrix().Data
		parallel.For(r, func(ri int) {
			row := src[ri*c.leftRank*c.rowDim : (ri+1)*c.leftRank*c.rowDim]
			for a := 0; a < c.leftRank; a++ {
				for i := 0; i < c.rowDim; i++ {
					next[(i*r+ri)*c.leftRank+a] = row[a*c.rowDim+i]
				}
			}
		}, cfg)

		data = next
	}

	// After the k = 0 step the left rank is 1 by the chain invariant, and
	// data is now the result transposed: (rows, batch). Emit (batch, rows).
	out := tensor.Zeros(tensor.Shape{batch, rows})
	outData := out.Data()
	parallel.For(batch, func(b int) {
		for i := 0; i < rows; i++ {
			outData[b*rows+i] = data[i*batch+b]
		}
	}, cfg)
	return out, nil
}

// MatMul multiplies two TT-matrices and returns the product as a TT-matrix.
// The result's rank at every link is the product of the operands' ranks
// there, so chained products grow quickly; re-truncate via Decompose if the
// result is consumed repeatedly.
//
// Requires a's column factorization to equal b's row factorization factor by
// factor; fails with ErrDimensionMismatch otherwise.
func MatMul(a, b *Matrix) (*Matrix, error) {
	if a.Order() != b.Order() {
		return nil, fmt.Errorf("%w: operands have orders %d and %d",
			ErrDimensionMismatch, a.Order(), b.Order())
	}
	for k := range a.colFactors {
		if a.colFactors[k] != b.rowFactors[k] {
			return nil, fmt.Errorf("%w: a's column factors %v do not match b's row factors %v",
				ErrDimensionMismatch, a.colFactors, b.rowFactors)
		}
	}

	d := a.Order()
	cores := make([]*Core, d)
	for k := 0; k < d; k++ {
		ca, cb := a.cores[k], b.cores[k]
		left := ca.leftRank * cb.leftRank
		right := ca.rightRank * cb.rightRank
		out, err := NewCore(left, ca.rowDim, cb.colDim, right)
		if err != nil {
			return nil, err
		}
		// out[(ar·bl+cl), i, p, (br·bb)] = Σ_j ca[ar,i,j,br]·cb[cl,j,p,bb]
		for ar := 0; ar < ca.leftRank; ar++ {
			for cl := 0; cl < cb.leftRank; cl++ {
				la := ar*cb.leftRank + cl
				for i := 0; i < ca.rowDim; i++ {
					for p := 0; p < cb.colDim; p++ {
						for br := 0; br < ca.rightRank; br++ {
							for bb := 0; bb < cb.rightRank; bb++ {
								sum := 0.0
								for j := 0; j < ca.colDim; j++ {
									sum += ca.At(ar, i, j, br) * cb.At(cl, j, p, bb)
								}
								out.Set(sum, la, i, p, br*cb.rightRank+bb)
							}
						}
					}
				}
			}
		}
		cores[k] = out
	}
	return New(cores, a.rowFactors, b.colFactors)
}

// FlatInner computes the inner product of two TT-matrices along all axes:
// the sum of products of corresponding entries of their implicit dense
// matrices, evaluated with a running rank×rank product and no
// reconstruction.
//
// Fails with ErrDimensionMismatch unless the factorizations coincide.
func FlatInner(a, b *Matrix) (float64, error) {
	if a.Order() != b.Order() {
		return 0, fmt.Errorf("%w: operands have orders %d and %d",
			ErrDimensionMismatch, a.Order(), b.Order())
	}
	for k := range a.rowFactors {
		if a.rowFactors[k] != b.rowFactors[k] || a.colFactors[k] != b.colFactors[k] {
			return 0, fmt.Errorf("%w: factorizations differ: (%v × %v) vs (%v × %v)",
				ErrDimensionMismatch, a.rowFactors, a.colFactors, b.rowFactors, b.colFactors)
		}
	}

	// running[b·rb+d] accumulates Σ over processed cores; starts as the
	// order-0 contraction of the first cores.
	running := []float64{1}
	ra, rb := 1, 1
	for k := 0; k < a.Order(); k++ {
		ca, cb := a.cores[k], b.cores[k]
		next := make([]float64, ca.rightRank*cb.rightRank)
		for ar := 0; ar < ra; ar++ {
			for cl := 0; cl < rb; cl++ {
				prev := running[ar*rb+cl]
				if prev == 0 {
					continue
				}
				for i := 0; i < ca.rowDim; i++ {
					for j := 0; j < ca.colDim; j++ {
						for br := 0; br < ca.rightRank; br++ {
							va := prev * ca.At(ar, i, j, br)
							if va == 0 {
								continue
							}
							for bb := 0; bb < cb.rightRank; bb++ {
								next[br*cb.rightRank+bb] += va * cb.At(cl, i, j, bb)
							}
						}
					}
				}
			}
		}
		running = next
		ra, rb = ca.rightRank, cb.rightRank
	}
	return running[0], nil
}

// FrobeniusNorm returns the Frobenius norm of the implicit dense matrix,
// computed on the compressed form.
func FrobeniusNorm(m *Matrix) float64 {
	sq, err := FlatInner(m, m)
	if err != nil {
		panic(err) // a Matrix is always compatible with itself
	}
	// Guard tiny negative round-off.
	return math.Sqrt(math.Max(sq, 0))
}
