// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tt implements the Tensor Train matrix engine at the heart of TTKit.
//
// A TT-matrix represents a large (rows × cols) dense matrix implicitly as a
// chain of small 4-way cores, one per factor of the row and column counts.
// With row factors n_1..n_d and column factors m_1..m_d (∏n_k = rows,
// ∏m_k = cols), core k has shape (r_{k-1}, n_k, m_k, r_k) and the entry at
// multi-index (i_1..i_d, j_1..j_d) is the chained product of core slices
// contracted over the rank indices, with r_0 = r_d = 1.
//
// The package provides:
//   - Matrix: the immutable aggregate of a core chain plus factorizations
//   - Random, VarianceScaled: rank-bounded random constructors for layer weights
//   - Multiply: dense-batch × TT-matrix contraction without materializing
//     the full matrix
//   - Decompose: TT-SVD conversion of a dense matrix into a rank-truncated
//     TT approximation
//   - MatMul, FlatInner, FrobeniusNorm: algebra directly on the compressed form
//
// Matrices are immutable once constructed and safe for concurrent reads;
// Multiply may be called on the same Matrix from many goroutines.
//
// Representations are not unique: distinct chains can reconstruct to the same
// dense matrix. Compare reconstructions with a tolerance, never core chains.
//
// Example:
//
//	w, _ := tt.Random([]int{4, 7, 4, 7}, []int{5, 5, 5, 5}, 2)
//	rows, cols := w.Shape()        // 784, 625
//	x := tensor.Randn(tensor.Shape{32, cols})
//	y, _ := tt.Multiply(w, x)      // [32, 784], never forms the 784×625 matrix
package tt
