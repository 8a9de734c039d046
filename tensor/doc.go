// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense numeric arrays that the TTKit engine
// computes over.
//
// The package defines two types:
//   - Shape: dimension bookkeeping shared by every array in the module
//   - Dense: a row-major float64 n-way array with views, element access,
//     and 2D linear algebra bridged to gonum
//
// Dense is deliberately small: it exists to carry batches, reconstructions,
// and decomposition inputs between the caller and the tt package. Anything
// resembling a full tensor-algebra layer is out of scope; 2D operations
// delegate to gonum's mat package.
//
// Example:
//
//	x := tensor.Randn(tensor.Shape{32, 625})
//	w := tensor.Zeros(tensor.Shape{784, 625})
//	y := x.MatMul(w.Transpose()) // [32, 784]
package tensor
