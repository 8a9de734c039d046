// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt

import "errors"

// Error kinds raised by the engine. All are reported synchronously at the
// call that detects them and wrap into returned errors via %w, so callers
// discriminate with errors.Is. Nothing is retried internally and no partial
// results are returned on failure.
var (
	// ErrShapeMismatch reports mode factorizations whose products disagree
	// with a matrix's dimensions, or factor sequences of unequal length.
	ErrShapeMismatch = errors.New("tt: shape mismatch")

	// ErrInvalidRank reports a non-positive or inconsistent rank request.
	ErrInvalidRank = errors.New("tt: invalid rank")

	// ErrInvalidTolerance reports a non-positive truncation tolerance.
	ErrInvalidTolerance = errors.New("tt: invalid tolerance")

	// ErrDimensionMismatch reports a dense batch whose feature length does
	// not equal a TT-matrix's column count.
	ErrDimensionMismatch = errors.New("tt: dimension mismatch")

	// ErrDecompositionFailed reports numerical SVD non-convergence.
	ErrDecompositionFailed = errors.New("tt: decomposition failed")
)
