// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt

import (
	"fmt"

	"github.com/ttkit-ml/ttkit/tensor"
)

// ValidateFactorization checks a pair of mode factorizations against the
// dimensions of the matrix they describe: the sequences must have equal
// nonzero length, every factor must be positive, and the products must equal
// rows and cols respectively. Pure function, no state.
func ValidateFactorization(rowFactors, colFactors []int, rows, cols int) error {
	if len(rowFactors) == 0 {
		return fmt.Errorf("%w: empty factorization", ErrShapeMismatch)
	}
	if len(rowFactors) != len(colFactors) {
		return fmt.Errorf("%w: row factors have length %d, column factors %d",
			ErrShapeMismatch, len(rowFactors), len(colFactors))
	}
	for k, f := range rowFactors {
		if f <= 0 {
			return fmt.Errorf("%w: row factor %d at position %d must be positive",
				ErrShapeMismatch, f, k)
		}
	}
	for k, f := range colFactors {
		if f <= 0 {
			return fmt.Errorf("%w: column factor %d at position %d must be positive",
				ErrShapeMismatch, f, k)
		}
	}
	if p := tensor.Prod(rowFactors); p != rows {
		return fmt.Errorf("%w: row factors %v have product %d, want %d",
			ErrShapeMismatch, rowFactors, p, rows)
	}
	if p := tensor.Prod(colFactors); p != cols {
		return fmt.Errorf("%w: column factors %v have product %d, want %d",
			ErrShapeMismatch, colFactors, p, cols)
	}
	return nil
}

// naturalRanks returns the maximal useful rank at every link of a chain over
// the given factorizations: r_k ≤ min(∏_{i≤k} n_i·m_i, ∏_{i>k} n_i·m_i).
// The returned sequence has length d+1 with the ends fixed to 1.
func naturalRanks(rowFactors, colFactors []int) []int {
	d := len(rowFactors)
	ranks := make([]int, d+1)
	ranks[0], ranks[d] = 1, 1

	left := 1
	for k := 1; k < d; k++ {
		left *= rowFactors[k-1] * colFactors[k-1]
		right := 1
		for i := k; i < d; i++ {
			right *= rowFactors[i] * colFactors[i]
		}
		ranks[k] = min(left, right)
	}
	return ranks
}

// boundedRanks returns the rank sequence for a uniform scalar rank request,
// clipped at every internal link to the natural bound.
func boundedRanks(rowFactors, colFactors []int, rank int) ([]int, error) {
	if rank < 1 {
		return nil, fmt.Errorf("%w: requested rank %d, must be >= 1", ErrInvalidRank, rank)
	}
	ranks := naturalRanks(rowFactors, colFactors)
	for k := 1; k < len(ranks)-1; k++ {
		ranks[k] = min(ranks[k], rank)
	}
	return ranks, nil
}
