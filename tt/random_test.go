// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttkit-ml/ttkit/tensor"
	"github.com/ttkit-ml/ttkit/tt"
)

func TestRandom_ShapeProperty(t *testing.T) {
	cases := []struct {
		rowFactors, colFactors []int
		rank                   int
	}{
		{[]int{4, 7, 4, 7}, []int{5, 5, 5, 5}, 2},
		{[]int{2, 3}, []int{3, 2}, 4},
		{[]int{6}, []int{4}, 1},
		{[]int{2, 2, 2, 2, 2}, []int{1, 1, 1, 1, 1}, 3},
	}
	for _, tc := range cases {
		m, err := tt.Random(tc.rowFactors, tc.colFactors, tc.rank)
		require.NoError(t, err)
		full := m.Reconstruct()
		assert.True(t, full.Shape().Equal(tensor.Shape{
			tensor.Prod(tc.rowFactors), tensor.Prod(tc.colFactors),
		}), "factors %v × %v", tc.rowFactors, tc.colFactors)
	}
}

func TestRandom_ClipsRankToNaturalBound(t *testing.T) {
	// For 2×2 factor pairs the first link supports at most rank 4.
	m, err := tt.Random([]int{2, 2}, []int{2, 2}, 100)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 1}, m.Rank())
}

func TestRandom_InvalidRank(t *testing.T) {
	_, err := tt.Random([]int{2, 2}, []int{2, 2}, 0)
	assert.ErrorIs(t, err, tt.ErrInvalidRank)

	_, err = tt.Random([]int{2, 2}, []int{2, 2}, -3)
	assert.ErrorIs(t, err, tt.ErrInvalidRank)
}

func TestRandom_BadFactorization(t *testing.T) {
	_, err := tt.Random([]int{2, 2}, []int{2}, 2)
	assert.ErrorIs(t, err, tt.ErrShapeMismatch)
}

func TestVarianceScaled_GlorotVariance(t *testing.T) {
	// Statistical property: empirical entry variance of the implicit matrix
	// approximates 2/(fanIn+fanOut) over repeated sampling.
	rowFactors := []int{2, 2}
	colFactors := []int{2, 2}
	const rank = 2
	const samples = 2000

	target := 2.0 / float64(4+4)
	sum, sumSq, n := 0.0, 0.0, 0
	for s := 0; s < samples; s++ {
		m, err := tt.VarianceScaled(rowFactors, colFactors, rank, tt.Glorot)
		require.NoError(t, err)
		for _, v := range m.Reconstruct().Data() {
			sum += v
			sumSq += v * v
			n++
		}
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean

	assert.InDelta(t, 0, mean, 0.05*target*float64(4)) // zero-mean entries
	assert.InEpsilon(t, target, variance, 0.25)
}

func TestVarianceScaled_HeVariance(t *testing.T) {
	rowFactors := []int{3, 2}
	colFactors := []int{2, 2}
	const rank = 2
	const samples = 2000

	target := 2.0 / 6.0 // fanIn = total rows
	sumSq, n := 0.0, 0
	for s := 0; s < samples; s++ {
		m, err := tt.VarianceScaled(rowFactors, colFactors, rank, tt.He)
		require.NoError(t, err)
		for _, v := range m.Reconstruct().Data() {
			sumSq += v * v
			n++
		}
	}
	variance := sumSq / float64(n)
	assert.InEpsilon(t, target, variance, 0.25)
}

func TestVarianceScaled_RankSequence(t *testing.T) {
	m, err := tt.VarianceScaled([]int{4, 7, 4, 7}, []int{5, 5, 5, 5}, 8, tt.Glorot)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 8, 8, 8, 1}, m.Rank())
}

func TestInitPolicy_String(t *testing.T) {
	assert.Equal(t, "glorot", tt.Glorot.String())
	assert.Equal(t, "he", tt.He.String())
}
