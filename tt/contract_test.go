// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttkit-ml/ttkit/tensor"
	"github.com/ttkit-ml/ttkit/tt"
)

func TestMultiply_MatchesDenseProduct(t *testing.T) {
	cases := []struct {
		rowFactors, colFactors []int
		rank, batch            int
	}{
		{[]int{2, 3, 2}, []int{3, 2, 2}, 3, 5},
		{[]int{4, 7}, []int{5, 5}, 2, 1},
		{[]int{6}, []int{4}, 1, 8},
		{[]int{2, 2, 2, 2}, []int{3, 1, 3, 1}, 4, 7},
	}
	for _, tc := range cases {
		w, err := tt.Random(tc.rowFactors, tc.colFactors, tc.rank)
		require.NoError(t, err)
		_, cols := w.Shape()

		x := tensor.Randn(tensor.Shape{tc.batch, cols})
		got, err := tt.Multiply(w, x)
		require.NoError(t, err)

		want := x.MatMul(w.Reconstruct().Transpose())
		assert.True(t, got.AllClose(want, 1e-8),
			"factors %v × %v rank %d", tc.rowFactors, tc.colFactors, tc.rank)
	}
}

func TestMultiply_LargeScenario(t *testing.T) {
	w, err := tt.Random([]int{4, 7, 4, 7}, []int{5, 5, 5, 5}, 2)
	require.NoError(t, err)

	x := tensor.Randn(tensor.Shape{32, 625})
	y, err := tt.Multiply(w, x)
	require.NoError(t, err)
	assert.True(t, y.Shape().Equal(tensor.Shape{32, 784}))

	want := x.MatMul(w.Reconstruct().Transpose())
	assert.True(t, y.AllClose(want, 1e-8))
}

func TestMultiply_DimensionMismatch(t *testing.T) {
	w, err := tt.Random([]int{4, 7}, []int{5, 5}, 2)
	require.NoError(t, err)

	_, err = tt.Multiply(w, tensor.Randn(tensor.Shape{3, 24}))
	assert.ErrorIs(t, err, tt.ErrDimensionMismatch)

	_, err = tt.Multiply(w, tensor.Randn(tensor.Shape{25}))
	assert.ErrorIs(t, err, tt.ErrDimensionMismatch)
}

func TestMultiply_SharedMatrixConcurrentReads(t *testing.T) {
	w, err := tt.Random([]int{2, 3}, []int{3, 2}, 2)
	require.NoError(t, err)
	_, cols := w.Shape()

	x := tensor.Randn(tensor.Shape{4, cols})
	want, err := tt.Multiply(w, x)
	require.NoError(t, err)

	done := make(chan bool)
	for g := 0; g < 8; g++ {
		go func() {
			y, err := tt.Multiply(w, x)
			done <- err == nil && y.AllClose(want, 1e-10)
		}()
	}
	for g := 0; g < 8; g++ {
		assert.True(t, <-done)
	}
}

func TestMatMul_MatchesDenseProduct(t *testing.T) {
	a, err := tt.Random([]int{2, 3}, []int{3, 2}, 2)
	require.NoError(t, err)
	b, err := tt.Random([]int{3, 2}, []int{2, 2}, 2)
	require.NoError(t, err)

	c, err := tt.MatMul(a, b)
	require.NoError(t, err)

	// Result ranks are products of operand ranks.
	assert.Equal(t, []int{1, 4, 1}, c.Rank())

	want := a.Reconstruct().MatMul(b.Reconstruct())
	assert.True(t, c.Reconstruct().AllClose(want, 1e-8))
}

func TestMatMul_IncompatibleFactors(t *testing.T) {
	a, _ := tt.Random([]int{2, 3}, []int{3, 2}, 2)
	b, _ := tt.Random([]int{2, 3}, []int{2, 2}, 2)

	_, err := tt.MatMul(a, b)
	assert.ErrorIs(t, err, tt.ErrDimensionMismatch)

	single, _ := tt.Random([]int{6}, []int{6}, 1)
	_, err = tt.MatMul(a, single)
	assert.ErrorIs(t, err, tt.ErrDimensionMismatch)
}

func TestFlatInner_MatchesDenseSum(t *testing.T) {
	a, err := tt.Random([]int{2, 3}, []int{2, 2}, 2)
	require.NoError(t, err)
	b, err := tt.Random([]int{2, 3}, []int{2, 2}, 3)
	require.NoError(t, err)

	got, err := tt.FlatInner(a, b)
	require.NoError(t, err)

	want := 0.0
	da, db := a.Reconstruct().Data(), b.Reconstruct().Data()
	for i := range da {
		want += da[i] * db[i]
	}
	assert.InDelta(t, want, got, 1e-8*math.Max(1, math.Abs(want)))
}

func TestFlatInner_IncompatibleShapes(t *testing.T) {
	a, _ := tt.Random([]int{2, 3}, []int{2, 2}, 2)
	b, _ := tt.Random([]int{3, 2}, []int{2, 2}, 2)

	_, err := tt.FlatInner(a, b)
	assert.ErrorIs(t, err, tt.ErrDimensionMismatch)
}

func TestFrobeniusNorm_MatchesReconstruction(t *testing.T) {
	m, err := tt.Random([]int{2, 3, 2}, []int{2, 2, 3}, 3)
	require.NoError(t, err)

	assert.InEpsilon(t, m.Reconstruct().FrobeniusNorm(), tt.FrobeniusNorm(m), 1e-10)
}
