// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttkit-ml/ttkit/tensor"
)

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 24, tensor.Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 1, tensor.Shape{}.NumElements())
}

func TestShape_Validate(t *testing.T) {
	require.NoError(t, tensor.Shape{2, 3}.Validate())
	require.Error(t, tensor.Shape{2, 0}.Validate())
	require.Error(t, tensor.Shape{-1, 3}.Validate())
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, tensor.Shape{2, 3, 4}.ComputeStrides())
}

func TestProd(t *testing.T) {
	assert.Equal(t, 784, tensor.Prod([]int{4, 7, 4, 7}))
	assert.Equal(t, 1, tensor.Prod(nil))
}

func TestFromSlice(t *testing.T) {
	d, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, 6.0, d.At(1, 2))
	assert.Equal(t, 2.0, d.At(0, 1))

	_, err = tensor.FromSlice([]float64{1, 2}, tensor.Shape{2, 3})
	require.Error(t, err)
}

func TestDense_SetAt(t *testing.T) {
	d := tensor.Zeros(tensor.Shape{2, 2, 2})
	d.Set(3.5, 1, 0, 1)
	assert.Equal(t, 3.5, d.At(1, 0, 1))
	assert.Equal(t, 0.0, d.At(0, 0, 1))
}

func TestDense_ReshapeSharesData(t *testing.T) {
	d := tensor.Zeros(tensor.Shape{2, 6})
	v := d.Reshape(3, 4)
	v.Set(1.0, 2, 3)
	assert.Equal(t, 1.0, d.At(1, 5))

	assert.Panics(t, func() { d.Reshape(5, 5) })
}

func TestDense_MatMul(t *testing.T) {
	a, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float64{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})
	require.NoError(t, err)

	c := a.MatMul(b)
	want, _ := tensor.FromSlice([]float64{58, 64, 139, 154}, tensor.Shape{2, 2})
	assert.True(t, c.AllClose(want, 1e-12))
}

func TestDense_Transpose(t *testing.T) {
	a, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	at := a.Transpose()
	assert.True(t, at.Shape().Equal(tensor.Shape{3, 2}))
	assert.Equal(t, 2.0, at.At(1, 0))
	assert.Equal(t, 6.0, at.At(2, 1))
}

func TestDense_AddRowBroadcast(t *testing.T) {
	x, _ := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	bias, _ := tensor.FromSlice([]float64{10, 20}, tensor.Shape{1, 2})

	y := x.Add(bias)
	want, _ := tensor.FromSlice([]float64{11, 22, 13, 24}, tensor.Shape{2, 2})
	assert.True(t, y.AllClose(want, 1e-12))

	// Operands are untouched.
	assert.Equal(t, 1.0, x.At(0, 0))

	assert.Panics(t, func() { x.Add(tensor.Zeros(tensor.Shape{3, 3})) })
}

func TestDense_AllClose(t *testing.T) {
	a, _ := tensor.FromSlice([]float64{1, 2}, tensor.Shape{2})
	b, _ := tensor.FromSlice([]float64{1 + 1e-9, 2}, tensor.Shape{2})
	assert.True(t, a.AllClose(b, 1e-6))
	assert.False(t, a.AllClose(tensor.Zeros(tensor.Shape{2}), 1e-6))
	assert.False(t, a.AllClose(tensor.Zeros(tensor.Shape{2, 1}), 1e-6))
}

func TestRandn_Shape(t *testing.T) {
	d := tensor.Randn(tensor.Shape{5, 7})
	assert.Equal(t, 35, d.NumElements())
}
