// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttkit-ml/ttkit/nn"
	"github.com/ttkit-ml/ttkit/tensor"
	"github.com/ttkit-ml/ttkit/tt"
)

func TestParameter(t *testing.T) {
	data, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3})
	require.NoError(t, err)
	param := nn.NewParameter("test_param", data)

	assert.Equal(t, "test_param", param.Name())
	assert.Same(t, data, param.Tensor())
	assert.Nil(t, param.Grad())

	grad, _ := tensor.FromSlice([]float64{0.1, 0.2, 0.3}, tensor.Shape{3})
	param.SetGrad(grad)
	assert.Same(t, grad, param.Grad())

	param.ZeroGrad()
	assert.Nil(t, param.Grad())
}

func TestLinear_Forward(t *testing.T) {
	layer := nn.NewLinear(10, 5)
	assert.Equal(t, 10, layer.InFeatures())
	assert.Equal(t, 5, layer.OutFeatures())
	assert.True(t, layer.Weight().Tensor().Shape().Equal(tensor.Shape{5, 10}))

	out := layer.Forward(tensor.Randn(tensor.Shape{3, 10}))
	assert.True(t, out.Shape().Equal(tensor.Shape{3, 5}))

	assert.Panics(t, func() { layer.Forward(tensor.Randn(tensor.Shape{3, 7})) })
}

func TestTTLinear_Shapes(t *testing.T) {
	layer, err := nn.NewTTLinear([]int{4, 7, 4, 7}, []int{5, 5, 5, 5}, 4, nil)
	require.NoError(t, err)

	assert.Equal(t, 625, layer.InFeatures())
	assert.Equal(t, 784, layer.OutFeatures())
	assert.Greater(t, layer.CompressionRatio(), 1.0)

	out := layer.Forward(tensor.Randn(tensor.Shape{16, 625}))
	assert.True(t, out.Shape().Equal(tensor.Shape{16, 784}))
}

func TestTTLinear_InvalidRank(t *testing.T) {
	_, err := nn.NewTTLinear([]int{4, 7}, []int{5, 5}, 0, nil)
	assert.ErrorIs(t, err, tt.ErrInvalidRank)
}

func TestTTLinear_MatchesExplicitDenseLayer(t *testing.T) {
	// activation(x @ Wᵀ + b) computed through the TT contraction must agree
	// with the same affine map applied to the reconstructed weight.
	layer, err := nn.NewTTLinear([]int{2, 3}, []int{3, 2}, 2, nn.NewReLU())
	require.NoError(t, err)

	bias := layer.Bias().Tensor().Data()
	for i := range bias {
		bias[i] = 0.1 * float64(i)
	}

	x := tensor.Randn(tensor.Shape{5, 6})
	got := layer.Forward(x)

	want := x.MatMul(layer.Weight().Reconstruct().Transpose()).Add(layer.Bias().Tensor())
	want = nn.NewReLU().Forward(want)
	assert.True(t, got.AllClose(want, 1e-8))
}

func TestTTLinear_ParametersShareCoreMemory(t *testing.T) {
	layer, err := nn.NewTTLinear([]int{2, 2}, []int{2, 2}, 2, nil)
	require.NoError(t, err)

	params := layer.Parameters()
	require.Len(t, params, 3) // two cores plus bias
	assert.Equal(t, "weight.core0", params[0].Name())
	assert.Equal(t, "bias", params[2].Name())

	// Writing through the parameter view must change the layer output:
	// the host training loop updates cores in place.
	x := tensor.Randn(tensor.Shape{1, 4})
	before := layer.Forward(x)
	params[0].Tensor().Data()[0] += 1.0
	after := layer.Forward(x)
	assert.False(t, before.AllClose(after, 1e-12))
}

func TestFromTTMatrix_DecomposedWeight(t *testing.T) {
	dense := tensor.Randn(tensor.Shape{12, 8})
	w, err := tt.Decompose(dense, []int{3, 4}, []int{2, 4})
	require.NoError(t, err)

	layer := nn.FromTTMatrix(w, nil)
	x := tensor.Randn(tensor.Shape{4, 8})
	got := layer.Forward(x)
	want := x.MatMul(dense.Transpose())
	assert.True(t, got.AllClose(want, 1e-8))
}

func TestActivations(t *testing.T) {
	in, err := tensor.FromSlice([]float64{-2, -0.5, 0, 0.5, 2}, tensor.Shape{1, 5})
	require.NoError(t, err)

	relu := nn.NewReLU().Forward(in)
	assert.Equal(t, []float64{0, 0, 0, 0.5, 2}, relu.Data())

	sig := nn.NewSigmoid().Forward(in)
	for i, x := range in.Data() {
		assert.InDelta(t, 1.0/(1.0+math.Exp(-x)), sig.Data()[i], 1e-12)
	}

	tanh := nn.NewTanh().Forward(in)
	for i, x := range in.Data() {
		assert.InDelta(t, math.Tanh(x), tanh.Data()[i], 1e-12)
	}

	// Input is untouched.
	assert.Equal(t, -2.0, in.At(0, 0))

	assert.Nil(t, nn.NewReLU().Parameters())
	assert.Nil(t, nn.NewSigmoid().Parameters())
	assert.Nil(t, nn.NewTanh().Parameters())
}

func TestSequential(t *testing.T) {
	ttLayer, err := nn.NewTTLinear([]int{2, 3}, []int{3, 2}, 2, nil)
	require.NoError(t, err)
	model := nn.Sequential{ttLayer, nn.NewReLU(), nn.NewLinear(6, 2)}

	out := model.Forward(tensor.Randn(tensor.Shape{4, 6}))
	assert.True(t, out.Shape().Equal(tensor.Shape{4, 2}))

	// Two cores + bias from the TT layer, weight + bias from the head.
	assert.Len(t, model.Parameters(), 5)
}
