// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"fmt"

	"github.com/ttkit-ml/ttkit/tensor"
	"github.com/ttkit-ml/ttkit/tt"
)

// TTLinear is a fully connected layer whose weight matrix is stored as a
// TT-matrix and never materialized: the forward pass contracts the input
// batch against the core chain directly.
//
// The layer computes activation(x @ Wᵀ + b) with W the implicit
// (∏rowFactors × ∏colFactors) matrix, so the input feature count is
// ∏colFactors and the output feature count ∏rowFactors. The weight is
// initialized with tt.VarianceScaled under the Glorot policy, the bias with
// zeros.
//
// Example:
//
//	layer, err := nn.NewTTLinear([]int{4, 7, 4, 7}, []int{5, 5, 5, 5}, 8, nn.NewReLU())
//	// 625 inputs -> 784 outputs through 4 cores instead of a 784×625 matrix
//	out := layer.Forward(batch)
type TTLinear struct {
	weight     *tt.Matrix
	coreParams []*Parameter
	bias       *Parameter
	activation Module // nil means identity
}

// NewTTLinear creates a TT-compressed linear layer. activation may be nil
// for a purely affine layer.
func NewTTLinear(rowFactors, colFactors []int, rank int, activation Module) (*TTLinear, error) {
	weight, err := tt.VarianceScaled(rowFactors, colFactors, rank, tt.Glorot)
	if err != nil {
		return nil, err
	}
	return newTTLinear(weight, activation), nil
}

// FromTTMatrix wraps an existing TT-matrix (e.g. one produced by
// tt.Decompose from a trained dense weight) as a layer. The cores become the
// layer's trainable parameters, sharing memory with the matrix.
func FromTTMatrix(weight *tt.Matrix, activation Module) *TTLinear {
	return newTTLinear(weight, activation)
}

func newTTLinear(weight *tt.Matrix, activation Module) *TTLinear {
	out, _ := weight.Shape()

	cores := weight.Cores()
	coreParams := make([]*Parameter, len(cores))
	for k, c := range cores {
		// The parameter views the core's backing slice, so host-side
		// gradient updates flow straight into the TT weight.
		view, err := tensor.FromSlice(c.Data(),
			tensor.Shape{c.LeftRank(), c.RowDim(), c.ColDim(), c.RightRank()})
		if err != nil {
			panic(err) // core dims are consistent by construction
		}
		coreParams[k] = NewParameter(fmt.Sprintf("weight.core%d", k), view)
	}

	return &TTLinear{
		weight:     weight,
		coreParams: coreParams,
		bias:       NewParameter("bias", Zeros(tensor.Shape{1, out})),
		activation: activation,
	}
}

// Forward computes activation(x @ Wᵀ + b) without forming W.
// Input shape [batch, ∏colFactors], output [batch, ∏rowFactors].
// Panics on a shape mismatch, matching Linear's contract.
func (l *TTLinear) Forward(input *tensor.Dense) *tensor.Dense {
	out, err := tt.Multiply(l.weight, input)
	if err != nil {
		panic(fmt.Sprintf("TTLinear.Forward: %v", err))
	}
	out = out.Add(l.bias.Tensor())
	if l.activation != nil {
		out = l.activation.Forward(out)
	}
	return out
}

// Parameters returns one parameter per TT core, then the bias.
func (l *TTLinear) Parameters() []*Parameter {
	return append(append([]*Parameter(nil), l.coreParams...), l.bias)
}

// Weight returns the TT-matrix weight.
func (l *TTLinear) Weight() *tt.Matrix { return l.weight }

// Bias returns the bias parameter.
func (l *TTLinear) Bias() *Parameter { return l.bias }

// InFeatures returns the number of input features (∏colFactors).
func (l *TTLinear) InFeatures() int {
	_, cols := l.weight.Shape()
	return cols
}

// OutFeatures returns the number of output features (∏rowFactors).
func (l *TTLinear) OutFeatures() int {
	rows, _ := l.weight.Shape()
	return rows
}

// CompressionRatio returns dense parameter count divided by TT parameter
// count for the weight.
func (l *TTLinear) CompressionRatio() float64 {
	rows, cols := l.weight.Shape()
	return float64(rows*cols) / float64(l.weight.NumParameters())
}
