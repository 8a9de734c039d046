// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"fmt"

	"github.com/ttkit-ml/ttkit/tensor"
)

// Linear implements a conventional fully connected layer: y = x @ Wᵀ + b
// with W of shape [out_features, in_features]. Useful for output heads small
// enough that TT compression buys nothing.
//
// Weights use Xavier initialization, biases start at zero.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [1, out_features]
}

// NewLinear creates a Linear layer.
func NewLinear(inFeatures, outFeatures int) *Linear {
	weight := Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures})
	bias := Zeros(tensor.Shape{1, outFeatures})
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
	}
}

// Forward computes y = x @ Wᵀ + b for input of shape [batch, in_features].
// Panics on a malformed input shape; shape errors here are programmer errors.
func (l *Linear) Forward(input *tensor.Dense) *tensor.Dense {
	shape := input.Shape()
	if len(shape) != 2 || shape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input [batch, %d], got shape %v",
			l.inFeatures, shape))
	}
	out := input.MatMul(l.weight.Tensor().Transpose())
	return out.Add(l.bias.Tensor())
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter { return l.weight }

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter { return l.bias }

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int { return l.inFeatures }

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int { return l.outFeatures }
