// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math"

	"github.com/ttkit-ml/ttkit/internal/parallel"
	"github.com/ttkit-ml/ttkit/tensor"
)

// apply runs an element-wise function over a fresh copy of the input.
func apply(input *tensor.Dense, f func(float64) float64) *tensor.Dense {
	out := input.Clone()
	data := out.Data()
	parallel.ForRange(len(data), func(start, end int) {
		for i := start; i < end; i++ {
			data[i] = f(data[i])
		}
	}, parallel.DefaultConfig())
	return out
}

// ReLU is the rectified linear unit: f(x) = max(0, x).
type ReLU struct{}

// NewReLU creates a ReLU activation module.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies ReLU element-wise.
func (r *ReLU) Forward(input *tensor.Dense) *tensor.Dense {
	return apply(input, func(x float64) float64 {
		if x > 0 {
			return x
		}
		return 0
	})
}

// Parameters returns nil (ReLU has no trainable parameters).
func (r *ReLU) Parameters() []*Parameter {
	return nil
}

// Sigmoid squashes values into (0, 1): σ(x) = 1 / (1 + exp(-x)).
type Sigmoid struct{}

// NewSigmoid creates a Sigmoid activation module.
func NewSigmoid() *Sigmoid {
	return &Sigmoid{}
}

// Forward applies Sigmoid element-wise.
func (s *Sigmoid) Forward(input *tensor.Dense) *tensor.Dense {
	return apply(input, func(x float64) float64 {
		return 1.0 / (1.0 + math.Exp(-x))
	})
}

// Parameters returns nil (Sigmoid has no trainable parameters).
func (s *Sigmoid) Parameters() []*Parameter {
	return nil
}

// Tanh squashes values into (-1, 1).
type Tanh struct{}

// NewTanh creates a Tanh activation module.
func NewTanh() *Tanh {
	return &Tanh{}
}

// Forward applies Tanh element-wise.
func (t *Tanh) Forward(input *tensor.Dense) *tensor.Dense {
	return apply(input, math.Tanh)
}

// Parameters returns nil (Tanh has no trainable parameters).
func (t *Tanh) Parameters() []*Parameter {
	return nil
}
