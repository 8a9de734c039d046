// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn implements the neural network layer surface over the TTKit
// engine.
//
// The package provides the thin adapter that makes a TT-matrix usable as a
// drop-in replacement for a dense weight matrix:
//   - Module interface: base interface for all layer components
//   - Parameter: trainable tensors with a gradient slot owned by the host
//     training framework
//   - TTLinear: fully connected layer backed by a compressed TT weight
//   - Linear: conventional dense layer, for output heads
//   - Activations: ReLU, Sigmoid, Tanh
//   - Sequential: container for stacking layers
//
// Gradient computation and parameter updates are the host framework's
// responsibility; these modules only define the forward pass.
package nn

import (
	"github.com/ttkit-ml/ttkit/tensor"
)

// Module is the base interface for all layer components.
//
// Modules compose into full models:
//
//	hidden, _ := nn.NewTTLinear([]int{4, 4, 4, 4}, []int{4, 7, 4, 7}, 8, nil)
//	model := nn.Sequential{hidden, nn.NewReLU(), nn.NewLinear(256, 10)}
type Module interface {
	// Forward computes the output of the module given an input batch of
	// shape [batch, features].
	Forward(input *tensor.Dense) *tensor.Dense

	// Parameters returns all trainable parameters of this module, empty for
	// modules without any (e.g. activations).
	Parameters() []*Parameter
}

// Sequential chains modules, feeding each one's output to the next.
type Sequential []Module

// Forward runs the input through every module in order.
func (s Sequential) Forward(input *tensor.Dense) *tensor.Dense {
	out := input
	for _, m := range s {
		out = m.Forward(out)
	}
	return out
}

// Parameters returns the concatenated parameters of all modules.
func (s Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, m := range s {
		params = append(params, m.Parameters()...)
	}
	return params
}
