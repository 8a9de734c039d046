// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/ttkit-ml/ttkit/tensor"
)

// Parameter is a trainable tensor: a weight, a bias, or one TT core viewed
// as a flat array. The gradient slot is filled by the host training
// framework's backward pass; this package never computes gradients.
type Parameter struct {
	name   string
	tensor *tensor.Dense
	grad   *tensor.Dense
}

// NewParameter creates a trainable parameter around an initialized tensor.
func NewParameter(name string, t *tensor.Dense) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
		grad:   nil, // allocated by the host on first backward pass
	}
}

// Name returns the parameter name (e.g. "weight.core2", "bias").
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Dense {
	return p.tensor
}

// Grad returns the gradient tensor, nil before any backward pass.
func (p *Parameter) Grad() *tensor.Dense {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter) SetGrad(grad *tensor.Dense) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor. Call before each training iteration
// to avoid accumulating gradients across iterations.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
