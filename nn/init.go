// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math"
	"math/rand"

	"github.com/ttkit-ml/ttkit/tensor"
)

// Xavier (Glorot) initialization for dense weights.
//
// Draws from the uniform distribution
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))), which keeps
// activation variance roughly constant across layers. TT weights use
// tt.VarianceScaled instead, which calibrates through the core chain.
func Xavier(fanIn, fanOut int, shape tensor.Shape) *tensor.Dense {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t := tensor.Zeros(shape)
	data := t.Data()
	for i := range data {
		//nolint:gosec // math/rand for weight initialization (not security-critical)
		data[i] = (rand.Float64()*2.0 - 1.0) * bound
	}
	return t
}

// Zeros creates a zero-filled tensor, the usual bias initialization.
func Zeros(shape tensor.Shape) *tensor.Dense {
	return tensor.Zeros(shape)
}
