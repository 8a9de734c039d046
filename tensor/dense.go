// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Dense is a row-major float64 array of arbitrary dimensionality.
//
// Dense owns its backing slice outright unless it was produced by Reshape,
// which returns a view sharing the same memory. Callers that need an
// independent copy use Clone.
type Dense struct {
	shape   Shape
	strides []int
	data    []float64
}

// NewDense creates a zero-filled Dense with the given shape.
func NewDense(shape Shape) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Dense{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		data:    make([]float64, shape.NumElements()),
	}, nil
}

// FromSlice creates a Dense wrapping the given data.
// The data length must equal the shape's element count; the slice is not copied.
func FromSlice(data []float64, shape Shape) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	return &Dense{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		data:    data,
	}, nil
}

// Zeros creates a zero-filled Dense.
// Panics on an invalid shape; use NewDense for error handling.
func Zeros(shape Shape) *Dense {
	d, err := NewDense(shape)
	if err != nil {
		panic(err)
	}
	return d
}

// Randn creates a Dense with entries drawn from the standard normal
// distribution N(0, 1).
// Note: uses math/rand (not crypto/rand) - appropriate for ML/statistical purposes.
func Randn(shape Shape) *Dense {
	d := Zeros(shape)
	for i := range d.data {
		//nolint:gosec // math/rand is fine for statistical initialization
		d.data[i] = rand.NormFloat64()
	}
	return d
}

// Shape returns the array's shape.
func (d *Dense) Shape() Shape {
	return d.shape
}

// Strides returns the row-major memory strides.
func (d *Dense) Strides() []int {
	return d.strides
}

// NumElements returns the total number of elements.
func (d *Dense) NumElements() int {
	return d.shape.NumElements()
}

// Data returns the backing slice.
// WARNING: direct access to underlying memory. Use with caution.
func (d *Dense) Data() []float64 {
	return d.data
}

// At returns the element at the given multi-index.
// Panics if the number of indices does not match the dimensionality.
func (d *Dense) At(idx ...int) float64 {
	return d.data[d.offset(idx)]
}

// Set writes the element at the given multi-index.
func (d *Dense) Set(v float64, idx ...int) {
	d.data[d.offset(idx)] = v
}

func (d *Dense) offset(idx []int) int {
	if len(idx) != len(d.shape) {
		panic(fmt.Sprintf("tensor: index %v does not match shape %v", idx, d.shape))
	}
	off := 0
	for i, ix := range idx {
		if ix < 0 || ix >= d.shape[i] {
			panic(fmt.Sprintf("tensor: index %v out of range for shape %v", idx, d.shape))
		}
		off += ix * d.strides[i]
	}
	return off
}

// Reshape returns a view of the same data with a new shape.
// The element count must be unchanged. No data is copied.
func (d *Dense) Reshape(dims ...int) *Dense {
	shape := Shape(dims)
	if shape.NumElements() != d.NumElements() {
		panic(fmt.Sprintf("tensor: cannot reshape %v (%d elements) to %v (%d elements)",
			d.shape, d.NumElements(), shape, shape.NumElements()))
	}
	return &Dense{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		data:    d.data,
	}
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	data := make([]float64, len(d.data))
	copy(data, d.data)
	return &Dense{
		shape:   d.shape.Clone(),
		strides: append([]int(nil), d.strides...),
		data:    data,
	}
}

// Matrix returns the 2D array as a gonum mat.Dense sharing the same memory.
// Panics if the array is not 2D.
func (d *Dense) Matrix() *mat.Dense {
	if len(d.shape) != 2 {
		panic(fmt.Sprintf("tensor: Matrix requires a 2D array, got shape %v", d.shape))
	}
	return mat.NewDense(d.shape[0], d.shape[1], d.data)
}

// Transpose returns a new 2D array with rows and columns swapped.
func (d *Dense) Transpose() *Dense {
	if len(d.shape) != 2 {
		panic(fmt.Sprintf("tensor: Transpose requires a 2D array, got shape %v", d.shape))
	}
	rows, cols := d.shape[0], d.shape[1]
	out := Zeros(Shape{cols, rows})
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.data[j*rows+i] = d.data[i*cols+j]
		}
	}
	return out
}

// MatMul performs 2D matrix multiplication via gonum:
// (M, K) @ (K, N) -> (M, N).
// Panics on a dimension mismatch, mirroring the panic contract of At/Reshape.
func (d *Dense) MatMul(other *Dense) *Dense {
	if len(d.shape) != 2 || len(other.shape) != 2 {
		panic(fmt.Sprintf("tensor: MatMul requires 2D arrays, got %v and %v", d.shape, other.shape))
	}
	if d.shape[1] != other.shape[0] {
		panic(fmt.Sprintf("tensor: MatMul shape mismatch [%d,%d] @ [%d,%d]",
			d.shape[0], d.shape[1], other.shape[0], other.shape[1]))
	}
	out := Zeros(Shape{d.shape[0], other.shape[1]})
	out.Matrix().Mul(d.Matrix(), other.Matrix())
	return out
}

// Add returns the element-wise sum of two arrays.
// The shapes must be equal, or other may be a (1, N) row broadcast against
// a (B, N) matrix (the bias case).
func (d *Dense) Add(other *Dense) *Dense {
	if d.shape.Equal(other.shape) {
		out := d.Clone()
		for i, v := range other.data {
			out.data[i] += v
		}
		return out
	}
	if len(d.shape) == 2 && len(other.shape) == 2 &&
		other.shape[0] == 1 && other.shape[1] == d.shape[1] {
		out := d.Clone()
		cols := d.shape[1]
		for i := range out.data {
			out.data[i] += other.data[i%cols]
		}
		return out
	}
	panic(fmt.Sprintf("tensor: Add shapes not compatible: %v vs %v", d.shape, other.shape))
}

// Scale returns the array multiplied by a scalar.
func (d *Dense) Scale(alpha float64) *Dense {
	out := d.Clone()
	for i := range out.data {
		out.data[i] *= alpha
	}
	return out
}

// FrobeniusNorm returns the root of the sum of squared entries.
func (d *Dense) FrobeniusNorm() float64 {
	sum := 0.0
	for _, v := range d.data {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// AllClose reports whether two arrays have equal shapes and entries within
// the given absolute-plus-relative tolerance:
// |a-b| <= tol * (1 + max(|a|, |b|)).
func (d *Dense) AllClose(other *Dense, tol float64) bool {
	if !d.shape.Equal(other.shape) {
		return false
	}
	for i, a := range d.data {
		b := other.data[i]
		if math.Abs(a-b) > tol*(1+math.Max(math.Abs(a), math.Abs(b))) {
			return false
		}
	}
	return true
}
