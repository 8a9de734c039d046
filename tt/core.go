// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt

import "fmt"

// Core is one 4-way array in a Tensor Train chain, indexed by
// (left-rank, row-factor, column-factor, right-rank). Data is row-major over
// those four axes and owned exclusively by the chain holding the core.
type Core struct {
	leftRank  int
	rowDim    int
	colDim    int
	rightRank int
	data      []float64
}

// NewCore creates a zero-filled core with the given dimensions.
func NewCore(leftRank, rowDim, colDim, rightRank int) (*Core, error) {
	for _, dim := range []int{leftRank, rowDim, colDim, rightRank} {
		if dim <= 0 {
			return nil, fmt.Errorf("%w: core dimensions must be positive, got (%d, %d, %d, %d)",
				ErrShapeMismatch, leftRank, rowDim, colDim, rightRank)
		}
	}
	return &Core{
		leftRank:  leftRank,
		rowDim:    rowDim,
		colDim:    colDim,
		rightRank: rightRank,
		data:      make([]float64, leftRank*rowDim*colDim*rightRank),
	}, nil
}

// coreFromData wraps an existing slice without copying. Internal constructors
// hand ownership of data to the core.
func coreFromData(data []float64, leftRank, rowDim, colDim, rightRank int) *Core {
	return &Core{
		leftRank:  leftRank,
		rowDim:    rowDim,
		colDim:    colDim,
		rightRank: rightRank,
		data:      data,
	}
}

// LeftRank returns the size of the left rank axis.
func (c *Core) LeftRank() int { return c.leftRank }

// RowDim returns the size of the row-factor axis.
func (c *Core) RowDim() int { return c.rowDim }

// ColDim returns the size of the column-factor axis.
func (c *Core) ColDim() int { return c.colDim }

// RightRank returns the size of the right rank axis.
func (c *Core) RightRank() int { return c.rightRank }

// NumElements returns the total number of entries.
func (c *Core) NumElements() int { return len(c.data) }

// At returns the entry at (left-rank a, row-factor i, column-factor j, right-rank b).
func (c *Core) At(a, i, j, b int) float64 {
	return c.data[((a*c.rowDim+i)*c.colDim+j)*c.rightRank+b]
}

// Set writes the entry at (a, i, j, b).
func (c *Core) Set(v float64, a, i, j, b int) {
	c.data[((a*c.rowDim+i)*c.colDim+j)*c.rightRank+b] = v
}

// Data returns the backing slice in (left-rank, row, col, right-rank)
// row-major order.
// WARNING: the chain owning this core treats it as immutable; callers that
// mutate (e.g. a training loop applying gradient updates) own the consistency
// of doing so.
func (c *Core) Data() []float64 {
	return c.data
}

// Clone returns a deep copy of the core.
func (c *Core) Clone() *Core {
	data := make([]float64, len(c.data))
	copy(data, c.data)
	return coreFromData(data, c.leftRank, c.rowDim, c.colDim, c.rightRank)
}

// validateChain checks rank consistency across an ordered core sequence:
// core 0 has left rank 1, the last core has right rank 1, and each interior
// boundary agrees.
func validateChain(cores []*Core) error {
	if len(cores) == 0 {
		return fmt.Errorf("%w: empty core chain", ErrShapeMismatch)
	}
	if cores[0].leftRank != 1 {
		return fmt.Errorf("%w: first core must have left rank 1, got %d",
			ErrInvalidRank, cores[0].leftRank)
	}
	last := cores[len(cores)-1]
	if last.rightRank != 1 {
		return fmt.Errorf("%w: last core must have right rank 1, got %d",
			ErrInvalidRank, last.rightRank)
	}
	for k := 1; k < len(cores); k++ {
		if cores[k].leftRank != cores[k-1].rightRank {
			return fmt.Errorf("%w: core %d left rank %d does not match core %d right rank %d",
				ErrInvalidRank, k, cores[k].leftRank, k-1, cores[k-1].rightRank)
		}
	}
	return nil
}
