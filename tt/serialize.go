// Copyright 2026 TTKit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Binary container for a TT-matrix. Layout, little-endian throughout:
//
//	magic   uint32  0x54544D31 ("TTM1")
//	order   uint32
//	rowFactors [order]uint32
//	colFactors [order]uint32
//	ranks      [order+1]uint32
//	core data  [Σ r_{k-1}·n_k·m_k·r_k]float64, chain order, row-major cores
const serializeMagic uint32 = 0x54544D31

// MarshalBinary encodes the matrix into the TTM1 container.
func (m *Matrix) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	d := m.Order()

	header := make([]uint32, 0, 2*d+d+3)
	header = append(header, serializeMagic, uint32(d))
	for _, f := range m.rowFactors {
		header = append(header, uint32(f))
	}
	for _, f := range m.colFactors {
		header = append(header, uint32(f))
	}
	for _, r := range m.Rank() {
		header = append(header, uint32(r))
	}
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return nil, err
	}
	for _, c := range m.cores {
		if err := binary.Write(&buf, binary.LittleEndian, c.data); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a TTM1 container, validating the chain as it is
// rebuilt. The receiver is overwritten only on success.
func (m *Matrix) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	var magic, order uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return fmt.Errorf("reading magic: %w", err)
	}
	if magic != serializeMagic {
		return fmt.Errorf("%w: bad magic 0x%08X, want 0x%08X", ErrShapeMismatch, magic, serializeMagic)
	}
	if err := binary.Read(r, binary.LittleEndian, &order); err != nil {
		return fmt.Errorf("reading order: %w", err)
	}
	const maxOrder = 64 // sanity bound against corrupt headers
	if order == 0 || order > maxOrder {
		return fmt.Errorf("%w: implausible order %d", ErrShapeMismatch, order)
	}
	d := int(order)

	readInts := func(n int) ([]int, error) {
		raw := make([]uint32, n)
		if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
			return nil, err
		}
		out := make([]int, n)
		for i, v := range raw {
			if v == 0 || v > math.MaxInt32 {
				return nil, fmt.Errorf("%w: implausible dimension %d", ErrShapeMismatch, v)
			}
			out[i] = int(v)
		}
		return out, nil
	}

	rowFactors, err := readInts(d)
	if err != nil {
		return fmt.Errorf("reading row factors: %w", err)
	}
	colFactors, err := readInts(d)
	if err != nil {
		return fmt.Errorf("reading column factors: %w", err)
	}
	ranks, err := readInts(d + 1)
	if err != nil {
		return fmt.Errorf("reading ranks: %w", err)
	}

	cores := make([]*Core, d)
	for k := 0; k < d; k++ {
		// A core's element count can never exceed the float64s left in the
		// input, so bounding each dimension product against that also rules
		// out int overflow from hostile headers before make sees the size.
		maxElems := r.Len() / 8
		count := 1
		for _, dim := range []int{ranks[k], rowFactors[k], colFactors[k], ranks[k+1]} {
			if dim > maxElems/count {
				return fmt.Errorf("%w: core %d dimensions (%d, %d, %d, %d) exceed the %d remaining payload elements",
					ErrShapeMismatch, k, ranks[k], rowFactors[k], colFactors[k], ranks[k+1], maxElems)
			}
			count *= dim
		}
		payload := make([]float64, count)
		if err := binary.Read(r, binary.LittleEndian, payload); err != nil {
			return fmt.Errorf("reading core %d: %w", k, err)
		}
		cores[k] = coreFromData(payload, ranks[k], rowFactors[k], colFactors[k], ranks[k+1])
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrShapeMismatch, r.Len())
	}

	decoded, err := New(cores, rowFactors, colFactors)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}
