// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Memory implements a simple memory model for the EVM. Its length is always
// a multiple of 32 and only ever grows within a frame (spec.md §3's
// "monotonically non-decreasing" invariant); bytes past the previous
// high-water mark read as zero.
type Memory struct {
	store       []byte
	lastGasCost uint64
}

// NewMemory returns a new empty memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Set sets offset + size to value.
func (m *Memory) Set(offset, size uint64, value []byte) {
	if size > 0 {
		if offset+size > uint64(len(m.store)) {
			panic("invalid memory: store empty")
		}
		copy(m.store[offset:offset+size], value)
	}
}

// Set32 sets the 32 bytes starting at offset to the value of val, left-
// padded with zeroes to 32 bytes.
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	if offset+32 > uint64(len(m.store)) {
		panic("invalid memory: store empty")
	}
	b32 := val.Bytes32()
	copy(m.store[offset:offset+32], b32[:])
}

// Resize resizes the memory to size, zero-filling the new region. size is
// assumed already rounded up to a multiple of 32 by the gas calculator.
func (m *Memory) Resize(size uint64) {
	if uint64(m.Len()) < size {
		m.store = append(m.store, make([]byte, size-uint64(m.Len()))...)
	}
}

// GetCopy returns offset + size as a new, independent slice.
func (m *Memory) GetCopy(offset, size int64) (cpy []byte) {
	if size == 0 {
		return nil
	}
	if len(m.store) > int(offset) {
		cpy = make([]byte, size)
		copy(cpy, m.store[offset:offset+size])
		return
	}
	return
}

// GetPtr returns the offset + size as a slice, sharing the underlying
// array, so callers must treat it as read-only unless they own it.
func (m *Memory) GetPtr(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	if len(m.store) > int(offset) {
		return m.store[offset : offset+size]
	}
	return nil
}

// Len returns the length of the backing slice.
func (m *Memory) Len() int {
	return len(m.store)
}

// Data returns the backing slice.
func (m *Memory) Data() []byte {
	return m.store
}

// Copy copies data from the src position slice into the dst position. The
// source and destination may overlap (EIP-5656 MCOPY).
func (m *Memory) Copy(dst, src, length uint64) {
	if length == 0 {
		return
	}
	copy(m.store[dst:], m.store[src:src+length])
}

func (m *Memory) String() string {
	return fmt.Sprintf("%x", m.store)
}

// toWordSize returns the ceil32 word count for size.
func toWordSize(size uint64) uint64 {
	if size > 0xFFFFFFFFE0 {
		return 0xFFFFFFFFFF
	}
	return (size + 31) / 32
}

// calcMemSize64 returns the required memory size for a region starting at
// off with length size, and whether the addition overflowed (spec.md
// §4.A: "if offset+size overflows 64-bit, raise OutOfGas").
func calcMemSize64(off, length *uint256.Int) (uint64, bool) {
	if length.IsZero() {
		return 0, false
	}
	if !length.IsUint64() {
		return 0, true
	}
	if !off.IsUint64() {
		return 0, true
	}
	sum, overflow := uint256.NewInt(0).AddOverflow(off, length)
	if overflow || !sum.IsUint64() {
		return 0, true
	}
	return sum.Uint64(), false
}
