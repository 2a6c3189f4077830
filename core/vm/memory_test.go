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
	"bytes"
	"testing"

	"github.com/holiman/uint256"
)

func TestMemorySet32(t *testing.T) {
	m := NewMemory()
	m.Resize(32)

	val := uint256.NewInt(0x1234)
	m.Set32(0, val)

	want := val.Bytes32()
	if !bytes.Equal(m.GetPtr(0, 32), want[:]) {
		t.Errorf("Set32 wrote %x, want %x", m.GetPtr(0, 32), want)
	}
}

func TestMemoryResizeNeverShrinks(t *testing.T) {
	m := NewMemory()
	m.Resize(64)
	if m.Len() != 64 {
		t.Fatalf("Len() = %d, want 64", m.Len())
	}
	m.Resize(32)
	if m.Len() != 64 {
		t.Errorf("Resize to a smaller size shrank memory: Len() = %d, want 64", m.Len())
	}
}

func TestMemoryGetCopyIsIndependent(t *testing.T) {
	m := NewMemory()
	m.Resize(32)
	m.Set(0, 4, []byte{1, 2, 3, 4})

	cpy := m.GetCopy(0, 4)
	cpy[0] = 0xff

	if m.GetPtr(0, 4)[0] == 0xff {
		t.Errorf("GetCopy shares the backing array with the live memory")
	}
}

func TestMemoryCopyOverlapping(t *testing.T) {
	m := NewMemory()
	m.Resize(64)
	m.Set(0, 4, []byte{1, 2, 3, 4})
	m.Copy(2, 0, 4)

	want := []byte{1, 2, 1, 2, 3, 4}
	if !bytes.Equal(m.GetPtr(0, 6), want) {
		t.Errorf("Copy(2, 0, 4) = %x, want %x", m.GetPtr(0, 6), want)
	}
}

func TestToWordSize(t *testing.T) {
	for _, tc := range []struct {
		size uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{32, 1},
		{33, 2},
		{64, 2},
	} {
		if got := toWordSize(tc.size); got != tc.want {
			t.Errorf("toWordSize(%d) = %d, want %d", tc.size, got, tc.want)
		}
	}
}

func TestCalcMemSize64Overflow(t *testing.T) {
	off := new(uint256.Int).SetAllOne()
	length := uint256.NewInt(1)

	if _, overflow := calcMemSize64(off, length); !overflow {
		t.Errorf("calcMemSize64 with near-max offset: want overflow, got none")
	}

	if size, overflow := calcMemSize64(uint256.NewInt(0), uint256.NewInt(0)); overflow || size != 0 {
		t.Errorf("calcMemSize64(0, 0) = (%d, %v), want (0, false)", size, overflow)
	}
}
