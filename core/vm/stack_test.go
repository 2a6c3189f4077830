// Copyright 2014 The go-ethereum Authors
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
	"testing"

	"github.com/holiman/uint256"
)

func TestStackPushPop(t *testing.T) {
	st := newstack()
	defer returnStack(st)

	st.push(uint256.NewInt(1))
	st.push(uint256.NewInt(2))
	st.push(uint256.NewInt(3))

	if st.len() != 3 {
		t.Fatalf("len = %d, want 3", st.len())
	}
	if got := st.peek(); got.Uint64() != 3 {
		t.Errorf("peek = %d, want 3", got.Uint64())
	}
	if got := st.pop(); got.Uint64() != 3 {
		t.Errorf("pop = %d, want 3", got.Uint64())
	}
	if got := st.pop(); got.Uint64() != 2 {
		t.Errorf("pop = %d, want 2", got.Uint64())
	}
	if st.len() != 1 {
		t.Errorf("len = %d, want 1", st.len())
	}
}

func TestStackSwapAndDup(t *testing.T) {
	st := newstack()
	defer returnStack(st)

	st.push(uint256.NewInt(1))
	st.push(uint256.NewInt(2))
	st.swap(2)
	if got := st.peek(); got.Uint64() != 1 {
		t.Errorf("after swap(2), peek = %d, want 1", got.Uint64())
	}

	st.dup(1)
	if st.len() != 3 {
		t.Fatalf("len = %d, want 3", st.len())
	}
	if got := st.peek(); got.Uint64() != 1 {
		t.Errorf("after dup(1), peek = %d, want 1", got.Uint64())
	}
}

func TestStackRequireUnderflow(t *testing.T) {
	st := newstack()
	defer returnStack(st)

	if err := st.require(1); err == nil {
		t.Fatalf("require(1) on empty stack: want error, got nil")
	}
	st.push(uint256.NewInt(1))
	if err := st.require(1); err != nil {
		t.Errorf("require(1) with 1 item: unexpected error %v", err)
	}
	if err := st.require(2); err == nil {
		t.Fatalf("require(2) with 1 item: want error, got nil")
	}
}

func TestStackBackIsZeroIndexedFromTop(t *testing.T) {
	st := newstack()
	defer returnStack(st)

	st.push(uint256.NewInt(10))
	st.push(uint256.NewInt(20))
	st.push(uint256.NewInt(30))

	if got := st.Back(0); got.Uint64() != 30 {
		t.Errorf("Back(0) = %d, want 30", got.Uint64())
	}
	if got := st.Back(2); got.Uint64() != 10 {
		t.Errorf("Back(2) = %d, want 10", got.Uint64())
	}
}
