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

// Package crypto provides the Keccak256 hash function and the Ecrecover
// and address-derivation primitives the interpreter consumes as pure
// functions. Keccak256 itself is taken as given (spec.md Non-goals
// exclude implementing crypto primitives) and wired to
// golang.org/x/crypto/sha3 the way the teacher does.
package crypto

import (
	"hash"
	"io"

	"github.com/osakavm/coreengine/common"
)

// KeccakState wraps sha3.state to allow Read and Sum to be called on the
// same hash, used by Keccak256 to avoid an extra allocation per hash.
type KeccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

var _ io.Reader = KeccakState(nil)

// Keccak256 calculates and returns the Keccak256 hash of the input data,
// concatenating any extra chunks before hashing.
func Keccak256(data ...[]byte) []byte {
	b := make([]byte, 32)
	d := NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	d.(KeccakState).Read(b)
	return b
}

// Keccak256Hash calculates and returns the Keccak256 hash of the input
// data, as a common.Hash instead of a raw byte slice.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	d := NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	d.(KeccakState).Read(h[:0:32])
	return h
}
