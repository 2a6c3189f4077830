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

// Package common holds the value types (addresses, hashes) shared by the
// gas calculator, frame state, opcode table, interpreter and call/create
// engine.
package common

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	HashLength    = 32
	AddressLength = 20
)

// Hash represents the 32-byte Keccak256 hash of arbitrary data.
type Hash [HashLength]byte

// BytesToHash sets h to the value of b, left-padding if b is shorter than
// HashLength and truncating from the left if it is longer.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// HexToHash sets h to the value of s, interpreted as a hex string (with or
// without the "0x" prefix).
func HexToHash(s string) Hash { return BytesToHash(fromHex(s)) }

// Bytes returns the byte representation of h.
func (h Hash) Bytes() []byte { return h[:] }

// Big returns h as an unsigned, big-endian integer.
func (h Hash) Big() *big.Int { return new(big.Int).SetBytes(h[:]) }

func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }

// Address represents the 20-byte address of an Ethereum account.
type Address [AddressLength]byte

// BytesToAddress sets a to the value of b, left-padding if b is shorter
// than AddressLength and truncating from the left if it is longer.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// HexToAddress sets a to the value of s, interpreted as a hex string (with
// or without the "0x" prefix).
func HexToAddress(s string) Address { return BytesToAddress(fromHex(s)) }

// fromHex decodes a hex string, tolerating an optional "0x"/"0X" prefix and
// an odd number of digits (go-ethereum's own convention for CLI/test
// addresses, which are often written without leading zero padding).
func fromHex(s string) []byte {
	if len(s) >= 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(s)
	return b
}

// Bytes returns the byte representation of a.
func (a Address) Bytes() []byte { return a[:] }

// Hash returns a as a Hash, left-zero-padded to 32 bytes — the layout
// used when an address is pushed onto the EVM stack.
func (a Address) Hash() Hash { return BytesToHash(a[:]) }

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "%s", a.String())
}
