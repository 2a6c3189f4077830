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

package crypto

import (
	"math/big"

	"github.com/osakavm/coreengine/common"
)

// rlpUint encodes n the way RLP would for an unsigned integer: minimal
// big-endian bytes, empty for zero. CREATE's address derivation needs
// exactly this encoding of the sender's nonce and nothing else from an
// RLP library, so it's inlined rather than pulling in a full encoder.
func rlpUint(n uint64) []byte {
	if n == 0 {
		return nil
	}
	b := big.NewInt(0).SetUint64(n).Bytes()
	return b
}

// rlpList encodes items as an RLP list, used only for the two-element
// [sender, nonce] list CREATE hashes.
func rlpList(items ...[]byte) []byte {
	var payload []byte
	for _, it := range items {
		payload = append(payload, rlpString(it)...)
	}
	return append(rlpHeader(len(payload), 0xc0, 0xf7), payload...)
}

func rlpString(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	return append(rlpHeader(len(b), 0x80, 0xb7), b...)
}

func rlpHeader(size int, offset, longOffset byte) []byte {
	if size < 56 {
		return []byte{offset + byte(size)}
	}
	lenBytes := big.NewInt(int64(size)).Bytes()
	return append([]byte{longOffset + byte(len(lenBytes))}, lenBytes...)
}

// CreateAddress derives the address a CREATE deploys to: the low 20 bytes
// of Keccak256(RLP([sender, nonce])).
func CreateAddress(sender common.Address, nonce uint64) common.Address {
	data := rlpList(sender.Bytes(), rlpUint(nonce))
	return common.BytesToAddress(Keccak256(data)[12:])
}

// CreateAddress2 derives the address a CREATE2 deploys to: the low 20
// bytes of Keccak256(0xff ++ sender ++ salt ++ Keccak256(initCode)).
func CreateAddress2(sender common.Address, salt [32]byte, initCodeHash []byte) common.Address {
	data := make([]byte, 0, 1+20+32+32)
	data = append(data, 0xff)
	data = append(data, sender.Bytes()...)
	data = append(data, salt[:]...)
	data = append(data, initCodeHash...)
	return common.BytesToAddress(Keccak256(data)[12:])
}
