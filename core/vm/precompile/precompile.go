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

// Package precompile defines the dispatch interface for native contracts
// mapped to low addresses (spec.md §6: "a map from address to a handler
// ... Active addresses 0x01..0x11 per the referenced fork"). Only the
// interface and a handful of trivial bodies are in scope; the interesting
// cryptographic precompiles (MODEXP, the BN254/BLS12-381 curve
// operations, point evaluation) are out of scope for this engine the way
// keccak256 itself is. They are not provided: the EVM dispatches only the
// addresses in Active.
package precompile

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD160 precompile requires the legacy hash.

	"github.com/osakavm/coreengine/common"
	"github.com/osakavm/coreengine/common/math"
	"github.com/osakavm/coreengine/crypto"
)

type bigInt = big.Int

// Contract is a native contract, addressed like a regular account but
// executed natively instead of interpreting bytecode.
type Contract interface {
	// RequiredGas computes the gas required to run the given input.
	RequiredGas(input []byte) uint64
	// Run executes the precompile and returns its output.
	Run(input []byte) ([]byte, error)
}

// Table maps a precompile's full address to its implementation. Active
// fills it with the four bodies in this file (0x01-0x04); no other
// address is dispatched.
type Table map[common.Address]Contract

// Active returns the Osaka/Prague precompile dispatch table.
func Active() Table {
	return Table{
		common.BytesToAddress([]byte{1}): &ecrecover{},
		common.BytesToAddress([]byte{2}): &sha256hash{},
		common.BytesToAddress([]byte{3}): &ripemd160hash{},
		common.BytesToAddress([]byte{4}): &dataCopy{},
	}
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

const (
	ecrecoverGas     uint64 = 3000
	sha256PerWordGas uint64 = 12
	sha256BaseGas    uint64 = 60
	ripemd160PerWord uint64 = 120
	ripemd160BaseGas uint64 = 600
	identityPerWord  uint64 = 3
	identityBaseGas  uint64 = 15
)

// ecrecover implements the ECRECOVER precompile (address 0x01): recovers
// the signing address from a (hash, v, r, s) tuple.
type ecrecover struct{}

func (c *ecrecover) RequiredGas([]byte) uint64 { return ecrecoverGas }

func (c *ecrecover) Run(input []byte) ([]byte, error) {
	const inputLen = 128
	in := make([]byte, inputLen)
	copy(in, input)

	hash := in[:32]
	v := in[63]
	r, s := in[64:96], in[96:128]

	if !allZero(in[32:63]) || v < 27 || v > 28 || !validSignatureValues(r, s) {
		return nil, nil
	}
	sig := make([]byte, 65)
	copy(sig[:32], r)
	copy(sig[32:64], s)
	sig[64] = v - 27

	pub, err := crypto.Ecrecover(hash, sig)
	if err != nil {
		return nil, nil
	}
	addr := crypto.PubkeyToAddress(pub)
	out := make([]byte, 32)
	copy(out[12:], addr)
	return out, nil
}

// secp256k1 curve order n (not halved); signature malleability was never enforced at
// the precompile layer but r,s must still be in range.
var secp256k1N = mustHex("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")

func validSignatureValues(r, s []byte) bool {
	rI, sI := new(bigInt).SetBytes(r), new(bigInt).SetBytes(s)
	if rI.Sign() == 0 || sI.Sign() == 0 {
		return false
	}
	return rI.Cmp(secp256k1N) < 0 && sI.Cmp(secp256k1N) < 0
}

// sha256hash implements the SHA2-256 precompile (address 0x02).
type sha256hash struct{}

func (c *sha256hash) RequiredGas(input []byte) uint64 {
	return sha256PerWordGas*toWordSize(uint64(len(input))) + sha256BaseGas
}

func (c *sha256hash) Run(input []byte) ([]byte, error) {
	h := sha256.Sum256(input)
	return h[:], nil
}

// ripemd160hash implements the RIPEMD-160 precompile (address 0x03); its
// output is left-padded to 32 bytes like the reference implementation.
type ripemd160hash struct{}

func (c *ripemd160hash) RequiredGas(input []byte) uint64 {
	return ripemd160PerWord*toWordSize(uint64(len(input))) + ripemd160BaseGas
}

func (c *ripemd160hash) Run(input []byte) ([]byte, error) {
	ripemd := ripemd160.New()
	ripemd.Write(input)
	out := make([]byte, 32)
	copy(out[12:], ripemd.Sum(nil))
	return out, nil
}

// dataCopy implements the IDENTITY precompile (address 0x04): returns its
// input unchanged.
type dataCopy struct{}

func (c *dataCopy) RequiredGas(input []byte) uint64 {
	return identityPerWord*toWordSize(uint64(len(input))) + identityBaseGas
}

func (c *dataCopy) Run(input []byte) ([]byte, error) {
	return append([]byte{}, input...), nil
}

func toWordSize(size uint64) uint64 {
	overflowGuard, overflow := math.SafeAdd(size, 31)
	if overflow {
		return (1<<64 - 1) / 32
	}
	return overflowGuard / 32
}

var errInvalidHex = errors.New("invalid hex constant")

func mustHex(s string) *bigInt {
	n, ok := new(bigInt).SetString(s, 16)
	if !ok {
		panic(errInvalidHex)
	}
	return n
}
