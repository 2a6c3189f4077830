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
	"math/big"

	"github.com/holiman/uint256"

	"github.com/osakavm/coreengine/params"
)

// gasFunc computes the dynamic portion of an opcode's gas cost, given the
// frame it's about to run in and the memory size it is about to expand
// to. It is not pure: besides refund-counter bookkeeping, a gasFunc may
// warm the access list, record the new memory cost on mem, and set
// evm.callGasTemp for a CALL-family instruction body.
type gasFunc func(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error)

// constGasFunc adapts a flat uint64 cost to the gasFunc signature, for
// opcodes whose dynamic cost is zero.
func constGasFunc(gas uint64) gasFunc {
	return func(*EVM, *Contract, *Stack, *Memory, uint64) (uint64, error) {
		return gas, nil
	}
}

// callGas computes the amount of gas forwarded to a CALL-family child
// message under EIP-150's "63/64ths" rule: the caller offers `callCost`,
// but at most `availableGas - availableGas/64` of what remains after the
// static+dynamic charge (`base`) already deducted is actually forwarded.
func callGas(isEip150 bool, availableGas, base uint64, callCost *uint256.Int) (uint64, error) {
	if isEip150 {
		if availableGas < base {
			return 0, nil
		}
		availableGas -= base
		gas := availableGas - availableGas/64
		if !callCost.IsUint64() || gas < callCost.Uint64() {
			return gas, nil
		}
	}
	if !callCost.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return callCost.Uint64(), nil
}

// initCodeWordGas returns the EIP-3860 init-code metering cost for code of
// the given length: 2 gas per 32-byte word.
func initCodeWordGas(size uint64) uint64 {
	return params.InitCodeWordGas * toWordSize(size)
}

// codeAccessCost returns the EIP-7702/EIP-2929 cost of reading a code
// blob of the given length into the interpreter's working set:
// CodeAccessWordGas per 32-byte word. No opcode or call path in this
// package charges it.
func codeAccessCost(codeLen int) uint64 {
	return params.CodeAccessWordGas * toWordSize(uint64(codeLen))
}

// fakeExponential approximates factor * e**(numerator/denominator) via the
// Taylor-series expansion EIP-4844 specifies exactly, bit for bit.
func fakeExponential(factor, numerator, denominator *big.Int) *big.Int {
	i := big.NewInt(1)
	output := new(big.Int)
	numeratorAccum := new(big.Int).Mul(factor, denominator)
	tmp := new(big.Int)
	denom := new(big.Int)
	for numeratorAccum.Sign() > 0 {
		output.Add(output, numeratorAccum)
		tmp.Mul(numeratorAccum, numerator)
		denom.Mul(denominator, i)
		numeratorAccum.Div(tmp, denom)
		i.Add(i, big.NewInt(1))
	}
	return output.Div(output, denominator)
}

// blobBaseFee returns the base fee per blob gas for a block with the
// given excess blob gas (EIP-4844's MIN_BLOB_BASE_FEE and
// BLOB_BASE_FEE_UPDATE_FRACTION).
func blobBaseFee(excessBlobGas uint64) *big.Int {
	return fakeExponential(
		big.NewInt(int64(params.MinBlobGasPrice)),
		new(big.Int).SetUint64(excessBlobGas),
		big.NewInt(int64(params.BlobBaseFeeUpdateFraction)),
	)
}

// memoryExpansionGas returns the flat uint64 cost of growing mem to
// newMemSize bytes, as charged by the memory-touching dynamic gas functions
// in gas_table.go. It records the new total on mem.lastGasCost, so each
// call charges only the increase over the previous expansion.
func memoryExpansionGas(mem *Memory, newMemSize uint64) (uint64, error) {
	if newMemSize == 0 {
		return 0, nil
	}
	if newMemSize > 0x1FFFFFFFE0 {
		return 0, ErrGasUintOverflow
	}
	newMemSizeWords := toWordSize(newMemSize)
	newMemSize = newMemSizeWords * 32

	if newMemSize > uint64(mem.Len()) {
		square := newMemSizeWords * newMemSizeWords
		linCoef := newMemSizeWords * params.MemoryGas
		quadCoef := square / params.QuadCoeffDiv
		newTotalFee := linCoef + quadCoef

		fee := newTotalFee - mem.lastGasCost
		mem.lastGasCost = newTotalFee
		return fee, nil
	}
	return 0, nil
}
