// Copyright 2017 The go-ethereum Authors
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
	"github.com/holiman/uint256"

	"github.com/osakavm/coreengine/common"
	"github.com/osakavm/coreengine/common/math"
	"github.com/osakavm/coreengine/params"
)

// --- memory-size functions: how large memory must grow to serve an opcode ---

func memoryMload(stack *Stack) (uint64, bool) { return calcMemSize64(stack.Back(0), uint256.NewInt(32)) }
func memoryMstore(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), uint256.NewInt(32))
}
func memoryMstore8(stack *Stack) (uint64, bool) { return calcMemSize64(stack.Back(0), uint256.NewInt(1)) }
func memoryReturn(stack *Stack) (uint64, bool)  { return calcMemSize64(stack.Back(0), stack.Back(1)) }
func memoryRevert(stack *Stack) (uint64, bool)  { return calcMemSize64(stack.Back(0), stack.Back(1)) }
func memoryKeccak256(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(1))
}
func memoryCallDataCopy(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(2))
}
func memoryCodeCopy(stack *Stack) (uint64, bool) { return calcMemSize64(stack.Back(0), stack.Back(2)) }
func memoryReturnDataCopy(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(2))
}
func memoryExtCodeCopy(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(1), stack.Back(3))
}
func memoryLog(stack *Stack) (uint64, bool)     { return calcMemSize64(stack.Back(0), stack.Back(1)) }
func memoryCreate(stack *Stack) (uint64, bool)  { return calcMemSize64(stack.Back(1), stack.Back(2)) }
func memoryCreate2(stack *Stack) (uint64, bool) { return calcMemSize64(stack.Back(1), stack.Back(2)) }

func memoryMcopy(stack *Stack) (uint64, bool) {
	dst, o1 := calcMemSize64(stack.Back(0), stack.Back(2))
	src, o2 := calcMemSize64(stack.Back(1), stack.Back(2))
	if o1 || o2 {
		return 0, true
	}
	if src > dst {
		return src, false
	}
	return dst, false
}

func memoryCall(stack *Stack) (uint64, bool) {
	a, o1 := calcMemSize64(stack.Back(3), stack.Back(4))
	b, o2 := calcMemSize64(stack.Back(5), stack.Back(6))
	if o1 || o2 {
		return 0, true
	}
	if a > b {
		return a, false
	}
	return b, false
}

func memoryDelegateCall(stack *Stack) (uint64, bool) {
	a, o1 := calcMemSize64(stack.Back(2), stack.Back(3))
	b, o2 := calcMemSize64(stack.Back(4), stack.Back(5))
	if o1 || o2 {
		return 0, true
	}
	if a > b {
		return a, false
	}
	return b, false
}

func memoryStaticCall(stack *Stack) (uint64, bool) { return memoryDelegateCall(stack) }

// --- dynamic gas functions ---

func gasMemory(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryExpansionGas(mem, memorySize)
}

func gasExp(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	expByte := params.ExpByteEIP158
	if !evm.chainRules.IsEIP150 {
		expByte = params.ExpByteFrontier
	}
	exponent := stack.Back(1)
	byteLen := uint64(exponent.BitLen()+7) / 8
	gas, overflow := math.SafeMul(byteLen, expByte)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func gasKeccak256(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryExpansionGas(mem, memorySize)
	if err != nil {
		return 0, err
	}
	sizeOp := stack.Back(1)
	if !sizeOp.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	wordGas, overflow := math.SafeMul(toWordSize(sizeOp.Uint64()), params.Keccak256WordGas)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return addGas(gas, wordGas)
}

func gasCallDataCopy(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCopyWord(mem, memorySize, stack.Back(2))
}

func gasCodeCopy(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCopyWord(mem, memorySize, stack.Back(2))
}

func gasReturnDataCopy(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCopyWord(mem, memorySize, stack.Back(2))
}

// gasMcopy charges MCOPY's per-word copy cost plus memory expansion.
func gasMcopy(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCopyWord(mem, memorySize, stack.Back(2))
}

func gasCopyWord(mem *Memory, memorySize uint64, sizeOp *uint256.Int) (uint64, error) {
	gas, err := memoryExpansionGas(mem, memorySize)
	if err != nil {
		return 0, err
	}
	if !sizeOp.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	wordGas, overflow := math.SafeMul(toWordSize(sizeOp.Uint64()), params.CopyGas)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return addGas(gas, wordGas)
}

// gasExtCodeCopy charges memory expansion plus copy-word cost plus the
// EIP-2929 cold/warm address-access surcharge.
func gasExtCodeCopy(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := gasCopyWord(mem, memorySize, stack.Back(3))
	if err != nil {
		return 0, err
	}
	addr := common.Address(stack.Back(0).Bytes20())
	access, err := accessListCost(evm, addr)
	if err != nil {
		return 0, err
	}
	return addGas(gas, access)
}

func gasExtCodeSize(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return accessListCost(evm, common.Address(stack.Back(0).Bytes20()))
}

func gasExtCodeHash(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return accessListCost(evm, common.Address(stack.Back(0).Bytes20()))
}

func gasBalance(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return accessListCost(evm, common.Address(stack.Back(0).Bytes20()))
}

// accessListCost implements EIP-2929's cold/warm address-access split: the
// first touch of an address within a transaction costs
// ColdAccountAccessCostEIP2929; every subsequent touch costs only
// WarmStorageReadCostEIP2929. Pre-Berlin, every access costs a flat
// ExtcodeSizeGasEIP150 and no access list is kept.
func accessListCost(evm *EVM, addr common.Address) (uint64, error) {
	if !evm.chainRules.IsBerlin {
		return params.ExtcodeSizeGasEIP150, nil
	}
	if evm.StateDB.AddressInAccessList(addr) {
		return params.WarmStorageReadCostEIP2929, nil
	}
	evm.StateDB.AddAddressToAccessList(addr)
	return params.ColdAccountAccessCostEIP2929, nil
}

// slotAccessCost is accessListCost's storage-slot analogue, for SLOAD/SSTORE.
// The second return is true iff this touch was the cold one.
func slotAccessCost(evm *EVM, addr common.Address, slot common.Hash) (uint64, bool) {
	if !evm.chainRules.IsBerlin {
		return 0, false
	}
	_, slotOk := evm.StateDB.SlotInAccessList(addr, slot)
	if slotOk {
		return params.WarmStorageReadCostEIP2929, false
	}
	evm.StateDB.AddSlotToAccessList(addr, slot)
	return params.ColdSloadCostEIP2929, true
}

func gasSload(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	if !evm.chainRules.IsBerlin {
		if evm.chainRules.IsIstanbul {
			return params.SloadGasEIP2200, nil
		}
		return 50, nil
	}
	loc := common.Hash(stack.Back(0).Bytes32())
	cost, _ := slotAccessCost(evm, contract.Address(), loc)
	return cost, nil
}

// gasSstore implements the EIP-2200/2929/3529-composed SSTORE gas schedule:
// net metering by comparing against the slot's transaction-opening value,
// plus the cold-slot surcharge and the EIP-3529-capped clear refund.
func gasSstore(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	if evm.chainRules.IsIstanbul && contract.Gas <= params.SstoreSentryGasEIP2200 {
		return 0, ErrOutOfGas
	}
	loc := common.Hash(stack.Back(0).Bytes32())
	newVal := common.Hash(stack.Back(1).Bytes32())
	addr := contract.Address()

	var coldCost uint64
	if evm.chainRules.IsBerlin {
		cost, cold := slotAccessCost(evm, addr, loc)
		if cold {
			coldCost = cost
		}
	}

	current := evm.StateDB.GetState(addr, loc)
	if current == newVal {
		return coldCost + params.WarmStorageReadCostEIP2929, nil
	}
	original := evm.StateDB.GetCommittedState(addr, loc)
	if original == current {
		if original == (common.Hash{}) {
			return coldCost + params.SstoreSetGasEIP2200, nil
		}
		if newVal == (common.Hash{}) {
			evm.StateDB.AddRefund(params.SstoreClearsScheduleRefundEIP3529)
		}
		return coldCost + params.SstoreResetGasEIP2200 - params.ColdSloadCostEIP2929, nil
	}
	return coldCost + params.WarmStorageReadCostEIP2929, nil
}

// gasCreate charges EIP-3860 init-code metering plus memory expansion.
func gasCreate(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCreateCommon(evm, stack.Back(2), mem, memorySize)
}

func gasCreate2(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := gasCreateCommon(evm, stack.Back(2), mem, memorySize)
	if err != nil {
		return 0, err
	}
	size := stack.Back(2)
	if !size.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	hashGas, overflow := math.SafeMul(toWordSize(size.Uint64()), params.Keccak256WordGas)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return addGas(gas, hashGas)
}

func gasCreateCommon(evm *EVM, sizeOp *uint256.Int, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryExpansionGas(mem, memorySize)
	if err != nil {
		return 0, err
	}
	if !sizeOp.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	size := sizeOp.Uint64()
	if size > evm.chainConfig.MaxInitCodeSize() {
		return 0, ErrMaxInitCodeSizeExceeded
	}
	return addGas(gas, initCodeWordGas(size))
}

// makeGasLog returns the dynamic-gas calculator for LOGn: per-byte data
// cost plus per-topic cost plus memory expansion.
func makeGasLog(topics uint64) gasFunc {
	return func(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
		gas, err := memoryExpansionGas(mem, memorySize)
		if err != nil {
			return 0, err
		}
		sizeOp := stack.Back(1)
		if !sizeOp.IsUint64() {
			return 0, ErrGasUintOverflow
		}
		topicGas, overflow := math.SafeMul(topics, params.LogTopicGas)
		if overflow {
			return 0, ErrGasUintOverflow
		}
		dataGas, overflow := math.SafeMul(sizeOp.Uint64(), params.LogDataGas)
		if overflow {
			return 0, ErrGasUintOverflow
		}
		gas, err = addGas(gas, topicGas)
		if err != nil {
			return 0, err
		}
		return addGas(gas, dataGas)
	}
}

// gasCall implements CALL's composite cost: memory expansion, EIP-2929
// address access, the value-transfer and new-account surcharges, then the
// EIP-150 63/64ths forward computed by finishCallGas.
func gasCall(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryExpansionGas(mem, memorySize)
	if err != nil {
		return 0, err
	}
	addr := common.Address(stack.Back(1).Bytes20())
	value := stack.Back(2)

	access, err := accessListCost(evm, addr)
	if err != nil {
		return 0, err
	}
	if gas, err = addGas(gas, access); err != nil {
		return 0, err
	}
	if !value.IsZero() {
		if gas, err = addGas(gas, params.CallValueTransferGas); err != nil {
			return 0, err
		}
		if evm.StateDB.Empty(addr) {
			if gas, err = addGas(gas, params.CallNewAccountGas); err != nil {
				return 0, err
			}
		}
	}
	return finishCallGas(evm, contract, stack, gas)
}

func gasCallCode(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryExpansionGas(mem, memorySize)
	if err != nil {
		return 0, err
	}
	addr := common.Address(stack.Back(1).Bytes20())
	value := stack.Back(2)
	access, err := accessListCost(evm, addr)
	if err != nil {
		return 0, err
	}
	if gas, err = addGas(gas, access); err != nil {
		return 0, err
	}
	if !value.IsZero() {
		if gas, err = addGas(gas, params.CallValueTransferGas); err != nil {
			return 0, err
		}
	}
	return finishCallGas(evm, contract, stack, gas)
}

func gasDelegateCall(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryExpansionGas(mem, memorySize)
	if err != nil {
		return 0, err
	}
	addr := common.Address(stack.Back(1).Bytes20())
	access, err := accessListCost(evm, addr)
	if err != nil {
		return 0, err
	}
	if gas, err = addGas(gas, access); err != nil {
		return 0, err
	}
	return finishCallGas(evm, contract, stack, gas)
}

func gasStaticCall(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryExpansionGas(mem, memorySize)
	if err != nil {
		return 0, err
	}
	addr := common.Address(stack.Back(1).Bytes20())
	access, err := accessListCost(evm, addr)
	if err != nil {
		return 0, err
	}
	if gas, err = addGas(gas, access); err != nil {
		return 0, err
	}
	return finishCallGas(evm, contract, stack, gas)
}

// finishCallGas computes the EIP-150 forwarded amount from the stack's gas
// operand (the topmost item for every CALL-family opcode) and stashes it
// on evm.callGasTemp for the instruction body to read, returning base plus
// the forwarded amount as the opcode's dynamic cost; the unused part of the
// forward comes back to the caller when the child returns.
func finishCallGas(evm *EVM, contract *Contract, stack *Stack, base uint64) (uint64, error) {
	callCost := stack.Back(0)
	forwarded, err := callGas(evm.chainRules.IsEIP150, contract.Gas, base, callCost)
	if err != nil {
		return 0, err
	}
	evm.callGasTemp = forwarded
	return addGas(base, forwarded)
}

func gasSelfdestruct(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	if !evm.chainRules.IsEIP150 {
		return 0, nil
	}
	var gas uint64
	beneficiary := common.Address(stack.Back(0).Bytes20())
	if evm.chainRules.IsEIP158 {
		if evm.StateDB.Empty(beneficiary) && !evm.StateDB.GetBalance(contract.Address()).IsZero() {
			gas += params.CreateBySelfdestructGas
		}
	} else if !evm.StateDB.Exist(beneficiary) {
		gas += params.CreateBySelfdestructGas
	}
	if evm.chainRules.IsBerlin && !evm.StateDB.AddressInAccessList(beneficiary) {
		evm.StateDB.AddAddressToAccessList(beneficiary)
		gas += params.ColdAccountAccessCostEIP2929
	}
	return gas, nil
}

func addGas(a, b uint64) (uint64, error) {
	sum, overflow := math.SafeAdd(a, b)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return sum, nil
}
