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
	"github.com/holiman/uint256"

	"github.com/osakavm/coreengine/common"
	"github.com/osakavm/coreengine/crypto"
	"github.com/osakavm/coreengine/log"
	"github.com/osakavm/coreengine/params"
)

func opStop(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, nil
}

func opReturn(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop(), scope.Stack.pop()
	return scope.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64())), nil
}

func opRevert(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop(), scope.Stack.pop()
	return scope.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64())), ErrExecutionReverted
}

func opInvalid(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, ErrInvalidOpcode
}

// opSelfdestruct implements SELFDESTRUCT (spec.md §4.E.7): the contract's
// balance moves to beneficiary unconditionally, but the account itself is
// only actually removed (EIP-6780) if it was created earlier in this same
// transaction.
func opSelfdestruct(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	beneficiarySlot := scope.Stack.pop()
	beneficiary := common.Address(beneficiarySlot.Bytes20())
	self := scope.Contract.Address()

	balance := interp.evm.StateDB.GetBalance(self)
	interp.evm.StateDB.AddBalance(beneficiary, balance)
	interp.evm.StateDB.SubBalance(self, balance)

	if !interp.evm.chainRules.IsCancun || interp.evm.StateDB.WasCreatedInTx(self) {
		interp.evm.StateDB.SelfDestruct(self)
	}
	return nil, nil
}

// doCreate spawns a CREATE/CREATE2 child message and merges its result back
// onto the parent frame (spec.md §4.E.6): pushes the new contract's address
// on success, zero on failure, and only propagates the child's return data
// into RETURNDATA when it reverted, not when it merely ran out of gas or
// succeeded (where the returned bytes are deployed code, not a message to
// the parent).
func doCreate(interp *Interpreter, scope *ScopeContext, value *uint256.Int, input []byte, gas uint64, contractAddr common.Address) {
	caller := scope.Contract.Address()

	msg := &Message{
		Caller:              caller,
		Target:              contractAddr,
		CurrentTarget:       contractAddr,
		CodeAddress:         contractAddr,
		IsCreate:            true,
		Gas:                 gas,
		Value:               value,
		Code:                input,
		Depth:               scope.Depth + 1,
		ShouldTransferValue: true,
		IsStatic:            scope.Contract.IsStatic,
	}
	out := interp.evm.ProcessMessageCall(msg)
	scope.Contract.Gas += out.GasLeft

	if out.Err == ErrExecutionReverted {
		interp.returnData = out.ReturnData
	} else {
		interp.returnData = nil
	}

	result := new(uint256.Int)
	if out.Err == nil {
		result.SetBytes(contractAddr.Bytes())
		scope.Contract.Logs = append(scope.Contract.Logs, out.Logs...)
	}
	scope.Stack.push(result)
}

func opCreate(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	value, offset, size := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	input := scope.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))

	gas := scope.Contract.Gas
	gas -= gas / 64
	if err := scope.Contract.UseGas(gas); err != nil {
		return nil, err
	}

	caller := scope.Contract.Address()
	nonce := interp.evm.StateDB.GetNonce(caller)
	if nonce+1 == 0 {
		// A CREATE precondition failure local to this opcode: push 0 and
		// return the reserved gas, rather than halting the calling frame.
		// (A collision, by contrast, burns the reserved gas.)
		log.Warn("CREATE nonce overflow", "account", caller)
		scope.Contract.Gas += gas
		scope.Stack.push(new(uint256.Int))
		return nil, nil
	}
	interp.evm.StateDB.SetNonce(caller, nonce+1)
	contractAddr := crypto.CreateAddress(caller, nonce)

	doCreate(interp, scope, &value, input, gas, contractAddr)
	return nil, nil
}

func opCreate2(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	value, offset, size, salt := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	input := scope.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))

	gas := scope.Contract.Gas
	gas -= gas / 64
	if err := scope.Contract.UseGas(gas); err != nil {
		return nil, err
	}

	caller := scope.Contract.Address()
	nonce := interp.evm.StateDB.GetNonce(caller)
	if nonce+1 == 0 {
		log.Warn("CREATE2 nonce overflow", "account", caller)
		scope.Contract.Gas += gas
		scope.Stack.push(new(uint256.Int))
		return nil, nil
	}
	interp.evm.StateDB.SetNonce(caller, nonce+1)

	initCodeHash := crypto.Keccak256(input)
	contractAddr := crypto.CreateAddress2(caller, salt.Bytes32(), initCodeHash)

	doCreate(interp, scope, &value, input, gas, contractAddr)
	return nil, nil
}

// doCall spawns a CALL-family child message and merges its result back onto
// the parent frame (spec.md §4.E.4/4.E.5): unused gas returns to the
// caller, the success flag is pushed, and the child's output is copied into
// the requested return-memory window.
func doCall(interp *Interpreter, scope *ScopeContext, msg *Message, retOffset, retSize uint64) {
	out := interp.evm.ProcessMessageCall(msg)
	scope.Contract.Gas += out.GasLeft

	if out.Err == nil || out.Err == ErrExecutionReverted {
		scope.Memory.Set(retOffset, retSize, out.ReturnData)
		interp.returnData = out.ReturnData
	} else {
		interp.returnData = nil
	}

	result := new(uint256.Int)
	if out.Err == nil {
		result.SetOne()
		scope.Contract.Logs = append(scope.Contract.Logs, out.Logs...)
	}
	scope.Stack.push(result)
}

func opCall(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	_ = stack.pop() // the gas operand: already folded into evm.callGasTemp by gasCall
	addr, value, inOffset, inSize, retOffset, retSize := stack.pop(), stack.pop(), stack.pop(), stack.pop(), stack.pop(), stack.pop()

	if scope.Contract.IsStatic && !value.IsZero() {
		return nil, ErrWriteProtection
	}

	gas := interp.evm.callGasTemp
	interp.evm.callGasTemp = 0
	if !value.IsZero() {
		gas += params.CallStipend
	}

	toAddr := common.Address(addr.Bytes20())
	args := scope.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))

	msg := &Message{
		Caller:              scope.Contract.Address(),
		Target:              toAddr,
		CurrentTarget:       toAddr,
		CodeAddress:         toAddr,
		Gas:                 gas,
		Value:               &value,
		Input:               args,
		Code:                interp.evm.StateDB.GetCode(toAddr),
		Depth:               scope.Depth + 1,
		ShouldTransferValue: true,
		IsStatic:            scope.Contract.IsStatic,
	}
	doCall(interp, scope, msg, retOffset.Uint64(), retSize.Uint64())
	return nil, nil
}

func opCallCode(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	_ = stack.pop()
	addr, value, inOffset, inSize, retOffset, retSize := stack.pop(), stack.pop(), stack.pop(), stack.pop(), stack.pop(), stack.pop()

	gas := interp.evm.callGasTemp
	interp.evm.callGasTemp = 0
	if !value.IsZero() {
		gas += params.CallStipend
	}

	toAddr := common.Address(addr.Bytes20())
	args := scope.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))
	self := scope.Contract.Address()

	msg := &Message{
		Caller:              self,
		Target:              self,
		CurrentTarget:       self,
		CodeAddress:         toAddr,
		Gas:                 gas,
		Value:               &value,
		Input:               args,
		Code:                interp.evm.StateDB.GetCode(toAddr),
		Depth:               scope.Depth + 1,
		ShouldTransferValue: true,
		IsStatic:            scope.Contract.IsStatic,
		delegateOrCallcode:  true,
	}
	doCall(interp, scope, msg, retOffset.Uint64(), retSize.Uint64())
	return nil, nil
}

func opDelegateCall(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	_ = stack.pop()
	addr, inOffset, inSize, retOffset, retSize := stack.pop(), stack.pop(), stack.pop(), stack.pop(), stack.pop()

	gas := interp.evm.callGasTemp
	interp.evm.callGasTemp = 0

	toAddr := common.Address(addr.Bytes20())
	args := scope.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))
	self := scope.Contract.Address()

	msg := &Message{
		Caller:              scope.Contract.Caller(),
		Target:              self,
		CurrentTarget:       self,
		CodeAddress:         toAddr,
		Gas:                 gas,
		Value:               scope.Contract.Value(),
		Input:               args,
		Code:                interp.evm.StateDB.GetCode(toAddr),
		Depth:               scope.Depth + 1,
		ShouldTransferValue: false,
		IsStatic:            scope.Contract.IsStatic,
		delegateOrCallcode:  true,
	}
	doCall(interp, scope, msg, retOffset.Uint64(), retSize.Uint64())
	return nil, nil
}

func opStaticCall(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	_ = stack.pop()
	addr, inOffset, inSize, retOffset, retSize := stack.pop(), stack.pop(), stack.pop(), stack.pop(), stack.pop()

	gas := interp.evm.callGasTemp
	interp.evm.callGasTemp = 0

	toAddr := common.Address(addr.Bytes20())
	args := scope.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))

	msg := &Message{
		Caller:              scope.Contract.Address(),
		Target:              toAddr,
		CurrentTarget:       toAddr,
		CodeAddress:         toAddr,
		Gas:                 gas,
		Value:               new(uint256.Int),
		Input:               args,
		Code:                interp.evm.StateDB.GetCode(toAddr),
		Depth:               scope.Depth + 1,
		ShouldTransferValue: false,
		IsStatic:            true,
	}
	doCall(interp, scope, msg, retOffset.Uint64(), retSize.Uint64())
	return nil, nil
}
