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
)

// ScopeContext groups the frame-local state an opcode body operates on,
// passed to every executionFunc (spec.md §4.B/§4.C's "operand stack",
// "memory" and "running contract" inputs).
type ScopeContext struct {
	Memory    *Memory
	Stack     *Stack
	Contract  *Contract
	Jumpdests []bool
	Depth     int
}

// executionFunc runs one opcode's semantics, given the running pc and
// frame scope. It returns the bytes to be treated as RETURN/REVERT output
// when the opcode is one that halts the frame; nil otherwise.
type executionFunc func(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error)

// Interpreter implements spec.md §4.D's fetch-decode-execute loop for one
// EVM. A new Stack/Memory is allocated per frame; returnData is the one
// field that outlives a Run call, holding the output of the most recent
// halted frame or child call for RETURNDATASIZE/RETURNDATACOPY.
type Interpreter struct {
	evm       *EVM
	table     *JumpTable
	returnData []byte
}

// NewInterpreter returns an interpreter bound to evm, using the single
// active (Osaka/Prague) opcode table (spec.md's Non-goals exclude
// simulating earlier forks' opcode sets from the same binary).
func NewInterpreter(evm *EVM) *Interpreter {
	return &Interpreter{evm: evm, table: newJumpTable()}
}

// Run executes contract's code against msg's input, implementing
// spec.md §4.D execute_code's inner loop. msg supplies the frame's depth
// and static flag; its Input was already copied onto contract by the
// caller.
func (in *Interpreter) Run(contract *Contract, msg *Message) ([]byte, error) {
	stack := newstack()
	defer returnStack(stack)
	mem := NewMemory()
	scope := &ScopeContext{Memory: mem, Stack: stack, Contract: contract, Jumpdests: analyzeJumpDests(contract.Code), Depth: msg.Depth}

	var (
		pc    = uint64(0)
		cost  uint64
		op    OpCode
		err   error
		res   []byte
		depth = msg.Depth
	)

	for {
		op = contract.GetOp(pc)
		operation := in.table[op]
		if operation == nil {
			return nil, ErrInvalidOpcode
		}

		if sErr := stack.require(operation.minStack); sErr != nil {
			return nil, sErr
		}
		if stack.len() > operation.maxStack {
			return nil, &errStackOverflow{stackLen: stack.len(), limit: operation.maxStack}
		}
		if operation.writes && msg.IsStatic {
			return nil, ErrWriteProtection
		}

		var memorySize uint64
		if operation.memorySize != nil {
			memSize, overflow := operation.memorySize(stack)
			if overflow {
				return nil, ErrGasUintOverflow
			}
			memorySize = toWordSize(memSize) * 32
		}

		cost = operation.constantGas
		if err = contract.UseGas(cost); err != nil {
			return nil, err
		}
		if operation.dynamicGas != nil {
			var dynCost uint64
			dynCost, err = operation.dynamicGas(in.evm, contract, stack, mem, memorySize)
			if err != nil {
				return nil, err
			}
			if err = contract.UseGas(dynCost); err != nil {
				return nil, err
			}
			cost += dynCost
		}
		if memorySize > uint64(mem.Len()) {
			mem.Resize(memorySize)
		}
		dimension := dimensionOf(op)
		in.evm.GasUsage.SafeIncrement(dimension, cost)

		if in.evm.Config.Constraints != nil && in.evm.Config.Constraints.Exceeded(dimension, in.evm.GasUsage.Get(dimension)) {
			return nil, ErrResourceConstraintExceeded
		}

		if in.evm.Config.Tracer != nil && in.evm.Config.Tracer.OnOpcode != nil {
			in.evm.Config.Tracer.OnOpcode(pc, byte(op), contract.Gas+cost, cost, opContextOf(scope), in.returnData, depth, nil)
		}

		res, err = operation.execute(&pc, in, scope)
		if err != nil {
			if in.evm.Config.Tracer != nil && in.evm.Config.Tracer.OnFault != nil {
				in.evm.Config.Tracer.OnFault(pc, byte(op), contract.Gas, cost, opContextOf(scope), depth, err)
			}
			return nil, err
		}
		if stack.len() > stackMaxDepth {
			return nil, &errStackOverflow{stackLen: stack.len(), limit: stackMaxDepth}
		}
		if operation.halts {
			in.returnData = res
			return res, nil
		}
		if !operation.jumps {
			pc++
		}
	}
}

// analyzeJumpDests precomputes the set of valid JUMPDEST positions
// (spec.md's "a position is a valid jump destination iff it holds
// JUMPDEST and is not inside PUSH data"), as a bitmap indexed by pc.
func analyzeJumpDests(code []byte) []bool {
	dests := make([]bool, len(code))
	for pc := 0; pc < len(code); {
		op := OpCode(code[pc])
		if op == JUMPDEST {
			dests[pc] = true
		}
		if op.IsPush() {
			pc += int(op - PUSH0)
		}
		pc++
	}
	return dests
}

type opContextAdapter struct {
	scope *ScopeContext
}

func (o opContextAdapter) MemoryData() []byte        { return o.scope.Memory.Data() }
func (o opContextAdapter) StackData() []uint256.Int  { return o.scope.Stack.Data() }
func (o opContextAdapter) Caller() common.Address    { return o.scope.Contract.Caller() }
func (o opContextAdapter) Address() common.Address   { return o.scope.Contract.Address() }
func (o opContextAdapter) CallValue() *uint256.Int   { return o.scope.Contract.Value() }
func (o opContextAdapter) CallInput() []byte         { return o.scope.Contract.Input }
func (o opContextAdapter) ContractCode() []byte      { return o.scope.Contract.Code }

func opContextOf(scope *ScopeContext) opContextAdapter { return opContextAdapter{scope} }
