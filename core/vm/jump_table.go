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

import "github.com/osakavm/coreengine/params"

// memorySizeFunc returns the memory size (in bytes, not yet word-rounded)
// an operation needs before it runs, and whether computing it overflowed
// a uint64.
type memorySizeFunc func(stack *Stack) (uint64, bool)

// operation is one opcode's dispatch entry: how to run it, what it costs,
// and the stack/memory shape the interpreter must enforce before calling
// execute (spec.md §4.C "each opcode declares ... stack effect").
type operation struct {
	execute     executionFunc
	constantGas uint64
	dynamicGas  gasFunc
	minStack    int
	maxStack    int
	memorySize  memorySizeFunc
	halts       bool // STOP/RETURN/REVERT/SELFDESTRUCT: frame ends after execute
	jumps       bool // JUMP/JUMPI: execute already advanced pc
	writes      bool // forbidden in a static (read-only) frame
}

// JumpTable maps every opcode byte to its operation, nil for undefined
// opcodes (spec.md's "an opcode not in the defined set is InvalidOpcode").
type JumpTable [256]*operation

func minSwapStack(n int) int { return n }
func minDupStack(n int) int  { return n }
func maxDupStack(n int) int  { return stackMaxDepth - n + 1 }

// newJumpTable returns the single opcode table this engine runs: the
// Osaka/Prague active set (spec.md's Non-goals exclude simulating
// earlier hard forks from the same binary, so there is no fork-indexed
// family of tables the way upstream keeps one per fork).
func newJumpTable() *JumpTable {
	tbl := &JumpTable{}

	tbl[STOP] = &operation{execute: opStop, constantGas: 0, minStack: 0, maxStack: stackMaxDepth, halts: true}
	tbl[ADD] = &operation{execute: opAdd, constantGas: params.GasVeryLow, minStack: 2, maxStack: stackMaxDepth}
	tbl[MUL] = &operation{execute: opMul, constantGas: params.GasFastStep, minStack: 2, maxStack: stackMaxDepth}
	tbl[SUB] = &operation{execute: opSub, constantGas: params.GasVeryLow, minStack: 2, maxStack: stackMaxDepth}
	tbl[DIV] = &operation{execute: opDiv, constantGas: params.GasFastStep, minStack: 2, maxStack: stackMaxDepth}
	tbl[SDIV] = &operation{execute: opSdiv, constantGas: params.GasFastStep, minStack: 2, maxStack: stackMaxDepth}
	tbl[MOD] = &operation{execute: opMod, constantGas: params.GasFastStep, minStack: 2, maxStack: stackMaxDepth}
	tbl[SMOD] = &operation{execute: opSmod, constantGas: params.GasFastStep, minStack: 2, maxStack: stackMaxDepth}
	tbl[ADDMOD] = &operation{execute: opAddmod, constantGas: params.GasMidStep, minStack: 3, maxStack: stackMaxDepth}
	tbl[MULMOD] = &operation{execute: opMulmod, constantGas: params.GasMidStep, minStack: 3, maxStack: stackMaxDepth}
	tbl[EXP] = &operation{execute: opExp, constantGas: params.ExpGas, dynamicGas: gasExp, minStack: 2, maxStack: stackMaxDepth}
	tbl[SIGNEXTEND] = &operation{execute: opSignExtend, constantGas: params.GasFastStep, minStack: 2, maxStack: stackMaxDepth}

	tbl[LT] = &operation{execute: opLt, constantGas: params.GasVeryLow, minStack: 2, maxStack: stackMaxDepth}
	tbl[GT] = &operation{execute: opGt, constantGas: params.GasVeryLow, minStack: 2, maxStack: stackMaxDepth}
	tbl[SLT] = &operation{execute: opSlt, constantGas: params.GasVeryLow, minStack: 2, maxStack: stackMaxDepth}
	tbl[SGT] = &operation{execute: opSgt, constantGas: params.GasVeryLow, minStack: 2, maxStack: stackMaxDepth}
	tbl[EQ] = &operation{execute: opEq, constantGas: params.GasVeryLow, minStack: 2, maxStack: stackMaxDepth}
	tbl[ISZERO] = &operation{execute: opIszero, constantGas: params.GasVeryLow, minStack: 1, maxStack: stackMaxDepth}
	tbl[AND] = &operation{execute: opAnd, constantGas: params.GasVeryLow, minStack: 2, maxStack: stackMaxDepth}
	tbl[OR] = &operation{execute: opOr, constantGas: params.GasVeryLow, minStack: 2, maxStack: stackMaxDepth}
	tbl[XOR] = &operation{execute: opXor, constantGas: params.GasVeryLow, minStack: 2, maxStack: stackMaxDepth}
	tbl[NOT] = &operation{execute: opNot, constantGas: params.GasVeryLow, minStack: 1, maxStack: stackMaxDepth}
	tbl[BYTE] = &operation{execute: opByte, constantGas: params.GasVeryLow, minStack: 2, maxStack: stackMaxDepth}
	tbl[SHL] = &operation{execute: opSHL, constantGas: params.GasVeryLow, minStack: 2, maxStack: stackMaxDepth}
	tbl[SHR] = &operation{execute: opSHR, constantGas: params.GasVeryLow, minStack: 2, maxStack: stackMaxDepth}
	tbl[SAR] = &operation{execute: opSAR, constantGas: params.GasVeryLow, minStack: 2, maxStack: stackMaxDepth}

	tbl[KECCAK256] = &operation{execute: opKeccak256, constantGas: params.Keccak256Gas, dynamicGas: gasKeccak256, minStack: 2, maxStack: stackMaxDepth, memorySize: memoryKeccak256}

	tbl[ADDRESS] = &operation{execute: opAddress, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[BALANCE] = &operation{execute: opBalance, constantGas: 0, dynamicGas: gasBalance, minStack: 1, maxStack: stackMaxDepth}
	tbl[ORIGIN] = &operation{execute: opOrigin, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[CALLER] = &operation{execute: opCaller, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[CALLVALUE] = &operation{execute: opCallValue, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[CALLDATALOAD] = &operation{execute: opCallDataLoad, constantGas: params.GasVeryLow, minStack: 1, maxStack: stackMaxDepth}
	tbl[CALLDATASIZE] = &operation{execute: opCallDataSize, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[CALLDATACOPY] = &operation{execute: opCallDataCopy, constantGas: params.GasVeryLow, dynamicGas: gasCallDataCopy, minStack: 3, maxStack: stackMaxDepth, memorySize: memoryCallDataCopy}
	tbl[CODESIZE] = &operation{execute: opCodeSize, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[CODECOPY] = &operation{execute: opCodeCopy, constantGas: params.GasVeryLow, dynamicGas: gasCodeCopy, minStack: 3, maxStack: stackMaxDepth, memorySize: memoryCodeCopy}
	tbl[GASPRICE] = &operation{execute: opGasprice, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[EXTCODESIZE] = &operation{execute: opExtCodeSize, constantGas: 0, dynamicGas: gasExtCodeSize, minStack: 1, maxStack: stackMaxDepth}
	tbl[EXTCODECOPY] = &operation{execute: opExtCodeCopy, constantGas: 0, dynamicGas: gasExtCodeCopy, minStack: 4, maxStack: stackMaxDepth, memorySize: memoryExtCodeCopy}
	tbl[RETURNDATASIZE] = &operation{execute: opReturnDataSize, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[RETURNDATACOPY] = &operation{execute: opReturnDataCopy, constantGas: params.GasVeryLow, dynamicGas: gasReturnDataCopy, minStack: 3, maxStack: stackMaxDepth, memorySize: memoryReturnDataCopy}
	tbl[EXTCODEHASH] = &operation{execute: opExtCodeHash, constantGas: 0, dynamicGas: gasExtCodeHash, minStack: 1, maxStack: stackMaxDepth}

	tbl[BLOCKHASH] = &operation{execute: opBlockhash, constantGas: params.GasExtStep, minStack: 1, maxStack: stackMaxDepth}
	tbl[COINBASE] = &operation{execute: opCoinbase, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[TIMESTAMP] = &operation{execute: opTimestamp, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[NUMBER] = &operation{execute: opNumber, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[PREVRANDAO] = &operation{execute: opRandom, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[GASLIMIT] = &operation{execute: opGasLimit, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[CHAINID] = &operation{execute: opChainID, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[SELFBALANCE] = &operation{execute: opSelfBalance, constantGas: params.GasFastStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[BASEFEE] = &operation{execute: opBaseFee, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[BLOBHASH] = &operation{execute: opBlobHash, constantGas: params.GasBlobHash, minStack: 1, maxStack: stackMaxDepth}
	tbl[BLOBBASEFEE] = &operation{execute: opBlobBaseFee, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}

	tbl[POP] = &operation{execute: opPop, constantGas: params.GasQuickStep, minStack: 1, maxStack: stackMaxDepth}
	tbl[MLOAD] = &operation{execute: opMload, constantGas: params.GasVeryLow, dynamicGas: gasMemory, minStack: 1, maxStack: stackMaxDepth, memorySize: memoryMload}
	tbl[MSTORE] = &operation{execute: opMstore, constantGas: params.GasVeryLow, dynamicGas: gasMemory, minStack: 2, maxStack: stackMaxDepth, memorySize: memoryMstore}
	tbl[MSTORE8] = &operation{execute: opMstore8, constantGas: params.GasVeryLow, dynamicGas: gasMemory, minStack: 2, maxStack: stackMaxDepth, memorySize: memoryMstore8}
	tbl[SLOAD] = &operation{execute: opSload, constantGas: 0, dynamicGas: gasSload, minStack: 1, maxStack: stackMaxDepth}
	tbl[SSTORE] = &operation{execute: opSstore, constantGas: 0, dynamicGas: gasSstore, minStack: 2, maxStack: stackMaxDepth, writes: true}
	tbl[JUMP] = &operation{execute: opJump, constantGas: params.GasMidStep, minStack: 1, maxStack: stackMaxDepth, jumps: true}
	tbl[JUMPI] = &operation{execute: opJumpi, constantGas: params.GasSlowStep, minStack: 2, maxStack: stackMaxDepth, jumps: true}
	tbl[PC] = &operation{execute: opPc, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[MSIZE] = &operation{execute: opMsize, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[GAS] = &operation{execute: opGas, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}
	tbl[JUMPDEST] = &operation{execute: opJumpdest, constantGas: 1, minStack: 0, maxStack: stackMaxDepth}
	tbl[TLOAD] = &operation{execute: opTload, constantGas: params.WarmStorageReadCostEIP2929, minStack: 1, maxStack: stackMaxDepth}
	tbl[TSTORE] = &operation{execute: opTstore, constantGas: params.WarmStorageReadCostEIP2929, minStack: 2, maxStack: stackMaxDepth, writes: true}
	tbl[MCOPY] = &operation{execute: opMcopy, constantGas: params.GasVeryLow, dynamicGas: gasMcopy, minStack: 3, maxStack: stackMaxDepth, memorySize: memoryMcopy}
	tbl[PUSH0] = &operation{execute: opPush0, constantGas: params.GasQuickStep, minStack: 0, maxStack: stackMaxDepth}

	for i := 0; i < 32; i++ {
		tbl[int(PUSH1)+i] = &operation{execute: makePush(uint(i+1)), constantGas: params.GasVeryLow, minStack: 0, maxStack: stackMaxDepth}
	}
	for i := 1; i <= 16; i++ {
		tbl[int(DUP1)+i-1] = &operation{execute: makeDup(i), constantGas: params.GasVeryLow, minStack: minDupStack(i), maxStack: maxDupStack(i)}
		tbl[int(SWAP1)+i-1] = &operation{execute: makeSwap(i), constantGas: params.GasVeryLow, minStack: minSwapStack(i + 1), maxStack: stackMaxDepth}
	}
	for i := 0; i < 5; i++ {
		tbl[int(LOG0)+i] = &operation{execute: makeLog(i), constantGas: params.LogGas, dynamicGas: makeGasLog(uint64(i)), minStack: i + 2, maxStack: stackMaxDepth, memorySize: memoryLog, writes: true}
	}

	tbl[CREATE] = &operation{execute: opCreate, constantGas: params.CreateGas, dynamicGas: gasCreate, minStack: 3, maxStack: stackMaxDepth, memorySize: memoryCreate, writes: true}
	tbl[CALL] = &operation{execute: opCall, constantGas: 0, dynamicGas: gasCall, minStack: 7, maxStack: stackMaxDepth, memorySize: memoryCall}
	tbl[CALLCODE] = &operation{execute: opCallCode, constantGas: 0, dynamicGas: gasCallCode, minStack: 7, maxStack: stackMaxDepth, memorySize: memoryCall}
	tbl[RETURN] = &operation{execute: opReturn, constantGas: 0, dynamicGas: gasMemory, minStack: 2, maxStack: stackMaxDepth, memorySize: memoryReturn, halts: true}
	tbl[DELEGATECALL] = &operation{execute: opDelegateCall, constantGas: 0, dynamicGas: gasDelegateCall, minStack: 6, maxStack: stackMaxDepth, memorySize: memoryDelegateCall}
	tbl[CREATE2] = &operation{execute: opCreate2, constantGas: params.CreateGas, dynamicGas: gasCreate2, minStack: 4, maxStack: stackMaxDepth, memorySize: memoryCreate2, writes: true}
	tbl[STATICCALL] = &operation{execute: opStaticCall, constantGas: 0, dynamicGas: gasStaticCall, minStack: 6, maxStack: stackMaxDepth, memorySize: memoryStaticCall}
	tbl[REVERT] = &operation{execute: opRevert, constantGas: 0, dynamicGas: gasMemory, minStack: 2, maxStack: stackMaxDepth, memorySize: memoryRevert, halts: true}
	tbl[INVALID] = &operation{execute: opInvalid, constantGas: 0, minStack: 0, maxStack: stackMaxDepth}
	tbl[SELFDESTRUCT] = &operation{execute: opSelfdestruct, constantGas: params.SelfdestructGasEIP150, dynamicGas: gasSelfdestruct, minStack: 1, maxStack: stackMaxDepth, halts: true, writes: true}

	return tbl
}
