// Copyright 2024 The go-ethereum Authors
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

// Package tracing defines hooks for 'live tracing' of EVM execution. Here we
// define the low-level [Hooks] object that carries hooks invoked by the
// interpreter and call/create engine at various points in message
// processing.
//
// Only the hook interface is in scope (spec.md's trace sink is an external
// interface); no concrete tracer is implemented here.
package tracing

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/osakavm/coreengine/common"
	"github.com/osakavm/coreengine/params"
)

// OpContext provides the context at which the opcode is being
// executed in, including the memory, stack and various contract-level information.
type OpContext interface {
	MemoryData() []byte
	StackData() []uint256.Int
	Caller() common.Address
	Address() common.Address
	CallValue() *uint256.Int
	CallInput() []byte
	ContractCode() []byte
}

// StateDB gives tracers read access to account and storage state, without
// exposing the mutation methods only the call/create engine should use.
type StateDB interface {
	GetBalance(common.Address) *uint256.Int
	GetNonce(common.Address) uint64
	GetCode(common.Address) []byte
	GetCodeHash(common.Address) common.Hash
	GetState(common.Address, common.Hash) common.Hash
	GetTransientState(common.Address, common.Hash) common.Hash
	Exist(common.Address) bool
	GetRefund() uint64
	GetAccessList() (addresses map[common.Address]int, slots []map[common.Hash]struct{})
}

// BlockContext carries the block-level values a tracer may want to report
// alongside a message's execution, mirroring the BlockEnvironment fields
// the interpreter itself reads.
type BlockContext struct {
	Coinbase    common.Address
	BlockNumber *big.Int
	Time        uint64
	Random      *common.Hash
	BaseFee     *big.Int
	StateDB     StateDB
}

type (
	// TxStartHook is called before the execution of the outermost message
	// call of a transaction starts.
	TxStartHook = func(ctx *BlockContext, gasLimit uint64, from common.Address)

	// TxEndHook is called after the outermost message call ends.
	TxEndHook = func(gasUsed uint64, err error)

	// EnterHook is invoked when the processing of a message (call or
	// create, at any depth) starts.
	EnterHook = func(depth int, typ byte, from common.Address, to common.Address, input []byte, gas uint64, value *big.Int)

	// ExitHook is invoked when the processing of a message ends. reverted is
	// true when the message halted exceptionally or executed REVERT.
	ExitHook = func(depth int, output []byte, gasUsed uint64, err error, reverted bool)

	// OpcodeHook is invoked just prior to the execution of an opcode.
	OpcodeHook = func(pc uint64, op byte, gas, cost uint64, scope OpContext, rData []byte, depth int, err error)

	// FaultHook is invoked when an exceptional halt occurs during the
	// execution of an opcode.
	FaultHook = func(pc uint64, op byte, gas, cost uint64, scope OpContext, depth int, err error)

	// GasChangeHook is invoked whenever gas_left changes.
	GasChangeHook = func(old, new uint64, reason GasChangeReason)

	// BlockchainInitHook is called once, when a chain configuration is
	// bound to an interpreter.
	BlockchainInitHook = func(chainConfig *params.ChainConfig)

	// BalanceChangeHook is called when the balance of an account changes.
	BalanceChangeHook = func(addr common.Address, prev, new *big.Int, reason BalanceChangeReason)

	// NonceChangeHook is called when the nonce of an account changes.
	NonceChangeHook = func(addr common.Address, prev, new uint64, reason NonceChangeReason)

	// CodeChangeHook is called when the code of an account changes, i.e.
	// on a successful CREATE/CREATE2.
	CodeChangeHook = func(addr common.Address, prevCodeHash common.Hash, prevCode []byte, codeHash common.Hash, code []byte)

	// StorageChangeHook is called when a storage slot is written by SSTORE.
	StorageChangeHook = func(addr common.Address, slot common.Hash, prev, new common.Hash)

	// LogHook is called when a log is emitted by LOG0-LOG4.
	LogHook = func(addr common.Address, topics []common.Hash, data []byte)
)

// Hooks is the set of hooks a live tracer may implement. Every field is
// optional; the interpreter and call/create engine check for nil before
// invoking.
type Hooks struct {
	// VM events
	OnTxStart   TxStartHook
	OnTxEnd     TxEndHook
	OnEnter     EnterHook
	OnExit      ExitHook
	OnOpcode    OpcodeHook
	OnFault     FaultHook
	OnGasChange GasChangeHook
	// Chain events
	OnBlockchainInit BlockchainInitHook
	// State events
	OnBalanceChange BalanceChangeHook
	OnNonceChange   NonceChangeHook
	OnCodeChange    CodeChangeHook
	OnStorageChange StorageChangeHook
	OnLog           LogHook
}

// BalanceChangeReason is used to indicate the reason for a balance change,
// useful for tracing and reporting.
type BalanceChangeReason byte

const (
	BalanceChangeUnspecified BalanceChangeReason = iota
	// BalanceChangeTransfer is ether transferred via a call. It is a
	// decrease for the sender and an increase for the recipient.
	BalanceChangeTransfer
	// BalanceChangeTouchAccount is a transfer of zero value, used only to
	// touch-create an account.
	BalanceChangeTouchAccount
	// BalanceIncreaseSelfdestruct is added to the recipient named by a
	// self-destructing account.
	BalanceIncreaseSelfdestruct
	// BalanceDecreaseSelfdestruct is deducted from a contract due to
	// self-destruct.
	BalanceDecreaseSelfdestruct
	// BalanceChangeRevert is emitted when a balance is reverted back to a
	// previous value due to call failure.
	BalanceChangeRevert
)

// GasChangeReason is used to indicate the reason for a gas change, useful
// for tracing and reporting.
//
// Those that start with GasChangeCall are emitted on a per-message basis;
// those that start with GasChangeTx are emitted at most once per outermost
// call.
type GasChangeReason byte

const (
	GasChangeUnspecified GasChangeReason = iota
	// GasChangeCallInitialBalance is the gas_limit of a message when it
	// begins executing.
	GasChangeCallInitialBalance
	// GasChangeCallLeftOverReturned is gas drained back to zero at the end
	// of a message's execution, as it is returned to the caller.
	GasChangeCallLeftOverReturned
	// GasChangeCallLeftOverRefunded is the unused gas given back to a
	// caller after a child message returns.
	GasChangeCallLeftOverRefunded
	// GasChangeCallContractCreation is gas burned for a CREATE.
	GasChangeCallContractCreation
	// GasChangeCallContractCreation2 is gas burned for a CREATE2.
	GasChangeCallContractCreation2
	// GasChangeCallCodeStorage is gas charged to persist deployed code.
	GasChangeCallCodeStorage
	// GasChangeCallOpCode is gas charged for a single opcode's execution;
	// the opcode itself is visible via OnOpcode.
	GasChangeCallOpCode
	// GasChangeCallPrecompiledContract is gas charged for a precompile
	// invocation.
	GasChangeCallPrecompiledContract
	// GasChangeCallStorageColdAccess is the extra gas charged for a cold
	// access-list touch under EIP-2929.
	GasChangeCallStorageColdAccess
	// GasChangeCallFailedExecution is the burning of remaining gas when
	// execution failed without a revert.
	GasChangeCallFailedExecution
	// GasChangeIgnored marks a change the caller tracks itself via a
	// direct emit, so the generic accounting should skip double-reporting it.
	GasChangeIgnored GasChangeReason = 0xFF
)

// NonceChangeReason is used to indicate the reason for a nonce change.
type NonceChangeReason byte

const (
	NonceChangeUnspecified NonceChangeReason = iota
	// NonceChangeEoACall is the nonce change of the sender of an outermost call.
	NonceChangeEoACall
	// NonceChangeContractCreator is the nonce change of an account about
	// to create a contract (CREATE/CREATE2, incremented before the child
	// message runs).
	NonceChangeContractCreator
	// NonceChangeNewContract is the nonce a newly created contract starts
	// at (1, per EIP-161).
	NonceChangeNewContract
	// NonceChangeAuthorization is the nonce change due to an EIP-7702
	// authorization being applied.
	NonceChangeAuthorization
	// NonceChangeRevert is emitted when a nonce is reverted back to a
	// previous value due to call failure.
	NonceChangeRevert
)
