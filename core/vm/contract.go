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

// BlockContext is the block-level environment a message executes in,
// read-only to the core (spec.md §3 BlockEnvironment). It is shared
// unmodified by every frame of a transaction.
type BlockContext struct {
	Coinbase    common.Address
	BlockNumber uint64
	Time        uint64
	Difficulty  *uint256.Int // pre-merge PREVRANDAO source
	Random      *common.Hash // post-merge PREVRANDAO source
	BaseFee     *uint256.Int
	GasLimit    uint64
	ExcessBlobGas uint64
	ParentBeaconBlockRoot common.Hash

	// GetHash returns the hash of the nth ancestor block, or the zero hash
	// if n is outside the retained window (spec.md's "recent block-hash
	// window").
	GetHash func(n uint64) common.Hash
}

// TxContext is the transaction-level environment a message executes in
// (spec.md §3 TransactionEnvironment), read-only to the core and shared
// by every frame of one transaction.
type TxContext struct {
	Origin     common.Address
	GasPrice   *uint256.Int
	BlobHashes []common.Hash
	ChainID    uint64
}

// Message is the per-frame input, immutable after construction (spec.md
// §3). The zero-address Target combined with IsCreate=true marks a
// create message rather than overloading Target with a sentinel.
type Message struct {
	Caller        common.Address
	Target        common.Address
	IsCreate      bool
	CurrentTarget common.Address // == Target, except DELEGATECALL/CALLCODE
	CodeAddress   common.Address // account whose code actually runs

	Gas                uint64
	Value              *uint256.Int
	Input              []byte
	Code               []byte
	Depth              int
	ShouldTransferValue bool
	IsStatic           bool
	DisablePrecompiles bool

	delegateOrCallcode bool
}

// Contract is the running frame's view onto Message: the bits the
// interpreter mutates (remaining gas) layered over the bits the message
// fixed at spawn time.
type Contract struct {
	CallerAddress common.Address
	caller        common.Address
	self          common.Address
	codeAddr      common.Address

	Code     []byte
	CodeHash common.Hash
	Input    []byte

	Gas   uint64
	value *uint256.Int

	IsStatic bool

	delegateOrCallcode bool

	// Logs accumulates this frame's own LOG0-4 events plus, as each child
	// CALL/CREATE completes successfully, that child's already-merged
	// logs appended in the order they were produced — giving the
	// depth-first ordering a completed message's log list must have.
	// A child that fails contributes nothing here, so a reverted frame's
	// events never survive into its parent.
	Logs []Log
}

// NewContract returns a new Contract ready to run msg's code.
func NewContract(msg *Message, codeHash common.Hash) *Contract {
	value := msg.Value
	if value == nil {
		value = new(uint256.Int)
	}
	return &Contract{
		CallerAddress:      msg.Caller,
		caller:             msg.Caller,
		self:               msg.CurrentTarget,
		codeAddr:           msg.CodeAddress,
		Code:               msg.Code,
		CodeHash:           codeHash,
		Input:              msg.Input,
		Gas:                msg.Gas,
		value:              value,
		IsStatic:           msg.IsStatic,
		delegateOrCallcode: msg.delegateOrCallcode,
	}
}

// Address returns the address the contract is executing as (current_target).
func (c *Contract) Address() common.Address { return c.self }

// Caller returns the address that spawned this frame.
func (c *Contract) Caller() common.Address { return c.caller }

// CodeAddr returns the address whose code this contract is running,
// which differs from Address for DELEGATECALL/CALLCODE.
func (c *Contract) CodeAddr() common.Address { return c.codeAddr }

// Value returns the call value, as seen from inside this frame.
func (c *Contract) Value() *uint256.Int { return c.value }

// UseGas deducts amount from the contract's remaining gas, reporting
// ErrOutOfGas instead of underflowing. On failure Gas is left unchanged;
// the frame's gas is zeroed later, when the halt is handled (BurnGas is the
// variant that zeroes it on the spot).
func (c *Contract) UseGas(amount uint64) error {
	if c.Gas < amount {
		return ErrOutOfGas
	}
	c.Gas -= amount
	return nil
}

// RefundGas returns amount to the contract's remaining gas, used when a
// child message returns unused gas to its parent.
func (c *Contract) RefundGas(amount uint64) {
	c.Gas += amount
}

// GetOp returns the opcode at pc, or STOP past the end of code.
func (c *Contract) GetOp(pc uint64) OpCode {
	if pc < uint64(len(c.Code)) {
		return OpCode(c.Code[pc])
	}
	return STOP
}
