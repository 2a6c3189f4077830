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

// Package state defines the world-state capability contract the
// interpreter and call/create engine consume (spec.md §6's "World-state"
// and "Transient storage" outbound interfaces), plus a small in-memory
// reference implementation with the snapshot/commit/rollback discipline
// spec.md §5 requires. A production embedder is expected to supply its
// own StateDB backed by a trie/database; that persistence layer is out of
// scope (spec.md §1 Non-goals).
package state

import (
	"github.com/holiman/uint256"

	"github.com/osakavm/coreengine/common"
)

// StateDB is the capability interface the call/create engine and gas
// calculator use to read and mutate accounts, storage, and transient
// storage. All operations are synchronous and infallible; SubBalance does
// not check the balance, so callers check with CanTransfer first.
type StateDB interface {
	CreateAccount(common.Address)

	GetBalance(common.Address) *uint256.Int
	AddBalance(common.Address, *uint256.Int)
	SubBalance(common.Address, *uint256.Int)
	SetBalance(common.Address, *uint256.Int)

	GetNonce(common.Address) uint64
	SetNonce(common.Address, uint64)

	GetCodeHash(common.Address) common.Hash
	GetCode(common.Address) []byte
	SetCode(common.Address, []byte)
	GetCodeSize(common.Address) int

	AddRefund(uint64)
	SubRefund(uint64)
	GetRefund() uint64

	GetState(common.Address, common.Hash) common.Hash
	SetState(common.Address, common.Hash, common.Hash)
	GetCommittedState(common.Address, common.Hash) common.Hash

	// HasStorage reports whether addr has any non-zero storage slot set,
	// the collision check CREATE/CREATE2 run alongside GetNonce/GetCodeHash
	// (a would-be deployment target with leftover storage from an account
	// that never acquired code or a nonce is still a collision).
	HasStorage(common.Address) bool

	GetTransientState(common.Address, common.Hash) common.Hash
	SetTransientState(common.Address, common.Hash, common.Hash)

	SelfDestruct(common.Address)
	HasSelfDestructed(common.Address) bool

	Exist(common.Address) bool
	Empty(common.Address) bool

	AddressInAccessList(addr common.Address) bool
	SlotInAccessList(addr common.Address, slot common.Hash) (addressOk bool, slotOk bool)
	AddAddressToAccessList(addr common.Address)
	AddSlotToAccessList(addr common.Address, slot common.Hash)

	// Created accounts, per EIP-6780: SELFDESTRUCT only actually deletes
	// an account created earlier in the same transaction.
	MarkAccountCreated(common.Address)
	WasCreatedInTx(common.Address) bool
	DestroyStorage(common.Address)

	AccountsToDelete() []common.Address

	Snapshot() int
	RevertToSnapshot(int)

	GetAccessList() (addresses map[common.Address]int, slots []map[common.Hash]struct{})
}
