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

package state

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/holiman/uint256"

	"github.com/osakavm/coreengine/common"
	"github.com/osakavm/coreengine/crypto"
)

// emptyCodeHash is keccak256 of the empty byte string, the code hash of
// an externally owned account.
var emptyCodeHash = crypto.Keccak256Hash(nil)

type account struct {
	nonce    uint64
	balance  *uint256.Int
	codeHash common.Hash
	code     []byte
	storage  map[common.Hash]common.Hash
}

func newAccount() *account {
	return &account{
		balance:  new(uint256.Int),
		codeHash: emptyCodeHash,
		storage:  make(map[common.Hash]common.Hash),
	}
}

// journalEntry is a single undoable mutation, appended whenever MemoryStateDB
// mutates state so a RevertToSnapshot can unwind it in LIFO order — the
// same discipline go-ethereum's core/state journal follows, trimmed to
// the handful of mutation kinds this package needs.
type journalEntry func(s *MemoryStateDB)

// MemoryStateDB is a minimal in-memory StateDB used by the interpreter's
// own tests and by embedders that don't need persistence. It implements
// the snapshot/commit/rollback discipline spec.md §5 requires via a
// linear journal of undo entries, rather than a full trie/overlay.
type MemoryStateDB struct {
	accounts map[common.Address]*account
	journal  []journalEntry
	refund   uint64

	transient map[common.Address]map[common.Hash]common.Hash

	addressAccessList mapset.Set[common.Address]
	slotAccessList    map[common.Address]mapset.Set[common.Hash]

	createdInTx   map[common.Address]struct{}
	selfDestructs map[common.Address]struct{}
}

// NewMemoryStateDB returns an empty state database.
func NewMemoryStateDB() *MemoryStateDB {
	return &MemoryStateDB{
		accounts:          make(map[common.Address]*account),
		transient:         make(map[common.Address]map[common.Hash]common.Hash),
		addressAccessList: mapset.NewThreadUnsafeSet[common.Address](),
		slotAccessList:    make(map[common.Address]mapset.Set[common.Hash]),
		createdInTx:       make(map[common.Address]struct{}),
		selfDestructs:     make(map[common.Address]struct{}),
	}
}

func (s *MemoryStateDB) getOrCreate(addr common.Address) *account {
	a, ok := s.accounts[addr]
	if !ok {
		a = newAccount()
		s.accounts[addr] = a
	}
	return a
}

func (s *MemoryStateDB) append(entry journalEntry) {
	s.journal = append(s.journal, entry)
}

func (s *MemoryStateDB) CreateAccount(addr common.Address) {
	if _, ok := s.accounts[addr]; ok {
		return
	}
	s.accounts[addr] = newAccount()
	s.append(func(s *MemoryStateDB) { delete(s.accounts, addr) })
}

func (s *MemoryStateDB) GetBalance(addr common.Address) *uint256.Int {
	if a, ok := s.accounts[addr]; ok {
		return a.balance.Clone()
	}
	return new(uint256.Int)
}

func (s *MemoryStateDB) AddBalance(addr common.Address, amount *uint256.Int) {
	a := s.getOrCreate(addr)
	prev := a.balance.Clone()
	a.balance = new(uint256.Int).Add(a.balance, amount)
	s.append(func(s *MemoryStateDB) { s.accounts[addr].balance = prev })
}

func (s *MemoryStateDB) SubBalance(addr common.Address, amount *uint256.Int) {
	a := s.getOrCreate(addr)
	prev := a.balance.Clone()
	a.balance = new(uint256.Int).Sub(a.balance, amount)
	s.append(func(s *MemoryStateDB) { s.accounts[addr].balance = prev })
}

func (s *MemoryStateDB) SetBalance(addr common.Address, amount *uint256.Int) {
	a := s.getOrCreate(addr)
	prev := a.balance.Clone()
	a.balance = amount.Clone()
	s.append(func(s *MemoryStateDB) { s.accounts[addr].balance = prev })
}

func (s *MemoryStateDB) GetNonce(addr common.Address) uint64 {
	if a, ok := s.accounts[addr]; ok {
		return a.nonce
	}
	return 0
}

func (s *MemoryStateDB) SetNonce(addr common.Address, nonce uint64) {
	a := s.getOrCreate(addr)
	prev := a.nonce
	a.nonce = nonce
	s.append(func(s *MemoryStateDB) { s.accounts[addr].nonce = prev })
}

func (s *MemoryStateDB) GetCodeHash(addr common.Address) common.Hash {
	if a, ok := s.accounts[addr]; ok {
		return a.codeHash
	}
	return common.Hash{}
}

func (s *MemoryStateDB) GetCode(addr common.Address) []byte {
	if a, ok := s.accounts[addr]; ok {
		return a.code
	}
	return nil
}

func (s *MemoryStateDB) GetCodeSize(addr common.Address) int {
	return len(s.GetCode(addr))
}

func (s *MemoryStateDB) SetCode(addr common.Address, code []byte) {
	a := s.getOrCreate(addr)
	prevCode, prevHash := a.code, a.codeHash
	a.code = code
	if len(code) == 0 {
		a.codeHash = emptyCodeHash
	} else {
		a.codeHash = crypto.Keccak256Hash(code)
	}
	s.append(func(s *MemoryStateDB) {
		s.accounts[addr].code = prevCode
		s.accounts[addr].codeHash = prevHash
	})
}

func (s *MemoryStateDB) AddRefund(gas uint64) {
	prev := s.refund
	s.refund += gas
	s.append(func(s *MemoryStateDB) { s.refund = prev })
}

func (s *MemoryStateDB) SubRefund(gas uint64) {
	prev := s.refund
	if gas > s.refund {
		s.refund = 0
	} else {
		s.refund -= gas
	}
	s.append(func(s *MemoryStateDB) { s.refund = prev })
}

func (s *MemoryStateDB) GetRefund() uint64 { return s.refund }

func (s *MemoryStateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	if a, ok := s.accounts[addr]; ok {
		return a.storage[key]
	}
	return common.Hash{}
}

// GetCommittedState returns the same value as GetState: this in-memory
// implementation has no notion of a "before this transaction" snapshot
// distinct from the journal, so committed state tracks current state once
// a frame commits. Embedders backed by a real trie should diff against
// the block's opening state instead.
func (s *MemoryStateDB) GetCommittedState(addr common.Address, key common.Hash) common.Hash {
	return s.GetState(addr, key)
}

// HasStorage reports whether addr has any storage slot set at all.
func (s *MemoryStateDB) HasStorage(addr common.Address) bool {
	a, ok := s.accounts[addr]
	if !ok {
		return false
	}
	for _, v := range a.storage {
		if v != (common.Hash{}) {
			return true
		}
	}
	return false
}

func (s *MemoryStateDB) SetState(addr common.Address, key, value common.Hash) {
	a := s.getOrCreate(addr)
	prev := a.storage[key]
	a.storage[key] = value
	s.append(func(s *MemoryStateDB) { s.accounts[addr].storage[key] = prev })
}

func (s *MemoryStateDB) GetTransientState(addr common.Address, key common.Hash) common.Hash {
	if m, ok := s.transient[addr]; ok {
		return m[key]
	}
	return common.Hash{}
}

func (s *MemoryStateDB) SetTransientState(addr common.Address, key, value common.Hash) {
	m, ok := s.transient[addr]
	if !ok {
		m = make(map[common.Hash]common.Hash)
		s.transient[addr] = m
	}
	prev, had := m[key]
	m[key] = value
	s.append(func(s *MemoryStateDB) {
		if had {
			s.transient[addr][key] = prev
		} else {
			delete(s.transient[addr], key)
		}
	})
}

func (s *MemoryStateDB) SelfDestruct(addr common.Address) {
	if _, ok := s.selfDestructs[addr]; ok {
		return
	}
	s.selfDestructs[addr] = struct{}{}
	s.append(func(s *MemoryStateDB) { delete(s.selfDestructs, addr) })
}

func (s *MemoryStateDB) HasSelfDestructed(addr common.Address) bool {
	_, ok := s.selfDestructs[addr]
	return ok
}

func (s *MemoryStateDB) Exist(addr common.Address) bool {
	_, ok := s.accounts[addr]
	return ok
}

// Empty reports whether addr is the distinguished empty account: nonce 0,
// balance 0, code empty (the GLOSSARY's "account alive" predicate negated).
func (s *MemoryStateDB) Empty(addr common.Address) bool {
	a, ok := s.accounts[addr]
	if !ok {
		return true
	}
	return a.nonce == 0 && a.balance.IsZero() && a.codeHash == emptyCodeHash
}

func (s *MemoryStateDB) AddressInAccessList(addr common.Address) bool {
	return s.addressAccessList.Contains(addr)
}

func (s *MemoryStateDB) SlotInAccessList(addr common.Address, slot common.Hash) (bool, bool) {
	addrOk := s.AddressInAccessList(addr)
	if m, ok := s.slotAccessList[addr]; ok {
		return addrOk, m.Contains(slot)
	}
	return addrOk, false
}

func (s *MemoryStateDB) AddAddressToAccessList(addr common.Address) {
	if s.addressAccessList.Contains(addr) {
		return
	}
	s.addressAccessList.Add(addr)
	s.append(func(s *MemoryStateDB) { s.addressAccessList.Remove(addr) })
}

func (s *MemoryStateDB) AddSlotToAccessList(addr common.Address, slot common.Hash) {
	s.AddAddressToAccessList(addr)
	m, ok := s.slotAccessList[addr]
	if !ok {
		m = mapset.NewThreadUnsafeSet[common.Hash]()
		s.slotAccessList[addr] = m
	}
	if m.Contains(slot) {
		return
	}
	m.Add(slot)
	s.append(func(s *MemoryStateDB) { s.slotAccessList[addr].Remove(slot) })
}

// GetAccessList flattens the warm-address/warm-slot sets into the plain
// map/slice shape an EIP-2930 access-list transaction builder consumes:
// addrs maps each warm address to its index into slots.
func (s *MemoryStateDB) GetAccessList() (map[common.Address]int, []map[common.Hash]struct{}) {
	addrs := make(map[common.Address]int, s.addressAccessList.Cardinality())
	var slots []map[common.Hash]struct{}
	i := 0
	for addr := range s.addressAccessList.Iter() {
		addrs[addr] = i
		if m, ok := s.slotAccessList[addr]; ok {
			flat := make(map[common.Hash]struct{}, m.Cardinality())
			for slot := range m.Iter() {
				flat[slot] = struct{}{}
			}
			slots = append(slots, flat)
		} else {
			slots = append(slots, nil)
		}
		i++
	}
	return addrs, slots
}

func (s *MemoryStateDB) MarkAccountCreated(addr common.Address) {
	if _, ok := s.createdInTx[addr]; ok {
		return
	}
	s.createdInTx[addr] = struct{}{}
	s.append(func(s *MemoryStateDB) { delete(s.createdInTx, addr) })
}

func (s *MemoryStateDB) WasCreatedInTx(addr common.Address) bool {
	_, ok := s.createdInTx[addr]
	return ok
}

// DestroyStorage clears every storage slot of addr, used by
// process_create_message to defensively wipe a dead account occupying
// the about-to-be-created address.
func (s *MemoryStateDB) DestroyStorage(addr common.Address) {
	a, ok := s.accounts[addr]
	if !ok {
		return
	}
	prev := make(map[common.Hash]common.Hash, len(a.storage))
	for k, v := range a.storage {
		prev[k] = v
	}
	a.storage = make(map[common.Hash]common.Hash)
	s.append(func(s *MemoryStateDB) { s.accounts[addr].storage = prev })
}

// AccountsToDelete returns the accounts SELFDESTRUCT (EIP-6780) marked for
// removal: those that both self-destructed and were created earlier in
// the same transaction.
func (s *MemoryStateDB) AccountsToDelete() []common.Address {
	var out []common.Address
	for addr := range s.selfDestructs {
		if _, created := s.createdInTx[addr]; created {
			out = append(out, addr)
		}
	}
	return out
}

// Snapshot returns a revision id identifying the current length of the
// journal; RevertToSnapshot undoes every entry appended since.
func (s *MemoryStateDB) Snapshot() int {
	return len(s.journal)
}

func (s *MemoryStateDB) RevertToSnapshot(id int) {
	for i := len(s.journal) - 1; i >= id; i-- {
		s.journal[i](s)
	}
	s.journal = s.journal[:id]
}
