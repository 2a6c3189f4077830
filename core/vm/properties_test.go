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
	"testing"

	"github.com/holiman/uint256"

	"github.com/osakavm/coreengine/common"
	"github.com/osakavm/coreengine/crypto"
)

// pushSizeThenZeroOffsetReturn builds RETURN(0, size) bytecode, encoding
// size as a 3-byte big-endian immediate (ample room up to 2^24-1, well
// past either size boundary this file tests). Returned memory past the
// frame's high-water mark reads as zero, so this needs no other setup.
func pushSizeThenZeroOffsetReturn(size uint32) []byte {
	return []byte{
		byte(PUSH3), byte(size >> 16), byte(size >> 8), byte(size),
		byte(PUSH1), 0,
		byte(RETURN),
	}
}

// TestDeployedCodeSizeBoundary covers the EIP-170 boundary: init code that
// returns exactly MaxCodeSize bytes deploys successfully, one byte more
// fails with ErrMaxCodeSizeExceeded.
func TestDeployedCodeSizeBoundary(t *testing.T) {
	evm, sdb := newTestEVM()
	creator := common.HexToAddress("0xc1")
	sdb.CreateAccount(creator)
	sdb.AddBalance(creator, uint256.NewInt(1_000_000))

	run := func(size uint32) *MessageCallOutput {
		target := crypto.CreateAddress(creator, sdb.GetNonce(creator))
		msg := &Message{
			Caller: creator, Target: target, CurrentTarget: target, CodeAddress: target,
			IsCreate: true, Gas: 50_000_000, Code: pushSizeThenZeroOffsetReturn(size),
			Value: new(uint256.Int),
		}
		return evm.ProcessMessageCall(msg)
	}

	if out := run(24576); out.Err != nil {
		t.Errorf("deployed code of exactly MaxCodeSize bytes: unexpected error %v", out.Err)
	}
	sdb.SetNonce(creator, sdb.GetNonce(creator)+1)
	if out := run(24577); out.Err != ErrMaxCodeSizeExceeded {
		t.Errorf("deployed code one byte over MaxCodeSize: err = %v, want ErrMaxCodeSizeExceeded", out.Err)
	}
}

// TestInitCodeSizeBoundary covers the EIP-3860 boundary: init code of
// exactly MaxInitCodeSize bytes is accepted, one byte more is rejected
// with ErrMaxInitCodeSizeExceeded before it ever runs.
func TestInitCodeSizeBoundary(t *testing.T) {
	evm, sdb := newTestEVM()
	creator := common.HexToAddress("0xc2")
	sdb.CreateAccount(creator)
	sdb.AddBalance(creator, uint256.NewInt(1_000_000))

	run := func(initCodeLen int) *MessageCallOutput {
		target := crypto.CreateAddress(creator, sdb.GetNonce(creator))
		// Pad the init code to exactly initCodeLen bytes with JUMPDEST, so
		// the code length itself (not its returned output) is what's
		// being measured against MaxInitCodeSize.
		code := make([]byte, initCodeLen)
		for i := range code {
			code[i] = byte(JUMPDEST)
		}
		msg := &Message{
			Caller: creator, Target: target, CurrentTarget: target, CodeAddress: target,
			IsCreate: true, Gas: 50_000_000, Code: code, Value: new(uint256.Int),
		}
		return evm.ProcessMessageCall(msg)
	}

	if out := run(49152); out.Err != nil {
		t.Errorf("init code of exactly MaxInitCodeSize bytes: unexpected error %v", out.Err)
	}
	sdb.SetNonce(creator, sdb.GetNonce(creator)+1)
	if out := run(49153); out.Err == nil {
		t.Errorf("init code one byte over MaxInitCodeSize: want an error, got nil")
	}
}

// TestAccessListWarmNeverCostsMoreThanCold covers spec.md §8's access-set
// property: a warm touch is never pricier than the cold touch of the same
// kind, and repeated touches of the same address/slot don't grow the set.
func TestAccessListWarmNeverCostsMoreThanCold(t *testing.T) {
	evm, sdb := newTestEVM()
	addr := common.HexToAddress("0xaa")

	if sdb.AddressInAccessList(addr) {
		t.Fatalf("address starts warm, want cold")
	}
	coldCost, err := accessListCost(evm, addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sdb.AddressInAccessList(addr) {
		t.Fatalf("accessListCost did not warm the address")
	}
	warmCost, err := accessListCost(evm, addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warmCost > coldCost {
		t.Errorf("warm cost %d > cold cost %d", warmCost, coldCost)
	}

	slot := common.HexToHash("0x1")
	_, cold1 := slotAccessCost(evm, addr, slot)
	_, cold2 := slotAccessCost(evm, addr, slot)
	if !cold1 {
		t.Errorf("first slot touch reported warm, want cold")
	}
	if cold2 {
		t.Errorf("second slot touch reported cold, want warm")
	}
}

// TestCreateAddress2Deterministic covers spec.md §8's CREATE2 determinism
// property: the same (sender, salt, init_code) always derives the same
// contract address.
func TestCreateAddress2Deterministic(t *testing.T) {
	sender := common.HexToAddress("0xdeadbeef")
	var salt [32]byte
	salt[31] = 7
	initCode := []byte{0x60, 0x00, 0x60, 0x00}
	initCodeHash := crypto.Keccak256Hash(initCode)

	a := crypto.CreateAddress2(sender, salt, initCodeHash.Bytes())
	b := crypto.CreateAddress2(sender, salt, initCodeHash.Bytes())
	if a != b {
		t.Errorf("CreateAddress2 is not deterministic: %v != %v", a, b)
	}

	salt[31] = 8
	c := crypto.CreateAddress2(sender, salt, initCodeHash.Bytes())
	if a == c {
		t.Errorf("CreateAddress2 produced the same address for different salts")
	}
}

// TestMessageCallOutputPurity covers spec.md §8's purity property: running
// the same Message against fresh, identically-seeded world state twice
// yields the same observable output.
func TestMessageCallOutputPurity(t *testing.T) {
	build := func() (*EVM, common.Address) {
		evm, sdb := newTestEVM()
		target := common.HexToAddress("0x99")
		sdb.CreateAccount(target)
		sdb.AddBalance(target, uint256.NewInt(500))
		return evm, target
	}
	code := []byte{
		byte(PUSH1), 3, byte(PUSH1), 5, byte(ADD),
		byte(PUSH1), 0, byte(MSTORE),
		byte(PUSH1), 32, byte(PUSH1), 0, byte(RETURN),
	}
	run := func() *MessageCallOutput {
		evm, target := build()
		msg := &Message{
			Caller: common.HexToAddress("0x1"), Target: target, CurrentTarget: target,
			CodeAddress: target, Gas: 100000, Code: code, Value: new(uint256.Int),
		}
		return evm.ProcessMessageCall(msg)
	}

	out1, out2 := run(), run()
	if out1.Err != out2.Err || out1.GasLeft != out2.GasLeft || string(out1.ReturnData) != string(out2.ReturnData) {
		t.Errorf("identical messages against identically-seeded state diverged: %+v vs %+v", out1, out2)
	}
}
