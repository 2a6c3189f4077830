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
	"bytes"
	"testing"

	"github.com/holiman/uint256"

	"github.com/osakavm/coreengine/common"
	"github.com/osakavm/coreengine/core/vm/gasdimension"
	"github.com/osakavm/coreengine/crypto"
	"github.com/osakavm/coreengine/params"
	"github.com/osakavm/coreengine/state"
)

func newTestEVM() (*EVM, *state.MemoryStateDB) {
	sdb := state.NewMemoryStateDB()
	blockCtx := BlockContext{
		GetHash: func(uint64) common.Hash { return common.Hash{} },
	}
	txCtx := TxContext{}
	evm := NewEVM(blockCtx, txCtx, sdb, params.OsakaChainConfig(), Config{})
	return evm, sdb
}

func u256(v uint64) *uint256.Int { return new(uint256.Int).SetUint64(v) }

// TestPureArithmetic covers scenario 1: PUSH1 3, PUSH1 5, ADD, STOP with 100
// gas must leave gas_left = 100 - 3 - 3 - 3 = 91, empty output, no logs.
func TestPureArithmetic(t *testing.T) {
	evm, _ := newTestEVM()
	caller := common.HexToAddress("0x1")
	target := common.HexToAddress("0x2")
	code := []byte{byte(PUSH1), 3, byte(PUSH1), 5, byte(ADD), byte(STOP)}

	msg := &Message{
		Caller:        caller,
		Target:        target,
		CurrentTarget: target,
		CodeAddress:   target,
		Gas:           100,
		Code:          code,
	}
	out := evm.ProcessMessageCall(msg)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if out.GasLeft != 91 {
		t.Errorf("gas_left = %d, want 91", out.GasLeft)
	}
	if len(out.ReturnData) != 0 {
		t.Errorf("return_data = %x, want empty", out.ReturnData)
	}
}

// TestReturnOnlyRoundTrip covers the canonical RETURN-only code: 60 00 60 00
// f3 (RETURN memory[0..0]) must yield empty output and gas_left = initial-6.
func TestReturnOnlyRoundTrip(t *testing.T) {
	evm, _ := newTestEVM()
	caller := common.HexToAddress("0x1")
	target := common.HexToAddress("0x2")
	code := []byte{byte(PUSH1), 0, byte(PUSH1), 0, byte(RETURN)}

	const initialGas = 10000
	msg := &Message{
		Caller: caller, Target: target, CurrentTarget: target, CodeAddress: target,
		Gas: initialGas, Code: code,
	}
	out := evm.ProcessMessageCall(msg)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if len(out.ReturnData) != 0 {
		t.Errorf("return_data = %x, want empty", out.ReturnData)
	}
	if want := uint64(initialGas - 6); out.GasLeft != want {
		t.Errorf("gas_left = %d, want %d", out.GasLeft, want)
	}
}

// TestRevertWithReason covers scenario 2: PUSH32 reason, PUSH1 0, MSTORE,
// PUSH1 32, PUSH1 0, REVERT must report ErrExecutionReverted with the
// 32-byte reason as return data and a positive remaining gas.
func TestRevertWithReason(t *testing.T) {
	evm, _ := newTestEVM()
	caller := common.HexToAddress("0x1")
	target := common.HexToAddress("0x2")

	var reason [32]byte
	copy(reason[:], "deliberate failure reason value")

	code := append([]byte{byte(PUSH32)}, reason[:]...)
	code = append(code, byte(PUSH1), 0, byte(MSTORE), byte(PUSH1), 32, byte(PUSH1), 0, byte(REVERT))

	msg := &Message{
		Caller: caller, Target: target, CurrentTarget: target, CodeAddress: target,
		Gas: 100000, Code: code,
	}
	out := evm.ProcessMessageCall(msg)
	if out.Err != ErrExecutionReverted {
		t.Fatalf("err = %v, want ErrExecutionReverted", out.Err)
	}
	if !bytes.Equal(out.ReturnData, reason[:]) {
		t.Errorf("return_data = %x, want %x", out.ReturnData, reason[:])
	}
	if out.GasLeft == 0 {
		t.Errorf("gas_left = 0, want positive")
	}
}

// TestCreateCollision covers scenario 3: a pre-seeded account occupying the
// deterministic CREATE address (even with zero nonce/code but non-empty
// storage) must be reported as a collision, with the creator's nonce still
// bumped and no child frame spawned.
func TestCreateCollision(t *testing.T) {
	evm, sdb := newTestEVM()
	creator := common.HexToAddress("0x1")
	sdb.SetNonce(creator, 5)
	sdb.AddBalance(creator, u256(1_000_000))

	collider := crypto.CreateAddress(creator, 5)
	sdb.SetState(collider, common.Hash{}, common.HexToHash("0x01"))

	// CREATE(0, 0, 0): value 0, empty init code, run as creator's own code
	// so that creator is the CREATE sender.
	code := []byte{byte(PUSH1), 0, byte(PUSH1), 0, byte(PUSH1), 0, byte(CREATE), byte(STOP)}
	sdb.SetCode(creator, code)

	msg := &Message{
		Caller: common.HexToAddress("0xee"), Target: creator, CurrentTarget: creator, CodeAddress: creator,
		Gas: 1_000_000, Code: code,
	}
	out := evm.ProcessMessageCall(msg)
	if out.Err != nil {
		t.Fatalf("unexpected top-level error: %v", out.Err)
	}
	if got := sdb.GetNonce(creator); got != 6 {
		t.Errorf("creator nonce = %d, want 6 (bumped despite collision)", got)
	}
	if sdb.GetState(collider, common.Hash{}) != common.HexToHash("0x01") {
		t.Errorf("collider storage was touched by the colliding CREATE")
	}
}

// TestStaticCallForbidsSstore covers scenario 4: an SSTORE attempted from a
// STATICCALL context is refused, leaving the callee's storage unchanged
// while the calling frame itself completes without error.
func TestStaticCallForbidsSstore(t *testing.T) {
	evm, sdb := newTestEVM()
	caller := common.HexToAddress("0x1")
	callee := common.HexToAddress("0x2")

	sstoreCode := []byte{byte(PUSH1), 1, byte(PUSH1), 0, byte(SSTORE), byte(STOP)}
	sdb.SetCode(callee, sstoreCode)

	// STATICCALL(gas, callee, 0, 0, 0, 0); PUSH1 0 (retSize) etc, then STOP.
	outer := []byte{
		byte(PUSH1), 0, byte(PUSH1), 0, byte(PUSH1), 0, byte(PUSH1), 0,
		byte(PUSH20)}
	outer = append(outer, callee.Bytes()...)
	outer = append(outer, byte(PUSH2), 0x27, 0x10, byte(STATICCALL), byte(STOP))

	outerAddr := common.HexToAddress("0x3")
	sdb.SetCode(outerAddr, outer)

	msg := &Message{
		Caller: caller, Target: outerAddr, CurrentTarget: outerAddr, CodeAddress: outerAddr,
		Gas: 1_000_000, Code: outer,
	}
	out := evm.ProcessMessageCall(msg)
	if out.Err != nil {
		t.Fatalf("unexpected top-level error: %v", out.Err)
	}
	if sdb.GetState(callee, common.Hash{}) != (common.Hash{}) {
		t.Errorf("SSTORE inside STATICCALL mutated storage")
	}
}

// TestSelfdestructEIP6780 covers scenario 5: SELFDESTRUCT always moves
// balance, but only actually marks the account for deletion when it was
// created earlier in the same transaction (EIP-6780).
func TestSelfdestructEIP6780(t *testing.T) {
	t.Run("pre-existing account survives", func(t *testing.T) {
		evm, sdb := newTestEVM()
		contractAddr := common.HexToAddress("0xc")
		beneficiary := common.HexToAddress("0xb")
		sdb.SetCode(contractAddr, []byte{byte(PUSH20)})
		sdb.AddBalance(contractAddr, u256(500))

		code := append([]byte{byte(PUSH20)}, beneficiary.Bytes()...)
		code = append(code, byte(SELFDESTRUCT))
		sdb.SetCode(contractAddr, code)

		msg := &Message{
			Caller: common.HexToAddress("0x1"), Target: contractAddr,
			CurrentTarget: contractAddr, CodeAddress: contractAddr,
			Gas: 100000, Code: code,
		}
		out := evm.ProcessMessageCall(msg)
		if out.Err != nil {
			t.Fatalf("unexpected error: %v", out.Err)
		}
		if sdb.GetBalance(beneficiary).Cmp(u256(500)) != 0 {
			t.Errorf("beneficiary balance = %v, want 500", sdb.GetBalance(beneficiary))
		}
		deleted := sdb.AccountsToDelete()
		for _, a := range deleted {
			if a == contractAddr {
				t.Errorf("pre-existing account was marked for deletion")
			}
		}
	})

	t.Run("created-this-tx account is deleted", func(t *testing.T) {
		evm, sdb := newTestEVM()
		contractAddr := common.HexToAddress("0xc")
		beneficiary := common.HexToAddress("0xb")
		sdb.MarkAccountCreated(contractAddr)
		sdb.CreateAccount(contractAddr)
		sdb.AddBalance(contractAddr, u256(500))

		code := append([]byte{byte(PUSH20)}, beneficiary.Bytes()...)
		code = append(code, byte(SELFDESTRUCT))
		sdb.SetCode(contractAddr, code)

		msg := &Message{
			Caller: common.HexToAddress("0x1"), Target: contractAddr,
			CurrentTarget: contractAddr, CodeAddress: contractAddr,
			Gas: 100000, Code: code,
		}
		out := evm.ProcessMessageCall(msg)
		if out.Err != nil {
			t.Fatalf("unexpected error: %v", out.Err)
		}
		found := false
		for _, a := range sdb.AccountsToDelete() {
			if a == contractAddr {
				found = true
			}
		}
		if !found {
			t.Errorf("account created this tx was not marked for deletion")
		}
	})
}

// TestGasAccountingAndRefund covers the outermost MessageCallOutput's
// GasUsed/GasRefund/AccountsToDelete fields: an SSTORE that clears a
// previously-set slot to zero earns the EIP-3529 clear refund, capped at
// gas_used/5, and the capped amount is both reported and credited back
// onto GasLeft.
func TestGasAccountingAndRefund(t *testing.T) {
	evm, sdb := newTestEVM()
	caller := common.HexToAddress("0x1")
	target := common.HexToAddress("0x2")

	sdb.SetState(target, common.Hash{}, common.HexToHash("0x01"))

	// SSTORE(0, 0); STOP: clears a nonzero slot, earning a clear refund.
	code := []byte{byte(PUSH1), 0, byte(PUSH1), 0, byte(SSTORE), byte(STOP)}
	sdb.SetCode(target, code)

	const initialGas = 100000
	msg := &Message{
		Caller: caller, Target: target, CurrentTarget: target, CodeAddress: target,
		Gas: initialGas, Code: code,
	}
	out := evm.ProcessMessageCall(msg)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}

	wantRefund := params.SstoreClearsScheduleRefundEIP3529
	if cap := out.GasUsed / params.RefundQuotientEIP3529; wantRefund > cap {
		wantRefund = cap
	}
	if out.GasRefund != wantRefund {
		t.Errorf("gas_refund = %d, want %d", out.GasRefund, wantRefund)
	}
	if out.GasUsed == 0 || out.GasUsed >= initialGas {
		t.Errorf("gas_used = %d, want a nonzero amount less than the initial gas", out.GasUsed)
	}
	if want := initialGas - out.GasUsed + out.GasRefund; out.GasLeft != want {
		t.Errorf("gas_left = %d, want %d", out.GasLeft, want)
	}
}

// TestAccountsToDeleteSurfacedOnOutput covers the same EIP-6780 deletion as
// TestSelfdestructEIP6780, but reads the result off the public
// MessageCallOutput instead of the concrete StateDB, since that is the only
// channel an embedder has into it.
func TestAccountsToDeleteSurfacedOnOutput(t *testing.T) {
	evm, sdb := newTestEVM()
	contractAddr := common.HexToAddress("0xc")
	beneficiary := common.HexToAddress("0xb")
	sdb.MarkAccountCreated(contractAddr)
	sdb.CreateAccount(contractAddr)
	sdb.AddBalance(contractAddr, u256(500))

	code := append([]byte{byte(PUSH20)}, beneficiary.Bytes()...)
	code = append(code, byte(SELFDESTRUCT))
	sdb.SetCode(contractAddr, code)

	msg := &Message{
		Caller: common.HexToAddress("0x1"), Target: contractAddr,
		CurrentTarget: contractAddr, CodeAddress: contractAddr,
		Gas: 100000, Code: code,
	}
	out := evm.ProcessMessageCall(msg)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	found := false
	for _, a := range out.AccountsToDelete {
		if a == contractAddr {
			found = true
		}
	}
	if !found {
		t.Errorf("MessageCallOutput.AccountsToDelete did not carry the selfdestructed account")
	}
}

// TestResourceConstraintHaltsExecution covers a chain owner's per-resource
// rate constraint (gasdimension.ResourceConstraints) acting as a flat cap on
// a single message's usage of that dimension, on top of the scalar gas
// limit.
func TestResourceConstraintHaltsExecution(t *testing.T) {
	sdb := state.NewMemoryStateDB()
	blockCtx := BlockContext{GetHash: func(uint64) common.Hash { return common.Hash{} }}

	constraints := gasdimension.NewResourceConstraints()
	constraints.SetConstraint(gasdimension.ResourceKindComputation, 1, 5)

	evm := NewEVM(blockCtx, TxContext{}, sdb, params.OsakaChainConfig(), Config{Constraints: constraints})

	caller := common.HexToAddress("0x1")
	target := common.HexToAddress("0x2")
	// Each PUSH1/ADD costs 3 gas and falls into the computation dimension
	// (dimensionOf's default case); the constraint's 5-gas ceiling is
	// broken on the second charge, well before the 100000 gas limit.
	code := []byte{
		byte(PUSH1), 1, byte(PUSH1), 1, byte(ADD), byte(STOP),
	}
	msg := &Message{
		Caller: caller, Target: target, CurrentTarget: target, CodeAddress: target,
		Gas: 100000, Code: code,
	}
	out := evm.ProcessMessageCall(msg)
	if out.Err != ErrResourceConstraintExceeded {
		t.Fatalf("err = %v, want ErrResourceConstraintExceeded", out.Err)
	}
	if out.GasLeft != 0 {
		t.Errorf("gas_left = %d, want 0 (exceptional halt zeroes it)", out.GasLeft)
	}
}

// TestLogEmittedOnOutput covers a bare LOG0 reaching MessageCallOutput.Logs
// with the emitting contract's address and the written data.
func TestLogEmittedOnOutput(t *testing.T) {
	evm, sdb := newTestEVM()
	caller := common.HexToAddress("0x1")
	target := common.HexToAddress("0x2")

	// MSTORE(0, 1); LOG0(0, 32); STOP.
	code := []byte{
		byte(PUSH1), 1, byte(PUSH1), 0, byte(MSTORE),
		byte(PUSH1), 32, byte(PUSH1), 0, byte(LOG0),
		byte(STOP),
	}
	sdb.SetCode(target, code)

	msg := &Message{
		Caller: caller, Target: target, CurrentTarget: target, CodeAddress: target,
		Gas: 100000, Code: code,
	}
	out := evm.ProcessMessageCall(msg)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if len(out.Logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(out.Logs))
	}
	if out.Logs[0].Address != target {
		t.Errorf("log address = %v, want %v", out.Logs[0].Address, target)
	}
	if len(out.Logs[0].Topics) != 0 {
		t.Errorf("LOG0 must carry no topics, got %d", len(out.Logs[0].Topics))
	}
}

// TestLogsMergeOnSuccessfulChildCall covers incorporate_child_on_success: a
// CALLed child's logs are appended onto the caller's on success, and in
// depth-first order relative to the caller's own LOG.
func TestLogsMergeOnSuccessfulChildCall(t *testing.T) {
	evm, sdb := newTestEVM()
	caller := common.HexToAddress("0x1")
	outerAddr := common.HexToAddress("0x2")
	callee := common.HexToAddress("0x3")

	// callee: LOG0(0, 0); STOP.
	calleeCode := []byte{byte(PUSH1), 0, byte(PUSH1), 0, byte(LOG0), byte(STOP)}
	sdb.SetCode(callee, calleeCode)

	// outer: LOG0(0, 0); CALL(gas, callee, 0, 0, 0, 0, 0); STOP.
	outer := []byte{byte(PUSH1), 0, byte(PUSH1), 0, byte(LOG0)}
	outer = append(outer,
		byte(PUSH1), 0, byte(PUSH1), 0, byte(PUSH1), 0, byte(PUSH1), 0, byte(PUSH1), 0,
		byte(PUSH20))
	outer = append(outer, callee.Bytes()...)
	outer = append(outer, byte(PUSH2), 0x27, 0x10, byte(CALL), byte(STOP))
	sdb.SetCode(outerAddr, outer)

	msg := &Message{
		Caller: caller, Target: outerAddr, CurrentTarget: outerAddr, CodeAddress: outerAddr,
		Gas: 1_000_000, Code: outer,
	}
	out := evm.ProcessMessageCall(msg)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if len(out.Logs) != 2 {
		t.Fatalf("logs = %d, want 2 (1 own + 1 from the successful child)", len(out.Logs))
	}
	if out.Logs[0].Address != outerAddr {
		t.Errorf("logs[0].address = %v, want outer's own LOG first (depth-first order)", out.Logs[0].Address)
	}
	if out.Logs[1].Address != callee {
		t.Errorf("logs[1].address = %v, want the child's LOG merged in after", out.Logs[1].Address)
	}
}

// TestLogsClearedOnTopLevelRevert covers spec.md's requirement that a
// failing top-level frame's logs never reach the caller, even though the
// frame itself produced one before reverting.
func TestLogsClearedOnTopLevelRevert(t *testing.T) {
	evm, sdb := newTestEVM()
	caller := common.HexToAddress("0x1")
	target := common.HexToAddress("0x2")

	// LOG0(0, 0); PUSH1 0, PUSH1 0, REVERT.
	code := []byte{
		byte(PUSH1), 0, byte(PUSH1), 0, byte(LOG0),
		byte(PUSH1), 0, byte(PUSH1), 0, byte(REVERT),
	}
	sdb.SetCode(target, code)

	msg := &Message{
		Caller: caller, Target: target, CurrentTarget: target, CodeAddress: target,
		Gas: 100000, Code: code,
	}
	out := evm.ProcessMessageCall(msg)
	if out.Err != ErrExecutionReverted {
		t.Fatalf("err = %v, want ErrExecutionReverted", out.Err)
	}
	if len(out.Logs) != 0 {
		t.Errorf("logs = %d, want 0 (cleared on a failing top-level frame)", len(out.Logs))
	}
}

// TestDelegateCallPreservesContext covers scenario 6: A DELEGATECALLs B;
// inside B's code, ADDRESS reads A's own address, and the SSTORE lands in
// A's storage, not B's.
func TestDelegateCallPreservesContext(t *testing.T) {
	evm, sdb := newTestEVM()
	outerCaller := common.HexToAddress("0x1")
	a := common.HexToAddress("0xa")
	b := common.HexToAddress("0xb")

	// B's code: SSTORE(0, ADDRESS); STOP. If context is preserved, this
	// writes A's own address into A's slot 0.
	bCode := []byte{byte(ADDRESS), byte(PUSH1), 0, byte(SSTORE), byte(STOP)}
	sdb.SetCode(b, bCode)

	// A's code: DELEGATECALL(gas, b, 0, 0, 0, 0); STOP.
	aCode := []byte{byte(PUSH1), 0, byte(PUSH1), 0, byte(PUSH1), 0, byte(PUSH1), 0, byte(PUSH20)}
	aCode = append(aCode, b.Bytes()...)
	aCode = append(aCode, byte(PUSH2), 0xff, 0xff, byte(DELEGATECALL), byte(STOP))
	sdb.SetCode(a, aCode)

	msg := &Message{
		Caller: outerCaller, Target: a, CurrentTarget: a, CodeAddress: a,
		Gas: 1_000_000, Value: u256(7), Code: aCode, ShouldTransferValue: true,
	}
	sdb.AddBalance(outerCaller, u256(1000))
	out := evm.ProcessMessageCall(msg)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}

	got := sdb.GetState(a, common.Hash{})
	want := common.Hash(a.Hash())
	if got != want {
		t.Errorf("A.storage[0] = %x, want %x (A's own address)", got, want)
	}
	if sdb.GetState(b, common.Hash{}) != (common.Hash{}) {
		t.Errorf("DELEGATECALL wrote to B's storage instead of A's")
	}
}
