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

	"github.com/stretchr/testify/require"

	"github.com/osakavm/coreengine/common"
	"github.com/osakavm/coreengine/params"
)

// TestPush32ZeroPad covers the boundary case: PUSH32 with fewer than 32
// bytes of remaining code zero-pads the missing trailing bytes.
func TestPush32ZeroPad(t *testing.T) {
	evm, _ := newTestEVM()
	caller := common.HexToAddress("0x1")
	target := common.HexToAddress("0x2")

	// PUSH32 followed by only 2 bytes of data, then STOP.
	code := []byte{byte(PUSH32), 0xaa, 0xbb}

	msg := &Message{
		Caller: caller, Target: target, CurrentTarget: target, CodeAddress: target,
		Gas: 100000, Code: code,
	}
	out := evm.ProcessMessageCall(msg)
	require.NoError(t, out.Err)
}

// TestCallDepthBoundary covers the boundary invariant: depth exactly
// CallCreateDepth succeeds, one past it fails softly with ErrDepth.
func TestCallDepthBoundary(t *testing.T) {
	evm, _ := newTestEVM()
	target := common.HexToAddress("0x2")

	msg := &Message{
		Caller: common.HexToAddress("0x1"), Target: target, CurrentTarget: target,
		CodeAddress: target, Gas: 100000, Code: []byte{byte(STOP)},
		Depth: int(params.CallCreateDepth),
	}
	out := evm.processMessage(msg)
	require.NoError(t, out.Err, "depth %d should succeed", msg.Depth)

	msg.Depth = int(params.CallCreateDepth) + 1
	out = evm.processMessage(msg)
	require.ErrorIs(t, out.Err, ErrDepth, "depth %d should fail", msg.Depth)
	require.Equal(t, msg.Gas, out.GasLeft, "a depth-exceeded child must refund all of its forwarded gas")
}

// TestInvalidJumpDest covers JUMP to a non-JUMPDEST position, and JUMP into
// PUSH data (which must not count as a valid destination even though the
// byte value there happens to equal JUMPDEST's opcode).
func TestInvalidJumpDest(t *testing.T) {
	evm, _ := newTestEVM()
	target := common.HexToAddress("0x2")

	// PUSH1 0x5b (JUMPDEST's own byte value, but as PUSH data), POP, PUSH1
	// 1, JUMP: jumping to pc=1 must fail since that byte is PUSH data, not
	// a real JUMPDEST.
	code := []byte{byte(PUSH1), byte(JUMPDEST), byte(POP), byte(PUSH1), 1, byte(JUMP)}
	msg := &Message{
		Caller: common.HexToAddress("0x1"), Target: target, CurrentTarget: target,
		CodeAddress: target, Gas: 100000, Code: code,
	}
	out := evm.ProcessMessageCall(msg)
	require.ErrorIs(t, out.Err, ErrInvalidJump)
}

// TestValidJump covers a JUMP landing on a real JUMPDEST.
func TestValidJump(t *testing.T) {
	evm, _ := newTestEVM()
	target := common.HexToAddress("0x2")

	// PUSH1 4, JUMP, (skipped: INVALID), JUMPDEST, STOP
	code := []byte{byte(PUSH1), 4, byte(JUMP), byte(INVALID), byte(JUMPDEST), byte(STOP)}
	msg := &Message{
		Caller: common.HexToAddress("0x1"), Target: target, CurrentTarget: target,
		CodeAddress: target, Gas: 100000, Code: code,
	}
	out := evm.ProcessMessageCall(msg)
	require.NoError(t, out.Err)
}

// TestStackUnderflow covers an ADD with too few operands halting with a
// stack-underflow error rather than panicking.
func TestStackUnderflow(t *testing.T) {
	evm, _ := newTestEVM()
	target := common.HexToAddress("0x2")

	code := []byte{byte(ADD)}
	msg := &Message{
		Caller: common.HexToAddress("0x1"), Target: target, CurrentTarget: target,
		CodeAddress: target, Gas: 100000, Code: code,
	}
	out := evm.ProcessMessageCall(msg)
	require.Error(t, out.Err)
}
