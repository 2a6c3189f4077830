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

import "errors"

// Sentinel errors reported in MessageCallOutput.Err. Most are exceptional
// halts: they consume all remaining gas, clear output, and roll back the
// owning frame's snapshot. ErrExecutionReverted is not: a revert preserves
// gas_left and output. ErrDepth and ErrInsufficientBalance also hand the
// frame's gas back in full.
var (
	ErrOutOfGas                   = errors.New("out of gas")
	ErrGasUintOverflow            = errors.New("gas uint64 overflow")
	ErrStackOverflow              = errors.New("stack limit reached 1024 (1024)")
	ErrStackUnderflow             = errors.New("stack underflow")
	ErrInvalidOpcode              = errors.New("invalid opcode")
	ErrInvalidJump                = errors.New("invalid jump destination")
	ErrReturnDataOutOfBounds      = errors.New("return data out of bounds")
	ErrWriteProtection            = errors.New("write protection")
	ErrInvalidCodePrefix          = errors.New("invalid code: must not begin with 0xef")
	ErrDepth                      = errors.New("max call depth exceeded")
	ErrInsufficientBalance        = errors.New("insufficient balance for transfer")
	ErrContractAddressCollision   = errors.New("contract address collision")
	ErrMaxInitCodeSizeExceeded    = errors.New("max initcode size exceeded")
	ErrMaxCodeSizeExceeded        = errors.New("evm: max code size exceeded")
	ErrExecutionReverted          = errors.New("execution reverted")
	ErrResourceConstraintExceeded = errors.New("resource constraint exceeded")
)

// errStackUnderflow and errStackOverflow are constructed with
// the observed vs required depth, for richer trace-sink reporting; the
// sentinel errors above are what callers should errors.Is against.
type errStackUnderflow struct{ stackLen, required int }

func (e *errStackUnderflow) Error() string {
	return ErrStackUnderflow.Error()
}
func (e *errStackUnderflow) Unwrap() error { return ErrStackUnderflow }

type errStackOverflow struct{ stackLen, limit int }

func (e *errStackOverflow) Error() string {
	return ErrStackOverflow.Error()
}
func (e *errStackOverflow) Unwrap() error { return ErrStackOverflow }

// isExceptionalHalt reports whether err is one of the "consumes all gas,
// rolls back" halts rather than Revert or a nil (successful) result.
func isExceptionalHalt(err error) bool {
	return err != nil && err != ErrExecutionReverted
}
