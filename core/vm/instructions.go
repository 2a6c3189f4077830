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
	"github.com/osakavm/coreengine/crypto"
)

// --- arithmetic ---

func opAdd(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Add(&x, y)
	return nil, nil
}

func opSub(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Sub(&x, y)
	return nil, nil
}

func opMul(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Mul(&x, y)
	return nil, nil
}

func opDiv(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Div(&x, y)
	return nil, nil
}

func opSdiv(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.SDiv(&x, y)
	return nil, nil
}

func opMod(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Mod(&x, y)
	return nil, nil
}

func opSmod(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.SMod(&x, y)
	return nil, nil
}

func opExp(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	base, exponent := scope.Stack.pop(), scope.Stack.peek()
	exponent.Exp(&base, exponent)
	return nil, nil
}

func opSignExtend(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	back, num := scope.Stack.pop(), scope.Stack.peek()
	num.ExtendSign(num, &back)
	return nil, nil
}

func opAddmod(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y, z := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.peek()
	z.AddMod(&x, &y, z)
	return nil, nil
}

func opMulmod(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y, z := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.peek()
	z.MulMod(&x, &y, z)
	return nil, nil
}

// --- comparison / bitwise ---

func opLt(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opGt(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSlt(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSgt(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opEq(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opIszero(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}

func opAnd(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.And(&x, y)
	return nil, nil
}

func opOr(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Or(&x, y)
	return nil, nil
}

func opXor(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Xor(&x, y)
	return nil, nil
}

func opNot(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.peek()
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	th, val := scope.Stack.pop(), scope.Stack.peek()
	val.Byte(&th)
	return nil, nil
}

func opSHL(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	shift, value := scope.Stack.pop(), scope.Stack.peek()
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSHR(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	shift, value := scope.Stack.pop(), scope.Stack.peek()
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSAR(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	shift, value := scope.Stack.pop(), scope.Stack.peek()
	if shift.GtUint64(256) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.SetAllOne()
		}
		return nil, nil
	}
	value.SRsh(value, uint(shift.Uint64()))
	return nil, nil
}

// --- keccak ---

func opKeccak256(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop(), scope.Stack.peek()
	data := scope.Memory.GetPtr(int64(offset.Uint64()), int64(size.Uint64()))
	h := crypto.Keccak256(data)
	size.SetBytes(h)
	return nil, nil
}

// --- environment ---

func opAddress(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetBytes(scope.Contract.Address().Bytes()))
	return nil, nil
}

func opBalance(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.peek()
	addr := common.Address(slot.Bytes20())
	slot.Set(interp.evm.StateDB.GetBalance(addr))
	return nil, nil
}

func opOrigin(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetBytes(interp.evm.TxContext.Origin.Bytes()))
	return nil, nil
}

func opCaller(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetBytes(scope.Contract.Caller().Bytes()))
	return nil, nil
}

func opCallValue(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).Set(scope.Contract.Value()))
	return nil, nil
}

func opCallDataLoad(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.peek()
	if offset, overflow := x.Uint64WithOverflow(); !overflow {
		data := getData(scope.Contract.Input, offset, 32)
		x.SetBytes(data)
	} else {
		x.Clear()
	}
	return nil, nil
}

func opCallDataSize(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(len(scope.Contract.Input))))
	return nil, nil
}

func opCallDataCopy(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	memOffset, dataOffset, length := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	dataOffset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		dataOffset64 = 0xffffffffffffffff
	}
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), getData(scope.Contract.Input, dataOffset64, length.Uint64()))
	return nil, nil
}

func opCodeSize(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(len(scope.Contract.Code))))
	return nil, nil
}

func opCodeCopy(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	memOffset, codeOffset, length := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	codeOffset64, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		codeOffset64 = 0xffffffffffffffff
	}
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), getData(scope.Contract.Code, codeOffset64, length.Uint64()))
	return nil, nil
}

func opGasprice(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).Set(interp.evm.TxContext.GasPrice))
	return nil, nil
}

func opExtCodeSize(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.peek()
	addr := common.Address(slot.Bytes20())
	slot.SetUint64(uint64(interp.evm.StateDB.GetCodeSize(addr)))
	return nil, nil
}

func opExtCodeCopy(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	addrSlot, memOffset, codeOffset, length := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	addr := common.Address(addrSlot.Bytes20())
	codeOffset64, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		codeOffset64 = 0xffffffffffffffff
	}
	code := interp.evm.StateDB.GetCode(addr)
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), getData(code, codeOffset64, length.Uint64()))
	return nil, nil
}

func opReturnDataSize(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(len(interp.returnData))))
	return nil, nil
}

func opReturnDataCopy(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	memOffset, dataOffset, length := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	offset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		return nil, ErrReturnDataOutOfBounds
	}
	end := new(uint256.Int).SetUint64(offset64)
	end.Add(end, &length)
	end64, overflow := end.Uint64WithOverflow()
	if overflow || uint64(len(interp.returnData)) < end64 {
		return nil, ErrReturnDataOutOfBounds
	}
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), interp.returnData[offset64:end64])
	return nil, nil
}

func opExtCodeHash(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.peek()
	addr := common.Address(slot.Bytes20())
	if interp.evm.StateDB.Empty(addr) {
		slot.Clear()
		return nil, nil
	}
	slot.SetBytes(interp.evm.StateDB.GetCodeHash(addr).Bytes())
	return nil, nil
}

// --- block context ---

func opBlockhash(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	num := scope.Stack.peek()
	num64, overflow := num.Uint64WithOverflow()
	if overflow {
		num.Clear()
		return nil, nil
	}
	upper := interp.evm.BlockContext.BlockNumber
	var lower uint64
	if upper >= 257 {
		lower = upper - 256
	}
	if num64 >= lower && num64 < upper {
		num.SetBytes(interp.evm.BlockContext.GetHash(num64).Bytes())
	} else {
		num.Clear()
	}
	return nil, nil
}

func opCoinbase(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetBytes(interp.evm.BlockContext.Coinbase.Bytes()))
	return nil, nil
}

func opTimestamp(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(interp.evm.BlockContext.Time))
	return nil, nil
}

func opNumber(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(interp.evm.BlockContext.BlockNumber))
	return nil, nil
}

func opRandom(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	if interp.evm.BlockContext.Random != nil {
		scope.Stack.push(new(uint256.Int).SetBytes(interp.evm.BlockContext.Random.Bytes()))
		return nil, nil
	}
	scope.Stack.push(new(uint256.Int).Set(interp.evm.BlockContext.Difficulty))
	return nil, nil
}

func opGasLimit(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(interp.evm.BlockContext.GasLimit))
	return nil, nil
}

func opChainID(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(interp.evm.TxContext.ChainID))
	return nil, nil
}

func opSelfBalance(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	balance := interp.evm.StateDB.GetBalance(scope.Contract.Address())
	scope.Stack.push(new(uint256.Int).Set(balance))
	return nil, nil
}

func opBaseFee(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).Set(interp.evm.BlockContext.BaseFee))
	return nil, nil
}

func opBlobHash(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	idx := scope.Stack.peek()
	if idx64, overflow := idx.Uint64WithOverflow(); !overflow && idx64 < uint64(len(interp.evm.TxContext.BlobHashes)) {
		idx.SetBytes(interp.evm.TxContext.BlobHashes[idx64].Bytes())
	} else {
		idx.Clear()
	}
	return nil, nil
}

func opBlobBaseFee(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	fee := blobBaseFee(interp.evm.BlockContext.ExcessBlobGas)
	v, overflow := uint256.FromBig(fee)
	if overflow {
		v = new(uint256.Int).SetAllOne()
	}
	scope.Stack.push(v)
	return nil, nil
}

// --- stack / memory / storage / flow ---

func opPop(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.pop()
	return nil, nil
}

func opMload(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	v := scope.Stack.peek()
	offset := v.Uint64()
	v.SetBytes(scope.Memory.GetPtr(int64(offset), 32))
	return nil, nil
}

func opMstore(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	mStart, val := scope.Stack.pop(), scope.Stack.pop()
	scope.Memory.Set32(mStart.Uint64(), &val)
	return nil, nil
}

func opMstore8(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	off, val := scope.Stack.pop(), scope.Stack.pop()
	scope.Memory.store[off.Uint64()] = byte(val.Uint64())
	return nil, nil
}

func opSload(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	loc := scope.Stack.peek()
	hash := common.Hash(loc.Bytes32())
	val := interp.evm.StateDB.GetState(scope.Contract.Address(), hash)
	loc.SetBytes(val.Bytes())
	return nil, nil
}

func opSstore(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	loc, val := scope.Stack.pop(), scope.Stack.pop()
	interp.evm.StateDB.SetState(scope.Contract.Address(), common.Hash(loc.Bytes32()), common.Hash(val.Bytes32()))
	return nil, nil
}

func opTload(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	loc := scope.Stack.peek()
	hash := common.Hash(loc.Bytes32())
	val := interp.evm.StateDB.GetTransientState(scope.Contract.Address(), hash)
	loc.SetBytes(val.Bytes())
	return nil, nil
}

func opTstore(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	loc, val := scope.Stack.pop(), scope.Stack.pop()
	interp.evm.StateDB.SetTransientState(scope.Contract.Address(), common.Hash(loc.Bytes32()), common.Hash(val.Bytes32()))
	return nil, nil
}

func opMcopy(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	dst, src, size := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	scope.Memory.Copy(dst.Uint64(), src.Uint64(), size.Uint64())
	return nil, nil
}

func opJump(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	dest := scope.Stack.pop()
	target, overflow := dest.Uint64WithOverflow()
	if overflow || !validJumpDest(scope, target) {
		return nil, ErrInvalidJump
	}
	*pc = target
	return nil, nil
}

func opJumpi(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	dest, cond := scope.Stack.pop(), scope.Stack.pop()
	if cond.IsZero() {
		*pc++
		return nil, nil
	}
	target, overflow := dest.Uint64WithOverflow()
	if overflow || !validJumpDest(scope, target) {
		return nil, ErrInvalidJump
	}
	*pc = target
	return nil, nil
}

func validJumpDest(scope *ScopeContext, target uint64) bool {
	return target < uint64(len(scope.Jumpdests)) && scope.Jumpdests[target]
}

func opJumpdest(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, nil
}

func opPc(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(*pc))
	return nil, nil
}

func opMsize(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(scope.Memory.Len())))
	return nil, nil
}

func opGas(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(scope.Contract.Gas))
	return nil, nil
}

func opPush0(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int))
	return nil, nil
}

// makePush returns the execution function for PUSH<size>.
func makePush(size uint) executionFunc {
	return func(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
		codeLen := uint64(len(scope.Contract.Code))
		startMin := codeLen
		if *pc+1 < startMin {
			startMin = *pc + 1
		}
		endMin := codeLen
		if *pc+1+uint64(size) < endMin {
			endMin = *pc + 1 + uint64(size)
		}
		integer := new(uint256.Int)
		integer.SetBytes(rightPadBytes(scope.Contract.Code[startMin:endMin], int(size)))
		scope.Stack.push(integer)
		*pc += uint64(size)
		return nil, nil
	}
}

func rightPadBytes(b []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, b)
	return out
}

// makeDup returns the execution function for DUP<n>.
func makeDup(n int) executionFunc {
	return func(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
		scope.Stack.dup(n)
		return nil, nil
	}
}

// makeSwap returns the execution function for SWAP<n>.
func makeSwap(n int) executionFunc {
	n++
	return func(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
		scope.Stack.swap(n)
		return nil, nil
	}
}

// makeLog returns the execution function for LOG<topics>.
func makeLog(topics int) executionFunc {
	return func(pc *uint64, interp *Interpreter, scope *ScopeContext) ([]byte, error) {
		mStart, mSize := scope.Stack.pop(), scope.Stack.pop()
		logTopics := make([]common.Hash, topics)
		for i := 0; i < topics; i++ {
			t := scope.Stack.pop()
			logTopics[i] = common.Hash(t.Bytes32())
		}
		data := scope.Memory.GetCopy(int64(mStart.Uint64()), int64(mSize.Uint64()))
		scope.Contract.Logs = append(scope.Contract.Logs, Log{
			Address: scope.Contract.Address(),
			Topics:  logTopics,
			Data:    data,
		})
		if interp.evm.Config.Tracer != nil && interp.evm.Config.Tracer.OnLog != nil {
			interp.evm.Config.Tracer.OnLog(scope.Contract.Address(), logTopics, data)
		}
		return nil, nil
	}
}

// getData returns data[start:start+size], right-padded with zero bytes
// when the requested window runs past the end (spec.md's "reads past the
// end of calldata/code return zero").
func getData(data []byte, start, size uint64) []byte {
	if start > uint64(len(data)) {
		start = uint64(len(data))
	}
	end := start + size
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	out := make([]byte, size)
	copy(out, data[start:end])
	return out
}
