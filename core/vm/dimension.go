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

package vm

import "github.com/osakavm/coreengine/core/vm/gasdimension"

// dimensionOf classifies an opcode's charge into the resource dimension it
// mirrors from gas_table.go's old ACL tagging: which of computation,
// history growth, storage access or storage growth a unit of gas paid for.
// This never changes the scalar gas accounting the interpreter enforces;
// it only enriches what a live tracer can observe about a single charge.
func dimensionOf(op OpCode) gasdimension.ResourceKind {
	switch op {
	case SLOAD, BALANCE, EXTCODESIZE, EXTCODEHASH, EXTCODECOPY, TLOAD:
		return gasdimension.ResourceKindStorageAccess
	case SSTORE, TSTORE:
		return gasdimension.ResourceKindStorageGrowth
	case CREATE, CREATE2:
		return gasdimension.ResourceKindStorageGrowth
	case LOG0, LOG1, LOG2, LOG3, LOG4:
		return gasdimension.ResourceKindHistoryGrowth
	default:
		return gasdimension.ResourceKindComputation
	}
}
