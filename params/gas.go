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

package params

// Gas costs, named after the constants in spec.md §6 and the fork EIPs that
// introduced or repriced them.
const (
	GasBase        uint64 = 2 // GAS_BASE
	GasQuickStep   uint64 = 2
	GasVeryLow     uint64 = 3 // GAS_VERY_LOW
	GasFastStep    uint64 = 5 // GAS_FAST_STEP
	GasMidStep     uint64 = 8
	GasSlowStep    uint64 = 10
	GasExtStep     uint64 = 20
	GasCopy        uint64 = 3 // GAS_COPY, per word
	GasKeccak256Word uint64 = 6 // GAS_KECCAK256_WORD
	GasBlobHash    uint64 = 3 // GAS_BLOBHASH_OPCODE

	MemoryGas     uint64 = 3
	QuadCoeffDiv  uint64 = 512
	CopyGas       uint64 = 3
	Keccak256Gas     uint64 = 30
	Keccak256WordGas uint64 = 6

	ExpGas         uint64 = 10
	ExpByteFrontier uint64 = 10
	ExpByteEIP158  uint64 = 50

	LogGas      uint64 = 375
	LogDataGas  uint64 = 8
	LogTopicGas uint64 = 375

	CallValueTransferGas uint64 = 9000 // GAS_CALL_VALUE
	CallNewAccountGas    uint64 = 25000 // GAS_NEW_ACCOUNT
	CallStipend          uint64 = 2300

	CreateGas         uint64 = 32000 // GAS_CREATE
	CreateDataGas     uint64 = 200   // GAS_CODE_DEPOSIT, per byte of deployed code
	InitCodeWordGas   uint64 = 2     // per 32-byte word of init code (EIP-3860)

	SstoreSetGas   uint64 = 20000
	SstoreClearGas uint64 = 5000
	SstoreResetGas uint64 = 5000
	SstoreRefundGas uint64 = 15000

	NetSstoreNoopGas          uint64 = 200
	NetSstoreInitGas          uint64 = 20000
	NetSstoreCleanGas         uint64 = 5000
	NetSstoreDirtyGas         uint64 = 200
	NetSstoreClearRefund      uint64 = 15000
	NetSstoreResetRefund      uint64 = 19800
	NetSstoreResetClearRefund uint64 = 4800

	SstoreSentryGasEIP2200             uint64 = 2300
	SloadGasEIP2200                    uint64 = 800
	SstoreSetGasEIP2200                uint64 = 20000
	SstoreResetGasEIP2200              uint64 = 5000
	SstoreClearsScheduleRefundEIP2200  uint64 = 15000
	SstoreClearsScheduleRefundEIP3529  uint64 = 4800

	// RefundQuotientEIP3529 bounds the refund counter to at most
	// gas_used / RefundQuotientEIP3529 (EIP-3529 tightened this from 2 to 5).
	RefundQuotientEIP3529 uint64 = 5

	ColdSloadCostEIP2929        uint64 = 2100 // GAS_COLD_SLOAD
	ColdAccountAccessCostEIP2929 uint64 = 2600 // GAS_COLD_ACCOUNT_ACCESS
	WarmStorageReadCostEIP2929  uint64 = 100  // GAS_WARM_ACCESS

	SelfdestructGasEIP150        uint64 = 5000 // GAS_SELF_DESTRUCT
	SelfdestructRefundGas        uint64 = 24000
	CreateBySelfdestructGas      uint64 = 25000 // GAS_SELF_DESTRUCT_NEW_ACCOUNT
	ExtcodeSizeGasEIP150         uint64 = 700

	CodeAccessWordGas uint64 = 2 // EIP-7702/-2929 code-access cost, per 32-byte word

	CallCreateDepth uint64 = 1024 // STACK_DEPTH_LIMIT

	MaxCodeSize     uint64 = 0x6000 // MAX_CODE_SIZE
	MaxInitCodeSize uint64 = 0xC000 // MAX_INIT_CODE_SIZE

	MinBlobGasPrice            uint64 = 1
	BlobBaseFeeUpdateFraction  uint64 = 3_338_477
)
