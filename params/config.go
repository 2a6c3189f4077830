// Copyright 2016 The go-ethereum Authors
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

// ChainConfig names the fork-activation points the gas calculator and
// opcode table must branch on. Activation is expressed as a block number
// for pre-merge forks and a block timestamp for post-merge forks, matching
// how go-ethereum's own ChainConfig is shaped.
//
// The Non-goal in spec.md §1 ("compatibility with pre-Osaka forks") means
// callers outside of tests should only ever construct OsakaChainConfig;
// the older fields exist so the gas calculator can express the handful of
// EIP-1283/-2200/-2929/-3529 branches spec.md §4.A inherited from history
// without hard-coding "always true".
type ChainConfig struct {
	HomesteadBlock      uint64
	EIP150Block         uint64 // gas repricing, "63/64ths" call forwarding
	EIP158Block         uint64 // state clearing
	ByzantiumBlock      uint64
	ConstantinopleBlock uint64
	PetersburgBlock     uint64
	IstanbulBlock       uint64
	BerlinBlock         uint64 // EIP-2929/2930 access lists

	LondonTime  uint64 // EIP-3529 refund reduction, EIP-1559
	ShanghaiTime uint64 // EIP-3855 PUSH0, EIP-3860 init code metering
	CancunTime  uint64 // EIP-1153 transient storage, EIP-4844 blobs, EIP-5656 MCOPY, EIP-6780 SELFDESTRUCT
	PragueTime  uint64 // EIP-7702 set-code authorizations
	OsakaTime   uint64

	maxCodeSizeOverride     uint64
	maxInitCodeSizeOverride uint64
}

// OsakaChainConfig activates every fork from genesis, matching spec.md's
// scope: a single, current protocol revision.
func OsakaChainConfig() *ChainConfig {
	return &ChainConfig{}
}

// MaxCodeSize returns the deployed-code size limit (EIP-170), or the
// override if one was configured.
func (c *ChainConfig) MaxCodeSize() uint64 {
	if c.maxCodeSizeOverride != 0 {
		return c.maxCodeSizeOverride
	}
	return MaxCodeSize
}

// MaxInitCodeSize returns the init-code size limit (EIP-3860), or the
// override if one was configured.
func (c *ChainConfig) MaxInitCodeSize() uint64 {
	if c.maxInitCodeSizeOverride != 0 {
		return c.maxInitCodeSizeOverride
	}
	return MaxInitCodeSize
}

// Rules captures the fork-activation booleans the gas calculator and
// opcode table branch on, derived once per frame from block number and
// timestamp so hot-path code never re-derives them.
type Rules struct {
	IsHomestead, IsEIP150, IsEIP158                       bool
	IsByzantium, IsConstantinople, IsPetersburg, IsIstanbul bool
	IsBerlin                                               bool
	IsLondon, IsShanghai, IsCancun, IsPrague, IsOsaka       bool
}

// Rules derives the fork-activation booleans in effect for the given block
// number and timestamp.
func (c *ChainConfig) Rules(blockNumber uint64, timestamp uint64) Rules {
	return Rules{
		IsHomestead:      blockNumber >= c.HomesteadBlock,
		IsEIP150:         blockNumber >= c.EIP150Block,
		IsEIP158:         blockNumber >= c.EIP158Block,
		IsByzantium:      blockNumber >= c.ByzantiumBlock,
		IsConstantinople: blockNumber >= c.ConstantinopleBlock,
		IsPetersburg:     blockNumber >= c.PetersburgBlock,
		IsIstanbul:       blockNumber >= c.IstanbulBlock,
		IsBerlin:         blockNumber >= c.BerlinBlock,
		IsLondon:         timestamp >= c.LondonTime,
		IsShanghai:       timestamp >= c.ShanghaiTime,
		IsCancun:         timestamp >= c.CancunTime,
		IsPrague:         timestamp >= c.PragueTime,
		IsOsaka:          timestamp >= c.OsakaTime,
	}
}
