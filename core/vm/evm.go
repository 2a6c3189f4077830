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

	"github.com/holiman/uint256"

	"github.com/osakavm/coreengine/common"
	"github.com/osakavm/coreengine/core/tracing"
	"github.com/osakavm/coreengine/core/vm/gasdimension"
	"github.com/osakavm/coreengine/core/vm/precompile"
	"github.com/osakavm/coreengine/crypto"
	"github.com/osakavm/coreengine/log"
	"github.com/osakavm/coreengine/params"
	"github.com/osakavm/coreengine/state"
)

// delegationPrefix is the EIP-7702 designator that marks an EOA's code as
// delegated to another address: 0xEF0100 followed by a 20-byte address.
var delegationPrefix = []byte{0xef, 0x01, 0x00}

// parseDelegation decodes code as an EIP-7702 delegation designator,
// reporting ok=false if it isn't one.
func parseDelegation(code []byte) (addr common.Address, ok bool) {
	if len(code) != 23 || !bytes.Equal(code[:3], delegationPrefix) {
		return common.Address{}, false
	}
	return common.BytesToAddress(code[3:]), true
}

// Config bundles the optional collaborators an EVM may be given: a live
// tracer for the trace-sink interface (spec.md §6), and a chain owner's
// per-resource rate constraints on top of the scalar gas limit.
type Config struct {
	Tracer      *tracing.Hooks
	Constraints gasdimension.ResourceConstraints
}

// EVM is the call/create engine (spec.md §4.E / component E): it owns
// frame spawning, the snapshot/commit/rollback protocol, child-frame
// result merging, address derivation and EOA-delegation resolution. One
// EVM processes exactly one transaction and is not safe for concurrent or
// repeated use.
type EVM struct {
	BlockContext
	TxContext

	StateDB state.StateDB
	depth   int

	chainConfig *params.ChainConfig
	chainRules  params.Rules

	Config Config

	precompiles precompile.Table

	// GasUsage accumulates every opcode charge by resource dimension
	// across the whole transaction this EVM processes, for the trace
	// sink's observability (spec.md §4.A's [DOMAIN] dimension tagging);
	// it never feeds back into the scalar gas accounting.
	GasUsage gasdimension.MultiGas

	// callGasTemp carries the EIP-150-forwarded gas amount from a
	// gasFunc calculation (whose single return value is the base charge
	// plus that forward) to the instruction body that actually spawns the
	// child message.
	callGasTemp uint64

	interp *Interpreter
}

// NewEVM returns an EVM ready to process one transaction's messages.
func NewEVM(blockCtx BlockContext, txCtx TxContext, sdb state.StateDB, chainConfig *params.ChainConfig, cfg Config) *EVM {
	evm := &EVM{
		BlockContext: blockCtx,
		TxContext:    txCtx,
		StateDB:      sdb,
		chainConfig:  chainConfig,
		chainRules:   chainConfig.Rules(blockCtx.BlockNumber, blockCtx.Time),
		Config:       cfg,
		precompiles:  precompile.Active(),
	}
	evm.interp = NewInterpreter(evm)
	if cfg.Tracer != nil && cfg.Tracer.OnBlockchainInit != nil {
		cfg.Tracer.OnBlockchainInit(chainConfig)
	}
	return evm
}

// ChainConfig returns the chain configuration bound to this EVM.
func (evm *EVM) ChainConfig() *params.ChainConfig { return evm.chainConfig }

// precompileAt returns the precompile at addr, if any and not disabled.
func (evm *EVM) precompileAt(addr common.Address, disabled bool) (precompile.Contract, bool) {
	if disabled {
		return nil, false
	}
	p, ok := evm.precompiles[addr]
	return p, ok
}

// ProcessMessageCall is the top-level entry point (spec.md §4.E.1,
// process_message_call): it dispatches to the create or call path,
// resolves EIP-7702 delegation, and always returns a MessageCallOutput,
// never an error — failures are reported inside the output.
func (evm *EVM) ProcessMessageCall(msg *Message) *MessageCallOutput {
	if msg.IsCreate {
		if uint64(len(msg.Code)) > evm.chainConfig.MaxInitCodeSize() {
			return &MessageCallOutput{Err: ErrMaxInitCodeSizeExceeded}
		}
		if evm.accountHasCodeOrNonce(msg.CurrentTarget) || evm.accountHasStorage(msg.CurrentTarget) {
			return &MessageCallOutput{Err: ErrContractAddressCollision}
		}
		out := evm.processCreateMessage(msg)
		evm.finishTopLevel(msg, out)
		return out
	}

	evm.resolveDelegation(msg)

	out := evm.processMessage(msg)
	evm.finishTopLevel(msg, out)
	return out
}

// finishTopLevel stamps the gas-dimension breakdown, gas accounting and
// pending deletions onto out and fires OnTxEnd, but only for the outermost
// call (depth 0) — ProcessMessageCall is also how child CALL/CREATE opcodes
// spawn frames, and those should not each emit a transaction-end event or
// carry a refund that belongs to the whole transaction.
func (evm *EVM) finishTopLevel(msg *Message, out *MessageCallOutput) {
	if msg.Depth != 0 {
		return
	}
	out.GasDimensions = evm.GasUsage
	out.GasUsed = msg.Gas - out.GasLeft

	// EIP-3529: the refund counter can never give back more than a fifth
	// of the gas actually used.
	refund := evm.StateDB.GetRefund()
	if maxRefund := out.GasUsed / params.RefundQuotientEIP3529; refund > maxRefund {
		refund = maxRefund
	}
	out.GasRefund = refund
	out.GasLeft += refund

	out.AccountsToDelete = evm.StateDB.AccountsToDelete()

	evm.emitTxEnd(out)
}

func (evm *EVM) emitTxEnd(out *MessageCallOutput) {
	if evm.Config.Tracer != nil && evm.Config.Tracer.OnTxEnd != nil {
		evm.Config.Tracer.OnTxEnd(out.GasUsed, out.Err)
	}
}

// resolveDelegation implements spec.md §4.E.1's EOA-delegation resolution:
// if msg.Code begins with the 3-byte delegation designator, the message
// is rewritten to run the designated target's code instead, with
// precompile dispatch disabled on the rewritten frame.
func (evm *EVM) resolveDelegation(msg *Message) {
	if target, ok := parseDelegation(msg.Code); ok {
		log.Debug("resolved EIP-7702 delegation", "account", msg.CurrentTarget, "target", target)
		evm.StateDB.AddAddressToAccessList(target)
		msg.Code = evm.StateDB.GetCode(target)
		msg.CodeAddress = target
		msg.DisablePrecompiles = true
	}
}

func (evm *EVM) accountHasCodeOrNonce(addr common.Address) bool {
	codeHash := evm.StateDB.GetCodeHash(addr)
	return evm.StateDB.GetNonce(addr) != 0 || (codeHash != (common.Hash{}) && codeHash != emptyCodeHashVM)
}

func (evm *EVM) accountHasStorage(addr common.Address) bool {
	return evm.StateDB.HasStorage(addr)
}

// emptyCodeHashVM is keccak256 of the empty byte string.
var emptyCodeHashVM = crypto.Keccak256Hash(nil)

// processCreateMessage implements spec.md §4.E.2 (process_create_message).
func (evm *EVM) processCreateMessage(msg *Message) *MessageCallOutput {
	snapshot := evm.StateDB.Snapshot()

	evm.StateDB.DestroyStorage(msg.CurrentTarget)
	evm.StateDB.MarkAccountCreated(msg.CurrentTarget)
	evm.StateDB.CreateAccount(msg.CurrentTarget)
	if evm.chainRules.IsEIP158 {
		evm.StateDB.SetNonce(msg.CurrentTarget, 1)
	}

	out := evm.processMessage(msg)
	if out.Err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		return out
	}

	contractCode := out.ReturnData
	codeDepositGas := params.CreateDataGas * uint64(len(contractCode))

	fail := func(err error) *MessageCallOutput {
		evm.StateDB.RevertToSnapshot(snapshot)
		out.GasLeft = 0
		out.ReturnData = nil
		out.Err = err
		return out
	}

	if len(contractCode) > 0 && contractCode[0] == 0xEF {
		return fail(ErrInvalidCodePrefix)
	}
	if out.GasLeft < codeDepositGas {
		return fail(ErrOutOfGas)
	}
	if uint64(len(contractCode)) > evm.chainConfig.MaxCodeSize() {
		return fail(ErrMaxCodeSizeExceeded)
	}

	out.GasLeft -= codeDepositGas
	evm.StateDB.SetCode(msg.CurrentTarget, contractCode)
	if evm.Config.Tracer != nil && evm.Config.Tracer.OnCodeChange != nil {
		evm.Config.Tracer.OnCodeChange(msg.CurrentTarget, common.Hash{}, nil, crypto.Keccak256Hash(contractCode), contractCode)
	}
	return out
}

// processMessage implements spec.md §4.E.3 (process_message).
func (evm *EVM) processMessage(msg *Message) *MessageCallOutput {
	if msg.Depth > int(params.CallCreateDepth) {
		// Soft failure local to the would-be child frame: the calling
		// frame gets its forwarded gas back, not a burn.
		return &MessageCallOutput{Err: ErrDepth, GasLeft: msg.Gas}
	}

	snapshot := evm.StateDB.Snapshot()

	if msg.ShouldTransferValue && msg.Value != nil && !msg.Value.IsZero() {
		if !state.CanTransfer(evm.StateDB, msg.Caller, msg.Value) {
			evm.StateDB.RevertToSnapshot(snapshot)
			return &MessageCallOutput{Err: ErrInsufficientBalance, GasLeft: msg.Gas}
		}
		state.MoveEther(evm.StateDB, msg.Caller, msg.CurrentTarget, msg.Value)
	}

	evm.depth = msg.Depth
	if evm.Config.Tracer != nil && evm.Config.Tracer.OnEnter != nil {
		value := msg.Value
		if value == nil {
			value = new(uint256.Int)
		}
		evm.Config.Tracer.OnEnter(msg.Depth, byte(callTypeOf(msg)), msg.Caller, msg.CurrentTarget, msg.Input, msg.Gas, value.ToBig())
	}

	out := evm.executeCode(msg)

	if evm.Config.Tracer != nil && evm.Config.Tracer.OnExit != nil {
		evm.Config.Tracer.OnExit(msg.Depth, out.ReturnData, msg.Gas-out.GasLeft, out.Err, out.Err != nil)
	}

	if out.Err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		out.Logs = nil
	}
	return out
}

func callTypeOf(msg *Message) OpCode {
	if msg.IsCreate {
		return CREATE
	}
	return CALL
}

// executeCode implements spec.md §4.D (execute_code): precompile
// short-circuit, then the interpreter's fetch-decode-execute loop.
func (evm *EVM) executeCode(msg *Message) *MessageCallOutput {
	if p, ok := evm.precompileAt(msg.CodeAddress, msg.DisablePrecompiles); ok {
		gas := p.RequiredGas(msg.Input)
		if gas > msg.Gas {
			return &MessageCallOutput{Err: ErrOutOfGas}
		}
		ret, err := p.Run(msg.Input)
		if err != nil {
			return &MessageCallOutput{Err: err}
		}
		return &MessageCallOutput{GasLeft: msg.Gas - gas, ReturnData: ret}
	}

	contract := NewContract(msg, evm.StateDB.GetCodeHash(msg.CodeAddress))
	contract.Input = msg.Input

	ret, err := evm.interp.Run(contract, msg)

	out := &MessageCallOutput{
		GasLeft:    contract.Gas,
		ReturnData: ret,
		Logs:       contract.Logs,
		Err:        err,
	}
	if isExceptionalHalt(err) {
		out.GasLeft = 0
		out.ReturnData = nil
	}
	return out
}

// MessageCallOutput is the structured result of a completed message
// (spec.md §3). GasUsed, GasRefund and AccountsToDelete are only populated
// on the outermost call's output (finishTopLevel); GasRefund is already
// EIP-3529-clamped and folded into GasLeft by the time the caller sees it.
type MessageCallOutput struct {
	GasLeft          uint64
	GasUsed          uint64
	GasRefund        uint64
	Logs             []Log
	AccountsToDelete []common.Address
	ReturnData       []byte
	Err              error

	// GasDimensions is the per-resource breakdown of every charge made
	// while processing this message and its children, set only on the
	// output of the outermost ProcessMessageCall.
	GasDimensions gasdimension.MultiGas
}

// Log is an event emitted by LOG0..LOG4.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}
