// Copyright (c) 2013-2018 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"

	"github.com/NeblioTeam/neblio-sub002/chaincfg"
	"github.com/NeblioTeam/neblio-sub002/wire"
)

// ScriptFlags is a bitmask defining additional operations or tests that will be
// done when executing a script pair.
type ScriptFlags uint32

const (
	// ScriptBip16 defines whether the bip16 threshold has passed and thus
	// pay-to-script hash transactions will be fully validated.
	ScriptBip16 ScriptFlags = 1 << iota

	// ScriptVerifyStrictEncoding defines that signatures and public keys
	// must follow the canonical encoding requirements.  A signature check
	// against a non-canonical signature or public key yields false.
	ScriptVerifyStrictEncoding

	// ScriptVerifyNoCache defines that successfully verified signatures are
	// not inserted into the signature cache.  Lookups still happen.
	ScriptVerifyNoCache

	// ScriptVerifyMinimalData defines that data interpreted as numbers must
	// be minimally encoded.
	ScriptVerifyMinimalData
)

const (
	// MandatoryVerifyFlags are the script flags every transaction on the
	// chain has to satisfy.
	MandatoryVerifyFlags = ScriptBip16

	// StandardVerifyFlags are the script flags which are used when
	// executing transaction scripts to enforce additional checks which are
	// required for the script to be considered standard.
	StandardVerifyFlags = MandatoryVerifyFlags |
		ScriptVerifyStrictEncoding
)

const (
	// MaxStackSize is the maximum combined height of stack and alt stack
	// during execution.
	MaxStackSize = 1000

	// MaxScriptSize is the maximum allowed length of a raw script.
	MaxScriptSize = 10000

	// MaxOpsPerScript is the maximum number of non-push operations.
	MaxOpsPerScript = 201

	// MaxPubKeysPerMultiSig is the maximum number of public keys allowed in
	// a multi-signature transaction output script.
	MaxPubKeysPerMultiSig = 20

	// MaxScriptElementSize is the maximum number of bytes pushable to the
	// stack.
	MaxScriptElementSize = 520

	// LockTimeThreshold is the number below which a lock time is
	// interpreted to be a block number.  Since an average of one block
	// is generated per 10 minutes, this allows blocks for about 9,512
	// years.
	LockTimeThreshold = 5e8 // Tue Nov 5 00:53:20 1985 UTC
)

// ColdStakeChecker decides whether the transaction being validated is a valid
// cold stake spend of an output locked by script.  The script passed is the
// one currently executing, which for a cold stake output is the output's
// locking script.
type ColdStakeChecker interface {
	// CheckColdStake reports whether every output of the transaction
	// returns to script.
	CheckColdStake(script []byte) bool

	// CheckPoolColdStake reports the same as CheckColdStake except that a
	// final output paying the staking pool is permitted.
	CheckPoolColdStake(script []byte) bool
}

// EngineOption configures optional collaborators of the script engine.
type EngineOption func(*Engine)

// WithSigCache makes the engine consult and populate the provided signature
// cache.
func WithSigCache(sigCache *SigCache) EngineOption {
	return func(vm *Engine) {
		vm.sigCache = sigCache
	}
}

// WithColdStakeChecker supplies the predicate evaluated by the cold staking
// opcodes.  Without one those opcodes always fail.
func WithColdStakeChecker(checker ColdStakeChecker) EngineOption {
	return func(vm *Engine) {
		vm.coldStake = checker
	}
}

// WithChainParams selects the network whose activation times apply.  Main
// network parameters are used when none are provided.
func WithChainParams(params *chaincfg.Params) EngineOption {
	return func(vm *Engine) {
		if params != nil {
			vm.params = params
		}
	}
}

// Engine is the virtual machine that executes a single script.
type Engine struct {
	// The following fields are set when the engine is created and must not
	// be changed afterwards.
	//
	// flags specifies the additional flags which modify the execution
	// behavior of the engine.
	//
	// hashType, when non-zero, is the only signature hash type signatures
	// are allowed to carry.
	//
	// tx identifies the transaction that contains the input which in turn
	// contains the signature script being executed.
	//
	// txIdx identifies the input index within the transaction that contains
	// the signature script being executed.
	flags     ScriptFlags
	hashType  SigHashType
	tx        *wire.MsgTx
	txIdx     int
	sigCache  *SigCache
	coldStake ColdStakeChecker
	params    *chaincfg.Params

	// The following fields handle keeping track of the current execution
	// state of the engine.
	//
	// script houses the script being executed and tokenizer iterates it.
	//
	// lastCodeSep specifies the position within the script of the most
	// recently encountered OP_CODESEPARATOR.
	//
	// dstack is the primary data stack the various opcodes push and pop
	// data to and from during execution.
	//
	// astack is the alternate data stack the various opcodes push and pop
	// data to and from during execution.
	//
	// condStack tracks the conditional execution state with support for
	// multiple nested conditional execution opcodes.
	//
	// numOps tracks the total number of non-push operations in the script
	// and is primarily used to enforce maximum limits.
	script      []byte
	tokenizer   ScriptTokenizer
	lastCodeSep int
	dstack      stack
	astack      stack
	condStack   []int
	numOps      int
}

// hasFlag returns whether the script engine instance has the passed flag set.
func (vm *Engine) hasFlag(flag ScriptFlags) bool {
	return vm.flags&flag == flag
}

// isBranchExecuting returns whether or not the current conditional branch is
// actively executing.  For example, when the data stack has an OP_FALSE on it
// and an OP_IF is encountered, the branch is inactive until an OP_ELSE or
// OP_ENDIF is encountered.  It properly handles nested conditionals.
func (vm *Engine) isBranchExecuting() bool {
	if len(vm.condStack) == 0 {
		return true
	}
	return vm.condStack[len(vm.condStack)-1] == OpCondTrue
}

// executeOpcode performs execution on the passed opcode.  It takes into account
// whether or not it is hidden by conditionals, but some rules still must be
// tested in this case.
func (vm *Engine) executeOpcode(op *opcode, data []byte) error {
	if len(data) > MaxScriptElementSize {
		str := fmt.Sprintf("element size %d exceeds max allowed size %d",
			len(data), MaxScriptElementSize)
		return scriptError(ErrPushSize, str)
	}

	// Note that this includes OP_RESERVED which counts as a push operation.
	if op.value > OP_16 {
		vm.numOps++
		if vm.numOps > MaxOpsPerScript {
			str := fmt.Sprintf("exceeded max operation limit of %d",
				MaxOpsPerScript)
			return scriptError(ErrOpCount, str)
		}
	}

	// Disabled opcodes fail on the program counter, even in unexecuted branches.
	if op.isDisabled() {
		str := fmt.Sprintf("attempt to execute disabled opcode %s", op.name)
		return scriptError(ErrDisabledOpcode, str)
	}

	// Nothing left to do when this is not a conditional opcode and it is
	// not in an executing branch.
	if !vm.isBranchExecuting() && !op.isConditional() {
		return nil
	}

	return op.opfunc(op, data, vm)
}

// execute runs the script to completion or until the first failure.
func (vm *Engine) execute() error {
	for vm.tokenizer.Next() {
		op := &opcodeArray[vm.tokenizer.Opcode()]
		data := vm.tokenizer.Data()

		log.Tracef("%v", newLogClosure(func() string {
			var buf strings.Builder
			disasmOpcode(&buf, op, data, false)
			return fmt.Sprintf("stepping %04x: %s", vm.tokenizer.ByteIndex(),
				buf.String())
		}))

		if err := vm.executeOpcode(op, data); err != nil {
			return err
		}

		// The number of elements in the combination of the data and alt
		// stacks must not exceed the maximum number of stack elements
		// allowed.
		combinedStackSize := vm.dstack.Depth() + vm.astack.Depth()
		if combinedStackSize > MaxStackSize {
			str := fmt.Sprintf("combined stack size %d > max allowed %d",
				combinedStackSize, MaxStackSize)
			return scriptError(ErrStackSize, str)
		}
	}
	if err := vm.tokenizer.Err(); err != nil {
		return err
	}

	if len(vm.condStack) != 0 {
		return scriptError(ErrUnbalancedConditional,
			"end of script reached in conditional execution")
	}

	log.Tracef("%v", newLogClosure(func() string {
		return fmt.Sprintf("stack after script:\n%s", vm.dstack.String())
	}))
	return nil
}

// subScript returns the script since the last OP_CODESEPARATOR.
func (vm *Engine) subScript() []byte {
	return vm.script[vm.lastCodeSep:]
}

// checkSig reports whether sigBytes, a signature with its hash type byte
// appended, is a valid signature by pkBytes over subScript.  Every failure,
// including encoding failures under strict encoding, is reported as false.
func (vm *Engine) checkSig(sigBytes, pkBytes, subScript []byte) bool {
	strict := vm.hasFlag(ScriptVerifyStrictEncoding)
	if strict {
		if err := IsCanonicalPubKey(pkBytes); err != nil {
			log.Tracef("non-canonical pubkey %x: %v", pkBytes, err)
			return false
		}
		if err := IsCanonicalSignature(sigBytes, true); err != nil {
			log.Tracef("non-canonical signature %x: %v", sigBytes, err)
			return false
		}
	}

	pubKey, err := btcec.ParsePubKey(pkBytes)
	if err != nil {
		return false
	}
	if len(sigBytes) == 0 {
		return false
	}

	// Trim off hashtype from the signature string and check if the
	// signature and pubkey conform to the strict encoding requirements
	// depending on the flags.
	hashType := SigHashType(sigBytes[len(sigBytes)-1])
	if vm.hashType != 0 && hashType != vm.hashType {
		return false
	}
	sigBytes = sigBytes[:len(sigBytes)-1]

	var sigHash chainhash.Hash
	copy(sigHash[:], calcSignatureHash(subScript, hashType, vm.tx, vm.txIdx))

	if vm.sigCache != nil && vm.sigCache.Exists(sigHash, sigBytes, pkBytes) {
		return true
	}

	var signature *ecdsa.Signature
	if strict {
		signature, err = ecdsa.ParseDERSignature(sigBytes)
	} else {
		signature, err = ecdsa.ParseSignature(sigBytes)
	}
	if err != nil {
		return false
	}

	valid := signature.Verify(sigHash[:], pubKey)
	if !valid {
		log.Tracef("%v", newLogClosure(func() string {
			return fmt.Sprintf("signature verification failed:\n"+
				"sig: %x\npubkey: %x\nsighash: %v\nscript: %s",
				sigBytes, pkBytes, sigHash, spew.Sdump(subScript))
		}))
		return false
	}

	if vm.sigCache != nil && !vm.hasFlag(ScriptVerifyNoCache) {
		vm.sigCache.Add(sigHash, sigBytes, pkBytes)
	}
	return true
}

// newEngine returns an engine ready to execute script against input txIdx of
// tx, starting from the passed stack.
func newEngine(stk [][]byte, script []byte, tx *wire.MsgTx, txIdx int,
	flags ScriptFlags, hashType SigHashType, opts []EngineOption) (*Engine, error) {

	if tx == nil || txIdx < 0 || txIdx >= len(tx.TxIn) {
		str := fmt.Sprintf("transaction input index %d is out of range",
			txIdx)
		return nil, scriptError(ErrInvalidIndex, str)
	}

	vm := Engine{
		flags:     flags,
		hashType:  hashType,
		tx:        tx,
		txIdx:     txIdx,
		params:    &chaincfg.MainNetParams,
		script:    script,
		tokenizer: MakeScriptTokenizer(script),
	}
	for _, opt := range opts {
		opt(&vm)
	}

	if vm.hasFlag(ScriptVerifyMinimalData) {
		vm.dstack.verifyMinimalData = true
		vm.astack.verifyMinimalData = true
	}

	// The caller's slice must not be appended into.
	vm.dstack.stk = make([][]byte, len(stk), len(stk)+8)
	copy(vm.dstack.stk, stk)

	return &vm, nil
}

// EvalScript executes script with stk as the initial data stack and returns
// the resulting data stack.  The transaction and input index identify the
// spend signatures are checked against.  A non-zero hashType restricts every
// signature to carry exactly that hash type.
//
// Any failure, including a malformed script or a panic during execution, is
// reported as an error and no stack is returned.
func EvalScript(stk [][]byte, script []byte, tx *wire.MsgTx, txIdx int,
	flags ScriptFlags, hashType SigHashType,
	opts ...EngineOption) (result [][]byte, err error) {

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Script execution aborted: %v\nscript: %x", r,
				script)
			result = nil
			err = scriptError(ErrUnknownError,
				fmt.Sprintf("script execution aborted: %v", r))
		}
	}()

	if len(script) > MaxScriptSize {
		str := fmt.Sprintf("script size %d is larger than max allowed "+
			"size %d", len(script), MaxScriptSize)
		return nil, scriptError(ErrScriptSize, str)
	}

	vm, err := newEngine(stk, script, tx, txIdx, flags, hashType, opts)
	if err != nil {
		return nil, err
	}
	if err := vm.execute(); err != nil {
		log.Debugf("Script %v failed: %v", newLogClosure(func() string {
			str, _ := DisasmString(script)
			return str
		}), err)
		return nil, err
	}

	return vm.dstack.stk, nil
}

// stackTopTrue reports whether the stack is non-empty with a true top item.
func stackTopTrue(stk [][]byte) bool {
	return len(stk) > 0 && asBool(stk[len(stk)-1])
}

// VerifyScript verifies that sigScript satisfies pkScript for input txIdx of
// tx.  The signature script is executed first and the public key script then
// runs on the resulting stack.  When ScriptBip16 is set and pkScript is a
// pay-to-script-hash script, the serialized redeem script left on top of the
// signature script's stack is executed as a third script against the rest of
// that stack.
func VerifyScript(sigScript, pkScript []byte, tx *wire.MsgTx, txIdx int,
	flags ScriptFlags, hashType SigHashType, opts ...EngineOption) error {

	stk, err := EvalScript(nil, sigScript, tx, txIdx, flags, hashType,
		opts...)
	if err != nil {
		return err
	}

	var stackCopy [][]byte
	if flags&ScriptBip16 == ScriptBip16 {
		stackCopy = make([][]byte, len(stk))
		copy(stackCopy, stk)
	}

	stk, err = EvalScript(stk, pkScript, tx, txIdx, flags, hashType,
		opts...)
	if err != nil {
		return err
	}
	if !stackTopTrue(stk) {
		return scriptError(ErrEvalFalse,
			"false stack entry at end of script execution")
	}

	if flags&ScriptBip16 != ScriptBip16 || !IsPayToScriptHash(pkScript) {
		return nil
	}

	// Only push data is allowed in the signature script of a
	// pay-to-script-hash spend.
	if !IsPushOnlyScript(sigScript) {
		return scriptError(ErrSigPushOnly,
			"pay to script hash is not push only")
	}

	// The signature script evaluated to true against the hash, so the copy
	// can't be empty: its top item is the serialized redeem script.
	redeemScript := stackCopy[len(stackCopy)-1]
	stackCopy = stackCopy[:len(stackCopy)-1]

	stk, err = EvalScript(stackCopy, redeemScript, tx, txIdx, flags,
		hashType, opts...)
	if err != nil {
		return err
	}
	if !stackTopTrue(stk) {
		return scriptError(ErrEvalFalse,
			"false stack entry at end of redeem script execution")
	}
	return nil
}
