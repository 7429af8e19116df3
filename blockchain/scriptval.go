// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"runtime"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/lru"

	"github.com/NeblioTeam/neblio-sub002/txscript"
	"github.com/NeblioTeam/neblio-sub002/wire"
)

// PrevOutputFetcher looks up the transaction outputs spent by transaction
// inputs.  A nil output with a nil error means the output is unknown or spent.
type PrevOutputFetcher interface {
	FetchPrevOutput(op wire.OutPoint) (*wire.TxOut, error)
}

// PrevOutputMap is a PrevOutputFetcher backed by a map.
type PrevOutputMap map[wire.OutPoint]*wire.TxOut

// FetchPrevOutput returns the output stored for op, if any.
func (m PrevOutputMap) FetchPrevOutput(op wire.OutPoint) (*wire.TxOut, error) {
	return m[op], nil
}

// validatedInput identifies an input whose scripts were already validated
// under a set of flags.
type validatedInput struct {
	hash  chainhash.Hash
	index uint32
	flags txscript.ScriptFlags
}

// ValidatedInputCache remembers the most recently validated transaction inputs
// so their scripts need not be executed again.  It is safe for concurrent
// access.
type ValidatedInputCache struct {
	cache lru.Cache
}

// NewValidatedInputCache returns a cache holding up to limit inputs.
func NewValidatedInputCache(limit uint) *ValidatedInputCache {
	return &ValidatedInputCache{cache: lru.NewCache(limit)}
}

// Contains returns whether input index of the transaction hash was validated
// under flags.
func (c *ValidatedInputCache) Contains(hash *chainhash.Hash, index uint32,
	flags txscript.ScriptFlags) bool {

	return c.cache.Contains(validatedInput{*hash, index, flags})
}

// Add records input index of the transaction hash as validated under flags.
func (c *ValidatedInputCache) Add(hash *chainhash.Hash, index uint32,
	flags txscript.ScriptFlags) {

	c.cache.Add(validatedInput{*hash, index, flags})
}

// txValidateItem holds a transaction input to validate.
type txValidateItem struct {
	txInIndex int
	txIn      *wire.TxIn
}

// txValidator provides a type which asynchronously validates transaction
// inputs.  It provides several channels for communication and a processing
// function that is intended to be in run multiple goroutines.
type txValidator struct {
	validateChan chan *txValidateItem
	quitChan     chan struct{}
	resultChan   chan error
	tx           *wire.MsgTx
	txHash       chainhash.Hash
	prevOuts     PrevOutputFetcher
	flags        txscript.ScriptFlags
	cache        *ValidatedInputCache
	opts         []txscript.EngineOption
}

// sendResult sends the result of a script pair validation on the internal
// result channel while respecting the quit channel.  This allows orderly
// shutdown when the validation process is aborted early due to a validation
// error in one of the other goroutines.
func (v *txValidator) sendResult(result error) {
	select {
	case v.resultChan <- result:
	case <-v.quitChan:
	}
}

// validateInput executes the script pair of a single input.
func (v *txValidator) validateInput(txVI *txValidateItem) error {
	txIn := txVI.txIn
	prevOut, err := v.prevOuts.FetchPrevOutput(txIn.PreviousOutPoint)
	if err != nil {
		str := fmt.Sprintf("unable to fetch output %v referenced "+
			"from transaction %v:%d: %v", txIn.PreviousOutPoint,
			v.txHash, txVI.txInIndex, err)
		return ruleError(ErrBadTxInput, str)
	}
	if prevOut == nil {
		str := fmt.Sprintf("unable to find unspent output %v "+
			"referenced from transaction %v:%d",
			txIn.PreviousOutPoint, v.txHash, txVI.txInIndex)
		return ruleError(ErrMissingTxOut, str)
	}

	sigScript := txIn.SignatureScript
	pkScript := prevOut.PkScript
	err = txscript.VerifyScript(sigScript, pkScript, v.tx, txVI.txInIndex,
		v.flags, 0, v.opts...)
	if err != nil {
		str := fmt.Sprintf("failed to validate input %v:%d which "+
			"references output %v - %v (input script bytes %x, "+
			"prev output script bytes %x)", v.txHash,
			txVI.txInIndex, txIn.PreviousOutPoint, err, sigScript,
			pkScript)
		return ruleError(ErrScriptValidation, str)
	}

	if v.cache != nil {
		v.cache.Add(&v.txHash, uint32(txVI.txInIndex), v.flags)
	}
	return nil
}

// validateHandler consumes items to validate from the internal validate channel
// and returns the result of the validation on the internal result channel. It
// must be run as a goroutine.
func (v *txValidator) validateHandler() {
out:
	for {
		select {
		case txVI := <-v.validateChan:
			err := v.validateInput(txVI)
			v.sendResult(err)
			if err != nil {
				break out
			}

		case <-v.quitChan:
			break out
		}
	}
}

// Validate validates the scripts for all of the passed transaction inputs using
// multiple goroutines.
func (v *txValidator) Validate(items []*txValidateItem) error {
	if len(items) == 0 {
		return nil
	}

	// Limit the number of goroutines to do script validation based on the
	// number of processor cores.  This helps ensure the system stays
	// reasonably responsive under heavy load.
	maxGoRoutines := runtime.NumCPU() * 3
	if maxGoRoutines <= 0 {
		maxGoRoutines = 1
	}
	if maxGoRoutines > len(items) {
		maxGoRoutines = len(items)
	}

	// Start up validation handlers that are used to asynchronously
	// validate each transaction input.
	for i := 0; i < maxGoRoutines; i++ {
		go v.validateHandler()
	}

	// Validate each of the inputs.  The quit channel is closed when any
	// errors occur so all processing goroutines exit regardless of which
	// input had the validation error.
	numInputs := len(items)
	currentItem := 0
	processedItems := 0
	for processedItems < numInputs {
		// Only send items while there are still items that need to
		// be processed.  The select statement will never select a nil
		// channel.
		var validateChan chan *txValidateItem
		var item *txValidateItem
		if currentItem < numInputs {
			validateChan = v.validateChan
			item = items[currentItem]
		}

		select {
		case validateChan <- item:
			currentItem++

		case err := <-v.resultChan:
			processedItems++
			if err != nil {
				close(v.quitChan)
				return err
			}
		}
	}

	close(v.quitChan)
	return nil
}

// newTxValidator returns a new instance of txValidator to be used for
// validating transaction scripts asynchronously.
func newTxValidator(tx *wire.MsgTx, prevOuts PrevOutputFetcher,
	flags txscript.ScriptFlags, cache *ValidatedInputCache,
	opts []txscript.EngineOption) *txValidator {

	// The cold stake checker is bound to the transaction being validated.
	// Caller supplied options come last so they may replace it.
	engineOpts := make([]txscript.EngineOption, 0, len(opts)+1)
	engineOpts = append(engineOpts, txscript.WithColdStakeChecker(
		NewTxColdStakeChecker(tx, prevOuts)))
	engineOpts = append(engineOpts, opts...)

	return &txValidator{
		validateChan: make(chan *txValidateItem),
		quitChan:     make(chan struct{}),
		resultChan:   make(chan error),
		tx:           tx,
		txHash:       tx.TxHash(),
		prevOuts:     prevOuts,
		flags:        flags,
		cache:        cache,
		opts:         engineOpts,
	}
}

// ValidateTransactionScripts validates the scripts for the passed transaction
// using multiple goroutines.  The outputs spent by the inputs are looked up in
// prevOuts.  Inputs found in cache are skipped and inputs that validate are
// added to it; a nil cache disables both.
func ValidateTransactionScripts(tx *wire.MsgTx, prevOuts PrevOutputFetcher,
	flags txscript.ScriptFlags, cache *ValidatedInputCache,
	opts ...txscript.EngineOption) error {

	if len(tx.TxIn) == 0 {
		return ruleError(ErrNoTxInputs, "transaction has no inputs")
	}

	// Collect all of the transaction inputs and required information for
	// validation.
	txHash := tx.TxHash()
	txValItems := make([]*txValidateItem, 0, len(tx.TxIn))
	for txInIdx, txIn := range tx.TxIn {
		// Skip coinbases.
		if txIn.PreviousOutPoint.IsNull() {
			continue
		}

		if cache != nil && cache.Contains(&txHash, uint32(txInIdx), flags) {
			log.Tracef("Skipping validated input %v:%d", txHash,
				txInIdx)
			continue
		}

		txVI := &txValidateItem{
			txInIndex: txInIdx,
			txIn:      txIn,
		}
		txValItems = append(txValItems, txVI)
	}

	// Validate all of the inputs.
	validator := newTxValidator(tx, prevOuts, flags, cache, opts)
	if err := validator.Validate(txValItems); err != nil {
		log.Debugf("Transaction %v failed script validation: %v",
			txHash, err)
		return err
	}

	log.Tracef("Validated %d inputs of transaction %v", len(txValItems),
		txHash)
	return nil
}
