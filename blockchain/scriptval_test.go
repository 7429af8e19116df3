// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/NeblioTeam/neblio-sub002/chaincfg"
	"github.com/NeblioTeam/neblio-sub002/keystore"
	"github.com/NeblioTeam/neblio-sub002/txscript"
	"github.com/NeblioTeam/neblio-sub002/wire"
)

// failingFetcher fails every lookup.
type failingFetcher struct{}

func (failingFetcher) FetchPrevOutput(wire.OutPoint) (*wire.TxOut, error) {
	return nil, errors.New("store unavailable")
}

// newSpendAll returns a transaction spending an output locked by each of the
// passed scripts along with the outputs it spends.
func newSpendAll(pkScripts ...[]byte) (*wire.MsgTx, PrevOutputMap) {
	tx := wire.NewMsgTx(wire.TxVersion, 1600000000)
	prevOuts := make(PrevOutputMap)
	for i, pkScript := range pkScripts {
		op := wire.OutPoint{Hash: chainhash.Hash{0xaa, byte(i)}, Index: uint32(i)}
		prevOuts[op] = wire.NewTxOut(100, pkScript)
		tx.AddTxIn(wire.NewTxIn(&op, nil))
	}
	tx.AddTxOut(wire.NewTxOut(50, []byte{txscript.OP_TRUE}))
	return tx, prevOuts
}

// requireRuleError ensures err is a RuleError with the passed code.
func requireRuleError(t *testing.T, err error, code ErrorCode) {
	t.Helper()

	rerr, ok := err.(RuleError)
	require.True(t, ok, "got %s", spew.Sdump(err))
	require.Equal(t, code, rerr.ErrorCode, rerr.Description)
}

// TestValidateTransactionScripts ensures every input of a transaction is
// validated and the first failure is reported.
func TestValidateTransactionScripts(t *testing.T) {
	t.Parallel()

	trueScript := []byte{txscript.OP_TRUE}
	falseScript := []byte{txscript.OP_FALSE}

	many := make([][]byte, 64)
	for i := range many {
		many[i] = trueScript
	}
	tx, prevOuts := newSpendAll(many...)
	require.NoError(t, ValidateTransactionScripts(tx, prevOuts,
		txscript.StandardVerifyFlags, nil))

	many[37] = falseScript
	tx, prevOuts = newSpendAll(many...)
	err := ValidateTransactionScripts(tx, prevOuts,
		txscript.StandardVerifyFlags, nil)
	requireRuleError(t, err, ErrScriptValidation)

	// An output missing from the source.
	tx, prevOuts = newSpendAll(trueScript, trueScript)
	delete(prevOuts, tx.TxIn[1].PreviousOutPoint)
	err = ValidateTransactionScripts(tx, prevOuts,
		txscript.StandardVerifyFlags, nil)
	requireRuleError(t, err, ErrMissingTxOut)

	// A source that cannot be read.
	err = ValidateTransactionScripts(tx, failingFetcher{},
		txscript.StandardVerifyFlags, nil)
	requireRuleError(t, err, ErrBadTxInput)

	// No inputs at all.
	err = ValidateTransactionScripts(wire.NewMsgTx(wire.TxVersion, 0),
		prevOuts, txscript.StandardVerifyFlags, nil)
	requireRuleError(t, err, ErrNoTxInputs)

	// Coinbase inputs spend nothing.
	coinBase := wire.NewMsgTx(wire.TxVersion, 0)
	coinBase.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{},
		wire.MaxPrevOutIndex), []byte{txscript.OP_0}))
	require.NoError(t, ValidateTransactionScripts(coinBase, failingFetcher{},
		txscript.StandardVerifyFlags, nil))
}

// TestValidateTransactionScriptsSignatures ensures signed inputs validate and
// tampering with the transaction is detected.
func TestValidateTransactionScriptsSignatures(t *testing.T) {
	t.Parallel()

	ks := keystore.NewBasic()
	var pkScripts [][]byte
	for i := 0; i < 3; i++ {
		wif, err := ks.NewKey(&chaincfg.MainNetParams, i != 1)
		require.NoError(t, err)
		pkScript, err := txscript.PayToPubKeyHashScript(
			btcutil.Hash160(wif.SerializePubKey()))
		require.NoError(t, err)
		pkScripts = append(pkScripts, pkScript)
	}

	tx, prevOuts := newSpendAll(pkScripts...)
	for i, pkScript := range pkScripts {
		err := txscript.SignTxInput(ks, pkScript, tx, i,
			txscript.SigHashAll, false)
		require.NoError(t, err)
	}

	sigCache := txscript.NewSigCache(100)
	require.NoError(t, ValidateTransactionScripts(tx, prevOuts,
		txscript.StandardVerifyFlags, nil, txscript.WithSigCache(sigCache)))

	tx.TxOut[0].Value++
	err := ValidateTransactionScripts(tx, prevOuts,
		txscript.StandardVerifyFlags, nil, txscript.WithSigCache(sigCache))
	requireRuleError(t, err, ErrScriptValidation)
}

// TestValidatedInputCache ensures validated inputs are remembered per flags and
// skipped on later validations.
func TestValidatedInputCache(t *testing.T) {
	t.Parallel()

	trueScript := []byte{txscript.OP_TRUE}
	tx, prevOuts := newSpendAll(trueScript, trueScript, trueScript)
	txHash := tx.TxHash()
	flags := txscript.StandardVerifyFlags

	cache := NewValidatedInputCache(10)
	require.NoError(t, ValidateTransactionScripts(tx, prevOuts, flags, cache))
	for i := range tx.TxIn {
		require.True(t, cache.Contains(&txHash, uint32(i), flags))
		require.False(t, cache.Contains(&txHash, uint32(i),
			txscript.MandatoryVerifyFlags))
	}

	// Every input is cached, so the unreadable source is never consulted.
	require.NoError(t, ValidateTransactionScripts(tx, failingFetcher{},
		flags, cache))

	// Other flags are validated afresh.
	err := ValidateTransactionScripts(tx, failingFetcher{},
		txscript.MandatoryVerifyFlags, cache)
	requireRuleError(t, err, ErrBadTxInput)

	// Failed inputs are not remembered.
	failing, failingPrevOuts := newSpendAll([]byte{txscript.OP_FALSE})
	failingHash := failing.TxHash()
	err = ValidateTransactionScripts(failing, failingPrevOuts, flags, cache)
	requireRuleError(t, err, ErrScriptValidation)
	require.False(t, cache.Contains(&failingHash, 0, flags))

	// The cache is bounded.
	small := NewValidatedInputCache(2)
	require.NoError(t, ValidateTransactionScripts(tx, prevOuts, flags, small))
	cached := 0
	for i := range tx.TxIn {
		if small.Contains(&txHash, uint32(i), flags) {
			cached++
		}
	}
	require.Equal(t, 2, cached)
}
