// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"

	"github.com/NeblioTeam/neblio-sub002/chaincfg"
	"github.com/NeblioTeam/neblio-sub002/keystore"
	"github.com/NeblioTeam/neblio-sub002/txscript"
	"github.com/NeblioTeam/neblio-sub002/wire"
)

// newCoinStake returns a coinstake spending one output per prevOut and paying
// each script in pays after the empty marker output.
func newCoinStake(prevOuts []wire.OutPoint, pays ...[]byte) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion, 1600000000)
	for i := range prevOuts {
		tx.AddTxIn(wire.NewTxIn(&prevOuts[i], nil))
	}
	tx.AddTxOut(wire.NewTxOut(0, nil))
	for _, pkScript := range pays {
		tx.AddTxOut(wire.NewTxOut(1000, pkScript))
	}
	return tx
}

// testOutPoint returns a distinct outpoint for n.
func testOutPoint(n byte) wire.OutPoint {
	return wire.OutPoint{Hash: chainhash.Hash{n}, Index: uint32(n)}
}

// TestTxColdStakeChecker ensures the transaction shapes accepted as cold stake
// spends.
func TestTxColdStakeChecker(t *testing.T) {
	t.Parallel()

	staked := []byte{txscript.OP_TRUE, 0x01}
	other := []byte{txscript.OP_TRUE, 0x02}
	fee := []byte{txscript.OP_TRUE, 0x03}
	op1, op2 := testOutPoint(1), testOutPoint(2)
	prevOuts := PrevOutputMap{
		op1: wire.NewTxOut(500, staked),
		op2: wire.NewTxOut(500, other),
	}

	notEmptyMarker := newCoinStake([]wire.OutPoint{op1}, staked)
	notEmptyMarker.TxOut[0].Value = 1

	coinBase := wire.NewMsgTx(wire.TxVersion, 0)
	coinBase.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{},
		wire.MaxPrevOutIndex), nil))
	coinBase.AddTxOut(wire.NewTxOut(0, nil))
	coinBase.AddTxOut(wire.NewTxOut(1000, staked))

	tests := []struct {
		name     string
		tx       *wire.MsgTx
		prevOuts PrevOutputFetcher
		cold     bool
		pool     bool
	}{{
		name: "single output",
		tx:   newCoinStake([]wire.OutPoint{op1}, staked),
		cold: true,
		pool: true,
	}, {
		name: "split outputs",
		tx:   newCoinStake([]wire.OutPoint{op1}, staked, staked),
		cold: true,
		pool: true,
	}, {
		name: "pool fee output",
		tx:   newCoinStake([]wire.OutPoint{op1}, staked, fee),
		cold: false,
		pool: true,
	}, {
		name: "pool fee with split outputs",
		tx:   newCoinStake([]wire.OutPoint{op1}, staked, staked, fee),
		cold: false,
		pool: true,
	}, {
		name: "fee in the middle",
		tx:   newCoinStake([]wire.OutPoint{op1}, staked, fee, staked),
		cold: false,
		pool: false,
	}, {
		name: "first output elsewhere",
		tx:   newCoinStake([]wire.OutPoint{op1}, other),
		cold: false,
		pool: false,
	}, {
		name:     "staked input",
		tx:       newCoinStake([]wire.OutPoint{op1}, staked),
		prevOuts: prevOuts,
		cold:     true,
		pool:     true,
	}, {
		name:     "input of another script",
		tx:       newCoinStake([]wire.OutPoint{op1, op2}, staked),
		prevOuts: prevOuts,
		cold:     false,
		pool:     false,
	}, {
		name:     "unknown input",
		tx:       newCoinStake([]wire.OutPoint{testOutPoint(3)}, staked),
		prevOuts: prevOuts,
		cold:     false,
		pool:     false,
	}, {
		name: "marker output not empty",
		tx:   notEmptyMarker,
		cold: false,
		pool: false,
	}, {
		name: "coinbase",
		tx:   coinBase,
		cold: false,
		pool: false,
	}, {
		name: "no transaction",
		tx:   nil,
		cold: false,
		pool: false,
	}}

	for _, test := range tests {
		checker := NewTxColdStakeChecker(test.tx, test.prevOuts)
		require.Equal(t, test.cold, checker.CheckColdStake(staked), test.name)
		require.Equal(t, test.pool, checker.CheckPoolColdStake(staked),
			test.name)
	}
}

// coldStakeFixture holds a staker and owner key and their cold stake script.
type coldStakeFixture struct {
	staker   *keystore.Basic
	owner    *keystore.Basic
	pkScript []byte
	prevOut  wire.OutPoint
	prevOuts PrevOutputMap
}

func newColdStakeFixture(t *testing.T, pool bool) *coldStakeFixture {
	t.Helper()

	params := &chaincfg.RegressionNetParams
	staker, owner := keystore.NewBasic(), keystore.NewBasic()
	stakerKey, err := staker.NewKey(params, true)
	require.NoError(t, err)
	ownerKey, err := owner.NewKey(params, true)
	require.NoError(t, err)

	build := txscript.PayToColdStakeScript
	if pool {
		build = txscript.PayToPoolColdStakeScript
	}
	pkScript, err := build(btcutil.Hash160(stakerKey.SerializePubKey()),
		btcutil.Hash160(ownerKey.SerializePubKey()))
	require.NoError(t, err)

	prevOut := testOutPoint(7)
	return &coldStakeFixture{
		staker:   staker,
		owner:    owner,
		pkScript: pkScript,
		prevOut:  prevOut,
		prevOuts: PrevOutputMap{prevOut: wire.NewTxOut(5000, pkScript)},
	}
}

// TestColdStakeSpends ensures cold stake outputs may be staked by the staker
// only through a conforming coinstake while the owner spends them freely.
func TestColdStakeSpends(t *testing.T) {
	t.Parallel()

	for _, pool := range []bool{false, true} {
		f := newColdStakeFixture(t, pool)
		inputs := []wire.OutPoint{f.prevOut}

		// The staker signs a coinstake returning the stake.
		tx := newCoinStake(inputs, f.pkScript, f.pkScript)
		err := txscript.SignTxInput(f.staker, f.pkScript, tx, 0,
			txscript.SigHashAll, true, txscript.WithColdStakeChecker(
				NewTxColdStakeChecker(tx, f.prevOuts)))
		require.NoError(t, err)
		require.NoError(t, ValidateTransactionScripts(tx, f.prevOuts,
			txscript.StandardVerifyFlags, nil))

		// The staker may not divert the stake.
		diverted := newCoinStake(inputs, f.pkScript,
			[]byte{txscript.OP_TRUE}, f.pkScript)
		err = txscript.SignTxInput(f.staker, f.pkScript, diverted, 0,
			txscript.SigHashAll, true, txscript.WithColdStakeChecker(
				NewTxColdStakeChecker(diverted, f.prevOuts)))
		require.True(t, txscript.IsErrorCode(err,
			txscript.ErrCheckColdStakeVerify), "pool %v: got %v", pool, err)

		err = ValidateTransactionScripts(diverted, f.prevOuts,
			txscript.StandardVerifyFlags, nil)
		rerr, ok := err.(RuleError)
		require.True(t, ok, "got %T", err)
		require.Equal(t, ErrScriptValidation, rerr.ErrorCode)

		// The owner spends with an ordinary transaction.
		spend := wire.NewMsgTx(wire.TxVersion, 1600000000)
		spend.AddTxIn(wire.NewTxIn(&f.prevOut, nil))
		spend.AddTxOut(wire.NewTxOut(4000, []byte{txscript.OP_TRUE}))
		err = txscript.SignTxInput(f.owner, f.pkScript, spend, 0,
			txscript.SigHashAll, false)
		require.NoError(t, err)
		require.NoError(t, ValidateTransactionScripts(spend, f.prevOuts,
			txscript.StandardVerifyFlags, nil))
	}
}
