// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"

	"github.com/NeblioTeam/neblio-sub002/chaincfg"
	"github.com/NeblioTeam/neblio-sub002/txscript"
	"github.com/NeblioTeam/neblio-sub002/wire"
)

// testRawTx returns a hex encoded transaction spending prevOut.
func testRawTx(t *testing.T, prevOut wire.OutPoint) string {
	t.Helper()

	tx := wire.NewMsgTx(wire.TxVersion, 1600000000)
	tx.AddTxIn(wire.NewTxIn(&prevOut, nil))
	tx.AddTxOut(wire.NewTxOut(1000, []byte{txscript.OP_TRUE}))

	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	return hex.EncodeToString(buf.Bytes())
}

// TestParsePrevOut ensures spent outputs are decoded from the command line
// form.
func TestParsePrevOut(t *testing.T) {
	t.Parallel()

	txid := strings.Repeat("ab", chainhash.HashSize)
	op, txOut, err := parsePrevOut(txid + ":3:5000:51")
	require.NoError(t, err)
	hash, err := chainhash.NewHashFromStr(txid)
	require.NoError(t, err)
	require.Equal(t, *wire.NewOutPoint(hash, 3), op)
	require.Equal(t, wire.NewTxOut(5000, []byte{txscript.OP_TRUE}), txOut)

	// Empty scripts are allowed.
	_, txOut, err = parsePrevOut(txid + ":0:0:")
	require.NoError(t, err)
	require.Empty(t, txOut.PkScript)

	tests := []string{
		"",
		txid + ":0:5000",
		"zz:0:5000:51",
		txid + ":-1:5000:51",
		txid + ":4294967296:5000:51",
		txid + ":0:-5:51",
		txid + ":0:lots:51",
		txid + ":0:5000:5",
		txid + ":0:5000:51:extra",
	}
	for _, test := range tests {
		_, _, err := parsePrevOut(test)
		require.Error(t, err, test)
	}
}

// TestParseConfig ensures options are validated and resolved.
func TestParseConfig(t *testing.T) {
	t.Parallel()

	prevOut := wire.OutPoint{Hash: chainhash.Hash{0x01}, Index: 2}
	rawTx := testRawTx(t, prevOut)
	prevOutArg := prevOut.Hash.String() + ":2:1500:51"

	cfg, _, err := parseConfig([]string{"--rawtx", rawTx,
		"--prevout", prevOutArg, "--datadir", "/tmp/sc"})
	require.NoError(t, err)
	require.Equal(t, &chaincfg.MainNetParams, cfg.params)
	require.Equal(t, filepath.Join("/tmp/sc", "mainnet"), cfg.DataDir)
	require.Equal(t, defaultDbType, cfg.DbType)
	require.Equal(t, prevOut, cfg.tx.TxIn[0].PreviousOutPoint)
	require.Equal(t, wire.NewTxOut(1500, []byte{txscript.OP_TRUE}),
		cfg.spent[prevOut])
	require.Equal(t, txscript.StandardVerifyFlags, scriptFlags(cfg))

	cfg, _, err = parseConfig([]string{"--rawtx", rawTx, "--regtest",
		"--dbtype", "bbolt", "--nop2sh", "--nostrict", "-d", "trace"})
	require.NoError(t, err)
	require.Equal(t, &chaincfg.RegressionNetParams, cfg.params)
	require.Empty(t, cfg.spent)
	require.Zero(t, scriptFlags(cfg)&txscript.ScriptBip16)
	require.Zero(t, scriptFlags(cfg)&txscript.ScriptVerifyStrictEncoding)

	cfg, _, err = parseConfig([]string{"--rawtx", rawTx, "--testnet"})
	require.NoError(t, err)
	require.Equal(t, &chaincfg.TestNetParams, cfg.params)

	tests := []struct {
		name string
		args []string
	}{
		{"two networks", []string{"--rawtx", rawTx, "--testnet", "--regtest"}},
		{"unknown db", []string{"--rawtx", rawTx, "--dbtype", "ffldb"}},
		{"bad debug level", []string{"--rawtx", rawTx, "-d", "loud"}},
		{"no transaction", nil},
		{"transaction not hex", []string{"--rawtx", "xyz"}},
		{"truncated transaction", []string{"--rawtx", rawTx[:20]}},
		{"bad prevout", []string{"--rawtx", rawTx, "--prevout", "1:2"}},
		{"unknown option", []string{"--rawtx", rawTx, "--simnet"}},
	}
	for _, test := range tests {
		_, _, err := parseConfig(test.args)
		require.Error(t, err, test.name)
	}
}
