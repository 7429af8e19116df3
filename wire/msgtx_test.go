// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// sampleTx returns a two input, two output transaction used across the tests.
func sampleTx() *MsgTx {
	tx := NewMsgTx(TxVersion, 1540000000)
	prevHash := chainhash.DoubleHashH([]byte("prev"))
	tx.AddTxIn(NewTxIn(NewOutPoint(&prevHash, 0), []byte{0x51}))
	tx.AddTxIn(&TxIn{
		PreviousOutPoint: OutPoint{Hash: prevHash, Index: 7},
		SignatureScript:  bytes.Repeat([]byte{0x01}, 300),
		Sequence:         5,
	})
	tx.AddTxOut(NewTxOut(5000000000, []byte{0x76, 0xa9}))
	tx.AddTxOut(NewTxOut(1, []byte{}))
	tx.LockTime = 42
	return tx
}

// TestTxSerialize ensures transactions round trip through the wire encoding
// including the timestamp field and that the size accounting matches.
func TestTxSerialize(t *testing.T) {
	t.Parallel()

	tx := sampleTx()
	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	require.Equal(t, tx.SerializeSize(), buf.Len())

	// Version followed directly by the timestamp.
	raw := buf.Bytes()
	require.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, raw[:4])
	require.Equal(t, []byte{0x80, 0x6b, 0xca, 0x5b}, raw[4:8])

	var decoded MsgTx
	require.NoError(t, decoded.Deserialize(bytes.NewReader(raw)))
	require.Equal(t, tx, &decoded, spew.Sdump(decoded))
	require.Equal(t, tx.TxHash(), decoded.TxHash())
}

// TestTxDeserializeErrors ensures truncated and oversized encodings are
// rejected rather than accepted partially.
func TestTxDeserializeErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, sampleTx().Serialize(&buf))
	raw := buf.Bytes()

	for i := 0; i < len(raw); i += 13 {
		var tx MsgTx
		err := tx.Deserialize(bytes.NewReader(raw[:i]))
		require.Error(t, err, "truncated at %d", i)
	}

	// Version, time and an absurd input count.
	huge := []byte{
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	}
	var tx MsgTx
	err := tx.Deserialize(bytes.NewReader(huge))
	require.IsType(t, &MessageError{}, err)
}

// TestTxCopy ensures a copied transaction does not share script memory with
// the original.
func TestTxCopy(t *testing.T) {
	t.Parallel()

	tx := sampleTx()
	txCopy := tx.Copy()
	require.Equal(t, tx, txCopy)

	txCopy.TxIn[0].SignatureScript[0] = 0x00
	txCopy.TxOut[0].PkScript[0] = 0x00
	require.Equal(t, byte(0x51), tx.TxIn[0].SignatureScript[0])
	require.Equal(t, byte(0x76), tx.TxOut[0].PkScript[0])
	require.NotEqual(t, tx.TxHash(), txCopy.TxHash())
}

// TestCoinStake ensures the coinbase and coinstake predicates follow the
// proof-of-stake conventions.
func TestCoinStake(t *testing.T) {
	t.Parallel()

	coinbase := NewMsgTx(TxVersion, 0)
	coinbase.AddTxIn(NewTxIn(&OutPoint{Index: MaxPrevOutIndex}, nil))
	coinbase.AddTxOut(NewTxOut(0, nil))
	require.True(t, coinbase.IsCoinBase())
	require.False(t, coinbase.IsCoinStake())

	stake := sampleTx()
	require.False(t, stake.IsCoinStake())
	stake.TxOut[0] = NewTxOut(0, nil)
	require.True(t, stake.IsCoinStake())
	require.False(t, stake.IsCoinBase())

	stake.TxOut = stake.TxOut[:1]
	require.False(t, stake.IsCoinStake())
}

// TestOutPointString ensures the human-readable outpoint form.
func TestOutPointString(t *testing.T) {
	t.Parallel()

	op := OutPoint{Index: 3}
	require.Equal(t, chainhash.Hash{}.String()+":3", op.String())
	require.False(t, op.IsNull())
	require.True(t, OutPoint{Index: MaxPrevOutIndex}.IsNull())
}
