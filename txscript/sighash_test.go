// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/NeblioTeam/neblio-sub002/wire"
)

// zeroP2PKH is a pay-to-pubkey-hash script paying the all zero key hash.
var zeroP2PKH = hexToBytes("76a914" + "0000000000000000000000000000000000000000" +
	"88ac")

// sigHashTestTx returns a transaction spending one input into one output, both
// locked to zeroP2PKH.
func sigHashTestTx() *wire.MsgTx {
	var prevHash chainhash.Hash
	copy(prevHash[:], bytes.Repeat([]byte{0x11}, chainhash.HashSize))

	tx := wire.NewMsgTx(1, 1600000000)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prevHash, 0), nil))
	tx.AddTxOut(wire.NewTxOut(50000, zeroP2PKH))
	return tx
}

// TestCalcSignatureHashVectors checks signature hashes against values
// computed independently from the serialized transaction.
func TestCalcSignatureHashVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		script   []byte
		hashType SigHashType
		want     string
	}{{
		name:     "all",
		script:   zeroP2PKH,
		hashType: SigHashAll,
		want:     "81e03ddd83081af06cc593e0d95664c2df1956a46a19dbf7df414e20dacee612",
	}, {
		name:     "code separators are not signed",
		script:   append([]byte{OP_CODESEPARATOR}, zeroP2PKH...),
		hashType: SigHashAll,
		want:     "81e03ddd83081af06cc593e0d95664c2df1956a46a19dbf7df414e20dacee612",
	}, {
		name:     "none",
		script:   zeroP2PKH,
		hashType: SigHashNone,
		want:     "10fa934ea1f1286a6280a475824bc9d54a114b7155ab59854e777608b18ef7ff",
	}}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			tx := sigHashTestTx()
			got := CalcSignatureHash(test.script, test.hashType, tx, 0)
			require.Equal(t, hexToBytes(test.want), got)

			// The transaction itself is never modified.
			require.Nil(t, tx.TxIn[0].SignatureScript, spew.Sdump(tx))
		})
	}
}

// TestCalcSignatureHashSentinel ensures signature hashes requested for inputs
// or outputs that don't exist yield the fixed value one instead of failing.
func TestCalcSignatureHashSentinel(t *testing.T) {
	t.Parallel()

	sentinel := make([]byte, 32)
	sentinel[0] = 0x01

	tx := sigHashTestTx()
	tx.AddTxIn(wire.NewTxIn(&tx.TxIn[0].PreviousOutPoint, nil))

	// Input 1 has no corresponding output.
	got := CalcSignatureHash(zeroP2PKH, SigHashSingle, tx, 1)
	require.Equal(t, sentinel, got)
	got = CalcSignatureHash(zeroP2PKH, SigHashSingle|SigHashAnyOneCanPay,
		tx, 1)
	require.Equal(t, sentinel, got)

	// Input index out of range.
	require.Equal(t, sentinel, CalcSignatureHash(zeroP2PKH, SigHashAll, tx, 2))

	// Input 0 has an output, so the hash is a real one.
	require.NotEqual(t, sentinel, CalcSignatureHash(zeroP2PKH, SigHashSingle,
		tx, 0))
}

// TestCalcSignatureHashCommitments ensures each hash type commits to exactly
// the parts of the transaction it is documented to.
func TestCalcSignatureHashCommitments(t *testing.T) {
	t.Parallel()

	base := sigHashTestTx()
	base.AddTxIn(wire.NewTxIn(&base.TxIn[0].PreviousOutPoint, nil))
	base.TxIn[1].PreviousOutPoint.Index = 1
	base.AddTxOut(wire.NewTxOut(10000, zeroP2PKH))

	hashOf := func(tx *wire.MsgTx, hashType SigHashType) []byte {
		return CalcSignatureHash(zeroP2PKH, hashType, tx, 0)
	}

	// Changing the second output.
	changedOut := base.Copy()
	changedOut.TxOut[1].Value = 1
	require.NotEqual(t, hashOf(base, SigHashAll), hashOf(changedOut, SigHashAll))
	require.Equal(t, hashOf(base, SigHashNone), hashOf(changedOut, SigHashNone))
	require.Equal(t, hashOf(base, SigHashSingle),
		hashOf(changedOut, SigHashSingle))

	// Changing the first output, which input 0 commits to under SINGLE.
	changedFirst := base.Copy()
	changedFirst.TxOut[0].Value = 1
	require.NotEqual(t, hashOf(base, SigHashSingle),
		hashOf(changedFirst, SigHashSingle))

	// Changing the other input's sequence.
	changedSeq := base.Copy()
	changedSeq.TxIn[1].Sequence = 7
	require.NotEqual(t, hashOf(base, SigHashAll), hashOf(changedSeq, SigHashAll))
	require.Equal(t, hashOf(base, SigHashNone), hashOf(changedSeq, SigHashNone))

	// Removing the other input entirely.
	oneInput := base.Copy()
	oneInput.TxIn = oneInput.TxIn[:1]
	require.NotEqual(t, hashOf(base, SigHashAll), hashOf(oneInput, SigHashAll))
	require.Equal(t, hashOf(base, SigHashAll|SigHashAnyOneCanPay),
		hashOf(oneInput, SigHashAll|SigHashAnyOneCanPay))

	// The timestamp is committed to.
	changedTime := base.Copy()
	changedTime.Time++
	require.NotEqual(t, hashOf(base, SigHashAll), hashOf(changedTime, SigHashAll))
}
