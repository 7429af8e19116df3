// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxostore

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"

	"github.com/NeblioTeam/neblio-sub002/blockchain"
	"github.com/NeblioTeam/neblio-sub002/wire"
)

// Entry is an unspent transaction output along with where it was created.
type Entry struct {
	Amount      int64
	PkScript    []byte
	Height      int32
	IsCoinBase  bool
	IsCoinStake bool
}

// -----------------------------------------------------------------------------
// The serialized key format is:
//
//   <hash><output index>
//
//   Field                Type             Size
//   hash                 chainhash.Hash   chainhash.HashSize
//   output index         VLQ              variable
//
// The serialized value format is:
//
//   <header code><compressed txout>
//
//   Field                Type     Size
//   header code          VLQ      variable
//   compressed txout     []byte   variable
//
// The header code is the block height shifted left two bits, with bit 1 set
// for coinstake outputs and bit 0 set for coinbase outputs.  The compressed
// txout is the amount and script compressed by the blockchain package.
// -----------------------------------------------------------------------------

// outpointKey returns the key the outpoint is stored under.
func outpointKey(op wire.OutPoint) []byte {
	idx := uint64(op.Index)
	key := make([]byte, chainhash.HashSize+blockchain.SerializeSizeVLQ(idx))
	copy(key, op.Hash[:])
	blockchain.PutVLQ(key[chainhash.HashSize:], idx)
	return key
}

// serializeEntry returns the entry serialized in the format described above.
func serializeEntry(entry *Entry) ([]byte, error) {
	if entry.Height < 0 {
		return nil, errors.Errorf("negative entry height %d", entry.Height)
	}
	if entry.Amount < 0 {
		return nil, errors.Errorf("negative entry amount %d", entry.Amount)
	}

	headerCode := uint64(entry.Height) << 2
	if entry.IsCoinStake {
		headerCode |= 0x02
	}
	if entry.IsCoinBase {
		headerCode |= 0x01
	}

	amount := uint64(entry.Amount)
	size := blockchain.SerializeSizeVLQ(headerCode) +
		blockchain.CompressedTxOutSize(amount, entry.PkScript)
	serialized := make([]byte, size)
	offset := blockchain.PutVLQ(serialized, headerCode)
	blockchain.PutCompressedTxOut(serialized[offset:], amount,
		entry.PkScript)
	return serialized, nil
}

// deserializeEntry decodes an entry serialized in the format described
// above.
func deserializeEntry(serialized []byte) (*Entry, error) {
	headerCode, bytesRead := blockchain.DeserializeVLQ(serialized)
	if bytesRead >= len(serialized) {
		return nil, errors.New("unexpected end of data after header")
	}

	amount, pkScript, _, err := blockchain.DecodeCompressedTxOut(
		serialized[bytesRead:])
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode utxo")
	}

	return &Entry{
		Amount:      int64(amount),
		PkScript:    pkScript,
		Height:      int32(headerCode >> 2),
		IsCoinBase:  headerCode&0x01 != 0,
		IsCoinStake: headerCode&0x02 != 0,
	}, nil
}
