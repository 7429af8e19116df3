// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxostore

import (
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/NeblioTeam/neblio-sub002/blockchain"
	"github.com/NeblioTeam/neblio-sub002/wire"
)

// Supported backend types.
const (
	TypePebble  = "pebble"
	TypeLevelDB = "leveldb"
	TypeBbolt   = "bbolt"
	TypeMemory  = "memory"
)

// ErrUnknownType is returned by Open for an unsupported backend type.
var ErrUnknownType = errors.New("unknown utxo store type")

// SupportedTypes returns the backend types Open accepts.
func SupportedTypes() []string {
	return []string{TypePebble, TypeLevelDB, TypeBbolt, TypeMemory}
}

// Repo defines APIs for accessing unspent transaction outputs in the
// persistence layer.
type Repo interface {
	// Put stores the entry for the outpoint, replacing any stored one.
	Put(op wire.OutPoint, entry *Entry) error

	// Get returns the entry for the outpoint, or nil when there is none.
	Get(op wire.OutPoint) (*Entry, error)

	// Delete removes the entry for the outpoint.  Deleting a missing
	// entry is not an error.
	Delete(op wire.OutPoint) error

	Close() error
}

// Open opens, creating when needed, a store of the given type under dataDir.
func Open(dbType, dataDir string) (Repo, error) {
	var (
		repo Repo
		err  error
	)
	switch dbType {
	case TypePebble:
		repo, err = NewPebble(filepath.Join(dataDir, "utxo_pebble"))
	case TypeLevelDB:
		repo, err = NewLevelDB(filepath.Join(dataDir, "utxo_leveldb"))
	case TypeBbolt:
		repo, err = NewBbolt(filepath.Join(dataDir, "utxo.bolt"))
	case TypeMemory:
		repo = NewMemory()
	default:
		return nil, errors.Wrapf(ErrUnknownType, "%q", dbType)
	}
	if err != nil {
		return nil, err
	}

	log.Infof("Opened %s utxo store in %s", dbType, dataDir)
	return repo, nil
}

// PutTxOuts stores every output of the transaction as unspent at the passed
// block height.
func PutTxOuts(repo Repo, tx *wire.MsgTx, height int32) error {
	txHash := tx.TxHash()
	entry := Entry{
		Height:      height,
		IsCoinBase:  tx.IsCoinBase(),
		IsCoinStake: tx.IsCoinStake(),
	}
	for i, txOut := range tx.TxOut {
		entry.Amount = txOut.Value
		entry.PkScript = txOut.PkScript
		op := wire.OutPoint{Hash: txHash, Index: uint32(i)}
		if err := repo.Put(op, &entry); err != nil {
			return err
		}
	}
	return nil
}

// prevOutputFetcher looks up previous outputs in a Repo.
type prevOutputFetcher struct {
	repo Repo
}

// FetchPrevOutput returns the stored output for op, if any.
func (f prevOutputFetcher) FetchPrevOutput(op wire.OutPoint) (*wire.TxOut, error) {
	entry, err := f.repo.Get(op)
	if err != nil || entry == nil {
		return nil, err
	}
	return wire.NewTxOut(entry.Amount, entry.PkScript), nil
}

// NewPrevOutputFetcher returns a blockchain.PrevOutputFetcher that serves
// previous outputs from repo.
func NewPrevOutputFetcher(repo Repo) blockchain.PrevOutputFetcher {
	return prevOutputFetcher{repo: repo}
}
