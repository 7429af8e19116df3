// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxostore

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/NeblioTeam/neblio-sub002/wire"
)

// LevelDB is a Repo backed by a leveldb database.
type LevelDB struct {
	db *leveldb.DB
}

// NewLevelDB opens, creating when needed, the leveldb database at path.
func NewLevelDB(path string) (*LevelDB, error) {
	opts := opt.Options{
		Strict:      opt.DefaultStrict,
		Compression: opt.NoCompression,
		Filter:      filter.NewBloomFilter(10),
	}
	db, err := leveldb.OpenFile(path, &opts)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	return &LevelDB{db: db}, nil
}

// Put stores the entry for the outpoint.
func (repo *LevelDB) Put(op wire.OutPoint, entry *Entry) error {
	value, err := serializeEntry(entry)
	if err != nil {
		return errors.Wrapf(err, "serialize %v", op)
	}
	return errors.WithStack(repo.db.Put(outpointKey(op), value, nil))
}

// Get returns the entry for the outpoint, or nil when there is none.
func (repo *LevelDB) Get(op wire.OutPoint) (*Entry, error) {
	value, err := repo.db.Get(outpointKey(op), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "in get %v", op)
	}

	entry, err := deserializeEntry(value)
	return entry, errors.Wrapf(err, "corrupt entry for %v", op)
}

// Delete removes the entry for the outpoint.
func (repo *LevelDB) Delete(op wire.OutPoint) error {
	return errors.Wrapf(repo.db.Delete(outpointKey(op), nil),
		"on delete %v", op)
}

// Close closes the database.
func (repo *LevelDB) Close() error {
	return errors.Wrap(repo.db.Close(), "on close")
}
