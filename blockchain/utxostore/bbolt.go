// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxostore

import (
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/NeblioTeam/neblio-sub002/wire"
)

// utxoBucketName is the name of the bucket holding every entry.
var utxoBucketName = []byte("utxo")

// Bbolt is a Repo backed by a bbolt database file.
type Bbolt struct {
	db *bbolt.DB
}

// NewBbolt opens, creating when needed, the bbolt database file at path.
func NewBbolt(path string) (*Bbolt, error) {
	opts := &bbolt.Options{
		Timeout:        time.Second,
		NoFreelistSync: true,
	}
	db, err := bbolt.Open(path, 0600, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(utxoBucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create utxo bucket")
	}
	return &Bbolt{db: db}, nil
}

// Put stores the entry for the outpoint.
func (repo *Bbolt) Put(op wire.OutPoint, entry *Entry) error {
	value, err := serializeEntry(entry)
	if err != nil {
		return errors.Wrapf(err, "serialize %v", op)
	}
	err = repo.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(utxoBucketName).Put(outpointKey(op), value)
	})
	return errors.Wrapf(err, "on put %v", op)
}

// Get returns the entry for the outpoint, or nil when there is none.
func (repo *Bbolt) Get(op wire.OutPoint) (*Entry, error) {
	var entry *Entry
	err := repo.db.View(func(tx *bbolt.Tx) error {
		// The value is only valid for the life of the transaction and
		// is decoded into fresh memory before it ends.
		value := tx.Bucket(utxoBucketName).Get(outpointKey(op))
		if value == nil {
			return nil
		}

		var err error
		entry, err = deserializeEntry(value)
		return err
	})
	return entry, errors.Wrapf(err, "in get %v", op)
}

// Delete removes the entry for the outpoint.
func (repo *Bbolt) Delete(op wire.OutPoint) error {
	err := repo.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(utxoBucketName).Delete(outpointKey(op))
	})
	return errors.Wrapf(err, "on delete %v", op)
}

// Close closes the database.
func (repo *Bbolt) Close() error {
	return errors.Wrap(repo.db.Close(), "on close")
}
