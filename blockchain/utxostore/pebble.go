// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxostore

import (
	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"

	"github.com/NeblioTeam/neblio-sub002/wire"
)

// Pebble is a Repo backed by a pebble database.
type Pebble struct {
	db *pebble.DB
}

// NewPebble opens, creating when needed, the pebble database at path.
func NewPebble(path string) (*Pebble, error) {
	db, err := pebble.Open(path, &pebble.Options{MaxOpenFiles: 2000})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	return &Pebble{db: db}, nil
}

// Put stores the entry for the outpoint.
func (repo *Pebble) Put(op wire.OutPoint, entry *Entry) error {
	value, err := serializeEntry(entry)
	if err != nil {
		return errors.Wrapf(err, "serialize %v", op)
	}
	return errors.WithStack(repo.db.Set(outpointKey(op), value, pebble.NoSync))
}

// Get returns the entry for the outpoint, or nil when there is none.
func (repo *Pebble) Get(op wire.OutPoint) (*Entry, error) {
	value, closer, err := repo.db.Get(outpointKey(op))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "in get %v", op)
	}
	defer closer.Close()

	entry, err := deserializeEntry(value)
	return entry, errors.Wrapf(err, "corrupt entry for %v", op)
}

// Delete removes the entry for the outpoint.
func (repo *Pebble) Delete(op wire.OutPoint) error {
	return errors.Wrapf(repo.db.Delete(outpointKey(op), pebble.NoSync),
		"on delete %v", op)
}

// Close flushes pending writes and closes the database.
func (repo *Pebble) Close() error {
	err := repo.db.Flush()
	if err != nil {
		return errors.Wrap(err, "on flush")
	}

	err = repo.db.Close()
	return errors.Wrap(err, "on close")
}
