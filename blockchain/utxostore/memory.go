// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxostore

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/NeblioTeam/neblio-sub002/wire"
)

// Memory is a Repo held in memory.  Entries are kept serialized like the
// persistent backends keep them.  It is safe for concurrent access.
type Memory struct {
	mtx     sync.RWMutex
	entries map[wire.OutPoint][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[wire.OutPoint][]byte)}
}

// Put stores the entry for the outpoint.
func (repo *Memory) Put(op wire.OutPoint, entry *Entry) error {
	value, err := serializeEntry(entry)
	if err != nil {
		return errors.Wrapf(err, "serialize %v", op)
	}

	repo.mtx.Lock()
	repo.entries[op] = value
	repo.mtx.Unlock()
	return nil
}

// Get returns the entry for the outpoint, or nil when there is none.
func (repo *Memory) Get(op wire.OutPoint) (*Entry, error) {
	repo.mtx.RLock()
	value, ok := repo.entries[op]
	repo.mtx.RUnlock()
	if !ok {
		return nil, nil
	}

	entry, err := deserializeEntry(value)
	return entry, errors.Wrapf(err, "corrupt entry for %v", op)
}

// Delete removes the entry for the outpoint.
func (repo *Memory) Delete(op wire.OutPoint) error {
	repo.mtx.Lock()
	delete(repo.entries, op)
	repo.mtx.Unlock()
	return nil
}

// Close releases the entries.
func (repo *Memory) Close() error {
	repo.mtx.Lock()
	repo.entries = make(map[wire.OutPoint][]byte)
	repo.mtx.Unlock()
	return nil
}
