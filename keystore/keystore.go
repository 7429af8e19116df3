// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keystore

import (
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/pkg/errors"

	"github.com/NeblioTeam/neblio-sub002/chaincfg"
	"github.com/NeblioTeam/neblio-sub002/txscript"
)

var (
	// ErrWrongNetwork is returned when importing a private key encoded for
	// another network.
	ErrWrongNetwork = errors.New("private key is for a different network")

	// ErrScriptTooLarge is returned when adding a redeem script that could
	// never be pushed by an unlocking script.
	ErrScriptTooLarge = errors.New("redeem script exceeds the maximum " +
		"script element size")
)

// Basic is an in-memory key store holding private keys and redeem scripts.
// Keys are indexed by the hash160 of their serialized public key and scripts
// by the hash160 of the script, as txscript.KeyStore expects.  It is safe for
// concurrent access.
type Basic struct {
	mtx     sync.RWMutex
	keys    map[string]*btcutil.WIF
	scripts map[string][]byte
}

// Ensure Basic implements the txscript.KeyStore interface.
var _ txscript.KeyStore = (*Basic)(nil)

// NewBasic returns an empty key store.
func NewBasic() *Basic {
	return &Basic{
		keys:    make(map[string]*btcutil.WIF),
		scripts: make(map[string][]byte),
	}
}

// AddKey adds the private key and returns its key id.  The key id is derived
// from the public key serialized as the WIF specifies, so the same private key
// added compressed and uncompressed is stored under two ids.
func (b *Basic) AddKey(wif *btcutil.WIF) []byte {
	keyID := btcutil.Hash160(wif.SerializePubKey())

	b.mtx.Lock()
	b.keys[string(keyID)] = wif
	b.mtx.Unlock()

	log.Debugf("Added key %x", keyID)
	return keyID
}

// ImportWIF decodes a WIF encoded private key for the network and adds it.
func (b *Basic) ImportWIF(encoded string, params *chaincfg.Params) ([]byte, error) {
	wif, err := btcutil.DecodeWIF(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "decode private key")
	}
	if !wif.IsForNet(params.AddressParams()) {
		return nil, errors.Wrapf(ErrWrongNetwork, "network %s",
			params.Name)
	}
	return b.AddKey(wif), nil
}

// NewKey generates a private key for the network, adds it and returns it.
func (b *Basic) NewKey(params *chaincfg.Params, compressed bool) (*btcutil.WIF, error) {
	privKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate private key")
	}
	wif, err := btcutil.NewWIF(privKey, params.AddressParams(), compressed)
	if err != nil {
		return nil, errors.Wrap(err, "encode private key")
	}
	b.AddKey(wif)
	return wif, nil
}

// AddScript adds the redeem script and returns its script id.
func (b *Basic) AddScript(script []byte) ([]byte, error) {
	if len(script) > txscript.MaxScriptElementSize {
		return nil, errors.Wrapf(ErrScriptTooLarge, "%d bytes",
			len(script))
	}

	scriptID := btcutil.Hash160(script)
	stored := make([]byte, len(script))
	copy(stored, script)

	b.mtx.Lock()
	b.scripts[string(scriptID)] = stored
	b.mtx.Unlock()

	log.Debugf("Added script %x", scriptID)
	return scriptID, nil
}

// HaveKey returns whether the private key for keyID is held.
func (b *Basic) HaveKey(keyID []byte) bool {
	b.mtx.RLock()
	_, ok := b.keys[string(keyID)]
	b.mtx.RUnlock()
	return ok
}

// GetKey returns the private key for keyID and whether its public key is
// serialized compressed.
func (b *Basic) GetKey(keyID []byte) (*btcec.PrivateKey, bool, bool) {
	b.mtx.RLock()
	wif, ok := b.keys[string(keyID)]
	b.mtx.RUnlock()
	if !ok {
		return nil, false, false
	}
	return wif.PrivKey, wif.CompressPubKey, true
}

// GetPubKey returns the serialized public key for keyID.
func (b *Basic) GetPubKey(keyID []byte) ([]byte, bool) {
	b.mtx.RLock()
	wif, ok := b.keys[string(keyID)]
	b.mtx.RUnlock()
	if !ok {
		return nil, false
	}
	return wif.SerializePubKey(), true
}

// HaveScript returns whether the redeem script for scriptID is held.
func (b *Basic) HaveScript(scriptID []byte) bool {
	b.mtx.RLock()
	_, ok := b.scripts[string(scriptID)]
	b.mtx.RUnlock()
	return ok
}

// GetScript returns the redeem script hashing to scriptID.
func (b *Basic) GetScript(scriptID []byte) ([]byte, bool) {
	b.mtx.RLock()
	script, ok := b.scripts[string(scriptID)]
	b.mtx.RUnlock()
	if !ok {
		return nil, false
	}
	return script, true
}

// KeyIDs returns the ids of every held key in no particular order.
func (b *Basic) KeyIDs() [][]byte {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	ids := make([][]byte, 0, len(b.keys))
	for id := range b.keys {
		ids = append(ids, []byte(id))
	}
	return ids
}
