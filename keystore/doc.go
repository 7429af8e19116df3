// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package keystore provides an in-memory store of private keys and redeem
scripts that satisfies txscript.KeyStore.

Keys are imported from their wallet import format encoding or generated for a
network, and are looked up by the hash160 of the serialized public key the way
pay-to-pubkey-hash scripts commit to them.  Redeem scripts are looked up by
their own hash160 the way pay-to-script-hash scripts commit to them.
*/
package keystore
