// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

// The following constants are the tags of the script shapes the compact
// script encoding recognizes.
//
// NOTE: This section specifically does not use iota since these values are
// serialized and must be stable for long-term storage.
const (
	// CstPayToPubKeyHash identifies a compressed pay-to-pubkey-hash script.
	CstPayToPubKeyHash = 0

	// CstPayToScriptHash identifies a compressed pay-to-script-hash script.
	CstPayToScriptHash = 1

	// CstPayToPubKeyComp2 and CstPayToPubKeyComp3 identify a pay-to-pubkey
	// script to a compressed pubkey with an even or odd y-coordinate.
	CstPayToPubKeyComp2 = 2
	CstPayToPubKeyComp3 = 3

	// CstPayToPubKeyUncomp4 and CstPayToPubKeyUncomp5 identify a
	// pay-to-pubkey script to an uncompressed pubkey with an even or odd
	// y-coordinate.
	CstPayToPubKeyUncomp4 = 4
	CstPayToPubKeyUncomp5 = 5

	// NumSpecialScripts is the number of special script tags.  Scripts
	// stored as is carry their size offset by it.
	NumSpecialScripts = 6
)

// CompressedScriptDataSize returns the number of bytes following a special
// script tag, or -1 when tag is not a special script tag.
func CompressedScriptDataSize(tag uint64) int {
	switch tag {
	case CstPayToPubKeyHash, CstPayToScriptHash:
		return 20

	case CstPayToPubKeyComp2, CstPayToPubKeyComp3, CstPayToPubKeyUncomp4,
		CstPayToPubKeyUncomp5:
		return 32
	}
	return -1
}

// compressiblePubKey returns the serialized public key of a pay-to-pubkey
// script whose key lies on the curve.  Hybrid keys are not supported.
func compressiblePubKey(script []byte) []byte {
	switch {
	case len(script) == 35 && script[0] == OP_DATA_33 &&
		script[34] == OP_CHECKSIG &&
		(script[1] == 0x02 || script[1] == 0x03):

		return script[1:34]

	case len(script) == 67 && script[0] == OP_DATA_65 &&
		script[66] == OP_CHECKSIG && script[1] == 0x04:

		// The y-coordinate is dropped, so only keys that survive the
		// round trip may be compressed.
		if _, err := btcec.ParsePubKey(script[1:66]); err != nil {
			return nil
		}
		return script[1:66]
	}
	return nil
}

// CompressScript returns the compact encoding of a recognized script shape:
// a tag byte followed by a key hash, script hash or public key x-coordinate.
// It returns false when the script must be stored as is.
func CompressScript(pkScript []byte) ([]byte, bool) {
	if len(pkScript) == 25 && pkScript[0] == OP_DUP &&
		pkScript[1] == OP_HASH160 && pkScript[2] == OP_DATA_20 &&
		pkScript[23] == OP_EQUALVERIFY && pkScript[24] == OP_CHECKSIG {

		out := make([]byte, 21)
		out[0] = CstPayToPubKeyHash
		copy(out[1:], pkScript[3:23])
		return out, true
	}

	if IsPayToScriptHash(pkScript) {
		out := make([]byte, 21)
		out[0] = CstPayToScriptHash
		copy(out[1:], pkScript[2:22])
		return out, true
	}

	pubKey := compressiblePubKey(pkScript)
	if pubKey == nil {
		return nil, false
	}
	out := make([]byte, 33)
	copy(out[1:], pubKey[1:33])
	switch pubKey[0] {
	case 0x02, 0x03:
		out[0] = pubKey[0]
	case 0x04:
		out[0] = CstPayToPubKeyUncomp4 | (pubKey[64] & 0x01)
	}
	return out, true
}

// DecompressScript rebuilds the script a special tag and its data stand for.
// Uncompressed public keys are recovered from their x-coordinate and the
// parity the tag carries.
func DecompressScript(tag uint64, data []byte) ([]byte, error) {
	size := CompressedScriptDataSize(tag)
	if size < 0 {
		return nil, fmt.Errorf("script tag %d is not a special script", tag)
	}
	if len(data) < size {
		return nil, fmt.Errorf("script tag %d needs %d bytes, have %d",
			tag, size, len(data))
	}

	switch tag {
	// <OP_DUP><OP_HASH160><20 byte hash><OP_EQUALVERIFY><OP_CHECKSIG>
	case CstPayToPubKeyHash:
		pkScript := make([]byte, 25)
		pkScript[0] = OP_DUP
		pkScript[1] = OP_HASH160
		pkScript[2] = OP_DATA_20
		copy(pkScript[3:], data[:20])
		pkScript[23] = OP_EQUALVERIFY
		pkScript[24] = OP_CHECKSIG
		return pkScript, nil

	// <OP_HASH160><20 byte script hash><OP_EQUAL>
	case CstPayToScriptHash:
		pkScript := make([]byte, 23)
		pkScript[0] = OP_HASH160
		pkScript[1] = OP_DATA_20
		copy(pkScript[2:], data[:20])
		pkScript[22] = OP_EQUAL
		return pkScript, nil

	// <OP_DATA_33><33 byte compressed pubkey><OP_CHECKSIG>
	case CstPayToPubKeyComp2, CstPayToPubKeyComp3:
		pkScript := make([]byte, 35)
		pkScript[0] = OP_DATA_33
		pkScript[1] = byte(tag)
		copy(pkScript[2:], data[:32])
		pkScript[34] = OP_CHECKSIG
		return pkScript, nil
	}

	// <OP_DATA_65><65 byte uncompressed pubkey><OP_CHECKSIG>
	compressedKey := make([]byte, 33)
	compressedKey[0] = byte(tag - 2)
	copy(compressedKey[1:], data[:32])
	key, err := btcec.ParsePubKey(compressedKey)
	if err != nil {
		return nil, err
	}
	pkScript := make([]byte, 67)
	pkScript[0] = OP_DATA_65
	copy(pkScript[1:], key.SerializeUncompressed())
	pkScript[66] = OP_CHECKSIG
	return pkScript, nil
}
