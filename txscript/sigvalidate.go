// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// minSigLen is the minimum length of a canonical signature including
	// the trailing hash type byte: 0x30 + <1-byte> + 0x02 + 0x01 + <byte> +
	// 0x2 + 0x01 + <byte> + <hashtype>.
	minSigLen = 9

	// maxSigLen is the maximum length of a canonical signature including
	// the trailing hash type byte: 0x30 + <1-byte> + 0x02 + 0x21 + <33 bytes>
	// + 0x2 + 0x21 + <33 bytes> + <hashtype>.
	maxSigLen = 73

	// asn1SequenceID is the ASN.1 identifier for a sequence and is used when
	// parsing and validating DER signatures.
	asn1SequenceID = 0x30

	// asn1IntegerID is the ASN.1 identifier for an integer and is used when
	// parsing and validating DER signatures.
	asn1IntegerID = 0x02
)

// checkHashTypeEncoding returns whether or not the passed hashtype adheres to
// the canonical encoding requirements.
func checkHashTypeEncoding(hashType SigHashType) error {
	sigHashType := hashType & ^SigHashAnyOneCanPay
	if sigHashType < SigHashAll || sigHashType > SigHashSingle {
		str := fmt.Sprintf("invalid hash type 0x%x", hashType)
		return scriptError(ErrInvalidSigHashType, str)
	}
	return nil
}

// IsCanonicalPubKey returns nil when pubKey is a compressed (33 bytes with a
// 0x02 or 0x03 prefix) or uncompressed (65 bytes with a 0x04 prefix) public
// key encoding.
func IsCanonicalPubKey(pubKey []byte) error {
	if len(pubKey) < 33 {
		str := fmt.Sprintf("public key %x is too short", pubKey)
		return scriptError(ErrPubKeyType, str)
	}

	switch pubKey[0] {
	case 0x04:
		if len(pubKey) != 65 {
			str := fmt.Sprintf("uncompressed public key %x has "+
				"invalid length %d", pubKey, len(pubKey))
			return scriptError(ErrPubKeyType, str)
		}
	case 0x02, 0x03:
		if len(pubKey) != 33 {
			str := fmt.Sprintf("compressed public key %x has "+
				"invalid length %d", pubKey, len(pubKey))
			return scriptError(ErrPubKeyType, str)
		}
	default:
		str := fmt.Sprintf("public key %x has unknown format 0x%02x",
			pubKey, pubKey[0])
		return scriptError(ErrPubKeyType, str)
	}
	return nil
}

// IsCanonicalSignature returns nil when sig, a DER signature followed by a
// hash type byte, is canonically encoded.  When requireLowS is set the S
// value must additionally be at most half the curve order.
//
// The format of a DER encoded signature with hash type is as follows:
//
//	0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S> <hashtype>
//	  - 0x30 is the ASN.1 identifier for a sequence
//	  - Total length is 1 byte and specifies length of all remaining data
//	    excluding the hash type
//	  - 0x02 is the ASN.1 identifier that specifies an integer follows
//	  - Length of R is 1 byte and specifies how many bytes R occupies
//	  - R is the arbitrary length big-endian encoded number which
//	    represents the R value of the signature.  DER encoding dictates
//	    that the value must be encoded using the minimum possible number
//	    of bytes.  This implies the first byte can only be null if the
//	    highest bit of the next byte is set in order to prevent it from
//	    being interpreted as a negative number.
//	  - 0x02 is once again the ASN.1 integer identifier
//	  - Length of S is 1 byte and specifies how many bytes S occupies
//	  - S is the arbitrary length big-endian encoded number which
//	    represents the S value of the signature.  The encoding rules are
//	    identical as those for R.
//	  - The hash type byte is one of the known hash types, optionally
//	    combined with SigHashAnyOneCanPay.
func IsCanonicalSignature(sig []byte, requireLowS bool) error {
	sigLen := len(sig)
	if sigLen < minSigLen {
		str := fmt.Sprintf("malformed signature: too short: %d < %d",
			sigLen, minSigLen)
		return scriptError(ErrSigTooShort, str)
	}
	if sigLen > maxSigLen {
		str := fmt.Sprintf("malformed signature: too long: %d > %d",
			sigLen, maxSigLen)
		return scriptError(ErrSigTooLong, str)
	}
	if err := checkHashTypeEncoding(SigHashType(sig[sigLen-1])); err != nil {
		return err
	}

	// The signature must start with the ASN.1 sequence identifier and its
	// length must account for everything but the header and hash type.
	if sig[0] != asn1SequenceID {
		str := fmt.Sprintf("malformed signature: format has wrong type: "+
			"%#x", sig[0])
		return scriptError(ErrSigInvalidSeqID, str)
	}
	if int(sig[1]) != sigLen-3 {
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			sig[1], sigLen-3)
		return scriptError(ErrSigInvalidDataLen, str)
	}

	// The S type and length bytes must lie inside the signature.
	rLen := int(sig[3])
	sTypeOffset := 4 + rLen
	sLenOffset := sTypeOffset + 1
	if sTypeOffset >= sigLen {
		str := "malformed signature: S type indicator missing"
		return scriptError(ErrSigMissingSTypeID, str)
	}
	if sLenOffset >= sigLen {
		str := "malformed signature: S length missing"
		return scriptError(ErrSigMissingSLen, str)
	}

	// The lengths of R and S must account for the entire signature.
	sLen := int(sig[sLenOffset])
	if rLen+sLen+7 != sigLen {
		str := fmt.Sprintf("malformed signature: invalid S length %d "+
			"for R length %d", sLen, rLen)
		return scriptError(ErrSigInvalidSLen, str)
	}

	// R elements must be ASN.1 integers.
	if sig[2] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: R integer marker: "+
			"%#x != %#x", sig[2], asn1IntegerID)
		return scriptError(ErrSigInvalidRIntID, str)
	}

	// Zero-length integers are not allowed for R.
	if rLen == 0 {
		str := "malformed signature: R length is zero"
		return scriptError(ErrSigZeroRLen, str)
	}

	// R must not be negative.
	if sig[4]&0x80 != 0 {
		str := "malformed signature: R is negative"
		return scriptError(ErrSigNegativeR, str)
	}

	// Null bytes at the start of R are not allowed, unless R would otherwise
	// be interpreted as a negative number.
	if rLen > 1 && sig[4] == 0x00 && sig[5]&0x80 == 0 {
		str := "malformed signature: R value has too much padding"
		return scriptError(ErrSigTooMuchRPadding, str)
	}

	// S elements must be ASN.1 integers.
	if sig[sTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: S integer marker: "+
			"%#x != %#x", sig[sTypeOffset], asn1IntegerID)
		return scriptError(ErrSigInvalidSIntID, str)
	}

	// Zero-length integers are not allowed for S.
	if sLen == 0 {
		str := "malformed signature: S length is zero"
		return scriptError(ErrSigZeroSLen, str)
	}

	// S must not be negative.
	sOffset := sLenOffset + 1
	if sig[sOffset]&0x80 != 0 {
		str := "malformed signature: S is negative"
		return scriptError(ErrSigNegativeS, str)
	}

	// Null bytes at the start of S are not allowed, unless S would
	// otherwise be interpreted as a negative number.
	if sLen > 1 && sig[sOffset] == 0x00 && sig[sOffset+1]&0x80 == 0 {
		str := "malformed signature: S value has too much padding"
		return scriptError(ErrSigTooMuchSPadding, str)
	}

	if requireLowS && !isLowS(sig[sOffset:sOffset+sLen]) {
		str := "signature is not canonical due to unnecessarily high S value"
		return scriptError(ErrSigHighS, str)
	}

	return nil
}

// isLowS reports whether the big-endian S value is at most half the order of
// the secp256k1 group.
func isLowS(sBytes []byte) bool {
	for len(sBytes) > 0 && sBytes[0] == 0x00 {
		sBytes = sBytes[1:]
	}
	if len(sBytes) > 32 {
		return false
	}

	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(sBytes); overflow {
		return false
	}
	return !s.IsOverHalfOrder()
}
