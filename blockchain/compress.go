// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/NeblioTeam/neblio-sub002/txscript"
)

// errDeserialize signifies that a problem was encountered when deserializing
// data.
type errDeserialize string

// Error implements the error interface.
func (e errDeserialize) Error() string {
	return string(e)
}

// isDeserializeErr returns whether or not the passed error is an errDeserialize
// error.
func isDeserializeErr(err error) bool {
	_, ok := err.(errDeserialize)
	return ok
}

// IsDeserializeErr returns whether or not the passed error was produced while
// decoding corrupt compressed data.
func IsDeserializeErr(err error) bool {
	return isDeserializeErr(err)
}

// -----------------------------------------------------------------------------
// A variable length quantity (VLQ) is an encoding that uses an arbitrary number
// of binary octets to represent an arbitrarily large integer.  The scheme
// employs a most significant byte (MSB) base-128 encoding where the high bit in
// each byte indicates whether or not the byte is the final one.  In addition,
// to ensure there are no redundant encodings, an offset is subtracted every
// time a group of 7 bits is shifted out.  Therefore each integer can be
// represented in exactly one way, and each representation stands for exactly
// one integer.
//
// The values 0 - 127 are represented with a single byte, 128 - 16511 with two
// bytes, and 16512 - 2113663 with three bytes.
//
// Example encodings:
//           0 -> [0x00]
//         127 -> [0x7f]                 * Max 1-byte value
//         128 -> [0x80 0x00]
//         129 -> [0x80 0x01]
//         255 -> [0x80 0x7f]
//         256 -> [0x81 0x00]
//       16511 -> [0xff 0x7f]            * Max 2-byte value
//       16512 -> [0x80 0x80 0x00]
//       32895 -> [0x80 0xff 0x7f]
//     2113663 -> [0xff 0xff 0x7f]       * Max 3-byte value
//   270549119 -> [0xff 0xff 0xff 0x7f]  * Max 4-byte value
//      2^64-1 -> [0x80 0xfe 0xfe 0xfe 0xfe 0xfe 0xfe 0xfe 0xfe 0x7f]
// -----------------------------------------------------------------------------

// SerializeSizeVLQ returns the number of bytes it would take to serialize the
// passed number as a variable-length quantity according to the format described
// above.
func SerializeSizeVLQ(n uint64) int {
	size := 1
	for ; n > 0x7f; n = (n >> 7) - 1 {
		size++
	}

	return size
}

// PutVLQ serializes the provided number to a variable-length quantity according
// to the format described above and returns the number of bytes of the encoded
// value.  The result is placed directly into the passed byte slice which must
// be at least large enough to handle the number of bytes returned by the
// SerializeSizeVLQ function or it will panic.
func PutVLQ(target []byte, n uint64) int {
	offset := 0
	for ; ; offset++ {
		// The high bit is set when another byte follows.
		highBitMask := byte(0x80)
		if offset == 0 {
			highBitMask = 0x00
		}

		target[offset] = byte(n&0x7f) | highBitMask
		if n <= 0x7f {
			break
		}
		n = (n >> 7) - 1
	}

	// Reverse the bytes so it is MSB-encoded.
	for i, j := 0, offset; i < j; i, j = i+1, j-1 {
		target[i], target[j] = target[j], target[i]
	}

	return offset + 1
}

// DeserializeVLQ deserializes the provided variable-length quantity according
// to the format described above.  It also returns the number of bytes
// deserialized.
func DeserializeVLQ(serialized []byte) (uint64, int) {
	var n uint64
	var size int
	for _, val := range serialized {
		size++
		n = (n << 7) | uint64(val&0x7f)
		if val&0x80 != 0x80 {
			break
		}
		n++
	}

	return n, size
}

// -----------------------------------------------------------------------------
// Scripts are stored as a VLQ tag followed by the script data.  Tags below
// txscript.NumSpecialScripts identify a recognized standard script whose data
// is produced by txscript.CompressScript.  Any other script is stored in full
// and its tag is the sum of its size and txscript.NumSpecialScripts.
//
//   Field                 Type     Size
//   script size or type   VLQ      variable
//   script data           []byte   variable
// -----------------------------------------------------------------------------

// CompressedScriptSize returns the number of bytes the passed script would take
// when encoded with the format described above.
func CompressedScriptSize(pkScript []byte) int {
	if compressed, ok := txscript.CompressScript(pkScript); ok {
		return len(compressed)
	}

	return SerializeSizeVLQ(uint64(len(pkScript)+txscript.NumSpecialScripts)) +
		len(pkScript)
}

// DecodeCompressedScriptSize treats the passed serialized bytes as a
// compressed script, possibly followed by other data, and returns the number of
// bytes it occupies.  Zero is returned when there is no tag to read and -1
// when the declared raw script size exceeds the serialized data.
func DecodeCompressedScriptSize(serialized []byte) int {
	tag, bytesRead := DeserializeVLQ(serialized)
	if bytesRead == 0 {
		return 0
	}

	if tag < txscript.NumSpecialScripts {
		return bytesRead + txscript.CompressedScriptDataSize(tag)
	}

	// Sizes beyond the data cannot be valid and would overflow an int.
	scriptSize := tag - txscript.NumSpecialScripts
	if scriptSize > uint64(len(serialized)) {
		return -1
	}
	return bytesRead + int(scriptSize)
}

// PutCompressedScript compresses the passed script according to the format
// described above directly into the passed target byte slice.  The target byte
// slice must be at least large enough to handle the number of bytes returned
// by the CompressedScriptSize function or it will panic.
func PutCompressedScript(target, pkScript []byte) int {
	if compressed, ok := txscript.CompressScript(pkScript); ok {
		return copy(target, compressed)
	}

	encodedSize := uint64(len(pkScript) + txscript.NumSpecialScripts)
	vlqSizeLen := PutVLQ(target, encodedSize)
	copy(target[vlqSizeLen:], pkScript)
	return vlqSizeLen + len(pkScript)
}

// DecodeCompressedScript decodes the compressed script at the start of
// serialized, possibly followed by other data, and returns the original script
// along with the number of bytes consumed.
func DecodeCompressedScript(serialized []byte) ([]byte, int, error) {
	if len(serialized) == 0 {
		return nil, 0, errDeserialize("unexpected end of data at " +
			"compressed script")
	}

	size := DecodeCompressedScriptSize(serialized)
	if size < 0 || len(serialized) < size {
		return nil, 0, errDeserialize("unexpected end of data after " +
			"compressed script size")
	}

	tag, bytesRead := DeserializeVLQ(serialized)
	data := serialized[bytesRead:size]
	if tag < txscript.NumSpecialScripts {
		script, err := txscript.DecompressScript(tag, data)
		if err != nil {
			return nil, 0, errDeserialize(err.Error())
		}
		return script, size, nil
	}

	script := make([]byte, len(data))
	copy(script, data)
	return script, size, nil
}

// -----------------------------------------------------------------------------
// In order to reduce the size of stored amounts, a domain specific compression
// algorithm is used which relies on there typically being a lot of zeroes at
// end of the amounts.
//
// While this is simply exchanging one uint64 for another, the resulting value
// for typical amounts has a much smaller magnitude which results in fewer bytes
// when encoded as variable length quantity.  For example, consider the amount
// of 0.1 NEBL which is 10000000 satoshi.  Encoding 10000000 as a VLQ would take
// 4 bytes while encoding the compressed value of 8 as a VLQ only takes 1 byte.
//
// Essentially the compression is achieved by splitting the value into an
// exponent in the range [0-9] and a digit in the range [1-9], when possible,
// and encoding them in a way that can be decoded.  More specifically, the
// encoding is as follows:
// - 0 is 0
// - Find the exponent, e, as the largest power of 10 that evenly divides the
//   value up to a maximum of 9
// - When e < 9, the final digit can't be 0 so store it as d and remove it by
//   dividing the value by 10 (call the result n).  The encoded value is thus:
//   1 + 10*(9*n + d-1) + e
// - When e==9, the only thing known is the amount is not 0.  The encoded value
//   is thus:
//   1 + 10*(n-1) + e   ==   10 + 10*(n-1)
// -----------------------------------------------------------------------------

// CompressTxOutAmount compresses the passed amount according to the domain
// specific compression algorithm described above.
func CompressTxOutAmount(amount uint64) uint64 {
	// No need to do any work if it's zero.
	if amount == 0 {
		return 0
	}

	// Find the largest power of 10 (max of 9) that evenly divides the
	// value.
	exponent := uint64(0)
	for amount%10 == 0 && exponent < 9 {
		amount /= 10
		exponent++
	}

	// The compressed result for exponents less than 9 is:
	// 1 + 10*(9*n + d-1) + e
	if exponent < 9 {
		lastDigit := amount % 10
		amount /= 10
		return 1 + 10*(9*amount+lastDigit-1) + exponent
	}

	// The compressed result for an exponent of 9 is:
	// 1 + 10*(n-1) + e   ==   10 + 10*(n-1)
	return 10 + 10*(amount-1)
}

// DecompressTxOutAmount returns the original amount the passed compressed
// amount represents according to the domain specific compression algorithm
// described above.
func DecompressTxOutAmount(amount uint64) uint64 {
	// No need to do any work if it's zero.
	if amount == 0 {
		return 0
	}

	// The decompressed amount is either of the following two equations:
	// x = 1 + 10*(9*n + d - 1) + e
	// x = 1 + 10*(n - 1)       + 9
	amount--

	// The decompressed amount is now one of the following two equations:
	// x = 10*(9*n + d - 1) + e
	// x = 10*(n - 1)       + 9
	exponent := amount % 10
	amount /= 10

	// The decompressed amount is now one of the following two equations:
	// x = 9*n + d - 1  | where e < 9
	// x = n - 1        | where e = 9
	n := uint64(0)
	if exponent < 9 {
		lastDigit := amount%9 + 1
		amount /= 9
		n = amount*10 + lastDigit
	} else {
		n = amount + 1
	}

	// Apply the exponent.
	for ; exponent > 0; exponent-- {
		n *= 10
	}

	return n
}

// -----------------------------------------------------------------------------
// Compressed transaction outputs consist of an amount and a public key script
// both compressed using the domain specific compression algorithms previously
// described.
//
// The serialized format is:
//
//   <compressed amount><compressed script>
//
//   Field                 Type     Size
//     compressed amount   VLQ      variable
//     compressed script   []byte   variable
// -----------------------------------------------------------------------------

// CompressedTxOutSize returns the number of bytes the passed transaction output
// fields would take when encoded with the format described above.
func CompressedTxOutSize(amount uint64, pkScript []byte) int {
	return SerializeSizeVLQ(CompressTxOutAmount(amount)) +
		CompressedScriptSize(pkScript)
}

// PutCompressedTxOut compresses the passed amount and script according to their
// domain specific compression algorithms and encodes them directly into the
// passed target byte slice with the format described above.  The target byte
// slice must be at least large enough to handle the number of bytes returned by
// the CompressedTxOutSize function or it will panic.
func PutCompressedTxOut(target []byte, amount uint64, pkScript []byte) int {
	offset := PutVLQ(target, CompressTxOutAmount(amount))
	offset += PutCompressedScript(target[offset:], pkScript)
	return offset
}

// DecodeCompressedTxOut decodes the passed compressed txout, possibly followed
// by other data, into its uncompressed amount and script and returns them along
// with the number of bytes they occupied prior to decompression.
func DecodeCompressedTxOut(serialized []byte) (uint64, []byte, int, error) {
	// Deserialize the compressed amount and ensure there are bytes
	// remaining for the compressed script.
	compressedAmount, bytesRead := DeserializeVLQ(serialized)
	if bytesRead >= len(serialized) {
		return 0, nil, bytesRead, errDeserialize("unexpected end of " +
			"data after compressed amount")
	}

	script, scriptSize, err := DecodeCompressedScript(serialized[bytesRead:])
	if err != nil {
		return 0, nil, bytesRead, err
	}

	amount := DecompressTxOutAmount(compressedAmount)
	return amount, script, bytesRead + scriptSize, nil
}
