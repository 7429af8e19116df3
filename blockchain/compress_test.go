// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error.  This is only provided for the hard-coded constants so errors in
// the source code can be detected. It will only (and must only) be called with
// hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// TestVLQ ensures the variable length quantity serialization, deserialization,
// and size calculation works as expected.
func TestVLQ(t *testing.T) {
	t.Parallel()

	tests := []struct {
		val        uint64
		serialized []byte
	}{
		{0, hexToBytes("00")},
		{1, hexToBytes("01")},
		{127, hexToBytes("7f")},
		{128, hexToBytes("8000")},
		{129, hexToBytes("8001")},
		{255, hexToBytes("807f")},
		{256, hexToBytes("8100")},
		{16383, hexToBytes("fe7f")},
		{16384, hexToBytes("ff00")},
		{16511, hexToBytes("ff7f")}, // Max 2-byte value
		{16512, hexToBytes("808000")},
		{16513, hexToBytes("808001")},
		{16639, hexToBytes("80807f")},
		{32895, hexToBytes("80ff7f")},
		{2113663, hexToBytes("ffff7f")}, // Max 3-byte value
		{2113664, hexToBytes("80808000")},
		{270549119, hexToBytes("ffffff7f")}, // Max 4-byte value
		{270549120, hexToBytes("8080808000")},
		{2147483647, hexToBytes("86fefefe7f")},
		{2147483648, hexToBytes("86fefeff00")},
		{4294967295, hexToBytes("8efefefe7f")}, // Max uint32, 5 bytes
		// Max uint64, 10 bytes
		{18446744073709551615, hexToBytes("80fefefefefefefefe7f")},
	}

	for _, test := range tests {
		gotSize := SerializeSizeVLQ(test.val)
		require.Equal(t, len(test.serialized), gotSize, "size of %d",
			test.val)

		gotBytes := make([]byte, gotSize)
		gotBytesWritten := PutVLQ(gotBytes, test.val)
		require.Equal(t, test.serialized, gotBytes, "bytes of %d",
			test.val)
		require.Equal(t, len(test.serialized), gotBytesWritten)

		gotVal, gotBytesRead := DeserializeVLQ(test.serialized)
		require.Equal(t, test.val, gotVal)
		require.Equal(t, len(test.serialized), gotBytesRead)
	}
}

// TestScriptCompression ensures the script compression and decompression
// works as expected.
func TestScriptCompression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		uncompressed []byte
		compressed   []byte
	}{{
		name:         "nil",
		uncompressed: nil,
		compressed:   hexToBytes("06"),
	}, {
		name:         "pay-to-pubkey-hash 1",
		uncompressed: hexToBytes("76a9141018853670f9f3b0582c5b9ee8ce93764ac32b9388ac"),
		compressed:   hexToBytes("001018853670f9f3b0582c5b9ee8ce93764ac32b93"),
	}, {
		name:         "pay-to-pubkey-hash 2",
		uncompressed: hexToBytes("76a914e34cce70c86373273efcc54ce7d2a491bb4a0e8488ac"),
		compressed:   hexToBytes("00e34cce70c86373273efcc54ce7d2a491bb4a0e84"),
	}, {
		name:         "pay-to-script-hash 1",
		uncompressed: hexToBytes("a914da1745e9b549bd0bfa1a569971c77eba30cd5a4b87"),
		compressed:   hexToBytes("01da1745e9b549bd0bfa1a569971c77eba30cd5a4b"),
	}, {
		name:         "pay-to-script-hash 2",
		uncompressed: hexToBytes("a914f815b036d9bbbce5e9f2a00abd1bf3dc91e9551087"),
		compressed:   hexToBytes("01f815b036d9bbbce5e9f2a00abd1bf3dc91e95510"),
	}, {
		name:         "pay-to-pubkey compressed 0x02",
		uncompressed: hexToBytes("2102192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a957724895dca52c6b4ac"),
		compressed:   hexToBytes("02192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a957724895dca52c6b4"),
	}, {
		name:         "pay-to-pubkey compressed 0x03",
		uncompressed: hexToBytes("2103b0bd634234abbb1ba1e986e884185c61cf43e001f9137f23c2c409273eb16e65ac"),
		compressed:   hexToBytes("03b0bd634234abbb1ba1e986e884185c61cf43e001f9137f23c2c409273eb16e65"),
	}, {
		name:         "pay-to-pubkey uncompressed 0x04 even",
		uncompressed: hexToBytes("4104192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a957724895dca52c6b40d45264838c0bd96852662ce6a847b197376830160c6d2eb5e6a4c44d33f453eac"),
		compressed:   hexToBytes("04192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a957724895dca52c6b4"),
	}, {
		name:         "pay-to-pubkey uncompressed 0x04 odd",
		uncompressed: hexToBytes("410411db93e1dcdb8a016b49840f8c53bc1eb68a382e97b1482ecad7b148a6909a5cb2e0eaddfb84ccf9744464f82e160bfa9b8b64f9d4c03f999b8643f656b412a3ac"),
		compressed:   hexToBytes("0511db93e1dcdb8a016b49840f8c53bc1eb68a382e97b1482ecad7b148a6909a5c"),
	}, {
		name:         "pay-to-pubkey invalid pubkey",
		uncompressed: hexToBytes("3302aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaac"),
		compressed:   hexToBytes("293302aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaac"),
	}, {
		name:         "null data",
		uncompressed: hexToBytes("6a200102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"),
		compressed:   hexToBytes("286a200102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"),
	}, {
		name:         "requires 2 size bytes - data push 200 bytes",
		uncompressed: append(hexToBytes("4cc8"), bytes.Repeat([]byte{0x00}, 200)...),
		// [0x80, 0x50] = 208 as a variable length quantity
		// [0x4c, 0xc8] = OP_PUSHDATA1 200
		compressed: append(hexToBytes("80504cc8"), bytes.Repeat([]byte{0x00}, 200)...),
	}}

	for _, test := range tests {
		gotSize := CompressedScriptSize(test.uncompressed)
		require.Equal(t, len(test.compressed), gotSize, test.name)

		gotCompressed := make([]byte, gotSize)
		gotBytesWritten := PutCompressedScript(gotCompressed,
			test.uncompressed)
		require.Equal(t, test.compressed, gotCompressed, test.name)
		require.Equal(t, len(test.compressed), gotBytesWritten, test.name)

		gotDecodedSize := DecodeCompressedScriptSize(test.compressed)
		require.Equal(t, len(test.compressed), gotDecodedSize, test.name)

		// Trailing data must be left alone.
		serialized := append(test.compressed[:len(test.compressed):len(test.compressed)], 0xff)
		gotScript, gotRead, err := DecodeCompressedScript(serialized)
		require.NoError(t, err, test.name)
		require.Equal(t, len(test.compressed), gotRead, test.name)
		require.Equal(t, hex.EncodeToString(test.uncompressed),
			hex.EncodeToString(gotScript), test.name)
	}
}

// TestScriptCompressionErrors ensures calling various functions related to
// script compression with incorrect data returns the expected results.
func TestScriptCompressionErrors(t *testing.T) {
	t.Parallel()

	// A nil script must result in a decoded size of 0.
	require.Zero(t, DecodeCompressedScriptSize(nil))

	_, _, err := DecodeCompressedScript(nil)
	require.True(t, isDeserializeErr(err), "got %v", err)

	// A compressed pay-to-pubkey (uncompressed) that results in an
	// invalid pubkey must fail to decode.
	compressedScript := hexToBytes("04012d74d0cb94344c9569c2e77901573d8d" +
		"7903c3ebec3a957724895dca52c6b4")
	_, _, err = DecodeCompressedScript(compressedScript)
	require.True(t, isDeserializeErr(err), "got %v", err)

	// A truncated pay-to-pubkey-hash.
	_, _, err = DecodeCompressedScript(hexToBytes("001018"))
	require.True(t, isDeserializeErr(err), "got %v", err)

	// A raw script whose declared size exceeds the data.
	_, _, err = DecodeCompressedScript(hexToBytes("0a0102"))
	require.True(t, isDeserializeErr(err), "got %v", err)
	require.True(t, IsDeserializeErr(err))

	// Raw script sizes near the top of the tag range must not overflow.
	for delta := uint64(0); delta < 32; delta++ {
		tag := ^uint64(0) - delta
		buf := make([]byte, SerializeSizeVLQ(tag)+3)
		n := PutVLQ(buf, tag)
		require.Equal(t, -1, DecodeCompressedScriptSize(buf[:n]))
		_, _, err = DecodeCompressedScript(buf[:n])
		require.True(t, isDeserializeErr(err), "tag %d: got %v", tag, err)
		_, _, _, err = DecodeCompressedTxOut(append([]byte{0x00}, buf[:n]...))
		require.True(t, isDeserializeErr(err), "tag %d: got %v", tag, err)
	}
}

// TestAmountCompression ensures the domain-specific transaction output amount
// compression and decompression works as expected.
func TestAmountCompression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		uncompressed uint64
		compressed   uint64
	}{
		{"0 NEBL (sometimes used in nulldata)", 0, 0},
		{"546 satoshi", 546, 4911},
		{"0.00001 NEBL", 1000, 4},
		{"0.0001 NEBL (typical transaction fee)", 10000, 5},
		{"0.12345678 NEBL", 12345678, 111111101},
		{"0.5 NEBL", 50000000, 48},
		{"1 NEBL", 100000000, 9},
		{"5 NEBL", 500000000, 49},
		{"21000000 NEBL", 2100000000000000, 21000000},
	}

	for _, test := range tests {
		gotCompressed := CompressTxOutAmount(test.uncompressed)
		require.Equal(t, test.compressed, gotCompressed, test.name)

		gotDecompressed := DecompressTxOutAmount(test.compressed)
		require.Equal(t, test.uncompressed, gotDecompressed, test.name)
	}
}

// TestCompressedTxOut ensures the transaction output serialization and
// deserialization works as expected.
func TestCompressedTxOut(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		amount     uint64
		pkScript   []byte
		compressed []byte
	}{{
		name:       "nulldata with 0 NEBL",
		amount:     0,
		pkScript:   hexToBytes("6a200102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"),
		compressed: hexToBytes("00286a200102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"),
	}, {
		name:       "pay-to-pubkey-hash dust",
		amount:     546,
		pkScript:   hexToBytes("76a9141018853670f9f3b0582c5b9ee8ce93764ac32b9388ac"),
		compressed: hexToBytes("a52f001018853670f9f3b0582c5b9ee8ce93764ac32b93"),
	}, {
		name:       "pay-to-pubkey uncompressed 1 NEBL",
		amount:     100000000,
		pkScript:   hexToBytes("4104192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a957724895dca52c6b40d45264838c0bd96852662ce6a847b197376830160c6d2eb5e6a4c44d33f453eac"),
		compressed: hexToBytes("0904192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a957724895dca52c6b4"),
	}}

	for _, test := range tests {
		gotSize := CompressedTxOutSize(test.amount, test.pkScript)
		require.Equal(t, len(test.compressed), gotSize, test.name)

		gotCompressed := make([]byte, gotSize)
		gotBytesWritten := PutCompressedTxOut(gotCompressed,
			test.amount, test.pkScript)
		require.Equal(t, test.compressed, gotCompressed, test.name)
		require.Equal(t, len(test.compressed), gotBytesWritten, test.name)

		gotAmount, gotScript, gotBytesRead, err := DecodeCompressedTxOut(
			test.compressed)
		require.NoError(t, err, test.name)
		require.Equal(t, test.amount, gotAmount, test.name)
		require.Equal(t, test.pkScript, gotScript, test.name)
		require.Equal(t, len(test.compressed), gotBytesRead, test.name)
	}
}

// TestTxOutCompressionErrors ensures calling various functions related to
// txout compression with incorrect data returns the expected results.
func TestTxOutCompressionErrors(t *testing.T) {
	t.Parallel()

	// A compressed txout with missing compressed script must error.
	_, _, _, err := DecodeCompressedTxOut(hexToBytes("00"))
	require.True(t, isDeserializeErr(err), "got %T", err)

	// A compressed txout with short compressed script must error.
	_, _, _, err = DecodeCompressedTxOut(hexToBytes("0010"))
	require.True(t, isDeserializeErr(err), "got %T", err)
}
