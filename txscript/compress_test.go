// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCompressScript ensures the recognized script shapes compress to their
// tag and payload and decompress back to the original script.
func TestCompressScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		uncompressed string
		compressed   string
	}{{
		name:         "pay-to-pubkey-hash",
		uncompressed: "76a9141018853670f9f3b0582c5b9ee8ce93764ac32b9388ac",
		compressed:   "001018853670f9f3b0582c5b9ee8ce93764ac32b93",
	}, {
		name:         "pay-to-script-hash",
		uncompressed: "a914da1745e9b549bd0bfa1a569971c77eba30cd5a4b87",
		compressed:   "01da1745e9b549bd0bfa1a569971c77eba30cd5a4b",
	}, {
		name:         "pay-to-pubkey compressed 0x02",
		uncompressed: "2102192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a957724895dca52c6b4ac",
		compressed:   "02192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a957724895dca52c6b4",
	}, {
		name:         "pay-to-pubkey compressed 0x03",
		uncompressed: "2103b0bd634234abbb1ba1e986e884185c61cf43e001f9137f23c2c409273eb16e65ac",
		compressed:   "03b0bd634234abbb1ba1e986e884185c61cf43e001f9137f23c2c409273eb16e65",
	}, {
		name:         "pay-to-pubkey uncompressed even",
		uncompressed: "4104192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a957724895dca52c6b40d45264838c0bd96852662ce6a847b197376830160c6d2eb5e6a4c44d33f453eac",
		compressed:   "04192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a957724895dca52c6b4",
	}, {
		name:         "pay-to-pubkey uncompressed odd",
		uncompressed: "410411db93e1dcdb8a016b49840f8c53bc1eb68a382e97b1482ecad7b148a6909a5cb2e0eaddfb84ccf9744464f82e160bfa9b8b64f9d4c03f999b8643f656b412a3ac",
		compressed:   "0511db93e1dcdb8a016b49840f8c53bc1eb68a382e97b1482ecad7b148a6909a5c",
	}}

	for _, test := range tests {
		uncompressed := hexToBytes(test.uncompressed)
		compressed := hexToBytes(test.compressed)

		got, ok := CompressScript(uncompressed)
		require.True(t, ok, test.name)
		require.Equal(t, compressed, got, test.name)
		require.Equal(t, len(got)-1,
			CompressedScriptDataSize(uint64(got[0])), test.name)

		script, err := DecompressScript(uint64(compressed[0]),
			compressed[1:])
		require.NoError(t, err, test.name)
		require.Equal(t, uncompressed, script, test.name)
	}
}

// TestCompressScriptUnrecognized ensures scripts outside the special shapes
// are left to be stored as is.
func TestCompressScriptUnrecognized(t *testing.T) {
	t.Parallel()

	coldStake, err := PayToColdStakeScript(make([]byte, 20), make([]byte, 20))
	require.NoError(t, err)

	scripts := [][]byte{
		nil,
		// Uncompressed key off the curve.
		hexToBytes("4104aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" +
			"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaac"),
		hexToBytes("3302aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaac"),
		hexToBytes("6a200102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"),
		coldStake,
		zeroP2PKH[:24],
	}
	for _, script := range scripts {
		got, ok := CompressScript(script)
		require.False(t, ok, "script %x", script)
		require.Nil(t, got)
	}
}

// TestDecompressScriptErrors ensures malformed compressed scripts are
// rejected.
func TestDecompressScriptErrors(t *testing.T) {
	t.Parallel()

	require.Equal(t, -1, CompressedScriptDataSize(NumSpecialScripts))

	_, err := DecompressScript(NumSpecialScripts, make([]byte, 32))
	require.Error(t, err)

	_, err = DecompressScript(CstPayToPubKeyHash, make([]byte, 19))
	require.Error(t, err)

	// An x-coordinate with no point on the curve.
	offCurve := make([]byte, 32)
	for i := range offCurve {
		offCurve[i] = 0xff
	}
	_, err = DecompressScript(CstPayToPubKeyUncomp4, offCurve)
	require.Error(t, err)
}
