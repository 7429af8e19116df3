// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// coldStakeScript returns a cold stake script built by hand, guarded by
// verifyOp and paying the staker and owner hashes filled with 0x01 and 0x02.
func coldStakeScript(verifyOp byte) []byte {
	script := []byte{OP_DUP, OP_HASH160, OP_ROT, OP_IF, verifyOp, OP_DATA_20}
	script = append(script, bytes.Repeat([]byte{0x01}, 20)...)
	script = append(script, OP_ELSE, OP_DATA_20)
	script = append(script, bytes.Repeat([]byte{0x02}, 20)...)
	return append(script, OP_ENDIF, OP_EQUALVERIFY, OP_CHECKSIG)
}

// TestScriptShapePredicates ensures the fixed layout recognizers accept their
// exact layouts and nothing else.
func TestScriptShapePredicates(t *testing.T) {
	t.Parallel()

	p2sh := hexToBytes("a914" + "433ec2ac1ffa1b7b7d027f564529c57197f9ae88" + "87")
	coldStake := coldStakeScript(OP_CHECKCOLDSTAKEVERIFY)
	poolColdStake := coldStakeScript(OP_CHECKPOOLCOLDSTAKEVERIFY)
	require.Len(t, coldStake, payToColdStakeLen)

	require.True(t, IsPayToScriptHash(p2sh))
	require.False(t, IsPayToScriptHash(p2sh[:22]))
	require.False(t, IsPayToScriptHash(append(p2sh, OP_NOP)))
	require.False(t, IsPayToScriptHash(zeroP2PKH))

	require.True(t, IsPayToColdStake(coldStake))
	require.False(t, IsPayToPoolColdStake(coldStake))
	require.True(t, IsPayToPoolColdStake(poolColdStake))
	require.False(t, IsPayToColdStake(poolColdStake))
	require.False(t, IsPayToColdStake(coldStake[:50]))

	staker, owner := extractColdStakeHashes(poolColdStake)
	require.Equal(t, bytes.Repeat([]byte{0x01}, 20), staker)
	require.Equal(t, bytes.Repeat([]byte{0x02}, 20), owner)
	staker, owner = extractColdStakeHashes(p2sh)
	require.Nil(t, staker)
	require.Nil(t, owner)
}

// TestIsPushOnlyScript ensures the push only check treats every opcode up to
// OP_16 as a push and malformed scripts as not push only.
func TestIsPushOnlyScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script []byte
		want   bool
	}{
		{"empty", nil, true},
		{"small ints", []byte{OP_0, OP_1NEGATE, OP_RESERVED, OP_16}, true},
		{"pushes", []byte{OP_DATA_1, 0x05, OP_PUSHDATA1, 0x01, 0x07}, true},
		{"nop", []byte{OP_1, OP_NOP}, false},
		{"malformed push", []byte{OP_DATA_2, 0x01}, false},
	}

	for _, test := range tests {
		require.Equal(t, test.want, IsPushOnlyScript(test.script), test.name)
	}
}

// TestHasCanonicalPushes ensures pushes which could have been encoded with a
// smaller opcode are detected.
func TestHasCanonicalPushes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script []byte
		want   bool
	}{
		{"small int opcode", []byte{OP_5}, true},
		{"one byte push of small int", []byte{OP_DATA_1, 0x05}, false},
		{"one byte push of 17", []byte{OP_DATA_1, 0x11}, true},
		{"pushdata1 of 75 bytes", append([]byte{OP_PUSHDATA1, 75},
			make([]byte, 75)...), false},
		{"pushdata1 of 76 bytes", append([]byte{OP_PUSHDATA1, 76},
			make([]byte, 76)...), true},
		{"pushdata2 of 255 bytes", append([]byte{OP_PUSHDATA2, 0xff, 0x00},
			make([]byte, 255)...), false},
		{"pushdata4 of 256 bytes", append([]byte{OP_PUSHDATA4, 0x00, 0x01,
			0x00, 0x00}, make([]byte, 256)...), false},
		{"non push opcodes", []byte{OP_DUP, OP_CHECKSIG}, true},
		{"malformed", []byte{OP_PUSHDATA1}, false},
	}

	for _, test := range tests {
		require.Equal(t, test.want, HasCanonicalPushes(test.script),
			test.name)
	}
}

// TestDisasmString ensures the one-line disassembly output.
func TestDisasmString(t *testing.T) {
	t.Parallel()

	got, err := DisasmString(zeroP2PKH)
	require.NoError(t, err)
	require.Equal(t, "OP_DUP OP_HASH160 "+
		"0000000000000000000000000000000000000000 OP_EQUALVERIFY "+
		"OP_CHECKSIG", got)

	got, err = DisasmString([]byte{OP_0, OP_1NEGATE, OP_16,
		OP_CHECKCOLDSTAKEVERIFY})
	require.NoError(t, err)
	require.Equal(t, "0 -1 16 OP_CHECKCOLDSTAKEVERIFY", got)

	got, err = DisasmString([]byte{OP_1, OP_DATA_2, 0x01})
	require.True(t, IsErrorCode(err, ErrBadOpcode))
	require.Equal(t, "1 [error]", got)

	got, err = DisasmString([]byte{OP_PUSHDATA1})
	require.Error(t, err)
	require.Equal(t, "[error]", got)
}

// TestRemoveOpcodeByData ensures pushes of the given data are removed only
// where they start at an opcode boundary.
func TestRemoveOpcodeByData(t *testing.T) {
	t.Parallel()

	sig := []byte{0x30, 0x01, 0x02, 0x03}
	push := append([]byte{OP_DATA_4}, sig...)
	push = push[:len(push):len(push)]

	tests := []struct {
		name   string
		script []byte
		data   []byte
		want   []byte
	}{{
		name:   "nothing to remove",
		script: []byte{OP_DUP, OP_CHECKSIG},
		data:   sig,
		want:   []byte{OP_DUP, OP_CHECKSIG},
	}, {
		name:   "single push",
		script: append(append([]byte{}, push...), OP_CHECKSIG),
		data:   sig,
		want:   []byte{OP_CHECKSIG},
	}, {
		name: "repeated pushes",
		script: append(append(append([]byte{OP_1}, push...), push...),
			OP_CHECKSIG),
		data: sig,
		want: []byte{OP_1, OP_CHECKSIG},
	}, {
		name: "pattern inside other push data is kept",
		script: append([]byte{OP_DATA_6, 0xaa}, append(push,
			OP_CHECKSIG)...),
		data: sig,
		want: append([]byte{OP_DATA_6, 0xaa}, append(push,
			OP_CHECKSIG)...),
	}, {
		name:   "empty data removes OP_0",
		script: []byte{OP_0, OP_1, OP_0},
		data:   nil,
		want:   []byte{OP_1},
	}, {
		name:   "malformed tail is kept",
		script: append(append([]byte{}, push...), OP_PUSHDATA1),
		data:   sig,
		want:   []byte{OP_PUSHDATA1},
	}}

	for _, test := range tests {
		require.Equal(t, test.want, removeOpcodeByData(test.script,
			test.data), test.name)
	}
}
