// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScriptBuilderAddOp tests that pushing opcodes to a script via the
// ScriptBuilder API works as expected.
func TestScriptBuilderAddOp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opcodes  []byte
		expected []byte
	}{
		{"push OP_0", []byte{OP_0}, []byte{OP_0}},
		{"push OP_1 OP_2", []byte{OP_1, OP_2}, []byte{OP_1, OP_2}},
		{"push cold stake verify", []byte{OP_CHECKCOLDSTAKEVERIFY},
			[]byte{OP_CHECKCOLDSTAKEVERIFY}},
	}

	for _, test := range tests {
		builder := NewScriptBuilder()
		for _, opcode := range test.opcodes {
			builder.AddOp(opcode)
		}
		require.Equal(t, test.expected, builder.Script(), test.name)

		builder.Reset().AddOps(test.opcodes)
		require.Equal(t, test.expected, builder.Script(), test.name)
	}
}

// TestScriptBuilderAddInt64 tests that pushing signed integers to a script via
// the ScriptBuilder API works as expected.
func TestScriptBuilderAddInt64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		val      int64
		expected []byte
	}{
		{-1, []byte{OP_1NEGATE}},
		{0, []byte{OP_0}},
		{1, []byte{OP_1}},
		{16, []byte{OP_16}},
		{17, []byte{OP_DATA_1, 0x11}},
		{-2, []byte{OP_DATA_1, 0x82}},
		{127, []byte{OP_DATA_1, 0x7f}},
		{128, []byte{OP_DATA_2, 0x80, 0x00}},
		{-128, []byte{OP_DATA_2, 0x80, 0x80}},
		{255, []byte{OP_DATA_2, 0xff, 0x00}},
		{32767, []byte{OP_DATA_2, 0xff, 0x7f}},
		{32768, []byte{OP_DATA_3, 0x00, 0x80, 0x00}},
		{2147483647, []byte{OP_DATA_4, 0xff, 0xff, 0xff, 0x7f}},
		{-2147483648, []byte{OP_DATA_5, 0x00, 0x00, 0x00, 0x80, 0x80}},
	}

	builder := NewScriptBuilder()
	for _, test := range tests {
		builder.Reset().AddInt64(test.val)
		require.Equal(t, test.expected, builder.Script(), "value %d",
			test.val)
	}
}

// TestScriptBuilderAddData tests that pushing data to a script via the
// ScriptBuilder API works as expected and always uses the canonical encoding.
func TestScriptBuilderAddData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		expected []byte
	}{
		{"push empty byte sequence", nil, []byte{OP_0}},
		{"push 1 byte 0x00", []byte{0x00}, []byte{OP_0}},
		{"push 1 byte 0x01", []byte{0x01}, []byte{OP_1}},
		{"push 1 byte 0x10", []byte{0x10}, []byte{OP_16}},
		{"push 1 byte 0x11", []byte{0x11}, []byte{OP_DATA_1, 0x11}},
		{"push 1 byte 0x81", []byte{0x81}, []byte{OP_1NEGATE}},
		{"push data len 75", bytes.Repeat([]byte{0x49}, 75),
			append([]byte{OP_DATA_75}, bytes.Repeat([]byte{0x49}, 75)...)},
		{"push data len 76", bytes.Repeat([]byte{0x49}, 76),
			append([]byte{OP_PUSHDATA1, 76}, bytes.Repeat([]byte{0x49}, 76)...)},
		{"push data len 256", bytes.Repeat([]byte{0x49}, 256),
			append([]byte{OP_PUSHDATA2, 0x00, 0x01},
				bytes.Repeat([]byte{0x49}, 256)...)},
		{"push data len 65536", bytes.Repeat([]byte{0x49}, 65536),
			append([]byte{OP_PUSHDATA4, 0x00, 0x00, 0x01, 0x00},
				bytes.Repeat([]byte{0x49}, 65536)...)},
	}

	for _, test := range tests {
		script := NewScriptBuilder().AddData(test.data).Script()
		require.Equal(t, test.expected, script, test.name)
		require.True(t, HasCanonicalPushes(script), test.name)
	}
}

// TestAppendDataPush ensures the raw push encoding never substitutes a small
// integer opcode for one byte data.
func TestAppendDataPush(t *testing.T) {
	t.Parallel()

	require.Equal(t, []byte{OP_0}, appendDataPush(nil, nil))
	require.Equal(t, []byte{OP_DATA_1, 0x05}, appendDataPush(nil, []byte{0x05}))
	require.Equal(t, []byte{OP_DATA_1, 0x81}, appendDataPush(nil, []byte{0x81}))
	require.Equal(t, []byte{OP_1, OP_DATA_1, 0x00},
		appendDataPush([]byte{OP_1}, []byte{0x00}))
}
