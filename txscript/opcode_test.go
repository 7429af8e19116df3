// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stackHex returns the stack items hex encoded, bottom first, so that empty
// and nil items compare equal.
func stackHex(stk [][]byte) []string {
	items := make([]string, 0, len(stk))
	for _, item := range stk {
		items = append(items, hex.EncodeToString(item))
	}
	return items
}

// evalTestScript executes script against the first input of the signature
// hash test transaction starting from an empty stack.
func evalTestScript(script []byte, flags ScriptFlags,
	opts ...EngineOption) ([][]byte, error) {

	return EvalScript(nil, script, sigHashTestTx(), 0, flags, 0, opts...)
}

// TestOpcodeDisabled ensures disabled opcodes fail the script wherever they
// appear, including in branches that are not executed.
func TestOpcodeDisabled(t *testing.T) {
	t.Parallel()

	disabled := []byte{OP_CAT, OP_SUBSTR, OP_LEFT, OP_RIGHT, OP_INVERT,
		OP_AND, OP_OR, OP_XOR, OP_2MUL, OP_2DIV, OP_MUL, OP_DIV, OP_MOD,
		OP_LSHIFT, OP_RSHIFT}
	for _, opcodeVal := range disabled {
		require.True(t, opcodeArray[opcodeVal].isDisabled(),
			opcodeArray[opcodeVal].name)

		_, err := evalTestScript([]byte{OP_1, OP_1, opcodeVal}, 0)
		require.True(t, IsErrorCode(err, ErrDisabledOpcode),
			"%s: got %v", opcodeArray[opcodeVal].name, err)

		_, err = evalTestScript([]byte{OP_0, OP_IF, opcodeVal, OP_ENDIF}, 0)
		require.True(t, IsErrorCode(err, ErrDisabledOpcode),
			"%s in dead branch: got %v", opcodeArray[opcodeVal].name, err)
	}

	require.False(t, opcodeArray[OP_EQUAL].isDisabled())
	require.False(t, opcodeArray[OP_CHECKCOLDSTAKEVERIFY].isDisabled())
}

// TestOpcodeByName ensures every opcode is reachable by name and that the
// aliases resolve to the opcode they stand for.
func TestOpcodeByName(t *testing.T) {
	t.Parallel()

	for i := range opcodeArray {
		op := &opcodeArray[i]
		require.Equal(t, byte(i), op.value, "opcode table index")
		require.Equal(t, op.value, OpcodeByName[op.name], op.name)
	}

	aliases := map[string]byte{
		"OP_FALSE": OP_0,
		"OP_TRUE":  OP_1,
		"OP_NOP2":  OP_CHECKLOCKTIMEVERIFY,
		"OP_NOP3":  OP_CHECKSEQUENCEVERIFY,
	}
	for name, value := range aliases {
		require.Equal(t, value, OpcodeByName[name], name)
	}
	require.Equal(t, byte(0xd1), OpcodeByName["OP_CHECKCOLDSTAKEVERIFY"])
	require.Equal(t, byte(0xd2), OpcodeByName["OP_CHECKPOOLCOLDSTAKEVERIFY"])
}

// TestOpcodeDisasm ensures the full and compact disassembly of individual
// opcodes.
func TestOpcodeDisasm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		opcode  byte
		data    []byte
		full    string
		compact string
	}{
		{OP_0, nil, "OP_0", "0"},
		{OP_1NEGATE, nil, "OP_1NEGATE", "-1"},
		{OP_7, nil, "OP_7", "7"},
		{OP_DATA_2, []byte{0x01, 0x02}, "OP_DATA_2 0x0102", "0102"},
		{OP_PUSHDATA1, []byte{0xab}, "OP_PUSHDATA1 0x01 0xab", "ab"},
		{OP_PUSHDATA2, []byte{0xab}, "OP_PUSHDATA2 0x0001 0xab", "ab"},
		{OP_PUSHDATA4, []byte{0xab}, "OP_PUSHDATA4 0x00000001 0xab", "ab"},
		{OP_CHECKSIG, nil, "OP_CHECKSIG", "OP_CHECKSIG"},
		{OP_CHECKPOOLCOLDSTAKEVERIFY, nil, "OP_CHECKPOOLCOLDSTAKEVERIFY",
			"OP_CHECKPOOLCOLDSTAKEVERIFY"},
		{OP_NOP2, nil, "OP_CHECKLOCKTIMEVERIFY", "OP_CHECKLOCKTIMEVERIFY"},
	}

	for _, test := range tests {
		var full, compact strings.Builder
		disasmOpcode(&full, &opcodeArray[test.opcode], test.data, false)
		disasmOpcode(&compact, &opcodeArray[test.opcode], test.data, true)
		require.Equal(t, test.full, full.String())
		require.Equal(t, test.compact, compact.String())
	}
}

// TestOpcodeExecution runs short scripts exercising the stack, arithmetic,
// comparison and hashing opcodes and checks the resulting stack.
func TestOpcodeExecution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script []byte
		flags  ScriptFlags
		want   []string
		err    *ErrorCode
	}{
		{name: "add", script: []byte{OP_2, OP_3, OP_ADD},
			want: []string{"05"}},
		{name: "sub to zero", script: []byte{OP_1, OP_1, OP_SUB},
			want: []string{""}},
		{name: "sub negative", script: []byte{OP_1, OP_3, OP_SUB},
			want: []string{"82"}},
		{name: "abs", script: []byte{OP_1NEGATE, OP_ABS},
			want: []string{"01"}},
		{name: "negate", script: []byte{OP_5, OP_NEGATE},
			want: []string{"85"}},
		{name: "1add overflow past one byte", script: []byte{OP_DATA_1, 0x7f,
			OP_1ADD}, want: []string{"8000"}},
		{name: "not", script: []byte{OP_0, OP_NOT}, want: []string{"01"}},
		{name: "0notequal", script: []byte{OP_7, OP_0NOTEQUAL},
			want: []string{"01"}},
		{name: "booland", script: []byte{OP_1, OP_0, OP_BOOLAND},
			want: []string{""}},
		{name: "boolor", script: []byte{OP_1, OP_0, OP_BOOLOR},
			want: []string{"01"}},
		{name: "numequal", script: []byte{OP_4, OP_4, OP_NUMEQUAL},
			want: []string{"01"}},
		{name: "numnotequal", script: []byte{OP_4, OP_4, OP_NUMNOTEQUAL},
			want: []string{""}},
		{name: "lessthan", script: []byte{OP_2, OP_3, OP_LESSTHAN},
			want: []string{"01"}},
		{name: "greaterthanorequal", script: []byte{OP_2, OP_3,
			OP_GREATERTHANOREQUAL}, want: []string{""}},
		{name: "min", script: []byte{OP_5, OP_2, OP_MIN},
			want: []string{"02"}},
		{name: "max", script: []byte{OP_5, OP_2, OP_MAX},
			want: []string{"05"}},
		{name: "within", script: []byte{OP_3, OP_1, OP_5, OP_WITHIN},
			want: []string{"01"}},
		{name: "within upper bound excluded", script: []byte{OP_5, OP_1,
			OP_5, OP_WITHIN}, want: []string{""}},
		{name: "dup", script: []byte{OP_3, OP_DUP},
			want: []string{"03", "03"}},
		{name: "2dup", script: []byte{OP_1, OP_2, OP_2DUP},
			want: []string{"01", "02", "01", "02"}},
		{name: "3dup", script: []byte{OP_1, OP_2, OP_3, OP_3DUP},
			want: []string{"01", "02", "03", "01", "02", "03"}},
		{name: "rot", script: []byte{OP_1, OP_2, OP_3, OP_ROT},
			want: []string{"02", "03", "01"}},
		{name: "swap", script: []byte{OP_1, OP_2, OP_SWAP},
			want: []string{"02", "01"}},
		{name: "over", script: []byte{OP_1, OP_2, OP_OVER},
			want: []string{"01", "02", "01"}},
		{name: "nip", script: []byte{OP_1, OP_2, OP_NIP},
			want: []string{"02"}},
		{name: "tuck", script: []byte{OP_1, OP_2, OP_TUCK},
			want: []string{"02", "01", "02"}},
		{name: "pick", script: []byte{OP_1, OP_2, OP_3, OP_2, OP_PICK},
			want: []string{"01", "02", "03", "01"}},
		{name: "roll", script: []byte{OP_1, OP_2, OP_3, OP_2, OP_ROLL},
			want: []string{"02", "03", "01"}},
		{name: "pick out of range", script: []byte{OP_1, OP_5, OP_PICK},
			err: errCodePtr(ErrInvalidStackOperation)},
		{name: "ifdup true", script: []byte{OP_1, OP_IFDUP},
			want: []string{"01", "01"}},
		{name: "ifdup false", script: []byte{OP_0, OP_IFDUP},
			want: []string{""}},
		{name: "depth", script: []byte{OP_1, OP_1, OP_DEPTH},
			want: []string{"01", "01", "02"}},
		{name: "size", script: []byte{OP_DATA_3, 0x01, 0x02, 0x03, OP_SIZE},
			want: []string{"010203", "03"}},
		{name: "toaltstack round trip", script: []byte{OP_7, OP_TOALTSTACK,
			OP_1, OP_FROMALTSTACK}, want: []string{"01", "07"}},
		{name: "equal", script: []byte{OP_DATA_1, 0x11, OP_DATA_1, 0x11,
			OP_EQUAL}, want: []string{"01"}},
		{name: "equalverify failure", script: []byte{OP_1, OP_2,
			OP_EQUALVERIFY}, err: errCodePtr(ErrEqualVerify)},
		{name: "numequalverify failure", script: []byte{OP_1, OP_2,
			OP_NUMEQUALVERIFY}, err: errCodePtr(ErrNumEqualVerify)},
		{name: "verify failure", script: []byte{OP_0, OP_VERIFY},
			err: errCodePtr(ErrVerify)},
		{name: "if else", script: []byte{OP_0, OP_IF, OP_2, OP_ELSE, OP_3,
			OP_ENDIF}, want: []string{"03"}},
		{name: "notif", script: []byte{OP_0, OP_NOTIF, OP_2, OP_ELSE, OP_3,
			OP_ENDIF}, want: []string{"02"}},
		{name: "nested dead branch", script: []byte{OP_0, OP_IF, OP_1,
			OP_IF, OP_2, OP_ELSE, OP_3, OP_ENDIF, OP_ELSE, OP_4, OP_ENDIF},
			want: []string{"04"}},
		{name: "nops", script: []byte{OP_NOP, OP_NOP1, OP_NOP10},
			want: []string{}},
		{name: "csv is a nop", script: []byte{OP_CHECKSEQUENCEVERIFY},
			want: []string{}},
		{name: "sha1 of empty", script: []byte{OP_0, OP_SHA1},
			want: []string{"da39a3ee5e6b4b0d3255bfef95601890afd80709"}},
		{name: "sha256 of empty", script: []byte{OP_0, OP_SHA256},
			want: []string{"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"}},
		{name: "ripemd160 of empty", script: []byte{OP_0, OP_RIPEMD160},
			want: []string{"9c1185a5c5e9fc54612808977ee8f548b2258d31"}},
		{name: "hash160 of empty", script: []byte{OP_0, OP_HASH160},
			want: []string{"b472a266d0bd89c13706a4132ccfb16f7c3b9fcb"}},
		{name: "hash256 of empty", script: []byte{OP_0, OP_HASH256},
			want: []string{"5df6e0e2761359d30a8275058e299fcc0381534545f55cf43e41983f5d4c9456"}},
		{name: "non-minimal number allowed", script: []byte{OP_DATA_2, 0x01,
			0x00, OP_1ADD}, want: []string{"02"}},
		{name: "non-minimal number rejected", script: []byte{OP_DATA_2,
			0x01, 0x00, OP_1ADD}, flags: ScriptVerifyMinimalData,
			err: errCodePtr(ErrArithmeticOp)},
		{name: "oversized number", script: []byte{OP_DATA_5, 0x01, 0x01,
			0x01, 0x01, 0x01, OP_1ADD}, err: errCodePtr(ErrElementSize)},
		{name: "reserved opcode", script: []byte{OP_RESERVED},
			err: errCodePtr(ErrBadOpcode)},
		{name: "reserved opcode in dead branch", script: []byte{OP_0, OP_IF,
			OP_RESERVED, OP_ENDIF}, want: []string{}},
		{name: "verif in dead branch", script: []byte{OP_0, OP_IF, OP_VERIF,
			OP_ENDIF}, err: errCodePtr(ErrBadOpcode)},
		{name: "unknown opcode", script: []byte{OP_UNKNOWN211},
			err: errCodePtr(ErrBadOpcode)},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			stk, err := evalTestScript(test.script, test.flags)
			if test.err != nil {
				require.True(t, IsErrorCode(err, *test.err),
					"got error %v", err)
				require.Nil(t, stk)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.want, stackHex(stk))
		})
	}
}
