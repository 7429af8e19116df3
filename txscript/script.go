// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"strings"
)

const (
	// payToScriptHashLen is the length of a pay-to-script-hash script:
	// OP_HASH160 OP_DATA_20 <20-byte hash> OP_EQUAL.
	payToScriptHashLen = 23

	// payToColdStakeLen is the length of a cold stake script:
	// OP_DUP OP_HASH160 OP_ROT OP_IF <verify op> OP_DATA_20 <staker hash>
	// OP_ELSE OP_DATA_20 <owner hash> OP_ENDIF OP_EQUALVERIFY OP_CHECKSIG.
	payToColdStakeLen = 51

	// Offsets into a cold stake script of the verify opcode and of the
	// staker and owner key hashes.
	coldStakeOpOffset     = 4
	coldStakeStakerOffset = 6
	coldStakeOwnerOffset  = 28
)

// IsPayToScriptHash returns true if the script is in the standard
// pay-to-script-hash (P2SH) format, false otherwise.
func IsPayToScriptHash(script []byte) bool {
	return len(script) == payToScriptHashLen &&
		script[0] == OP_HASH160 &&
		script[1] == OP_DATA_20 &&
		script[22] == OP_EQUAL
}

// isColdStakeWithOp returns true if the script is a cold stake script whose
// verify opcode is verifyOp.
func isColdStakeWithOp(script []byte, verifyOp byte) bool {
	return len(script) == payToColdStakeLen &&
		script[0] == OP_DUP &&
		script[1] == OP_HASH160 &&
		script[2] == OP_ROT &&
		script[3] == OP_IF &&
		script[coldStakeOpOffset] == verifyOp &&
		script[5] == OP_DATA_20 &&
		script[26] == OP_ELSE &&
		script[27] == OP_DATA_20 &&
		script[48] == OP_ENDIF &&
		script[49] == OP_EQUALVERIFY &&
		script[50] == OP_CHECKSIG
}

// IsPayToColdStake returns true if the script is a cold stake script guarded
// by OP_CHECKCOLDSTAKEVERIFY.
func IsPayToColdStake(script []byte) bool {
	return isColdStakeWithOp(script, OP_CHECKCOLDSTAKEVERIFY)
}

// IsPayToPoolColdStake returns true if the script is a cold stake script
// guarded by OP_CHECKPOOLCOLDSTAKEVERIFY.
func IsPayToPoolColdStake(script []byte) bool {
	return isColdStakeWithOp(script, OP_CHECKPOOLCOLDSTAKEVERIFY)
}

// extractColdStakeHashes returns the staker and owner key hashes of a cold
// stake script of either flavor, or nils if the script is not one.
func extractColdStakeHashes(script []byte) ([]byte, []byte) {
	if !IsPayToColdStake(script) && !IsPayToPoolColdStake(script) {
		return nil, nil
	}
	staker := script[coldStakeStakerOffset : coldStakeStakerOffset+20]
	owner := script[coldStakeOwnerOffset : coldStakeOwnerOffset+20]
	return staker, owner
}

// IsPushOnlyScript returns whether or not the passed script only pushes data.
// The small integer opcodes and OP_RESERVED count as pushes.  A script that
// fails to parse is not push only.
func IsPushOnlyScript(script []byte) bool {
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		// All opcodes up to OP_16 are data push instructions.
		if tokenizer.Opcode() > OP_16 {
			return false
		}
	}
	return tokenizer.Err() == nil
}

// IsCanonicalPush returns true if the opcode is either not a push instruction
// or the push instruction contained wherein matches the canonical form or using
// the smallest instruction to do the job.  False otherwise.
func IsCanonicalPush(opcode byte, data []byte) bool {
	dataLen := len(data)
	if opcode > OP_16 {
		return true
	}

	if opcode < OP_PUSHDATA1 && opcode > OP_0 && (dataLen == 1 && data[0] <= 16) {
		return false
	}
	if opcode == OP_PUSHDATA1 && dataLen < OP_PUSHDATA1 {
		return false
	}
	if opcode == OP_PUSHDATA2 && dataLen <= 0xff {
		return false
	}
	if opcode == OP_PUSHDATA4 && dataLen <= 0xffff {
		return false
	}
	return true
}

// HasCanonicalPushes returns whether or not the passed script parses and every
// push in it uses its canonical form.
func HasCanonicalPushes(script []byte) bool {
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		if !IsCanonicalPush(tokenizer.Opcode(), tokenizer.Data()) {
			return false
		}
	}
	return tokenizer.Err() == nil
}

// DisasmString formats a disassembled script for one line printing.  When the
// script fails to parse, the returned string will contain the disassembled
// script up to the point the failure occurred along with the string '[error]'
// appended.  In addition, the reason the script failed to parse is returned
// if the caller wants more information about the failure.
func DisasmString(script []byte) (string, error) {
	var disbuf strings.Builder
	tokenizer := MakeScriptTokenizer(script)
	if tokenizer.Next() {
		op := &opcodeArray[tokenizer.Opcode()]
		disasmOpcode(&disbuf, op, tokenizer.Data(), true)
	}
	for tokenizer.Next() {
		disbuf.WriteByte(' ')
		op := &opcodeArray[tokenizer.Opcode()]
		disasmOpcode(&disbuf, op, tokenizer.Data(), true)
	}
	if tokenizer.Err() != nil {
		if tokenizer.ByteIndex() != 0 {
			disbuf.WriteByte(' ')
		}
		disbuf.WriteString("[error]")
	}
	return disbuf.String(), tokenizer.Err()
}

// removeOpcodeRaw returns the script with every occurrence of the serialized
// pattern that begins at an opcode boundary removed.  Consecutive occurrences
// at the same boundary are all removed and matching resumes after them.
// Parsing stops at the first malformed opcode and the remainder is kept as is.
func removeOpcodeRaw(script []byte, pattern ...byte) []byte {
	if len(pattern) == 0 || !bytes.Contains(script, pattern) {
		return script
	}

	result := make([]byte, 0, len(script))
	copied, offset := 0, 0
	for offset < len(script) {
		for len(script)-offset >= len(pattern) &&
			bytes.Equal(script[offset:offset+len(pattern)], pattern) {

			result = append(result, script[copied:offset]...)
			offset += len(pattern)
			copied = offset
		}
		if offset >= len(script) {
			break
		}

		// Step over the opcode at the current boundary.
		tokenizer := MakeScriptTokenizer(script[offset:])
		if !tokenizer.Next() {
			break
		}
		offset += int(tokenizer.ByteIndex())
	}
	return append(result, script[copied:]...)
}

// removeOpcodeByData returns the script minus any push of data encoded the way
// a signature is pushed when it is serialized.
func removeOpcodeByData(script []byte, data []byte) []byte {
	return removeOpcodeRaw(script, appendDataPush(nil, data)...)
}
