// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript implements the neblio transaction script language.

This package provides data structures and functions to parse, execute, sign
and classify neblio transaction scripts.

# Script Overview

Neblio transaction scripts are written in a stack-base, FORTH-like language.

The neblio script language consists of a number of opcodes which fall into
several categories such pushing and popping data to and from the stack,
performing basic arithmetic, conditional branching, comparing hashes, and
checking cryptographic signatures.  Scripts are processed from left to right
and intentionally do not provide loops.

Apart from the opcodes shared with bitcoin, neblio defines two cold staking
opcodes.  OP_CHECKCOLDSTAKEVERIFY and OP_CHECKPOOLCOLDSTAKEVERIFY consult a
caller supplied ColdStakeChecker which looks at the whole spending
transaction, allowing a staking key to stake an output without being able to
spend it.

# Standard Scripts

Solver recognizes pay-to-pubkey, pay-to-pubkey-hash, pay-to-script-hash,
multisig, cold stake and null data scripts.  SignHash, SignTxInput and
CombineSignatures produce and merge unlocking scripts for them, and
CompressScript provides the compact encoding used to store them.

# Errors

Errors returned by this package while executing scripts are of type
txscript.Error and carry an ErrorCode identifying the failure.  Use
IsErrorCode to test for a specific code.  Signing and classification report
routine failures with the sentinel errors ErrUnsupportedScriptType,
ErrKeyNotFound, ErrNestedScriptHash, ErrIncompleteSignature,
ErrNoDestination and ErrUnsupportedAddress.
*/
package txscript
