// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of script error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrUnknownError is returned when script execution was aborted by an
	// unexpected condition such as a recovered panic.
	ErrUnknownError ErrorCode = iota

	// ErrInternal is returned if internal consistency checks fail.  In
	// practice this error should never be seen as it would mean there is an
	// error in the engine logic.
	ErrInternal

	// ---------------------------------------
	// Failures related to improper API usage.
	// ---------------------------------------

	// ErrInvalidIndex is returned when an out-of-bounds index is passed to
	// a function.
	ErrInvalidIndex

	// ------------------------------------------
	// Failures related to final execution state.
	// ------------------------------------------

	// ErrEvalFalse is returned when the script evaluated without error but
	// terminated with a false top stack element or an empty stack.
	ErrEvalFalse

	// ErrOpReturn is returned when OP_RETURN is executed in the script.
	ErrOpReturn

	// ---------------------------------
	// Failures related to size limits.
	// ---------------------------------

	// ErrScriptSize is returned if a script is larger than
	// MaxScriptSize.
	ErrScriptSize

	// ErrPushSize is returned when the data being pushed onto the data
	// stack exceeds MaxScriptElementSize.
	ErrPushSize

	// ErrOpCount is returned when a script has more than MaxOpsPerScript
	// opcodes that are not push operations.
	ErrOpCount

	// ErrStackSize is returned when stack and altstack combined depth
	// is over the limit.
	ErrStackSize

	// ErrPubKeyCount is returned when the number of public keys specified
	// for a multsig is either negative or greater than
	// MaxPubKeysPerMultiSig.
	ErrPubKeyCount

	// ErrSigCount is returned when the number of signatures specified for
	// a multisig is either negative or greater than the number of public
	// keys.
	ErrSigCount

	// ErrElementSize is returned when a numeric operand is encoded with
	// more bytes than the opcode consuming it accepts.
	ErrElementSize

	// ---------------------------------
	// Failures related to verification.
	// ---------------------------------

	// ErrVerify is returned when OP_VERIFY is encountered in a script and
	// the top item on the data stack does not evaluate to true.
	ErrVerify

	// ErrEqualVerify is returned when OP_EQUALVERIFY is encountered in a
	// script and the top item on the data stack does not evaluate to true.
	ErrEqualVerify

	// ErrNumEqualVerify is returned when OP_NUMEQUALVERIFY is encountered
	// in a script and the top item on the data stack does not evaluate to
	// true.
	ErrNumEqualVerify

	// ErrCheckSigVerify is returned when OP_CHECKSIGVERIFY is encountered
	// in a script and the top item on the data stack does not evaluate to
	// true.
	ErrCheckSigVerify

	// ErrCheckMultiSigVerify is returned when OP_CHECKMULTISIGVERIFY is
	// encountered in a script and the top item on the data stack does not
	// evaluate to true.
	ErrCheckMultiSigVerify

	// ErrCheckColdStakeVerify is returned when OP_CHECKCOLDSTAKEVERIFY or
	// OP_CHECKPOOLCOLDSTAKEVERIFY is encountered and the spending
	// transaction does not satisfy the cold staking rules.
	ErrCheckColdStakeVerify

	// --------------------------------------------
	// Failures related to improper use of opcodes.
	// --------------------------------------------

	// ErrDisabledOpcode is returned when a disabled opcode is encountered
	// in a script.
	ErrDisabledOpcode

	// ErrBadOpcode is returned when a reserved or undefined opcode is
	// executed, or when a push runs past the end of the script.
	ErrBadOpcode

	// ErrInvalidStackOperation is returned when an opcode requires more
	// items on the data stack than are present.
	ErrInvalidStackOperation

	// ErrInvalidAltstackOperation is returned when OP_FROMALTSTACK is
	// executed with an empty alternate stack.
	ErrInvalidAltstackOperation

	// ErrUnbalancedConditional is returned when an OP_ELSE or OP_ENDIF is
	// encountered in a script without first having an OP_IF or OP_NOTIF,
	// when the end of a script is reached without an OP_ENDIF, or when an
	// OP_IF or OP_NOTIF finds nothing on the stack.
	ErrUnbalancedConditional

	// ErrArithmeticOp is returned when a numeric operand is not minimally
	// encoded while ScriptVerifyMinimalData is in effect.
	ErrArithmeticOp

	// -------------------------------
	// Failures related to lock times.
	// -------------------------------

	// ErrNegativeLockTime is returned when a script contains an opcode that
	// interprets a negative lock time.
	ErrNegativeLockTime

	// ErrUnsatisfiedLockTime is returned when a script contains an opcode
	// that involves a lock time and the required lock time has not been
	// reached.
	ErrUnsatisfiedLockTime

	// ----------------------------------
	// Failures related to pay-to-script-hash.
	// ----------------------------------

	// ErrSigPushOnly is returned when a signature script spending a
	// pay-to-script-hash output contains opcodes other than pushes.
	ErrSigPushOnly

	// -----------------------------------------------------------
	// Failures related to canonical signature and key encodings.
	// -----------------------------------------------------------

	// ErrInvalidSigHashType is returned when a signature hash type is not
	// one of the supported types.
	ErrInvalidSigHashType

	// ErrSigTooShort is returned when a signature that should be a
	// canonically-encoded DER signature is too short.
	ErrSigTooShort

	// ErrSigTooLong is returned when a signature that should be a
	// canonically-encoded DER signature is too long.
	ErrSigTooLong

	// ErrSigInvalidSeqID is returned when a signature that should be a
	// canonically-encoded DER signature does not have the expected ASN.1
	// sequence ID.
	ErrSigInvalidSeqID

	// ErrSigInvalidDataLen is returned a signature that should be a
	// canonically-encoded DER signature does not specify the correct number
	// of remaining bytes for the R and S portions.
	ErrSigInvalidDataLen

	// ErrSigMissingSTypeID is returned when a signature that should be a
	// canonically-encoded DER signature does not provide the ASN.1 type ID
	// for S.
	ErrSigMissingSTypeID

	// ErrSigMissingSLen is returned when a signature that should be a
	// canonically-encoded DER signature does not provide the length of S.
	ErrSigMissingSLen

	// ErrSigInvalidSLen is returned when a signature that should be a
	// canonically-encoded DER signature does not specify the correct number
	// of bytes for the S portion.
	ErrSigInvalidSLen

	// ErrSigInvalidRIntID is returned when a signature that should be a
	// canonically-encoded DER signature does not have the expected ASN.1
	// integer ID for R.
	ErrSigInvalidRIntID

	// ErrSigZeroRLen is returned when a signature that should be a
	// canonically-encoded DER signature has an R length of zero.
	ErrSigZeroRLen

	// ErrSigNegativeR is returned when a signature that should be a
	// canonically-encoded DER signature has a negative value for R.
	ErrSigNegativeR

	// ErrSigTooMuchRPadding is returned when a signature that should be a
	// canonically-encoded DER signature has too much padding for R.
	ErrSigTooMuchRPadding

	// ErrSigInvalidSIntID is returned when a signature that should be a
	// canonically-encoded DER signature does not have the expected ASN.1
	// integer ID for S.
	ErrSigInvalidSIntID

	// ErrSigZeroSLen is returned when a signature that should be a
	// canonically-encoded DER signature has an S length of zero.
	ErrSigZeroSLen

	// ErrSigNegativeS is returned when a signature that should be a
	// canonically-encoded DER signature has a negative value for S.
	ErrSigNegativeS

	// ErrSigTooMuchSPadding is returned when a signature that should be a
	// canonically-encoded DER signature has too much padding for S.
	ErrSigTooMuchSPadding

	// ErrSigHighS is returned when a signature that should be a
	// canonically-encoded DER signature has an S value that is higher than
	// the curve half order.
	ErrSigHighS

	// ErrPubKeyType is returned when a public key is neither a 33-byte
	// compressed nor a 65-byte uncompressed serialization.
	ErrPubKeyType

	// numErrorCodes is the maximum error code number used in tests.  This
	// entry MUST be the last entry in the enum.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrUnknownError:             "ErrUnknownError",
	ErrInternal:                 "ErrInternal",
	ErrInvalidIndex:             "ErrInvalidIndex",
	ErrEvalFalse:                "ErrEvalFalse",
	ErrOpReturn:                 "ErrOpReturn",
	ErrScriptSize:               "ErrScriptSize",
	ErrPushSize:                 "ErrPushSize",
	ErrOpCount:                  "ErrOpCount",
	ErrStackSize:                "ErrStackSize",
	ErrPubKeyCount:              "ErrPubKeyCount",
	ErrSigCount:                 "ErrSigCount",
	ErrElementSize:              "ErrElementSize",
	ErrVerify:                   "ErrVerify",
	ErrEqualVerify:              "ErrEqualVerify",
	ErrNumEqualVerify:           "ErrNumEqualVerify",
	ErrCheckSigVerify:           "ErrCheckSigVerify",
	ErrCheckMultiSigVerify:      "ErrCheckMultiSigVerify",
	ErrCheckColdStakeVerify:     "ErrCheckColdStakeVerify",
	ErrDisabledOpcode:           "ErrDisabledOpcode",
	ErrBadOpcode:                "ErrBadOpcode",
	ErrInvalidStackOperation:    "ErrInvalidStackOperation",
	ErrInvalidAltstackOperation: "ErrInvalidAltstackOperation",
	ErrUnbalancedConditional:    "ErrUnbalancedConditional",
	ErrArithmeticOp:             "ErrArithmeticOp",
	ErrNegativeLockTime:         "ErrNegativeLockTime",
	ErrUnsatisfiedLockTime:      "ErrUnsatisfiedLockTime",
	ErrSigPushOnly:              "ErrSigPushOnly",
	ErrInvalidSigHashType:       "ErrInvalidSigHashType",
	ErrSigTooShort:              "ErrSigTooShort",
	ErrSigTooLong:               "ErrSigTooLong",
	ErrSigInvalidSeqID:          "ErrSigInvalidSeqID",
	ErrSigInvalidDataLen:        "ErrSigInvalidDataLen",
	ErrSigMissingSTypeID:        "ErrSigMissingSTypeID",
	ErrSigMissingSLen:           "ErrSigMissingSLen",
	ErrSigInvalidSLen:           "ErrSigInvalidSLen",
	ErrSigInvalidRIntID:         "ErrSigInvalidRIntID",
	ErrSigZeroRLen:              "ErrSigZeroRLen",
	ErrSigNegativeR:             "ErrSigNegativeR",
	ErrSigTooMuchRPadding:       "ErrSigTooMuchRPadding",
	ErrSigInvalidSIntID:         "ErrSigInvalidSIntID",
	ErrSigZeroSLen:              "ErrSigZeroSLen",
	ErrSigNegativeS:             "ErrSigNegativeS",
	ErrSigTooMuchSPadding:       "ErrSigTooMuchSPadding",
	ErrSigHighS:                 "ErrSigHighS",
	ErrPubKeyType:               "ErrPubKeyType",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a script-related error.  It is used to indicate three
// classes of errors:
//  1. Script execution failures due to violating one of the many requirements
//     imposed by the script engine or evaluating to false
//  2. Improper API usage by callers
//  3. Internal consistency check failures
//
// The caller can use type assertions on the returned errors to access the
// ErrorCode field to ascertain the specific reason for the error.  As an
// additional convenience, the caller may make use of the IsErrorCode function
// to check for a specific error code.
type Error struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// scriptError creates an Error given a set of arguments.
func scriptError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a script error
// with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var serr Error
	return errors.As(err, &serr) && serr.ErrorCode == c
}
