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
	// ErrUnknown is returned when a failure does not map to any of the more
	// specific error codes.
	ErrUnknown ErrorCode = iota

	// ErrEvalFalse is returned when the script evaluated without error but
	// terminated with a false top stack element or an empty stack.
	ErrEvalFalse

	// ErrOpReturn is returned when OP_RETURN is executed.
	ErrOpReturn

	// ---------------------------------------
	// Failures related to size limits.
	// ---------------------------------------

	// ErrScriptSize is returned if a script is larger than MaxScriptSize.
	ErrScriptSize

	// ErrPushSize is returned when attempting to push an element that is
	// larger than MaxScriptElementSize to the stack.
	ErrPushSize

	// ErrOpCount is returned when a script exceeds MaxOpsPerScript
	// non-push operations.
	ErrOpCount

	// ErrStackSize is returned when the combined size of the data and
	// alternate stacks exceeds MaxStackSize.
	ErrStackSize

	// ErrSigCount is returned when the number of signatures provided to a
	// multisig operation is negative or exceeds the number of keys.
	ErrSigCount

	// ErrPubKeyCount is returned when the number of public keys provided to
	// a multisig operation is negative or exceeds MaxPubKeysPerMultiSig.
	ErrPubKeyCount

	// ---------------------------------------
	// Failures related to operands.
	// ---------------------------------------

	// ErrInvalidOperandSize is returned when the bitwise operations are
	// given operands of differing lengths.
	ErrInvalidOperandSize

	// ErrInvalidNumberRange is returned when a numeric operand is larger
	// than the operand width allowed by the legacy numeric rules.
	ErrInvalidNumberRange

	// ErrInvalidNumberRange64Bit is returned when a numeric result falls
	// outside of the 64-bit numeric range.
	ErrInvalidNumberRange64Bit

	// ErrInvalidNumberRangeBigInt is returned when a numeric operand or
	// result falls outside of the configured big integer range.
	ErrInvalidNumberRangeBigInt

	// ErrImpossibleEncoding is returned when OP_NUM2BIN is asked to encode a
	// number in fewer bytes than its minimal encoding requires.
	ErrImpossibleEncoding

	// ErrInvalidSplitRange is returned when OP_SPLIT is given a position
	// outside of the element being split.
	ErrInvalidSplitRange

	// ErrInvalidBitCount is returned when the number of set bits in a
	// Schnorr multisig bitfield does not match the signature count.
	ErrInvalidBitCount

	// ---------------------------------------
	// Failures related to verification operations.
	// ---------------------------------------

	// ErrVerify is returned when OP_VERIFY is encountered in a script and
	// the top item on the data stack does not evaluate to true.
	ErrVerify

	// ErrEqualVerify is returned when OP_EQUALVERIFY is encountered in a
	// script and the top item on the data stack does not evaluate to true.
	ErrEqualVerify

	// ErrNumEqualVerify is returned when OP_NUMEQUALVERIFY is encountered in
	// a script and the top item on the data stack does not evaluate to
	// true.
	ErrNumEqualVerify

	// ErrCheckSigVerify is returned when OP_CHECKSIGVERIFY is encountered in
	// a script and the top item on the data stack does not evaluate to
	// true.
	ErrCheckSigVerify

	// ErrCheckDataSigVerify is returned when OP_CHECKDATASIGVERIFY fails.
	ErrCheckDataSigVerify

	// ErrCheckMultiSigVerify is returned when OP_CHECKMULTISIGVERIFY is
	// encountered in a script and the top item on the data stack does not
	// evaluate to true.
	ErrCheckMultiSigVerify

	// ---------------------------------------
	// Failures related to improper use of opcodes.
	// ---------------------------------------

	// ErrBadOpcode is returned when a script contains an opcode that can
	// not be decoded, is undefined or is not available under the active
	// flags.
	ErrBadOpcode

	// ErrDisabledOpcode is returned when a disabled opcode is encountered
	// in a script.
	ErrDisabledOpcode

	// ErrInvalidStackOperation is returned when an opcode requires more
	// items on the data stack than are present.
	ErrInvalidStackOperation

	// ErrInvalidAltStackOperation is returned when an opcode requires more
	// items on the alternate stack than are present.
	ErrInvalidAltStackOperation

	// ErrUnbalancedConditional is returned when an OP_ELSE or OP_ENDIF is
	// encountered without a matching OP_IF or OP_NOTIF, or when the end of
	// the script is reached with unterminated conditionals.
	ErrUnbalancedConditional

	// ---------------------------------------
	// Failures related to lock times.
	// ---------------------------------------

	// ErrNegativeLockTime is returned when a script contains an opcode that
	// interprets a negative lock time.
	ErrNegativeLockTime

	// ErrUnsatisfiedLockTime is returned when a script contains an opcode
	// that involves a lock time and the required lock time has not been
	// reached.
	ErrUnsatisfiedLockTime

	// ---------------------------------------
	// Failures related to malleability and encodings.
	// ---------------------------------------

	// ErrSigHashType is returned when a signature hash type is not one of
	// the supported types under the active flags.
	ErrSigHashType

	// ErrSigDER is returned when a signature is not a canonically-encoded
	// DER signature.
	ErrSigDER

	// ErrMinimalData is returned when the MinimalData flag is set and the
	// script contains push operations that do not use the minimal opcode
	// required.
	ErrMinimalData

	// ErrSigPushOnly is returned when a signature script contains non-push
	// opcodes where only pushes are allowed.
	ErrSigPushOnly

	// ErrSigHighS is returned when the LowS flag is set and the script
	// contains any signatures whose S values are higher than the half
	// order.
	ErrSigHighS

	// ErrPubKeyType is returned when the StrictEncoding flag is set and the
	// script contains invalid public keys.
	ErrPubKeyType

	// ErrCleanStack is returned when the CleanStack flag is set and, after
	// evaluation, the stack does not contain only a single element.
	ErrCleanStack

	// ErrMinimalIf is returned if the MinimalIf flag is set and the operand
	// of an OP_IF/OP_NOTIF is not either an empty vector or [0x01].
	ErrMinimalIf

	// ErrSigNullFail is returned if the NullFail flag is set and signatures
	// are not empty on failed checksig or checkmultisig operations.
	ErrSigNullFail

	// ErrMinimalNum is returned when a numeric operand is not minimally
	// encoded and minimal encoding is required.
	ErrMinimalNum

	// ErrDiscourageUpgradableNOPs is returned when the
	// DiscourageUpgradableNops flag is set and a NOP opcode is encountered
	// in a script.
	ErrDiscourageUpgradableNOPs

	// ErrNonCompressedPubKey is returned when the CompressedPubKeyType flag
	// is set and a public key is not in compressed form.
	ErrNonCompressedPubKey

	// ErrIllegalForkID is returned when a signature uses the fork id bit
	// while replay protection is not active.
	ErrIllegalForkID

	// ErrMustUseForkID is returned when a signature omits the fork id bit
	// while replay protection is active.
	ErrMustUseForkID

	// ErrDivByZero is returned when OP_DIV is given a zero divisor.
	ErrDivByZero

	// ErrModByZero is returned when OP_MOD is given a zero divisor.
	ErrModByZero

	// ErrInvalidBitfieldSize is returned when a Schnorr multisig bitfield
	// does not have the exact length required by the key count.
	ErrInvalidBitfieldSize

	// ErrInvalidBitRange is returned when a Schnorr multisig bitfield has
	// bits set beyond the number of keys.
	ErrInvalidBitRange

	// ErrSigBadLength is returned when a 64-byte signature is given in a
	// context where only ECDSA signatures are accepted.
	ErrSigBadLength

	// ErrSigNonSchnorr is returned when a signature that is not 64 bytes
	// is given to the Schnorr multisig mode.
	ErrSigNonSchnorr

	// ErrSigNullDummy is returned when the NullDummy flag is set and the
	// legacy multisig dummy element is not empty.
	ErrSigNullDummy

	// ErrInputSigChecks is returned when the number of signature checks of
	// an input is too high for the size of its signature script.
	ErrInputSigChecks

	// ---------------------------------------
	// Failures related to native introspection.
	// ---------------------------------------

	// ErrContextNotPresent is returned when an introspection opcode is
	// executed without a transaction context.
	ErrContextNotPresent

	// ErrLimitedContextNoSiblingInfo is returned when a coin of another
	// input is queried through a context that only carries the coin being
	// spent.
	ErrLimitedContextNoSiblingInfo

	// ErrInvalidTxInputIndex is returned when an introspection opcode is
	// given an input index outside of the transaction.
	ErrInvalidTxInputIndex

	// ErrInvalidTxOutputIndex is returned when an introspection opcode is
	// given an output index outside of the transaction.
	ErrInvalidTxOutputIndex

	// ---------------------------------------
	// Failures not related to script evaluation.
	// ---------------------------------------

	// ErrInvalidFlags is returned when the passed flags are inconsistent,
	// for example CleanStack without P2SH.
	ErrInvalidFlags

	// ErrInvalidIndex is returned when an input index is out of range for
	// the transaction it refers to.
	ErrInvalidIndex

	// ErrSigHashMissingUtxos is returned when a signature commits to the
	// spent outputs but the spent outputs of the transaction are not
	// available.
	ErrSigHashMissingUtxos

	// numErrorCodes is the maximum error code number used in tests.  This
	// entry MUST be the last entry in the enum.
	numErrorCodes
)

// Map of ErrorCode values back to their stable reason strings.
var errorCodeStrings = map[ErrorCode]string{
	ErrUnknown:                     "UNKNOWN",
	ErrEvalFalse:                   "EVAL_FALSE",
	ErrOpReturn:                    "OP_RETURN",
	ErrScriptSize:                  "SCRIPT_SIZE",
	ErrPushSize:                    "PUSH_SIZE",
	ErrOpCount:                     "OP_COUNT",
	ErrStackSize:                   "STACK_SIZE",
	ErrSigCount:                    "SIG_COUNT",
	ErrPubKeyCount:                 "PUBKEY_COUNT",
	ErrInvalidOperandSize:          "INVALID_OPERAND_SIZE",
	ErrInvalidNumberRange:          "INVALID_NUMBER_RANGE",
	ErrInvalidNumberRange64Bit:     "INVALID_NUMBER_RANGE_64_BIT",
	ErrInvalidNumberRangeBigInt:    "INVALID_NUMBER_RANGE_BIG_INT",
	ErrImpossibleEncoding:          "IMPOSSIBLE_ENCODING",
	ErrInvalidSplitRange:           "INVALID_SPLIT_RANGE",
	ErrInvalidBitCount:             "INVALID_BIT_COUNT",
	ErrVerify:                      "VERIFY",
	ErrEqualVerify:                 "EQUALVERIFY",
	ErrNumEqualVerify:              "NUMEQUALVERIFY",
	ErrCheckSigVerify:              "CHECKSIGVERIFY",
	ErrCheckDataSigVerify:          "CHECKDATASIGVERIFY",
	ErrCheckMultiSigVerify:         "CHECKMULTISIGVERIFY",
	ErrBadOpcode:                   "BAD_OPCODE",
	ErrDisabledOpcode:              "DISABLED_OPCODE",
	ErrInvalidStackOperation:       "INVALID_STACK_OPERATION",
	ErrInvalidAltStackOperation:    "INVALID_ALTSTACK_OPERATION",
	ErrUnbalancedConditional:       "UNBALANCED_CONDITIONAL",
	ErrNegativeLockTime:            "NEGATIVE_LOCKTIME",
	ErrUnsatisfiedLockTime:         "UNSATISFIED_LOCKTIME",
	ErrSigHashType:                 "SIG_HASHTYPE",
	ErrSigDER:                      "SIG_DER",
	ErrMinimalData:                 "MINIMALDATA",
	ErrSigPushOnly:                 "SIG_PUSHONLY",
	ErrSigHighS:                    "SIG_HIGH_S",
	ErrPubKeyType:                  "PUBKEY_TYPE",
	ErrCleanStack:                  "CLEANSTACK",
	ErrMinimalIf:                   "MINIMALIF",
	ErrSigNullFail:                 "SIG_NULLFAIL",
	ErrMinimalNum:                  "MINIMALNUM",
	ErrDiscourageUpgradableNOPs:    "DISCOURAGE_UPGRADABLE_NOPS",
	ErrNonCompressedPubKey:         "NONCOMPRESSED_PUBKEY",
	ErrIllegalForkID:               "ILLEGAL_FORKID",
	ErrMustUseForkID:               "MUST_USE_FORKID",
	ErrDivByZero:                   "DIV_BY_ZERO",
	ErrModByZero:                   "MOD_BY_ZERO",
	ErrInvalidBitfieldSize:         "INVALID_BITFIELD_SIZE",
	ErrInvalidBitRange:             "INVALID_BIT_RANGE",
	ErrSigBadLength:                "SIG_BADLENGTH",
	ErrSigNonSchnorr:               "SIG_NONSCHNORR",
	ErrSigNullDummy:                "SIG_NULLDUMMY",
	ErrInputSigChecks:              "INPUT_SIGCHECKS",
	ErrContextNotPresent:           "CONTEXT_NOT_PRESENT",
	ErrLimitedContextNoSiblingInfo: "LIMITED_CONTEXT_NO_SIBLING_INFO",
	ErrInvalidTxInputIndex:         "INVALID_TX_INPUT_INDEX",
	ErrInvalidTxOutputIndex:        "INVALID_TX_OUTPUT_INDEX",
	ErrInvalidFlags:                "INVALID_FLAGS",
	ErrInvalidIndex:                "INVALID_INDEX",
	ErrSigHashMissingUtxos:         "SIGHASH_MISSING_UTXOS",
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

// IsErrorCode returns whether or not the provided error is a script error with
// the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var serr Error
	return errors.As(err, &serr) && serr.ErrorCode == c
}

// ErrorCodeOf returns the error code carried by a script error, or ErrUnknown
// when the error is not a script error.  A nil error has no code and also maps
// to ErrUnknown.
func ErrorCodeOf(err error) ErrorCode {
	var serr Error
	if errors.As(err, &serr) {
		return serr.ErrorCode
	}
	return ErrUnknown
}
