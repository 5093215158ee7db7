// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "fmt"

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrMissingTxOut indicates a transaction output referenced by an input
	// either does not exist or has already been spent.
	ErrMissingTxOut ErrorCode = iota

	// ErrBadTxInput indicates a transaction input is invalid in some way
	// such as the coins it spends not matching its inputs.
	ErrBadTxInput

	// ErrScriptValidation indicates the result of executing transaction
	// script failed.  The error covers any failure when executing scripts
	// such signature verification failures and execution past the end of
	// the stack.  The script error is available through Unwrap.
	ErrScriptValidation

	// ErrTxSigChecks indicates the signature checks performed by the
	// inputs of a transaction exceed the per transaction limit.
	ErrTxSigChecks

	// ErrBlockSigChecks indicates the signature checks performed by the
	// transactions of a block exceed the per block limit.
	ErrBlockSigChecks

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrMissingTxOut:     "ErrMissingTxOut",
	ErrBadTxInput:       "ErrBadTxInput",
	ErrScriptValidation: "ErrScriptValidation",
	ErrTxSigChecks:      "ErrTxSigChecks",
	ErrBlockSigChecks:   "ErrBlockSigChecks",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation.  It is used to indicate that
// processing of a block or transaction failed due to one of the many validation
// rules.  The caller can use type assertions to determine if a failure was
// specifically due to a rule violation and access the ErrorCode field to
// ascertain the specific reason for the rule violation.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
	Err         error     // Underlying script error, if any
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// Unwrap returns the underlying script error so errors.As can reach it.
func (e RuleError) Unwrap() error {
	return e.Err
}

// ruleError creates an RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether err is a RuleError with a matching error code.
func IsErrorCode(err error, c ErrorCode) bool {
	e, ok := err.(RuleError)
	return ok && e.ErrorCode == c
}
