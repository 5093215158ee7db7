// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coindb

import "fmt"

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific database Error.
const (
	// ErrCoinNotFound indicates no coin is stored for an outpoint.
	ErrCoinNotFound ErrorCode = iota

	// ErrCorruption indicates a stored coin could not be decoded.
	ErrCorruption

	// ErrDriverSpecific indicates the underlying engine failed.  The
	// engine error is available through Unwrap.
	ErrDriverSpecific

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrCoinNotFound:   "ErrCoinNotFound",
	ErrCorruption:     "ErrCorruption",
	ErrDriverSpecific: "ErrDriverSpecific",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error provides a single type for errors that can happen during coin store
// operation.
//
// The caller can use type assertions to determine the specific error and
// access the ErrorCode field to ascertain the specific reason for the
// failure.
type Error struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
	Err         error     // Underlying error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.  The error code must
// be one of the error codes provided by this package.
func makeError(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// IsErrorCode returns whether err is an Error with a matching error code.
func IsErrorCode(err error, c ErrorCode) bool {
	e, ok := err.(Error)
	return ok && e.ErrorCode == c
}
