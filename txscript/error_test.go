// Copyright (c) 2017 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestErrorCodeStringer tests the stringized output for the ErrorCode type.
func TestErrorCodeStringer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   ErrorCode
		want string
	}{
		{ErrUnknown, "UNKNOWN"},
		{ErrEvalFalse, "EVAL_FALSE"},
		{ErrOpReturn, "OP_RETURN"},
		{ErrInvalidNumberRange64Bit, "INVALID_NUMBER_RANGE_64_BIT"},
		{ErrInvalidNumberRangeBigInt, "INVALID_NUMBER_RANGE_BIG_INT"},
		{ErrSigNullFail, "SIG_NULLFAIL"},
		{ErrDiscourageUpgradableNOPs, "DISCOURAGE_UPGRADABLE_NOPS"},
		{ErrLimitedContextNoSiblingInfo, "LIMITED_CONTEXT_NO_SIBLING_INFO"},
		{ErrSigHashMissingUtxos, "SIGHASH_MISSING_UTXOS"},
		{0xffff, "Unknown ErrorCode (65535)"},
	}

	// Detect additional error codes that don't have the stringer added.
	seen := make(map[string]ErrorCode)
	for c := ErrUnknown; c < numErrorCodes; c++ {
		s := c.String()
		require.NotContains(t, s, "Unknown ErrorCode", "code %d", int(c))
		prev, dup := seen[s]
		require.False(t, dup, "codes %d and %d share name %s",
			int(prev), int(c), s)
		seen[s] = c
	}

	for i, test := range tests {
		result := test.in.String()
		require.Equal(t, test.want, result, "test #%d", i)
	}
}

// TestError tests the error output for the Error type.
func TestError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   Error
		want string
	}{{
		Error{Description: "some error"},
		"some error",
	}, {
		Error{Description: "human-readable error"},
		"human-readable error",
	}}

	for i, test := range tests {
		result := test.in.Error()
		require.Equal(t, test.want, result, "test #%d", i)
	}
}

// TestIsErrorCode ensures error codes are found through wrapping.
func TestIsErrorCode(t *testing.T) {
	t.Parallel()

	err := scriptError(ErrSigDER, "bad der")
	wrapped := fmt.Errorf("input 3: %w", err)

	require.True(t, IsErrorCode(err, ErrSigDER))
	require.True(t, IsErrorCode(wrapped, ErrSigDER))
	require.False(t, IsErrorCode(wrapped, ErrSigHighS))
	require.False(t, IsErrorCode(errors.New("plain"), ErrUnknown))
	require.False(t, IsErrorCode(nil, ErrUnknown))

	require.Equal(t, ErrSigDER, ErrorCodeOf(wrapped))
	require.Equal(t, ErrUnknown, ErrorCodeOf(errors.New("plain")))
	require.Equal(t, ErrUnknown, ErrorCodeOf(nil))
}
