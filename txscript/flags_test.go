// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScriptFlagsString ensures flags are named in ascending bit order with
// unknown bits in hex.
func TestScriptFlagsString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   ScriptFlags
		want string
	}{
		{0, "NONE"},
		{ScriptVerifyP2SH, "P2SH"},
		{ScriptVerifyStrictEncoding | ScriptVerifyP2SH, "P2SH,STRICTENC"},
		{ScriptEnableTokens | ScriptVerify64BitIntegers,
			"64_BIT_INTEGERS,ENABLE_TOKENS"},
		{ScriptVerifyBigIntegers, "BIG_INTEGERS"},
		{ScriptVerifyP2SH | 1<<31, "P2SH,0x80000000"},
	}

	for _, test := range tests {
		require.Equal(t, test.want, test.in.String())
	}
}

// TestParseScriptFlags ensures flag lists parse and every named flag round
// trips through its string form.
func TestParseScriptFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want ScriptFlags
		err  ErrorCode
	}{
		{in: "", want: 0},
		{in: "NONE", want: 0},
		{in: "P2SH", want: ScriptVerifyP2SH},
		{in: "P2SH, STRICTENC", want: ScriptVerifyP2SH | ScriptVerifyStrictEncoding},
		{in: "STANDARD", want: StandardVerifyFlags},
		{in: "MANDATORY", want: MandatoryScriptVerifyFlags},
		{in: "MANDATORY,BIG_INTEGERS", want: MandatoryScriptVerifyFlags | ScriptVerifyBigIntegers},
		{in: "P2SH,BOGUS", err: ErrInvalidFlags},
	}

	for _, test := range tests {
		got, err := ParseScriptFlags(test.in)
		if test.err != ErrUnknown {
			require.True(t, IsErrorCode(err, test.err), test.in)
			continue
		}
		require.NoError(t, err, test.in)
		require.Equal(t, test.want, got, test.in)
	}

	for name, flag := range flagNames {
		got, err := ParseScriptFlags(flag.String())
		require.NoError(t, err, name)
		require.Equal(t, flag, got, name)
	}

	all, err := ParseScriptFlags(StandardVerifyFlags.String())
	require.NoError(t, err)
	require.Equal(t, StandardVerifyFlags, all)
}

// TestStandardFlagsIncludeMandatory ensures standard verification is at least
// as strict as consensus.
func TestStandardFlagsIncludeMandatory(t *testing.T) {
	t.Parallel()

	require.True(t, StandardVerifyFlags.HasFlag(MandatoryScriptVerifyFlags))
	require.True(t, StandardVerifyFlags.HasFlag(ScriptVerifyCleanStack|
		ScriptVerifyP2SH))
}

// TestSigHashType ensures the hash type accessors decompose the byte as
// expected.
func TestSigHashType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        SigHashType
		base      SigHashType
		forkID    bool
		acp       bool
		utxos     bool
		isDefined bool
		str       string
	}{
		{0x01, SigHashAll, false, false, false, true, "ALL"},
		{0x41, SigHashAll, true, false, false, true, "ALL|FORKID"},
		{0xc2, SigHashNone, true, true, false, true, "NONE|FORKID|ANYONECANPAY"},
		{0x83, SigHashSingle, false, true, false, true, "SINGLE|ANYONECANPAY"},
		{0x61, SigHashAll, true, false, true, true, "ALL|UTXOS|FORKID"},
		{0x00, 0x00, false, false, false, false, "UNDEFINED(0x00)"},
		{0x44, 0x04, true, false, false, false, "UNDEFINED(0x04)|FORKID"},
		{0x1f, 0x1f, false, false, false, false, "UNDEFINED(0x1f)"},
	}

	for _, test := range tests {
		require.Equal(t, test.base, test.in.BaseType(), "%#x", byte(test.in))
		require.Equal(t, test.forkID, test.in.HasForkID(), "%#x", byte(test.in))
		require.Equal(t, test.acp, test.in.HasAnyOneCanPay(), "%#x", byte(test.in))
		require.Equal(t, test.utxos, test.in.HasUtxos(), "%#x", byte(test.in))
		require.Equal(t, test.isDefined, test.in.IsDefined(), "%#x", byte(test.in))
		require.Equal(t, test.str, test.in.String(), "%#x", byte(test.in))
	}

	require.Equal(t, SigHashType(0), sigHashTypeOf(nil))
	require.Equal(t, SigHashType(0x41), sigHashTypeOf([]byte{0x30, 0x41}))
}
