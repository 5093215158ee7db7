// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPushedData ensured the PushedData function extracts the expected data out
// of various scripts.
func TestPushedData(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		script string
		out    [][]byte
		valid  bool
	}{{
		"0 IF 0 ELSE 2 ENDIF",
		nil,
		false,
	}, {
		"16777216 10000000",
		[][]byte{
			{0x00, 0x00, 0x00, 0x01}, // 16777216
			{0x80, 0x96, 0x98, 0x00}, // 10000000
		},
		true,
	}, {
		"0 0x14 0x0102030405060708090a0b0c0d0e0f1011121314",
		[][]byte{nil, hexToBytes("0102030405060708090a0b0c0d0e0f1011121314")},
		true,
	}, {
		"DUP HASH160 '17VZNX1SN5NtKa8UQFxwQbFeFc3iqRYhem' EQUALVERIFY CHECKSIG",
		nil,
		false,
	}, {
		"OP_PUSHDATA4 0x1000 0x0102",
		nil,
		false,
	}, {
		"1 2 3",
		nil,
		true,
	}}

	for i, test := range tests {
		script := mustParseShortForm(test.script)
		data, err := PushedData(script)
		if test.valid {
			require.NoError(t, err, "test #%d", i)
		} else {
			require.Error(t, err, "test #%d", i)
			continue
		}
		require.Equal(t, test.out, data, "test #%d", i)
	}
}

// TestIsPushOnlyScript ensures the IsPushOnlyScript function returns the
// expected results.
func TestIsPushOnlyScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script []byte
		want   bool
	}{
		{"empty", nil, true},
		{"small ints", mustParseShortForm("0 1 16 -1"), true},
		{"data", mustParseShortForm("0x02 0xabcd 'hello'"), true},
		{"reserved counts as push", []byte{OP_RESERVED}, true},
		{"nop", mustParseShortForm("NOP"), false},
		{"checksig", mustParseShortForm("0x01 0x01 CHECKSIG"), false},
		{"malformed push", hexToBytes("4c05ab"), false},
	}

	for _, test := range tests {
		require.Equal(t, test.want, IsPushOnlyScript(test.script), test.name)
	}
}

// TestIsPayToScriptHash ensures both script hash forms are recognized and the
// 32-byte form only when enabled.
func TestIsPayToScriptHash(t *testing.T) {
	t.Parallel()

	p2sh20 := mustParseShortForm("HASH160 0x14 0x" +
		"433ec2ac1ffa1b7b7d027f564529c57197f9ae88 EQUAL")
	p2sh32 := mustParseShortForm("HASH256 0x20 0x" +
		"433ec2ac1ffa1b7b7d027f564529c57197f9ae88433ec2ac1ffa1b7b7d027f56" +
		" EQUAL")
	p2pkh := mustParseShortForm("DUP HASH160 0x14 0x" +
		"433ec2ac1ffa1b7b7d027f564529c57197f9ae88 EQUALVERIFY CHECKSIG")

	require.True(t, IsPayToScriptHash(p2sh20, 0))
	require.True(t, IsPayToScriptHash(p2sh20, ScriptEnableP2SH32))
	require.False(t, IsPayToScriptHash(p2sh32, 0))
	require.True(t, IsPayToScriptHash(p2sh32, ScriptEnableP2SH32))
	require.False(t, IsPayToScriptHash(p2pkh, ScriptEnableP2SH32))

	// A non-minimal push of the hash is not a script hash.
	nonMinimal := mustParseShortForm("HASH160 PUSHDATA1 0x14 0x" +
		"433ec2ac1ffa1b7b7d027f564529c57197f9ae88 EQUAL")
	require.False(t, IsPayToScriptHash(nonMinimal, ScriptEnableP2SH32))

	require.True(t, isScriptHash20(p2sh20))
	require.True(t, isScriptHash32(p2sh32))
	require.False(t, isScriptHash32(p2sh20))
}

// TestIsWitnessProgram ensures witness program shaped scripts are detected.
func TestIsWitnessProgram(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script []byte
		want   bool
	}{
		{"v0 keyhash", append([]byte{OP_0, 0x14}, bytes.Repeat([]byte{1}, 20)...), true},
		{"v0 scripthash", append([]byte{OP_0, 0x20}, bytes.Repeat([]byte{1}, 32)...), true},
		{"v16 minimal", []byte{OP_16, 0x02, 0x01, 0x02}, true},
		{"v1 max", append([]byte{OP_1, 0x28}, bytes.Repeat([]byte{1}, 40)...), true},
		{"too short", []byte{OP_0, 0x01, 0x01}, false},
		{"too long", append([]byte{OP_0, 0x29}, bytes.Repeat([]byte{1}, 41)...), false},
		{"bad version", []byte{OP_1NEGATE, 0x02, 0x01, 0x02}, false},
		{"length mismatch", []byte{OP_0, 0x03, 0x01, 0x02}, false},
	}

	for _, test := range tests {
		require.Equal(t, test.want, isWitnessProgram(test.script), test.name)
	}
}

// TestFindAndDelete ensures matches are only removed on opcode boundaries.
func TestFindAndDelete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  string
		pattern string
		want    string
	}{
		{"whole push", "0302ff03", "0302ff03", ""},
		{"repeated push", "0302ff030302ff03", "0302ff03", ""},
		{"inside a push", "0302ff030302ff03", "02", "0302ff030302ff03"},
		{"inside push data", "0302ff030302ff03", "ff", "0302ff030302ff03"},
		{"strip push prefix", "0302ff030302ff03", "03", "02ff0302ff03"},
		{"spans opcodes", "02feed5169", "feed51", "02feed5169"},
		{"spans from boundary", "02feed5169", "02feed51", "69"},
		{"spans later", "516902feed5169", "feed51", "516902feed5169"},
		{"spans later from boundary", "516902feed5169", "02feed51", "516969"},
		{"single pass", "00005151", "0051", "0051"},
		{"consecutive", "000051005151", "0051", "0051"},
		{"invalid trailing push", "0003feed", "03feed", "00"},
		{"kept after parse failure", "0003feed", "00", "03feed"},
		{"empty pattern", "0302ff03", "", "0302ff03"},
	}

	for _, test := range tests {
		got := findAndDelete(hexToBytes(test.script), hexToBytes(test.pattern))
		require.Equal(t, hexToBytes(test.want), append([]byte{}, got...),
			test.name)
	}
}

// TestCleanupScriptCode ensures signatures are removed from the script code
// unless they commit to the fork id.
func TestCleanupScriptCode(t *testing.T) {
	t.Parallel()

	legacySig := append(bytes.Repeat([]byte{0x30}, 70), byte(SigHashAll))
	forkSig := append(bytes.Repeat([]byte{0x30}, 70),
		byte(SigHashAll|SigHashForkID))
	script := func(sig []byte) []byte {
		b := pushOf(sig)
		return append(b, OP_CHECKSIG)
	}

	got := cleanupScriptCode(script(legacySig), legacySig,
		ScriptEnableSighashForkID)
	require.Equal(t, []byte{OP_CHECKSIG}, got)

	got = cleanupScriptCode(script(forkSig), forkSig,
		ScriptEnableSighashForkID)
	require.Equal(t, script(forkSig), got)

	// Without the fork id enabled the bit does not exempt the signature.
	got = cleanupScriptCode(script(forkSig), forkSig, 0)
	require.Equal(t, []byte{OP_CHECKSIG}, got)

	// Only the raw push form is removed.
	one := []byte{0x01}
	got = cleanupScriptCode([]byte{OP_1, OP_DATA_1, 0x01}, one, 0)
	require.Equal(t, []byte{OP_1}, got)
}

// TestPushOf ensures the raw push encoding is used for every length.
func TestPushOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, []byte{0x00}, pushOf(nil))
	require.Equal(t, []byte{0x01, 0x05}, pushOf([]byte{0x05}))
	require.Equal(t, []byte{OP_PUSHDATA1, 76},
		pushOf(make([]byte, 76))[:2])
	require.Equal(t, []byte{OP_PUSHDATA2, 0x00, 0x01},
		pushOf(make([]byte, 256))[:3])
	require.Equal(t, []byte{OP_PUSHDATA4, 0x00, 0x00, 0x01, 0x00},
		pushOf(make([]byte, 65536))[:5])
}

// TestRemoveCodeSeparators ensures only separators on opcode boundaries are
// removed.
func TestRemoveCodeSeparators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script []byte
		want   []byte
	}{
		{"none", []byte{OP_1, OP_2}, []byte{OP_1, OP_2}},
		{"all", []byte{OP_CODESEPARATOR, OP_CODESEPARATOR}, nil},
		{"between", []byte{OP_1, OP_CODESEPARATOR, OP_2}, []byte{OP_1, OP_2}},
		{"inside push", []byte{OP_DATA_1, OP_CODESEPARATOR, OP_CODESEPARATOR},
			[]byte{OP_DATA_1, OP_CODESEPARATOR}},
		{"after parse failure", []byte{OP_CODESEPARATOR, OP_DATA_2, OP_CODESEPARATOR},
			[]byte{OP_DATA_2, OP_CODESEPARATOR}},
	}

	for _, test := range tests {
		got := removeCodeSeparators(test.script)
		require.Equal(t, len(test.want), len(got), test.name)
		require.True(t, bytes.Equal(test.want, got), test.name)
	}
}

// TestDisasmString ensures scripts are disassembled on one line with parse
// failures marked.
func TestDisasmString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  []byte
		want    string
		wantErr bool
	}{
		{"empty", nil, "", false},
		{"p2pkh", mustParseShortForm("DUP HASH160 0x14 0x" +
			"0102030405060708090a0b0c0d0e0f1011121314 EQUALVERIFY CHECKSIG"),
			"OP_DUP OP_HASH160 0102030405060708090a0b0c0d0e0f1011121314 " +
				"OP_EQUALVERIFY OP_CHECKSIG", false},
		{"small ints", []byte{OP_0, OP_1NEGATE, OP_16}, "0 -1 16", false},
		{"bch opcodes", []byte{OP_CAT, OP_SPLIT, OP_REVERSEBYTES,
			OP_INPUTINDEX}, "OP_CAT OP_SPLIT OP_REVERSEBYTES OP_INPUTINDEX",
			false},
		{"truncated", []byte{OP_1, OP_DATA_2, 0x01}, "1 [error]", true},
		{"truncated first", []byte{OP_DATA_2}, "[error]", true},
	}

	for _, test := range tests {
		got, err := DisasmString(test.script)
		require.Equal(t, test.want, got, test.name)
		require.Equal(t, test.wantErr, err != nil, test.name)
		if test.wantErr {
			require.True(t, IsErrorCode(err, ErrBadOpcode), test.name)
		}
	}
}
