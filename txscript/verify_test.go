// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/cashsuite/bchscript/wire"
	"github.com/stretchr/testify/require"
)

// verifyTest describes a scriptSig and scriptPubKey pair verified without a
// transaction.
type verifyTest struct {
	name         string
	scriptSig    []byte
	scriptPubKey []byte
	flags        ScriptFlags
	err          ErrorCode
}

func runVerifyTests(t *testing.T, tests []verifyTest, checker SignatureChecker) {
	t.Helper()

	for _, test := range tests {
		_, err := VerifyScript(test.scriptSig, test.scriptPubKey,
			test.flags, checker)
		if test.err == ErrUnknown {
			require.NoError(t, err, test.name)
			continue
		}
		require.True(t, IsErrorCode(err, test.err),
			"%s: want %v, got %v", test.name, test.err, err)
	}
}

// TestVerifyScriptScenarios runs the end-to-end acceptance scenarios.
func TestVerifyScriptScenarios(t *testing.T) {
	t.Parallel()

	maxBigInt := newNumericRegime(ScriptVerifyBigIntegers,
		DefaultBigIntScriptNumLen).maxScriptNum().Bytes()
	require.Len(t, maxBigInt, DefaultBigIntScriptNumLen)
	bigIntSig, err := NewScriptBuilder().AddData(maxBigInt).
		AddData(maxBigInt).Script()
	require.NoError(t, err)

	tests := []verifyTest{{
		name:         "OP_1 is truthy",
		scriptSig:    nil,
		scriptPubKey: []byte{OP_1},
		flags:        StandardVerifyFlags,
	}, {
		name:         "big integer addition overflow",
		scriptSig:    bigIntSig,
		scriptPubKey: mustParseShortForm("ADD DROP 1"),
		flags:        StandardVerifyFlags | ScriptVerifyBigIntegers,
		err:          ErrInvalidNumberRangeBigInt,
	}, {
		name:         "division by zero",
		scriptSig:    mustParseShortForm("42 0"),
		scriptPubKey: mustParseShortForm("DIV DROP 1"),
		flags:        StandardVerifyFlags,
		err:          ErrDivByZero,
	}, {
		name:         "minimal if rejects two",
		scriptSig:    mustParseShortForm("0x01 0x02"),
		scriptPubKey: mustParseShortForm("IF 1 ELSE 1 ENDIF"),
		flags:        ScriptVerifyMinimalIf,
		err:          ErrMinimalIf,
	}, {
		name:         "minimal if rejects padded zero",
		scriptSig:    mustParseShortForm("0x02 0x0200"),
		scriptPubKey: mustParseShortForm("IF 1 ELSE 1 ENDIF"),
		flags:        ScriptVerifyMinimalIf,
		err:          ErrMinimalIf,
	}, {
		name:         "clean stack",
		scriptSig:    mustParseShortForm("0x01 0x01"),
		scriptPubKey: mustParseShortForm("DROP 1 1"),
		flags:        ScriptVerifyCleanStack | ScriptVerifyP2SH,
		err:          ErrCleanStack,
	}, {
		name:         "clean stack without P2SH",
		scriptSig:    nil,
		scriptPubKey: []byte{OP_1},
		flags:        ScriptVerifyCleanStack,
		err:          ErrInvalidFlags,
	}, {
		name:         "false result",
		scriptSig:    nil,
		scriptPubKey: []byte{OP_0},
		flags:        StandardVerifyFlags,
		err:          ErrEvalFalse,
	}, {
		name:         "empty result",
		scriptSig:    mustParseShortForm("1"),
		scriptPubKey: []byte{OP_DROP},
		flags:        0,
		err:          ErrEvalFalse,
	}, {
		name:         "signature script not push only",
		scriptSig:    mustParseShortForm("1 NOP"),
		scriptPubKey: []byte{OP_1},
		flags:        ScriptVerifySigPushOnly,
		err:          ErrSigPushOnly,
	}, {
		name:         "non push signature script allowed",
		scriptSig:    mustParseShortForm("1 NOP"),
		scriptPubKey: []byte{OP_1},
		flags:        0,
	}, {
		name:         "signature script cannot leave a conditional open",
		scriptSig:    mustParseShortForm("1 IF"),
		scriptPubKey: mustParseShortForm("1 ENDIF"),
		flags:        0,
		err:          ErrUnbalancedConditional,
	}}

	runVerifyTests(t, tests, BaseSignatureChecker{})
}

// TestVerifyPayToScriptHash ensures redeem scripts are evaluated for both
// script hash forms.
func TestVerifyPayToScriptHash(t *testing.T) {
	t.Parallel()

	redeemScript := mustParseShortForm("1ADD 3 EQUAL")
	p2sh, err := PayToScriptHashScript(redeemScript)
	require.NoError(t, err)
	p2sh32, err := PayToScriptHash32Script(redeemScript)
	require.NoError(t, err)

	sigScript := func(witness int64) []byte {
		script, err := NewScriptBuilder().AddInt64(witness).
			AddData(redeemScript).Script()
		require.NoError(t, err)
		return script
	}

	const p2shFlags = ScriptVerifyP2SH | ScriptEnableSighashForkID
	tests := []verifyTest{{
		name:         "round trip",
		scriptSig:    sigScript(2),
		scriptPubKey: p2sh,
		flags:        p2shFlags,
	}, {
		name:         "round trip standard",
		scriptSig:    sigScript(2),
		scriptPubKey: p2sh,
		flags:        StandardVerifyFlags,
	}, {
		name:         "redeem script fails",
		scriptSig:    sigScript(5),
		scriptPubKey: p2sh,
		flags:        p2shFlags,
		err:          ErrEvalFalse,
	}, {
		name:         "redeem script not evaluated without P2SH",
		scriptSig:    sigScript(5),
		scriptPubKey: p2sh,
		flags:        ScriptEnableSighashForkID,
	}, {
		name:         "wrong redeem script",
		scriptSig:    mustParseShortForm("2 0x01 0x51"),
		scriptPubKey: p2sh,
		flags:        p2shFlags,
		err:          ErrEvalFalse,
	}, {
		name:         "signature script not push only",
		scriptSig:    append([]byte{OP_2, OP_NOP}, sigScript(2)[1:]...),
		scriptPubKey: p2sh,
		flags:        p2shFlags,
		err:          ErrSigPushOnly,
	}, {
		name:         "clean stack after redeem script",
		scriptSig:    append([]byte{OP_1}, sigScript(2)...),
		scriptPubKey: p2sh,
		flags:        p2shFlags | ScriptVerifyCleanStack,
		err:          ErrCleanStack,
	}, {
		name:         "p2sh32 round trip",
		scriptSig:    sigScript(2),
		scriptPubKey: p2sh32,
		flags:        StandardVerifyFlags,
	}, {
		name:         "p2sh32 redeem script fails",
		scriptSig:    sigScript(5),
		scriptPubKey: p2sh32,
		flags:        p2shFlags | ScriptEnableP2SH32,
		err:          ErrEvalFalse,
	}, {
		name:         "p2sh32 not evaluated before activation",
		scriptSig:    sigScript(5),
		scriptPubKey: p2sh32,
		flags:        p2shFlags,
	}}

	runVerifyTests(t, tests, BaseSignatureChecker{})
}

// TestVerifySegwitRecovery ensures coins sent to script hash wrapped witness
// programs can be recovered unless disallowed.
func TestVerifySegwitRecovery(t *testing.T) {
	t.Parallel()

	program := append([]byte{OP_0, OP_DATA_20}, bytes.Repeat([]byte{0xab}, 20)...)
	p2sh, err := PayToScriptHashScript(program)
	require.NoError(t, err)
	p2sh32, err := PayToScriptHash32Script(program)
	require.NoError(t, err)
	sigScript, err := NewScriptBuilder().AddData(program).Script()
	require.NoError(t, err)
	plainP2SH, err := PayToScriptHashScript([]byte{OP_1, OP_1})
	require.NoError(t, err)

	const flags = ScriptVerifyP2SH | ScriptVerifyCleanStack
	tests := []verifyTest{{
		name:         "recovered",
		scriptSig:    sigScript,
		scriptPubKey: p2sh,
		flags:        flags,
	}, {
		name:         "recovery disallowed",
		scriptSig:    sigScript,
		scriptPubKey: p2sh,
		flags:        flags | ScriptDisallowSegwitRecovery,
		err:          ErrCleanStack,
	}, {
		name:         "extra stack item",
		scriptSig:    append([]byte{OP_1}, sigScript...),
		scriptPubKey: p2sh,
		flags:        flags,
		err:          ErrCleanStack,
	}, {
		name:         "not a witness program",
		scriptSig:    mustParseShortForm("0x02 0x5151"),
		scriptPubKey: plainP2SH,
		flags:        flags,
		err:          ErrCleanStack,
	}, {
		name:         "not for p2sh32",
		scriptSig:    sigScript,
		scriptPubKey: p2sh32,
		flags:        flags | ScriptEnableP2SH32,
		err:          ErrCleanStack,
	}}

	runVerifyTests(t, tests, BaseSignatureChecker{})
}

// TestVerifyInputSigChecks ensures the signature script length bounds the
// signature checks an input may perform.
func TestVerifyInputSigChecks(t *testing.T) {
	t.Parallel()

	// Each invalid, non-empty signature counts as a check without the
	// null fail rule.
	const check = "0x01 0x01 0x01 0x02 CHECKSIG DROP "
	scriptPubKey := mustParseShortForm(check + check + check + "1")
	push := func(n int) []byte {
		return append([]byte{byte(n)}, bytes.Repeat([]byte{0x01}, n)...)
	}

	// Three checks need 3*43-60 = 69 bytes.
	metrics, err := VerifyScript(push(68), scriptPubKey,
		ScriptVerifyInputSigChecks, nil)
	require.NoError(t, err)
	require.Equal(t, 3, metrics.SigChecks)

	metrics, err = VerifyScript(push(67), scriptPubKey,
		ScriptVerifyInputSigChecks, nil)
	require.True(t, IsErrorCode(err, ErrInputSigChecks), "%v", err)
	require.Equal(t, 3, metrics.SigChecks)

	_, err = VerifyScript(push(67), scriptPubKey, 0, nil)
	require.NoError(t, err)

	// A single check never needs padding.
	_, err = VerifyScript(nil, mustParseShortForm(check+"1"),
		ScriptVerifyInputSigChecks, nil)
	require.NoError(t, err)
}

// spendFixture returns a one input transaction spending an output locked by
// pkScript along with a checker for the input.
func spendFixture(t *testing.T, pkScript []byte) (*ScriptExecutionContext, *TransactionSignatureChecker) {
	t.Helper()

	tx := testTx(1, wire.NewTxOut(9000, []byte{OP_TRUE}))
	coins := []*wire.TxOut{wire.NewTxOut(10000, pkScript)}
	ctx := mustContexts(t, tx, coins)[0]
	checker := NewTransactionSignatureChecker(ctx,
		NewPrecomputedTxData(ctx), NewSigCache(100))
	return ctx, checker
}

// TestVerifyPayToPubKeyHash ensures signed pay-to-pubkey-hash spends verify
// with both signature kinds.
func TestVerifyPayToPubKeyHash(t *testing.T) {
	t.Parallel()

	key := testKey(0x66)
	pkScript, err := PayToPubKeyHashScript(Hash160(
		key.PubKey().SerializeCompressed()))
	require.NoError(t, err)
	ctx, checker := spendFixture(t, pkScript)

	const hashType = SigHashAll | SigHashForkID
	for _, sigType := range []SignatureType{ECDSASignature, SchnorrSignature} {
		sigScript, err := SignatureScript(ctx, pkScript, hashType,
			StandardVerifyFlags, key, sigType, true)
		require.NoError(t, err)

		metrics, err := VerifyScript(sigScript, pkScript,
			StandardVerifyFlags, checker)
		require.NoError(t, err, "signature type %d", sigType)
		require.Equal(t, 1, metrics.SigChecks)

		// Spending the same output under a different key fails.
		otherScript, err := SignatureScript(ctx, pkScript, hashType,
			StandardVerifyFlags, testKey(0x67), sigType, true)
		require.NoError(t, err)
		_, err = VerifyScript(otherScript, pkScript, StandardVerifyFlags,
			checker)
		require.True(t, IsErrorCode(err, ErrEqualVerify), "%v", err)

		// A tampered signature fails the null fail rule.
		tampered := append([]byte(nil), sigScript...)
		tampered[5] ^= 0x01
		_, err = VerifyScript(tampered, pkScript, StandardVerifyFlags,
			checker)
		require.Error(t, err)
	}

	// Signatures without the fork id are rejected once it is enabled.
	sigScript, err := SignatureScript(ctx, pkScript, SigHashAll,
		StandardVerifyFlags, key, ECDSASignature, true)
	require.NoError(t, err)
	_, err = VerifyScript(sigScript, pkScript, StandardVerifyFlags, checker)
	require.True(t, IsErrorCode(err, ErrMustUseForkID), "%v", err)
}

// TestVerifyMultiSig ensures pay-to-script-hash multisig spends verify in
// both the legacy and the Schnorr mode.
func TestVerifyMultiSig(t *testing.T) {
	t.Parallel()

	keys := []*btcec.PrivateKey{testKey(0x71), testKey(0x72), testKey(0x73)}
	pubKeys := make([][]byte, len(keys))
	for i, key := range keys {
		pubKeys[i] = key.PubKey().SerializeCompressed()
	}
	redeemScript, err := MultiSigScript(pubKeys, 2)
	require.NoError(t, err)
	pkScript, err := PayToScriptHashScript(redeemScript)
	require.NoError(t, err)
	ctx, checker := spendFixture(t, pkScript)

	const hashType = SigHashAll | SigHashForkID
	sign := func(key *btcec.PrivateKey, sigType SignatureType) []byte {
		sig, err := RawTxInSignature(ctx, redeemScript, hashType,
			StandardVerifyFlags, key, sigType)
		require.NoError(t, err)
		return sig
	}

	tests := []struct {
		name      string
		dummy     []byte
		sigs      [][]byte
		sigChecks int
		err       ErrorCode
	}{{
		name:      "legacy first and last",
		sigs:      [][]byte{sign(keys[0], ECDSASignature), sign(keys[2], ECDSASignature)},
		sigChecks: 3,
	}, {
		name: "legacy out of order",
		sigs: [][]byte{sign(keys[2], ECDSASignature), sign(keys[0], ECDSASignature)},
		err:  ErrSigNullFail,
	}, {
		name: "legacy rejects schnorr",
		sigs: [][]byte{sign(keys[0], SchnorrSignature), sign(keys[2], SchnorrSignature)},
		err:  ErrSigBadLength,
	}, {
		name:      "schnorr first and last",
		dummy:     []byte{0x05},
		sigs:      [][]byte{sign(keys[0], SchnorrSignature), sign(keys[2], SchnorrSignature)},
		sigChecks: 2,
	}, {
		name:      "schnorr first two",
		dummy:     []byte{0x03},
		sigs:      [][]byte{sign(keys[0], SchnorrSignature), sign(keys[1], SchnorrSignature)},
		sigChecks: 2,
	}, {
		name:  "schnorr wrong bitfield",
		dummy: []byte{0x03},
		sigs:  [][]byte{sign(keys[0], SchnorrSignature), sign(keys[2], SchnorrSignature)},
		err:   ErrSigNullFail,
	}, {
		name:  "schnorr bit count mismatch",
		dummy: []byte{0x07},
		sigs:  [][]byte{sign(keys[0], SchnorrSignature), sign(keys[2], SchnorrSignature)},
		err:   ErrInvalidBitCount,
	}, {
		name:  "schnorr rejects ecdsa",
		dummy: []byte{0x05},
		sigs:  [][]byte{sign(keys[0], ECDSASignature), sign(keys[2], ECDSASignature)},
		err:   ErrSigNonSchnorr,
	}}

	for _, test := range tests {
		sigScript, err := MultiSigScriptSig(test.dummy, test.sigs,
			redeemScript)
		require.NoError(t, err)

		metrics, err := VerifyScript(sigScript, pkScript,
			StandardVerifyFlags, checker)
		if test.err != ErrUnknown {
			require.True(t, IsErrorCode(err, test.err),
				"%s: want %v, got %v", test.name, test.err, err)
			continue
		}
		require.NoError(t, err, test.name)
		require.Equal(t, test.sigChecks, metrics.SigChecks, test.name)
	}
}
