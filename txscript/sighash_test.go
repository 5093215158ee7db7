// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cashsuite/bchscript/wire"
	"github.com/stretchr/testify/require"
)

// allSigHashTypes are the defined hash types with and without the fork id and
// the spent outputs bits.
var allSigHashTypes = func() []SigHashType {
	var types []SigHashType
	for _, base := range []SigHashType{SigHashAll, SigHashNone, SigHashSingle} {
		types = append(types, base, base|SigHashAnyOneCanPay,
			base|SigHashForkID, base|SigHashForkID|SigHashAnyOneCanPay,
			base|SigHashForkID|SigHashUtxos)
	}
	return types
}()

// sighashFixture returns a three input, two output transaction spending a
// token carrying coin along with the coins it spends.
func sighashFixture() (*wire.MsgTx, []*wire.TxOut) {
	category := chainhash.Hash{0x77}
	tx := testTx(3,
		wire.NewTxOut(1000, []byte{OP_1}),
		wire.NewTxOut(2000, []byte{OP_2}),
	)
	coins := []*wire.TxOut{
		wire.NewTxOut(5000, []byte{OP_TRUE}),
		wire.NewTokenTxOut(6000, []byte{OP_TRUE},
			wire.NewFungibleTokenData(&category, 10)),
		wire.NewTxOut(7000, []byte{OP_TRUE}),
	}
	return tx, coins
}

// TestSigHashSingleBug ensures the legacy algorithm returns the value one for
// SigHashSingle when the input has no matching output.
func TestSigHashSingleBug(t *testing.T) {
	t.Parallel()

	tx := testTx(2, wire.NewTxOut(1000, []byte{OP_TRUE}))
	coins := []*wire.TxOut{
		wire.NewTxOut(1, []byte{OP_TRUE}),
		wire.NewTxOut(2, []byte{OP_TRUE}),
	}
	contexts := mustContexts(t, tx, coins)

	want, err := chainhash.NewHashFromStr("00000000000000000000000000000000" +
		"00000000000000000000000000000001")
	require.NoError(t, err)

	hash, err := CalcSignatureHash([]byte{OP_TRUE}, contexts[1],
		SigHashSingle, nil, StandardVerifyFlags)
	require.NoError(t, err)
	require.Equal(t, *want, hash)

	// The input with a matching output hashes normally.
	hash, err = CalcSignatureHash([]byte{OP_TRUE}, contexts[0],
		SigHashSingle, nil, StandardVerifyFlags)
	require.NoError(t, err)
	require.NotEqual(t, *want, hash)

	// The fork id algorithm has no such special case.
	hash, err = CalcSignatureHash([]byte{OP_TRUE}, contexts[1],
		SigHashSingle|SigHashForkID, nil, StandardVerifyFlags)
	require.NoError(t, err)
	require.NotEqual(t, *want, hash)
}

// TestSigHashCacheEquivalence ensures the precomputed midstates produce the
// same digests as computing them on the fly.
func TestSigHashCacheEquivalence(t *testing.T) {
	t.Parallel()

	tx, coins := sighashFixture()
	contexts := mustContexts(t, tx, coins)
	txData := NewPrecomputedTxData(contexts[0])
	scriptCode := mustParseShortForm("DUP HASH160 0x14 0x" +
		"0102030405060708090a0b0c0d0e0f1011121314 EQUALVERIFY CHECKSIG")

	for _, flags := range []ScriptFlags{0, StandardVerifyFlags} {
		for _, ctx := range contexts {
			for _, hashType := range allSigHashTypes {
				want, err := CalcSignatureHash(scriptCode, ctx,
					hashType, nil, flags)
				require.NoError(t, err)
				got, err := CalcSignatureHash(scriptCode, ctx,
					hashType, txData, flags)
				require.NoError(t, err)
				require.Equal(t, want, got, "input %d hash type %v",
					ctx.InputIndex(), hashType)
			}
		}
	}
}

// TestSigHashCommitments ensures the digests commit to the fields selected by
// the hash type and to nothing else.
func TestSigHashCommitments(t *testing.T) {
	t.Parallel()

	const flags = StandardVerifyFlags
	scriptCode := []byte{OP_TRUE}

	digest := func(mutate func(tx *wire.MsgTx, coins []*wire.TxOut),
		idx int, hashType SigHashType, flags ScriptFlags) chainhash.Hash {

		tx, coins := sighashFixture()
		mutate(tx, coins)
		ctx := mustContexts(t, tx, coins)[idx]
		hash, err := CalcSignatureHash(scriptCode, ctx, hashType, nil, flags)
		require.NoError(t, err)
		return hash
	}
	none := func(*wire.MsgTx, []*wire.TxOut) {}

	tests := []struct {
		name     string
		mutate   func(tx *wire.MsgTx, coins []*wire.TxOut)
		idx      int
		hashType SigHashType
		flags    ScriptFlags
		same     bool
	}{{
		name:     "version",
		mutate:   func(tx *wire.MsgTx, _ []*wire.TxOut) { tx.Version = 1 },
		hashType: SigHashAll | SigHashForkID,
		flags:    flags,
	}, {
		name:     "lock time",
		mutate:   func(tx *wire.MsgTx, _ []*wire.TxOut) { tx.LockTime++ },
		hashType: SigHashAll | SigHashForkID,
		flags:    flags,
	}, {
		name: "other prevout",
		mutate: func(tx *wire.MsgTx, _ []*wire.TxOut) {
			tx.TxIn[2].PreviousOutPoint.Index++
		},
		hashType: SigHashAll | SigHashForkID,
		flags:    flags,
	}, {
		name: "other prevout with anyonecanpay",
		mutate: func(tx *wire.MsgTx, _ []*wire.TxOut) {
			tx.TxIn[2].PreviousOutPoint.Index++
		},
		hashType: SigHashAll | SigHashForkID | SigHashAnyOneCanPay,
		flags:    flags,
		same:     true,
	}, {
		name: "other sequence",
		mutate: func(tx *wire.MsgTx, _ []*wire.TxOut) {
			tx.TxIn[2].Sequence = 0
		},
		hashType: SigHashAll | SigHashForkID,
		flags:    flags,
	}, {
		name: "other sequence with none",
		mutate: func(tx *wire.MsgTx, _ []*wire.TxOut) {
			tx.TxIn[2].Sequence = 0
		},
		hashType: SigHashNone | SigHashForkID,
		flags:    flags,
		same:     true,
	}, {
		name: "own sequence with none",
		mutate: func(tx *wire.MsgTx, _ []*wire.TxOut) {
			tx.TxIn[0].Sequence = 0
		},
		hashType: SigHashNone | SigHashForkID,
		flags:    flags,
	}, {
		name: "output with none",
		mutate: func(tx *wire.MsgTx, _ []*wire.TxOut) {
			tx.TxOut[0].Value++
		},
		hashType: SigHashNone | SigHashForkID,
		flags:    flags,
		same:     true,
	}, {
		name: "other output with single",
		mutate: func(tx *wire.MsgTx, _ []*wire.TxOut) {
			tx.TxOut[1].Value++
		},
		hashType: SigHashSingle | SigHashForkID,
		flags:    flags,
		same:     true,
	}, {
		name: "matching output with single",
		mutate: func(tx *wire.MsgTx, _ []*wire.TxOut) {
			tx.TxOut[0].Value++
		},
		hashType: SigHashSingle | SigHashForkID,
		flags:    flags,
	}, {
		name: "spent value",
		mutate: func(_ *wire.MsgTx, coins []*wire.TxOut) {
			coins[0].Value++
		},
		hashType: SigHashAll | SigHashForkID,
		flags:    flags,
	}, {
		name: "spent value legacy",
		mutate: func(_ *wire.MsgTx, coins []*wire.TxOut) {
			coins[0].Value++
		},
		hashType: SigHashAll,
		flags:    flags,
		same:     true,
	}, {
		name: "other spent output",
		mutate: func(_ *wire.MsgTx, coins []*wire.TxOut) {
			coins[2].Value++
		},
		hashType: SigHashAll | SigHashForkID,
		flags:    flags,
		same:     true,
	}, {
		name: "other spent output with utxos",
		mutate: func(_ *wire.MsgTx, coins []*wire.TxOut) {
			coins[2].Value++
		},
		hashType: SigHashAll | SigHashForkID | SigHashUtxos,
		flags:    flags,
	}, {
		name: "other spent output with utxos before tokens",
		mutate: func(_ *wire.MsgTx, coins []*wire.TxOut) {
			coins[2].Value++
		},
		hashType: SigHashAll | SigHashForkID | SigHashUtxos,
		flags:    flags &^ ScriptEnableTokens,
		same:     true,
	}, {
		name: "spent token amount",
		mutate: func(_ *wire.MsgTx, coins []*wire.TxOut) {
			coins[1].TokenData.Amount++
		},
		idx:      1,
		hashType: SigHashAll | SigHashForkID,
		flags:    flags,
	}, {
		name: "spent token amount before tokens",
		mutate: func(_ *wire.MsgTx, coins []*wire.TxOut) {
			coins[1].TokenData.Amount++
		},
		idx:      1,
		hashType: SigHashAll | SigHashForkID,
		flags:    flags &^ ScriptEnableTokens,
		same:     true,
	}, {
		name: "output token",
		mutate: func(tx *wire.MsgTx, _ []*wire.TxOut) {
			category := chainhash.Hash{0x01}
			tx.TxOut[1].TokenData = wire.NewFungibleTokenData(
				&category, 1)
		},
		hashType: SigHashAll | SigHashForkID,
		flags:    flags,
	}}

	for _, test := range tests {
		want := digest(none, test.idx, test.hashType, test.flags)
		got := digest(test.mutate, test.idx, test.hashType, test.flags)
		if test.same {
			require.Equal(t, want, got, test.name)
		} else {
			require.NotEqual(t, want, got, test.name)
		}
	}
}

// TestSigHashAlgorithmSelection ensures the fork id algorithm is only used
// when both the hash type and the flags select it.
func TestSigHashAlgorithmSelection(t *testing.T) {
	t.Parallel()

	tx, coins := sighashFixture()
	ctx := mustContexts(t, tx, coins)[0]
	scriptCode := mustParseShortForm("1 CODESEPARATOR 1")

	legacy := calcLegacySignatureHash(scriptCode, tx, 0,
		SigHashAll|SigHashForkID)
	forkID, err := calcForkIDSignatureHash(scriptCode, ctx,
		SigHashAll|SigHashForkID, nil, ScriptEnableSighashForkID)
	require.NoError(t, err)
	require.NotEqual(t, legacy, forkID)

	got, err := CalcSignatureHash(scriptCode, ctx, SigHashAll|SigHashForkID,
		nil, ScriptEnableSighashForkID)
	require.NoError(t, err)
	require.Equal(t, forkID, got)

	got, err = CalcSignatureHash(scriptCode, ctx, SigHashAll|SigHashForkID,
		nil, 0)
	require.NoError(t, err)
	require.Equal(t, legacy, got)

	// Only the legacy algorithm strips code separators.
	stripped := mustParseShortForm("1 1")
	require.Equal(t, legacy, calcLegacySignatureHash(stripped, tx, 0,
		SigHashAll|SigHashForkID))
	strippedForkID, err := calcForkIDSignatureHash(stripped, ctx,
		SigHashAll|SigHashForkID, nil, ScriptEnableSighashForkID)
	require.NoError(t, err)
	require.NotEqual(t, forkID, strippedForkID)
}

// TestSigHashLimitedContext ensures a limited context can hash everything but
// the spent outputs of its siblings.
func TestSigHashLimitedContext(t *testing.T) {
	t.Parallel()

	tx, coins := sighashFixture()
	full := mustContexts(t, tx, coins)[1]
	limited, err := NewLimitedContext(tx, 1, coins[1])
	require.NoError(t, err)

	const flags = StandardVerifyFlags
	for _, hashType := range allSigHashTypes {
		want, err := CalcSignatureHash(nil, full, hashType, nil, flags)
		require.NoError(t, err)

		got, err := CalcSignatureHash(nil, limited, hashType, nil, flags)
		if hashType.HasUtxos() {
			require.True(t, IsErrorCode(err, ErrSigHashMissingUtxos),
				"%v: %v", hashType, err)

			// Midstates computed from a full context fill the gap.
			got, err = CalcSignatureHash(nil, limited, hashType,
				NewPrecomputedTxData(full), flags)
		}
		require.NoError(t, err)
		require.Equal(t, want, got, "hash type %v", hashType)
	}
}

// TestSigHashInvalidIndex ensures a context referring to a missing input is
// rejected.
func TestSigHashInvalidIndex(t *testing.T) {
	t.Parallel()

	tx, coins := sighashFixture()
	ctx := mustContexts(t, tx, coins)[2]
	tx.TxIn = tx.TxIn[:2]

	_, err := CalcSignatureHash(nil, ctx, SigHashAll|SigHashForkID, nil,
		StandardVerifyFlags)
	require.True(t, IsErrorCode(err, ErrInvalidIndex), "%v", err)
}
