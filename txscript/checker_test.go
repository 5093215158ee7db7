// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cashsuite/bchscript/schnorr"
	"github.com/cashsuite/bchscript/wire"
	"github.com/stretchr/testify/require"
)

// TestCheckLockTime ensures absolute lock times are compared against the
// transaction lock time.
func TestCheckLockTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		txLockTime uint32
		sequence   uint32
		lockTime   int64
		want       bool
	}{
		{"lower height", 100, 0, 50, true},
		{"equal height", 100, 0, 100, true},
		{"higher height", 100, 0, 101, false},
		{"time against height", 100, 0, LockTimeThreshold, false},
		{"height against time", LockTimeThreshold + 10, 0, 5, false},
		{"lower time", LockTimeThreshold + 10, 0, LockTimeThreshold, true},
		{"higher time", LockTimeThreshold + 10, 0, LockTimeThreshold + 11,
			false},
		{"final input", 100, wire.MaxTxInSequenceNum, 50, false},
	}

	for _, test := range tests {
		tx := testTx(1)
		tx.LockTime = test.txLockTime
		tx.TxIn[0].Sequence = test.sequence
		ctx, err := NewLimitedContext(tx, 0, wire.NewTxOut(0, nil))
		require.NoError(t, err)

		checker := NewTransactionSignatureChecker(ctx, nil, nil)
		got := checker.CheckLockTime(NewScriptNum(test.lockTime))
		require.Equal(t, test.want, got, test.name)
	}
}

// TestCheckSequence ensures relative lock times are compared against the
// sequence of the input.
func TestCheckSequence(t *testing.T) {
	t.Parallel()

	const seconds = wire.SequenceLockTimeIsSeconds

	tests := []struct {
		name       string
		version    int32
		txSequence uint32
		sequence   int64
		want       bool
	}{
		{"lower blocks", 2, 10, 5, true},
		{"equal blocks", 2, 10, 10, true},
		{"higher blocks", 2, 10, 11, false},
		{"seconds against blocks", 2, 10, seconds | 5, false},
		{"blocks against seconds", 2, seconds | 10, 5, false},
		{"lower seconds", 2, seconds | 10, seconds | 5, true},
		{"unmasked bits ignored", 2, 10, 1<<16 | 5, true},
		{"version 1", 1, 10, 5, false},
		{"disabled input", 2, wire.SequenceLockTimeDisabled | 10, 5, false},
	}

	for _, test := range tests {
		tx := testTx(1)
		tx.Version = test.version
		tx.TxIn[0].Sequence = test.txSequence
		ctx, err := NewLimitedContext(tx, 0, wire.NewTxOut(0, nil))
		require.NoError(t, err)

		checker := NewTransactionSignatureChecker(ctx, nil, nil)
		got := checker.CheckSequence(NewScriptNum(test.sequence))
		require.Equal(t, test.want, got, test.name)
	}
}

// TestTransactionCheckSig ensures signatures made over an input are accepted
// and anything else rejected.
func TestTransactionCheckSig(t *testing.T) {
	t.Parallel()

	key := testKey(0x44)
	pubKey := key.PubKey().SerializeCompressed()
	otherPubKey := testKey(0x45).PubKey().SerializeCompressed()
	pkScript, err := PayToPubKeyHashScript(Hash160(pubKey))
	require.NoError(t, err)

	tx := testTx(2, wire.NewTxOut(900, pkScript))
	coins := []*wire.TxOut{
		wire.NewTxOut(1000, pkScript),
		wire.NewTxOut(1000, pkScript),
	}
	contexts := mustContexts(t, tx, coins)
	const flags = StandardVerifyFlags

	for _, sigType := range []SignatureType{ECDSASignature, SchnorrSignature} {
		for _, hashType := range allSigHashTypes {
			if !hashType.HasForkID() {
				continue
			}
			sig, err := RawTxInSignature(contexts[0], pkScript, hashType,
				flags, key, sigType)
			require.NoError(t, err)

			sigCache := NewSigCache(10)
			checker := NewTransactionSignatureChecker(contexts[0],
				NewPrecomputedTxData(contexts[0]), sigCache)
			valid, err := checker.CheckSig(sig, pubKey, pkScript, flags)
			require.NoError(t, err)
			require.True(t, valid, "type %d hash type %v", sigType,
				hashType)

			// Valid signatures are cached.
			sigHash, err := CalcSignatureHash(pkScript, contexts[0],
				hashType, nil, flags)
			require.NoError(t, err)
			require.True(t, sigCache.Exists(sigHash[:], sig[:len(sig)-1],
				pubKey))

			valid, err = checker.CheckSig(sig, otherPubKey, pkScript,
				flags)
			require.NoError(t, err)
			require.False(t, valid)

			// The signature does not cover the sibling input.
			sibling := NewTransactionSignatureChecker(contexts[1], nil,
				nil)
			valid, err = sibling.CheckSig(sig, pubKey, pkScript, flags)
			require.NoError(t, err)
			require.False(t, valid)
		}
	}

	checker := NewTransactionSignatureChecker(contexts[0], nil, nil)
	valid, err := checker.CheckSig(nil, pubKey, pkScript, flags)
	require.NoError(t, err)
	require.False(t, valid)

	valid, err = checker.CheckSig([]byte{0x30, 0x01}, []byte{0x02}, pkScript,
		flags)
	require.NoError(t, err)
	require.False(t, valid)

	// Signing the spent outputs needs the coins of every input.
	limited, err := NewLimitedContext(tx, 0, coins[0])
	require.NoError(t, err)
	sig, err := RawTxInSignature(contexts[0], pkScript,
		SigHashAll|SigHashForkID|SigHashUtxos, flags, key, SchnorrSignature)
	require.NoError(t, err)
	_, err = NewTransactionSignatureChecker(limited, nil, nil).CheckSig(sig,
		pubKey, pkScript, flags)
	require.True(t, IsErrorCode(err, ErrSigHashMissingUtxos), "%v", err)

	_, err = RawTxInSignature(limited, pkScript,
		SigHashAll|SigHashForkID|SigHashUtxos, flags, key, SchnorrSignature)
	require.True(t, IsErrorCode(err, ErrSigHashMissingUtxos), "%v", err)
}

// TestBaseSignatureChecker ensures the checker without a transaction fails
// every transaction bound check but still verifies raw signatures.
func TestBaseSignatureChecker(t *testing.T) {
	t.Parallel()

	var checker BaseSignatureChecker
	key := testKey(0x55)
	pubKey := key.PubKey().SerializeCompressed()
	hash := chainhash.HashB([]byte("base checker"))

	valid, err := checker.CheckSig([]byte{0x01}, pubKey, nil, 0)
	require.NoError(t, err)
	require.False(t, valid)
	require.False(t, checker.CheckLockTime(NewScriptNum(0)))
	require.False(t, checker.CheckSequence(NewScriptNum(0)))
	require.Nil(t, checker.Context())

	ecdsaSig := ecdsa.Sign(key, hash).Serialize()
	require.True(t, checker.VerifySignature(ecdsaSig, pubKey, hash))

	schnorrSig, err := schnorr.Sign(key, hash)
	require.NoError(t, err)
	require.True(t, checker.VerifySignature(schnorrSig.Serialize(), pubKey,
		hash))

	otherHash := chainhash.HashB([]byte("other"))
	require.False(t, checker.VerifySignature(ecdsaSig, pubKey, otherHash))
	require.False(t, checker.VerifySignature(schnorrSig.Serialize(), pubKey,
		otherHash))
	require.False(t, checker.VerifySignature(ecdsaSig, []byte{0x02}, hash))
}
