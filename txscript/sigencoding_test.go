// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

// encodeDERInt returns the minimal DER integer encoding of v.
func encodeDERInt(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 || b[0]&0x80 != 0 {
		b = append([]byte{0x00}, b...)
	}
	return append([]byte{0x02, byte(len(b))}, b...)
}

// encodeDER returns the DER encoding of the signature (r, s).
func encodeDER(r, s *big.Int) []byte {
	body := append(encodeDERInt(r), encodeDERInt(s)...)
	return append([]byte{0x30, byte(len(body))}, body...)
}

// testSignatures returns a low S and a high S DER signature by the same key
// over the same hash along with the public key.
func testSignatures(t *testing.T) (lowS, highS, pubKey []byte) {
	t.Helper()

	key := testKey(0x11)
	hash := chainhash.DoubleHashB([]byte("signature encoding"))
	sig := ecdsa.Sign(key, hash)
	lowS = sig.Serialize()

	// Recover R and S from the canonical encoding and negate S.
	rLen := int(lowS[3])
	r := new(big.Int).SetBytes(lowS[4 : 4+rLen])
	s := new(big.Int).SetBytes(lowS[6+rLen:])
	negS := new(big.Int).Sub(btcec.S256().N, s)
	highS = encodeDER(r, negS)

	return lowS, highS, key.PubKey().SerializeCompressed()
}

// withHashType appends the hash type to a raw signature.
func withHashType(sig []byte, hashType SigHashType) []byte {
	out := make([]byte, len(sig), len(sig)+1)
	copy(out, sig)
	return append(out, byte(hashType))
}

// TestDERSignatureEncoding ensures the strict DER checks reject malformed
// encodings.
func TestDERSignatureEncoding(t *testing.T) {
	t.Parallel()

	lowS, _, _ := testSignatures(t)
	require.NoError(t, isValidDERSignatureEncoding(lowS))

	mutate := func(f func([]byte) []byte) []byte {
		return f(append([]byte(nil), lowS...))
	}
	rLen := int(lowS[3])

	tests := []struct {
		name string
		sig  []byte
	}{
		{"too short", lowS[:7]},
		{"too long", append(mutate(func(b []byte) []byte { return b }),
			bytes.Repeat([]byte{0}, 72-len(lowS)+1)...)},
		{"wrong sequence id", mutate(func(b []byte) []byte { b[0] = 0x31; return b })},
		{"bad total length", mutate(func(b []byte) []byte { b[1]++; return b })},
		{"bad R marker", mutate(func(b []byte) []byte { b[2] = 0x03; return b })},
		{"R length past end", mutate(func(b []byte) []byte { b[3] = byte(len(b)); return b })},
		{"bad S marker", mutate(func(b []byte) []byte { b[4+rLen] = 0x03; return b })},
		{"bad S length", mutate(func(b []byte) []byte { b[5+rLen]--; return b })},
		{"negative R", encodeDERNegativeR(lowS)},
		{"zero length R", hexToBytes("3006020002020101")},
		{"zero length S", hexToBytes("3006020201010200")},
		{"padded R", hexToBytes("30080203000001020101")},
		{"padded S", hexToBytes("30080201010203000001")},
		{"negative S", hexToBytes("3006020101020181")},
	}

	for _, test := range tests {
		err := isValidDERSignatureEncoding(test.sig)
		require.True(t, IsErrorCode(err, ErrSigDER), "%s: %v", test.name, err)
	}

	// A leading zero is required when the high bit is set.
	require.NoError(t, isValidDERSignatureEncoding(
		hexToBytes("300702020080020101")))
}

// encodeDERNegativeR returns sig with the high bit of R set.
func encodeDERNegativeR(sig []byte) []byte {
	out := append([]byte(nil), sig...)
	if out[4] == 0x00 {
		// Drop the padding byte so the high bit becomes the sign.
		out = append(out[:4], out[5:]...)
		out[3]--
		out[1]--
		return out
	}
	out[4] |= 0x80
	return out
}

// TestTransactionSignatureEncoding ensures transaction signatures are checked
// according to the flags.
func TestTransactionSignatureEncoding(t *testing.T) {
	t.Parallel()

	lowS, highS, _ := testSignatures(t)
	schnorrSig := bytes.Repeat([]byte{0x01}, 64)
	const forkFlags = ScriptVerifyStrictEncoding | ScriptEnableSighashForkID

	tests := []struct {
		name  string
		sig   []byte
		flags ScriptFlags
		err   ErrorCode
	}{
		{"empty", nil, StandardVerifyFlags, ErrUnknown},
		{"canonical forkid", withHashType(lowS, SigHashAll|SigHashForkID),
			forkFlags | ScriptVerifyLowS, ErrUnknown},
		{"high S allowed without LOW_S", withHashType(highS, SigHashAll),
			ScriptVerifyDERSignatures, ErrUnknown},
		{"high S", withHashType(highS, SigHashAll|SigHashForkID),
			forkFlags | ScriptVerifyLowS, ErrSigHighS},
		{"garbage without flags", []byte{0x01, 0x02, 0x01}, 0, ErrUnknown},
		{"garbage with DERSIG", []byte{0x01, 0x02, 0x01},
			ScriptVerifyDERSignatures, ErrSigDER},
		{"garbage with LOW_S", []byte{0x01, 0x02, 0x01},
			ScriptVerifyLowS, ErrSigDER},
		{"schnorr", withHashType(schnorrSig, SigHashAll|SigHashForkID),
			forkFlags, ErrUnknown},
		{"undefined hash type", withHashType(lowS, 0x00),
			ScriptVerifyStrictEncoding, ErrSigHashType},
		{"undefined hash type not checked", withHashType(lowS, 0x00),
			ScriptVerifyDERSignatures, ErrUnknown},
		{"forkid before enabled", withHashType(lowS, SigHashAll|SigHashForkID),
			ScriptVerifyStrictEncoding, ErrIllegalForkID},
		{"missing forkid", withHashType(lowS, SigHashAll),
			forkFlags, ErrMustUseForkID},
		{"utxos before tokens", withHashType(lowS,
			SigHashAll|SigHashForkID|SigHashUtxos), forkFlags,
			ErrSigHashType},
		{"utxos with tokens", withHashType(lowS,
			SigHashAll|SigHashForkID|SigHashUtxos),
			forkFlags | ScriptEnableTokens, ErrUnknown},
		{"utxos with anyonecanpay", withHashType(lowS,
			SigHashAll|SigHashForkID|SigHashUtxos|SigHashAnyOneCanPay),
			forkFlags | ScriptEnableTokens, ErrSigHashType},
	}

	for _, test := range tests {
		err := checkTransactionSignatureEncoding(test.sig, test.flags)
		if test.err == ErrUnknown {
			require.NoError(t, err, test.name)
			continue
		}
		require.True(t, IsErrorCode(err, test.err), "%s: %v", test.name, err)
	}
}

// TestSignatureKindRestrictions ensures the multisig modes only accept their
// own signature kind.
func TestSignatureKindRestrictions(t *testing.T) {
	t.Parallel()

	lowS, _, _ := testSignatures(t)
	ecdsaSig := withHashType(lowS, SigHashAll|SigHashForkID)
	schnorrSig := withHashType(bytes.Repeat([]byte{0x01}, 64),
		SigHashAll|SigHashForkID)
	const flags = ScriptVerifyStrictEncoding | ScriptEnableSighashForkID

	require.NoError(t, checkTransactionECDSASignatureEncoding(ecdsaSig, flags))
	err := checkTransactionECDSASignatureEncoding(schnorrSig, flags)
	require.True(t, IsErrorCode(err, ErrSigBadLength), "%v", err)

	// The length restriction applies without any encoding flags as well.
	err = checkTransactionECDSASignatureEncoding(schnorrSig, 0)
	require.True(t, IsErrorCode(err, ErrSigBadLength), "%v", err)

	require.NoError(t, checkTransactionSchnorrSignatureEncoding(schnorrSig, flags))
	err = checkTransactionSchnorrSignatureEncoding(ecdsaSig, flags)
	require.True(t, IsErrorCode(err, ErrSigNonSchnorr), "%v", err)

	// Both accept the empty signature.
	require.NoError(t, checkTransactionECDSASignatureEncoding(nil, flags))
	require.NoError(t, checkTransactionSchnorrSignatureEncoding(nil, flags))
}

// TestDataSignatureEncoding ensures data signatures are checked without a
// hash type.
func TestDataSignatureEncoding(t *testing.T) {
	t.Parallel()

	lowS, highS, _ := testSignatures(t)
	require.NoError(t, checkDataSignatureEncoding(nil, StandardVerifyFlags))
	require.NoError(t, checkDataSignatureEncoding(lowS, StandardVerifyFlags))
	require.NoError(t, checkDataSignatureEncoding(
		bytes.Repeat([]byte{0x01}, 64), StandardVerifyFlags))

	err := checkDataSignatureEncoding(highS, StandardVerifyFlags)
	require.True(t, IsErrorCode(err, ErrSigHighS), "%v", err)

	// A trailing hash type makes the DER length wrong.
	err = checkDataSignatureEncoding(withHashType(lowS, SigHashAll),
		StandardVerifyFlags)
	require.True(t, IsErrorCode(err, ErrSigDER), "%v", err)
}

// TestPubKeyEncoding ensures public keys are checked according to the flags.
func TestPubKeyEncoding(t *testing.T) {
	t.Parallel()

	key := testKey(0x22)
	compressed := key.PubKey().SerializeCompressed()
	uncompressed := key.PubKey().SerializeUncompressed()
	hybrid := append([]byte{0x06}, uncompressed[1:]...)
	badPrefix := append([]byte{0x05}, compressed[1:]...)

	tests := []struct {
		name   string
		pubKey []byte
		flags  ScriptFlags
		err    ErrorCode
	}{
		{"compressed strict", compressed, ScriptVerifyStrictEncoding, ErrUnknown},
		{"uncompressed strict", uncompressed, ScriptVerifyStrictEncoding, ErrUnknown},
		{"hybrid strict", hybrid, ScriptVerifyStrictEncoding, ErrPubKeyType},
		{"bad prefix strict", badPrefix, ScriptVerifyStrictEncoding, ErrPubKeyType},
		{"empty strict", nil, ScriptVerifyStrictEncoding, ErrPubKeyType},
		{"garbage without flags", []byte{0x01}, 0, ErrUnknown},
		{"compressed only", compressed, ScriptVerifyCompressedPubKeyType, ErrUnknown},
		{"uncompressed rejected", uncompressed,
			ScriptVerifyCompressedPubKeyType, ErrNonCompressedPubKey},
	}

	for _, test := range tests {
		err := checkPubKeyEncoding(test.pubKey, test.flags)
		if test.err == ErrUnknown {
			require.NoError(t, err, test.name)
			continue
		}
		require.True(t, IsErrorCode(err, test.err), "%s: %v", test.name, err)
	}
}
