// Copyright (c) 2013-2022 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package schnorr

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// SignatureSize is the size of an encoded Schnorr signature.
	SignatureSize = 64

	// scalarSize is the size of an encoded big endian scalar.
	scalarSize = 32
)

var (
	// rfc6979Algorithm is the algorithm identifier fed to RFC6979 when
	// generating the deterministic nonce.  It keeps nonces for Schnorr
	// signing distinct from the ones produced for ECDSA with the same key
	// and message.
	rfc6979Algorithm = []byte("Schnorr+SHA256  ")

	// fieldPrime is the prime of the secp256k1 base field.
	fieldPrime = btcec.S256().Params().P
)

// Signature is a type representing a Schnorr signature as used by Bitcoin
// Cash.
type Signature struct {
	r btcec.FieldVal
	s btcec.ModNScalar
}

// NewSignature instantiates a new signature given some r and s values.
func NewSignature(r *btcec.FieldVal, s *btcec.ModNScalar) *Signature {
	var sig Signature
	sig.r.Set(r).Normalize()
	sig.s.Set(s)
	return &sig
}

// Serialize returns the Schnorr signature in the more strict format.
//
// The signatures are encoded as
//
//	sig[0:32]  x coordinate of the point R, encoded as a big-endian uint256
//	sig[32:64] s, encoded also as big-endian uint256
func (sig Signature) Serialize() []byte {
	// Total length of returned signature is the length of r and s.
	var b [SignatureSize]byte
	sig.r.PutBytesUnchecked(b[0:32])
	sig.s.PutBytesUnchecked(b[32:64])
	return b[:]
}

// ParseSignature parses a 64-byte signature and enforces that r is in the
// range of field elements and s in the range of scalars.
func ParseSignature(sig []byte) (*Signature, error) {
	// The signature must be the correct length.
	sigLen := len(sig)
	if sigLen < SignatureSize {
		str := fmt.Sprintf("malformed signature: too short: %d < %d", sigLen,
			SignatureSize)
		return nil, signatureError(ErrSigTooShort, str)
	}
	if sigLen > SignatureSize {
		str := fmt.Sprintf("malformed signature: too long: %d > %d", sigLen,
			SignatureSize)
		return nil, signatureError(ErrSigTooLong, str)
	}

	var r btcec.FieldVal
	if overflow := r.SetByteSlice(sig[0:32]); overflow {
		str := "invalid signature: r >= field prime"
		return nil, signatureError(ErrSigRTooBig, str)
	}
	var s btcec.ModNScalar
	if overflow := s.SetByteSlice(sig[32:64]); overflow {
		str := "invalid signature: s >= group order"
		return nil, signatureError(ErrSigSTooBig, str)
	}

	return NewSignature(&r, &s), nil
}

// IsEqual compares this Signature instance to the one passed, returning true
// if both Signatures are equivalent. A signature is equivalent to another, if
// they both have the same scalar value for R and S.
func (sig Signature) IsEqual(otherSig *Signature) bool {
	return sig.r.Equals(&otherSig.r) && sig.s.Equals(&otherSig.s)
}

// isSquare returns whether the normalized field value y is a quadratic
// residue modulo the field prime.
func isSquare(y *btcec.FieldVal) bool {
	yBytes := y.Bytes()
	return big.Jacobi(new(big.Int).SetBytes(yBytes[:]), fieldPrime) == 1
}

// challenge computes e = SHA256(r || compressed(P) || m) mod n.
func challenge(r *btcec.FieldVal, pubKey *btcec.PublicKey, hash []byte) btcec.ModNScalar {
	var rBytes [scalarSize]byte
	r.PutBytesUnchecked(rBytes[:])

	h := sha256.New()
	h.Write(rBytes[:])
	h.Write(pubKey.SerializeCompressed())
	h.Write(hash)

	var e btcec.ModNScalar
	e.SetByteSlice(h.Sum(nil))
	return e
}

// schnorrVerify attempt to verify the signature for the provided hash and
// secp256k1 public key and either returns nil if successful or a specific error
// indicating why it failed if not successful.
func schnorrVerify(sig *Signature, hash []byte, pubKey *btcec.PublicKey) error {
	// The verification algorithm is:
	//
	// 1. Fail if m is not 32 bytes
	// 2. r and s are range checked when the signature is parsed.
	// 3. e = int(SHA256(bytes(r) || compressed(P) || m)) mod n.
	// 4. R = s*G - e*P
	// 5. Fail if is_infinite(R)
	// 6. Fail if jacobi(y(R)) != 1
	// 7. Fail if x(R) != r.

	// Step 1.
	if len(hash) != scalarSize {
		str := fmt.Sprintf("wrong size for message (got %v, want %v)",
			len(hash), scalarSize)
		return signatureError(ErrInvalidHashLen, str)
	}

	// Step 3.
	e := challenge(&sig.r, pubKey, hash)

	// Negate e here so we can use AddNonConst below to subtract the e*P
	// point from s*G.
	e.Negate()

	// Step 4.
	var P, R, sG, eP btcec.JacobianPoint
	pubKey.AsJacobian(&P)
	btcec.ScalarBaseMultNonConst(&sig.s, &sG)
	btcec.ScalarMultNonConst(&e, &P, &eP)
	btcec.AddNonConst(&sG, &eP, &R)

	// Step 5.
	if (R.X.IsZero() && R.Y.IsZero()) || R.Z.IsZero() {
		str := "calculated R point is the point at infinity"
		return signatureError(ErrSigRNotOnCurve, str)
	}

	// Step 6.
	//
	// Note that R must be in affine coordinates for this check.
	R.ToAffine()
	if !isSquare(&R.Y) {
		str := "calculated R y-value is not a quadratic residue"
		return signatureError(ErrSigRYNotSquare, str)
	}

	// Step 7.
	if !sig.r.Equals(&R.X) {
		str := "calculated R point was not given R"
		return signatureError(ErrUnequalRValues, str)
	}

	return nil
}

// Verify returns whether or not the signature is valid for the provided hash
// and secp256k1 public key.
func (sig *Signature) Verify(hash []byte, pubKey *btcec.PublicKey) bool {
	return schnorrVerify(sig, hash, pubKey) == nil
}

// schnorrSign generates a signature over the secp256k1 curve for the provided
// hash using the given nonce and private key.  It returns nil without an error
// when the nonce produces an unusable signature so the caller can retry with
// the next nonce.
func schnorrSign(privKey, nonce *btcec.ModNScalar, pubKey *btcec.PublicKey,
	hash []byte) (*Signature, error) {

	// The signing algorithm is:
	//
	// 1. R = k*G
	// 2. Negate k if jacobi(y(R)) != 1
	// 3. e = int(SHA256(bytes(x(R)) || compressed(P) || m)) mod n
	// 4. s = k + e*d mod n
	// 5. Verify the result.

	// Step 1.
	var R btcec.JacobianPoint
	k := *nonce
	btcec.ScalarBaseMultNonConst(&k, &R)

	// Step 2.
	//
	// Note that R must be in affine coordinates for this check.
	R.ToAffine()
	if !isSquare(&R.Y) {
		k.Negate()
	}

	// Step 3.
	e := challenge(&R.X, pubKey, hash)

	// Step 4.
	s := new(btcec.ModNScalar).Mul2(&e, privKey).Add(&k)
	k.Zero()
	if s.IsZero() {
		return nil, nil
	}

	sig := NewSignature(&R.X, s)

	// Step 5.
	if err := schnorrVerify(sig, hash, pubKey); err != nil {
		return nil, err
	}
	return sig, nil
}

// Sign generates a deterministic Schnorr signature over the secp256k1 curve
// for the provided 32-byte hash using the given private key.
//
// The nonce is derived with RFC6979 so signing the same message with the same
// key always yields the same signature.
func Sign(privKey *btcec.PrivateKey, hash []byte) (*Signature, error) {
	if len(hash) != scalarSize {
		str := fmt.Sprintf("wrong size for message hash (got %v, want %v)",
			len(hash), scalarSize)
		return nil, signatureError(ErrInvalidHashLen, str)
	}

	privKeyScalar := &privKey.Key
	if privKeyScalar.IsZero() {
		str := "private key is zero"
		return nil, signatureError(ErrPrivateKeyIsZero, str)
	}

	pubKey := privKey.PubKey()
	privKeyBytes := privKeyScalar.Bytes()
	defer zeroArray(&privKeyBytes)

	for iteration := uint32(0); ; iteration++ {
		k := secp.NonceRFC6979(privKeyBytes[:], hash, nil,
			rfc6979Algorithm, iteration)

		sig, err := schnorrSign(privKeyScalar, k, pubKey, hash)
		k.Zero()
		if err != nil {
			return nil, err
		}
		if sig != nil {
			return sig, nil
		}
	}
}

// zeroArray zeroes the memory of a scalar array.
func zeroArray(a *[scalarSize]byte) {
	for i := 0; i < scalarSize; i++ {
		a[i] = 0x00
	}
}
