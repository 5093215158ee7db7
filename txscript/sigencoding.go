// Copyright (c) 2013-2018 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/cashsuite/bchscript/schnorr"
)

const (
	// minDERSigLen and maxDERSigLen bound the length of a DER encoded
	// ECDSA signature without the trailing hash type byte.
	minDERSigLen = 8
	maxDERSigLen = 72

	// compressedPubKeyLen and uncompressedPubKeyLen are the lengths of
	// the two serialized public key formats.
	compressedPubKeyLen   = 33
	uncompressedPubKeyLen = 65

	pubKeyFormatCompressedEven byte = 0x02
	pubKeyFormatCompressedOdd  byte = 0x03
	pubKeyFormatUncompressed   byte = 0x04
)

// halfOrder is used to tame ECDSA malleability (see BIP0062).
var halfOrder = new(big.Int).Rsh(btcec.S256().N, 1)

// isValidDERSignatureEncoding returns an error when sig, excluding the hash
// type, is not a strictly DER encoded ECDSA signature.
//
// The format of a DER encoded signature is as follows:
//
// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
//   - 0x30 is the ASN.1 identifier for a sequence
//   - Total length is 1 byte and specifies length of all remaining data
//   - 0x02 is the ASN.1 identifier that specifies an integer follows
//   - Length of R is 1 byte and specifies how many bytes R occupies
//   - R is the arbitrary length big-endian encoded number which
//     represents the R value of the signature.  DER encoding dictates
//     that the value must be encoded using the minimum possible number
//     of bytes.  This implies the first byte can only be null if the
//     highest bit of the next byte is set in order to prevent it from
//     being interpreted as a negative number.
//   - 0x02 is once again the ASN.1 integer identifier
//   - Length of S is 1 byte and specifies how many bytes S occupies
//   - S is the arbitrary length big-endian encoded number which
//     represents the S value of the signature.  The encoding rules are
//     identical as those for R.
func isValidDERSignatureEncoding(sig []byte) error {
	const (
		asn1SequenceID = 0x30
		asn1IntegerID  = 0x02

		// The first byte of R is always after the sequence header, the
		// integer identifier and the length of R.
		rOffset = 4
	)

	sigLen := len(sig)
	if sigLen < minDERSigLen {
		str := fmt.Sprintf("malformed signature: too short: %d < %d",
			sigLen, minDERSigLen)
		return scriptError(ErrSigDER, str)
	}
	if sigLen > maxDERSigLen {
		str := fmt.Sprintf("malformed signature: too long: %d > %d",
			sigLen, maxDERSigLen)
		return scriptError(ErrSigDER, str)
	}
	if sig[0] != asn1SequenceID {
		str := fmt.Sprintf("malformed signature: format has wrong type: "+
			"%#x", sig[0])
		return scriptError(ErrSigDER, str)
	}
	if int(sig[1]) != sigLen-2 {
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			sig[1], sigLen-2)
		return scriptError(ErrSigDER, str)
	}

	// Make sure S is inside the signature.
	rLen := int(sig[3])
	sTypeOffset := rOffset + rLen
	sLenOffset := sTypeOffset + 1
	if sLenOffset >= sigLen {
		return scriptError(ErrSigDER, "malformed signature: S type "+
			"indicator missing")
	}

	// The length of the elements must match the length of the signature.
	sLen := int(sig[sLenOffset])
	sOffset := sLenOffset + 1
	if sOffset+sLen != sigLen {
		return scriptError(ErrSigDER, "malformed signature: invalid S "+
			"length")
	}

	// R elements must be integers.
	if sig[2] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: R integer marker: %#x "+
			"!= %#x", sig[2], asn1IntegerID)
		return scriptError(ErrSigDER, str)
	}

	// Zero-length integers are not allowed for R.
	if rLen == 0 {
		return scriptError(ErrSigDER, "malformed signature: R length "+
			"is zero")
	}

	// R must not be negative.
	if sig[rOffset]&0x80 != 0 {
		return scriptError(ErrSigDER, "malformed signature: R is "+
			"negative")
	}

	// Null bytes at the start of R are not allowed, unless R would
	// otherwise be interpreted as a negative number.
	if rLen > 1 && sig[rOffset] == 0x00 && sig[rOffset+1]&0x80 == 0 {
		return scriptError(ErrSigDER, "malformed signature: R value "+
			"has too much padding")
	}

	// S elements must be integers.
	if sig[sTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: S integer marker: %#x "+
			"!= %#x", sig[sTypeOffset], asn1IntegerID)
		return scriptError(ErrSigDER, str)
	}

	// Zero-length integers are not allowed for S.
	if sLen == 0 {
		return scriptError(ErrSigDER, "malformed signature: S length "+
			"is zero")
	}

	// S must not be negative.
	if sig[sOffset]&0x80 != 0 {
		return scriptError(ErrSigDER, "malformed signature: S is "+
			"negative")
	}

	// Null bytes at the start of S are not allowed, unless S would
	// otherwise be interpreted as a negative number.
	if sLen > 1 && sig[sOffset] == 0x00 && sig[sOffset+1]&0x80 == 0 {
		return scriptError(ErrSigDER, "malformed signature: S value "+
			"has too much padding")
	}

	return nil
}

// checkLowS returns an error when the S value of the strictly DER encoded sig
// is greater than half the group order.
func checkLowS(sig []byte) error {
	rLen := int(sig[3])
	sLen := int(sig[rLen+5])
	sValue := new(big.Int).SetBytes(sig[rLen+6 : rLen+6+sLen])
	if sValue.Cmp(halfOrder) > 0 {
		return scriptError(ErrSigHighS, "signature is not canonical due "+
			"to unnecessarily high S value")
	}
	return nil
}

// checkRawECDSASignatureEncoding checks an ECDSA signature without its hash
// type.  A 64-byte signature is rejected since that length identifies a
// Schnorr signature.
func checkRawECDSASignatureEncoding(sig []byte, flags ScriptFlags) error {
	if len(sig) == schnorr.SignatureSize {
		str := fmt.Sprintf("%d-byte signature is not allowed where only "+
			"ECDSA signatures are accepted", len(sig))
		return scriptError(ErrSigBadLength, str)
	}

	if flags&(ScriptVerifyDERSignatures|ScriptVerifyLowS|
		ScriptVerifyStrictEncoding) != 0 {

		if err := isValidDERSignatureEncoding(sig); err != nil {
			return err
		}
	}

	if flags.HasFlag(ScriptVerifyLowS) {
		return checkLowS(sig)
	}
	return nil
}

// checkRawSchnorrSignatureEncoding checks a Schnorr signature without its
// hash type.
func checkRawSchnorrSignatureEncoding(sig []byte) error {
	if len(sig) != schnorr.SignatureSize {
		str := fmt.Sprintf("signature of %d bytes is not a %d-byte "+
			"schnorr signature", len(sig), schnorr.SignatureSize)
		return scriptError(ErrSigNonSchnorr, str)
	}
	return nil
}

// checkRawSignatureEncoding checks a signature of either kind without its
// hash type.  Schnorr signatures are identified by their length.
func checkRawSignatureEncoding(sig []byte, flags ScriptFlags) error {
	if len(sig) == schnorr.SignatureSize {
		return nil
	}
	return checkRawECDSASignatureEncoding(sig, flags)
}

// checkSigHashEncoding returns an error when the hash type of a transaction
// signature is not allowed by the strict encoding rules.
func checkSigHashEncoding(sig []byte, flags ScriptFlags) error {
	if !flags.HasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}

	hashType := sigHashTypeOf(sig)
	if !hashType.IsDefined() {
		str := fmt.Sprintf("invalid hash type 0x%x", byte(hashType))
		return scriptError(ErrSigHashType, str)
	}

	forkIDEnabled := flags.HasFlag(ScriptEnableSighashForkID)
	if !forkIDEnabled && hashType.HasForkID() {
		return scriptError(ErrIllegalForkID, "signature uses the fork "+
			"id before it is enabled")
	}
	if forkIDEnabled && !hashType.HasForkID() {
		return scriptError(ErrMustUseForkID, "signature must use the "+
			"fork id")
	}

	if hashType.HasUtxos() {
		if !flags.HasFlag(ScriptEnableTokens) {
			str := fmt.Sprintf("hash type %v is not enabled", hashType)
			return scriptError(ErrSigHashType, str)
		}
		if hashType.HasAnyOneCanPay() {
			str := fmt.Sprintf("hash type %v combines utxos with "+
				"anyone-can-pay", hashType)
			return scriptError(ErrSigHashType, str)
		}
	}
	return nil
}

// checkTransactionSignature checks a transaction signature, made of a raw
// signature followed by its hash type, using the provided raw signature
// check.  Empty signatures are always accepted.
func checkTransactionSignature(sig []byte, flags ScriptFlags,
	checkRaw func([]byte, ScriptFlags) error) error {

	if len(sig) == 0 {
		return nil
	}
	if err := checkRaw(sig[:len(sig)-1], flags); err != nil {
		return err
	}
	return checkSigHashEncoding(sig, flags)
}

// checkTransactionSignatureEncoding returns an error when a transaction
// signature of either kind does not adhere to the encoding rules selected by
// the flags.
func checkTransactionSignatureEncoding(sig []byte, flags ScriptFlags) error {
	return checkTransactionSignature(sig, flags, checkRawSignatureEncoding)
}

// checkTransactionECDSASignatureEncoding is like
// checkTransactionSignatureEncoding but only accepts ECDSA signatures.  It is
// used by the legacy mode of OP_CHECKMULTISIG.
func checkTransactionECDSASignatureEncoding(sig []byte, flags ScriptFlags) error {
	return checkTransactionSignature(sig, flags, checkRawECDSASignatureEncoding)
}

// checkTransactionSchnorrSignatureEncoding is like
// checkTransactionSignatureEncoding but only accepts Schnorr signatures.  It
// is used by the Schnorr mode of OP_CHECKMULTISIG.
func checkTransactionSchnorrSignatureEncoding(sig []byte, flags ScriptFlags) error {
	return checkTransactionSignature(sig, flags,
		func(raw []byte, _ ScriptFlags) error {
			return checkRawSchnorrSignatureEncoding(raw)
		})
}

// checkDataSignatureEncoding returns an error when an OP_CHECKDATASIG
// signature, which has no hash type, does not adhere to the encoding rules
// selected by the flags.
func checkDataSignatureEncoding(sig []byte, flags ScriptFlags) error {
	if len(sig) == 0 {
		return nil
	}
	return checkRawSignatureEncoding(sig, flags)
}

// isCompressedOrUncompressedPubKey returns whether pubKey has the size and
// prefix of a serialized public key.  The point itself is not validated.
func isCompressedOrUncompressedPubKey(pubKey []byte) bool {
	switch len(pubKey) {
	case compressedPubKeyLen:
		return pubKey[0] == pubKeyFormatCompressedEven ||
			pubKey[0] == pubKeyFormatCompressedOdd
	case uncompressedPubKeyLen:
		return pubKey[0] == pubKeyFormatUncompressed
	}
	return false
}

// isCompressedPubKey returns whether pubKey has the size and prefix of a
// compressed public key.
func isCompressedPubKey(pubKey []byte) bool {
	return len(pubKey) == compressedPubKeyLen &&
		(pubKey[0] == pubKeyFormatCompressedEven ||
			pubKey[0] == pubKeyFormatCompressedOdd)
}

// checkPubKeyEncoding returns an error when the public key does not adhere to
// the encoding rules selected by the flags.
func checkPubKeyEncoding(pubKey []byte, flags ScriptFlags) error {
	if flags.HasFlag(ScriptVerifyStrictEncoding) &&
		!isCompressedOrUncompressedPubKey(pubKey) {

		return scriptError(ErrPubKeyType, "unsupported public key type")
	}

	if flags.HasFlag(ScriptVerifyCompressedPubKeyType) &&
		!isCompressedPubKey(pubKey) {

		return scriptError(ErrNonCompressedPubKey, "public key is not "+
			"compressed")
	}
	return nil
}
