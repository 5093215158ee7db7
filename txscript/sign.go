// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/cashsuite/bchscript/schnorr"
)

// SignatureType selects the signature algorithm used when signing.
type SignatureType byte

const (
	// ECDSASignature produces DER encoded low-S ECDSA signatures.
	ECDSASignature SignatureType = iota

	// SchnorrSignature produces 64-byte BCH Schnorr signatures.
	SchnorrSignature
)

// RawTxInSignature returns the serialized signature for the input described by
// ctx, with hashType appended to it.  The script code is the part of the
// locking or redeem script covered by the signature.
func RawTxInSignature(ctx *ScriptExecutionContext, scriptCode []byte,
	hashType SigHashType, flags ScriptFlags, key *btcec.PrivateKey,
	sigType SignatureType) ([]byte, error) {

	hash, err := CalcSignatureHash(scriptCode, ctx, hashType, nil, flags)
	if err != nil {
		return nil, err
	}

	var sig []byte
	switch sigType {
	case ECDSASignature:
		sig = ecdsa.Sign(key, hash[:]).Serialize()

	case SchnorrSignature:
		signature, err := schnorr.Sign(key, hash[:])
		if err != nil {
			return nil, fmt.Errorf("cannot sign tx input: %w", err)
		}
		sig = signature.Serialize()

	default:
		return nil, fmt.Errorf("unknown signature type %d", sigType)
	}

	return append(sig, byte(hashType)), nil
}

// SignatureScript creates an input signature script for the input described
// by ctx spending a pay-to-pubkey-hash output.  The public key is serialized
// in compressed form when compress is set.
func SignatureScript(ctx *ScriptExecutionContext, scriptCode []byte,
	hashType SigHashType, flags ScriptFlags, privKey *btcec.PrivateKey,
	sigType SignatureType, compress bool) ([]byte, error) {

	sig, err := RawTxInSignature(ctx, scriptCode, hashType, flags, privKey,
		sigType)
	if err != nil {
		return nil, err
	}

	pk := privKey.PubKey()
	var pkData []byte
	if compress {
		pkData = pk.SerializeCompressed()
	} else {
		pkData = pk.SerializeUncompressed()
	}

	return NewScriptBuilder().AddData(sig).AddData(pkData).Script()
}

// MultiSigScriptSig creates the signature script spending a bare or
// pay-to-script-hash multisig output.  The dummy is the leading
// OP_CHECKMULTISIG argument, empty for the legacy mode or the key bitfield
// for the Schnorr mode.  A non-nil redeem script is pushed last.
func MultiSigScriptSig(dummy []byte, sigs [][]byte, redeemScript []byte) ([]byte, error) {
	builder := NewScriptBuilder()
	if len(dummy) == 0 {
		builder.AddOp(OP_0)
	} else {
		builder.AddData(dummy)
	}
	for _, sig := range sigs {
		builder.AddData(sig)
	}
	if redeemScript != nil {
		builder.AddData(redeemScript)
	}
	return builder.Script()
}
