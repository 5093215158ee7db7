// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/ripemd160"
)

// Hash160 returns RIPEMD160(SHA256(data)).
func Hash160(data []byte) []byte {
	return calcHash(chainhash.HashB(data), ripemd160.New())
}

// PayToPubKeyHashScript creates a new script to pay a transaction output to a
// 20-byte pubkey hash.
func PayToPubKeyHashScript(pubKeyHash []byte) ([]byte, error) {
	if len(pubKeyHash) != 20 {
		str := fmt.Sprintf("pubkey hash is %d bytes instead of 20",
			len(pubKeyHash))
		return nil, scriptError(ErrInvalidOperandSize, str)
	}
	return NewScriptBuilder().AddOp(OP_DUP).AddOp(OP_HASH160).
		AddData(pubKeyHash).AddOp(OP_EQUALVERIFY).AddOp(OP_CHECKSIG).
		Script()
}

// PayToScriptHashScript creates a new script to pay a transaction output to
// the HASH160 of a redeem script.
func PayToScriptHashScript(redeemScript []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OP_HASH160).
		AddData(Hash160(redeemScript)).AddOp(OP_EQUAL).Script()
}

// PayToScriptHash32Script creates a new script to pay a transaction output to
// the HASH256 of a redeem script.  Such outputs are only recognized as
// pay-to-script-hash with ScriptEnableP2SH32.
func PayToScriptHash32Script(redeemScript []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OP_HASH256).
		AddData(chainhash.DoubleHashB(redeemScript)).AddOp(OP_EQUAL).
		Script()
}

// MultiSigScript returns a valid script for a multisignature redemption where
// nrequired of the keys in pubkeys are required to have signed the
// transaction for success.  An Error with the error code ErrSigCount will be
// returned if nrequired is larger than the number of keys provided.
func MultiSigScript(pubKeys [][]byte, nrequired int) ([]byte, error) {
	if len(pubKeys) > MaxPubKeysPerMultiSig {
		str := fmt.Sprintf("%d public keys exceed the maximum of %d",
			len(pubKeys), MaxPubKeysPerMultiSig)
		return nil, scriptError(ErrPubKeyCount, str)
	}
	if nrequired < 0 || nrequired > len(pubKeys) {
		str := fmt.Sprintf("unable to generate multisig script with "+
			"%d required signatures when there are only %d public "+
			"keys available", nrequired, len(pubKeys))
		return nil, scriptError(ErrSigCount, str)
	}

	builder := NewScriptBuilder().AddInt64(int64(nrequired))
	for _, key := range pubKeys {
		builder.AddData(key)
	}
	builder.AddInt64(int64(len(pubKeys)))
	builder.AddOp(OP_CHECKMULTISIG)

	return builder.Script()
}
