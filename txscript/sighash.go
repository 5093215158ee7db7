// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cashsuite/bchscript/wire"
)

// sigHashSingleBug is the hash returned by the legacy algorithm when a
// SigHashSingle signature is made for an input without a matching output.
// Its first byte in internal order is one and the rest are zero.
var sigHashSingleBug = chainhash.Hash{0x01}

// CalcSignatureHash computes the signature hash of the input described by ctx
// for the given script code and hash type.
//
// The replay protected algorithm, which commits to the value of the spent
// output, is used when the hash type carries SigHashForkID and
// ScriptEnableSighashForkID is set.  Otherwise the legacy algorithm is used.
//
// The optional txData provides precomputed midstates for the replay protected
// algorithm.  They are computed on the fly when nil.
func CalcSignatureHash(scriptCode []byte, ctx *ScriptExecutionContext,
	hashType SigHashType, txData *PrecomputedTxData,
	flags ScriptFlags) (chainhash.Hash, error) {

	idx := ctx.InputIndex()
	tx := ctx.Tx()
	if idx < 0 || idx >= len(tx.TxIn) {
		str := fmt.Sprintf("input index %d is out of range for %d inputs",
			idx, len(tx.TxIn))
		return chainhash.Hash{}, scriptError(ErrInvalidIndex, str)
	}

	if hashType.HasForkID() && flags.HasFlag(ScriptEnableSighashForkID) {
		return calcForkIDSignatureHash(scriptCode, ctx, hashType, txData,
			flags)
	}
	return calcLegacySignatureHash(scriptCode, tx, idx, hashType), nil
}

// calcForkIDSignatureHash computes the replay protected signature hash.  The
// serialization is:
//
//  1. version (4 bytes)
//  2. hash of the previous outpoints, or zero with SigHashAnyOneCanPay
//  3. hash of the spent outputs, only with SigHashUtxos once tokens are
//     enabled
//  4. hash of the sequences, or zero with SigHashAnyOneCanPay, SigHashSingle
//     or SigHashNone
//  5. the outpoint spent by the input
//  6. the token prefix and payload of the spent output, once tokens are
//     enabled and when it carries one
//  7. the script code (length prefixed)
//  8. value of the spent output (8 bytes)
//  9. sequence of the input (4 bytes)
//  10. hash of the outputs, of the matching output with SigHashSingle or zero
//     otherwise
//  11. lock time (4 bytes)
//  12. hash type (4 bytes)
func calcForkIDSignatureHash(scriptCode []byte, ctx *ScriptExecutionContext,
	hashType SigHashType, txData *PrecomputedTxData,
	flags ScriptFlags) (chainhash.Hash, error) {

	tx := ctx.Tx()
	idx := ctx.InputIndex()
	baseType := hashType.BaseType()
	tokensEnabled := flags.HasFlag(ScriptEnableTokens)

	var zeroHash chainhash.Hash
	hashPrevOuts := zeroHash
	if !hashType.HasAnyOneCanPay() {
		if txData != nil {
			hashPrevOuts = txData.HashPrevOuts
		} else {
			hashPrevOuts = calcHashPrevOuts(tx)
		}
	}

	hashSequence := zeroHash
	if !hashType.HasAnyOneCanPay() && baseType != SigHashSingle &&
		baseType != SigHashNone {

		if txData != nil {
			hashSequence = txData.HashSequence
		} else {
			hashSequence = calcHashSequence(tx)
		}
	}

	hashOutputs := zeroHash
	switch {
	case baseType != SigHashSingle && baseType != SigHashNone:
		if txData != nil {
			hashOutputs = txData.HashOutputs
		} else {
			hashOutputs = calcHashOutputs(tx)
		}

	case baseType == SigHashSingle && idx < len(tx.TxOut):
		hashOutputs = calcHashTxOuts(tx.TxOut[idx : idx+1])
	}

	withUtxos := hashType.HasUtxos() && tokensEnabled
	var hashUtxos chainhash.Hash
	if withUtxos {
		switch {
		case txData != nil && txData.HasHashUtxos:
			hashUtxos = txData.HashUtxos

		case !ctx.IsLimited():
			hashUtxos = calcHashUtxos(ctx.coinsForAllInputs())

		default:
			str := fmt.Sprintf("hash type %v commits to the spent outputs "+
				"which are not available", hashType)
			return chainhash.Hash{}, scriptError(ErrSigHashMissingUtxos, str)
		}
	}

	txIn := tx.TxIn[idx]
	coin := ctx.Coin(idx)

	var sigHash bytes.Buffer
	sigHash.Grow(len(scriptCode) + 256)

	var bVersion [4]byte
	binary.LittleEndian.PutUint32(bVersion[:], uint32(tx.Version))
	sigHash.Write(bVersion[:])

	sigHash.Write(hashPrevOuts[:])
	if withUtxos {
		sigHash.Write(hashUtxos[:])
	}
	sigHash.Write(hashSequence[:])

	// Writes to a bytes.Buffer never fail.
	_ = wire.WriteOutPoint(&sigHash, &txIn.PreviousOutPoint)
	if tokensEnabled && coin != nil && coin.TokenData != nil {
		sigHash.WriteByte(wire.TokenPrefix)
		_ = coin.TokenData.Serialize(&sigHash)
	}
	_ = wire.WriteVarBytes(&sigHash, scriptCode)

	var bAmount [8]byte
	binary.LittleEndian.PutUint64(bAmount[:], uint64(ctx.CoinAmount(idx)))
	sigHash.Write(bAmount[:])

	var bSequence [4]byte
	binary.LittleEndian.PutUint32(bSequence[:], txIn.Sequence)
	sigHash.Write(bSequence[:])

	sigHash.Write(hashOutputs[:])

	var bLockTime [4]byte
	binary.LittleEndian.PutUint32(bLockTime[:], tx.LockTime)
	sigHash.Write(bLockTime[:])

	var bHashType [4]byte
	binary.LittleEndian.PutUint32(bHashType[:], uint32(hashType))
	sigHash.Write(bHashType[:])

	return chainhash.DoubleHashH(sigHash.Bytes()), nil
}

// calcLegacySignatureHash computes the original signature hash.  It
// serializes a modified copy of the transaction in which every other input
// has an empty script and the signed input carries the script code with all
// OP_CODESEPARATORs removed.  SigHashNone drops the outputs and zeroes the
// sequences of the other inputs, SigHashSingle keeps the outputs up to the
// signed input's index with the preceding ones blanked and also zeroes the
// sequences, and SigHashAnyOneCanPay only keeps the signed input.
func calcLegacySignatureHash(scriptCode []byte, tx *wire.MsgTx, idx int,
	hashType SigHashType) chainhash.Hash {

	baseType := hashType.BaseType()

	// The SigHashSingle signature type signs the output at the same index
	// as the input, so there is no output to sign when the index is out of
	// range.  Historically this returned the value one instead of failing.
	if baseType == SigHashSingle && idx >= len(tx.TxOut) {
		return sigHashSingleBug
	}

	scriptCode = removeCodeSeparators(scriptCode)

	var sigHash bytes.Buffer
	sigHash.Grow(len(scriptCode) + tx.SerializeSize() + 4)

	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(tx.Version))
	sigHash.Write(buf[:4])

	// Writes to a bytes.Buffer never fail.
	writeInput := func(i int) {
		txIn := tx.TxIn[i]
		_ = wire.WriteOutPoint(&sigHash, &txIn.PreviousOutPoint)

		sequence := txIn.Sequence
		if i == idx {
			_ = wire.WriteVarBytes(&sigHash, scriptCode)
		} else {
			_ = wire.WriteVarInt(&sigHash, 0)
			if baseType == SigHashNone || baseType == SigHashSingle {
				sequence = 0
			}
		}
		binary.LittleEndian.PutUint32(buf[:4], sequence)
		sigHash.Write(buf[:4])
	}
	if hashType.HasAnyOneCanPay() {
		_ = wire.WriteVarInt(&sigHash, 1)
		writeInput(idx)
	} else {
		_ = wire.WriteVarInt(&sigHash, uint64(len(tx.TxIn)))
		for i := range tx.TxIn {
			writeInput(i)
		}
	}

	switch baseType {
	case SigHashNone:
		_ = wire.WriteVarInt(&sigHash, 0)

	case SigHashSingle:
		_ = wire.WriteVarInt(&sigHash, uint64(idx+1))
		blank := wire.NewNullTxOut()
		for i := 0; i < idx; i++ {
			_ = wire.WriteTxOut(&sigHash, blank)
		}
		_ = wire.WriteTxOut(&sigHash, tx.TxOut[idx])

	default:
		_ = wire.WriteVarInt(&sigHash, uint64(len(tx.TxOut)))
		for _, txOut := range tx.TxOut {
			_ = wire.WriteTxOut(&sigHash, txOut)
		}
	}

	binary.LittleEndian.PutUint32(buf[:4], tx.LockTime)
	sigHash.Write(buf[:4])
	binary.LittleEndian.PutUint32(buf[:4], uint32(hashType))
	sigHash.Write(buf[:4])

	return chainhash.DoubleHashH(sigHash.Bytes())
}
