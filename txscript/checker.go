// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/cashsuite/bchscript/schnorr"
	"github.com/cashsuite/bchscript/wire"
	"github.com/davecgh/go-spew/spew"
)

// LockTimeThreshold is the number below which a lock time is interpreted to
// be a block number.  Since an average of one block is generated per 10
// minutes, this allows blocks for about 9,512 years.
const LockTimeThreshold = 5e8 // Tue Nov 5 00:53:20 1985 UTC

// SignatureChecker is the interface the engine uses to check signatures and
// lock times and to reach the transaction being verified.
type SignatureChecker interface {
	// CheckSig returns whether sig, which ends with its hash type, is a
	// valid signature by pubKey of the transaction signature hash computed
	// over scriptCode.  An error is only returned when the signature hash
	// cannot be computed.
	CheckSig(sig, pubKey, scriptCode []byte, flags ScriptFlags) (bool, error)

	// VerifySignature returns whether sig, without a hash type, is a valid
	// ECDSA or Schnorr signature by pubKey of hash.
	VerifySignature(sig, pubKey, hash []byte) bool

	// CheckLockTime returns whether the absolute lock time is satisfied by
	// the transaction.
	CheckLockTime(lockTime ScriptNum) bool

	// CheckSequence returns whether the relative lock time is satisfied by
	// the input.
	CheckSequence(sequence ScriptNum) bool

	// Context returns the transaction context, or nil when there is none.
	Context() *ScriptExecutionContext
}

// verifySignature parses the public key and the signature and verifies the
// signature.  A 64-byte signature is a Schnorr signature and anything else is
// parsed as a lax DER ECDSA signature.
func verifySignature(sig, pubKey, hash []byte) bool {
	pk, err := btcec.ParsePubKey(pubKey)
	if err != nil {
		return false
	}

	if len(sig) == schnorr.SignatureSize {
		signature, err := schnorr.ParseSignature(sig)
		if err != nil {
			return false
		}
		return signature.Verify(hash, pk)
	}

	signature, err := ecdsa.ParseSignature(sig)
	if err != nil {
		return false
	}
	return signature.Verify(hash, pk)
}

// BaseSignatureChecker is a checker without a transaction.  Signatures over
// arbitrary data, as used by OP_CHECKDATASIG, are verified normally, while
// transaction signatures and lock times never validate.
type BaseSignatureChecker struct{}

// CheckSig always returns false since there is no transaction to sign.
func (BaseSignatureChecker) CheckSig(sig, pubKey, scriptCode []byte, flags ScriptFlags) (bool, error) {
	return false, nil
}

// VerifySignature verifies sig by pubKey over hash.
func (BaseSignatureChecker) VerifySignature(sig, pubKey, hash []byte) bool {
	return verifySignature(sig, pubKey, hash)
}

// CheckLockTime always returns false.
func (BaseSignatureChecker) CheckLockTime(lockTime ScriptNum) bool {
	return false
}

// CheckSequence always returns false.
func (BaseSignatureChecker) CheckSequence(sequence ScriptNum) bool {
	return false
}

// Context returns nil.
func (BaseSignatureChecker) Context() *ScriptExecutionContext {
	return nil
}

// TransactionSignatureChecker checks signatures and lock times against an
// input of a transaction.
type TransactionSignatureChecker struct {
	ctx      *ScriptExecutionContext
	txData   *PrecomputedTxData
	sigCache *SigCache
}

// NewTransactionSignatureChecker returns a checker for the input described by
// ctx.  The precomputed midstates and the signature cache are optional.
func NewTransactionSignatureChecker(ctx *ScriptExecutionContext,
	txData *PrecomputedTxData, sigCache *SigCache) *TransactionSignatureChecker {

	return &TransactionSignatureChecker{
		ctx:      ctx,
		txData:   txData,
		sigCache: sigCache,
	}
}

// CheckSig computes the signature hash selected by the hash type of sig and
// verifies the signature against it.
func (c *TransactionSignatureChecker) CheckSig(sig, pubKey, scriptCode []byte,
	flags ScriptFlags) (bool, error) {

	if len(sig) == 0 {
		return false, nil
	}
	if _, err := btcec.ParsePubKey(pubKey); err != nil {
		return false, nil
	}

	hashType := sigHashTypeOf(sig)
	sigHash, err := CalcSignatureHash(scriptCode, c.ctx, hashType,
		c.txData, flags)
	if err != nil {
		return false, err
	}

	valid := c.VerifySignature(sig[:len(sig)-1], pubKey, sigHash[:])
	log.Tracef("%v", newLogClosure(func() string {
		return spew.Sprintf("checksig input %d hash type %v "+
			"sighash %v valid %v", c.ctx.InputIndex(), hashType,
			sigHash, valid)
	}))
	return valid, nil
}

// VerifySignature verifies sig by pubKey over hash, consulting the signature
// cache first when one is configured.
func (c *TransactionSignatureChecker) VerifySignature(sig, pubKey, hash []byte) bool {
	if c.sigCache != nil && c.sigCache.Exists(hash, sig, pubKey) {
		return true
	}
	if !verifySignature(sig, pubKey, hash) {
		return false
	}
	if c.sigCache != nil {
		c.sigCache.Add(hash, sig, pubKey)
	}
	return true
}

// CheckLockTime returns whether the transaction lock time satisfies lockTime.
// Both must be of the same kind, block height or timestamp, and the input
// must not be final.
func (c *TransactionSignatureChecker) CheckLockTime(lockTime ScriptNum) bool {
	tx := c.ctx.Tx()
	txLockTime := int64(tx.LockTime)
	nLockTime := lockTime.Int64()

	// The lock time and the transaction lock time must be of the same
	// kind.
	if (txLockTime < LockTimeThreshold) != (nLockTime < LockTimeThreshold) {
		return false
	}
	if nLockTime > txLockTime {
		return false
	}

	// The lock time of a transaction is ignored when all of its inputs are
	// final, so the input being spent must not be final.
	sequence := tx.TxIn[c.ctx.InputIndex()].Sequence
	return sequence != wire.MaxTxInSequenceNum
}

// CheckSequence returns whether the relative lock time of the input satisfies
// sequence.  The transaction must be version 2 or later, the input must not
// disable its relative lock time and both values must be of the same kind.
func (c *TransactionSignatureChecker) CheckSequence(sequence ScriptNum) bool {
	tx := c.ctx.Tx()

	// Relative lock times are only enforced from version 2.
	if uint32(tx.Version) < 2 {
		return false
	}

	txSequence := int64(tx.TxIn[c.ctx.InputIndex()].Sequence)
	if txSequence&wire.SequenceLockTimeDisabled != 0 {
		return false
	}

	const lockTimeMask = wire.SequenceLockTimeIsSeconds |
		wire.SequenceLockTimeMask
	txSequenceMasked := txSequence & lockTimeMask
	sequenceMasked := sequence.Int64() & lockTimeMask

	if (txSequenceMasked < wire.SequenceLockTimeIsSeconds) !=
		(sequenceMasked < wire.SequenceLockTimeIsSeconds) {

		return false
	}
	return sequenceMasked <= txSequenceMasked
}

// Context returns the context of the input being verified.
func (c *TransactionSignatureChecker) Context() *ScriptExecutionContext {
	return c.ctx
}

// Ensure the checkers implement the SignatureChecker interface.
var (
	_ SignatureChecker = BaseSignatureChecker{}
	_ SignatureChecker = (*TransactionSignatureChecker)(nil)
)
