// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/binary"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cashsuite/bchscript/wire"
)

// calcHashPrevOuts calculates a single hash of all the previous outputs
// (txid:index) referenced within the passed transaction.  This calculated hash
// can be re-used when validating all inputs signed with the fork id algorithm
// and without SigHashAnyOneCanPay.  This allows validation to re-use previous
// hashing computation, reducing the complexity of validating SigHashAll
// inputs from O(N^2) to O(N).
func calcHashPrevOuts(tx *wire.MsgTx) chainhash.Hash {
	var b bytes.Buffer
	for _, in := range tx.TxIn {
		// Writes to a bytes.Buffer never fail.
		_ = wire.WriteOutPoint(&b, &in.PreviousOutPoint)
	}

	return chainhash.DoubleHashH(b.Bytes())
}

// calcHashSequence computes an aggregated hash of each of the sequence numbers
// within the inputs of the passed transaction.
func calcHashSequence(tx *wire.MsgTx) chainhash.Hash {
	var b bytes.Buffer
	for _, in := range tx.TxIn {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], in.Sequence)
		b.Write(buf[:])
	}

	return chainhash.DoubleHashH(b.Bytes())
}

// calcHashOutputs computes a hash digest of all outputs created by the
// transaction encoded using the wire format, token payloads included.
func calcHashOutputs(tx *wire.MsgTx) chainhash.Hash {
	return calcHashTxOuts(tx.TxOut)
}

// calcHashUtxos computes a hash digest of all the outputs spent by the
// transaction, in input order.
func calcHashUtxos(coins []*wire.TxOut) chainhash.Hash {
	return calcHashTxOuts(coins)
}

func calcHashTxOuts(txOuts []*wire.TxOut) chainhash.Hash {
	var b bytes.Buffer
	for _, out := range txOuts {
		_ = wire.WriteTxOut(&b, out)
	}

	return chainhash.DoubleHashH(b.Bytes())
}

// PrecomputedTxData houses the transaction wide midstates of the fork id
// signature hash algorithm.  They are computed once per transaction and then
// shared, read only, by the verification of every input.  HashUtxos is only
// available when the midstates were built from a context that knows the coins
// of every input.
type PrecomputedTxData struct {
	HashPrevOuts chainhash.Hash
	HashSequence chainhash.Hash
	HashOutputs  chainhash.Hash
	HashUtxos    chainhash.Hash

	// HasHashUtxos reports whether HashUtxos was computed.
	HasHashUtxos bool
}

// NewPrecomputedTxData computes the midstates of the transaction the context
// refers to.
func NewPrecomputedTxData(ctx *ScriptExecutionContext) *PrecomputedTxData {
	tx := ctx.Tx()
	txData := &PrecomputedTxData{
		HashPrevOuts: calcHashPrevOuts(tx),
		HashSequence: calcHashSequence(tx),
		HashOutputs:  calcHashOutputs(tx),
	}
	if coins := ctx.coinsForAllInputs(); coins != nil {
		txData.HashUtxos = calcHashUtxos(coins)
		txData.HasHashUtxos = true
	}
	return txData
}

// HashCache houses a set of precomputed midstates keyed by txid.  Using this
// threadsafe shared cache, multiple goroutines can safely re-use the
// midstates, speeding up validation time amongst all inputs found within a
// block.
type HashCache struct {
	txData map[chainhash.Hash]*PrecomputedTxData

	sync.RWMutex
}

// NewHashCache returns a new instance of the HashCache given a maximum number
// of entries which may exist within it at anytime.
func NewHashCache(maxSize uint) *HashCache {
	return &HashCache{
		txData: make(map[chainhash.Hash]*PrecomputedTxData, maxSize),
	}
}

// AddTxData computes, then adds the midstates for the transaction of the
// passed context.  Existing midstates for the transaction are kept since they
// never change.  The cached midstates are returned.
func (h *HashCache) AddTxData(ctx *ScriptExecutionContext) *PrecomputedTxData {
	txid := ctx.Tx().TxHash()

	h.Lock()
	defer h.Unlock()
	if txData, ok := h.txData[txid]; ok && (txData.HasHashUtxos ||
		ctx.IsLimited()) {

		return txData
	}
	txData := NewPrecomputedTxData(ctx)
	h.txData[txid] = txData
	return txData
}

// ContainsTxData returns true if the midstates for the passed transaction
// currently exist within the HashCache, and false otherwise.
func (h *HashCache) ContainsTxData(txid *chainhash.Hash) bool {
	h.RLock()
	_, found := h.txData[*txid]
	h.RUnlock()

	return found
}

// GetTxData possibly returns the previously cached midstates for the passed
// transaction.  This function also returns an additional boolean value
// indicating if the midstates for the passed transaction were found to be
// present within the HashCache.
func (h *HashCache) GetTxData(txid *chainhash.Hash) (*PrecomputedTxData, bool) {
	h.RLock()
	item, found := h.txData[*txid]
	h.RUnlock()

	return item, found
}

// PurgeTxData removes the midstates belonging to the passed transaction from
// the HashCache.
func (h *HashCache) PurgeTxData(txid *chainhash.Hash) {
	h.Lock()
	delete(h.txData, *txid)
	h.Unlock()
}
