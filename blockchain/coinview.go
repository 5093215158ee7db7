// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cashsuite/bchscript/wire"
)

// zeroHash is the zero value for a chainhash.Hash and is defined as
// a package level variable to avoid the need to create a new instance
// every time a check is needed.
var zeroHash chainhash.Hash

// CoinView provides the coins spent by the transactions being validated.
// Implementations must be safe for concurrent reads.
//
// FetchCoin returns a nil coin without error when no coin exists at the
// outpoint.  A non-nil error is reserved for failures of the view itself.
type CoinView interface {
	FetchCoin(op *wire.OutPoint) (*wire.TxOut, error)
}

// CoinMap is an in-memory CoinView.
type CoinMap map[wire.OutPoint]*wire.TxOut

// FetchCoin returns the coin at the passed outpoint, or nil when there is none.
func (m CoinMap) FetchCoin(op *wire.OutPoint) (*wire.TxOut, error) {
	return m[*op], nil
}

// AddTxOuts adds every output of the passed transaction to the map.
func (m CoinMap) AddTxOuts(tx *wire.MsgTx) {
	txHash := tx.TxHash()
	for i, txOut := range tx.TxOut {
		m[wire.OutPoint{Hash: txHash, Index: uint32(i)}] = txOut
	}
}

// blockCoinView layers the outputs created earlier in a block over the coins
// existing before it.
type blockCoinView struct {
	created CoinMap
	base    CoinView
}

func (v *blockCoinView) FetchCoin(op *wire.OutPoint) (*wire.TxOut, error) {
	if coin, ok := v.created[*op]; ok {
		return coin, nil
	}
	return v.base.FetchCoin(op)
}

// isNullOutPoint determines whether or not a previous outpoint is set.
func isNullOutPoint(outpoint *wire.OutPoint) bool {
	return outpoint.Index == ^uint32(0) && outpoint.Hash == zeroHash
}

// IsCoinBaseTx determines whether or not a transaction is a coinbase.  A
// coinbase is a special transaction created by miners that has no inputs.
// This is represented in the block chain by a transaction with a single input
// that has a previous output transaction index set to the maximum value along
// with a zero hash.
func IsCoinBaseTx(msgTx *wire.MsgTx) bool {
	return len(msgTx.TxIn) == 1 &&
		isNullOutPoint(&msgTx.TxIn[0].PreviousOutPoint)
}

// fetchInputCoins returns the coins spent by the inputs of tx in input order.
func fetchInputCoins(tx *wire.MsgTx, view CoinView) ([]*wire.TxOut, error) {
	txHash := tx.TxHash()
	coins := make([]*wire.TxOut, len(tx.TxIn))
	for i, txIn := range tx.TxIn {
		coin, err := view.FetchCoin(&txIn.PreviousOutPoint)
		if err != nil {
			return nil, err
		}
		if coin == nil {
			str := fmt.Sprintf("output %v referenced from "+
				"transaction %s:%d either does not exist or "+
				"has already been spent", txIn.PreviousOutPoint,
				txHash, i)
			return nil, ruleError(ErrMissingTxOut, str)
		}
		coins[i] = coin
	}
	return coins, nil
}
