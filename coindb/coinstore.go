// Copyright (c) 2022 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coindb

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cashsuite/bchscript/wire"
)

const (
	// coinKeyPrefix prefixes the keys of the stored coins.
	coinKeyPrefix = 'c'

	// coinKeyLen is the length of a coin key: the prefix, the hash of the
	// transaction and the big endian output index.
	coinKeyLen = 1 + chainhash.HashSize + 4
)

// coinKey returns the key of the coin created at the passed outpoint.  The
// index is big endian so the outputs of a transaction are stored in order.
func coinKey(op *wire.OutPoint) []byte {
	key := make([]byte, coinKeyLen)
	key[0] = coinKeyPrefix
	copy(key[1:], op.Hash[:])
	binary.BigEndian.PutUint32(key[1+chainhash.HashSize:], op.Index)
	return key
}

// outPointFromKey is the inverse of coinKey.
func outPointFromKey(key []byte) (wire.OutPoint, error) {
	var op wire.OutPoint
	if len(key) != coinKeyLen || key[0] != coinKeyPrefix {
		str := fmt.Sprintf("malformed coin key %x", key)
		return op, makeError(ErrCorruption, str, nil)
	}
	copy(op.Hash[:], key[1:1+chainhash.HashSize])
	op.Index = binary.BigEndian.Uint32(key[1+chainhash.HashSize:])
	return op, nil
}

// serializeCoin returns the stored form of a coin, its consensus encoding
// with any token payload ahead of the locking script.
func serializeCoin(coin *wire.TxOut) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(coin.SerializeSize())
	if err := wire.WriteTxOut(&buf, coin); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeCoin(op *wire.OutPoint, serialized []byte) (*wire.TxOut, error) {
	r := bytes.NewReader(serialized)
	var coin wire.TxOut
	if err := wire.ReadTxOut(r, &coin); err != nil {
		str := fmt.Sprintf("corrupt coin %v", op)
		return nil, makeError(ErrCorruption, str, err)
	}
	if r.Len() != 0 {
		str := fmt.Sprintf("corrupt coin %v: %d trailing bytes", op,
			r.Len())
		return nil, makeError(ErrCorruption, str, nil)
	}
	return &coin, nil
}

// CoinStore keeps a snapshot of unspent transaction outputs, along with their
// token payloads, on top of a key/value engine.  It supplies the coins needed
// to build the execution contexts of the inputs being verified.
//
// The store is safe for concurrent use as long as the engine is.
type CoinStore struct {
	db Engine
}

// NewCoinStore returns a coin store backed by the passed engine.  The caller
// remains responsible for closing the engine.
func NewCoinStore(db Engine) *CoinStore {
	return &CoinStore{db: db}
}

// update runs fn in a new transaction which is committed when fn succeeds
// and discarded otherwise.
func (s *CoinStore) update(fn func(tx Transaction) error) error {
	tx, err := s.db.Transaction()
	if err != nil {
		return makeError(ErrDriverSpecific, "unable to start transaction",
			err)
	}
	defer tx.Discard()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return makeError(ErrDriverSpecific, "unable to commit transaction",
			err)
	}
	return nil
}

// view runs fn against a new snapshot of the store.
func (s *CoinStore) view(fn func(snap Snapshot) error) error {
	snap, err := s.db.Snapshot()
	if err != nil {
		return makeError(ErrDriverSpecific, "unable to open snapshot", err)
	}
	defer snap.Release()

	return fn(snap)
}

// PutCoins atomically stores the passed coins, replacing any existing coin at
// the same outpoints.
func (s *CoinStore) PutCoins(coins map[wire.OutPoint]*wire.TxOut) error {
	return s.update(func(tx Transaction) error {
		for op, coin := range coins {
			op := op
			serialized, err := serializeCoin(coin)
			if err != nil {
				str := fmt.Sprintf("unable to serialize coin %v", op)
				return makeError(ErrCorruption, str, err)
			}
			if err := tx.Put(coinKey(&op), serialized); err != nil {
				return makeError(ErrDriverSpecific,
					"unable to store coin", err)
			}
		}
		log.Debugf("Stored %d coins", len(coins))
		return nil
	})
}

// AddTxOuts stores every output created by the passed transaction.
func (s *CoinStore) AddTxOuts(msgTx *wire.MsgTx) error {
	txHash := msgTx.TxHash()
	coins := make(map[wire.OutPoint]*wire.TxOut, len(msgTx.TxOut))
	for i, txOut := range msgTx.TxOut {
		coins[wire.OutPoint{Hash: txHash, Index: uint32(i)}] = txOut
	}
	return s.PutCoins(coins)
}

// SpendCoins atomically removes the coins at the passed outpoints.  Missing
// coins are ignored.
func (s *CoinStore) SpendCoins(ops []wire.OutPoint) error {
	return s.update(func(tx Transaction) error {
		for i := range ops {
			if err := tx.Delete(coinKey(&ops[i])); err != nil {
				return makeError(ErrDriverSpecific,
					"unable to remove coin", err)
			}
		}
		log.Debugf("Removed %d coins", len(ops))
		return nil
	})
}

// fetchCoin loads a single coin from the passed snapshot.
func fetchCoin(snap Snapshot, op *wire.OutPoint) (*wire.TxOut, error) {
	key := coinKey(op)
	exists, err := snap.Has(key)
	if err != nil {
		return nil, makeError(ErrDriverSpecific, "unable to look up coin",
			err)
	}
	if !exists {
		str := fmt.Sprintf("no coin stored for %v", op)
		return nil, makeError(ErrCoinNotFound, str, nil)
	}

	serialized, err := snap.Get(key)
	if err != nil {
		return nil, makeError(ErrDriverSpecific, "unable to load coin",
			err)
	}
	return deserializeCoin(op, serialized)
}

// FetchCoin returns the coin created at the passed outpoint.  An Error with
// ErrCoinNotFound is returned when there is none.
func (s *CoinStore) FetchCoin(op *wire.OutPoint) (*wire.TxOut, error) {
	var coin *wire.TxOut
	err := s.view(func(snap Snapshot) error {
		var err error
		coin, err = fetchCoin(snap, op)
		return err
	})
	return coin, err
}

// FetchInputCoins returns the coins spent by every input of the passed
// transaction in input order, all read from the same snapshot.
func (s *CoinStore) FetchInputCoins(msgTx *wire.MsgTx) ([]*wire.TxOut, error) {
	coins := make([]*wire.TxOut, len(msgTx.TxIn))
	err := s.view(func(snap Snapshot) error {
		for i, txIn := range msgTx.TxIn {
			coin, err := fetchCoin(snap, &txIn.PreviousOutPoint)
			if err != nil {
				return err
			}
			coins[i] = coin
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return coins, nil
}

// ForEachCoin calls fn for every stored coin in outpoint order.  Iteration
// stops at the first error returned by fn, which is passed back.
func (s *CoinStore) ForEachCoin(fn func(op wire.OutPoint, coin *wire.TxOut) error) error {
	return s.view(func(snap Snapshot) error {
		iter := snap.NewIterator(BytesPrefix([]byte{coinKeyPrefix}))
		defer iter.Release()

		for iter.Next() {
			op, err := outPointFromKey(iter.Key())
			if err != nil {
				return err
			}
			coin, err := deserializeCoin(&op, iter.Value())
			if err != nil {
				return err
			}
			if err := fn(op, coin); err != nil {
				return err
			}
		}
		if err := iter.Error(); err != nil {
			return makeError(ErrDriverSpecific, "unable to iterate coins",
				err)
		}
		return nil
	})
}
