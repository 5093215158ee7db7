// Copyright (c) 2022 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package leveldb provides a coindb.Engine backed by goleveldb.
package leveldb

import (
	"github.com/cashsuite/bchscript/coindb"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// NewDB opens the database at dbPath.  When create is set the database must
// not exist yet.
func NewDB(dbPath string, create bool) (coindb.Engine, error) {
	opts := opt.Options{
		ErrorIfExist: create,
		Strict:       opt.DefaultStrict,
		Compression:  opt.NoCompression,
		Filter:       filter.NewBloomFilter(10),
	}
	ldb, err := leveldb.OpenFile(dbPath, &opts)
	if err != nil {
		return nil, err
	}
	return &DB{ldb: ldb}, nil
}

// DB wraps a goleveldb database.
type DB struct {
	ldb *leveldb.DB
}

// Transaction starts a goleveldb transaction.  Only one transaction may be
// open at a time, a second call blocks until the first is committed or
// discarded.
func (d *DB) Transaction() (coindb.Transaction, error) {
	tx, err := d.ldb.OpenTransaction()
	if err != nil {
		return nil, err
	}
	return &transaction{tx: tx}, nil
}

// Snapshot returns a goleveldb snapshot of the committed state.
func (d *DB) Snapshot() (coindb.Snapshot, error) {
	snap, err := d.ldb.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return &snapshot{snap: snap}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.ldb.Close()
}

type transaction struct {
	tx *leveldb.Transaction
}

func (t *transaction) Put(key, value []byte) error {
	return t.tx.Put(key, value, nil)
}

func (t *transaction) Delete(key []byte) error {
	return t.tx.Delete(key, nil)
}

func (t *transaction) Commit() error {
	return t.tx.Commit()
}

func (t *transaction) Discard() {
	t.tx.Discard()
}

type snapshot struct {
	snap *leveldb.Snapshot
}

func (s *snapshot) Get(key []byte) ([]byte, error) {
	return s.snap.Get(key, nil)
}

func (s *snapshot) Has(key []byte) (bool, error) {
	return s.snap.Has(key, nil)
}

// NewIterator returns a goleveldb iterator, which already satisfies
// coindb.Iterator.  A nil range covers the whole database.
func (s *snapshot) NewIterator(r *coindb.Range) coindb.Iterator {
	var slice *util.Range
	if r != nil {
		slice = &util.Range{Start: r.Start, Limit: r.Limit}
	}
	return s.snap.NewIterator(slice, nil)
}

func (s *snapshot) Release() {
	s.snap.Release()
}
