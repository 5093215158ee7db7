// Copyright (c) 2022 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pebbledb provides a coindb.Engine backed by pebble.
package pebbledb

import (
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/cashsuite/bchscript/coindb"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
)

var (
	ErrDbClosed         = errors.New("pebbledb: closed")
	ErrTxClosed         = errors.New("pebbledb: transaction already closed")
	ErrSnapshotReleased = errors.New("pebbledb: snapshot released")
	ErrIteratorReleased = errors.New("pebbledb: iterator released")
)

const (
	// DefaultCache is the block cache size in MiB used when none is given.
	DefaultCache = 64

	// DefaultHandles is the number of open files used when none is given.
	DefaultHandles = 16
)

// NewDB opens the database at dbPath with a block cache of cache MiB and at
// most handles open files.  When create is set the database must not exist
// yet.
func NewDB(dbPath string, create bool, cache, handles int) (coindb.Engine, error) {
	if cache <= 0 {
		cache = DefaultCache
	}
	if handles <= 0 {
		handles = DefaultHandles
	}

	// Coin keys are looked up one at a time, so every level carries a
	// bloom filter.
	levels := make([]pebble.LevelOptions, 7)
	for i := range levels {
		levels[i] = pebble.LevelOptions{
			TargetFileSize: int64(2<<i) * 1024 * 1024,
			FilterPolicy:   bloom.FilterPolicy(10),
		}
	}

	pcache := pebble.NewCache(int64(cache) * 1024 * 1024)
	defer pcache.Unref()

	opts := &pebble.Options{
		Cache:                    pcache,
		ErrorIfExists:            create,
		MaxOpenFiles:             handles,
		MaxConcurrentCompactions: runtime.NumCPU,
		Levels:                   levels,
	}
	opts.Experimental.ReadSamplingMultiplier = -1
	pdb, err := pebble.Open(dbPath, opts)
	if err != nil {
		return nil, err
	}

	return &DB{pdb: pdb}, nil
}

// DB wraps a pebble database.
type DB struct {
	pdb    *pebble.DB
	closed atomic.Bool
}

// Transaction starts a new pebble batch.
func (d *DB) Transaction() (coindb.Transaction, error) {
	if d.closed.Load() {
		return nil, ErrDbClosed
	}
	return &transaction{batch: d.pdb.NewBatch()}, nil
}

// Snapshot returns a pebble snapshot of the committed state.
func (d *DB) Snapshot() (coindb.Snapshot, error) {
	if d.closed.Load() {
		return nil, ErrDbClosed
	}
	return &snapshot{snap: d.pdb.NewSnapshot()}, nil
}

// Close closes the database.  It fails when the database is already closed.
func (d *DB) Close() error {
	if d.closed.Swap(true) {
		return ErrDbClosed
	}
	return d.pdb.Close()
}

type transaction struct {
	batch    *pebble.Batch
	released bool
}

func (t *transaction) Put(key, value []byte) error {
	if t.released {
		return ErrTxClosed
	}
	return t.batch.Set(key, value, pebble.NoSync)
}

func (t *transaction) Delete(key []byte) error {
	if t.released {
		return ErrTxClosed
	}
	return t.batch.Delete(key, pebble.NoSync)
}

func (t *transaction) Commit() error {
	if t.released {
		return ErrTxClosed
	}
	err := t.batch.Commit(pebble.Sync)
	t.Discard()
	return err
}

func (t *transaction) Discard() {
	if !t.released {
		t.released = true
		t.batch.Close()
	}
}

type snapshot struct {
	snap     *pebble.Snapshot
	released bool
}

// Get returns a copy of the value stored for key since the memory pebble
// hands out is only valid until the closer is called.
func (s *snapshot) Get(key []byte) ([]byte, error) {
	if s.released {
		return nil, ErrSnapshotReleased
	}

	val, closer, err := s.snap.Get(key)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return append([]byte(nil), val...), nil
}

func (s *snapshot) Has(key []byte) (bool, error) {
	if s.released {
		return false, ErrSnapshotReleased
	}

	_, closer, err := s.snap.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	closer.Close()
	return true, nil
}

// NewIterator returns an iterator over the passed range.  A nil range covers
// the whole database.  The iterator of a released snapshot reports
// ErrSnapshotReleased.
func (s *snapshot) NewIterator(r *coindb.Range) coindb.Iterator {
	if s.released {
		return &iterator{released: true, err: ErrSnapshotReleased}
	}

	var opts pebble.IterOptions
	if r != nil {
		opts.LowerBound = r.Start
		opts.UpperBound = r.Limit
	}
	iter, err := s.snap.NewIter(&opts)
	if err != nil {
		return &iterator{released: true, err: err}
	}
	return &iterator{iter: iter}
}

func (s *snapshot) Release() {
	if !s.released {
		s.released = true
		s.snap.Close()
	}
}
