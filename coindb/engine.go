// Copyright (c) 2022 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coindb

// Engine is a key/value store able to apply atomic batches of writes and to
// serve consistent point in time reads.
type Engine interface {
	// Transaction starts a new batch of writes which is applied
	// atomically by Commit.
	Transaction() (Transaction, error)

	// Snapshot returns a read only view of the committed state.
	Snapshot() (Snapshot, error)

	// Close releases the resources of the engine.  Closing an engine
	// twice is an error.
	Close() error
}

// Transaction is a batch of writes.  Discard may be called any number of
// times and makes a later Commit fail.
type Transaction interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
	Discard()
}

// Snapshot is a consistent read only view of an engine.  Get returns an error
// for a missing key.
type Snapshot interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	NewIterator(*Range) Iterator
	Releaser
}

// Releaser is implemented by the resources which must be released after use.
// Release may be called any number of times.
type Releaser interface {
	Release()
}

// Iterator walks the key/value pairs of a range in key order.  A fresh
// iterator is positioned before the first pair.
type Iterator interface {
	// First moves the iterator to the first key/value pair.  It returns
	// whether such pair exist.
	First() bool

	// Seek moves the iterator to the first key/value pair whose key is
	// greater than or equal to the given key.  It returns whether such
	// pair exist.
	Seek(key []byte) bool

	// Next moves the iterator to the next key/value pair.  It returns
	// false if the iterator is exhausted.
	Next() bool

	// Error returns any accumulated error.  Exhausting all the key/value
	// pairs is not considered to be an error.
	Error() error

	// Key returns the key of the current key/value pair, or nil if done.
	// The contents of the returned slice may change on the next call to
	// any method moving the iterator.
	Key() []byte

	// Value returns the value of the current key/value pair, or nil if
	// done.  The same restrictions as Key apply.
	Value() []byte

	Releaser
}

// Range is a key range.
type Range struct {
	// Start of the key range, include in the range.
	Start []byte

	// Limit of the key range, not include in the range.
	Limit []byte
}

// BytesPrefix returns key range that satisfy the given prefix.
func BytesPrefix(prefix []byte) *Range {
	var limit []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		c := prefix[i]
		if c < 0xff {
			limit = make([]byte, i+1)
			copy(limit, prefix)
			limit[i] = c + 1
			break
		}
	}
	return &Range{prefix, limit}
}
