// Copyright (c) 2022 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pebbledb

import "github.com/cockroachdb/pebble"

// iterator adapts a pebble iterator to coindb.Iterator.  A pebble iterator
// has no position before the first pair, so the first call to Next moves to
// the first pair instead.
type iterator struct {
	iter       *pebble.Iterator
	positioned bool
	released   bool
	err        error
}

func (i *iterator) First() bool {
	if i.released {
		return false
	}
	i.positioned = true
	return i.iter.First()
}

func (i *iterator) Seek(key []byte) bool {
	if i.released {
		return false
	}
	i.positioned = true
	return i.iter.SeekGE(key)
}

func (i *iterator) Next() bool {
	if i.released {
		return false
	}
	if !i.positioned {
		return i.First()
	}
	return i.iter.Next()
}

func (i *iterator) Key() []byte {
	if i.released || !i.positioned || !i.iter.Valid() {
		return nil
	}
	return i.iter.Key()
}

func (i *iterator) Value() []byte {
	if i.released || !i.positioned || !i.iter.Valid() {
		return nil
	}
	return i.iter.Value()
}

func (i *iterator) Error() error {
	if i.err != nil {
		return i.err
	}
	if i.released {
		return ErrIteratorReleased
	}
	return i.iter.Error()
}

func (i *iterator) Release() {
	if !i.released {
		i.released = true
		i.iter.Close()
	}
}
