// Copyright (c) 2022 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package coindb stores the unspent transaction outputs needed to verify the
scripts of transactions.

The store sits on a small key/value Engine abstraction with atomic write
batches and point in time snapshots.  The leveldb and pebbledb sub packages
provide engines backed by goleveldb and pebble.

Coins are keyed by outpoint so the outputs of a transaction sort by index, and
are stored in their consensus encoding, token payload included.
*/
package coindb
