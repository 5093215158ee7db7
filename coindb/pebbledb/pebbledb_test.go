// Copyright (c) 2022 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pebbledb

import (
	"path/filepath"
	"testing"

	"github.com/cashsuite/bchscript/coindb"
	"github.com/stretchr/testify/require"
)

func TestSuitePebbleDB(t *testing.T) {
	coindb.TestSuiteEngine(t, func() coindb.Engine {
		dbPath := filepath.Join(t.TempDir(), "pebbledb-testsuite")

		db, err := NewDB(dbPath, true, 0, 0)
		require.NoErrorf(t, err, "failed to create pebbledb")
		return db
	})
}

// TestIteratorReleased ensures a released iterator stops moving and reports
// the release.
func TestIteratorReleased(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "pebbledb"), true, 0, 0)
	require.NoError(t, err)
	defer db.Close()

	tx, err := db.Transaction()
	require.NoError(t, err)
	require.NoError(t, tx.Put([]byte("a"), []byte("1")))
	require.NoError(t, tx.Commit())
	require.ErrorIs(t, tx.Commit(), ErrTxClosed)

	snap, err := db.Snapshot()
	require.NoError(t, err)
	defer snap.Release()

	iter := snap.NewIterator(nil)
	require.True(t, iter.Next())
	require.Equal(t, []byte("a"), iter.Key())
	iter.Release()
	require.False(t, iter.Next())
	require.Nil(t, iter.Key())
	require.ErrorIs(t, iter.Error(), ErrIteratorReleased)
}
