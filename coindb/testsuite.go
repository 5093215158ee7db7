// Copyright (c) 2022 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coindb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSuiteEngine runs the behaviour every Engine implementation must share
// against engines returned by newEngine.  Each call to newEngine must return a
// fresh empty engine.
func TestSuiteEngine(t *testing.T, newEngine func() Engine) {
	t.Run("TransactionSnapshot", func(t *testing.T) {
		engine := newEngine()
		defer engine.Close()

		tx, err := engine.Transaction()
		require.NoErrorf(t, err, "failed to create transaction")

		key := []byte("key1")
		value := []byte("value1")
		require.NoErrorf(t, tx.Put(key, value), "failed to put data")

		// Uncommitted writes are invisible.
		snapshot, err := engine.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		has, err := snapshot.Has(key)
		require.NoErrorf(t, err, "failed to check key in snapshot")
		require.Falsef(t, has, "expected key to not exist in snapshot")

		gotValue, err := snapshot.Get(key)
		require.Errorf(t, err, "expected error getting missing key")
		require.Nil(t, gotValue)

		require.NoErrorf(t, tx.Commit(), "failed to commit transaction")

		// The old snapshot still sees the state it was taken at.
		has, err = snapshot.Has(key)
		require.NoError(t, err)
		require.False(t, has)
		snapshot.Release()

		snapshot, err = engine.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		gotValue, err = snapshot.Get(key)
		require.NoErrorf(t, err, "failed to get value from snapshot")
		require.Equalf(t, value, gotValue, "snapshot value mismatch")
		snapshot.Release()

		// Deletes apply on commit as well.
		tx, err = engine.Transaction()
		require.NoError(t, err)
		require.NoError(t, tx.Delete(key))
		require.NoError(t, tx.Commit())

		snapshot, err = engine.Snapshot()
		require.NoError(t, err)
		has, err = snapshot.Has(key)
		require.NoError(t, err)
		require.False(t, has)
		snapshot.Release()
	})

	t.Run("TransactionIterator", func(t *testing.T) {
		kvs := map[string]string{
			"key1": "value1", "key2": "value2", "key3": "value3",
		}
		for _, test := range []struct {
			kvs       map[string]string
			ranges    *Range
			expectkvs [][2]string
		}{
			{
				kvs:       kvs,
				ranges:    &Range{Start: []byte("key0"), Limit: []byte("key1")},
				expectkvs: nil,
			},
			{
				kvs:       kvs,
				ranges:    &Range{Start: []byte("key0"), Limit: []byte("key2")},
				expectkvs: [][2]string{{"key1", "value1"}},
			},
			{
				kvs:       kvs,
				ranges:    &Range{Start: []byte("key1"), Limit: []byte("key3")},
				expectkvs: [][2]string{{"key1", "value1"}, {"key2", "value2"}},
			},
			{
				kvs:       kvs,
				ranges:    &Range{Start: []byte("key10"), Limit: []byte("key30")},
				expectkvs: [][2]string{{"key2", "value2"}, {"key3", "value3"}},
			},
			{
				kvs:       kvs,
				ranges:    &Range{Start: []byte("key2"), Limit: []byte("key2")},
				expectkvs: nil,
			},
			{
				kvs:    kvs,
				ranges: nil,
				expectkvs: [][2]string{
					{"key1", "value1"}, {"key2", "value2"},
					{"key3", "value3"},
				},
			},
			{
				kvs: map[string]string{
					"key10": "value10", "key11": "value11",
					"key20": "value20", "key21": "value21",
				},
				ranges:    BytesPrefix([]byte("key1")),
				expectkvs: [][2]string{{"key10", "value10"}, {"key11", "value11"}},
			},
		} {
			engine := newEngine()

			tx, err := engine.Transaction()
			require.NoErrorf(t, err, "failed to create transaction")
			for k, v := range test.kvs {
				err = tx.Put([]byte(k), []byte(v))
				require.NoErrorf(t, err, "failed to put data")
			}
			require.NoErrorf(t, tx.Commit(), "failed to commit transaction")

			snapshot, err := engine.Snapshot()
			require.NoErrorf(t, err, "failed to create snapshot")

			iter := snapshot.NewIterator(test.ranges)
			var idx int
			for iter.Next() {
				if idx >= len(test.expectkvs) {
					require.FailNowf(t, "unexpected key-value pair",
						"key: %s, value: %s", iter.Key(), iter.Value())
				}

				require.Equal(t, []byte(test.expectkvs[idx][0]), iter.Key())
				require.Equal(t, []byte(test.expectkvs[idx][1]), iter.Value())
				idx++
			}
			require.NoError(t, iter.Error())
			require.Equalf(t, len(test.expectkvs), idx, "pair count mismatch")

			// Seeking and rewinding land on the same pairs.
			if len(test.expectkvs) > 0 {
				require.True(t, iter.First())
				require.Equal(t, []byte(test.expectkvs[0][0]), iter.Key())

				last := test.expectkvs[len(test.expectkvs)-1]
				require.True(t, iter.Seek([]byte(last[0])))
				require.Equal(t, []byte(last[1]), iter.Value())
				require.False(t, iter.Next())
			}

			iter.Release()
			snapshot.Release()
			require.NoError(t, engine.Close())
		}
	})

	t.Run("DbClose", func(t *testing.T) {
		engine := newEngine()

		transaction, err := engine.Transaction()
		require.NoErrorf(t, err, "failed to create transaction")

		transaction.Discard()
		transaction.Discard()
		err = transaction.Commit()
		require.Errorf(t, err, "expected error committing discarded transaction")

		snapshot, err := engine.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		iterator := snapshot.NewIterator(&Range{})
		require.NoErrorf(t, iterator.Error(), "failed to create iterator")
		iterator.Release()
		iterator.Release()

		snapshot.Release()
		snapshot.Release()
		_, err = snapshot.Get([]byte("key"))
		require.Errorf(t, err, "expected error reading released snapshot")

		require.NoErrorf(t, engine.Close(), "failed to close engine")
		require.Errorf(t, engine.Close(), "expected error closing twice")

		_, err = engine.Transaction()
		require.Errorf(t, err, "expected error opening transaction on closed engine")

		_, err = engine.Snapshot()
		require.Errorf(t, err, "expected error opening snapshot on closed engine")
	})
}
