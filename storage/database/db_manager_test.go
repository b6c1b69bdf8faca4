// Copyright 2024 The tinychain Authors
// This file is part of the tinychain library.
//
// The tinychain library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The tinychain library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the tinychain library. If not, see <http://www.gnu.org/licenses/>.

package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDBManagerKeyLayout(t *testing.T) {
	db, err := NewDBManager(MemoryDB, "", 0, 0)
	require.NoError(t, err)
	defer db.Close()

	require.Equal(t, []byte{'b', 0, 0, 0, 0, 0, 0, 1, 0}, db.BlockKey(256))
	require.Equal(t, []byte("a0xabc"), db.BalanceKey("0xabc"))
	require.Equal(t, []byte("n0xabc"), db.NonceKey("0xabc"))
}

// exerciseBackend drives the Database surface every backend shares:
// put/get/has/delete, batch atomicity, and prefix iteration.
func exerciseBackend(t *testing.T, db DBManager) {
	t.Helper()

	_, err := db.Get([]byte("missing"))
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, db.Put([]byte("k1"), []byte("v1")))
	got, err := db.Get([]byte("k1"))
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)

	has, err := db.Has([]byte("k1"))
	require.NoError(t, err)
	require.True(t, has)

	require.NoError(t, db.Delete([]byte("k1")))
	_, err = db.Get([]byte("k1"))
	require.ErrorIs(t, err, ErrKeyNotFound)

	batch := db.NewBatch()
	require.NoError(t, batch.Put(db.BalanceKey("0xaaa"), []byte("1")))
	require.NoError(t, batch.Put(db.BalanceKey("0xbbb"), []byte("2")))
	require.NoError(t, batch.Put(db.NonceKey("0xaaa"), []byte("3")))

	// Nothing from the batch is visible before Write.
	_, err = db.Get(db.BalanceKey("0xaaa"))
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, batch.Write())

	it := db.NewIterator(db.BalanceKey(""))
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	it.Release()
	require.Equal(t, []string{"a0xaaa", "a0xbbb"}, keys, "iteration stays inside the balance key space")
}

func TestMemoryBackend(t *testing.T) {
	db, err := NewDBManager(MemoryDB, "", 0, 0)
	require.NoError(t, err)
	defer db.Close()
	exerciseBackend(t, db)
}

func TestBadgerBackend(t *testing.T) {
	db, err := NewDBManager(Badger, t.TempDir(), 0, 0)
	require.NoError(t, err)
	defer db.Close()
	exerciseBackend(t, db)
}
