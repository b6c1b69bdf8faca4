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
	"encoding/binary"
)

// Key-space prefixes: every logical table lives inside one physical
// Database under its own prefix.
var (
	blockPrefix   = []byte("b") // blockPrefix + 8-byte big-endian number -> block bytes
	balancePrefix = []byte("a") // balancePrefix + address -> big-endian uint64 balance
	noncePrefix   = []byte("n") // noncePrefix + address -> big-endian uint64 next nonce
)

// DBType selects the on-disk backend a DBManager opens.
type DBType int

const (
	MemoryDB DBType = iota
	LevelDB
	Badger
)

// DBManager is the single physical store backing the ledger's three logical
// key spaces (blocks, balances, nonces). blockchain.Ledger never builds raw
// keys itself; it goes through the key-builders here so the on-disk layout
// lives in one place.
type DBManager interface {
	Database

	BlockKey(number uint64) []byte
	BalanceKey(addr string) []byte
	NonceKey(addr string) []byte
}

type dbManager struct {
	Database
}

// NewDBManager opens a DBManager over dbType rooted at dir. An empty dir
// (or dbType == MemoryDB) yields an ephemeral in-memory store.
func NewDBManager(dbType DBType, dir string, cacheSizeMB, handles int) (DBManager, error) {
	if dir == "" {
		dbType = MemoryDB
	}
	switch dbType {
	case LevelDB:
		db, err := NewLDBDatabase(dir, cacheSizeMB, handles)
		if err != nil {
			return nil, err
		}
		return &dbManager{Database: db}, nil
	case Badger:
		db, err := NewBadgerDB(dir)
		if err != nil {
			return nil, err
		}
		return &dbManager{Database: db}, nil
	default:
		return &dbManager{Database: NewMemDatabase()}, nil
	}
}

func (m *dbManager) BlockKey(number uint64) []byte {
	key := make([]byte, len(blockPrefix)+8)
	copy(key, blockPrefix)
	binary.BigEndian.PutUint64(key[len(blockPrefix):], number)
	return key
}

func (m *dbManager) BalanceKey(addr string) []byte {
	return append(append([]byte{}, balancePrefix...), addr...)
}

func (m *dbManager) NonceKey(addr string) []byte {
	return append(append([]byte{}, noncePrefix...), addr...)
}
