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
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/tinychain/tinychain/log"
	"github.com/tinychain/tinychain/metrics"
)

var OpenFileLimit = 64

// levelDB is the default on-disk Database backend, selected when data_dir
// is set.
type levelDB struct {
	fn string
	db *leveldb.DB

	getMeter metrics.Meter
	putMeter metrics.Meter

	log *log.Logger
}

func ldbOptions(cacheSizeMB, numHandles int) *opt.Options {
	return &opt.Options{
		OpenFilesCacheCapacity: numHandles,
		BlockCacheCapacity:     cacheSizeMB / 2 * opt.MiB,
		WriteBuffer:            cacheSizeMB / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	}
}

// NewLDBDatabase opens (or recovers) a leveldb database rooted at file.
func NewLDBDatabase(file string, cacheSizeMB, numHandles int) (*levelDB, error) {
	l := log.NewModuleLogger(log.ModuleStorage).New("database", file)

	if cacheSizeMB < 16 {
		cacheSizeMB = 16
	}
	if numHandles < 16 {
		numHandles = 16
	}

	db, err := leveldb.OpenFile(file, ldbOptions(cacheSizeMB, numHandles))
	if _, corrupted := err.(*errors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, err
	}
	return &levelDB{
		fn:       file,
		db:       db,
		log:      l,
		getMeter: metrics.NewRegisteredMeter("db/"+file+"/get", nil),
		putMeter: metrics.NewRegisteredMeter("db/"+file+"/put", nil),
	}, nil
}

func (db *levelDB) Put(key, value []byte) error {
	db.putMeter.Mark(1)
	return db.db.Put(key, value, nil)
}

func (db *levelDB) Has(key []byte) (bool, error) {
	return db.db.Has(key, nil)
}

func (db *levelDB) Get(key []byte) ([]byte, error) {
	db.getMeter.Mark(1)
	v, err := db.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrKeyNotFound
	}
	return v, err
}

func (db *levelDB) Delete(key []byte) error {
	return db.db.Delete(key, nil)
}

func (db *levelDB) NewIterator(prefix []byte) Iterator {
	return &ldbIterator{it: db.db.NewIterator(util.BytesPrefix(prefix), nil)}
}

func (db *levelDB) Close() {
	if err := db.db.Close(); err != nil {
		db.log.Error("failed to close leveldb", "err", err)
	} else {
		db.log.Info("database closed")
	}
}

func (db *levelDB) NewBatch() Batch {
	return &ldbBatch{db: db.db, b: new(leveldb.Batch)}
}

type ldbIterator struct {
	it interface {
		Next() bool
		Key() []byte
		Value() []byte
		Release()
	}
}

func (it *ldbIterator) Next() bool    { return it.it.Next() }
func (it *ldbIterator) Key() []byte   { return it.it.Key() }
func (it *ldbIterator) Value() []byte { return it.it.Value() }
func (it *ldbIterator) Release()      { it.it.Release() }

type ldbBatch struct {
	db   *leveldb.DB
	b    *leveldb.Batch
	size int
}

func (b *ldbBatch) Put(key, value []byte) error {
	b.b.Put(key, value)
	b.size += len(value)
	return nil
}

func (b *ldbBatch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *ldbBatch) Write() error {
	return b.db.Write(b.b, nil)
}

func (b *ldbBatch) ValueSize() int { return b.size }

func (b *ldbBatch) Reset() {
	b.b.Reset()
	b.size = 0
}
