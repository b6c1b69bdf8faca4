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
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger"

	"github.com/tinychain/tinychain/log"
)

const gcThreshold = int64(1 << 30) // GB
const sizeGCTickerTime = 1 * time.Minute

// badgerDB is the alternate on-disk backend. A background goroutine runs
// value-log GC once growth since open or the last successful GC exceeds
// gcThreshold.
type badgerDB struct {
	fn string
	db *badger.DB

	gcTicker *time.Ticker

	log *log.Logger
}

func getBadgerDBDefaultOption(dbDir string) badger.Options {
	return badger.DefaultOptions(dbDir)
}

// NewBadgerDB opens (creating if necessary) a badger database rooted at dbDir.
func NewBadgerDB(dbDir string) (*badgerDB, error) {
	l := log.NewModuleLogger(log.ModuleStorage).New("database", dbDir)

	if fi, err := os.Stat(dbDir); err == nil {
		if !fi.IsDir() {
			return nil, fmt.Errorf("badgerDB: %s is not a directory", dbDir)
		}
	} else if os.IsNotExist(err) {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("badgerDB: failed to create %s: %v", dbDir, err)
		}
	} else {
		return nil, fmt.Errorf("badgerDB: failed to stat %s: %v", dbDir, err)
	}

	db, err := badger.Open(getBadgerDBDefaultOption(dbDir))
	if err != nil {
		return nil, fmt.Errorf("badgerDB: failed to open %s: %v", dbDir, err)
	}

	bg := &badgerDB{
		fn:       dbDir,
		db:       db,
		log:      l,
		gcTicker: time.NewTicker(sizeGCTickerTime),
	}
	go bg.runValueLogGC()
	return bg, nil
}

// runValueLogGC checks the size every sizeGCTickerTime and reclaims
// value-log space once growth since open or the last successful GC exceeds
// gcThreshold.
func (bg *badgerDB) runValueLogGC() {
	_, lastSize := bg.db.Size()
	for range bg.gcTicker.C {
		_, currSize := bg.db.Size()
		if currSize-lastSize < gcThreshold {
			continue
		}
		if err := bg.db.RunValueLogGC(0.5); err != nil {
			bg.log.Error("value log gc failed", "err", err)
			continue
		}
		_, lastSize = bg.db.Size()
	}
}

func (bg *badgerDB) Put(key, value []byte) error {
	txn := bg.db.NewTransaction(true)
	defer txn.Discard()
	if err := txn.Set(key, value); err != nil {
		return err
	}
	return txn.Commit()
}

func (bg *badgerDB) Has(key []byte) (bool, error) {
	txn := bg.db.NewTransaction(false)
	defer txn.Discard()
	_, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	return err == nil, nil
}

func (bg *badgerDB) Get(key []byte) ([]byte, error) {
	txn := bg.db.NewTransaction(false)
	defer txn.Discard()
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (bg *badgerDB) Delete(key []byte) error {
	txn := bg.db.NewTransaction(true)
	defer txn.Discard()
	if err := txn.Delete(key); err != nil {
		return err
	}
	return txn.Commit()
}

func (bg *badgerDB) NewIterator(prefix []byte) Iterator {
	txn := bg.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	it.Seek(prefix)
	return &badgerIterator{txn: txn, it: it, prefix: prefix, started: false}
}

func (bg *badgerDB) Close() {
	bg.gcTicker.Stop()
	if err := bg.db.Close(); err != nil {
		bg.log.Error("failed to close badger db", "err", err)
	} else {
		bg.log.Info("database closed")
	}
}

func (bg *badgerDB) NewBatch() Batch {
	return &badgerBatch{db: bg.db, txn: bg.db.NewTransaction(true)}
}

type badgerIterator struct {
	txn     *badger.Txn
	it      *badger.Iterator
	prefix  []byte
	started bool
}

func (it *badgerIterator) Next() bool {
	if !it.started {
		it.started = true
	} else {
		it.it.Next()
	}
	return it.it.ValidForPrefix(it.prefix)
}

func (it *badgerIterator) Key() []byte {
	return it.it.Item().KeyCopy(nil)
}

func (it *badgerIterator) Value() []byte {
	v, err := it.it.Item().ValueCopy(nil)
	if err != nil {
		return nil
	}
	return v
}

func (it *badgerIterator) Release() {
	it.it.Close()
	it.txn.Discard()
}

type badgerBatch struct {
	db   *badger.DB
	txn  *badger.Txn
	size int
}

func (b *badgerBatch) Put(key, value []byte) error {
	if err := b.txn.Set(key, value); err != nil {
		return err
	}
	b.size += len(value)
	return nil
}

func (b *badgerBatch) Delete(key []byte) error {
	return b.txn.Delete(key)
}

func (b *badgerBatch) Write() error {
	return b.txn.Commit()
}

func (b *badgerBatch) ValueSize() int { return b.size }

func (b *badgerBatch) Reset() {
	b.txn = b.db.NewTransaction(true)
	b.size = 0
}
