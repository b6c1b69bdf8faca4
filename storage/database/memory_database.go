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
	"bytes"
	"sort"
	"sync"
)

// MemDatabase is an in-memory Database, used for an ephemeral node
// (data_dir == "") and throughout the tests.
type MemDatabase struct {
	mu sync.RWMutex
	kv map[string][]byte
}

func NewMemDatabase() *MemDatabase {
	return &MemDatabase{kv: make(map[string][]byte)}
}

func (db *MemDatabase) Put(key, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	db.kv[string(key)] = cp
	return nil
}

func (db *MemDatabase) Get(key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	v, ok := db.kv[string(key)]
	if !ok {
		return nil, ErrKeyNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (db *MemDatabase) Has(key []byte) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.kv[string(key)]
	return ok, nil
}

func (db *MemDatabase) Delete(key []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.kv, string(key))
	return nil
}

func (db *MemDatabase) Close() {}

func (db *MemDatabase) NewBatch() Batch {
	return &memBatch{db: db}
}

func (db *MemDatabase) NewIterator(prefix []byte) Iterator {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var keys []string
	for k := range db.kv {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = db.kv[k]
	}
	return &memIterator{keys: keys, values: values, idx: -1}
}

type memKV struct {
	key   []byte
	value []byte
	del   bool
}

type memBatch struct {
	db   *MemDatabase
	ops  []memKV
	size int
}

func (b *memBatch) Put(key, value []byte) error {
	b.ops = append(b.ops, memKV{key: append([]byte(nil), key...), value: append([]byte(nil), value...)})
	b.size += len(value)
	return nil
}

func (b *memBatch) Delete(key []byte) error {
	b.ops = append(b.ops, memKV{key: append([]byte(nil), key...), del: true})
	return nil
}

func (b *memBatch) Write() error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	for _, op := range b.ops {
		if op.del {
			delete(b.db.kv, string(op.key))
		} else {
			b.db.kv[string(op.key)] = op.value
		}
	}
	return nil
}

func (b *memBatch) ValueSize() int { return b.size }

func (b *memBatch) Reset() {
	b.ops = b.ops[:0]
	b.size = 0
}

type memIterator struct {
	keys   []string
	values [][]byte
	idx    int
}

func (it *memIterator) Next() bool {
	it.idx++
	return it.idx < len(it.keys)
}

func (it *memIterator) Key() []byte   { return []byte(it.keys[it.idx]) }
func (it *memIterator) Value() []byte { return it.values[it.idx] }
func (it *memIterator) Release()      {}
