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

package common

import (
	"errors"

	lru "github.com/hashicorp/golang-lru"
)

// CacheKey is implemented by every type usable as a Cache key. The shard
// index keeps keys of one account or hash spread across shard locks.
type CacheKey interface {
	getShardIndex(shardMask int) int
}

// Cache is a bounded in-memory cache keyed by CacheKey. The ledger keeps
// hot account balances in one; entries always hold committed values only.
type Cache interface {
	Add(key CacheKey, value interface{}) (evicted bool)
	Get(key CacheKey) (value interface{}, ok bool)
	Contains(key CacheKey) bool
	Purge()
}

// CacheConfiger selects and sizes a Cache implementation.
type CacheConfiger interface {
	newCache() (Cache, error)
}

// NewCache builds a cache from config.
func NewCache(config CacheConfiger) (Cache, error) {
	if config == nil {
		return nil, errors.New("common: cache config is nil")
	}
	return config.newCache()
}

// LRUConfig sizes a plain, single-lock LRU cache.
type LRUConfig struct {
	CacheSize int
}

func (c LRUConfig) newCache() (Cache, error) {
	inner, err := lru.New(c.CacheSize)
	if err != nil {
		return nil, err
	}
	return &lruCache{inner}, nil
}

type lruCache struct {
	lru *lru.Cache
}

func (c *lruCache) Add(key CacheKey, value interface{}) bool {
	return c.lru.Add(key, value)
}

func (c *lruCache) Get(key CacheKey) (interface{}, bool) {
	return c.lru.Get(key)
}

func (c *lruCache) Contains(key CacheKey) bool {
	return c.lru.Contains(key)
}

func (c *lruCache) Purge() {
	c.lru.Purge()
}

// ARCConfig sizes an adaptive replacement cache, which resists scan
// pollution better than a plain LRU at the cost of extra bookkeeping.
type ARCConfig struct {
	CacheSize int
}

func (c ARCConfig) newCache() (Cache, error) {
	inner, err := lru.NewARC(c.CacheSize)
	if err != nil {
		return nil, err
	}
	return &arcCache{inner}, nil
}

type arcCache struct {
	arc *lru.ARCCache
}

func (c *arcCache) Add(key CacheKey, value interface{}) bool {
	c.arc.Add(key, value)
	return false
}

func (c *arcCache) Get(key CacheKey) (interface{}, bool) {
	return c.arc.Get(key)
}

func (c *arcCache) Contains(key CacheKey) bool {
	return c.arc.Contains(key)
}

func (c *arcCache) Purge() {
	c.arc.Purge()
}

// LRUShardConfig sizes a lock-striped LRU cache: NumShards independent LRU
// caches selected by the key's shard index, so concurrent readers of
// different accounts do not contend on one lock. NumShards is rounded down
// to a power of two; each shard receives an equal slice of CacheSize.
type LRUShardConfig struct {
	CacheSize int
	NumShards int
}

const minNumShards = 2

func (c LRUShardConfig) newCache() (Cache, error) {
	if c.CacheSize < minNumShards {
		return nil, errors.New("common: shard cache size must cover at least one entry per shard")
	}
	numShards := powOf2Floor(c.NumShards)
	if numShards < minNumShards {
		numShards = minNumShards
	}
	if numShards > c.CacheSize {
		numShards = minNumShards
	}

	shard := &lruShardCache{
		shards:    make([]*lru.Cache, numShards),
		shardMask: numShards - 1,
	}
	perShard := c.CacheSize / numShards
	for i := range shard.shards {
		inner, err := lru.New(perShard)
		if err != nil {
			return nil, err
		}
		shard.shards[i] = inner
	}
	return shard, nil
}

type lruShardCache struct {
	shards    []*lru.Cache
	shardMask int
}

func (c *lruShardCache) Add(key CacheKey, value interface{}) bool {
	return c.shards[key.getShardIndex(c.shardMask)].Add(key, value)
}

func (c *lruShardCache) Get(key CacheKey) (interface{}, bool) {
	return c.shards[key.getShardIndex(c.shardMask)].Get(key)
}

func (c *lruShardCache) Contains(key CacheKey) bool {
	return c.shards[key.getShardIndex(c.shardMask)].Contains(key)
}

func (c *lruShardCache) Purge() {
	for _, s := range c.shards {
		s.Purge()
	}
}

func powOf2Floor(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
