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

package blockchain

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"

	"github.com/pkg/errors"

	"github.com/tinychain/tinychain/common"
	"github.com/tinychain/tinychain/log"
	"github.com/tinychain/tinychain/metrics"
	"github.com/tinychain/tinychain/storage/database"
	"github.com/tinychain/tinychain/wallet"
)

var logger = log.NewModuleLogger(log.ModuleBlockchain)

var (
	blockCommitMeter = metrics.NewRegisteredMeter("blockchain/commit", nil)
	blockRejectMeter = metrics.NewRegisteredMeter("blockchain/reject", nil)
)

// balanceCacheSize bounds the hot-account balance cache.
const balanceCacheSize = 4096

// Ledger is the account-balance store: a single serialized commit path and
// lock-free snapshot reads over three flat key spaces (blocks, balances,
// account nonces).
type Ledger struct {
	db        database.DBManager
	mu        sync.Mutex // serializes block commits
	height    uint64
	hasBlocks bool
	tipHash   common.Hash

	balanceCache common.Cache

	difficulty int
}

// NewLedger opens a Ledger over db with the given PoW difficulty (count of
// required leading zero bytes in a valid block hash).
func NewLedger(db database.DBManager, difficulty int) (*Ledger, error) {
	cache, err := common.NewCache(common.LRUShardConfig{CacheSize: balanceCacheSize, NumShards: 16})
	if err != nil {
		return nil, err
	}
	l := &Ledger{db: db, difficulty: difficulty, balanceCache: cache}
	if err := l.recoverTip(); err != nil {
		return nil, err
	}
	return l, nil
}

// recoverTip scans forward from height 0 to find the chain's current tip,
// used on startup to pick back up after a restart.
func (l *Ledger) recoverTip() error {
	var n uint64
	for {
		raw, err := l.db.Get(l.db.BlockKey(n))
		if err == database.ErrKeyNotFound {
			break
		}
		if err != nil {
			return err
		}
		b, err := UnmarshalBlock(raw)
		if err != nil {
			return err
		}
		hash, err := b.Hash()
		if err != nil {
			return err
		}
		l.hasBlocks = true
		l.height = n + 1
		l.tipHash = hash
		n++
	}
	return nil
}

// ApplyGenesis credits the balances in genesis once, only when the ledger
// holds no blocks yet. Restarts of an already-bootstrapped node are a no-op.
func (l *Ledger) ApplyGenesis(balances map[common.Address]uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.hasBlocks {
		return nil
	}
	batch := l.db.NewBatch()
	for addr, bal := range balances {
		if err := batch.Put(l.db.BalanceKey(string(addr)), encodeUint64(bal)); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	for addr, bal := range balances {
		l.balanceCache.Add(addr, bal)
	}
	return nil
}

// BlockHeight returns the count of committed blocks.
func (l *Ledger) BlockHeight() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height
}

// LastBlock returns the chain tip, or ok=false for an empty chain.
func (l *Ledger) LastBlock() (Block, bool, error) {
	l.mu.Lock()
	height, has := l.height, l.hasBlocks
	l.mu.Unlock()
	if !has {
		return Block{}, false, nil
	}
	b, err := l.GetBlock(height - 1)
	if err != nil {
		return Block{}, false, err
	}
	return b, true, nil
}

// NextAccountNonce returns addr's expected next nonce.
func (l *Ledger) NextAccountNonce(addr common.Address) (uint64, error) {
	raw, err := l.db.Get(l.db.NonceKey(string(addr)))
	if err == database.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return decodeUint64(raw), nil
}

// GetBalance returns addr's balance, zero if the account has never been
// credited. Hot accounts are served from the balance cache, which only ever
// holds committed values.
func (l *Ledger) GetBalance(addr common.Address) (uint64, error) {
	if v, ok := l.balanceCache.Get(addr); ok {
		return v.(uint64), nil
	}
	raw, err := l.db.Get(l.db.BalanceKey(string(addr)))
	if err == database.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	bal := decodeUint64(raw)
	l.balanceCache.Add(addr, bal)
	return bal, nil
}

// GetBalances returns a snapshot of every known account's balance. It walks
// the balance key space lock-free; it may race a concurrent commit touching
// a not-yet-seen key, but never observes a partial write to any single key.
func (l *Ledger) GetBalances() (map[common.Address]uint64, error) {
	out := make(map[common.Address]uint64)
	prefix := l.db.BalanceKey("")
	it := l.db.NewIterator(prefix)
	defer it.Release()
	for it.Next() {
		addr := common.Address(bytesAfterPrefix(it.Key(), prefix))
		out[addr] = decodeUint64(it.Value())
	}
	return out, nil
}

// GetBlock returns the block committed at number, or ErrBlockNotFound.
func (l *Ledger) GetBlock(number uint64) (Block, error) {
	raw, err := l.db.Get(l.db.BlockKey(number))
	if err == database.ErrKeyNotFound {
		return Block{}, ErrBlockNotFound
	}
	if err != nil {
		return Block{}, err
	}
	return UnmarshalBlock(raw)
}

// GetBlocks returns the contiguous run of committed blocks starting at
// fromNumber, empty if fromNumber is at or beyond the current height.
func (l *Ledger) GetBlocks(fromNumber uint64) ([]Block, error) {
	height := l.BlockHeight()
	var blocks []Block
	for n := fromNumber; n < height; n++ {
		b, err := l.GetBlock(n)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// AddBlock validates and atomically commits b: header checks, then per-tx
// balance/nonce application in slice order, then author credit, then the
// block index write. All writes go through one Batch so a validation
// failure after partial in-memory bookkeeping never reaches storage.
func (l *Ledger) AddBlock(b Block) (common.Hash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.validateHeader(b.Header); err != nil {
		blockRejectMeter.Mark(1)
		return common.ZeroHash, err
	}

	hash, err := b.Hash()
	if err != nil {
		return common.ZeroHash, err
	}
	if !SatisfiesDifficulty(hash, l.difficulty) {
		blockRejectMeter.Mark(1)
		return common.ZeroHash, ErrInvalidBlockHash
	}

	batch := l.db.NewBatch()
	balances := make(map[common.Address]uint64)
	nonces := make(map[common.Address]uint64)

	getBalance := func(addr common.Address) (uint64, error) {
		if v, ok := balances[addr]; ok {
			return v, nil
		}
		v, err := l.GetBalance(addr)
		if err != nil {
			return 0, err
		}
		balances[addr] = v
		return v, nil
	}
	getNonce := func(addr common.Address) (uint64, error) {
		if v, ok := nonces[addr]; ok {
			return v, nil
		}
		v, err := l.NextAccountNonce(addr)
		if err != nil {
			return 0, err
		}
		nonces[addr] = v
		return v, nil
	}

	var reward uint64
	for _, stx := range b.Txs {
		if err := validateTx(stx); err != nil {
			blockRejectMeter.Mark(1)
			return common.ZeroHash, err
		}
		tx := stx.Tx

		expected, err := getNonce(tx.From)
		if err != nil {
			return common.ZeroHash, err
		}
		if tx.Nonce != expected {
			blockRejectMeter.Mark(1)
			return common.ZeroHash, &InvalidNonceError{Addr: tx.From, Expected: expected, Got: tx.Nonce}
		}

		fromBal, err := getBalance(tx.From)
		if err != nil {
			return common.ZeroHash, err
		}
		cost := tx.Value + tx.GasCost()
		if fromBal < cost {
			blockRejectMeter.Mark(1)
			return common.ZeroHash, &InsufficientFundsError{Addr: tx.From, Have: fromBal, Need: cost}
		}

		// Debit the sender before reading the recipient so a self-transfer
		// nets to -gas_cost.
		balances[tx.From] = fromBal - cost

		toBal, err := getBalance(tx.To)
		if err != nil {
			return common.ZeroHash, err
		}
		if toBal > math.MaxUint64-tx.Value {
			blockRejectMeter.Mark(1)
			return common.ZeroHash, &BalanceOverflowError{Addr: tx.To, Have: toBal, Add: tx.Value}
		}

		balances[tx.To] = toBal + tx.Value
		nonces[tx.From] = expected + 1
		reward += tx.GasCost()
	}

	if reward > 0 {
		authorBal, err := getBalance(b.Header.Author)
		if err != nil {
			return common.ZeroHash, err
		}
		balances[b.Header.Author] = authorBal + reward
	}

	for addr, bal := range balances {
		if err := batch.Put(l.db.BalanceKey(string(addr)), encodeUint64(bal)); err != nil {
			return common.ZeroHash, err
		}
	}
	for addr, n := range nonces {
		if err := batch.Put(l.db.NonceKey(string(addr)), encodeUint64(n)); err != nil {
			return common.ZeroHash, err
		}
	}
	blockBytes, err := b.Marshal()
	if err != nil {
		return common.ZeroHash, err
	}
	if err := batch.Put(l.db.BlockKey(b.Header.Number), blockBytes); err != nil {
		return common.ZeroHash, err
	}

	if err := batch.Write(); err != nil {
		return common.ZeroHash, errors.Wrap(err, "blockchain: block commit write failed")
	}

	for addr, bal := range balances {
		l.balanceCache.Add(addr, bal)
	}
	l.height = b.Header.Number + 1
	l.hasBlocks = true
	l.tipHash = hash
	blockCommitMeter.Mark(1)
	logger.Info("block committed", "number", b.Header.Number, "hash", hash, "txs", len(b.Txs))
	return hash, nil
}

func (l *Ledger) validateHeader(h Header) error {
	if !l.hasBlocks {
		if h.Number != 0 {
			return ErrInvalidBlockNumber
		}
		if !h.ParentHash.IsZero() {
			return ErrInvalidParentHash
		}
		return nil
	}
	if h.Number != l.height {
		return ErrInvalidBlockNumber
	}
	if h.ParentHash != l.tipHash {
		return ErrInvalidParentHash
	}
	return nil
}

func validateTx(stx SignedTx) error {
	b, err := stx.Tx.CanonicalBytes()
	if err != nil {
		return err
	}
	if !wallet.Verify(stx.Tx.From, b, stx.Sig) {
		return &InvalidSignatureError{Addr: stx.Tx.From}
	}
	return nil
}

// SatisfiesDifficulty reports whether hash's first difficulty bytes are
// all zero, the proof-of-work acceptance test shared by Ledger.AddBlock and
// the Miner's sealing loop.
func SatisfiesDifficulty(hash common.Hash, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}
	if difficulty > len(hash) {
		difficulty = len(hash)
	}
	return bytes.Equal(hash[:difficulty], make([]byte, difficulty))
}

func encodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func decodeUint64(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

func bytesAfterPrefix(key, prefix []byte) []byte {
	return key[len(prefix):]
}
