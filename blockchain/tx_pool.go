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
	"sort"
	"sync"

	set "gopkg.in/fatih/set.v0"

	"github.com/tinychain/tinychain/common"
	"github.com/tinychain/tinychain/log"
	"github.com/tinychain/tinychain/metrics"
)

var (
	poolLogger    = log.NewModuleLogger(log.ModuleTxPool)
	poolAddMeter  = metrics.NewRegisteredMeter("txpool/add", nil)
	poolDropMeter = metrics.NewRegisteredMeter("txpool/drop", nil)
)

// Pool is the deduplicated set of signature-verified, not-yet-mined
// transactions shared by local submission and inbound gossip. The backing
// map is keyed by tx hash under a RWMutex; balance and nonce ordering are
// not enforced here, the ledger does that definitively at commit time.
type Pool struct {
	mu  sync.RWMutex
	txs map[common.Hash]SignedTx
}

// NewPool returns an empty Pool.
func NewPool() *Pool {
	return &Pool{txs: make(map[common.Hash]SignedTx)}
}

// Add verifies stx's signature and inserts it if its hash is not already
// present. A duplicate is silently ignored, not an error: Add(tx);
// Add(tx) is indistinguishable from a single Add(tx).
func (p *Pool) Add(stx SignedTx) error {
	if err := validateTx(stx); err != nil {
		return err
	}
	hash, err := stx.Hash()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.txs[hash]; exists {
		return nil
	}
	p.txs[hash] = stx
	poolAddMeter.Mark(1)
	return nil
}

// SnapshotSorted returns a point-in-time list of pending txs ordered by
// ascending timestamp, ties broken by hash.
func (p *Pool) SnapshotSorted() []SignedTx {
	p.mu.RLock()
	out := make([]SignedTx, 0, len(p.txs))
	for _, stx := range p.txs {
		out = append(out, stx)
	}
	p.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Tx.Timestamp != out[j].Tx.Timestamp {
			return out[i].Tx.Timestamp < out[j].Tx.Timestamp
		}
		hi, _ := out[i].Hash()
		hj, _ := out[j].Hash()
		return hi.Hex() < hj.Hex()
	})
	return out
}

// RemoveMined removes every tx hash contained in block b's tx list.
func (p *Pool) RemoveMined(b Block) {
	mined := set.New(set.ThreadSafe)
	for _, stx := range b.Txs {
		hash, err := stx.Hash()
		if err != nil {
			continue
		}
		mined.Add(hash)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for hash := range p.txs {
		if mined.Has(hash) {
			delete(p.txs, hash)
		}
	}
}

// DropAccount removes every pending tx sent from addr, used when the
// ledger rejects one of addr's txs for nonce/balance/signature reasons.
func (p *Pool) DropAccount(addr common.Address) {
	p.mu.Lock()
	defer p.mu.Unlock()
	dropped := 0
	for hash, stx := range p.txs {
		if stx.Tx.From == addr {
			delete(p.txs, hash)
			poolDropMeter.Mark(1)
			dropped++
		}
	}
	if dropped > 0 {
		poolLogger.Debug("dropped pending txs for rejected account", "addr", addr, "count", dropped)
	}
}

// Len returns the number of pending transactions.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.txs)
}
