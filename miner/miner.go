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

// Package miner is the periodic proof-of-work block assembler: an outer
// ticker drains the pending pool into a candidate block, an inner sealing
// loop searches header nonces until the block hash meets the difficulty
// target or a foreign block cancels the attempt.
package miner

import (
	"math/rand"
	"time"

	"github.com/tinychain/tinychain/blockchain"
	"github.com/tinychain/tinychain/common"
	"github.com/tinychain/tinychain/core"
	"github.com/tinychain/tinychain/log"
	"github.com/tinychain/tinychain/metrics"
	"github.com/tinychain/tinychain/p2p"
	"github.com/tinychain/tinychain/params"
)

var (
	logger       = log.NewModuleLogger(log.ModuleMiner)
	minedMeter   = metrics.NewRegisteredMeter("miner/mined", nil)
	abortedMeter = metrics.NewRegisteredMeter("miner/aborted", nil)
)

// Miner periodically assembles and seals blocks from the pending pool.
type Miner struct {
	core       *core.Core
	client     *p2p.Client
	author     common.Address
	difficulty int
	interval   time.Duration

	stop chan struct{}
}

// New returns a Miner crediting author with block rewards, sealing at
// difficulty leading zero bytes, ticking every interval (defaulting to
// params.MineInterval). Sealed blocks are broadcast through client.
func New(c *core.Core, client *p2p.Client, author common.Address, difficulty int, interval time.Duration) *Miner {
	if interval <= 0 {
		interval = params.MineInterval
	}
	return &Miner{
		core:       c,
		client:     client,
		author:     author,
		difficulty: difficulty,
		interval:   interval,
		stop:       make(chan struct{}),
	}
}

// Start runs the ticker loop in its own goroutine until Stop is called.
func (m *Miner) Start() {
	go m.loop()
}

// Stop ends the ticker loop. It does not interrupt an in-flight PoW attempt;
// that happens only via the shared cancel channel.
func (m *Miner) Stop() {
	close(m.stop)
}

func (m *Miner) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.tick()
		case <-m.stop:
			return
		}
	}
}

func (m *Miner) tick() {
	// Drain any cancel signal left over from between ticks; it is only
	// meaningful during an active sealing attempt.
	select {
	case <-m.core.CancelCh():
	default:
	}

	pending := m.core.Pool.SnapshotSorted()
	if len(pending) == 0 {
		return
	}

	candidate, err := m.assemble(pending)
	if err != nil {
		logger.Error("failed to assemble candidate block", "err", err)
		return
	}

	sealed, ok := m.seal(candidate)
	if !ok {
		abortedMeter.Mark(1)
		logger.Debug("mining attempt abandoned", "number", candidate.Header.Number)
		return
	}

	hash, err := m.core.Ledger.AddBlock(sealed)
	if err != nil {
		// A peer's block landed concurrently, or some other validation
		// failure; treated as an ordinary cancellation.
		abortedMeter.Mark(1)
		logger.Debug("sealed block rejected by ledger", "err", err)
		return
	}
	m.core.Pool.RemoveMined(sealed)
	minedMeter.Mark(1)
	logger.Info("mined block", "number", sealed.Header.Number, "hash", hash, "txs", len(sealed.Txs))

	m.broadcast(sealed)
}

func (m *Miner) assemble(pending []blockchain.SignedTx) (blockchain.Block, error) {
	parentHash := common.ZeroHash
	number := uint64(0)
	if tip, ok, err := m.core.Ledger.LastBlock(); err != nil {
		return blockchain.Block{}, err
	} else if ok {
		h, err := tip.Hash()
		if err != nil {
			return blockchain.Block{}, err
		}
		parentHash = h
		number = tip.Header.Number + 1
	}

	return blockchain.Block{
		Header: blockchain.Header{
			ParentHash: parentHash,
			Number:     number,
			Author:     m.author,
			Timestamp:  time.Now().Unix(),
		},
		Txs: pending,
	}, nil
}

// seal mutates b's header nonce and timestamp in place until the block
// hash satisfies the configured difficulty, polling the shared cancel
// channel non-blockingly between attempts. It returns ok=false if
// cancelled.
func (m *Miner) seal(b blockchain.Block) (blockchain.Block, bool) {
	cancel := m.core.CancelCh()

	var attempts uint64
	for {
		select {
		case <-cancel:
			return blockchain.Block{}, false
		default:
		}

		b.Header.Nonce = rand.Uint64()
		b.Header.Timestamp = time.Now().Unix()

		hash, err := b.Hash()
		if err != nil {
			logger.Error("failed to hash candidate block", "err", err)
			return blockchain.Block{}, false
		}
		if blockchain.SatisfiesDifficulty(hash, m.difficulty) {
			return b, true
		}

		attempts++
		if attempts%params.MiningLogAttempts == 0 {
			logger.Info("mining in progress", "attempts", attempts, "number", b.Header.Number)
		}
	}
}

func (m *Miner) broadcast(b blockchain.Block) {
	if err := m.client.BroadcastBlock(b.ToProto()); err != nil {
		logger.Error("failed to broadcast mined block", "err", err)
	}
}
