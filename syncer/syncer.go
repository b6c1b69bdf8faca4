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

// Package syncer periodically pulls missing blocks from the best-height
// known peer. The peer list is snapshotted once per tick before any request
// is issued; per-peer failures are logged and skipped, never propagated.
package syncer

import (
	"context"
	"time"

	"github.com/tinychain/tinychain/blockchain"
	"github.com/tinychain/tinychain/core"
	"github.com/tinychain/tinychain/log"
	"github.com/tinychain/tinychain/metrics"
	"github.com/tinychain/tinychain/p2p"
	"github.com/tinychain/tinychain/params"
)

var (
	logger       = log.NewModuleLogger(log.ModuleSyncer)
	syncedMeter  = metrics.NewRegisteredMeter("syncer/blocks", nil)
	failureMeter = metrics.NewRegisteredMeter("syncer/peer_failures", nil)
)

// Syncer periodically advances the local chain to the best observed peer's
// height.
type Syncer struct {
	core   *core.Core
	client *p2p.Client

	interval time.Duration

	stop chan struct{}
}

// New returns a Syncer ticking every interval (default params.SyncInterval).
// Outbound requests go through client, which bounds each by its timeout.
func New(c *core.Core, client *p2p.Client, interval time.Duration) *Syncer {
	if interval <= 0 {
		interval = params.SyncInterval
	}
	return &Syncer{core: c, client: client, interval: interval, stop: make(chan struct{})}
}

// Start runs the ticker loop in its own goroutine until Stop is called. The
// Syncer never runs concurrently with itself: each tick fully completes (or
// a peer request times out) before the next fires, since the loop body runs
// synchronously inside the single select-driven goroutine.
func (s *Syncer) Start() {
	go s.loop()
}

func (s *Syncer) Stop() {
	close(s.stop)
}

func (s *Syncer) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stop:
			return
		}
	}
}

func (s *Syncer) tick() {
	peers := s.client.KnownPeers()
	if len(peers) == 0 {
		return
	}

	localHeight := s.core.Ledger.BlockHeight()

	var best p2p.Peer
	var bestHeight uint64
	for _, peer := range peers {
		height, err := s.client.GetBlockHeight(context.Background(), peer)
		if err != nil {
			failureMeter.Mark(1)
			logger.Warn("peer height request failed", "peer", peer.ID(), "err", err)
			continue
		}
		if height > localHeight && (best == nil || height > bestHeight) {
			best, bestHeight = peer, height
		}
	}
	if best == nil {
		return
	}

	wireBlocks, err := s.client.GetBlocks(context.Background(), best, localHeight)
	if err != nil {
		failureMeter.Mark(1)
		logger.Warn("peer blocks request failed", "peer", best.ID(), "err", err)
		return
	}

	for _, pb := range wireBlocks {
		b := blockchain.BlockFromProto(pb)
		if _, err := s.core.AddBlockStopMining(b); err != nil {
			logger.Warn("rejected block from sync batch", "number", b.Header.Number, "err", err)
			return
		}
		syncedMeter.Mark(1)
	}
}
