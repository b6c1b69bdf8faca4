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

// Package core holds the piece the Node facade, Syncer and Gossip Handler
// all need direct access to: the Ledger, the Pending Pool, and the
// mining-cancellation channel. The Miner, Syncer and Gossip loops each take
// a *Core directly instead of a back-pointer to the Node that composes them.
package core

import (
	"github.com/tinychain/tinychain/blockchain"
	"github.com/tinychain/tinychain/common"
)

// Core is the shared state every long-lived loop (Miner, Syncer, Gossip
// Handler) and the Node facade operate against.
type Core struct {
	Ledger *blockchain.Ledger
	Pool   *blockchain.Pool

	// cancel is signalled whenever a foreign block is committed, so the
	// Miner can abandon an in-flight PoW attempt. Capacity 1, non-blocking
	// sends only.
	cancel chan struct{}
}

// New builds a Core over an already-opened Ledger and a fresh Pool.
func New(ledger *blockchain.Ledger, pool *blockchain.Pool) *Core {
	return &Core{
		Ledger: ledger,
		Pool:   pool,
		cancel: make(chan struct{}, 1),
	}
}

// CancelCh is the Miner's receive side of the cancellation signal.
func (c *Core) CancelCh() <-chan struct{} {
	return c.cancel
}

// signalCancel delivers a non-blocking, at-least-once cancellation signal.
// A full channel means a signal is already pending, which is sufficient.
func (c *Core) signalCancel() {
	select {
	case c.cancel <- struct{}{}:
	default:
	}
}

// AddBlockStopMining removes b's transactions from the pool, commits b via
// the ledger, and on success signals the Miner to abandon any in-flight
// attempt. Shared by the Syncer (applying pulled blocks) and the Gossip
// Handler (applying a broadcast block).
func (c *Core) AddBlockStopMining(b blockchain.Block) (common.Hash, error) {
	c.Pool.RemoveMined(b)
	hash, err := c.Ledger.AddBlock(b)
	if err != nil {
		if addr, ok := blockchain.OffendingAccount(err); ok {
			c.Pool.DropAccount(addr)
		}
		return common.ZeroHash, err
	}
	c.signalCancel()
	return hash, nil
}
