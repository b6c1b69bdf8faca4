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

// Package node is the facade combining the Ledger, Pending Pool, Miner,
// Syncer and Gossip Handler behind a single reference the HTTP and P2P
// adapters both consume.
package node

import (
	"errors"
	"time"

	"github.com/tinychain/tinychain/blockchain"
	"github.com/tinychain/tinychain/common"
	"github.com/tinychain/tinychain/core"
	"github.com/tinychain/tinychain/gossip"
	"github.com/tinychain/tinychain/log"
	"github.com/tinychain/tinychain/miner"
	"github.com/tinychain/tinychain/p2p"
	"github.com/tinychain/tinychain/params"
	"github.com/tinychain/tinychain/syncer"
	"github.com/tinychain/tinychain/wallet"
)

var logger = log.NewModuleLogger(log.ModuleNode)

// ErrWalletFailure is returned by New when author has no matching entry in
// keystore: a node configured to mine under an address it cannot sign for
// must refuse to start.
var ErrWalletFailure = errors.New("node: configured author has no keystore entry")

// Node composes the chain engine's long-lived collaborators and exposes the
// operations the HTTP and P2P adapters call through.
type Node struct {
	Core     *core.Core
	Keystore *wallet.Keystore
	Network  p2p.Network
	Client   *p2p.Client
	Gossip   *gossip.Handler
	Miner    *miner.Miner
	Syncer   *syncer.Syncer

	author common.Address
}

// New builds a Node over an already-opened Ledger, wiring a fresh Pool,
// Core, Gossip Handler, Miner and Syncer. All outbound traffic goes through
// one p2p.Client over network. It returns ErrWalletFailure if author is
// non-zero but keystore has no signing key for it; mining would otherwise
// fail silently on every tick.
func New(ledger *blockchain.Ledger, keystore *wallet.Keystore, network p2p.Network, author common.Address, difficulty int, mineInterval, syncInterval time.Duration) (*Node, error) {
	if !author.IsZero() && !keystore.HasAddress(author) {
		return nil, ErrWalletFailure
	}

	pool := blockchain.NewPool()
	c := core.New(ledger, pool)
	client := p2p.NewClient(network, params.P2PRequestTimeout)
	gh := gossip.New(c)
	m := miner.New(c, client, author, difficulty, mineInterval)
	s := syncer.New(c, client, syncInterval)

	return &Node{
		Core:     c,
		Keystore: keystore,
		Network:  network,
		Client:   client,
		Gossip:   gh,
		Miner:    m,
		Syncer:   s,
		author:   author,
	}, nil
}

// Start begins the Miner and Syncer background loops. It is a no-op for the
// Miner if author is zero, since an unset author cannot receive block
// rewards and should not be mining.
func (n *Node) Start() {
	if !n.author.IsZero() {
		n.Miner.Start()
	}
	n.Syncer.Start()
}

// Stop ends both background loops; it does not interrupt an in-flight PoW
// attempt.
func (n *Node) Stop() {
	if !n.author.IsZero() {
		n.Miner.Stop()
	}
	n.Syncer.Stop()
}

// Transfer builds, signs and submits a value transfer from from to to,
// broadcasting it to peers once accepted locally. Signing failure surfaces
// as an error and the tx is never broadcast; a pool rejection also
// surfaces as an error with no broadcast.
func (n *Node) Transfer(from, to common.Address, value, nonce uint64) error {
	tx := blockchain.Tx{
		From:      from,
		To:        to,
		Value:     value,
		Nonce:     nonce,
		Gas:       params.DefaultGas,
		GasPrice:  params.DefaultGasPrice,
		Timestamp: time.Now().Unix(),
	}
	canonical, err := tx.CanonicalBytes()
	if err != nil {
		return err
	}
	sig, err := n.Keystore.Sign(from, canonical)
	if err != nil {
		return err
	}
	stx := blockchain.SignedTx{Tx: tx, Sig: sig}

	if err := n.Core.Pool.Add(stx); err != nil {
		return err
	}
	if err := n.Client.BroadcastTx(stx.ToProto()); err != nil {
		logger.Warn("failed to broadcast submitted tx", "from", from, "err", err)
		return err
	}
	return nil
}

// BlockHeight returns the count of committed blocks.
func (n *Node) BlockHeight() uint64 {
	return n.Core.Ledger.BlockHeight()
}

// Block returns the block committed at number.
func (n *Node) Block(number uint64) (blockchain.Block, error) {
	return n.Core.Ledger.GetBlock(number)
}

// Blocks returns the contiguous run of committed blocks starting at fromNumber.
func (n *Node) Blocks(fromNumber uint64) ([]blockchain.Block, error) {
	return n.Core.Ledger.GetBlocks(fromNumber)
}

// Balances returns a snapshot of every known account's balance, paired with
// the current chain tip's hash (the zero hash on an empty chain).
func (n *Node) Balances() (common.Hash, map[common.Address]uint64, error) {
	balances, err := n.Core.Ledger.GetBalances()
	if err != nil {
		return common.ZeroHash, nil, err
	}
	tip, ok, err := n.Core.Ledger.LastBlock()
	if err != nil {
		return common.ZeroHash, nil, err
	}
	if !ok {
		return common.ZeroHash, balances, nil
	}
	hash, err := tip.Hash()
	if err != nil {
		return common.ZeroHash, nil, err
	}
	return hash, balances, nil
}

// AccountNonce returns addr's expected next nonce.
func (n *Node) AccountNonce(addr common.Address) (uint64, error) {
	return n.Core.Ledger.NextAccountNonce(addr)
}
