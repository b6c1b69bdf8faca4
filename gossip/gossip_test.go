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

package gossip

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinychain/tinychain/blockchain"
	"github.com/tinychain/tinychain/core"
	"github.com/tinychain/tinychain/p2p"
	"github.com/tinychain/tinychain/proto"
	"github.com/tinychain/tinychain/storage/database"
	"github.com/tinychain/tinychain/wallet"
)

func newTestCore(t *testing.T) *core.Core {
	t.Helper()
	db, err := database.NewDBManager(database.MemoryDB, "", 0, 0)
	require.NoError(t, err)
	ledger, err := blockchain.NewLedger(db, 0)
	require.NoError(t, err)
	return core.New(ledger, blockchain.NewPool())
}

func TestHandleHeightRequest(t *testing.T) {
	c := newTestCore(t)
	_, err := c.Ledger.AddBlock(blockchain.Block{Header: blockchain.Header{Number: 0, Author: "0xauthor"}})
	require.NoError(t, err)

	h := New(c)
	resp, err := h.HandleRequest(context.Background(), &proto.Request{
		Method: proto.Method_HEIGHT,
		Body:   &proto.Request_BlockHeightReq{BlockHeightReq: &proto.BlockHeightReq{}},
	})
	require.NoError(t, err)
	require.Equal(t, proto.Method_HEIGHT, resp.Method)
	require.EqualValues(t, 1, resp.GetBlockHeightResp().BlockHeight)
}

func TestHandleBlocksRequest(t *testing.T) {
	c := newTestCore(t)
	b0 := blockchain.Block{Header: blockchain.Header{Number: 0, Author: "0xauthor"}}
	h0, err := b0.Hash()
	require.NoError(t, err)
	_, err = c.Ledger.AddBlock(b0)
	require.NoError(t, err)
	_, err = c.Ledger.AddBlock(blockchain.Block{Header: blockchain.Header{Number: 1, ParentHash: h0, Author: "0xauthor"}})
	require.NoError(t, err)

	h := New(c)
	resp, err := h.HandleRequest(context.Background(), &proto.Request{
		Method: proto.Method_BLOCKS,
		Body:   &proto.Request_BlocksReq{BlocksReq: &proto.BlocksReq{FromNumber: 1}},
	})
	require.NoError(t, err)
	blocks := resp.GetBlocksResp().Blocks
	require.Len(t, blocks, 1)
	require.EqualValues(t, 1, blocks[0].Header.Number)
}

func TestHandleBlocksRequestMissingBody(t *testing.T) {
	h := New(newTestCore(t))
	_, err := h.HandleRequest(context.Background(), &proto.Request{Method: proto.Method_BLOCKS})
	require.Error(t, err)
}

// TestBroadcastBlockCommitsAndCancels: a valid broadcast block reaches the
// ledger and leaves a cancel signal for the miner.
func TestBroadcastBlockCommitsAndCancels(t *testing.T) {
	c := newTestCore(t)
	h := New(c)

	b := blockchain.Block{Header: blockchain.Header{Number: 0, Author: "0xforeign"}}
	payload, err := b.Marshal()
	require.NoError(t, err)

	require.NoError(t, h.HandleBroadcast(p2p.TopicBlock, payload))
	require.EqualValues(t, 1, c.Ledger.BlockHeight())
	select {
	case <-c.CancelCh():
	default:
		t.Fatal("expected a cancel signal after committing a foreign block")
	}
}

func TestBroadcastTxEntersPool(t *testing.T) {
	c := newTestCore(t)
	h := New(c)

	ks, err := wallet.NewKeystore("")
	require.NoError(t, err)
	a, err := ks.NewAccount()
	require.NoError(t, err)

	tx := blockchain.Tx{From: a.Address, To: "0xdest", Value: 1, Nonce: 0, Gas: 1, GasPrice: 1}
	canonical, err := tx.CanonicalBytes()
	require.NoError(t, err)
	sig, err := ks.Sign(a.Address, canonical)
	require.NoError(t, err)
	payload, err := blockchain.SignedTx{Tx: tx, Sig: sig}.Marshal()
	require.NoError(t, err)

	require.NoError(t, h.HandleBroadcast(p2p.TopicTx, payload))
	require.Equal(t, 1, c.Pool.Len())
}

// TestBroadcastDecodeFailureDropped: garbage payloads are dropped without an
// error so the receive loop keeps running.
func TestBroadcastDecodeFailureDropped(t *testing.T) {
	c := newTestCore(t)
	h := New(c)

	garbage := []byte{0xff, 0xff, 0xff, 0xff, 0x01, 0x02}
	require.NoError(t, h.HandleBroadcast(p2p.TopicBlock, garbage))
	require.NoError(t, h.HandleBroadcast(p2p.TopicTx, garbage))
	require.EqualValues(t, 0, c.Ledger.BlockHeight())
	require.Equal(t, 0, c.Pool.Len())
}

func TestBroadcastUnknownTopicRejected(t *testing.T) {
	h := New(newTestCore(t))
	require.Error(t, h.HandleBroadcast("weather", nil))
}
