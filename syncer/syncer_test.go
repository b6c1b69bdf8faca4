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

package syncer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tinychain/tinychain/blockchain"
	"github.com/tinychain/tinychain/common"
	"github.com/tinychain/tinychain/core"
	"github.com/tinychain/tinychain/p2p"
	"github.com/tinychain/tinychain/proto"
	"github.com/tinychain/tinychain/storage/database"
)

func newTestCore(t *testing.T) *core.Core {
	t.Helper()
	db, err := database.NewDBManager(database.MemoryDB, "", 0, 0)
	require.NoError(t, err)
	ledger, err := blockchain.NewLedger(db, 0)
	require.NoError(t, err)
	return core.New(ledger, blockchain.NewPool())
}

func mineTrivialBlock(t *testing.T, number uint64, parent common.Hash) blockchain.Block {
	t.Helper()
	return blockchain.Block{Header: blockchain.Header{Number: number, ParentHash: parent, Author: "0xpeer-author"}}
}

// TestSyncCatchesUpToBestPeer: local tip at height 2, a peer advertises
// height 5 and returns blocks 2,3,4; after one tick local height is 5 and
// a cancel signal fired at least once.
func TestSyncCatchesUpToBestPeer(t *testing.T) {
	localCore := newTestCore(t)
	b0 := mineTrivialBlock(t, 0, common.ZeroHash)
	h0, err := b0.Hash()
	require.NoError(t, err)
	_, err = localCore.Ledger.AddBlock(b0)
	require.NoError(t, err)
	b1 := mineTrivialBlock(t, 1, h0)
	h1, err := b1.Hash()
	require.NoError(t, err)
	_, err = localCore.Ledger.AddBlock(b1)
	require.NoError(t, err)
	require.EqualValues(t, 2, localCore.Ledger.BlockHeight())

	// Build the peer's extended chain: blocks 2,3,4 continuing from h1.
	peerCore := newTestCore(t)
	_, err = peerCore.Ledger.AddBlock(b0)
	require.NoError(t, err)
	_, err = peerCore.Ledger.AddBlock(b1)
	require.NoError(t, err)
	prev := h1
	for n := uint64(2); n < 5; n++ {
		b := mineTrivialBlock(t, n, prev)
		hash, err := b.Hash()
		require.NoError(t, err)
		_, err = peerCore.Ledger.AddBlock(b)
		require.NoError(t, err)
		prev = hash
	}
	require.EqualValues(t, 5, peerCore.Ledger.BlockHeight())

	peer := &p2p.MockPeer{PeerID: "peer-1", Respond: func(req *proto.Request) (*proto.Response, error) {
		switch req.Method {
		case proto.Method_HEIGHT:
			return &proto.Response{Method: proto.Method_HEIGHT, Body: &proto.Response_BlockHeightResp{
				BlockHeightResp: &proto.BlockHeightResp{BlockHeight: peerCore.Ledger.BlockHeight()},
			}}, nil
		case proto.Method_BLOCKS:
			blocks, err := peerCore.Ledger.GetBlocks(req.GetBlocksReq().FromNumber)
			require.NoError(t, err)
			resp := &proto.BlocksResp{}
			for _, b := range blocks {
				resp.Blocks = append(resp.Blocks, b.ToProto())
			}
			return &proto.Response{Method: proto.Method_BLOCKS, Body: &proto.Response_BlocksResp{BlocksResp: resp}}, nil
		}
		return nil, nil
	}}

	network := p2p.NewMockNetwork(peer)
	s := New(localCore, p2p.NewClient(network, time.Second), time.Hour)

	s.tick()

	require.EqualValues(t, 5, localCore.Ledger.BlockHeight())
	select {
	case <-localCore.CancelCh():
	default:
		t.Fatal("expected at least one cancel signal after syncing foreign blocks")
	}
}

// TestTickSkipsUnreachablePeer: a peer whose requests fail is simply not
// chosen this tick; the local chain is left alone.
func TestTickSkipsUnreachablePeer(t *testing.T) {
	c := newTestCore(t)
	peer := &p2p.MockPeer{PeerID: "down"}
	s := New(c, p2p.NewClient(p2p.NewMockNetwork(peer), time.Second), time.Hour)

	s.tick()

	require.EqualValues(t, 0, c.Ledger.BlockHeight())
}
