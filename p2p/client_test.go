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

package p2p

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tinychain/tinychain/proto"
)

func TestClientGetBlockHeight(t *testing.T) {
	peer := &MockPeer{PeerID: "peer-1", Respond: func(req *proto.Request) (*proto.Response, error) {
		require.Equal(t, proto.Method_HEIGHT, req.Method)
		return &proto.Response{
			Method: proto.Method_HEIGHT,
			Body:   &proto.Response_BlockHeightResp{BlockHeightResp: &proto.BlockHeightResp{BlockHeight: 7}},
		}, nil
	}}
	c := NewClient(NewMockNetwork(peer), time.Second)

	height, err := c.GetBlockHeight(context.Background(), peer)
	require.NoError(t, err)
	require.EqualValues(t, 7, height)
}

func TestClientGetBlockHeightPropagatesPeerError(t *testing.T) {
	peer := &MockPeer{PeerID: "down"}
	c := NewClient(NewMockNetwork(peer), time.Second)

	_, err := c.GetBlockHeight(context.Background(), peer)
	require.ErrorIs(t, err, ErrPeerUnreachable)
}

func TestClientRejectsMismatchedResponseBody(t *testing.T) {
	peer := &MockPeer{PeerID: "peer-1", Respond: func(req *proto.Request) (*proto.Response, error) {
		return &proto.Response{
			Method: proto.Method_BLOCKS,
			Body:   &proto.Response_BlocksResp{BlocksResp: &proto.BlocksResp{}},
		}, nil
	}}
	c := NewClient(NewMockNetwork(peer), time.Second)

	_, err := c.GetBlockHeight(context.Background(), peer)
	require.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestClientGetBlocks(t *testing.T) {
	peer := &MockPeer{PeerID: "peer-1", Respond: func(req *proto.Request) (*proto.Response, error) {
		require.Equal(t, proto.Method_BLOCKS, req.Method)
		require.EqualValues(t, 3, req.GetBlocksReq().FromNumber)
		return &proto.Response{
			Method: proto.Method_BLOCKS,
			Body: &proto.Response_BlocksResp{BlocksResp: &proto.BlocksResp{
				Blocks: []*proto.Block{{Header: &proto.BlockHeader{Number: 3}}},
			}},
		}, nil
	}}
	c := NewClient(NewMockNetwork(peer), time.Second)

	blocks, err := c.GetBlocks(context.Background(), peer, 3)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.EqualValues(t, 3, blocks[0].Header.Number)
}

func TestClientBroadcastsOnTopics(t *testing.T) {
	network := NewMockNetwork()
	c := NewClient(network, time.Second)

	require.NoError(t, c.BroadcastBlock(&proto.Block{Header: &proto.BlockHeader{Number: 1}}))
	require.NoError(t, c.BroadcastTx(&proto.SignedTx{Tx: &proto.Tx{From: "0xa", To: "0xb", Value: 1}}))

	broadcasts := network.Broadcasts()
	require.Len(t, broadcasts, 2)
	require.Equal(t, TopicBlock, broadcasts[0].Topic)
	require.Equal(t, TopicTx, broadcasts[1].Topic)

	var stx proto.SignedTx
	require.NoError(t, proto.Unmarshal(broadcasts[1].Payload, &stx))
	require.Equal(t, "0xa", stx.Tx.From)
}
