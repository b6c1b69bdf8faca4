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
	"errors"
	"time"

	gproto "github.com/golang/protobuf/proto"

	"github.com/tinychain/tinychain/params"
	"github.com/tinychain/tinychain/proto"
)

// ErrUnexpectedResponse is returned when a peer answers a request with a
// response body of the wrong oneof variant for the method requested.
var ErrUnexpectedResponse = errors.New("p2p: unexpected response body for method")

// Client wraps a Network with the outbound calls the chain engine makes:
// peer enumeration, the height/blocks request round trips, and block/tx
// broadcast. The Miner, Syncer and Node facade all go through one Client
// instead of framing requests themselves; every request is bounded by the
// client's timeout.
type Client struct {
	network Network
	timeout time.Duration
}

// NewClient returns a Client over network, bounding each request by timeout
// (defaulting to params.P2PRequestTimeout).
func NewClient(network Network, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = params.P2PRequestTimeout
	}
	return &Client{network: network, timeout: timeout}
}

// KnownPeers returns a snapshot of currently connected peers.
func (c *Client) KnownPeers() []Peer {
	return c.network.Peers()
}

// GetBlockHeight asks peer for its committed block count.
func (c *Client) GetBlockHeight(ctx context.Context, peer Peer) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := peer.Call(ctx, &proto.Request{
		Method: proto.Method_HEIGHT,
		Body:   &proto.Request_BlockHeightReq{BlockHeightReq: &proto.BlockHeightReq{}},
	})
	if err != nil {
		return 0, err
	}
	body, ok := resp.Body.(*proto.Response_BlockHeightResp)
	if !ok {
		return 0, ErrUnexpectedResponse
	}
	return body.BlockHeightResp.BlockHeight, nil
}

// GetBlocks asks peer for its contiguous run of blocks starting at
// fromNumber.
func (c *Client) GetBlocks(ctx context.Context, peer Peer, fromNumber uint64) ([]*proto.Block, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := peer.Call(ctx, &proto.Request{
		Method: proto.Method_BLOCKS,
		Body:   &proto.Request_BlocksReq{BlocksReq: &proto.BlocksReq{FromNumber: fromNumber}},
	})
	if err != nil {
		return nil, err
	}
	body, ok := resp.Body.(*proto.Response_BlocksResp)
	if !ok {
		return nil, ErrUnexpectedResponse
	}
	return body.BlocksResp.Blocks, nil
}

// BroadcastBlock publishes b on the block topic.
func (c *Client) BroadcastBlock(b *proto.Block) error {
	payload, err := gproto.Marshal(b)
	if err != nil {
		return err
	}
	return c.network.Broadcast(TopicBlock, payload)
}

// BroadcastTx publishes stx on the tx topic.
func (c *Client) BroadcastTx(stx *proto.SignedTx) error {
	payload, err := gproto.Marshal(stx)
	if err != nil {
		return err
	}
	return c.network.Broadcast(TopicTx, payload)
}
