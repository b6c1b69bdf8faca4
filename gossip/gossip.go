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

// Package gossip is the P2P-facing translator between the wire protocol and
// the chain engine: it answers inbound unary height/blocks requests and
// applies inbound pub-sub block/tx broadcasts. It never touches ledger
// storage directly; everything goes through the shared Core.
package gossip

import (
	"context"
	"fmt"

	"github.com/tinychain/tinychain/blockchain"
	"github.com/tinychain/tinychain/core"
	"github.com/tinychain/tinychain/log"
	"github.com/tinychain/tinychain/metrics"
	"github.com/tinychain/tinychain/p2p"
	"github.com/tinychain/tinychain/proto"
)

var (
	logger = log.NewModuleLogger(log.ModuleGossip)

	blocksServedMeter = metrics.NewRegisteredMeter("gossip/blocks_served", nil)
	txRecvMeter       = metrics.NewRegisteredMeter("gossip/tx_received", nil)
	blockRecvMeter    = metrics.NewRegisteredMeter("gossip/block_received", nil)
	decodeFailMeter   = metrics.NewRegisteredMeter("gossip/decode_failures", nil)
)

// Handler answers unary P2P requests and ingests pub-sub broadcasts on
// behalf of a Core, shared by the Syncer (which issues the requests this
// type answers, on the peer side) and the Miner/Node (which publish the
// broadcasts this type ingests).
type Handler struct {
	core *core.Core

	topics map[string]func(payload []byte) error
}

// New returns a Handler serving c's Ledger and Pool.
func New(c *core.Core) *Handler {
	h := &Handler{core: c}
	h.topics = map[string]func([]byte) error{
		p2p.TopicBlock: h.ingestBlock,
		p2p.TopicTx:    h.ingestTx,
	}
	return h
}

// HandleRequest answers a single unary Request with the matching Response,
// the callback a p2p.Network implementation invokes when a remote peer asks
// this node a question.
func (h *Handler) HandleRequest(ctx context.Context, req *proto.Request) (*proto.Response, error) {
	switch req.Method {
	case proto.Method_HEIGHT:
		height := h.core.Ledger.BlockHeight()
		return &proto.Response{
			Method: proto.Method_HEIGHT,
			Body:   &proto.Response_BlockHeightResp{BlockHeightResp: &proto.BlockHeightResp{BlockHeight: height}},
		}, nil
	case proto.Method_BLOCKS:
		blocksReq := req.GetBlocksReq()
		if blocksReq == nil {
			return nil, fmt.Errorf("gossip: BLOCKS request missing body")
		}
		blocks, err := h.core.Ledger.GetBlocks(blocksReq.FromNumber)
		if err != nil {
			return nil, err
		}
		resp := &proto.BlocksResp{}
		for _, b := range blocks {
			resp.Blocks = append(resp.Blocks, b.ToProto())
		}
		blocksServedMeter.Mark(int64(len(blocks)))
		return &proto.Response{
			Method: proto.Method_BLOCKS,
			Body:   &proto.Response_BlocksResp{BlocksResp: resp},
		}, nil
	default:
		return nil, fmt.Errorf("gossip: unknown request method %v", req.Method)
	}
}

// HandleBroadcast applies a pub-sub message received on topic, the callback
// a p2p.Network implementation invokes for every inbound broadcast. Decode
// failures are logged and dropped here, never returned: a peer feeding us
// garbage must not disturb the receive loop.
func (h *Handler) HandleBroadcast(topic string, payload []byte) error {
	ingest, ok := h.topics[topic]
	if !ok {
		return fmt.Errorf("gossip: unknown broadcast topic %q", topic)
	}
	return ingest(payload)
}

func (h *Handler) ingestBlock(payload []byte) error {
	b, err := blockchain.UnmarshalBlock(payload)
	if err != nil {
		decodeFailMeter.Mark(1)
		logger.Warn("dropping undecodable block broadcast", "err", err)
		return nil
	}
	if _, err := h.core.AddBlockStopMining(b); err != nil {
		logger.Debug("rejected broadcast block", "number", b.Header.Number, "err", err)
		return err
	}
	blockRecvMeter.Mark(1)
	return nil
}

func (h *Handler) ingestTx(payload []byte) error {
	stx, err := blockchain.UnmarshalSignedTx(payload)
	if err != nil {
		decodeFailMeter.Mark(1)
		logger.Warn("dropping undecodable tx broadcast", "err", err)
		return nil
	}
	if err := h.core.Pool.Add(stx); err != nil {
		logger.Debug("rejected broadcast tx", "err", err)
		return err
	}
	txRecvMeter.Mark(1)
	return nil
}
