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

// Package p2p specifies the transport boundary the chain engine depends on
// but does not implement: peer discovery, the unary request/response codec
// and pub-sub fan-out are a library concern (a real node wires this to
// something like libp2p). Only the calls the Gossip Handler, Miner and
// Syncer need are specified: peer enumeration, a unary request/response
// round trip, and pub-sub broadcast.
package p2p

import (
	"context"

	"github.com/tinychain/tinychain/proto"
)

// PeerID identifies a connected peer, opaque to the chain engine.
type PeerID string

// Peer is a single connected remote node reachable for unary requests.
type Peer interface {
	ID() PeerID
	// Call sends req and blocks for a matching Response, bounded by ctx.
	Call(ctx context.Context, req *proto.Request) (*proto.Response, error)
}

// Network is the P2P layer's surface: peer enumeration, unary request
// dispatch to a specific peer, and pub-sub broadcast. Implementations must
// honor a "snapshot peers before mutating" discipline: Peers() returns a
// point-in-time slice safe to range over even as peers connect or
// disconnect concurrently.
type Network interface {
	// Peers returns a snapshot of currently connected peers.
	Peers() []Peer
	// Broadcast publishes payload on topic to all subscribed peers.
	Broadcast(topic string, payload []byte) error
}

// Pub-sub topic names.
const (
	TopicBlock = "block"
	TopicTx    = "tx"
)

// NopNetwork is a peerless Network that drops every broadcast, used when no
// transport is wired in.
type NopNetwork struct{}

func (NopNetwork) Peers() []Peer { return nil }

func (NopNetwork) Broadcast(topic string, payload []byte) error { return nil }
