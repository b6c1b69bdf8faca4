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
	"sync"

	"github.com/tinychain/tinychain/proto"
)

// ErrPeerUnreachable is returned by a MockPeer whose Respond hook is nil.
var ErrPeerUnreachable = errors.New("p2p: peer unreachable")

// MockPeer is a test double for Peer whose Call is answered by a supplied
// function, letting tests script a peer's height/blocks responses without a
// real transport.
type MockPeer struct {
	PeerID  PeerID
	Respond func(req *proto.Request) (*proto.Response, error)
}

func (p *MockPeer) ID() PeerID { return p.PeerID }

func (p *MockPeer) Call(ctx context.Context, req *proto.Request) (*proto.Response, error) {
	if p.Respond == nil {
		return nil, ErrPeerUnreachable
	}
	return p.Respond(req)
}

// MockNetwork is an in-process Network usable by unit tests exercising the
// Syncer and Gossip Handler without a live transport.
type MockNetwork struct {
	mu    sync.RWMutex
	peers []Peer

	broadcasts []Broadcast
}

// Broadcast records one outbound pub-sub publish for test assertions.
type Broadcast struct {
	Topic   string
	Payload []byte
}

func NewMockNetwork(peers ...Peer) *MockNetwork {
	return &MockNetwork{peers: peers}
}

func (n *MockNetwork) Peers() []Peer {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Peer, len(n.peers))
	copy(out, n.peers)
	return out
}

func (n *MockNetwork) AddPeer(p Peer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.peers = append(n.peers, p)
}

func (n *MockNetwork) Broadcast(topic string, payload []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.broadcasts = append(n.broadcasts, Broadcast{Topic: topic, Payload: payload})
	return nil
}

// Broadcasts returns every Broadcast recorded so far, for test assertions.
func (n *MockNetwork) Broadcasts() []Broadcast {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Broadcast, len(n.broadcasts))
	copy(out, n.broadcasts)
	return out
}
