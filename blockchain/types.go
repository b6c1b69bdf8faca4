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

// Package blockchain is the chain engine: the ledger's account-balance
// state, the pending transaction pool and the block/transaction types they
// share.
package blockchain

import (
	"github.com/tinychain/tinychain/common"
	"github.com/tinychain/tinychain/crypto"
	"github.com/tinychain/tinychain/proto"
	gproto "github.com/golang/protobuf/proto"
)

// Tx is a single value transfer from From to To.
type Tx struct {
	From      common.Address
	To        common.Address
	Value     uint64
	Nonce     uint64
	Gas       uint64
	GasPrice  uint64
	Timestamp int64
}

// SignedTx pairs a Tx with the 65-byte signature over its canonical bytes.
type SignedTx struct {
	Tx  Tx
	Sig []byte
}

// toProto converts Tx to its protobuf wire representation, the canonical
// byte source for both hashing and signing.
func (tx Tx) toProto() *proto.Tx {
	return &proto.Tx{
		From:      string(tx.From),
		To:        string(tx.To),
		Value:     tx.Value,
		Nonce:     tx.Nonce,
		Gas:       tx.Gas,
		GasPrice:  tx.GasPrice,
		Timestamp: tx.Timestamp,
	}
}

func txFromProto(p *proto.Tx) Tx {
	return Tx{
		From:      common.Address(p.From),
		To:        common.Address(p.To),
		Value:     p.Value,
		Nonce:     p.Nonce,
		Gas:       p.Gas,
		GasPrice:  p.GasPrice,
		Timestamp: p.Timestamp,
	}
}

// CanonicalBytes returns the deterministic protobuf encoding of tx, the
// exact bytes hashed and signed over.
func (tx Tx) CanonicalBytes() ([]byte, error) {
	return gproto.Marshal(tx.toProto())
}

// Hash returns the Keccak-256 digest of tx's canonical bytes. Two
// structurally equal Tx values always hash identically since protobuf's
// encoding here uses no maps and a fixed field set.
func (tx Tx) Hash() (common.Hash, error) {
	b, err := tx.CanonicalBytes()
	if err != nil {
		return common.ZeroHash, err
	}
	return crypto.Keccak256Hash(b), nil
}

// GasCost returns the fee the sender pays, credited to the block's author.
func (tx Tx) GasCost() uint64 {
	return tx.Gas * tx.GasPrice
}

func (stx SignedTx) toProto() *proto.SignedTx {
	return &proto.SignedTx{Tx: stx.Tx.toProto(), Sig: stx.Sig}
}

func signedTxFromProto(p *proto.SignedTx) SignedTx {
	return SignedTx{Tx: txFromProto(p.Tx), Sig: p.Sig}
}

// ToProto converts stx into its wire-level representation.
func (stx SignedTx) ToProto() *proto.SignedTx {
	return stx.toProto()
}

// Hash hashes the inner Tx; the signature does not participate in identity.
func (stx SignedTx) Hash() (common.Hash, error) {
	return stx.Tx.Hash()
}

// Marshal encodes stx to its wire/storage bytes, the same encoding
// p2p.Client.BroadcastTx publishes on the P2P tx topic.
func (stx SignedTx) Marshal() ([]byte, error) {
	return gproto.Marshal(stx.toProto())
}

// UnmarshalSignedTx decodes wire bytes into a SignedTx, used by the Gossip
// Handler when ingesting a tx broadcast from a peer.
func UnmarshalSignedTx(data []byte) (SignedTx, error) {
	var p proto.SignedTx
	if err := gproto.Unmarshal(data, &p); err != nil {
		return SignedTx{}, err
	}
	return signedTxFromProto(&p), nil
}

// Header carries a block's metadata.
type Header struct {
	ParentHash common.Hash
	Number     uint64
	Nonce      uint64
	Timestamp  int64
	Author     common.Address
}

func (h Header) toProto() *proto.BlockHeader {
	return &proto.BlockHeader{
		ParentHash: h.ParentHash.Bytes(),
		Number:     h.Number,
		Nonce:      h.Nonce,
		Timestamp:  h.Timestamp,
		Author:     string(h.Author),
	}
}

func headerFromProto(p *proto.BlockHeader) Header {
	return Header{
		ParentHash: common.BytesToHash(p.ParentHash),
		Number:     p.Number,
		Nonce:      p.Nonce,
		Timestamp:  p.Timestamp,
		Author:     common.Address(p.Author),
	}
}

// Block is a header plus the ordered list of transactions it commits.
type Block struct {
	Header Header
	Txs    []SignedTx
}

// Hash returns the Keccak-256 digest of the block's canonical bytes,
// header and transactions included. The mining loop varies the header's
// nonce and timestamp and recomputes this until it satisfies the
// difficulty target.
func (b Block) Hash() (common.Hash, error) {
	enc, err := b.Marshal()
	if err != nil {
		return common.ZeroHash, err
	}
	return crypto.Keccak256Hash(enc), nil
}

func (b Block) toProto() *proto.Block {
	p := &proto.Block{Header: b.Header.toProto()}
	for _, stx := range b.Txs {
		p.Txs = append(p.Txs, stx.toProto())
	}
	return p
}

// BlockFromProto converts a wire-level Block message into a Block, used by
// the Syncer and Gossip Handler when decoding blocks received from peers.
func BlockFromProto(p *proto.Block) Block {
	b := Block{Header: headerFromProto(p.Header)}
	for _, ptx := range p.Txs {
		b.Txs = append(b.Txs, signedTxFromProto(ptx))
	}
	return b
}

// ToProto converts b into its wire-level representation.
func (b Block) ToProto() *proto.Block {
	return b.toProto()
}

// Marshal encodes b to its wire/storage bytes.
func (b Block) Marshal() ([]byte, error) {
	return gproto.Marshal(b.toProto())
}

// UnmarshalBlock decodes wire/storage bytes into a Block.
func UnmarshalBlock(data []byte) (Block, error) {
	var p proto.Block
	if err := gproto.Unmarshal(data, &p); err != nil {
		return Block{}, err
	}
	return BlockFromProto(&p), nil
}
