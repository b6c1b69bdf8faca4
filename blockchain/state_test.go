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

package blockchain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinychain/tinychain/common"
	"github.com/tinychain/tinychain/storage/database"
	"github.com/tinychain/tinychain/wallet"
)

func newTestLedger(t *testing.T, difficulty int) (*Ledger, *wallet.Keystore) {
	t.Helper()
	db, err := database.NewDBManager(database.MemoryDB, "", 0, 0)
	require.NoError(t, err)
	l, err := NewLedger(db, difficulty)
	require.NoError(t, err)
	ks, err := wallet.NewKeystore("")
	require.NoError(t, err)
	return l, ks
}

func signTx(t *testing.T, ks *wallet.Keystore, tx Tx) SignedTx {
	t.Helper()
	b, err := tx.CanonicalBytes()
	require.NoError(t, err)
	sig, err := ks.Sign(tx.From, b)
	require.NoError(t, err)
	return SignedTx{Tx: tx, Sig: sig}
}

// TestSingleTransfer commits one block carrying a single transfer and
// checks the resulting balances, author reward and sender nonce.
func TestSingleTransfer(t *testing.T) {
	l, ks := newTestLedger(t, 0)
	a, err := ks.NewAccount()
	require.NoError(t, err)
	b, err := ks.NewAccount()
	require.NoError(t, err)
	author, err := ks.NewAccount()
	require.NoError(t, err)

	require.NoError(t, l.ApplyGenesis(map[common.Address]uint64{a.Address: 100}))

	tx1 := signTx(t, ks, Tx{From: a.Address, To: b.Address, Value: 10, Nonce: 0, Gas: 1, GasPrice: 1})
	block := Block{
		Header: Header{ParentHash: common.ZeroHash, Number: 0, Author: author.Address},
		Txs:    []SignedTx{tx1},
	}

	hash, err := l.AddBlock(block)
	require.NoError(t, err)
	require.False(t, hash.IsZero())

	balA, err := l.GetBalance(a.Address)
	require.NoError(t, err)
	require.EqualValues(t, 89, balA)

	balB, err := l.GetBalance(b.Address)
	require.NoError(t, err)
	require.EqualValues(t, 10, balB)

	balAuthor, err := l.GetBalance(author.Address)
	require.NoError(t, err)
	require.EqualValues(t, 1, balAuthor)

	nonceA, err := l.NextAccountNonce(a.Address)
	require.NoError(t, err)
	require.EqualValues(t, 1, nonceA)

	require.EqualValues(t, 1, l.BlockHeight())
}

// TestNonceReplayRejection checks that a tx reusing an already-consumed
// nonce is rejected and leaves state untouched.
func TestNonceReplayRejection(t *testing.T) {
	l, ks := newTestLedger(t, 0)
	a, err := ks.NewAccount()
	require.NoError(t, err)
	b, err := ks.NewAccount()
	require.NoError(t, err)
	author, err := ks.NewAccount()
	require.NoError(t, err)

	require.NoError(t, l.ApplyGenesis(map[common.Address]uint64{a.Address: 100}))
	tx1 := signTx(t, ks, Tx{From: a.Address, To: b.Address, Value: 10, Nonce: 0, Gas: 1, GasPrice: 1})
	_, err = l.AddBlock(Block{Header: Header{Number: 0, Author: author.Address}, Txs: []SignedTx{tx1}})
	require.NoError(t, err)

	tx2 := signTx(t, ks, Tx{From: a.Address, To: b.Address, Value: 5, Nonce: 0, Gas: 1, GasPrice: 1})
	hashBefore := l.tipHash
	_, err = l.AddBlock(Block{Header: Header{ParentHash: hashBefore, Number: 1, Author: author.Address}, Txs: []SignedTx{tx2}})

	var nonceErr *InvalidNonceError
	require.ErrorAs(t, err, &nonceErr)
	require.Equal(t, a.Address, nonceErr.Addr)
	require.EqualValues(t, 1, nonceErr.Expected)
	require.EqualValues(t, 0, nonceErr.Got)

	require.EqualValues(t, 1, l.BlockHeight(), "a rejected block must not advance height")
	balA, err := l.GetBalance(a.Address)
	require.NoError(t, err)
	require.EqualValues(t, 89, balA, "state must be untouched by a rejected block")
}

func TestInsufficientFunds(t *testing.T) {
	l, ks := newTestLedger(t, 0)
	a, err := ks.NewAccount()
	require.NoError(t, err)
	b, err := ks.NewAccount()
	require.NoError(t, err)
	author, err := ks.NewAccount()
	require.NoError(t, err)

	require.NoError(t, l.ApplyGenesis(map[common.Address]uint64{a.Address: 5}))
	tx := signTx(t, ks, Tx{From: a.Address, To: b.Address, Value: 100, Nonce: 0, Gas: 1, GasPrice: 1})

	_, err = l.AddBlock(Block{Header: Header{Number: 0, Author: author.Address}, Txs: []SignedTx{tx}})

	var fundsErr *InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	require.Equal(t, a.Address, fundsErr.Addr)
	require.EqualValues(t, 5, fundsErr.Have)
	require.EqualValues(t, 101, fundsErr.Need)
}

// TestEmptyChainBoundary covers the empty-chain boundary: height 0,
// LastBlock reports ok=false, and the first block must chain from the zero
// hash at number 0.
func TestEmptyChainBoundary(t *testing.T) {
	l, _ := newTestLedger(t, 0)
	require.EqualValues(t, 0, l.BlockHeight())
	_, ok, err := l.LastBlock()
	require.NoError(t, err)
	require.False(t, ok)

	_, err = l.AddBlock(Block{Header: Header{Number: 0, ParentHash: common.BytesToHash([]byte{1}), Author: "0xauthor"}})
	require.Error(t, err, "a non-zero parent hash on the first block must be rejected")
}

// TestSelfTransferNetsGasCost covers the to==from boundary case: balance
// nets to -gas_cost only.
func TestSelfTransferNetsGasCost(t *testing.T) {
	l, ks := newTestLedger(t, 0)
	a, err := ks.NewAccount()
	require.NoError(t, err)
	author, err := ks.NewAccount()
	require.NoError(t, err)

	require.NoError(t, l.ApplyGenesis(map[common.Address]uint64{a.Address: 50}))
	tx := signTx(t, ks, Tx{From: a.Address, To: a.Address, Value: 10, Nonce: 0, Gas: 1, GasPrice: 1})
	_, err = l.AddBlock(Block{Header: Header{Number: 0, Author: author.Address}, Txs: []SignedTx{tx}})
	require.NoError(t, err)

	balA, err := l.GetBalance(a.Address)
	require.NoError(t, err)
	require.EqualValues(t, 49, balA)
}

// TestBalanceOverflowRejected covers the overflow boundary case.
func TestBalanceOverflowRejected(t *testing.T) {
	l, ks := newTestLedger(t, 0)
	a, err := ks.NewAccount()
	require.NoError(t, err)
	b, err := ks.NewAccount()
	require.NoError(t, err)
	author, err := ks.NewAccount()
	require.NoError(t, err)

	require.NoError(t, l.ApplyGenesis(map[common.Address]uint64{
		a.Address: ^uint64(0),
		b.Address: ^uint64(0),
	}))
	tx := signTx(t, ks, Tx{From: a.Address, To: b.Address, Value: 1, Nonce: 0, Gas: 0, GasPrice: 0})
	_, err = l.AddBlock(Block{Header: Header{Number: 0, Author: author.Address}, Txs: []SignedTx{tx}})

	var overflowErr *BalanceOverflowError
	require.ErrorAs(t, err, &overflowErr)
}

func TestSatisfiesDifficulty(t *testing.T) {
	var h common.Hash
	h[0] = 0
	h[1] = 0
	h[2] = 1
	require.True(t, SatisfiesDifficulty(h, 2))
	require.False(t, SatisfiesDifficulty(h, 3))
	require.True(t, SatisfiesDifficulty(h, 0))
}
