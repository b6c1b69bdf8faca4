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

	"github.com/tinychain/tinychain/wallet"
)

func TestPoolAddIsIdempotent(t *testing.T) {
	ks, err := wallet.NewKeystore("")
	require.NoError(t, err)
	a, err := ks.NewAccount()
	require.NoError(t, err)
	b, err := ks.NewAccount()
	require.NoError(t, err)

	pool := NewPool()
	stx := signTx(t, ks, Tx{From: a.Address, To: b.Address, Value: 1, Nonce: 0, Gas: 1, GasPrice: 1})

	require.NoError(t, pool.Add(stx))
	require.NoError(t, pool.Add(stx))
	require.Equal(t, 1, pool.Len())
}

func TestPoolAddRejectsBadSignature(t *testing.T) {
	ks, err := wallet.NewKeystore("")
	require.NoError(t, err)
	a, err := ks.NewAccount()
	require.NoError(t, err)
	b, err := ks.NewAccount()
	require.NoError(t, err)

	pool := NewPool()
	stx := signTx(t, ks, Tx{From: a.Address, To: b.Address, Value: 1, Nonce: 0, Gas: 1, GasPrice: 1})
	stx.Sig[0] ^= 0xff

	err = pool.Add(stx)
	var sigErr *InvalidSignatureError
	require.ErrorAs(t, err, &sigErr)
	require.Equal(t, 0, pool.Len())
}

func TestPoolRemoveMined(t *testing.T) {
	ks, err := wallet.NewKeystore("")
	require.NoError(t, err)
	a, err := ks.NewAccount()
	require.NoError(t, err)
	b, err := ks.NewAccount()
	require.NoError(t, err)

	pool := NewPool()
	stx1 := signTx(t, ks, Tx{From: a.Address, To: b.Address, Value: 1, Nonce: 0, Gas: 1, GasPrice: 1})
	stx2 := signTx(t, ks, Tx{From: a.Address, To: b.Address, Value: 1, Nonce: 1, Gas: 1, GasPrice: 1})
	require.NoError(t, pool.Add(stx1))
	require.NoError(t, pool.Add(stx2))

	pool.RemoveMined(Block{Txs: []SignedTx{stx1}})
	require.Equal(t, 1, pool.Len())

	snapshot := pool.SnapshotSorted()
	require.Len(t, snapshot, 1)
	hash, err := snapshot[0].Hash()
	require.NoError(t, err)
	wantHash, err := stx2.Hash()
	require.NoError(t, err)
	require.Equal(t, wantHash, hash)
}

func TestPoolDropAccount(t *testing.T) {
	ks, err := wallet.NewKeystore("")
	require.NoError(t, err)
	a, err := ks.NewAccount()
	require.NoError(t, err)
	b, err := ks.NewAccount()
	require.NoError(t, err)

	pool := NewPool()
	stx1 := signTx(t, ks, Tx{From: a.Address, To: b.Address, Value: 1, Nonce: 0, Gas: 1, GasPrice: 1})
	stx2 := signTx(t, ks, Tx{From: b.Address, To: a.Address, Value: 1, Nonce: 0, Gas: 1, GasPrice: 1})
	require.NoError(t, pool.Add(stx1))
	require.NoError(t, pool.Add(stx2))

	pool.DropAccount(a.Address)
	require.Equal(t, 1, pool.Len())
}
