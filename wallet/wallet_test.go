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

package wallet

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	ks, err := NewKeystore("")
	require.NoError(t, err)
	acct, err := ks.NewAccount()
	require.NoError(t, err)

	msg := []byte("transfer payload")
	sig, err := ks.Sign(acct.Address, msg)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	require.True(t, Verify(acct.Address, msg, sig))
}

func TestVerifyRejectsWrongAddress(t *testing.T) {
	ks, err := NewKeystore("")
	require.NoError(t, err)
	a, err := ks.NewAccount()
	require.NoError(t, err)
	b, err := ks.NewAccount()
	require.NoError(t, err)

	msg := []byte("transfer payload")
	sig, err := ks.Sign(a.Address, msg)
	require.NoError(t, err)
	require.False(t, Verify(b.Address, msg, sig))
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	ks, err := NewKeystore("")
	require.NoError(t, err)
	acct, err := ks.NewAccount()
	require.NoError(t, err)

	sig, err := ks.Sign(acct.Address, []byte("original"))
	require.NoError(t, err)
	require.False(t, Verify(acct.Address, []byte("tampered"), sig))
}

func TestSignUnknownAddressFails(t *testing.T) {
	ks, err := NewKeystore("")
	require.NoError(t, err)
	_, err = ks.Sign("0xnotregistered", []byte("msg"))
	require.ErrorIs(t, err, ErrLocked)
}

func TestImportRecoversSameAddress(t *testing.T) {
	ks, err := NewKeystore("")
	require.NoError(t, err)
	acct, err := ks.NewAccount()
	require.NoError(t, err)

	ks2, err := NewKeystore("")
	require.NoError(t, err)
	_, err = ks2.Import(hex.EncodeToString(acct.key.Serialize()))
	require.NoError(t, err)
	require.True(t, ks2.HasAddress(acct.Address))
}
