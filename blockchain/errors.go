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
	"fmt"

	"github.com/tinychain/tinychain/common"
)

// Block-level errors are named, comparable sentinel values so the API and
// gossip layers can map them to status codes by identity.
var (
	ErrInvalidBlockNumber = errNamed("blockchain: block number is not parent's number + 1")
	ErrInvalidParentHash  = errNamed("blockchain: block's parent hash does not match the current head")
	ErrInvalidBlockHash   = errNamed("blockchain: block hash does not satisfy the mining difficulty target")
	ErrBlockNotFound      = errNamed("blockchain: no block at the requested height")
)

type errNamed string

func (e errNamed) Error() string { return string(e) }

// InvalidSignatureError reports that addr's signature over a transaction
// did not verify.
type InvalidSignatureError struct {
	Addr common.Address
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("blockchain: invalid signature for %s", e.Addr)
}

// InvalidNonceError reports a tx whose nonce is not the sender's expected
// next nonce.
type InvalidNonceError struct {
	Addr     common.Address
	Expected uint64
	Got      uint64
}

func (e *InvalidNonceError) Error() string {
	return fmt.Sprintf("blockchain: %s expected nonce %d, got %d", e.Addr, e.Expected, e.Got)
}

// InsufficientFundsError reports addr's balance fell short of a tx's cost
// (value plus gas).
type InsufficientFundsError struct {
	Addr common.Address
	Have uint64
	Need uint64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("blockchain: %s has %d, needs %d", e.Addr, e.Have, e.Need)
}

// BalanceOverflowError reports that crediting addr would overflow its
// balance.
type BalanceOverflowError struct {
	Addr common.Address
	Have uint64
	Add  uint64
}

func (e *BalanceOverflowError) Error() string {
	return fmt.Sprintf("blockchain: crediting %s with %d would overflow balance %d", e.Addr, e.Add, e.Have)
}

// OffendingAccount extracts the account named by a per-tx validation
// error, if any, so callers can drop its remaining pending txs.
func OffendingAccount(err error) (common.Address, bool) {
	switch e := err.(type) {
	case *InvalidSignatureError:
		return e.Addr, true
	case *InvalidNonceError:
		return e.Addr, true
	case *InsufficientFundsError:
		return e.Addr, true
	case *BalanceOverflowError:
		return e.Addr, true
	default:
		return "", false
	}
}
