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

// Package params collects the protocol constants every other package reads.
package params

import "time"

const (
	// DefaultGas is the flat gas cost of every transfer transaction.
	DefaultGas uint64 = 21
	// DefaultGasPrice is the flat gas price applied when a transaction omits one.
	DefaultGasPrice uint64 = 1

	// DefaultMiningDifficulty is the number of required leading zero bytes in
	// a valid block hash when none is configured.
	DefaultMiningDifficulty = 2

	// MineInterval is the Miner's outer tick cadence.
	MineInterval = 30 * time.Second
	// SyncInterval is the Syncer's tick cadence, intentionally coprime with
	// MineInterval so the two loops interleave instead of lockstepping.
	SyncInterval = 29 * time.Second

	// MiningLogAttempts is how often the PoW loop emits a progress log line.
	MiningLogAttempts = 10000

	// P2PRequestTimeout bounds a single outbound P2P request/response round trip.
	P2PRequestTimeout = 10 * time.Second

	// HashLength is the byte width of a Hash, duplicated here (rather than
	// imported from common) only as a documented protocol constant; the
	// authoritative type lives in common.Hash.
	HashLength = 32
	// SignatureLength is the byte width of a SignedTx signature: 64-byte
	// ECDSA signature plus a 1-byte recovery id.
	SignatureLength = 65
)
