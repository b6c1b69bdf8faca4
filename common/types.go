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

package common

import (
	"encoding/hex"
	"fmt"
)

// HashLength is the expected length of the output of Keccak256.
const HashLength = 32

// Hash represents the 32 byte output of Keccak256.
type Hash [HashLength]byte

// BytesToHash sets b to the rightmost HashLength bytes of Hash.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

func (h Hash) IsZero() bool { return h == Hash{} }

// MarshalText renders the hash as 0x-prefixed lowercase hex, the form every
// user-facing encoding (JSON included) uses.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText parses a 0x-prefixed hex string.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := HexToHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// getShardIndex implements common.CacheKey so a Hash can key a sharded LRU cache.
func (h Hash) getShardIndex(shardMask int) int {
	return int(h[HashLength-1]) & shardMask
}

// Address is a user-facing account identifier: an opaque string rather than
// a fixed-width byte array derived in-package. The wallet package owns how
// an address is derived from a key and verified against a signature; the
// chain engine only compares and stores address strings.
type Address string

func (a Address) String() string { return string(a) }

func (a Address) IsZero() bool { return a == "" }

func (a Address) getShardIndex(shardMask int) int {
	h := 0
	for i := 0; i < len(a); i++ {
		h = h*31 + int(a[i])
	}
	if h < 0 {
		h = -h
	}
	return h & shardMask
}

// ZeroHash is the all-zero hash used as the genesis block's parent hash.
var ZeroHash = Hash{}

// HexToHash decodes a 0x-prefixed hex string into a Hash.
func HexToHash(s string) (Hash, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hash hex: %w", err)
	}
	return BytesToHash(b), nil
}
