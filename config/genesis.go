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

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tinychain/tinychain/common"
)

// Genesis holds the opening balances applied to the ledger once, only when
// it is completely empty.
type Genesis struct {
	Balances map[common.Address]uint64 `json:"balances"`
}

// ErrInvalidGenesis reports a genesis file that exists but does not decode.
type ErrInvalidGenesis struct {
	Path string
	Err  error
}

func (e *ErrInvalidGenesis) Error() string {
	return fmt.Sprintf("config: invalid genesis file %s: %v", e.Path, e.Err)
}

func (e *ErrInvalidGenesis) Unwrap() error { return e.Err }

// LoadGenesis decodes the genesis file at path. An empty path yields an
// empty Genesis rather than an error: a node started with no genesis_file
// simply begins with no balances.
func LoadGenesis(path string) (Genesis, error) {
	if path == "" {
		return Genesis{Balances: map[common.Address]uint64{}}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}
	var g Genesis
	if err := json.Unmarshal(raw, &g); err != nil {
		return Genesis{}, &ErrInvalidGenesis{Path: path, Err: err}
	}
	if g.Balances == nil {
		g.Balances = map[common.Address]uint64{}
	}
	return g, nil
}
