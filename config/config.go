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

// Package config is the node's TOML-file-and-flag driven configuration
// surface. Field names are preserved verbatim between Go and TOML so a
// dumped config round-trips through LoadFile without key renaming.
package config

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/naoina/toml"
	"github.com/tinychain/tinychain/common"
	"github.com/tinychain/tinychain/params"
	"github.com/tinychain/tinychain/storage/database"
)

var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) {
			link = fmt.Sprintf(" (see %s)", rt.String())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// P2PConfig carries the settings the p2p.Network implementation a real
// deployment plugs in would need. The chain engine never reads these
// itself; a node loads them and passes them through to the transport.
type P2PConfig struct {
	Addr              string        // listen multiaddress
	Secret            string        `toml:",omitempty"` // optional static identity secret
	BootNode          string        `toml:",omitempty"` // optional bootnode peer-id multiaddress
	DiscoveryInterval time.Duration // peer discovery cadence
	PubSubTopics      []string      // topics to subscribe, normally ["block", "tx"]
	ReqTimeout        time.Duration // outbound unary request timeout
	MaxMessageSize    int           // size cap enforced on inbound frames
}

// WalletConfig locates the local signing keystore.
type WalletConfig struct {
	KeystoreDir string
}

// Config is the full set of options the node recognizes.
type Config struct {
	DataDir          string
	DBBackend        string // "leveldb" (default) or "badger"; ignored when DataDir is empty
	GenesisFile      string
	HTTPAddr         string
	Author           string // hex address string, empty disables mining
	MiningDifficulty int
	P2P              P2PConfig
	Wallet           WalletConfig
}

// Default returns a Config usable for a single local node with an ephemeral
// in-memory ledger and no mining author.
func Default() Config {
	return Config{
		DBBackend:        "leveldb",
		HTTPAddr:         "127.0.0.1:8080",
		MiningDifficulty: params.DefaultMiningDifficulty,
		P2P: P2PConfig{
			Addr:              "/ip4/0.0.0.0/tcp/30333",
			DiscoveryInterval: 30 * time.Second,
			PubSubTopics:      []string{"block", "tx"},
			ReqTimeout:        params.P2PRequestTimeout,
			MaxMessageSize:    4 << 20,
		},
		Wallet: WalletConfig{KeystoreDir: "keystore"},
	}
}

// LoadFile decodes a TOML file at path over Default(), so an incomplete
// config file still yields sane values for every field it omits.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, &ErrConfigNotExist{Path: path}
		}
		return Config{}, err
	}
	defer f.Close()

	if err := tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&cfg); err != nil {
		if _, ok := err.(*toml.LineError); ok {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		return Config{}, err
	}
	return cfg, nil
}

// Dump writes c as TOML to w, in the same key layout LoadFile reads.
func (c Config) Dump(w io.Writer) error {
	return tomlSettings.NewEncoder(w).Encode(&c)
}

// ErrConfigNotExist reports that the path named by GenesisFile or a --config
// flag does not exist on disk.
type ErrConfigNotExist struct {
	Path string
}

func (e *ErrConfigNotExist) Error() string {
	return fmt.Sprintf("config: no such file: %s", e.Path)
}

// ErrInvalidHTTPAddr reports that HTTPAddr is not a valid host:port pair.
type ErrInvalidHTTPAddr struct {
	Addr string
}

func (e *ErrInvalidHTTPAddr) Error() string {
	return fmt.Sprintf("config: invalid http_addr: %s", e.Addr)
}

// Validate checks the fields the node needs to boot; failures here exit
// the process non-zero before anything is opened.
func (c Config) Validate() error {
	if c.GenesisFile != "" {
		if _, err := os.Stat(c.GenesisFile); err != nil {
			return &ErrConfigNotExist{Path: c.GenesisFile}
		}
	}
	if _, _, err := net.SplitHostPort(c.HTTPAddr); err != nil {
		return &ErrInvalidHTTPAddr{Addr: c.HTTPAddr}
	}
	if c.MiningDifficulty < 0 {
		return fmt.Errorf("config: mining_difficulty must be >= 0, got %d", c.MiningDifficulty)
	}
	switch strings.ToLower(c.DBBackend) {
	case "", "leveldb", "badger":
	default:
		return fmt.Errorf("config: unknown db backend %q, want leveldb or badger", c.DBBackend)
	}
	return nil
}

// AuthorAddress returns Author as a common.Address, the zero address if unset.
func (c Config) AuthorAddress() common.Address {
	if c.Author == "" {
		return ""
	}
	return common.Address(c.Author)
}

// DBType maps DataDir and DBBackend to a storage backend; an empty DataDir
// selects the ephemeral in-memory store regardless of DBBackend.
func (c Config) DBType() database.DBType {
	if c.DataDir == "" {
		return database.MemoryDB
	}
	if strings.EqualFold(c.DBBackend, "badger") {
		return database.Badger
	}
	return database.LevelDB
}
