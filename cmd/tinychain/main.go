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

// Command tinychain boots a single chain-engine node: it loads config,
// opens the ledger, applies genesis, wires the Node facade and serves the
// HTTP API until interrupted.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/urfave/cli"

	"github.com/tinychain/tinychain/api"
	"github.com/tinychain/tinychain/blockchain"
	"github.com/tinychain/tinychain/cmd/utils"
	"github.com/tinychain/tinychain/config"
	"github.com/tinychain/tinychain/log"
	"github.com/tinychain/tinychain/node"
	"github.com/tinychain/tinychain/p2p"
	"github.com/tinychain/tinychain/storage/database"
	"github.com/tinychain/tinychain/wallet"
)

var logger = log.NewModuleLogger(log.ModuleCmdUtils)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a TOML configuration file",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "ledger storage directory (empty for an ephemeral in-memory ledger)",
	}
	dbBackendFlag = cli.StringFlag{
		Name:  "db.backend",
		Usage: "block store backend when --datadir is set: leveldb or badger",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to the genesis balances JSON file",
	}
	httpAddrFlag = cli.StringFlag{
		Name:  "http.addr",
		Usage: "HTTP API listen address",
	}
	authorFlag = cli.StringFlag{
		Name:  "author",
		Usage: "address credited with mined block rewards; unset disables mining",
	}
	difficultyFlag = cli.IntFlag{
		Name:  "difficulty",
		Usage: "number of required leading zero bytes in a valid block hash",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "tinychain"
	app.Usage = "a minimal permissioned proof-of-work blockchain node"
	app.Flags = []cli.Flag{configFlag, dataDirFlag, dbBackendFlag, genesisFlag, httpAddrFlag, authorFlag, difficultyFlag}
	app.Action = run

	app.Commands = []cli.Command{
		{
			Name:  "account",
			Usage: "manage local signing accounts",
			Subcommands: []cli.Command{
				{
					Name:   "new",
					Usage:  "generate a new signing account and print its address (the key is not saved)",
					Flags:  []cli.Flag{configFlag, dataDirFlag},
					Action: accountNew,
				},
			},
		},
		{
			Name:   "dumpconfig",
			Usage:  "print the effective configuration as TOML",
			Flags:  []cli.Flag{configFlag, dataDirFlag, dbBackendFlag, genesisFlag, httpAddrFlag, authorFlag, difficultyFlag},
			Action: dumpConfig,
		},
	}

	if err := app.Run(os.Args); err != nil {
		utils.Fatalf("%v", err)
	}
}

func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.String(configFlag.Name); path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			return config.Config{}, err
		}
	}
	if v := ctx.String(dataDirFlag.Name); v != "" {
		cfg.DataDir = v
	}
	if v := ctx.String(dbBackendFlag.Name); v != "" {
		cfg.DBBackend = v
	}
	if v := ctx.String(genesisFlag.Name); v != "" {
		cfg.GenesisFile = v
	}
	if v := ctx.String(httpAddrFlag.Name); v != "" {
		cfg.HTTPAddr = v
	}
	if v := ctx.String(authorFlag.Name); v != "" {
		cfg.Author = v
	}
	if ctx.IsSet(difficultyFlag.Name) {
		cfg.MiningDifficulty = ctx.Int(difficultyFlag.Name)
	}
	return cfg, nil
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return cfg.Dump(os.Stdout)
}

func accountNew(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	ks, err := wallet.NewKeystore(cfg.Wallet.KeystoreDir)
	if err != nil {
		return err
	}
	acct, err := ks.NewAccount()
	if err != nil {
		return err
	}
	fmt.Printf("new account: %s\n", acct.Address)
	return nil
}

func run(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		utils.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		utils.Fatalf("invalid configuration: %v", err)
	}

	db, err := database.NewDBManager(cfg.DBType(), cfg.DataDir, 0, 0)
	if err != nil {
		utils.Fatalf("failed to open database: %v", err)
	}

	ledger, err := blockchain.NewLedger(db, cfg.MiningDifficulty)
	if err != nil {
		utils.Fatalf("failed to open ledger: %v", err)
	}

	genesis, err := config.LoadGenesis(cfg.GenesisFile)
	if err != nil {
		utils.Fatalf("failed to load genesis file: %v", err)
	}
	if err := ledger.ApplyGenesis(genesis.Balances); err != nil {
		utils.Fatalf("failed to apply genesis balances: %v", err)
	}

	ks, err := wallet.NewKeystore(cfg.Wallet.KeystoreDir)
	if err != nil {
		utils.Fatalf("failed to open keystore: %v", err)
	}

	// A real deployment plugs in a transport-backed p2p.Network here; a
	// peerless network is used when none is configured.
	network := p2p.NopNetwork{}

	n, err := node.New(ledger, ks, network, cfg.AuthorAddress(), cfg.MiningDifficulty, 0, 0)
	if err != nil {
		utils.Fatalf("failed to start node: %v", err)
	}

	server := api.NewServer(n)
	httpServer := &http.Server{Addr: cfg.HTTPAddr, Handler: server.Handler()}

	logger.Info("starting tinychain node", "http_addr", cfg.HTTPAddr, "author", cfg.Author)
	utils.StartNode(n, httpServer)
	return nil
}
