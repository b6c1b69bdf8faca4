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

// Package wallet is the cryptographic collaborator the chain engine
// depends on but does not own: key generation, signing and signature
// verification. One account per key, address derived from the public key
// hash.
package wallet

import (
	"encoding/hex"
	"errors"
	"os"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/google/uuid"
	"github.com/tinychain/tinychain/common"
	"github.com/tinychain/tinychain/crypto"
	"github.com/tinychain/tinychain/log"
)

var logger = log.NewModuleLogger(log.ModuleWallet)

// ErrLocked is returned when Sign is asked to use an address with no loaded key.
var ErrLocked = errors.New("wallet: account not present in keystore")

// Account pairs an address with the private key used to sign on its behalf.
type Account struct {
	Address common.Address
	key     *secp256k1.PrivateKey
	id      uuid.UUID
}

// Keystore holds the set of local accounts available for signing. Keys live
// in memory only: nothing is written to or read from the keystore
// directory, so accounts do not outlive the process that created them.
type Keystore struct {
	dir string

	mu       sync.RWMutex
	accounts map[common.Address]*Account
}

// NewKeystore returns an empty Keystore, creating the directory dir if it
// does not exist. Existing files in dir are not loaded.
func NewKeystore(dir string) (*Keystore, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
	}
	return &Keystore{dir: dir, accounts: make(map[common.Address]*Account)}, nil
}

// NewAccount generates a fresh secp256k1 keypair and registers it under a
// deterministic address string derived from its public key hash.
func (ks *Keystore) NewAccount() (*Account, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	acct := &Account{
		Address: addressFromPubKey(key.PubKey()),
		key:     key,
		id:      uuid.New(),
	}
	ks.mu.Lock()
	ks.accounts[acct.Address] = acct
	ks.mu.Unlock()
	logger.Info("new account created", "address", acct.Address, "id", acct.id)
	return acct, nil
}

// Import registers an existing raw private key (hex-encoded, no 0x prefix)
// under the keystore.
func (ks *Keystore) Import(hexKey string) (*Account, error) {
	b, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, err
	}
	key := secp256k1.PrivKeyFromBytes(b)
	acct := &Account{Address: addressFromPubKey(key.PubKey()), key: key, id: uuid.New()}
	ks.mu.Lock()
	ks.accounts[acct.Address] = acct
	ks.mu.Unlock()
	return acct, nil
}

// HasAddress reports whether addr has a loaded signing key.
func (ks *Keystore) HasAddress(addr common.Address) bool {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	_, ok := ks.accounts[addr]
	return ok
}

// Sign produces a 65-byte signature (64-byte ECDSA signature + 1-byte
// recovery id) over the Keccak-256 digest of msg, using the key registered
// for from.
func (ks *Keystore) Sign(from common.Address, msg []byte) ([]byte, error) {
	ks.mu.RLock()
	acct, ok := ks.accounts[from]
	ks.mu.RUnlock()
	if !ok {
		return nil, ErrLocked
	}
	digest := crypto.Keccak256(msg)
	sig := ecdsa.SignCompact(acct.key, digest, false)
	// SignCompact returns a 65-byte [recovery_id || r || s] signature;
	// the wire format here is [r || s || recovery_id], so rotate it.
	out := make([]byte, 65)
	copy(out[:64], sig[1:])
	out[64] = sig[0]
	return out, nil
}

// Verify reports whether sig is a valid signature over msg's Keccak-256
// digest recoverable to the address claimed by from.
func Verify(from common.Address, msg, sig []byte) bool {
	if len(sig) != 65 {
		return false
	}
	digest := crypto.Keccak256(msg)
	compact := make([]byte, 65)
	compact[0] = sig[64]
	copy(compact[1:], sig[:64])
	pub, _, err := ecdsa.RecoverCompact(compact, digest)
	if err != nil {
		return false
	}
	return addressFromPubKey(pub) == from
}

func addressFromPubKey(pub *secp256k1.PublicKey) common.Address {
	h := crypto.Keccak256(pub.SerializeUncompressed()[1:])
	return common.Address("0x" + hex.EncodeToString(h[12:]))
}
