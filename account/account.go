// Copyright 2019 The go-lumenpay Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package account models a wallet account and its cached on-chain
// state.
package account

import (
	"errors"
	"fmt"

	"github.com/lumenpay/go-lumenpay/crypto"
	"github.com/lumenpay/go-lumenpay/txbuild"
)

// CoSigner is one additional signing key of a multi-signature
// account. The position within Account.CoSigners is significant.
type CoSigner struct {
	Address string
	Seed    string
}

// Account is the identity of one wallet account. Seed is empty for
// watch-only accounts, which can read state and history but cannot
// sign.
type Account struct {
	Address   string
	Seed      string
	CoSigners []CoSigner
}

// New validates and creates an account identity.
func New(address, seed string, coSigners ...CoSigner) (*Account, error) {
	if !crypto.IsValidAccountKey(address) {
		return nil, fmt.Errorf("invalid account address: %s", address)
	}
	if seed != "" && !crypto.IsValidSeedKey(seed) {
		return nil, errors.New("invalid account seed")
	}
	for _, cs := range coSigners {
		if !crypto.IsValidSeedKey(cs.Seed) {
			return nil, errors.New("invalid co-signer seed")
		}
	}
	return &Account{Address: address, Seed: seed, CoSigners: coSigners}, nil
}

// WatchOnly reports whether the account cannot sign transactions.
func (a *Account) WatchOnly() bool {
	return a.Seed == ""
}

// Signer builds the transaction signer for this account: primary
// key first, then every co-signer in stored order.
func (a *Account) Signer() (*txbuild.Signer, error) {
	if a.WatchOnly() {
		return nil, errors.New("watch-only account has no signing keys")
	}
	var seeds []string
	for _, cs := range a.CoSigners {
		seeds = append(seeds, cs.Seed)
	}
	return txbuild.NewSigner(a.Seed, seeds...)
}
