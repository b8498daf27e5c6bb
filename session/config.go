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

// Package session wires a configured wallet: gateway, store,
// orchestrators and sync engine built once from a single config.
package session

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/lumenpay/go-lumenpay/account"
	"github.com/lumenpay/go-lumenpay/crypto"
)

type Config struct {
	// network ID hash derived from the network passphrase
	NetworkID [32]byte
	// address of the query API
	QueryAddr string
	// address of the federation server, optional
	FederationAddr string
	// database file path
	DBPath string
	// wallet account address
	Address string
	// wallet account seed, empty for watch-only sessions
	Seed string
	// co-signers applied after the primary seed, in order
	CoSigners []account.CoSigner
	// issuers whose assets the sync engine accepts
	TrustedIssuers []string
	// known assets by code
	Assets map[string]string
}

func NewConfig(v *viper.Viper) (*Config, error) {
	if v.GetString("network_passphrase") == "" {
		return nil, errors.New("network passphrase is missing")
	}
	if v.GetString("query_addr") == "" {
		return nil, errors.New("query API address is missing")
	}
	if v.GetString("db_path") == "" {
		return nil, errors.New("db path is empty")
	}
	if v.GetString("address") == "" {
		return nil, errors.New("wallet address is empty")
	}
	if !crypto.IsValidAccountKey(v.GetString("address")) {
		return nil, errors.New("wallet address is invalid")
	}
	if seed := v.GetString("seed"); seed != "" && !crypto.IsValidSeedKey(seed) {
		return nil, errors.New("wallet seed is invalid")
	}

	var coSigners []account.CoSigner
	for _, cs := range v.GetStringSlice("co_signer_seeds") {
		if !crypto.IsValidSeedKey(cs) {
			return nil, errors.New("co-signer seed is invalid")
		}
		addr, err := crypto.AddressFromSeed(cs)
		if err != nil {
			return nil, fmt.Errorf("derive co-signer address failed: %v", err)
		}
		coSigners = append(coSigners, account.CoSigner{Address: addr, Seed: cs})
	}

	for _, issuer := range v.GetStringSlice("trusted_issuers") {
		if !crypto.IsValidAccountKey(issuer) {
			return nil, fmt.Errorf("trusted issuer %s is invalid", issuer)
		}
	}

	assets := make(map[string]string)
	for code, issuer := range v.GetStringMapString("assets") {
		assets[code] = issuer
	}

	c := Config{
		NetworkID:      sha256.Sum256([]byte(v.GetString("network_passphrase"))),
		QueryAddr:      v.GetString("query_addr"),
		FederationAddr: v.GetString("federation_addr"),
		DBPath:         v.GetString("db_path"),
		Address:        v.GetString("address"),
		Seed:           v.GetString("seed"),
		CoSigners:      coSigners,
		TrustedIssuers: v.GetStringSlice("trusted_issuers"),
		Assets:         assets,
	}

	return &c, nil
}
