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

package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	b58 "github.com/mr-tron/base58"
)

// Generate an account keypair with the ed25519 crypto algorithm.
// Since we can always reconstruct the true private key from the
// same seed, the randomly generated seed acts as an equivalent
// private key.
func accountKeypair() (string, string, error) {
	var seed [32]byte
	_, err := io.ReadFull(rand.Reader, seed[:])
	if err != nil {
		return "", "", err
	}
	privateKey := ed25519.NewKeyFromSeed(seed[:])
	publicKey := privateKey.Public().(ed25519.PublicKey)

	var pk [32]byte
	copy(pk[:], publicKey)
	acc := &Key{Code: KeyTypeAccountID, Hash: pk}
	sd := &Key{Code: KeyTypeSeed, Hash: seed}

	pubKeyStr := EncodeKey(acc)
	seedStr := EncodeKey(sd)

	return pubKeyStr, seedStr, nil
}

// Reconstruct the true private key from the seed. It is supposed
// to be used only in situations where you need to sign data so
// that the authenticity can be verified with the corresponding
// public key.
func getPrivateKey(seed string) (ed25519.PrivateKey, error) {
	if seed == "" {
		return nil, fmt.Errorf("empty seed")
	}
	k, err := DecodeKey(seed)
	if err != nil {
		return nil, err
	}
	if k.Code != KeyTypeSeed {
		return nil, errors.New("incorrect seed key type")
	}
	privateKey := ed25519.NewKeyFromSeed(k.Hash[:])
	return privateKey, nil
}

// GetAccountKeypair randomly generates a pair of account public
// key and seed.
func GetAccountKeypair() (string, string, error) {
	publicKey, seed, err := accountKeypair()
	if err != nil {
		return "", "", err
	}
	return publicKey, seed, err
}

// GetAccountKeypairFromSeed generates the account keypair from
// the provided raw seed.
func GetAccountKeypairFromSeed(seed []byte) (string, string, error) {
	if len(seed) != 32 {
		return "", "", errors.New("invalid seed, byte length is not 32")
	}
	privateKey := ed25519.NewKeyFromSeed(seed)
	publicKey := privateKey.Public().(ed25519.PublicKey)

	var pk [32]byte
	copy(pk[:], publicKey)
	acc := &Key{Code: KeyTypeAccountID, Hash: pk}

	var sdk [32]byte
	copy(sdk[:], seed)
	sd := &Key{Code: KeyTypeSeed, Hash: sdk}

	pubKeyStr := EncodeKey(acc)
	seedStr := EncodeKey(sd)

	return pubKeyStr, seedStr, nil
}

// AddressFromSeed derives the account address controlled by the
// supplied signing seed.
func AddressFromSeed(seed string) (string, error) {
	k, err := DecodeKey(seed)
	if err != nil {
		return "", err
	}
	if k.Code != KeyTypeSeed {
		return "", errors.New("incorrect seed key type")
	}
	privateKey := ed25519.NewKeyFromSeed(k.Hash[:])
	publicKey := privateKey.Public().(ed25519.PublicKey)

	var pk [32]byte
	copy(pk[:], publicKey)
	return EncodeKey(&Key{Code: KeyTypeAccountID, Hash: pk}), nil
}

// Sign the data with the provided seed (equivalent private key).
func Sign(seed string, data []byte) (string, error) {
	pk, err := getPrivateKey(seed)
	if err != nil {
		return "", err
	}

	signature := ed25519.Sign(pk, data)
	signStr := b58.Encode(signature)

	return signStr, nil
}

// Verify the data signature with the encoded string representation
// of the public key.
func Verify(publicKey, signature string, data []byte) bool {
	pk, err := DecodeKey(publicKey)
	if err != nil {
		return false
	}
	return VerifyByKey(pk, signature, data)
}

// VerifyByKey verifies the data signature using a decoded Key.
func VerifyByKey(pk *Key, signature string, data []byte) bool {
	sn, err := b58.Decode(signature)
	if err != nil {
		return false
	}
	pub := ed25519.PublicKey(pk.Hash[:])
	return ed25519.Verify(pub, data, sn)
}
