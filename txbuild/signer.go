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

package txbuild

import (
	"errors"
	"fmt"

	"github.com/lumenpay/go-lumenpay/crypto"
)

// Signer applies the account's signing keys to a built transaction.
// The primary seed signs first, then every co-signer seed in the
// order they were supplied. The order is a correctness invariant:
// the network keeps the first N signatures as authoritative, so a
// reordering can invalidate an otherwise well-signed envelope.
type Signer struct {
	seeds []string
}

// NewSigner creates a signer from the primary seed and the ordered
// co-signer seeds.
func NewSigner(primary string, coSigners ...string) (*Signer, error) {
	if primary == "" {
		return nil, errors.New("empty primary seed")
	}
	seeds := append([]string{primary}, coSigners...)
	for _, s := range seeds {
		if !crypto.IsValidSeedKey(s) {
			return nil, errors.New("invalid seed key")
		}
	}
	return &Signer{seeds: seeds}, nil
}

// Sign produces the submission envelope for the built transaction,
// binding the signatures to the given network. The builder is
// sealed afterwards; a signed transaction is immutable.
func (s *Signer) Sign(b *Builder, networkID [32]byte) (*Envelope, error) {
	if b == nil || b.Tx == nil {
		return nil, ErrNilTx
	}
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("tx is invalid: %v", err)
	}

	payload, err := SignaturePayload(networkID, b.Tx)
	if err != nil {
		return nil, err
	}

	env := &Envelope{Tx: b.Tx}
	for _, seed := range s.seeds {
		signature, err := crypto.Sign(seed, payload)
		if err != nil {
			return nil, fmt.Errorf("sign the tx failed: %v", err)
		}
		addr, err := crypto.AddressFromSeed(seed)
		if err != nil {
			return nil, err
		}
		env.Signatures = append(env.Signatures, Signature{
			Signer:    addr,
			Signature: signature,
		})
	}

	b.sealed = true

	return env, nil
}
