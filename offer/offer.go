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

// Package offer manages an account's open exchange offers.
package offer

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lumenpay/go-lumenpay/account"
	"github.com/lumenpay/go-lumenpay/amount"
	"github.com/lumenpay/go-lumenpay/asset"
	"github.com/lumenpay/go-lumenpay/gateway"
	"github.com/lumenpay/go-lumenpay/log"
	"github.com/lumenpay/go-lumenpay/txbuild"
)

// ErrOfferNotFound means the account has no open offer with the
// given id.
var ErrOfferNotFound = errors.New("offer not found")

// newOfferID marks a ManageOffer op as create-new.
const newOfferID = "0"

// Manager drives offer operations of one account. Like the payment
// orchestrator it must not be shared by concurrent mutating calls.
type Manager struct {
	acc       *account.Account
	state     *account.State
	gw        gateway.Gateway
	networkID [32]byte
}

// NewManager binds an offer manager to an account. The state must
// be the same one every other submitting component of the account
// uses, or their cached sequence numbers diverge.
func NewManager(acc *account.Account, state *account.State, gw gateway.Gateway, networkID [32]byte) *Manager {
	return &Manager{
		acc:       acc,
		state:     state,
		gw:        gw,
		networkID: networkID,
	}
}

// CreateOffer places a new offer selling amt of the selling asset
// at the given price (selling in terms of buying).
func (m *Manager) CreateOffer(selling, buying asset.Asset, price, amt string) (string, error) {
	if _, err := decimal.NewFromString(price); err != nil {
		return "", fmt.Errorf("invalid offer price %q: %v", price, err)
	}
	units, err := amount.ToBase(amt)
	if err != nil {
		return "", err
	}
	if units == 0 {
		return "", errors.New("offer amount must be positive")
	}

	log.Infow("creating offer", "selling", selling.String(), "buying", buying.String(), "price", price, "amount", amt)
	return m.submit(&txbuild.ManageOffer{
		Selling: selling,
		Buying:  buying,
		Price:   price,
		Amount:  units,
		OfferID: newOfferID,
	})
}

// GetOffers lists the account's open offers.
func (m *Manager) GetOffers() ([]*gateway.OfferRecord, error) {
	return m.gw.Offers(m.acc.Address)
}

// GetOffer finds one open offer by id.
func (m *Manager) GetOffer(offerID string) (*gateway.OfferRecord, error) {
	offers, err := m.gw.Offers(m.acc.Address)
	if err != nil {
		return nil, err
	}
	for _, o := range offers {
		if o.ID == offerID {
			return o, nil
		}
	}
	return nil, ErrOfferNotFound
}

// DeleteOffer cancels an open offer. The network requires the
// cancel op to echo the live offer's selling, buying and price
// unchanged, so those are re-derived from a fresh lookup rather
// than taken from the caller.
func (m *Manager) DeleteOffer(offerID string) (string, error) {
	live, err := m.GetOffer(offerID)
	if err != nil {
		return "", err
	}

	log.Infof("cancelling offer %s", offerID)
	return m.submit(&txbuild.ManageOffer{
		Selling: live.Selling,
		Buying:  live.Buying,
		Price:   live.Price,
		Amount:  0,
		OfferID: live.ID,
	})
}

// DeleteAllOffers cancels every open offer, best effort. A failed
// cancel never aborts the sweep; the ids that could not be
// cancelled come back in the second return value.
func (m *Manager) DeleteAllOffers() ([]string, []string, error) {
	offers, err := m.gw.Offers(m.acc.Address)
	if err != nil {
		return nil, nil, err
	}

	var hashes, failed []string
	for _, o := range offers {
		hash, err := m.submit(&txbuild.ManageOffer{
			Selling: o.Selling,
			Buying:  o.Buying,
			Price:   o.Price,
			Amount:  0,
			OfferID: o.ID,
		})
		if err != nil {
			log.Warnf("cancel offer %s failed: %v", o.ID, err)
			failed = append(failed, o.ID)
			continue
		}
		hashes = append(hashes, hash)
	}
	return hashes, failed, nil
}

// submit builds, signs and submits a single-op transaction, keeping
// the same sequence discipline as the payment path: advance on
// success, discard the cached state on any failure.
func (m *Manager) submit(op txbuild.TxMutator) (string, error) {
	if err := m.state.Load(false); err != nil {
		return "", err
	}
	seq, err := m.state.SeqNum()
	if err != nil {
		return "", err
	}

	b := txbuild.NewBuilder()
	if err := b.Add(
		&txbuild.AccountID{AccountID: m.acc.Address},
		&txbuild.SeqNum{SeqNum: seq + 1},
		op,
	); err != nil {
		return "", err
	}

	signer, err := m.acc.Signer()
	if err != nil {
		return "", err
	}
	env, err := signer.Sign(b, m.networkID)
	if err != nil {
		return "", err
	}

	hash, err := m.gw.SubmitTx(env)
	if err != nil {
		m.state.Reset()
		return "", err
	}
	m.state.AdvanceSeq()
	return hash, nil
}
