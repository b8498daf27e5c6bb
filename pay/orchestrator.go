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

// Package pay orchestrates payment transactions for one account:
// it decides which operations are needed to move value to a
// destination, then drives building, signing and submission.
package pay

import (
	"fmt"

	"github.com/lumenpay/go-lumenpay/account"
	"github.com/lumenpay/go-lumenpay/amount"
	"github.com/lumenpay/go-lumenpay/asset"
	"github.com/lumenpay/go-lumenpay/crypto"
	"github.com/lumenpay/go-lumenpay/gateway"
	"github.com/lumenpay/go-lumenpay/log"
	"github.com/lumenpay/go-lumenpay/txbuild"
)

// Orchestrator owns the mutating operations of one account. It is
// not safe for concurrent use: two in-flight submissions would
// race on the cached sequence number. Serialize per account.
type Orchestrator struct {
	acc       *account.Account
	state     *account.State
	gw        gateway.Gateway
	networkID [32]byte
}

// NewOrchestrator binds an orchestrator to an account. Every
// component submitting for the same account must share the same
// state, or their cached sequence numbers diverge.
func NewOrchestrator(acc *account.Account, state *account.State, gw gateway.Gateway, networkID [32]byte) *Orchestrator {
	return &Orchestrator{
		acc:       acc,
		state:     state,
		gw:        gw,
		networkID: networkID,
	}
}

// State exposes the cached account state for read operations.
func (o *Orchestrator) State() *account.State {
	return o.state
}

// SendPayment moves amt of the asset to the destination. An
// unfunded destination selects the create-account path instead of
// a payment; the network charges a fee even for failed
// submissions, so every precondition that can be checked locally
// or with a read is checked before anything is signed.
func (o *Orchestrator) SendPayment(destination, amt, memo string, a asset.Asset) (Outcome, error) {
	if !crypto.IsValidAccountKey(destination) {
		log.Warnf("invalid destination: %s", destination)
		return soft(gateway.ResultBadDestination), nil
	}

	parsed, err := amount.Parse(amt)
	if err != nil {
		return Outcome{}, err
	}
	units, err := amount.ToBase(amt)
	if err != nil {
		return Outcome{}, err
	}

	// Load the source state, reusing a cached snapshot.
	if err := o.state.Load(false); err != nil {
		if err == account.ErrNoAccount {
			return soft(gateway.ResultBadSource), nil
		}
		return Outcome{}, err
	}

	log.Infow("sending payment", "dest", destination, "amount", amt, "asset", a.String())

	// Probe the destination with a fresh lookup. Absence is not an
	// error here; it selects the create-account path.
	destSnapshot, err := o.gw.LoadAccount(destination)
	destExists := true
	if err != nil {
		if !gateway.IsNotFound(err) {
			return Outcome{}, err
		}
		log.Warnf("destination account not found: %s", destination)
		destExists = false
	}

	var op txbuild.TxMutator
	if destExists {
		// Destination trust is always checked against the fresh
		// destination snapshot, never against any cache: trust can
		// change between observations.
		if !account.SnapshotHasTrust(destSnapshot, a) {
			return soft(gateway.ResultNoTrust), nil
		}
		op = &txbuild.Payment{AccountID: destination, Asset: a, Amount: units}
	} else {
		// Only the native asset can fund a new account.
		if !a.IsNative() {
			log.Warnf("cannot send issued assets to an inactive account")
			return soft(gateway.ResultNoAccount), nil
		}
		if amount.BelowCreateMinimum(parsed) {
			return soft(gateway.ResultInsufficientBalance), nil
		}
		log.Infof("creating account %s", destination)
		op = &txbuild.CreateAccount{AccountID: destination, Balance: units}
	}

	return o.buildAndSubmit(memo, op)
}

// CreateAccount explicitly funds a new account. An already
// activated destination reports already_exists.
func (o *Orchestrator) CreateAccount(destination, amt, memo string) (Outcome, error) {
	if !crypto.IsValidAccountKey(destination) {
		return soft(gateway.ResultBadDestination), nil
	}

	parsed, err := amount.Parse(amt)
	if err != nil {
		return Outcome{}, err
	}
	if amount.BelowCreateMinimum(parsed) {
		return soft(gateway.ResultInsufficientBalance), nil
	}
	units, err := amount.ToBase(amt)
	if err != nil {
		return Outcome{}, err
	}

	_, err = o.gw.LoadAccount(destination)
	if err == nil {
		log.Warnf("destination already exists: %s", destination)
		return soft(gateway.ResultAlreadyExists), nil
	}
	if !gateway.IsNotFound(err) {
		return Outcome{}, err
	}

	if err := o.state.Load(false); err != nil {
		if err == account.ErrNoAccount {
			return soft(gateway.ResultBadSource), nil
		}
		return Outcome{}, err
	}

	return o.buildAndSubmit(memo, &txbuild.CreateAccount{AccountID: destination, Balance: units})
}

// SendPathPayment delivers destAmount of destAsset by spending at
// most sendMax of sendAsset through the exchange.
func (o *Orchestrator) SendPathPayment(sendAsset asset.Asset, sendMax string, destination string, destAsset asset.Asset, destAmount string, path []asset.Asset) (Outcome, error) {
	if !crypto.IsValidAccountKey(destination) {
		return soft(gateway.ResultBadDestination), nil
	}
	maxUnits, err := amount.ToBase(sendMax)
	if err != nil {
		return Outcome{}, err
	}
	destUnits, err := amount.ToBase(destAmount)
	if err != nil {
		return Outcome{}, err
	}

	if err := o.state.Load(false); err != nil {
		if err == account.ErrNoAccount {
			return soft(gateway.ResultBadSource), nil
		}
		return Outcome{}, err
	}

	return o.buildAndSubmit("", &txbuild.PathPayment{
		SendAsset:  sendAsset,
		SendMax:    maxUnits,
		AccountID:  destination,
		DestAsset:  destAsset,
		DestAmount: destUnits,
		Path:       path,
	})
}

// AcceptAsset opts the account into holding the issued asset. It
// is a no-op when the trustline already exists; the check uses a
// fresh lookup of the account itself.
func (o *Orchestrator) AcceptAsset(a asset.Asset, limit string) (Outcome, error) {
	if a.IsNative() {
		return Outcome{}, fmt.Errorf("native asset needs no trustline")
	}

	snapshot, err := o.gw.LoadAccount(o.acc.Address)
	if err != nil {
		if gateway.IsNotFound(err) {
			return soft(gateway.ResultBadSource), nil
		}
		return Outcome{}, err
	}
	if account.SnapshotHasTrust(snapshot, a) {
		log.Infof("trust for %s already established", a.String())
		return noop(), nil
	}

	limitUnits, err := amount.ToBase(limit)
	if err != nil {
		return Outcome{}, err
	}

	if err := o.state.Load(false); err != nil {
		return Outcome{}, err
	}

	log.Infof("accepting asset %s", a.String())
	return o.buildAndSubmit("", &txbuild.Trust{Asset: a, Limit: limitUnits})
}

// buildAndSubmit assembles a transaction from the loaded state,
// signs it with the account's keys and submits it exactly once.
// Any failure discards the cached snapshot: the sequence number
// may have been consumed downstream and must be re-read instead of
// retried in place.
func (o *Orchestrator) buildAndSubmit(memo string, ops ...txbuild.TxMutator) (Outcome, error) {
	seq, err := o.state.SeqNum()
	if err != nil {
		return Outcome{}, err
	}

	b := txbuild.NewBuilder()
	muts := []txbuild.TxMutator{
		&txbuild.AccountID{AccountID: o.acc.Address},
		&txbuild.SeqNum{SeqNum: seq + 1},
	}
	muts = append(muts, ops...)
	if memo != "" {
		muts = append(muts, &txbuild.Memo{Memo: memo})
	}
	if err := b.Add(muts...); err != nil {
		return Outcome{}, err
	}

	signer, err := o.acc.Signer()
	if err != nil {
		return Outcome{}, err
	}
	env, err := signer.Sign(b, o.networkID)
	if err != nil {
		return Outcome{}, err
	}

	hash, err := o.gw.SubmitTx(env)
	if err != nil {
		o.state.Reset()
		if re, ok := gateway.AsResultError(err); ok {
			return soft(re.Code), nil
		}
		// Unclassified transport failure. Never resubmit: the first
		// attempt may have been applied even though the response
		// was lost.
		return Outcome{}, err
	}

	o.state.AdvanceSeq()
	log.Infow("tx applied", "hash", hash, "seq", seq+1)
	return success(hash), nil
}
