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

// Package txbuild assembles, encodes and signs transactions for
// submission to the network.
package txbuild

import (
	"github.com/lumenpay/go-lumenpay/asset"
)

type OpType uint8

// enumeration of operation types
const (
	_ OpType = iota // skip zero
	OpCreateAccount
	OpPayment
	OpPathPayment
	OpManageOffer
	OpTrust
	OpSetOptions
)

// Tx is the wire form of a transaction. The field order is part of
// the signing payload and must not be rearranged.
type Tx struct {
	// Source account of the transaction.
	AccountID string
	// Sequence number the transaction consumes.
	SeqNum uint64
	// Total fee in base units.
	Fee int64
	// Optional text memo.
	Memo string `json:",omitempty"`
	// Operations applied atomically by the network.
	OpList []*Op
}

// Op is a tagged operation variant. Exactly one of the operation
// pointers is set, matching Type.
type Op struct {
	Type          OpType
	CreateAccount *CreateAccountOp `json:",omitempty"`
	Payment       *PaymentOp       `json:",omitempty"`
	PathPayment   *PathPaymentOp   `json:",omitempty"`
	ManageOffer   *ManageOfferOp   `json:",omitempty"`
	Trust         *TrustOp         `json:",omitempty"`
	SetOptions    *SetOptionsOp    `json:",omitempty"`
}

// CreateAccountOp funds a previously unactivated account.
type CreateAccountOp struct {
	AccountID string
	// Starting balance in base units of the native asset.
	Balance int64
}

// PaymentOp moves an amount of one asset to the destination.
type PaymentOp struct {
	AccountID string
	Asset     asset.Asset
	Amount    int64
}

// PathPaymentOp sends SendAsset and delivers DestAsset through the
// exchange, spending at most SendMax.
type PathPaymentOp struct {
	SendAsset  asset.Asset
	SendMax    int64
	AccountID  string
	DestAsset  asset.Asset
	DestAmount int64
	Path       []asset.Asset `json:",omitempty"`
}

// ManageOfferOp creates, updates or cancels an exchange offer.
// OfferID "0" creates a new offer; Amount 0 cancels an existing
// one, in which case Selling, Buying and Price must echo the live
// offer unchanged.
type ManageOfferOp struct {
	Selling asset.Asset
	Buying  asset.Asset
	// Price of the selling asset in terms of the buying asset,
	// as a decimal string.
	Price   string
	Amount  int64
	OfferID string
}

// TrustOp opts the source account into holding an issued asset.
type TrustOp struct {
	Asset asset.Asset
	Limit int64
}

// SignerWeight sets the weight of an additional signing key; a
// weight of zero removes the signer.
type SignerWeight struct {
	Address string
	Weight  uint32
}

// SetOptionsOp adjusts account-level options. Nil fields are left
// untouched by the network.
type SetOptionsOp struct {
	HomeDomain    *string       `json:",omitempty"`
	MasterWeight  *uint32       `json:",omitempty"`
	LowThreshold  *uint32       `json:",omitempty"`
	MedThreshold  *uint32       `json:",omitempty"`
	HighThreshold *uint32       `json:",omitempty"`
	Signer        *SignerWeight `json:",omitempty"`
}

// Signature is one signature over the transaction payload.
type Signature struct {
	// Address of the signing key.
	Signer string
	// Base58 encoded ed25519 signature.
	Signature string
}

// Envelope is a transaction together with its signatures, ready
// for submission. The signature order is authoritative: networks
// may cap or de-duplicate signatures keeping only the first N.
type Envelope struct {
	Tx         *Tx
	Signatures []Signature
}
