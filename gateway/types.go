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

package gateway

import (
	"time"

	"github.com/lumenpay/go-lumenpay/asset"
)

// Order of a paginated feed walk.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Balance is one entry of an account's balance list. Holding a
// balance entry for an issued asset implies a trustline for it.
type Balance struct {
	Asset  asset.Asset `json:"asset"`
	Amount string      `json:"amount"`
	Limit  string      `json:"limit,omitempty"`
}

// SignerInfo is one signing key attached to an account.
type SignerInfo struct {
	Address string `json:"address"`
	Weight  uint32 `json:"weight"`
}

// AccountSnapshot is the query API's view of one account at the
// moment of the lookup.
type AccountSnapshot struct {
	AccountID string       `json:"account_id"`
	SeqNum    uint64       `json:"seq_num"`
	Balances  []Balance    `json:"balances"`
	Signers   []SignerInfo `json:"signers"`
}

// OpRecord is one operation inside a historical transaction.
type OpRecord struct {
	// payment | path_payment | create_account | manage_offer | ...
	Type        string      `json:"type"`
	Destination string      `json:"destination,omitempty"`
	Amount      string      `json:"amount,omitempty"`
	Asset       asset.Asset `json:"asset,omitempty"`
	// Path payment delivery side.
	DestAmount string      `json:"dest_amount,omitempty"`
	DestAsset  asset.Asset `json:"dest_asset,omitempty"`
}

// TxRecord is one historical transaction from the feed. IDs are
// opaque but strictly and monotonically orderable per account,
// which makes them usable as resumption cursors.
type TxRecord struct {
	ID        string      `json:"id"`
	Hash      string      `json:"hash"`
	Source    string      `json:"source_account"`
	Memo      string      `json:"memo,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	Ops       []*OpRecord `json:"operations"`
}

// TxPage is one page of the transaction feed.
type TxPage struct {
	Records []*TxRecord `json:"records"`
	HasNext bool        `json:"has_next"`
}

// EffectRecord is one entry of the account effect feed, covering
// exchange trades among others.
type EffectRecord struct {
	ID           string      `json:"id"`
	Type         string      `json:"type"`
	CreatedAt    time.Time   `json:"created_at"`
	Amount       string      `json:"amount,omitempty"`
	Asset        asset.Asset `json:"asset,omitempty"`
	SoldAmount   string      `json:"sold_amount,omitempty"`
	SoldAsset    asset.Asset `json:"sold_asset,omitempty"`
	BoughtAmount string      `json:"bought_amount,omitempty"`
	BoughtAsset  asset.Asset `json:"bought_asset,omitempty"`
}

// EffectPage is one page of the effect feed.
type EffectPage struct {
	Records []*EffectRecord `json:"records"`
	HasNext bool            `json:"has_next"`
}

// OfferRecord is one open exchange offer of an account.
type OfferRecord struct {
	ID      string      `json:"id"`
	Selling asset.Asset `json:"selling"`
	Buying  asset.Asset `json:"buying"`
	Price   string      `json:"price"`
	Amount  string      `json:"amount"`
}
