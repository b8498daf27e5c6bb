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

// Package store persists synced payment records, per-memo balances
// and feed cursors.
package store

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/lumenpay/go-lumenpay/sync"
)

// ErrTxNotFound means no persisted record has the requested id.
var ErrTxNotFound = errors.New("transaction record not found")

// Record is one persisted incoming payment, one per qualifying
// operation of a transaction.
type Record struct {
	TxID      string `json:"tx_id"`
	OpIndex   int    `json:"op_index"`
	Hash      string `json:"hash"`
	Address   string `json:"address"`
	Source    string `json:"source"`
	Memo      string `json:"memo"`
	AssetCode string `json:"asset_code"`
	Issuer    string `json:"issuer,omitempty"`
	Amount    string `json:"amount"`
}

// Store is the persistence boundary of the sync engine plus the
// read side used by callers. ApplyBatch must be all-or-nothing
// with the cursor written last inside the same transaction: after
// a partial failure the cursor stays put and the next pass replays
// the same window, so applying the same batch twice must be
// tolerated.
type Store interface {
	sync.Applier

	// GetTransaction finds one persisted record by transaction id.
	GetTransaction(txID string) (*Record, error)

	// FilterTransactions lists the persisted records of an address.
	FilterTransactions(address string) ([]*Record, error)

	// GetBalance reads the accumulated per-memo balance; zero when
	// the memo has never been credited.
	GetBalance(memo string) (decimal.Decimal, error)

	// SaveBalance overwrites the per-memo balance.
	SaveBalance(memo string, balance decimal.Decimal) error

	// Close releases the underlying resources.
	Close() error
}
