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

// Package gateway abstracts the ledger network's query API:
// account lookups, transaction submission and the paginated
// transaction/effect feeds.
package gateway

import (
	"errors"
	"fmt"

	"github.com/lumenpay/go-lumenpay/txbuild"
)

// ErrNotFound means the requested entity does not exist on the
// network. For accounts this is not always fatal: an address that
// has never been funded reports ErrNotFound and may legitimately
// be the target of a create-account operation.
var ErrNotFound = errors.New("not found")

// ResultCode classifies an expected, business-level submission
// failure. Callers branch on these values instead of parsing
// transport errors.
type ResultCode string

const (
	ResultBadDestination      ResultCode = "bad_destination"
	ResultBadSource           ResultCode = "bad_source"
	ResultNoTrust             ResultCode = "no_trust"
	ResultNoAccount           ResultCode = "no_account"
	ResultInsufficientBalance ResultCode = "insufficient_balance"
	ResultAlreadyExists       ResultCode = "already_exists"
	ResultUnknown             ResultCode = "unknown"
)

// ResultError is a classified submission failure returned by the
// network. It is an expected outcome, not a transport fault.
type ResultError struct {
	Code ResultCode
	// Raw result code strings reported by the query API.
	TxCode  string
	OpCodes []string
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("submission failed: %s (tx=%s ops=%v)", e.Code, e.TxCode, e.OpCodes)
}

// AsResultError unwraps a classified submission failure, if any.
func AsResultError(err error) (*ResultError, bool) {
	var re *ResultError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsNotFound reports whether the error means the entity has never
// existed on the network.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Gateway is the boundary to the ledger network. Read-only calls
// are side-effect free and may be retried freely by callers;
// SubmitTx consumes a sequence number and must never be retried
// blindly, because the first attempt may have been applied even
// when its response was lost.
type Gateway interface {
	// LoadAccount fetches the current snapshot of an account.
	// Returns ErrNotFound for addresses that were never funded.
	LoadAccount(address string) (*AccountSnapshot, error)

	// SubmitTx submits a signed envelope and returns the
	// network-assigned transaction hash. Classified failures come
	// back as *ResultError; anything else is a transport error.
	SubmitTx(env *txbuild.Envelope) (string, error)

	// Transactions fetches one page of the account's transaction
	// feed starting after the supplied cursor.
	Transactions(address, cursor string, limit int, order Order) (*TxPage, error)

	// Transaction fetches one confirmed transaction by id.
	Transaction(txID string) (*TxRecord, error)

	// Effects fetches one page of the account's effect feed.
	Effects(address, cursor string, limit int, order Order) (*EffectPage, error)

	// Offers lists the account's open exchange offers.
	Offers(address string) ([]*OfferRecord, error)
}
