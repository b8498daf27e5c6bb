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
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/lumenpay/go-lumenpay/log"
	"github.com/lumenpay/go-lumenpay/txbuild"
)

const (
	defaultTimeout = 30 * time.Second
	// Confirmed transactions are immutable; cache lookups by id.
	txCacheSize = 512
)

// HTTPGateway talks to the ledger's HTTP query API. No request is
// retried automatically: reads are safe for the caller to retry,
// and submissions are never safe to retry without checking whether
// the first attempt was applied.
type HTTPGateway struct {
	client  *resty.Client
	txCache *lru.Cache
}

// apiError is the problem body the query API attaches to rejected
// requests.
type apiError struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Extras struct {
		ResultCodes struct {
			Transaction string   `json:"transaction"`
			Operations  []string `json:"operations"`
		} `json:"result_codes"`
	} `json:"extras"`
}

type submitResponse struct {
	Hash string `json:"hash"`
}

// NewHTTPGateway creates a gateway bound to the query API at addr.
func NewHTTPGateway(addr string) (*HTTPGateway, error) {
	if addr == "" {
		return nil, errors.New("empty query API address")
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(addr, "/")).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")

	cache, err := lru.New(txCacheSize)
	if err != nil {
		return nil, err
	}

	return &HTTPGateway{client: client, txCache: cache}, nil
}

// LoadAccount fetches the current snapshot of an account.
func (g *HTTPGateway) LoadAccount(address string) (*AccountSnapshot, error) {
	var snapshot AccountSnapshot
	var apiErr apiError

	resp, err := g.client.R().
		SetResult(&snapshot).
		SetError(&apiErr).
		Get(fmt.Sprintf("/accounts/%s", address))
	if err != nil {
		return nil, errors.Wrap(err, "load account failed")
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.IsError() {
		return nil, errors.Errorf("load account failed: %s: %s", resp.Status(), apiErr.Detail)
	}
	return &snapshot, nil
}

// SubmitTx submits a signed envelope exactly once.
func (g *HTTPGateway) SubmitTx(env *txbuild.Envelope) (string, error) {
	if env == nil || env.Tx == nil {
		return "", errors.New("nil envelope")
	}

	var result submitResponse
	var apiErr apiError

	resp, err := g.client.R().
		SetBody(env).
		SetResult(&result).
		SetError(&apiErr).
		Post("/transactions")
	if err != nil {
		return "", errors.Wrap(err, "submit tx failed")
	}
	if resp.IsError() {
		re := classifyResultCodes(apiErr)
		log.Warnw("tx submission rejected", "code", re.Code, "tx_code", re.TxCode, "op_codes", re.OpCodes)
		return "", re
	}
	return result.Hash, nil
}

// classifyResultCodes maps the query API's raw result codes onto
// the soft result taxonomy.
func classifyResultCodes(e apiError) *ResultError {
	re := &ResultError{
		Code:    ResultUnknown,
		TxCode:  e.Extras.ResultCodes.Transaction,
		OpCodes: e.Extras.ResultCodes.Operations,
	}

	switch re.TxCode {
	case "tx_no_source_account", "tx_bad_auth":
		re.Code = ResultBadSource
		return re
	case "tx_insufficient_balance":
		re.Code = ResultInsufficientBalance
		return re
	}

	for _, op := range re.OpCodes {
		switch op {
		case "op_no_destination":
			re.Code = ResultBadDestination
			return re
		case "op_underfunded", "op_low_reserve":
			re.Code = ResultInsufficientBalance
			return re
		case "op_no_trust", "op_not_authorized":
			re.Code = ResultNoTrust
			return re
		case "op_already_exists":
			re.Code = ResultAlreadyExists
			return re
		}
	}
	return re
}

// Transactions fetches one page of the account's transaction feed.
func (g *HTTPGateway) Transactions(address, cursor string, limit int, order Order) (*TxPage, error) {
	var page TxPage

	req := g.client.R().
		SetResult(&page).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetQueryParam("order", string(order))
	if cursor != "" {
		req.SetQueryParam("cursor", cursor)
	}

	resp, err := req.Get(fmt.Sprintf("/accounts/%s/transactions", address))
	if err != nil {
		return nil, errors.Wrap(err, "fetch transaction page failed")
	}
	if resp.IsError() {
		return nil, errors.Errorf("fetch transaction page failed: %s", resp.Status())
	}
	return &page, nil
}

// Transaction fetches one confirmed transaction by id.
func (g *HTTPGateway) Transaction(txID string) (*TxRecord, error) {
	if cached, ok := g.txCache.Get(txID); ok {
		return cached.(*TxRecord), nil
	}

	var record TxRecord
	resp, err := g.client.R().
		SetResult(&record).
		Get(fmt.Sprintf("/transactions/%s", txID))
	if err != nil {
		return nil, errors.Wrap(err, "fetch transaction failed")
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.IsError() {
		return nil, errors.Errorf("fetch transaction failed: %s", resp.Status())
	}

	g.txCache.Add(txID, &record)
	return &record, nil
}

// Effects fetches one page of the account's effect feed.
func (g *HTTPGateway) Effects(address, cursor string, limit int, order Order) (*EffectPage, error) {
	var page EffectPage

	req := g.client.R().
		SetResult(&page).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetQueryParam("order", string(order))
	if cursor != "" {
		req.SetQueryParam("cursor", cursor)
	}

	resp, err := req.Get(fmt.Sprintf("/accounts/%s/effects", address))
	if err != nil {
		return nil, errors.Wrap(err, "fetch effect page failed")
	}
	if resp.IsError() {
		return nil, errors.Errorf("fetch effect page failed: %s", resp.Status())
	}
	return &page, nil
}

// Offers lists the account's open exchange offers.
func (g *HTTPGateway) Offers(address string) ([]*OfferRecord, error) {
	var result struct {
		Records []*OfferRecord `json:"records"`
	}

	resp, err := g.client.R().
		SetResult(&result).
		Get(fmt.Sprintf("/accounts/%s/offers", address))
	if err != nil {
		return nil, errors.Wrap(err, "fetch offers failed")
	}
	if resp.IsError() {
		return nil, errors.Errorf("fetch offers failed: %s", resp.Status())
	}
	return result.Records, nil
}
