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

// Package federation resolves human-readable payment addresses of
// the form name*domain into account ids.
package federation

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const defaultTimeout = 15 * time.Second

// ErrNameNotFound means the federation server does not know the
// name.
var ErrNameNotFound = errors.New("federated name not found")

// Address is a resolved federated name. Memo, when present, must
// be attached to payments so the receiving service can route the
// funds internally.
type Address struct {
	AccountID string `json:"account_id"`
	Memo      string `json:"memo,omitempty"`
}

// Client looks up name*domain addresses against a federation
// server.
type Client struct {
	client *resty.Client
}

// NewClient creates a federation client for the server at addr.
func NewClient(addr string) (*Client, error) {
	if addr == "" {
		return nil, errors.New("empty federation server address")
	}
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(addr, "/")).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")
	return &Client{client: client}, nil
}

// Split separates a federated address into name and domain parts.
func Split(federated string) (name, domain string, err error) {
	parts := strings.Split(federated, "*")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("malformed federated address: %s", federated)
	}
	return parts[0], parts[1], nil
}

// Resolve looks up a name*domain address.
func (c *Client) Resolve(federated string) (*Address, error) {
	name, domain, err := Split(federated)
	if err != nil {
		return nil, err
	}

	var addr Address
	resp, err := c.client.R().
		SetResult(&addr).
		SetQueryParam("type", "name").
		SetQueryParam("q", name+"*"+domain).
		Get("/federation")
	if err != nil {
		return nil, errors.Wrap(err, "federation lookup failed")
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNameNotFound
	}
	if resp.IsError() {
		return nil, errors.Errorf("federation lookup failed: %s", resp.Status())
	}
	if addr.AccountID == "" {
		return nil, errors.New("federation server returned an empty account id")
	}
	return &addr, nil
}
