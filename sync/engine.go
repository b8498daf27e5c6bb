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

// Package sync pulls an account's incoming payment history into
// local storage incrementally, keyed by an opaque feed cursor.
package sync

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/shopspring/decimal"

	"github.com/lumenpay/go-lumenpay/gateway"
	"github.com/lumenpay/go-lumenpay/log"
)

// defaultPageSize is the feed page size used during a pass.
const defaultPageSize = 200

// Incoming is one classified incoming payment. A transaction may
// carry several qualifying operations; (TxID, OpIndex) identifies
// a record uniquely.
type Incoming struct {
	TxID      string
	OpIndex   int
	Hash      string
	Source    string
	Memo      string
	AssetCode string
	Issuer    string
	// Decimal amount credited to the synced address.
	Amount string
}

// Batch is the atomic unit handed to an Applier: every record seen
// since the previous cursor, the per-memo credited totals, and the
// cursor to persist once everything else is durable.
type Batch struct {
	Address string
	Records []*Incoming
	// Deltas aggregates credited amounts per memo.
	Deltas map[string]decimal.Decimal
	// NewCursor is the id of the newest record observed in the
	// pass, empty when the feed had nothing at all.
	NewCursor string
}

// Applier persists one batch atomically. ReadCursor returns ""
// when the address has never been synced. ApplyBatch must be
// all-or-nothing: on error the cursor has to stay untouched so the
// next pass re-reads the same window.
type Applier interface {
	ReadCursor(address string) (string, error)
	ApplyBatch(batch *Batch) error
}

// Result summarizes one completed pass.
type Result struct {
	Processed int
	NewCursor string
}

// Engine walks the transaction feed of watched addresses. A pass
// is read-mostly and idempotent until the single ApplyBatch call
// at the end, so engines may be re-run freely after failures.
type Engine struct {
	gw       gateway.Gateway
	trusted  mapset.Set[string]
	pageSize int
}

// NewEngine creates an engine accepting issued assets only from
// the given issuer addresses. Native payments are always accepted.
func NewEngine(gw gateway.Gateway, trustedIssuers []string) *Engine {
	return &Engine{
		gw:       gw,
		trusted:  mapset.NewSet(trustedIssuers...),
		pageSize: defaultPageSize,
	}
}

// RunPass syncs one address: walks the feed newest-first until the
// persisted cursor or the end of history, classifies the incoming
// payments, and applies them as a single batch. A transport error
// anywhere aborts the pass with nothing applied.
func (e *Engine) RunPass(address string, applier Applier) (*Result, error) {
	lastSeen, err := applier.ReadCursor(address)
	if err != nil {
		return nil, fmt.Errorf("read cursor for %s failed: %v", address, err)
	}

	records, newCursor, err := e.collect(address, lastSeen)
	if err != nil {
		return nil, err
	}
	if newCursor == "" {
		// nothing in the feed at all
		return &Result{}, nil
	}

	batch := &Batch{
		Address:   address,
		Records:   records,
		Deltas:    aggregate(records),
		NewCursor: newCursor,
	}
	if err := applier.ApplyBatch(batch); err != nil {
		return nil, fmt.Errorf("apply batch for %s failed: %v", address, err)
	}

	log.Infow("sync pass done", "address", address, "processed", len(records), "cursor", newCursor)
	return &Result{Processed: len(records), NewCursor: newCursor}, nil
}

// ListIncomingTransactions classifies the feed since lastSeen
// without applying anything. Records come back newest first.
func (e *Engine) ListIncomingTransactions(address, lastSeen string) ([]*Incoming, error) {
	records, _, err := e.collect(address, lastSeen)
	return records, err
}

// collect walks the feed newest-first, stopping at lastSeen or the
// end of history. The first record observed is the new cursor even
// when it is not itself an incoming payment.
func (e *Engine) collect(address, lastSeen string) ([]*Incoming, string, error) {
	var out []*Incoming
	var newCursor string

	cursor := ""
	for {
		page, err := e.gw.Transactions(address, cursor, e.pageSize, gateway.OrderDesc)
		if err != nil {
			return nil, "", fmt.Errorf("fetch transactions of %s failed: %v", address, err)
		}
		if len(page.Records) == 0 {
			return out, newCursor, nil
		}
		for _, rec := range page.Records {
			if rec.ID == lastSeen {
				return out, newCursor, nil
			}
			if newCursor == "" {
				newCursor = rec.ID
			}
			out = append(out, e.classify(address, rec)...)
		}
		if !page.HasNext {
			return out, newCursor, nil
		}
		cursor = page.Records[len(page.Records)-1].ID
	}
}

// classify extracts the operations of one transaction that credit
// the synced address with an accepted asset. Everything else is
// dropped without note: foreign traffic in the feed is normal.
func (e *Engine) classify(address string, rec *gateway.TxRecord) []*Incoming {
	var out []*Incoming
	for i, op := range rec.Ops {
		var amt string
		var a = op.Asset
		switch op.Type {
		case "payment":
			amt = op.Amount
		case "path_payment":
			// the delivered side is what the destination received
			amt = op.DestAmount
			a = op.DestAsset
		default:
			continue
		}
		if op.Destination != address {
			continue
		}
		if !a.IsNative() && !e.trusted.Contains(a.Issuer) {
			log.Debugf("dropping payment with untrusted issuer %s", a.Issuer)
			continue
		}
		out = append(out, &Incoming{
			TxID:      rec.ID,
			OpIndex:   i,
			Hash:      rec.Hash,
			Source:    rec.Source,
			Memo:      rec.Memo,
			AssetCode: a.Code,
			Issuer:    a.Issuer,
			Amount:    amt,
		})
	}
	return out
}

// aggregate sums the credited amounts per memo. Unparseable
// amounts never reach this point; the feed reports decimals.
func aggregate(records []*Incoming) map[string]decimal.Decimal {
	deltas := make(map[string]decimal.Decimal)
	for _, r := range records {
		d, err := decimal.NewFromString(r.Amount)
		if err != nil {
			log.Warnf("skipping record %s with bad amount %q", r.TxID, r.Amount)
			continue
		}
		deltas[r.Memo] = deltas[r.Memo].Add(d)
	}
	return deltas
}
