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

package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/lumenpay/go-lumenpay/sync"
)

var (
	txBucket      = []byte("transactions")
	balanceBucket = []byte("balances")
	cursorBucket  = []byte("cursors")
)

// BoltStore persists records in a single boltdb file. BoltDB holds
// a file lock, so one process owns the file at a time; within the
// process it is safe for concurrent use.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens or creates the database file and its buckets.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open db %s failed", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{txBucket, balanceBucket, cursorBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "create buckets failed")
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// ReadCursor returns the persisted feed cursor of the address, ""
// when the address has never been synced.
func (s *BoltStore) ReadCursor(address string) (string, error) {
	var cursor string
	err := s.db.View(func(tx *bolt.Tx) error {
		cursor = string(tx.Bucket(cursorBucket).Get([]byte(address)))
		return nil
	})
	return cursor, err
}

// ApplyBatch persists a sync batch in one write transaction.
// Records already present are skipped together with their balance
// contribution, so replaying a window after a failed cursor write
// cannot double-credit a memo. The cursor is written last; either
// everything lands or nothing does.
func (s *BoltStore) ApplyBatch(batch *sync.Batch) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		txs := tx.Bucket(txBucket)
		balances := tx.Bucket(balanceBucket)

		deltas := make(map[string]decimal.Decimal)
		for _, r := range batch.Records {
			key := recordKey(batch.Address, r.TxID, r.OpIndex)
			if txs.Get(key) != nil {
				continue
			}
			rec := &Record{
				TxID:      r.TxID,
				OpIndex:   r.OpIndex,
				Hash:      r.Hash,
				Address:   batch.Address,
				Source:    r.Source,
				Memo:      r.Memo,
				AssetCode: r.AssetCode,
				Issuer:    r.Issuer,
				Amount:    r.Amount,
			}
			b, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := txs.Put(key, b); err != nil {
				return err
			}
			d, err := decimal.NewFromString(r.Amount)
			if err != nil {
				return err
			}
			deltas[r.Memo] = deltas[r.Memo].Add(d)
		}

		for memo, delta := range deltas {
			balance := decimal.Zero
			if v := balances.Get([]byte(memo)); v != nil {
				var err error
				balance, err = decimal.NewFromString(string(v))
				if err != nil {
					return err
				}
			}
			balance = balance.Add(delta)
			if err := balances.Put([]byte(memo), []byte(balance.String())); err != nil {
				return err
			}
		}

		return tx.Bucket(cursorBucket).Put([]byte(batch.Address), []byte(batch.NewCursor))
	})
	if err != nil {
		return errors.Wrap(err, "apply batch failed")
	}
	return nil
}

func (s *BoltStore) GetTransaction(txID string) (*Record, error) {
	var rec *Record
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(txBucket).Cursor()
		marker := []byte("/" + txID + "/")
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if bytes.Contains(k, marker) {
				r := new(Record)
				if err := json.Unmarshal(v, r); err != nil {
					return err
				}
				rec = r
				return nil
			}
		}
		return ErrTxNotFound
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *BoltStore) FilterTransactions(address string) ([]*Record, error) {
	var out []*Record
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(txBucket).Cursor()
		prefix := []byte(address + "/")
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			r := new(Record)
			if err := json.Unmarshal(v, r); err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BoltStore) GetBalance(memo string) (decimal.Decimal, error) {
	balance := decimal.Zero
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(balanceBucket).Get([]byte(memo))
		if v == nil {
			return nil
		}
		var err error
		balance, err = decimal.NewFromString(string(v))
		return err
	})
	return balance, err
}

func (s *BoltStore) SaveBalance(memo string, balance decimal.Decimal) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(balanceBucket).Put([]byte(memo), []byte(balance.String()))
	})
}

// recordKey scopes a record to its synced address so several
// watched addresses can share one database file. The op index is
// part of the key: a transaction with several qualifying ops
// yields several records.
func recordKey(address, txID string, opIndex int) []byte {
	return []byte(fmt.Sprintf("%s/%s/%d", address, txID, opIndex))
}
