package store

import (
	gosync "sync"

	"github.com/shopspring/decimal"

	"github.com/lumenpay/go-lumenpay/sync"
)

// MemStore is the in-memory Store used in tests. It mirrors the
// BoltStore apply semantics, including replay tolerance, and can
// be scripted to fail ApplyBatch.
type MemStore struct {
	mu gosync.RWMutex

	records  map[string]*Record
	balances map[string]decimal.Decimal
	cursors  map[string]string

	applyErr error
}

func NewMemStore() *MemStore {
	return &MemStore{
		records:  make(map[string]*Record),
		balances: make(map[string]decimal.Decimal),
		cursors:  make(map[string]string),
	}
}

// FailApply makes every subsequent ApplyBatch return err.
func (s *MemStore) FailApply(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyErr = err
}

func (s *MemStore) Close() error {
	return nil
}

func (s *MemStore) ReadCursor(address string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursors[address], nil
}

func (s *MemStore) ApplyBatch(batch *sync.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applyErr != nil {
		return s.applyErr
	}
	for _, r := range batch.Records {
		key := string(recordKey(batch.Address, r.TxID, r.OpIndex))
		if _, ok := s.records[key]; ok {
			continue
		}
		s.records[key] = &Record{
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
		d, err := decimal.NewFromString(r.Amount)
		if err != nil {
			return err
		}
		s.balances[r.Memo] = s.balances[r.Memo].Add(d)
	}
	s.cursors[batch.Address] = batch.NewCursor
	return nil
}

func (s *MemStore) GetTransaction(txID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.TxID == txID {
			return r, nil
		}
	}
	return nil, ErrTxNotFound
}

func (s *MemStore) FilterTransactions(address string) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Record
	for _, r := range s.records {
		if r.Address == address {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemStore) GetBalance(memo string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[memo], nil
}

func (s *MemStore) SaveBalance(memo string, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[memo] = balance
	return nil
}
