package store

import (
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lumenpay/go-lumenpay/sync"
)

func testBatch(address string) *sync.Batch {
	return &sync.Batch{
		Address: address,
		Records: []*sync.Incoming{
			{TxID: "t2", OpIndex: 0, Hash: "t2", Source: "S", Memo: "inv-1", AssetCode: "LUM", Amount: "10"},
			{TxID: "t1", OpIndex: 0, Hash: "t1", Source: "S", Memo: "inv-1", AssetCode: "LUM", Amount: "15"},
		},
		Deltas:    map[string]decimal.Decimal{"inv-1": decimal.RequireFromString("25")},
		NewCursor: "t2",
	}
}

func TestBoltStore(t *testing.T) {
	s, err := NewBoltStore("test.db")
	assert.Nil(t, err)
	defer os.Remove("test.db")
	defer s.Close()

	cursor, err := s.ReadCursor("A")
	assert.Nil(t, err)
	assert.Equal(t, "", cursor)

	err = s.ApplyBatch(testBatch("A"))
	assert.Nil(t, err)

	cursor, err = s.ReadCursor("A")
	assert.Nil(t, err)
	assert.Equal(t, "t2", cursor)

	balance, err := s.GetBalance("inv-1")
	assert.Nil(t, err)
	assert.Equal(t, true, balance.Equal(decimal.RequireFromString("25")))

	rec, err := s.GetTransaction("t1")
	assert.Nil(t, err)
	assert.Equal(t, "15", rec.Amount)

	_, err = s.GetTransaction("t9")
	assert.Equal(t, ErrTxNotFound, err)

	records, err := s.FilterTransactions("A")
	assert.Nil(t, err)
	assert.Equal(t, 2, len(records))

	records, err = s.FilterTransactions("B")
	assert.Nil(t, err)
	assert.Equal(t, 0, len(records))

	// replaying the same window must not double-credit the memo
	err = s.ApplyBatch(testBatch("A"))
	assert.Nil(t, err)
	balance, err = s.GetBalance("inv-1")
	assert.Nil(t, err)
	assert.Equal(t, true, balance.Equal(decimal.RequireFromString("25")))

	err = s.SaveBalance("inv-1", decimal.RequireFromString("5"))
	assert.Nil(t, err)
	balance, err = s.GetBalance("inv-1")
	assert.Nil(t, err)
	assert.Equal(t, true, balance.Equal(decimal.RequireFromString("5")))
}

// multiOpBatch carries two qualifying ops of one transaction.
func multiOpBatch(address string) *sync.Batch {
	return &sync.Batch{
		Address: address,
		Records: []*sync.Incoming{
			{TxID: "tx1", OpIndex: 0, Hash: "tx1", Source: "S", Memo: "inv-1", AssetCode: "LUM", Amount: "10"},
			{TxID: "tx1", OpIndex: 1, Hash: "tx1", Source: "S", Memo: "inv-1", AssetCode: "LUM", Amount: "15"},
		},
		Deltas:    map[string]decimal.Decimal{"inv-1": decimal.RequireFromString("25")},
		NewCursor: "tx1",
	}
}

func TestApplyBatchMultiOp(t *testing.T) {
	s, err := NewBoltStore("multiop.db")
	assert.Nil(t, err)
	defer os.Remove("multiop.db")
	defer s.Close()

	// both ops of the transaction must credit the memo
	err = s.ApplyBatch(multiOpBatch("A"))
	assert.Nil(t, err)
	balance, err := s.GetBalance("inv-1")
	assert.Nil(t, err)
	assert.Equal(t, true, balance.Equal(decimal.RequireFromString("25")))

	records, err := s.FilterTransactions("A")
	assert.Nil(t, err)
	assert.Equal(t, 2, len(records))

	// replaying still must not double-credit
	err = s.ApplyBatch(multiOpBatch("A"))
	assert.Nil(t, err)
	balance, err = s.GetBalance("inv-1")
	assert.Nil(t, err)
	assert.Equal(t, true, balance.Equal(decimal.RequireFromString("25")))
}

func TestMemStoreMultiOp(t *testing.T) {
	s := NewMemStore()

	err := s.ApplyBatch(multiOpBatch("A"))
	assert.Nil(t, err)
	balance, err := s.GetBalance("inv-1")
	assert.Nil(t, err)
	assert.Equal(t, true, balance.Equal(decimal.RequireFromString("25")))

	err = s.ApplyBatch(multiOpBatch("A"))
	assert.Nil(t, err)
	balance, err = s.GetBalance("inv-1")
	assert.Nil(t, err)
	assert.Equal(t, true, balance.Equal(decimal.RequireFromString("25")))
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()

	err := s.ApplyBatch(testBatch("A"))
	assert.Nil(t, err)

	cursor, err := s.ReadCursor("A")
	assert.Nil(t, err)
	assert.Equal(t, "t2", cursor)

	err = s.ApplyBatch(testBatch("A"))
	assert.Nil(t, err)
	balance, err := s.GetBalance("inv-1")
	assert.Nil(t, err)
	assert.Equal(t, true, balance.Equal(decimal.RequireFromString("25")))
}
