package sync

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lumenpay/go-lumenpay/asset"
	"github.com/lumenpay/go-lumenpay/crypto"
	"github.com/lumenpay/go-lumenpay/gateway"
)

// memApplier is an in-test applier with a scriptable failure.
type memApplier struct {
	cursors map[string]string
	batches []*Batch
	failErr error
}

func newMemApplier() *memApplier {
	return &memApplier{cursors: make(map[string]string)}
}

func (a *memApplier) ReadCursor(address string) (string, error) {
	return a.cursors[address], nil
}

func (a *memApplier) ApplyBatch(batch *Batch) error {
	if a.failErr != nil {
		return a.failErr
	}
	a.batches = append(a.batches, batch)
	a.cursors[batch.Address] = batch.NewCursor
	return nil
}

func payment(id, dest, amt, memo string, a asset.Asset) *gateway.TxRecord {
	return &gateway.TxRecord{
		ID:   id,
		Hash: id,
		Memo: memo,
		Ops: []*gateway.OpRecord{
			{Type: "payment", Destination: dest, Amount: amt, Asset: a},
		},
	}
}

func TestRunPass(t *testing.T) {
	addr, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	gw := gateway.NewMemGateway()
	gw.SetFeed(addr, []*gateway.TxRecord{
		payment("5", addr, "10", "inv-1", asset.Native()),
		payment("4", addr, "15", "inv-1", asset.Native()),
		payment("3", addr, "7", "inv-2", asset.Native()),
		payment("2", addr, "3", "", asset.Native()),
		payment("1", addr, "1", "", asset.Native()),
	})

	applier := newMemApplier()
	applier.cursors[addr] = "3"

	e := NewEngine(gw, nil)
	res, err := e.RunPass(addr, applier)
	assert.Nil(t, err)

	// only the records newer than the cursor are processed
	assert.Equal(t, 1, len(applier.batches))
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, "5", res.NewCursor)
	assert.Equal(t, "5", applier.cursors[addr])

	// per-memo aggregation: 10 + 15 under the same memo
	batch := applier.batches[0]
	assert.Equal(t, true, batch.Deltas["inv-1"].Equal(decimal.RequireFromString("25")))

	// a second pass with no new activity processes nothing
	res, err = e.RunPass(addr, applier)
	assert.Nil(t, err)
	assert.Equal(t, 0, res.Processed)
}

func TestRunPassFirstTime(t *testing.T) {
	addr, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	gw := gateway.NewMemGateway()
	gw.SetFeed(addr, []*gateway.TxRecord{
		payment("2", addr, "5", "a", asset.Native()),
		payment("1", addr, "5", "b", asset.Native()),
	})

	applier := newMemApplier()
	e := NewEngine(gw, nil)
	res, err := e.RunPass(addr, applier)
	assert.Nil(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, "2", res.NewCursor)
}

func TestRunPassEmptyFeed(t *testing.T) {
	addr, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	applier := newMemApplier()
	e := NewEngine(gateway.NewMemGateway(), nil)
	res, err := e.RunPass(addr, applier)
	assert.Nil(t, err)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 0, len(applier.batches))
}

func TestRunPassClassification(t *testing.T) {
	addr, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	other, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	goodIssuer, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	badIssuer, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	gw := gateway.NewMemGateway()
	gw.SetFeed(addr, []*gateway.TxRecord{
		// outgoing, dropped
		payment("6", other, "9", "", asset.Native()),
		// untrusted issuer, dropped
		payment("5", addr, "9", "x", asset.New("USD", badIssuer)),
		// trusted issuer, kept
		payment("4", addr, "9", "y", asset.New("USD", goodIssuer)),
		// path payment delivering to us, kept with the dest side
		{
			ID: "3", Hash: "3", Memo: "z",
			Ops: []*gateway.OpRecord{{
				Type:        "path_payment",
				Destination: addr,
				Amount:      "100",
				Asset:       asset.New("USD", goodIssuer),
				DestAmount:  "42",
				DestAsset:   asset.Native(),
			}},
		},
		// non-payment op, dropped
		{ID: "2", Hash: "2", Ops: []*gateway.OpRecord{{Type: "manage_offer"}}},
		payment("1", addr, "1", "", asset.Native()),
	})

	e := NewEngine(gw, []string{goodIssuer})
	records, err := e.ListIncomingTransactions(addr, "")
	assert.Nil(t, err)
	assert.Equal(t, 3, len(records))
	assert.Equal(t, "4", records[0].TxID)
	assert.Equal(t, "42", records[1].Amount)
	assert.Equal(t, asset.NativeCode, records[1].AssetCode)
	assert.Equal(t, "1", records[2].TxID)
}

func TestClassifyMultiOp(t *testing.T) {
	addr, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	// one transaction paying the address twice yields two records
	gw := gateway.NewMemGateway()
	gw.SetFeed(addr, []*gateway.TxRecord{
		{
			ID: "1", Hash: "1", Memo: "inv-1",
			Ops: []*gateway.OpRecord{
				{Type: "payment", Destination: addr, Amount: "10", Asset: asset.Native()},
				{Type: "payment", Destination: addr, Amount: "15", Asset: asset.Native()},
			},
		},
	})

	e := NewEngine(gw, nil)
	records, err := e.ListIncomingTransactions(addr, "")
	assert.Nil(t, err)
	assert.Equal(t, 2, len(records))
	assert.Equal(t, 0, records[0].OpIndex)
	assert.Equal(t, 1, records[1].OpIndex)

	deltas := aggregate(records)
	assert.Equal(t, true, deltas["inv-1"].Equal(decimal.RequireFromString("25")))
}

func TestRunPassFetchError(t *testing.T) {
	addr, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	gw := gateway.NewMemGateway()
	gw.SetFeed(addr, []*gateway.TxRecord{payment("1", addr, "1", "", asset.Native())})
	gw.FailFetch(errors.New("gateway timeout"))

	applier := newMemApplier()
	e := NewEngine(gw, nil)
	_, err = e.RunPass(addr, applier)
	assert.NotNil(t, err)
	assert.Equal(t, 0, len(applier.batches))
	assert.Equal(t, "", applier.cursors[addr])
}

func TestRunPassApplyError(t *testing.T) {
	addr, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	gw := gateway.NewMemGateway()
	gw.SetFeed(addr, []*gateway.TxRecord{payment("1", addr, "1", "", asset.Native())})

	applier := newMemApplier()
	applier.failErr = errors.New("disk full")

	e := NewEngine(gw, nil)
	_, err = e.RunPass(addr, applier)
	assert.NotNil(t, err)
	assert.Equal(t, "", applier.cursors[addr])

	// the failed window is re-read in full on the next pass
	applier.failErr = nil
	res, err := e.RunPass(addr, applier)
	assert.Nil(t, err)
	assert.Equal(t, 1, res.Processed)
}

func TestRunPassPagination(t *testing.T) {
	addr, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	var feed []*gateway.TxRecord
	for i := 450; i >= 1; i-- {
		feed = append(feed, payment(itoa(i), addr, "1", "m", asset.Native()))
	}

	gw := gateway.NewMemGateway()
	gw.SetFeed(addr, feed)

	applier := newMemApplier()
	e := NewEngine(gw, nil)
	res, err := e.RunPass(addr, applier)
	assert.Nil(t, err)
	assert.Equal(t, 450, res.Processed)
	assert.Equal(t, "450", res.NewCursor)
	assert.Equal(t, true, applier.batches[0].Deltas["m"].Equal(decimal.RequireFromString("450")))
}

func itoa(i int) string {
	return decimal.NewFromInt(int64(i)).String()
}

func TestTrades(t *testing.T) {
	issuer, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	usd := asset.New("USD", issuer)

	now := time.Now().Truncate(time.Second)
	rec := &gateway.EffectRecord{
		ID:           "e1",
		Type:         "trade",
		CreatedAt:    now,
		SoldAmount:   "100",
		SoldAsset:    asset.Native(),
		BoughtAmount: "3",
		BoughtAsset:  usd,
	}

	tr, err := NewTrade(rec)
	assert.Nil(t, err)
	assert.Equal(t, "0.03", tr.SoldPrice)
	assert.Equal(t, "33.3333333", tr.BoughtPrice)
	assert.Equal(t, true, tr.OpensPosition(usd.String()))
	assert.Equal(t, true, tr.ClosesPosition("native"))

	// partial fills at the same timestamp merge into one trade
	rec2 := *rec
	rec2.ID = "e2"
	rec2.SoldAmount = "50"
	rec2.BoughtAmount = "1.5"
	tr2, err := NewTrade(&rec2)
	assert.Nil(t, err)

	merged := MergeTrades([]*Trade{tr, tr2})
	assert.Equal(t, 1, len(merged))
	assert.Equal(t, "150", merged[0].SoldAmount)
	assert.Equal(t, "4.5", merged[0].BoughtAmount)
	assert.Equal(t, "0.03", merged[0].SoldPrice)
}

func TestListEffects(t *testing.T) {
	addr, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	gw := gateway.NewMemGateway()
	gw.SetEffects(addr, []*gateway.EffectRecord{
		{ID: "3", Type: "trade"},
		{ID: "2", Type: "account_credited"},
		{ID: "1", Type: "trade"},
	})

	e := NewEngine(gw, nil)

	all, err := e.ListEffects(addr, "", nil)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(all))

	trades, err := e.ListEffects(addr, "1", TradesOnly)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(trades))
	assert.Equal(t, "3", trades[0].ID)
}
