package sync

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lumenpay/go-lumenpay/gateway"
)

// pricePlaces is the precision of derived trade prices.
const pricePlaces = 7

// Trade is one exchange trade derived from a trade effect, with
// both prices precomputed.
type Trade struct {
	ID           string
	CreatedAt    int64
	SoldAmount   string
	SoldAsset    string
	BoughtAmount string
	BoughtAsset  string
	// Price of one sold unit in bought units and vice versa,
	// rounded to 7 places.
	SoldPrice   string
	BoughtPrice string
}

// EffectFilter selects which effect types ListEffects returns.
// Empty means all.
type EffectFilter func(*gateway.EffectRecord) bool

// TradesOnly keeps only trade effects.
func TradesOnly(r *gateway.EffectRecord) bool {
	return r.Type == "trade"
}

// ListEffects walks the effect feed newest-first since lastSeen,
// using the same cursor discipline as the transaction walk.
func (e *Engine) ListEffects(address, lastSeen string, filter EffectFilter) ([]*gateway.EffectRecord, error) {
	var out []*gateway.EffectRecord

	cursor := ""
	for {
		page, err := e.gw.Effects(address, cursor, e.pageSize, gateway.OrderDesc)
		if err != nil {
			return nil, fmt.Errorf("fetch effects of %s failed: %v", address, err)
		}
		if len(page.Records) == 0 {
			return out, nil
		}
		for _, rec := range page.Records {
			if rec.ID == lastSeen {
				return out, nil
			}
			if filter != nil && !filter(rec) {
				continue
			}
			out = append(out, rec)
		}
		if !page.HasNext {
			return out, nil
		}
		cursor = page.Records[len(page.Records)-1].ID
	}
}

// NewTrade derives a trade from a trade effect, computing both
// directed prices.
func NewTrade(r *gateway.EffectRecord) (*Trade, error) {
	sold, err := decimal.NewFromString(r.SoldAmount)
	if err != nil {
		return nil, fmt.Errorf("bad sold amount %q: %v", r.SoldAmount, err)
	}
	bought, err := decimal.NewFromString(r.BoughtAmount)
	if err != nil {
		return nil, fmt.Errorf("bad bought amount %q: %v", r.BoughtAmount, err)
	}
	if sold.IsZero() || bought.IsZero() {
		return nil, fmt.Errorf("zero-amount trade effect %s", r.ID)
	}
	return &Trade{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt.Unix(),
		SoldAmount:   r.SoldAmount,
		SoldAsset:    r.SoldAsset.String(),
		BoughtAmount: r.BoughtAmount,
		BoughtAsset:  r.BoughtAsset.String(),
		SoldPrice:    bought.Div(sold).Round(pricePlaces).String(),
		BoughtPrice:  sold.Div(bought).Round(pricePlaces).String(),
	}, nil
}

// OpensPosition reports whether the trade acquired the given asset.
func (t *Trade) OpensPosition(assetName string) bool {
	return t.BoughtAsset == assetName
}

// ClosesPosition reports whether the trade disposed of the asset.
func (t *Trade) ClosesPosition(assetName string) bool {
	return t.SoldAsset == assetName
}

// MergeTrades collapses partial fills: consecutive trades of the
// same asset pair at the same timestamp are one logical trade
// split by the exchange across multiple counter-offers. Amounts
// add up; prices are re-derived from the merged totals.
func MergeTrades(trades []*Trade) []*Trade {
	var out []*Trade
	for _, t := range trades {
		if len(out) > 0 {
			last := out[len(out)-1]
			if last.CreatedAt == t.CreatedAt &&
				last.SoldAsset == t.SoldAsset && last.BoughtAsset == t.BoughtAsset {
				merged, err := mergePair(last, t)
				if err == nil {
					out[len(out)-1] = merged
					continue
				}
			}
		}
		out = append(out, t)
	}
	return out
}

func mergePair(a, b *Trade) (*Trade, error) {
	soldA, err := decimal.NewFromString(a.SoldAmount)
	if err != nil {
		return nil, err
	}
	soldB, err := decimal.NewFromString(b.SoldAmount)
	if err != nil {
		return nil, err
	}
	boughtA, err := decimal.NewFromString(a.BoughtAmount)
	if err != nil {
		return nil, err
	}
	boughtB, err := decimal.NewFromString(b.BoughtAmount)
	if err != nil {
		return nil, err
	}

	sold := soldA.Add(soldB)
	bought := boughtA.Add(boughtB)
	return &Trade{
		ID:           a.ID,
		CreatedAt:    a.CreatedAt,
		SoldAmount:   sold.String(),
		SoldAsset:    a.SoldAsset,
		BoughtAmount: bought.String(),
		BoughtAsset:  a.BoughtAsset,
		SoldPrice:    bought.Div(sold).Round(pricePlaces).String(),
		BoughtPrice:  sold.Div(bought).Round(pricePlaces).String(),
	}, nil
}
