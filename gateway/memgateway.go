package gateway

import (
	"sync"

	"github.com/lumenpay/go-lumenpay/asset"
	"github.com/lumenpay/go-lumenpay/txbuild"
)

// MemGateway is a memory-backed gateway used for tests and offline
// development. It serves seeded accounts and feeds, records every
// submitted envelope and can be scripted to fail submissions or
// page fetches. Safe for concurrent use.
type MemGateway struct {
	mu sync.Mutex

	accounts map[string]*AccountSnapshot
	feeds    map[string][]*TxRecord
	effects  map[string][]*EffectRecord
	offers   map[string][]*OfferRecord
	txByID   map[string]*TxRecord

	submissions []*txbuild.Envelope

	submitErr error
	fetchErr  error
}

func NewMemGateway() *MemGateway {
	return &MemGateway{
		accounts: make(map[string]*AccountSnapshot),
		feeds:    make(map[string][]*TxRecord),
		effects:  make(map[string][]*EffectRecord),
		offers:   make(map[string][]*OfferRecord),
		txByID:   make(map[string]*TxRecord),
	}
}

// SeedAccount registers an activated account with a native balance.
func (g *MemGateway) SeedAccount(address string, nativeBalance string, seqNum uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.accounts[address] = &AccountSnapshot{
		AccountID: address,
		SeqNum:    seqNum,
		Balances:  []Balance{{Asset: asset.Native(), Amount: nativeBalance}},
	}
}

// AddTrustline appends a zero-balance trustline to a seeded account.
func (g *MemGateway) AddTrustline(address string, a asset.Asset) {
	g.mu.Lock()
	defer g.mu.Unlock()
	acc := g.accounts[address]
	if acc == nil {
		return
	}
	acc.Balances = append(acc.Balances, Balance{Asset: a, Amount: "0"})
}

// SetFeed installs the account's transaction feed, newest first.
func (g *MemGateway) SetFeed(address string, records []*TxRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.feeds[address] = records
	for _, r := range records {
		g.txByID[r.ID] = r
	}
}

// SetEffects installs the account's effect feed, newest first.
func (g *MemGateway) SetEffects(address string, records []*EffectRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.effects[address] = records
}

// SetOffers installs the account's open offers.
func (g *MemGateway) SetOffers(address string, offers []*OfferRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.offers[address] = offers
}

// FailSubmit makes every subsequent SubmitTx return err.
func (g *MemGateway) FailSubmit(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.submitErr = err
}

// FailFetch makes every subsequent page fetch return err.
func (g *MemGateway) FailFetch(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetchErr = err
}

// Submissions returns every envelope submitted so far.
func (g *MemGateway) Submissions() []*txbuild.Envelope {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*txbuild.Envelope, len(g.submissions))
	copy(out, g.submissions)
	return out
}

func (g *MemGateway) LoadAccount(address string) (*AccountSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	acc, ok := g.accounts[address]
	if !ok {
		return nil, ErrNotFound
	}
	// Hand out a copy; callers own their snapshot.
	snapshot := *acc
	snapshot.Balances = append([]Balance(nil), acc.Balances...)
	snapshot.Signers = append([]SignerInfo(nil), acc.Signers...)
	return &snapshot, nil
}

func (g *MemGateway) SubmitTx(env *txbuild.Envelope) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.submitErr != nil {
		return "", g.submitErr
	}
	g.submissions = append(g.submissions, env)
	return txbuild.TxKey(env.Tx)
}

func paginate[T any](records []T, id func(T) string, cursor string, limit int) ([]T, bool) {
	start := 0
	if cursor != "" {
		for i, r := range records {
			if id(r) == cursor {
				start = i + 1
				break
			}
		}
	}
	if start >= len(records) {
		return nil, false
	}
	end := start + limit
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], end < len(records)
}

func (g *MemGateway) Transactions(address, cursor string, limit int, order Order) (*TxPage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	records, hasNext := paginate(g.feeds[address], func(r *TxRecord) string { return r.ID }, cursor, limit)
	return &TxPage{Records: records, HasNext: hasNext}, nil
}

func (g *MemGateway) Transaction(txID string) (*TxRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.txByID[txID]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (g *MemGateway) Effects(address, cursor string, limit int, order Order) (*EffectPage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	records, hasNext := paginate(g.effects[address], func(r *EffectRecord) string { return r.ID }, cursor, limit)
	return &EffectPage{Records: records, HasNext: hasNext}, nil
}

func (g *MemGateway) Offers(address string) ([]*OfferRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*OfferRecord(nil), g.offers[address]...), nil
}
