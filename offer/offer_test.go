package offer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumenpay/go-lumenpay/account"
	"github.com/lumenpay/go-lumenpay/asset"
	"github.com/lumenpay/go-lumenpay/crypto"
	"github.com/lumenpay/go-lumenpay/gateway"
	"github.com/lumenpay/go-lumenpay/pay"
	"github.com/lumenpay/go-lumenpay/txbuild"
)

var testNetworkID = crypto.SHA256HashBytes([]byte("lumenpay test network"))

func newTestManager(t *testing.T) (*Manager, *gateway.MemGateway, string) {
	addr, seed, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	acc, err := account.New(addr, seed)
	assert.Nil(t, err)

	gw := gateway.NewMemGateway()
	gw.SeedAccount(addr, "500", 1)

	state := account.NewState(addr, gw)
	return NewManager(acc, state, gw, testNetworkID), gw, addr
}

func TestCreateOffer(t *testing.T) {
	m, gw, _ := newTestManager(t)

	issuer, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	usd := asset.New("USD", issuer)

	hash, err := m.CreateOffer(asset.Native(), usd, "0.25", "100")
	assert.Nil(t, err)
	assert.NotEqual(t, "", hash)

	subs := gw.Submissions()
	assert.Equal(t, 1, len(subs))
	op := subs[0].Tx.OpList[0]
	assert.Equal(t, txbuild.OpManageOffer, op.Type)
	assert.Equal(t, "0", op.ManageOffer.OfferID)
	assert.Equal(t, int64(10000000), op.ManageOffer.Amount)
	assert.Equal(t, "0.25", op.ManageOffer.Price)

	_, err = m.CreateOffer(asset.Native(), usd, "not-a-price", "100")
	assert.NotNil(t, err)

	_, err = m.CreateOffer(asset.Native(), usd, "0.25", "0")
	assert.NotNil(t, err)
}

func TestGetOffer(t *testing.T) {
	m, gw, addr := newTestManager(t)

	issuer, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	usd := asset.New("USD", issuer)

	gw.SetOffers(addr, []*gateway.OfferRecord{
		{ID: "17", Selling: asset.Native(), Buying: usd, Price: "0.5", Amount: "40"},
	})

	o, err := m.GetOffer("17")
	assert.Nil(t, err)
	assert.Equal(t, "0.5", o.Price)

	_, err = m.GetOffer("99")
	assert.Equal(t, ErrOfferNotFound, err)

	offers, err := m.GetOffers()
	assert.Nil(t, err)
	assert.Equal(t, 1, len(offers))
}

func TestDeleteOffer(t *testing.T) {
	m, gw, addr := newTestManager(t)

	issuer, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	usd := asset.New("USD", issuer)

	gw.SetOffers(addr, []*gateway.OfferRecord{
		{ID: "17", Selling: asset.Native(), Buying: usd, Price: "0.5", Amount: "40"},
	})

	hash, err := m.DeleteOffer("17")
	assert.Nil(t, err)
	assert.NotEqual(t, "", hash)

	// the cancel echoes the live offer and zeroes the amount
	subs := gw.Submissions()
	assert.Equal(t, 1, len(subs))
	op := subs[0].Tx.OpList[0].ManageOffer
	assert.Equal(t, "17", op.OfferID)
	assert.Equal(t, int64(0), op.Amount)
	assert.Equal(t, "0.5", op.Price)
	assert.Equal(t, true, op.Selling.IsNative())
	assert.Equal(t, true, op.Buying.Equal(usd))

	_, err = m.DeleteOffer("99")
	assert.Equal(t, ErrOfferNotFound, err)
}

func TestSharedStateSequence(t *testing.T) {
	addr, seed, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	acc, err := account.New(addr, seed)
	assert.Nil(t, err)
	issuer, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	dest, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	gw := gateway.NewMemGateway()
	gw.SeedAccount(addr, "1000", 1)
	gw.SeedAccount(dest, "10", 1)

	// one state shared by the payment and offer paths keeps the
	// sequence numbers monotonic across interleaved submissions
	state := account.NewState(addr, gw)
	p := pay.NewOrchestrator(acc, state, gw, testNetworkID)
	m := NewManager(acc, state, gw, testNetworkID)

	out, err := p.SendPayment(dest, "1", "", asset.Native())
	assert.Nil(t, err)
	assert.Equal(t, true, out.OK())

	_, err = m.CreateOffer(asset.Native(), asset.New("USD", issuer), "0.5", "10")
	assert.Nil(t, err)

	out, err = p.SendPayment(dest, "1", "", asset.Native())
	assert.Nil(t, err)
	assert.Equal(t, true, out.OK())

	subs := gw.Submissions()
	assert.Equal(t, 3, len(subs))
	assert.Equal(t, uint64(2), subs[0].Tx.SeqNum)
	assert.Equal(t, uint64(3), subs[1].Tx.SeqNum)
	assert.Equal(t, uint64(4), subs[2].Tx.SeqNum)
}

func TestDeleteAllOffers(t *testing.T) {
	m, gw, addr := newTestManager(t)

	issuer, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	usd := asset.New("USD", issuer)

	gw.SetOffers(addr, []*gateway.OfferRecord{
		{ID: "1", Selling: asset.Native(), Buying: usd, Price: "0.5", Amount: "40"},
		{ID: "2", Selling: usd, Buying: asset.Native(), Price: "2", Amount: "10"},
	})

	hashes, failed, err := m.DeleteAllOffers()
	assert.Nil(t, err)
	assert.Equal(t, 2, len(hashes))
	assert.Equal(t, 0, len(failed))
	assert.Equal(t, 2, len(gw.Submissions()))
}
