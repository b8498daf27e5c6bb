package account

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumenpay/go-lumenpay/asset"
	"github.com/lumenpay/go-lumenpay/crypto"
	"github.com/lumenpay/go-lumenpay/gateway"
)

func TestStateLoad(t *testing.T) {
	addr, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	gw := gateway.NewMemGateway()
	gw.SeedAccount(addr, "100", 5)

	s := NewState(addr, gw)
	assert.Equal(t, false, s.Loaded())

	err = s.Load(false)
	assert.Nil(t, err)
	assert.Equal(t, true, s.Loaded())

	seq, err := s.SeqNum()
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), seq)

	// a cached snapshot is reused unless forced
	gw.SeedAccount(addr, "100", 9)
	err = s.Load(false)
	assert.Nil(t, err)
	seq, _ = s.SeqNum()
	assert.Equal(t, uint64(5), seq)

	err = s.Load(true)
	assert.Nil(t, err)
	seq, _ = s.SeqNum()
	assert.Equal(t, uint64(9), seq)

	// reset discards the snapshot
	s.Reset()
	assert.Equal(t, false, s.Loaded())
}

func TestStateLoadMissing(t *testing.T) {
	addr, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	s := NewState(addr, gateway.NewMemGateway())
	err = s.Load(false)
	assert.Equal(t, ErrNoAccount, err)
}

func TestHasTrust(t *testing.T) {
	addr, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	issuer, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	other, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	usd := asset.New("USD", issuer)

	gw := gateway.NewMemGateway()
	gw.SeedAccount(addr, "50", 1)
	gw.AddTrustline(addr, usd)

	s := NewState(addr, gw)

	// native asset needs no snapshot at all
	ok, err := s.HasTrust(asset.Native())
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	err = s.Load(false)
	assert.Nil(t, err)

	ok, err = s.HasTrust(usd)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	// same code, different issuer
	ok, err = s.HasTrust(asset.New("USD", other))
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
}

func TestBalances(t *testing.T) {
	addr, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	issuer, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	gw := gateway.NewMemGateway()
	gw.SeedAccount(addr, "75.5", 1)
	gw.AddTrustline(addr, asset.New("USD", issuer))

	s := NewState(addr, gw)
	err = s.Load(false)
	assert.Nil(t, err)

	nb, err := s.NativeBalance()
	assert.Nil(t, err)
	assert.Equal(t, "75.5", nb)

	balances, err := s.Balances()
	assert.Nil(t, err)
	assert.Equal(t, "75.5", balances[asset.NativeCode])
	assert.Equal(t, "0", balances["USD"])

	full, err := s.BalanceFull()
	assert.Nil(t, err)
	assert.Equal(t, "75.5", full["native"])
	assert.Equal(t, "0", full["USD-"+issuer])
}

func TestAccountSigner(t *testing.T) {
	addr, seed, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	a, err := New(addr, seed)
	assert.Nil(t, err)
	assert.Equal(t, false, a.WatchOnly())

	_, err = a.Signer()
	assert.Nil(t, err)

	w, err := New(addr, "")
	assert.Nil(t, err)
	assert.Equal(t, true, w.WatchOnly())

	_, err = w.Signer()
	assert.NotNil(t, err)
}
