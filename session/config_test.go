package session

import (
	"crypto/sha256"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/lumenpay/go-lumenpay/crypto"
)

func testViper(t *testing.T) *viper.Viper {
	addr, seed, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	v := viper.New()
	v.Set("network_passphrase", "lumenpay test network")
	v.Set("query_addr", "http://localhost:8000")
	v.Set("db_path", "/tmp/lpay.db")
	v.Set("address", addr)
	v.Set("seed", seed)
	return v
}

func TestNewConfig(t *testing.T) {
	v := testViper(t)

	issuer, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	v.Set("trusted_issuers", []string{issuer})
	v.Set("assets", map[string]string{"USD": issuer})

	_, coSeed, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	v.Set("co_signer_seeds", []string{coSeed})

	c, err := NewConfig(v)
	assert.Nil(t, err)
	assert.Equal(t, sha256.Sum256([]byte("lumenpay test network")), c.NetworkID)
	assert.Equal(t, 1, len(c.CoSigners))
	assert.Equal(t, issuer, c.Assets["usd"])
}

func TestNewConfigValidation(t *testing.T) {
	v := testViper(t)
	v.Set("network_passphrase", "")
	_, err := NewConfig(v)
	assert.NotNil(t, err)

	v = testViper(t)
	v.Set("address", "not-a-key")
	_, err = NewConfig(v)
	assert.NotNil(t, err)

	v = testViper(t)
	v.Set("seed", "not-a-seed")
	_, err = NewConfig(v)
	assert.NotNil(t, err)

	v = testViper(t)
	v.Set("trusted_issuers", []string{"bogus"})
	_, err = NewConfig(v)
	assert.NotNil(t, err)

	// watch-only config, no seed
	v = testViper(t)
	v.Set("seed", "")
	c, err := NewConfig(v)
	assert.Nil(t, err)
	assert.Equal(t, "", c.Seed)
}
