package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// test signing and verification of data
func TestSignVerify(t *testing.T) {
	pub, seed, err := GetAccountKeypair()
	assert.Nil(t, err)

	data := []byte("test message for signing")

	signature, err := Sign(seed, data)
	assert.Nil(t, err)
	assert.Equal(t, true, Verify(pub, signature, data))

	// signature should not verify against other data
	assert.Equal(t, false, Verify(pub, signature, []byte("other message")))

	// signing with a non-seed key should fail
	_, err = Sign(pub, data)
	assert.NotNil(t, err)
}

func TestKeypairFromSeed(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}

	pub1, seed1, err := GetAccountKeypairFromSeed(raw)
	assert.Nil(t, err)

	pub2, seed2, err := GetAccountKeypairFromSeed(raw)
	assert.Nil(t, err)

	// the same raw seed always produces the same keypair
	assert.Equal(t, pub1, pub2)
	assert.Equal(t, seed1, seed2)

	_, _, err = GetAccountKeypairFromSeed(raw[:16])
	assert.NotNil(t, err)
}
