package txbuild

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumenpay/go-lumenpay/asset"
	"github.com/lumenpay/go-lumenpay/crypto"
)

var testNetworkID = sha256.Sum256([]byte("lumenpay test network"))

func TestBuilder(t *testing.T) {
	src, seed, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	dst, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	b := NewBuilder()

	accID := &AccountID{AccountID: src}
	sn := &SeqNum{SeqNum: 7}
	m := &Memo{Memo: "SIMPLE MEMO"}
	ca := &CreateAccount{AccountID: dst, Balance: int64(100000)}
	p := &Payment{AccountID: dst, Amount: int64(1000), Asset: asset.Native()}

	err = b.Add(accID, sn, m, ca, p)
	assert.Nil(t, err)

	assert.Equal(t, uint64(7), b.Tx.SeqNum)
	assert.Equal(t, int64(2)*BaseFee, b.Tx.Fee)

	signer, err := NewSigner(seed)
	assert.Nil(t, err)

	env, err := signer.Sign(b, testNetworkID)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(env.Signatures))
	assert.Equal(t, src, env.Signatures[0].Signer)

	payload, err := SignaturePayload(testNetworkID, b.Tx)
	assert.Nil(t, err)
	assert.True(t, crypto.Verify(src, env.Signatures[0].Signature, payload))

	// a signed tx cannot be mutated further
	err = b.Add(&Memo{Memo: "ANOTHER"})
	assert.Equal(t, ErrTxSealed, err)
}

// The signature list must be exactly primary followed by the
// co-signers in their stored order.
func TestSignatureOrder(t *testing.T) {
	src, seed0, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	co1, seed1, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	co2, seed2, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	dst, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	b := NewBuilder()
	err = b.Add(
		&AccountID{AccountID: src},
		&SeqNum{SeqNum: 1},
		&Payment{AccountID: dst, Amount: 500, Asset: asset.Native()},
	)
	assert.Nil(t, err)

	signer, err := NewSigner(seed0, seed1, seed2)
	assert.Nil(t, err)

	env, err := signer.Sign(b, testNetworkID)
	assert.Nil(t, err)

	assert.Equal(t, 3, len(env.Signatures))
	assert.Equal(t, src, env.Signatures[0].Signer)
	assert.Equal(t, co1, env.Signatures[1].Signer)
	assert.Equal(t, co2, env.Signatures[2].Signer)

	payload, err := SignaturePayload(testNetworkID, b.Tx)
	assert.Nil(t, err)
	for _, sig := range env.Signatures {
		assert.True(t, crypto.Verify(sig.Signer, sig.Signature, payload))
	}
}

func TestEncodeDeterminism(t *testing.T) {
	src, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)
	dst, _, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	b := NewBuilder()
	err = b.Add(
		&AccountID{AccountID: src},
		&SeqNum{SeqNum: 3},
		&Payment{AccountID: dst, Amount: 42, Asset: asset.Native()},
	)
	assert.Nil(t, err)

	e1, err := Encode(b.Tx)
	assert.Nil(t, err)
	e2, err := Encode(b.Tx)
	assert.Nil(t, err)
	assert.Equal(t, e1, e2)

	k1, err := TxKey(b.Tx)
	assert.Nil(t, err)
	k2, err := TxKey(b.Tx)
	assert.Nil(t, err)
	assert.Equal(t, k1, k2)

	decoded, err := DecodeTx(e1)
	assert.Nil(t, err)
	assert.Equal(t, b.Tx.SeqNum, decoded.SeqNum)
	assert.Equal(t, b.Tx.AccountID, decoded.AccountID)
}
