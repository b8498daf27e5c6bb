package txbuild

import (
	"encoding/json"
	"fmt"

	"github.com/lumenpay/go-lumenpay/crypto"
)

// Encode renders the wire form of the transaction. Struct fields
// marshal in declaration order, so the output is deterministic for
// a given Tx and is usable as a signing payload.
func Encode(tx *Tx) ([]byte, error) {
	if tx == nil {
		return nil, ErrNilTx
	}
	b, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("encode tx failed: %v", err)
	}
	return b, nil
}

// DecodeTx decodes the wire form of a transaction.
func DecodeTx(b []byte) (*Tx, error) {
	tx := &Tx{}
	if err := json.Unmarshal(b, tx); err != nil {
		return nil, fmt.Errorf("decode tx failed: %v", err)
	}
	return tx, nil
}

// SignaturePayload computes the bytes every signer signs: the
// network id followed by the encoded transaction. Binding the
// network id stops a testnet transaction from replaying on the
// live network.
func SignaturePayload(networkID [32]byte, tx *Tx) ([]byte, error) {
	b, err := Encode(tx)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, 0, len(networkID)+len(b))
	payload = append(payload, networkID[:]...)
	payload = append(payload, b...)
	return payload, nil
}

// TxKey derives the key identifying the transaction on the network.
func TxKey(tx *Tx) (string, error) {
	b, err := Encode(tx)
	if err != nil {
		return "", err
	}
	k := &crypto.Key{
		Code: crypto.KeyTypeTx,
		Hash: crypto.SHA256HashBytes(b),
	}
	return crypto.EncodeKey(k), nil
}
