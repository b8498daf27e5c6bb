package crypto

import (
	"bytes"
	"encoding/binary"
	"errors"

	b58 "github.com/mr-tron/base58"
)

type KeyType uint8

// enumeration of key types
const (
	_ KeyType = iota // skip zero
	KeyTypeAccountID
	KeyTypeSeed
	KeyTypeTx
	KeyTypeOfferID
	KeyTypeSignature
)

var (
	ErrInvalidKey = errors.New("invalid key string")
)

// Key is the internal representation of the various key hashes
// used by the network. Code identifies what the hash stands for.
type Key struct {
	Code KeyType
	Hash [32]byte
}

// DecodeKey decodes a base58 encoded key string to a Key.
func DecodeKey(key string) (*Key, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	b, err := b58.Decode(key)
	if err != nil {
		return nil, ErrInvalidKey
	}

	var k Key
	r := bytes.NewReader(b)
	err = binary.Read(r, binary.BigEndian, &k)
	if err != nil {
		return nil, ErrInvalidKey
	}

	switch k.Code {
	case KeyTypeAccountID:
		fallthrough
	case KeyTypeSeed:
		fallthrough
	case KeyTypeTx:
		fallthrough
	case KeyTypeOfferID:
		fallthrough
	case KeyTypeSignature:
		return &k, nil
	}
	return nil, ErrInvalidKey
}

// EncodeKey encodes a Key to a base58 encoded key string.
func EncodeKey(k *Key) string {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, k)
	return b58.Encode(buf.Bytes())
}

// IsValidKey checks the validity of the supplied key string.
func IsValidKey(key string) bool {
	if _, err := DecodeKey(key); err != nil {
		return false
	}
	return true
}

// IsValidAccountKey checks whether the supplied key string is
// a well-formed account address.
func IsValidAccountKey(key string) bool {
	k, err := DecodeKey(key)
	if err != nil {
		return false
	}
	return k.Code == KeyTypeAccountID
}

// IsValidSeedKey checks whether the supplied key string is a
// well-formed signing seed.
func IsValidSeedKey(key string) bool {
	k, err := DecodeKey(key)
	if err != nil {
		return false
	}
	return k.Code == KeyTypeSeed
}
