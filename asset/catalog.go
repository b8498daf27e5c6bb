package asset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lumenpay/go-lumenpay/crypto"
)

var (
	// ErrNotFound means the symbol has no configured issuer.
	ErrNotFound = errors.New("asset does not exist")
)

// Catalog resolves symbolic asset codes to full assets. The native
// code always resolves; every other code must be configured with
// its issuing account.
type Catalog struct {
	assets map[string]Asset
}

// NewCatalog builds a catalog from a code -> issuer mapping.
func NewCatalog(issuers map[string]string) (*Catalog, error) {
	assets := make(map[string]Asset)
	for code, issuer := range issuers {
		code = strings.ToUpper(code)
		if code == NativeCode {
			return nil, fmt.Errorf("native asset %s must not carry an issuer", NativeCode)
		}
		if !crypto.IsValidAccountKey(issuer) {
			return nil, fmt.Errorf("invalid issuer for asset %s: %s", code, issuer)
		}
		assets[code] = Asset{Code: code, Issuer: issuer}
	}
	return &Catalog{assets: assets}, nil
}

// LoadCatalog reads the "assets" mapping from the supplied viper
// configuration.
func LoadCatalog(v *viper.Viper) (*Catalog, error) {
	return NewCatalog(v.GetStringMapString("assets"))
}

// Resolve maps a case-insensitive symbolic code to its asset.
func (c *Catalog) Resolve(code string) (Asset, error) {
	code = strings.ToUpper(code)
	if code == NativeCode {
		return Native(), nil
	}
	a, ok := c.assets[code]
	if !ok {
		return Asset{}, ErrNotFound
	}
	return a, nil
}
