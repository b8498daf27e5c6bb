// Copyright 2019 The go-lumenpay Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package amount converts between the decimal string amounts used
// on the API surface and the integral base units carried inside
// transaction operations and the store. All arithmetic on amounts
// goes through shopspring/decimal so that no floating point error
// can creep into balances.
package amount

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// UnitsPerLumen is the number of indivisible base units in one
// native lumen.
const UnitsPerLumen = 100000

// MinCreateAccountBalance is the minimum starting balance, in
// lumens, the network requires to fund a new account. Submitting
// a create-account operation below it wastes the transaction fee.
const MinCreateAccountBalance = "1"

var (
	ErrNegativeAmount = errors.New("amount is not positive")
	ErrTooPrecise     = errors.New("amount has too many decimal places")

	unitsPerLumen = decimal.New(UnitsPerLumen, 0)
	minCreate     = decimal.RequireFromString(MinCreateAccountBalance)
)

// Parse validates the decimal string representation of an amount.
// Amounts must be strictly positive and must not carry more
// precision than one base unit.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed amount %q: %v", s, err)
	}
	if d.Sign() <= 0 {
		return decimal.Zero, ErrNegativeAmount
	}
	if d.Exponent() < -5 {
		return decimal.Zero, ErrTooPrecise
	}
	return d, nil
}

// ToBase converts a decimal amount string into base units.
func ToBase(s string) (int64, error) {
	d, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return d.Mul(unitsPerLumen).IntPart(), nil
}

// FromBase renders base units as a plain decimal amount string.
func FromBase(units int64) string {
	return decimal.New(units, 0).Div(unitsPerLumen).String()
}

// BelowCreateMinimum reports whether the parsed amount is below
// the minimum account funding balance.
func BelowCreateMinimum(d decimal.Decimal) bool {
	return d.Cmp(minCreate) < 0
}
