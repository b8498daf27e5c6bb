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

package asset

import (
	"fmt"
	"strings"
)

// NativeCode is the symbol of the network's native asset.
const NativeCode = "LUM"

// Asset identifies an asset on the network by its code and the
// address of the issuing account. The native asset has no issuer.
type Asset struct {
	Code   string
	Issuer string
}

var native = Asset{Code: NativeCode}

// Native returns the network's native asset.
func Native() Asset {
	return native
}

// New creates an issued asset with a case-normalized code.
func New(code, issuer string) Asset {
	return Asset{Code: strings.ToUpper(code), Issuer: issuer}
}

// IsNative reports whether the asset is the network's native asset.
func (a Asset) IsNative() bool {
	return a.Code == NativeCode && a.Issuer == ""
}

// Equal compares assets pairwise on (code, issuer).
func (a Asset) Equal(b Asset) bool {
	return a.Code == b.Code && a.Issuer == b.Issuer
}

func (a Asset) String() string {
	if a.IsNative() {
		return "native"
	}
	return fmt.Sprintf("%s-%s", a.Code, a.Issuer)
}
