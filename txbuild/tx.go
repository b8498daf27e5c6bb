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

package txbuild

import (
	"errors"
	"fmt"
)

// BaseFee is the per-operation fee in base units.
var BaseFee int64 = 100

// Builder serves as the main object for assembling a transaction.
// Once signed the underlying transaction is immutable.
type Builder struct {
	Tx     *Tx
	sealed bool
}

func NewBuilder() *Builder {
	return &Builder{Tx: &Tx{}}
}

// Add applies one or more mutators to the underlying transaction.
// If any mutation fails the method fails. The total fee is
// recomputed after every call so partial Adds stay consistent.
func (b *Builder) Add(ms ...TxMutator) error {
	if b.sealed {
		return ErrTxSealed
	}

	var err error
	for _, m := range ms {
		err = m.Mutate(b.Tx)
		if err != nil {
			return err
		}
	}

	// Recompute the total fee over the final op list.
	fm := Fee{BaseFee: BaseFee}
	err = fm.Mutate(b.Tx)
	if err != nil {
		return err
	}

	if err := b.validate(); err != nil {
		return fmt.Errorf("tx is invalid: %v", err)
	}

	return nil
}

func (b *Builder) validate() error {
	if b.Tx.AccountID == "" {
		return errors.New("empty account id")
	}
	if len(b.Tx.OpList) == 0 {
		return errors.New("empty op list")
	}
	return nil
}
