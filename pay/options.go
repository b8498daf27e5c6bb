package pay

import (
	"fmt"
	"strings"

	"github.com/lumenpay/go-lumenpay/account"
	"github.com/lumenpay/go-lumenpay/crypto"
	"github.com/lumenpay/go-lumenpay/gateway"
	"github.com/lumenpay/go-lumenpay/log"
	"github.com/lumenpay/go-lumenpay/txbuild"
)

// AddSigner registers an additional signing key with the given
// weight.
func (o *Orchestrator) AddSigner(address string, weight uint32) (Outcome, error) {
	if !crypto.IsValidAccountKey(address) {
		return Outcome{}, fmt.Errorf("invalid signer address: %s", address)
	}
	if weight == 0 {
		return Outcome{}, fmt.Errorf("signer weight must be positive")
	}
	if err := o.loadSource(); err != nil {
		return Outcome{}, err
	}
	return o.buildAndSubmit("", &txbuild.SetOptions{
		Signer: &txbuild.SignerWeight{Address: address, Weight: weight},
	})
}

// RemoveSigner drops a signing key by setting its weight to zero.
func (o *Orchestrator) RemoveSigner(address string) (Outcome, error) {
	if !crypto.IsValidAccountKey(address) {
		return Outcome{}, fmt.Errorf("invalid signer address: %s", address)
	}
	if err := o.loadSource(); err != nil {
		return Outcome{}, err
	}
	return o.buildAndSubmit("", &txbuild.SetOptions{
		Signer: &txbuild.SignerWeight{Address: address, Weight: 0},
	})
}

// SetWeights sets the master key weight and the three operation
// thresholds in a single transaction.
func (o *Orchestrator) SetWeights(master, low, med, high uint32) (Outcome, error) {
	if err := o.loadSource(); err != nil {
		return Outcome{}, err
	}
	return o.buildAndSubmit("", &txbuild.SetOptions{
		MasterWeight:  &master,
		LowThreshold:  &low,
		MedThreshold:  &med,
		HighThreshold: &high,
	})
}

// SetHomeDomain publishes the account's home domain, used for
// federated address resolution.
func (o *Orchestrator) SetHomeDomain(domain string) (Outcome, error) {
	if err := o.loadSource(); err != nil {
		return Outcome{}, err
	}
	return o.buildAndSubmit("", &txbuild.SetOptions{HomeDomain: &domain})
}

// Lockout permanently disables the master key by zeroing its
// weight. The account stays usable only through co-signers already
// registered; there is no way back.
func (o *Orchestrator) Lockout() (Outcome, error) {
	if err := o.loadSource(); err != nil {
		return Outcome{}, err
	}
	log.Warnf("locking out master key of %s", o.acc.Address)
	var zero uint32
	return o.buildAndSubmit("", &txbuild.SetOptions{MasterWeight: &zero})
}

// GetTransaction looks up a confirmed transaction. When matchMemo
// is non-empty the record only counts if its memo matches, so
// callers can verify that a hash they were handed belongs to the
// payment they expect.
func (o *Orchestrator) GetTransaction(txID, matchMemo string) (*gateway.TxRecord, error) {
	rec, err := o.gw.Transaction(txID)
	if err != nil {
		return nil, err
	}
	if matchMemo != "" && !strings.EqualFold(rec.Memo, matchMemo) {
		return nil, fmt.Errorf("transaction %s memo mismatch", txID)
	}
	return rec, nil
}

// loadSource loads the cached source state, mapping a missing
// account to a plain error since option changes have no funding
// fallback.
func (o *Orchestrator) loadSource() error {
	if err := o.state.Load(false); err != nil {
		if err == account.ErrNoAccount {
			return fmt.Errorf("source account %s does not exist", o.acc.Address)
		}
		return err
	}
	return nil
}
