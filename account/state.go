package account

import (
	"errors"
	"fmt"

	"github.com/lumenpay/go-lumenpay/asset"
	"github.com/lumenpay/go-lumenpay/gateway"
)

// ErrNoAccount means the address has never been activated on the
// network. This is a recoverable condition: the caller may choose
// to fund the account instead of failing.
var ErrNoAccount = errors.New("account does not exist on the network")

// ErrNotLoaded means a snapshot accessor was called before Load.
var ErrNotLoaded = errors.New("account state is not loaded")

// State is the lazily loaded view of one account's on-chain state:
// sequence number, trustline set and signer weights. A State has
// exactly one logical owner; two mutating operations must never
// share it concurrently, because both would race on the cached
// sequence number.
type State struct {
	address  string
	gw       gateway.Gateway
	snapshot *gateway.AccountSnapshot
}

// NewState creates an empty, not yet loaded state for the address.
func NewState(address string, gw gateway.Gateway) *State {
	return &State{address: address, gw: gw}
}

func (s *State) Address() string {
	return s.address
}

// Loaded reports whether a snapshot is currently cached.
func (s *State) Loaded() bool {
	return s.snapshot != nil
}

// Load fetches the account snapshot from the gateway unless one is
// already cached and force is false. A never-activated address
// yields ErrNoAccount.
func (s *State) Load(force bool) error {
	if s.snapshot != nil && !force {
		return nil
	}
	snapshot, err := s.gw.LoadAccount(s.address)
	if err != nil {
		if gateway.IsNotFound(err) {
			return ErrNoAccount
		}
		return fmt.Errorf("load account %s failed: %v", s.address, err)
	}
	s.snapshot = snapshot
	return nil
}

// Reset discards the cached snapshot. Call it after any submission
// failure: the cached sequence number can no longer be trusted and
// must be reloaded rather than retried in place.
func (s *State) Reset() {
	s.snapshot = nil
}

// SeqNum returns the cached sequence number.
func (s *State) SeqNum() (uint64, error) {
	if s.snapshot == nil {
		return 0, ErrNotLoaded
	}
	return s.snapshot.SeqNum, nil
}

// AdvanceSeq records the consumption of one sequence number after
// a successful submission.
func (s *State) AdvanceSeq() {
	if s.snapshot != nil {
		s.snapshot.SeqNum++
	}
}

// HasTrust reports whether the loaded snapshot can hold the asset.
// The native asset needs no trustline and always reports true.
func (s *State) HasTrust(a asset.Asset) (bool, error) {
	if a.IsNative() {
		return true, nil
	}
	if s.snapshot == nil {
		return false, ErrNotLoaded
	}
	return SnapshotHasTrust(s.snapshot, a), nil
}

// SnapshotHasTrust scans a snapshot's balance list for a trustline
// matching the asset's (code, issuer) pair.
func SnapshotHasTrust(snapshot *gateway.AccountSnapshot, a asset.Asset) bool {
	if a.IsNative() {
		return true
	}
	for _, b := range snapshot.Balances {
		if b.Asset.Equal(a) {
			return true
		}
	}
	return false
}

// Balances returns the loaded balance list keyed by asset code,
// with the native asset under its own code.
func (s *State) Balances() (map[string]string, error) {
	if s.snapshot == nil {
		return nil, ErrNotLoaded
	}
	out := make(map[string]string)
	for _, b := range s.snapshot.Balances {
		out[b.Asset.Code] = b.Amount
	}
	return out, nil
}

// BalanceFull returns the loaded balance list keyed by the full
// asset identity ("native" or "CODE-ISSUER").
func (s *State) BalanceFull() (map[string]string, error) {
	if s.snapshot == nil {
		return nil, ErrNotLoaded
	}
	out := make(map[string]string)
	for _, b := range s.snapshot.Balances {
		out[b.Asset.String()] = b.Amount
	}
	return out, nil
}

// NativeBalance returns the loaded native asset balance.
func (s *State) NativeBalance() (string, error) {
	if s.snapshot == nil {
		return "", ErrNotLoaded
	}
	for _, b := range s.snapshot.Balances {
		if b.Asset.IsNative() {
			return b.Amount, nil
		}
	}
	return "", errors.New("native balance entry is missing")
}

// Signers returns the loaded signer weights.
func (s *State) Signers() ([]gateway.SignerInfo, error) {
	if s.snapshot == nil {
		return nil, ErrNotLoaded
	}
	return s.snapshot.Signers, nil
}
