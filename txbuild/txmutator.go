package txbuild

import (
	"errors"

	"github.com/lumenpay/go-lumenpay/asset"
	"github.com/lumenpay/go-lumenpay/crypto"
)

var (
	ErrNilTx    = errors.New("tx is nil")
	ErrTxSealed = errors.New("tx is already signed")
)

// TxMutator defines the method which all the transaction
// mutators should implement.
type TxMutator interface {
	Mutate(tx *Tx) error
}

// AccountID sets the source account of the Tx.
type AccountID struct {
	AccountID string
}

func (a *AccountID) validate() error {
	if a.AccountID == "" {
		return errors.New("empty account id")
	}
	if !crypto.IsValidAccountKey(a.AccountID) {
		return errors.New("invalid account key")
	}
	return nil
}

// Mutate changes the corresponding AccountID field of the Tx.
func (a *AccountID) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := a.validate(); err != nil {
		return err
	}
	tx.AccountID = a.AccountID

	return nil
}

// Memo sets the Memo field of the Tx.
type Memo struct {
	Memo string
}

func (m *Memo) validate() error {
	if len(m.Memo) > 28 {
		return errors.New("memo is too long")
	}
	return nil
}

// Mutate changes the corresponding Memo field of the Tx.
func (m *Memo) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := m.validate(); err != nil {
		return err
	}
	tx.Memo = m.Memo
	return nil
}

// SeqNum sets the SeqNum field of the Tx.
type SeqNum struct {
	SeqNum uint64
}

func (s *SeqNum) validate() error {
	if s.SeqNum == 0 {
		return errors.New("seqnum is zero")
	}
	return nil
}

// Mutate changes the corresponding SeqNum field of the Tx.
func (s *SeqNum) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := s.validate(); err != nil {
		return err
	}
	tx.SeqNum = s.SeqNum
	return nil
}

// Fee computes the total fee of the Tx.
type Fee struct {
	BaseFee int64
}

func (f *Fee) validate() error {
	if f.BaseFee < 0 {
		return errors.New("base fee is negative")
	}
	return nil
}

// Mutate changes the corresponding Fee field of the Tx.
func (f *Fee) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := f.validate(); err != nil {
		return err
	}
	tx.Fee = f.BaseFee * int64(len(tx.OpList))
	return nil
}

func validateAsset(a asset.Asset) error {
	if a.IsNative() {
		return nil
	}
	if len(a.Code) == 0 || len(a.Code) > 12 {
		return errors.New("invalid asset code length")
	}
	if !crypto.IsValidAccountKey(a.Issuer) {
		return errors.New("invalid asset issuer account key")
	}
	return nil
}

// CreateAccount appends a CreateAccount op to the OpList of the Tx.
type CreateAccount struct {
	AccountID string
	Balance   int64
}

func (ca *CreateAccount) validate() error {
	if len(ca.AccountID) == 0 {
		return errors.New("empty account id")
	}
	if ca.Balance < BaseFee {
		return errors.New("starting balance less than base fee")
	}
	if !crypto.IsValidAccountKey(ca.AccountID) {
		return errors.New("invalid account key")
	}
	return nil
}

// Mutate appends a CreateAccount op to the OpList.
func (ca *CreateAccount) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := ca.validate(); err != nil {
		return err
	}
	tx.OpList = append(tx.OpList, &Op{
		Type: OpCreateAccount,
		CreateAccount: &CreateAccountOp{
			AccountID: ca.AccountID,
			Balance:   ca.Balance,
		},
	})
	return nil
}

// Payment appends a Payment op to the OpList of the Tx.
type Payment struct {
	AccountID string
	Asset     asset.Asset
	Amount    int64
}

func (p *Payment) validate() error {
	if p.Amount <= 0 {
		return errors.New("payment amount is not positive")
	}
	if !crypto.IsValidAccountKey(p.AccountID) {
		return errors.New("invalid account key")
	}
	if err := validateAsset(p.Asset); err != nil {
		return err
	}
	return nil
}

// Mutate appends a Payment op to the OpList.
func (p *Payment) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := p.validate(); err != nil {
		return err
	}
	tx.OpList = append(tx.OpList, &Op{
		Type: OpPayment,
		Payment: &PaymentOp{
			AccountID: p.AccountID,
			Asset:     p.Asset,
			Amount:    p.Amount,
		},
	})
	return nil
}

// PathPayment appends a PathPayment op to the OpList of the Tx.
type PathPayment struct {
	SendAsset  asset.Asset
	SendMax    int64
	AccountID  string
	DestAsset  asset.Asset
	DestAmount int64
	Path       []asset.Asset
}

func (p *PathPayment) validate() error {
	if p.SendMax <= 0 || p.DestAmount <= 0 {
		return errors.New("path payment amount is not positive")
	}
	if !crypto.IsValidAccountKey(p.AccountID) {
		return errors.New("invalid account key")
	}
	if err := validateAsset(p.SendAsset); err != nil {
		return err
	}
	if err := validateAsset(p.DestAsset); err != nil {
		return err
	}
	for _, a := range p.Path {
		if err := validateAsset(a); err != nil {
			return err
		}
	}
	return nil
}

// Mutate appends a PathPayment op to the OpList.
func (p *PathPayment) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := p.validate(); err != nil {
		return err
	}
	tx.OpList = append(tx.OpList, &Op{
		Type: OpPathPayment,
		PathPayment: &PathPaymentOp{
			SendAsset:  p.SendAsset,
			SendMax:    p.SendMax,
			AccountID:  p.AccountID,
			DestAsset:  p.DestAsset,
			DestAmount: p.DestAmount,
			Path:       p.Path,
		},
	})
	return nil
}

// ManageOffer appends a ManageOffer op to the OpList of the Tx.
type ManageOffer struct {
	Selling asset.Asset
	Buying  asset.Asset
	Price   string
	Amount  int64
	OfferID string
}

func (mo *ManageOffer) validate() error {
	// Amount zero cancels the offer identified by OfferID.
	if mo.Amount < 0 {
		return errors.New("offer amount is negative")
	}
	if mo.Amount == 0 && (mo.OfferID == "" || mo.OfferID == "0") {
		return errors.New("cancel requires an offer id")
	}
	if mo.Price == "" {
		return errors.New("empty offer price")
	}
	if err := validateAsset(mo.Selling); err != nil {
		return err
	}
	if err := validateAsset(mo.Buying); err != nil {
		return err
	}
	if mo.Selling.Equal(mo.Buying) {
		return errors.New("selling and buying assets are identical")
	}
	return nil
}

// Mutate appends a ManageOffer op to the OpList.
func (mo *ManageOffer) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := mo.validate(); err != nil {
		return err
	}
	offerID := mo.OfferID
	if offerID == "" {
		offerID = "0"
	}
	tx.OpList = append(tx.OpList, &Op{
		Type: OpManageOffer,
		ManageOffer: &ManageOfferOp{
			Selling: mo.Selling,
			Buying:  mo.Buying,
			Price:   mo.Price,
			Amount:  mo.Amount,
			OfferID: offerID,
		},
	})
	return nil
}

// Trust appends a Trust op to the OpList of the Tx.
type Trust struct {
	Asset asset.Asset
	Limit int64
}

func (t *Trust) validate() error {
	if t.Limit < 0 {
		return errors.New("negative trust limit")
	}
	if t.Asset.IsNative() {
		return errors.New("native asset needs no trustline")
	}
	if err := validateAsset(t.Asset); err != nil {
		return err
	}
	return nil
}

// Mutate appends a Trust op to the OpList.
func (t *Trust) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := t.validate(); err != nil {
		return err
	}
	tx.OpList = append(tx.OpList, &Op{
		Type: OpTrust,
		Trust: &TrustOp{
			Asset: t.Asset,
			Limit: t.Limit,
		},
	})
	return nil
}

// SetOptions appends a SetOptions op to the OpList of the Tx.
type SetOptions struct {
	HomeDomain    *string
	MasterWeight  *uint32
	LowThreshold  *uint32
	MedThreshold  *uint32
	HighThreshold *uint32
	Signer        *SignerWeight
}

func (so *SetOptions) validate() error {
	if so.HomeDomain == nil && so.MasterWeight == nil && so.LowThreshold == nil &&
		so.MedThreshold == nil && so.HighThreshold == nil && so.Signer == nil {
		return errors.New("empty set options")
	}
	if so.HomeDomain != nil && len(*so.HomeDomain) > 32 {
		return errors.New("home domain is too long")
	}
	if so.Signer != nil && !crypto.IsValidAccountKey(so.Signer.Address) {
		return errors.New("invalid signer account key")
	}
	return nil
}

// Mutate appends a SetOptions op to the OpList.
func (so *SetOptions) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := so.validate(); err != nil {
		return err
	}
	tx.OpList = append(tx.OpList, &Op{
		Type: OpSetOptions,
		SetOptions: &SetOptionsOp{
			HomeDomain:    so.HomeDomain,
			MasterWeight:  so.MasterWeight,
			LowThreshold:  so.LowThreshold,
			MedThreshold:  so.MedThreshold,
			HighThreshold: so.HighThreshold,
			Signer:        so.Signer,
		},
	})
	return nil
}
