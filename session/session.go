package session

import (
	"fmt"

	"github.com/lumenpay/go-lumenpay/account"
	"github.com/lumenpay/go-lumenpay/asset"
	"github.com/lumenpay/go-lumenpay/federation"
	"github.com/lumenpay/go-lumenpay/gateway"
	"github.com/lumenpay/go-lumenpay/offer"
	"github.com/lumenpay/go-lumenpay/pay"
	"github.com/lumenpay/go-lumenpay/store"
	"github.com/lumenpay/go-lumenpay/sync"
)

// Session is a fully wired wallet: every collaborator is built
// once from the config and shared from here. Mutating calls go
// through one orchestrator per concern, keeping the one-owner
// sequence number rule.
type Session struct {
	Config     *Config
	Account    *account.Account
	Gateway    gateway.Gateway
	Catalog    *asset.Catalog
	Store      store.Store
	Pay        *pay.Orchestrator
	Offers     *offer.Manager
	Sync       *sync.Engine
	Federation *federation.Client
}

// New wires a session from a validated config.
func New(cfg *Config) (*Session, error) {
	acc, err := account.New(cfg.Address, cfg.Seed, cfg.CoSigners...)
	if err != nil {
		return nil, err
	}

	gw, err := gateway.NewHTTPGateway(cfg.QueryAddr)
	if err != nil {
		return nil, err
	}

	catalog, err := asset.NewCatalog(cfg.Assets)
	if err != nil {
		return nil, fmt.Errorf("load asset catalog failed: %v", err)
	}

	st, err := store.NewBoltStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	// One state per account: the payment orchestrator and the offer
	// manager submit against the same sequence number cache.
	state := account.NewState(cfg.Address, gw)

	s := &Session{
		Config:  cfg,
		Account: acc,
		Gateway: gw,
		Catalog: catalog,
		Store:   st,
		Pay:     pay.NewOrchestrator(acc, state, gw, cfg.NetworkID),
		Offers:  offer.NewManager(acc, state, gw, cfg.NetworkID),
		Sync:    sync.NewEngine(gw, cfg.TrustedIssuers),
	}

	if cfg.FederationAddr != "" {
		fed, err := federation.NewClient(cfg.FederationAddr)
		if err != nil {
			st.Close()
			return nil, err
		}
		s.Federation = fed
	}

	return s, nil
}

// Close releases the session's resources.
func (s *Session) Close() error {
	return s.Store.Close()
}
