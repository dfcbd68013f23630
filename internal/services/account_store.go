package services

import (
	"sync"

	"github.com/kovin-ide/kovin/internal/events"
	"github.com/kovin-ide/kovin/internal/models"
	"github.com/kovin-ide/kovin/internal/storage"
	"github.com/rs/zerolog"
)

type accountSnapshot struct {
	DeployedContracts []models.DeployedContract `json:"deployedContracts"`
}

// AccountStore tracks the wallet reported by the wallet collaborator and the
// local history of deployments. Only the history is persisted.
type AccountStore struct {
	bus     events.Publisher
	persist persister

	mu       sync.RWMutex
	account  models.Account
	deployed []models.DeployedContract
}

// NewAccountStore creates a new account store and restores its snapshot
func NewAccountStore(snap storage.Snapshotter, bus events.Publisher, log zerolog.Logger) *AccountStore {
	if bus == nil {
		bus = events.Discard{}
	}
	log = log.With().Str("component", "account_store").Logger()

	s := &AccountStore{
		bus:      bus,
		persist:  newPersister(snap, snapshotAccount, log),
		deployed: []models.DeployedContract{},
	}

	var saved accountSnapshot
	if s.persist.load(&saved) && saved.DeployedContracts != nil {
		s.deployed = saved.DeployedContracts
	}

	return s
}

// SetAccount records a connected wallet
func (s *AccountStore) SetAccount(address string, avatar, networkName *string, chainID *int64) error {
	if err := ValidateAddress(address); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.account = models.Account{
		Address:     &address,
		Avatar:      copyString(avatar),
		IsConnected: true,
		NetworkName: copyString(networkName),
	}
	if chainID != nil {
		id := *chainID
		s.account.ChainID = &id
	}
	s.commitLocked("account_connected")
	return nil
}

// SetNetwork records the wallet's current chain
func (s *AccountStore) SetNetwork(networkName string, chainID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.account.NetworkName = &networkName
	s.account.ChainID = &chainID
	s.commitLocked("network_changed")
}

// ClearAccount forgets the connected wallet
func (s *AccountStore) ClearAccount() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.account = models.Account{}
	s.commitLocked("account_disconnected")
}

// Account returns the connected wallet
func (s *AccountStore) Account() models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a := s.account
	a.Address = copyString(a.Address)
	a.Avatar = copyString(a.Avatar)
	a.NetworkName = copyString(a.NetworkName)
	if a.ChainID != nil {
		id := *a.ChainID
		a.ChainID = &id
	}
	return a
}

// AddDeployedContract appends a deployment receipt
func (s *AccountStore) AddDeployedContract(contract models.DeployedContract) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deployed = append(s.deployed, contract)
	s.commitLocked("contract_deployed")
}

// RemoveDeployedContract drops a receipt by id. Chain state is unaffected.
func (s *AccountStore) RemoveDeployedContract(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.deployed {
		if c.ID == id {
			s.deployed = append(s.deployed[:i:i], s.deployed[i+1:]...)
			s.commitLocked("deployment_removed")
			return true
		}
	}
	return false
}

// DeployedContracts returns the receipts in deployment order
func (s *AccountStore) DeployedContracts() []models.DeployedContract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.DeployedContract, len(s.deployed))
	copy(out, s.deployed)
	return out
}

func (s *AccountStore) commitLocked(kind string) {
	s.persist.save(accountSnapshot{DeployedContracts: s.deployed})
	s.bus.Publish(events.Event{Store: events.StoreAccount, Kind: kind})
}
