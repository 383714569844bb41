package application_test

import (
	"context"
	"sync"

	"github.com/escrowless/marketd/internal/core/domain"
)

// Map-backed repositories reproducing the store contract: duplicate adds fail
// with ErrDuplicateKey, reads and deletes of absent keys with ErrKeyNotFound.

type mockRepoManager struct {
	configs      *mockMarketConfigRepository
	vaults       *mockVaultRepository
	listings     *mockListingRepository
	attestations *mockAttestationRepository
}

func newMockRepoManager() *mockRepoManager {
	return &mockRepoManager{
		configs:      &mockMarketConfigRepository{},
		vaults:       &mockVaultRepository{store: make(map[domain.Key]domain.Vault)},
		listings:     &mockListingRepository{store: make(map[domain.Key]domain.Listing)},
		attestations: &mockAttestationRepository{
			states: make(map[domain.Key]domain.AttestorState),
			store:  make(map[domain.Key]domain.Attestation),
		},
	}
}

func (m *mockRepoManager) MarketConfigs() domain.MarketConfigRepository { return m.configs }
func (m *mockRepoManager) Vaults() domain.VaultRepository              { return m.vaults }
func (m *mockRepoManager) Listings() domain.ListingRepository          { return m.listings }
func (m *mockRepoManager) Attestations() domain.AttestationRepository  { return m.attestations }
func (m *mockRepoManager) Close()                                      {}

type mockMarketConfigRepository struct {
	lock   sync.RWMutex
	config *domain.MarketConfig
}

func (m *mockMarketConfigRepository) Get(_ context.Context) (*domain.MarketConfig, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.config, nil
}

func (m *mockMarketConfigRepository) Add(_ context.Context, config domain.MarketConfig) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.config != nil {
		return domain.ErrDuplicateKey
	}
	m.config = &config
	return nil
}

func (m *mockMarketConfigRepository) Close() {}

type mockVaultRepository struct {
	lock  sync.RWMutex
	store map[domain.Key]domain.Vault
}

func (m *mockVaultRepository) Add(_ context.Context, vault domain.Vault) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.store[vault.Key()]; ok {
		return domain.ErrDuplicateKey
	}
	m.store[vault.Key()] = vault
	return nil
}

func (m *mockVaultRepository) Get(_ context.Context, key domain.Key) (*domain.Vault, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	vault, ok := m.store[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return &vault, nil
}

func (m *mockVaultRepository) Delete(_ context.Context, key domain.Key) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.store[key]; !ok {
		return domain.ErrKeyNotFound
	}
	delete(m.store, key)
	return nil
}

func (m *mockVaultRepository) Close() {}

type mockListingRepository struct {
	lock      sync.RWMutex
	store     map[domain.Key]domain.Listing
	deleteErr error
}

// failDeletes makes every Delete fail with err until reset with nil.
func (m *mockListingRepository) failDeletes(err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.deleteErr = err
}

func (m *mockListingRepository) Add(_ context.Context, listing domain.Listing) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.store[listing.Key()]; ok {
		return domain.ErrDuplicateKey
	}
	m.store[listing.Key()] = listing
	return nil
}

func (m *mockListingRepository) Get(_ context.Context, key domain.Key) (*domain.Listing, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	listing, ok := m.store[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return &listing, nil
}

func (m *mockListingRepository) Delete(_ context.Context, key domain.Key) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.store[key]; !ok {
		return domain.ErrKeyNotFound
	}
	delete(m.store, key)
	return nil
}

func (m *mockListingRepository) GetExpired(
	_ context.Context, before int64,
) ([]domain.Listing, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	expired := make([]domain.Listing, 0)
	for _, listing := range m.store {
		if listing.ValidUntil != nil && *listing.ValidUntil < before {
			expired = append(expired, listing)
		}
	}
	return expired, nil
}

func (m *mockListingRepository) Close() {}

type mockAttestationRepository struct {
	lock        sync.RWMutex
	states      map[domain.Key]domain.AttestorState
	store       map[domain.Key]domain.Attestation
	markUsedErr error
}

// failMarkUsed makes every MarkUsed fail with err until reset with nil.
func (m *mockAttestationRepository) failMarkUsed(err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.markUsedErr = err
}

func (m *mockAttestationRepository) AddState(
	_ context.Context, state domain.AttestorState,
) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.states[state.Key()]; ok {
		return domain.ErrDuplicateKey
	}
	m.states[state.Key()] = state
	return nil
}

func (m *mockAttestationRepository) GetState(
	_ context.Context, key domain.Key,
) (*domain.AttestorState, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	state, ok := m.states[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return &state, nil
}

func (m *mockAttestationRepository) UpdateState(
	_ context.Context, state domain.AttestorState,
) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.states[state.Key()]; !ok {
		return domain.ErrKeyNotFound
	}
	m.states[state.Key()] = state
	return nil
}

func (m *mockAttestationRepository) Add(
	_ context.Context, attestation domain.Attestation,
) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.store[attestation.Key()]; ok {
		return domain.ErrDuplicateKey
	}
	m.store[attestation.Key()] = attestation
	return nil
}

func (m *mockAttestationRepository) Get(
	_ context.Context, key domain.Key,
) (*domain.Attestation, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	attestation, ok := m.store[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return &attestation, nil
}

func (m *mockAttestationRepository) MarkUsed(_ context.Context, key domain.Key) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.markUsedErr != nil {
		return m.markUsedErr
	}
	attestation, ok := m.store[key]
	if !ok {
		return domain.ErrKeyNotFound
	}
	attestation.Used = true
	m.store[key] = attestation
	return nil
}

func (m *mockAttestationRepository) Close() {}

// age rewinds an attestation's creation time by the given number of seconds.
func (m *mockAttestationRepository) age(key domain.Key, seconds int64) {
	m.lock.Lock()
	defer m.lock.Unlock()
	attestation, ok := m.store[key]
	if !ok {
		return
	}
	attestation.CreatedAt -= seconds
	m.store[key] = attestation
}
