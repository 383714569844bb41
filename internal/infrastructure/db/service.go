package db

import (
	"embed"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/escrowless/marketd/internal/core/domain"
	"github.com/escrowless/marketd/internal/core/ports"
	badgerdb "github.com/escrowless/marketd/internal/infrastructure/db/badger"
	sqlitedb "github.com/escrowless/marketd/internal/infrastructure/db/sqlite"
	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sqlite/migration/*
var migrations embed.FS

var (
	marketConfigStoreTypes = map[string]func(...interface{}) (domain.MarketConfigRepository, error){
		"badger": badgerdb.NewMarketConfigRepository,
		"sqlite": sqlitedb.NewMarketConfigRepository,
	}
	vaultStoreTypes = map[string]func(...interface{}) (domain.VaultRepository, error){
		"badger": badgerdb.NewVaultRepository,
		"sqlite": sqlitedb.NewVaultRepository,
	}
	listingStoreTypes = map[string]func(...interface{}) (domain.ListingRepository, error){
		"badger": badgerdb.NewListingRepository,
		"sqlite": sqlitedb.NewListingRepository,
	}
	attestationStoreTypes = map[string]func(...interface{}) (domain.AttestationRepository, error){
		"badger": badgerdb.NewAttestationRepository,
		"sqlite": sqlitedb.NewAttestationRepository,
	}
)

const sqliteDbFile = "sqlite.db"

type ServiceConfig struct {
	DataStoreType   string
	DataStoreConfig []interface{}
}

type service struct {
	marketConfigStore domain.MarketConfigRepository
	vaultStore        domain.VaultRepository
	listingStore      domain.ListingRepository
	attestationStore  domain.AttestationRepository
}

func NewService(config ServiceConfig) (ports.RepoManager, error) {
	marketConfigStoreFactory, ok := marketConfigStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("market config store type not supported")
	}
	vaultStoreFactory, ok := vaultStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("vault store type not supported")
	}
	listingStoreFactory, ok := listingStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("listing store type not supported")
	}
	attestationStoreFactory, ok := attestationStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("attestation store type not supported")
	}

	var marketConfigStore domain.MarketConfigRepository
	var vaultStore domain.VaultRepository
	var listingStore domain.ListingRepository
	var attestationStore domain.AttestationRepository
	var err error

	switch config.DataStoreType {
	case "badger":
		marketConfigStore, err = marketConfigStoreFactory(config.DataStoreConfig...)
		if err != nil {
			return nil, fmt.Errorf("failed to create market config store: %w", err)
		}
		vaultStore, err = vaultStoreFactory(config.DataStoreConfig...)
		if err != nil {
			return nil, fmt.Errorf("failed to create vault store: %w", err)
		}
		listingStore, err = listingStoreFactory(config.DataStoreConfig...)
		if err != nil {
			return nil, fmt.Errorf("failed to create listing store: %w", err)
		}
		attestationStore, err = attestationStoreFactory(config.DataStoreConfig...)
		if err != nil {
			return nil, fmt.Errorf("failed to create attestation store: %w", err)
		}

	case "sqlite":
		if len(config.DataStoreConfig) != 1 {
			return nil, fmt.Errorf("invalid data store config")
		}

		baseDir, ok := config.DataStoreConfig[0].(string)
		if !ok {
			return nil, fmt.Errorf("invalid base directory")
		}

		dbFile := filepath.Join(baseDir, sqliteDbFile)
		db, err := sqlitedb.OpenDb(dbFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %s", err)
		}

		driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to init driver: %s", err)
		}

		source, err := iofs.New(migrations, "sqlite/migration")
		if err != nil {
			return nil, fmt.Errorf("failed to embed migrations: %s", err)
		}

		m, err := migrate.NewWithInstance("iofs", source, "marketdb", driver)
		if err != nil {
			return nil, fmt.Errorf("failed to create migration instance: %s", err)
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return nil, fmt.Errorf("failed to run migrations: %s", err)
		}

		marketConfigStore, err = marketConfigStoreFactory(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create market config store: %w", err)
		}
		vaultStore, err = vaultStoreFactory(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create vault store: %w", err)
		}
		listingStore, err = listingStoreFactory(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create listing store: %w", err)
		}
		attestationStore, err = attestationStoreFactory(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create attestation store: %w", err)
		}

	default:
		return nil, fmt.Errorf("unknown data store type")
	}

	return &service{
		marketConfigStore: marketConfigStore,
		vaultStore:        vaultStore,
		listingStore:      listingStore,
		attestationStore:  attestationStore,
	}, nil
}

func (s *service) MarketConfigs() domain.MarketConfigRepository {
	return s.marketConfigStore
}

func (s *service) Vaults() domain.VaultRepository {
	return s.vaultStore
}

func (s *service) Listings() domain.ListingRepository {
	return s.listingStore
}

func (s *service) Attestations() domain.AttestationRepository {
	return s.attestationStore
}

func (s *service) Close() {
	s.marketConfigStore.Close()
	s.vaultStore.Close()
	s.listingStore.Close()
	s.attestationStore.Close()
}
