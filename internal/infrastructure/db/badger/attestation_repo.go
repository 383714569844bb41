package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/escrowless/marketd/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const (
	attestorStateStoreDir = "attestor-states"
	attestationStoreDir   = "attestations"
)

type attestationRepository struct {
	stateStore *badgerhold.Store
	store      *badgerhold.Store
}

func NewAttestationRepository(config ...interface{}) (domain.AttestationRepository, error) {
	if len(config) != 2 {
		return nil, fmt.Errorf("invalid config")
	}
	baseDir, ok := config[0].(string)
	if !ok {
		return nil, fmt.Errorf("invalid base directory")
	}
	var logger badger.Logger
	if config[1] != nil {
		logger, ok = config[1].(badger.Logger)
		if !ok {
			return nil, fmt.Errorf("invalid logger")
		}
	}

	var stateDir, attDir string
	if len(baseDir) > 0 {
		stateDir = filepath.Join(baseDir, attestorStateStoreDir)
		attDir = filepath.Join(baseDir, attestationStoreDir)
	}
	stateStore, err := createDB(stateDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open attestor state store: %s", err)
	}
	store, err := createDB(attDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open attestation store: %s", err)
	}

	return &attestationRepository{stateStore, store}, nil
}

func (r *attestationRepository) AddState(_ context.Context, state domain.AttestorState) error {
	insertFn := func() error {
		return r.stateStore.Insert(state.Key().String(), state)
	}
	if err := insertFn(); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrDuplicateKey
		}
		if errors.Is(err, badger.ErrConflict) {
			attempts := 1
			for errors.Is(err, badger.ErrConflict) && attempts <= maxRetries {
				time.Sleep(100 * time.Millisecond)
				err = insertFn()
				attempts++
			}
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return domain.ErrDuplicateKey
			}
		}
		return err
	}
	return nil
}

func (r *attestationRepository) GetState(
	_ context.Context, key domain.Key,
) (*domain.AttestorState, error) {
	var state domain.AttestorState
	if err := r.stateStore.Get(key.String(), &state); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrKeyNotFound
		}
		return nil, err
	}
	return &state, nil
}

func (r *attestationRepository) UpdateState(
	_ context.Context, state domain.AttestorState,
) error {
	updateFn := func() error {
		return r.stateStore.Update(state.Key().String(), state)
	}
	if err := updateFn(); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrKeyNotFound
		}
		if errors.Is(err, badger.ErrConflict) {
			attempts := 1
			for errors.Is(err, badger.ErrConflict) && attempts <= maxRetries {
				time.Sleep(100 * time.Millisecond)
				err = updateFn()
				attempts++
			}
		}
		return err
	}
	return nil
}

func (r *attestationRepository) Add(_ context.Context, attestation domain.Attestation) error {
	insertFn := func() error {
		return r.store.Insert(attestation.Key().String(), attestation)
	}
	if err := insertFn(); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrDuplicateKey
		}
		if errors.Is(err, badger.ErrConflict) {
			attempts := 1
			for errors.Is(err, badger.ErrConflict) && attempts <= maxRetries {
				time.Sleep(100 * time.Millisecond)
				err = insertFn()
				attempts++
			}
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return domain.ErrDuplicateKey
			}
		}
		return err
	}
	return nil
}

func (r *attestationRepository) Get(
	_ context.Context, key domain.Key,
) (*domain.Attestation, error) {
	var attestation domain.Attestation
	if err := r.store.Get(key.String(), &attestation); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrKeyNotFound
		}
		return nil, err
	}
	return &attestation, nil
}

func (r *attestationRepository) MarkUsed(ctx context.Context, key domain.Key) error {
	attestation, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	attestation.Used = true

	updateFn := func() error {
		return r.store.Update(key.String(), *attestation)
	}
	if err := updateFn(); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrKeyNotFound
		}
		if errors.Is(err, badger.ErrConflict) {
			attempts := 1
			for errors.Is(err, badger.ErrConflict) && attempts <= maxRetries {
				time.Sleep(100 * time.Millisecond)
				err = updateFn()
				attempts++
			}
		}
		return err
	}
	return nil
}

func (r *attestationRepository) Close() {
	// nolint:all
	r.stateStore.Close()
	r.store.Close()
}
