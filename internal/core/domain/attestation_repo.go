package domain

import "context"

type AttestationRepository interface {
	// AddState persists an attestor state, failing with ErrDuplicateKey
	// if already registered.
	AddState(ctx context.Context, state AttestorState) error
	// GetState returns the attestor state, or ErrKeyNotFound.
	GetState(ctx context.Context, key Key) (*AttestorState, error)
	// UpdateState overwrites an existing attestor state.
	UpdateState(ctx context.Context, state AttestorState) error
	// Add persists an attestation, failing with ErrDuplicateKey if a
	// record already exists at its derived key.
	Add(ctx context.Context, attestation Attestation) error
	// Get returns the attestation at key, or ErrKeyNotFound.
	Get(ctx context.Context, key Key) (*Attestation, error)
	// MarkUsed consumes an attestation so it cannot be replayed. Fails
	// with ErrKeyNotFound if absent.
	MarkUsed(ctx context.Context, key Key) error
	Close()
}
