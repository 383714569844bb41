package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/escrowless/marketd/internal/core/domain"
)

type attestationRepository struct {
	db *sql.DB
}

func NewAttestationRepository(config ...interface{}) (domain.AttestationRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf(
			"cannot open attestation repository: invalid config, expected db at 0",
		)
	}

	return &attestationRepository{db}, nil
}

func (r *attestationRepository) AddState(
	ctx context.Context, state domain.AttestorState,
) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO attestor_state (key, attestor, last_nonce) VALUES (?, ?, ?)`,
		state.Key().String(), state.Attestor, int64(state.LastNonce),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert attestor state: %w", err)
	}
	return nil
}

func (r *attestationRepository) GetState(
	ctx context.Context, key domain.Key,
) (*domain.AttestorState, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT attestor, last_nonce FROM attestor_state WHERE key = ?`,
		key.String(),
	)

	var state domain.AttestorState
	var lastNonce int64
	if err := row.Scan(&state.Attestor, &lastNonce); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get attestor state: %w", err)
	}
	state.LastNonce = uint64(lastNonce)
	return &state, nil
}

func (r *attestationRepository) UpdateState(
	ctx context.Context, state domain.AttestorState,
) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE attestor_state SET last_nonce = ? WHERE key = ?`,
		int64(state.LastNonce), state.Key().String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update attestor state: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if count <= 0 {
		return domain.ErrKeyNotFound
	}
	return nil
}

func (r *attestationRepository) Add(
	ctx context.Context, attestation domain.Attestation,
) error {
	used := int64(0)
	if attestation.Used {
		used = 1
	}
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO attestation (
			key, attestor, collection, floor, nonce, created_at, used
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		attestation.Key().String(), attestation.Attestor, attestation.Collection,
		int64(attestation.Floor), int64(attestation.Nonce), attestation.CreatedAt, used,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert attestation: %w", err)
	}
	return nil
}

func (r *attestationRepository) Get(
	ctx context.Context, key domain.Key,
) (*domain.Attestation, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT attestor, collection, floor, nonce, created_at, used
		 FROM attestation WHERE key = ?`,
		key.String(),
	)

	var attestation domain.Attestation
	var floor, nonce, used int64
	if err := row.Scan(
		&attestation.Attestor, &attestation.Collection, &floor, &nonce,
		&attestation.CreatedAt, &used,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get attestation: %w", err)
	}
	attestation.Floor = uint64(floor)
	attestation.Nonce = uint64(nonce)
	attestation.Used = used != 0
	return &attestation, nil
}

func (r *attestationRepository) MarkUsed(ctx context.Context, key domain.Key) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE attestation SET used = 1 WHERE key = ?`,
		key.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to mark attestation used: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if count <= 0 {
		return domain.ErrKeyNotFound
	}
	return nil
}

func (r *attestationRepository) Close() {
	// nolint:all
	r.db.Close()
}
