package domain

import (
	"strconv"
	"time"
)

// AttestationTTL is how long a floor attestation stays usable.
const AttestationTTL = 300 * time.Second

// AttestorState tracks the monotonic nonce of an attestor. The nonce seeds
// the next attestation's derived key, so attestation keys are unique and
// ordered per attestor.
type AttestorState struct {
	Attestor  string
	LastNonce uint64
}

func NewAttestorState(attestor string) *AttestorState {
	return &AttestorState{Attestor: attestor}
}

// Key returns the derived key of the attestor state record.
func (s AttestorState) Key() Key {
	return DeriveKey(AttestationNamespace, s.Attestor, "state")
}

// Attestation is a signed-off floor price observation for a collection.
// Consumed at most once: force-cancelling a listing marks it used.
type Attestation struct {
	Attestor   string
	Collection string
	Floor      uint64
	Nonce      uint64
	CreatedAt  int64
	Used       bool
}

// AttestationKey derives the storage key for an (attestor, nonce) pair.
func AttestationKey(attestor string, nonce uint64) Key {
	return DeriveKey(AttestationNamespace, attestor, strconv.FormatUint(nonce, 10))
}

// Key returns the derived key of this attestation.
func (a Attestation) Key() Key {
	return AttestationKey(a.Attestor, a.Nonce)
}

// IsFresh reports whether the attestation is still inside its TTL.
func (a Attestation) IsFresh(now int64) bool {
	return now-a.CreatedAt <= int64(AttestationTTL.Seconds())
}
