package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Namespace partitions the derived key space so that vault, listing and
// attestation records for the same pair of ids can never collide.
type Namespace string

const (
	VaultNamespace       Namespace = "vault"
	ListingNamespace     Namespace = "listing"
	AttestationNamespace Namespace = "attestation"
)

// Key is a hex-encoded deterministic storage key.
type Key string

func (k Key) String() string {
	return string(k)
}

// DeriveKey maps (namespace, a, b) to a storage key. The derivation is pure
// and injective for any ids that do not contain the NUL separator, so record
// uniqueness and caller authorization both reduce to key equality: a caller
// owns a record iff the key derived from its own identity matches.
func DeriveKey(ns Namespace, a, b string) Key {
	h := sha256.New()
	h.Write([]byte(ns))
	h.Write([]byte{0})
	h.Write([]byte(a))
	h.Write([]byte{0})
	h.Write([]byte(b))
	return Key(hex.EncodeToString(h.Sum(nil)))
}

// VaultKey derives the custody key for an (owner, asset) pair.
func VaultKey(owner, assetID string) Key {
	return DeriveKey(VaultNamespace, owner, assetID)
}

// ListingKey derives the listing key for a (seller, asset) pair.
func ListingKey(seller, assetID string) Key {
	return DeriveKey(ListingNamespace, seller, assetID)
}
