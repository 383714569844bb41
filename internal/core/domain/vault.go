package domain

import "time"

// Vault is a custody record for exactly one unit of a unique asset. Its key
// is derived from (owner, asset), which structurally enforces at most one
// vault per pair. A vault only exists while it holds its asset: funding
// creates it, withdrawal and settlement destroy it.
type Vault struct {
	Owner     string
	AssetID   string
	CreatedAt int64
}

func NewVault(owner, assetID string) *Vault {
	return &Vault{
		Owner:     owner,
		AssetID:   assetID,
		CreatedAt: time.Now().Unix(),
	}
}

// Key returns the derived custody key for this vault.
func (v Vault) Key() Key {
	return VaultKey(v.Owner, v.AssetID)
}

// IsOwnedBy reports whether the key derived from the caller's identity
// matches this record's key.
func (v Vault) IsOwnedBy(owner string) bool {
	return v.Owner == owner
}
