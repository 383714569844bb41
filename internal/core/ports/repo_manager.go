package ports

import "github.com/escrowless/marketd/internal/core/domain"

type RepoManager interface {
	MarketConfigs() domain.MarketConfigRepository
	Vaults() domain.VaultRepository
	Listings() domain.ListingRepository
	Attestations() domain.AttestationRepository
	Close()
}
