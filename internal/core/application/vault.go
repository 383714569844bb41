package application

import (
	"context"

	"github.com/escrowless/marketd/internal/core/domain"
	"github.com/escrowless/marketd/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func (s *service) FundVault(
	ctx context.Context, owner, assetID, externalHolding string,
) (*domain.Vault, errors.Error) {
	vault := domain.NewVault(owner, assetID)
	vaultKey := vault.Key()

	s.cache.Lock(vaultKey)
	defer s.cache.Unlock(vaultKey)

	if _, err := s.repoManager.Vaults().Get(ctx, vaultKey); err == nil {
		return nil, errors.ALREADY_EXISTS.New(
			"vault for asset %s already funded", assetID,
		).WithMetadata(errors.KeyMetadata{Key: vaultKey.String()})
	} else if err != domain.ErrKeyNotFound {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}

	holder, err := s.assets.Holder(ctx, assetID)
	if err != nil || holder != externalHolding {
		return nil, errors.INSUFFICIENT_ASSET.New(
			"holding %s does not hold asset %s", externalHolding, assetID,
		).WithMetadata(errors.HoldingMetadata{Holding: externalHolding, AssetID: assetID})
	}

	if err := s.assets.Transfer(ctx, assetID, externalHolding, vaultKey.String()); err != nil {
		return nil, errors.INSUFFICIENT_ASSET.Wrap(err).
			WithMetadata(errors.HoldingMetadata{Holding: externalHolding, AssetID: assetID})
	}

	if err := s.repoManager.Vaults().Add(ctx, *vault); err != nil {
		// roll the asset back, the vault record is the source of truth
		if rbErr := s.assets.Transfer(
			ctx, assetID, vaultKey.String(), externalHolding,
		); rbErr != nil {
			log.WithError(rbErr).Errorf("failed to return asset %s to %s", assetID, externalHolding)
		}
		if err == domain.ErrDuplicateKey {
			return nil, errors.ALREADY_EXISTS.New(
				"vault for asset %s already funded", assetID,
			).WithMetadata(errors.KeyMetadata{Key: vaultKey.String()})
		}
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}

	log.Debugf("funded vault %s for asset %s", vaultKey, assetID)
	return vault, nil
}

func (s *service) WithdrawVault(
	ctx context.Context, owner, assetID, externalHolding string,
) errors.Error {
	vaultKey := domain.VaultKey(owner, assetID)
	listingKey := domain.ListingKey(owner, assetID)

	// listing-then-vault lock order, same as settlement and listing creation
	s.cache.Lock(listingKey)
	defer s.cache.Unlock(listingKey)
	s.cache.Lock(vaultKey)
	defer s.cache.Unlock(vaultKey)

	vault, err := s.repoManager.Vaults().Get(ctx, vaultKey)
	if err != nil {
		if err == domain.ErrKeyNotFound {
			return errors.NOT_FOUND.New("no vault at key %s", vaultKey).
				WithMetadata(errors.KeyMetadata{Key: vaultKey.String()})
		}
		return errors.INTERNAL_ERROR.Wrap(err)
	}
	if !vault.IsOwnedBy(owner) {
		return errors.UNAUTHORIZED.New("vault %s is not owned by %s", vaultKey, owner).
			WithMetadata(errors.OwnerMetadata{Owner: owner, AssetID: assetID})
	}

	if _, err := s.repoManager.Listings().Get(ctx, listingKey); err == nil {
		return errors.VAULT_HAS_ACTIVE_LISTING.New(
			"asset %s is listed for sale, cancel the listing first", assetID,
		).WithMetadata(errors.KeyMetadata{Key: listingKey.String()})
	} else if err != domain.ErrKeyNotFound {
		return errors.INTERNAL_ERROR.Wrap(err)
	}

	if err := s.assets.Transfer(ctx, assetID, vaultKey.String(), externalHolding); err != nil {
		return errors.INTERNAL_ERROR.Wrap(err)
	}
	if err := s.repoManager.Vaults().Delete(ctx, vaultKey); err != nil {
		return errors.INTERNAL_ERROR.Wrap(err)
	}

	log.Debugf("withdrew asset %s from vault %s", assetID, vaultKey)
	return nil
}
