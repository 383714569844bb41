package application

import (
	"context"

	"github.com/escrowless/marketd/internal/core/domain"
	"github.com/escrowless/marketd/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func (s *service) RegisterAttestor(ctx context.Context, attestor string) errors.Error {
	config, cfgErr := s.marketConfig(ctx)
	if cfgErr != nil {
		return cfgErr
	}
	if attestor != config.Authority {
		return errors.UNAUTHORIZED.New("only the market authority can attest floors")
	}

	state := domain.NewAttestorState(attestor)
	if err := s.repoManager.Attestations().AddState(ctx, *state); err != nil {
		if err == domain.ErrDuplicateKey {
			return errors.ALREADY_EXISTS.New("attestor %s already registered", attestor).
				WithMetadata(errors.KeyMetadata{Key: state.Key().String()})
		}
		return errors.INTERNAL_ERROR.Wrap(err)
	}

	log.Infof("registered floor attestor %s", attestor)
	return nil
}

func (s *service) AttestFloor(
	ctx context.Context, attestor, collection string, floor uint64,
) (*domain.Attestation, errors.Error) {
	config, cfgErr := s.marketConfig(ctx)
	if cfgErr != nil {
		return nil, cfgErr
	}
	if attestor != config.Authority {
		return nil, errors.UNAUTHORIZED.New("only the market authority can attest floors")
	}

	stateKey := domain.AttestorState{Attestor: attestor}.Key()

	s.cache.Lock(stateKey)
	defer s.cache.Unlock(stateKey)

	state, err := s.repoManager.Attestations().GetState(ctx, stateKey)
	if err != nil {
		if err == domain.ErrKeyNotFound {
			return nil, errors.NOT_FOUND.New("attestor %s is not registered", attestor).
				WithMetadata(errors.KeyMetadata{Key: stateKey.String()})
		}
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}

	attestation := domain.Attestation{
		Attestor:   attestor,
		Collection: collection,
		Floor:      floor,
		Nonce:      state.LastNonce + 1,
		CreatedAt:  now(),
	}
	if err := s.repoManager.Attestations().Add(ctx, attestation); err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}

	state.LastNonce = attestation.Nonce
	if err := s.repoManager.Attestations().UpdateState(ctx, *state); err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}

	log.Debugf(
		"attested floor %d for collection %s (nonce %d)", floor, collection, attestation.Nonce,
	)
	return &attestation, nil
}

func (s *service) ForceCancelListing(
	ctx context.Context, seller, assetID, collection, attestor string, nonce uint64,
) errors.Error {
	attKey := domain.AttestationKey(attestor, nonce)
	listingKey := domain.ListingKey(seller, assetID)

	s.cache.Lock(listingKey)
	defer s.cache.Unlock(listingKey)
	s.cache.Lock(attKey)
	defer s.cache.Unlock(attKey)

	attestation, err := s.repoManager.Attestations().Get(ctx, attKey)
	if err != nil {
		if err == domain.ErrKeyNotFound {
			return errors.NOT_FOUND.New("no attestation at key %s", attKey).
				WithMetadata(errors.KeyMetadata{Key: attKey.String()})
		}
		return errors.INTERNAL_ERROR.Wrap(err)
	}
	if attestation.Used {
		return errors.ATTESTATION_USED.New("attestation %d already consumed", nonce).
			WithMetadata(errors.AttestationMetadata{Attestor: attestor, Nonce: nonce})
	}
	nowTs := now()
	if !attestation.IsFresh(nowTs) {
		return errors.ATTESTATION_EXPIRED.New(
			"attestation %d is older than %s", nonce, domain.AttestationTTL,
		).WithMetadata(errors.AttestationMetadata{Attestor: attestor, Nonce: nonce})
	}

	assetCollection, err := s.assets.Collection(ctx, assetID)
	if err != nil || attestation.Collection != collection ||
		assetCollection != collection {
		return errors.NOT_FOUND.New(
			"attestation %d does not cover asset %s", nonce, assetID,
		).WithMetadata(errors.KeyMetadata{Key: attKey.String()})
	}

	listing, err := s.repoManager.Listings().Get(ctx, listingKey)
	if err != nil {
		if err == domain.ErrKeyNotFound {
			return errors.NOT_FOUND.New("no listing at key %s", listingKey).
				WithMetadata(errors.KeyMetadata{Key: listingKey.String()})
		}
		return errors.INTERNAL_ERROR.Wrap(err)
	}

	reserve := listing.PriceConfig.MinPrice
	if listing.PriceConfig.PriceType == domain.PriceTypeFixed {
		reserve = listing.PriceConfig.StartPrice
	}
	if attestation.Floor >= reserve {
		return errors.FLOOR_TOO_HIGH.New(
			"attested floor %d does not undercut the reserve %d", attestation.Floor, reserve,
		).WithMetadata(errors.FloorMetadata{Floor: attestation.Floor, MinPrice: reserve})
	}

	if err := s.repoManager.Listings().Delete(ctx, listingKey); err != nil {
		return errors.INTERNAL_ERROR.Wrap(err)
	}
	// consume last, restoring the listing keeps the attestation replayable
	if err := s.repoManager.Attestations().MarkUsed(ctx, attKey); err != nil {
		if rbErr := s.repoManager.Listings().Add(ctx, *listing); rbErr != nil {
			log.WithError(rbErr).Errorf("failed to restore listing %s", listingKey)
		}
		return errors.INTERNAL_ERROR.Wrap(err)
	}

	log.Infof(
		"force-cancelled listing %s: floor %d below reserve %d",
		listingKey, attestation.Floor, reserve,
	)
	return nil
}
