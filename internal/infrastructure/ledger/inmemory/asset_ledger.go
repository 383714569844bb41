package inmemoryledger

import (
	"context"
	"fmt"
	"sync"
)

type assetRecord struct {
	holder     string
	collection string
}

// AssetLedger is an in-process implementation of ports.AssetLedger tracking
// which account holds each unique asset.
type AssetLedger struct {
	lock   *sync.RWMutex
	assets map[string]assetRecord
}

func NewAssetLedger() *AssetLedger {
	return &AssetLedger{
		lock:   &sync.RWMutex{},
		assets: make(map[string]assetRecord),
	}
}

// Mint registers a unique asset under an initial holder. Bootstrap helper,
// not part of the ports.AssetLedger surface.
func (l *AssetLedger) Mint(assetID, collection, holder string) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if _, ok := l.assets[assetID]; ok {
		return fmt.Errorf("asset %s already minted", assetID)
	}
	l.assets[assetID] = assetRecord{holder: holder, collection: collection}
	return nil
}

func (l *AssetLedger) Holder(_ context.Context, assetID string) (string, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	record, ok := l.assets[assetID]
	if !ok {
		return "", fmt.Errorf("unknown asset %s", assetID)
	}
	return record.holder, nil
}

func (l *AssetLedger) Collection(_ context.Context, assetID string) (string, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	record, ok := l.assets[assetID]
	if !ok {
		return "", fmt.Errorf("unknown asset %s", assetID)
	}
	return record.collection, nil
}

func (l *AssetLedger) Transfer(_ context.Context, assetID, from, to string) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	record, ok := l.assets[assetID]
	if !ok {
		return fmt.Errorf("unknown asset %s", assetID)
	}
	if record.holder != from {
		return fmt.Errorf("asset %s is not held by %s", assetID, from)
	}
	record.holder = to
	l.assets[assetID] = record
	return nil
}
