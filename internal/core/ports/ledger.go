package ports

import "context"

// Transfer is a single funds movement applied as part of a settlement batch.
type Transfer struct {
	From   string
	To     string
	Amount uint64
}

// AssetLedger tracks which account holds each asset. Custody accounts are
// derived keys, so moving an asset into custody means transferring it to the
// vault key's account.
type AssetLedger interface {
	// Holder returns the account currently holding the asset.
	Holder(ctx context.Context, assetID string) (string, error)
	// Transfer moves the asset from one account to another. Fails if the
	// asset is not held by the from account.
	Transfer(ctx context.Context, assetID, from, to string) error
	// Collection returns the collection the asset belongs to.
	Collection(ctx context.Context, assetID string) (string, error)
}

// FundsLedger tracks fungible balances and applies settlement splits
// atomically: either every transfer in the batch lands or none does.
type FundsLedger interface {
	Balance(ctx context.Context, account string) (uint64, error)
	// TransferBatch debits and credits all transfers as one unit, failing
	// without side effects if any debit exceeds the payer's balance.
	TransferBatch(ctx context.Context, transfers []Transfer) error
}

