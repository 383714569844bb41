package inmemoryledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/escrowless/marketd/internal/core/ports"
)

// FundsLedger is an in-process implementation of ports.FundsLedger with
// atomic batch transfers.
type FundsLedger struct {
	lock     *sync.RWMutex
	balances map[string]uint64
}

func NewFundsLedger() *FundsLedger {
	return &FundsLedger{
		lock:     &sync.RWMutex{},
		balances: make(map[string]uint64),
	}
}

// Credit adds funds to an account. Bootstrap helper, not part of the
// ports.FundsLedger surface.
func (l *FundsLedger) Credit(account string, amount uint64) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.balances[account] += amount
}

func (l *FundsLedger) Balance(_ context.Context, account string) (uint64, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.balances[account], nil
}

func (l *FundsLedger) TransferBatch(_ context.Context, transfers []ports.Transfer) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	// validate every debit against the running balances before touching
	// anything, the batch must land whole or not at all
	debits := make(map[string]uint64)
	for _, transfer := range transfers {
		debits[transfer.From] += transfer.Amount
	}
	for account, debit := range debits {
		if l.balances[account] < debit {
			return fmt.Errorf(
				"account %s holds %d, cannot cover %d", account, l.balances[account], debit,
			)
		}
	}

	for _, transfer := range transfers {
		l.balances[transfer.From] -= transfer.Amount
		l.balances[transfer.To] += transfer.Amount
	}
	return nil
}
