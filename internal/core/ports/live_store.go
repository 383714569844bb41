package ports

import "github.com/escrowless/marketd/internal/core/domain"

// LiveStore serializes operations touching the same derived key. Callers
// lock the key, re-read state, and only then mutate.
type LiveStore interface {
	Lock(key domain.Key)
	Unlock(key domain.Key)
}
