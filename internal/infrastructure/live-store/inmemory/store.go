package inmemorylivestore

import (
	"sync"

	"github.com/escrowless/marketd/internal/core/domain"
	"github.com/escrowless/marketd/internal/core/ports"
)

type liveStore struct {
	lock  *sync.Mutex
	locks map[domain.Key]*sync.Mutex
}

func NewLiveStore() ports.LiveStore {
	return &liveStore{
		lock:  &sync.Mutex{},
		locks: make(map[domain.Key]*sync.Mutex),
	}
}

func (s *liveStore) Lock(key domain.Key) {
	s.lock.Lock()
	mtx, ok := s.locks[key]
	if !ok {
		mtx = &sync.Mutex{}
		s.locks[key] = mtx
	}
	s.lock.Unlock()

	mtx.Lock()
}

func (s *liveStore) Unlock(key domain.Key) {
	s.lock.Lock()
	mtx, ok := s.locks[key]
	s.lock.Unlock()
	if ok {
		mtx.Unlock()
	}
}
