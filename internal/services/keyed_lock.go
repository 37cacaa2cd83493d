package services

import (
	"fmt"
	"sync"
)

// KeyedLock serializes writers that touch the same (game, team) slot
// key. Lineup and odds imports racing on one game must not interleave
// or the starter-precedence rule can be violated; writers on different
// keys proceed independently. One instance must be shared by every
// service that writes the slot store.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{locks: make(map[string]*sync.Mutex)}
}

func (kl *KeyedLock) get(key string) *sync.Mutex {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	m, ok := kl.locks[key]
	if !ok {
		m = &sync.Mutex{}
		kl.locks[key] = m
	}
	return m
}

// Lock acquires the mutex for a (game, team) pair.
func (kl *KeyedLock) Lock(gameID uint, team string) func() {
	m := kl.get(fmt.Sprintf("%d:%s", gameID, team))
	m.Lock()
	return m.Unlock
}
