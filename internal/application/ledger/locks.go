package ledger

import (
	"sync"

	"github.com/google/uuid"
)

// KeyedLocks serializes writers per key. Ledger writes lock either the
// apartment (payments) or the whole building (allocation, recurring runs,
// month close) so concurrent mutations of the same balance line up instead
// of clobbering each other; optimistic locking below catches anything that
// slips through a different process.
type KeyedLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedLocks creates an empty lock registry
func NewKeyedLocks() *KeyedLocks {
	return &KeyedLocks{locks: make(map[string]*lockEntry)}
}

// Lock acquires the lock for key and returns its release function. Entries
// are dropped once the last holder releases, so the registry stays small.
func (k *KeyedLocks) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// LockBuilding acquires the building-wide write lock
func (k *KeyedLocks) LockBuilding(id uuid.UUID) func() {
	return k.Lock("building:" + id.String())
}

// LockApartment acquires the per-apartment write lock
func (k *KeyedLocks) LockApartment(id uuid.UUID) func() {
	return k.Lock("apartment:" + id.String())
}
