package cancellation

import (
	"sync"

	"wisma/internal/core/id"
)

// keyedMutex serializes work per booking identity, so at most one cascade is
// in flight for a given booking at any time. Entries are reference-counted
// and removed when the last holder releases, keeping the map bounded by the
// number of concurrent cascades.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[id.ID]*lockEntry
}

type lockEntry struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[id.ID]*lockEntry)}
}

// lock acquires the per-key mutex and returns its release function.
func (k *keyedMutex) lock(key id.ID) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.Lock()

	return func() {
		entry.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
