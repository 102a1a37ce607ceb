package keymutex

import "sync"

// Keyed serializes work per key. The WAC ledger uses one key per raw material so
// that the read-recompute-write of stock and average cost never interleaves for
// the same material, while different materials proceed in parallel.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *Keyed {
	return &Keyed{entries: make(map[string]*entry)}
}

// WithExclusive runs fn while holding the exclusive lock for key.
func (k *Keyed) WithExclusive(key string, fn func() error) error {
	e := k.acquire(key)
	e.mu.Lock()
	defer func() {
		e.mu.Unlock()
		k.release(key)
	}()
	return fn()
}

func (k *Keyed) acquire(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	return e
}

func (k *Keyed) release(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(k.entries, key)
	}
}
