package engine

import "sync"

// keyedLocks hands out one mutex per key so work for one customer is
// serialized without blocking anyone else. Entries are never evicted; the
// key space is bounded by the active customer population.
type keyedLocks struct {
	locks sync.Map
}

func (k *keyedLocks) lock(key string) (unlock func()) {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
