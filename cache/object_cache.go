// Package cache provides the process-wide object cache used for expensive,
// immutable, read-only objects (static move tables keyed by
// species/color/variant), and the per-mutual-call TwoPieceCache used to
// memoise two-piece co-reachability search.
package cache

import (
	"sync"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

// LoadFunc builds the value for a cache miss on key.
type LoadFunc[K comparable, V any] func(key K) (V, error)

// ObjectCache is a generic, mutex-guarded, lazily-populated cache, the
// Go-generic analogue of the teacher's package-level object cache.
type ObjectCache[K comparable, V any] struct {
	mu      sync.Mutex
	objects map[K]V
}

// New returns an empty ObjectCache. It logs the system memory available at
// construction time, the way the teacher's negamax transposition table
// sizes itself against github.com/pbnjay/memory before allocating.
func New[K comparable, V any]() *ObjectCache[K, V] {
	log.Debug().Uint64("free_bytes", memory.FreeMemory()).Msg("creating object cache")
	return &ObjectCache[K, V]{objects: make(map[K]V)}
}

// Get returns the cached value for key, loading it with load on a miss.
func (c *ObjectCache[K, V]) Get(key K, load LoadFunc[K, V]) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.objects[key]; ok {
		log.Debug().Any("key", key).Msg("object cache hit")
		return v, nil
	}

	log.Debug().Any("key", key).Msg("object cache miss, loading")
	v, err := load(key)
	if err != nil {
		var zero V
		return zero, err
	}
	c.objects[key] = v
	return v, nil
}
