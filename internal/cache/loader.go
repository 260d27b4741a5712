// internal/cache/loader.go
//
// Loader puts an LRU in front of an expensive computation and collapses
// concurrent misses for the same key into one call with singleflight.
package cache

import (
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Loader memoises fn results per key.
type Loader[K comparable, V any] struct {
	lru   *LRU[K, V]
	group singleflight.Group
	fn    func(K) (V, error)
}

// NewLoader returns a Loader holding at most capacity results.
func NewLoader[K comparable, V any](capacity int, fn func(K) (V, error)) *Loader[K, V] {
	return &Loader[K, V]{lru: New[K, V](capacity), fn: fn}
}

// Get returns the cached value for key, computing it on a miss.  Errors are
// not cached.
func (l *Loader[K, V]) Get(key K) (V, error) {
	if v, ok := l.lru.Get(key); ok {
		return v, nil
	}
	res, err, _ := l.group.Do(fmt.Sprint(key), func() (any, error) {
		if v, ok := l.lru.Get(key); ok {
			return v, nil
		}
		v, err := l.fn(key)
		if err != nil {
			return nil, err
		}
		l.lru.Add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Len reports how many results are cached.
func (l *Loader[K, V]) Len() int { return l.lru.Len() }
