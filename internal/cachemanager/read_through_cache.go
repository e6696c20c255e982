package cachemanager

import "time"

// ReadThroughCache computes values with fn on a miss and stores successful
// results. Errors are returned to the caller and never cached.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache           CacheManager[K, V]
	fn              func(input I) (V, error)
	shouldSkipCache bool
}

func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	fn func(input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

// Get returns the cached value for key, or computes it from input.
func (r *ReadThroughCache[K, V, I]) Get(key K, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(input)
	}

	if value, ok := r.cache.Get(key); ok {
		return value, nil
	}

	value, err := r.fn(input)
	if err != nil {
		return value, err
	}

	r.cache.Set(key, value, ttl)
	return value, nil
}

// Flush drops every cached value.
func (r *ReadThroughCache[K, V, I]) Flush() {
	r.cache.Flush()
}

// Delete drops the cached values for keys.
func (r *ReadThroughCache[K, V, I]) Delete(keys ...K) {
	r.cache.Delete(keys...)
}

// Len returns the number of cached values.
func (r *ReadThroughCache[K, V, I]) Len() int {
	return r.cache.Len()
}
