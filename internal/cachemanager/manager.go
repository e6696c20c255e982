// Package cachemanager provides typed caches over github.com/patrickmn/go-cache.
package cachemanager

import "time"

// CacheManager is a typed key/value cache with per-entry expiration.
type CacheManager[K ~string, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(keys ...K)
	Flush()
	Len() int
}
