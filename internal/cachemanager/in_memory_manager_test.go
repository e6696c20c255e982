package cachemanager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

type exampleStruct struct {
	Message string
	Status  int
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, exampleStruct]("errors", DefaultExpiration, DefaultCleanupInterval)
	example := exampleStruct{Message: "Not found", Status: 404}
	cache.Set("1:not_found", example, DefaultExpiration)

	got, ok := cache.Get("1:not_found")
	require.True(t, ok)
	require.Equal(t, example, got)
}

func TestInMemoryCacheManager_GetMissingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("errors", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get("missing")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("errors", DefaultExpiration, DefaultCleanupInterval)
	cache.cache.Set("key", 123, DefaultExpiration)

	got, ok := cache.Get("key")
	require.False(t, ok)
	require.Empty(t, got)
}

type cacheKey string

func TestInMemoryCacheManager_NamedKeyType(t *testing.T) {
	cache := NewInMemoryCacheManager[cacheKey, int]("events", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(cacheKey("a"), 1, NoExpiration)

	got, ok := cache.Get(cacheKey("a"))
	require.True(t, ok)
	require.Equal(t, 1, got)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("errors", DefaultExpiration, DefaultCleanupInterval)
	cache.Set("a", "1", DefaultExpiration)
	cache.Set("b", "2", DefaultExpiration)
	cache.Set("c", "3", DefaultExpiration)
	require.Equal(t, 3, cache.Len())

	cache.Delete("a", "b")
	_, ok := cache.Get("a")
	require.False(t, ok)
	require.Equal(t, 1, cache.Len())

	cache.Flush()
	require.Equal(t, 0, cache.Len())
}

func TestInMemoryCacheManager_Expiration(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("errors", DefaultExpiration, DefaultCleanupInterval)
	cache.Set("short", "lived", 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get("short")
		return !ok
	}, time.Second, 5*time.Millisecond)
}
