package service

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Ключи и время жизни кеша публичной статистики.
const (
	listingCachePrefix = "listings:"
	StatsCacheKey      = listingCachePrefix + "stats"
	DefaultStatsTTL    = 30 * time.Second
)

// CacheService provides in-memory caching with TTL and invalidation support.
type CacheService struct {
	mu    sync.RWMutex
	cache map[string]*cacheEntry
	// generation растёт при каждой инвалидации. GetOrSet не сохраняет значение,
	// посчитанное до инвалидации.
	generation uint64
	now        func() time.Time
	stop  chan struct{}
	once  sync.Once
}

type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// NewCacheService creates a new cache service and starts the cleanup loop.
func NewCacheService() *CacheService {
	cs := &CacheService{
		cache: make(map[string]*cacheEntry),
		now:   time.Now,
		stop:  make(chan struct{}),
	}

	go cs.cleanup(5 * time.Minute)

	return cs
}

// Close stops the cleanup loop.
func (cs *CacheService) Close() {
	cs.once.Do(func() { close(cs.stop) })
}

// Get retrieves a value from cache.
func (cs *CacheService) Get(key string) (interface{}, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entry, exists := cs.cache[key]
	if !exists || cs.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.data, true
}

// Set stores a value in cache with TTL.
func (cs *CacheService) Set(key string, value interface{}, ttl time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.put(key, value, ttl)
}

// setIfGeneration сохраняет значение, только если с момента gen не было инвалидации.
func (cs *CacheService) setIfGeneration(gen uint64, key string, value interface{}, ttl time.Duration) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.generation != gen {
		return false
	}
	cs.put(key, value, ttl)
	return true
}

func (cs *CacheService) put(key string, value interface{}, ttl time.Duration) {
	cs.cache[key] = &cacheEntry{
		data:      value,
		expiresAt: cs.now().Add(ttl),
	}
}

func (cs *CacheService) currentGeneration() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.generation
}

// Delete removes a key from cache.
func (cs *CacheService) Delete(key string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.cache, key)
	cs.generation++
}

// InvalidateByPrefix removes all keys with the given prefix.
func (cs *CacheService) InvalidateByPrefix(prefix string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for key := range cs.cache {
		if strings.HasPrefix(key, prefix) {
			delete(cs.cache, key)
		}
	}
	cs.generation++
}

// InvalidateListings drops every cached listing aggregate.
func (cs *CacheService) InvalidateListings() {
	if cs == nil {
		return
	}
	cs.InvalidateByPrefix(listingCachePrefix)
}

// GetOrSet retrieves a value from cache or computes it if not found.
// A value computed while an invalidation happened is returned but not cached.
func (cs *CacheService) GetOrSet(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fn func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if value, found := cs.Get(key); found {
		return value, nil
	}

	gen := cs.currentGeneration()
	value, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	cs.setIfGeneration(gen, key, value, ttl)
	return value, nil
}

func (cs *CacheService) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-cs.stop:
			return
		case <-ticker.C:
			cs.evictExpired()
		}
	}
}

func (cs *CacheService) evictExpired() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := cs.now()
	for key, entry := range cs.cache {
		if now.After(entry.expiresAt) {
			delete(cs.cache, key)
		}
	}
}
