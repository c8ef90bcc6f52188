package tilecache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Resolver turns a tile URL into tile bytes, however it likes. The map view
// renders through this interface and never knows whether a tile came from
// memory, disk or the network.
type Resolver interface {
	Resolve(ctx context.Context, url string) ([]byte, error)
}

// ResolverConfig configures the in-memory hot layer of a CachingResolver.
type ResolverConfig struct {
	// HotCapacity is the maximum number of tiles held in memory.
	// Defaults to 512 (~32 MB of typical 256px tiles).
	HotCapacity uint64
	// HotTTL expires idle hot entries. Defaults to 5 minutes.
	HotTTL time.Duration
}

// CachingResolver is a read-through tile resolver: an in-memory TTL cache in
// front of the persistent store in front of the network. Fetch failures write
// nothing, so a flaky connection never poisons the cache. Concurrent misses
// on the same URL may fetch twice; the last write wins, which is harmless
// for immutable tile content.
type CachingResolver struct {
	store   Store
	fetcher *Fetcher
	hot     *ttlcache.Cache[string, []byte]
}

func NewCachingResolver(store Store, fetcher *Fetcher, cfg ResolverConfig) *CachingResolver {
	capacity := cfg.HotCapacity
	if capacity == 0 {
		capacity = 512
	}
	ttl := cfg.HotTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	hot := ttlcache.New(
		ttlcache.WithCapacity[string, []byte](capacity),
		ttlcache.WithTTL[string, []byte](ttl),
	)
	go hot.Start()
	return &CachingResolver{store: store, fetcher: fetcher, hot: hot}
}

// Resolve returns the tile bytes for url, consulting the hot cache, then the
// store, then the network. A tile fetched from the network is persisted
// before it is returned; a persistence failure surfaces as *CacheWriteError.
func (r *CachingResolver) Resolve(ctx context.Context, url string) ([]byte, error) {
	if item := r.hot.Get(url); item != nil {
		return item.Value(), nil
	}

	cached, err := r.store.Get(url)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		r.hot.Set(url, cached.Data, ttlcache.DefaultTTL)
		return cached.Data, nil
	}

	data, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(url, data); err != nil {
		return nil, &CacheWriteError{URL: url, Err: err}
	}
	r.hot.Set(url, data, ttlcache.DefaultTTL)
	return data, nil
}

// Close stops the hot cache's expiry loop. It does not close the store,
// which the caller owns.
func (r *CachingResolver) Close() {
	r.hot.Stop()
}
