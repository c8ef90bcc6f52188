package tilecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okartan/mapcore/coord"
	"github.com/okartan/mapcore/tile"
)

// A small box around Stockholm: one tile at z0, a handful at z5.
var stockholmBox = coord.Bounds{North: 59.45, South: 59.20, East: 18.30, West: 17.80}

func TestDownloadRegion(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("tile"))
	}))
	defer srv.Close()

	store := NewMemoryStore()
	res := NewCachingResolver(store, NewFetcher(FetcherConfig{}), ResolverConfig{})
	defer res.Close()

	layer := tile.Layer{Endpoint: srv.URL, ID: "topo"}

	var progress []int
	stats, err := DownloadRegion(context.Background(), res, layer, stockholmBox, DownloadConfig{
		MinZoom:     0,
		MaxZoom:     5,
		Concurrency: 3,
		OnProgress: func(completed, total int) {
			require.LessOrEqual(t, completed, total)
			progress = append(progress, completed)
		},
	})
	require.NoError(t, err)
	require.Positive(t, stats.Total)
	require.Equal(t, stats.Total, stats.Fetched)
	require.Zero(t, stats.Failed)
	require.Equal(t, int64(stats.Total), hits.Load())

	// Progress is monotonically non-decreasing and ends at the total.
	require.Len(t, progress, stats.Total)
	for i := 1; i < len(progress); i++ {
		require.GreaterOrEqual(t, progress[i], progress[i-1])
	}
	require.Equal(t, stats.Total, progress[len(progress)-1])

	// A rerun is idempotent: everything is cached, nothing refetched.
	hits.Store(0)
	stats2, err := DownloadRegion(context.Background(), res, layer, stockholmBox, DownloadConfig{
		MinZoom: 0, MaxZoom: 5,
	})
	require.NoError(t, err)
	require.Equal(t, stats.Total, stats2.Fetched)
	require.Zero(t, hits.Load(), "rerun must be served from the cache")
}

func TestDownloadRegionCountsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := NewCachingResolver(NewMemoryStore(), NewFetcher(FetcherConfig{}), ResolverConfig{})
	defer res.Close()

	stats, err := DownloadRegion(context.Background(), res, tile.Layer{Endpoint: srv.URL, ID: "topo"},
		stockholmBox, DownloadConfig{MinZoom: 0, MaxZoom: 3})
	require.NoError(t, err, "per-tile failures must not abort the run")
	require.Equal(t, stats.Total, stats.Failed)
	require.Zero(t, stats.Fetched)
}

func TestDownloadRegionCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tile"))
	}))
	defer srv.Close()

	res := NewCachingResolver(NewMemoryStore(), NewFetcher(FetcherConfig{}), ResolverConfig{})
	defer res.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := DownloadRegion(ctx, res, tile.Layer{Endpoint: srv.URL, ID: "topo"},
		stockholmBox, DownloadConfig{MinZoom: 0, MaxZoom: 8})
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, stats.Fetched, stats.Total)
}

func TestDownloadRegionInvertedZoomRange(t *testing.T) {
	res := NewCachingResolver(NewMemoryStore(), NewFetcher(FetcherConfig{}), ResolverConfig{})
	defer res.Close()

	_, err := DownloadRegion(context.Background(), res, tile.Layer{}, stockholmBox,
		DownloadConfig{MinZoom: 5, MaxZoom: 2})
	require.Error(t, err)
}
