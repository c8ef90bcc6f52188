package tilecache

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/okartan/mapcore/coord"
	"github.com/okartan/mapcore/tile"
)

// DownloadConfig configures a region prefetch.
type DownloadConfig struct {
	MinZoom uint
	MaxZoom uint
	// Concurrency bounds the number of simultaneous fetches. Defaults to 4,
	// a polite ceiling for public WMTS services.
	Concurrency int
	// OnProgress, when set, is invoked on the calling goroutine after each
	// tile completes. completed is monotonically non-decreasing.
	OnProgress func(completed, total int)
}

// DownloadStats summarizes a region prefetch.
type DownloadStats struct {
	Total   int
	Fetched int
	Failed  int
}

// DownloadRegion resolves every tile covering bounds at each zoom level in
// [MinZoom, MaxZoom] through r, warming the cache for offline use. Individual
// tile failures are logged and counted but do not abort the run; rerunning
// after a partial failure only fetches what is still missing. Cancelling ctx
// stops the run between fetches and returns the context error.
func DownloadRegion(ctx context.Context, r Resolver, layer tile.Layer, bounds coord.Bounds, cfg DownloadConfig) (DownloadStats, error) {
	if cfg.MaxZoom < cfg.MinZoom {
		return DownloadStats{}, fmt.Errorf("zoom range %d..%d is inverted", cfg.MinZoom, cfg.MaxZoom)
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	var all []tile.Coord
	for z := cfg.MinZoom; z <= cfg.MaxZoom; z++ {
		tiles, err := tile.TilesForBounds(bounds, z)
		if err != nil {
			return DownloadStats{}, err
		}
		all = append(all, tiles...)
	}

	stats := DownloadStats{Total: len(all)}

	jobs := make(chan tile.Coord, concurrency*2)
	results := make(chan error, concurrency*2)
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				if err := ctx.Err(); err != nil {
					results <- err
					continue
				}
				_, err := r.Resolve(ctx, layer.TileURL(c))
				if err != nil && ctx.Err() == nil {
					log.Printf("tile %s: %v", c, err)
				}
				results <- err
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, c := range all {
			select {
			case <-ctx.Done():
				return
			case jobs <- c:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Drain completions here so OnProgress runs on the calling goroutine.
	completed := 0
	for err := range results {
		completed++
		switch {
		case err == nil:
			stats.Fetched++
		case ctx.Err() == nil:
			stats.Failed++
		}
		if cfg.OnProgress != nil {
			cfg.OnProgress(completed, stats.Total)
		}
	}

	return stats, ctx.Err()
}
