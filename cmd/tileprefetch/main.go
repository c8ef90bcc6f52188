// Command tileprefetch downloads every map tile covering a bounding box into
// the local tile cache, so the region stays usable offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okartan/mapcore/coord"
	"github.com/okartan/mapcore/tile"
	"github.com/okartan/mapcore/tilecache"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	var (
		endpoint    string
		layerID     string
		username    string
		password    string
		cacheDir    string
		minZoom     int
		maxZoom     int
		concurrency int
		timeout     time.Duration
		north       float64
		south       float64
		east        float64
		west        float64
		showVersion bool
	)

	flag.StringVar(&endpoint, "endpoint", "", "WMTS service URL")
	flag.StringVar(&layerID, "layer", "", "WMTS layer identifier")
	flag.StringVar(&username, "user", "", "Basic-auth username")
	flag.StringVar(&password, "pass", "", "Basic-auth password")
	flag.StringVar(&cacheDir, "cache", "tilecache", "Tile cache directory")
	flag.IntVar(&minZoom, "min-zoom", 0, "Minimum zoom level")
	flag.IntVar(&maxZoom, "max-zoom", 8, "Maximum zoom level")
	flag.IntVar(&concurrency, "concurrency", 4, "Number of parallel fetches")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Per-tile request timeout")
	flag.Float64Var(&north, "north", 0, "Bounding box north latitude")
	flag.Float64Var(&south, "south", 0, "Bounding box south latitude")
	flag.Float64Var(&east, "east", 0, "Bounding box east longitude")
	flag.Float64Var(&west, "west", 0, "Bounding box west longitude")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tileprefetch [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prefetch WMTS tiles for a region into the offline cache.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("tileprefetch %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}
	if endpoint == "" || layerID == "" {
		log.Fatal("-endpoint and -layer are required")
	}
	if north <= south || east <= west {
		log.Fatal("bounding box is empty: need -north > -south and -east > -west")
	}
	if maxZoom > tile.MaxZoom {
		log.Fatalf("-max-zoom %d exceeds the deepest level %d", maxZoom, tile.MaxZoom)
	}

	layer := tile.Layer{
		Endpoint: endpoint,
		ID:       layerID,
		Username: username,
		Password: password,
	}
	bounds := coord.Bounds{North: north, South: south, East: east, West: west}

	store, err := tilecache.OpenBadgerStore(tilecache.BadgerConfig{Path: cacheDir})
	if err != nil {
		log.Fatalf("Opening tile cache: %v", err)
	}
	defer store.Close()

	fetcher := tilecache.NewFetcher(tilecache.FetcherConfig{
		Timeout:   timeout,
		UserAgent: "tileprefetch/" + version,
		Auth:      layer,
	})
	resolver := tilecache.NewCachingResolver(store, fetcher, tilecache.ResolverConfig{})
	defer resolver.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var bar *progressBar
	stats, err := tilecache.DownloadRegion(ctx, resolver, layer, bounds, tilecache.DownloadConfig{
		MinZoom:     uint(minZoom),
		MaxZoom:     uint(maxZoom),
		Concurrency: concurrency,
		OnProgress: func(completed, total int) {
			if bar == nil {
				bar = newProgressBar(total)
			}
			bar.Set(completed)
		},
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		log.Fatalf("Prefetch aborted: %v", err)
	}

	fmt.Printf("Done: %d tiles (%d fetched, %d failed)\n", stats.Total, stats.Fetched, stats.Failed)
}
