package tilecache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okartan/mapcore/tile"
)

// FetchError reports a failed tile request. StatusCode is zero when the
// request never produced a response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CacheWriteError reports a tile that was fetched but could not be persisted.
type CacheWriteError struct {
	URL string
	Err error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("caching %s: %v", e.URL, e.Err)
}

func (e *CacheWriteError) Unwrap() error { return e.Err }

// FetcherConfig configures the HTTP tile fetcher. The timeout is deliberately
// a caller decision, not a package default buried in a global client.
type FetcherConfig struct {
	// Timeout bounds a single tile request. Defaults to 30 seconds.
	Timeout time.Duration
	// UserAgent is sent with every request when non-empty.
	UserAgent string
	// Auth supplies optional Basic-auth credentials for the tile service.
	Auth tile.Layer
	// Client overrides the HTTP client. Timeout is ignored when set.
	Client *http.Client
}

// Fetcher downloads tiles over HTTP. Safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	userAgent string
	auth      tile.Layer
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Fetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		auth:      cfg.Auth,
	}
}

// Fetch downloads one tile. Non-2xx responses and transport failures both
// return a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	if f.auth.HasAuth() {
		req.SetBasicAuth(f.auth.Username, f.auth.Password)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return data, nil
}
