package tilecache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBadgerStore(t *testing.T) {
	store, err := OpenBadgerStore(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	defer store.Close()

	const url = "https://kartor.example.se/wmts?TILECOL=57&TILEMATRIX=5&TILEROW=58"
	data := []byte("png-bytes")

	got, err := store.Get(url)
	require.NoError(t, err)
	require.Nil(t, got, "miss should return nil, nil")

	before := time.Now()
	require.NoError(t, store.Put(url, data))

	got, err = store.Get(url)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, url, got.URL)
	require.Equal(t, data, got.Data)
	require.False(t, got.StoredAt.Before(before.Add(-time.Second)))
	require.False(t, got.StoredAt.After(time.Now()))
}

func TestBadgerStoreOverwrite(t *testing.T) {
	store, err := OpenBadgerStore(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put("k", []byte("old")))
	require.NoError(t, store.Put("k", []byte("new")))

	got, err := store.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), got.Data)
}

func TestBadgerStoreOnDisk(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenBadgerStore(BadgerConfig{Path: dir})
	require.NoError(t, err)
	require.NoError(t, store.Put("k", []byte("v")))
	require.NoError(t, store.Close())

	// Reopen: tiles survive the process.
	store, err = OpenBadgerStore(BadgerConfig{Path: dir})
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Get("k")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, []byte("v"), got.Data)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	got, err := store.Get("missing")
	require.NoError(t, err)
	require.Nil(t, got)

	data := []byte("tile")
	require.NoError(t, store.Put("k", data))

	// The store keeps its own copy.
	data[0] = 'X'

	got, err = store.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("tile"), got.Data)

	// And hands out copies: mutating a returned tile must not corrupt
	// later hits.
	got.Data[0] = 'Y'

	got, err = store.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("tile"), got.Data)
}
