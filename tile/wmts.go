package tile

import (
	"net/url"
	"strconv"
)

// Layer identifies a WMTS layer on a tile server, with optional Basic-auth
// credentials applied by the fetching side, never embedded in tile URLs.
type Layer struct {
	// Endpoint is the WMTS service URL, e.g. "https://kartor.gokartor.se/wmts".
	Endpoint string
	// ID is the layer identifier requested from the service.
	ID string

	Username string
	Password string
}

// HasAuth reports whether Basic-auth credentials are configured.
func (l Layer) HasAuth() bool {
	return l.Username != "" || l.Password != ""
}

// TileURL builds the WMTS GetTile request URL for one tile. Parameter order
// within the query string is not significant to the service.
func (l Layer) TileURL(c Coord) string {
	q := url.Values{
		"SERVICE":       {"WMTS"},
		"REQUEST":       {"GetTile"},
		"VERSION":       {"1.0.0"},
		"LAYER":         {l.ID},
		"STYLE":         {"default"},
		"FORMAT":        {"image/png"},
		"TILEMATRIXSET": {"EPSG:3006"},
		"TILEMATRIX":    {strconv.FormatUint(uint64(c.Zoom), 10)},
		"TILEROW":       {strconv.Itoa(c.Row)},
		"TILECOL":       {strconv.Itoa(c.Col)},
	}
	return l.Endpoint + "?" + q.Encode()
}
