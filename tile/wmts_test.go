package tile

import (
	"net/url"
	"testing"
)

func TestTileURL(t *testing.T) {
	l := Layer{Endpoint: "https://kartor.example.se/wmts", ID: "topo"}
	c := Coord{Zoom: 5, Col: 57, Row: 58}

	got := l.TileURL(c)
	want := "https://kartor.example.se/wmts?" +
		"FORMAT=image%2Fpng&LAYER=topo&REQUEST=GetTile&SERVICE=WMTS&STYLE=default&" +
		"TILECOL=57&TILEMATRIX=5&TILEMATRIXSET=EPSG%3A3006&TILEROW=58&VERSION=1.0.0"
	if got != want {
		t.Errorf("TileURL = %q, want %q", got, want)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("TileURL is not a valid URL: %v", err)
	}
	q := u.Query()
	for k, v := range map[string]string{
		"SERVICE":       "WMTS",
		"REQUEST":       "GetTile",
		"VERSION":       "1.0.0",
		"LAYER":         "topo",
		"STYLE":         "default",
		"FORMAT":        "image/png",
		"TILEMATRIXSET": "EPSG:3006",
		"TILEMATRIX":    "5",
		"TILEROW":       "58",
		"TILECOL":       "57",
	} {
		if q.Get(k) != v {
			t.Errorf("param %s = %q, want %q", k, q.Get(k), v)
		}
	}
}

func TestLayerHasAuth(t *testing.T) {
	if (Layer{}).HasAuth() {
		t.Error("empty layer should not report auth")
	}
	if !(Layer{Username: "u", Password: "p"}).HasAuth() {
		t.Error("layer with credentials should report auth")
	}
}
