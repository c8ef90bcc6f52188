// Command georefinfo prints the georeferencing of a map file: a GeoTIFF, or
// a world file paired with the image dimensions.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/okartan/mapcore/coord"
	"github.com/okartan/mapcore/georef"
	"github.com/okartan/mapcore/geotiff"
)

func main() {
	var width, height int
	flag.IntVar(&width, "width", 0, "Image width in pixels (world files only)")
	flag.IntVar(&height, "height", 0, "Image height in pixels (world files only)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: georefinfo [flags] <file.tif | file.tfw>\n\n")
		fmt.Fprintf(os.Stderr, "Print the georeferencing of a GeoTIFF or world file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var g *georef.Georeferencing
	if isWorldFile(path) {
		if width <= 0 || height <= 0 {
			fmt.Fprintf(os.Stderr, "Error: world files need -width and -height\n")
			os.Exit(1)
		}
		g, err = georef.ParseWorldFile(string(data), width, height)
	} else {
		g, err = geotiff.Parse(data)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File: %s\n", path)
	fmt.Printf("CRS: %s\n", g.CRS)
	fmt.Printf("Scale: 1:%d\n", g.Scale)
	if t := g.Transform; t != nil {
		fmt.Printf("Pixel -> CRS matrix: A=%g D=%g B=%g E=%g C=%g F=%g\n",
			t.A, t.D, t.B, t.E, t.C, t.F)
	}
	if b := g.Bounds; b != nil {
		fmt.Printf("Bounds (WGS84): N=%.6f S=%.6f E=%.6f W=%.6f\n",
			b.North, b.South, b.East, b.West)
		c := b.Center()
		p := coord.ToSweref99(c)
		fmt.Printf("Center: %.6f, %.6f (SWEREF99 TM %.1f, %.1f)\n", c.Lat, c.Lng, p.X, p.Y)
	}
}

func isWorldFile(path string) bool {
	switch strings.ToLower(path[strings.LastIndex(path, ".")+1:]) {
	case "tfw", "pgw", "jgw", "wld":
		return true
	}
	return false
}
