package georef

import (
	"strconv"
	"strings"
)

// World files (.tfw/.jgw/.pgw) carry six ASCII float lines:
//
//	Line 1 (A): pixel width in CRS units
//	Line 2 (D): rotation about the y-axis (typically 0)
//	Line 3 (B): rotation about the x-axis (typically 0)
//	Line 4 (E): pixel height (negative for north-up rasters)
//	Line 5 (C): x of the upper-left pixel
//	Line 6 (F): y of the upper-left pixel

// Default CRS for world files, which carry no CRS information of their own.
const worldFileEPSG = 3006

// ParseWorldFile parses world-file text into a Georeferencing record.
// The image dimensions must be supplied by the caller — the reader never
// decodes image pixels. Returns a FormatError when fewer than six non-empty
// lines are present or a line is not numeric.
func ParseWorldFile(text string, imageWidth, imageHeight int) (*Georeferencing, error) {
	var vals []float64
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, FormatErrorf("world file line %d: %q is not a number", i+1, line)
		}
		vals = append(vals, v)
		if len(vals) == 6 {
			break
		}
	}
	if len(vals) < 6 {
		return nil, FormatErrorf("world file: expected 6 lines, got %d", len(vals))
	}

	tf := &Affine{
		A: vals[0], D: vals[1], B: vals[2],
		E: vals[3], C: vals[4], F: vals[5],
	}

	west, north, east, south := worldBoundsCRS(tf, imageWidth, imageHeight)
	bounds, err := BoundsFromCRS(worldFileEPSG, west, north, east, south)
	if err != nil {
		return nil, err
	}

	return &Georeferencing{
		CRS:       "EPSG:3006",
		Scale:     EstimateScale(tf.A),
		Bounds:    bounds,
		Transform: tf,
	}, nil
}

// worldBoundsCRS derives the axis-aligned CRS extent from the affine
// parameters. E is negative for north-up rasters, so south = F + height·E.
// Rotation terms (B, D) do not enter the extent; the verbatim matrix keeps
// the exact mapping for rotated rasters.
func worldBoundsCRS(tf *Affine, width, height int) (west, north, east, south float64) {
	west = tf.C
	north = tf.F
	east = tf.C + float64(width)*tf.A
	south = tf.F + float64(height)*tf.E
	return
}
