// Package geotiff extracts georeferencing metadata from GeoTIFF files.
// Only the tags needed for georeferencing are read; image data, compression
// and tiling layout are ignored.
package geotiff

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/okartan/mapcore/georef"
)

// TIFF tag IDs.
const (
	tagImageWidth         = 256
	tagImageLength        = 257
	tagModelPixelScaleTag = 33550
	tagModelTiepointTag   = 33922
	tagGeoKeyDirectoryTag = 34735
)

// TIFF data types.
const (
	dtByte   = 1
	dtASCII  = 2
	dtShort  = 3
	dtLong   = 4
	dtFloat  = 11
	dtDouble = 12
	dtLong8  = 16
)

// GeoTIFF GeoKey IDs.
const (
	gkProjectedCSTypeGeoKey = 3072
)

// Default CRS when the file carries no GeoKey directory.
const defaultEPSG = 3006

// tiffEntry is a raw TIFF directory entry with its value bytes resolved.
type tiffEntry struct {
	Tag      uint16
	DataType uint16
	Count    uint64
	Value    []byte
}

// Parse reads the georeferencing tags from a TIFF byte buffer and returns
// the normalized record. Classic TIFF (magic 42) and BigTIFF (magic 43) are
// both handled, in either byte order. Returns a FormatError for anything
// that is not a TIFF or lacks the required tags — never a record with
// silently wrong bounds.
func Parse(data []byte) (*georef.Georeferencing, error) {
	entries, bo, err := parseDirectory(data)
	if err != nil {
		return nil, err
	}

	var (
		width, height         uint32
		pixelScale, tiepoints []float64
		geoKeys               []uint16
	)
	for _, e := range entries {
		switch e.Tag {
		case tagImageWidth:
			width = getUint32(e, bo)
		case tagImageLength:
			height = getUint32(e, bo)
		case tagModelPixelScaleTag:
			pixelScale = getFloat64Slice(e, bo)
		case tagModelTiepointTag:
			tiepoints = getFloat64Slice(e, bo)
		case tagGeoKeyDirectoryTag:
			geoKeys = getUint16Slice(e, bo)
		}
	}

	if width == 0 || height == 0 {
		return nil, georef.FormatErrorf("geotiff: missing ImageWidth/ImageLength tags")
	}
	if len(pixelScale) < 2 {
		return nil, georef.FormatErrorf("geotiff: missing ModelPixelScale tag")
	}
	if len(tiepoints) < 6 {
		return nil, georef.FormatErrorf("geotiff: missing ModelTiepoint tag")
	}
	// The supported contract is a single tiepoint and no rotation. Files
	// needing more are rejected rather than approximated.
	if len(tiepoints) > 6 {
		return nil, georef.FormatErrorf("geotiff: multi-tiepoint files are not supported (%d tiepoints)",
			len(tiepoints)/6)
	}

	scaleX, scaleY := pixelScale[0], pixelScale[1]
	if scaleX <= 0 || scaleY <= 0 {
		return nil, georef.FormatErrorf("geotiff: non-positive pixel scale (%g, %g)", scaleX, scaleY)
	}

	// Tiepoint [I, J, K, X, Y, Z] maps pixel (I, J) to CRS (X, Y); shift to
	// the (0, 0) pixel to get the upper-left corner.
	west := tiepoints[3] - tiepoints[0]*scaleX
	north := tiepoints[4] + tiepoints[1]*scaleY
	east := west + float64(width)*scaleX
	south := north - float64(height)*scaleY

	epsg := parseEPSG(geoKeys)
	if epsg == 0 {
		epsg = defaultEPSG
	}

	bounds, err := georef.BoundsFromCRS(epsg, west, north, east, south)
	if err != nil {
		return nil, err
	}

	return &georef.Georeferencing{
		CRS:    epsgString(epsg),
		Scale:  georef.EstimateScale(scaleX),
		Bounds: bounds,
		Transform: &georef.Affine{
			A: scaleX, E: -scaleY, C: west, F: north,
		},
	}, nil
}

// parseDirectory reads the TIFF header and the entries of the first IFD.
// Georeferencing tags always live in IFD 0; overview IFDs are not walked.
func parseDirectory(data []byte) ([]tiffEntry, binary.ByteOrder, error) {
	if len(data) < 8 {
		return nil, nil, georef.FormatErrorf("geotiff: %d bytes is too short for a TIFF header", len(data))
	}

	var bo binary.ByteOrder
	switch string(data[0:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return nil, nil, georef.FormatErrorf("geotiff: invalid byte order marker %q", data[0:2])
	}

	magic := bo.Uint16(data[2:4])
	bigTIFF := magic == 43
	if magic != 42 && magic != 43 {
		return nil, nil, georef.FormatErrorf("geotiff: invalid magic number %d", magic)
	}

	var ifdOffset uint64
	if bigTIFF {
		if len(data) < 16 {
			return nil, nil, georef.FormatErrorf("geotiff: truncated BigTIFF header")
		}
		if offSize := bo.Uint16(data[4:6]); offSize != 8 {
			return nil, nil, georef.FormatErrorf("geotiff: unsupported BigTIFF offset size %d", offSize)
		}
		ifdOffset = bo.Uint64(data[8:16])
	} else {
		ifdOffset = uint64(bo.Uint32(data[4:8]))
	}

	countSize := uint64(2)
	entrySize := uint64(12)
	if bigTIFF {
		countSize = 8
		entrySize = 20
	}

	// Offsets and counts are attacker-controlled 64-bit values; every check
	// is written subtraction-style so it cannot wrap.
	if ifdOffset > uint64(len(data)) || uint64(len(data))-ifdOffset < countSize {
		return nil, nil, georef.FormatErrorf("geotiff: IFD offset %d out of range", ifdOffset)
	}

	var numEntries uint64
	if bigTIFF {
		numEntries = bo.Uint64(data[ifdOffset : ifdOffset+8])
	} else {
		numEntries = uint64(bo.Uint16(data[ifdOffset : ifdOffset+2]))
	}

	base := ifdOffset + countSize
	if numEntries > (uint64(len(data))-base)/entrySize {
		return nil, nil, georef.FormatErrorf("geotiff: truncated IFD (%d entries at offset %d)", numEntries, ifdOffset)
	}

	entries := make([]tiffEntry, 0, numEntries)
	for i := uint64(0); i < numEntries; i++ {
		buf := data[base+i*entrySize : base+(i+1)*entrySize]
		e, err := resolveEntry(data, buf, bo, bigTIFF)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, e)
	}
	return entries, bo, nil
}

// resolveEntry decodes one directory entry and materializes its value bytes,
// following the offset when the value does not fit inline.
func resolveEntry(data, buf []byte, bo binary.ByteOrder, bigTIFF bool) (tiffEntry, error) {
	e := tiffEntry{
		Tag:      bo.Uint16(buf[0:2]),
		DataType: bo.Uint16(buf[2:4]),
	}

	var inline []byte
	if bigTIFF {
		e.Count = bo.Uint64(buf[4:12])
		inline = buf[12:20]
	} else {
		e.Count = uint64(bo.Uint32(buf[4:8]))
		inline = buf[8:12]
	}

	// Bound the count before multiplying: a value larger than the whole file
	// cannot be valid, and Count*size must not wrap.
	size := uint64(dataTypeSize(e.DataType))
	if e.Count > uint64(len(data))/size {
		return tiffEntry{}, georef.FormatErrorf("geotiff: tag %d count %d exceeds file size", e.Tag, e.Count)
	}
	totalSize := e.Count * size
	if totalSize <= uint64(len(inline)) {
		e.Value = inline
		return e, nil
	}

	var dataOffset uint64
	if bigTIFF {
		dataOffset = bo.Uint64(inline)
	} else {
		dataOffset = uint64(bo.Uint32(inline))
	}
	if dataOffset > uint64(len(data)) || uint64(len(data))-dataOffset < totalSize {
		return tiffEntry{}, georef.FormatErrorf("geotiff: tag %d value (offset %d, %d bytes) out of range",
			e.Tag, dataOffset, totalSize)
	}
	e.Value = data[dataOffset : dataOffset+totalSize]
	return e, nil
}

func dataTypeSize(dt uint16) int {
	switch dt {
	case dtByte, dtASCII:
		return 1
	case dtShort:
		return 2
	case dtLong, dtFloat:
		return 4
	case dtDouble, dtLong8:
		return 8
	default:
		return 1
	}
}

func getUint32(e tiffEntry, bo binary.ByteOrder) uint32 {
	switch e.DataType {
	case dtShort:
		if len(e.Value) >= 2 {
			return uint32(bo.Uint16(e.Value))
		}
	case dtLong:
		if len(e.Value) >= 4 {
			return bo.Uint32(e.Value)
		}
	case dtLong8:
		if len(e.Value) >= 8 {
			return uint32(bo.Uint64(e.Value))
		}
	}
	return 0
}

func getUint16Slice(e tiffEntry, bo binary.ByteOrder) []uint16 {
	n := int(e.Count)
	if len(e.Value) < n*2 {
		return nil
	}
	result := make([]uint16, n)
	for i := 0; i < n; i++ {
		result[i] = bo.Uint16(e.Value[i*2 : i*2+2])
	}
	return result
}

func getFloat64Slice(e tiffEntry, bo binary.ByteOrder) []float64 {
	n := int(e.Count)
	size := dataTypeSize(e.DataType)
	if len(e.Value) < n*size {
		return nil
	}
	result := make([]float64, n)
	for i := 0; i < n; i++ {
		off := i * size
		switch e.DataType {
		case dtDouble:
			result[i] = math.Float64frombits(bo.Uint64(e.Value[off : off+8]))
		case dtFloat:
			result[i] = float64(math.Float32frombits(bo.Uint32(e.Value[off : off+4])))
		}
	}
	return result
}

// parseEPSG scans the GeoKey directory for ProjectedCSTypeGeoKey (3072).
// The directory header is [version, revision, minor, numberOfKeys] followed
// by 4-uint16 key blocks.
func parseEPSG(geoKeys []uint16) int {
	if len(geoKeys) < 4 {
		return 0
	}
	numKeys := int(geoKeys[3])
	for i := 0; i < numKeys; i++ {
		base := 4 + i*4
		if base+3 >= len(geoKeys) {
			break
		}
		if geoKeys[base] == gkProjectedCSTypeGeoKey && geoKeys[base+3] > 0 {
			return int(geoKeys[base+3])
		}
	}
	return 0
}

func epsgString(code int) string {
	return "EPSG:" + strconv.Itoa(code)
}
