// Package scmap provides a decoder for Supreme Commander .scmap terrain files.
package scmap

import (
	"errors"
	"fmt"
	"math"
	"os"
)

// SCMap format errors.
var (
	ErrInvalidSignature   = errors.New("invalid SCMap signature")
	ErrUnsupportedVersion = errors.New("unsupported SCMap version")
	ErrInvalidDimensions  = errors.New("invalid SCMap heightmap dimensions")
	ErrTruncatedData      = errors.New("truncated SCMap data")
)

// Signature is the little-endian uint32 magic at offset 0 ("Map\x1a").
const Signature uint32 = 0x1A70614D

// Supported format versions.
const (
	VersionSC uint8 = 56 // Supreme Commander
	VersionFA uint8 = 60 // Forged Alliance
)

// Section names reported by TruncatedError.
const (
	sectionHeader    = "header"
	sectionHeightmap = "heightmap"
	sectionStrata    = "strata"
)

// One horizontal game unit is 1/51.2 km: a 256-unit map is 5 km across.
const unitsPerKm = 51.2

// Maximum heightmap edge length accepted before the data is treated as
// corrupt. Retail maps top out at 2048 units (2049 samples).
const maxGridEdge = 4097

// Header holds the fixed-size leading fields of an SCMap file.
type Header struct {
	Version        uint8
	Width          float32 // map width in game units
	Height         float32 // map height in game units
	HeightmapScale uint16  // game units per heightmap sample
}

// Heightmap is a rectangular grid of raw elevation samples.
type Heightmap struct {
	Rows int
	Cols int
	Data []uint16 // row-major, len == Rows*Cols
}

// At returns the elevation sample at the given row and column.
func (h *Heightmap) At(row, col int) uint16 {
	return h.Data[row*h.Cols+col]
}

// MinMax returns the lowest and highest elevation samples in the grid.
func (h *Heightmap) MinMax() (min, max uint16) {
	if len(h.Data) == 0 {
		return 0, 0
	}
	min, max = h.Data[0], h.Data[0]
	for _, v := range h.Data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Stratum is one texture layer in the terrain material stack.
// Stratum masks are not decoded: they sit after decal and prop sections
// this decoder does not model.
type Stratum struct {
	TexturePath  string
	TextureScale float32
}

// WaterConfig holds the water elevation levels of a map.
type WaterConfig struct {
	HasWater         bool
	Elevation        float32
	AbyssElevation   float32
	SurfaceElevation float32
}

// Map is a decoded SCMap file. It is immutable once returned by Parse.
type Map struct {
	Version        uint8
	Width          float32
	Height         float32
	HeightmapScale uint16
	Heightmap      Heightmap
	Strata         []Stratum
	Water          *WaterConfig // nil when the file predates the water section
}

// SizeKm returns the map edge length in kilometers (width 256 -> 5).
func (m *Map) SizeKm() int {
	return int(math.Round(float64(m.Width) / unitsPerKm))
}

// ParseHeader decodes only the fixed-size header of an SCMap file.
// It is cheap enough to run as a pre-filter before a full Parse.
func ParseHeader(data []byte) (*Header, error) {
	r := NewReader(data)
	return parseHeader(r)
}

// Parse decodes an SCMap file from raw bytes. It is a pure function of the
// buffer: no file or network I/O is performed.
func Parse(data []byte) (*Map, error) {
	r := NewReader(data)

	hdr, err := parseHeader(r)
	if err != nil {
		return nil, err
	}

	m := &Map{
		Version:        hdr.Version,
		Width:          hdr.Width,
		Height:         hdr.Height,
		HeightmapScale: hdr.HeightmapScale,
	}

	// Heightmap section.
	rows, cols, err := gridDims(hdr)
	if err != nil {
		return nil, err
	}
	grid, err := r.Uint16Grid(rows, cols, "heightmap samples")
	if err != nil {
		return nil, sectioned(err, sectionHeader)
	}
	m.Heightmap = Heightmap{Rows: rows, Cols: cols, Data: grid}

	// Stratum section.
	count, err := r.Uint32("stratum count")
	if err != nil {
		return nil, sectioned(err, sectionHeightmap)
	}
	// Each entry needs at least 8 bytes, so the remaining buffer bounds how
	// many entries a valid file can declare. Never pre-size from the raw
	// count: a hostile count would allocate gigabytes before the first read.
	capHint := r.Remaining() / 8
	if n := int(count); n < capHint {
		capHint = n
	}
	m.Strata = make([]Stratum, 0, capHint)
	for i := uint32(0); i < count; i++ {
		path, err := r.String(fmt.Sprintf("stratum %d texture path", i))
		if err != nil {
			return nil, sectioned(err, sectionHeightmap)
		}
		scale, err := r.Float32(fmt.Sprintf("stratum %d texture scale", i))
		if err != nil {
			return nil, sectioned(err, sectionHeightmap)
		}
		m.Strata = append(m.Strata, Stratum{TexturePath: path, TextureScale: scale})
	}

	// Water section, absent in some older layouts.
	if r.Remaining() == 0 {
		return m, nil
	}
	flag, err := r.Byte("water flag")
	if err != nil {
		return nil, sectioned(err, sectionStrata)
	}
	water := &WaterConfig{HasWater: flag != 0}
	if water.HasWater {
		if water.Elevation, err = r.Float32("water elevation"); err != nil {
			return nil, sectioned(err, sectionStrata)
		}
		if water.AbyssElevation, err = r.Float32("water abyss elevation"); err != nil {
			return nil, sectioned(err, sectionStrata)
		}
		if water.SurfaceElevation, err = r.Float32("water surface elevation"); err != nil {
			return nil, sectioned(err, sectionStrata)
		}
	}
	m.Water = water

	return m, nil
}

// ParseFile decodes an SCMap file from disk.
func ParseFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading SCMap file: %w", err)
	}
	return Parse(data)
}

// parseHeader decodes the 23-byte fixed header. The signature is validated
// before any other field is read.
func parseHeader(r *Reader) (*Header, error) {
	sig, err := r.Uint32("signature")
	if err != nil {
		return nil, err
	}
	if sig != Signature {
		return nil, fmt.Errorf("%w: got 0x%08X, want 0x%08X", ErrInvalidSignature, sig, Signature)
	}

	version, err := r.Byte("version")
	if err != nil {
		return nil, err
	}
	if version != VersionSC && version != VersionFA {
		return nil, fmt.Errorf("%w: %d (supported: %d, %d)",
			ErrUnsupportedVersion, version, VersionSC, VersionFA)
	}

	if err := r.Skip(4, "reserved"); err != nil {
		return nil, err
	}

	hdr := &Header{Version: version}
	if hdr.Width, err = r.Float32("width"); err != nil {
		return nil, err
	}
	if hdr.Height, err = r.Float32("height"); err != nil {
		return nil, err
	}
	if err := r.Skip(4, "reserved"); err != nil {
		return nil, err
	}
	if hdr.HeightmapScale, err = r.Uint16("heightmap scale"); err != nil {
		return nil, err
	}

	return hdr, nil
}

// gridDims derives the heightmap grid shape from the header. The quotient
// width/scale must be an exact non-negative integer; anything else means
// the file is corrupt, and is never silently rounded.
func gridDims(hdr *Header) (rows, cols int, err error) {
	if hdr.HeightmapScale == 0 {
		return 0, 0, fmt.Errorf("%w: heightmap scale is zero", ErrInvalidDimensions)
	}

	fc := float64(hdr.Width) / float64(hdr.HeightmapScale)
	fr := float64(hdr.Height) / float64(hdr.HeightmapScale)
	if fc < 0 || fr < 0 || fc != math.Trunc(fc) || fr != math.Trunc(fr) {
		return 0, 0, fmt.Errorf("%w: %gx%g at scale %d does not divide evenly",
			ErrInvalidDimensions, hdr.Width, hdr.Height, hdr.HeightmapScale)
	}
	// The edge bound is checked while still in float64: converting an
	// out-of-range or infinite quotient to int first would wrap negative and
	// slip past the guard.
	if !(fc <= maxGridEdge-1) || !(fr <= maxGridEdge-1) {
		return 0, 0, fmt.Errorf("%w: %gx%g at scale %d exceeds maximum grid edge %d",
			ErrInvalidDimensions, hdr.Width, hdr.Height, hdr.HeightmapScale, maxGridEdge)
	}

	return int(fr) + 1, int(fc) + 1, nil
}

// sectioned stamps a TruncatedError with the last fully completed section.
func sectioned(err error, section string) error {
	var te *TruncatedError
	if errors.As(err, &te) {
		te.Section = section
	}
	return err
}
