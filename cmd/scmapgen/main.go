// scmapgen generates synthetic .scmap files for testing the dataset pipeline.
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aquilax/go-perlin"

	"github.com/Faultbox/scmap-dataset/pkg/scmap"
)

const noiseFrequency = 0.02

// texturePaths gives each generated map a stratum set that classifies as
// the requested terrain type.
var texturePaths = map[string][]string{
	"desert":    {"/env/desert/layers/sand_dark.dds", "/env/desert/layers/dune_ripples.dds", "/env/desert/layers/rock_wall.dds"},
	"lava":      {"/env/lava/layers/lava_rock.dds", "/env/lava/layers/magma_glow.dds", "/env/lava/layers/scorched_ground.dds"},
	"tundra":    {"/env/tundra/layers/snow_clean.dds", "/env/tundra/layers/ice_cracked.dds", "/env/tundra/layers/frozen_rock.dds"},
	"tropical":  {"/env/tropical/layers/jungle_floor.dds", "/env/tropical/layers/palm_bark.dds", "/env/tropical/layers/coral_reef.dds"},
	"temperate": {"/env/evergreen/layers/grass_light.dds", "/env/evergreen/layers/dirt_path.dds", "/env/evergreen/layers/forest_floor.dds"},
	"seabed":    {"/env/redrocks/layers/seabed_silt.dds", "/env/redrocks/layers/kelp_bed.dds", "/env/redrocks/layers/ocean_floor.dds"},
	"none":      nil,
}

func main() {
	out := flag.String("out", "map.scmap", "Output file path")
	size := flag.Float64("size", 256, "Map edge length in game units")
	scale := flag.Int("hscale", 1, "Game units per heightmap sample")
	seed := flag.Int64("seed", 1, "Noise seed")
	water := flag.Bool("water", false, "Include a water section with water enabled")
	terrain := flag.String("terrain", "temperate", "Terrain type for stratum texture paths")
	version := flag.Int("version", int(scmap.VersionFA), "Format version byte")
	flag.Parse()

	paths, ok := texturePaths[*terrain]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown terrain type: %s\n", *terrain)
		fmt.Fprintln(os.Stderr, "Known types: desert, lava, tundra, tropical, temperate, seabed, none")
		os.Exit(1)
	}

	data, err := generate(float32(*size), uint16(*scale), uint8(*version), *seed, paths, *water)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
			os.Exit(1)
		}
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	edge := int(*size)/(*scale) + 1
	fmt.Printf("Wrote %s (%d bytes, %dx%d heightmap, %s)\n",
		*out, len(data), edge, edge, *terrain)
}

// generate builds a complete map file with a perlin-noise heightmap.
func generate(size float32, scale uint16, version uint8, seed int64, paths []string, hasWater bool) ([]byte, error) {
	if scale == 0 || int(size)%int(scale) != 0 {
		return nil, fmt.Errorf("size %v is not divisible by scale %d", size, scale)
	}
	edge := int(size)/int(scale) + 1

	buf := new(bytes.Buffer)

	// Header
	binary.Write(buf, binary.LittleEndian, scmap.Signature)
	buf.WriteByte(version)
	buf.Write(make([]byte, 4))
	binary.Write(buf, binary.LittleEndian, size)
	binary.Write(buf, binary.LittleEndian, size)
	buf.Write(make([]byte, 4))
	binary.Write(buf, binary.LittleEndian, scale)

	// Heightmap
	noise := perlin.NewPerlin(2.0, 2.0, 3, seed)
	for row := 0; row < edge; row++ {
		for col := 0; col < edge; col++ {
			// Noise2D returns roughly [-1, 1]; map to the uint16 range.
			n := noise.Noise2D(float64(col)*noiseFrequency, float64(row)*noiseFrequency)
			v := (n + 1) / 2
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			binary.Write(buf, binary.LittleEndian, uint16(v*65535+0.5))
		}
	}

	// Strata
	binary.Write(buf, binary.LittleEndian, uint32(len(paths)))
	for i, p := range paths {
		binary.Write(buf, binary.LittleEndian, uint32(len(p)))
		buf.WriteString(p)
		binary.Write(buf, binary.LittleEndian, float32(4*(i+1)))
	}

	// Water
	if hasWater {
		buf.WriteByte(1)
		binary.Write(buf, binary.LittleEndian, float32(17.5))
		binary.Write(buf, binary.LittleEndian, float32(2.5))
		binary.Write(buf, binary.LittleEndian, float32(17.5))
	} else {
		buf.WriteByte(0)
	}

	return buf.Bytes(), nil
}
