package scmap

import "testing"

func TestInferTerrainType_Categories(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  TerrainType
	}{
		{
			name:  "desert",
			paths: []string{"/env/desert/layers/sand001_albedo.dds", "/env/desert/layers/dune_rock.dds"},
			want:  TerrainDesert,
		},
		{
			name:  "lava",
			paths: []string{"/env/lava/layers/magma_glow.dds", "/env/lava/layers/molten_rock.dds"},
			want:  TerrainLava,
		},
		{
			name:  "tundra",
			paths: []string{"/env/tundra/layers/snow01.dds", "/env/tundra/layers/ice_cracked.dds", "/env/tundra/layers/frost.dds"},
			want:  TerrainTundra,
		},
		{
			name:  "tropical",
			paths: []string{"/env/tropical/layers/jungle_floor.dds", "/env/tropical/layers/palm_bark.dds"},
			want:  TerrainTropical,
		},
		{
			name:  "temperate",
			paths: []string{"/env/evergreen/layers/grass001.dds", "/env/evergreen/layers/dirt_road.dds"},
			want:  TerrainTemperate,
		},
		{
			name:  "seabed",
			paths: []string{"/env/ocean/layers/seabed01.dds", "/env/ocean/layers/coral.dds"},
			want:  TerrainSeabed,
		},
		{
			name:  "no matches",
			paths: []string{"/env/custom/layers/xyzzy.dds"},
			want:  TerrainUnknown,
		},
		{
			name:  "empty list",
			paths: nil,
			want:  TerrainUnknown,
		},
		{
			name:  "empty strings ignored",
			paths: []string{"", "", ""},
			want:  TerrainUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := InferTerrainType(tc.paths); got != tc.want {
				t.Errorf("InferTerrainType(%v) = %q, want %q", tc.paths, got, tc.want)
			}
		})
	}
}

func TestInferTerrainType_CaseInsensitive(t *testing.T) {
	paths := []string{"/ENV/DESERT/LAYERS/SAND001_ALBEDO.DDS"}
	if got := InferTerrainType(paths); got != TerrainDesert {
		t.Errorf("got %q, want %q", got, TerrainDesert)
	}
}

// An exact tie between two categories resolves to the one earlier in the
// declared order, never to map iteration order.
func TestInferTerrainType_TieBreakDeclaredOrder(t *testing.T) {
	// One desert keyword, one lava keyword: desert is declared first.
	paths := []string{"/env/mixed/dune.dds", "/env/mixed/magma.dds"}
	for i := 0; i < 50; i++ {
		if got := InferTerrainType(paths); got != TerrainDesert {
			t.Fatalf("run %d: got %q, want %q", i, got, TerrainDesert)
		}
	}

	// Seabed vs temperate tie resolves to temperate (declared earlier).
	paths = []string{"/env/x/grass.dds", "/env/x/coral.dds"}
	for i := 0; i < 50; i++ {
		if got := InferTerrainType(paths); got != TerrainTemperate {
			t.Fatalf("run %d: got %q, want %q", i, got, TerrainTemperate)
		}
	}
}

func TestInferTerrainType_StrictlyHighestWins(t *testing.T) {
	// Two tundra keywords beat one desert keyword even though desert is
	// declared first.
	paths := []string{"/env/x/snow.dds", "/env/x/glacier.dds", "/env/x/sand.dds"}
	if got := InferTerrainType(paths); got != TerrainTundra {
		t.Errorf("got %q, want %q", got, TerrainTundra)
	}
}

func TestInferTerrainType_MultipleKeywordsPerPath(t *testing.T) {
	// A single path can score several keywords for the same category.
	paths := []string{"/env/desert/sand_dune_arid.dds", "/env/x/lava.dds"}
	if got := InferTerrainType(paths); got != TerrainDesert {
		t.Errorf("got %q, want %q", got, TerrainDesert)
	}
}

func TestTerrainTypes(t *testing.T) {
	types := TerrainTypes()
	if len(types) != 6 {
		t.Fatalf("expected 6 terrain types, got %d", len(types))
	}
	if types[0] != TerrainDesert {
		t.Errorf("first type = %q, want %q", types[0], TerrainDesert)
	}
	for _, tt := range types {
		if tt == TerrainUnknown {
			t.Error("TerrainUnknown must not appear in the taxonomy list")
		}
		if len(TerrainKeywords(tt)) == 0 {
			t.Errorf("no keywords for %q", tt)
		}
	}
}

func TestTerrainKeywords_UnknownType(t *testing.T) {
	if kws := TerrainKeywords(TerrainType("swamp")); kws != nil {
		t.Errorf("expected nil for unknown type, got %v", kws)
	}
}
