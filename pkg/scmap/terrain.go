package scmap

import "strings"

// TerrainType classifies a map's overall biome from its stratum textures.
type TerrainType string

// Terrain type constants.
const (
	TerrainDesert    TerrainType = "desert"
	TerrainLava      TerrainType = "lava"
	TerrainTundra    TerrainType = "tundra"
	TerrainTropical  TerrainType = "tropical"
	TerrainTemperate TerrainType = "temperate"
	TerrainSeabed    TerrainType = "seabed"
	TerrainUnknown   TerrainType = "unknown"
)

// terrainOrder fixes the evaluation order of the taxonomy. Exact score ties
// resolve to the category listed first, so classification never depends on
// map iteration order.
var terrainOrder = []TerrainType{
	TerrainDesert,
	TerrainLava,
	TerrainTundra,
	TerrainTropical,
	TerrainTemperate,
	TerrainSeabed,
}

// terrainKeywords maps each terrain type to the path substrings that
// indicate it.
var terrainKeywords = map[TerrainType][]string{
	TerrainDesert:    {"sand", "desert", "dune", "arid", "dry", "sahara"},
	TerrainLava:      {"lava", "volcanic", "magma", "fire", "molten", "ember"},
	TerrainTundra:    {"snow", "ice", "frozen", "tundra", "arctic", "frost", "glacier"},
	TerrainTropical:  {"tropical", "jungle", "palm", "rainforest", "humid"},
	TerrainTemperate: {"grass", "dirt", "rock", "cliff", "stone", "earth", "soil"},
	TerrainSeabed:    {"seabed", "underwater", "coral", "ocean", "seafloor"},
}

// TerrainTypes returns the classifiable terrain types in evaluation order,
// excluding TerrainUnknown.
func TerrainTypes() []TerrainType {
	out := make([]TerrainType, len(terrainOrder))
	copy(out, terrainOrder)
	return out
}

// TerrainKeywords returns the keywords for a terrain type, or nil if the
// type is not part of the taxonomy.
func TerrainKeywords(t TerrainType) []string {
	kws, ok := terrainKeywords[t]
	if !ok {
		return nil
	}
	out := make([]string, len(kws))
	copy(out, kws)
	return out
}

// InferTerrainType classifies a map from its stratum texture paths.
// Matching is case-insensitive substring search against the keyword table.
// The category with the strictly highest number of matching keywords wins;
// on a tie the category earlier in the declared order wins. Zero matches
// across every category yields TerrainUnknown.
func InferTerrainType(texturePaths []string) TerrainType {
	scores := make(map[TerrainType]int, len(terrainOrder))

	for _, path := range texturePaths {
		if path == "" {
			continue
		}
		lower := strings.ToLower(path)
		for _, terrain := range terrainOrder {
			for _, keyword := range terrainKeywords[terrain] {
				if strings.Contains(lower, keyword) {
					scores[terrain]++
				}
			}
		}
	}

	best := TerrainUnknown
	bestScore := 0
	for _, terrain := range terrainOrder {
		if scores[terrain] > bestScore {
			best = terrain
			bestScore = scores[terrain]
		}
	}
	return best
}
