package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

// Version identifies the dataset document format.
const Version = "1.0"

// Persisted file names.
const (
	MetadataFilename  = "metadata.json"
	SplitsFilename    = "splits.json"
	FailuresFilename  = "errors.json"
	HeightmapsDirname = "heightmaps"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SampleRecord describes one preprocessed map sample.
type SampleRecord struct {
	SampleID       string `json:"sample_id"`
	OriginalName   string `json:"original_name"`
	MapSize        int    `json:"map_size"`
	MapSizeKm      int    `json:"map_size_km"`
	PlayerCount    int    `json:"player_count"`
	TerrainType    string `json:"terrain_type"`
	HasWater       bool   `json:"has_water"`
	HeightmapShape [2]int `json:"heightmap_shape"` // (rows, cols)
	HeightmapFile  string `json:"heightmap_file"`  // relative to the dataset root
}

// Manifest is the metadata document of a built dataset.
type Manifest struct {
	Version      string                  `json:"version"`
	CreatedAt    string                  `json:"created_at"`
	TotalSamples int                     `json:"total_samples"`
	Samples      map[string]SampleRecord `json:"samples"`
}

// splitsDocument is the persisted form of a SplitAssignment.
type splitsDocument struct {
	Version string      `json:"version"`
	Seed    int64       `json:"seed"`
	Ratios  SplitRatios `json:"ratios"`
	Train   []string    `json:"train"`
	Val     []string    `json:"val"`
	Test    []string    `json:"test"`
}

// Failure records one map that could not be processed.
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type failuresDocument struct {
	Errors []Failure `json:"errors"`
}

// writeJSONAtomic marshals v with indentation and writes it via a temp
// file plus rename, so a crashed or cancelled run never leaves a partially
// written document behind.
func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadManifest reads a metadata.json document from a dataset directory.
func LoadManifest(datasetDir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(datasetDir, MetadataFilename))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", MetadataFilename, err)
	}
	return &m, nil
}

// LoadSplits reads a splits.json document from a dataset directory.
func LoadSplits(datasetDir string) (*SplitAssignment, error) {
	data, err := os.ReadFile(filepath.Join(datasetDir, SplitsFilename))
	if err != nil {
		return nil, err
	}
	var doc splitsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", SplitsFilename, err)
	}
	return &SplitAssignment{
		Seed:   doc.Seed,
		Ratios: doc.Ratios,
		Train:  doc.Train,
		Val:    doc.Val,
		Test:   doc.Test,
	}, nil
}
