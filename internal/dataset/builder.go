package dataset

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/scmap-dataset/pkg/scmap"
)

// SidecarFilename is the optional per-sample file written by the download
// stage, carrying catalog metadata the map binary itself does not hold.
const SidecarFilename = "map_info.json"

// Options configures a Builder. The zero value of Ratios selects the
// default 0.8/0.1/0.1 partition and a zero Workers selects one worker per
// CPU.
type Options struct {
	OutputDir string
	MinSize   int // minimum map width in game units, 0 disables
	MaxSize   int // maximum map width in game units, 0 disables
	Ratios    SplitRatios
	Seed      int64
	Workers   int
}

// BuildResult summarizes a completed pipeline run.
type BuildResult struct {
	OutputDir    string
	TotalSamples int
	Processed    int
	Failed       int
	Skipped      int
	SplitCounts  map[string]int
}

// Builder runs the decode -> classify -> normalize -> persist pipeline
// over a corpus of map folders.
type Builder struct {
	opts Options
	log  *zap.Logger
}

// NewBuilder validates opts and returns a Builder. Invalid split ratios
// fail here rather than at the end of a long run.
func NewBuilder(opts Options, log *zap.Logger) (*Builder, error) {
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if opts.Ratios == (SplitRatios{}) {
		opts.Ratios = DefaultSplitRatios()
	}
	if err := opts.Ratios.Validate(); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{opts: opts, log: log}, nil
}

// sidecar mirrors the catalog metadata document the download stage leaves
// next to each map file.
type sidecar struct {
	Name       string `json:"name"`
	MaxPlayers int    `json:"max_players"`
}

// sample carries one worker's output to the merge point.
type sample struct {
	record     SampleRecord
	normalized []float32
}

// Build processes every sample folder under inputDir and persists the
// dataset manifest. Per-sample decode failures are logged and skipped;
// artifact write failures abort the batch and leave the manifest unwritten.
func (b *Builder) Build(ctx context.Context, inputDir string) (*BuildResult, error) {
	folders, err := sampleFolders(inputDir)
	if err != nil {
		return nil, err
	}
	b.log.Info("discovered sample folders",
		zap.Int("count", len(folders)), zap.String("input", inputDir))

	heightmapsDir := filepath.Join(b.opts.OutputDir, HeightmapsDirname)
	if err := os.MkdirAll(heightmapsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Per-sample work is independent; only this merge state is shared.
	var (
		mu       sync.Mutex
		records  = make(map[string]SampleRecord, len(folders))
		failures []Failure
		skipped  int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)

	for _, folder := range folders {
		folder := folder
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			s, err := b.processFolder(folder)
			if err != nil {
				// Recoverable: one bad map never aborts the batch.
				b.log.Warn("skipping map", zap.String("folder", folder), zap.Error(err))
				mu.Lock()
				failures = append(failures, Failure{Path: folder, Error: err.Error()})
				mu.Unlock()
				return nil
			}
			if s == nil {
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}

			// I/O failures here are batch-fatal (disk exhaustion etc).
			shape := s.record.HeightmapShape
			path := filepath.Join(heightmapsDir, s.record.SampleID+".npy")
			if err := WriteNPY(path, shape[0], shape[1], s.normalized); err != nil {
				return fmt.Errorf("writing heightmap artifact %s: %w", path, err)
			}

			mu.Lock()
			if prev, ok := records[s.record.SampleID]; ok {
				// Distinct folders can normalize to the same id; the
				// later record wins, matching the upstream catalog order.
				b.log.Warn("sample id collision, replacing earlier record",
					zap.String("sample_id", s.record.SampleID),
					zap.String("replaced", prev.OriginalName))
			}
			records[s.record.SampleID] = s.record
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	assignment, err := AssignSplits(ids, b.opts.Ratios, b.opts.Seed)
	if err != nil {
		return nil, err
	}
	for _, name := range assignment.EmptySplits() {
		b.log.Warn("split received no samples", zap.String("split", name),
			zap.Int("total_samples", len(ids)))
	}

	if err := b.persist(records, assignment, failures); err != nil {
		return nil, err
	}

	result := &BuildResult{
		OutputDir:    b.opts.OutputDir,
		TotalSamples: len(records),
		Processed:    len(records),
		Failed:       len(failures),
		Skipped:      skipped,
		SplitCounts: map[string]int{
			"train": len(assignment.Train),
			"val":   len(assignment.Val),
			"test":  len(assignment.Test),
		},
	}
	b.log.Info("dataset build complete",
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// processFolder decodes one sample folder. A nil, nil return means the
// folder was excluded by the size pre-filter. Returned errors are
// recoverable per-sample failures.
func (b *Builder) processFolder(folder string) (*sample, error) {
	mapPath, err := locateMapFile(folder)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}

	// Cheap header-only decode drives the size pre-filter so rejected
	// maps never pay for a full parse.
	hdr, err := scmap.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	mapSize := int(hdr.Width)
	if b.opts.MinSize > 0 && mapSize < b.opts.MinSize {
		b.log.Debug("size filter", zap.String("map", mapPath), zap.Int("size", mapSize))
		return nil, nil
	}
	if b.opts.MaxSize > 0 && mapSize > b.opts.MaxSize {
		b.log.Debug("size filter", zap.String("map", mapPath), zap.Int("size", mapSize))
		return nil, nil
	}

	m, err := scmap.Parse(data)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(m.Strata))
	for _, s := range m.Strata {
		paths = append(paths, s.TexturePath)
	}

	info := b.readSidecar(folder)
	originalName := filepath.Base(folder)
	if info.Name != "" {
		originalName = info.Name
	}

	rec := SampleRecord{
		SampleID:       sampleID(mapPath),
		OriginalName:   originalName,
		MapSize:        mapSize,
		MapSizeKm:      m.SizeKm(),
		PlayerCount:    info.MaxPlayers,
		TerrainType:    string(scmap.InferTerrainType(paths)),
		HasWater:       m.Water != nil && m.Water.HasWater,
		HeightmapShape: [2]int{m.Heightmap.Rows, m.Heightmap.Cols},
	}
	rec.HeightmapFile = HeightmapsDirname + "/" + rec.SampleID + ".npy"

	return &sample{record: rec, normalized: Normalize(&m.Heightmap)}, nil
}

// readSidecar loads optional catalog metadata. Anything missing or
// malformed degrades to zero values rather than failing the sample.
func (b *Builder) readSidecar(folder string) sidecar {
	var info sidecar
	data, err := os.ReadFile(filepath.Join(folder, SidecarFilename))
	if err != nil {
		return info
	}
	if err := json.Unmarshal(data, &info); err != nil {
		b.log.Debug("unreadable sidecar", zap.String("folder", folder), zap.Error(err))
		return sidecar{}
	}
	return info
}

// persist writes the manifest documents. Both are written atomically and
// only after every sample has been processed; an interrupted run leaves
// no metadata.json, which marks the dataset as not yet valid.
func (b *Builder) persist(records map[string]SampleRecord, assignment *SplitAssignment, failures []Failure) error {
	manifest := &Manifest{
		Version:      Version,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		TotalSamples: len(records),
		Samples:      records,
	}
	splits := &splitsDocument{
		Version: Version,
		Seed:    assignment.Seed,
		Ratios:  assignment.Ratios,
		Train:   assignment.Train,
		Val:     assignment.Val,
		Test:    assignment.Test,
	}

	if err := writeJSONAtomic(filepath.Join(b.opts.OutputDir, SplitsFilename), splits); err != nil {
		return fmt.Errorf("writing splits: %w", err)
	}
	if err := writeJSONAtomic(filepath.Join(b.opts.OutputDir, MetadataFilename), manifest); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	if len(failures) > 0 {
		doc := &failuresDocument{Errors: failures}
		if err := writeJSONAtomic(filepath.Join(b.opts.OutputDir, FailuresFilename), doc); err != nil {
			return fmt.Errorf("writing failure list: %w", err)
		}
	}
	return nil
}

// sampleFolders lists the immediate subdirectories of inputDir in sorted
// order.
func sampleFolders(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, filepath.Join(inputDir, e.Name()))
		}
	}
	sort.Strings(folders)
	return folders, nil
}

// locateMapFile finds the single .scmap file in a sample folder. Zero or
// several map files fail the sample; disambiguation is an upstream concern.
func locateMapFile(folder string) (string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", fmt.Errorf("reading sample folder: %w", err)
	}
	var found []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".scmap") {
			found = append(found, filepath.Join(folder, e.Name()))
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return "", fmt.Errorf("no .scmap file in %s", folder)
	default:
		return "", fmt.Errorf("%d .scmap files in %s, expected exactly one", len(found), folder)
	}
}

// sampleID derives a filesystem-safe id from the map's folder name.
// Generic folder names fall back to a hash of the full path.
func sampleID(mapPath string) string {
	dirName := filepath.Base(filepath.Dir(mapPath))
	safe := strings.ToLower(strings.NewReplacer(".", "_", " ", "_").Replace(dirName))
	if safe == "" || safe == "map" || safe == "maps" {
		sum := md5.Sum([]byte(mapPath))
		safe = "map_" + hex.EncodeToString(sum[:])[:8]
	}
	return safe
}
