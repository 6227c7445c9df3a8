// mapdataset builds ML-ready heightmap datasets from Supreme Commander map files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/scmap-dataset/internal/config"
	"github.com/Faultbox/scmap-dataset/internal/dataset"
	"github.com/Faultbox/scmap-dataset/internal/logger"
	"github.com/Faultbox/scmap-dataset/pkg/scmap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		cmdBuild(args)
	case "info":
		cmdInfo(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`mapdataset - Supreme Commander map dataset builder

Usage:
  mapdataset <command> [options]

Commands:
  build [options]       Build a dataset from a directory of map folders
  info <file.scmap>     Show information about a single map file

Build options:
  -config <path>        Config file (default: ./config.yaml or user config dir)
  -input <dir>          Directory of downloaded map folders
  -output <dir>         Dataset output directory
  -min-size <units>     Skip maps narrower than this (game units)
  -max-size <units>     Skip maps wider than this (game units)
  -seed <n>             Split shuffle seed
  -workers <n>          Worker count (0 = one per CPU)
  -debug                Enable debug logging

Examples:
  mapdataset build -input ./maps -output ./dataset
  mapdataset build -min-size 256 -max-size 1024 -seed 7
  mapdataset info ./maps/setons_clutch/setons.scmap`)
}

func cmdBuild(args []string) {
	if err := config.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	builder, err := dataset.NewBuilder(dataset.Options{
		OutputDir: cfg.Dataset.OutputDir,
		MinSize:   cfg.Dataset.MinSize,
		MaxSize:   cfg.Dataset.MaxSize,
		Ratios: dataset.SplitRatios{
			Train: cfg.Dataset.TrainRatio,
			Val:   cfg.Dataset.ValRatio,
			Test:  cfg.Dataset.TestRatio,
		},
		Seed:    cfg.Dataset.Seed,
		Workers: cfg.Dataset.Workers,
	}, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Ctrl-C cancels the run; no manifest is written for a partial batch.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := builder.Build(ctx, cfg.Dataset.InputDir)
	if err != nil {
		log.Error("build failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Dataset:   %s\n", result.OutputDir)
	fmt.Printf("Samples:   %d\n", result.TotalSamples)
	fmt.Printf("Processed: %d\n", result.Processed)
	fmt.Printf("Failed:    %d\n", result.Failed)
	fmt.Printf("Skipped:   %d\n", result.Skipped)
	fmt.Printf("Splits:    train=%d val=%d test=%d\n",
		result.SplitCounts["train"], result.SplitCounts["val"], result.SplitCounts["test"])
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: mapdataset info <file.scmap>")
		os.Exit(1)
	}

	m, err := scmap.ParseFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	paths := make([]string, len(m.Strata))
	for i, s := range m.Strata {
		paths[i] = s.TexturePath
	}

	fmt.Printf("File:      %s\n", args[0])
	fmt.Printf("Version:   %d\n", m.Version)
	fmt.Printf("Size:      %.0fx%.0f units (%d km)\n", m.Width, m.Height, m.SizeKm())
	fmt.Printf("Heightmap: %dx%d samples (scale %d)\n",
		m.Heightmap.Rows, m.Heightmap.Cols, m.HeightmapScale)
	fmt.Printf("Terrain:   %s\n", scmap.InferTerrainType(paths))

	if m.Water == nil {
		fmt.Println("Water:     (no water section)")
	} else if !m.Water.HasWater {
		fmt.Println("Water:     none")
	} else {
		fmt.Printf("Water:     elevation=%.2f abyss=%.2f surface=%.2f\n",
			m.Water.Elevation, m.Water.AbyssElevation, m.Water.SurfaceElevation)
	}

	if len(m.Strata) > 0 {
		fmt.Println("Strata:")
		for _, s := range m.Strata {
			fmt.Printf("  %-50s scale %.1f\n", s.TexturePath, s.TextureScale)
		}
	}
}
