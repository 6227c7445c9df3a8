package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagInput   = flag.String("input", "", "Directory of downloaded map folders")
	flagOutput  = flag.String("output", "", "Dataset output directory")
	flagMinSize = flag.Int("min-size", 0, "Minimum map width in game units")
	flagMaxSize = flag.Int("max-size", 0, "Maximum map width in game units")
	flagSeed    = flag.Int64("seed", -1, "Split seed (-1 keeps the configured value)")
	flagWorkers = flag.Int("workers", 0, "Worker count (0 = one per CPU)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags(args []string) error {
	return flag.CommandLine.Parse(args)
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagInput != "" {
		cfg.Dataset.InputDir = *flagInput
	}
	if *flagOutput != "" {
		cfg.Dataset.OutputDir = *flagOutput
	}
	if *flagMinSize > 0 {
		cfg.Dataset.MinSize = *flagMinSize
	}
	if *flagMaxSize > 0 {
		cfg.Dataset.MaxSize = *flagMaxSize
	}
	if *flagSeed >= 0 {
		cfg.Dataset.Seed = *flagSeed
	}
	if *flagWorkers > 0 {
		cfg.Dataset.Workers = *flagWorkers
	}
}
