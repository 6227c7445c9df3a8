// Package config handles pipeline configuration loading and management.
package config

// Config holds all pipeline settings.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset"`
	Logging LoggingConfig `yaml:"logging"`
}

// DatasetConfig holds dataset build settings.
type DatasetConfig struct {
	InputDir   string  `yaml:"input_dir"`  // one subfolder per downloaded map
	OutputDir  string  `yaml:"output_dir"` // dataset root (manifest + heightmaps)
	MinSize    int     `yaml:"min_size"`   // minimum map width in game units, 0 disables
	MaxSize    int     `yaml:"max_size"`   // maximum map width in game units, 0 disables
	TrainRatio float64 `yaml:"train_ratio"`
	ValRatio   float64 `yaml:"val_ratio"`
	TestRatio  float64 `yaml:"test_ratio"`
	Seed       int64   `yaml:"seed"`
	Workers    int     `yaml:"workers"` // 0 = one per CPU
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			InputDir:   "./maps",
			OutputDir:  "./dataset",
			TrainRatio: 0.8,
			ValRatio:   0.1,
			TestRatio:  0.1,
			Seed:       42,
			Workers:    0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
