package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"film-decolorizer/internal/imgio"
	"film-decolorizer/negative"
)

// Config holds the parameters of one batch run.
type Config struct {
	Path        string        `yaml:"path"`
	Suffix      string        `yaml:"suffix"`       // file name suffix of RAW inputs, e.g. .ARW
	ShrinkRatio float64       `yaml:"shrink_ratio"` // 0.7-0.9 trims sprocket holes
	Format      string        `yaml:"format"`       // tif, png, jpg
	Quality     int           `yaml:"quality"`      // 0-100, meaning depends on format
	Workers     int           `yaml:"workers"`      // files processed concurrently
	OutputDir   string        `yaml:"output_dir"`   // overrides <input dir>/<date>_export
	Decoder     DecoderConfig `yaml:"decoder"`
	Preview     PreviewConfig `yaml:"preview"`
}

// DecoderConfig selects the external RAW converter.
type DecoderConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"` // passed before the file name
}

// PreviewConfig controls the optional result observers.
type PreviewConfig struct {
	Show       bool   `yaml:"show"`       // display each result in a window
	Thumbnails bool   `yaml:"thumbnails"` // write JPEG thumbnails to Dir
	Dir        string `yaml:"dir"`
	Size       int    `yaml:"size"` // longest thumbnail edge in pixels
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Suffix:      ".ARW",
		ShrinkRatio: negative.DefaultShrinkRatio,
		Format:      "tif",
		Quality:     100,
		Workers:     1,
		Decoder:     DecoderConfig{Command: "dcraw"},
		Preview:     PreviewConfig{Size: 512},
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration, filling in defaults where a zero
// value has an obvious meaning.
func Validate(cfg *Config) error {
	if cfg.Path == "" {
		return fmt.Errorf("path is required")
	}
	if info, err := os.Stat(cfg.Path); err != nil {
		return fmt.Errorf("path: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", cfg.Path)
	}

	if cfg.Suffix == "" {
		return fmt.Errorf("suffix is required")
	}
	if !(cfg.ShrinkRatio > 0 && cfg.ShrinkRatio <= 1) {
		return fmt.Errorf("shrink_ratio must be in (0,1], got %v", cfg.ShrinkRatio)
	}
	if _, err := imgio.ParseFormat(cfg.Format); err != nil {
		return err
	}
	if cfg.Quality < 0 || cfg.Quality > 100 {
		return fmt.Errorf("quality must be in [0,100], got %d", cfg.Quality)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Decoder.Command == "" {
		cfg.Decoder.Command = "dcraw"
	}

	if cfg.Preview.Thumbnails && cfg.Preview.Dir == "" {
		return fmt.Errorf("preview.dir is required when preview.thumbnails is set")
	}
	if cfg.Preview.Size <= 0 {
		cfg.Preview.Size = 512
	}
	return nil
}
