// Package config loads deckreader settings from YAML or TOML files.
//
// Files only need to name the settings they change; everything else keeps
// its default:
//
//	columns:
//	  split_ratio: 0.5
//	analysis:
//	  enabled: true
//	  timeout: 500ms
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/deckreader/analysis"
	"github.com/tsawler/deckreader/extract"
	"github.com/tsawler/deckreader/layout"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML
// nor TOML
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config is the file representation of deckreader settings
type Config struct {
	Columns  Columns  `yaml:"columns" toml:"columns"`
	Levels   Levels   `yaml:"levels" toml:"levels"`
	Analysis Analysis `yaml:"analysis" toml:"analysis"`
	Batch    Batch    `yaml:"batch" toml:"batch"`
	Store    Store    `yaml:"store" toml:"store"`
	PPTX     PPTX     `yaml:"pptx" toml:"pptx"`
}

// Columns configures column segmentation
type Columns struct {
	SplitRatio float64 `yaml:"split_ratio" toml:"split_ratio"`
}

// Levels configures font-level classification
type Levels struct {
	FallbackSize float64 `yaml:"fallback_size" toml:"fallback_size"`
	MinSpread    float64 `yaml:"min_spread" toml:"min_spread"`
}

// Analysis configures visual analysis
type Analysis struct {
	Enabled           bool     `yaml:"enabled" toml:"enabled"`
	TargetWidth       float64  `yaml:"target_width" toml:"target_width"`
	Timeout           Duration `yaml:"timeout" toml:"timeout"`
	RequestsPerSecond float64  `yaml:"requests_per_second" toml:"requests_per_second"`
	Burst             int      `yaml:"burst" toml:"burst"`
}

// Batch configures incremental processing
type Batch struct {
	CollectSize int `yaml:"collect_size" toml:"collect_size"`
	ProcessSize int `yaml:"process_size" toml:"process_size"`
}

// Store configures persistence
type Store struct {
	// Path is the SQLite database file; empty uses the default location
	Path string `yaml:"path" toml:"path"`
}

// PPTX configures deck reading
type PPTX struct {
	SkipFooters bool `yaml:"skip_footers" toml:"skip_footers"`
}

// Default returns the default settings
func Default() Config {
	ex := extract.DefaultConfig()
	return Config{
		Columns: Columns{SplitRatio: ex.Columns.SplitRatio},
		Levels: Levels{
			FallbackSize: ex.Levels.FallbackSize,
			MinSpread:    ex.Levels.MinSpread,
		},
		Analysis: Analysis{
			TargetWidth:       ex.TargetWidth,
			Timeout:           Duration(ex.AnalysisTimeout),
			RequestsPerSecond: ex.Client.RequestsPerSecond,
			Burst:             ex.Client.Burst,
		},
		Batch: Batch{
			CollectSize: ex.CollectSize,
			ProcessSize: ex.ProcessSize,
		},
	}
}

// Load reads path over the defaults. The format follows the file extension:
// .yaml and .yml are YAML, .toml is TOML.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting
func (c Config) Validate() error {
	switch {
	case c.Columns.SplitRatio <= 0 || c.Columns.SplitRatio >= 1:
		return fmt.Errorf("columns.split_ratio must be between 0 and 1, got %v", c.Columns.SplitRatio)
	case c.Levels.FallbackSize <= 0:
		return fmt.Errorf("levels.fallback_size must be positive, got %v", c.Levels.FallbackSize)
	case c.Levels.MinSpread < 0:
		return fmt.Errorf("levels.min_spread must not be negative, got %v", c.Levels.MinSpread)
	case c.Analysis.TargetWidth <= 0:
		return fmt.Errorf("analysis.target_width must be positive, got %v", c.Analysis.TargetWidth)
	case c.Analysis.Timeout <= 0:
		return fmt.Errorf("analysis.timeout must be positive, got %s", c.Analysis.Timeout)
	case c.Analysis.RequestsPerSecond < 0:
		return fmt.Errorf("analysis.requests_per_second must not be negative, got %v", c.Analysis.RequestsPerSecond)
	case c.Analysis.Burst < 1:
		return fmt.Errorf("analysis.burst must be at least 1, got %d", c.Analysis.Burst)
	case c.Batch.CollectSize < 1:
		return fmt.Errorf("batch.collect_size must be at least 1, got %d", c.Batch.CollectSize)
	case c.Batch.ProcessSize < 1:
		return fmt.Errorf("batch.process_size must be at least 1, got %d", c.Batch.ProcessSize)
	}
	return nil
}

// Extract returns the extraction configuration for these settings.
// Logger, Sink and Prompts are left for the caller.
func (c Config) Extract() extract.Config {
	ex := extract.DefaultConfig()
	ex.Columns = layout.ColumnConfig{SplitRatio: c.Columns.SplitRatio}
	ex.Levels = layout.LevelConfig{
		FallbackSize: c.Levels.FallbackSize,
		MinSpread:    c.Levels.MinSpread,
	}
	ex.Analyze = c.Analysis.Enabled
	ex.TargetWidth = c.Analysis.TargetWidth
	ex.AnalysisTimeout = time.Duration(c.Analysis.Timeout)
	ex.Client = analysis.ClientConfig{
		RequestsPerSecond: c.Analysis.RequestsPerSecond,
		Burst:             c.Analysis.Burst,
	}
	ex.CollectSize = c.Batch.CollectSize
	ex.ProcessSize = c.Batch.ProcessSize
	return ex
}
