package gridsense

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gridsense/gridsense-go/pkg/gridsense/analyzer"
)

// Config is the full engine configuration, loadable from a YAML or JSON
// file with environment overrides on top.
type Config struct {
	// Sheet is the sheet analyzed by default. Empty means the first
	// sheet of the workbook.
	Sheet string `json:"sheet" yaml:"sheet"`

	// Cache contains context cache settings.
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// Detection contains table detection settings.
	Detection DetectionConfig `json:"detection" yaml:"detection"`

	// Profile contains column profiling settings.
	Profile ProfileConfig `json:"profile" yaml:"profile"`

	// Spatial contains free-space scan settings.
	Spatial SpatialConfig `json:"spatial" yaml:"spatial"`

	// Semantics toggles semantic analysis. Nil means enabled.
	Semantics *bool `json:"semantics" yaml:"semantics"`

	// Zones toggles placement zone ranking. Nil means enabled.
	Zones *bool `json:"zones" yaml:"zones"`
}

// CacheConfig contains context cache settings.
type CacheConfig struct {
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// DetectionConfig contains table detection settings.
type DetectionConfig struct {
	MinHeaderRun    int `json:"min_header_run" yaml:"min_header_run"`
	GapLookahead    int `json:"gap_lookahead" yaml:"gap_lookahead"`
	SummaryMinRows  int `json:"summary_min_rows" yaml:"summary_min_rows"`
	EmergencyRowCap int `json:"emergency_row_cap" yaml:"emergency_row_cap"`
	FallbackRowCap  int `json:"fallback_row_cap" yaml:"fallback_row_cap"`
}

// ProfileConfig contains column profiling settings.
type ProfileConfig struct {
	SampleRows      int `json:"sample_rows" yaml:"sample_rows"`
	FormulaRows     int `json:"formula_rows" yaml:"formula_rows"`
	MaxSampleValues int `json:"max_sample_values" yaml:"max_sample_values"`
}

// SpatialConfig contains free-space scan settings.
type SpatialConfig struct {
	ColumnLookahead int `json:"column_lookahead" yaml:"column_lookahead"`
	RowLookahead    int `json:"row_lookahead" yaml:"row_lookahead"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	d := analyzer.DefaultDetectionParams()
	p := analyzer.DefaultProfileParams()
	s := analyzer.DefaultSpatialParams()
	return Config{
		Cache: CacheConfig{TTL: DefaultTTL},
		Detection: DetectionConfig{
			MinHeaderRun:    d.MinHeaderRun,
			GapLookahead:    d.GapLookahead,
			SummaryMinRows:  d.SummaryMinRows,
			EmergencyRowCap: d.EmergencyRowCap,
			FallbackRowCap:  d.FallbackRowCap,
		},
		Profile: ProfileConfig{
			SampleRows:      p.SampleRows,
			FormulaRows:     p.FormulaRows,
			MaxSampleValues: p.MaxSampleValues,
		},
		Spatial: SpatialConfig{
			ColumnLookahead: s.ColumnLookahead,
			RowLookahead:    s.RowLookahead,
		},
	}
}

// LoadConfig merges defaults, an optional config file, and environment
// overrides, then validates the result. A missing file is not an error;
// an unreadable or invalid one is.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		if err := loadConfigFile(path, &config); err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
	}
	loadConfigFromEnv(&config)

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func loadConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// Try YAML first, then JSON.
	if err := yaml.Unmarshal(data, config); err != nil {
		if jsonErr := json.Unmarshal(data, config); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadConfigFromEnv(config *Config) {
	if v := os.Getenv("GRIDSENSE_SHEET"); v != "" {
		config.Sheet = v
	}
	if v := os.Getenv("GRIDSENSE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Cache.TTL = d
		}
	}
	if v := os.Getenv("GRIDSENSE_MIN_HEADER_RUN"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Detection.MinHeaderRun = i
		}
	}
	if v := os.Getenv("GRIDSENSE_SAMPLE_ROWS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Profile.SampleRows = i
		}
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Detection.MinHeaderRun < 2 {
		return fmt.Errorf("min_header_run must be >= 2")
	}
	if c.Detection.GapLookahead < 0 {
		return fmt.Errorf("gap_lookahead must be >= 0")
	}
	if c.Detection.SummaryMinRows < 1 {
		return fmt.Errorf("summary_min_rows must be >= 1")
	}
	if c.Detection.EmergencyRowCap < 1 || c.Detection.FallbackRowCap < 1 {
		return fmt.Errorf("row caps must be >= 1")
	}
	if c.Profile.SampleRows < 1 || c.Profile.FormulaRows < 1 {
		return fmt.Errorf("sample rows must be >= 1")
	}
	if c.Spatial.ColumnLookahead < 1 || c.Spatial.RowLookahead < 1 {
		return fmt.Errorf("lookaheads must be >= 1")
	}
	return nil
}

// Options materializes analysis options from the configuration.
func (c Config) Options(logger *slog.Logger) Options {
	return Options{
		Detection: analyzer.DetectionParams{
			MinHeaderRun:    c.Detection.MinHeaderRun,
			GapLookahead:    c.Detection.GapLookahead,
			SummaryMinRows:  c.Detection.SummaryMinRows,
			EmergencyRowCap: c.Detection.EmergencyRowCap,
			FallbackRowCap:  c.Detection.FallbackRowCap,
		},
		Profile: analyzer.ProfileParams{
			SampleRows:      c.Profile.SampleRows,
			FormulaRows:     c.Profile.FormulaRows,
			MaxSampleValues: c.Profile.MaxSampleValues,
		},
		Spatial: analyzer.SpatialParams{
			ColumnLookahead: c.Spatial.ColumnLookahead,
			RowLookahead:    c.Spatial.RowLookahead,
		},
		IncludeSemantics: c.Semantics,
		IncludeZones:     c.Zones,
		Logger:           logger,
	}
}
