package app

import (
	"errors"
	"fmt"
)

// Config holds everything one App run needs.
type Config struct {
	ComponentsPath string // .hcl component declarations
	FragmentsPath  string // .hcl fragment library, optional
	URLsPath       string // urls lookup table, optional
	PlatformsPath  string // master platform list override, optional

	Format     string // "json" or "yaml"
	OutputPath string // export destination; empty writes to the app writer
	CheckOnly  bool   // validate without producing an export

	Workers   int
	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ComponentsPath == "" {
		return nil, errors.New("ComponentsPath is a required configuration field and cannot be empty")
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Format != "json" && cfg.Format != "yaml" {
		return nil, fmt.Errorf("invalid format %q: must be 'json' or 'yaml'", cfg.Format)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &cfg, nil
}
