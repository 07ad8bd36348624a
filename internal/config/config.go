// =============================================================================
// CAMEO to CSV Converter - Configuration Module
// =============================================================================
//
// This module loads the optional YAML configuration file. Every setting has a
// default, so the converter runs without any file at all.
//
// EXAMPLE (config.yaml):
//   source:
//     file: cameocodes.txt
//     url: http://gdeltproject.org/data/lookups/CAMEO.eventcodes.txt
//     timeout: 30s
//     cache_download: false
//   output:
//     path: "-"
//     format: csv
//   logging:
//     level: info
//     encoding: console
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultSourceFile is the local listing checked before going to the network.
	DefaultSourceFile = "cameocodes.txt"

	// DefaultSourceURL is the published GDELT copy of the CAMEO event codes.
	DefaultSourceURL = "http://gdeltproject.org/data/lookups/CAMEO.eventcodes.txt"

	// DefaultTimeout bounds the HTTP fallback.
	DefaultTimeout = 30 * time.Second

	// StdoutPath selects standard output as the destination.
	StdoutPath = "-"

	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig describes where the CAMEO listing comes from.
type SourceConfig struct {
	// File is the local listing. It is used when it exists.
	// Default: "cameocodes.txt"
	File string `yaml:"file"`

	// URL is fetched with a plain GET when File does not exist.
	// Default: the GDELT lookup URL
	URL string `yaml:"url"`

	// Timeout bounds the whole HTTP request, body included.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// CacheDownload saves a fetched listing to File so later runs are offline.
	// Default: false
	CacheDownload bool `yaml:"cache_download"`
}

// OutputConfig describes where rows are written.
type OutputConfig struct {
	// Path is the destination file, or "-" for standard output.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	// Default: "-"
	Path string `yaml:"path"`

	// Format is "csv" or "xlsx". XLSX needs a file path.
	// Default: "csv"
	Format string `yaml:"format"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Encoding is "console" or "json".
	// Default: "console"
	Encoding string `yaml:"encoding"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at path.
//
// PARAMETERS:
//   - path: The YAML file. A missing file is not an error.
//
// RETURNS:
//   - The configuration with defaults applied.
//   - An error if the file exists but cannot be read or parsed, or if a
//     value is invalid.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No file: defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyDefaults sets default values for any unset option.
func applyDefaults(cfg *Config) {
	if cfg.Source.File == "" {
		cfg.Source.File = DefaultSourceFile
	}
	if cfg.Source.URL == "" {
		cfg.Source.URL = DefaultSourceURL
	}
	if cfg.Source.Timeout == 0 {
		cfg.Source.Timeout = DefaultTimeout
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = StdoutPath
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatCSV
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Encoding == "" {
		cfg.Logging.Encoding = "console"
	}
}

// Validate checks the configuration for values the converter cannot use.
// It is exported so flag overrides can be checked after they are applied.
func (c *Config) Validate() error {
	if c.Source.Timeout < 0 {
		return fmt.Errorf("source.timeout must be positive, got %s", c.Source.Timeout)
	}

	switch c.Output.Format {
	case FormatCSV:
	case FormatXLSX:
		if c.Output.Path == StdoutPath {
			return fmt.Errorf("output.format %q needs a file path, not stdout", FormatXLSX)
		}
	default:
		return fmt.Errorf("unknown output.format %q (want %q or %q)", c.Output.Format, FormatCSV, FormatXLSX)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}

	switch c.Logging.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("unknown logging.encoding %q", c.Logging.Encoding)
	}

	return nil
}
