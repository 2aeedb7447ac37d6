// Package config loads the settings of the transposer command.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSourceSheet      = "rdstation_leads_custom_fields"
	DefaultDestinationSheet = "tranposed_rdstation_leads_custom_fields"
	DefaultCheckedColumn    = "checked"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the job settings.
type Config struct {
	// Workbook is the path of the xlsx file holding both sheets.
	Workbook         string `yaml:"workbook"`
	SourceSheet      string `yaml:"source_sheet"`
	DestinationSheet string `yaml:"destination_sheet"`
	CheckedColumn    string `yaml:"checked_column"`

	// GraphFile, when set, receives a DOT rendering of the run.
	GraphFile string `yaml:"graph_file"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		SourceSheet:      DefaultSourceSheet,
		DestinationSheet: DefaultDestinationSheet,
		CheckedColumn:    DefaultCheckedColumn,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path on top of Default. An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "unable to parse config %s", path)
	}

	return cfg, nil
}

// Validate checks the settings a run needs.
func (c *Config) Validate() error {
	switch {
	case c.Workbook == "":
		return errors.Wrap(ErrInvalidConfig, "workbook must be set")
	case c.SourceSheet == "":
		return errors.Wrap(ErrInvalidConfig, "source_sheet must be set")
	case c.DestinationSheet == "":
		return errors.Wrap(ErrInvalidConfig, "destination_sheet must be set")
	case c.SourceSheet == c.DestinationSheet:
		return errors.Wrap(ErrInvalidConfig, "source_sheet and destination_sheet must differ")
	case c.CheckedColumn == "":
		return errors.Wrap(ErrInvalidConfig, "checked_column must be set")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown log level %q", c.Logging.Level)
	}

	return nil
}
