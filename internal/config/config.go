// =============================================================================
// INFRA3 Curator - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Values are resolved in
// this order, later sources winning:
//   1. Built-in defaults (Default)
//   2. The optional YAML file (--config)
//   3. INFRA3_* environment variables
//   4. Command-line flags (applied by the cmd package)
//
// The loaded configuration is validated before use.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override, e.g.
// INFRA3_OUTPUT_DIR or INFRA3_SERVER_ADDR.
const EnvPrefix = "INFRA3"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where the convert command writes workbooks when no
	// explicit output path is given.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`

	// OutputNameFormat builds output file names. Placeholders:
	//   {base}      - input file name without extension
	//   {timestamp} - generation time (YYYYMMDD_HHMMSS)
	//   {uuid}      - a random UUID
	OutputNameFormat string `yaml:"output_name_format" envconfig:"OUTPUT_NAME_FORMAT" validate:"required"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls verbosity: "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	// =========================================================================
	// CONVERSION SETTINGS
	// =========================================================================

	Conversion ConversionConfig `yaml:"conversion" envconfig:"CONVERSION"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	CSV CSVSettings `yaml:"csv" envconfig:"CSV"`

	// =========================================================================
	// SERVER SETTINGS
	// =========================================================================

	Server ServerConfig `yaml:"server" envconfig:"SERVER"`
}

// ConversionConfig bounds the numbered column groups of the source schema.
type ConversionConfig struct {
	// TrancheSlots is the highest "Loan Debt Tranche {i}" group read.
	TrancheSlots int `yaml:"tranche_slots" envconfig:"TRANCHE_SLOTS" validate:"min=1,max=200"`

	// CapitalMarketSlots is the highest "Capital Market Debt {i}" group read.
	CapitalMarketSlots int `yaml:"capital_market_slots" envconfig:"CAPITAL_MARKET_SLOTS" validate:"min=1,max=200"`

	// ClassifiedSlots is how many leading loan and capital-market slots are
	// classified as debt. Later slots classify as equity.
	ClassifiedSlots int `yaml:"classified_slots" envconfig:"CLASSIFIED_SLOTS" validate:"min=0,max=200"`
}

// CSVSettings controls how CSV input is decoded.
type CSVSettings struct {
	// Delimiter separates fields: ",", ";", "|" or "tab".
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" validate:"required"`

	// Encoding of the file: "UTF-8", "Windows-1252" or "ISO-8859-1".
	Encoding string `yaml:"encoding" envconfig:"ENCODING" validate:"oneof=UTF-8 Windows-1252 ISO-8859-1"`
}

// ServerConfig holds the HTTP upload surface settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr" envconfig:"ADDR" validate:"required"`
	MaxUploadMB  int64         `yaml:"max_upload_mb" envconfig:"MAX_UPLOAD_MB" validate:"min=1"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OutputDir:        "./output",
		OutputNameFormat: "{base}_INFRA3_{timestamp}.xlsx",
		LogLevel:         "info",
		Conversion: ConversionConfig{
			TrancheSlots:       20,
			CapitalMarketSlots: 20,
			ClassifiedSlots:    3,
		},
		CSV: CSVSettings{
			Delimiter: ",",
			Encoding:  "UTF-8",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxUploadMB:  32,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load builds the configuration from defaults, the YAML file at path and the
// environment. A missing file is not an error when path is empty; an
// explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s: failed %q constraint", verrs[0].Namespace(), verrs[0].Tag())
		}
		return err
	}

	conv := c.Conversion
	if conv.ClassifiedSlots > conv.TrancheSlots && conv.ClassifiedSlots > conv.CapitalMarketSlots {
		return fmt.Errorf("classified_slots (%d) exceeds both tranche_slots and capital_market_slots", conv.ClassifiedSlots)
	}
	return nil
}
