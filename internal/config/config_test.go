package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 20, cfg.Conversion.TrancheSlots)
	assert.Equal(t, 20, cfg.Conversion.CapitalMarketSlots)
	assert.Equal(t, 3, cfg.Conversion.ClassifiedSlots)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "{base}_INFRA3_{timestamp}.xlsx", cfg.OutputNameFormat)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
output_dir: ./converted
log_level: debug
conversion:
  tranche_slots: 5
  classified_slots: 2
csv:
  delimiter: ";"
  encoding: Windows-1252
server:
  addr: ":9000"
  read_timeout: 5s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./converted", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.Conversion.TrancheSlots)
	assert.Equal(t, 20, cfg.Conversion.CapitalMarketSlots, "unset keys keep defaults")
	assert.Equal(t, 2, cfg.Conversion.ClassifiedSlots)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
	assert.Equal(t, "Windows-1252", cfg.CSV.Encoding)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9000\"\n")
	t.Setenv("INFRA3_SERVER_ADDR", ":9999")
	t.Setenv("INFRA3_CONVERSION_CLASSIFIED_SLOTS", "5")
	t.Setenv("INFRA3_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Conversion.ClassifiedSlots)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "conversion: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := Load(writeConfig(t, "log_level: loud\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LogLevel")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"no output dir", func(c *Config) { c.OutputDir = "" }, true},
		{"zero tranche slots", func(c *Config) { c.Conversion.TrancheSlots = 0 }, true},
		{"too many slots", func(c *Config) { c.Conversion.CapitalMarketSlots = 500 }, true},
		{"unknown encoding", func(c *Config) { c.CSV.Encoding = "EBCDIC" }, true},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }, true},
		{"classified beyond both groups", func(c *Config) {
			c.Conversion.TrancheSlots = 2
			c.Conversion.CapitalMarketSlots = 2
			c.Conversion.ClassifiedSlots = 3
		}, true},
		{"classified within one group", func(c *Config) {
			c.Conversion.TrancheSlots = 2
			c.Conversion.ClassifiedSlots = 3
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
