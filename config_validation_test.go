package conflictsql

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoadConfig_StrictMode_UnknownKeys(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "conflictsql.yaml")

	configContent := `
dialect: "postgres"
definitions_dir: "./upserts"
unknown_key: "should cause error"
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	_, err = LoadConfig(configPath)
	assert.Error(t, err, "expected error for unknown keys in strict mode")
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "conflictsql.yaml")

	configContent := `
dialect: "sqlite"
definitions_dir: "./defs"
databases:
  development:
    driver: sqlite3
    connection: "file::memory:?cache=shared"
statement_cache:
  enabled: false
logging:
  enabled: true
  include_stack: true
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, "sqlite", config.Dialect)
	assert.Equal(t, "./defs", config.DefinitionsDir)
	assert.Equal(t, "sqlite3", config.Databases["development"].Driver)
	assert.False(t, config.StatementCache.IsEnabled())
	assert.True(t, config.Logging.Enabled)
	assert.Equal(t, 16, config.Logging.StackDepth)
}

func TestValidateConfig_InvalidDialect(t *testing.T) {
	config := &Config{
		Dialect: "invalid_dialect",
	}

	err := validateConfig(config)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigValidation))
	assert.Contains(t, err.Error(), "invalid dialect")
}

func TestValidateConfig_DatabaseEntries(t *testing.T) {
	tests := []struct {
		name    string
		db      Database
		message string
	}{
		{"missing driver", Database{Connection: "x"}, "driver is required"},
		{"unknown driver", Database{Driver: "oracle", Connection: "x"}, "unknown driver"},
		{"missing connection", Database{Driver: "pgx"}, "connection is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{
				Dialect:   "postgres",
				Databases: map[string]Database{"development": tt.db},
			}

			err := validateConfig(config)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateConfig_InvalidQueryTimeout(t *testing.T) {
	config := &Config{
		Dialect: "postgres",
		Query: QueryConfig{
			Timeout: -1,
		},
	}

	err := validateConfig(config)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "query.timeout must be non-negative")
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	config := getDefaultConfig()

	err := validateConfig(config)
	assert.NoError(t, err)
}

func TestStatementCacheConfig_IsEnabled(t *testing.T) {
	enabled := true
	disabled := false

	tests := []struct {
		name     string
		value    *bool
		expected bool
	}{
		{"explicitly disabled", &disabled, false},
		{"explicitly enabled", &enabled, true},
		{"unset (nil) - enabled by default", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := StatementCacheConfig{Enabled: tt.value}
			assert.Equal(t, tt.expected, cfg.IsEnabled())
		})
	}
}
