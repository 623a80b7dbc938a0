package conflictsql

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoadConfig_DefaultValues(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)

	assert.Equal(t, "postgres", config.Dialect)
	assert.Equal(t, "./upserts", config.DefinitionsDir)
	assert.Equal(t, "development", config.Query.DefaultEnvironment)
	assert.Equal(t, 30, config.Query.Timeout)
	assert.True(t, config.StatementCache.IsEnabled())
	assert.Equal(t, 0, len(config.Databases))
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CONFLICTSQL_TEST_HOST", "db.internal")
	t.Setenv("CONFLICTSQL_TEST_USER", "app")

	got := expandEnvVars("postgres://${CONFLICTSQL_TEST_USER}@$CONFLICTSQL_TEST_HOST/app")
	assert.Equal(t, "postgres://app@db.internal/app", got)
}

func TestExpandConfigEnvVars(t *testing.T) {
	t.Setenv("CONFLICTSQL_TEST_DSN", "file:test.db")

	config := &Config{
		DefinitionsDir: "${CONFLICTSQL_TEST_DIR_UNSET}defs",
		Databases: map[string]Database{
			"development": {Driver: "sqlite3", Connection: "${CONFLICTSQL_TEST_DSN}"},
		},
	}

	expandConfigEnvVars(config)

	assert.Equal(t, "file:test.db", config.Databases["development"].Connection)
	assert.Equal(t, "defs", config.DefinitionsDir)
}

func TestConfig_DialectValue(t *testing.T) {
	config := &Config{Dialect: "PostgreSQL"}
	d, err := config.DialectValue()
	assert.NoError(t, err)
	assert.Equal(t, DialectPostgres, d)

	config = &Config{}
	_, err = config.DialectValue()
	assert.True(t, errors.Is(err, ErrDialectMustBeSpecified))

	config = &Config{Dialect: "db2"}
	_, err = config.DialectValue()
	assert.True(t, errors.Is(err, ErrUnsupportedDialect))
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input    string
		expected Dialect
		ok       bool
	}{
		{"pgx", DialectPostgres, true},
		{" postgresql ", DialectPostgres, true},
		{"sqlite3", DialectSQLite, true},
		{"MySQL", DialectMySQL, true},
		{"mariadb", DialectMariaDB, true},
		{"oracle", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, ok := ParseDialect(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestCapabilities_OnConflict(t *testing.T) {
	assert.True(t, Supports(DialectPostgres, FeatureOnConflict))
	assert.True(t, Supports(DialectSQLite, FeatureOnConflict))
	assert.False(t, Supports(DialectMySQL, FeatureOnConflict))
	assert.False(t, Supports(DialectMariaDB, FeatureOnConflict))
	assert.True(t, Supports(DialectPostgres, FeatureOnConstraint))
	assert.False(t, Supports(DialectSQLite, FeatureOnConstraint))
	assert.False(t, Supports(Dialect("unknown"), FeatureConcat))
}
