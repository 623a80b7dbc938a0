package conflictsql

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config represents the conflictsql configuration
type Config struct {
	Dialect        string               `yaml:"dialect"`
	DefinitionsDir string               `yaml:"definitions_dir"`
	Databases      map[string]Database  `yaml:"databases"`
	StatementCache StatementCacheConfig `yaml:"statement_cache"`
	Logging        LoggingConfig        `yaml:"logging"`
	Query          QueryConfig          `yaml:"query"`
}

// Database represents database connection configuration
type Database struct {
	Driver     string `yaml:"driver"`
	Connection string `yaml:"connection"`
	Schema     string `yaml:"schema"`
	Database   string `yaml:"database"`
}

// StatementCacheConfig controls reuse of prepared statements by the executor.
// Statements marked uncacheable while rendering are never cached.
type StatementCacheConfig struct {
	Enabled *bool `yaml:"enabled"` // nil means enabled
}

// IsEnabled returns true unless the cache is explicitly disabled
func (c StatementCacheConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// LoggingConfig represents query logging settings
type LoggingConfig struct {
	Enabled            bool          `yaml:"enabled"`
	IncludeStack       bool          `yaml:"include_stack"`
	StackDepth         int           `yaml:"stack_depth"`
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold"`
}

// QueryConfig represents query execution settings
type QueryConfig struct {
	DefaultEnvironment string `yaml:"default_environment"`
	Timeout            int    `yaml:"timeout"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Return default configuration if file doesn't exist
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Dialect != "" {
		if _, ok := ParseDialect(config.Dialect); !ok {
			return fmt.Errorf("%w: invalid dialect '%s': must be one of postgres, mysql, mariadb, sqlite", ErrConfigValidation, config.Dialect)
		}
	}

	for name, db := range config.Databases {
		if db.Driver == "" {
			return fmt.Errorf("%w: databases.%s: driver is required", ErrConfigValidation, name)
		}

		if _, ok := ParseDialect(db.Driver); !ok {
			return fmt.Errorf("%w: databases.%s: unknown driver '%s'", ErrConfigValidation, name, db.Driver)
		}

		if db.Connection == "" {
			return fmt.Errorf("%w: databases.%s: connection is required", ErrConfigValidation, name)
		}
	}

	if config.Query.Timeout < 0 {
		return fmt.Errorf("%w: query.timeout must be non-negative, got %d", ErrConfigValidation, config.Query.Timeout)
	}

	if config.Logging.StackDepth < 0 {
		return fmt.Errorf("%w: logging.stack_depth must be non-negative, got %d", ErrConfigValidation, config.Logging.StackDepth)
	}

	if config.Logging.SlowQueryThreshold < 0 {
		return fmt.Errorf("%w: logging.slow_query_threshold must be >= 0, got %s", ErrConfigValidation, config.Logging.SlowQueryThreshold)
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Dialect:        "postgres",
		DefinitionsDir: "./upserts",
		Databases:      make(map[string]Database),
		Logging: LoggingConfig{
			StackDepth: 16,
		},
		Query: QueryConfig{
			DefaultEnvironment: "development",
			Timeout:            30,
		},
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	if config.Dialect == "" {
		config.Dialect = "postgres"
	}

	if config.DefinitionsDir == "" {
		config.DefinitionsDir = "./upserts"
	}

	if config.Databases == nil {
		config.Databases = make(map[string]Database)
	}

	if config.Logging.IncludeStack && config.Logging.StackDepth == 0 {
		config.Logging.StackDepth = 16
	}

	if config.Query.DefaultEnvironment == "" {
		config.Query.DefaultEnvironment = "development"
	}

	if config.Query.Timeout == 0 {
		config.Query.Timeout = 30
	}
}

// DialectValue returns the configured dialect in canonical form
func (c *Config) DialectValue() (Dialect, error) {
	if c.Dialect == "" {
		return "", ErrDialectMustBeSpecified
	}

	d, ok := ParseDialect(c.Dialect)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDialect, c.Dialect)
	}

	return d, nil
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareEnvVar   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return bareEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in config
func expandConfigEnvVars(config *Config) {
	for name, db := range config.Databases {
		db.Connection = expandEnvVars(db.Connection)
		db.Driver = expandEnvVars(db.Driver)
		db.Schema = expandEnvVars(db.Schema)
		db.Database = expandEnvVars(db.Database)
		config.Databases[name] = db
	}

	config.DefinitionsDir = expandEnvVars(config.DefinitionsDir)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
