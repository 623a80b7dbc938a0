package conflictsql

import "strings"

// Dialect represents supported database dialects
// This type is shared across all packages
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
	DialectMariaDB  Dialect = "mariadb"
)

// ParseDialect normalizes driver and dialect aliases (pgx, postgresql, sqlite3, ...)
func ParseDialect(name string) (Dialect, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, true
	case "mysql":
		return DialectMySQL, true
	case "mariadb":
		return DialectMariaDB, true
	case "sqlite", "sqlite3":
		return DialectSQLite, true
	default:
		return "", false
	}
}

// Feature represents DB-specific feature flags
type Feature int

const (
	FeatureConcat         Feature = iota + 1
	FeatureConcatOperator         // ||
	FeatureConcatFunction         // CONCAT()
	FeatureOnConflict             // INSERT ... ON CONFLICT
	FeatureOnConstraint           // ON CONFLICT ON CONSTRAINT name
	FeatureDefaultValues          // INSERT ... DEFAULT VALUES
	FeatureOnDuplicateKey         // INSERT ... ON DUPLICATE KEY UPDATE
	// Add more features as needed
)

func (f Feature) String() string {
	switch f {
	case FeatureConcat:
		return "concat"
	case FeatureConcatOperator:
		return "concat operator"
	case FeatureConcatFunction:
		return "concat function"
	case FeatureOnConflict:
		return "on conflict"
	case FeatureOnConstraint:
		return "on conflict on constraint"
	case FeatureDefaultValues:
		return "default values"
	case FeatureOnDuplicateKey:
		return "on duplicate key"
	default:
		return "unknown"
	}
}
