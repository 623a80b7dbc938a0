package executor

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/backend"
)

// ConnectionPoolSettings defines database connection pool configuration
type ConnectionPoolSettings struct {
	MaxOpenConns    int           // Maximum number of open connections
	MaxIdleConns    int           // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of connections
}

// DefaultPoolSettings are applied by Open.
var DefaultPoolSettings = ConnectionPoolSettings{
	MaxOpenConns:    25,
	MaxIdleConns:    25,
	ConnMaxLifetime: 5 * time.Minute,
}

// Open connects to the configured database, pings it, and returns the
// backend matching its driver.
func Open(ctx context.Context, cfg conflictsql.Database) (*sql.DB, backend.Backend, error) {
	b, err := backend.FromDialect(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(NormalizeDriverName(cfg.Driver), cfg.Connection)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", conflictsql.ErrDatabaseConnection, err)
	}

	db.SetMaxOpenConns(DefaultPoolSettings.MaxOpenConns)
	db.SetMaxIdleConns(DefaultPoolSettings.MaxIdleConns)
	db.SetConnMaxLifetime(DefaultPoolSettings.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("%w: %w", conflictsql.ErrDatabaseConnection, err)
	}

	return db, b, nil
}

// NormalizeDriverName maps dialect aliases to registered database/sql driver names.
func NormalizeDriverName(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pgx":
		return "pgx"
	case "mysql", "mariadb":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return strings.ToLower(strings.TrimSpace(driver))
	}
}
