package backend

import (
	"fmt"
	"strings"

	"github.com/shibukawa/conflictsql"
)

// Backend describes the SQL grammar of a database: how identifiers are quoted
// and how bind parameters are written.
type Backend interface {
	Dialect() conflictsql.Dialect
	QuoteIdentifier(name string) (string, error)
	Placeholder(index int) string
}

// OnConflictBackend is implemented by backends whose grammar accepts
// INSERT ... ON CONFLICT. The marker method carries no data.
type OnConflictBackend interface {
	Backend
	SupportsOnConflictClause()
}

// SupportsOnConflict reports whether b declares the ON CONFLICT marker.
func SupportsOnConflict(b Backend) bool {
	_, ok := b.(OnConflictBackend)
	return ok
}

// Supports reports whether the backend's dialect has the feature.
func Supports(b Backend, f conflictsql.Feature) bool {
	return conflictsql.Supports(b.Dialect(), f)
}

// FromDialect returns the backend implementation for a dialect or driver name.
func FromDialect(name string) (Backend, error) {
	d, ok := conflictsql.ParseDialect(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", conflictsql.ErrUnsupportedDialect, name)
	}

	switch d {
	case conflictsql.DialectPostgres:
		return Postgres{}, nil
	case conflictsql.DialectSQLite:
		return SQLite{}, nil
	case conflictsql.DialectMySQL, conflictsql.DialectMariaDB:
		return MySQL{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", conflictsql.ErrUnsupportedDialect, name)
	}
}

func validateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", conflictsql.ErrInvalidIdentifier)
	}

	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q contains NUL", conflictsql.ErrInvalidIdentifier, name)
	}

	return nil
}

// quoteWith wraps name in q, doubling any embedded q.
func quoteWith(name string, q string) string {
	return q + strings.ReplaceAll(name, q, q+q) + q
}
