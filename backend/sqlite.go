package backend

import "github.com/shibukawa/conflictsql"

var _ OnConflictBackend = SQLite{}

// SQLite is the SQLite backend (upsert syntax since 3.24).
type SQLite struct{}

func (SQLite) Dialect() conflictsql.Dialect { return conflictsql.DialectSQLite }

func (SQLite) QuoteIdentifier(name string) (string, error) {
	if err := validateIdentifier(name); err != nil {
		return "", err
	}

	return quoteWith(name, `"`), nil
}

func (SQLite) Placeholder(int) string { return "?" }

func (SQLite) SupportsOnConflictClause() {}
