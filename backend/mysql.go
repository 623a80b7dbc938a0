package backend

import "github.com/shibukawa/conflictsql"

var _ Backend = MySQL{}

// MySQL is the MySQL/MariaDB backend. It has no ON CONFLICT clause
// (MySQL spells upserts ON DUPLICATE KEY UPDATE), so it does not carry the
// OnConflictBackend marker.
type MySQL struct{}

func (MySQL) Dialect() conflictsql.Dialect { return conflictsql.DialectMySQL }

func (MySQL) QuoteIdentifier(name string) (string, error) {
	if err := validateIdentifier(name); err != nil {
		return "", err
	}

	return quoteWith(name, "`"), nil
}

func (MySQL) Placeholder(int) string { return "?" }
