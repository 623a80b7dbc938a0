package backend

import (
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/shibukawa/conflictsql"
)

var _ OnConflictBackend = Postgres{}

// Postgres is the PostgreSQL backend. Placeholders are numbered ($1, $2, ...).
type Postgres struct{}

func (Postgres) Dialect() conflictsql.Dialect { return conflictsql.DialectPostgres }

// QuoteIdentifier quotes with pgx's sanitizer so the output matches what pgx
// itself sends for identifiers.
func (Postgres) QuoteIdentifier(name string) (string, error) {
	if err := validateIdentifier(name); err != nil {
		return "", err
	}

	return pgx.Identifier{name}.Sanitize(), nil
}

func (Postgres) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

func (Postgres) SupportsOnConflictClause() {}
