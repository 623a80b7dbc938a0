package upsertdef

import (
	"fmt"

	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/backend"
	"github.com/shibukawa/conflictsql/expression"
	"github.com/shibukawa/conflictsql/querybuilder"
	"github.com/shibukawa/conflictsql/upsert"
)

// Render renders s for b. Backends without ON CONFLICT support are rejected
// here since the backend is only known at run time.
func Render(b backend.Backend, s *Statement) (querybuilder.Query, error) {
	switch db := b.(type) {
	case backend.OnConflictBackend:
		return build(db, s)
	default:
		return querybuilder.Query{}, fmt.Errorf("%w: %s", conflictsql.ErrOnConflictUnsupported, b.Dialect())
	}
}

func build[DB backend.OnConflictBackend](db DB, s *Statement) (querybuilder.Query, error) {
	insert := upsert.Insert[DB](s.table).Values(s.values)

	var stmt upsert.UpsertStatement[DB, expression.DynamicTable]

	if s.action == ActionNothing {
		stmt = upsert.OnConflictDoNothing(insert, s.target)
	} else {
		stmt = upsert.OnConflictDoUpdate(insert, s.target, s.update)
	}

	return querybuilder.Build(db, stmt)
}
