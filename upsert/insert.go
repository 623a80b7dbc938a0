package upsert

import (
	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/backend"
	"github.com/shibukawa/conflictsql/changeset"
	"github.com/shibukawa/conflictsql/expression"
	"github.com/shibukawa/conflictsql/querybuilder"
)

// InsertStatement is a single-row INSERT into T rendered for DB.
type InsertStatement[DB backend.Backend, T expression.Table] struct {
	table  T
	values changeset.Changeset[T]
}

// Insert starts an INSERT for DB; the table type is inferred:
//
//	upsert.Insert[backend.Postgres](Users{})
func Insert[DB backend.Backend, T expression.Table](table T) InsertStatement[DB, T] {
	return InsertStatement[DB, T]{table: table}
}

// Values sets the inserted row. Skipped assignments leave their column to
// its default.
func (s InsertStatement[DB, T]) Values(values changeset.Changeset[T]) InsertStatement[DB, T] {
	s.values = values
	return s
}

func (s InsertStatement[DB, T]) WalkAST(out querybuilder.AstPass) error {
	if err := s.values.Err(); err != nil {
		return err
	}

	out.PushSQL("INSERT INTO ")

	if err := out.PushIdentifier(s.table.TableName()); err != nil {
		return err
	}

	active := s.values.Active()
	if len(active) == 0 {
		if backend.Supports(out.Backend(), conflictsql.FeatureDefaultValues) {
			out.PushSQL(" DEFAULT VALUES")
		} else {
			out.PushSQL(" () VALUES ()")
		}

		return nil
	}

	out.PushSQL(" (")

	for i, a := range active {
		if i > 0 {
			out.PushSQL(", ")
		}

		if err := out.PushIdentifier(a.Column()); err != nil {
			return err
		}
	}

	out.PushSQL(") VALUES (")

	for i, a := range active {
		if i > 0 {
			out.PushSQL(", ")
		}

		if err := a.Value().WalkAST(out.Reborrow()); err != nil {
			return err
		}
	}

	out.PushSQL(")")

	return nil
}

func (InsertStatement[DB, T]) ForBackend(DB) {}
