package upsert

import (
	"fmt"

	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/backend"
	"github.com/shibukawa/conflictsql/expression"
	"github.com/shibukawa/conflictsql/querybuilder"
)

// ConflictTarget selects which uniqueness violation the ON CONFLICT clause
// handles.
type ConflictTarget[T expression.Table] interface {
	querybuilder.Fragment
	conflictTarget(T)
}

type columnsTarget[T expression.Table] struct {
	columns []string
}

// Columns targets the unique index over the given columns of T.
func Columns[T expression.Table, ST expression.SQLType](first expression.Column[T, ST], rest ...expression.NamedColumn[T]) ConflictTarget[T] {
	columns := make([]string, 0, len(rest)+1)
	columns = append(columns, first.ColumnName())

	for _, c := range rest {
		columns = append(columns, c.ColumnName())
	}

	return columnsTarget[T]{columns: columns}
}

func (c columnsTarget[T]) WalkAST(out querybuilder.AstPass) error {
	out.PushSQL(" (")

	for i, name := range c.columns {
		if i > 0 {
			out.PushSQL(", ")
		}

		if err := out.PushIdentifier(name); err != nil {
			return err
		}
	}

	out.PushSQL(")")

	return nil
}

func (columnsTarget[T]) conflictTarget(T) {}

type constraintTarget[T expression.Table] struct {
	name string
}

// OnConstraint targets a named constraint of table (PostgreSQL only).
func OnConstraint[T expression.Table](table T, name string) ConflictTarget[T] {
	return constraintTarget[T]{name: name}
}

func (c constraintTarget[T]) WalkAST(out querybuilder.AstPass) error {
	if !backend.Supports(out.Backend(), conflictsql.FeatureOnConstraint) {
		return fmt.Errorf("%w: %s on %s", conflictsql.ErrUnsupportedFeature, conflictsql.FeatureOnConstraint, out.Backend().Dialect())
	}

	out.PushSQL(" ON CONSTRAINT ")

	return out.PushIdentifier(c.name)
}

func (constraintTarget[T]) conflictTarget(T) {}

type anyTarget[T expression.Table] struct{}

// AnyConflict omits the conflict target so every uniqueness violation is
// handled.
func AnyConflict[T expression.Table]() ConflictTarget[T] {
	return anyTarget[T]{}
}

func (anyTarget[T]) WalkAST(querybuilder.AstPass) error { return nil }

func (anyTarget[T]) conflictTarget(T) {}
