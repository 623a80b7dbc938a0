package upsert

import (
	"fmt"

	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/backend"
	"github.com/shibukawa/conflictsql/expression"
	"github.com/shibukawa/conflictsql/querybuilder"
)

// ExcludedColumn is `excluded.column` inside ON CONFLICT DO UPDATE: the value
// the conflicting row would have had. It has the column's SQL type and
// appears only on the column's table.
type ExcludedColumn[T expression.Table, ST expression.SQLType] struct {
	column expression.Column[T, ST]
}

// Excluded references column in the excluded pseudo-table.
func Excluded[T expression.Table, ST expression.SQLType](column expression.Column[T, ST]) ExcludedColumn[T, ST] {
	return ExcludedColumn[T, ST]{column: column}
}

// Column returns the wrapped column.
func (e ExcludedColumn[T, ST]) Column() expression.Column[T, ST] {
	return e.column
}

// WalkAST renders excluded."column". The excluded pseudo-table exists only in
// ON CONFLICT grammars, so the pass's backend must carry the marker.
func (e ExcludedColumn[T, ST]) WalkAST(out querybuilder.AstPass) error {
	if !backend.SupportsOnConflict(out.Backend()) {
		return fmt.Errorf("%w: excluded.%s on %s", conflictsql.ErrOnConflictUnsupported, e.column.ColumnName(), out.Backend().Dialect())
	}

	out.PushSQL("excluded.")

	return out.PushIdentifier(e.column.ColumnName())
}

func (e ExcludedColumn[T, ST]) SQLType() ST {
	return e.column.SQLType()
}

func (e ExcludedColumn[T, ST]) TableScope() T {
	return e.column.TableScope()
}

func (e ExcludedColumn[T, ST]) Validate() error {
	return e.column.Validate()
}

var _ expression.TableExpression[expression.DynamicTable, expression.Untyped] = ExcludedColumn[expression.DynamicTable, expression.Untyped]{}
