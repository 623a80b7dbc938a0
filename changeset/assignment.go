package changeset

import (
	"fmt"

	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/expression"
	"github.com/shibukawa/conflictsql/querybuilder"
)

// Assignment is one `column = expression` pair targeting table T. A skipped
// assignment is kept in its changeset but never rendered.
type Assignment[T expression.Table] struct {
	column string
	value  querybuilder.Fragment
	skip   bool
	err    error
}

// Set assigns value to col. value must have col's SQL type and appear on
// col's table; an excluded reference or column from another table does not
// compile.
func Set[T expression.Table, ST expression.SQLType, E expression.TableExpression[T, ST]](col expression.Column[T, ST], value E) Assignment[T] {
	a := Assignment[T]{column: col.ColumnName(), value: value}

	if err := col.Validate(); err != nil {
		a.err = err
	} else if err := expression.Validate(value); err != nil {
		a.err = fmt.Errorf("assignment to %s: %w", col.ColumnName(), err)
	}

	return a
}

// SetValue assigns a bind parameter to col.
func SetValue[T expression.Table, ST expression.SQLType](col expression.Column[T, ST], value any) Assignment[T] {
	return Set(col, col.Bind(value))
}

// SetIfPresent assigns *value to col, or produces a skipped assignment when
// value is nil.
func SetIfPresent[T expression.Table, ST expression.SQLType, V any](col expression.Column[T, ST], value *V) Assignment[T] {
	if value == nil {
		return Assignment[T]{column: col.ColumnName(), skip: true}
	}

	return SetValue(col, *value)
}

// SetIf keeps a when cond holds and skips it otherwise.
func SetIf[T expression.Table](cond bool, a Assignment[T]) Assignment[T] {
	if !cond {
		a.skip = true
	}

	return a
}

func (a Assignment[T]) Column() string { return a.column }

func (a Assignment[T]) Value() querybuilder.Fragment { return a.value }

func (a Assignment[T]) Skipped() bool { return a.skip }

func (a Assignment[T]) Err() error { return a.err }

// WalkAST renders `"column" = value`. The column is unqualified as the SET
// list of an UPDATE requires.
func (a Assignment[T]) WalkAST(out querybuilder.AstPass) error {
	if a.err != nil {
		return a.err
	}

	if a.value == nil {
		return fmt.Errorf("assignment to %s: %w", a.column, conflictsql.ErrNilExpression)
	}

	if err := out.PushIdentifier(a.column); err != nil {
		return err
	}

	out.PushSQL(" = ")

	return a.value.WalkAST(out.Reborrow())
}
