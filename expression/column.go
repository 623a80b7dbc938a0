package expression

import (
	"fmt"

	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/querybuilder"
)

// Column is a handle to column name of table T with SQL type ST.
type Column[T Table, ST SQLType] struct {
	table T
	name  string
}

// NewColumn declares a column. The SQL type is given explicitly; the table
// type is inferred from table:
//
//	var Email = expression.NewColumn[expression.Text](Users{}, "email")
func NewColumn[ST SQLType, T Table](table T, name string) Column[T, ST] {
	return Column[T, ST]{table: table, name: name}
}

func (c Column[T, ST]) ColumnName() string { return c.name }

func (c Column[T, ST]) Table() T { return c.table }

func (c Column[T, ST]) TableScope() T { return c.table }

func (c Column[T, ST]) SQLType() ST {
	var st ST
	return st
}

// IsZero reports whether c is the zero Column.
func (c Column[T, ST]) IsZero() bool { return c.name == "" }

// WalkAST renders the qualified column, "table"."column".
func (c Column[T, ST]) WalkAST(out querybuilder.AstPass) error {
	if err := out.PushIdentifier(c.table.TableName()); err != nil {
		return err
	}

	out.PushSQL(".")

	return out.PushIdentifier(c.name)
}

func (c Column[T, ST]) Validate() error {
	if c.IsZero() {
		return conflictsql.ErrEmptyColumnName
	}

	return nil
}

// Bind returns a bind parameter with the column's SQL type and table scope.
func (c Column[T, ST]) Bind(value any) Bound[T, ST] {
	var st ST
	if err := st.Check(value); err != nil {
		return Bound[T, ST]{err: fmt.Errorf("column %s: %w", c.name, err)}
	}

	return Bound[T, ST]{value: value}
}

func (c Column[T, ST]) String() string {
	return c.table.TableName() + "." + c.name
}

var _ TableExpression[DynamicTable, Untyped] = Column[DynamicTable, Untyped]{}

// Bound is a bind parameter typed ST and usable on table T.
type Bound[T Table, ST SQLType] struct {
	value any
	err   error
}

func (b Bound[T, ST]) WalkAST(out querybuilder.AstPass) error {
	if b.err != nil {
		return b.err
	}

	out.PushBindParam(b.value)

	return nil
}

func (b Bound[T, ST]) SQLType() ST {
	var st ST
	return st
}

func (b Bound[T, ST]) TableScope() T {
	var t T
	return t
}

func (b Bound[T, ST]) Validate() error { return b.err }

// Value returns the bound Go value.
func (b Bound[T, ST]) Value() any { return b.value }

var _ TableExpression[DynamicTable, Untyped] = Bound[DynamicTable, Untyped]{}
