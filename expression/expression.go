package expression

import "github.com/shibukawa/conflictsql/querybuilder"

// Table identifies a table at the type level. Table types are usually empty
// structs; DynamicTable carries its name at run time.
type Table interface {
	TableName() string
}

// DynamicTable is a table described at run time (upsert definitions).
type DynamicTable struct {
	Name string
}

func (t DynamicTable) TableName() string { return t.Name }

// Expression is an SQL expression whose value has SQL type ST.
type Expression[ST SQLType] interface {
	querybuilder.Fragment
	SQLType() ST
}

// AppearsOnTable is implemented by expressions that are valid in a query
// targeting table T.
type AppearsOnTable[T Table] interface {
	TableScope() T
}

// TableExpression is an expression of type ST that may appear on table T.
type TableExpression[T Table, ST SQLType] interface {
	Expression[ST]
	AppearsOnTable[T]
}

// NamedColumn is a column of T whatever its SQL type.
type NamedColumn[T Table] interface {
	AppearsOnTable[T]
	ColumnName() string
}

// Validator is implemented by expressions that can carry a construction
// error (for example a bound value the SQL type rejected).
type Validator interface {
	Validate() error
}

// Validate returns the construction error of f, if it has one.
func Validate(f any) error {
	if v, ok := f.(Validator); ok {
		return v.Validate()
	}

	return nil
}
