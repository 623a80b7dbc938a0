package expression

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shibukawa/conflictsql"
	"github.com/shopspring/decimal"
)

// SQLType is a compile-time tag for a column's declared SQL type. Check
// reports whether a Go value may be bound as a parameter of that type; nil is
// accepted by every type and binds as NULL.
type SQLType interface {
	TypeName() string
	Check(v any) error
}

// NumericType is the set of SQL types arithmetic is defined on.
type NumericType interface {
	Integer | BigInt | Numeric
	SQLType
}

type (
	Integer   struct{}
	BigInt    struct{}
	Text      struct{}
	Bool      struct{}
	Numeric   struct{}
	UUID      struct{}
	Timestamp struct{}
	// Untyped is used by dynamically described tables; values are checked
	// before they reach the column.
	Untyped struct{}
)

func (Integer) TypeName() string   { return "integer" }
func (BigInt) TypeName() string    { return "bigint" }
func (Text) TypeName() string      { return "text" }
func (Bool) TypeName() string      { return "boolean" }
func (Numeric) TypeName() string   { return "numeric" }
func (UUID) TypeName() string      { return "uuid" }
func (Timestamp) TypeName() string { return "timestamp" }
func (Untyped) TypeName() string   { return "any" }

func (t Integer) Check(v any) error {
	switch v.(type) {
	case nil, int, int8, int16, int32, uint8, uint16:
		return nil
	}

	return mismatch(t, v)
}

func (t BigInt) Check(v any) error {
	switch v.(type) {
	case nil, int, int8, int16, int32, int64, uint8, uint16, uint32:
		return nil
	}

	return mismatch(t, v)
}

func (t Text) Check(v any) error {
	switch v.(type) {
	case nil, string:
		return nil
	}

	return mismatch(t, v)
}

func (t Bool) Check(v any) error {
	switch v.(type) {
	case nil, bool:
		return nil
	}

	return mismatch(t, v)
}

func (t Numeric) Check(v any) error {
	switch v.(type) {
	case nil, decimal.Decimal, decimal.NullDecimal, int, int32, int64, float64:
		return nil
	}

	return mismatch(t, v)
}

func (t UUID) Check(v any) error {
	switch v.(type) {
	case nil, uuid.UUID, uuid.NullUUID:
		return nil
	}

	return mismatch(t, v)
}

func (t Timestamp) Check(v any) error {
	switch v.(type) {
	case nil, time.Time:
		return nil
	}

	return mismatch(t, v)
}

func (Untyped) Check(any) error { return nil }

func mismatch(t SQLType, v any) error {
	return fmt.Errorf("%w: %s does not accept %T", conflictsql.ErrTypeMismatch, t.TypeName(), v)
}

// LookupType returns the SQL type registered under name (as written in
// upsert definitions).
func LookupType(name string) (SQLType, bool) {
	switch name {
	case "integer", "int":
		return Integer{}, true
	case "bigint":
		return BigInt{}, true
	case "text", "string", "varchar":
		return Text{}, true
	case "boolean", "bool":
		return Bool{}, true
	case "numeric", "decimal":
		return Numeric{}, true
	case "uuid":
		return UUID{}, true
	case "timestamp", "datetime":
		return Timestamp{}, true
	case "any":
		return Untyped{}, true
	default:
		return nil, false
	}
}
