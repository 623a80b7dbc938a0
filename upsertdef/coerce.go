package upsertdef

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shibukawa/conflictsql"
	"github.com/shopspring/decimal"
)

// coerce converts a parameter (from YAML or the command line) to the Go type
// bound for a column of the given type.
func coerce(typeName string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch typeName {
	case "integer", "int":
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}

		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %d overflows integer", conflictsql.ErrTypeMismatch, n)
		}

		return int(n), nil
	case "bigint":
		return toInt64(v)
	case "numeric", "decimal":
		return toDecimal(v)
	case "uuid":
		switch t := v.(type) {
		case uuid.UUID:
			return t, nil
		case string:
			id, err := uuid.Parse(t)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", conflictsql.ErrTypeMismatch, err)
			}

			return id, nil
		}
	case "boolean", "bool":
		switch t := v.(type) {
		case bool:
			return t, nil
		case string:
			b, err := strconv.ParseBool(t)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", conflictsql.ErrTypeMismatch, err)
			}

			return b, nil
		}
	case "timestamp", "datetime":
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			ts, err := time.Parse(time.RFC3339, t)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", conflictsql.ErrTypeMismatch, err)
			}

			return ts, nil
		}
	case "text", "string", "varchar":
		if s, ok := v.(string); ok {
			return s, nil
		}

		return fmt.Sprint(v), nil
	default:
		return v, nil
	}

	return nil, fmt.Errorf("%w: cannot use %T as %s", conflictsql.ErrTypeMismatch, v, typeName)
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows bigint", conflictsql.ErrTypeMismatch, t)
		}

		return int64(t), nil
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("%w: %v is not an integer", conflictsql.ErrTypeMismatch, t)
		}

		return int64(t), nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", conflictsql.ErrTypeMismatch, err)
		}

		return n, nil
	default:
		return 0, fmt.Errorf("%w: cannot use %T as integer", conflictsql.ErrTypeMismatch, v)
	}
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %w", conflictsql.ErrTypeMismatch, err)
		}

		return d, nil
	case float64:
		return decimal.NewFromFloat(t), nil
	default:
		n, err := toInt64(v)
		if err != nil {
			return decimal.Decimal{}, err
		}

		return decimal.NewFromInt(n), nil
	}
}
