package upsertdef

import (
	"fmt"

	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/changeset"
	"github.com/shibukawa/conflictsql/expression"
	"github.com/shibukawa/conflictsql/upsert"
)

// Statement is a definition bound to one set of parameters.
type Statement struct {
	table  expression.DynamicTable
	values changeset.Changeset[expression.DynamicTable]
	target upsert.ConflictTarget[expression.DynamicTable]
	action Action
	update changeset.Changeset[expression.DynamicTable]
}

// Action returns the conflict action of the definition.
func (s *Statement) Action() Action { return s.action }

// UpdateCount is the number of SET assignments whose conditions held. Zero
// with ActionUpdate renders as DO NOTHING.
func (s *Statement) UpdateCount() int { return s.update.Len() }

// Compile binds params to def. Inserted columns come from the parameter of the
// same name; absent optional columns are left to their defaults.
func Compile(def *Definition, params map[string]any) (*Statement, error) {
	if params == nil {
		params = make(map[string]any)
	}

	def, err := def.validated()
	if err != nil {
		return nil, err
	}

	table := expression.DynamicTable{Name: def.Table}

	columns := make(map[string]column, len(def.Columns))

	var values []changeset.Assignment[expression.DynamicTable]

	for _, c := range def.Columns {
		col, err := newColumn(table, c)
		if err != nil {
			return nil, err
		}

		columns[c.Name] = col

		v, ok := params[c.Name]
		if !ok {
			if c.Required {
				return nil, fmt.Errorf("%w: %s", conflictsql.ErrMissingRequiredParam, c.Name)
			}

			continue
		}

		coerced, err := coerce(c.Type, v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}

		values = append(values, col.value(coerced))
	}

	stmt := &Statement{
		table:  table,
		values: changeset.New(values...),
		target: conflictTarget(table, def.Conflict),
		action: def.Conflict.Action,
	}

	if stmt.action != ActionUpdate {
		return stmt, nil
	}

	updates := make([]changeset.Assignment[expression.DynamicTable], 0, len(def.Conflict.Update))

	for i, rule := range def.Conflict.Update {
		if program := def.conditions[i]; program != nil {
			ok, err := evaluateCondition(program, rule.When, params)
			if err != nil {
				return nil, err
			}

			if !ok {
				continue
			}
		}

		col := columns[rule.Column]

		switch rule.Source {
		case SourceExcluded:
			updates = append(updates, col.excluded())
		case SourceIncrement:
			a, err := col.increment()
			if err != nil {
				return nil, err
			}

			updates = append(updates, a)
		case SourceParam:
			v, ok := params[rule.Param]
			if !ok {
				return nil, fmt.Errorf("%w: %s", conflictsql.ErrMissingRequiredParam, rule.Param)
			}

			c, _ := def.Column(rule.Column)

			coerced, err := coerce(c.Type, v)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Name, err)
			}

			updates = append(updates, col.value(coerced))
		}
	}

	stmt.update = changeset.New(updates...)

	return stmt, nil
}

func conflictTarget(table expression.DynamicTable, c Conflict) upsert.ConflictTarget[expression.DynamicTable] {
	switch {
	case c.Constraint != "":
		return upsert.OnConstraint(table, c.Constraint)
	case len(c.Target) > 0:
		rest := make([]expression.NamedColumn[expression.DynamicTable], 0, len(c.Target)-1)
		for _, name := range c.Target[1:] {
			rest = append(rest, expression.NewColumn[expression.Untyped](table, name))
		}

		return upsert.Columns(expression.NewColumn[expression.Untyped](table, c.Target[0]), rest...)
	default:
		return upsert.AnyConflict[expression.DynamicTable]()
	}
}

// column produces the assignments a rule may ask for, typed by the
// column's declared SQL type.
type column interface {
	value(v any) changeset.Assignment[expression.DynamicTable]
	excluded() changeset.Assignment[expression.DynamicTable]
	increment() (changeset.Assignment[expression.DynamicTable], error)
}

type typedColumn[ST expression.SQLType] struct {
	col expression.Column[expression.DynamicTable, ST]
}

func (c typedColumn[ST]) value(v any) changeset.Assignment[expression.DynamicTable] {
	return changeset.SetValue(c.col, v)
}

func (c typedColumn[ST]) excluded() changeset.Assignment[expression.DynamicTable] {
	return changeset.Set(c.col, upsert.Excluded(c.col))
}

func (c typedColumn[ST]) increment() (changeset.Assignment[expression.DynamicTable], error) {
	return changeset.Assignment[expression.DynamicTable]{}, fmt.Errorf("%w: cannot increment %s column %s",
		conflictsql.ErrInvalidDefinition, c.col.SQLType().TypeName(), c.col.ColumnName())
}

type numericColumn[ST expression.NumericType] struct {
	typedColumn[ST]
}

func (c numericColumn[ST]) increment() (changeset.Assignment[expression.DynamicTable], error) {
	sum := expression.Add[expression.DynamicTable, ST](c.col, upsert.Excluded(c.col))
	return changeset.Set(c.col, sum), nil
}

func typed[ST expression.SQLType](table expression.DynamicTable, name string) column {
	return typedColumn[ST]{col: expression.NewColumn[ST](table, name)}
}

func numeric[ST expression.NumericType](table expression.DynamicTable, name string) column {
	return numericColumn[ST]{typedColumn[ST]{col: expression.NewColumn[ST](table, name)}}
}

func newColumn(table expression.DynamicTable, c Column) (column, error) {
	t, ok := expression.LookupType(c.Type)
	if !ok {
		return nil, fmt.Errorf("%w: column %s: unknown type %s", conflictsql.ErrInvalidDefinition, c.Name, c.Type)
	}

	switch t.(type) {
	case expression.Integer:
		return numeric[expression.Integer](table, c.Name), nil
	case expression.BigInt:
		return numeric[expression.BigInt](table, c.Name), nil
	case expression.Numeric:
		return numeric[expression.Numeric](table, c.Name), nil
	case expression.Text:
		return typed[expression.Text](table, c.Name), nil
	case expression.Bool:
		return typed[expression.Bool](table, c.Name), nil
	case expression.UUID:
		return typed[expression.UUID](table, c.Name), nil
	case expression.Timestamp:
		return typed[expression.Timestamp](table, c.Name), nil
	default:
		return typed[expression.Untyped](table, c.Name), nil
	}
}
