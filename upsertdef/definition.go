// Package upsertdef loads upsert statements described in YAML and renders
// them through the typed builder.
package upsertdef

import (
	"fmt"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/google/cel-go/cel"
	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/expression"
)

// Action is what happens when the inserted row conflicts.
type Action string

const (
	ActionUpdate  Action = "update"
	ActionNothing Action = "nothing"
)

// Source says where an updated column takes its new value from.
type Source string

const (
	// SourceExcluded assigns the value proposed for insertion.
	SourceExcluded Source = "excluded"
	// SourceParam assigns a parameter.
	SourceParam Source = "param"
	// SourceIncrement adds the proposed value to the stored one.
	SourceIncrement Source = "increment"
)

// Definition describes one INSERT ... ON CONFLICT statement.
type Definition struct {
	Name     string   `yaml:"name"`
	Table    string   `yaml:"table"`
	Columns  []Column `yaml:"columns"`
	Conflict Conflict `yaml:"conflict"`

	conditions []cel.Program // parallel to Conflict.Update; nil when no when:
	normalized bool
}

// Column is an insertable column. Its value is taken from the parameter of
// the same name.
type Column struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Required bool   `yaml:"required"`
}

// Conflict is the ON CONFLICT clause.
type Conflict struct {
	Target     []string     `yaml:"target"`
	Constraint string       `yaml:"constraint"`
	Action     Action       `yaml:"action"`
	Update     []UpdateRule `yaml:"update"`
}

// UpdateRule is one assignment of the DO UPDATE SET list.
type UpdateRule struct {
	Column string `yaml:"column"`
	Source Source `yaml:"source"`
	Param  string `yaml:"param"`
	When   string `yaml:"when"`
}

// Load reads a definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}

	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return def, nil
}

// Parse decodes and validates a definition. Unknown keys are rejected.
func Parse(data []byte) (*Definition, error) {
	var def Definition

	if err := yaml.UnmarshalWithOptions(data, &def, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %w", conflictsql.ErrInvalidDefinition, err)
	}

	if err := def.normalize(); err != nil {
		return nil, err
	}

	return &def, nil
}

// Column returns the declared column with the given name.
func (d *Definition) Column(name string) (Column, bool) {
	i := slices.IndexFunc(d.Columns, func(c Column) bool { return c.Name == name })
	if i < 0 {
		return Column{}, false
	}

	return d.Columns[i], true
}

// validated returns d when Parse already checked it, otherwise a checked
// copy. d itself is never modified, so one definition may be compiled from
// several goroutines.
func (d *Definition) validated() (*Definition, error) {
	if d.normalized {
		return d, nil
	}

	c := &Definition{
		Name:    d.Name,
		Table:   d.Table,
		Columns: slices.Clone(d.Columns),
		Conflict: Conflict{
			Target:     slices.Clone(d.Conflict.Target),
			Constraint: d.Conflict.Constraint,
			Action:     d.Conflict.Action,
			Update:     slices.Clone(d.Conflict.Update),
		},
	}

	if err := c.normalize(); err != nil {
		return nil, err
	}

	return c, nil
}

func (d *Definition) normalize() error {
	if err := d.check(); err != nil {
		return err
	}

	d.normalized = true

	return nil
}

func (d *Definition) check() error {
	if d.Table == "" {
		return invalid("table is required")
	}

	if len(d.Columns) == 0 {
		return invalid("at least one column is required")
	}

	seen := make(map[string]bool, len(d.Columns))

	for i, c := range d.Columns {
		if c.Name == "" {
			return invalid("columns[%d]: name is required", i)
		}

		if seen[c.Name] {
			return invalid("columns[%d]: duplicate column %s", i, c.Name)
		}

		seen[c.Name] = true

		if c.Type == "" {
			d.Columns[i].Type = "any"
		} else if _, ok := expression.LookupType(c.Type); !ok {
			return invalid("columns[%d]: unknown type %s", i, c.Type)
		}
	}

	conflict := &d.Conflict

	if len(conflict.Target) > 0 && conflict.Constraint != "" {
		return invalid("conflict: target and constraint are mutually exclusive")
	}

	for _, name := range conflict.Target {
		if !seen[name] {
			return fmt.Errorf("%w: conflict target %s", conflictsql.ErrUnknownColumn, name)
		}
	}

	if conflict.Action == "" {
		if len(conflict.Update) > 0 {
			conflict.Action = ActionUpdate
		} else {
			conflict.Action = ActionNothing
		}
	}

	switch conflict.Action {
	case ActionNothing:
		if len(conflict.Update) > 0 {
			return invalid("conflict: update rules given for action nothing")
		}

		return nil
	case ActionUpdate:
	default:
		return invalid("conflict: unknown action %s", conflict.Action)
	}

	if len(conflict.Target) == 0 && conflict.Constraint == "" {
		return invalid("conflict: action update needs a target or constraint")
	}

	env, err := newConditionEnv()
	if err != nil {
		return err
	}

	d.conditions = make([]cel.Program, len(conflict.Update))

	for i := range conflict.Update {
		rule := &conflict.Update[i]

		col, ok := d.Column(rule.Column)
		if !ok {
			return fmt.Errorf("%w: conflict.update[%d]: %s", conflictsql.ErrUnknownColumn, i, rule.Column)
		}

		switch rule.Source {
		case "":
			rule.Source = SourceExcluded
		case SourceExcluded:
		case SourceParam:
			if rule.Param == "" {
				rule.Param = rule.Column
			}
		case SourceIncrement:
			if !isNumeric(col.Type) {
				return invalid("conflict.update[%d]: increment needs a numeric column, %s is %s", i, col.Name, col.Type)
			}
		default:
			return invalid("conflict.update[%d]: unknown source %s", i, rule.Source)
		}

		if rule.When == "" {
			continue
		}

		program, err := compileCondition(env, rule.When)
		if err != nil {
			return invalid("conflict.update[%d]: %v", i, err)
		}

		d.conditions[i] = program
	}

	return nil
}

func isNumeric(typeName string) bool {
	t, _ := expression.LookupType(typeName)

	switch t.(type) {
	case expression.Integer, expression.BigInt, expression.Numeric:
		return true
	default:
		return false
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", conflictsql.ErrInvalidDefinition, fmt.Sprintf(format, args...))
}
