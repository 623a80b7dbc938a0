package changeset

import (
	"fmt"
	"slices"

	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/expression"
	"github.com/shibukawa/conflictsql/querybuilder"
)

// Changeset is an ordered assignment set for table T.
type Changeset[T expression.Table] struct {
	assignments []Assignment[T]
}

var _ querybuilder.AssignmentSet = Changeset[expression.DynamicTable]{}

// New builds a changeset. An empty changeset of a table is written New[Users]().
func New[T expression.Table](assignments ...Assignment[T]) Changeset[T] {
	return Changeset[T]{assignments: slices.Clone(assignments)}
}

// With returns a copy of c with more assignments appended.
func (c Changeset[T]) With(assignments ...Assignment[T]) Changeset[T] {
	return Changeset[T]{assignments: slices.Concat(c.assignments, assignments)}
}

// Active returns the assignments that will be rendered.
func (c Changeset[T]) Active() []Assignment[T] {
	active := make([]Assignment[T], 0, len(c.assignments))

	for _, a := range c.assignments {
		if !a.skip {
			active = append(active, a)
		}
	}

	return active
}

// Len counts active assignments.
func (c Changeset[T]) Len() int {
	return len(c.Active())
}

// Err returns the first construction error among active assignments.
func (c Changeset[T]) Err() error {
	seen := make(map[string]bool, len(c.assignments))

	for _, a := range c.Active() {
		if a.err != nil {
			return a.err
		}

		if seen[a.column] {
			return fmt.Errorf("%w: %s", conflictsql.ErrDuplicateAssignment, a.column)
		}

		seen[a.column] = true
	}

	return nil
}

// IsNoop reports whether the changeset assigns nothing. It never renders.
func (c Changeset[T]) IsNoop() (bool, error) {
	if err := c.Err(); err != nil {
		return false, err
	}

	return c.Len() == 0, nil
}

// WalkAST renders the active assignments separated by commas.
func (c Changeset[T]) WalkAST(out querybuilder.AstPass) error {
	if err := c.Err(); err != nil {
		return err
	}

	for i, a := range c.Active() {
		if i > 0 {
			out.PushSQL(", ")
		}

		if err := a.WalkAST(out.Reborrow()); err != nil {
			return err
		}
	}

	return nil
}
