package changeset

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/backend"
	"github.com/shibukawa/conflictsql/expression"
	"github.com/shibukawa/conflictsql/querybuilder"
)

type users struct{}

func (users) TableName() string { return "users" }

var (
	usersName   = expression.NewColumn[expression.Text](users{}, "name")
	usersEmail  = expression.NewColumn[expression.Text](users{}, "email")
	usersVisits = expression.NewColumn[expression.Integer](users{}, "visits")
)

func TestChangeset_Render(t *testing.T) {
	cs := New(
		SetValue(usersName, "bob"),
		Set(usersVisits, expression.Add[users, expression.Integer](usersVisits, usersVisits.Bind(1))),
	)

	noop, err := cs.IsNoop()
	assert.NoError(t, err)
	assert.False(t, noop)

	query, err := querybuilder.Render(backend.Postgres{}, cs)
	assert.NoError(t, err)
	assert.Equal(t, `"name" = $1, "visits" = "users"."visits" + $2`, query.SQL)
	assert.Equal(t, []any{"bob", 1}, query.Args)
	assert.True(t, query.Cacheable)
}

func TestChangeset_Empty(t *testing.T) {
	cs := New[users]()

	noop, err := cs.IsNoop()
	assert.NoError(t, err)
	assert.True(t, noop)

	query, err := querybuilder.Render(backend.SQLite{}, cs)
	assert.NoError(t, err)
	assert.Equal(t, "", query.SQL)
}

func TestChangeset_OptionalAssignments(t *testing.T) {
	var name *string

	visits := 3

	cs := New(
		SetIfPresent(usersName, name),
		SetIfPresent(usersVisits, &visits),
	)

	noop, err := cs.IsNoop()
	assert.NoError(t, err)
	assert.False(t, noop)
	assert.Equal(t, 1, cs.Len())

	query, err := querybuilder.Render(backend.SQLite{}, cs)
	assert.NoError(t, err)
	assert.Equal(t, `"visits" = ?`, query.SQL)
	assert.Equal(t, []any{3}, query.Args)

	allAbsent := New(SetIfPresent(usersName, name), SetIf(false, SetValue(usersEmail, "a@b")))
	noop, err = allAbsent.IsNoop()
	assert.NoError(t, err)
	assert.True(t, noop)
}

func TestChangeset_ConstructionErrors(t *testing.T) {
	tests := []struct {
		name     string
		cs       Changeset[users]
		expected error
	}{
		{
			name:     "value rejected by SQL type",
			cs:       New(SetValue(usersEmail, 42)),
			expected: conflictsql.ErrTypeMismatch,
		},
		{
			name:     "zero column",
			cs:       New(SetValue(expression.Column[users, expression.Text]{}, "x")),
			expected: conflictsql.ErrEmptyColumnName,
		},
		{
			name:     "duplicate column",
			cs:       New(SetValue(usersEmail, "a"), SetValue(usersEmail, "b")),
			expected: conflictsql.ErrDuplicateAssignment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noop, err := tt.cs.IsNoop()
			assert.False(t, noop)
			assert.True(t, errors.Is(err, tt.expected))

			_, err = querybuilder.Render(backend.Postgres{}, tt.cs)
			assert.True(t, errors.Is(err, tt.expected))
		})
	}
}

func TestChangeset_SkippedErrorsAreIgnored(t *testing.T) {
	cs := New(SetIf(false, SetValue(usersEmail, 42)))

	noop, err := cs.IsNoop()
	assert.NoError(t, err)
	assert.True(t, noop)
}

func TestChangeset_WithCopies(t *testing.T) {
	base := New(SetValue(usersName, "bob"))
	extended := base.With(SetValue(usersEmail, "bob@example.com"))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())
	assert.Equal(t, "email", extended.Active()[1].Column())
}

func TestAssignment_Accessors(t *testing.T) {
	a := SetValue(usersName, "bob")

	assert.Equal(t, "name", a.Column())
	assert.False(t, a.Skipped())
	assert.NoError(t, a.Err())
	assert.NotZero(t, a.Value())

	var nilName *string
	skipped := SetIfPresent(usersName, nilName)
	assert.True(t, skipped.Skipped())
	assert.Equal(t, nil, skipped.Value())
}
