package upsert

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/backend"
	"github.com/shibukawa/conflictsql/changeset"
	"github.com/shibukawa/conflictsql/expression"
	"github.com/shibukawa/conflictsql/querybuilder"
)

func newUser() changeset.Changeset[users] {
	return changeset.New(
		changeset.SetValue(usersEmail, "bob@example.com"),
		changeset.SetValue(usersName, "bob"),
		changeset.SetValue(usersVisits, 1),
	)
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		build    func() (querybuilder.Query, error)
		expected string
	}{
		{
			name: "postgres",
			build: func() (querybuilder.Query, error) {
				return querybuilder.Build(backend.Postgres{}, Insert[backend.Postgres](users{}).Values(newUser()))
			},
			expected: `INSERT INTO "users" ("email", "name", "visits") VALUES ($1, $2, $3)`,
		},
		{
			name: "mysql",
			build: func() (querybuilder.Query, error) {
				return querybuilder.Build(backend.MySQL{}, Insert[backend.MySQL](users{}).Values(newUser()))
			},
			expected: "INSERT INTO `users` (`email`, `name`, `visits`) VALUES (?, ?, ?)",
		},
		{
			name: "sqlite default values",
			build: func() (querybuilder.Query, error) {
				return querybuilder.Build(backend.SQLite{}, Insert[backend.SQLite](users{}))
			},
			expected: `INSERT INTO "users" DEFAULT VALUES`,
		},
		{
			name: "mysql empty row",
			build: func() (querybuilder.Query, error) {
				return querybuilder.Build(backend.MySQL{}, Insert[backend.MySQL](users{}).Values(changeset.New[users]()))
			},
			expected: "INSERT INTO `users` () VALUES ()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := tt.build()
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, query.SQL)
			assert.True(t, query.Cacheable)
		})
	}
}

func TestInsert_ValueError(t *testing.T) {
	stmt := Insert[backend.Postgres](users{}).Values(changeset.New(changeset.SetValue(usersVisits, "many")))

	_, err := querybuilder.Build(backend.Postgres{}, stmt)
	assert.True(t, errors.Is(err, conflictsql.ErrTypeMismatch))
}

func TestUpsert_DoUpdateWithExcluded(t *testing.T) {
	stmt := OnConflictDoUpdate(
		Insert[backend.Postgres](users{}).Values(newUser()),
		Columns(usersEmail),
		changeset.New(
			changeset.Set(usersName, Excluded(usersName)),
			changeset.Set(usersVisits, expression.Add[users, expression.Integer](usersVisits, Excluded(usersVisits))),
		),
	)

	query, err := querybuilder.Build(backend.Postgres{}, stmt)
	assert.NoError(t, err)
	assert.Equal(t,
		`INSERT INTO "users" ("email", "name", "visits") VALUES ($1, $2, $3)`+
			` ON CONFLICT ("email") DO UPDATE SET "name" = excluded."name", "visits" = "users"."visits" + excluded."visits"`,
		query.SQL)
	assert.Equal(t, []any{"bob@example.com", "bob", 1}, query.Args)
	assert.False(t, query.Cacheable)
}

func TestUpsert_ConditionallyEmptyUpdate(t *testing.T) {
	var name *string

	stmt := OnConflictDoUpdate(
		Insert[backend.SQLite](users{}).Values(newUser()),
		Columns(usersEmail),
		changeset.New(changeset.SetIfPresent(usersName, name)),
	)

	query, err := querybuilder.Build(backend.SQLite{}, stmt)
	assert.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("email", "name", "visits") VALUES (?, ?, ?) ON CONFLICT ("email") DO NOTHING`, query.SQL)
	assert.False(t, query.Cacheable)
}

func TestUpsert_DoNothing(t *testing.T) {
	stmt := OnConflictDoNothing(Insert[backend.SQLite](users{}).Values(newUser()), AnyConflict[users]())

	query, err := querybuilder.Build(backend.SQLite{}, stmt)
	assert.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("email", "name", "visits") VALUES (?, ?, ?) ON CONFLICT DO NOTHING`, query.SQL)
	assert.True(t, query.Cacheable)
}

func TestUpsert_Targets(t *testing.T) {
	insert := Insert[backend.Postgres](users{}).Values(newUser())

	query, err := querybuilder.Build(backend.Postgres{}, OnConflictDoNothing(insert, Columns(usersID, usersEmail)))
	assert.NoError(t, err)
	assert.Contains(t, query.SQL, ` ON CONFLICT ("id", "email") DO NOTHING`)

	query, err = querybuilder.Build(backend.Postgres{}, OnConflictDoNothing(insert, OnConstraint(users{}, "users_email_key")))
	assert.NoError(t, err)
	assert.Contains(t, query.SQL, ` ON CONFLICT ON CONSTRAINT "users_email_key" DO NOTHING`)

	lite := Insert[backend.SQLite](users{}).Values(newUser())
	_, err = querybuilder.Build(backend.SQLite{}, OnConflictDoNothing(lite, OnConstraint(users{}, "users_email_key")))
	assert.True(t, errors.Is(err, conflictsql.ErrUnsupportedFeature))
}

func TestUpsert_ChangesetErrorReachesCaller(t *testing.T) {
	stmt := OnConflictDoUpdate(
		Insert[backend.Postgres](users{}).Values(newUser()),
		Columns(usersEmail),
		changeset.New(changeset.SetValue(usersVisits, "lots")),
	)

	_, err := querybuilder.Build(backend.Postgres{}, stmt)
	assert.True(t, errors.Is(err, conflictsql.ErrTypeMismatch))
}

func TestUpsert_NilAction(t *testing.T) {
	stmt := OnConflict[backend.Postgres](Insert[backend.Postgres](users{}), AnyConflict[users](), nil)

	_, err := querybuilder.Build(backend.Postgres{}, stmt)
	assert.True(t, errors.Is(err, conflictsql.ErrNilExpression))
}
