package executor

import (
	"context"
	"testing"
	"time"

	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/backend"
	"github.com/shibukawa/conflictsql/changeset"
	"github.com/shibukawa/conflictsql/expression"
	"github.com/shibukawa/conflictsql/querybuilder"
	"github.com/shibukawa/conflictsql/upsert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresUpsert(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PostgreSQL integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %v", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, b, err := Open(ctx, conflictsql.Database{Driver: "postgres", Connection: connStr})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, backend.Postgres{}, b)

	_, err = db.ExecContext(ctx, `
		CREATE TABLE users (
			id SERIAL PRIMARY KEY,
			email TEXT NOT NULL,
			name TEXT NOT NULL,
			visits INTEGER NOT NULL DEFAULT 0,
			CONSTRAINT users_email_key UNIQUE (email)
		)`)
	require.NoError(t, err)

	exec := New(db, backend.Postgres{})
	defer exec.Close()

	row := func(name string) upsert.InsertStatement[backend.Postgres, users] {
		return upsert.Insert[backend.Postgres](users{}).Values(changeset.New(
			changeset.SetValue(usersEmail, "pg@example.com"),
			changeset.SetValue(usersName, name),
			changeset.SetValue(usersVisits, 1),
		))
	}

	update := changeset.New(
		changeset.Set(usersName, upsert.Excluded(usersName)),
		changeset.Set(usersVisits, expression.Add[users, expression.Integer](usersVisits, upsert.Excluded(usersVisits))),
	)

	_, err = exec.Exec(ctx, upsert.OnConflictDoUpdate(row("first"), upsert.Columns(usersEmail), update))
	require.NoError(t, err)

	_, err = exec.Exec(ctx, upsert.OnConflictDoUpdate(row("second"), upsert.OnConstraint(users{}, "users_email_key"), update))
	require.NoError(t, err)

	_, err = exec.Exec(ctx, upsert.OnConflictDoNothing(row("third"), upsert.AnyConflict[users]()))
	require.NoError(t, err)

	var (
		name   string
		visits int
	)

	err = db.QueryRowContext(ctx, `SELECT name, visits FROM users WHERE email = $1`, "pg@example.com").Scan(&name, &visits)
	require.NoError(t, err)
	assert.Equal(t, "second", name)
	assert.Equal(t, 2, visits)
	assert.Equal(t, 1, exec.CachedStatements())
}

func TestMySQLInsert(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping MySQL integration test in short mode")
	}

	ctx := context.Background()

	mysqlContainer, err := mysql.Run(ctx,
		"mysql:8.4",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("testuser"),
		mysql.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("port: 3306  MySQL Community Server").
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	defer func() {
		if err := mysqlContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %v", err)
		}
	}()

	connStr, err := mysqlContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, b, err := Open(ctx, conflictsql.Database{Driver: "mysql", Connection: connStr})
	require.NoError(t, err)
	defer db.Close()

	assert.False(t, backend.SupportsOnConflict(b))

	_, err = db.ExecContext(ctx, `
		CREATE TABLE users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			visits INT NOT NULL DEFAULT 0
		)`)
	require.NoError(t, err)

	exec := New(db, backend.MySQL{})
	defer exec.Close()

	insert := upsert.Insert[backend.MySQL](users{}).Values(changeset.New(
		changeset.SetValue(usersEmail, "my@example.com"),
		changeset.SetValue(usersName, "my"),
	))

	_, err = exec.Exec(ctx, insert)
	require.NoError(t, err)
	assert.Equal(t, 1, exec.CachedStatements())

	// excluded references cannot be rendered for MySQL
	_, err = querybuilder.Render(b, upsert.Excluded(usersName))
	require.ErrorIs(t, err, conflictsql.ErrOnConflictUnsupported)
}
