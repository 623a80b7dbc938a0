package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/backend"
	"github.com/shibukawa/conflictsql/querybuilder"
)

// DBExecutor is the subset of *sql.DB used by the executor.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Executor renders statements for backend DB and runs them. Statements whose
// rendering left them cacheable are prepared once and reused; the others
// are sent as plain text every time.
type Executor[DB backend.Backend] struct {
	db      DBExecutor
	backend DB
	cache   bool

	mu    sync.RWMutex // read-held while a cached statement executes
	stmts map[string]*sql.Stmt
}

// Option configures an Executor.
type Option func(*options)

type options struct {
	cache bool
}

// WithStatementCache turns prepared statement reuse on or off (default on).
func WithStatementCache(enabled bool) Option {
	return func(o *options) {
		o.cache = enabled
	}
}

// New creates an executor over db for backend b.
func New[DB backend.Backend](db DBExecutor, b DB, opts ...Option) *Executor[DB] {
	o := options{cache: true}
	for _, opt := range opts {
		opt(&o)
	}

	return &Executor[DB]{
		db:      db,
		backend: b,
		cache:   o.cache,
		stmts:   make(map[string]*sql.Stmt),
	}
}

// Build renders f without executing it.
func (e *Executor[DB]) Build(f querybuilder.QueryFragment[DB]) (querybuilder.Query, error) {
	return querybuilder.Build(e.backend, f)
}

// Exec renders and executes f.
func (e *Executor[DB]) Exec(ctx context.Context, f querybuilder.QueryFragment[DB]) (sql.Result, error) {
	query, err := e.Build(f)
	if err != nil {
		return nil, err
	}

	return e.ExecQuery(ctx, query)
}

// ExecQuery executes an already rendered query.
func (e *Executor[DB]) ExecQuery(ctx context.Context, query querybuilder.Query) (sql.Result, error) {
	logger := loggerFromContext(ctx)
	defer logger.write(ctx)

	prepared := e.cache && query.Cacheable
	logger.setQuery(query.SQL, query.Args, query.Dialect, query.Cacheable, prepared)

	var (
		result sql.Result
		err    error
	)

	if prepared {
		result, err = e.execPrepared(ctx, query)
	} else {
		result, err = e.db.ExecContext(ctx, query.SQL, query.Args...)
	}

	if err != nil {
		err = fmt.Errorf("%w: %w", conflictsql.ErrQueryExecution, err)
		logger.setErr(err)

		return nil, err
	}

	return result, nil
}

func (e *Executor[DB]) execPrepared(ctx context.Context, query querybuilder.Query) (sql.Result, error) {
	e.mu.RLock()

	stmt, ok := e.stmts[query.SQL]
	if !ok {
		e.mu.RUnlock()

		if err := e.prepare(ctx, query.SQL); err != nil {
			return nil, err
		}

		e.mu.RLock()
		stmt, ok = e.stmts[query.SQL]
	}

	defer e.mu.RUnlock()

	if !ok {
		// Close ran between prepare and here
		return e.db.ExecContext(ctx, query.SQL, query.Args...)
	}

	return stmt.ExecContext(ctx, query.Args...)
}

func (e *Executor[DB]) prepare(ctx context.Context, sqlText string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.stmts[sqlText]; ok {
		return nil
	}

	stmt, err := e.db.PrepareContext(ctx, sqlText)
	if err != nil {
		return err
	}

	e.stmts[sqlText] = stmt

	return nil
}

// CachedStatements returns the number of prepared statements held.
func (e *Executor[DB]) CachedStatements() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.stmts)
}

// Close releases all prepared statements, waiting for executions that use
// them. The executor stays usable; the underlying *sql.DB stays open.
func (e *Executor[DB]) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error

	for key, stmt := range e.stmts {
		if err := stmt.Close(); err != nil {
			errs = append(errs, err)
		}

		delete(e.stmts, key)
	}

	return errors.Join(errs...)
}
