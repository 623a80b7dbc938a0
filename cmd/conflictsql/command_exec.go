package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/shibukawa/conflictsql"
	"github.com/shibukawa/conflictsql/executor"
	"github.com/shibukawa/conflictsql/upsertdef"
)

// ExecCmd represents the exec command
type ExecCmd struct {
	Definition string `arg:"" help:"Upsert definition file" type:"path"`
	Env        string `help:"Database environment from config (defaults to query.default_environment)" short:"e"`
	ParamFlags `embed:""`
}

// Run executes the exec command
func (cmd *ExecCmd) Run(ctx *Context) error {
	return cmd.exec(context.Background(), ctx, color.Output)
}

func (cmd *ExecCmd) exec(parent context.Context, ctx *Context, w io.Writer) error {
	config, err := conflictsql.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, err := cmd.database(config)
	if err != nil {
		return err
	}

	def, stmt, err := compileDefinition(cmd.Definition, cmd.ParamFlags)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(parent, time.Duration(config.Query.Timeout)*time.Second)
	defer cancel()

	db, b, err := executor.Open(runCtx, database)
	if err != nil {
		return err
	}
	defer db.Close()

	query, err := upsertdef.Render(b, stmt)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		printQuery(w, ctx, def, query)
	}

	if config.Logging.Enabled {
		runCtx = executor.WithLogger(runCtx, logEntry(config.Logging.SlowQueryThreshold), executor.LoggerOpt{
			IncludeStack:       config.Logging.IncludeStack,
			StackDepth:         config.Logging.StackDepth,
			SlowQueryThreshold: config.Logging.SlowQueryThreshold,
		})
	}

	exec := executor.New(db, b, executor.WithStatementCache(config.StatementCache.IsEnabled()))
	defer exec.Close()

	result, err := exec.ExecQuery(runCtx, query)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", conflictsql.ErrQueryExecution, err)
	}

	if !ctx.Quiet {
		color.New(color.FgGreen).Fprintf(w, "%s: %d row(s) affected\n", def.Table, affected)
	}

	return nil
}

func (cmd *ExecCmd) database(config *conflictsql.Config) (conflictsql.Database, error) {
	if len(config.Databases) == 0 {
		return conflictsql.Database{}, ErrNoDatabasesConfigured
	}

	env := cmd.Env
	if env == "" {
		env = config.Query.DefaultEnvironment
	}

	database, ok := config.Databases[env]
	if !ok {
		return conflictsql.Database{}, fmt.Errorf("%w: %s", ErrEnvironmentNotFound, env)
	}

	return database, nil
}

func logEntry(slow time.Duration) executor.LoggerFunc {
	return func(_ context.Context, entry executor.QueryLogEntry) {
		c := color.New(color.FgHiBlack)
		if entry.Slow {
			c = color.New(color.FgYellow)
		}

		if entry.Error != "" {
			c = color.New(color.FgRed)
		}

		c.Fprintf(os.Stderr, "[%s] %s (%s, prepared=%t)\n", dialectTitle(entry.Dialect), entry.SQL, entry.Duration, entry.Prepared)

		if entry.Slow {
			c.Fprintf(os.Stderr, "  slower than %s\n", slow)
		}

		for _, frame := range entry.StackTrace {
			c.Fprintf(os.Stderr, "  at %s (%s:%d)\n", frame.Function, frame.File, frame.Line)
		}
	}
}
