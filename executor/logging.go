package executor

import (
	"context"
	"runtime"
	"time"

	"github.com/shibukawa/conflictsql"
)

// LoggerFunc receives QueryLogEntry events.
type LoggerFunc func(context.Context, QueryLogEntry)

// LoggerOpt configures optional logger behaviour passed to WithLogger.
type LoggerOpt struct {
	IncludeStack       bool
	StackDepth         int
	SlowQueryThreshold time.Duration
}

// QueryLogEntry represents a single statement execution.
type QueryLogEntry struct {
	SQL        string
	Args       []any
	Dialect    conflictsql.Dialect
	Cacheable  bool // the rendered statement allowed plan caching
	Prepared   bool // a cached prepared statement was used
	StartAt    time.Time
	EndAt      time.Time
	Duration   time.Duration
	Slow       bool
	StackTrace []runtime.Frame
	Error      string
}

type loggerConfig struct {
	sink               LoggerFunc
	includeStack       bool
	stackDepth         int
	slowQueryThreshold time.Duration
}

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// WithLogger stores logging configuration on the context. Statements executed
// with the returned context are reported to logger.
func WithLogger(ctx context.Context, logger LoggerFunc, opts ...LoggerOpt) context.Context {
	var opt LoggerOpt
	if len(opts) > 0 {
		opt = opts[0]
	}

	if opt.IncludeStack && opt.StackDepth <= 0 {
		opt.StackDepth = 16
	}

	if opt.SlowQueryThreshold < 0 {
		opt.SlowQueryThreshold = 0
	}

	return context.WithValue(ctx, loggerKey, &loggerConfig{
		sink:               logger,
		includeStack:       opt.IncludeStack,
		stackDepth:         opt.StackDepth,
		slowQueryThreshold: opt.SlowQueryThreshold,
	})
}

// queryLogger coordinates the logging lifecycle of one execution.
type queryLogger struct {
	cfg     *loggerConfig
	startAt time.Time
	entry   QueryLogEntry
	err     error
}

func loggerFromContext(ctx context.Context) *queryLogger {
	cfg, ok := ctx.Value(loggerKey).(*loggerConfig)
	if !ok || cfg == nil || cfg.sink == nil {
		return nil
	}

	return &queryLogger{cfg: cfg, startAt: time.Now()}
}

func (l *queryLogger) setQuery(sql string, args []any, dialect conflictsql.Dialect, cacheable, prepared bool) {
	if l == nil {
		return
	}

	l.entry.SQL = sql
	l.entry.Dialect = dialect
	l.entry.Cacheable = cacheable
	l.entry.Prepared = prepared

	if len(args) > 0 {
		l.entry.Args = append([]any(nil), args...)
	}
}

func (l *queryLogger) setErr(err error) {
	if l == nil {
		return
	}

	l.err = err
}

func (l *queryLogger) write(ctx context.Context) {
	if l == nil {
		return
	}

	entry := l.entry
	entry.StartAt = l.startAt
	entry.EndAt = time.Now()
	entry.Duration = entry.EndAt.Sub(entry.StartAt)
	entry.Slow = l.cfg.slowQueryThreshold > 0 && entry.Duration >= l.cfg.slowQueryThreshold

	if l.err != nil {
		entry.Error = l.err.Error()
	}

	if l.cfg.includeStack {
		entry.StackTrace = captureStackTrace(l.cfg.stackDepth)
	}

	l.cfg.sink(ctx, entry)
}

func captureStackTrace(depth int) []runtime.Frame {
	if depth <= 0 {
		depth = 16
	}

	pcs := make([]uintptr, depth)
	n := runtime.Callers(4, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var result []runtime.Frame

	for {
		frame, more := frames.Next()
		result = append(result, frame)

		if !more {
			break
		}
	}

	return result
}
