package client

import (
	"context"
	"log/slog"
	"time"
)

// QueryEvent describes one statement sent to SQLite.
type QueryEvent struct {
	SQL      string
	Args     []any
	Duration time.Duration
	Error    error
	Start    time.Time
	End      time.Time
}

// Middleware is a function that intercepts queries
type Middleware func(ctx context.Context, event *QueryEvent, next func() error) error

// executeWithMiddleware runs exec through the middleware chain. The event is
// complete (timing and error) once next returns.
func executeWithMiddleware(ctx context.Context, middlewares []Middleware, sql string, args []any, exec func() error) error {
	event := &QueryEvent{
		SQL:   sql,
		Args:  args,
		Start: time.Now(),
	}

	var next func() error
	index := 0

	next = func() error {
		if index >= len(middlewares) {
			err := exec()
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Error = err
			return err
		}

		middleware := middlewares[index]
		index++
		return middleware(ctx, event, next)
	}

	return next()
}

// LoggingMiddleware logs every statement at debug level and failures at
// error level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err != nil {
			logger.ErrorContext(ctx, "query failed", "sql", event.SQL, "args", event.Args, "error", err)
		} else {
			logger.DebugContext(ctx, "query", "sql", event.SQL, "args", event.Args, "duration", event.Duration)
		}
		return err
	}
}

// QueryLoggerMiddleware passes every successful statement to fn.
func QueryLoggerMiddleware(fn func(QueryEvent)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err == nil && fn != nil {
			fn(*event)
		}
		return err
	}
}

// TimingMiddleware creates a middleware that measures query execution time
func TimingMiddleware(onTiming func(sql string, duration time.Duration)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.SQL, event.Duration)
		}
		return err
	}
}

// ErrorMiddleware creates a middleware that handles errors
func ErrorMiddleware(onError func(err error)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err != nil && onError != nil {
			onError(err)
		}
		return err
	}
}
