// Package client is the database facade: it opens SQLite, creates the
// described schema on first use and runs queries through the plugin chain.
package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/hashicorp/go-version"

	"github.com/satishbabariya/litedb/internal/logging"
	"github.com/satishbabariya/litedb/internal/sqlite"
	"github.com/satishbabariya/litedb/migrate"
	"github.com/satishbabariya/litedb/migrate/introspect"
	"github.com/satishbabariya/litedb/query"
	"github.com/satishbabariya/litedb/query/builder"
	"github.com/satishbabariya/litedb/query/sqlgen"
	"github.com/satishbabariya/litedb/runtime/codec"
	"github.com/satishbabariya/litedb/runtime/plugin"
	"github.com/satishbabariya/litedb/schema"
)

// ReturningVersion is the first SQLite release that supports RETURNING.
var ReturningVersion = version.Must(version.NewVersion("3.35.0"))

// DB is a SQLite database with a managed schema.
type DB struct {
	db          *sql.DB
	compiler    *migrate.Compiler
	plugins     []plugin.Plugin
	middlewares []Middleware
	logger      *slog.Logger
	errorLogger func(error)
	engine      *version.Version
	closed      atomic.Bool
}

// Open opens the database and prepares the schema compiler. Tables are not
// created until Init or the first Transaction or Exec.
func Open(ctx context.Context, opts Options) (*DB, error) {
	if err := schema.ValidateAll(opts.Tables); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	plugins := opts.Plugins
	if plugins == nil {
		plugins = []plugin.Plugin{plugin.NewSerializePlugin()}
	}

	d := &DB{
		plugins:     plugins,
		logger:      logger,
		errorLogger: opts.ErrorLogger,
	}

	compiler, err := migrate.NewCompiler(opts.Tables,
		migrate.WithDropBeforeInit(opts.DropBeforeInit),
		migrate.WithLogger(logger),
		migrate.WithSerializer(defaultSerializer(plugins)),
		migrate.WithErrorHandler(d.reportError),
	)
	if err != nil {
		return nil, err
	}
	d.compiler = compiler

	d.middlewares = append(d.middlewares, opts.Middleware...)
	d.middlewares = append(d.middlewares,
		LoggingMiddleware(logger),
		ErrorMiddleware(d.reportError),
		QueryLoggerMiddleware(opts.QueryLogger),
	)

	db, err := sqlite.Open(ctx, opts.Path)
	if err != nil {
		return nil, err
	}
	d.db = db

	raw, err := sqlite.Version(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if d.engine, err = version.NewVersion(raw); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to parse sqlite version %q: %w", raw, err)
	}

	logger.Debug("database opened", "path", opts.Path, "driver", sqlite.DriverName(), "sqlite", raw, "tables", len(opts.Tables))
	return d, nil
}

// defaultSerializer picks the serializer used for column defaults: the one
// of the first SerializePlugin, or the codec default.
func defaultSerializer(plugins []plugin.Plugin) codec.Serializer {
	for _, p := range plugins {
		if sp, ok := p.(*plugin.SerializePlugin); ok {
			return sp.Serializer()
		}
	}
	return codec.Serialize
}

// Init creates the schema. With dropBeforeInit every table is dropped first.
// It may be called again; statements are idempotent.
func (d *DB) Init(ctx context.Context, dropBeforeInit bool) error {
	if d.closed.Load() {
		return ErrClosed
	}
	if err := d.compiler.Apply(ctx, d.db, dropBeforeInit); err != nil {
		d.reportError(err)
		return fmt.Errorf("%w: %w", ErrNotInitialized, err)
	}
	return nil
}

// Status returns the schema status.
func (d *DB) Status() migrate.Status {
	return d.compiler.Status()
}

func (d *DB) ensureReady(ctx context.Context) error {
	if d.closed.Load() {
		return ErrClosed
	}
	if err := d.compiler.Ensure(ctx, d.db); err != nil {
		d.reportError(err)
		return fmt.Errorf("%w: %w", ErrNotInitialized, err)
	}
	return nil
}

// Transaction runs fn in a transaction, creating the schema first if needed.
// The transaction commits when fn returns nil and rolls back otherwise.
//
// The pool holds a single connection: inside fn, use tx rather than d.
func (d *DB) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	if err := d.ensureReady(ctx); err != nil {
		return err
	}
	if err := d.transaction(ctx, fn); err != nil {
		d.reportError(err)
		return &OpError{Op: "transaction", Kind: ErrTransactionFailed, Cause: err}
	}
	return nil
}

// Exec runs fn against the database outside of a transaction, creating the
// schema first if needed.
func (d *DB) Exec(ctx context.Context, fn func(q *builder.Creator) error) error {
	if err := d.ensureReady(ctx); err != nil {
		return err
	}
	if err := fn(builder.NewCreator(&executor{db: d, conn: d.db})); err != nil {
		d.reportError(err)
		return &OpError{Op: "exec", Kind: ErrExecFailed, Cause: err}
	}
	return nil
}

// Raw runs a literal statement through the plugin chain.
func (d *DB) Raw(ctx context.Context, sql string, args ...any) (*query.Result, error) {
	if err := d.ensureReady(ctx); err != nil {
		return nil, err
	}
	return builder.NewCreator(&executor{db: d, conn: d.db}).Raw(sql, args...).Execute(ctx)
}

// ToSQL compiles b as it would be executed, after every plugin's
// TransformQuery, without running it.
func (d *DB) ToSQL(b builder.RootBuilder) (*query.Query, error) {
	root, err := b.Build()
	if err != nil {
		return nil, err
	}
	root, err = d.transformQuery(plugin.NewQueryID(), root)
	if err != nil {
		return nil, err
	}
	return sqlgen.Compile(root)
}

// DDL returns the schema script in execution order.
func (d *DB) DDL() ([]string, error) {
	return d.compiler.Statements()
}

// Introspect reads the schema SQLite currently holds.
func (d *DB) Introspect(ctx context.Context) (*introspect.DatabaseSchema, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	return introspect.Introspect(ctx, d.db)
}

// EngineVersion returns the SQLite library version.
func (d *DB) EngineVersion(context.Context) (*version.Version, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	return d.engine, nil
}

// SupportsReturning reports whether the engine accepts RETURNING clauses.
func (d *DB) SupportsReturning() bool {
	return d.engine.GreaterThanOrEqual(ReturningVersion)
}

// SQL returns the underlying database handle.
func (d *DB) SQL() *sql.DB {
	return d.db
}

// Close closes the database.
func (d *DB) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	return d.db.Close()
}

// reportError passes err to the error logger once: engine errors were
// already reported when the statement failed.
func (d *DB) reportError(err error) {
	if d.errorLogger == nil || err == nil {
		return
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		if qe.reported {
			return
		}
		qe.reported = true
	}
	d.errorLogger(err)
}
