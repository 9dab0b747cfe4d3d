// Package migrate compiles table descriptions into SQLite DDL and applies it.
// It creates tables, constraints, indexes and the timestamp triggers.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/satishbabariya/litedb/migrate/sqlgen"
	"github.com/satishbabariya/litedb/runtime/codec"
	"github.com/satishbabariya/litedb/schema"
)

// Status is the initialization state of a Compiler.
type Status int

const (
	// StatusNeedsDrop means tables are dropped before the next creation pass.
	StatusNeedsDrop Status = iota
	// StatusNoDropNeeded means the next pass creates without dropping.
	StatusNoDropNeeded
	// StatusReady means a creation pass completed.
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusNeedsDrop:
		return "needs-drop"
	case StatusNoDropNeeded:
		return "no-drop-needed"
	case StatusReady:
		return "ready"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Execer runs DDL. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// TablePlan is the DDL for one table, in execution order.
type TablePlan struct {
	Table      string
	Drop       string
	Create     string
	Indexes    []string
	Triggers   []string
	TriggerKey schema.TriggerKey
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithDropBeforeInit starts the compiler in StatusNeedsDrop.
func WithDropBeforeInit(drop bool) Option {
	return func(c *Compiler) {
		if drop {
			c.status = StatusNeedsDrop
		} else {
			c.status = StatusNoDropNeeded
		}
	}
}

// WithLogger sets the logger for DDL and swallowed errors.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSerializer sets the serializer applied to column defaults.
func WithSerializer(s codec.Serializer) Option {
	return func(c *Compiler) {
		if s != nil {
			c.serializer = s
		}
	}
}

// WithErrorHandler receives errors that do not abort initialization.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Compiler) {
		c.onError = fn
	}
}

// Compiler plans and applies the schema for a fixed list of tables.
type Compiler struct {
	tables     []schema.Table
	serializer codec.Serializer
	logger     *slog.Logger
	onError    func(error)

	mu     sync.Mutex
	status Status
}

// NewCompiler validates tables and creates a compiler for them.
func NewCompiler(tables []schema.Table, opts ...Option) (*Compiler, error) {
	if err := schema.ValidateAll(tables); err != nil {
		return nil, err
	}
	c := &Compiler{
		tables:     tables,
		serializer: codec.Serialize,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		status:     StatusNoDropNeeded,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Tables returns the table descriptions.
func (c *Compiler) Tables() []schema.Table {
	return c.tables
}

// Status returns the current status.
func (c *Compiler) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Plan renders the DDL for t. It does not touch the database.
func (c *Compiler) Plan(t schema.Table) (*TablePlan, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	plan := &TablePlan{Table: t.Name, TriggerKey: schema.ResolveTriggerKey(&t)}

	drop, err := sqlgen.DropTable(t.Name).IfExists().SQL()
	if err != nil {
		return nil, err
	}
	plan.Drop = drop

	create := sqlgen.CreateTable(t.Name).IfNotExists()
	_, hasIncrements := t.IncrementsColumn()
	var declared []string
	for _, col := range t.Columns {
		if t.IsTimestampColumn(col.Name) {
			continue
		}
		declared = append(declared, col.Name)
		def, err := c.columnDefault(t.Name, col)
		if err != nil {
			return nil, err
		}
		create.AddColumn(col.Name, string(col.Type.Affinity()), func(b *sqlgen.ColumnBuilder) {
			if col.Type == schema.Increments {
				b.AutoIncrement().PrimaryKey()
				return
			}
			if col.NotNull {
				b.NotNull()
			}
			if col.Default != nil {
				b.DefaultTo(def)
			}
		})
	}

	if props := t.Properties; props != nil {
		if t.HasTimestamp() {
			createCol, updateCol := t.TimestampColumns()
			create.AddColumn(createCol, string(schema.AffinityDate), nil)
			create.AddColumn(updateCol, string(schema.AffinityDate), nil)
		}
		if !hasIncrements && len(props.Primary) > 0 {
			create.AddPrimaryKeyConstraint(schema.PrimaryKeyName(props.Primary), props.Primary)
		}
		for _, u := range props.Unique {
			create.AddUniqueConstraint(schema.UniqueName(u), u)
		}
	}

	if plan.Create, err = create.SQL(); err != nil {
		return nil, fmt.Errorf("table %s: %w", t.Name, err)
	}

	if t.Properties != nil {
		for _, cols := range t.Properties.Index {
			idx, err := sqlgen.CreateIndex(schema.IndexName(t.Name, cols)).On(t.Name).Columns(cols...).IfNotExists().SQL()
			if err != nil {
				return nil, fmt.Errorf("table %s: %w", t.Name, err)
			}
			plan.Indexes = append(plan.Indexes, idx)
		}
	}

	if t.HasTimestamp() {
		createCol, updateCol := t.TimestampColumns()
		// The update trigger watches declared columns only, so the touch
		// statements of both triggers never fire it.
		for _, trg := range []struct {
			event  sqlgen.TriggerEvent
			column string
			of     []string
		}{
			{sqlgen.EventInsert, createCol, nil},
			{sqlgen.EventUpdate, updateCol, declared},
		} {
			stmt, err := sqlgen.CreateTrigger(schema.TriggerName(t.Name, trg.column)).
				IfNotExists().
				After(trg.event, t.Name).
				Of(trg.of...).
				Body(sqlgen.TouchColumn(t.Name, trg.column, plan.TriggerKey.Column)).
				SQL()
			if err != nil {
				return nil, fmt.Errorf("table %s: %w", t.Name, err)
			}
			plan.Triggers = append(plan.Triggers, stmt)
		}
	}

	return plan, nil
}

func (c *Compiler) columnDefault(table string, col schema.Column) (any, error) {
	if col.Default == nil {
		return nil, nil
	}
	v, err := c.serializer(col.Default)
	if err != nil {
		return nil, fmt.Errorf("default of %s.%s: %w", table, col.Name, err)
	}
	return v, nil
}

// Statements renders the whole script: per table, the drop when the status
// requires it, then create, indexes and triggers.
func (c *Compiler) Statements() ([]string, error) {
	drop := c.Status() == StatusNeedsDrop
	var out []string
	for _, t := range c.tables {
		plan, err := c.Plan(t)
		if err != nil {
			return nil, err
		}
		if drop {
			out = append(out, plan.Drop)
		}
		out = append(out, plan.Create)
		out = append(out, plan.Indexes...)
		out = append(out, plan.Triggers...)
	}
	return out, nil
}

// Apply runs one creation pass over every table, in declaration order. Tables
// are dropped first when dropBeforeInit is set or the status requires it.
// Drop and trigger failures are reported and skipped; any other failure
// stops the pass and leaves the status unchanged.
func (c *Compiler) Apply(ctx context.Context, exec Execer, dropBeforeInit bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(ctx, exec, dropBeforeInit)
}

// Ensure runs a creation pass unless one already completed. Concurrent
// callers wait for the pass in progress.
func (c *Compiler) Ensure(ctx context.Context, exec Execer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusReady {
		return nil
	}
	return c.apply(ctx, exec, false)
}

func (c *Compiler) apply(ctx context.Context, exec Execer, dropBeforeInit bool) error {
	drop := dropBeforeInit || c.status == StatusNeedsDrop
	c.logger.Debug("initializing schema", "tables", len(c.tables), "drop", drop)

	for _, t := range c.tables {
		plan, err := c.Plan(t)
		if err != nil {
			return err
		}

		if drop {
			if err := c.exec(ctx, exec, plan.Drop); err != nil {
				c.report("drop table failed", t.Name, err)
			}
		}

		if err := c.exec(ctx, exec, plan.Create); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}

		for _, idx := range plan.Indexes {
			if err := c.exec(ctx, exec, idx); err != nil {
				return fmt.Errorf("create index on %s: %w", t.Name, err)
			}
		}

		for _, trg := range plan.Triggers {
			if err := c.exec(ctx, exec, trg); err != nil {
				c.report("create trigger failed", t.Name, err)
			}
		}
	}

	c.status = StatusReady
	c.logger.Debug("schema ready", "tables", len(c.tables))
	return nil
}

func (c *Compiler) exec(ctx context.Context, exec Execer, stmt string) error {
	c.logger.Debug("ddl", "sql", stmt)
	_, err := exec.ExecContext(ctx, stmt)
	return err
}

func (c *Compiler) report(msg, table string, err error) {
	c.logger.Warn(msg, "table", table, "error", err)
	if c.onError != nil {
		c.onError(fmt.Errorf("%s on %s: %w", msg, table, err))
	}
}
