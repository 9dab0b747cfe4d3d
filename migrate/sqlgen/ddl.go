// Package sqlgen renders SQLite DDL statements.
package sqlgen

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	querysql "github.com/satishbabariya/litedb/query/sqlgen"
)

// ErrInvalidDDL is returned for statements that cannot be rendered.
var ErrInvalidDDL = errors.New("invalid ddl")

// Statement is a renderable DDL statement.
type Statement interface {
	SQL() (string, error)
}

var quote = querysql.QuoteIdentifier

// ColumnBuilder describes one column definition.
type ColumnBuilder struct {
	name          string
	dataType      string
	primaryKey    bool
	autoIncrement bool
	notNull       bool
	hasDefault    bool
	defaultValue  any
}

// PrimaryKey marks the column as the primary key.
func (c *ColumnBuilder) PrimaryKey() *ColumnBuilder {
	c.primaryKey = true
	return c
}

// AutoIncrement adds AUTOINCREMENT. It requires PrimaryKey.
func (c *ColumnBuilder) AutoIncrement() *ColumnBuilder {
	c.autoIncrement = true
	return c
}

// NotNull adds NOT NULL.
func (c *ColumnBuilder) NotNull() *ColumnBuilder {
	c.notNull = true
	return c
}

// DefaultTo adds a DEFAULT literal. v must already be in storage form
// (string, number, []byte or nil).
func (c *ColumnBuilder) DefaultTo(v any) *ColumnBuilder {
	c.hasDefault = true
	c.defaultValue = v
	return c
}

func (c *ColumnBuilder) render() (string, error) {
	if c.name == "" || c.dataType == "" {
		return "", fmt.Errorf("%w: column needs a name and a type", ErrInvalidDDL)
	}
	if c.autoIncrement && !c.primaryKey {
		return "", fmt.Errorf("%w: autoincrement column %s is not the primary key", ErrInvalidDDL, c.name)
	}

	var sb strings.Builder
	sb.WriteString(quote(c.name))
	sb.WriteString(" ")
	sb.WriteString(c.dataType)
	if c.primaryKey {
		sb.WriteString(" primary key")
	}
	if c.autoIncrement {
		sb.WriteString(" autoincrement")
	}
	if c.notNull {
		sb.WriteString(" not null")
	}
	if c.hasDefault {
		lit, err := Literal(c.defaultValue)
		if err != nil {
			return "", fmt.Errorf("default of column %s: %w", c.name, err)
		}
		sb.WriteString(" default ")
		sb.WriteString(lit)
	}
	return sb.String(), nil
}

type constraint struct {
	kind    string
	name    string
	columns []string
}

// CreateTableBuilder renders CREATE TABLE.
type CreateTableBuilder struct {
	table       string
	ifNotExists bool
	columns     []*ColumnBuilder
	constraints []constraint
}

// CreateTable starts a CREATE TABLE statement.
func CreateTable(table string) *CreateTableBuilder {
	return &CreateTableBuilder{table: table}
}

// IfNotExists adds IF NOT EXISTS.
func (b *CreateTableBuilder) IfNotExists() *CreateTableBuilder {
	b.ifNotExists = true
	return b
}

// AddColumn appends a column; build may be nil.
func (b *CreateTableBuilder) AddColumn(name, dataType string, build func(*ColumnBuilder)) *CreateTableBuilder {
	col := &ColumnBuilder{name: name, dataType: dataType}
	if build != nil {
		build(col)
	}
	b.columns = append(b.columns, col)
	return b
}

// AddPrimaryKeyConstraint appends a named table-level primary key.
func (b *CreateTableBuilder) AddPrimaryKeyConstraint(name string, columns []string) *CreateTableBuilder {
	b.constraints = append(b.constraints, constraint{kind: "primary key", name: name, columns: columns})
	return b
}

// AddUniqueConstraint appends a named unique constraint.
func (b *CreateTableBuilder) AddUniqueConstraint(name string, columns []string) *CreateTableBuilder {
	b.constraints = append(b.constraints, constraint{kind: "unique", name: name, columns: columns})
	return b
}

// SQL renders the statement.
func (b *CreateTableBuilder) SQL() (string, error) {
	if b.table == "" {
		return "", fmt.Errorf("%w: create table without name", ErrInvalidDDL)
	}
	if len(b.columns) == 0 {
		return "", fmt.Errorf("%w: table %s has no columns", ErrInvalidDDL, b.table)
	}

	defs := make([]string, 0, len(b.columns)+len(b.constraints))
	for _, c := range b.columns {
		def, err := c.render()
		if err != nil {
			return "", err
		}
		defs = append(defs, def)
	}
	for _, c := range b.constraints {
		if len(c.columns) == 0 {
			return "", fmt.Errorf("%w: constraint %s has no columns", ErrInvalidDDL, c.name)
		}
		defs = append(defs, fmt.Sprintf("constraint %s %s (%s)", quote(c.name), c.kind, quoteList(c.columns)))
	}

	var sb strings.Builder
	sb.WriteString("create table ")
	if b.ifNotExists {
		sb.WriteString("if not exists ")
	}
	sb.WriteString(quote(b.table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(defs, ", "))
	sb.WriteString(")")
	return sb.String(), nil
}

// DropTableBuilder renders DROP TABLE.
type DropTableBuilder struct {
	table    string
	ifExists bool
}

// DropTable starts a DROP TABLE statement.
func DropTable(table string) *DropTableBuilder {
	return &DropTableBuilder{table: table}
}

// IfExists adds IF EXISTS.
func (b *DropTableBuilder) IfExists() *DropTableBuilder {
	b.ifExists = true
	return b
}

// SQL renders the statement.
func (b *DropTableBuilder) SQL() (string, error) {
	if b.table == "" {
		return "", fmt.Errorf("%w: drop table without name", ErrInvalidDDL)
	}
	if b.ifExists {
		return "drop table if exists " + quote(b.table), nil
	}
	return "drop table " + quote(b.table), nil
}

// CreateIndexBuilder renders CREATE INDEX.
type CreateIndexBuilder struct {
	name        string
	table       string
	columns     []string
	unique      bool
	ifNotExists bool
}

// CreateIndex starts a CREATE INDEX statement.
func CreateIndex(name string) *CreateIndexBuilder {
	return &CreateIndexBuilder{name: name}
}

// On sets the indexed table.
func (b *CreateIndexBuilder) On(table string) *CreateIndexBuilder {
	b.table = table
	return b
}

// Columns appends indexed columns.
func (b *CreateIndexBuilder) Columns(columns ...string) *CreateIndexBuilder {
	b.columns = append(b.columns, columns...)
	return b
}

// Unique makes the index unique.
func (b *CreateIndexBuilder) Unique() *CreateIndexBuilder {
	b.unique = true
	return b
}

// IfNotExists adds IF NOT EXISTS.
func (b *CreateIndexBuilder) IfNotExists() *CreateIndexBuilder {
	b.ifNotExists = true
	return b
}

// SQL renders the statement.
func (b *CreateIndexBuilder) SQL() (string, error) {
	if b.name == "" || b.table == "" || len(b.columns) == 0 {
		return "", fmt.Errorf("%w: index needs a name, a table and columns", ErrInvalidDDL)
	}
	var sb strings.Builder
	sb.WriteString("create ")
	if b.unique {
		sb.WriteString("unique ")
	}
	sb.WriteString("index ")
	if b.ifNotExists {
		sb.WriteString("if not exists ")
	}
	fmt.Fprintf(&sb, "%s on %s (%s)", quote(b.name), quote(b.table), quoteList(b.columns))
	return sb.String(), nil
}

// TriggerEvent is the statement kind a trigger fires after.
type TriggerEvent string

const (
	EventInsert TriggerEvent = "insert"
	EventUpdate TriggerEvent = "update"
)

// CreateTriggerBuilder renders an AFTER ... FOR EACH ROW trigger whose body
// is given as raw SQL statements.
type CreateTriggerBuilder struct {
	name        string
	table       string
	event       TriggerEvent
	of          []string
	body        []string
	ifNotExists bool
}

// CreateTrigger starts a CREATE TRIGGER statement.
func CreateTrigger(name string) *CreateTriggerBuilder {
	return &CreateTriggerBuilder{name: name}
}

// After sets the event and table.
func (b *CreateTriggerBuilder) After(event TriggerEvent, table string) *CreateTriggerBuilder {
	b.event = event
	b.table = table
	return b
}

// Of limits an update trigger to updates of the given columns. Statements
// that only touch other columns, including the bodies of other triggers, do
// not fire it.
func (b *CreateTriggerBuilder) Of(columns ...string) *CreateTriggerBuilder {
	b.of = append(b.of, columns...)
	return b
}

// Body appends a statement to the trigger body.
func (b *CreateTriggerBuilder) Body(stmt string) *CreateTriggerBuilder {
	b.body = append(b.body, stmt)
	return b
}

// IfNotExists adds IF NOT EXISTS.
func (b *CreateTriggerBuilder) IfNotExists() *CreateTriggerBuilder {
	b.ifNotExists = true
	return b
}

// SQL renders the statement.
func (b *CreateTriggerBuilder) SQL() (string, error) {
	if b.name == "" || b.table == "" || b.event == "" || len(b.body) == 0 {
		return "", fmt.Errorf("%w: trigger needs a name, an event, a table and a body", ErrInvalidDDL)
	}
	if len(b.of) > 0 && b.event != EventUpdate {
		return "", fmt.Errorf("%w: column list on a %s trigger", ErrInvalidDDL, b.event)
	}
	var sb strings.Builder
	sb.WriteString("create trigger ")
	if b.ifNotExists {
		sb.WriteString("if not exists ")
	}
	fmt.Fprintf(&sb, "%s after %s ", quote(b.name), b.event)
	if len(b.of) > 0 {
		fmt.Fprintf(&sb, "of %s ", quoteList(b.of))
	}
	fmt.Fprintf(&sb, "on %s begin ", quote(b.table))
	for _, stmt := range b.body {
		sb.WriteString(strings.TrimSuffix(strings.TrimSpace(stmt), ";"))
		sb.WriteString("; ")
	}
	sb.WriteString("end")
	return sb.String(), nil
}

// TouchColumn returns the body statement of a timestamp trigger: it sets
// column to the local time on the row identified by key.
func TouchColumn(table, column, key string) string {
	return fmt.Sprintf("update %s set %s = datetime('now','localtime') where %s = NEW.%s",
		quote(table), quote(column), quote(key), quote(key))
}

// Literal renders a storage value as an SQL literal.
func Literal(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "null", nil
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'", nil
	case []byte:
		return "X'" + strings.ToUpper(hex.EncodeToString(x)) + "'", nil
	case bool:
		if x {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return formatFloat(float64(x))
	case float64:
		return formatFloat(x)
	default:
		return "", fmt.Errorf("%w: no literal form for %T", ErrInvalidDDL, v)
	}
}

func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v has no literal form", ErrInvalidDDL, f)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quote(n)
	}
	return strings.Join(quoted, ", ")
}
