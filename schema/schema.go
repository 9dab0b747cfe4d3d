// Package schema describes tables declaratively: columns with a logical type,
// primary/unique/index constraints and an optional timestamp policy.
package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTable is returned when a table description breaks one of its invariants.
	ErrInvalidTable = errors.New("invalid table description")

	// ErrUnknownColumnType is returned when a column type name is not recognized.
	ErrUnknownColumnType = errors.New("unknown column type")
)

// ColumnType is the logical type of a column.
type ColumnType string

const (
	// String stores text.
	String ColumnType = "string"
	// Boolean stores true/false as its text encoding.
	Boolean ColumnType = "boolean"
	// Object stores objects and arrays as structural (JSON) text.
	Object ColumnType = "object"
	// Number stores integers.
	Number ColumnType = "number"
	// Date stores date/time values as text.
	Date ColumnType = "date"
	// Increments is an auto-incrementing integer primary key.
	Increments ColumnType = "increments"
)

// ColumnTypes lists every logical column type.
var ColumnTypes = []ColumnType{String, Boolean, Object, Number, Date, Increments}

// ParseColumnType resolves a type name into a ColumnType.
func ParseColumnType(name string) (ColumnType, error) {
	for _, t := range ColumnTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumnType, name)
}

// Affinity is the storage engine's native type category.
type Affinity string

const (
	// AffinityText is the TEXT storage class.
	AffinityText Affinity = "text"
	// AffinityInteger is the INTEGER storage class.
	AffinityInteger Affinity = "integer"
	// AffinityDate is the declared type of synthesized timestamp columns.
	AffinityDate Affinity = "date"
)

// Affinity maps the logical type onto its storage affinity.
func (t ColumnType) Affinity() Affinity {
	switch t {
	case Increments, Number:
		return AffinityInteger
	case String, Boolean, Object, Date:
		return AffinityText
	default:
		return AffinityText
	}
}

// Valid reports whether t is one of the known column types.
func (t ColumnType) Valid() bool {
	_, err := ParseColumnType(string(t))
	return err == nil
}

// Column describes a single declared column.
type Column struct {
	Name    string
	Type    ColumnType
	NotNull bool

	// Default is the column default value; nil means no default.
	Default any
}

// Timestamp overrides the names of the synthesized timestamp columns.
// Empty fields keep the default names.
type Timestamp struct {
	Create string
	Update string
}

// Default timestamp column names.
const (
	DefaultCreateColumn = "createAt"
	DefaultUpdateColumn = "updateAt"
)

// Properties holds table-level constraints.
type Properties struct {
	// Primary is the primary key; one column or an ordered composite key.
	Primary []string

	// Unique lists unique constraints in declaration order.
	Unique [][]string

	// Index lists indexes in declaration order.
	Index [][]string

	// Timestamp enables trigger-maintained create/update columns when non-nil.
	Timestamp *Timestamp
}

// Table describes a table: its ordered columns and optional properties.
type Table struct {
	Name       string
	Columns    []Column
	Properties *Properties
}

// Column returns the declared column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// IncrementsColumn returns the auto-increment column, if any.
func (t *Table) IncrementsColumn() (string, bool) {
	for _, c := range t.Columns {
		if c.Type == Increments {
			return c.Name, true
		}
	}
	return "", false
}

// HasTimestamp reports whether the timestamp policy is enabled.
func (t *Table) HasTimestamp() bool {
	return t.Properties != nil && t.Properties.Timestamp != nil
}

// TimestampColumns returns the create and update column names.
func (t *Table) TimestampColumns() (create, update string) {
	create, update = DefaultCreateColumn, DefaultUpdateColumn
	if t.Properties == nil || t.Properties.Timestamp == nil {
		return create, update
	}
	if c := t.Properties.Timestamp.Create; c != "" {
		create = c
	}
	if u := t.Properties.Timestamp.Update; u != "" {
		update = u
	}
	return create, update
}

// IsTimestampColumn reports whether name is reserved for a timestamp column.
func (t *Table) IsTimestampColumn(name string) bool {
	create, update := t.TimestampColumns()
	return name == create || name == update
}

// Validate checks the table description invariants.
func (t *Table) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: table name is empty", ErrInvalidTable)
	}

	seen := make(map[string]bool, len(t.Columns))
	increments := 0
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: %s has a column without a name", ErrInvalidTable, t.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: %s.%s is declared twice", ErrInvalidTable, t.Name, c.Name)
		}
		seen[c.Name] = true
		if !c.Type.Valid() {
			return fmt.Errorf("%w: %s.%s: %w", ErrInvalidTable, t.Name, c.Name,
				fmt.Errorf("%w: %q", ErrUnknownColumnType, c.Type))
		}
		if c.Type == Increments {
			increments++
		}
	}
	if increments > 1 {
		return fmt.Errorf("%w: %s has %d increments columns, at most one is allowed", ErrInvalidTable, t.Name, increments)
	}

	if t.Properties == nil {
		return nil
	}
	if p := t.Properties.Primary; p != nil && len(p) == 0 {
		return fmt.Errorf("%w: %s declares an empty primary key", ErrInvalidTable, t.Name)
	}
	for _, u := range t.Properties.Unique {
		if len(u) == 0 {
			return fmt.Errorf("%w: %s declares an empty unique constraint", ErrInvalidTable, t.Name)
		}
	}
	for _, i := range t.Properties.Index {
		if len(i) == 0 {
			return fmt.Errorf("%w: %s declares an empty index", ErrInvalidTable, t.Name)
		}
	}
	return nil
}

// ValidateAll validates every table and rejects duplicate table names.
func ValidateAll(tables []Table) error {
	seen := make(map[string]bool, len(tables))
	for i := range tables {
		if err := tables[i].Validate(); err != nil {
			return err
		}
		if seen[tables[i].Name] {
			return fmt.Errorf("%w: table %s is declared twice", ErrInvalidTable, tables[i].Name)
		}
		seen[tables[i].Name] = true
	}
	return nil
}
