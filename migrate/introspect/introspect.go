// Package introspect reads the schema SQLite actually holds.
package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	querysql "github.com/satishbabariya/litedb/query/sqlgen"
)

// Querier runs queries. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DatabaseSchema represents the introspected database schema
type DatabaseSchema struct {
	Tables   []Table
	Triggers []Trigger
}

// Table returns the table with the given name.
func (s *DatabaseSchema) Table(name string) (*Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// Table represents a database table
type Table struct {
	Name    string
	Columns []Column
	Indexes []Index
}

// Column represents a table column
type Column struct {
	Name         string
	Type         string
	NotNull      bool
	DefaultValue *string
	PrimaryKey   bool
}

// Index represents a database index
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
	// Origin is "c" for CREATE INDEX, "u" for UNIQUE and "pk" for PRIMARY KEY.
	Origin string
}

// Trigger represents a database trigger
type Trigger struct {
	Name      string
	TableName string
	SQL       string
}

// Introspect reads all user tables, their columns and indexes, and all
// triggers.
func Introspect(ctx context.Context, q Querier) (*DatabaseSchema, error) {
	tables, err := introspectTables(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect tables: %w", err)
	}
	for i := range tables {
		if tables[i].Columns, err = introspectColumns(ctx, q, tables[i].Name); err != nil {
			return nil, fmt.Errorf("failed to introspect columns for %s: %w", tables[i].Name, err)
		}
		if tables[i].Indexes, err = introspectIndexes(ctx, q, tables[i].Name); err != nil {
			return nil, fmt.Errorf("failed to introspect indexes for %s: %w", tables[i].Name, err)
		}
	}

	triggers, err := introspectTriggers(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect triggers: %w", err)
	}
	return &DatabaseSchema{Tables: tables, Triggers: triggers}, nil
}

func introspectTables(ctx context.Context, q Querier) ([]Table, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func introspectColumns(ctx context.Context, q Querier, table string) ([]Column, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", querysql.QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var (
			cid       int
			col       Column
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.NotNull = notNull == 1
		col.PrimaryKey = pk > 0
		if dfltValue.Valid {
			col.DefaultValue = &dfltValue.String
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func introspectIndexes(ctx context.Context, q Querier, table string) ([]Index, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%s)", querysql.QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}

	var indexes []Index
	for rows.Next() {
		var (
			seq     int
			idx     Index
			unique  int
			partial int
		)
		if err := rows.Scan(&seq, &idx.Name, &unique, &idx.Origin, &partial); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		idx.IsUnique = unique == 1
		indexes = append(indexes, idx)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	// The pool may hold a single connection, so columns are read only after
	// the index list is closed.
	for i := range indexes {
		cols, err := indexColumns(ctx, q, indexes[i].Name)
		if err != nil {
			return nil, fmt.Errorf("failed to read columns of index %s: %w", indexes[i].Name, err)
		}
		indexes[i].Columns = cols
	}

	sort.Slice(indexes, func(a, b int) bool { return indexes[a].Name < indexes[b].Name })
	return indexes, nil
}

func indexColumns(ctx context.Context, q Querier, index string) ([]string, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%s)", querysql.QuoteIdentifier(index)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			seqno, cid int
			name       sql.NullString
		)
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		if name.Valid {
			columns = append(columns, name.String)
		}
	}
	return columns, rows.Err()
}

func introspectTriggers(ctx context.Context, q Querier) ([]Trigger, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT name, tbl_name, sql
		FROM sqlite_master
		WHERE type = 'trigger'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var triggers []Trigger
	for rows.Next() {
		var t Trigger
		if err := rows.Scan(&t.Name, &t.TableName, &t.SQL); err != nil {
			return nil, fmt.Errorf("failed to scan trigger: %w", err)
		}
		triggers = append(triggers, t)
	}
	return triggers, rows.Err()
}
