package builder

import (
	"context"
	"fmt"
	"sort"

	"github.com/satishbabariya/litedb/query"
	"github.com/satishbabariya/litedb/query/ast"
)

// InsertBuilder builds INSERT queries
type InsertBuilder struct {
	exec Executor
	node *ast.InsertQuery
	err  error
}

// Values adds rows. Every row must set the same columns; an empty row inserts
// default values.
func (b *InsertBuilder) Values(rows ...map[string]any) *InsertBuilder {
	for _, row := range rows {
		b.addRow(row)
	}
	return b
}

func (b *InsertBuilder) addRow(row map[string]any) {
	if b.err != nil {
		return
	}

	columns := make([]string, 0, len(row))
	for c := range row {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	if len(b.node.Rows) == 0 && b.node.Columns == nil {
		b.node.Columns = columns
	} else if !sameColumns(b.node.Columns, columns) {
		b.err = fmt.Errorf("%w: insert into %s rows set different columns", ErrInvalidBuilder, b.node.Into)
		return
	}

	if len(columns) == 0 {
		// default values
		b.node.Rows = append(b.node.Rows, nil)
		return
	}

	values := make([]ast.Node, len(columns))
	for i, c := range columns {
		values[i] = &ast.Value{Value: row[c]}
	}
	b.node.Rows = append(b.node.Rows, values)
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Returning adds a RETURNING clause.
func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.node.Returning = append(b.node.Returning, columns...)
	return b
}

// Build returns a copy of the query tree.
func (b *InsertBuilder) Build() (ast.RootNode, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.node.Rows) == 0 {
		return nil, fmt.Errorf("%w: insert into %s has no rows", ErrInvalidBuilder, b.node.Into)
	}
	node := *b.node
	if len(node.Columns) == 0 {
		if len(node.Rows) > 1 {
			return nil, fmt.Errorf("%w: insert into %s: default values takes a single row", ErrInvalidBuilder, b.node.Into)
		}
		node.Columns = nil
		node.Rows = nil
	} else {
		node.Columns = append([]string(nil), b.node.Columns...)
		node.Rows = append([][]ast.Node(nil), b.node.Rows...)
	}
	node.Returning = append([]string(nil), b.node.Returning...)
	return &node, nil
}

// Execute runs the insert.
func (b *InsertBuilder) Execute(ctx context.Context) (*query.Result, error) {
	return execute(ctx, b.exec, b)
}
