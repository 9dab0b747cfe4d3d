package builder

import (
	"context"
	"fmt"
	"sort"

	"github.com/satishbabariya/litedb/query"
	"github.com/satishbabariya/litedb/query/ast"
)

// UpdateBuilder builds UPDATE queries
type UpdateBuilder struct {
	exec  Executor
	node  *ast.UpdateQuery
	where *WhereBuilder
	err   error
}

// Set assigns a value to a column.
func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	for _, a := range b.node.Set {
		if a.Column == column {
			b.err = fmt.Errorf("%w: column %q set twice", ErrInvalidBuilder, column)
			return b
		}
	}
	b.node.Set = append(b.node.Set, &ast.Assignment{Column: column, Value: &ast.Value{Value: value}})
	return b
}

// SetMap assigns several columns. Columns are applied in name order.
func (b *UpdateBuilder) SetMap(values map[string]any) *UpdateBuilder {
	columns := make([]string, 0, len(values))
	for c := range values {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	for _, c := range columns {
		b.Set(c, values[c])
	}
	return b
}

// Where adds `column op value`, ANDed with the previous conditions.
func (b *UpdateBuilder) Where(column string, op ast.Operator, value any) *UpdateBuilder {
	b.whereBuilder().Where(column, op, value)
	return b
}

// WhereExpr adds an arbitrary condition.
func (b *UpdateBuilder) WhereExpr(condition ast.Node) *UpdateBuilder {
	b.whereBuilder().Expr(condition)
	return b
}

// Returning adds a RETURNING clause.
func (b *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	b.node.Returning = append(b.node.Returning, columns...)
	return b
}

func (b *UpdateBuilder) whereBuilder() *WhereBuilder {
	if b.where == nil {
		b.where = NewWhereBuilder()
	}
	return b.where
}

// Build returns a copy of the query tree.
func (b *UpdateBuilder) Build() (ast.RootNode, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.node.Set) == 0 {
		return nil, fmt.Errorf("%w: update %s sets no columns", ErrInvalidBuilder, b.node.Table)
	}
	node := *b.node
	node.Set = append([]*ast.Assignment(nil), b.node.Set...)
	node.Returning = append([]string(nil), b.node.Returning...)
	if b.where != nil {
		where, err := b.where.Build()
		if err != nil {
			return nil, err
		}
		node.Where = where
	}
	return &node, nil
}

// Execute runs the update.
func (b *UpdateBuilder) Execute(ctx context.Context) (*query.Result, error) {
	return execute(ctx, b.exec, b)
}
