package builder

import (
	"context"

	"github.com/satishbabariya/litedb/query"
	"github.com/satishbabariya/litedb/query/ast"
)

// SelectBuilder builds SELECT queries
type SelectBuilder struct {
	exec  Executor
	node  *ast.SelectQuery
	where *WhereBuilder
}

// Columns restricts the selected columns. No columns selects all.
func (b *SelectBuilder) Columns(columns ...string) *SelectBuilder {
	b.node.Columns = append(b.node.Columns, columns...)
	return b
}

// SelectAll selects every column.
func (b *SelectBuilder) SelectAll() *SelectBuilder {
	b.node.Columns = nil
	return b
}

// Distinct adds DISTINCT.
func (b *SelectBuilder) Distinct() *SelectBuilder {
	b.node.Distinct = true
	return b
}

// Where adds `column op value`, ANDed with the previous conditions.
func (b *SelectBuilder) Where(column string, op ast.Operator, value any) *SelectBuilder {
	b.whereBuilder().Where(column, op, value)
	return b
}

// WhereExpr adds an arbitrary condition, ANDed with the previous conditions.
func (b *SelectBuilder) WhereExpr(condition ast.Node) *SelectBuilder {
	b.whereBuilder().Expr(condition)
	return b
}

// OrderBy adds an ORDER BY clause
func (b *SelectBuilder) OrderBy(column string, direction ast.SortDirection) *SelectBuilder {
	b.node.OrderBy = append(b.node.OrderBy, &ast.OrderBy{Column: column, Direction: direction})
	return b
}

// Limit sets the LIMIT
func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.node.Limit = &ast.Value{Value: limit}
	return b
}

// Offset sets the OFFSET
func (b *SelectBuilder) Offset(offset int) *SelectBuilder {
	b.node.Offset = &ast.Value{Value: offset}
	return b
}

func (b *SelectBuilder) whereBuilder() *WhereBuilder {
	if b.where == nil {
		b.where = NewWhereBuilder()
	}
	return b.where
}

// Build returns a copy of the query tree.
func (b *SelectBuilder) Build() (ast.RootNode, error) {
	node := *b.node
	node.Columns = append([]string(nil), b.node.Columns...)
	node.OrderBy = append([]*ast.OrderBy(nil), b.node.OrderBy...)
	if b.where != nil {
		where, err := b.where.Build()
		if err != nil {
			return nil, err
		}
		node.Where = where
	}
	return &node, nil
}

// Execute runs the query and returns every row.
func (b *SelectBuilder) Execute(ctx context.Context) ([]query.Row, error) {
	res, err := execute(ctx, b.exec, b)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// ExecuteTakeFirst runs the query and returns the first row, or nil when the
// query matched nothing.
func (b *SelectBuilder) ExecuteTakeFirst(ctx context.Context) (query.Row, error) {
	res, err := execute(ctx, b.exec, b)
	if err != nil {
		return nil, err
	}
	return res.First(), nil
}
