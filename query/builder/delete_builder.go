package builder

import (
	"context"

	"github.com/satishbabariya/litedb/query"
	"github.com/satishbabariya/litedb/query/ast"
)

// DeleteBuilder builds DELETE queries
type DeleteBuilder struct {
	exec  Executor
	node  *ast.DeleteQuery
	where *WhereBuilder
}

// Where adds `column op value`, ANDed with the previous conditions.
func (b *DeleteBuilder) Where(column string, op ast.Operator, value any) *DeleteBuilder {
	b.whereBuilder().Where(column, op, value)
	return b
}

// WhereExpr adds an arbitrary condition.
func (b *DeleteBuilder) WhereExpr(condition ast.Node) *DeleteBuilder {
	b.whereBuilder().Expr(condition)
	return b
}

// Returning adds a RETURNING clause.
func (b *DeleteBuilder) Returning(columns ...string) *DeleteBuilder {
	b.node.Returning = append(b.node.Returning, columns...)
	return b
}

func (b *DeleteBuilder) whereBuilder() *WhereBuilder {
	if b.where == nil {
		b.where = NewWhereBuilder()
	}
	return b.where
}

// Build returns a copy of the query tree.
func (b *DeleteBuilder) Build() (ast.RootNode, error) {
	node := *b.node
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

// Execute runs the delete.
func (b *DeleteBuilder) Execute(ctx context.Context) (*query.Result, error) {
	return execute(ctx, b.exec, b)
}

// RawBuilder wraps a literal statement.
type RawBuilder struct {
	exec Executor
	node *ast.RawQuery
}

// Build returns a copy of the query tree.
func (b *RawBuilder) Build() (ast.RootNode, error) {
	node := *b.node
	node.Parameters = append([]ast.Node(nil), b.node.Parameters...)
	return &node, nil
}

// Execute runs the statement.
func (b *RawBuilder) Execute(ctx context.Context) (*query.Result, error) {
	return execute(ctx, b.exec, b)
}
