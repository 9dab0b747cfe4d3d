// Package builder provides a fluent query builder API.
//
// Builders produce query trees (package ast); an Executor runs them. Builders
// created through the package-level functions have no executor and are only
// useful for compiling.
package builder

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/satishbabariya/litedb/query"
	"github.com/satishbabariya/litedb/query/ast"
)

var (
	// ErrNoExecutor is returned when executing a builder that has no executor.
	ErrNoExecutor = errors.New("builder: no executor")

	// ErrInvalidBuilder is returned when a builder was given inconsistent input.
	ErrInvalidBuilder = errors.New("builder: invalid query")
)

// Executor runs query trees.
type Executor interface {
	ExecuteQuery(ctx context.Context, root ast.RootNode) (*query.Result, error)
}

// RootBuilder is any builder that produces a complete statement.
type RootBuilder interface {
	Build() (ast.RootNode, error)
}

// Creator starts builders bound to an executor.
type Creator struct {
	exec Executor
}

// NewCreator creates a builder factory that executes through exec.
func NewCreator(exec Executor) *Creator {
	return &Creator{exec: exec}
}

// SelectFrom starts a SELECT on table.
func (c *Creator) SelectFrom(table string) *SelectBuilder {
	return &SelectBuilder{exec: c.exec, node: &ast.SelectQuery{From: table}}
}

// InsertInto starts an INSERT into table.
func (c *Creator) InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{exec: c.exec, node: &ast.InsertQuery{Into: table}}
}

// Update starts an UPDATE of table.
func (c *Creator) Update(table string) *UpdateBuilder {
	return &UpdateBuilder{exec: c.exec, node: &ast.UpdateQuery{Table: table}}
}

// DeleteFrom starts a DELETE from table.
func (c *Creator) DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{exec: c.exec, node: &ast.DeleteQuery{From: table}}
}

// Raw wraps a literal statement; args are bound to its ? placeholders.
func (c *Creator) Raw(sql string, args ...any) *RawBuilder {
	params := make([]ast.Node, len(args))
	for i, a := range args {
		params[i] = &ast.Value{Value: a}
	}
	return &RawBuilder{exec: c.exec, node: &ast.RawQuery{SQL: sql, Parameters: params}}
}

var unbound = &Creator{}

// SelectFrom starts an unbound SELECT.
func SelectFrom(table string) *SelectBuilder { return unbound.SelectFrom(table) }

// InsertInto starts an unbound INSERT.
func InsertInto(table string) *InsertBuilder { return unbound.InsertInto(table) }

// Update starts an unbound UPDATE.
func Update(table string) *UpdateBuilder { return unbound.Update(table) }

// DeleteFrom starts an unbound DELETE.
func DeleteFrom(table string) *DeleteBuilder { return unbound.DeleteFrom(table) }

// Raw starts an unbound raw statement.
func Raw(sql string, args ...any) *RawBuilder { return unbound.Raw(sql, args...) }

func execute(ctx context.Context, exec Executor, b RootBuilder) (*query.Result, error) {
	if exec == nil {
		return nil, ErrNoExecutor
	}
	root, err := b.Build()
	if err != nil {
		return nil, err
	}
	return exec.ExecuteQuery(ctx, root)
}

// Compare builds `column op value`. For in/not in, a slice value is expanded
// into a value list.
func Compare(column string, op ast.Operator, value any) ast.Node {
	var right ast.Node = &ast.Value{Value: value}
	if op == ast.OpIn || op == ast.OpNotIn {
		right = valueList(value)
	}
	return &ast.BinaryOperation{Left: &ast.Reference{Column: column}, Operator: op, Right: right}
}

// Eq builds `column = value`.
func Eq(column string, value any) ast.Node {
	return Compare(column, ast.OpEquals, value)
}

// In builds `column in (values...)`.
func In(column string, values ...any) ast.Node {
	return Compare(column, ast.OpIn, values)
}

// And joins conditions with AND.
func And(conditions ...ast.Node) ast.Node {
	return &ast.Logical{Operator: ast.OpAND, Operands: conditions}
}

// Or joins conditions with OR.
func Or(conditions ...ast.Node) ast.Node {
	return &ast.Logical{Operator: ast.OpOR, Operands: conditions}
}

// Not negates a condition.
func Not(condition ast.Node) ast.Node {
	return &ast.Not{Operand: condition}
}

// IsNull builds `column is null`.
func IsNull(column string) ast.Node {
	return &ast.IsNull{Operand: &ast.Reference{Column: column}}
}

// IsNotNull builds `column is not null`.
func IsNotNull(column string) ast.Node {
	return &ast.IsNull{Operand: &ast.Reference{Column: column}, Negated: true}
}

func valueList(value any) *ast.ValueList {
	list := &ast.ValueList{}
	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		list.Values = []ast.Node{&ast.Value{Value: value}}
		return list
	}
	if _, isBytes := value.([]byte); isBytes {
		list.Values = []ast.Node{&ast.Value{Value: value}}
		return list
	}
	list.Values = make([]ast.Node, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		list.Values[i] = &ast.Value{Value: rv.Index(i).Interface()}
	}
	return list
}

func validOperator(op ast.Operator) bool {
	for _, o := range ast.Operators {
		if o == op {
			return true
		}
	}
	return false
}

// WhereBuilder builds WHERE clauses
type WhereBuilder struct {
	conditions []ast.Node
	operator   ast.LogicalOperator
	err        error
}

// NewWhereBuilder creates a new WHERE builder
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{operator: ast.OpAND}
}

// Where adds `column op value`.
func (w *WhereBuilder) Where(column string, op ast.Operator, value any) *WhereBuilder {
	if !validOperator(op) {
		w.err = fmt.Errorf("%w: unknown operator %q", ErrInvalidBuilder, op)
		return w
	}
	w.conditions = append(w.conditions, Compare(column, op, value))
	return w
}

// Expr adds an arbitrary condition.
func (w *WhereBuilder) Expr(condition ast.Node) *WhereBuilder {
	if condition != nil {
		w.conditions = append(w.conditions, condition)
	}
	return w
}

// Equals adds an equality condition
func (w *WhereBuilder) Equals(column string, value any) *WhereBuilder {
	return w.Where(column, ast.OpEquals, value)
}

// NotEquals adds a not-equals condition
func (w *WhereBuilder) NotEquals(column string, value any) *WhereBuilder {
	return w.Where(column, ast.OpNotEquals, value)
}

// In adds an IN condition
func (w *WhereBuilder) In(column string, values ...any) *WhereBuilder {
	return w.Where(column, ast.OpIn, values)
}

// Like adds a LIKE condition
func (w *WhereBuilder) Like(column string, pattern string) *WhereBuilder {
	return w.Where(column, ast.OpLike, pattern)
}

// IsNull adds an IS NULL condition
func (w *WhereBuilder) IsNull(column string) *WhereBuilder {
	return w.Expr(IsNull(column))
}

// IsNotNull adds an IS NOT NULL condition
func (w *WhereBuilder) IsNotNull(column string) *WhereBuilder {
	return w.Expr(IsNotNull(column))
}

// SetOperator sets how conditions are combined (AND or OR)
func (w *WhereBuilder) SetOperator(op ast.LogicalOperator) *WhereBuilder {
	w.operator = op
	return w
}

// Build returns the combined condition, or nil when there is none.
func (w *WhereBuilder) Build() (ast.Node, error) {
	if w.err != nil {
		return nil, w.err
	}
	switch len(w.conditions) {
	case 0:
		return nil, nil
	case 1:
		return w.conditions[0], nil
	default:
		return &ast.Logical{Operator: w.operator, Operands: append([]ast.Node(nil), w.conditions...)}, nil
	}
}
