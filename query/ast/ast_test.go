package ast_test

import (
	"errors"
	"testing"

	"github.com/satishbabariya/litedb/query/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSelect() *ast.SelectQuery {
	return &ast.SelectQuery{
		From:    "test",
		Columns: []string{"id", "person"},
		Where: &ast.Logical{
			Operator: ast.OpAND,
			Operands: []ast.Node{
				&ast.BinaryOperation{Left: &ast.Reference{Column: "person"}, Operator: ast.OpEquals, Right: &ast.Value{Value: "a"}},
				&ast.BinaryOperation{
					Left:     &ast.Reference{Column: "id"},
					Operator: ast.OpIn,
					Right:    &ast.ValueList{Values: []ast.Node{&ast.Value{Value: 1}, &ast.Value{Value: 2}}},
				},
			},
		},
		OrderBy: []*ast.OrderBy{{Column: "id", Direction: ast.SortDesc}},
		Limit:   &ast.Value{Value: 10},
	}
}

func TestRewrite_IdentityPreservesTree(t *testing.T) {
	in := sampleSelect()

	out, err := ast.Rewrite(in, func(n ast.Node) (ast.Node, error) { return n, nil })
	require.NoError(t, err)

	assert.Equal(t, in, out)
	assert.NotSame(t, in, out)
}

func TestRewrite_ReplacesValuesWithoutMutatingInput(t *testing.T) {
	in := sampleSelect()

	out, err := ast.Rewrite(in, func(n ast.Node) (ast.Node, error) {
		if v, ok := n.(*ast.Value); ok {
			return &ast.Value{Value: []any{v.Value}}, nil
		}
		return n, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []any{"a", 1, 2, 10}, ast.Values(in))
	assert.Equal(t, []any{[]any{"a"}, []any{1}, []any{2}, []any{10}}, ast.Values(out))

	sel := out.(*ast.SelectQuery)
	assert.Equal(t, "test", sel.From)
	assert.Equal(t, []string{"id", "person"}, sel.Columns)
	assert.Equal(t, in.OrderBy, sel.OrderBy)
}

func TestRewrite_InsertUpdateRaw(t *testing.T) {
	roots := []ast.RootNode{
		&ast.InsertQuery{
			Into:    "test",
			Columns: []string{"a", "b"},
			Rows:    [][]ast.Node{{&ast.Value{Value: 1}, &ast.Value{Value: 2}}, {&ast.Value{Value: 3}, &ast.Value{Value: 4}}},
		},
		&ast.UpdateQuery{
			Table: "test",
			Set:   []*ast.Assignment{{Column: "a", Value: &ast.Value{Value: 1}}},
			Where: &ast.BinaryOperation{Left: &ast.Reference{Column: "id"}, Operator: ast.OpEquals, Right: &ast.Value{Value: 2}},
		},
		&ast.DeleteQuery{
			From:  "test",
			Where: &ast.Not{Operand: &ast.IsNull{Operand: &ast.Reference{Column: "a"}}},
		},
		&ast.RawQuery{SQL: "select ?", Parameters: []ast.Node{&ast.Value{Value: 1}}},
	}

	for _, root := range roots {
		t.Run(string(root.Kind()), func(t *testing.T) {
			count := 0
			out, err := ast.RewriteRoot(root, func(n ast.Node) (ast.Node, error) {
				if _, ok := n.(*ast.Value); ok {
					count++
				}
				return n, nil
			})
			require.NoError(t, err)
			assert.Equal(t, root, out)
			assert.Equal(t, len(ast.Values(root)), count)
		})
	}
}

func TestRewrite_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := ast.Rewrite(sampleSelect(), func(n ast.Node) (ast.Node, error) {
		if _, ok := n.(*ast.Value); ok {
			return nil, boom
		}
		return n, nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestRewriteRoot_RejectsIncompatibleReplacement(t *testing.T) {
	_, err := ast.RewriteRoot(sampleSelect(), func(n ast.Node) (ast.Node, error) {
		if _, ok := n.(*ast.OrderBy); ok {
			return &ast.Value{Value: 1}, nil
		}
		return n, nil
	})
	assert.ErrorIs(t, err, ast.ErrNodeType)
}

func TestReturnsRows(t *testing.T) {
	assert.True(t, ast.ReturnsRows(&ast.SelectQuery{From: "t"}))
	assert.False(t, ast.ReturnsRows(&ast.InsertQuery{Into: "t"}))
	assert.True(t, ast.ReturnsRows(&ast.InsertQuery{Into: "t", Returning: []string{"id"}}))
	assert.False(t, ast.ReturnsRows(&ast.RawQuery{SQL: "select 1"}))
	assert.True(t, ast.KindSelect.IsRead())
	assert.False(t, ast.KindInsert.IsRead())
}
