package sqlgen_test

import (
	"testing"

	"github.com/satishbabariya/litedb/query/ast"
	"github.com/satishbabariya/litedb/query/sqlgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eq(column string, value any) ast.Node {
	return &ast.BinaryOperation{Left: &ast.Reference{Column: column}, Operator: ast.OpEquals, Right: &ast.Value{Value: value}}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		root     ast.RootNode
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "select all",
			root:    &ast.SelectQuery{From: "test"},
			wantSQL: "select * from `test`",
		},
		{
			name: "select with where, order and paging",
			root: &ast.SelectQuery{
				From:    "test",
				Columns: []string{"id", "person"},
				Where: &ast.Logical{Operator: ast.OpOR, Operands: []ast.Node{
					eq("person", `{"name":"1"}`),
					&ast.BinaryOperation{
						Left:     &ast.Reference{Column: "id"},
						Operator: ast.OpIn,
						Right:    &ast.ValueList{Values: []ast.Node{&ast.Value{Value: 1}, &ast.Value{Value: 2}}},
					},
				}},
				OrderBy: []*ast.OrderBy{{Column: "id", Direction: ast.SortDesc}},
				Limit:   &ast.Value{Value: 10},
				Offset:  &ast.Value{Value: 5},
			},
			wantSQL:  "select `id`, `person` from `test` where (`person` = ? or `id` in (?, ?)) order by `id` desc limit ? offset ?",
			wantArgs: []any{`{"name":"1"}`, 1, 2, 10, 5},
		},
		{
			name:     "offset without limit",
			root:     &ast.SelectQuery{From: "test", Offset: &ast.Value{Value: 3}},
			wantSQL:  "select * from `test` limit -1 offset ?",
			wantArgs: []any{3},
		},
		{
			name: "insert multiple rows",
			root: &ast.InsertQuery{
				Into:    "test",
				Columns: []string{"gender", "person"},
				Rows: [][]ast.Node{
					{&ast.Value{Value: "false"}, &ast.Value{Value: nil}},
					{&ast.Value{Value: "true"}, &ast.Value{Value: `{"name":"a"}`}},
				},
				Returning: []string{"id"},
			},
			wantSQL:  "insert into `test` (`gender`, `person`) values (?, ?), (?, ?) returning `id`",
			wantArgs: []any{"false", nil, "true", `{"name":"a"}`},
		},
		{
			name:    "insert default values",
			root:    &ast.InsertQuery{Into: "test"},
			wantSQL: "insert into `test` default values",
		},
		{
			name: "update",
			root: &ast.UpdateQuery{
				Table: "test",
				Set:   []*ast.Assignment{{Column: "gender", Value: &ast.Value{Value: "true"}}},
				Where: eq("id", 1),
			},
			wantSQL:  "update `test` set `gender` = ? where `id` = ?",
			wantArgs: []any{"true", 1},
		},
		{
			name: "delete with negated null check",
			root: &ast.DeleteQuery{
				From:      "test",
				Where:     &ast.Not{Operand: &ast.IsNull{Operand: &ast.Reference{Column: "person"}, Negated: true}},
				Returning: []string{"*"},
			},
			wantSQL: "delete from `test` where not (`person` is not null) returning *",
		},
		{
			name:     "raw",
			root:     &ast.RawQuery{SQL: "select ? as v", Parameters: []ast.Node{&ast.Value{Value: "x"}}},
			wantSQL:  "select ? as v",
			wantArgs: []any{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := sqlgen.Compile(tt.root)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, q.SQL)
			assert.Equal(t, tt.wantArgs, q.Args)
		})
	}
}

func TestCompile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		root ast.RootNode
	}{
		{"nil", nil},
		{"select without table", &ast.SelectQuery{}},
		{"row width mismatch", &ast.InsertQuery{Into: "t", Columns: []string{"a", "b"}, Rows: [][]ast.Node{{&ast.Value{Value: 1}}}}},
		{"update without set", &ast.UpdateQuery{Table: "t"}},
		{"empty logical group", &ast.DeleteQuery{From: "t", Where: &ast.Logical{Operator: ast.OpAND}}},
		{"raw parameter not a value", &ast.RawQuery{SQL: "select ?", Parameters: []ast.Node{&ast.Reference{Column: "a"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sqlgen.Compile(tt.root)
			assert.ErrorIs(t, err, sqlgen.ErrInvalidQuery)
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`person`", sqlgen.QuoteIdentifier("person"))
	assert.Equal(t, "`we``ird`", sqlgen.QuoteIdentifier("we`ird"))
	assert.Equal(t, "`say \"hi\"`", sqlgen.QuoteIdentifier(`say "hi"`))
}
