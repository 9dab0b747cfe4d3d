// Package sqlgen generates SQLite SQL from query trees.
package sqlgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/satishbabariya/litedb/query"
	"github.com/satishbabariya/litedb/query/ast"
)

// ErrInvalidQuery is returned for query trees that cannot be compiled.
var ErrInvalidQuery = errors.New("invalid query")

// Compile compiles a statement into SQL text and positional arguments.
func Compile(root ast.RootNode) (*query.Query, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil statement", ErrInvalidQuery)
	}

	g := &generator{}
	var err error
	switch n := root.(type) {
	case *ast.SelectQuery:
		err = g.selectQuery(n)
	case *ast.InsertQuery:
		err = g.insertQuery(n)
	case *ast.UpdateQuery:
		err = g.updateQuery(n)
	case *ast.DeleteQuery:
		err = g.deleteQuery(n)
	case *ast.RawQuery:
		err = g.rawQuery(n)
	default:
		err = fmt.Errorf("%w: unsupported statement %s", ErrInvalidQuery, root.Kind())
	}
	if err != nil {
		return nil, err
	}

	return &query.Query{
		SQL:  g.sb.String(),
		Args: g.args,
	}, nil
}

type generator struct {
	sb   strings.Builder
	args []any
}

func (g *generator) write(s ...string) {
	for _, part := range s {
		g.sb.WriteString(part)
	}
}

func (g *generator) selectQuery(q *ast.SelectQuery) error {
	if q.From == "" {
		return fmt.Errorf("%w: select without table", ErrInvalidQuery)
	}

	g.write("select ")
	if q.Distinct {
		g.write("distinct ")
	}
	if len(q.Columns) == 0 {
		g.write("*")
	} else {
		g.write(quoteList(q.Columns))
	}
	g.write(" from ", QuoteIdentifier(q.From))

	if err := g.where(q.Where); err != nil {
		return err
	}

	if len(q.OrderBy) > 0 {
		parts := make([]string, len(q.OrderBy))
		for i, ob := range q.OrderBy {
			direction := "asc"
			if ob.Direction == ast.SortDesc {
				direction = "desc"
			}
			parts[i] = QuoteIdentifier(ob.Column) + " " + direction
		}
		g.write(" order by ", strings.Join(parts, ", "))
	}

	if q.Limit != nil {
		g.write(" limit ")
		if err := g.expr(q.Limit); err != nil {
			return err
		}
	}
	if q.Offset != nil {
		if q.Limit == nil {
			// SQLite only accepts OFFSET after LIMIT.
			g.write(" limit -1")
		}
		g.write(" offset ")
		if err := g.expr(q.Offset); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) insertQuery(q *ast.InsertQuery) error {
	if q.Into == "" {
		return fmt.Errorf("%w: insert without table", ErrInvalidQuery)
	}

	g.write("insert into ", QuoteIdentifier(q.Into))

	if len(q.Columns) == 0 {
		g.write(" default values")
	} else {
		if len(q.Rows) == 0 {
			return fmt.Errorf("%w: insert into %s has columns but no rows", ErrInvalidQuery, q.Into)
		}
		g.write(" (", quoteList(q.Columns), ") values ")
		for i, row := range q.Rows {
			if len(row) != len(q.Columns) {
				return fmt.Errorf("%w: insert into %s row %d has %d values for %d columns",
					ErrInvalidQuery, q.Into, i, len(row), len(q.Columns))
			}
			if i > 0 {
				g.write(", ")
			}
			g.write("(")
			for j, v := range row {
				if j > 0 {
					g.write(", ")
				}
				if err := g.expr(v); err != nil {
					return err
				}
			}
			g.write(")")
		}
	}

	g.returning(q.Returning)
	return nil
}

func (g *generator) updateQuery(q *ast.UpdateQuery) error {
	if q.Table == "" {
		return fmt.Errorf("%w: update without table", ErrInvalidQuery)
	}
	if len(q.Set) == 0 {
		return fmt.Errorf("%w: update %s sets no columns", ErrInvalidQuery, q.Table)
	}

	g.write("update ", QuoteIdentifier(q.Table), " set ")
	for i, a := range q.Set {
		if i > 0 {
			g.write(", ")
		}
		g.write(QuoteIdentifier(a.Column), " = ")
		if err := g.expr(a.Value); err != nil {
			return err
		}
	}

	if err := g.where(q.Where); err != nil {
		return err
	}
	g.returning(q.Returning)
	return nil
}

func (g *generator) deleteQuery(q *ast.DeleteQuery) error {
	if q.From == "" {
		return fmt.Errorf("%w: delete without table", ErrInvalidQuery)
	}

	g.write("delete from ", QuoteIdentifier(q.From))
	if err := g.where(q.Where); err != nil {
		return err
	}
	g.returning(q.Returning)
	return nil
}

func (g *generator) rawQuery(q *ast.RawQuery) error {
	if strings.TrimSpace(q.SQL) == "" {
		return fmt.Errorf("%w: empty raw statement", ErrInvalidQuery)
	}
	g.write(q.SQL)
	for i, p := range q.Parameters {
		v, ok := p.(*ast.Value)
		if !ok {
			return fmt.Errorf("%w: raw parameter %d is a %s, not a value", ErrInvalidQuery, i, p.Kind())
		}
		g.args = append(g.args, v.Value)
	}
	return nil
}

func (g *generator) where(n ast.Node) error {
	if n == nil {
		return nil
	}
	g.write(" where ")
	return g.expr(n)
}

func (g *generator) returning(columns []string) {
	if len(columns) == 0 {
		return
	}
	if len(columns) == 1 && columns[0] == "*" {
		g.write(" returning *")
		return
	}
	g.write(" returning ", quoteList(columns))
}

func (g *generator) expr(n ast.Node) error {
	switch e := n.(type) {
	case *ast.Value:
		g.write("?")
		g.args = append(g.args, e.Value)

	case *ast.Reference:
		g.write(QuoteIdentifier(e.Column))

	case *ast.ValueList:
		g.write("(")
		for i, v := range e.Values {
			if i > 0 {
				g.write(", ")
			}
			if err := g.expr(v); err != nil {
				return err
			}
		}
		g.write(")")

	case *ast.BinaryOperation:
		if err := g.expr(e.Left); err != nil {
			return err
		}
		g.write(" ", string(e.Operator), " ")
		return g.expr(e.Right)

	case *ast.Logical:
		if len(e.Operands) == 0 {
			return fmt.Errorf("%w: empty %s group", ErrInvalidQuery, e.Operator)
		}
		op := " and "
		if e.Operator == ast.OpOR {
			op = " or "
		}
		g.write("(")
		for i, operand := range e.Operands {
			if i > 0 {
				g.write(op)
			}
			if err := g.expr(operand); err != nil {
				return err
			}
		}
		g.write(")")

	case *ast.Not:
		g.write("not (")
		if err := g.expr(e.Operand); err != nil {
			return err
		}
		g.write(")")

	case *ast.IsNull:
		if err := g.expr(e.Operand); err != nil {
			return err
		}
		if e.Negated {
			g.write(" is not null")
		} else {
			g.write(" is null")
		}

	case nil:
		return fmt.Errorf("%w: missing expression", ErrInvalidQuery)

	default:
		return fmt.Errorf("%w: %s is not an expression", ErrInvalidQuery, n.Kind())
	}
	return nil
}

// QuoteIdentifier quotes a table or column name for SQLite. Backticks are
// used because SQLite reads an unknown double-quoted name as a string
// literal, which would let a misspelled column pass silently.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}
