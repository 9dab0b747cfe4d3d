package ast

import (
	"errors"
	"fmt"
)

// ErrNodeType is returned when a rewrite replaces a node with one of a type
// its parent cannot hold.
var ErrNodeType = errors.New("ast: rewrite produced an incompatible node")

// RewriteFunc maps a node (whose children are already rewritten) to its
// replacement. Returning the node unchanged keeps it.
type RewriteFunc func(Node) (Node, error)

// Rewrite rebuilds the tree bottom-up, calling fn on every node after its
// children. The input tree is never modified; every container node in the
// result is a fresh copy.
func Rewrite(node Node, fn RewriteFunc) (Node, error) {
	if node == nil {
		return nil, nil
	}

	var copied Node
	switch n := node.(type) {
	case *SelectQuery:
		c := *n
		c.Columns = cloneStrings(n.Columns)
		var err error
		if c.Where, err = Rewrite(n.Where, fn); err != nil {
			return nil, err
		}
		if c.OrderBy, err = rewriteEach(n.OrderBy, fn); err != nil {
			return nil, err
		}
		if c.Limit, err = Rewrite(n.Limit, fn); err != nil {
			return nil, err
		}
		if c.Offset, err = Rewrite(n.Offset, fn); err != nil {
			return nil, err
		}
		copied = &c

	case *InsertQuery:
		c := *n
		c.Columns = cloneStrings(n.Columns)
		c.Returning = cloneStrings(n.Returning)
		if n.Rows != nil {
			c.Rows = make([][]Node, len(n.Rows))
			for i, row := range n.Rows {
				values, err := rewriteNodes(row, fn)
				if err != nil {
					return nil, err
				}
				c.Rows[i] = values
			}
		}
		copied = &c

	case *UpdateQuery:
		c := *n
		c.Returning = cloneStrings(n.Returning)
		var err error
		if c.Set, err = rewriteEach(n.Set, fn); err != nil {
			return nil, err
		}
		if c.Where, err = Rewrite(n.Where, fn); err != nil {
			return nil, err
		}
		copied = &c

	case *DeleteQuery:
		c := *n
		c.Returning = cloneStrings(n.Returning)
		var err error
		if c.Where, err = Rewrite(n.Where, fn); err != nil {
			return nil, err
		}
		copied = &c

	case *RawQuery:
		c := *n
		var err error
		if c.Parameters, err = rewriteNodes(n.Parameters, fn); err != nil {
			return nil, err
		}
		copied = &c

	case *Assignment:
		c := *n
		var err error
		if c.Value, err = Rewrite(n.Value, fn); err != nil {
			return nil, err
		}
		copied = &c

	case *ValueList:
		c := *n
		var err error
		if c.Values, err = rewriteNodes(n.Values, fn); err != nil {
			return nil, err
		}
		copied = &c

	case *BinaryOperation:
		c := *n
		var err error
		if c.Left, err = Rewrite(n.Left, fn); err != nil {
			return nil, err
		}
		if c.Right, err = Rewrite(n.Right, fn); err != nil {
			return nil, err
		}
		copied = &c

	case *Logical:
		c := *n
		var err error
		if c.Operands, err = rewriteNodes(n.Operands, fn); err != nil {
			return nil, err
		}
		copied = &c

	case *Not:
		c := *n
		var err error
		if c.Operand, err = Rewrite(n.Operand, fn); err != nil {
			return nil, err
		}
		copied = &c

	case *IsNull:
		c := *n
		var err error
		if c.Operand, err = Rewrite(n.Operand, fn); err != nil {
			return nil, err
		}
		copied = &c

	case *Value:
		c := *n
		copied = &c

	case *Reference:
		c := *n
		copied = &c

	case *OrderBy:
		c := *n
		copied = &c

	default:
		return nil, fmt.Errorf("ast: cannot rewrite node of type %T", node)
	}

	return fn(copied)
}

// RewriteRoot rewrites a statement and guarantees the result is still a statement.
func RewriteRoot(root RootNode, fn RewriteFunc) (RootNode, error) {
	out, err := Rewrite(root, fn)
	if err != nil {
		return nil, err
	}
	r, ok := out.(RootNode)
	if !ok {
		return nil, fmt.Errorf("%w: %s replaced by %T", ErrNodeType, root.Kind(), out)
	}
	return r, nil
}

func rewriteNodes(nodes []Node, fn RewriteFunc) ([]Node, error) {
	if nodes == nil {
		return nil, nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		r, err := Rewrite(n, fn)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func rewriteEach[T Node](nodes []T, fn RewriteFunc) ([]T, error) {
	if nodes == nil {
		return nil, nil
	}
	out := make([]T, len(nodes))
	for i, n := range nodes {
		r, err := Rewrite(n, fn)
		if err != nil {
			return nil, err
		}
		typed, ok := r.(T)
		if !ok {
			return nil, fmt.Errorf("%w: %s replaced by %T", ErrNodeType, n.Kind(), r)
		}
		out[i] = typed
	}
	return out, nil
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// Values returns the bound values of the tree in the order they are visited,
// which is also the order of their placeholders in compiled SQL.
func Values(node Node) []any {
	var values []any
	_, _ = Rewrite(node, func(n Node) (Node, error) {
		if v, ok := n.(*Value); ok {
			values = append(values, v.Value)
		}
		return n, nil
	})
	return values
}
