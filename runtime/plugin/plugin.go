// Package plugin defines the extension points around query execution and the
// plugin that stores rich values in SQLite.
package plugin

import (
	"context"
	"errors"

	"github.com/satishbabariya/litedb/query"
	"github.com/satishbabariya/litedb/query/ast"
	"github.com/satishbabariya/litedb/runtime/codec"
)

// ErrNoQuery is returned when a plugin is asked to transform a nil tree.
var ErrNoQuery = errors.New("plugin: no query to transform")

// TransformQueryArgs is passed to Plugin.TransformQuery.
type TransformQueryArgs struct {
	QueryID *QueryID
	Node    ast.RootNode
}

// TransformResultArgs is passed to Plugin.TransformResult.
type TransformResultArgs struct {
	QueryID *QueryID
	Result  *query.Result
}

// Plugin hooks into every query: TransformQuery runs before compilation and
// TransformResult after execution, both with the same QueryID.
type Plugin interface {
	TransformQuery(args TransformQueryArgs) (ast.RootNode, error)
	TransformResult(ctx context.Context, args TransformResultArgs) (*query.Result, error)
}

// SerializeParameters returns a copy of node in which every bound value is
// replaced by s(value). The input is left untouched.
func SerializeParameters(node ast.Node, s codec.Serializer) (ast.Node, error) {
	return ast.Rewrite(node, serializeValues(s))
}

func serializeValues(s codec.Serializer) ast.RewriteFunc {
	return func(n ast.Node) (ast.Node, error) {
		v, ok := n.(*ast.Value)
		if !ok {
			return n, nil
		}
		serialized, err := s(v.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Value{Value: serialized}, nil
	}
}
