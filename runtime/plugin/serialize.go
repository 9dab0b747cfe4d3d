package plugin

import (
	"context"
	"fmt"

	"github.com/satishbabariya/litedb/query"
	"github.com/satishbabariya/litedb/query/ast"
	"github.com/satishbabariya/litedb/runtime/codec"
)

// SerializePlugin serializes every parameter on the way in and deserializes
// the rows of select queries on the way out.
type SerializePlugin struct {
	serializer   codec.Serializer
	deserializer codec.Deserializer
	markers      *MarkerStore
}

// SerializeOption configures a SerializePlugin.
type SerializeOption func(*SerializePlugin)

// WithSerializer replaces the default serializer.
func WithSerializer(s codec.Serializer) SerializeOption {
	return func(p *SerializePlugin) {
		if s != nil {
			p.serializer = s
		}
	}
}

// WithDeserializer replaces the default deserializer.
func WithDeserializer(d codec.Deserializer) SerializeOption {
	return func(p *SerializePlugin) {
		if d != nil {
			p.deserializer = d
		}
	}
}

// NewSerializePlugin creates the plugin with the codec defaults.
func NewSerializePlugin(opts ...SerializeOption) *SerializePlugin {
	p := &SerializePlugin{
		serializer:   codec.Serialize,
		deserializer: codec.Deserialize,
		markers:      NewMarkerStore(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Serializer returns the configured serializer.
func (p *SerializePlugin) Serializer() codec.Serializer {
	return p.serializer
}

// Markers exposes the per-query marker store.
func (p *SerializePlugin) Markers() *MarkerStore {
	return p.markers
}

// TransformQuery marks select queries as reads and serializes all parameters.
func (p *SerializePlugin) TransformQuery(args TransformQueryArgs) (ast.RootNode, error) {
	if args.Node == nil {
		return nil, ErrNoQuery
	}
	if args.Node.Kind().IsRead() {
		p.markers.Mark(args.QueryID, KindRead)
	} else {
		p.markers.Mark(args.QueryID, KindWrite)
	}

	root, err := ast.RewriteRoot(args.Node, serializeValues(p.serializer))
	if err != nil {
		return nil, fmt.Errorf("serialize parameters of %s: %w", args.Node.Kind(), err)
	}
	return root, nil
}

// TransformResult deserializes the rows of queries marked as reads. Other
// results are returned as they are.
func (p *SerializePlugin) TransformResult(_ context.Context, args TransformResultArgs) (*query.Result, error) {
	res := args.Result
	if res == nil || len(res.Rows) == 0 || p.markers.Kind(args.QueryID) != KindRead {
		return res, nil
	}

	out := *res
	out.Rows = make([]query.Row, len(res.Rows))
	for i, row := range res.Rows {
		out.Rows[i] = codec.DeserializeRow(row, p.deserializer)
	}
	return &out, nil
}
