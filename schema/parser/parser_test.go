package parser_test

import (
	"testing"

	"github.com/satishbabariya/litedb/schema"
	"github.com/satishbabariya/litedb/schema/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
// the test table
table test {
  id      increments
  person  object  @default({ name: "test", tags: ["a", "b"] })
  gender  boolean @notnull @default(false)
  score   number  @default(-1.5)
  "note"  string

  @@primary(id)
  @@unique([person, gender])
  @@index(person)
  @@index([id, gender])
  @@timestamp(create: createAt, update: "updatedAt")
}

/* a table
   without properties */
table plain {
  a string
}
`

func TestParse(t *testing.T) {
	tables, err := parser.ParseString("test.tables", testSchema)
	require.NoError(t, err)
	require.Len(t, tables, 2)

	assert.Equal(t, schema.Table{
		Name: "test",
		Columns: []schema.Column{
			{Name: "id", Type: schema.Increments},
			{Name: "person", Type: schema.Object, Default: map[string]any{"name": "test", "tags": []any{"a", "b"}}},
			{Name: "gender", Type: schema.Boolean, NotNull: true, Default: false},
			{Name: "score", Type: schema.Number, Default: -1.5},
			{Name: "note", Type: schema.String},
		},
		Properties: &schema.Properties{
			Primary:   []string{"id"},
			Unique:    [][]string{{"person", "gender"}},
			Index:     [][]string{{"person"}, {"id", "gender"}},
			Timestamp: &schema.Timestamp{Create: "createAt", Update: "updatedAt"},
		},
	}, tables[0])

	assert.Equal(t, schema.Table{
		Name:    "plain",
		Columns: []schema.Column{{Name: "a", Type: schema.String}},
	}, tables[1])
}

func TestParse_Values(t *testing.T) {
	tables, err := parser.ParseString("v.tables", `table v {
		a number @default(42)
		b string @default("it's")
		c object @default(null)
		d object @default([1, true, { x: 1e3 }])
		@@timestamp
	}`)
	require.NoError(t, err)

	cols := tables[0].Columns
	assert.Equal(t, int64(42), cols[0].Default)
	assert.Equal(t, "it's", cols[1].Default)
	assert.Nil(t, cols[2].Default)
	assert.Equal(t, []any{int64(1), true, map[string]any{"x": 1000.0}}, cols[3].Default)
	assert.Equal(t, &schema.Timestamp{}, tables[0].Properties.Timestamp)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"unknown type", `table t { a uuid }`, "unknown column type"},
		{"unknown column attribute", `table t { a string @unique }`, "unknown column attribute @unique"},
		{"unknown table attribute", `table t { a string @@key(a) }`, "unknown table attribute @@key"},
		{"primary twice", `table t { a string @@primary(a) @@primary(a) }`, "@@primary declared twice"},
		{"bad timestamp argument", `table t { a string @@timestamp(created: c) }`, "@@timestamp accepts create: and update:"},
		{"default needs a value", `table t { a string @default() }`, "@default takes exactly one value"},
		{"identifier as value", `table t { a string @default(nope) }`, "unexpected identifier nope"},
		{"syntax", `table t { a string `, "test.tables:1:"},
		{"duplicate table", `table t { a string } table t { b string }`, "declared twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseString("test.tables", tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMustParseString_Panics(t *testing.T) {
	assert.Panics(t, func() { parser.MustParseString("x", "table {") })
}
