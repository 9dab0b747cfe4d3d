// Package parser reads table descriptions written in the .tables language:
//
//	table test {
//	  id     increments
//	  person object  @default({ name: "test" })
//	  gender boolean @notnull
//
//	  @@unique([person, gender])
//	  @@index(person)
//	  @@timestamp(create: createAt)
//	}
package parser

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/satishbabariya/litedb/schema"
)

// File is the raw parse tree of a description file.
type File struct {
	Pos    lexer.Position
	Tables []*Table `@@*`
}

// Table is a raw table block.
type Table struct {
	Pos     lexer.Position
	Name    string    `"table" @(Ident | String) "{"`
	Members []*Member `@@* "}"`
}

// Member is a column declaration or a block attribute.
type Member struct {
	Pos       lexer.Position
	Attribute *Attribute `  "@@" @@`
	Column    *Column    `| @@`
}

// Column is a raw column declaration.
type Column struct {
	Pos        lexer.Position
	Name       string       `@(Ident | String)`
	Type       string       `@Ident`
	Attributes []*Attribute `( "@" @@ )*`
}

// Attribute is a raw @name(args) or @@name(args).
type Attribute struct {
	Pos       lexer.Position
	Name      string      `@Ident`
	Arguments []*Argument `( "(" ( @@ ( "," @@ )* )? ")" )?`
}

// Argument is an optionally named attribute argument.
type Argument struct {
	Pos   lexer.Position
	Name  string `( @Ident ":" )?`
	Value *Value `@@`
}

// Value is a literal, an identifier, an object or an array.
type Value struct {
	Pos    lexer.Position
	String *string `  @String`
	Number *string `| @Number`
	Object *Object `| @@`
	Array  *Array  `| @@`
	Ident  *string `| @Ident`
}

// Object is a raw { key: value, ... } literal.
type Object struct {
	Pos     lexer.Position
	Entries []*Entry `"{" ( @@ ( "," @@ )* ","? )? "}"`
}

// Entry is one object member.
type Entry struct {
	Pos   lexer.Position
	Key   string `@(Ident | String) ":"`
	Value *Value `@@`
}

// Array is a raw [value, ...] literal.
type Array struct {
	Pos   lexer.Position
	Items []*Value `"[" ( @@ ( "," @@ )* ","? )? "]"`
}

var parser = participle.MustBuild[File](
	participle.Lexer(TableLexer),
	participle.Elide("Whitespace", "Newline", "Comment", "MultiLineComment"),
	participle.Unquote("String"),
	participle.UseLookahead(4),
)

// Parse reads descriptions from r and returns validated tables in
// declaration order.
func Parse(filename string, r io.Reader) ([]schema.Table, error) {
	raw, err := parser.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	tables, err := convertFile(raw)
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateAll(tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// ParseString parses descriptions from a string.
func ParseString(filename, input string) ([]schema.Table, error) {
	return Parse(filename, strings.NewReader(input))
}

// MustParseString parses descriptions from a string, panicking on error.
func MustParseString(filename, input string) []schema.Table {
	tables, err := ParseString(filename, input)
	if err != nil {
		panic(err)
	}
	return tables
}
