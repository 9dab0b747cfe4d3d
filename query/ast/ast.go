// Package ast defines the query AST (Abstract Syntax Tree).
package ast

// Node is any node of a query tree.
type Node interface {
	Kind() NodeKind
}

// RootNode is the top of a query tree: one statement.
type RootNode interface {
	Node
	rootNode()
}

// NodeKind identifies the type of a node
type NodeKind string

const (
	KindSelect     NodeKind = "SelectQuery"
	KindInsert     NodeKind = "InsertQuery"
	KindUpdate     NodeKind = "UpdateQuery"
	KindDelete     NodeKind = "DeleteQuery"
	KindRaw        NodeKind = "RawQuery"
	KindReference  NodeKind = "Reference"
	KindValue      NodeKind = "Value"
	KindValueList  NodeKind = "ValueList"
	KindBinary     NodeKind = "BinaryOperation"
	KindLogical    NodeKind = "Logical"
	KindNot        NodeKind = "Not"
	KindIsNull     NodeKind = "IsNull"
	KindOrderBy    NodeKind = "OrderBy"
	KindAssignment NodeKind = "Assignment"
)

// IsRead reports whether a root node of this kind is a read (select) query.
func (k NodeKind) IsRead() bool {
	return k == KindSelect
}

// SelectQuery represents a SELECT statement
type SelectQuery struct {
	From     string
	Columns  []string // empty selects all columns
	Distinct bool
	Where    Node
	OrderBy  []*OrderBy
	Limit    Node
	Offset   Node
}

func (*SelectQuery) Kind() NodeKind { return KindSelect }
func (*SelectQuery) rootNode()      {}

// InsertQuery represents an INSERT statement. Every row has one value per column.
type InsertQuery struct {
	Into      string
	Columns   []string
	Rows      [][]Node
	Returning []string
}

func (*InsertQuery) Kind() NodeKind { return KindInsert }
func (*InsertQuery) rootNode()      {}

// UpdateQuery represents an UPDATE statement
type UpdateQuery struct {
	Table     string
	Set       []*Assignment
	Where     Node
	Returning []string
}

func (*UpdateQuery) Kind() NodeKind { return KindUpdate }
func (*UpdateQuery) rootNode()      {}

// DeleteQuery represents a DELETE statement
type DeleteQuery struct {
	From      string
	Where     Node
	Returning []string
}

func (*DeleteQuery) Kind() NodeKind { return KindDelete }
func (*DeleteQuery) rootNode()      {}

// RawQuery is a literal SQL statement with positional parameters.
type RawQuery struct {
	SQL        string
	Parameters []Node
}

func (*RawQuery) Kind() NodeKind { return KindRaw }
func (*RawQuery) rootNode()      {}

// Assignment is one column = value pair of an UPDATE.
type Assignment struct {
	Column string
	Value  Node
}

func (*Assignment) Kind() NodeKind { return KindAssignment }

// Reference names a column.
type Reference struct {
	Column string
}

func (*Reference) Kind() NodeKind { return KindReference }

// Value is a bound parameter.
type Value struct {
	Value any
}

func (*Value) Kind() NodeKind { return KindValue }

// ValueList is a parenthesized list of values, as used by IN.
type ValueList struct {
	Values []Node
}

func (*ValueList) Kind() NodeKind { return KindValueList }

// Operator is a binary comparison operator.
type Operator string

const (
	OpEquals         Operator = "="
	OpNotEquals      Operator = "!="
	OpGreaterThan    Operator = ">"
	OpLessThan       Operator = "<"
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
	OpIn             Operator = "in"
	OpNotIn          Operator = "not in"
	OpLike           Operator = "like"
	OpNotLike        Operator = "not like"
	OpIs             Operator = "is"
	OpIsNot          Operator = "is not"
)

// Operators lists the supported comparison operators.
var Operators = []Operator{
	OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpGreaterOrEqual, OpLessOrEqual,
	OpIn, OpNotIn, OpLike, OpNotLike, OpIs, OpIsNot,
}

// BinaryOperation compares two operands.
type BinaryOperation struct {
	Left     Node
	Operator Operator
	Right    Node
}

func (*BinaryOperation) Kind() NodeKind { return KindBinary }

// LogicalOperator combines conditions.
type LogicalOperator string

const (
	OpAND LogicalOperator = "and"
	OpOR  LogicalOperator = "or"
)

// Logical joins its operands with AND or OR.
type Logical struct {
	Operator LogicalOperator
	Operands []Node
}

func (*Logical) Kind() NodeKind { return KindLogical }

// Not negates its operand.
type Not struct {
	Operand Node
}

func (*Not) Kind() NodeKind { return KindNot }

// IsNull tests an operand for NULL.
type IsNull struct {
	Operand Node
	Negated bool
}

func (*IsNull) Kind() NodeKind { return KindIsNull }

// SortDirection represents sort direction
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// OrderBy represents ordering
type OrderBy struct {
	Column    string
	Direction SortDirection
}

func (*OrderBy) Kind() NodeKind { return KindOrderBy }

// ReturnsRows reports whether executing root yields a row set.
func ReturnsRows(root RootNode) bool {
	switch n := root.(type) {
	case *SelectQuery:
		return true
	case *InsertQuery:
		return len(n.Returning) > 0
	case *UpdateQuery:
		return len(n.Returning) > 0
	case *DeleteQuery:
		return len(n.Returning) > 0
	default:
		return false
	}
}

// Table returns the table a root node targets, or "" for raw queries.
func Table(root RootNode) string {
	switch n := root.(type) {
	case *SelectQuery:
		return n.From
	case *InsertQuery:
		return n.Into
	case *UpdateQuery:
		return n.Table
	case *DeleteQuery:
		return n.From
	default:
		return ""
	}
}
