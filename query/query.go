// Package query holds compiled queries and their execution results.
package query

// Query represents a compiled query
type Query struct {
	SQL  string
	Args []any
}

// Row is a result row keyed by column name.
type Row = map[string]any

// Result represents a query result
type Result struct {
	// Rows is nil for statements that return no rows.
	Rows []Row

	// RowsAffected is the number of rows changed by a write.
	RowsAffected int64

	// LastInsertID is the rowid of the last inserted row, if any.
	LastInsertID int64
}

// First returns the first row, or nil when there are no rows.
func (r *Result) First() Row {
	if r == nil || len(r.Rows) == 0 {
		return nil
	}
	return r.Rows[0]
}
