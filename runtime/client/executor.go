package client

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/satishbabariya/litedb/query"
	"github.com/satishbabariya/litedb/query/ast"
	"github.com/satishbabariya/litedb/query/sqlgen"
	"github.com/satishbabariya/litedb/runtime/plugin"
)

// conn is satisfied by *sql.DB and *sql.Tx.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// executor runs query trees on one connection: it implements
// builder.Executor.
type executor struct {
	db   *DB
	conn conn
}

// ExecuteQuery transforms root through every plugin, compiles and runs it,
// then passes the result back through every plugin.
func (e *executor) ExecuteQuery(ctx context.Context, root ast.RootNode) (*query.Result, error) {
	id := plugin.NewQueryID()

	node, err := e.db.transformQuery(id, root)
	if err != nil {
		return nil, err
	}
	if hasReturning(node) && !e.db.SupportsReturning() {
		return nil, fmt.Errorf("%w: returning needs sqlite %s, have %s", ErrUnsupported, ReturningVersion, e.db.engine)
	}

	q, err := sqlgen.Compile(node)
	if err != nil {
		return nil, err
	}

	var res *query.Result
	err = executeWithMiddleware(ctx, e.db.middlewares, q.SQL, q.Args, func() error {
		var runErr error
		res, runErr = e.run(ctx, node, q)
		return runErr
	})
	if err != nil {
		return nil, &QueryError{SQL: q.SQL, Args: q.Args, Cause: err, reported: e.db.errorLogger != nil}
	}

	for _, p := range e.db.plugins {
		if res, err = p.TransformResult(ctx, plugin.TransformResultArgs{QueryID: id, Result: res}); err != nil {
			return nil, fmt.Errorf("transform result of %s: %w", node.Kind(), err)
		}
	}

	runtime.KeepAlive(id)
	return res, nil
}

func (d *DB) transformQuery(id *plugin.QueryID, root ast.RootNode) (ast.RootNode, error) {
	node := root
	for _, p := range d.plugins {
		out, err := p.TransformQuery(plugin.TransformQueryArgs{QueryID: id, Node: node})
		if err != nil {
			return nil, err
		}
		if out == nil {
			return nil, fmt.Errorf("plugin %T dropped the %s query", p, node.Kind())
		}
		node = out
	}
	return node, nil
}

func (e *executor) run(ctx context.Context, node ast.RootNode, q *query.Query) (*query.Result, error) {
	if returnsRows(node) {
		rows, err := e.conn.QueryContext(ctx, q.SQL, q.Args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		scanned, err := scanRows(rows)
		if err != nil {
			return nil, err
		}
		return &query.Result{Rows: scanned}, nil
	}

	r, err := e.conn.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	res := &query.Result{}
	// Both drivers always report these; errors only come from drivers that
	// do not, so they are left at zero.
	res.RowsAffected, _ = r.RowsAffected()
	res.LastInsertID, _ = r.LastInsertId()
	return res, nil
}

func hasReturning(node ast.RootNode) bool {
	return node.Kind() != ast.KindSelect && ast.ReturnsRows(node)
}

var returningClause = regexp.MustCompile(`(?i)\breturning\b`)

// returnsRows also covers raw statements, judged by their leading keyword or
// a RETURNING clause.
func returnsRows(node ast.RootNode) bool {
	raw, ok := node.(*ast.RawQuery)
	if !ok {
		return ast.ReturnsRows(node)
	}
	sql := strings.ToLower(strings.TrimSpace(raw.SQL))
	for _, prefix := range []string{"select", "with", "pragma", "values", "explain"} {
		if strings.HasPrefix(sql, prefix) {
			return true
		}
	}
	return returningClause.MatchString(sql)
}
