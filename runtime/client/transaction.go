package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/satishbabariya/litedb/query"
	"github.com/satishbabariya/litedb/query/builder"
)

// Tx is a transaction. Its builders execute inside the transaction.
type Tx struct {
	*builder.Creator
	tx    *sql.Tx
	depth int // nesting depth for savepoints
}

// TransactionFunc is a function that runs within a transaction
type TransactionFunc func(tx *Tx) error

func (d *DB) transaction(ctx context.Context, fn TransactionFunc) error {
	sqlTx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	tx := &Tx{tx: sqlTx}
	tx.Creator = builder.NewCreator(&executor{db: d, conn: sqlTx})

	// Defer rollback in case of panic
	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Raw runs a literal statement inside the transaction.
func (tx *Tx) Raw(ctx context.Context, sql string, args ...any) (*query.Result, error) {
	return tx.Creator.Raw(sql, args...).Execute(ctx)
}

// Nested runs fn inside a savepoint. An error from fn rolls back to the
// savepoint and is returned; the outer transaction stays usable.
func (tx *Tx) Nested(ctx context.Context, fn TransactionFunc) error {
	tx.depth++
	savepointName := fmt.Sprintf("sp_%d", tx.depth)
	defer func() { tx.depth-- }()

	if _, err := tx.tx.ExecContext(ctx, "SAVEPOINT "+savepointName); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	// Defer rollback to savepoint in case of panic
	defer func() {
		if p := recover(); p != nil {
			_, _ = tx.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepointName)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if _, rbErr := tx.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepointName); rbErr != nil {
			return fmt.Errorf("nested transaction error: %v, rollback error: %w", err, rbErr)
		}
		// ROLLBACK TO keeps the savepoint open.
		_, _ = tx.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepointName)
		return err
	}

	if _, err := tx.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepointName); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}
	return nil
}
