package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when the schema could not be created.
	ErrNotInitialized = errors.New("database not initialized")

	// ErrTransactionFailed is matched by errors of Transaction.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrExecFailed is matched by errors of Exec.
	ErrExecFailed = errors.New("exec failed")

	// ErrUnsupported is returned for statements the SQLite engine in use
	// cannot run.
	ErrUnsupported = errors.New("unsupported by sqlite engine")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("database closed")
)

// OpError reports a failed Transaction or Exec. It matches its Kind
// (ErrTransactionFailed or ErrExecFailed) and unwraps to the cause.
type OpError struct {
	Op    string
	Kind  error
	Cause error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *OpError) Is(target error) bool {
	return target == e.Kind
}

// QueryError represents a statement the engine rejected.
type QueryError struct {
	SQL   string
	Args  []any
	Cause error

	reported bool
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q: %v", e.SQL, e.Cause)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}
