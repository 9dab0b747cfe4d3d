// Package sqlite opens SQLite databases through the driver selected at build
// time.
//
// Build modes:
//   - Default: pure Go modernc.org/sqlite
//   - CGO_ENABLED=1 -tags cgo_sqlite: mattn/go-sqlite3
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

// DriverName returns the database/sql driver name in use.
func DriverName() string {
	return driverName
}

// Info describes the SQLite driver configuration.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	Package    string `json:"package"`
}

// GetInfo returns information about the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		Package:    driverPackage,
	}
}

// Open opens the database at path and verifies the connection. An empty path
// opens an in-memory database.
//
// The pool is limited to a single connection: every connection to ":memory:"
// is a separate database, and SQLite serializes writers anyway.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = Memory
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database %s: %w", path, err)
	}
	return db, nil
}

// Version returns the engine version reported by sqlite_version().
func Version(ctx context.Context, db *sql.DB) (string, error) {
	var v string
	if err := db.QueryRowContext(ctx, "select sqlite_version()").Scan(&v); err != nil {
		return "", fmt.Errorf("failed to query sqlite version: %w", err)
	}
	return v, nil
}
