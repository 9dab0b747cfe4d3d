package client

import (
	"log/slog"

	"github.com/satishbabariya/litedb/runtime/plugin"
	"github.com/satishbabariya/litedb/schema"
)

// Options configures Open.
type Options struct {
	// Path is the database file; empty or ":memory:" opens an in-memory
	// database.
	Path string

	// Tables describes the schema created on first use.
	Tables []schema.Table

	// DropBeforeInit drops every table before the first creation pass.
	DropBeforeInit bool

	// ErrorLogger receives engine errors and failed operations.
	ErrorLogger func(error)

	// QueryLogger receives every successful statement with its duration.
	QueryLogger func(QueryEvent)

	// Plugins run around every query, in order. Nil installs a single
	// SerializePlugin; an empty non-nil slice installs none.
	Plugins []plugin.Plugin

	// Logger receives debug and warning records. Nil discards them.
	Logger *slog.Logger

	// Middleware wraps every statement, outermost first.
	Middleware []Middleware
}
