// Package commands implements the litedb CLI commands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/litedb/cli/internal/config"
	"github.com/satishbabariya/litedb/cli/internal/version"
	"github.com/satishbabariya/litedb/internal/logging"
	"github.com/satishbabariya/litedb/runtime/client"
	"github.com/satishbabariya/litedb/schema"
)

// app is the state shared by the commands of one invocation.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand creates the litedb command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "litedb",
		Short: "SQLite schema generator and value codec",
		Long: `litedb creates SQLite schemas from table descriptions.

Tables, primary/unique constraints, indexes and timestamp triggers are
generated from a .tables file; booleans, dates and nested values are
stored as text and decoded on read.`,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default .litedb.yaml in ., $HOME or $HOME/.config/litedb)")
	flags.String(config.KeyDatabase, "", "database file, or :memory:")
	flags.String(config.KeySchema, "", "table description file")
	flags.Bool(config.KeyDebug, false, "enable debug logging")
	flags.String(config.KeyLogFormat, "", "log format: text or json")

	cmd.AddCommand(
		newInitCommand(a),
		newDDLCommand(a),
		newDescribeCommand(a),
		newExecCommand(a),
		newWatchCommand(a),
		newVersionCommand(a),
	)
	return cmd
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper()
	if err != nil {
		return err
	}
	for _, key := range []string{config.KeyDatabase, config.KeySchema, config.KeyDebug, config.KeyLogFormat} {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(key)); err != nil {
			return err
		}
	}

	cfg, err := config.LoadConfig(v, a.configFile)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	logging.Init(cfg.Debug, format)

	a.cfg = cfg
	a.logger = logging.Logger()
	a.logger.Debug("config loaded", "file", cfg.File, "schema", cfg.SchemaPath, "db", cfg.DatabasePath)
	return nil
}

// open opens the configured database for tables. Swallowed DDL errors are
// logged as warnings by the compiler.
func (a *app) open(ctx context.Context, tables []schema.Table, dropBeforeInit bool) (*client.DB, error) {
	db, err := client.Open(ctx, client.Options{
		Path:           a.cfg.DatabasePath,
		Tables:         tables,
		DropBeforeInit: dropBeforeInit,
		Logger:         a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", a.cfg.DatabasePath, err)
	}
	return db, nil
}
