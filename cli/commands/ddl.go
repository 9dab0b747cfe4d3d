package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/litedb/cli/internal/ui"
	"github.com/satishbabariya/litedb/migrate"
)

func newDDLCommand(a *app) *cobra.Command {
	var drop bool

	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Print the schema script without touching a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := a.cfg.LoadTables()
			if err != nil {
				return err
			}

			compiler, err := migrate.NewCompiler(tables,
				migrate.WithDropBeforeInit(drop),
				migrate.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			stmts, err := compiler.Statements()
			if err != nil {
				return err
			}

			ui.Statements(cmd.OutOrStdout(), stmts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&drop, "drop", false, "include drop table statements")
	return cmd
}
