package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/litedb/cli/internal/ui"
	"github.com/satishbabariya/litedb/cli/internal/watch"
)

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Create the schema again whenever the schema file changes",
		Long: `Watch the schema file and run init after every change. New tables,
indexes and triggers are created; existing tables are not altered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			apply := func() error {
				tables, err := a.cfg.LoadTables()
				if err != nil {
					ui.Error(out, "%v", err)
					return err
				}
				db, err := a.open(ctx, tables, false)
				if err != nil {
					ui.Error(out, "%v", err)
					return err
				}
				defer db.Close()

				if err := db.Init(ctx, false); err != nil {
					ui.Error(out, "%v", err)
					return err
				}
				ui.Success(out, "%d tables ready", len(tables))
				return nil
			}

			w, err := watch.NewWatcher(a.cfg.SchemaPath, apply, a.logger)
			if err != nil {
				return err
			}
			ui.Info(out, "watching %s (Ctrl+C to stop)", a.cfg.SchemaPath)
			return w.Run(ctx)
		},
	}
}
