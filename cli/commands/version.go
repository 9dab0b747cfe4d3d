package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/litedb/cli/internal/ui"
	"github.com/satishbabariya/litedb/cli/internal/version"
	"github.com/satishbabariya/litedb/internal/sqlite"
	"github.com/satishbabariya/litedb/runtime/client"
)

func newVersionCommand(a *app) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display the litedb version, the SQLite engine version and whether it supports RETURNING",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			info := version.Get()
			if short {
				fmt.Fprintln(out, info.String())
				return nil
			}

			db, err := client.Open(cmd.Context(), client.Options{Path: sqlite.Memory, Logger: a.logger})
			if err != nil {
				return err
			}
			defer db.Close()

			engine, err := db.EngineVersion(cmd.Context())
			if err != nil {
				return err
			}
			info = info.WithEngine(engine, client.ReturningVersion)

			ui.Header(out, "litedb", info.String())
			for _, f := range info.Fields() {
				ui.KeyValue(out, f[0], f[1])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print the CLI version only")
	return cmd
}
