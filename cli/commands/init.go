package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/litedb/cli/internal/ui"
)

// confirm asks a yes/no question on the terminal.
var confirm = func(message string) (bool, error) {
	ok := false
	err := survey.AskOne(&survey.Confirm{Message: message, Default: false}, &ok)
	return ok, err
}

func newInitCommand(a *app) *cobra.Command {
	var reset, yes bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the described tables, indexes and triggers",
		Long: `Create every table of the schema file in the database.

Existing tables are kept; statements are idempotent. With --reset every
described table is dropped first and its rows are lost.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			tables, err := a.cfg.LoadTables()
			if err != nil {
				return err
			}

			if reset && !yes {
				ok, err := confirm(fmt.Sprintf("Drop and recreate %d tables in %s?", len(tables), a.cfg.DatabasePath))
				if err != nil {
					return err
				}
				if !ok {
					ui.Warning(out, "aborted")
					return nil
				}
			}

			db, err := a.open(cmd.Context(), tables, false)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Init(cmd.Context(), reset); err != nil {
				return err
			}

			for i, t := range tables {
				ui.Step(out, i+1, len(tables), t.Name)
			}
			ui.Success(out, "schema ready in %s", a.cfg.DatabasePath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "drop the described tables before creating them")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
