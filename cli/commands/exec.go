package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/litedb/cli/internal/ui"
	"github.com/satishbabariya/litedb/query"
	"github.com/satishbabariya/litedb/runtime/codec"
)

func newExecCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <sql> [args...]",
		Short: "Run a statement and print the rows",
		Long: `Run one SQL statement against the database. The schema is created
first if needed. Positional arguments bind to ? placeholders as text and
values are printed in their stored text form.`,
		Example: `  litedb exec "select * from users where id = ?" 1
  litedb exec "insert into users (name) values (?)" alice`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			tables, err := a.cfg.LoadTables()
			if err != nil {
				return err
			}
			db, err := a.open(cmd.Context(), tables, false)
			if err != nil {
				return err
			}
			defer db.Close()

			params := make([]any, len(args)-1)
			for i, arg := range args[1:] {
				params[i] = arg
			}

			start := time.Now()
			res, err := db.Raw(cmd.Context(), args[0], params...)
			if err != nil {
				return err
			}
			elapsed := time.Since(start).Round(time.Microsecond)

			if res.Rows == nil {
				ui.Success(out, "%d rows affected (%s)", res.RowsAffected, elapsed)
				return nil
			}
			headers, rows, err := resultTable(res)
			if err != nil {
				return err
			}
			if len(rows) > 0 {
				if err := ui.Table(out, headers, rows); err != nil {
					return err
				}
			}
			ui.Info(out, "%d rows (%s)", len(rows), elapsed)
			return nil
		},
	}
}

// resultTable lays rows out under their sorted column names.
func resultTable(res *query.Result) ([]string, [][]string, error) {
	seen := map[string]bool{}
	var headers []string
	for _, row := range res.Rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	sort.Strings(headers)

	rows := make([][]string, len(res.Rows))
	for i, row := range res.Rows {
		cells := make([]string, len(headers))
		for j, h := range headers {
			cell, err := formatCell(row[h])
			if err != nil {
				return nil, nil, err
			}
			cells[j] = cell
		}
		rows[i] = cells
	}
	return headers, rows, nil
}

// formatCell prints a value in its stored text form.
func formatCell(v any) (string, error) {
	if v == nil {
		return "NULL", nil
	}
	s, err := codec.Serialize(v)
	if err != nil {
		return "", err
	}
	if b, ok := s.([]byte); ok {
		return fmt.Sprintf("X'%X'", b), nil
	}
	return fmt.Sprint(s), nil
}
