package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/litedb/cli/internal/ui"
	"github.com/satishbabariya/litedb/migrate"
	"github.com/satishbabariya/litedb/migrate/introspect"
	"github.com/satishbabariya/litedb/runtime/codec"
	"github.com/satishbabariya/litedb/schema"
)

func newDescribeCommand(a *app) *cobra.Command {
	var raw, live bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show the described tables, or the tables the database holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var md string
			if live {
				db, err := a.open(cmd.Context(), nil, false)
				if err != nil {
					return err
				}
				defer db.Close()

				s, err := db.Introspect(cmd.Context())
				if err != nil {
					return err
				}
				md = databaseMarkdown(s)
			} else {
				tables, err := a.cfg.LoadTables()
				if err != nil {
					return err
				}
				c, err := migrate.NewCompiler(tables)
				if err != nil {
					return err
				}
				if md, err = tablesMarkdown(c); err != nil {
					return err
				}
			}
			return render(cmd.OutOrStdout(), md, raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering it")
	cmd.Flags().BoolVar(&live, "live", false, "describe the database instead of the schema file")
	return cmd
}

func render(w io.Writer, md string, raw bool) error {
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}
	return ui.Markdown(w, md)
}

// tablesMarkdown documents the compiler's tables. Trigger keys come from the
// compiled plan so they match the generated DDL.
func tablesMarkdown(c *migrate.Compiler) (string, error) {
	var sb strings.Builder
	for i, t := range c.Tables() {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "## %s\n\n", t.Name)
		sb.WriteString("| column | type | affinity | not null | default |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, col := range t.Columns {
			if t.IsTimestampColumn(col.Name) {
				continue
			}
			def := ""
			if col.Default != nil {
				v, err := codec.Serialize(col.Default)
				if err != nil {
					return "", fmt.Errorf("default of %s.%s: %w", t.Name, col.Name, err)
				}
				def = "`" + fmt.Sprint(v) + "`"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %t | %s |\n", col.Name, col.Type, col.Type.Affinity(), col.NotNull, def)
		}
		if t.HasTimestamp() {
			createCol, updateCol := t.TimestampColumns()
			fmt.Fprintf(&sb, "| %s | timestamp | %s | false | insert trigger |\n", createCol, schema.AffinityDate)
			fmt.Fprintf(&sb, "| %s | timestamp | %s | false | update trigger |\n", updateCol, schema.AffinityDate)
		}

		var notes []string
		if p := t.Properties; p != nil {
			if _, ok := t.IncrementsColumn(); !ok && len(p.Primary) > 0 {
				notes = append(notes, fmt.Sprintf("primary key `%s` (%s)", schema.PrimaryKeyName(p.Primary), strings.Join(p.Primary, ", ")))
			}
			for _, u := range p.Unique {
				notes = append(notes, fmt.Sprintf("unique `%s` (%s)", schema.UniqueName(u), strings.Join(u, ", ")))
			}
			for _, idx := range p.Index {
				notes = append(notes, fmt.Sprintf("index `%s` (%s)", schema.IndexName(t.Name, idx), strings.Join(idx, ", ")))
			}
		}
		if t.HasTimestamp() {
			plan, err := c.Plan(t)
			if err != nil {
				return "", err
			}
			key := plan.TriggerKey
			notes = append(notes, fmt.Sprintf("triggers match rows on `%s` (%s)", key.Column, key.Source))
		}
		if len(notes) > 0 {
			sb.WriteString("\n")
			for _, n := range notes {
				fmt.Fprintf(&sb, "- %s\n", n)
			}
		}
	}
	return sb.String(), nil
}

func databaseMarkdown(s *introspect.DatabaseSchema) string {
	var sb strings.Builder
	if len(s.Tables) == 0 {
		sb.WriteString("_no tables_\n")
	}
	for i, t := range s.Tables {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "## %s\n\n", t.Name)
		sb.WriteString("| column | type | not null | default | pk |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, col := range t.Columns {
			def := ""
			if col.DefaultValue != nil {
				def = "`" + *col.DefaultValue + "`"
			}
			fmt.Fprintf(&sb, "| %s | %s | %t | %s | %t |\n", col.Name, col.Type, col.NotNull, def, col.PrimaryKey)
		}
		if len(t.Indexes) > 0 {
			sb.WriteString("\n")
			for _, idx := range t.Indexes {
				kind := "index"
				if idx.IsUnique {
					kind = "unique"
				}
				fmt.Fprintf(&sb, "- %s `%s` (%s)\n", kind, idx.Name, strings.Join(idx.Columns, ", "))
			}
		}
	}
	if len(s.Triggers) > 0 {
		sb.WriteString("\n## triggers\n\n")
		for _, trg := range s.Triggers {
			fmt.Fprintf(&sb, "- `%s` on %s\n", trg.Name, trg.TableName)
		}
	}
	return sb.String()
}
