package schema

import "strings"

// RowID is SQLite's implicit row identifier.
const RowID = "rowid"

// TriggerKeySource names the rule that selected a trigger key.
type TriggerKeySource int

const (
	// KeyFromRowID means no key was declared and the implicit rowid is used.
	KeyFromRowID TriggerKeySource = iota
	// KeyFromUnique means the first column of the first unique constraint was used.
	KeyFromUnique
	// KeyFromPrimary means the first column of the declared primary key was used.
	KeyFromPrimary
	// KeyFromIncrements means the auto-increment column was used.
	KeyFromIncrements
)

func (s TriggerKeySource) String() string {
	switch s {
	case KeyFromIncrements:
		return "increments"
	case KeyFromPrimary:
		return "primary"
	case KeyFromUnique:
		return "unique"
	default:
		return "rowid"
	}
}

// TriggerKey is the column a trigger uses to find the row it updates.
type TriggerKey struct {
	Column string
	Source TriggerKeySource
}

// ResolveTriggerKey picks the trigger key: the increments column, then the
// first primary key column, then the first column of the first unique
// constraint, then rowid.
func ResolveTriggerKey(t *Table) TriggerKey {
	if name, ok := t.IncrementsColumn(); ok {
		return TriggerKey{Column: name, Source: KeyFromIncrements}
	}
	if t.Properties == nil {
		return TriggerKey{Column: RowID, Source: KeyFromRowID}
	}
	if len(t.Properties.Primary) > 0 {
		return TriggerKey{Column: t.Properties.Primary[0], Source: KeyFromPrimary}
	}
	if len(t.Properties.Unique) > 0 && len(t.Properties.Unique[0]) > 0 {
		return TriggerKey{Column: t.Properties.Unique[0][0], Source: KeyFromUnique}
	}
	return TriggerKey{Column: RowID, Source: KeyFromRowID}
}

// PrimaryKeyName names a primary key constraint.
func PrimaryKeyName(columns []string) string {
	return "pk_" + strings.Join(columns, "_")
}

// UniqueName names a unique constraint.
func UniqueName(columns []string) string {
	return "un_" + strings.Join(columns, "_")
}

// IndexName names an index. Index names share one namespace per database,
// so the table name is part of it.
func IndexName(table string, columns []string) string {
	return "idx_" + table + "_" + strings.Join(columns, "_")
}

// TriggerName names the trigger maintaining column on table.
func TriggerName(table, column string) string {
	return table + "_" + column
}
