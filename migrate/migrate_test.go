package migrate_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/satishbabariya/litedb/internal/sqlite"
	"github.com/satishbabariya/litedb/migrate"
	"github.com/satishbabariya/litedb/migrate/introspect"
	"github.com/satishbabariya/litedb/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() schema.Table {
	return schema.Table{
		Name: "test",
		Columns: []schema.Column{
			{Name: "id", Type: schema.Increments},
			{Name: "person", Type: schema.Object, Default: map[string]any{"name": "test"}},
			{Name: "gender", Type: schema.Boolean, NotNull: true},
			{Name: "score", Type: schema.Number, Default: 0},
			{Name: "createAt", Type: schema.Date},
		},
		Properties: &schema.Properties{
			Primary:   []string{"person"},
			Unique:    [][]string{{"person", "gender"}},
			Index:     [][]string{{"person"}, {"id", "gender"}},
			Timestamp: &schema.Timestamp{Update: "updatedAt"},
		},
	}
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), sqlite.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPlan(t *testing.T) {
	c, err := migrate.NewCompiler(nil)
	require.NoError(t, err)

	plan, err := c.Plan(testTable())
	require.NoError(t, err)

	assert.Equal(t, "drop table if exists `test`", plan.Drop)
	assert.Equal(t,
		"create table if not exists `test` ("+
			"`id` integer primary key autoincrement, "+
			"`person` text default '{\"name\":\"test\"}', "+
			"`gender` text not null, "+
			"`score` integer default 0, "+
			"`createAt` date, `updatedAt` date, "+
			"constraint `un_person_gender` unique (`person`, `gender`))",
		plan.Create)
	assert.Equal(t, []string{
		"create index if not exists `idx_test_person` on `test` (`person`)",
		"create index if not exists `idx_test_id_gender` on `test` (`id`, `gender`)",
	}, plan.Indexes)
	assert.Equal(t, []string{
		"create trigger if not exists `test_createAt` after insert on `test` begin " +
			"update `test` set `createAt` = datetime('now','localtime') where `id` = NEW.`id`; end",
		"create trigger if not exists `test_updatedAt` after update of `id`, `person`, `gender`, `score` on `test` begin " +
			"update `test` set `updatedAt` = datetime('now','localtime') where `id` = NEW.`id`; end",
	}, plan.Triggers)
	assert.Equal(t, schema.TriggerKey{Column: "id", Source: schema.KeyFromIncrements}, plan.TriggerKey)
}

func TestPlan_Keys(t *testing.T) {
	tests := []struct {
		name       string
		props      *schema.Properties
		wantCreate string
		wantKey    string
	}{
		{
			name:       "no properties",
			wantCreate: "create table if not exists `t` (`a` text, `b` integer)",
			wantKey:    schema.RowID,
		},
		{
			name:       "composite primary key",
			props:      &schema.Properties{Primary: []string{"a", "b"}, Timestamp: &schema.Timestamp{}},
			wantCreate: "create table if not exists `t` (`a` text, `b` integer, `createAt` date, `updateAt` date, constraint `pk_a_b` primary key (`a`, `b`))",
			wantKey:    "a",
		},
		{
			name:       "unique only",
			props:      &schema.Properties{Unique: [][]string{{"b"}, {"a"}}, Timestamp: &schema.Timestamp{}},
			wantCreate: "create table if not exists `t` (`a` text, `b` integer, `createAt` date, `updateAt` date, constraint `un_b` unique (`b`), constraint `un_a` unique (`a`))",
			wantKey:    "b",
		},
	}

	c, err := migrate.NewCompiler(nil)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := c.Plan(schema.Table{
				Name:       "t",
				Columns:    []schema.Column{{Name: "a", Type: schema.String}, {Name: "b", Type: schema.Number}},
				Properties: tt.props,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreate, plan.Create)
			assert.Equal(t, tt.wantKey, plan.TriggerKey.Column)
			if tt.props != nil && tt.props.Timestamp != nil {
				require.Len(t, plan.Triggers, 2)
				assert.Contains(t, plan.Triggers[0], "where `"+tt.wantKey+"` = NEW.`"+tt.wantKey+"`")
			} else {
				assert.Empty(t, plan.Triggers)
			}
		})
	}
}

func TestPlan_ReservedColumnsSkippedWithoutTimestamp(t *testing.T) {
	c, err := migrate.NewCompiler(nil)
	require.NoError(t, err)

	plan, err := c.Plan(schema.Table{
		Name:    "t",
		Columns: []schema.Column{{Name: "a", Type: schema.String}, {Name: "updateAt", Type: schema.Date}},
	})
	require.NoError(t, err)
	assert.Equal(t, "create table if not exists `t` (`a` text)", plan.Create)
}

func TestNewCompiler_Invalid(t *testing.T) {
	_, err := migrate.NewCompiler([]schema.Table{{Name: "t", Columns: []schema.Column{{Name: "a", Type: "blob"}}}})
	assert.ErrorIs(t, err, schema.ErrInvalidTable)
	assert.ErrorIs(t, err, schema.ErrUnknownColumnType)
}

func TestStatus(t *testing.T) {
	c, err := migrate.NewCompiler(nil, migrate.WithDropBeforeInit(true))
	require.NoError(t, err)
	assert.Equal(t, migrate.StatusNeedsDrop, c.Status())

	c, err = migrate.NewCompiler(nil)
	require.NoError(t, err)
	assert.Equal(t, migrate.StatusNoDropNeeded, c.Status())
}

func TestStatements(t *testing.T) {
	tables := []schema.Table{testTable()}

	c, err := migrate.NewCompiler(tables)
	require.NoError(t, err)
	stmts, err := c.Statements()
	require.NoError(t, err)
	assert.Len(t, stmts, 5)

	c, err = migrate.NewCompiler(tables, migrate.WithDropBeforeInit(true))
	require.NoError(t, err)
	stmts, err = c.Statements()
	require.NoError(t, err)
	require.Len(t, stmts, 6)
	assert.Equal(t, "drop table if exists `test`", stmts[0])
}

func TestApply_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	c, err := migrate.NewCompiler([]schema.Table{testTable()})
	require.NoError(t, err)

	require.NoError(t, c.Apply(ctx, db, false))
	assert.Equal(t, migrate.StatusReady, c.Status())
	require.NoError(t, c.Apply(ctx, db, false))
	require.NoError(t, c.Ensure(ctx, db))

	s, err := introspect.Introspect(ctx, db)
	require.NoError(t, err)

	table, ok := s.Table("test")
	require.True(t, ok)
	names := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		names[i] = col.Name
	}
	assert.Equal(t, []string{"id", "person", "gender", "score", "createAt", "updatedAt"}, names)

	var created []string
	for _, idx := range table.Indexes {
		if idx.Origin == "c" {
			created = append(created, idx.Name)
		}
	}
	assert.Equal(t, []string{"idx_test_id_gender", "idx_test_person"}, created)

	require.Len(t, s.Triggers, 2)
	assert.Equal(t, "test_createAt", s.Triggers[0].Name)
	assert.Equal(t, "test_updatedAt", s.Triggers[1].Name)
}

func TestApply_TimestampTriggers(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	c, err := migrate.NewCompiler([]schema.Table{{
		Name:       "notes",
		Columns:    []schema.Column{{Name: "id", Type: schema.Increments}, {Name: "body", Type: schema.String}},
		Properties: &schema.Properties{Timestamp: &schema.Timestamp{}},
	}})
	require.NoError(t, err)
	require.NoError(t, c.Apply(ctx, db, false))

	_, err = db.ExecContext(ctx, `insert into notes (body) values ('a')`)
	require.NoError(t, err)

	var createAt, updateAt sql.NullString
	require.NoError(t, db.QueryRowContext(ctx, `select cast(createAt as text), cast(updateAt as text) from notes`).Scan(&createAt, &updateAt))
	assert.True(t, createAt.Valid)
	assert.False(t, updateAt.Valid, "the insert trigger must not fire the update trigger")

	_, err = db.ExecContext(ctx, `update notes set body = 'b'`)
	require.NoError(t, err)
	require.NoError(t, db.QueryRowContext(ctx, `select cast(updateAt as text) from notes`).Scan(&updateAt))
	assert.True(t, updateAt.Valid)
}

// Writing a timestamp column directly does not count as an update of the row.
func TestApply_UpdateTriggerIgnoresTimestampColumns(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	c, err := migrate.NewCompiler([]schema.Table{{
		Name:       "notes",
		Columns:    []schema.Column{{Name: "body", Type: schema.String}},
		Properties: &schema.Properties{Unique: [][]string{{"body"}}, Timestamp: &schema.Timestamp{Create: "born"}},
	}})
	require.NoError(t, err)
	require.NoError(t, c.Apply(ctx, db, false))

	_, err = db.ExecContext(ctx, `insert into notes (body) values ('a')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `update notes set born = '2020-01-01 00:00:00'`)
	require.NoError(t, err)

	var born, updateAt sql.NullString
	require.NoError(t, db.QueryRowContext(ctx, `select cast(born as text), cast(updateAt as text) from notes`).Scan(&born, &updateAt))
	assert.Equal(t, "2020-01-01 00:00:00", born.String)
	assert.False(t, updateAt.Valid)
}

func TestApply_DropBeforeInit(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	tables := []schema.Table{{Name: "t", Columns: []schema.Column{{Name: "a", Type: schema.String}}}}
	c, err := migrate.NewCompiler(tables)
	require.NoError(t, err)
	require.NoError(t, c.Apply(ctx, db, false))

	_, err = db.ExecContext(ctx, `insert into t (a) values ('x')`)
	require.NoError(t, err)

	require.NoError(t, c.Apply(ctx, db, true))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `select count(*) from t`).Scan(&n))
	assert.Equal(t, 0, n)
}

// An index over a column its table lacks aborts initialization even when
// another table has an index over a column of that name.
func TestApply_IndexOnMissingColumn(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	c, err := migrate.NewCompiler([]schema.Table{
		{
			Name:       "t1",
			Columns:    []schema.Column{{Name: "a", Type: schema.String}},
			Properties: &schema.Properties{Index: [][]string{{"a"}}},
		},
		{
			Name:       "t2",
			Columns:    []schema.Column{{Name: "b", Type: schema.String}},
			Properties: &schema.Properties{Index: [][]string{{"a"}}},
		},
	})
	require.NoError(t, err)

	err = c.Apply(ctx, db, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create index on t2")
	assert.NotEqual(t, migrate.StatusReady, c.Status())
}

type failingExecer struct {
	db   *sql.DB
	fail func(stmt string) bool
}

func (e *failingExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if e.fail(query) {
		return nil, errors.New("injected failure")
	}
	return e.db.ExecContext(ctx, query, args...)
}

func TestApply_TriggerFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	var reported []error

	c, err := migrate.NewCompiler([]schema.Table{testTable()}, migrate.WithErrorHandler(func(err error) {
		reported = append(reported, err)
	}))
	require.NoError(t, err)

	exec := &failingExecer{db: openDB(t), fail: func(stmt string) bool {
		return len(stmt) > 14 && stmt[:14] == "create trigger"
	}}
	require.NoError(t, c.Apply(ctx, exec, false))
	assert.Equal(t, migrate.StatusReady, c.Status())
	assert.Len(t, reported, 2)
}

func TestApply_CreateFailureLeavesStatus(t *testing.T) {
	ctx := context.Background()
	c, err := migrate.NewCompiler([]schema.Table{testTable()}, migrate.WithDropBeforeInit(true))
	require.NoError(t, err)

	exec := &failingExecer{db: openDB(t), fail: func(stmt string) bool {
		return len(stmt) > 12 && stmt[:12] == "create table"
	}}
	require.Error(t, c.Apply(ctx, exec, false))
	assert.Equal(t, migrate.StatusNeedsDrop, c.Status())
}
