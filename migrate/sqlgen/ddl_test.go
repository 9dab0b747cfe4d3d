package sqlgen_test

import (
	"math"
	"testing"

	"github.com/satishbabariya/litedb/migrate/sqlgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		stmt sqlgen.Statement
		want string
	}{
		{
			name: "create table",
			stmt: sqlgen.CreateTable("test").IfNotExists().
				AddColumn("id", "integer", func(c *sqlgen.ColumnBuilder) { c.AutoIncrement().PrimaryKey() }).
				AddColumn("person", "text", func(c *sqlgen.ColumnBuilder) { c.DefaultTo(`{"name":"test"}`) }).
				AddColumn("gender", "text", func(c *sqlgen.ColumnBuilder) { c.NotNull() }).
				AddColumn("createAt", "date", nil).
				AddUniqueConstraint("un_person_gender", []string{"person", "gender"}),
			want: "create table if not exists `test` (`id` integer primary key autoincrement, `person` text default '{\"name\":\"test\"}', " +
				"`gender` text not null, `createAt` date, constraint `un_person_gender` unique (`person`, `gender`))",
		},
		{
			name: "composite primary key",
			stmt: sqlgen.CreateTable("t").
				AddColumn("a", "text", nil).
				AddColumn("b", "integer", nil).
				AddPrimaryKeyConstraint("pk_a_b", []string{"a", "b"}),
			want: "create table `t` (`a` text, `b` integer, constraint `pk_a_b` primary key (`a`, `b`))",
		},
		{
			name: "drop table",
			stmt: sqlgen.DropTable("test").IfExists(),
			want: "drop table if exists `test`",
		},
		{
			name: "create index",
			stmt: sqlgen.CreateIndex("idx_test_id_gender").On("test").Columns("id", "gender").IfNotExists(),
			want: "create index if not exists `idx_test_id_gender` on `test` (`id`, `gender`)",
		},
		{
			name: "create unique index",
			stmt: sqlgen.CreateIndex("u").On("t").Columns("a").Unique(),
			want: "create unique index `u` on `t` (`a`)",
		},
		{
			name: "create trigger",
			stmt: sqlgen.CreateTrigger("test_updateAt").IfNotExists().
				After(sqlgen.EventUpdate, "test").
				Body(sqlgen.TouchColumn("test", "updateAt", "id")),
			want: "create trigger if not exists `test_updateAt` after update on `test` begin " +
				"update `test` set `updateAt` = datetime('now','localtime') where `id` = NEW.`id`; end",
		},
		{
			name: "update trigger on columns",
			stmt: sqlgen.CreateTrigger("test_updateAt").
				After(sqlgen.EventUpdate, "test").
				Of("id", "body").
				Body(sqlgen.TouchColumn("test", "updateAt", "id")),
			want: "create trigger `test_updateAt` after update of `id`, `body` on `test` begin " +
				"update `test` set `updateAt` = datetime('now','localtime') where `id` = NEW.`id`; end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.stmt.SQL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatements_Invalid(t *testing.T) {
	tests := []struct {
		name string
		stmt sqlgen.Statement
	}{
		{"table without columns", sqlgen.CreateTable("t")},
		{"autoincrement without primary key", sqlgen.CreateTable("t").AddColumn("id", "integer", func(c *sqlgen.ColumnBuilder) { c.AutoIncrement() })},
		{"empty constraint", sqlgen.CreateTable("t").AddColumn("a", "text", nil).AddUniqueConstraint("un_", nil)},
		{"unrenderable default", sqlgen.CreateTable("t").AddColumn("a", "text", func(c *sqlgen.ColumnBuilder) { c.DefaultTo(struct{}{}) })},
		{"index without columns", sqlgen.CreateIndex("i").On("t")},
		{"trigger without body", sqlgen.CreateTrigger("x").After(sqlgen.EventInsert, "t")},
		{"column list on insert trigger", sqlgen.CreateTrigger("x").After(sqlgen.EventInsert, "t").Of("a").Body("select 1")},
		{"drop without name", sqlgen.DropTable("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.stmt.SQL()
			assert.ErrorIs(t, err, sqlgen.ErrInvalidDDL)
		})
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{"it's", "'it''s'"},
		{0, "0"},
		{int64(-7), "-7"},
		{uint8(3), "3"},
		{1.5, "1.5"},
		{true, "1"},
		{[]byte{0xca, 0xfe}, "X'CAFE'"},
	}
	for _, tt := range tests {
		got, err := sqlgen.Literal(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := sqlgen.Literal(math.NaN())
	assert.ErrorIs(t, err, sqlgen.ErrInvalidDDL)
}
