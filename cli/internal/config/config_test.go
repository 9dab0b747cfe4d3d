package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/litedb/schema"
)

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	prev := AppFs
	AppFs = afero.NewMemMapFs()
	t.Cleanup(func() { AppFs = prev })
	return AppFs
}

func TestLoadConfig_Defaults(t *testing.T) {
	useMemFs(t)

	v, err := NewViper()
	require.NoError(t, err)
	cfg, err := LoadConfig(v, "")
	require.NoError(t, err)

	assert.Equal(t, "schema.tables", cfg.SchemaPath)
	assert.Equal(t, "litedb.db", cfg.DatabasePath)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.File)
}

func TestLoadConfig_File(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "/etc/litedb.yaml", []byte("db: /data/app.db\ndebug: true\nlog-format: json\n"), 0o644))

	v, err := NewViper()
	require.NoError(t, err)
	cfg, err := LoadConfig(v, "/etc/litedb.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/data/app.db", cfg.DatabasePath)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/etc/litedb.yaml", cfg.File)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	useMemFs(t)

	v, err := NewViper()
	require.NoError(t, err)
	_, err = LoadConfig(v, "/nope.yaml")
	assert.Error(t, err)
}

func TestLoadConfig_Env(t *testing.T) {
	useMemFs(t)
	t.Setenv("LITEDB_DB", "env.db")
	t.Setenv("LITEDB_LOG_FORMAT", "json")

	v, err := NewViper()
	require.NoError(t, err)
	cfg, err := LoadConfig(v, "")
	require.NoError(t, err)

	assert.Equal(t, "env.db", cfg.DatabasePath)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadTables(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "schema.tables", []byte(`
table users {
  id   increments
  name string @notnull
  @@timestamp
}
`), 0o644))

	cfg := &Config{SchemaPath: "schema.tables"}
	tables, err := cfg.LoadTables()
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "users", tables[0].Name)
	assert.Equal(t, schema.Column{Name: "name", Type: schema.String, NotNull: true}, tables[0].Columns[1])

	_, err = (&Config{SchemaPath: "missing.tables"}).LoadTables()
	assert.Error(t, err)
}

func TestSaveConfig(t *testing.T) {
	fs := useMemFs(t)

	path, err := SaveConfig(&Config{SchemaPath: "s.tables", DatabasePath: "d.db", LogFormat: "text"})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "db: d.db")
	assert.Contains(t, string(data), "schema: s.tables")
}
