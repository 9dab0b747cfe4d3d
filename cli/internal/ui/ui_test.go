package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessages(t *testing.T) {
	var buf bytes.Buffer
	Success(&buf, "created %d tables", 2)
	Warning(&buf, "dropping")
	Error(&buf, "failed")
	Info(&buf, "driver %s", "sqlite")
	Step(&buf, 1, 3, "create")

	out := buf.String()
	assert.Contains(t, out, "✓ created 2 tables")
	assert.Contains(t, out, "⚠ dropping")
	assert.Contains(t, out, "✗ failed")
	assert.Contains(t, out, "ℹ driver sqlite")
	assert.Contains(t, out, "[1/3] create")
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, []string{"id", "name"}, [][]string{{"1", "alice"}, {"2", "bob"}}))

	out := buf.String()
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
}

func TestStatements(t *testing.T) {
	var buf bytes.Buffer
	Statements(&buf, []string{`create table "t" ("a" text)`, "drop table t;"})
	assert.Equal(t, "create table \"t\" (\"a\" text);\ndrop table t;\n", buf.String())
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, "# users\n\nsome text"))
	assert.Contains(t, buf.String(), "users")
}
