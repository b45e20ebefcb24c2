package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/sqldef/ddlschema"
	"github.com/sqldef/ddlschema/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersAndPosts = `
CREATE TABLE users (id INTEGER PRIMARY KEY, email VARCHAR(255) UNIQUE NOT NULL);
CREATE TABLE posts (
  id INTEGER PRIMARY KEY,
  author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  status VARCHAR(20) DEFAULT 'draft'
);
CREATE TABLE tags (name TEXT);
`

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, ddlschema.Parse(usersAndPosts), "text", false))
	assert.Equal(t, `-- dialect: PostgreSQL

TABLE users (InnoDB)
  id INT PRIMARY KEY
  email VARCHAR(255) NOT NULL UNIQUE

TABLE posts (InnoDB)
  id INT PRIMARY KEY
  author_id INT NOT NULL REFERENCES users(id)
  status VARCHAR(20) DEFAULT draft

TABLE tags (InnoDB)
  name TEXT PRIMARY KEY

FOREIGN KEYS
  posts.author_id -> users.id 1:N ON DELETE CASCADE
warning: Table tags has no explicit primary key, using name
`, buf.String())
}

func TestWriteTextErrors(t *testing.T) {
	var buf bytes.Buffer
	result := ddlschema.Parse("CREATE TABLE t (id INT,, name TEXT);")
	require.NoError(t, writeResult(&buf, result, "text", true))
	assert.Contains(t, buf.String(), red+"error: "+reset+"PostgreSQL: ")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, ddlschema.Parse(usersAndPosts), "json", false))

	var decoded schema.ParseResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Tables, 3)
	assert.Equal(t, schema.OneToMany, decoded.ForeignKeyConstraints[0].Cardinality)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, ddlschema.Parse(usersAndPosts), "yaml", false))
	assert.Contains(t, buf.String(), "isPrimaryKey: true")

	var decoded schema.ParseResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "posts", decoded.ForeignKeyConstraints[0].TableName)
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, writeResult(&bytes.Buffer{}, ddlschema.Parse(""), "xml", false))
}

func TestApplyOptions(t *testing.T) {
	config := schema.Config{Dialects: []string{"mysql"}, Concurrency: 2, IDs: "uuid"}

	assert.Equal(t, config, applyOptions(config, &options{}))
	assert.Equal(t, schema.Config{
		Dialects:     []string{"sqlite"},
		PerStatement: true,
		Concurrency:  -1,
		IDs:          "sequential",
	}, applyOptions(config, &options{
		Dialects:     []string{"sqlite"},
		PerStatement: true,
		Concurrency:  -1,
		IDs:          "sequential",
	}))
}

func TestOpenSource(t *testing.T) {
	file := filepath.Join(t.TempDir(), "schema.sql")
	require.NoError(t, os.WriteFile(file, []byte("CREATE TABLE t (id INT)"), 0o644))

	source, err := openSource(&options{Files: []string{file}})
	require.NoError(t, err)
	ddl, err := source.ExportDDLs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE t (id INT);", ddl)

	_, err = openSource(&options{Sqlite: file, Mysql: true})
	assert.EqualError(t, err, "--sqlite and --mysql are mutually exclusive")

	_, err = openSource(&options{Sqlite: filepath.Join(t.TempDir(), "missing.db")})
	assert.Error(t, err)

	t.Setenv(mysqlDSNEnv, "")
	_, err = openSource(&options{Mysql: true})
	assert.EqualError(t, err, "--mysql requires $DDLSCHEMA_MYSQL_DSN")
}
