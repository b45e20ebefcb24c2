package postgres

import (
	"testing"

	"github.com/sqldef/ddlschema/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	sql := `CREATE TABLE public.users (
  id SERIAL PRIMARY KEY,
  email VARCHAR(255) NOT NULL UNIQUE,
  status TEXT DEFAULT 'active'::text,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT now() NOT NULL,
  score NUMERIC(10, 2) DEFAULT 100,
  tags TEXT[],
  name TEXT COLLATE "C"
);
CREATE TABLE posts (
  id BIGINT GENERATED ALWAYS AS IDENTITY,
  author_id INTEGER REFERENCES users (id) ON DELETE CASCADE,
  CONSTRAINT posts_pkey PRIMARY KEY (id),
  CONSTRAINT posts_author_fkey FOREIGN KEY (author_id) REFERENCES users ON UPDATE RESTRICT,
  UNIQUE (author_id, id),
  CHECK (id > 0)
);`

	tree, err := NewParser().Parse(sql)
	require.NoError(t, err)
	require.Len(t, tree.Tables, 2)

	assert.Equal(t, &parser.CreateTable{
		Name: "users",
		Columns: []*parser.ColumnDefinition{
			{Name: "id", Type: "serial", Options: []parser.ColumnOption{
				{Type: parser.ColumnOptionAutoIncrement},
				{Type: parser.ColumnOptionPrimaryKey},
			}},
			{Name: "email", Type: "varchar(255)", Options: []parser.ColumnOption{
				{Type: parser.ColumnOptionNotNull},
				{Type: parser.ColumnOptionUnique},
			}},
			{Name: "status", Type: "text", Options: []parser.ColumnOption{
				{Type: parser.ColumnOptionDefault, Value: "'active'"},
			}},
			{Name: "created_at", Type: "timestamptz", Options: []parser.ColumnOption{
				{Type: parser.ColumnOptionDefault, Value: "now()"},
				{Type: parser.ColumnOptionNotNull},
			}},
			{Name: "score", Type: "decimal(10,2)", Options: []parser.ColumnOption{
				{Type: parser.ColumnOptionDefault, Value: "100"},
			}},
			{Name: "tags", Type: "text[]"},
			{Name: "name", Type: "text", Options: []parser.ColumnOption{
				{Type: parser.ColumnOptionCollate, Value: "C"},
			}},
		},
	}, tree.Tables[0])

	assert.Equal(t, &parser.CreateTable{
		Name: "posts",
		Columns: []*parser.ColumnDefinition{
			{Name: "id", Type: "bigint", Options: []parser.ColumnOption{
				{Type: parser.ColumnOptionAutoIncrement},
			}},
			{Name: "author_id", Type: "integer", Options: []parser.ColumnOption{
				{Type: parser.ColumnOptionReferences, Reference: &parser.Reference{Table: "users", Columns: []string{"id"}, OnDelete: "CASCADE"}},
			}},
		},
		Constraints: []*parser.TableConstraint{
			{Type: parser.ConstraintPrimaryKey, Name: "posts_pkey", Columns: []string{"id"}},
			{Type: parser.ConstraintForeignKey, Name: "posts_author_fkey", Columns: []string{"author_id"}, Reference: &parser.Reference{Table: "users", OnUpdate: "RESTRICT"}},
			{Type: parser.ConstraintUnique, Columns: []string{"author_id", "id"}},
			{Type: parser.ConstraintCheck},
		},
	}, tree.Tables[1])
}

func TestParseEnumModifiers(t *testing.T) {
	tree, err := NewParser().Parse("CREATE TABLE moods (mood ENUM('happy', 'it''s ok'))")
	require.NoError(t, err)
	assert.Equal(t, "enum('happy','it''s ok')", tree.Tables[0].Columns[0].Type)
}

func TestParseRejectsMySQL(t *testing.T) {
	tests := map[string]string{
		"auto increment": "CREATE TABLE t (id INT AUTO_INCREMENT)",
		"display width":  "CREATE TABLE t (id INT(11))",
		"backticks":      "CREATE TABLE `t` (id INT)",
		"inline key":     "CREATE TABLE t (id INT, name TEXT, KEY idx_name (name))",
	}
	for name, sql := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewParser().Parse(sql)
			assert.Error(t, err)
		})
	}
}

func TestDefaultSource(t *testing.T) {
	tests := []struct {
		sql      string
		expected string
	}{
		{"a TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL", "CURRENT_TIMESTAMP"},
		{"a TEXT DEFAULT concat('x,', 'y'), b INT", "concat('x,', 'y')"},
		{"(a UUID DEFAULT gen_random_uuid())", "gen_random_uuid()"},
		{"a INT CONSTRAINT d DEFAULT nextval('s') PRIMARY KEY", "nextval('s')"},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.expected, defaultSource(tt.sql, 0))
		})
	}
}
