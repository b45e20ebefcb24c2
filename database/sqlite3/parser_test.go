package sqlite3

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sqldef/ddlschema/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	sql := `
CREATE TABLE users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email VARCHAR(255) NOT NULL UNIQUE,
  score INT DEFAULT 0
);
CREATE TABLE memberships (
  user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  group_id INTEGER NOT NULL,
  PRIMARY KEY (user_id, group_id)
);
CREATE TABLE notes (
  body TEXT,
  author_id INTEGER REFERENCES users
);`

	tree, err := NewParser().Parse(sql)
	require.NoError(t, err)
	require.Len(t, tree.Tables, 3)

	users := tree.Tables[0]
	assert.Equal(t, "users", users.Name)
	assert.Equal(t, []*parser.ColumnDefinition{
		{Name: "id", Type: "INTEGER", Options: []parser.ColumnOption{
			{Type: parser.ColumnOptionPrimaryKey},
			{Type: parser.ColumnOptionAutoIncrement},
		}},
		{Name: "email", Type: "VARCHAR(255)", Options: []parser.ColumnOption{
			{Type: parser.ColumnOptionNotNull},
			{Type: parser.ColumnOptionUnique},
		}},
		{Name: "score", Type: "INT", Options: []parser.ColumnOption{
			{Type: parser.ColumnOptionDefault, Value: "0"},
		}},
	}, users.Columns)
	assert.Empty(t, users.Constraints)

	memberships := tree.Tables[1]
	assert.Equal(t, "memberships", memberships.Name)
	assert.Equal(t, []parser.ColumnOption{{Type: parser.ColumnOptionNotNull}}, memberships.Columns[0].Options)
	assert.Equal(t, []*parser.TableConstraint{
		{Type: parser.ConstraintPrimaryKey, Columns: []string{"user_id", "group_id"}},
		{Type: parser.ConstraintForeignKey, Columns: []string{"user_id"}, Reference: &parser.Reference{
			Table:    "users",
			Columns:  []string{"id"},
			OnDelete: "CASCADE",
		}},
	}, memberships.Constraints)

	notes := tree.Tables[2]
	require.Len(t, notes.Constraints, 1)
	assert.Equal(t, "users", notes.Constraints[0].Reference.Table)
	assert.Empty(t, notes.Constraints[0].Reference.Columns)
}

func TestParseCompositeUnique(t *testing.T) {
	tree, err := NewParser().Parse("CREATE TABLE tags (post_id INT, name TEXT, UNIQUE (post_id, name));")
	require.NoError(t, err)
	require.Len(t, tree.Tables, 1)
	assert.Equal(t, []*parser.TableConstraint{
		{Type: parser.ConstraintUnique, Columns: []string{"post_id", "name"}},
	}, tree.Tables[0].Constraints)
	for _, column := range tree.Tables[0].Columns {
		assert.Empty(t, column.Options)
	}
}

func TestParseManyUniqueConstraints(t *testing.T) {
	var columns, uniques []string
	var expected []*parser.TableConstraint
	for i := 0; i < 12; i++ {
		columns = append(columns, fmt.Sprintf("c%d INT", i))
		if i > 0 {
			uniques = append(uniques, fmt.Sprintf("UNIQUE (c%d, c%d)", i-1, i))
			expected = append(expected, &parser.TableConstraint{
				Type:    parser.ConstraintUnique,
				Columns: []string{fmt.Sprintf("c%d", i-1), fmt.Sprintf("c%d", i)},
			})
		}
	}
	sql := "CREATE TABLE wide (" + strings.Join(append(columns, uniques...), ", ") + ");"

	tree, err := NewParser().Parse(sql)
	require.NoError(t, err)
	require.Len(t, tree.Tables, 1)
	assert.Equal(t, expected, tree.Tables[0].Constraints)
}

func TestAutoindexNumber(t *testing.T) {
	assert.Equal(t, 2, autoindexNumber("sqlite_autoindex_t_2"))
	assert.Equal(t, 10, autoindexNumber("sqlite_autoindex_my_table_10"))
	assert.Equal(t, 0, autoindexNumber("custom"))
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"table options":   "CREATE TABLE t (id INT) ENGINE=InnoDB;",
		"unbalanced":      "CREATE TABLE t (id INT;",
		"duplicate table": "CREATE TABLE t (id INT); CREATE TABLE t (id INT);",
	}
	for name, sql := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewParser().Parse(sql)
			assert.Error(t, err)
		})
	}
}

func TestDialect(t *testing.T) {
	dialect := NewParser().Dialect()
	assert.Equal(t, DialectName, dialect.Name)
	tree, err := dialect.Parse("CREATE TABLE t (id INT);")
	require.NoError(t, err)
	assert.Len(t, tree.Tables, 1)
}

func TestReferentialAction(t *testing.T) {
	assert.Equal(t, "", referentialAction("NO ACTION"))
	assert.Equal(t, "SET NULL", referentialAction("SET NULL"))
	assert.Equal(t, "CASCADE", referentialAction("cascade"))
}
