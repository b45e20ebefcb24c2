package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func columns(names ...string) []*Column {
	var cols []*Column
	for _, name := range names {
		col := &Column{Name: name}
		if len(name) > 3 && name[:3] == "fk:" {
			col.Name = name[3:]
			col.IsForeignKey = true
		}
		cols = append(cols, col)
	}
	return cols
}

func TestDetectPrimaryKey(t *testing.T) {
	cases := []struct {
		name    string
		table   string
		columns []*Column
		want    string
	}{
		{"table id", "widgets", columns("name", "widgets_id"), "widgets_id"},
		{"singular id before id", "users", columns("id", "user_id"), "user_id"},
		{"singular of ies", "categories", columns("label", "category_id"), "category_id"},
		{"plain id", "orders", columns("total", "id"), "id"},
		{"uuid", "devices", columns("label", "uuid"), "uuid"},
		{"contains", "accounts", columns("name", "account_id_ref"), "account_id_ref"},
		{"junction", "post_taggings", columns("fk:tag_id", "fk:post_id", "id"), "tag_id"},
		{"junction needs two foreign keys", "user_has_roles", columns("name", "fk:role_id"), "role_id"},
		{"first non foreign key", "logs", columns("fk:ref", "message"), "message"},
		{"first column", "events", columns("fk:a", "fk:b"), "a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			column := DetectPrimaryKey(tc.table, tc.columns)
			if assert.NotNil(t, column) {
				assert.Equal(t, tc.want, column.Name)
			}
		})
	}
}

func TestDetectPrimaryKeyWithoutColumns(t *testing.T) {
	assert.Nil(t, DetectPrimaryKey("empty", nil))
}

func TestSingularize(t *testing.T) {
	for plural, singular := range map[string]string{
		"users":      "user",
		"categories": "category",
		"addresses":  "address",
		"boxes":      "box",
		"class":      "class",
		"data":       "data",
	} {
		assert.Equal(t, singular, singularize(plural), plural)
	}
}
