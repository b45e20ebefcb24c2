package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnquoteIdent(t *testing.T) {
	tests := map[string]string{
		"users":               "users",
		"  users ":            "users",
		"`users`":             "users",
		`"Users"`:             "Users",
		"[users]":             "users",
		"public.users":        "users",
		`"public"."users"`:    "users",
		"`app`.`order.items`": "order.items",
		"[dbo].[t]":           "t",
	}
	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, expected, UnquoteIdent(input))
		})
	}
}

func TestLeadingIdent(t *testing.T) {
	name, ok := LeadingIdent("`created_at` TIMESTAMP NOT NULL")
	assert.True(t, ok)
	assert.Equal(t, "created_at", name)

	_, ok = LeadingIdent("(a + b)")
	assert.False(t, ok)
}

func TestSplitColumnList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "d"}, SplitColumnList("`a`, b(10) DESC, lower(c), \"d\""))
	assert.Equal(t, []string{"user_id", "role"}, SplitColumnList(" user_id ASC ,role "))
	assert.Nil(t, SplitColumnList(""))
}

func TestZipReferenceColumns(t *testing.T) {
	assert.Equal(t,
		[][2]string{{"a", "x"}, {"b", "y"}},
		ZipReferenceColumns([]string{"a", "b"}, []string{"x", "y"}),
	)
	assert.Equal(t,
		[][2]string{{"a", "x"}, {"b", "x"}, {"c", "x"}},
		ZipReferenceColumns([]string{"a", "b", "c"}, []string{"x"}),
	)
	assert.Equal(t,
		[][2]string{{"a", ""}},
		ZipReferenceColumns([]string{"a"}, nil),
	)
}
