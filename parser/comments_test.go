package parser

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected string
	}{
		{
			name:     "line comment",
			sql:      "-- comment\nCREATE TABLE a (id INT);",
			expected: "\nCREATE TABLE a (id INT);",
		},
		{
			name:     "hash comment",
			sql:      "# dumped by mysqldump\nSELECT 1",
			expected: "\nSELECT 1",
		},
		{
			name:     "block comment",
			sql:      "a /* x */ b",
			expected: "a   b",
		},
		{
			name:     "executable comment",
			sql:      "/*!40101 SET NAMES utf8 */;",
			expected: " ;",
		},
		{
			name:     "unterminated block comment",
			sql:      "a /* b",
			expected: "a ",
		},
		{
			name:     "comment markers inside strings",
			sql:      "CREATE TABLE a (x VARCHAR(10) DEFAULT '-- not a comment', y TEXT DEFAULT \"/* nor this */\")",
			expected: "CREATE TABLE a (x VARCHAR(10) DEFAULT '-- not a comment', y TEXT DEFAULT \"/* nor this */\")",
		},
		{
			name:     "escaped quote inside string",
			sql:      "SELECT 'it''s -- fine', 'a\\' # b' -- gone",
			expected: "SELECT 'it''s -- fine', 'a\\' # b' ",
		},
		{
			name:     "backtick identifier",
			sql:      "CREATE TABLE `a--b` (`c#d` INT)",
			expected: "CREATE TABLE `a--b` (`c#d` INT)",
		},
		{
			name:     "dollar quoted body",
			sql:      "SELECT $body$ -- keep $body$, $$ /* keep */ $$",
			expected: "SELECT $body$ -- keep $body$, $$ /* keep */ $$",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripComments(tt.sql))
		})
	}
}

func TestMaskQuoted(t *testing.T) {
	tests := []struct {
		sql      string
		expected string
	}{
		{"a 'b c' d", "a '___' d"},
		{"`unsigned` INT", "`________` INT"},
		{`"x" 'it''s'`, `"_" '_____'`},
		{"$$ a $$ b", "$_____$ b"},
		{"'open", "'____"},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskQuoted(tt.sql))
		})
	}
}

func TestRemoveOutsideQuotes(t *testing.T) {
	re := regexp.MustCompile(`(?i)\s+UNSIGNED\b`)
	assert.Equal(t, "a INT DEFAULT 'x unsigned'", removeOutsideQuotes("a INT UNSIGNED DEFAULT 'x unsigned'", re))

	comment := regexp.MustCompile(`(?is)\s+COMMENT\s*=?\s*'(?:[^'\\]|\\.|'')*'`)
	assert.Equal(t, "a INT", removeOutsideQuotes("a INT COMMENT 'it''s'", comment))
	assert.Equal(t, []string{"COMMENT 'x'", "x"}, findOutsideQuotes("DEFAULT 'COMMENT' COMMENT 'x'", regexp.MustCompile(`COMMENT '([^']*)'`)))
}
