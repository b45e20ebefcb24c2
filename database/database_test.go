package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinDDLs(t *testing.T) {
	tests := []struct {
		name     string
		ddls     []string
		expected string
	}{
		{
			name:     "empty",
			ddls:     nil,
			expected: "",
		},
		{
			name:     "mixed terminators",
			ddls:     []string{"CREATE TABLE a (id INT);", "  CREATE TABLE b (id INT)\n", ";"},
			expected: "CREATE TABLE a (id INT);\n\nCREATE TABLE b (id INT);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinDDLs(tt.ddls))
		})
	}
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, "`users`", QuoteIdent("users", '`'))
	assert.Equal(t, "`we``ird`", QuoteIdent("we`ird", '`'))
	assert.Equal(t, `"a""b"`, QuoteIdent(`a"b`, '"'))
}

func TestConfigString(t *testing.T) {
	assert.Equal(t, "root@127.0.0.1:3306/app", Config{User: "root", Host: "127.0.0.1", Port: 3306, DbName: "app"}.String())
	assert.Equal(t, "root@unix(/tmp/mysql.sock)/app", Config{User: "root", Socket: "/tmp/mysql.sock", DbName: "app"}.String())
}
