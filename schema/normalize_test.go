package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeType(t *testing.T) {
	cases := []struct {
		column string
		raw    string
		want   string
	}{
		{"id", "int(11) unsigned", "INT(11)"},
		{"id", "INTEGER", "INT"},
		{"code", "int zerofill", "INT"},
		{"id", "char(36)", "UUID"},
		{"id", "uuid", "UUID"},
		{"owner_uuid", "varchar(64)", "UUID"},
		{"name", "  varchar( 20 )  ", "VARCHAR(20)"},
		{"status", "enum('a','B')", "ENUM('a','B')"},
		{"flags", "set('x','Y')", "SET('x','Y')"},
		{"sign", "enum('signed','unsigned')", "ENUM('signed','unsigned')"},
		{"label", "enum('a  b','c')", "ENUM('a  b','c')"},
		{"mode", "ENUM ('Zerofill', 'x')", "ENUM('Zerofill', 'x')"},
		{"created_at", "timestamp(3)", "TIMESTAMP"},
		{"created_at", "timestamptz", "TIMESTAMP"},
		{"created_at", "timestamp(6) with time zone", "TIMESTAMP"},
		{"opens_at", "timetz", "TIME"},
		{"happened", "datetime2", "DATETIME"},
		{"born", "date", "DATE"},
		{"body", "longtext", "LONGTEXT"},
		{"body", "text(100)", "TEXT"},
		{"data", "json", "JSON"},
		{"data", "jsonb", "jsonb"},
		{"is_active", "tinyint(1)", "BOOLEAN"},
		{"account_enabled", "TINYINT(1)", "BOOLEAN"},
		{"priority", "tinyint(1)", "TINYINT(1)"},
		{"price", "decimal(10, 2)", "DECIMAL(10,2)"},
		{"price", "numeric(10,2)", "DECIMAL(10,2)"},
		{"ratio", "double precision", "DOUBLE"},
		{"id", "serial", "BIGINT"},
		{"id", "bigserial", "BIGINT"},
		{"id", "smallserial", "SMALLINT"},
		{"flag", "bool", "BOOLEAN"},
		{"hash", "varbinary(16)", "VARBINARY(16)"},
		{"payload", "mediumblob", "MEDIUMBLOB"},
		{"ip", "inet", "VARCHAR"},
		{"doc", "xml", "TEXT"},
		{"name", "character varying(255)", "VARCHAR(255)"},
		{"code", "character(2)", "CHAR(2)"},
		{"tags", "TEXT[]", "text[]"},
		{"shape", "GEOMETRY", "geometry"},
	}
	for _, tc := range cases {
		t.Run(tc.column+" "+tc.raw, func(t *testing.T) {
			got := NormalizeType(tc.column, tc.raw)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, NormalizeType(tc.column, got), "normalizing twice must not change the type")
		})
	}
}

func TestNormalizeDefault(t *testing.T) {
	cases := map[string]string{
		"NULL":                   "NULL",
		"null":                   "NULL",
		"'active'":               "active",
		"'it''s'":                "it's",
		"'x'::character varying": "x",
		"('draft'::text)":        "draft",
		"CURRENT_TIMESTAMP":      "CURRENT_TIMESTAMP",
		"current_timestamp()":    "CURRENT_TIMESTAMP",
		"CURRENT_TIMESTAMP(6)":   "CURRENT_TIMESTAMP",
		"now()":                  "now()",
		"gen_random_uuid()":      "gen_random_uuid()",
		"'0'":                    "0",
		"  42 ":                  "42",
		"(1) + (2)":              "(1) + (2)",
		"_UTF8MB4'x'":            "x",
		"_latin1 'a b'":          "a b",
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizeDefault(raw), raw)
	}
}
