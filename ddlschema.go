// Package ddlschema reads SQL DDL written for PostgreSQL, MySQL or SQLite and
// reconstructs a dialect-independent schema model from it.
package ddlschema

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sqldef/ddlschema/database/mysql"
	"github.com/sqldef/ddlschema/database/postgres"
	"github.com/sqldef/ddlschema/database/sqlite3"
	"github.com/sqldef/ddlschema/parser"
	"github.com/sqldef/ddlschema/schema"
	"golang.org/x/term"
)

// Parse parses sql with the default configuration.
func Parse(sql string) *schema.ParseResult {
	return schema.Parse(sql, DefaultDialects(), schema.Config{})
}

// ParseWithConfig parses sql with the given configuration. The error is only
// about the configuration itself; parse problems are reported in the result.
func ParseWithConfig(sql string, config schema.Config) (*schema.ParseResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	dialects := DefaultDialects()
	if len(config.Dialects) > 0 {
		var err error
		if dialects, err = DialectsByName(config.Dialects); err != nil {
			return nil, err
		}
	}
	return schema.Parse(sql, dialects, config), nil
}

// DefaultDialects returns the grammars in their default fallback order.
func DefaultDialects() []parser.Dialect {
	return []parser.Dialect{
		postgres.NewParser().Dialect(),
		mysql.NewParser().Dialect(),
		sqlite3.NewParser().Dialect(),
	}
}

// DialectsByName resolves dialect names, ignoring case, in the given order.
func DialectsByName(names []string) ([]parser.Dialect, error) {
	var dialects []parser.Dialect
	for _, name := range names {
		switch strings.ToLower(name) {
		case "postgresql", "postgres", "pg":
			dialects = append(dialects, postgres.NewParser().Dialect())
		case "mysql", "mariadb":
			dialects = append(dialects, mysql.NewParser().Dialect())
		case "sqlite", "sqlite3":
			dialects = append(dialects, sqlite3.NewParser().Dialect())
		default:
			return nil, fmt.Errorf("unknown dialect %q (expected postgresql, mysql or sqlite)", name)
		}
	}
	return dialects, nil
}

// ReadFile reads a whole file. "-" reads stdin, which must not be a terminal.
func ReadFile(filepath string) (string, error) {
	var err error
	var buf []byte

	if filepath == "-" {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return "", fmt.Errorf("stdin is not piped")
		}
		buf, err = io.ReadAll(os.Stdin)
	} else {
		buf, err = os.ReadFile(filepath)
	}

	if err != nil {
		return "", err
	}
	return string(buf), nil
}
