// This package has DDL sources: places a schema can be read from as DDL text.
// Never interpret DDL here.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type Config struct {
	DbName   string
	User     string
	Password string
	Host     string
	Port     int
	Socket   string

	// Tables dumped in parallel. 0 dumps sequentially, a negative value removes the limit.
	DumpConcurrency int
}

// Abstraction layer for places DDL can be exported from
type Database interface {
	ExportDDLs(ctx context.Context) (string, error)
	DB() *sql.DB
	Close() error
}

// JoinDDLs renders dumped statements as one `;`-terminated script.
func JoinDDLs(ddls []string) string {
	stmts := make([]string, 0, len(ddls))
	for _, ddl := range ddls {
		ddl = strings.TrimRight(strings.TrimSpace(ddl), ";")
		if ddl != "" {
			stmts = append(stmts, ddl+";")
		}
	}
	return strings.Join(stmts, "\n\n")
}

// QuoteIdent quotes an identifier with the given quote character, doubling embedded quotes.
func QuoteIdent(ident string, quote byte) string {
	q := string(quote)
	return q + strings.ReplaceAll(ident, q, q+q) + q
}

func (c Config) String() string {
	if c.Socket != "" {
		return fmt.Sprintf("%s@unix(%s)/%s", c.User, c.Socket, c.DbName)
	}
	return fmt.Sprintf("%s@%s:%d/%s", c.User, c.Host, c.Port, c.DbName)
}
