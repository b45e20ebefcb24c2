package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	driver "github.com/go-sql-driver/mysql"
	"github.com/sqldef/ddlschema/database"
	"github.com/sqldef/ddlschema/util"
)

type MysqlDatabase struct {
	config database.Config
	db     *sql.DB
}

func NewDatabase(config database.Config) (database.Database, error) {
	db, err := sql.Open("mysql", mysqlBuildDSN(config))
	if err != nil {
		return nil, err
	}

	return &MysqlDatabase{
		db:     db,
		config: config,
	}, nil
}

// ExportDDLs dumps `SHOW CREATE TABLE` for every base table in the database.
func (d *MysqlDatabase) ExportDDLs(ctx context.Context) (string, error) {
	tableNames, err := d.tableNames(ctx)
	if err != nil {
		return "", err
	}
	slog.Debug("Dumping MySQL tables", "database", d.config.DbName, "tables", len(tableNames))

	ddls, err := util.ConcurrentMapFuncWithError(
		tableNames,
		d.config.DumpConcurrency,
		func(tableName string) (string, error) {
			return d.exportTableDDL(ctx, tableName)
		})
	if err != nil {
		return "", err
	}
	return database.JoinDDLs(ddls), nil
}

func (d *MysqlDatabase) tableNames(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SHOW FULL TABLES
		WHERE Table_Type != 'VIEW'
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var table string
		var tableType string
		if err := rows.Scan(&table, &tableType); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (d *MysqlDatabase) exportTableDDL(ctx context.Context, table string) (string, error) {
	var ddl string
	query := "SHOW CREATE TABLE " + database.QuoteIdent(table, '`')
	if err := d.db.QueryRowContext(ctx, query).Scan(&table, &ddl); err != nil {
		return "", fmt.Errorf("failed to dump %s: %w", table, err)
	}
	return ddl + ";", nil
}

func (d *MysqlDatabase) DB() *sql.DB {
	return d.db
}

func (d *MysqlDatabase) Close() error {
	return d.db.Close()
}

func mysqlBuildDSN(config database.Config) string {
	c := driver.NewConfig()
	c.User = config.User
	c.Passwd = config.Password
	c.DBName = config.DbName
	if config.Socket == "" {
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	} else {
		c.Net = "unix"
		c.Addr = config.Socket
	}
	return c.FormatDSN()
}

// ConfigFromDSN reads a go-sql-driver DSN such as `user:pass@tcp(127.0.0.1:3306)/app`.
func ConfigFromDSN(dsn string) (database.Config, error) {
	c, err := driver.ParseDSN(dsn)
	if err != nil {
		return database.Config{}, err
	}

	config := database.Config{
		DbName:   c.DBName,
		User:     c.User,
		Password: c.Passwd,
	}
	switch c.Net {
	case "unix":
		config.Socket = c.Addr
	default:
		host, port, err := net.SplitHostPort(c.Addr)
		if err != nil {
			return database.Config{}, fmt.Errorf("invalid MySQL address %q: %w", c.Addr, err)
		}
		config.Host = host
		if config.Port, err = strconv.Atoi(port); err != nil {
			return database.Config{}, fmt.Errorf("invalid MySQL port %q: %w", port, err)
		}
	}
	return config, nil
}
