package sqlite3

import (
	"context"
	"database/sql"

	"github.com/sqldef/ddlschema/database"
	_ "modernc.org/sqlite"
)

type Sqlite3Database struct {
	config database.Config
	db     *sql.DB
}

func NewDatabase(config database.Config) (database.Database, error) {
	db, err := sql.Open("sqlite", config.DbName)
	if err != nil {
		return nil, err
	}

	return &Sqlite3Database{
		db:     db,
		config: config,
	}, nil
}

// ExportDDLs dumps the stored CREATE TABLE and CREATE INDEX statements in creation order.
// Automatic indexes have no SQL and are skipped.
func (d *Sqlite3Database) ExportDDLs(ctx context.Context) (string, error) {
	rows, err := d.db.QueryContext(ctx, `
		select sql from sqlite_master
		where type in ('table', 'index') and sql is not null and tbl_name not like 'sqlite_%'
		order by rowid
	`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var ddls []string
	for rows.Next() {
		var ddl string
		if err := rows.Scan(&ddl); err != nil {
			return "", err
		}
		ddls = append(ddls, ddl)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return database.JoinDDLs(ddls), nil
}

func (d *Sqlite3Database) DB() *sql.DB {
	return d.db
}

func (d *Sqlite3Database) Close() error {
	return d.db.Close()
}
