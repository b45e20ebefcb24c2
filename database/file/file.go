package file

import (
	"context"
	"database/sql"

	"github.com/sqldef/ddlschema"
	"github.com/sqldef/ddlschema/database"
)

// Pseudo database reading DDL from files. "-" is stdin.
type FileDatabase struct {
	files []string
}

func NewDatabase(files ...string) *FileDatabase {
	return &FileDatabase{
		files: files,
	}
}

// ExportDDLs concatenates the files in the given order.
func (f *FileDatabase) ExportDDLs(ctx context.Context) (string, error) {
	var ddls []string
	for _, file := range f.files {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		ddl, err := ddlschema.ReadFile(file)
		if err != nil {
			return "", err
		}
		ddls = append(ddls, ddl)
	}
	return database.JoinDDLs(ddls), nil
}

func (f *FileDatabase) DB() *sql.DB {
	return nil
}

func (f *FileDatabase) Close() error {
	return nil
}
