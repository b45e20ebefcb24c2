package sqlite3

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/sqldef/ddlschema/database"
	"github.com/sqldef/ddlschema/parser"
)

const DialectName = "SQLite"

// Sqlite3Parser has SQLite itself parse the DDL: the statements run against a private
// in-memory database and the tables are read back through PRAGMAs.
type Sqlite3Parser struct{}

func NewParser() Sqlite3Parser {
	return Sqlite3Parser{}
}

func (p Sqlite3Parser) Dialect() parser.Dialect {
	return parser.Dialect{Name: DialectName, Parse: p.Parse}
}

func (p Sqlite3Parser) Parse(ddl string) (*parser.Tree, error) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	defer db.Close()
	// Every connection to :memory: is a different database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, err
	}

	tables, err := storedTables(ctx, db)
	if err != nil {
		return nil, err
	}

	tree := &parser.Tree{}
	for _, stored := range tables {
		table, err := introspectTable(ctx, db, stored)
		if err != nil {
			return nil, fmt.Errorf("failed to read back table %s: %w", stored.name, err)
		}
		tree.Tables = append(tree.Tables, table)
	}
	return tree, nil
}

type storedTable struct {
	name string
	sql  string
}

func storedTables(ctx context.Context, db *sql.DB) ([]storedTable, error) {
	rows, err := db.QueryContext(ctx,
		`select name, sql from sqlite_master where type = 'table' and name not like 'sqlite_%' order by rowid`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []storedTable
	for rows.Next() {
		var t storedTable
		if err := rows.Scan(&t.name, &t.sql); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

var autoincrementRegexp = regexp.MustCompile(`(?i)\bAUTOINCREMENT\b`)

func introspectTable(ctx context.Context, db *sql.DB, stored storedTable) (*parser.CreateTable, error) {
	table := &parser.CreateTable{Name: stored.name}
	quoted := database.QuoteIdent(stored.name, '"')

	columns, err := tableColumns(ctx, db, quoted)
	if err != nil {
		return nil, err
	}

	var pkColumns []tableColumn
	for _, column := range columns {
		if column.pk > 0 {
			pkColumns = append(pkColumns, column)
		}
	}
	slices.SortFunc(pkColumns, func(a, b tableColumn) int { return cmp.Compare(a.pk, b.pk) })

	uniques, err := uniqueIndexes(ctx, db, quoted)
	if err != nil {
		return nil, err
	}
	uniqueColumns := map[string]bool{}
	for _, unique := range uniques {
		if len(unique) == 1 {
			uniqueColumns[unique[0]] = true
		}
	}

	for _, column := range columns {
		def := &parser.ColumnDefinition{Name: column.name, Type: column.dataType}
		if len(pkColumns) == 1 && column.pk > 0 {
			def.Options = append(def.Options, parser.ColumnOption{Type: parser.ColumnOptionPrimaryKey})
			if autoincrementRegexp.MatchString(stored.sql) {
				def.Options = append(def.Options, parser.ColumnOption{Type: parser.ColumnOptionAutoIncrement})
			}
		}
		if column.notNull {
			def.Options = append(def.Options, parser.ColumnOption{Type: parser.ColumnOptionNotNull})
		}
		if uniqueColumns[column.name] {
			def.Options = append(def.Options, parser.ColumnOption{Type: parser.ColumnOptionUnique})
		}
		if column.defaultValue.Valid {
			def.Options = append(def.Options, parser.ColumnOption{Type: parser.ColumnOptionDefault, Value: column.defaultValue.String})
		}
		table.Columns = append(table.Columns, def)
	}

	if len(pkColumns) > 1 {
		var names []string
		for _, column := range pkColumns {
			names = append(names, column.name)
		}
		table.Constraints = append(table.Constraints, &parser.TableConstraint{Type: parser.ConstraintPrimaryKey, Columns: names})
	}
	for _, unique := range uniques {
		if len(unique) > 1 {
			table.Constraints = append(table.Constraints, &parser.TableConstraint{Type: parser.ConstraintUnique, Columns: unique})
		}
	}

	foreignKeys, err := foreignKeys(ctx, db, quoted)
	if err != nil {
		return nil, err
	}
	table.Constraints = append(table.Constraints, foreignKeys...)
	return table, nil
}

type tableColumn struct {
	name         string
	dataType     string
	notNull      bool
	defaultValue sql.NullString
	pk           int
}

func tableColumns(ctx context.Context, db *sql.DB, table string) ([]tableColumn, error) {
	rows, err := db.QueryContext(ctx, "pragma table_info("+table+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []tableColumn
	for rows.Next() {
		var cid, notNull int
		var c tableColumn
		if err := rows.Scan(&cid, &c.name, &c.dataType, &notNull, &c.defaultValue, &c.pk); err != nil {
			return nil, err
		}
		c.notNull = notNull != 0
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

// autoindexNumber returns N of sqlite_autoindex_<table>_N, or 0.
func autoindexNumber(name string) int {
	n, err := strconv.Atoi(name[strings.LastIndexByte(name, '_')+1:])
	if err != nil {
		return 0
	}
	return n
}

// uniqueIndexes returns the column lists of UNIQUE constraints, ordered by their
// automatic index names so that declaration order is kept.
func uniqueIndexes(ctx context.Context, db *sql.DB, table string) ([][]string, error) {
	rows, err := db.QueryContext(ctx, "pragma index_list("+table+")")
	if err != nil {
		return nil, err
	}

	var names []string
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, err
		}
		if unique != 0 && origin == "u" {
			names = append(names, name)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.SortFunc(names, func(a, b string) int {
		return cmp.Or(cmp.Compare(autoindexNumber(a), autoindexNumber(b)), cmp.Compare(a, b))
	})

	var uniques [][]string
	for _, name := range names {
		columns, err := indexColumns(ctx, db, name)
		if err != nil {
			return nil, err
		}
		if len(columns) > 0 {
			uniques = append(uniques, columns)
		}
	}
	return uniques, nil
}

func indexColumns(ctx context.Context, db *sql.DB, index string) ([]string, error) {
	rows, err := db.QueryContext(ctx, "pragma index_info("+database.QuoteIdent(index, '"')+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		if name.Valid {
			columns = append(columns, name.String)
		}
	}
	return columns, rows.Err()
}

func foreignKeys(ctx context.Context, db *sql.DB, table string) ([]*parser.TableConstraint, error) {
	rows, err := db.QueryContext(ctx, "pragma foreign_key_list("+table+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := map[int]*parser.TableConstraint{}
	var ids []int
	for rows.Next() {
		var id, seq int
		var refTable, from, onUpdate, onDelete, match string
		var to sql.NullString
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}
		fk, ok := byID[id]
		if !ok {
			fk = &parser.TableConstraint{
				Type: parser.ConstraintForeignKey,
				Reference: &parser.Reference{
					Table:    refTable,
					OnDelete: referentialAction(onDelete),
					OnUpdate: referentialAction(onUpdate),
				},
			}
			byID[id] = fk
			ids = append(ids, id)
		}
		fk.Columns = append(fk.Columns, from)
		if to.Valid && to.String != "" {
			fk.Reference.Columns = append(fk.Reference.Columns, to.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// SQLite numbers foreign keys from the last declared one.
	slices.SortFunc(ids, func(a, b int) int { return cmp.Compare(b, a) })
	constraints := make([]*parser.TableConstraint, 0, len(ids))
	for _, id := range ids {
		constraints = append(constraints, byID[id])
	}
	return constraints, nil
}

func referentialAction(action string) string {
	if action = strings.ToUpper(action); action == "NO ACTION" {
		return ""
	}
	return action
}
