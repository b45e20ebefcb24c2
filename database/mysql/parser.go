package mysql

import (
	"fmt"
	"regexp"
	"strings"

	mysqlparser "github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/format"
	"github.com/pingcap/tidb/parser/test_driver"
	"github.com/sqldef/ddlschema/parser"
)

const DialectName = "MySQL"

type MysqlParser struct{}

func NewParser() MysqlParser {
	return MysqlParser{}
}

func (p MysqlParser) Dialect() parser.Dialect {
	return parser.Dialect{Name: DialectName, Parse: p.Parse}
}

// Parse parses CREATE TABLE statements with TiDB's MySQL grammar. A tidb parser is
// not safe for concurrent use, so every call builds its own.
func (p MysqlParser) Parse(sql string) (*parser.Tree, error) {
	stmts, _, err := mysqlparser.New().Parse(sql, "", "")
	if err != nil {
		return nil, err
	}

	tree := &parser.Tree{}
	for _, stmt := range stmts {
		createTable, ok := stmt.(*ast.CreateTableStmt)
		if !ok {
			continue
		}
		if createTable.ReferTable != nil || createTable.Select != nil {
			continue
		}
		table, err := p.parseCreateTable(createTable)
		if err != nil {
			return nil, err
		}
		tree.Tables = append(tree.Tables, table)
	}
	return tree, nil
}

func (p MysqlParser) parseCreateTable(stmt *ast.CreateTableStmt) (*parser.CreateTable, error) {
	if stmt.Table == nil {
		return nil, fmt.Errorf("CREATE TABLE without a table name")
	}
	table := &parser.CreateTable{Name: stmt.Table.Name.O}

	for _, col := range stmt.Cols {
		column, err := p.parseColumnDef(col)
		if err != nil {
			return nil, err
		}
		table.Columns = append(table.Columns, column)
	}

	for _, constraint := range stmt.Constraints {
		if c := p.parseConstraint(constraint); c != nil {
			table.Constraints = append(table.Constraints, c)
		}
	}

	for _, opt := range stmt.Options {
		switch opt.Tp {
		case ast.TableOptionEngine:
			table.Options = append(table.Options, parser.TableOption{Name: "ENGINE", Value: opt.StrValue})
		case ast.TableOptionCollate:
			table.Options = append(table.Options, parser.TableOption{Name: "COLLATE", Value: opt.StrValue})
		case ast.TableOptionComment:
			table.Options = append(table.Options, parser.TableOption{Name: "COMMENT", Value: opt.StrValue})
		}
	}
	return table, nil
}

func (p MysqlParser) parseColumnDef(col *ast.ColumnDef) (*parser.ColumnDefinition, error) {
	column := &parser.ColumnDefinition{
		Name: col.Name.Name.O,
	}
	if col.Tp != nil {
		column.Type = columnType(col.Tp.CompactStr())
	}

	for _, opt := range col.Options {
		switch opt.Tp {
		case ast.ColumnOptionPrimaryKey:
			column.Options = append(column.Options, parser.ColumnOption{Type: parser.ColumnOptionPrimaryKey})
		case ast.ColumnOptionNotNull:
			column.Options = append(column.Options, parser.ColumnOption{Type: parser.ColumnOptionNotNull})
		case ast.ColumnOptionNull:
			column.Options = append(column.Options, parser.ColumnOption{Type: parser.ColumnOptionNull})
		case ast.ColumnOptionUniqKey:
			column.Options = append(column.Options, parser.ColumnOption{Type: parser.ColumnOptionUnique})
		case ast.ColumnOptionAutoIncrement:
			column.Options = append(column.Options, parser.ColumnOption{Type: parser.ColumnOptionAutoIncrement})
		case ast.ColumnOptionDefaultValue:
			value, err := restore(opt.Expr)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", column.Name, err)
			}
			column.Options = append(column.Options, parser.ColumnOption{Type: parser.ColumnOptionDefault, Value: value})
		case ast.ColumnOptionComment:
			value, err := restore(opt.Expr)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", column.Name, err)
			}
			column.Options = append(column.Options, parser.ColumnOption{Type: parser.ColumnOptionComment, Value: unquote(value)})
		case ast.ColumnOptionCollate:
			column.Options = append(column.Options, parser.ColumnOption{Type: parser.ColumnOptionCollate, Value: opt.StrValue})
		case ast.ColumnOptionReference:
			column.Options = append(column.Options, parser.ColumnOption{
				Type:      parser.ColumnOptionReferences,
				Reference: p.parseReference(opt.Refer),
			})
		}
	}
	return column, nil
}

func (p MysqlParser) parseConstraint(constraint *ast.Constraint) *parser.TableConstraint {
	c := &parser.TableConstraint{
		Name:    constraint.Name,
		Columns: keyColumns(constraint.Keys),
	}
	switch constraint.Tp {
	case ast.ConstraintPrimaryKey:
		c.Type = parser.ConstraintPrimaryKey
		c.Name = "" // always PRIMARY in MySQL
	case ast.ConstraintUniq, ast.ConstraintUniqKey, ast.ConstraintUniqIndex:
		c.Type = parser.ConstraintUnique
	case ast.ConstraintKey, ast.ConstraintIndex:
		c.Type = parser.ConstraintIndex
	case ast.ConstraintFulltext:
		c.Type = parser.ConstraintFulltext
	case ast.ConstraintForeignKey:
		c.Type = parser.ConstraintForeignKey
		c.Reference = p.parseReference(constraint.Refer)
	case ast.ConstraintCheck:
		c.Type = parser.ConstraintCheck
		c.Columns = nil
	default:
		return nil
	}
	return c
}

func (p MysqlParser) parseReference(refer *ast.ReferenceDef) *parser.Reference {
	if refer == nil {
		return nil
	}
	ref := &parser.Reference{
		Columns: keyColumns(refer.IndexPartSpecifications),
	}
	if refer.Table != nil {
		ref.Table = refer.Table.Name.O
	}
	if refer.OnDelete != nil {
		ref.OnDelete = refer.OnDelete.ReferOpt.String()
	}
	if refer.OnUpdate != nil {
		ref.OnUpdate = refer.OnUpdate.ReferOpt.String()
	}
	return ref
}

// keyColumns drops expression parts such as `(lower(name))`.
func keyColumns(keys []*ast.IndexPartSpecification) []string {
	var columns []string
	for _, key := range keys {
		if key.Column != nil {
			columns = append(columns, key.Column.Name.O)
		}
	}
	return columns
}

var displayWidthRegexp = regexp.MustCompile(`^(tinyint|smallint|mediumint|int|bigint)\(\d+\)`)

// columnType drops integer display widths, which tidb fills in even when omitted
// (`int` becomes `int(11)`). tinyint(1) is kept because it is how MySQL spells BOOLEAN.
func columnType(compact string) string {
	if compact == "tinyint(1)" {
		return compact
	}
	return displayWidthRegexp.ReplaceAllString(compact, "$1")
}

func restore(node ast.Node) (string, error) {
	if node == nil {
		return "", nil
	}
	// The test driver writes string literals with their charset introducer (_UTF8MB4'x')
	// regardless of RestoreStringWithoutCharset.
	if value, ok := node.(*test_driver.ValueExpr); ok && value.Kind() == test_driver.KindString {
		return "'" + strings.ReplaceAll(value.GetString(), "'", "''") + "'", nil
	}
	var sb strings.Builder
	flags := format.DefaultRestoreFlags | format.RestoreStringWithoutCharset
	if err := node.Restore(format.NewRestoreCtx(flags, &sb)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}
