package postgres

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	pgquery "github.com/pganalyze/pg_query_go/v5"
	"github.com/sqldef/ddlschema/parser"
)

const DialectName = "PostgreSQL"

type PostgresParser struct{}

func NewParser() PostgresParser {
	return PostgresParser{}
}

func (p PostgresParser) Dialect() parser.Dialect {
	return parser.Dialect{Name: DialectName, Parse: p.Parse}
}

// Parse parses CREATE TABLE statements with PostgreSQL's own grammar.
func (p PostgresParser) Parse(sql string) (*parser.Tree, error) {
	result, err := pgquery.Parse(sql)
	if err != nil {
		return nil, err
	}

	tree := &parser.Tree{}
	for _, rawStmt := range result.Stmts {
		stmt, ok := rawStmt.Stmt.Node.(*pgquery.Node_CreateStmt)
		if !ok {
			continue
		}
		table, err := p.parseCreateStmt(sql, stmt.CreateStmt)
		if err != nil {
			return nil, err
		}
		tree.Tables = append(tree.Tables, table)
	}
	return tree, nil
}

func (p PostgresParser) parseCreateStmt(sql string, stmt *pgquery.CreateStmt) (*parser.CreateTable, error) {
	if stmt.Relation == nil {
		return nil, fmt.Errorf("CREATE TABLE without a relation")
	}

	table := &parser.CreateTable{Name: stmt.Relation.Relname}
	for _, elt := range stmt.TableElts {
		switch node := elt.Node.(type) {
		case *pgquery.Node_ColumnDef:
			column, err := p.parseColumnDef(sql, node.ColumnDef)
			if err != nil {
				return nil, err
			}
			table.Columns = append(table.Columns, column)
		case *pgquery.Node_Constraint:
			if constraint := p.parseTableConstraint(node.Constraint); constraint != nil {
				table.Constraints = append(table.Constraints, constraint)
			}
		default:
			// LIKE clauses and friends carry no columns of their own.
		}
	}
	return table, nil
}

func (p PostgresParser) parseColumnDef(sql string, columnDef *pgquery.ColumnDef) (*parser.ColumnDefinition, error) {
	dataType, err := p.parseTypeName(columnDef.TypeName)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", columnDef.Colname, err)
	}
	column := &parser.ColumnDefinition{
		Name: columnDef.Colname,
		Type: dataType,
	}
	if isSerialType(column.Type) {
		column.Options = append(column.Options, parser.ColumnOption{Type: parser.ColumnOptionAutoIncrement})
	}

	for _, node := range columnDef.Constraints {
		constraint := node.GetConstraint()
		if constraint == nil {
			continue
		}
		switch constraint.Contype {
		case pgquery.ConstrType_CONSTR_NOTNULL:
			column.Options = append(column.Options, parser.ColumnOption{Type: parser.ColumnOptionNotNull})
		case pgquery.ConstrType_CONSTR_NULL:
			column.Options = append(column.Options, parser.ColumnOption{Type: parser.ColumnOptionNull})
		case pgquery.ConstrType_CONSTR_PRIMARY:
			column.Options = append(column.Options, parser.ColumnOption{Type: parser.ColumnOptionPrimaryKey})
		case pgquery.ConstrType_CONSTR_UNIQUE:
			column.Options = append(column.Options, parser.ColumnOption{Type: parser.ColumnOptionUnique})
		case pgquery.ConstrType_CONSTR_IDENTITY:
			column.Options = append(column.Options, parser.ColumnOption{Type: parser.ColumnOptionAutoIncrement})
		case pgquery.ConstrType_CONSTR_DEFAULT:
			column.Options = append(column.Options, parser.ColumnOption{
				Type:  parser.ColumnOptionDefault,
				Value: p.parseDefault(sql, constraint),
			})
		case pgquery.ConstrType_CONSTR_FOREIGN:
			column.Options = append(column.Options, parser.ColumnOption{
				Type:      parser.ColumnOptionReferences,
				Reference: p.parseReference(constraint),
			})
		}
	}

	if columnDef.CollClause != nil {
		if names := stringNodes(columnDef.CollClause.Collname); len(names) > 0 {
			column.Options = append(column.Options, parser.ColumnOption{
				Type:  parser.ColumnOptionCollate,
				Value: names[len(names)-1],
			})
		}
	}
	return column, nil
}

func (p PostgresParser) parseTableConstraint(constraint *pgquery.Constraint) *parser.TableConstraint {
	switch constraint.Contype {
	case pgquery.ConstrType_CONSTR_PRIMARY:
		return &parser.TableConstraint{
			Type:    parser.ConstraintPrimaryKey,
			Name:    constraint.Conname,
			Columns: stringNodes(constraint.Keys),
		}
	case pgquery.ConstrType_CONSTR_UNIQUE:
		return &parser.TableConstraint{
			Type:    parser.ConstraintUnique,
			Name:    constraint.Conname,
			Columns: stringNodes(constraint.Keys),
		}
	case pgquery.ConstrType_CONSTR_FOREIGN:
		return &parser.TableConstraint{
			Type:      parser.ConstraintForeignKey,
			Name:      constraint.Conname,
			Columns:   stringNodes(constraint.FkAttrs),
			Reference: p.parseReference(constraint),
		}
	case pgquery.ConstrType_CONSTR_CHECK:
		return &parser.TableConstraint{
			Type: parser.ConstraintCheck,
			Name: constraint.Conname,
		}
	default:
		return nil
	}
}

func (p PostgresParser) parseReference(constraint *pgquery.Constraint) *parser.Reference {
	ref := &parser.Reference{
		Columns:  stringNodes(constraint.PkAttrs),
		OnDelete: referentialAction(constraint.FkDelAction),
		OnUpdate: referentialAction(constraint.FkUpdAction),
	}
	if constraint.Pktable != nil {
		ref.Table = constraint.Pktable.Relname
	}
	return ref
}

// pg_query encodes referential actions as single characters.
func referentialAction(action string) string {
	switch action {
	case "r":
		return "RESTRICT"
	case "c":
		return "CASCADE"
	case "n":
		return "SET NULL"
	case "d":
		return "SET DEFAULT"
	default: // "a" is NO ACTION, the implicit default
		return ""
	}
}

var internalTypeNames = map[string]string{
	"int2":        "smallint",
	"int4":        "integer",
	"int8":        "bigint",
	"float4":      "real",
	"float8":      "double precision",
	"bool":        "boolean",
	"bpchar":      "char",
	"numeric":     "decimal",
	"serial4":     "serial",
	"serial8":     "bigserial",
	"serial2":     "smallserial",
	"timestamptz": "timestamptz",
	"timetz":      "timetz",
}

func (p PostgresParser) parseTypeName(typeName *pgquery.TypeName) (string, error) {
	if typeName == nil {
		return "", fmt.Errorf("missing type")
	}
	names := stringNodes(typeName.Names)
	if len(names) == 0 {
		return "", fmt.Errorf("missing type")
	}

	// pg_catalog.int4 for INTEGER, public.citext for a qualified custom type
	dataType := names[len(names)-1]
	if mapped, ok := internalTypeNames[dataType]; ok {
		dataType = mapped
	}

	var mods []string
	for _, mod := range typeName.Typmods {
		aConst := mod.GetAConst()
		if aConst == nil {
			// The raw grammar accepts any expression here, so MySQL's
			// `KEY idx (col)` parses as a column named "key". Reject it.
			return "", fmt.Errorf("unsupported type modifier on %s", dataType)
		}
		if ival := aConst.GetIval(); ival != nil {
			mods = append(mods, strconv.FormatInt(int64(ival.Ival), 10))
		} else if sval := aConst.GetSval(); sval != nil {
			// ENUM('a', 'b') reaches us as a generic type with string modifiers.
			mods = append(mods, quote(sval.Sval))
		}
	}
	if len(mods) > 0 {
		dataType += "(" + strings.Join(mods, ",") + ")"
	}

	for range typeName.ArrayBounds {
		dataType += "[]"
	}
	return dataType, nil
}

func (p PostgresParser) parseDefault(sql string, constraint *pgquery.Constraint) string {
	if expr := constraint.RawExpr; expr != nil {
		if cast := expr.GetTypeCast(); cast != nil && cast.Arg != nil {
			expr = cast.Arg
		}
		if aConst := expr.GetAConst(); aConst != nil {
			if value, ok := constValue(aConst); ok {
				return value
			}
		}
	}
	return defaultSource(sql, int(constraint.Location))
}

func constValue(aConst *pgquery.A_Const) (string, bool) {
	if aConst.Isnull {
		return "NULL", true
	}
	switch val := aConst.Val.(type) {
	case *pgquery.A_Const_Sval:
		return quote(val.Sval.Sval), true
	case *pgquery.A_Const_Ival:
		return strconv.FormatInt(int64(val.Ival.Ival), 10), true
	case *pgquery.A_Const_Fval:
		return val.Fval.Fval, true
	case *pgquery.A_Const_Boolval:
		if val.Boolval.Boolval {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

var (
	defaultKeywordRegexp = regexp.MustCompile(`(?i)\bDEFAULT\s+`)
	// Keywords that end a DEFAULT expression inside a column definition.
	columnConstraintRegexp = regexp.MustCompile(`(?i)^(?:NOT\s+NULL|NULL|PRIMARY|UNIQUE|REFERENCES|CHECK|CONSTRAINT|COLLATE|GENERATED|DEFERRABLE|INITIALLY)\b`)
)

// defaultSource slices the DEFAULT expression out of the source text for expressions
// that have no constant form, such as now() or CURRENT_TIMESTAMP.
func defaultSource(sql string, location int) string {
	if location < 0 || location >= len(sql) {
		return ""
	}
	loc := defaultKeywordRegexp.FindStringIndex(sql[location:])
	if loc == nil {
		return ""
	}
	start := location + loc[1]

	depth := 0
	for i := start; i < len(sql); i++ {
		switch ch := sql[i]; {
		case ch == '\'' || ch == '"':
			i = skipQuoted(sql, i, ch)
		case ch == '(':
			depth++
		case ch == ')':
			if depth == 0 {
				return strings.TrimSpace(sql[start:i])
			}
			depth--
		case ch == ',' && depth == 0:
			return strings.TrimSpace(sql[start:i])
		case depth == 0 && i > start && isSpace(sql[i-1]) && columnConstraintRegexp.MatchString(sql[i:]):
			return strings.TrimSpace(sql[start:i])
		}
	}
	return strings.TrimSpace(sql[start:])
}

// skipQuoted returns the index of the closing delimiter of the literal starting at sql[i].
func skipQuoted(sql string, i int, delim byte) int {
	for j := i + 1; j < len(sql); j++ {
		if sql[j] == delim {
			if j+1 < len(sql) && sql[j+1] == delim {
				j++
				continue
			}
			return j
		}
	}
	return len(sql) - 1
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isSerialType(dataType string) bool {
	switch dataType {
	case "serial", "bigserial", "smallserial":
		return true
	default:
		return false
	}
}

func stringNodes(nodes []*pgquery.Node) []string {
	var strs []string
	for _, node := range nodes {
		if str := node.GetString_(); str != nil {
			strs = append(strs, str.Sval)
		}
	}
	return strs
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
