package parser

import (
	"regexp"
	"strings"
)

type ForeignKeyDef struct {
	Name             string
	Table            string
	Column           string
	ReferencedTable  string
	ReferencedColumn string // empty when the REFERENCES clause has no column list
	OnDelete         string
	OnUpdate         string
}

type KeyDef struct {
	Table   string
	Name    string
	Columns []string
}

type AutoIncrementDef struct {
	Table  string
	Column string
}

type IndexDef struct {
	Table   string
	Name    string
	Columns []string
	Type    string // INDEX, UNIQUE, FULLTEXT or SPATIAL
}

// AlterTableConstraints holds what the patterns found in ALTER TABLE and CREATE INDEX statements.
type AlterTableConstraints struct {
	ForeignKeys    []ForeignKeyDef
	PrimaryKeys    []KeyDef
	UniqueKeys     []KeyDef
	AutoIncrements []AutoIncrementDef
	Indexes        []IndexDef
}

func (c *AlterTableConstraints) Empty() bool {
	return len(c.ForeignKeys) == 0 && len(c.PrimaryKeys) == 0 && len(c.UniqueKeys) == 0 &&
		len(c.AutoIncrements) == 0 && len(c.Indexes) == 0
}

const referentialAction = `(SET\s+NULL|SET\s+DEFAULT|NO\s+ACTION|RESTRICT|CASCADE)`

var (
	alterStatementRegexp  = regexp.MustCompile(`(?is)^ALTER\s+TABLE\s+(?:IF\s+EXISTS\s+)?(?:ONLY\s+)?(` + identPattern + `)\s+(.+)$`)
	createIndexStmtRegexp = regexp.MustCompile(`(?is)^CREATE\s+(?:(UNIQUE|FULLTEXT|SPATIAL)\s+)?INDEX\s+(?:CONCURRENTLY\s+)?(?:IF\s+NOT\s+EXISTS\s+)?(` + identPattern + `\s+)?ON\s+(?:ONLY\s+)?(` + identPattern + `)\s*(?:USING\s+\w+\s*)?\(`)

	primaryKeyClauseRegexp = regexp.MustCompile(`(?is)^ADD\s+(?:CONSTRAINT\s+` + identPattern + `\s+)?PRIMARY\s+KEY\s*(?:USING\s+\w+\s*)?\(([^)]*)\)`)
	foreignKeyClauseRegexp = regexp.MustCompile(`(?is)^(?:ADD\s+)?(?:CONSTRAINT\s+(` + identPattern + `)\s+)?FOREIGN\s+KEY\s*(?:` + identPattern + `\s*)?\(([^)]*)\)\s*REFERENCES\s+(` + identPattern + `)\s*(?:\(([^)]*)\))?(.*)$`)
	uniqueClauseRegexp     = regexp.MustCompile(`(?is)^ADD\s+(?:CONSTRAINT\s+(` + identPattern + `)\s+)?UNIQUE\s*(?:(?:KEY|INDEX)\b\s*)?(` + identPattern + `\s*)?(?:USING\s+\w+\s*)?\(([^)]*)\)`)
	indexClauseRegexp      = regexp.MustCompile(`(?is)^ADD\s+(?:(FULLTEXT|SPATIAL)\s+(?:(?:INDEX|KEY)\s+)?|(?:INDEX|KEY)\s+)(` + identPattern + `\s*)?(?:USING\s+\w+\s*)?\(([^)]*)\)`)
	autoIncrementRegexp    = regexp.MustCompile(`(?is)^(?:MODIFY|CHANGE|ALTER)\s+(?:COLUMN\s+)?(` + identPattern + `)\s.*\bAUTO_INCREMENT\b`)
	onDeleteRegexp         = regexp.MustCompile(`(?is)\bON\s+DELETE\s+` + referentialAction)
	onUpdateRegexp         = regexp.MustCompile(`(?is)\bON\s+UPDATE\s+` + referentialAction)
)

// ExtractAlterTableConstraints scans sql for ALTER TABLE and CREATE INDEX statements and
// extracts the constraints they add. Clauses it does not understand are skipped; it never fails.
func ExtractAlterTableConstraints(sql string) AlterTableConstraints {
	var result AlterTableConstraints
	for _, stmt := range SplitStatements(StripComments(sql)) {
		if m := alterStatementRegexp.FindStringSubmatch(stmt); m != nil {
			table := UnquoteIdent(m[1])
			for _, clause := range SplitTopLevel(m[2], ',') {
				result.addClause(table, clause)
			}
		} else if m := createIndexStmtRegexp.FindStringSubmatchIndex(stmt); m != nil {
			open := m[1] - 1
			closing := matchingParen(stmt, open)
			if closing < 0 {
				continue
			}
			columns := SplitColumnList(stmt[open+1 : closing])
			if len(columns) == 0 {
				continue
			}
			indexType := "INDEX"
			if m[2] >= 0 {
				indexType = strings.ToUpper(stmt[m[2]:m[3]])
			}
			name := ""
			if m[4] >= 0 {
				name = optionalIdent(stmt[m[4]:m[5]])
			}
			result.Indexes = append(result.Indexes, IndexDef{
				Table:   UnquoteIdent(stmt[m[6]:m[7]]),
				Name:    name,
				Columns: columns,
				Type:    indexType,
			})
		}
	}
	return result
}

// addClause classifies one ALTER TABLE clause. Order matters: `ADD CONSTRAINT x UNIQUE`
// must not be mistaken for an index and a FOREIGN KEY clause may carry an index name.
func (c *AlterTableConstraints) addClause(table string, clause string) {
	if m := primaryKeyClauseRegexp.FindStringSubmatch(clause); m != nil {
		if columns := SplitColumnList(m[1]); len(columns) > 0 {
			c.PrimaryKeys = append(c.PrimaryKeys, KeyDef{Table: table, Columns: columns})
		}
		return
	}

	if m := foreignKeyClauseRegexp.FindStringSubmatch(clause); m != nil {
		name := optionalIdent(m[1])
		refTable := UnquoteIdent(m[3])
		onDelete, onUpdate := referentialActions(m[5])
		for _, pair := range ZipReferenceColumns(SplitColumnList(m[2]), SplitColumnList(m[4])) {
			c.ForeignKeys = append(c.ForeignKeys, ForeignKeyDef{
				Name:             name,
				Table:            table,
				Column:           pair[0],
				ReferencedTable:  refTable,
				ReferencedColumn: pair[1],
				OnDelete:         onDelete,
				OnUpdate:         onUpdate,
			})
		}
		return
	}

	if m := uniqueClauseRegexp.FindStringSubmatch(clause); m != nil {
		name := optionalIdent(m[1])
		if name == "" {
			name = optionalIdent(m[2])
		}
		if columns := SplitColumnList(m[3]); len(columns) > 0 {
			c.UniqueKeys = append(c.UniqueKeys, KeyDef{Table: table, Name: name, Columns: columns})
		}
		return
	}

	if m := indexClauseRegexp.FindStringSubmatch(clause); m != nil {
		indexType := "INDEX"
		if m[1] != "" {
			indexType = strings.ToUpper(m[1])
		}
		if columns := SplitColumnList(m[3]); len(columns) > 0 {
			c.Indexes = append(c.Indexes, IndexDef{Table: table, Name: optionalIdent(m[2]), Columns: columns, Type: indexType})
		}
		return
	}

	if m := autoIncrementRegexp.FindStringSubmatch(clause); m != nil {
		c.AutoIncrements = append(c.AutoIncrements, AutoIncrementDef{Table: table, Column: UnquoteIdent(m[1])})
	}
}

// ReferentialAction canonicalizes an ON DELETE / ON UPDATE action: upper case, single spaces.
func ReferentialAction(action string) string {
	return strings.ToUpper(strings.Join(strings.Fields(action), " "))
}

func referentialActions(tail string) (onDelete string, onUpdate string) {
	if m := onDeleteRegexp.FindStringSubmatch(tail); m != nil {
		onDelete = ReferentialAction(m[1])
	}
	if m := onUpdateRegexp.FindStringSubmatch(tail); m != nil {
		onUpdate = ReferentialAction(m[1])
	}
	return onDelete, onUpdate
}

func optionalIdent(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return ""
	}
	return UnquoteIdent(s)
}
