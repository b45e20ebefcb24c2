package parser

import (
	"log/slog"
	"regexp"
	"strings"
)

type StatementKind int

const (
	StatementUnknown StatementKind = iota
	StatementCreateTable
	StatementAlterTable
	StatementCreateIndex
	StatementNonStructural
)

func (k StatementKind) String() string {
	switch k {
	case StatementCreateTable:
		return "CREATE TABLE"
	case StatementAlterTable:
		return "ALTER TABLE"
	case StatementCreateIndex:
		return "CREATE INDEX"
	case StatementNonStructural:
		return "non-structural"
	default:
		return "unknown"
	}
}

// CreateTableStatement is a sanitized CREATE TABLE ready for a grammar, together with
// the metadata that sanitizing removed from it.
type CreateTableStatement struct {
	Name       string
	SQL        string
	Options    []TableOption
	ColumnMeta map[string]ColumnMeta // keyed by lower-cased column name
}

type ColumnMeta struct {
	Comment   string
	Collation string
}

type Preprocessed struct {
	CreateTables []CreateTableStatement
	// Unnamed holds CREATE TABLE statements with a column list but no table name.
	Unnamed []string
	// Original is the untouched input, re-scanned by ExtractAlterTableConstraints.
	Original string
}

// SQL joins all sanitized CREATE TABLE statements into one batch.
func (p *Preprocessed) SQL() string {
	stmts := make([]string, len(p.CreateTables))
	for i, stmt := range p.CreateTables {
		stmts[i] = stmt.SQL + ";"
	}
	return strings.Join(stmts, "\n")
}

var (
	createTablePrefix = `(?is)^CREATE\s+(?:OR\s+REPLACE\s+)?(?:(?:GLOBAL|LOCAL)\s+)?(?:(?:TEMP|TEMPORARY|UNLOGGED)\s+)?TABLE`

	createTableRegexp        = regexp.MustCompile(createTablePrefix + `\s+(?:IF\s+NOT\s+EXISTS\s+)?(` + identPattern + `)\s*`)
	unnamedCreateTableRegexp = regexp.MustCompile(createTablePrefix + `\s*(?:IF\s+NOT\s+EXISTS\s*)?\(`)
	alterTableRegexp  = regexp.MustCompile(`(?is)^ALTER\s+TABLE\b`)
	createIndexRegexp = regexp.MustCompile(`(?is)^CREATE\s+(?:UNIQUE\s+|FULLTEXT\s+|SPATIAL\s+)?INDEX\b`)
	nonStructRegexp   = regexp.MustCompile(`(?is)^(?:SET|START\s+TRANSACTION|BEGIN|COMMIT|ROLLBACK|LOCK\s+TABLES?|UNLOCK\s+TABLES?|INSERT|REPLACE)\b`)

	sanitizeRegexps = []*regexp.Regexp{
		regexp.MustCompile(`(?is)\s+GENERATED\s+ALWAYS\s+AS\s*\((?:[^()]|\((?:[^()]|\([^()]*\))*\))*\)(?:\s*(?:STORED|VIRTUAL))?`),
		regexp.MustCompile(`(?i)\s+(?:CHARACTER\s+SET|CHARSET)\s*=?\s*\w+`),
		regexp.MustCompile(`(?i)\s+COLLATE\s*=?\s*(?:"[^"]*"|\w+)`),
		regexp.MustCompile(`(?is)\s+COMMENT\s*=?\s*'(?:[^'\\]|\\.|'')*'`),
		regexp.MustCompile(`(?i)\s+UNSIGNED\b`),
		regexp.MustCompile(`(?i)\s+ZEROFILL\b`),
	}

	engineOptionRegexp  = regexp.MustCompile(`(?i)\bENGINE\s*=?\s*(\w+)`)
	collateOptionRegexp = regexp.MustCompile(`(?i)\bCOLLATE\s*=?\s*(\w+)`)
	commentOptionRegexp = regexp.MustCompile(`(?is)\bCOMMENT\s*=?\s*'((?:[^'\\]|\\.|'')*)'`)
	columnCommentRegexp = regexp.MustCompile(`(?is)\sCOMMENT\s+'((?:[^'\\]|\\.|'')*)'`)
	columnCollateRegexp = regexp.MustCompile(`(?i)\sCOLLATE\s+"?(\w+)"?`)

	tableItemKeywords = regexp.MustCompile(`(?i)^(?:CONSTRAINT|PRIMARY|UNIQUE|KEY|INDEX|FULLTEXT|SPATIAL|FOREIGN|CHECK|EXCLUDE|LIKE)\b`)
)

// ClassifyStatement classifies a comment-free statement by its leading keywords.
func ClassifyStatement(stmt string) StatementKind {
	stmt = strings.TrimSpace(stmt)
	switch {
	case createTableRegexp.MatchString(stmt), unnamedCreateTableRegexp.MatchString(stmt):
		return StatementCreateTable
	case alterTableRegexp.MatchString(stmt):
		return StatementAlterTable
	case createIndexRegexp.MatchString(stmt):
		return StatementCreateIndex
	case nonStructRegexp.MatchString(stmt):
		return StatementNonStructural
	default:
		return StatementUnknown
	}
}

// Preprocess strips comments, splits sql into statements and keeps sanitized
// CREATE TABLE statements for the grammars. Everything else is dropped here:
// ALTER TABLE and CREATE INDEX are handled by ExtractAlterTableConstraints on Original.
func Preprocess(sql string) *Preprocessed {
	result := &Preprocessed{Original: sql}
	for _, stmt := range SplitStatements(StripComments(sql)) {
		kind := ClassifyStatement(stmt)
		if kind != StatementCreateTable {
			if kind == StatementUnknown {
				slog.Debug("Dropping unrecognized statement", "statement", abbreviate(stmt))
			}
			continue
		}
		if unnamedCreateTableRegexp.MatchString(stmt) {
			result.Unnamed = append(result.Unnamed, stmt)
			continue
		}
		createTable, ok := sanitizeCreateTable(stmt)
		if !ok {
			slog.Debug("Dropping CREATE TABLE without a column list", "statement", abbreviate(stmt))
			continue
		}
		result.CreateTables = append(result.CreateTables, createTable)
	}
	return result
}

func sanitizeCreateTable(stmt string) (CreateTableStatement, bool) {
	m := createTableRegexp.FindStringSubmatchIndex(stmt)
	if m == nil || m[1] >= len(stmt) || stmt[m[1]] != '(' {
		// CREATE TABLE ... LIKE / AS SELECT
		return CreateTableStatement{}, false
	}
	open := m[1]
	closing := matchingParen(stmt, open)
	if closing < 0 {
		// Leave unbalanced input to the grammars so they report it.
		closing = len(stmt) - 1
	}

	body := stmt[open+1 : closing]
	tail := ""
	if closing+1 < len(stmt) {
		tail = stmt[closing+1:]
	}

	truncated := stmt[:min(closing+1, len(stmt))]
	for _, re := range sanitizeRegexps {
		truncated = removeOutsideQuotes(truncated, re)
	}

	return CreateTableStatement{
		Name:       UnquoteIdent(stmt[m[2]:m[3]]),
		SQL:        truncated,
		Options:    tableOptions(tail),
		ColumnMeta: columnMeta(body),
	}, true
}

func tableOptions(tail string) []TableOption {
	var options []TableOption
	if m := findOutsideQuotes(tail, engineOptionRegexp); m != nil {
		options = append(options, TableOption{Name: "ENGINE", Value: m[1]})
	}
	if m := findOutsideQuotes(tail, collateOptionRegexp); m != nil {
		options = append(options, TableOption{Name: "COLLATE", Value: m[1]})
	}
	if m := findOutsideQuotes(tail, commentOptionRegexp); m != nil {
		options = append(options, TableOption{Name: "COMMENT", Value: unescapeQuoted(m[1])})
	}
	return options
}

func columnMeta(body string) map[string]ColumnMeta {
	meta := map[string]ColumnMeta{}
	for _, item := range SplitTopLevel(body, ',') {
		if tableItemKeywords.MatchString(item) {
			continue
		}
		name, ok := LeadingIdent(item)
		if !ok {
			continue
		}
		var m ColumnMeta
		if c := findOutsideQuotes(item, columnCommentRegexp); c != nil {
			m.Comment = unescapeQuoted(c[1])
		}
		if c := findOutsideQuotes(item, columnCollateRegexp); c != nil {
			m.Collation = c[1]
		}
		if m != (ColumnMeta{}) {
			meta[strings.ToLower(name)] = m
		}
	}
	return meta
}

func unescapeQuoted(s string) string {
	return strings.NewReplacer(`''`, `'`, `\'`, `'`, `\\`, `\`).Replace(s)
}

func abbreviate(stmt string) string {
	stmt = strings.Join(strings.Fields(stmt), " ")
	if len(stmt) > 60 {
		return stmt[:60] + "..."
	}
	return stmt
}
