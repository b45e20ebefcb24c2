package schema

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sqldef/ddlschema/parser"
	"github.com/sqldef/ddlschema/util"
)

// builder accumulates one ParseResult. It is not safe for concurrent use.
type builder struct {
	result        *ParseResult
	ids           IDGenerator
	defaultEngine Engine
	// Metadata the preprocessor stripped, keyed by lower-cased table name.
	statements map[string]*parser.CreateTableStatement
	// Columns whose primary key flag was guessed, with their nullability before the guess.
	inferred map[*Column]bool
}

func newBuilder(config Config, statements []parser.CreateTableStatement) *builder {
	b := &builder{
		result:        newParseResult(),
		ids:           config.idGenerator(),
		defaultEngine: config.defaultEngine(),
		statements:    map[string]*parser.CreateTableStatement{},
		inferred:      map[*Column]bool{},
	}
	for i := range statements {
		key := strings.ToLower(statements[i].Name)
		if _, ok := b.statements[key]; !ok {
			b.statements[key] = &statements[i]
		}
	}
	return b
}

func (b *builder) warnf(format string, args ...any) {
	b.result.Warnings = append(b.result.Warnings, fmt.Sprintf(format, args...))
}

func (b *builder) errorf(format string, args ...any) {
	b.result.Errors = append(b.result.Errors, fmt.Sprintf(format, args...))
}

func (b *builder) addTree(tree *parser.Tree) {
	for _, createTable := range tree.Tables {
		b.addTable(createTable)
	}
}

func (b *builder) addTable(createTable *parser.CreateTable) {
	if createTable.Name == "" {
		b.errorf(missingTableNameError)
		return
	}
	if b.result.Table(createTable.Name) != nil {
		b.warnf("Duplicate table %s ignored", createTable.Name)
		return
	}

	table := &Table{
		ID:      b.ids.NewID("table"),
		Name:    createTable.Name,
		Columns: []*Column{},
		Indexes: []*Index{},
		Engine:  b.defaultEngine,
	}
	b.result.Tables = append(b.result.Tables, table)
	stmt := b.statements[strings.ToLower(table.Name)]

	explicitPrimaryKey := false
	for _, def := range createTable.Columns {
		column := b.addColumn(table, def)
		if column.IsPrimaryKey {
			explicitPrimaryKey = true
		}
		if stmt != nil {
			meta := stmt.ColumnMeta[strings.ToLower(column.Name)]
			if column.Comment == "" {
				column.Comment = meta.Comment
			}
			if column.Collation == "" {
				column.Collation = meta.Collation
			}
		}
	}

	for _, constraint := range createTable.Constraints {
		if constraint.Type == parser.ConstraintPrimaryKey {
			explicitPrimaryKey = true
		}
		b.addConstraint(table, constraint)
	}

	b.applyTableOptions(table, createTable, stmt)

	if !explicitPrimaryKey {
		b.inferPrimaryKey(table)
	}
}

func (b *builder) addColumn(table *Table, def *parser.ColumnDefinition) *Column {
	column := &Column{
		ID:         b.ids.NewID("column"),
		Name:       def.Name,
		Type:       NormalizeType(def.Name, def.Type),
		IsNullable: true,
	}
	table.Columns = append(table.Columns, column)

options:
	for _, opt := range def.Options {
		switch opt.Type {
		case parser.ColumnOptionPrimaryKey:
			column.IsPrimaryKey = true
		case parser.ColumnOptionNotNull:
			column.IsNullable = false
		case parser.ColumnOptionNull:
			column.IsNullable = true
		case parser.ColumnOptionUnique:
			column.IsUnique = true
		case parser.ColumnOptionDefault:
			column.DefaultValue = NormalizeDefault(opt.Value)
		case parser.ColumnOptionAutoIncrement:
			column.AutoIncrement = true
		case parser.ColumnOptionCollate:
			column.Collation = opt.Value
		case parser.ColumnOptionComment:
			column.Comment = opt.Value
		case parser.ColumnOptionReferences:
			if opt.Reference != nil {
				b.addForeignKey(table, "", []string{column.Name}, opt.Reference)
			}
			// Anything after an inline REFERENCES is ignored.
			break options
		}
	}

	if column.IsPrimaryKey {
		column.IsNullable = false
	}
	return column
}

func (b *builder) addConstraint(table *Table, constraint *parser.TableConstraint) {
	switch constraint.Type {
	case parser.ConstraintPrimaryKey:
		for _, name := range constraint.Columns {
			column := table.Column(name)
			if column == nil {
				b.warnf("Primary key on table %s references missing column %s", table.Name, name)
				continue
			}
			column.IsPrimaryKey = true
			column.IsNullable = false
		}
	case parser.ConstraintUnique:
		b.addUnique(table, constraint.Name, constraint.Columns)
	case parser.ConstraintIndex:
		b.addIndex(table, constraint.Name, constraint.Columns, IndexTypeIndex)
	case parser.ConstraintFulltext:
		b.addIndex(table, constraint.Name, constraint.Columns, IndexTypeFulltext)
	case parser.ConstraintSpatial:
		b.addIndex(table, constraint.Name, constraint.Columns, IndexTypeSpatial)
	case parser.ConstraintForeignKey:
		if constraint.Reference != nil {
			b.addForeignKey(table, constraint.Name, constraint.Columns, constraint.Reference)
		}
	case parser.ConstraintCheck:
		// CHECK expressions are not part of the model.
	}
}

// addUnique flags a single-column unique key on the column. A named or composite
// one also becomes a UNIQUE index; its columns are not individually unique.
func (b *builder) addUnique(table *Table, name string, columns []string) {
	if len(columns) == 1 {
		column := table.Column(columns[0])
		if column == nil {
			b.warnf("Unique key on table %s references missing column %s", table.Name, columns[0])
			return
		}
		column.IsUnique = true
		if name == "" {
			return
		}
	}
	b.addIndex(table, name, columns, IndexTypeUnique)
}

func (b *builder) addIndex(table *Table, name string, columns []string, indexType IndexType) {
	if len(columns) == 0 {
		return
	}
	var names []string
	for _, columnName := range columns {
		column := table.Column(columnName)
		if column == nil {
			b.warnf("Index on table %s references missing column %s", table.Name, columnName)
			return
		}
		names = append(names, column.Name)
	}
	for _, column := range names {
		table.Column(column).IsIndexed = true
	}

	if name == "" {
		suffix := "idx"
		if indexType == IndexTypeUnique {
			suffix = "key"
		}
		name = util.BuildConstraintName(table.Name, names, suffix)
	}
	for _, index := range table.Indexes {
		if strings.EqualFold(index.Name, name) {
			return
		}
	}
	table.Indexes = append(table.Indexes, &Index{
		ID:      b.ids.NewID("index"),
		Name:    name,
		Columns: names,
		Type:    indexType,
	})
}

// addForeignKey records one constraint per column pair. Referenced columns left
// empty are resolved once every table is known.
func (b *builder) addForeignKey(table *Table, name string, columns []string, ref *parser.Reference) {
	for _, pair := range parser.ZipReferenceColumns(columns, ref.Columns) {
		column := table.Column(pair[0])
		if column == nil {
			b.warnf("Foreign key on table %s references missing column %s", table.Name, pair[0])
			continue
		}
		column.IsForeignKey = true
		column.ReferencedTable = ref.Table
		column.ReferencedColumn = pair[1]
		b.result.ForeignKeyConstraints = append(b.result.ForeignKeyConstraints, ForeignKeyConstraint{
			Name:             name,
			TableName:        table.Name,
			ColumnName:       column.Name,
			ReferencedTable:  ref.Table,
			ReferencedColumn: pair[1],
			OnDelete:         ref.OnDelete,
			OnUpdate:         ref.OnUpdate,
		})
	}
}

func (b *builder) applyTableOptions(table *Table, createTable *parser.CreateTable, stmt *parser.CreateTableStatement) {
	option := func(name string) string {
		if value, ok := createTable.Option(name); ok {
			return value
		}
		if stmt != nil {
			for _, opt := range stmt.Options {
				if opt.Name == name {
					return opt.Value
				}
			}
		}
		return ""
	}

	if engine := option("ENGINE"); engine != "" {
		if parsed, ok := ParseEngine(engine); ok {
			table.Engine = parsed
		} else {
			b.warnf("Unknown engine %s on table %s, using %s", engine, table.Name, b.defaultEngine)
		}
	}
	table.Collation = option("COLLATE")
	table.Comment = option("COMMENT")
}

func (b *builder) inferPrimaryKey(table *Table) {
	column := DetectPrimaryKey(table.Name, table.Columns)
	if column == nil {
		b.warnf("Table %s has no detectable primary key", table.Name)
		return
	}
	slog.Debug("Inferred primary key", "table", table.Name, "column", column.Name)
	b.inferred[column] = column.IsNullable
	column.IsPrimaryKey = true
	column.IsNullable = false
}
