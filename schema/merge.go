package schema

import (
	"strings"

	"github.com/sqldef/ddlschema/parser"
)

// merge applies the constraints found in ALTER TABLE and CREATE INDEX statements.
// Later, more explicit sources win: an ALTER TABLE primary key replaces whatever
// the table had.
func (b *builder) merge(alters parser.AlterTableConstraints) {
	for _, pk := range alters.PrimaryKeys {
		table := b.alteredTable(pk.Table, "primary key")
		if table == nil {
			continue
		}
		b.resetPrimaryKey(table)
		b.addConstraint(table, &parser.TableConstraint{Type: parser.ConstraintPrimaryKey, Columns: pk.Columns})
	}

	for _, unique := range alters.UniqueKeys {
		if table := b.alteredTable(unique.Table, "unique key"); table != nil {
			b.addUnique(table, unique.Name, unique.Columns)
		}
	}

	for _, index := range alters.Indexes {
		table := b.alteredTable(index.Table, "index")
		if table == nil {
			continue
		}
		switch IndexType(index.Type) {
		case IndexTypeUnique:
			b.addUnique(table, index.Name, index.Columns)
		case IndexTypeFulltext, IndexTypeSpatial:
			b.addIndex(table, index.Name, index.Columns, IndexType(index.Type))
		default:
			b.addIndex(table, index.Name, index.Columns, IndexTypeIndex)
		}
	}

	for _, autoIncrement := range alters.AutoIncrements {
		table := b.alteredTable(autoIncrement.Table, "auto increment")
		if table == nil {
			continue
		}
		column := table.Column(autoIncrement.Column)
		if column == nil {
			b.warnf("ALTER TABLE %s: auto increment on missing column %s", table.Name, autoIncrement.Column)
			continue
		}
		column.AutoIncrement = true
	}

	for _, fk := range alters.ForeignKeys {
		table := b.alteredTable(fk.Table, "foreign key")
		if table == nil {
			continue
		}
		if table.Column(fk.Column) == nil {
			b.warnf("ALTER TABLE %s: foreign key on missing column %s", table.Name, fk.Column)
			continue
		}
		ref := &parser.Reference{Table: fk.ReferencedTable, OnDelete: fk.OnDelete, OnUpdate: fk.OnUpdate}
		if fk.ReferencedColumn != "" {
			ref.Columns = []string{fk.ReferencedColumn}
		}
		b.addForeignKey(table, fk.Name, []string{fk.Column}, ref)
	}
}

func (b *builder) alteredTable(name string, what string) *Table {
	table := b.result.Table(name)
	if table == nil {
		b.warnf("ALTER TABLE %s: %s on missing table", name, what)
	}
	return table
}

func (b *builder) resetPrimaryKey(table *Table) {
	for _, column := range table.Columns {
		if !column.IsPrimaryKey {
			continue
		}
		column.IsPrimaryKey = false
		if nullable, ok := b.inferred[column]; ok {
			column.IsNullable = nullable
			delete(b.inferred, column)
		}
	}
}

// resolveForeignKeys fills in missing referenced columns, drops duplicates,
// warns about unknown referenced tables and computes cardinality.
func (b *builder) resolveForeignKeys() {
	seen := map[string]bool{}
	resolved := make([]ForeignKeyConstraint, 0, len(b.result.ForeignKeyConstraints))
	for _, fk := range b.result.ForeignKeyConstraints {
		refTable := b.result.Table(fk.ReferencedTable)
		if fk.ReferencedColumn == "" {
			fk.ReferencedColumn = "id"
			if refTable != nil {
				if pk := refTable.PrimaryKey(); pk != nil {
					fk.ReferencedColumn = pk.Name
				}
			}
		}

		key := strings.ToLower(strings.Join([]string{fk.TableName, fk.ColumnName, fk.ReferencedTable, fk.ReferencedColumn}, "\x00"))
		if seen[key] {
			continue
		}
		seen[key] = true

		if refTable == nil {
			b.warnf("Foreign key %s.%s references unknown table %s", fk.TableName, fk.ColumnName, fk.ReferencedTable)
		}

		fk.Cardinality = OneToMany
		if table := b.result.Table(fk.TableName); table != nil {
			if column := table.Column(fk.ColumnName); column != nil {
				if column.ReferencedColumn == "" && strings.EqualFold(column.ReferencedTable, fk.ReferencedTable) {
					column.ReferencedColumn = fk.ReferencedColumn
				}
				if column.IsUnique || column.IsPrimaryKey {
					fk.Cardinality = OneToOne
				}
			}
		}
		resolved = append(resolved, fk)
	}
	b.result.ForeignKeyConstraints = resolved
}

// warnInferredKeys reports guessed primary keys that no explicit constraint replaced.
func (b *builder) warnInferredKeys() {
	for _, table := range b.result.Tables {
		for _, column := range table.Columns {
			if _, ok := b.inferred[column]; ok && column.IsPrimaryKey {
				b.warnf("Table %s has no explicit primary key, using %s", table.Name, column.Name)
			}
		}
	}
}
