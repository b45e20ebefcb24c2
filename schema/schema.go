// Package schema builds the dialect-independent schema model from parsed DDL.
package schema

import (
	"strings"
)

type Engine string

const (
	EngineInnoDB  Engine = "InnoDB"
	EngineMyISAM  Engine = "MyISAM"
	EngineMemory  Engine = "MEMORY"
	EngineCSV     Engine = "CSV"
	EngineArchive Engine = "ARCHIVE"
	EngineAria    Engine = "Aria"
)

const DefaultEngine = EngineInnoDB

var engines = []Engine{EngineInnoDB, EngineMyISAM, EngineMemory, EngineCSV, EngineArchive, EngineAria}

// ParseEngine matches a storage engine name case-insensitively.
func ParseEngine(name string) (Engine, bool) {
	for _, engine := range engines {
		if strings.EqualFold(string(engine), name) {
			return engine, true
		}
	}
	return "", false
}

type IndexType string

const (
	IndexTypeIndex    IndexType = "INDEX"
	IndexTypeUnique   IndexType = "UNIQUE"
	IndexTypeFulltext IndexType = "FULLTEXT"
	IndexTypeSpatial  IndexType = "SPATIAL"
)

type Cardinality string

const (
	OneToOne  Cardinality = "1:1"
	OneToMany Cardinality = "1:N"
)

type Table struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Columns   []*Column `json:"columns" yaml:"columns"`
	Indexes   []*Index  `json:"indexes" yaml:"indexes"`
	Engine    Engine    `json:"engine" yaml:"engine"`
	Collation string    `json:"collation,omitempty" yaml:"collation,omitempty"`
	Comment   string    `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Column looks up a column by name, ignoring case.
func (t *Table) Column(name string) *Column {
	for _, column := range t.Columns {
		if strings.EqualFold(column.Name, name) {
			return column
		}
	}
	return nil
}

// PrimaryKey returns the first primary key column, or nil.
func (t *Table) PrimaryKey() *Column {
	for _, column := range t.Columns {
		if column.IsPrimaryKey {
			return column
		}
	}
	return nil
}

// Column is owned by exactly one Table. IsPrimaryKey implies !IsNullable.
type Column struct {
	ID               string `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	Type             string `json:"type" yaml:"type"`
	IsPrimaryKey     bool   `json:"isPrimaryKey" yaml:"isPrimaryKey"`
	IsForeignKey     bool   `json:"isForeignKey" yaml:"isForeignKey"`
	IsNullable       bool   `json:"isNullable" yaml:"isNullable"`
	IsUnique         bool   `json:"isUnique" yaml:"isUnique"`
	IsIndexed        bool   `json:"isIndexed" yaml:"isIndexed"`
	AutoIncrement    bool   `json:"autoIncrement" yaml:"autoIncrement"`
	DefaultValue     string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Collation        string `json:"collation,omitempty" yaml:"collation,omitempty"`
	Comment          string `json:"comment,omitempty" yaml:"comment,omitempty"`
	ReferencedTable  string `json:"referencedTable,omitempty" yaml:"referencedTable,omitempty"`
	ReferencedColumn string `json:"referencedColumn,omitempty" yaml:"referencedColumn,omitempty"`
}

type Index struct {
	ID      string    `json:"id" yaml:"id"`
	Name    string    `json:"name" yaml:"name"`
	Columns []string  `json:"columns" yaml:"columns"`
	Type    IndexType `json:"type" yaml:"type"`
}

// ForeignKeyConstraint refers to tables and columns by name only, so it stays
// meaningful when the referenced table is missing from the result.
type ForeignKeyConstraint struct {
	Name             string      `json:"name,omitempty" yaml:"name,omitempty"`
	TableName        string      `json:"tableName" yaml:"tableName"`
	ColumnName       string      `json:"columnName" yaml:"columnName"`
	ReferencedTable  string      `json:"referencedTable" yaml:"referencedTable"`
	ReferencedColumn string      `json:"referencedColumn" yaml:"referencedColumn"`
	OnDelete         string      `json:"onDelete,omitempty" yaml:"onDelete,omitempty"`
	OnUpdate         string      `json:"onUpdate,omitempty" yaml:"onUpdate,omitempty"`
	Cardinality      Cardinality `json:"cardinality" yaml:"cardinality"`
}

const DialectMixed = "mixed"

// ParseResult is the sole output of a parse. Errors mean no usable schema was
// extracted; warnings describe an imperfect but usable one.
type ParseResult struct {
	Dialect               string                 `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	Tables                []*Table               `json:"tables" yaml:"tables"`
	ForeignKeyConstraints []ForeignKeyConstraint `json:"foreignKeyConstraints" yaml:"foreignKeyConstraints"`
	Errors                []string               `json:"errors" yaml:"errors"`
	Warnings              []string               `json:"warnings" yaml:"warnings"`
}

func newParseResult() *ParseResult {
	return &ParseResult{
		Tables:                []*Table{},
		ForeignKeyConstraints: []ForeignKeyConstraint{},
		Errors:                []string{},
		Warnings:              []string{},
	}
}

func (r *ParseResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Table looks up a table by name, ignoring case.
func (r *ParseResult) Table(name string) *Table {
	for _, table := range r.Tables {
		if strings.EqualFold(table.Name, name) {
			return table
		}
	}
	return nil
}
