package parser

// Tree is the dialect-neutral result of parsing a batch of CREATE TABLE statements.
// Every grammar converts its native syntax tree into this shape.
type Tree struct {
	Dialect string
	Tables  []*CreateTable
}

type CreateTable struct {
	Name        string
	Columns     []*ColumnDefinition
	Constraints []*TableConstraint
	Options     []TableOption
}

type ColumnDefinition struct {
	Name string
	// Raw declared type, e.g. "varchar(255)" or "int4". Normalized later.
	Type    string
	Options []ColumnOption
}

type ColumnOptionType int

const (
	ColumnOptionPrimaryKey ColumnOptionType = iota
	ColumnOptionNotNull
	ColumnOptionNull
	ColumnOptionUnique
	ColumnOptionDefault
	ColumnOptionAutoIncrement
	ColumnOptionCollate
	ColumnOptionComment
	ColumnOptionReferences
)

func (t ColumnOptionType) String() string {
	switch t {
	case ColumnOptionPrimaryKey:
		return "PRIMARY KEY"
	case ColumnOptionNotNull:
		return "NOT NULL"
	case ColumnOptionNull:
		return "NULL"
	case ColumnOptionUnique:
		return "UNIQUE"
	case ColumnOptionDefault:
		return "DEFAULT"
	case ColumnOptionAutoIncrement:
		return "AUTO_INCREMENT"
	case ColumnOptionCollate:
		return "COLLATE"
	case ColumnOptionComment:
		return "COMMENT"
	case ColumnOptionReferences:
		return "REFERENCES"
	default:
		return "UNKNOWN"
	}
}

type ColumnOption struct {
	Type ColumnOptionType
	// DEFAULT expression as written, collation name or comment text.
	Value     string
	Reference *Reference
}

type Reference struct {
	Table    string
	Columns  []string
	OnDelete string
	OnUpdate string
}

type ConstraintType int

const (
	ConstraintPrimaryKey ConstraintType = iota
	ConstraintUnique
	ConstraintIndex
	ConstraintFulltext
	ConstraintSpatial
	ConstraintForeignKey
	ConstraintCheck
)

func (t ConstraintType) String() string {
	switch t {
	case ConstraintPrimaryKey:
		return "PRIMARY KEY"
	case ConstraintUnique:
		return "UNIQUE"
	case ConstraintIndex:
		return "INDEX"
	case ConstraintFulltext:
		return "FULLTEXT"
	case ConstraintSpatial:
		return "SPATIAL"
	case ConstraintForeignKey:
		return "FOREIGN KEY"
	case ConstraintCheck:
		return "CHECK"
	default:
		return "UNKNOWN"
	}
}

type TableConstraint struct {
	Type      ConstraintType
	Name      string
	Columns   []string
	Reference *Reference
}

// TableOption is a trailing table option. Name is upper-cased: ENGINE, COLLATE or COMMENT.
type TableOption struct {
	Name  string
	Value string
}

// Option returns the value of the named table option.
func (t *CreateTable) Option(name string) (string, bool) {
	for _, opt := range t.Options {
		if opt.Name == name {
			return opt.Value, true
		}
	}
	return "", false
}
