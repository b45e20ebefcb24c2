package schema

import (
	"strings"
)

var (
	junctionSuffixes = []string{"ables", "ings"}
	junctionInfixes  = []string{"_has_", "_to_"}
)

// DetectPrimaryKey picks the column most likely to be the key of a table declared
// without one. The first matching rule wins:
//
//  1. a junction table (user_roles_has_..., taggables) with two or more foreign
//     keys uses its first foreign key column
//  2. a column named exactly {table}_id, {singular}_id, id, uuid or guid
//  3. a column whose name contains one of those
//  4. the first column that is not a foreign key
//  5. the first column
//
// It returns nil for a table without columns.
func DetectPrimaryKey(tableName string, columns []*Column) *Column {
	if len(columns) == 0 {
		return nil
	}
	table := strings.ToLower(tableName)

	if isJunctionName(table) {
		var foreignKeys []*Column
		for _, column := range columns {
			if column.IsForeignKey {
				foreignKeys = append(foreignKeys, column)
			}
		}
		if len(foreignKeys) >= 2 {
			return foreignKeys[0]
		}
	}

	patterns := keyNamePatterns(table)
	for _, pattern := range patterns {
		for _, column := range columns {
			if strings.ToLower(column.Name) == pattern {
				return column
			}
		}
	}
	for _, pattern := range patterns {
		for _, column := range columns {
			if strings.Contains(strings.ToLower(column.Name), pattern) {
				return column
			}
		}
	}

	for _, column := range columns {
		if !column.IsForeignKey {
			return column
		}
	}
	return columns[0]
}

func isJunctionName(table string) bool {
	for _, suffix := range junctionSuffixes {
		if strings.HasSuffix(table, suffix) {
			return true
		}
	}
	for _, infix := range junctionInfixes {
		if strings.Contains(table, infix) {
			return true
		}
	}
	return false
}

func keyNamePatterns(table string) []string {
	patterns := []string{table + "_id"}
	if singular := singularize(table); singular != table {
		patterns = append(patterns, singular+"_id")
	}
	return append(patterns, "id", "uuid", "guid")
}

// singularize handles the plural forms common in table names and nothing else.
func singularize(word string) string {
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 3:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "sses"), strings.HasSuffix(word, "xes"), strings.HasSuffix(word, "ches"), strings.HasSuffix(word, "shes"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ss"):
		return word
	case strings.HasSuffix(word, "s") && len(word) > 1:
		return word[:len(word)-1]
	default:
		return word
	}
}
