package util

import (
	"fmt"
	"strings"
)

// TransformSlice applies the converter to each element in the input slice and returns a new slice.
func TransformSlice[T any, R any](in []T, converter func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = converter(v)
	}
	return out
}

// maxIdentifierLength is PostgreSQL's NAMEDATALEN - 1, the tightest limit among supported dialects.
const maxIdentifierLength = 63

// BuildConstraintName generates an index or constraint name the way PostgreSQL names
// implicit constraints: {table}_{col1}_{col2}_{suffix}, truncated to 63 characters.
// The column part is reduced to 28 characters first, then the table part absorbs the rest.
func BuildConstraintName(tableName string, columnNames []string, suffix string) string {
	columnName := strings.Join(columnNames, "_")
	fullName := fmt.Sprintf("%s_%s_%s", tableName, columnName, suffix)
	if len(fullName) <= maxIdentifierLength {
		return fullName
	}

	overflow := len(fullName) - maxIdentifierLength
	tableRemove := 0
	columnRemove := 0
	if len(columnName) > 28 {
		columnRemove = min(overflow, len(columnName)-28)
		tableRemove = overflow - columnRemove
	} else {
		tableRemove = overflow
	}
	tableRemove = min(tableRemove, len(tableName))

	return fmt.Sprintf("%s_%s_%s", tableName[:len(tableName)-tableRemove], columnName[:len(columnName)-columnRemove], suffix)
}
