package parser

import (
	"regexp"
	"strings"
)

// identPattern matches one possibly schema-qualified identifier in any quoting style.
const identPattern = "(?:`[^`]+`|\"[^\"]+\"|\\[[^\\]]+\\]|[\\w$]+)(?:\\s*\\.\\s*(?:`[^`]+`|\"[^\"]+\"|\\[[^\\]]+\\]|[\\w$]+))*"

var leadingIdentRegexp = regexp.MustCompile(`^(` + identPattern + `)`)

// UnquoteIdent strips quoting and any schema prefix: `"public"."users"` becomes `users`.
func UnquoteIdent(ident string) string {
	ident = strings.TrimSpace(ident)
	parts := splitQualified(ident)
	last := strings.TrimSpace(parts[len(parts)-1])
	if len(last) >= 2 {
		switch {
		case last[0] == '`' && last[len(last)-1] == '`',
			last[0] == '"' && last[len(last)-1] == '"',
			last[0] == '[' && last[len(last)-1] == ']':
			return last[1 : len(last)-1]
		}
	}
	return last
}

func splitQualified(ident string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(ident); i++ {
		switch ident[i] {
		case '`', '"':
			if end := strings.IndexByte(ident[i+1:], ident[i]); end >= 0 {
				i += end + 1
			}
		case '[':
			if end := strings.IndexByte(ident[i+1:], ']'); end >= 0 {
				i += end + 1
			}
		case '.':
			parts = append(parts, ident[start:i])
			start = i + 1
		}
	}
	return append(parts, ident[start:])
}

// LeadingIdent returns the unquoted identifier at the start of s, if any.
func LeadingIdent(s string) (string, bool) {
	m := leadingIdentRegexp.FindString(strings.TrimSpace(s))
	if m == "" {
		return "", false
	}
	return UnquoteIdent(m), true
}

// SplitColumnList parses an index or key column list such as "`a`, b(10) DESC".
// Prefix lengths and sort orders are dropped; expression parts are skipped.
func SplitColumnList(list string) []string {
	var columns []string
	for _, part := range SplitTopLevel(list, ',') {
		if strings.HasPrefix(part, "(") {
			continue
		}
		name, ok := LeadingIdent(part)
		if !ok {
			continue
		}
		rest := strings.TrimSpace(part[len(leadingIdentRegexp.FindString(part)):])
		if strings.HasPrefix(rest, "(") && matchingParen(rest, 0) == len(rest)-1 && !isLengthSpec(rest) {
			// lower(email) and friends
			continue
		}
		columns = append(columns, name)
	}
	return columns
}

var lengthSpecRegexp = regexp.MustCompile(`^\(\s*\d+\s*\)`)

func isLengthSpec(s string) bool {
	return lengthSpecRegexp.MatchString(s)
}

// ZipReferenceColumns pairs source columns with referenced columns by position.
// When refs is shorter, the first referenced column is reused for the remaining
// source columns. An empty refs yields "" for every column.
func ZipReferenceColumns(columns []string, refs []string) [][2]string {
	pairs := make([][2]string, 0, len(columns))
	for i, column := range columns {
		ref := ""
		if i < len(refs) {
			ref = refs[i]
		} else if len(refs) > 0 {
			ref = refs[0]
		}
		pairs = append(pairs, [2]string{column, ref})
	}
	return pairs
}
