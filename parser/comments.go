package parser

import (
	"regexp"
	"strings"
)

// StripComments removes `/* ... */` (including MySQL `/*! ... */` executable comments),
// `-- ...` and `# ...` comments from sql. Quoted strings, quoted identifiers and
// PostgreSQL dollar-quoted bodies are copied through untouched.
func StripComments(sql string) string {
	var buf strings.Builder
	buf.Grow(len(sql))

	for i := 0; i < len(sql); {
		if end, ok := quotedEnd(sql, i); ok {
			buf.WriteString(sql[i:end])
			i = end
			continue
		}

		switch {
		case strings.HasPrefix(sql[i:], "/*"):
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				// Unterminated comment swallows the rest.
				return buf.String()
			}
			buf.WriteByte(' ')
			i += end + 4
		case strings.HasPrefix(sql[i:], "--"), sql[i] == '#':
			end := strings.IndexByte(sql[i:], '\n')
			if end < 0 {
				return buf.String()
			}
			i += end // keep the newline
		default:
			buf.WriteByte(sql[i])
			i++
		}
	}
	return buf.String()
}

// maskQuoted returns sql with the inside of every quoted region blanked to '_',
// keeping the delimiters. Offsets into the result are offsets into sql, so a
// regexp can be matched against the mask and applied to the original.
func maskQuoted(sql string) string {
	mask := []byte(sql)
	for i := 0; i < len(sql); {
		end, ok := quotedEnd(sql, i)
		if !ok {
			i++
			continue
		}
		last := end - 1
		if end == len(sql) && !isQuoteDelimiter(sql[last]) {
			// unterminated
			last = end
		}
		for j := i + 1; j < last; j++ {
			mask[j] = '_'
		}
		i = end
	}
	return string(mask)
}

func isQuoteDelimiter(ch byte) bool {
	return ch == '\'' || ch == '"' || ch == '`' || ch == '$'
}

// removeOutsideQuotes deletes every match of re that starts and ends outside a
// quoted region. A match may span whole literals, as in COMMENT 'text'.
func removeOutsideQuotes(sql string, re *regexp.Regexp) string {
	matches := re.FindAllStringIndex(maskQuoted(sql), -1)
	if matches == nil {
		return sql
	}
	var buf strings.Builder
	prev := 0
	for _, m := range matches {
		buf.WriteString(sql[prev:m[0]])
		prev = m[1]
	}
	buf.WriteString(sql[prev:])
	return buf.String()
}

// findOutsideQuotes is FindStringSubmatch matched against the mask of sql, with the
// groups cut from sql itself.
func findOutsideQuotes(sql string, re *regexp.Regexp) []string {
	loc := re.FindStringSubmatchIndex(maskQuoted(sql))
	if loc == nil {
		return nil
	}
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = sql[loc[2*i]:loc[2*i+1]]
		}
	}
	return groups
}

// quotedEnd reports whether a quoted region starts at sql[i], and if so the index
// right after it. An unterminated region extends to the end of sql.
func quotedEnd(sql string, i int) (int, bool) {
	switch ch := sql[i]; ch {
	case '\'', '"':
		return scanString(sql, i, ch), true
	case '`':
		end := strings.IndexByte(sql[i+1:], '`')
		if end < 0 {
			return len(sql), true
		}
		return i + end + 2, true
	case '$':
		tag, ok := dollarTag(sql, i)
		if !ok {
			return 0, false
		}
		end := strings.Index(sql[i+len(tag):], tag)
		if end < 0 {
			return len(sql), true
		}
		return i + len(tag) + end + len(tag), true
	default:
		return 0, false
	}
}

// scanString scans a '...' or "..." literal. Both doubled delimiters and backslash
// escapes are accepted, matching MySQL.
func scanString(sql string, i int, delim byte) int {
	for j := i + 1; j < len(sql); j++ {
		switch sql[j] {
		case '\\':
			j++
		case delim:
			if j+1 < len(sql) && sql[j+1] == delim {
				j++
				continue
			}
			return j + 1
		}
	}
	return len(sql)
}

// dollarTag returns the opening tag of a dollar-quoted string such as `$$` or `$body$`.
func dollarTag(sql string, i int) (string, bool) {
	if i > 0 && isIdentByte(sql[i-1]) {
		return "", false
	}
	for j := i + 1; j < len(sql); j++ {
		ch := sql[j]
		if ch == '$' {
			return sql[i : j+1], true
		}
		if !(ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || (j > i+1 && '0' <= ch && ch <= '9')) {
			return "", false
		}
	}
	return "", false
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ch == '$' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ('0' <= ch && ch <= '9')
}
