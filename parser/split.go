package parser

import (
	"strings"
)

// SplitStatements splits sql on top-level `;`. Empty statements are dropped and the
// terminator is not included. Comments must already be stripped.
func SplitStatements(sql string) []string {
	var stmts []string
	start := 0
	for i := 0; i < len(sql); {
		if end, ok := quotedEnd(sql, i); ok {
			i = end
			continue
		}
		if sql[i] == ';' {
			stmts = appendTrimmed(stmts, sql[start:i])
			start = i + 1
		}
		i++
	}
	return appendTrimmed(stmts, sql[start:])
}

// SplitTopLevel splits s on sep where sep is outside parentheses and quotes.
// `a, foo(b, c), d` yields ["a", "foo(b, c)", "d"].
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); {
		if end, ok := quotedEnd(s, i); ok {
			i = end
			continue
		}
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = appendTrimmed(parts, s[start:i])
				start = i + 1
			}
		}
		i++
	}
	return appendTrimmed(parts, s[start:])
}

// matchingParen returns the index of the `)` closing the `(` at s[open], or -1.
func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); {
		if end, ok := quotedEnd(s, i); ok {
			i = end
			continue
		}
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

func appendTrimmed(parts []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		parts = append(parts, s)
	}
	return parts
}
