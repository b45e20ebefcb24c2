package parser

import (
	"fmt"
	"log/slog"
	"strings"
)

// Dialect is one grammar in the fallback list. Parse must be safe to call concurrently.
type Dialect struct {
	Name  string
	Parse func(sql string) (*Tree, error)
}

// Attempt records the outcome of one dialect. Exactly one of Tree and Err is set.
type Attempt struct {
	Dialect string
	Tree    *Tree
	Err     error
}

func (a Attempt) OK() bool {
	return a.Err == nil
}

// ParseWithDialects tries each dialect in order and returns the first tree that parses.
// When every dialect fails, the error is a *SyntaxError listing all attempts.
func ParseWithDialects(sql string, dialects []Dialect) ([]Attempt, *Tree, error) {
	if len(dialects) == 0 {
		return nil, nil, fmt.Errorf("no SQL dialect configured")
	}

	attempts := make([]Attempt, 0, len(dialects))
	for _, dialect := range dialects {
		tree, err := dialect.Parse(sql)
		if err == nil && tree == nil {
			err = fmt.Errorf("%s parser returned no tree", dialect.Name)
		}
		if err != nil {
			slog.Debug("Dialect rejected input", "dialect", dialect.Name, "error", err)
			attempts = append(attempts, Attempt{Dialect: dialect.Name, Err: err})
			continue
		}
		tree.Dialect = dialect.Name
		attempts = append(attempts, Attempt{Dialect: dialect.Name, Tree: tree})
		return attempts, tree, nil
	}
	return attempts, nil, &SyntaxError{Attempts: attempts}
}

// SyntaxError is returned when no dialect could parse the input.
type SyntaxError struct {
	Attempts []Attempt
}

func (e *SyntaxError) Error() string {
	var dialects []string
	for _, attempt := range e.Attempts {
		dialects = append(dialects, attempt.Dialect)
	}
	return fmt.Sprintf("failed to parse CREATE TABLE statements as %s", strings.Join(dialects, ", "))
}

// Messages returns one line per failed dialect followed by remediation tips.
func (e *SyntaxError) Messages() []string {
	var messages []string
	var errText strings.Builder
	for _, attempt := range e.Attempts {
		messages = append(messages, fmt.Sprintf("%s: %s", attempt.Dialect, attempt.Err))
		errText.WriteString(strings.ToLower(attempt.Err.Error()))
		errText.WriteByte('\n')
	}
	for _, tip := range syntaxTips(errText.String()) {
		messages = append(messages, "Tip: "+tip)
	}
	return messages
}

var errorTips = []struct {
	patterns []string
	tip      string
}{
	{
		patterns: []string{"engine"},
		tip:      "Remove MySQL table options such as ENGINE=InnoDB after the closing parenthesis.",
	},
	{
		patterns: []string{"uuid", "gen_random_uuid"},
		tip:      "UUID columns and gen_random_uuid() defaults are PostgreSQL-specific; use CHAR(36) for MySQL.",
	},
	{
		patterns: []string{"enum"},
		tip:      "ENUM column types are MySQL-specific; in PostgreSQL declare the type with CREATE TYPE ... AS ENUM.",
	},
	{
		patterns: []string{`"index`, `"key`, `"fulltext`},
		tip:      "Inline INDEX or KEY definitions inside CREATE TABLE are MySQL-only; use separate CREATE INDEX statements.",
	},
	{
		patterns: []string{"`"},
		tip:      "Backtick-quoted identifiers are MySQL-only; use double quotes for PostgreSQL and SQLite.",
	},
}

var genericTips = []string{
	"Check for missing commas, unbalanced parentheses or unterminated strings in CREATE TABLE bodies.",
	"Enable per-statement parsing to find the statement that fails and keep the others.",
}

func syntaxTips(errText string) []string {
	var tips []string
	for _, t := range errorTips {
		for _, pattern := range t.patterns {
			if strings.Contains(errText, pattern) {
				tips = append(tips, t.tip)
				break
			}
		}
	}
	if len(tips) == 0 {
		return genericTips
	}
	return tips
}
