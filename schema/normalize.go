package schema

import (
	"regexp"
	"strings"
)

var (
	unsignedRegexp = regexp.MustCompile(`(?i)\s*\b(?:UNSIGNED|ZEROFILL)\b`)

	// Spelling variants folded before the rules below run.
	typeAliases = map[string]string{
		"INTEGER":           "INT",
		"NUMERIC":           "DECIMAL",
		"DOUBLE PRECISION":  "DOUBLE",
		"CHARACTER VARYING": "VARCHAR",
		"CHARACTER":         "CHAR",
		"BOOL":              "BOOLEAN",
		"SERIAL":            "BIGINT",
		"BIGSERIAL":         "BIGINT",
		"SMALLSERIAL":       "SMALLINT",
		"INET":              "VARCHAR",
		"XML":               "TEXT",

		"TIMESTAMPTZ":                 "TIMESTAMP",
		"TIMESTAMP WITH TIME ZONE":    "TIMESTAMP",
		"TIMESTAMP WITHOUT TIME ZONE": "TIMESTAMP",
		"TIMETZ":                      "TIME",
		"TIME WITH TIME ZONE":         "TIME",
		"TIME WITHOUT TIME ZONE":      "TIME",
		"DATETIME2":                   "DATETIME",
	}

	// Types reduced to their bare keyword.
	bareTypes = map[string]bool{
		"TIMESTAMP": true, "DATETIME": true, "DATE": true, "TIME": true, "YEAR": true,
		"TINYTEXT": true, "TEXT": true, "MEDIUMTEXT": true, "LONGTEXT": true,
		"JSON": true, "BOOLEAN": true, "UUID": true,
	}

	// Types kept with their parameters.
	parameterizedTypes = map[string]bool{
		"BIGINT": true, "INT": true, "TINYINT": true, "SMALLINT": true, "MEDIUMINT": true,
		"DECIMAL": true, "DOUBLE": true, "FLOAT": true, "BIT": true,
		"VARCHAR": true, "CHAR": true,
		"BINARY": true, "VARBINARY": true,
		"TINYBLOB": true, "BLOB": true, "MEDIUMBLOB": true, "LONGBLOB": true,
	}

	booleanFlagPrefixes = []string{"IS_", "HAS_", "CAN_"}
	booleanFlagWords    = []string{"ACTIVE", "ENABLED", "PUBLISHED", "COMPLETED"}
)

// NormalizeType maps a declared column type onto its canonical spelling, e.g.
// "int(11) unsigned" to "INT(11)" and "timestamptz" to "TIMESTAMP". Unknown types
// come back lower-cased. The result is stable: normalizing it again changes nothing.
func NormalizeType(columnName string, rawType string) string {
	raw := strings.TrimSpace(rawType)
	if raw == "" {
		return ""
	}
	base, params := splitTypeParams(raw)
	base = strings.Join(strings.Fields(unsignedRegexp.ReplaceAllString(base, "")), " ")
	upperBase := strings.ToUpper(base)
	if alias, ok := typeAliases[upperBase]; ok {
		upperBase = alias
	}
	name := strings.ToUpper(columnName)

	switch {
	case upperBase == "UUID":
		return "UUID"
	case upperBase == "CHAR" && compactParams(params) == "(36)":
		return "UUID"
	case (upperBase == "VARCHAR" || upperBase == "CHAR") && strings.HasSuffix(name, "_UUID"):
		return "UUID"
	case upperBase == "ENUM" || upperBase == "SET":
		// Value lists are kept byte for byte.
		return upperBase + params
	case upperBase == "TINYINT" && compactParams(params) == "(1)" && isBooleanFlagName(name):
		return "BOOLEAN"
	case bareTypes[upperBase]:
		return upperBase
	case parameterizedTypes[upperBase]:
		return upperBase + compactParams(params)
	default:
		return strings.ToLower(strings.Join(strings.Fields(unsignedRegexp.ReplaceAllString(raw, "")), " "))
	}
}

// isBooleanFlagName guesses from the column name whether a TINYINT(1) holds a boolean.
// MySQL has no real boolean type, so this is a naming heuristic and nothing more:
// a TINYINT(1) called "priority" stays a TINYINT(1).
func isBooleanFlagName(upperName string) bool {
	for _, prefix := range booleanFlagPrefixes {
		if strings.HasPrefix(upperName, prefix) {
			return true
		}
	}
	for _, word := range booleanFlagWords {
		if strings.Contains(upperName, word) {
			return true
		}
	}
	return false
}

// splitTypeParams separates "timestamp(3) with time zone" into
// "timestamp with time zone" and "(3)".
func splitTypeParams(t string) (string, string) {
	open := strings.IndexByte(t, '(')
	if open < 0 {
		return t, ""
	}
	closing := strings.LastIndexByte(t, ')')
	if closing < open {
		return t, ""
	}
	base := strings.TrimSpace(t[:open] + " " + t[closing+1:])
	return strings.Join(strings.Fields(base), " "), t[open : closing+1]
}

func compactParams(params string) string {
	return strings.ReplaceAll(params, " ", "")
}

var (
	currentTimestampRegexp = regexp.MustCompile(`(?i)^CURRENT_TIMESTAMP\s*(?:\(\s*\d*\s*\))?$`)
	typeCastRegexp         = regexp.MustCompile(`::\s*"?[A-Za-z_][\w ]*"?(?:\([^)]*\))?(?:\[\])*$`)
	quotedLiteralRegexp    = regexp.MustCompile(`(?s)^(?:_\w+\s*|[EeNn])?'((?:[^'\\]|''|\\.)*)'$`)
)

// NormalizeDefault canonicalizes a DEFAULT expression: quoted literals lose their
// quotes and casts, CURRENT_TIMESTAMP loses its precision and any other function
// call is kept as written.
func NormalizeDefault(raw string) string {
	v := strings.TrimSpace(raw)
	for {
		stripped := strings.TrimSpace(typeCastRegexp.ReplaceAllString(v, ""))
		stripped = unwrapParens(stripped)
		if stripped == v {
			break
		}
		v = stripped
	}

	switch {
	case strings.EqualFold(v, "NULL"):
		return "NULL"
	case currentTimestampRegexp.MatchString(v):
		return "CURRENT_TIMESTAMP"
	}
	if m := quotedLiteralRegexp.FindStringSubmatch(v); m != nil {
		return strings.NewReplacer(`''`, `'`, `\'`, `'`, `\\`, `\`).Replace(m[1])
	}
	return v
}

// unwrapParens removes one pair of parentheses enclosing the whole expression.
func unwrapParens(v string) string {
	if len(v) < 2 || v[0] != '(' || v[len(v)-1] != ')' {
		return v
	}
	depth := 0
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(v)-1 {
				// (a) + (b)
				return v
			}
		}
	}
	return strings.TrimSpace(v[1 : len(v)-1])
}
