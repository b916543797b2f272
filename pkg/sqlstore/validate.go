package sqlstore

import (
	"regexp"
	"strconv"
	"strings"
)

// mutationKeywords are the statement and schema mutation keywords that mark
// a query as unsafe regardless of where they appear.
var mutationKeywords = regexp.MustCompile(
	`(?i)\b(insert|update|delete|drop|alter|create|replace|truncate|attach|detach|pragma|vacuum|reindex)\b`,
)

// ValidateReadOnly enforces the read-only allow-list: after stripping
// leading whitespace and SQL comments, the statement must begin with SELECT,
// must be a single statement, and must not contain a mutation keyword
// anywhere. Violations return an *UnsafeQueryError and the statement is
// never executed.
func ValidateReadOnly(sqlText string) error {
	stripped := stripLeadingComments(sqlText)
	if stripped == "" {
		return &UnsafeQueryError{}
	}

	if !strings.HasPrefix(strings.ToLower(stripped), "select") {
		if m := mutationKeywords.FindString(stripped); m != "" {
			return &UnsafeQueryError{Keyword: strings.ToUpper(m)}
		}
		return &UnsafeQueryError{}
	}

	// A second non-empty statement after a semicolon is not allowed.
	if rest := strings.TrimSpace(afterFirstStatement(stripped)); rest != "" {
		return &UnsafeQueryError{}
	}

	if m := mutationKeywords.FindString(stripped); m != "" {
		return &UnsafeQueryError{Keyword: strings.ToUpper(m)}
	}

	return nil
}

// stripLeadingComments removes leading whitespace, line comments (--) and
// block comments (/* */) so the first real token can be inspected.
func stripLeadingComments(sqlText string) string {
	s := strings.TrimSpace(sqlText)
	for {
		switch {
		case strings.HasPrefix(s, "--"):
			idx := strings.IndexByte(s, '\n')
			if idx < 0 {
				return ""
			}
			s = strings.TrimSpace(s[idx+1:])
		case strings.HasPrefix(s, "/*"):
			idx := strings.Index(s, "*/")
			if idx < 0 {
				return ""
			}
			s = strings.TrimSpace(s[idx+2:])
		default:
			return s
		}
	}
}

// afterFirstStatement returns everything after the first semicolon.
func afterFirstStatement(sqlText string) string {
	idx := strings.IndexByte(sqlText, ';')
	if idx < 0 {
		return ""
	}
	return sqlText[idx+1:]
}

// stripTrailingSemicolons removes trailing semicolons and whitespace so a
// LIMIT clause can be appended safely.
func stripTrailingSemicolons(sqlText string) string {
	return strings.TrimRight(strings.TrimSpace(sqlText), "; \t\n")
}

var limitClause = regexp.MustCompile(`(?i)\blimit\b`)

// ensureLimit appends a LIMIT clause when the statement has none and a row
// cap is configured.
func ensureLimit(sqlText string, maxRows int) string {
	trimmed := stripTrailingSemicolons(sqlText)
	if maxRows <= 0 || limitClause.MatchString(trimmed) {
		return trimmed
	}
	return trimmed + " LIMIT " + strconv.Itoa(maxRows)
}
