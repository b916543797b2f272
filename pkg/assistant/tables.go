package assistant

import (
	"regexp"
	"strings"
)

var tableRef = regexp.MustCompile(`(?i)\b(?:from|join)\s+([A-Za-z_][A-Za-z0-9_]*)`)

// tablesInvolved lexically extracts table names referenced in FROM and JOIN
// clauses. Subqueries contribute their inner references; duplicates are
// dropped while first-seen order is kept.
func tablesInvolved(sqlQuery string) []string {
	matches := tableRef.FindAllStringSubmatch(sqlQuery, -1)
	seen := make(map[string]struct{}, len(matches))
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if name == "select" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tables = append(tables, name)
	}
	return tables
}
