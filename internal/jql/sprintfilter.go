package jql

import "strings"

// scopeKeywords suppress the default sprint filter: the query either talks
// about sprints explicitly or spans them (worklog reporting).
var scopeKeywords = []string{"sprint", "worklog", "hours", "time spent", "all sprint", "any sprint"}

// AddDefaultSprintFilter appends "AND sprint in openSprints()" to a generated
// query unless the text opts out, the query targets issue keys, or an
// equivalent sprint scope is already present. Idempotent: the already-present
// check catches a second application.
func AddDefaultSprintFilter(jql, userQuery string) string {
	lowerQuery := strings.ToLower(userQuery)
	for _, kw := range scopeKeywords {
		if strings.Contains(lowerQuery, kw) { return jql }
	}
	if len(ExtractIssueKeys(userQuery)) > 0 { return jql }

	lowerJQL := strings.ToLower(jql)
	if strings.Contains(lowerJQL, "sprint in opensprints()") ||
		strings.Contains(lowerJQL, "sprint not in opensprints()") ||
		strings.Contains(lowerJQL, "sprint is empty") {
		return jql
	}

	// keep any trailing sort clause last
	if i := strings.Index(jql, " ORDER BY"); i >= 0 {
		return jql[:i] + " AND sprint in openSprints()" + jql[i:]
	}
	return jql + " AND sprint in openSprints()"
}
