package jql

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule-based JQL synthesis for when the LLM path is unavailable or produced
// garbage. An ordered table of (name, build) pairs, evaluated top to bottom;
// the first build that succeeds wins, so rules stay independently testable.

type fallbackRule struct {
	name  string
	build func(freeText, lower string) (string, bool)
}

var fallbackRules = []fallbackRule{
	{"issue-key", buildIssueKeyJQL},
	{"backlog", buildBacklogJQL},
	{"bug", buildBugJQL},
	{"high-priority", buildHighPriorityJQL},
	{"open", buildOpenJQL},
	{"worklog", buildWorklogJQL},
	{"assigned-to", buildAssignedToJQL},
	{"story-points", buildStoryPointsJQL},
	{"issues-for", buildIssuesForJQL},
	{"date-range", buildDateRangeJQL},
}

// Fallback synthesizes a structured query from free text alone. Always
// returns something usable; the last resort is a plain text search.
func Fallback(freeText string) string {
	lower := strings.ToLower(strings.TrimSpace(freeText))
	for _, r := range fallbackRules {
		if jql, ok := r.build(freeText, lower); ok {
			return jql
		}
	}
	jql := fmt.Sprintf(`summary ~ "%s" OR description ~ "%s" ORDER BY updated DESC`, freeText, freeText)
	return AddDefaultSprintFilter(jql, freeText)
}

// Issue keys short-circuit everything else: a key lookup must never be
// narrowed by sprint or status filters.
func buildIssueKeyJQL(freeText, _ string) (string, bool) {
	keys := ExtractIssueKeys(freeText)
	if len(keys) == 0 { return "", false }
	if len(keys) == 1 {
		return fmt.Sprintf(`key = "%s"`, keys[0]), true
	}
	quoted := make([]string, len(keys))
	for i, k := range keys { quoted[i] = `"` + k + `"` }
	return fmt.Sprintf(`key in (%s)`, strings.Join(quoted, ", ")), true
}

func buildBacklogJQL(_, lower string) (string, bool) {
	if !strings.Contains(lower, "backlog") { return "", false }
	return `status IN ("New", "To Do", "Blocked") AND Sprint not in openSprints()`, true
}

func buildBugJQL(freeText, lower string) (string, bool) {
	if !strings.Contains(lower, "bug") { return "", false }
	jql := fmt.Sprintf(`type = Bug AND (summary ~ "%s" OR description ~ "%s") ORDER BY updated DESC`, freeText, freeText)
	return AddDefaultSprintFilter(jql, freeText), true
}

func buildHighPriorityJQL(freeText, lower string) (string, bool) {
	if !strings.Contains(lower, "high priority") { return "", false }
	jql := fmt.Sprintf(`priority = High AND (summary ~ "%s" OR description ~ "%s") ORDER BY updated DESC`, freeText, freeText)
	return AddDefaultSprintFilter(jql, freeText), true
}

func buildOpenJQL(freeText, lower string) (string, bool) {
	if !strings.Contains(lower, "open") && !strings.Contains(lower, "todo") { return "", false }
	jql := fmt.Sprintf(`status != Done AND (summary ~ "%s" OR description ~ "%s") ORDER BY updated DESC`, freeText, freeText)
	return AddDefaultSprintFilter(jql, freeText), true
}

var worklogUserSpanRe = regexp.MustCompile(`(?:by|for|of)\s+(.+?)\s+between`)

// Worklog queries need user names; without them the rule falls through so a
// later rule or the generic search can still serve the query.
func buildWorklogJQL(_, lower string) (string, bool) {
	if !strings.Contains(lower, "worklog") && !strings.Contains(lower, "hours") && !strings.Contains(lower, "time spent") {
		return "", false
	}
	m := worklogUserSpanRe.FindStringSubmatch(lower)
	if m == nil { return "", false }
	users := splitNames(strings.TrimSpace(m[1]))
	if len(users) == 0 { return "", false }

	if dm := dateRangeRe.FindStringSubmatch(lower); dm != nil {
		start, end := dm[1], dm[2]
		if len(users) == 1 {
			return fmt.Sprintf(`(worklogAuthor = "%s" AND worklogDate >= "%s" AND worklogDate <= "%s") OR (assignee = "%s" AND updated >= "%s" AND updated <= "%s")`,
				users[0], start, end, users[0], start, end), true
		}
		list := quoteJoin(users)
		return fmt.Sprintf(`(worklogAuthor in (%s) AND worklogDate >= "%s" AND worklogDate <= "%s") OR (assignee in (%s) AND updated >= "%s" AND updated <= "%s")`,
			list, start, end, list, start, end), true
	}
	if len(users) == 1 {
		return fmt.Sprintf(`worklogAuthor = "%s" OR assignee = "%s"`, users[0], users[0]), true
	}
	list := quoteJoin(users)
	return fmt.Sprintf(`worklogAuthor in (%s) OR assignee in (%s)`, list, list), true
}

var assignedToRe = regexp.MustCompile(`assigned to ([a-zA-Z\s]+?)(?:\s+between|\s*$)`)

func buildAssignedToJQL(freeText, lower string) (string, bool) {
	if !strings.Contains(lower, "assigned to") { return "", false }
	m := assignedToRe.FindStringSubmatch(lower)
	if m == nil { return "", false }
	name := strings.TrimSpace(m[1])
	if dm := dateRangeRe.FindStringSubmatch(lower); dm != nil {
		jql := fmt.Sprintf(`assignee ~ "%s" AND created >= "%s" AND created <= "%s" ORDER BY updated DESC`, name, dm[1], dm[2])
		return AddDefaultSprintFilter(jql, freeText), true
	}
	jql := fmt.Sprintf(`assignee ~ "%s" ORDER BY updated DESC`, name)
	return AddDefaultSprintFilter(jql, freeText), true
}

var spSprintRe = regexp.MustCompile(`(?i)(?:for|in)\s+(?:the\s+)?sprint\s+([a-zA-Z0-9.\s-]+)`)

var storyPointKeywords = []string{
	"story point", "story points", "points assigned", "points for",
	"total points", "remaining points",
}

// Story point queries get the full treatment: assignee filter, optional
// sprint, existing-points filter, completed-work exclusion, stable sort.
func buildStoryPointsJQL(_, lower string) (string, bool) {
	matched := false
	for _, kw := range storyPointKeywords {
		if strings.Contains(lower, kw) { matched = true; break }
	}
	if !matched { return "", false }

	assignees := ExtractFallbackAssignees(lower)
	if len(assignees) == 0 { return "", false }

	var jql string
	if len(assignees) == 1 {
		jql = fmt.Sprintf(`assignee ~ "%s"`, assignees[0])
	} else {
		jql = fmt.Sprintf(`assignee in (%s)`, quoteJoin(assignees))
	}

	sprint := ""
	if m := spSprintRe.FindStringSubmatch(lower); m != nil {
		sprint = strings.TrimSpace(m[1])
		jql += fmt.Sprintf(` AND Sprint = "%s"`, sprint)
	}

	jql += ` AND "Story Points" is not EMPTY`
	jql += ` AND status NOT IN ("Done", "Closed", "Resolved", "Cancelled", "Ready for Release", "Released", "Deployed", "In Review")`
	if sprint == "" {
		jql += ` AND sprint in openSprints()`
	}
	jql += ` ORDER BY assignee, "Story Points" DESC`
	return jql, true
}

var issuesForRe = regexp.MustCompile(`(?:issues|tickets) for ([a-zA-Z\s]+?)(?:\s+between|\s*$)`)

func buildIssuesForJQL(freeText, lower string) (string, bool) {
	if !strings.Contains(lower, "issues for") && !strings.Contains(lower, "tickets for") { return "", false }
	m := issuesForRe.FindStringSubmatch(lower)
	if m == nil { return "", false }
	name := strings.TrimSpace(m[1])
	if dm := dateRangeRe.FindStringSubmatch(lower); dm != nil {
		jql := fmt.Sprintf(`assignee ~ "%s" AND created >= "%s" AND created <= "%s" ORDER BY updated DESC`, name, dm[1], dm[2])
		return AddDefaultSprintFilter(jql, freeText), true
	}
	jql := fmt.Sprintf(`assignee ~ "%s" ORDER BY updated DESC`, name)
	return AddDefaultSprintFilter(jql, freeText), true
}

func buildDateRangeJQL(freeText, lower string) (string, bool) {
	m := dateRangeRe.FindStringSubmatch(lower)
	if m == nil { return "", false }
	jql := fmt.Sprintf(`created >= "%s" AND created <= "%s" ORDER BY updated DESC`, m[1], m[2])
	return AddDefaultSprintFilter(jql, freeText), true
}

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names { quoted[i] = `"` + n + `"` }
	return strings.Join(quoted, ", ")
}
