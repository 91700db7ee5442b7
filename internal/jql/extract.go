package jql

import (
	"regexp"
	"strings"

	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/domain"
)

// Pattern-based entity extraction from free text and generated JQL. The JQL
// side is preferred when both carry signal: it already reflects the model's
// disambiguation.

var (
	issueKeyRe  = regexp.MustCompile(`(?i)[A-Z]+-\d+`)
	userSpanRe  = regexp.MustCompile(`(?:by|for|of)\s+(.+?)\s+(?:between|for the period|from)`)
	dateRangeRe = regexp.MustCompile(`(?:between|period of|from)\s+(\d{4}-\d{2}-\d{2})\s+(?:and|to)\s+(\d{4}-\d{2}-\d{2})`)
	nameSplitRe = regexp.MustCompile(`\s+and\s+|\s*,\s*`)

	jqlWorklogUserRe = regexp.MustCompile(`worklogAuthor\s*=\s*"([^"]+)"|worklogAuthor\s*in\s*\(([^)]+)\)`)
	jqlWorklogDateRe = regexp.MustCompile(`worklogDate\s*>=\s*"([^"]+)".*worklogDate\s*<=\s*"([^"]+)"`)
	jqlAssigneeRe    = regexp.MustCompile(`assignee\s*=\s*"([^"]+)"|assignee\s*in\s*\(([^)]+)\)`)
	jqlSprintRe      = regexp.MustCompile(`Sprint\s*=\s*"([^"]+)"`)

	sprintTextRe = regexp.MustCompile(`(?i)(?:for|in)\s+sprint\s+([a-zA-Z0-9.\s-]+)`)

	spAssigneeRe1 = regexp.MustCompile(`(?i)(?:story points?|points)\s+(?:for|assigned to|of)\s+([^,.]+(?:,\s*[^,.]+)*)`)
	spAssigneeRe2 = regexp.MustCompile(`(?i)assigned to\s+([^,.]+(?:,\s*[^,.]+)*)`)
	spAssigneeRe3 = regexp.MustCompile(`(?i)(?:story points?|points)\s+(?:for|of|assigned to)\s+(.+?)(?:\s+(?:for|in)\s+sprint|\s*$)`)
	spQueryRe     = regexp.MustCompile(`(?i)(?:assigned to|story points?\s+(?:of|for))\s+(.+?)\s+for\s+(?:the\s+)?sprint`)

	jqlTeamRe   = regexp.MustCompile(`(?i)Team\[Team\]\s*=\s*"([^"]+)"`)
	jqlTeamInRe = regexp.MustCompile(`(?i)Team\[Team\]\s+IN\s*\(([^)]+)\)`)
	teamIDRe    = regexp.MustCompile(`(?i)\b[0-9a-z]{8}-[0-9a-z]{4}-[0-9a-z]{4}-[0-9a-z]{4}-[0-9a-z]{4,}(?:-[0-9a-z]+)*\b`)
)

// Extract collects every entity both sources offer; used for response
// metadata and by callers that want the whole picture at once.
func Extract(freeText, jql string) domain.ExtractedEntities {
	users, dr := ExtractWorklogTargets(freeText, jql)
	if len(users) == 0 {
		users = extractJQLNames(jqlAssigneeRe, jql)
	}
	return domain.ExtractedEntities{
		UserNames:  users,
		TeamIDs:    ExtractTeamIDs(freeText, jql),
		DateRange:  dr,
		SprintName: ExtractSprint(freeText, jql),
		IssueKeys:  ExtractIssueKeys(freeText),
	}
}

// ExtractIssueKeys finds PROJECT-123 shaped tokens, normalized to uppercase.
func ExtractIssueKeys(text string) []string {
	matches := issueKeyRe.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.ToUpper(m))
	}
	return out
}

// ExtractWorklogTargets resolves user names and the date range for worklog
// aggregation. JQL dates win when present (and then only JQL users are
// trusted); otherwise both names and dates must come from the text. A "team"
// word inside the name span means the span names a team, not people.
func ExtractWorklogTargets(freeText, jql string) ([]string, *domain.DateRange) {
	lower := strings.ToLower(freeText)

	if m := jqlWorklogDateRe.FindStringSubmatch(jql); m != nil {
		dr := &domain.DateRange{Start: m[1], End: m[2]}
		return extractJQLNames(jqlWorklogUserRe, jql), dr
	}

	userMatch := userSpanRe.FindStringSubmatch(lower)
	dateMatch := dateRangeRe.FindStringSubmatch(lower)
	if userMatch == nil || dateMatch == nil {
		return nil, nil
	}
	dr := &domain.DateRange{Start: dateMatch[1], End: dateMatch[2]}
	span := strings.TrimSpace(userMatch[1])
	if strings.Contains(span, "team") {
		// team reference, not individual people
		return nil, dr
	}
	return splitNames(span), dr
}

// ExtractStoryPointTargets pulls assignee names for story point aggregation:
// text pattern first, generated JQL as backup.
func ExtractStoryPointTargets(freeText, jql string) []string {
	if m := spQueryRe.FindStringSubmatch(freeText); m != nil {
		if names := splitNames(strings.TrimSpace(m[1])); len(names) > 0 {
			return names
		}
	}
	return extractJQLNames(jqlAssigneeRe, jql)
}

// ExtractFallbackAssignees serves the fallback builder's story point rule,
// which accepts looser phrasings than the orchestrator-side extractor.
func ExtractFallbackAssignees(lower string) []string {
	for _, re := range []*regexp.Regexp{spAssigneeRe1, spAssigneeRe2, spAssigneeRe3} {
		if m := re.FindStringSubmatch(lower); m != nil {
			if names := splitNames(strings.TrimSpace(m[1])); len(names) > 0 {
				return names
			}
		}
	}
	return nil
}

// ExtractDateRange finds an explicit YYYY-MM-DD range in free text.
func ExtractDateRange(freeText string) *domain.DateRange {
	m := dateRangeRe.FindStringSubmatch(strings.ToLower(freeText))
	if m == nil { return nil }
	return &domain.DateRange{Start: m[1], End: m[2]}
}

// ExtractSprint returns a sprint name from "for/in sprint X" phrasing or a
// Sprint = "X" clause in the generated JQL.
func ExtractSprint(freeText, jql string) string {
	if m := sprintTextRe.FindStringSubmatch(freeText); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := jqlSprintRe.FindStringSubmatch(jql); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ExtractTeamIDs finds team identifiers: UUID-like tokens in the text, and
// Team[Team] clauses (singular or IN list) in the JQL.
func ExtractTeamIDs(freeText, jql string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(id string) {
		id = strings.TrimSpace(strings.Trim(strings.TrimSpace(id), `"`))
		if id == "" || seen[id] { return }
		seen[id] = true
		out = append(out, id)
	}
	if m := jqlTeamRe.FindStringSubmatch(jql); m != nil { add(m[1]) }
	if m := jqlTeamInRe.FindStringSubmatch(jql); m != nil {
		for _, p := range strings.Split(m[1], ",") { add(p) }
	}
	for _, m := range teamIDRe.FindAllString(freeText, -1) { add(m) }
	return out
}

func splitNames(s string) []string {
	parts := nameSplitRe.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" { continue }
		out = append(out, p)
	}
	return out
}

// extractJQLNames handles the `field = "x"` / `field in (a, b)` pair of
// capture groups shared by the worklogAuthor and assignee patterns.
func extractJQLNames(re *regexp.Regexp, jql string) []string {
	m := re.FindStringSubmatch(jql)
	if m == nil { return nil }
	if m[1] != "" { return []string{m[1]} }
	if m[2] == "" { return nil }
	parts := strings.Split(m[2], ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if p == "" { continue }
		out = append(out, p)
	}
	return out
}
