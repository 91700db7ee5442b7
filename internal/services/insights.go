package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/adapters/llm"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/domain"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/jql"
)

// insightsLLM is the slice of the LLM adapter the analysis helpers need.
type insightsLLM interface {
	Complete(ctx context.Context, system, user string) (string, llm.Usage, error)
	Configured() bool
}

// Analysis helpers share the translation pipeline's degrade policy: if the
// LLM is unconfigured or errors, a deterministic summary text is returned
// instead. Never an error to the caller.

func (s *Service) complete(ctx context.Context, system, user string) (string, bool) {
	if !s.llm.Configured() { return "", false }
	out, usage, err := s.llm.Complete(ctx, system, user)
	if err != nil {
		s.log.Warn().Err(err).Msg("insights llm call failed, using canned response")
		return "", false
	}
	in := usage.InputTokens
	if in == 0 { in = jql.EstimateTokens(system + user) }
	o := usage.OutputTokens
	if o == 0 { o = jql.EstimateTokens(out) }
	s.tracker.Track(in, o)
	return out, true
}

// ChatResponse answers the /ai/query assistant endpoint. contextData, when
// present, is a slice of prior search results trimmed to keep tokens down.
func (s *Service) ChatResponse(ctx context.Context, prompt string, contextData []domain.Issue) string {
	system := "JIRA AI Assistant. Help with JQL, issues, workflows. Be concise, helpful."
	user := "Query: " + prompt
	if len(contextData) > 0 {
		limited := contextData
		if len(limited) > 5 { limited = limited[:5] }
		var b strings.Builder
		for _, is := range limited {
			fmt.Fprintf(&b, "- %s: %s [%s]\n", is.Key, is.Fields.Text("summary"), is.Fields.Object("status").Text("name"))
		}
		user += "\n\nData:\n" + b.String() + "\nAnalyze and respond."
	}
	if out, ok := s.complete(ctx, system, user); ok { return out }
	return chatFallback(prompt, contextData)
}

func chatFallback(prompt string, contextData []domain.Issue) string {
	lower := strings.ToLower(prompt)
	if strings.Contains(lower, "jql") || strings.Contains(lower, "query") {
		return "I can help you with JQL queries! Examples:\n\n" +
			"- Find all bugs: type = Bug\n" +
			"- High priority issues: priority = High\n" +
			"- Issues assigned to someone: assignee = \"username\"\n" +
			"- Open issues: status != Done\n" +
			"- Issues created this week: created >= -1w\n" +
			"- Combine conditions: type = Bug AND priority = High AND status = \"Open\""
	}
	if strings.Contains(lower, "status") || strings.Contains(lower, "workflow") {
		return "JIRA workflows typically include: To Do / Open, In Progress, In Review, Done / Closed.\n" +
			"Filter by status with: status = \"Status Name\""
	}
	if strings.Contains(lower, "priority") {
		return "JIRA priority levels are typically Highest, High, Medium, Low, Lowest.\n" +
			"Filter by priority with: priority = High"
	}
	if len(contextData) > 0 {
		return fmt.Sprintf("I found %d issues based on your search. AI analysis is unavailable right now; review the results for patterns in status, priority, and assignments.", len(contextData))
	}
	return "I'm currently running in limited mode. I can still help with JIRA search, basic JQL guidance, and workflow questions."
}

// ExplainJQL produces a short human explanation of a generated query.
func (s *Service) ExplainJQL(ctx context.Context, jqlStr, userQuery string) string {
	user := fmt.Sprintf("Explain JQL: %s\nFrom query: %q\nBrief explanation:", jqlStr, userQuery)
	if out, ok := s.complete(ctx, "", user); ok { return out }
	return fmt.Sprintf("JQL Query: %s\n\nGenerated from your request %q. ~ means \"contains text\", = means \"equals exactly\", AND combines conditions, OR provides alternatives.", jqlStr, userQuery)
}

// AnalyzeIssues summarizes a search result set.
func (s *Service) AnalyzeIssues(ctx context.Context, issues []domain.Issue, userQuery string) string {
	limited := issues
	if len(limited) > 10 { limited = limited[:10] }
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze these JIRA issues and provide insights.\n\nUser Query: %q\nNumber of issues found: %d\n\n", userQuery, len(issues))
	for _, is := range limited {
		assignee := is.Fields.Object("assignee").Text("displayName")
		if assignee == "" { assignee = "Unassigned" }
		fmt.Fprintf(&b, "- %s: %s\n  Status: %s, Priority: %s, Assignee: %s\n",
			is.Key, is.Fields.Text("summary"),
			is.Fields.Object("status").Text("name"),
			is.Fields.Object("priority").Text("name"), assignee)
	}
	b.WriteString("\nProvide a brief summary, key patterns, status and priority distribution, and next steps.")
	if out, ok := s.complete(ctx, "", b.String()); ok { return out }

	statusCounts := map[string]int{}
	priorityCounts := map[string]int{}
	for _, is := range issues {
		st := is.Fields.Object("status").Text("name")
		if st == "" { st = "Unknown" }
		pr := is.Fields.Object("priority").Text("name")
		if pr == "" { pr = "Not set" }
		statusCounts[st]++
		priorityCounts[pr]++
	}
	var out strings.Builder
	fmt.Fprintf(&out, "Analysis for %q:\n\nFound %d issues.\n\nStatus distribution:\n", userQuery, len(issues))
	for _, k := range sortedKeys(statusCounts) { fmt.Fprintf(&out, "- %s: %d\n", k, statusCounts[k]) }
	out.WriteString("\nPriority distribution:\n")
	for _, k := range sortedKeys(priorityCounts) { fmt.Fprintf(&out, "- %s: %d\n", k, priorityCounts[k]) }
	return out.String()
}

// AnalyzeStoryPoints summarizes per-assignee point rollups.
func (s *Service) AnalyzeStoryPoints(ctx context.Context, summaries []domain.StoryPointsSummary, userQuery string) string {
	total, completed := 0.0, 0.0
	for _, sp := range summaries {
		total += sp.TotalStoryPoints
		completed += sp.CompletedStoryPoints
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze story points data and provide insights.\n\nUser Query: %q\nTotal Assignees: %d\nTotal Story Points: %.0f\n\n", userQuery, len(summaries), total)
	for _, sp := range summaries {
		fmt.Fprintf(&b, "- %s: %.0f total (%.0f completed, %.0f in progress, %.0f to do) across %d issues\n",
			sp.Assignee, sp.TotalStoryPoints, sp.CompletedStoryPoints, sp.InProgressStoryPoints, sp.TodoStoryPoints, sp.IssueCount)
	}
	b.WriteString("\nProvide workload distribution, completion rate, and sprint planning recommendations. Keep it actionable.")
	if out, ok := s.complete(ctx, "", b.String()); ok { return out }

	rate := 0
	if total > 0 { rate = int(completed/total*100 + 0.5) }
	var out strings.Builder
	fmt.Fprintf(&out, "Story Points Analysis for %q:\n\nTotal: %.0f points, Completed: %.0f (%d%%)\n\nAssignee breakdown:\n", userQuery, total, completed, rate)
	for _, sp := range summaries {
		fmt.Fprintf(&out, "- %s: %.0f points total (%.0f completed, %.0f in progress, %.0f to do)\n",
			sp.Assignee, sp.TotalStoryPoints, sp.CompletedStoryPoints, sp.InProgressStoryPoints, sp.TodoStoryPoints)
	}
	return out.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m { keys = append(keys, k) }
	sort.Strings(keys)
	return keys
}
