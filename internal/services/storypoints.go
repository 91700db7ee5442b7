package services

import (
	"context"
	"strings"

	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/domain"
)

// StoryPoints fetches issues matching jql with all fields (point values live
// in varying custom-field slots) and reduces per-assignee point totals
// bucketed by status category. Empty assigneeNames means "all". Every
// requested assignee appears in the result even with zero matches.
func (s *Service) StoryPoints(ctx context.Context, jql string, assigneeNames []string, sprintName string) ([]domain.StoryPointsSummary, error) {
	res, err := s.jira.Search(ctx, jql, s.cfg.MaxResultsAggregation, "*all")
	if err != nil { return nil, err }
	ev := s.log.Info().Int("issues", len(res.Issues)).Str("jql", jql)
	if sprintName != "" { ev = ev.Str("sprint", sprintName) }
	ev.Msg("storypoints: issues fetched")

	summary := map[string]*domain.StoryPointsSummary{}
	order := make([]string, 0, len(assigneeNames))
	for _, a := range assigneeNames {
		if _, ok := summary[a]; ok { continue }
		summary[a] = &domain.StoryPointsSummary{Assignee: a, Issues: []domain.IssueRef{}}
		order = append(order, a)
	}

	var withPoints int
	for _, issue := range res.Issues {
		assignee := issue.Fields.Object("assignee").Text("displayName")
		if assignee == "" { assignee = "Unassigned" }
		status := issue.Fields.Object("status").Text("name")
		if status == "" { status = "Unknown" }
		points := resolveStoryPoints(issue.Fields, s.cfg.StoryPointFields)

		matched := ""
		if len(assigneeNames) > 0 {
			matched = matchTarget(assignee, assigneeNames)
		} else {
			matched = assignee
			if _, ok := summary[assignee]; !ok {
				summary[assignee] = &domain.StoryPointsSummary{Assignee: assignee, Issues: []domain.IssueRef{}}
				order = append(order, assignee)
			}
		}
		b := summary[matched]
		if b == nil { continue }

		if points > 0 { withPoints++ }
		b.TotalStoryPoints += points
		b.IssueCount++

		st := strings.ToLower(status)
		switch {
		case strings.Contains(st, "done") || strings.Contains(st, "closed") || strings.Contains(st, "resolved"):
			b.CompletedStoryPoints += points
		case strings.Contains(st, "progress") || strings.Contains(st, "review") || strings.Contains(st, "development"):
			b.InProgressStoryPoints += points
		default:
			// "New", "To Do", "Open", "Blocked" and anything unrecognized
			b.TodoStoryPoints += points
		}

		sum := issue.Fields.Text("summary")
		if sum == "" { sum = "No summary" }
		b.Issues = append(b.Issues, domain.IssueRef{Key: issue.Key, Summary: sum, StoryPoints: points, Status: status})
	}
	s.log.Info().Int("with_points", withPoints).Int("assignees", len(order)).Msg("storypoints: issues reduced")

	out := make([]domain.StoryPointsSummary, 0, len(order))
	for _, k := range order { out = append(out, *summary[k]) }
	return out, nil
}

// resolveStoryPoints probes the prioritized candidate fields and takes the
// first numeric value > 0.
func resolveStoryPoints(fields domain.FieldBag, candidates []string) float64 {
	for _, f := range candidates {
		if v, ok := fields.Number(f); ok && v > 0 {
			return v
		}
	}
	return 0
}
