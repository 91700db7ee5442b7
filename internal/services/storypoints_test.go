package services

import (
	"context"
	"testing"

	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/domain"
)

func spIssue(key, assignee, status string, fields map[string]any) domain.Issue {
	bag := domain.FieldBag{
		"summary":  key + " summary",
		"assignee": map[string]any{"displayName": assignee},
		"status":   map[string]any{"name": status},
	}
	for k, v := range fields {
		bag[k] = v
	}
	return domain.Issue{Key: key, Fields: bag}
}

func TestStoryPointsBuckets(t *testing.T) {
	jc := &fakeJira{res: &domain.SearchResult{Issues: []domain.Issue{
		spIssue("ABC-1", "Alice Jones", "Done", map[string]any{"customfield_10016": float64(5)}),
		spIssue("ABC-2", "Alice Jones", "In Review", map[string]any{"customfield_10016": float64(3)}),
		spIssue("ABC-3", "Alice Jones", "In Progress", map[string]any{"customfield_10016": float64(2)}),
		spIssue("ABC-4", "Alice Jones", "To Do", map[string]any{"customfield_10016": float64(8)}),
	}}}
	svc := newTestService(jc)

	got, err := svc.StoryPoints(context.Background(), "jql", []string{"alice"}, "")
	if err != nil {
		t.Fatalf("StoryPoints: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("summaries = %+v", got)
	}
	s := got[0]
	if s.Assignee != "alice" || s.TotalStoryPoints != 18 || s.IssueCount != 4 {
		t.Fatalf("summary = %+v", s)
	}
	if s.CompletedStoryPoints != 5 {
		t.Fatalf("completed = %v", s.CompletedStoryPoints)
	}
	// review and development statuses count as in progress
	if s.InProgressStoryPoints != 5 {
		t.Fatalf("in progress = %v", s.InProgressStoryPoints)
	}
	if s.TodoStoryPoints != 8 {
		t.Fatalf("todo = %v", s.TodoStoryPoints)
	}
	if len(s.Issues) != 4 || s.Issues[0].Key != "ABC-1" || s.Issues[0].StoryPoints != 5 {
		t.Fatalf("issues = %+v", s.Issues)
	}
	if jc.gotFields != "*all" {
		t.Fatalf("fields = %q", jc.gotFields)
	}
}

// Candidate fields are probed in priority order; the first positive value
// wins even when later candidates are set.
func TestStoryPointsFieldPriority(t *testing.T) {
	jc := &fakeJira{res: &domain.SearchResult{Issues: []domain.Issue{
		spIssue("ABC-1", "Bob", "To Do", map[string]any{
			"customfield_10130": float64(8),
			"customfield_10016": float64(5),
		}),
		spIssue("ABC-2", "Bob", "To Do", map[string]any{
			"customfield_10016": "3",
		}),
	}}}
	svc := newTestService(jc)

	got, err := svc.StoryPoints(context.Background(), "jql", []string{"bob"}, "")
	if err != nil {
		t.Fatalf("StoryPoints: %v", err)
	}
	if got[0].TotalStoryPoints != 11 {
		t.Fatalf("total = %v, want 8 from priority field + 3 from numeric string", got[0].TotalStoryPoints)
	}
}

func TestStoryPointsAllAssignees(t *testing.T) {
	jc := &fakeJira{res: &domain.SearchResult{Issues: []domain.Issue{
		spIssue("ABC-1", "Alice", "Done", map[string]any{"customfield_10016": float64(5)}),
		spIssue("ABC-2", "", "To Do", map[string]any{"customfield_10016": float64(2)}),
	}}}
	svc := newTestService(jc)

	got, err := svc.StoryPoints(context.Background(), "jql", nil, "")
	if err != nil {
		t.Fatalf("StoryPoints: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("summaries = %+v", got)
	}
	if got[0].Assignee != "Alice" || got[1].Assignee != "Unassigned" {
		t.Fatalf("assignees = %q %q", got[0].Assignee, got[1].Assignee)
	}
	if got[1].TotalStoryPoints != 2 || got[1].TodoStoryPoints != 2 {
		t.Fatalf("unassigned = %+v", got[1])
	}
}

func TestStoryPointsRequestedAssigneeWithNoIssues(t *testing.T) {
	jc := &fakeJira{res: &domain.SearchResult{}}
	svc := newTestService(jc)

	got, err := svc.StoryPoints(context.Background(), "jql", []string{"carol"}, "Sprint 24.1")
	if err != nil {
		t.Fatalf("StoryPoints: %v", err)
	}
	if len(got) != 1 || got[0].Assignee != "carol" || got[0].IssueCount != 0 {
		t.Fatalf("summaries = %+v", got)
	}
	if got[0].Issues == nil {
		t.Fatal("issues slice must be non-nil for JSON shape")
	}
}

func TestResolveStoryPointsNoCandidateSet(t *testing.T) {
	fields := domain.FieldBag{"customfield_99999": float64(13)}
	if got := resolveStoryPoints(fields, []string{"customfield_10016"}); got != 0 {
		t.Fatalf("got %v, want 0 for unknown field slot", got)
	}
}
