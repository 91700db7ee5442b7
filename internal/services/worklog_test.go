package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/config"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/domain"
)

type fakeJira struct {
	res       *domain.SearchResult
	err       error
	myselfErr error

	gotJQL    string
	gotMax    int
	gotFields string
}

func (f *fakeJira) Search(_ context.Context, jql string, maxResults int, fields string) (*domain.SearchResult, error) {
	f.gotJQL = jql
	f.gotMax = maxResults
	f.gotFields = fields
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

func (f *fakeJira) Myself(context.Context) error { return f.myselfErr }

func newTestService(jc JiraClient) *Service {
	cfg := config.Config{
		MaxResultsGeneral:     200,
		MaxResultsAggregation: 1000,
		StoryPointFields:      []string{"customfield_10130", "customfield_10016", "Story Points"},
	}
	return &Service{cfg: cfg, log: zerolog.Nop(), jira: jc}
}

func worklogEntry(started, timeSpent, author string) map[string]any {
	return map[string]any{
		"started":   started,
		"timeSpent": timeSpent,
		"author":    map[string]any{"displayName": author},
	}
}

func TestWorklogHours(t *testing.T) {
	jc := &fakeJira{res: &domain.SearchResult{Issues: []domain.Issue{
		{Key: "ABC-1", Fields: domain.FieldBag{
			"worklog": map[string]any{"worklogs": []any{
				worklogEntry("2024-01-10T09:00:00.000+0000", "2h 30m", "John Smith"),
				map[string]any{
					"started":          "2024-01-12T09:00:00.000+0000",
					"timeSpentSeconds": float64(3600),
					"author":           map[string]any{"displayName": "John Smith"},
				},
				worklogEntry("2024-02-05T09:00:00.000+0000", "4h", "John Smith"),
				worklogEntry("2024-01-11T09:00:00.000+0000", "8h", "Someone Else"),
			}},
		}},
	}}}
	svc := newTestService(jc)

	got, err := svc.WorklogHours(context.Background(), "jql", []string{"john"},
		&domain.DateRange{Start: "2024-01-01", End: "2024-01-31"})
	if err != nil {
		t.Fatalf("WorklogHours: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("summaries = %+v", got)
	}
	if got[0].User != "john" || got[0].TotalHours != 3.5 || got[0].Entries != 2 {
		t.Fatalf("summary = %+v", got[0])
	}
	if jc.gotMax != 1000 || jc.gotFields != "worklog,key,summary" {
		t.Fatalf("search args = %d %q", jc.gotMax, jc.gotFields)
	}
}

func TestWorklogHoursAllUsers(t *testing.T) {
	jc := &fakeJira{res: &domain.SearchResult{Issues: []domain.Issue{
		{Key: "ABC-1", Fields: domain.FieldBag{
			"worklog": map[string]any{"worklogs": []any{
				worklogEntry("2024-01-10T09:00:00.000+0000", "2h", "Alice"),
				worklogEntry("2024-01-11T09:00:00.000+0000", "3h", "Bob"),
				worklogEntry("2024-01-12T09:00:00.000+0000", "1h", "Alice"),
			}},
		}},
	}}}
	svc := newTestService(jc)

	got, err := svc.WorklogHours(context.Background(), "jql", nil, nil)
	if err != nil {
		t.Fatalf("WorklogHours: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("summaries = %+v", got)
	}
	if got[0].User != "Alice" || got[0].TotalHours != 3 || got[0].Entries != 2 {
		t.Fatalf("alice = %+v", got[0])
	}
	if got[1].User != "Bob" || got[1].TotalHours != 3 || got[1].Entries != 1 {
		t.Fatalf("bob = %+v", got[1])
	}
}

// Requested users always appear, even with nothing booked.
func TestWorklogHoursZeroMatches(t *testing.T) {
	jc := &fakeJira{res: &domain.SearchResult{}}
	svc := newTestService(jc)

	got, err := svc.WorklogHours(context.Background(), "jql", []string{"alice"}, nil)
	if err != nil {
		t.Fatalf("WorklogHours: %v", err)
	}
	if len(got) != 1 || got[0].User != "alice" || got[0].TotalHours != 0 || got[0].Entries != 0 {
		t.Fatalf("summaries = %+v", got)
	}
}

func TestWorklogHoursSearchError(t *testing.T) {
	jc := &fakeJira{err: errors.New("jira down")}
	svc := newTestService(jc)

	if _, err := svc.WorklogHours(context.Background(), "jql", nil, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestMatchTarget(t *testing.T) {
	cases := []struct {
		name    string
		targets []string
		want    string
	}{
		{"John Smith", []string{"john"}, "john"},
		{"John", []string{"John Smith"}, "John Smith"},
		{"jane doe", []string{"john", "JANE DOE"}, "JANE DOE"},
		{"Carol", []string{"john"}, ""},
		{"Anna", []string{"Ann", "Anna Lee"}, "Ann"},
	}
	for _, c := range cases {
		if got := matchTarget(c.name, c.targets); got != c.want {
			t.Fatalf("matchTarget(%q, %v) = %q, want %q", c.name, c.targets, got, c.want)
		}
	}
}
