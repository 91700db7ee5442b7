package jql

import (
	"reflect"
	"testing"
)

func TestExtractIssueKeys(t *testing.T) {
	keys := ExtractIssueKeys("look at msc-123 and ABC-9 please")
	want := []string{"MSC-123", "ABC-9"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("ExtractIssueKeys = %v, want %v", keys, want)
	}
	if got := ExtractIssueKeys("no keys here"); len(got) != 0 {
		t.Fatalf("expected no keys, got %v", got)
	}
}

func TestExtractWorklogTargetsFromText(t *testing.T) {
	users, dr := ExtractWorklogTargets("show worklog hours by John and Jane between 2024-01-01 and 2024-01-31", "")
	if !reflect.DeepEqual(users, []string{"john", "jane"}) {
		t.Fatalf("users = %v", users)
	}
	if dr == nil || dr.Start != "2024-01-01" || dr.End != "2024-01-31" {
		t.Fatalf("date range = %+v", dr)
	}
}

func TestExtractWorklogTargetsTeamSpan(t *testing.T) {
	users, dr := ExtractWorklogTargets("hours for team alpha between 2024-01-01 and 2024-01-31", "")
	if users != nil {
		t.Fatalf("team span must not yield users, got %v", users)
	}
	if dr == nil || dr.Start != "2024-01-01" {
		t.Fatalf("date range should survive team span, got %+v", dr)
	}
}

func TestExtractWorklogTargetsJQLWins(t *testing.T) {
	jql := `worklogAuthor = "John Smith" AND worklogDate >= "2024-02-01" AND worklogDate <= "2024-02-29"`
	users, dr := ExtractWorklogTargets("worklog by jane between 2024-01-01 and 2024-01-31", jql)
	if !reflect.DeepEqual(users, []string{"John Smith"}) {
		t.Fatalf("users = %v, want JQL author", users)
	}
	if dr == nil || dr.Start != "2024-02-01" || dr.End != "2024-02-29" {
		t.Fatalf("JQL dates must win, got %+v", dr)
	}
}

func TestExtractWorklogTargetsIncomplete(t *testing.T) {
	users, dr := ExtractWorklogTargets("worklog hours by john", "")
	if users != nil || dr != nil {
		t.Fatalf("names without dates must yield nothing, got %v %+v", users, dr)
	}
}

func TestExtractStoryPointTargets(t *testing.T) {
	got := ExtractStoryPointTargets("story points of alice and bob for the sprint 24.1", "")
	if !reflect.DeepEqual(got, []string{"alice", "bob"}) {
		t.Fatalf("text targets = %v", got)
	}

	got = ExtractStoryPointTargets("show story points", `assignee in ("Alice", "Bob")`)
	if !reflect.DeepEqual(got, []string{"Alice", "Bob"}) {
		t.Fatalf("jql targets = %v", got)
	}

	got = ExtractStoryPointTargets("show story points", `assignee = "Carol"`)
	if !reflect.DeepEqual(got, []string{"Carol"}) {
		t.Fatalf("jql single target = %v", got)
	}
}

func TestExtractSprint(t *testing.T) {
	if got := ExtractSprint("story points for sprint 24.3", ""); got != "24.3" {
		t.Fatalf("sprint from text = %q", got)
	}
	if got := ExtractSprint("show issues", `Sprint = "Alpha 1" AND status = Open`); got != "Alpha 1" {
		t.Fatalf("sprint from jql = %q", got)
	}
	if got := ExtractSprint("show issues", "status = Open"); got != "" {
		t.Fatalf("expected no sprint, got %q", got)
	}
}

func TestExtractDateRange(t *testing.T) {
	dr := ExtractDateRange("issues from 2024-02-01 to 2024-02-29")
	if dr == nil || dr.Start != "2024-02-01" || dr.End != "2024-02-29" {
		t.Fatalf("date range = %+v", dr)
	}
	if got := ExtractDateRange("issues from last week"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestExtractTeamIDs(t *testing.T) {
	got := ExtractTeamIDs(
		"hours for team 1a2b3c4d-1111-2222-3333-444455556666",
		`Team[Team] = "team-one"`,
	)
	want := []string{"team-one", "1a2b3c4d-1111-2222-3333-444455556666"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("team ids = %v, want %v", got, want)
	}

	got = ExtractTeamIDs("", `Team[Team] IN ("a", "b")`)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("team in list = %v", got)
	}
}

func TestSplitNames(t *testing.T) {
	got := splitNames("alice, bob and carol")
	if !reflect.DeepEqual(got, []string{"alice", "bob", "carol"}) {
		t.Fatalf("splitNames = %v", got)
	}
}
