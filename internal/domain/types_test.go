package domain

import "testing"

func TestFieldBagNumber(t *testing.T) {
	bag := FieldBag{
		"f":   float64(5),
		"i":   3,
		"i64": int64(7),
		"s":   " 2.5 ",
		"bad": "points",
		"obj": map[string]any{},
	}
	cases := []struct {
		key  string
		want float64
		ok   bool
	}{
		{"f", 5, true},
		{"i", 3, true},
		{"i64", 7, true},
		{"s", 2.5, true},
		{"bad", 0, false},
		{"obj", 0, false},
		{"missing", 0, false},
	}
	for _, c := range cases {
		got, ok := bag.Number(c.key)
		if got != c.want || ok != c.ok {
			t.Fatalf("Number(%q) = %v, %v, want %v, %v", c.key, got, ok, c.want, c.ok)
		}
	}
}

func TestFieldBagChaining(t *testing.T) {
	bag := FieldBag{
		"status": map[string]any{"name": "Open"},
		"worklog": map[string]any{
			"worklogs": []any{map[string]any{"timeSpent": "2h"}},
		},
	}
	if got := bag.Object("status").Text("name"); got != "Open" {
		t.Fatalf("status name = %q", got)
	}
	if got := len(bag.Object("worklog").List("worklogs")); got != 1 {
		t.Fatalf("worklogs = %d", got)
	}
	// absent objects chain safely
	if got := bag.Object("assignee").Text("displayName"); got != "" {
		t.Fatalf("missing chain = %q", got)
	}
	if got := bag.Object("assignee").Object("avatar").Text("url"); got != "" {
		t.Fatalf("deep missing chain = %q", got)
	}
}
