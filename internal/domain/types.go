package domain

import (
	"strconv"
	"strings"
	"time"
)

// DateRange bounds worklog filtering. Both ends inclusive, YYYY-MM-DD.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ExtractedEntities is what the extractor pulls out of a free-text query
// and/or a generated JQL string. Built fresh per request.
type ExtractedEntities struct {
	UserNames  []string   `json:"userNames"`
	TeamIDs    []string   `json:"teamIds"`
	DateRange  *DateRange `json:"dateRange"`
	SprintName string     `json:"sprintName"`
	IssueKeys  []string   `json:"issueKeys"`
}

type WorklogSummary struct {
	User       string  `json:"user"`
	TotalHours float64 `json:"totalHours"`
	Entries    int     `json:"entries"`
}

type IssueRef struct {
	Key         string  `json:"key"`
	Summary     string  `json:"summary"`
	StoryPoints float64 `json:"storyPoints"`
	Status      string  `json:"status"`
}

type StoryPointsSummary struct {
	Assignee              string     `json:"assignee"`
	TotalStoryPoints      float64    `json:"totalStoryPoints"`
	CompletedStoryPoints  float64    `json:"completedStoryPoints"`
	InProgressStoryPoints float64    `json:"inProgressStoryPoints"`
	TodoStoryPoints       float64    `json:"todoStoryPoints"`
	IssueCount            int        `json:"issueCount"`
	Issues                []IssueRef `json:"issues"`
}

type TokenStats struct {
	TotalQueries      int64     `json:"totalQueries"`
	TotalInputTokens  int64     `json:"totalInputTokens"`
	TotalOutputTokens int64     `json:"totalOutputTokens"`
	TotalTokens       int64     `json:"totalTokens"`
	SessionStart      time.Time `json:"sessionStart"`
	LastQuery         time.Time `json:"lastQuery"`
}

// FieldBag holds the open-ended field set of a Jira issue. Custom field
// numbering is tenant-specific, so the reducers probe it instead of binding
// to a fixed struct.
type FieldBag map[string]any

// Number returns the field as a float64. Numeric strings count: Jira
// occasionally serializes estimate fields that way.
func (f FieldBag) Number(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Text returns the field as a string, or "" when absent or non-string.
func (f FieldBag) Text(key string) string {
	s, _ := f[key].(string)
	return s
}

// Object returns a nested field object (status, assignee, worklog, ...).
// Always non-nil so lookups chain.
func (f FieldBag) Object(key string) FieldBag {
	if m, ok := f[key].(map[string]any); ok {
		return FieldBag(m)
	}
	return FieldBag{}
}

// List returns an array-valued field.
func (f FieldBag) List(key string) []any {
	l, _ := f[key].([]any)
	return l
}

type Issue struct {
	ID     string   `json:"id"`
	Key    string   `json:"key"`
	Fields FieldBag `json:"fields"`
}

type SearchResult struct {
	Issues     []Issue `json:"issues"`
	Total      int     `json:"total"`
	MaxResults int     `json:"maxResults"`
	StartAt    int     `json:"startAt"`
}
