/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/config"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/domain"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/jql"
)

var ErrEmptyQuery = errors.New("query must be a non-empty string")

type JiraClient interface {
	Search(ctx context.Context, jqlStr string, maxResults int, fields string) (*domain.SearchResult, error)
	Myself(ctx context.Context) error
}

type Translator interface {
	Translate(ctx context.Context, userQuery string) string
	Invalidate()
}

type Service struct {
	cfg     config.Config
	log     zerolog.Logger
	jira    JiraClient
	gen     Translator
	llm     insightsLLM
	tracker *jql.TokenTracker
}

func New(cfg config.Config, log zerolog.Logger, jira JiraClient, gen Translator, llm insightsLLM, tracker *jql.TokenTracker) *Service {
	return &Service{cfg: cfg, log: log, jira: jira, gen: gen, llm: llm, tracker: tracker}
}

type QueryMetadata struct {
	ProcessingTimeMs   int64  `json:"processingTimeMs"`
	Timestamp          string `json:"timestamp"`
	Query              string `json:"query"`
	IsWorklogQuery     bool   `json:"isWorklogQuery"`
	IsStoryPointsQuery bool   `json:"isStoryPointsQuery"`
	StartDate          string `json:"startDate,omitempty"`
	EndDate            string `json:"endDate,omitempty"`
}

type QueryResult struct {
	JQL                string                      `json:"jql"`
	JQLExplanation     string                      `json:"jqlExplanation,omitempty"`
	Issues             []domain.Issue              `json:"issues"`
	Total              int                         `json:"total"`
	MaxResults         int                         `json:"maxResults"`
	StartAt            int                         `json:"startAt"`
	Analysis           string                      `json:"analysis,omitempty"`
	WorklogSummary     []domain.WorklogSummary     `json:"worklogSummary,omitempty"`
	StoryPointsSummary []domain.StoryPointsSummary `json:"storyPointsSummary,omitempty"`
	Entities           domain.ExtractedEntities    `json:"entities"`
	Metadata           QueryMetadata               `json:"metadata"`
}

// HandleQuery is the request flow behind POST /query: translate the free
// text, classify it, run the matching aggregation, fetch issues, assemble.
func (s *Service) HandleQuery(ctx context.Context, query string, includeAnalysis bool) (*QueryResult, error) {
	started := time.Now()
	q := strings.TrimSpace(query)
	if q == "" { return nil, ErrEmptyQuery }

	jqlStr := s.gen.Translate(ctx, q)
	s.log.Info().Str("query", q).Str("jql", jqlStr).Msg("query translated")

	lower := strings.ToLower(q)
	isWorklog := strings.Contains(lower, "worklog") || strings.Contains(lower, "hours") || strings.Contains(lower, "time spent")
	isStoryPoints := strings.Contains(lower, "story point") ||
		strings.Contains(strings.ToLower(jqlStr), `"story points" is not empty`)

	res := &QueryResult{JQL: jqlStr, Entities: jql.Extract(q, jqlStr)}

	var dateRange *domain.DateRange
	if isWorklog {
		users, dr := jql.ExtractWorklogTargets(q, jqlStr)
		dateRange = dr
		// run the reducer unless we have users but no bounds; that shape
		// means extraction only half-succeeded
		if len(users) == 0 || dr != nil {
			ws, err := s.WorklogHours(ctx, jqlStr, users, dr)
			if err != nil {
				s.log.Error().Err(err).Msg("worklog aggregation failed, returning zero summaries")
				ws = zeroWorklogSummaries(users)
			}
			res.WorklogSummary = ws
		} else {
			s.log.Warn().Str("query", q).Str("jql", jqlStr).Msg("could not extract worklog users and dates")
		}
	}

	if isStoryPoints {
		assignees := jql.ExtractStoryPointTargets(q, jqlStr)
		sprint := jql.ExtractSprint(q, jqlStr)
		if len(assignees) > 0 || sprint != "" {
			sp, err := s.StoryPoints(ctx, jqlStr, assignees, sprint)
			if err != nil {
				s.log.Error().Err(err).Msg("story point aggregation failed, returning zero summaries")
				sp = zeroStoryPointSummaries(assignees)
			}
			res.StoryPointsSummary = sp
		} else {
			s.log.Warn().Str("query", q).Str("jql", jqlStr).Msg("could not extract story point assignees")
		}
	}

	maxResults := s.cfg.MaxResultsGeneral
	if isWorklog || isStoryPoints { maxResults = s.cfg.MaxResultsAggregation }
	fetched, err := s.jira.Search(ctx, jqlStr, maxResults, s.searchFields())
	if err != nil { return nil, err }
	res.Issues = fetched.Issues
	res.Total = fetched.Total
	res.MaxResults = fetched.MaxResults
	res.StartAt = fetched.StartAt

	if includeAnalysis && len(fetched.Issues) > 0 {
		res.Analysis = s.AnalyzeIssues(ctx, fetched.Issues, q)
		res.JQLExplanation = s.ExplainJQL(ctx, jqlStr, q)
		if len(res.StoryPointsSummary) > 0 {
			res.Analysis = s.AnalyzeStoryPoints(ctx, res.StoryPointsSummary, q)
		}
	}

	res.Metadata = QueryMetadata{
		ProcessingTimeMs:   time.Since(started).Milliseconds(),
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
		Query:              q,
		IsWorklogQuery:     isWorklog,
		IsStoryPointsQuery: isStoryPoints,
	}
	if dateRange != nil {
		res.Metadata.StartDate = dateRange.Start
		res.Metadata.EndDate = dateRange.End
	}
	return res, nil
}

// searchFields is the selection for general fetches: the stable fields plus
// every configured story point candidate, so the UI can render points without
// a second round trip.
func (s *Service) searchFields() string {
	base := "summary,description,status,priority,assignee,reporter,created,updated,issuetype,project,sprint,worklog"
	if len(s.cfg.StoryPointFields) > 0 {
		base += "," + strings.Join(s.cfg.StoryPointFields, ",")
	}
	return base
}

func zeroWorklogSummaries(users []string) []domain.WorklogSummary {
	out := make([]domain.WorklogSummary, 0, len(users))
	for _, u := range users {
		out = append(out, domain.WorklogSummary{User: u})
	}
	return out
}

func zeroStoryPointSummaries(assignees []string) []domain.StoryPointsSummary {
	out := make([]domain.StoryPointsSummary, 0, len(assignees))
	for _, a := range assignees {
		out = append(out, domain.StoryPointsSummary{Assignee: a, Issues: []domain.IssueRef{}})
	}
	return out
}

type HealthConnections struct {
	Jira string `json:"jira"`
	AI   string `json:"ai"`
}

type HealthStatus struct {
	Status      string            `json:"status"`
	Timestamp   string            `json:"timestamp"`
	Service     string            `json:"service"`
	Connections HealthConnections `json:"connections"`
}

// Health probes Jira with the lightweight myself endpoint and reports
// whether the LLM has credentials. Failures degrade the report, never error.
func (s *Service) Health(ctx context.Context) HealthStatus {
	h := HealthStatus{
		Status:      "OK",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Service:     "JIRA AI Assistant API",
		Connections: HealthConnections{Jira: "disconnected", AI: "disconnected"},
	}
	if err := s.jira.Myself(ctx); err == nil {
		h.Connections.Jira = "connected"
	}
	if s.llm.Configured() {
		h.Connections.AI = "connected"
	}
	return h
}

func (s *Service) TokenStats() domain.TokenStats { return s.tracker.Stats() }

func (s *Service) InvalidateCache() { s.gen.Invalidate() }
