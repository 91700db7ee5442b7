package services

import (
	"context"
	"math"
	"strings"

	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/domain"
)

// WorklogHours fetches issues matching jql and reduces their worklog entries
// to per-user hour totals. Empty userNames means "all users". Entries outside
// the date range are dropped; no range means no date filtering. Every
// requested user appears in the result even with zero matches.
func (s *Service) WorklogHours(ctx context.Context, jql string, userNames []string, dr *domain.DateRange) ([]domain.WorklogSummary, error) {
	res, err := s.jira.Search(ctx, jql, s.cfg.MaxResultsAggregation, "worklog,key,summary")
	if err != nil { return nil, err }
	s.log.Info().Int("issues", len(res.Issues)).Str("jql", jql).Msg("worklog: issues fetched")

	summary := map[string]*domain.WorklogSummary{}
	order := make([]string, 0, len(userNames))
	for _, u := range userNames {
		if _, ok := summary[u]; ok { continue }
		summary[u] = &domain.WorklogSummary{User: u}
		order = append(order, u)
	}

	var processed, inRange, matchedCount int
	for _, issue := range res.Issues {
		for _, raw := range issue.Fields.Object("worklog").List("worklogs") {
			entry, ok := raw.(map[string]any)
			if !ok { continue }
			bag := domain.FieldBag(entry)
			processed++

			// string-prefix compare on the ISO date portion, inclusive bounds
			day := bag.Text("started")
			if i := strings.Index(day, "T"); i >= 0 { day = day[:i] }
			if dr != nil && dr.Start != "" && dr.End != "" && (day < dr.Start || day > dr.End) {
				continue
			}
			inRange++

			author := bag.Object("author").Text("displayName")
			if author == "" { continue }

			matched := ""
			if len(userNames) > 0 {
				matched = matchTarget(author, userNames)
			} else {
				matched = author
				if _, ok := summary[author]; !ok {
					summary[author] = &domain.WorklogSummary{User: author}
					order = append(order, author)
				}
			}
			b := summary[matched]
			if b == nil { continue }
			matchedCount++

			hours := 0.0
			if ts := bag.Text("timeSpent"); ts != "" {
				hours = ParseTimeSpent(ts)
			} else if secs, ok := bag.Number("timeSpentSeconds"); ok {
				hours = secs / 3600
			}
			b.TotalHours += hours
			b.Entries++
		}
	}
	s.log.Info().Int("processed", processed).Int("in_range", inRange).Int("matched", matchedCount).Msg("worklog: entries reduced")

	out := make([]domain.WorklogSummary, 0, len(order))
	for _, k := range order {
		b := summary[k]
		b.TotalHours = math.Round(b.TotalHours*100) / 100
		out = append(out, *b)
	}
	return out, nil
}

// matchTarget applies the deliberate fuzzy rule: bidirectional
// case-insensitive substring containment, first match over the target list
// wins. Tolerates "John" vs "John Smith"; short targets can over-match.
func matchTarget(name string, targets []string) string {
	n := strings.ToLower(name)
	for _, t := range targets {
		tl := strings.ToLower(t)
		if strings.Contains(n, tl) || strings.Contains(tl, n) {
			return t
		}
	}
	return ""
}
