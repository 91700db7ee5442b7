/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/config"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/domain"
)

type Client struct {
	baseURL string
	email   string
	token   string
	pat     string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.JiraBaseURL, "/"),
		email:   cfg.JiraEmail,
		token:   cfg.JiraAPIToken,
		pat:     cfg.JiraPAT,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		log:     log,
	}
}

// Search runs a JQL query through the search endpoint. fields is the
// comma-separated field selection ("*all" for everything). No pagination:
// callers pass a single generous cap.
func (c *Client) Search(ctx context.Context, jql string, maxResults int, fields string) (*domain.SearchResult, error) {
	if strings.TrimSpace(jql) == "" { return nil, errors.New("jira: empty jql") }
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("maxResults", fmt.Sprintf("%d", maxResults))
	if fields != "" { q.Set("fields", fields) }
	body, err := c.doJSON(ctx, c.apiURL("/rest/api/3/search/jql", q))
	if err != nil { return nil, err }

	var raw struct {
		Issues []struct {
			ID     string         `json:"id"`
			Key    string         `json:"key"`
			Fields map[string]any `json:"fields"`
		} `json:"issues"`
		Total      int `json:"total"`
		MaxResults int `json:"maxResults"`
		StartAt    int `json:"startAt"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("jira: decode search response: %w", err)
	}
	out := &domain.SearchResult{Total: raw.Total, MaxResults: raw.MaxResults, StartAt: raw.StartAt}
	for _, is := range raw.Issues {
		f := is.Fields
		if f == nil { f = map[string]any{} }
		out.Issues = append(out.Issues, domain.Issue{ID: is.ID, Key: is.Key, Fields: domain.FieldBag(f)})
	}
	if out.Total == 0 { out.Total = len(out.Issues) }
	return out, nil
}

// Myself is a lightweight connectivity probe used by the health endpoint.
func (c *Client) Myself(ctx context.Context) error {
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := c.doJSON(ctx2, c.apiURL("/rest/api/3/myself", nil))
	return err
}

func (c *Client) apiURL(path string, q url.Values) string {
	u := c.baseURL + path
	if len(q) > 0 { u = u + "?" + q.Encode() }
	return u
}

func (c *Client) doJSON(ctx context.Context, u string) ([]byte, error) {
	if c.baseURL == "" { return nil, errors.New("jira: empty baseURL") }
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil { return nil, err }
		req.Header.Set("Accept", "application/json")
		if c.email != "" && c.token != "" {
			req.SetBasicAuth(c.email, c.token)
		} else if c.pat != "" {
			req.Header.Set("Authorization", "Bearer "+c.pat)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
		} else {
			b, rerr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if rerr != nil { return nil, rerr }
			if resp.StatusCode < 300 { return b, nil }
			// retry on 429/5xx
			if resp.StatusCode == 429 || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("jira: status=%d body=%s", resp.StatusCode, truncate(string(b), 200))
			} else {
				return nil, fmt.Errorf("jira: status=%d body=%s", resp.StatusCode, truncate(string(b), 200))
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 500 * time.Millisecond):
		}
	}
	return nil, lastErr
}

func truncate(s string, n int) string {
	if len(s) <= n { return s }
	return s[:n]
}
