package jql

import (
	"sync"
	"time"

	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/domain"
)

// TokenTracker keeps process-wide usage counters for LLM calls. Guarded by a
// mutex: requests run concurrently and increments must not be lost.
type TokenTracker struct {
	mu    sync.Mutex
	stats domain.TokenStats
}

func NewTokenTracker() *TokenTracker {
	now := time.Now().UTC()
	return &TokenTracker{stats: domain.TokenStats{SessionStart: now, LastQuery: now}}
}

func (t *TokenTracker) Track(inputTokens, outputTokens int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.TotalQueries++
	t.stats.TotalInputTokens += inputTokens
	t.stats.TotalOutputTokens += outputTokens
	t.stats.TotalTokens += inputTokens + outputTokens
	t.stats.LastQuery = time.Now().UTC()
}

// Stats returns a snapshot copy.
func (t *TokenTracker) Stats() domain.TokenStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

func (t *TokenTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now().UTC()
	t.stats = domain.TokenStats{SessionStart: now, LastQuery: now}
}

// EstimateTokens approximates the token count of text at 4 characters per
// token, used when the provider does not report exact usage.
func EstimateTokens(text string) int64 {
	return int64((len(text) + 3) / 4)
}
