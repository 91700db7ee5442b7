/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jql

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/adapters/llm"
)

// Model is the slice of the LLM adapter the generator needs.
type Model interface {
	Complete(ctx context.Context, system, user string) (string, llm.Usage, error)
	Configured() bool
}

// jqlShapeRe is the minimum structure a generated query must show before we
// trust it: at least one "field operator value" comparison.
var jqlShapeRe = regexp.MustCompile(`\w+\s*(=|~|!=|in|not in|>|<|>=|<=)\s*.+`)

// Generator owns the cached model handle: the system instructions are bound
// once per handle and only the user query travels per call. The handle
// expires after cacheExpiry and is rebuilt lazily on the next call. Handle
// state and timestamp are mutex-guarded; concurrent requests share them.
type Generator struct {
	log     zerolog.Logger
	model   Model
	tracker *TokenTracker
	expiry  time.Duration

	mu      sync.Mutex
	bound   bool
	boundAt time.Time
}

func NewGenerator(log zerolog.Logger, model Model, tracker *TokenTracker, expiry time.Duration) *Generator {
	if expiry <= 0 { expiry = time.Hour }
	return &Generator{log: log, model: model, tracker: tracker, expiry: expiry}
}

// Translate converts free text to a validated JQL string. It never fails:
// every error path degrades to the rule-based fallback builder.
func (g *Generator) Translate(ctx context.Context, userQuery string) string {
	jql, err := g.generate(ctx, userQuery)
	if err != nil {
		g.log.Warn().Err(err).Str("query", userQuery).Msg("llm jql generation unavailable, using fallback rules")
		return Fallback(userQuery)
	}
	g.log.Info().Str("jql", jql).Msg("llm jql generated")
	return jql
}

// Invalidate drops the cached handle so the next call rebinds the system
// instructions. Called once at startup so a fresh deploy's prompt takes
// effect, and exposed as an operator action.
func (g *Generator) Invalidate() {
	g.mu.Lock()
	g.bound = false
	g.boundAt = time.Time{}
	g.mu.Unlock()
	g.log.Info().Msg("model cache invalidated, next query binds fresh instructions")
}

func (g *Generator) generate(ctx context.Context, userQuery string) (string, error) {
	if err := g.ensureHandle(); err != nil { return "", err }

	// only the user query travels; the instructions are bound to the handle
	userPrompt := fmt.Sprintf("Query: %q\nJQL:", userQuery)
	raw, usage, err := g.model.Complete(ctx, systemPrompt, userPrompt)
	if err != nil { return "", err }

	in := usage.InputTokens
	if in == 0 { in = EstimateTokens(userPrompt) }
	out := usage.OutputTokens
	if out == 0 { out = EstimateTokens(raw) }
	g.tracker.Track(in, out)

	jql := stripFences(raw)
	if len(jql) < 3 {
		return "", fmt.Errorf("generated jql too short: %q", jql)
	}
	if !jqlShapeRe.MatchString(jql) {
		return "", fmt.Errorf("generated jql does not match expected structure: %q", jql)
	}
	return AddDefaultSprintFilter(jql, userQuery), nil
}

// ensureHandle rebinds the cached handle when absent or past expiry. Missing
// credentials surface here, before any network call.
func (g *Generator) ensureHandle() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	age := time.Since(g.boundAt)
	if g.bound && age < g.expiry {
		g.log.Debug().Dur("age", age).Msg("reusing cached model handle")
		return nil
	}
	if !g.model.Configured() {
		return fmt.Errorf("llm not configured")
	}
	verb := "creating"
	if g.bound { verb = "refreshing" }
	g.log.Info().Str("op", verb).Dur("age", age).Msg("binding model handle")
	g.bound = true
	g.boundAt = time.Now()
	return nil
}

// stripFences removes markdown code-fence artifacts the model sometimes
// wraps its output in.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```jql", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
