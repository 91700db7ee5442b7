package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/config"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/domain"
)

type service interface {
	InvalidateCache()
	TokenStats() domain.TokenStats
}

type Cron struct {
	cfg config.Config
	log zerolog.Logger
	svc service
	c   *cron.Cron
}

// NewCron schedules the optional maintenance jobs: a periodic cache
// invalidation (forces a fresh model handle on the next translation) and a
// usage report logging the token counters. Either is off when its spec is
// empty.
func NewCron(cfg config.Config, log zerolog.Logger, svc service) *Cron {
	loc, _ := time.LoadLocation(cfg.TZ)
	c := cron.New(cron.WithLocation(loc), cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)))
	cr := &Cron{cfg: cfg, log: log, svc: svc, c: c}
	if cfg.CacheRefreshCron != "" {
		if _, err := c.AddFunc(cfg.CacheRefreshCron, cr.refreshCache); err != nil {
			log.Error().Err(err).Str("spec", cfg.CacheRefreshCron).Msg("cron: bad cache refresh spec")
		}
	}
	if cfg.UsageReportCron != "" {
		if _, err := c.AddFunc(cfg.UsageReportCron, cr.usageReport); err != nil {
			log.Error().Err(err).Str("spec", cfg.UsageReportCron).Msg("cron: bad usage report spec")
		}
	}
	return cr
}

func (cr *Cron) Start() { cr.c.Start() }
func (cr *Cron) Stop()  { cr.c.Stop() }

func (cr *Cron) refreshCache() {
	cr.log.Info().Msg("cron: invalidating translation cache")
	cr.svc.InvalidateCache()
}

func (cr *Cron) usageReport() {
	st := cr.svc.TokenStats()
	cr.log.Info().
		Int64("queries", st.TotalQueries).
		Int64("inputTokens", st.TotalInputTokens).
		Int64("outputTokens", st.TotalOutputTokens).
		Int64("totalTokens", st.TotalTokens).
		Time("since", st.SessionStart).
		Msg("cron: token usage report")
}
