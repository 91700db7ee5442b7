/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/adapters/jira"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/adapters/llm"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/config"
	ihttp "github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/http"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/jobs"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/jql"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/logger"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/services"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg)

	// Adapters
	jc := jira.NewClient(cfg, log)
	lc := llm.NewClient(cfg, log)

	// Translation pipeline
	tracker := jql.NewTokenTracker()
	gen := jql.NewGenerator(log, lc, tracker, cfg.CacheExpiry)
	// start from a clean model handle so a stale binding from a previous
	// deploy never serves the first request
	gen.Invalidate()

	svc := services.New(cfg, log, jc, gen, lc, tracker)

	router := ihttp.NewRouter(cfg, log, svc)

	cron := jobs.NewCron(cfg, log, svc)
	cron.Start()
	defer cron.Stop()

	log.Info().Str("addr", cfg.HTTPAddr).Str("model", cfg.LLMModel).Bool("llm", lc.Configured()).Msg("starting JIRA AI Assistant API")

	errCh := make(chan error, 1)
	go func() { errCh <- router.Run(cfg.HTTPAddr) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info().Msg("shutting down...")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	time.Sleep(500 * time.Millisecond)
}
