/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/config"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/domain"
	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/services"
)

type service interface {
	HandleQuery(ctx context.Context, query string, includeAnalysis bool) (*services.QueryResult, error)
	ChatResponse(ctx context.Context, prompt string, contextData []domain.Issue) string
	Health(ctx context.Context) services.HealthStatus
	TokenStats() domain.TokenStats
	InvalidateCache()
}

type Handlers struct {
	cfg config.Config
	log zerolog.Logger
	svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc any) *Handlers {
	return &Handlers{cfg: cfg, log: log, svc: svc.(service)}
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Health(c.Request.Context()))
}

type queryRequest struct {
	Query           string `json:"query"`
	IncludeAnalysis bool   `json:"includeAnalysis"`
}

func (h *Handlers) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	res, err := h.svc.HandleQuery(c.Request.Context(), req.Query, req.IncludeAnalysis)
	if err != nil {
		if errors.Is(err, services.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Str("query", req.Query).Msg("query failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to process query",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, res)
}

type aiQueryRequest struct {
	Query   string         `json:"query"`
	Context []domain.Issue `json:"context"`
}

func (h *Handlers) AIQuery(c *gin.Context) {
	var req aiQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query must be a non-empty string"})
		return
	}
	resp := h.svc.ChatResponse(c.Request.Context(), req.Query, req.Context)
	c.JSON(http.StatusOK, gin.H{"response": resp})
}

func (h *Handlers) TokenStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.TokenStats())
}

func (h *Handlers) InvalidateCache(c *gin.Context) {
	h.svc.InvalidateCache()
	h.log.Info().Str("ip", c.ClientIP()).Msg("translation cache invalidated via admin endpoint")
	c.JSON(http.StatusOK, gin.H{"status": "invalidated"})
}
