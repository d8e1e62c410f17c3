package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pfplabs/croaker/store"
	"github.com/pfplabs/croaker/utils"
)

// StatsController provides posting and engagement statistics.
type StatsController struct {
	store *store.Store
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(st *store.Store) *StatsController {
	return &StatsController{store: st}
}

// GetStats returns aggregate outcome and engagement statistics over a trailing
// window of days (default 30, max 365).
func (s *StatsController) GetStats(ctx *gin.Context) {
	days := 30
	if raw := ctx.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.Error(ctx, http.StatusBadRequest, 40003, "invalid days")
			return
		}
		if parsed > 365 {
			parsed = 365
		}
		days = parsed
	}

	stats, err := s.store.EngagementStats(days)
	if err != nil {
		utils.Sugar.Errorw("failed to aggregate stats", "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to aggregate stats")
		return
	}
	utils.Success(ctx, stats)
}
