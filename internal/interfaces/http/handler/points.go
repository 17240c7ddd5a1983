package handler

import (
	appgamification "github.com/erp/suite/internal/application/gamification"
	"github.com/gin-gonic/gin"
)

// PointsHandler exposes the gamification leaderboard
type PointsHandler struct {
	BaseHandler
	pointsService *appgamification.PointsService
}

// NewPointsHandler creates a new PointsHandler
func NewPointsHandler(pointsService *appgamification.PointsService) *PointsHandler {
	return &PointsHandler{pointsService: pointsService}
}

// LeaderboardQuery bounds the leaderboard size
type LeaderboardQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Leaderboard godoc
// @ID           getLeaderboard
// @Summary      Points leaderboard
// @Description  Users of the tenant ranked by total points
// @Tags         points
// @Produce      json
// @Param        limit query int false "Number of rows (default 10)"
// @Success      200 {object} APIResponse[[]gamification.LeaderboardRow]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /points/leaderboard [get]
func (h *PointsHandler) Leaderboard(c *gin.Context) {
	var q LeaderboardQuery
	if !h.BindQuery(c, &q) {
		return
	}
	rows, err := h.pointsService.Leaderboard(c.Request.Context(), q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Me godoc
// @ID           getMyPoints
// @Summary      My points
// @Description  The caller's total and recent ledger entries
// @Tags         points
// @Produce      json
// @Success      200 {object} APIResponse[appgamification.PointsSummaryDTO]
// @Security     BearerAuth
// @Router       /points/me [get]
func (h *PointsHandler) Me(c *gin.Context) {
	summary, err := h.pointsService.Me(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
