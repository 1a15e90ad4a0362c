package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/architect/mathquest/internal/common/errors"
	"github.com/architect/mathquest/internal/common/middleware"
	"github.com/architect/mathquest/internal/models"
	"github.com/architect/mathquest/internal/services"
)

// ProgressHandler exposes submissions, the dashboard and the progress views
type ProgressHandler struct {
	progress *services.ProgressService
}

func NewProgressHandler(progress *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// SubmitProgress records a quiz or lesson completion event
func (h *ProgressHandler) SubmitProgress(c *gin.Context) {
	var req models.SubmitProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid request body", err.Error()))
		return
	}

	resp, err := h.progress.SubmitProgress(c.Request.Context(), req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(201, resp)
}

// GetDashboard returns the dashboard stats for a user
func (h *ProgressHandler) GetDashboard(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	dashboard, err := h.progress.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, dashboard)
}

// GetOverview returns per-topic progress and recent activity
func (h *ProgressHandler) GetOverview(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	overview, err := h.progress.GetOverview(c.Request.Context(), userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, overview)
}

// ListAchievements returns the achievement catalog
func (h *ProgressHandler) ListAchievements(c *gin.Context) {
	catalog, err := h.progress.ListAchievements(c.Request.Context())
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, gin.H{
		"achievements": catalog,
		"total":        len(catalog),
	})
}

// ListUserAchievements returns a user's unlocks with detail
func (h *ProgressHandler) ListUserAchievements(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	unlocks, err := h.progress.ListUserAchievements(c.Request.Context(), userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, gin.H{
		"achievements": unlocks,
		"total":        len(unlocks),
	})
}
