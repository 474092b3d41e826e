package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dsa-tracker/backend/internal/domain"
	"github.com/dsa-tracker/backend/internal/infrastructure"
	"github.com/dsa-tracker/backend/internal/middleware"
	"github.com/dsa-tracker/backend/internal/service"
)

// ProgressHandler handles progress-related HTTP requests
type ProgressHandler struct {
	progressService *service.ProgressService
	metrics         *infrastructure.TelemetryMetrics
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService *service.ProgressService, metrics *infrastructure.TelemetryMetrics) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		metrics:         metrics,
	}
}

// GetProgress returns the caller's progress rows joined with problem and topic
// GET /progress
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	progress, err := h.progressService.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch progress",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"progress": progress,
	})
}

// GetSummary returns the caller's aggregate completion statistics
// GET /progress/summary
func (h *ProgressHandler) GetSummary(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	summary, err := h.progressService.Summarize(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch progress summary",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
	})
}

// ToggleProgress flips the caller's completion state for a problem
// POST /progress/toggle/:problemId
func (h *ProgressHandler) ToggleProgress(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	problemID, err := uuid.Parse(c.Param("problemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid problem ID",
		})
		return
	}

	progress, err := h.progressService.Toggle(c.Request.Context(), userID, problemID)
	if err != nil {
		switch err {
		case domain.ErrProblemNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Problem not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to toggle progress",
			})
		}
		return
	}

	h.metrics.RecordToggle(c.Request.Context(), progress.Completed)

	c.JSON(http.StatusOK, gin.H{
		"progress": progress,
	})
}

// MarkCompleted forces the caller's completion state for a problem to true
// POST /progress/:problemId
func (h *ProgressHandler) MarkCompleted(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	problemID, err := uuid.Parse(c.Param("problemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid problem ID",
		})
		return
	}

	progress, err := h.progressService.MarkCompleted(c.Request.Context(), userID, problemID)
	if err != nil {
		switch err {
		case domain.ErrProblemNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Problem not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to mark progress",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"progress": progress,
	})
}

// ResetProgress deletes all of the caller's progress rows
// DELETE /progress
func (h *ProgressHandler) ResetProgress(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	if err := h.progressService.ResetAll(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to reset progress",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Progress reset successfully",
	})
}
