package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dsa-tracker/backend/internal/domain"
	"github.com/dsa-tracker/backend/internal/middleware"
	"github.com/dsa-tracker/backend/internal/service"
)

// ProblemHandler handles problem-related HTTP requests
type ProblemHandler struct {
	problemService *service.ProblemService
}

// NewProblemHandler creates a new problem handler
func NewProblemHandler(problemService *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{
		problemService: problemService,
	}
}

// GetProblems returns problems filtered by optional topicId and difficulty,
// progress-annotated for authenticated callers
// GET /problems?topicId=&difficulty=
func (h *ProblemHandler) GetProblems(c *gin.Context) {
	var filter domain.ProblemFilter

	if topicIDStr := c.Query("topicId"); topicIDStr != "" {
		topicID, err := uuid.Parse(topicIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid topicId filter",
			})
			return
		}
		filter.TopicID = &topicID
	}

	if difficultyStr := c.Query("difficulty"); difficultyStr != "" {
		difficulty, err := domain.ParseDifficulty(difficultyStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid difficulty filter",
			})
			return
		}
		filter.Difficulty = &difficulty
	}

	problems, err := h.problemService.ListWithProgress(c.Request.Context(), filter, middleware.UserIDPtr(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch problems",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"problems": problems,
	})
}

// GetProblem returns a single problem
// GET /problems/:id
func (h *ProblemHandler) GetProblem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid problem ID",
		})
		return
	}

	problem, err := h.problemService.GetWithProgress(c.Request.Context(), id, middleware.UserIDPtr(c))
	if err != nil {
		switch err {
		case domain.ErrProblemNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Problem not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to fetch problem",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"problem": problem,
	})
}

// CreateProblem creates a new problem under an existing topic
// POST /problems
func (h *ProblemHandler) CreateProblem(c *gin.Context) {
	var req domain.ProblemCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Title and topicId are required",
		})
		return
	}

	problem, err := h.problemService.Create(c.Request.Context(), &req)
	if err != nil {
		switch err {
		case domain.ErrInvalidDifficulty:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid difficulty level",
			})
		case domain.ErrTopicNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Topic not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create problem",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"problem": problem,
	})
}

// UpdateProblem applies a partial update to a problem
// PUT /problems/:id
func (h *ProblemHandler) UpdateProblem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid problem ID",
		})
		return
	}

	var req domain.ProblemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	problem, err := h.problemService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch err {
		case domain.ErrProblemNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Problem not found",
			})
		case domain.ErrTopicNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Topic not found",
			})
		case domain.ErrInvalidDifficulty:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid difficulty level",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update problem",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"problem": problem,
	})
}

// DeleteProblem deletes a problem
// DELETE /problems/:id
func (h *ProblemHandler) DeleteProblem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid problem ID",
		})
		return
	}

	if err := h.problemService.Delete(c.Request.Context(), id); err != nil {
		switch err {
		case domain.ErrProblemNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Problem not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete problem",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Problem deleted successfully",
	})
}
