package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dsa-tracker/backend/internal/domain"
	"github.com/dsa-tracker/backend/internal/middleware"
	"github.com/dsa-tracker/backend/internal/service"
)

// TopicHandler handles topic-related HTTP requests
type TopicHandler struct {
	topicService *service.TopicService
}

// NewTopicHandler creates a new topic handler
func NewTopicHandler(topicService *service.TopicService) *TopicHandler {
	return &TopicHandler{
		topicService: topicService,
	}
}

// GetTopics returns all topics with their problems, progress-annotated for
// authenticated callers
// GET /topics
func (h *TopicHandler) GetTopics(c *gin.Context) {
	userID := middleware.UserIDPtr(c)

	topics, err := h.topicService.ListWithProgress(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch topics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"topics": topics,
	})
}

// GetTopic returns a single topic with its problems
// GET /topics/:id
func (h *TopicHandler) GetTopic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid topic ID",
		})
		return
	}

	topic, err := h.topicService.GetWithProgress(c.Request.Context(), id, middleware.UserIDPtr(c))
	if err != nil {
		switch err {
		case domain.ErrTopicNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Topic not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to fetch topic",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"topic": topic,
	})
}

// CreateTopic creates a new topic
// POST /topics
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	var req domain.TopicCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Title is required",
		})
		return
	}

	topic, err := h.topicService.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create topic",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"topic": topic,
	})
}

// UpdateTopic applies a partial update to a topic
// PUT /topics/:id
func (h *TopicHandler) UpdateTopic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid topic ID",
		})
		return
	}

	var req domain.TopicUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	topic, err := h.topicService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch err {
		case domain.ErrTopicNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Topic not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update topic",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"topic": topic,
	})
}

// DeleteTopic deletes a topic and its problems
// DELETE /topics/:id
func (h *TopicHandler) DeleteTopic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid topic ID",
		})
		return
	}

	if err := h.topicService.Delete(c.Request.Context(), id); err != nil {
		switch err {
		case domain.ErrTopicNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Topic not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete topic",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Topic deleted successfully",
	})
}
