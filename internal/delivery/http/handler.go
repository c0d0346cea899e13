// Package http exposes the wellness core over a gin REST API.
package http

import (
	"errors"
	"net/http"

	"wellness-server/internal/delivery/http/middleware"
	"wellness-server/internal/models"
	"wellness-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type createHabitRequest struct {
	Pillar    models.Pillar    `json:"pillar" binding:"required"`
	Name      string           `json:"name" binding:"required"`
	Frequency models.Frequency `json:"frequency"`
}

type completeHabitRequest struct {
	HabitID uuid.UUID `json:"habitId" binding:"required"`
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type apiError struct {
	Error string `json:"error"`
}

// Handler wires the service layer to the REST routes.
type Handler struct {
	habits      service.HabitService
	completions service.CompletionService
	insights    service.InsightsService
	streaks     service.StreakService
	coach       service.CoachService
	jwtSecret   string
	logger      *zap.Logger
}

func NewHandler(
	habits service.HabitService,
	completions service.CompletionService,
	insights service.InsightsService,
	streaks service.StreakService,
	coach service.CoachService,
	jwtSecret string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		habits:      habits,
		completions: completions,
		insights:    insights,
		streaks:     streaks,
		coach:       coach,
		jwtSecret:   jwtSecret,
		logger:      logger.Named("HTTPHandler"),
	}
}

// RegisterRoutes mounts the API on the router. Everything under /api requires
// a bearer token.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", middleware.Auth(h.jwtSecret, h.logger))
	{
		api.POST("/habits", h.createHabit)
		api.GET("/habits", h.listHabits)
		api.DELETE("/habits/:id", h.removeHabit)
		api.POST("/habits/complete", h.completeHabit)

		api.GET("/insights", h.getInsights)
		api.POST("/streak/recalculate", h.recalculateStreak)
		api.POST("/chat", h.chat)
	}
}

func (h *Handler) createHabit(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiError{Error: "unauthorized"})
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Error: "pillar and name are required"})
		return
	}

	habit, err := h.habits.Create(c.Request.Context(), userID, req.Pillar, req.Name, req.Frequency)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, habit)
}

func (h *Handler) listHabits(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiError{Error: "unauthorized"})
		return
	}

	includeArchived := c.Query("includeArchived") == "true"
	habits, err := h.habits.List(c.Request.Context(), userID, includeArchived)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

func (h *Handler) removeHabit(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiError{Error: "unauthorized"})
		return
	}

	habitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apiError{Error: "invalid habit id"})
		return
	}

	if err := h.habits.Remove(c.Request.Context(), userID, habitID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) completeHabit(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiError{Error: "unauthorized"})
		return
	}

	var req completeHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Error: "habitId is required"})
		return
	}

	summary, err := h.completions.CompleteHabit(c.Request.Context(), userID, req.HabitID)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyCompleted) {
			c.JSON(http.StatusConflict, gin.H{
				"alreadyCompleted": true,
				"error":            models.ErrAlreadyCompleted.Error(),
			})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) getInsights(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiError{Error: "unauthorized"})
		return
	}
	ctx := c.Request.Context()

	switch c.DefaultQuery("type", "full") {
	case "full":
		insights, err := h.insights.FullInsights(ctx, userID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, insights)
	case "correlations":
		correlations, err := h.insights.Correlations(ctx, c.DefaultQuery("featured", "true") == "true")
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"correlations": correlations})
	case "stacks":
		stacks, err := h.insights.HabitStacks(ctx, 0)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"stacks": stacks})
	case "multipliers":
		multipliers, err := h.insights.Multipliers(ctx, userID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"multipliers": multipliers})
	default:
		c.JSON(http.StatusBadRequest, apiError{Error: "unknown insights type"})
	}
}

func (h *Handler) recalculateStreak(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiError{Error: "unauthorized"})
		return
	}

	result, err := h.streaks.Recalculate(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) chat(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiError{Error: "unauthorized"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Error: "message is required"})
		return
	}

	reply, err := h.coach.Chat(c.Request.Context(), userID, req.Message)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chatResponse{Reply: reply})
}

// respondError maps domain errors to HTTP statuses. Anything unmapped is a
// server fault and gets logged.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrHabitNotFound), errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, apiError{Error: err.Error()})
	case errors.Is(err, models.ErrAlreadyCompleted), errors.Is(err, models.ErrHabitArchived):
		c.JSON(http.StatusConflict, apiError{Error: err.Error()})
	case errors.Is(err, models.ErrInvalidPillar),
		errors.Is(err, models.ErrInvalidHabitName),
		errors.Is(err, models.ErrEmptyMessages):
		c.JSON(http.StatusBadRequest, apiError{Error: err.Error()})
	case errors.Is(err, models.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error(), "remaining": 0})
	case errors.Is(err, models.ErrCoachUnavailable):
		c.JSON(http.StatusServiceUnavailable, apiError{Error: err.Error()})
	default:
		h.logger.Error("Unhandled error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, apiError{Error: "internal server error"})
	}
}
