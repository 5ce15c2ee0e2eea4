package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slotbook/models"
	"slotbook/services/scheduling"
)

// ScheduleHandler exposes the schedule config and the day grid.
type ScheduleHandler struct {
	Schedule *scheduling.CachedScheduleSource
	Engine   scheduling.BookingEngine
	Logger   *zap.Logger
}

// NewScheduleHandler returns a handler bound to the schedule source.
func NewScheduleHandler(schedule *scheduling.CachedScheduleSource, engine scheduling.BookingEngine, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Schedule: schedule, Engine: engine, Logger: logger}
}

// GetGrid returns the full slot catalog for a day with per-slot availability.
func (h *ScheduleHandler) GetGrid(c *gin.Context) {
	grid, err := h.Engine.GetDayGrid(c.Request.Context(), c.Param("date"))
	if err != nil {
		var verr *scheduling.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		h.Logger.Error("failed to build day grid", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": grid})
}

// GetConfig returns the current schedule config.
func (h *ScheduleHandler) GetConfig(c *gin.Context) {
	cfg, err := h.Schedule.GetConfig(c.Request.Context())
	if err != nil {
		h.Logger.Error("failed to load schedule config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateConfig validates and stores a new schedule config.
func (h *ScheduleHandler) UpdateConfig(c *gin.Context) {
	var cfg models.ScheduleConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := scheduling.ValidateConfig(cfg); err != nil {
		var verr *scheduling.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Schedule.UpdateConfig(c.Request.Context(), cfg); err != nil {
		h.Logger.Error("failed to update schedule config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}
