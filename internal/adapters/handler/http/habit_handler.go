package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
	"github.com/comitanigiacomo/dominos-engine/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type completionRequest struct {
	WeekKey string `json:"week_key"`
	Day     string `json:"day"`
	Date    string `json:"date"`
	Value   *bool  `json:"value" binding:"required"`
}

type activityRequest struct {
	Text string `json:"text"`
}

type resetWeekRequest struct {
	WeekKey string `json:"week_key"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.GET("", h.List)
		habits.PUT("", h.Replace)
		habits.DELETE("", h.Clear)
		habits.POST("/reset", h.ResetAll)
		habits.POST("/reset-week", h.ResetWeek)
		habits.PUT("/:id/activities/:day", h.EditActivity)
		habits.PUT("/:id/completion", h.ToggleCompletion)
	}
}

func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.svc.List(c.Request.Context(), userID))
}

func (h *HabitHandler) Replace(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var habits []domain.Habit
	if err := c.ShouldBindJSON(&habits); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.svc.Replace(c.Request.Context(), userID, habits)
	respond(c, http.StatusOK, saved, err)
}

func (h *HabitHandler) Clear(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.svc.ClearAll(c.Request.Context(), userID); err != nil {
		respond(c, http.StatusNoContent, nil, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HabitHandler) ResetAll(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	habits, err := h.svc.ResetAll(c.Request.Context(), userID)
	respond(c, http.StatusOK, habits, err)
}

func (h *HabitHandler) ResetWeek(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req resetWeekRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.WeekKey == "" {
		req.WeekKey = c.Query("week")
	}

	habits, err := h.svc.ResetWeek(c.Request.Context(), userID, req.WeekKey)
	respond(c, http.StatusOK, habits, err)
}

func (h *HabitHandler) EditActivity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habits, err := h.svc.EditActivity(c.Request.Context(), services.EditActivityInput{
		UserID:  userID,
		HabitID: c.Param("id"),
		Day:     domain.Day(c.Param("day")),
		Text:    req.Text,
	})
	respond(c, http.StatusOK, habits, err)
}

func (h *HabitHandler) ToggleCompletion(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habits, err := h.svc.ToggleCompletion(c.Request.Context(), services.ToggleInput{
		UserID:  userID,
		HabitID: c.Param("id"),
		WeekKey: req.WeekKey,
		Day:     domain.Day(req.Day),
		Date:    req.Date,
		Value:   *req.Value,
	})
	respond(c, http.StatusOK, habits, err)
}
