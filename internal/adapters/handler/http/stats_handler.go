package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/dominos-engine/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	stats := r.Group("/stats")
	{
		stats.GET("/daily", h.Daily)
		stats.GET("/weekly", h.Weekly)
		stats.GET("/week", h.Week)
		stats.GET("/lifetime", h.Lifetime)
		stats.GET("/dashboard", h.Dashboard)
	}
}

// Daily takes an optional ?date=YYYY-MM-DD, defaulting to today in the user's timezone.
func (h *StatsHandler) Daily(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	stats, err := h.svc.Daily(c.Request.Context(), userID, c.Query("date"))
	respond(c, http.StatusOK, stats, err)
}

func (h *StatsHandler) Weekly(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	stats, err := h.svc.Weekly(c.Request.Context(), userID, c.Query("date"))
	respond(c, http.StatusOK, stats, err)
}

// Week accepts ?start= as a week key (2026-W42) or any date inside the week.
func (h *StatsHandler) Week(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	view, err := h.svc.Week(c.Request.Context(), userID, c.Query("start"))
	respond(c, http.StatusOK, view, err)
}

func (h *StatsHandler) Lifetime(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.svc.Lifetime(c.Request.Context(), userID))
}

func (h *StatsHandler) Dashboard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.svc.Dashboard(c.Request.Context(), userID))
}
