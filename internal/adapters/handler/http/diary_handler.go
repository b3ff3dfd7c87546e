package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
	"github.com/comitanigiacomo/dominos-engine/internal/core/services"
)

type DiaryHandler struct {
	svc *services.DiaryService
}

func NewDiaryHandler(svc *services.DiaryService) *DiaryHandler {
	return &DiaryHandler{svc: svc}
}

type journalRequest struct {
	Entry string `json:"entry"`
}

type moodRequest struct {
	Value *int `json:"value" binding:"required"`
}

type moodWeekResponse struct {
	Days    []domain.MoodDay   `json:"days"`
	Trend   []domain.MoodPoint `json:"trend"`
	HasData bool               `json:"has_data"`
}

func (h *DiaryHandler) RegisterRoutes(r *gin.RouterGroup) {
	journal := r.Group("/journal")
	{
		journal.GET("", h.ListJournal)
		journal.GET("/:date", h.GetJournal)
		journal.PUT("/:date", h.SaveJournal)
	}

	moods := r.Group("/moods")
	{
		moods.GET("/week", h.WeekMoods)
		moods.GET("/:date", h.GetMood)
		moods.PUT("/:date/:period", h.SaveMood)
	}
}

// dateParam maps the "today" alias to the empty date the services resolve in the
// user's timezone.
func dateParam(c *gin.Context) string {
	date := c.Param("date")
	if date == "today" {
		return ""
	}
	return date
}

func (h *DiaryHandler) ListJournal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.svc.ListJournal(c.Request.Context(), userID))
}

func (h *DiaryHandler) GetJournal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	entry, err := h.svc.GetJournal(c.Request.Context(), userID, dateParam(c))
	respond(c, http.StatusOK, entry, err)
}

func (h *DiaryHandler) SaveJournal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req journalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.svc.SaveJournal(c.Request.Context(), userID, dateParam(c), req.Entry)
	respond(c, http.StatusOK, entry, err)
}

func (h *DiaryHandler) GetMood(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	day, err := h.svc.GetMood(c.Request.Context(), userID, dateParam(c))
	respond(c, http.StatusOK, day, err)
}

func (h *DiaryHandler) SaveMood(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req moodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	date := dateParam(c)
	if err := h.svc.SaveMood(ctx, userID, date, domain.MoodPeriod(c.Param("period")), *req.Value); err != nil {
		respond(c, http.StatusOK, nil, err)
		return
	}

	day, err := h.svc.GetMood(ctx, userID, date)
	respond(c, http.StatusOK, day, err)
}

// WeekMoods returns seven days from ?start= (default: this week's Monday) with the
// trend line derived from them.
func (h *DiaryHandler) WeekMoods(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	start := c.Query("start")

	days, err := h.svc.WeekMoods(ctx, userID, start)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, moodWeekResponse{
		Days:    days,
		Trend:   domain.MoodTrend(days),
		HasData: domain.HasMoodData(days),
	})
}
