package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/dominos-engine/internal/core/services"
)

type SettingsHandler struct {
	svc *services.SettingsService
}

func NewSettingsHandler(svc *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

type settingRequest struct {
	Value *bool `json:"value" binding:"required"`
}

type setupRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type setupResponse struct {
	Completed bool `json:"completed"`
}

func (h *SettingsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/settings", h.Get)
	r.PUT("/settings/:name", h.Set)
	r.GET("/setup", h.GetSetup)
	r.PUT("/setup", h.SetSetup)
}

func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.svc.Get(c.Request.Context(), userID))
}

func (h *SettingsHandler) Set(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.svc.Set(c.Request.Context(), userID, c.Param("name"), *req.Value)
	respond(c, http.StatusOK, settings, err)
}

func (h *SettingsHandler) GetSetup(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, setupResponse{Completed: h.svc.SetupCompleted(c.Request.Context(), userID)})
}

func (h *SettingsHandler) SetSetup(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req setupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.svc.SetSetupCompleted(c.Request.Context(), userID, *req.Completed)
	respond(c, http.StatusOK, setupResponse{Completed: *req.Completed}, err)
}
