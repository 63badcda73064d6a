package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ninelive/colorclash-backend/internal/models"
	"github.com/ninelive/colorclash-backend/internal/services"
)

// SettingsHandler handles settings HTTP requests
type SettingsHandler struct {
	settingsService services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetGameSettings handles GET /admin/settings/game
func (h *SettingsHandler) GetGameSettings(c *gin.Context) {
	settings, err := h.settingsService.GetGameSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game settings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateGameSettings handles PUT /admin/settings/game
func (h *SettingsHandler) UpdateGameSettings(c *gin.Context) {
	var req models.UpdateGameSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	updatedBy := c.GetString("userEmail")
	settings, err := h.settingsService.UpdateGameSettings(c.Request.Context(), &req, updatedBy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// GetPaymentSettings handles GET /game/payment-settings
func (h *SettingsHandler) GetPaymentSettings(c *gin.Context) {
	settings, err := h.settingsService.GetPaymentSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment settings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdatePaymentSettings handles PUT /admin/settings/payment
func (h *SettingsHandler) UpdatePaymentSettings(c *gin.Context) {
	var settings models.PaymentSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	updatedBy := c.GetString("userEmail")
	if err := h.settingsService.UpdatePaymentSettings(c.Request.Context(), &settings, updatedBy); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment settings: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}
