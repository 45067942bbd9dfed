package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/services"
)

// SettingHandler handles per-user settings requests.
type SettingHandler struct {
	settingService services.SettingServicer
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settingService services.SettingServicer) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// UpdateSettingsRequest represents the settings update payload. A null
// payday_date clears the setting.
type UpdateSettingsRequest struct {
	PaydayDate *string `json:"payday_date" binding:"omitempty,calendar_date"`
}

// GetSettings returns the user's settings
// @Summary     Get settings
// @Description Get the user's settings, including the payday date
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [get]
func (h *SettingHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	paydayDate, err := h.settingService.GetPaydayDate(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var payday *string
	if paydayDate != "" {
		payday = &paydayDate
	}

	c.JSON(http.StatusOK, gin.H{"settings": gin.H{"payday_date": payday}})
}

// UpdateSettings updates the user's settings
// @Summary     Update settings
// @Description Set or clear the payday date used for projection exclusion
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSettingsRequest true "Settings"
// @Success     200 {object} map[string]interface{} "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [put]
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.settingService.SetPaydayDate(userID, req.PaydayDate); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": gin.H{"payday_date": req.PaydayDate}})
}
