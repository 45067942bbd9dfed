package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/models"
	"paycycle/internal/services"
)

// RecurringHandler handles recurring transaction template requests.
type RecurringHandler struct {
	recurringService services.RecurringServicer
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringService services.RecurringServicer) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// RecurringRequest represents the payload for creating or updating a template
type RecurringRequest struct {
	Name       string          `json:"name" binding:"required,max=100"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	CategoryID *uint           `json:"category_id"`
	Frequency  string          `json:"frequency" binding:"required,recurrence_frequency"`
	DayOfWeek  *int            `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	DayOfMonth *int            `json:"day_of_month" binding:"omitempty,min=1,max=31"`
	IsActive   *bool           `json:"is_active"`
	Notes      string          `json:"notes" binding:"max=1000"`
}

func (r *RecurringRequest) toInput() services.RecurringInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return services.RecurringInput{
		Name:       r.Name,
		Amount:     r.Amount,
		CategoryID: r.CategoryID,
		Frequency:  models.RecurrenceFrequency(r.Frequency),
		DayOfWeek:  r.DayOfWeek,
		DayOfMonth: r.DayOfMonth,
		IsActive:   active,
		Notes:      r.Notes,
	}
}

// CreateRecurring handles the creation of a new template
// @Summary     Create a recurring transaction
// @Description Create a template for a periodically repeating expense
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecurringRequest true "Template details"
// @Success     201 {object} map[string]interface{} "Template created"
// @Failure     400 {object} ErrorResponse "Invalid input or schedule"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring [post]
func (h *RecurringHandler) CreateRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	template, err := h.recurringService.CreateRecurring(userID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recurring_transaction": template})
}

// GetRecurring returns the user's templates
// @Summary     List recurring transactions
// @Description Get all of the user's templates, active first
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Templates"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring [get]
func (h *RecurringHandler) GetRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templates, err := h.recurringService.GetUserRecurring(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_transactions": templates})
}

// UpdateRecurring replaces a template's fields
// @Summary     Update a recurring transaction
// @Description Replace a template; already-materialized transactions are untouched
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Template ID"
// @Param       request body RecurringRequest true "Template details"
// @Success     200 {object} map[string]interface{} "Updated template"
// @Failure     400 {object} ErrorResponse "Invalid input or schedule"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/{id} [put]
func (h *RecurringHandler) UpdateRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	template, err := h.recurringService.UpdateRecurring(userID, recurringID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_transaction": template})
}

// DeleteRecurring removes a template
// @Summary     Delete a recurring transaction
// @Description Delete a template; its materialized transactions remain
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Template ID"
// @Success     204 "Template deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/{id} [delete]
func (h *RecurringHandler) DeleteRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recurringService.DeleteRecurring(userID, recurringID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GeneratePlanned materializes templates into planned transactions
// @Summary     Generate planned transactions
// @Description Materialize active templates into a cycle's planned transactions; idempotent
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path int true "Cycle ID"
// @Success     201 {object} map[string]interface{} "Created planned transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id}/generate-planned [post]
func (h *RecurringHandler) GeneratePlanned(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cycleID, err := parsePathID(c, "cycle_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	created, err := h.recurringService.GeneratePlanned(userID, cycleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"created":      len(created),
		"transactions": created,
	})
}
