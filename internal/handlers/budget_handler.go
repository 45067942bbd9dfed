package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/services"
)

// BudgetHandler handles per-cycle category budget requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// UpsertBudgetRequest represents the request payload for setting a budget
type UpsertBudgetRequest struct {
	CategoryID    uint            `json:"category_id" binding:"required"`
	PlannedAmount decimal.Decimal `json:"planned_amount" binding:"required"`
}

// UpsertBudget sets a category's planned amount for a cycle
// @Summary     Set a budget
// @Description Create or update the planned amount for a (cycle, category) pair
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path int true "Cycle ID"
// @Param       request body UpsertBudgetRequest true "Budget details"
// @Success     200 {object} map[string]interface{} "Budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Cycle or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id}/budgets [put]
func (h *BudgetHandler) UpsertBudget(c *gin.Context) {
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

	var req UpsertBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpsertBudget(userID, cycleID, req.CategoryID, req.PlannedAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetBudgets returns a cycle's budgets
// @Summary     List budgets
// @Description Get all budgets for one cycle
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path int true "Cycle ID"
// @Success     200 {object} map[string]interface{} "Budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id}/budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
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

	budgets, err := h.budgetService.GetCycleBudgets(userID, cycleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// DeleteBudget removes a budget row
// @Summary     Delete a budget
// @Description Remove a category's planned amount from a cycle
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     204 "Budget deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
