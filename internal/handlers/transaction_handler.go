package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/models"
	"paycycle/internal/pagination"
	"paycycle/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	CycleID     uint            `json:"cycle_id" binding:"required"`
	Date        string          `json:"date" binding:"required,calendar_date"`
	Description string          `json:"description" binding:"required,max=500"`
	Merchant    string          `json:"merchant" binding:"max=255"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	CategoryID  *uint           `json:"category_id"`
	Origin      string          `json:"origin" binding:"omitempty,transaction_origin"`
	Notes       string          `json:"notes" binding:"max=1000"`
	IsPlanned   bool            `json:"is_planned"`
	ImportHash  *string         `json:"import_hash" binding:"omitempty,max=64"`
}

// UpdateTransactionRequest represents the request payload for editing a transaction
type UpdateTransactionRequest struct {
	Description *string `json:"description" binding:"omitempty,max=500"`
	CategoryID  *uint   `json:"category_id"`
	Notes       *string `json:"notes" binding:"omitempty,max=1000"`
}

// BulkCategorizeRequest represents the request payload for bulk categorization
type BulkCategorizeRequest struct {
	TransactionIDs []uint `json:"transaction_ids" binding:"required,min=1"`
	CategoryID     uint   `json:"category_id" binding:"required"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record a transaction in a cycle; negative amounts are expenses
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} map[string]interface{} "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate import hash"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	origin := models.OriginManual
	if req.Origin != "" {
		origin = models.TransactionOrigin(req.Origin)
	}

	transaction, err := h.transactionService.CreateTransaction(userID, services.TransactionInput{
		CycleID:     req.CycleID,
		Date:        req.Date,
		Description: req.Description,
		Merchant:    req.Merchant,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Origin:      origin,
		Notes:       req.Notes,
		IsPlanned:   req.IsPlanned,
		ImportHash:  req.ImportHash,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions returns a cycle's transactions
// @Summary     List transactions
// @Description Get a page of a cycle's transactions with optional filters
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path int true "Cycle ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Items per page"
// @Param       from query string false "Earliest date (YYYY-MM-DD)"
// @Param       to query string false "Latest date (YYYY-MM-DD)"
// @Param       category_id query int false "Category filter"
// @Param       is_planned query bool false "Planned filter"
// @Param       origin query string false "Origin filter (manual, csv, recurring)"
// @Success     200 {object} map[string]interface{} "Paginated transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id}/transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var query struct {
		From       string  `form:"from" binding:"omitempty,calendar_date"`
		To         string  `form:"to" binding:"omitempty,calendar_date"`
		CategoryID *uint   `form:"category_id"`
		IsPlanned  *bool   `form:"is_planned"`
		Origin     *string `form:"origin" binding:"omitempty,transaction_origin"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{
		FromDate:   query.From,
		ToDate:     query.To,
		CategoryID: query.CategoryID,
		IsPlanned:  query.IsPlanned,
	}
	if query.Origin != nil {
		origin := models.TransactionOrigin(*query.Origin)
		filter.Origin = &origin
	}

	transactions, err := h.transactionService.GetCycleTransactions(userID, cycleID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// UpdateTransaction edits a transaction
// @Summary     Update a transaction
// @Description Edit a transaction's description, category, or notes
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID,
		req.Description, req.CategoryID, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// MarkAsPaid converts a planned transaction into an actual one
// @Summary     Mark a planned transaction as paid
// @Description Convert a planned transaction into an actual; idempotent for actuals
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} map[string]interface{} "Updated transaction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id}/pay [post]
func (h *TransactionHandler) MarkAsPaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.MarkAsPaid(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// BulkCategorize assigns a category to several transactions
// @Summary     Bulk categorize
// @Description Assign one category to multiple transactions at once
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BulkCategorizeRequest true "Transaction IDs and category"
// @Success     200 {object} map[string]interface{} "Transactions categorized"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No matching transactions"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/categorize [post]
func (h *TransactionHandler) BulkCategorize(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BulkCategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.transactionService.BulkCategorize(userID, req.TransactionIDs, req.CategoryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categorized": len(req.TransactionIDs)})
}

// DeleteTransaction removes a transaction
// @Summary     Delete a transaction
// @Description Delete one of the user's transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ConvertDuePlanned settles due planned transactions
// @Summary     Convert due planned transactions
// @Description Mark as paid every planned transaction dated today or earlier
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Number of converted transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/convert-due [post]
func (h *TransactionHandler) ConvertDuePlanned(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	converted, err := h.transactionService.ConvertDuePlanned(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"converted": converted})
}
