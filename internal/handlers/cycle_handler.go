package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/pagination"
	"paycycle/internal/services"
)

// CycleHandler handles cycle-related requests.
type CycleHandler struct {
	cycleService services.CycleServicer
}

// NewCycleHandler creates a new CycleHandler.
func NewCycleHandler(cycleService services.CycleServicer) *CycleHandler {
	return &CycleHandler{cycleService: cycleService}
}

// CreateCycleRequest represents the request payload for creating a cycle.
// Omitted dates default to the current 15th-to-14th window.
type CreateCycleRequest struct {
	StartDate        string          `json:"start_date" binding:"omitempty,calendar_date"`
	EndDate          string          `json:"end_date" binding:"omitempty,calendar_date"`
	StartingBalance  decimal.Decimal `json:"starting_balance"`
	IncomePlanned    decimal.Decimal `json:"income_planned"`
	TargetEndBalance decimal.Decimal `json:"target_end_balance"`
}

// UpdateCycleRequest represents the request payload for editing a cycle.
type UpdateCycleRequest struct {
	StartingBalance  *decimal.Decimal `json:"starting_balance"`
	IncomePlanned    *decimal.Decimal `json:"income_planned"`
	IncomeActual     *decimal.Decimal `json:"income_actual"`
	TargetEndBalance *decimal.Decimal `json:"target_end_balance"`
}

// CreateCycle handles the creation of a new budgeting cycle
// @Summary     Create a cycle
// @Description Create a new open budgeting cycle; dates default to the current pay window
// @Tags        cycles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCycleRequest true "Cycle details"
// @Success     201 {object} map[string]interface{} "Cycle created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "An open cycle already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles [post]
func (h *CycleHandler) CreateCycle(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if req.StartDate == "" || req.EndDate == "" {
		window := h.cycleService.CurrentCycleDates(time.Now())
		req.StartDate = window.StartDate
		req.EndDate = window.EndDate
	}

	cycle, err := h.cycleService.CreateCycle(userID, req.StartDate, req.EndDate,
		req.StartingBalance, req.IncomePlanned, req.TargetEndBalance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"cycle": cycle})
}

// GetCycles returns the user's cycles
// @Summary     List cycles
// @Description Get the user's cycles, most recent first
// @Tags        cycles
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Items per page"
// @Success     200 {object} map[string]interface{} "Paginated cycles"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles [get]
func (h *CycleHandler) GetCycles(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cycles, err := h.cycleService.GetUserCycles(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cycles)
}

// GetCurrentCycle returns the user's open cycle
// @Summary     Get the open cycle
// @Description Get the user's single open cycle
// @Tags        cycles
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Open cycle"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No open cycle"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/current [get]
func (h *CycleHandler) GetCurrentCycle(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cycle, err := h.cycleService.GetOpenCycle(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cycle": cycle})
}

// GetCycle returns one cycle by ID
// @Summary     Get a cycle
// @Description Get one of the user's cycles by ID
// @Tags        cycles
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path int true "Cycle ID"
// @Success     200 {object} map[string]interface{} "Cycle"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id} [get]
func (h *CycleHandler) GetCycle(c *gin.Context) {
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

	cycle, err := h.cycleService.GetCycleByID(userID, cycleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cycle": cycle})
}

// UpdateCycle edits a cycle's balances
// @Summary     Update a cycle
// @Description Edit a cycle's starting balance, income, or target
// @Tags        cycles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path int true "Cycle ID"
// @Param       request body UpdateCycleRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated cycle"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id} [patch]
func (h *CycleHandler) UpdateCycle(c *gin.Context) {
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

	var req UpdateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cycle, err := h.cycleService.UpdateCycle(userID, cycleID, services.CycleUpdate{
		StartingBalance:  req.StartingBalance,
		IncomePlanned:    req.IncomePlanned,
		IncomeActual:     req.IncomeActual,
		TargetEndBalance: req.TargetEndBalance,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cycle": cycle})
}

// CloseCycle closes the open cycle and rolls into the next window
// @Summary     Close and roll over
// @Description Close the open cycle and open the next one from its closing balance
// @Tags        cycles
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} map[string]interface{} "Next cycle"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No open cycle"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/close [post]
func (h *CycleHandler) CloseCycle(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	next, err := h.cycleService.CloseAndRollover(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"cycle": next})
}
