package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"paycycle/internal/services"
)

// MetricsHandler serves cycle metrics snapshots.
type MetricsHandler struct {
	metricsService     services.MetricsServicer
	transactionService services.TransactionServicer
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(metricsService services.MetricsServicer, transactionService services.TransactionServicer) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService, transactionService: transactionService}
}

// GetCurrentMetrics returns the open cycle's metrics
// @Summary     Get current metrics
// @Description Compute the metrics snapshot for the open cycle; due planned transactions settle first
// @Tags        metrics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Metrics snapshot, or ready=false without an open cycle"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /metrics/current [get]
func (h *MetricsHandler) GetCurrentMetrics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now()

	// Settle overdue planned rows so the snapshot reflects them as spend.
	if _, err := h.transactionService.ConvertDuePlanned(userID, now); err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.metricsService.GetOpenCycleMetrics(userID, now)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusOK, gin.H{"ready": false, "metrics": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ready": true, "metrics": snapshot})
}

// GetCycleMetrics returns a specific cycle's metrics
// @Summary     Get cycle metrics
// @Description Compute the metrics snapshot for one cycle
// @Tags        metrics
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path int true "Cycle ID"
// @Success     200 {object} map[string]interface{} "Metrics snapshot"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id}/metrics [get]
func (h *MetricsHandler) GetCycleMetrics(c *gin.Context) {
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

	snapshot, err := h.metricsService.GetCycleMetrics(userID, cycleID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": snapshot})
}
