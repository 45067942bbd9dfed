package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/services"
)

// MerchantRuleHandler handles merchant categorization rule requests.
type MerchantRuleHandler struct {
	merchantRuleService services.MerchantRuleServicer
}

// NewMerchantRuleHandler creates a new MerchantRuleHandler.
func NewMerchantRuleHandler(merchantRuleService services.MerchantRuleServicer) *MerchantRuleHandler {
	return &MerchantRuleHandler{merchantRuleService: merchantRuleService}
}

// CreateMerchantRuleRequest represents the payload for creating a rule
type CreateMerchantRuleRequest struct {
	MerchantMatch     string `json:"merchant_match" binding:"required,max=255"`
	DefaultCategoryID uint   `json:"default_category_id" binding:"required"`
}

// CreateRule handles the creation of a merchant rule
// @Summary     Create a merchant rule
// @Description Map a merchant substring to a default category for auto-categorization
// @Tags        merchant-rules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateMerchantRuleRequest true "Rule details"
// @Success     201 {object} map[string]interface{} "Rule created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /merchant-rules [post]
func (h *MerchantRuleHandler) CreateRule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateMerchantRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rule, err := h.merchantRuleService.CreateRule(userID, req.MerchantMatch, req.DefaultCategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"merchant_rule": rule})
}

// GetRules returns the user's merchant rules
// @Summary     List merchant rules
// @Description Get all of the user's merchant rules
// @Tags        merchant-rules
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Rules"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /merchant-rules [get]
func (h *MerchantRuleHandler) GetRules(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rules, err := h.merchantRuleService.GetUserRules(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"merchant_rules": rules})
}

// DeleteRule removes a merchant rule
// @Summary     Delete a merchant rule
// @Description Delete one of the user's merchant rules
// @Tags        merchant-rules
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Rule ID"
// @Success     204 "Rule deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /merchant-rules/{id} [delete]
func (h *MerchantRuleHandler) DeleteRule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.merchantRuleService.DeleteRule(userID, ruleID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
