package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/models"
)

// merchantRuleService handles merchant categorization rules.
type merchantRuleService struct {
	db *gorm.DB
}

// NewMerchantRuleService creates a new MerchantRuleServicer.
func NewMerchantRuleService(db *gorm.DB) MerchantRuleServicer {
	return &merchantRuleService{db: db}
}

// CreateRule stores a merchant-substring to category mapping.
func (s *merchantRuleService) CreateRule(userID uint, merchantMatch string, defaultCategoryID uint) (*models.MerchantRule, error) {
	merchantMatch = strings.TrimSpace(merchantMatch)
	if merchantMatch == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "merchant match is required")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", defaultCategoryID, userID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrCategoryNotFound
	}

	rule := &models.MerchantRule{
		UserID:            userID,
		MerchantMatch:     merchantMatch,
		DefaultCategoryID: defaultCategoryID,
	}

	if err := s.db.Create(rule).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return rule, nil
}

// GetUserRules returns all of the user's merchant rules.
func (s *merchantRuleService) GetUserRules(userID uint) ([]models.MerchantRule, error) {
	var rules []models.MerchantRule
	if err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("merchant_match ASC").
		Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rules, nil
}

// DeleteRule removes a merchant rule.
func (s *merchantRuleService) DeleteRule(userID, ruleID uint) error {
	var rule models.MerchantRule
	if err := s.db.Where("id = ? AND user_id = ?", ruleID, userID).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMerchantRuleNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&rule).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}

// MatchCategory returns the category of the first rule whose match
// string appears in the merchant name, case-insensitively. Returns
// (nil, nil) when no rule matches.
func (s *merchantRuleService) MatchCategory(userID uint, merchant string) (*models.Category, error) {
	rules, err := s.GetUserRules(userID)
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(merchant)
	for i := range rules {
		if strings.Contains(lowered, strings.ToLower(rules[i].MerchantMatch)) {
			return &rules[i].Category, nil
		}
	}

	return nil, nil
}
