package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/models"
)

// budgetService handles per-cycle category budget logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// UpsertBudget sets the planned amount for a (cycle, category) pair,
// creating the row on first use and updating it afterwards.
func (s *budgetService) UpsertBudget(userID, cycleID, categoryID uint, plannedAmount decimal.Decimal) (*models.Budget, error) {
	if plannedAmount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "planned amount cannot be negative")
	}
	if err := s.ownsCycle(userID, cycleID); err != nil {
		return nil, err
	}
	if err := s.ownsCategory(userID, categoryID); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		CycleID:       cycleID,
		CategoryID:    categoryID,
		PlannedAmount: plannedAmount,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cycle_id"}, {Name: "category_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"planned_amount", "updated_at"}),
	}).Create(budget).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Preload("Category").
		Where("cycle_id = ? AND category_id = ?", cycleID, categoryID).
		First(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetCycleBudgets returns all budgets for a cycle the user owns.
func (s *budgetService) GetCycleBudgets(userID, cycleID uint) ([]models.Budget, error) {
	if err := s.ownsCycle(userID, cycleID); err != nil {
		return nil, err
	}

	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("cycle_id = ?", cycleID).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// DeleteBudget removes a budget row.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	var budget models.Budget
	if err := s.db.First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.ownsCycle(userID, budget.CycleID); err != nil {
		return apperrors.ErrBudgetNotFound
	}

	if err := s.db.Delete(&budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}

func (s *budgetService) ownsCycle(userID, cycleID uint) error {
	var count int64
	if err := s.db.Model(&models.Cycle{}).
		Where("id = ? AND user_id = ?", cycleID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCycleNotFound
	}
	return nil
}

func (s *budgetService) ownsCategory(userID, categoryID uint) error {
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", categoryID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
