package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/logger"
	"paycycle/internal/models"
	"paycycle/internal/recurrence"
)

// recurringService handles recurring transaction templates and the
// materialization of their projected occurrences.
type recurringService struct {
	db       *gorm.DB
	settings SettingServicer
	loc      *time.Location
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(db *gorm.DB, settings SettingServicer, loc *time.Location) RecurringServicer {
	return &recurringService{db: db, settings: settings, loc: loc}
}

// CreateRecurring creates a recurring transaction template.
func (s *recurringService) CreateRecurring(userID uint, input RecurringInput) (*models.RecurringTransaction, error) {
	if err := s.validateInput(userID, &input); err != nil {
		return nil, err
	}

	template := &models.RecurringTransaction{
		UserID:     userID,
		Name:       input.Name,
		Amount:     input.Amount.Abs(),
		CategoryID: input.CategoryID,
		Frequency:  input.Frequency,
		DayOfWeek:  input.DayOfWeek,
		DayOfMonth: input.DayOfMonth,
		IsActive:   input.IsActive,
		Notes:      input.Notes,
	}

	if err := s.db.Create(template).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return template, nil
}

// GetUserRecurring returns all of the user's templates, active first.
func (s *recurringService) GetUserRecurring(userID uint) ([]models.RecurringTransaction, error) {
	var templates []models.RecurringTransaction
	if err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("is_active DESC, name ASC").
		Find(&templates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return templates, nil
}

// GetRecurringByID returns a template by ID if it belongs to the user.
func (s *recurringService) GetRecurringByID(userID, recurringID uint) (*models.RecurringTransaction, error) {
	var template models.RecurringTransaction
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", recurringID, userID).
		First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &template, nil
}

// UpdateRecurring replaces a template's fields. Future materializations
// use the new values; already-materialized transactions are untouched.
func (s *recurringService) UpdateRecurring(userID, recurringID uint, input RecurringInput) (*models.RecurringTransaction, error) {
	template, err := s.GetRecurringByID(userID, recurringID)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(userID, &input); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":         input.Name,
		"amount":       input.Amount.Abs(),
		"category_id":  input.CategoryID,
		"frequency":    input.Frequency,
		"day_of_week":  input.DayOfWeek,
		"day_of_month": input.DayOfMonth,
		"is_active":    input.IsActive,
		"notes":        input.Notes,
	}
	if err := s.db.Model(template).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return template, nil
}

// DeleteRecurring removes a template. Transactions it already
// materialized keep their reference and remain in place.
func (s *recurringService) DeleteRecurring(userID, recurringID uint) error {
	template, err := s.GetRecurringByID(userID, recurringID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(template).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}

// GeneratePlanned materializes the user's active templates into planned
// transactions for the given cycle. The operation is idempotent:
// occurrences already persisted for the same (date, template) pair are
// skipped, so re-running after a partial failure inserts only the
// missing remainder.
func (s *recurringService) GeneratePlanned(userID, cycleID uint) ([]models.Transaction, error) {
	var cycle models.Cycle
	if err := s.db.Where("id = ? AND user_id = ?", cycleID, userID).First(&cycle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCycleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var templates []models.RecurringTransaction
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Find(&templates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	paydayDate, err := s.settings.GetPaydayDate(userID)
	if err != nil {
		return nil, err
	}

	drafts, err := recurrence.Materialize(templates, &cycle, paydayDate, s.loc)
	if err != nil {
		return nil, err
	}

	var existing []models.Transaction
	if err := s.db.Where("user_id = ? AND cycle_id = ? AND recurring_transaction_id IS NOT NULL", userID, cycleID).
		Find(&existing).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	drafts = recurrence.FilterExisting(drafts, existing)
	if len(drafts) == 0 {
		return []models.Transaction{}, nil
	}

	transactions := make([]models.Transaction, 0, len(drafts))
	for _, draft := range drafts {
		templateID := draft.RecurringTransactionID
		transactions = append(transactions, models.Transaction{
			UserID:                 userID,
			CycleID:                cycleID,
			Date:                   draft.Date,
			Description:            draft.Description,
			Merchant:               draft.Merchant,
			Amount:                 draft.Amount,
			CategoryID:             draft.CategoryID,
			Origin:                 draft.Origin,
			Notes:                  draft.Notes,
			IsPlanned:              draft.IsPlanned,
			RecurringTransactionID: &templateID,
		})
	}

	if err := s.db.Create(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("materialized planned transactions",
		"user_id", userID,
		"cycle_id", cycleID,
		"count", len(transactions),
	)

	return transactions, nil
}

func (s *recurringService) validateInput(userID uint, input *RecurringInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "template name is required")
	}
	if input.Amount.IsZero() {
		return apperrors.ErrZeroAmount
	}

	switch input.Frequency {
	case models.FrequencyWeekly, models.FrequencyFortnightly:
		if input.DayOfWeek == nil || *input.DayOfWeek < 0 || *input.DayOfWeek > 6 {
			return apperrors.WithMessage(apperrors.ErrInvalidSchedule, "weekly and fortnightly templates need a day_of_week between 0 and 6")
		}
		input.DayOfMonth = nil
	case models.FrequencyMonthly:
		if input.DayOfMonth == nil || *input.DayOfMonth < 1 || *input.DayOfMonth > 31 {
			return apperrors.WithMessage(apperrors.ErrInvalidSchedule, "monthly templates need a day_of_month between 1 and 31")
		}
		input.DayOfWeek = nil
	default:
		return apperrors.ErrInvalidSchedule
	}

	if input.CategoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *input.CategoryID, userID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.ErrCategoryNotFound
		}
	}

	return nil
}
