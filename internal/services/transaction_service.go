package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"paycycle/internal/dates"
	apperrors "paycycle/internal/errors"
	"paycycle/internal/logger"
	"paycycle/internal/models"
	"paycycle/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db            *gorm.DB
	merchantRules MerchantRuleServicer
	loc           *time.Location
}

// NewTransactionService creates a new TransactionServicer. Merchant
// rules are consulted to auto-categorize transactions created without a
// category.
func NewTransactionService(db *gorm.DB, merchantRules MerchantRuleServicer, loc *time.Location) TransactionServicer {
	return &transactionService{db: db, merchantRules: merchantRules, loc: loc}
}

// CreateTransaction records a transaction in a cycle the user owns.
// CSV-imported rows carry an import hash and are rejected as duplicates
// when the same hash was already imported.
func (s *transactionService) CreateTransaction(userID uint, input TransactionInput) (*models.Transaction, error) {
	if !dates.IsValid(input.Date) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD")
	}
	if input.Amount.IsZero() {
		return nil, apperrors.ErrZeroAmount
	}

	var cycle models.Cycle
	if err := s.db.Where("id = ? AND user_id = ?", input.CycleID, userID).First(&cycle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCycleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if input.CategoryID != nil {
		if _, err := s.userCategory(userID, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	if input.ImportHash != nil {
		var count int64
		if err := s.db.Model(&models.Transaction{}).
			Where("user_id = ? AND import_hash = ?", userID, *input.ImportHash).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateImport
		}
	}

	categoryID := input.CategoryID
	if categoryID == nil && input.Merchant != "" {
		if matched, err := s.merchantRules.MatchCategory(userID, input.Merchant); err == nil && matched != nil {
			categoryID = &matched.ID
		}
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CycleID:     input.CycleID,
		Date:        input.Date,
		Description: input.Description,
		Merchant:    input.Merchant,
		Amount:      input.Amount,
		CategoryID:  categoryID,
		Origin:      input.Origin,
		Notes:       input.Notes,
		IsPlanned:   input.IsPlanned,
		ImportHash:  input.ImportHash,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetCycleTransactions returns a page of the cycle's transactions,
// newest first, applying the optional filters.
func (s *transactionService) GetCycleTransactions(userID, cycleID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND cycle_id = ?", userID, cycleID)
	if filter.FromDate != "" {
		base = base.Where("date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		base = base.Where("date <= ?", filter.ToDate)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.IsPlanned != nil {
		base = base.Where("is_planned = ?", *filter.IsPlanned)
	}
	if filter.Origin != nil {
		base = base.Where("origin = ?", *filter.Origin)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").
		Order("date DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID returns a transaction by ID if it belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies a partial edit to a transaction.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, description *string, categoryID *uint, notes *string) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if description != nil {
		updates["description"] = *description
	}
	if categoryID != nil {
		if _, err := s.userCategory(userID, *categoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *categoryID
	}
	if notes != nil {
		updates["notes"] = *notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return transaction, nil
}

// MarkAsPaid converts a planned transaction into an actual one. Already
// actual transactions are returned unchanged.
func (s *transactionService) MarkAsPaid(userID, transactionID uint) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}
	if !transaction.IsPlanned {
		return transaction, nil
	}

	if err := s.db.Model(transaction).Update("is_planned", false).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// BulkCategorize assigns a category to multiple transactions at once.
func (s *transactionService) BulkCategorize(userID uint, transactionIDs []uint, categoryID uint) error {
	if len(transactionIDs) == 0 {
		return nil
	}
	if _, err := s.userCategory(userID, categoryID); err != nil {
		return err
	}

	result := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND id IN ?", userID, transactionIDs).
		Update("category_id", categoryID)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}

	return nil
}

// DeleteTransaction removes a transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}

// ConvertDuePlanned marks as paid every planned transaction in the open
// cycle whose date is today or earlier, and reports how many were
// converted. Called lazily on reads so projections settle into actuals
// without a scheduler.
func (s *transactionService) ConvertDuePlanned(userID uint, now time.Time) (int, error) {
	var cycle models.Cycle
	if err := s.db.Where("user_id = ? AND status = ?", userID, models.CycleStatusOpen).First(&cycle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	today := dates.Format(now.In(s.loc))
	result := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND cycle_id = ? AND is_planned = ? AND date <= ?", userID, cycle.ID, true, today).
		Update("is_planned", false)
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}

	if result.RowsAffected > 0 {
		logger.Get().Infow("converted due planned transactions",
			"user_id", userID,
			"cycle_id", cycle.ID,
			"count", result.RowsAffected,
		)
	}

	return int(result.RowsAffected), nil
}

func (s *transactionService) userCategory(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}
