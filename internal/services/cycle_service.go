package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"paycycle/internal/dates"
	apperrors "paycycle/internal/errors"
	"paycycle/internal/models"
	"paycycle/internal/pagination"
)

// cycleService handles cycle-related business logic.
type cycleService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewCycleService creates a new CycleServicer evaluating cycle
// boundaries in the given reference timezone.
func NewCycleService(db *gorm.DB, loc *time.Location) CycleServicer {
	return &cycleService{db: db, loc: loc}
}

// CreateCycle creates a new open budgeting cycle. At most one open cycle
// may exist per user.
func (s *cycleService) CreateCycle(userID uint, startDate, endDate string, startingBalance, incomePlanned, targetEndBalance decimal.Decimal) (*models.Cycle, error) {
	if !dates.IsValid(startDate) || !dates.IsValid(endDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "dates must be YYYY-MM-DD")
	}
	if endDate <= startDate {
		return nil, apperrors.ErrInvalidDateRange
	}

	var openCount int64
	if err := s.db.Model(&models.Cycle{}).
		Where("user_id = ? AND status = ?", userID, models.CycleStatusOpen).
		Count(&openCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if openCount > 0 {
		return nil, apperrors.ErrOpenCycleExists
	}

	cycle := &models.Cycle{
		UserID:           userID,
		StartDate:        startDate,
		EndDate:          endDate,
		StartingBalance:  startingBalance,
		IncomePlanned:    incomePlanned,
		TargetEndBalance: targetEndBalance,
		Status:           models.CycleStatusOpen,
	}

	if err := s.db.Create(cycle).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return cycle, nil
}

// GetUserCycles returns the user's cycles, most recent first.
func (s *cycleService) GetUserCycles(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Cycle], error) {
	page.Defaults()

	base := s.db.Model(&models.Cycle{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cycles []models.Cycle
	if err := base.Order("start_date DESC").Scopes(pagination.Paginate(page)).Find(&cycles).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(cycles, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCycleByID returns a cycle by ID if it belongs to the user.
func (s *cycleService) GetCycleByID(userID, cycleID uint) (*models.Cycle, error) {
	var cycle models.Cycle
	if err := s.db.Where("id = ? AND user_id = ?", cycleID, userID).First(&cycle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCycleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cycle, nil
}

// GetOpenCycle returns the user's single open cycle.
func (s *cycleService) GetOpenCycle(userID uint) (*models.Cycle, error) {
	var cycle models.Cycle
	if err := s.db.Where("user_id = ? AND status = ?", userID, models.CycleStatusOpen).First(&cycle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoOpenCycle
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cycle, nil
}

// UpdateCycle applies an explicit edit to a cycle's balances.
func (s *cycleService) UpdateCycle(userID, cycleID uint, update CycleUpdate) (*models.Cycle, error) {
	cycle, err := s.GetCycleByID(userID, cycleID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.StartingBalance != nil {
		updates["starting_balance"] = *update.StartingBalance
	}
	if update.IncomePlanned != nil {
		updates["income_planned"] = *update.IncomePlanned
	}
	if update.IncomeActual != nil {
		updates["income_actual"] = update.IncomeActual
	}
	if update.TargetEndBalance != nil {
		updates["target_end_balance"] = *update.TargetEndBalance
	}

	if len(updates) > 0 {
		if err := s.db.Model(cycle).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.First(cycle, cycle.ID).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return cycle, nil
}

// CurrentCycleDates computes the 15th-to-14th window containing the
// given instant in the reference timezone.
func (s *cycleService) CurrentCycleDates(now time.Time) dates.CycleDates {
	return dates.CurrentCycleDates(now, s.loc)
}

// CloseAndRollover closes the open cycle and opens the next one. The new
// cycle starts from the closed cycle's expected end balance (starting
// balance plus effective income plus all actual transaction amounts) and
// inherits its planned income and target.
func (s *cycleService) CloseAndRollover(userID uint, now time.Time) (*models.Cycle, error) {
	current, err := s.GetOpenCycle(userID)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND cycle_id = ? AND is_planned = ?", userID, current.ID, false).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	endBalance := current.StartingBalance.Add(current.EffectiveIncome())
	for _, tx := range transactions {
		endBalance = endBalance.Add(tx.Amount)
	}

	window := dates.CurrentCycleDates(now, s.loc)
	next := &models.Cycle{
		UserID:           userID,
		StartDate:        window.StartDate,
		EndDate:          window.EndDate,
		StartingBalance:  endBalance,
		IncomePlanned:    current.IncomePlanned,
		TargetEndBalance: current.TargetEndBalance,
		Status:           models.CycleStatusOpen,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(current).Update("status", models.CycleStatusClosed).Error; err != nil {
			return err
		}
		return tx.Create(next).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return next, nil
}
