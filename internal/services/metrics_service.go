package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/metrics"
	"paycycle/internal/models"
)

// metricsService loads a cycle's data and computes its metrics snapshot.
type metricsService struct {
	db       *gorm.DB
	cycles   CycleServicer
	settings SettingServicer
	loc      *time.Location
}

// NewMetricsService creates a new MetricsServicer.
func NewMetricsService(db *gorm.DB, cycles CycleServicer, settings SettingServicer, loc *time.Location) MetricsServicer {
	return &metricsService{db: db, cycles: cycles, settings: settings, loc: loc}
}

// GetOpenCycleMetrics computes the metrics snapshot for the user's open
// cycle. Returns (nil, nil) when no cycle is open: callers surface that
// as "not ready" rather than a zeroed snapshot.
func (s *metricsService) GetOpenCycleMetrics(userID uint, now time.Time) (*metrics.CycleMetrics, error) {
	cycle, err := s.cycles.GetOpenCycle(userID)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Code == apperrors.ErrNoOpenCycle.Code {
			return nil, nil
		}
		return nil, err
	}
	return s.compute(userID, cycle, now)
}

// GetCycleMetrics computes the metrics snapshot for a specific cycle.
func (s *metricsService) GetCycleMetrics(userID, cycleID uint, now time.Time) (*metrics.CycleMetrics, error) {
	cycle, err := s.cycles.GetCycleByID(userID, cycleID)
	if err != nil {
		return nil, err
	}
	return s.compute(userID, cycle, now)
}

func (s *metricsService) compute(userID uint, cycle *models.Cycle, now time.Time) (*metrics.CycleMetrics, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND cycle_id = ?", userID, cycle.ID).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := s.db.Where("cycle_id = ?", cycle.ID).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).
		Find(&categories).Error; err != nil {
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

	return metrics.Compute(cycle, transactions, budgets, categories, templates, paydayDate, now, s.loc)
}
