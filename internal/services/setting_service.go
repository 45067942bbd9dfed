package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paycycle/internal/dates"
	apperrors "paycycle/internal/errors"
	"paycycle/internal/models"
)

// settingService handles per-user settings.
type settingService struct {
	db *gorm.DB
}

// NewSettingService creates a new SettingServicer.
func NewSettingService(db *gorm.DB) SettingServicer {
	return &settingService{db: db}
}

// GetPaydayDate returns the user's configured payday date, or the empty
// string when none is set. Projection treats the empty string as "no
// payday exclusion".
func (s *settingService) GetPaydayDate(userID uint) (string, error) {
	var setting models.Setting
	if err := s.db.Where("user_id = ?", userID).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if setting.PaydayDate == nil {
		return "", nil
	}
	return *setting.PaydayDate, nil
}

// SetPaydayDate stores the user's payday date, or clears it when nil.
func (s *settingService) SetPaydayDate(userID uint, paydayDate *string) error {
	if paydayDate != nil && !dates.IsValid(*paydayDate) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "payday date must be YYYY-MM-DD")
	}

	setting := &models.Setting{
		UserID:     userID,
		PaydayDate: paydayDate,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payday_date", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}
