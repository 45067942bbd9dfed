package models

import "github.com/shopspring/decimal"

// RecurrenceFrequency represents how often a recurring transaction fires
type RecurrenceFrequency string

const (
	FrequencyWeekly      RecurrenceFrequency = "weekly"
	FrequencyFortnightly RecurrenceFrequency = "fortnightly"
	FrequencyMonthly     RecurrenceFrequency = "monthly"
)

// RecurringTransaction is a template for periodically repeating expenses
// (rent, subscriptions). Amount is stored as a positive magnitude;
// materialized transactions negate it. Exactly one of DayOfWeek and
// DayOfMonth is set, matching the frequency: DayOfWeek (0=Sunday through
// 6=Saturday) for weekly and fortnightly, DayOfMonth (1-31) for monthly.
type RecurringTransaction struct {
	Base
	UserID     uint                `gorm:"not null;index" json:"user_id"`
	Name       string              `gorm:"not null" json:"name"`
	Amount     decimal.Decimal     `gorm:"type:numeric;not null" json:"amount"`
	CategoryID *uint               `json:"category_id,omitempty"`
	Frequency  RecurrenceFrequency `gorm:"size:12;not null" json:"frequency"`
	DayOfWeek  *int                `json:"day_of_week,omitempty"`
	DayOfMonth *int                `json:"day_of_month,omitempty"`
	IsActive   bool                `gorm:"default:true" json:"is_active"`
	Notes      string              `json:"notes,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
