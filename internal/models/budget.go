package models

import "github.com/shopspring/decimal"

// Budget represents a per-category spending target for one cycle.
// One row per (cycle, category) pair.
type Budget struct {
	Base
	CycleID       uint            `gorm:"not null;index:idx_budget_cycle_category,unique" json:"cycle_id"`
	CategoryID    uint            `gorm:"not null;index:idx_budget_cycle_category,unique" json:"category_id"`
	PlannedAmount decimal.Decimal `gorm:"type:numeric;not null" json:"planned_amount"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
