package models

import "github.com/shopspring/decimal"

// CycleStatus represents the lifecycle state of a budgeting cycle
type CycleStatus string

const (
	CycleStatusOpen   CycleStatus = "open"
	CycleStatusClosed CycleStatus = "closed"
)

// Cycle represents one budgeting period running from the 15th of a month
// to the 14th of the next. Dates are stored as YYYY-MM-DD strings and
// compared as strings throughout; both boundaries are inclusive.
// At most one cycle per user has status open at a time.
type Cycle struct {
	Base
	UserID           uint             `gorm:"not null;index" json:"user_id"`
	StartDate        string           `gorm:"size:10;not null" json:"start_date"`
	EndDate          string           `gorm:"size:10;not null" json:"end_date"`
	StartingBalance  decimal.Decimal  `gorm:"type:numeric;not null" json:"starting_balance"`
	IncomePlanned    decimal.Decimal  `gorm:"type:numeric;not null" json:"income_planned"`
	IncomeActual     *decimal.Decimal `gorm:"type:numeric" json:"income_actual,omitempty"`
	TargetEndBalance decimal.Decimal  `gorm:"type:numeric;not null" json:"target_end_balance"`
	Status           CycleStatus      `gorm:"size:10;not null;default:'open'" json:"status"`

	Transactions []Transaction `gorm:"foreignKey:CycleID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:CycleID" json:"budgets,omitempty"`
}

// EffectiveIncome returns the actual income when recorded, falling back
// to the planned income otherwise.
func (c *Cycle) EffectiveIncome() decimal.Decimal {
	if c.IncomeActual != nil {
		return *c.IncomeActual
	}
	return c.IncomePlanned
}

// FindOpenCycle returns the cycle with status open, or nil when none
// exists. The single-open-cycle invariant is enforced at creation time.
func FindOpenCycle(cycles []Cycle) *Cycle {
	for i := range cycles {
		if cycles[i].Status == CycleStatusOpen {
			return &cycles[i]
		}
	}
	return nil
}
