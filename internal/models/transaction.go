package models

import "github.com/shopspring/decimal"

// TransactionOrigin tags how a transaction entered the system, carried
// explicitly rather than inferred from which optional fields are set.
type TransactionOrigin string

const (
	OriginManual      TransactionOrigin = "manual"
	OriginImportedCSV TransactionOrigin = "csv"
	OriginRecurring   TransactionOrigin = "recurring"
)

// Transaction represents a single dated money movement within a cycle.
// Amounts are signed: negative for expenses, positive for income. A
// planned transaction is a projected commitment that has not yet been
// confirmed as paid.
type Transaction struct {
	Base
	UserID                 uint              `gorm:"not null;index" json:"user_id"`
	CycleID                uint              `gorm:"not null;index" json:"cycle_id"`
	Date                   string            `gorm:"size:10;not null" json:"date"`
	Description            string            `gorm:"not null" json:"description"`
	Merchant               string            `json:"merchant,omitempty"`
	Amount                 decimal.Decimal   `gorm:"type:numeric;not null" json:"amount"`
	CategoryID             *uint             `json:"category_id,omitempty"`
	Origin                 TransactionOrigin `gorm:"size:10;not null;default:'manual'" json:"origin"`
	Notes                  string            `json:"notes,omitempty"`
	IsPlanned              bool              `gorm:"default:false" json:"is_planned"`
	RecurringTransactionID *uint             `json:"recurring_transaction_id,omitempty"`
	ImportHash             *string           `gorm:"size:64;index" json:"import_hash,omitempty"`

	Category  *Category             `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Recurring *RecurringTransaction `gorm:"foreignKey:RecurringTransactionID" json:"recurring,omitempty"`
}
