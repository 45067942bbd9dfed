package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeNeed   CategoryType = "need"
	CategoryTypeWant   CategoryType = "want"
	CategoryTypeBucket CategoryType = "bucket"
)

// Category represents a spending category. Names are unique per user,
// case-insensitively.
type Category struct {
	Base
	UserID    uint         `gorm:"not null;index" json:"user_id"`
	Name      string       `gorm:"not null" json:"name"`
	Type      CategoryType `gorm:"size:10;not null" json:"type"`
	Icon      string       `json:"icon,omitempty"`
	SortOrder int          `gorm:"default:0" json:"sort_order"`

	Transactions          []Transaction          `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Budgets               []Budget               `gorm:"foreignKey:CategoryID" json:"budgets,omitempty"`
	RecurringTransactions []RecurringTransaction `gorm:"foreignKey:CategoryID" json:"recurring_transactions,omitempty"`
	MerchantRules         []MerchantRule         `gorm:"foreignKey:DefaultCategoryID" json:"merchant_rules,omitempty"`
}
