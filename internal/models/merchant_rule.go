package models

// MerchantRule maps a merchant substring to a default category, used to
// auto-categorize new transactions. Matching is case-insensitive.
type MerchantRule struct {
	Base
	UserID            uint   `gorm:"not null;index" json:"user_id"`
	MerchantMatch     string `gorm:"not null" json:"merchant_match"`
	DefaultCategoryID uint   `gorm:"not null" json:"default_category_id"`

	Category Category `gorm:"foreignKey:DefaultCategoryID" json:"category"`
}
