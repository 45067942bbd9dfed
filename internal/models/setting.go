package models

// Setting holds per-user preferences. PaydayDate is the next or most
// recent payday as a YYYY-MM-DD string; recurring occurrences landing
// exactly on it are deferred to the next cycle during projection.
type Setting struct {
	Base
	UserID     uint    `gorm:"not null;uniqueIndex" json:"user_id"`
	PaydayDate *string `gorm:"size:10" json:"payday_date,omitempty"`
}
