// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var calendarDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("calendar_date", validateCalendarDate)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("cycle_status", validateCycleStatus)
		_ = v.RegisterValidation("recurrence_frequency", validateRecurrenceFrequency)
		_ = v.RegisterValidation("transaction_origin", validateTransactionOrigin)
	}
}

// validateCalendarDate checks the YYYY-MM-DD shape only; full parsing
// happens in the services so error codes stay consistent.
func validateCalendarDate(fl validator.FieldLevel) bool {
	return calendarDateRegex.MatchString(fl.Field().String())
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "need", "want", "bucket":
		return true
	}
	return false
}

func validateCycleStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "open", "closed":
		return true
	}
	return false
}

func validateRecurrenceFrequency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "weekly", "fortnightly", "monthly":
		return true
	}
	return false
}

func validateTransactionOrigin(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "manual", "csv", "recurring":
		return true
	}
	return false
}
