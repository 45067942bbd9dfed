package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"paycycle/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCycle creates an open cycle covering 2024-03-15 to
// 2024-04-14 with the reference balances used across the test suite.
func CreateTestCycle(t *testing.T, db *gorm.DB, userID uint) *models.Cycle {
	t.Helper()
	return CreateTestCycleWithDates(t, db, userID, "2024-03-15", "2024-04-14", models.CycleStatusOpen)
}

// CreateTestCycleWithDates creates a cycle with explicit boundaries and status.
func CreateTestCycleWithDates(t *testing.T, db *gorm.DB, userID uint, startDate, endDate string, status models.CycleStatus) *models.Cycle {
	t.Helper()

	cycle := &models.Cycle{
		UserID:           userID,
		StartDate:        startDate,
		EndDate:          endDate,
		StartingBalance:  decimal.NewFromInt(1000),
		IncomePlanned:    decimal.NewFromInt(3000),
		TargetEndBalance: decimal.NewFromInt(500),
		Status:           status,
	}
	if err := db.Create(cycle).Error; err != nil {
		t.Fatalf("failed to create test cycle: %v", err)
	}
	return cycle
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates an actual (non-planned) transaction on
// the given date with the given signed amount.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, cycleID uint, date string, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		CycleID:     cycleID,
		Date:        date,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:      decimal.NewFromInt(amount),
		Origin:      models.OriginManual,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestRecurring creates an active weekly Friday template with the
// given positive amount magnitude.
func CreateTestRecurring(t *testing.T, db *gorm.DB, userID uint, amount int64) *models.RecurringTransaction {
	t.Helper()

	dayOfWeek := 5
	tpl := &models.RecurringTransaction{
		UserID:    userID,
		Name:      fmt.Sprintf("Test Recurring %d", nextID()),
		Amount:    decimal.NewFromInt(amount),
		Frequency: models.FrequencyWeekly,
		DayOfWeek: &dayOfWeek,
		IsActive:  true,
	}
	if err := db.Create(tpl).Error; err != nil {
		t.Fatalf("failed to create test recurring transaction: %v", err)
	}
	return tpl
}

// CreateTestBudget creates a budget row for the given cycle and category.
func CreateTestBudget(t *testing.T, db *gorm.DB, cycleID, categoryID uint, planned int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		CycleID:       cycleID,
		CategoryID:    categoryID,
		PlannedAmount: decimal.NewFromInt(planned),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
