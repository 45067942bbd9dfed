package services

import (
	"time"

	"github.com/shopspring/decimal"

	"paycycle/internal/dates"
	"paycycle/internal/metrics"
	"paycycle/internal/models"
	"paycycle/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// CycleUpdate holds the optional fields an explicit cycle edit may change.
type CycleUpdate struct {
	StartingBalance  *decimal.Decimal
	IncomePlanned    *decimal.Decimal
	IncomeActual     *decimal.Decimal
	TargetEndBalance *decimal.Decimal
}

// CycleServicer defines the contract for cycle-related business logic.
type CycleServicer interface {
	CreateCycle(userID uint, startDate, endDate string, startingBalance, incomePlanned, targetEndBalance decimal.Decimal) (*models.Cycle, error)
	GetUserCycles(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Cycle], error)
	GetCycleByID(userID, cycleID uint) (*models.Cycle, error)
	GetOpenCycle(userID uint) (*models.Cycle, error)
	UpdateCycle(userID, cycleID uint, update CycleUpdate) (*models.Cycle, error)
	CurrentCycleDates(now time.Time) dates.CycleDates
	CloseAndRollover(userID uint, now time.Time) (*models.Cycle, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, categoryType models.CategoryType, icon string, sortOrder int) (*models.Category, error)
	GetUserCategories(userID uint) ([]models.Category, error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name string, categoryType *models.CategoryType, icon *string, sortOrder *int) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   string
	ToDate     string
	CategoryID *uint
	IsPlanned  *bool
	Origin     *models.TransactionOrigin
}

// TransactionInput carries the fields needed to create one transaction.
type TransactionInput struct {
	CycleID     uint
	Date        string
	Description string
	Merchant    string
	Amount      decimal.Decimal
	CategoryID  *uint
	Origin      models.TransactionOrigin
	Notes       string
	IsPlanned   bool
	ImportHash  *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, input TransactionInput) (*models.Transaction, error)
	GetCycleTransactions(userID, cycleID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, description *string, categoryID *uint, notes *string) (*models.Transaction, error)
	MarkAsPaid(userID, transactionID uint) (*models.Transaction, error)
	BulkCategorize(userID uint, transactionIDs []uint, categoryID uint) error
	DeleteTransaction(userID, transactionID uint) error
	ConvertDuePlanned(userID uint, now time.Time) (int, error)
}

// BudgetServicer defines the contract for per-cycle category budgets.
type BudgetServicer interface {
	UpsertBudget(userID, cycleID, categoryID uint, plannedAmount decimal.Decimal) (*models.Budget, error)
	GetCycleBudgets(userID, cycleID uint) ([]models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
}

// RecurringInput carries the fields of a recurring transaction template.
type RecurringInput struct {
	Name       string
	Amount     decimal.Decimal
	CategoryID *uint
	Frequency  models.RecurrenceFrequency
	DayOfWeek  *int
	DayOfMonth *int
	IsActive   bool
	Notes      string
}

// RecurringServicer defines the contract for recurring transaction templates.
type RecurringServicer interface {
	CreateRecurring(userID uint, input RecurringInput) (*models.RecurringTransaction, error)
	GetUserRecurring(userID uint) ([]models.RecurringTransaction, error)
	GetRecurringByID(userID, recurringID uint) (*models.RecurringTransaction, error)
	UpdateRecurring(userID, recurringID uint, input RecurringInput) (*models.RecurringTransaction, error)
	DeleteRecurring(userID, recurringID uint) error
	GeneratePlanned(userID, cycleID uint) ([]models.Transaction, error)
}

// SettingServicer defines the contract for per-user settings.
type SettingServicer interface {
	GetPaydayDate(userID uint) (string, error)
	SetPaydayDate(userID uint, paydayDate *string) error
}

// MerchantRuleServicer defines the contract for merchant categorization rules.
type MerchantRuleServicer interface {
	CreateRule(userID uint, merchantMatch string, defaultCategoryID uint) (*models.MerchantRule, error)
	GetUserRules(userID uint) ([]models.MerchantRule, error)
	DeleteRule(userID, ruleID uint) error
	MatchCategory(userID uint, merchant string) (*models.Category, error)
}

// MetricsServicer assembles the inputs for and computes cycle metrics.
type MetricsServicer interface {
	GetOpenCycleMetrics(userID uint, now time.Time) (*metrics.CycleMetrics, error)
	GetCycleMetrics(userID, cycleID uint, now time.Time) (*metrics.CycleMetrics, error)
}
