// Package metrics computes the per-cycle spending snapshot the rest of
// the application displays. Compute is pure: the current instant, the
// reference timezone, and every entity collection are passed in
// explicitly, and partial data yields no metrics rather than wrong ones.
package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"paycycle/internal/dates"
	"paycycle/internal/models"
	"paycycle/internal/recurrence"
)

// weekendCountCap bounds the Saturday-counting loop; a cycle is at most
// five weekends long, so ten is generous.
const weekendCountCap = 10

// BudgetCategoryMetric is one row of the per-category variance breakdown.
type BudgetCategoryMetric struct {
	Category    models.Category `json:"category"`
	Planned     decimal.Decimal `json:"planned"`
	Actual      decimal.Decimal `json:"actual"`
	Variance    decimal.Decimal `json:"variance"`
	PercentUsed float64         `json:"percent_used"`
}

// CycleMetrics is the derived snapshot for one cycle. It is never
// persisted.
//
// SafeToSpend (daily, reserved against the target end balance) and
// SafeToSpendPerWeekend (weekend-based, from remaining discretionary)
// overlap in purpose; both are reported pending a product decision on
// which drives the headline figure.
type CycleMetrics struct {
	TotalSpend               decimal.Decimal        `json:"total_spend"`
	TotalIncome              decimal.Decimal        `json:"total_income"`
	PlannedExpenses          decimal.Decimal        `json:"planned_expenses"`
	CurrentBalance           decimal.Decimal        `json:"current_balance"`
	ActualDiscretionarySpend decimal.Decimal        `json:"actual_discretionary_spend"`
	RemainingDiscretionary   decimal.Decimal        `json:"remaining_discretionary"`
	WeekendsRemaining        int                    `json:"weekends_remaining"`
	SafeToSpendPerWeekend    decimal.Decimal        `json:"safe_to_spend_per_weekend"`
	ExpectedEndBalance       decimal.Decimal        `json:"expected_end_balance"`
	TargetVariance           decimal.Decimal        `json:"target_variance"`
	DaysRemaining            int                    `json:"days_remaining"`
	SafeToSpend              decimal.Decimal        `json:"safe_to_spend"`
	BudgetByCategory         []BudgetCategoryMetric `json:"budget_by_category"`
}

// Compute aggregates a cycle's transactions, budgets, and recurring
// templates into a CycleMetrics snapshot. Returns nil when no cycle is
// available: callers must treat that as "not ready", not as zeros.
func Compute(
	cycle *models.Cycle,
	transactions []models.Transaction,
	budgets []models.Budget,
	categories []models.Category,
	templates []models.RecurringTransaction,
	paydayDate string,
	now time.Time,
	loc *time.Location,
) (*CycleMetrics, error) {
	if cycle == nil {
		return nil, nil
	}

	var actual, planned []models.Transaction
	for _, tx := range transactions {
		if tx.IsPlanned {
			planned = append(planned, tx)
		} else {
			actual = append(actual, tx)
		}
	}

	zero := decimal.Zero
	totalSpend, totalIncome, actualNet := zero, zero, zero
	for _, tx := range actual {
		actualNet = actualNet.Add(tx.Amount)
		if tx.Amount.IsNegative() {
			totalSpend = totalSpend.Add(tx.Amount.Abs())
		} else if tx.Amount.IsPositive() {
			totalIncome = totalIncome.Add(tx.Amount)
		}
	}

	plannedExpenses, err := plannedExpenseTotal(cycle, planned, templates, paydayDate, loc)
	if err != nil {
		return nil, err
	}

	baseBudget := cycle.StartingBalance.Add(cycle.EffectiveIncome())
	currentBalance := baseBudget.Add(actualNet)

	// Planned and recurring items are a reservation, not a realized
	// change, so they reduce discretionary room but not the balance.
	remainingDiscretionary := currentBalance.Sub(plannedExpenses)

	weekends, err := weekendsRemaining(now, cycle.EndDate, loc)
	if err != nil {
		return nil, err
	}
	safePerWeekend := remainingDiscretionary.Div(decimal.NewFromInt(int64(weekends)))

	expectedEndBalance := currentBalance
	targetVariance := expectedEndBalance.Sub(cycle.TargetEndBalance)

	daysRemaining, err := dates.DaysUntilInclusive(now, cycle.EndDate, loc)
	if err != nil {
		return nil, err
	}

	remainingAfterPlanned := expectedEndBalance.Sub(cycle.TargetEndBalance).Sub(plannedExpenses)
	safeToSpend := decimal.Zero
	if daysRemaining > 0 {
		safeToSpend = remainingAfterPlanned.Div(decimal.NewFromInt(int64(daysRemaining)))
	}

	return &CycleMetrics{
		TotalSpend:               totalSpend,
		TotalIncome:              totalIncome,
		PlannedExpenses:          plannedExpenses,
		CurrentBalance:           currentBalance,
		ActualDiscretionarySpend: totalSpend,
		RemainingDiscretionary:   remainingDiscretionary,
		WeekendsRemaining:        weekends,
		SafeToSpendPerWeekend:    safePerWeekend,
		ExpectedEndBalance:       expectedEndBalance,
		TargetVariance:           targetVariance,
		DaysRemaining:            daysRemaining,
		SafeToSpend:              safeToSpend,
		BudgetByCategory:         budgetBreakdown(budgets, categories, actual),
	}, nil
}

// plannedExpenseTotal sums planned expense rows when any exist for the
// cycle. Otherwise it falls back to projecting every active template
// across the cycle: right after a template is added no planned rows
// exist yet, but safe-to-spend should already reflect the commitment.
func plannedExpenseTotal(
	cycle *models.Cycle,
	planned []models.Transaction,
	templates []models.RecurringTransaction,
	paydayDate string,
	loc *time.Location,
) (decimal.Decimal, error) {
	if len(planned) > 0 {
		total := decimal.Zero
		for _, tx := range planned {
			if tx.Amount.IsNegative() {
				total = total.Add(tx.Amount.Abs())
			}
		}
		return total, nil
	}

	rangeStart, err := dates.Parse(cycle.StartDate, loc)
	if err != nil {
		return decimal.Zero, err
	}
	rangeEnd, err := dates.Parse(cycle.EndDate, loc)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i := range templates {
		tpl := &templates[i]
		if !tpl.IsActive {
			continue
		}
		occurrences, err := recurrence.Occurrences(tpl, rangeStart, rangeEnd, paydayDate)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(tpl.Amount.Abs().Mul(decimal.NewFromInt(int64(len(occurrences)))))
	}
	return total, nil
}

// weekendsRemaining counts Saturdays from today through the cycle end,
// both inclusive. A Sunday "today" still counts the current weekend.
// Floored at 1 so per-weekend division never divides by zero.
func weekendsRemaining(now time.Time, endDate string, loc *time.Location) (int, error) {
	end, err := dates.Parse(endDate, loc)
	if err != nil {
		return 0, err
	}

	today := dates.AtNoon(now, loc)
	count := 0
	if today.Weekday() == time.Sunday {
		count++
	}

	saturday := today
	for saturday.Weekday() != time.Saturday {
		saturday = saturday.AddDate(0, 0, 1)
	}
	for i := 0; i < weekendCountCap && !dates.After(saturday, end); i++ {
		count++
		saturday = saturday.AddDate(0, 0, 7)
	}

	if count < 1 {
		count = 1
	}
	return count, nil
}

// budgetBreakdown computes per-category actual spend against each budget
// row. Budget rows whose category cannot be resolved are dropped.
func budgetBreakdown(budgets []models.Budget, categories []models.Category, actual []models.Transaction) []BudgetCategoryMetric {
	byID := make(map[uint]models.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}

	breakdown := make([]BudgetCategoryMetric, 0, len(budgets))
	for _, b := range budgets {
		category, ok := byID[b.CategoryID]
		if !ok {
			continue
		}

		spent := decimal.Zero
		for _, tx := range actual {
			if tx.CategoryID != nil && *tx.CategoryID == b.CategoryID && tx.Amount.IsNegative() {
				spent = spent.Add(tx.Amount.Abs())
			}
		}

		percentUsed := 0.0
		if b.PlannedAmount.IsPositive() {
			percentUsed, _ = spent.Div(b.PlannedAmount).Mul(decimal.NewFromInt(100)).Float64()
		}

		breakdown = append(breakdown, BudgetCategoryMetric{
			Category:    category,
			Planned:     b.PlannedAmount,
			Actual:      spent,
			Variance:    b.PlannedAmount.Sub(spent),
			PercentUsed: percentUsed,
		})
	}
	return breakdown
}
