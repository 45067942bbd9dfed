package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"paycycle/internal/models"
	"paycycle/internal/testutil"
)

func sydney(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return loc
}

func intPtr(n int) *int { return &n }

func uintPtr(n uint) *uint { return &n }

// marchCycle is the reference cycle used across these tests:
// 2024-03-15 through 2024-04-14, $1000 starting balance, $3000 planned
// income, $500 target end balance.
func marchCycle() *models.Cycle {
	return &models.Cycle{
		Base:             models.Base{ID: 1},
		StartDate:        "2024-03-15",
		EndDate:          "2024-04-14",
		StartingBalance:  decimal.NewFromInt(1000),
		IncomePlanned:    decimal.NewFromInt(3000),
		TargetEndBalance: decimal.NewFromInt(500),
		Status:           models.CycleStatusOpen,
	}
}

func fridayTemplate() models.RecurringTransaction {
	return models.RecurringTransaction{
		Base:      models.Base{ID: 7},
		Name:      "Groceries",
		Amount:    decimal.NewFromInt(50),
		Frequency: models.FrequencyWeekly,
		DayOfWeek: intPtr(5),
		IsActive:  true,
	}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s = %s, want %d", name, got, want)
	}
}

func TestComputeNoCycle(t *testing.T) {
	loc := sydney(t)
	now := time.Date(2024, 3, 20, 10, 0, 0, 0, loc)

	m, err := Compute(nil, nil, nil, nil, nil, "", now, loc)
	testutil.AssertNoError(t, err)
	if m != nil {
		t.Error("expected no metrics without a cycle, got a snapshot")
	}
}

func TestComputeTemplateFallback(t *testing.T) {
	loc := sydney(t)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, loc)

	// No transactions at all: planned expenses come from projecting the
	// weekly Friday template across the five Fridays of the cycle.
	templates := []models.RecurringTransaction{fridayTemplate()}
	m, err := Compute(marchCycle(), nil, nil, nil, templates, "", now, loc)
	testutil.AssertNoError(t, err)
	if m == nil {
		t.Fatal("expected metrics, got nil")
	}

	assertDecimal(t, "PlannedExpenses", m.PlannedExpenses, 250)
	assertDecimal(t, "CurrentBalance", m.CurrentBalance, 4000)
	assertDecimal(t, "RemainingDiscretionary", m.RemainingDiscretionary, 3750)
	assertDecimal(t, "ExpectedEndBalance", m.ExpectedEndBalance, 4000)
	assertDecimal(t, "TargetVariance", m.TargetVariance, 3500)
}

func TestComputePlannedRowsWinOverTemplates(t *testing.T) {
	loc := sydney(t)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, loc)

	// One materialized planned row exists, so the template projection
	// must not be consulted at all.
	templates := []models.RecurringTransaction{fridayTemplate()}
	transactions := []models.Transaction{
		{CycleID: 1, Date: "2024-03-22", Amount: decimal.NewFromInt(-50), IsPlanned: true, RecurringTransactionID: uintPtr(7)},
	}

	m, err := Compute(marchCycle(), transactions, nil, nil, templates, "", now, loc)
	testutil.AssertNoError(t, err)

	assertDecimal(t, "PlannedExpenses", m.PlannedExpenses, 50)
}

func TestComputeActualSpend(t *testing.T) {
	loc := sydney(t)
	now := time.Date(2024, 3, 21, 10, 0, 0, 0, loc)

	transactions := []models.Transaction{
		{CycleID: 1, Date: "2024-03-20", Amount: decimal.NewFromInt(-120)},
	}

	m, err := Compute(marchCycle(), transactions, nil, nil, nil, "", now, loc)
	testutil.AssertNoError(t, err)

	assertDecimal(t, "TotalSpend", m.TotalSpend, 120)
	assertDecimal(t, "ActualDiscretionarySpend", m.ActualDiscretionarySpend, 120)
	assertDecimal(t, "CurrentBalance", m.CurrentBalance, 3880)
	assertDecimal(t, "TargetVariance", m.TargetVariance, 3380)
}

func TestComputeExpenseMonotonicity(t *testing.T) {
	loc := sydney(t)
	now := time.Date(2024, 3, 21, 10, 0, 0, 0, loc)
	templates := []models.RecurringTransaction{fridayTemplate()}

	before, err := Compute(marchCycle(), nil, nil, nil, templates, "", now, loc)
	testutil.AssertNoError(t, err)

	transactions := []models.Transaction{
		{CycleID: 1, Date: "2024-03-20", Amount: decimal.NewFromInt(-75)},
	}
	after, err := Compute(marchCycle(), transactions, nil, nil, templates, "", now, loc)
	testutil.AssertNoError(t, err)

	magnitude := decimal.NewFromInt(75)
	if !before.CurrentBalance.Sub(after.CurrentBalance).Equal(magnitude) {
		t.Errorf("CurrentBalance dropped by %s, want 75", before.CurrentBalance.Sub(after.CurrentBalance))
	}
	if !before.RemainingDiscretionary.Sub(after.RemainingDiscretionary).Equal(magnitude) {
		t.Errorf("RemainingDiscretionary dropped by %s, want 75", before.RemainingDiscretionary.Sub(after.RemainingDiscretionary))
	}
	if !before.PlannedExpenses.Equal(after.PlannedExpenses) {
		t.Errorf("PlannedExpenses changed from %s to %s", before.PlannedExpenses, after.PlannedExpenses)
	}
}

func TestComputeIncomeActualFallback(t *testing.T) {
	loc := sydney(t)
	now := time.Date(2024, 3, 21, 10, 0, 0, 0, loc)

	t.Run("uses_actual_when_recorded", func(t *testing.T) {
		cycle := marchCycle()
		actualIncome := decimal.NewFromInt(3200)
		cycle.IncomeActual = &actualIncome

		m, err := Compute(cycle, nil, nil, nil, nil, "", now, loc)
		testutil.AssertNoError(t, err)
		assertDecimal(t, "CurrentBalance", m.CurrentBalance, 4200)
	})

	t.Run("falls_back_to_planned", func(t *testing.T) {
		m, err := Compute(marchCycle(), nil, nil, nil, nil, "", now, loc)
		testutil.AssertNoError(t, err)
		assertDecimal(t, "CurrentBalance", m.CurrentBalance, 4000)
	})
}

func TestComputePaydayExclusionInFallback(t *testing.T) {
	loc := sydney(t)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, loc)
	templates := []models.RecurringTransaction{fridayTemplate()}

	// Payday on the 2024-03-29 Friday removes one of the five
	// occurrences from the projection.
	m, err := Compute(marchCycle(), nil, nil, nil, templates, "2024-03-29", now, loc)
	testutil.AssertNoError(t, err)
	assertDecimal(t, "PlannedExpenses", m.PlannedExpenses, 200)
}

func TestDaysAndSafeToSpend(t *testing.T) {
	loc := sydney(t)

	t.Run("days_remaining_inclusive", func(t *testing.T) {
		now := time.Date(2024, 4, 10, 9, 0, 0, 0, loc)
		m, err := Compute(marchCycle(), nil, nil, nil, nil, "", now, loc)
		testutil.AssertNoError(t, err)
		if m.DaysRemaining != 5 {
			t.Errorf("DaysRemaining = %d, want 5", m.DaysRemaining)
		}
		// (4000 - 500 - 0) / 5
		assertDecimal(t, "SafeToSpend", m.SafeToSpend, 700)
	})

	t.Run("zero_days_means_zero_safe_to_spend", func(t *testing.T) {
		now := time.Date(2024, 4, 20, 9, 0, 0, 0, loc)
		m, err := Compute(marchCycle(), nil, nil, nil, nil, "", now, loc)
		testutil.AssertNoError(t, err)
		if m.DaysRemaining != 0 {
			t.Errorf("DaysRemaining = %d, want 0", m.DaysRemaining)
		}
		if !m.SafeToSpend.IsZero() {
			t.Errorf("SafeToSpend = %s, want 0", m.SafeToSpend)
		}
	})
}

func TestWeekendsRemaining(t *testing.T) {
	loc := sydney(t)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		// Saturdays left in the cycle: 3/16, 3/23, 3/30, 4/6, 4/13.
		{"cycle_start", time.Date(2024, 3, 15, 9, 0, 0, 0, loc), 5},
		{"saturday_counts_itself", time.Date(2024, 3, 16, 9, 0, 0, 0, loc), 5},
		{"sunday_keeps_current_weekend", time.Date(2024, 3, 17, 9, 0, 0, 0, loc), 5},
		{"midweek_after_first_weekend", time.Date(2024, 3, 19, 9, 0, 0, 0, loc), 4},
		{"floors_at_one_after_last_saturday", time.Date(2024, 4, 14, 9, 0, 0, 0, loc), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Compute(marchCycle(), nil, nil, nil, nil, "", tc.now, loc)
			testutil.AssertNoError(t, err)
			if m.WeekendsRemaining != tc.want {
				t.Errorf("WeekendsRemaining = %d, want %d", m.WeekendsRemaining, tc.want)
			}
		})
	}

	t.Run("per_weekend_division", func(t *testing.T) {
		now := time.Date(2024, 3, 15, 9, 0, 0, 0, loc)
		templates := []models.RecurringTransaction{fridayTemplate()}
		m, err := Compute(marchCycle(), nil, nil, nil, templates, "", now, loc)
		testutil.AssertNoError(t, err)
		// 3750 remaining discretionary across 5 weekends.
		assertDecimal(t, "SafeToSpendPerWeekend", m.SafeToSpendPerWeekend, 750)
	})
}

func TestBudgetBreakdown(t *testing.T) {
	loc := sydney(t)
	now := time.Date(2024, 3, 21, 10, 0, 0, 0, loc)

	categories := []models.Category{
		{Base: models.Base{ID: 10}, Name: "Groceries", Type: models.CategoryTypeNeed},
		{Base: models.Base{ID: 11}, Name: "Fun", Type: models.CategoryTypeWant},
	}

	t.Run("variance_and_percent", func(t *testing.T) {
		budgets := []models.Budget{
			{CycleID: 1, CategoryID: 10, PlannedAmount: decimal.NewFromInt(400)},
		}
		transactions := []models.Transaction{
			{CycleID: 1, Date: "2024-03-18", Amount: decimal.NewFromInt(-100), CategoryID: uintPtr(10)},
			{CycleID: 1, Date: "2024-03-19", Amount: decimal.NewFromInt(-50), CategoryID: uintPtr(10)},
			// Planned rows must not count toward actuals.
			{CycleID: 1, Date: "2024-03-20", Amount: decimal.NewFromInt(-30), CategoryID: uintPtr(10), IsPlanned: true},
			// Other category.
			{CycleID: 1, Date: "2024-03-20", Amount: decimal.NewFromInt(-25), CategoryID: uintPtr(11)},
		}

		m, err := Compute(marchCycle(), transactions, budgets, categories, nil, "", now, loc)
		testutil.AssertNoError(t, err)

		if len(m.BudgetByCategory) != 1 {
			t.Fatalf("expected 1 breakdown row, got %d", len(m.BudgetByCategory))
		}
		row := m.BudgetByCategory[0]
		assertDecimal(t, "Actual", row.Actual, 150)
		assertDecimal(t, "Variance", row.Variance, 250)
		if row.PercentUsed != 37.5 {
			t.Errorf("PercentUsed = %v, want 37.5", row.PercentUsed)
		}
	})

	t.Run("zero_planned_amount_gives_zero_percent", func(t *testing.T) {
		budgets := []models.Budget{
			{CycleID: 1, CategoryID: 10, PlannedAmount: decimal.Zero},
		}
		transactions := []models.Transaction{
			{CycleID: 1, Date: "2024-03-18", Amount: decimal.NewFromInt(-100), CategoryID: uintPtr(10)},
		}

		m, err := Compute(marchCycle(), transactions, budgets, categories, nil, "", now, loc)
		testutil.AssertNoError(t, err)

		if m.BudgetByCategory[0].PercentUsed != 0 {
			t.Errorf("PercentUsed = %v, want 0 for zero planned amount", m.BudgetByCategory[0].PercentUsed)
		}
	})

	t.Run("drops_unresolvable_category", func(t *testing.T) {
		budgets := []models.Budget{
			{CycleID: 1, CategoryID: 999, PlannedAmount: decimal.NewFromInt(100)},
		}

		m, err := Compute(marchCycle(), nil, budgets, categories, nil, "", now, loc)
		testutil.AssertNoError(t, err)

		if len(m.BudgetByCategory) != 0 {
			t.Errorf("expected unresolvable budget row dropped, got %d rows", len(m.BudgetByCategory))
		}
	})
}
