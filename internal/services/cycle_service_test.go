package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"paycycle/internal/models"
	"paycycle/internal/pagination"
	"paycycle/internal/testutil"
)

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return loc
}

func TestCreateCycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewCycleService(db, testLocation(t))
	user := testutil.CreateTestUser(t, db)

	cycle, err := service.CreateCycle(user.ID, "2024-03-15", "2024-04-14",
		decimal.NewFromInt(1000), decimal.NewFromInt(3000), decimal.NewFromInt(500))
	testutil.AssertNoError(t, err)

	if cycle.Status != models.CycleStatusOpen {
		t.Errorf("expected new cycle to be open, got %q", cycle.Status)
	}
	if cycle.StartDate != "2024-03-15" || cycle.EndDate != "2024-04-14" {
		t.Errorf("unexpected cycle window %s to %s", cycle.StartDate, cycle.EndDate)
	}
}

func TestCreateCycleRejectsSecondOpen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewCycleService(db, testLocation(t))
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestCycle(t, db, user.ID)

	_, err := service.CreateCycle(user.ID, "2024-04-15", "2024-05-14",
		decimal.NewFromInt(1000), decimal.NewFromInt(3000), decimal.NewFromInt(500))
	testutil.AssertAppError(t, err, "OPEN_CYCLE_EXISTS")
}

func TestCreateCycleAllowedAfterClose(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewCycleService(db, testLocation(t))
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestCycleWithDates(t, db, user.ID, "2024-02-15", "2024-03-14", models.CycleStatusClosed)

	_, err := service.CreateCycle(user.ID, "2024-03-15", "2024-04-14",
		decimal.NewFromInt(1000), decimal.NewFromInt(3000), decimal.NewFromInt(500))
	testutil.AssertNoError(t, err)
}

func TestCreateCycleInvalidRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewCycleService(db, testLocation(t))
	user := testutil.CreateTestUser(t, db)

	_, err := service.CreateCycle(user.ID, "2024-04-14", "2024-03-15",
		decimal.NewFromInt(1000), decimal.NewFromInt(3000), decimal.NewFromInt(500))
	testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")

	_, err = service.CreateCycle(user.ID, "15/03/2024", "2024-04-14",
		decimal.NewFromInt(1000), decimal.NewFromInt(3000), decimal.NewFromInt(500))
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestGetOpenCycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewCycleService(db, testLocation(t))
	user := testutil.CreateTestUser(t, db)

	_, err := service.GetOpenCycle(user.ID)
	testutil.AssertAppError(t, err, "NO_OPEN_CYCLE")

	created := testutil.CreateTestCycle(t, db, user.ID)
	cycle, err := service.GetOpenCycle(user.ID)
	testutil.AssertNoError(t, err)
	if cycle.ID != created.ID {
		t.Errorf("expected cycle %d, got %d", created.ID, cycle.ID)
	}
}

func TestGetCycleByIDScopedToUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewCycleService(db, testLocation(t))
	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	cycle := testutil.CreateTestCycle(t, db, owner.ID)

	_, err := service.GetCycleByID(other.ID, cycle.ID)
	testutil.AssertAppError(t, err, "CYCLE_NOT_FOUND")
}

func TestGetUserCyclesPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewCycleService(db, testLocation(t))
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestCycleWithDates(t, db, user.ID, "2024-01-15", "2024-02-14", models.CycleStatusClosed)
	testutil.CreateTestCycleWithDates(t, db, user.ID, "2024-02-15", "2024-03-14", models.CycleStatusClosed)
	testutil.CreateTestCycleWithDates(t, db, user.ID, "2024-03-15", "2024-04-14", models.CycleStatusOpen)

	page, err := service.GetUserCycles(user.ID, pagination.PageRequest{Page: 1, PageSize: 2})
	testutil.AssertNoError(t, err)

	if page.TotalItems != 3 {
		t.Errorf("expected 3 total cycles, got %d", page.TotalItems)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 cycles on page, got %d", len(page.Data))
	}
	if page.Data[0].StartDate != "2024-03-15" {
		t.Errorf("expected most recent cycle first, got start %s", page.Data[0].StartDate)
	}
}

func TestUpdateCycleIncomeActual(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewCycleService(db, testLocation(t))
	user := testutil.CreateTestUser(t, db)
	cycle := testutil.CreateTestCycle(t, db, user.ID)

	actual := decimal.NewFromInt(3200)
	updated, err := service.UpdateCycle(user.ID, cycle.ID, CycleUpdate{IncomeActual: &actual})
	testutil.AssertNoError(t, err)

	if !updated.EffectiveIncome().Equal(actual) {
		t.Errorf("expected effective income %s, got %s", actual, updated.EffectiveIncome())
	}
}

func TestCloseAndRollover(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	loc := testLocation(t)
	service := NewCycleService(db, loc)
	user := testutil.CreateTestUser(t, db)
	cycle := testutil.CreateTestCycle(t, db, user.ID)

	// One actual expense and one planned row; only the actual counts
	// toward the closing balance.
	testutil.CreateTestTransaction(t, db, user.ID, cycle.ID, "2024-03-20", -200)
	planned := testutil.CreateTestTransaction(t, db, user.ID, cycle.ID, "2024-04-01", -500)
	if err := db.Model(planned).Update("is_planned", true).Error; err != nil {
		t.Fatalf("failed to mark planned: %v", err)
	}

	now := time.Date(2024, time.April, 15, 9, 0, 0, 0, loc)
	next, err := service.CloseAndRollover(user.ID, now)
	testutil.AssertNoError(t, err)

	// 1000 starting + 3000 planned income - 200 actual spend.
	expected := decimal.NewFromInt(3800)
	if !next.StartingBalance.Equal(expected) {
		t.Errorf("expected rollover balance %s, got %s", expected, next.StartingBalance)
	}
	if next.StartDate != "2024-04-15" || next.EndDate != "2024-05-14" {
		t.Errorf("unexpected next window %s to %s", next.StartDate, next.EndDate)
	}

	var closed models.Cycle
	if err := db.First(&closed, cycle.ID).Error; err != nil {
		t.Fatalf("failed to reload closed cycle: %v", err)
	}
	if closed.Status != models.CycleStatusClosed {
		t.Errorf("expected prior cycle closed, got %q", closed.Status)
	}

	open, err := service.GetOpenCycle(user.ID)
	testutil.AssertNoError(t, err)
	if open.ID != next.ID {
		t.Errorf("expected open cycle %d, got %d", next.ID, open.ID)
	}
}
