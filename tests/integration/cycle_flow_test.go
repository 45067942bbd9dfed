package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCycleLifecycle(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "alice@example.com", "password123")

	cycleID := app.createCycle(t, token, "2024-03-15", "2024-04-14")

	// A second open cycle is rejected.
	body := `{"start_date":"2024-04-15","end_date":"2024-05-14","starting_balance":"0","income_planned":"0","target_end_balance":"0"}`
	rec := app.request("POST", "/api/v1/cycles", body, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second open cycle, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "OPEN_CYCLE_EXISTS" {
		t.Fatalf("expected code OPEN_CYCLE_EXISTS, got %q", code)
	}

	// The open cycle is reachable at /cycles/current.
	rec = app.request("GET", "/api/v1/cycles/current", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for current cycle, got %d", rec.Code)
	}
	current := parseJSON(t, rec)["cycle"].(map[string]interface{})
	if current["id"].(float64) != cycleID {
		t.Fatalf("expected current cycle %v, got %v", cycleID, current["id"])
	}
	if current["start_date"] != "2024-03-15" || current["end_date"] != "2024-04-14" {
		t.Fatalf("unexpected cycle window: %v to %v", current["start_date"], current["end_date"])
	}

	// Record actual income for the cycle.
	rec = app.request("PATCH", fmt.Sprintf("/api/v1/cycles/%.0f", cycleID), `{"income_actual":"3200"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating cycle, got %d: %s", rec.Code, rec.Body.String())
	}

	// Spend 150 during the cycle.
	txBody := fmt.Sprintf(`{"cycle_id":%.0f,"date":"2024-03-20","description":"Groceries","amount":"-150"}`, cycleID)
	rec = app.request("POST", "/api/v1/transactions", txBody, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating transaction, got %d: %s", rec.Code, rec.Body.String())
	}

	// Close and roll over: 1000 + 3200 - 150 = 4050 starting balance.
	rec = app.request("POST", "/api/v1/cycles/close", "", token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 closing cycle, got %d: %s", rec.Code, rec.Body.String())
	}
	next := parseJSON(t, rec)["cycle"].(map[string]interface{})
	if next["starting_balance"] != "4050" {
		t.Fatalf("expected starting balance 4050 on next cycle, got %v", next["starting_balance"])
	}
	if next["status"] != "open" {
		t.Fatalf("expected next cycle open, got %v", next["status"])
	}
	if next["income_planned"] != "3000" {
		t.Fatalf("expected inherited planned income 3000, got %v", next["income_planned"])
	}

	// The old cycle is now closed.
	rec = app.request("GET", fmt.Sprintf("/api/v1/cycles/%.0f", cycleID), "", token)
	old := parseJSON(t, rec)["cycle"].(map[string]interface{})
	if old["status"] != "closed" {
		t.Fatalf("expected closed status, got %v", old["status"])
	}
}

func TestCloseWithoutOpenCycle(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "alice@example.com", "password123")

	rec := app.request("POST", "/api/v1/cycles/close", "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without an open cycle, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "NO_OPEN_CYCLE" {
		t.Fatalf("expected code NO_OPEN_CYCLE, got %q", code)
	}
}

func TestCyclesAreUserScoped(t *testing.T) {
	app := setupApp(t)
	aliceToken, _, _ := app.registerUser(t, "alice@example.com", "password123")
	bobToken, _, _ := app.registerUser(t, "bob@example.com", "password123")

	cycleID := app.createCycle(t, aliceToken, "2024-03-15", "2024-04-14")

	rec := app.request("GET", fmt.Sprintf("/api/v1/cycles/%.0f", cycleID), "", bobToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's cycle, got %d", rec.Code)
	}

	// Bob can still open his own cycle over the same window.
	rec = app.request("POST", "/api/v1/cycles",
		`{"start_date":"2024-03-15","end_date":"2024-04-14","starting_balance":"0","income_planned":"0","target_end_balance":"0"}`, bobToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for bob's cycle, got %d: %s", rec.Code, rec.Body.String())
	}
}
