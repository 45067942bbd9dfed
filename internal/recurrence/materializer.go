package recurrence

import (
	"time"

	"github.com/shopspring/decimal"

	"paycycle/internal/dates"
	"paycycle/internal/models"
)

// TransactionDraft is a transaction-creation payload produced from one
// projected occurrence. The materializer performs no existence checks;
// callers dedup against already-persisted planned rows via
// FilterExisting before inserting.
type TransactionDraft struct {
	Date                   string                   `json:"date"`
	Description            string                   `json:"description"`
	Merchant               string                   `json:"merchant"`
	Amount                 decimal.Decimal          `json:"amount"`
	CategoryID             *uint                    `json:"category_id,omitempty"`
	Origin                 models.TransactionOrigin `json:"origin"`
	IsPlanned              bool                     `json:"is_planned"`
	RecurringTransactionID uint                     `json:"recurring_transaction_id"`
	Notes                  string                   `json:"notes,omitempty"`
}

// Materialize projects every active template across the cycle's date
// range and returns one draft per occurrence. Drafts always carry a
// negative amount: recurring templates model expenses.
func Materialize(templates []models.RecurringTransaction, cycle *models.Cycle, paydayDate string, loc *time.Location) ([]TransactionDraft, error) {
	rangeStart, err := dates.Parse(cycle.StartDate, loc)
	if err != nil {
		return nil, err
	}
	rangeEnd, err := dates.Parse(cycle.EndDate, loc)
	if err != nil {
		return nil, err
	}

	drafts := make([]TransactionDraft, 0)
	for i := range templates {
		tpl := &templates[i]
		if !tpl.IsActive {
			continue
		}

		occurrences, err := Occurrences(tpl, rangeStart, rangeEnd, paydayDate)
		if err != nil {
			return nil, err
		}

		for _, occ := range occurrences {
			drafts = append(drafts, TransactionDraft{
				Date:                   dates.Format(occ),
				Description:            tpl.Name,
				Merchant:               tpl.Name,
				Amount:                 tpl.Amount.Abs().Neg(),
				CategoryID:             tpl.CategoryID,
				Origin:                 models.OriginRecurring,
				IsPlanned:              true,
				RecurringTransactionID: tpl.ID,
				Notes:                  tpl.Notes,
			})
		}
	}

	return drafts, nil
}

// FilterExisting drops drafts whose (date, recurring_transaction_id)
// pair already exists among the cycle's planned transactions, making
// re-materialization idempotent even after a partial insert failure.
func FilterExisting(drafts []TransactionDraft, existing []models.Transaction) []TransactionDraft {
	type key struct {
		date       string
		templateID uint
	}
	seen := make(map[key]bool, len(existing))
	for i := range existing {
		tx := &existing[i]
		if tx.IsPlanned && tx.RecurringTransactionID != nil {
			seen[key{tx.Date, *tx.RecurringTransactionID}] = true
		}
	}

	fresh := make([]TransactionDraft, 0, len(drafts))
	for _, d := range drafts {
		if !seen[key{d.Date, d.RecurringTransactionID}] {
			fresh = append(fresh, d)
		}
	}
	return fresh
}
