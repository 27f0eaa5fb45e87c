package storage

import (
	"sort"
	"time"

	"github.com/fatali-fataliyev/thriftier/internal/expense"
	"github.com/shopspring/decimal"
)

type dbExpense struct {
	ID       string
	UserID   string
	Amount   decimal.Decimal
	Category string
	Date     time.Time
}

func (e dbExpense) toEntry() expense.Entry {
	return expense.Entry{
		ID:       e.ID,
		UserID:   e.UserID,
		Amount:   e.Amount,
		Category: e.Category,
		Date:     expense.DateOnly(e.Date),
	}
}

// jsonLedger is the layout of the flat file: {"expenses": [...]}.
type jsonLedger struct {
	Expenses []jsonExpense `json:"expenses"`
}

type jsonExpense struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

func newJSONExpense(e expense.Entry) jsonExpense {
	return jsonExpense{
		ID:       e.ID,
		UserID:   e.UserID,
		Amount:   e.Amount.StringFixed(2),
		Category: e.Category,
		Date:     e.Date.Format(expense.DateLayout),
	}
}

func (e jsonExpense) toEntry() (expense.Entry, error) {
	amount, err := decimal.NewFromString(e.Amount)
	if err != nil {
		return expense.Entry{}, err
	}
	date, err := time.Parse(expense.DateLayout, e.Date)
	if err != nil {
		return expense.Entry{}, err
	}
	return expense.Entry{
		ID:       e.ID,
		UserID:   e.UserID,
		Amount:   amount,
		Category: e.Category,
		Date:     date,
	}, nil
}

// sortByDate keeps insertion order among entries of the same day.
func sortByDate(entries []expense.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
}
