package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout               = "2006-01-02"
	MAX_CATEGORY_NAME_LENGTH = 255
)

// Accepted range of decimal exponents for entered amounts.
const (
	minAmountExponent = -20
	maxAmountExponent = 10
)

// MaxAmount is the largest value a DECIMAL(10,2) column holds.
var MaxAmount = decimal.RequireFromString("99999999.99")

type DeleteMode string

const (
	DeleteByID    DeleteMode = "id"
	DeleteByMatch DeleteMode = "match"
)

func (m DeleteMode) IsValid() bool {
	return m == DeleteByID || m == DeleteByMatch
}

// REQUESTS:

type AddExpenseRequest struct {
	Amount   decimal.Decimal
	Category string
	Date     time.Time
}

// MODELS:

// Entry is one recorded expense. ID is a surrogate key; the remaining
// fields form the tuple the original ledger used as identity.
type Entry struct {
	ID       string
	UserID   string
	Amount   decimal.Decimal
	Category string
	Date     time.Time
}

// Matches reports whether both entries carry the same user, amount,
// category and calendar date.
func (e Entry) Matches(other Entry) bool {
	return e.UserID == other.UserID &&
		e.Amount.Equal(other.Amount) &&
		e.Category == other.Category &&
		DateOnly(e.Date).Equal(DateOnly(other.Date))
}

// DateRange is an inclusive pair of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// CategoryTotals keeps categories in the order they were first seen.
type CategoryTotals []CategoryTotal

func (ct CategoryTotals) Get(category string) (decimal.Decimal, bool) {
	for _, total := range ct {
		if total.Category == category {
			return total.Amount, true
		}
	}
	return decimal.Zero, false
}
