package expense

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	appErrors "github.com/fatali-fataliyev/thriftier/errors"
	"github.com/fatali-fataliyev/thriftier/internal/contextutil"
	"github.com/fatali-fataliyev/thriftier/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	InvalidAmountMessage   = "You have entered an invalid amount. Please try again!"
	InvalidCategoryMessage = "You have entered an invalid category. Please try again!"
	ExpenseGoneMessage     = "The selected expense no longer exists."
)

type Storage interface {
	SaveExpense(ctx context.Context, entry Entry) error
	GetExpensesInRange(ctx context.Context, userID string, dateRange DateRange) ([]Entry, error)
	DeleteExpense(ctx context.Context, userID string, entryID string) (int64, error)
	DeleteExpenseMatching(ctx context.Context, userID string, entry Entry) (int64, error)
	GetStorageType() string
}

type ExpenseTracker struct {
	storage     Storage
	StorageType string
	deleteMode  DeleteMode
	now         func() time.Time
}

type Option func(*ExpenseTracker)

func WithDeleteMode(mode DeleteMode) Option {
	return func(et *ExpenseTracker) {
		et.deleteMode = mode
	}
}

func WithClock(now func() time.Time) Option {
	return func(et *ExpenseTracker) {
		et.now = now
	}
}

func NewExpenseTracker(s Storage, opts ...Option) *ExpenseTracker {
	et := &ExpenseTracker{
		storage:     s,
		StorageType: s.GetStorageType(),
		deleteMode:  DeleteByID,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(et)
	}
	return et
}

// ParseAmount accepts any decimal literal whose value fits the ledger column.
func ParseAmount(token string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(token))
	if err != nil {
		return decimal.Zero, appErrors.Feedback(appErrors.ErrInvalidAmount, InvalidAmountMessage)
	}
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// ValidateAmount checks the exponent before any arithmetic, since rescaling
// a decimal costs time and memory proportional to its exponent.
func ValidateAmount(amount decimal.Decimal) error {
	if exp := amount.Exponent(); exp < minAmountExponent || exp > maxAmountExponent {
		return appErrors.Feedback(appErrors.ErrInvalidAmount, InvalidAmountMessage)
	}
	if amount.Round(2).Abs().GreaterThan(MaxAmount) {
		return appErrors.Feedback(appErrors.ErrInvalidAmount, InvalidAmountMessage)
	}
	return nil
}

// ValidateCategory requires a non-empty label made of letters only.
func ValidateCategory(category string) error {
	if category == "" || len([]rune(category)) > MAX_CATEGORY_NAME_LENGTH {
		return appErrors.Feedback(appErrors.ErrInvalidCategory, InvalidCategoryMessage)
	}
	for _, r := range category {
		if !unicode.IsLetter(r) {
			return appErrors.Feedback(appErrors.ErrInvalidCategory, InvalidCategoryMessage)
		}
	}
	return nil
}

// CapitalizeCategory upper-cases the first letter and lower-cases the rest.
func CapitalizeCategory(category string) string {
	runes := []rune(strings.ToLower(category))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func (et *ExpenseTracker) CurrentMonth() DateRange {
	return MonthRange(et.now())
}

func (et *ExpenseTracker) AddExpense(ctx context.Context, userID string, req AddExpenseRequest) (Entry, error) {
	if err := ValidateAmount(req.Amount); err != nil {
		return Entry{}, err
	}
	if err := ValidateCategory(req.Category); err != nil {
		return Entry{}, err
	}

	entry := Entry{
		ID:       uuid.New().String(),
		UserID:   userID,
		Amount:   req.Amount.Round(2),
		Category: CapitalizeCategory(req.Category),
		Date:     DateOnly(req.Date),
	}

	if err := et.storage.SaveExpense(ctx, entry); err != nil {
		return Entry{}, fmt.Errorf("failed to save expense: %w", err)
	}
	return entry, nil
}

// ListExpenses returns the user's entries in the range ordered by date.
func (et *ExpenseTracker) ListExpenses(ctx context.Context, userID string, dateRange DateRange) ([]Entry, error) {
	entries, err := et.storage.GetExpensesInRange(ctx, userID, dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	return entries, nil
}

func (et *ExpenseTracker) TotalsByCategory(ctx context.Context, userID string, dateRange DateRange) (CategoryTotals, error) {
	entries, err := et.ListExpenses(ctx, userID, dateRange)
	if err != nil {
		return nil, err
	}
	return Aggregate(entries), nil
}

// RemoveExpense deletes the entry by id, or every entry with the same tuple
// when the tracker runs in match mode.
func (et *ExpenseTracker) RemoveExpense(ctx context.Context, userID string, entry Entry) (int64, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	var removed int64
	var err error
	if et.deleteMode == DeleteByMatch || entry.ID == "" {
		entry.UserID = userID
		removed, err = et.storage.DeleteExpenseMatching(ctx, userID, entry)
	} else {
		removed, err = et.storage.DeleteExpense(ctx, userID, entry.ID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to remove expense: %w", err)
	}

	if removed == 0 {
		logging.Logger.Warnf("[TraceID=%s] | expense %s of user %s was already gone", traceID, entry.ID, userID)
		return 0, appErrors.Feedback(appErrors.ErrNotFound, ExpenseGoneMessage)
	}
	if removed > 1 {
		logging.Logger.Infof("[TraceID=%s] | removed %d identical expenses of user %s", traceID, removed, userID)
	}
	return removed, nil
}
