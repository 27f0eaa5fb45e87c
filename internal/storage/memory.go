package storage

import (
	"context"
	"sync"

	"github.com/fatali-fataliyev/thriftier/internal/expense"
)

type InMemoryStorage struct {
	mu       sync.Mutex
	expenses []expense.Entry
	users    map[string]struct{}
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		users: make(map[string]struct{}),
	}
}

func (inMem *InMemoryStorage) GetStorageType() string {
	return "inmemory"
}

func (inMem *InMemoryStorage) SaveExpense(ctx context.Context, entry expense.Entry) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	inMem.users[entry.UserID] = struct{}{}
	inMem.expenses = append(inMem.expenses, entry)
	sortByDate(inMem.expenses)
	return nil
}

func (inMem *InMemoryStorage) GetExpensesInRange(ctx context.Context, userID string, dateRange expense.DateRange) ([]expense.Entry, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	result := []expense.Entry{}
	for _, e := range inMem.expenses {
		if e.UserID == userID && dateRange.Contains(e.Date) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (inMem *InMemoryStorage) DeleteExpense(ctx context.Context, userID string, entryID string) (int64, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i, e := range inMem.expenses {
		if e.ID == entryID && e.UserID == userID {
			inMem.expenses = append(inMem.expenses[:i], inMem.expenses[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (inMem *InMemoryStorage) DeleteExpenseMatching(ctx context.Context, userID string, entry expense.Entry) (int64, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	entry.UserID = userID
	kept := inMem.expenses[:0]
	var removed int64
	for _, e := range inMem.expenses {
		if e.Matches(entry) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	inMem.expenses = kept
	return removed, nil
}

// UserCount reports how many distinct users have recorded an expense.
func (inMem *InMemoryStorage) UserCount() int {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	return len(inMem.users)
}

func (inMem *InMemoryStorage) Close() error {
	return nil
}
