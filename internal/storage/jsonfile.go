package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	appErrors "github.com/fatali-fataliyev/thriftier/errors"
	"github.com/fatali-fataliyev/thriftier/internal/contextutil"
	"github.com/fatali-fataliyev/thriftier/internal/expense"
	"github.com/fatali-fataliyev/thriftier/logging"
)

// JSONFileStorage keeps the whole ledger in one JSON document. Every call
// reads the file and every write replaces it.
type JSONFileStorage struct {
	mu   sync.Mutex
	path string
}

func NewJSONFileStorage(path string) (*JSONFileStorage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	s := &JSONFileStorage{path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logging.Logger.Infof("ledger file '%s' does not exist, creating...", path)
		if err := s.write(jsonLedger{Expenses: []jsonExpense{}}); err != nil {
			return nil, fmt.Errorf("failed to create ledger file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to check ledger file: %w", err)
	}

	if _, err := s.read(); err != nil {
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}
	return s, nil
}

func (s *JSONFileStorage) GetStorageType() string {
	return "json"
}

func (s *JSONFileStorage) read() (jsonLedger, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return jsonLedger{}, err
	}
	var ledger jsonLedger
	if err := json.Unmarshal(raw, &ledger); err != nil {
		return jsonLedger{}, err
	}
	return ledger, nil
}

func (s *JSONFileStorage) write(ledger jsonLedger) error {
	raw, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}

func (s *JSONFileStorage) fail(ctx context.Context, function string, err error, message string) error {
	traceID := contextutil.TraceIDFromContext(ctx)
	logging.Logger.Errorf("[TraceID=%s] | failed in Storage.%s() function | Error: %v", traceID, function, err)
	return appErrors.Internal(message)
}

func (s *JSONFileStorage) SaveExpense(ctx context.Context, entry expense.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.read()
	if err != nil {
		return s.fail(ctx, "SaveExpense", err, "Failed to save the expense, try again later.")
	}

	ledger.Expenses = append(ledger.Expenses, newJSONExpense(entry))
	// yyyy-mm-dd strings order the same way as the dates
	sort.SliceStable(ledger.Expenses, func(i, j int) bool {
		return ledger.Expenses[i].Date < ledger.Expenses[j].Date
	})

	if err := s.write(ledger); err != nil {
		return s.fail(ctx, "SaveExpense", err, "Failed to save the expense, try again later.")
	}
	return nil
}

func (s *JSONFileStorage) GetExpensesInRange(ctx context.Context, userID string, dateRange expense.DateRange) ([]expense.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.read()
	if err != nil {
		return nil, s.fail(ctx, "GetExpensesInRange", err, "Failed to get expenses, try again later.")
	}

	result := []expense.Entry{}
	for _, raw := range ledger.Expenses {
		if raw.UserID != userID {
			continue
		}
		e, err := raw.toEntry()
		if err != nil {
			return nil, s.fail(ctx, "GetExpensesInRange", err, "Failed to get expenses, try again later.")
		}
		if dateRange.Contains(e.Date) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *JSONFileStorage) DeleteExpense(ctx context.Context, userID string, entryID string) (int64, error) {
	return s.deleteWhere(ctx, "DeleteExpense", func(e expense.Entry) bool {
		return e.ID == entryID && e.UserID == userID
	}, true)
}

func (s *JSONFileStorage) DeleteExpenseMatching(ctx context.Context, userID string, entry expense.Entry) (int64, error) {
	entry.UserID = userID
	return s.deleteWhere(ctx, "DeleteExpenseMatching", entry.Matches, false)
}

func (s *JSONFileStorage) deleteWhere(ctx context.Context, function string, match func(expense.Entry) bool, firstOnly bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.read()
	if err != nil {
		return 0, s.fail(ctx, function, err, "Failed to remove the expense, try again later.")
	}

	kept := make([]jsonExpense, 0, len(ledger.Expenses))
	var removed int64
	for _, raw := range ledger.Expenses {
		e, err := raw.toEntry()
		if err != nil {
			return 0, s.fail(ctx, function, err, "Failed to remove the expense, try again later.")
		}
		if match(e) && (!firstOnly || removed == 0) {
			removed++
			continue
		}
		kept = append(kept, raw)
	}

	if removed == 0 {
		return 0, nil
	}

	ledger.Expenses = kept
	if err := s.write(ledger); err != nil {
		return 0, s.fail(ctx, function, err, "Failed to remove the expense, try again later.")
	}
	return removed, nil
}

func (s *JSONFileStorage) Close() error {
	return nil
}
