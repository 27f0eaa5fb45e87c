package storage

import (
	"context"
	"fmt"

	"github.com/fatali-fataliyev/thriftier/internal/config"
	"github.com/fatali-fataliyev/thriftier/internal/expense"
	"github.com/fatali-fataliyev/thriftier/logging"
)

// Store is a ledger backend together with its shutdown hook.
type Store interface {
	expense.Storage
	Close() error
}

// Open builds the backend selected by cfg.StorageBackend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case config.BackendMySQL:
		db, _, err := Init(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		logging.Logger.Info("using MySQL storage")
		return NewMySQLStorage(db), nil
	case config.BackendJSON:
		s, err := NewJSONFileStorage(cfg.DataFile)
		if err != nil {
			return nil, err
		}
		logging.Logger.Infof("using JSON file storage at '%s'", cfg.DataFile)
		return s, nil
	case config.BackendMemory:
		logging.Logger.Warn("using in-memory storage, expenses are lost on restart")
		return NewInMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("invalid storage backend: %q", cfg.StorageBackend)
	}
}
