package backend

import (
	"fmt"
	"log/slog"

	"tally/internal/storage"
	"tally/internal/storage/memory"
)

// Config holds what factory needs to build a store.
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// Factory creates stores based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateStore builds the configured store. The memory store loses all
// data on exit and exists for development and tests.
func (f *Factory) CreateStore(config Config) (Store, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLite:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return repo, nil
	case Memory:
		f.logger.Warn("Initialized memory backend, data will not survive restarts")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
