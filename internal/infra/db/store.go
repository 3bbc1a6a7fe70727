package db

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"flarecover/internal/config"
)

type Store struct {
	DB *gorm.DB
}

// NewStore connects to postgres when a DSN is configured. Without one the
// service runs stateless: quotes are never persisted either way, the store
// only backs the audit trail.
func NewStore(cfg config.Config, logger *slog.Logger) (*Store, error) {
	if cfg.PostgresDSN == "" {
		if logger != nil {
			logger.Info("POSTGRES_DSN not set, starting without an audit store")
		}
		return &Store{DB: nil}, nil
	}

	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := gdb.AutoMigrate(&AuditEventModel{}); err != nil {
		return nil, fmt.Errorf("migrate audit events: %w", err)
	}

	return &Store{DB: gdb}, nil
}
