// Package sqlite is an embedded tenant store backed by gorm and SQLite.
// It serves local runs and end-to-end tests; production uses postgres.
package sqlite

import (
	"context"
	"fmt"
	stdlog "log"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/applicationmaker/tenant-service/internal/domain"
)

type Store struct {
	db      *gorm.DB
	tenants *TenantRepo
}

// New opens (or creates) the database file at path. Writes are serialized
// through a single connection since SQLite allows one writer at a time.
func New(path string) (*Store, error) {
	dsn := path + "?_busy_timeout=5000&_journal_mode=WAL"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.New(stdlog.New(log.Logger, "", 0), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &Store{
		db:      db,
		tenants: NewTenantRepo(db),
	}, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&tenantRow{}); err != nil {
		return fmt.Errorf("sqlite.Migrate: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("sqlite.Ping: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite.Ping: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	sqlDB, err := s.db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("sqlite: close failed")
	}
}

func (s *Store) Tenants() domain.TenantRepository { return s.tenants }
