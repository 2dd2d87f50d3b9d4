package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/applicationmaker/tenant-service/internal/config"
	"github.com/applicationmaker/tenant-service/internal/domain"
	"github.com/applicationmaker/tenant-service/internal/server"
	"github.com/applicationmaker/tenant-service/internal/store/postgres"
	redisstore "github.com/applicationmaker/tenant-service/internal/store/redis"
	"github.com/applicationmaker/tenant-service/internal/store/sqlite"
	"github.com/applicationmaker/tenant-service/internal/tenant"
)

const shutdownTimeout = 10 * time.Second

// tenantStore is the surface shared by the postgres and sqlite backends.
type tenantStore interface {
	Tenants() domain.TenantRepository
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()
}

func openStore(ctx context.Context, cfg *config.Config) (tenantStore, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		log.Info().Str("path", cfg.SQLite.Path).Msg("using sqlite store")
		return sqlite.New(cfg.SQLite.Path)
	case config.DriverPostgres:
		if cfg.Database.MaxConns > math.MaxInt32 {
			return nil, fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
		}
		log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("using postgres store")
		return postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Long: `Run the HTTP API.

The schema is created on start when TENANT_MIGRATE_ON_START is true, which is
the default for the sqlite driver. For postgres run "tenant-service migrate"
first or set TENANT_MIGRATE_ON_START=true.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.MigrateOnStart {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		log.Info().Msg("schema migrated")
	}

	// Event publishing is optional; the interface stays nil without Redis.
	var publisher domain.EventPublisher
	if cfg.Redis.Addr != "" {
		pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer pubsub.Close()
		publisher = pubsub
		log.Info().Str("addr", cfg.Redis.Addr).Str("channel", tenant.EventsChannel).Msg("tenant events enabled")
	}

	svc := tenant.NewService(store.Tenants(), publisher)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := server.New(ctx, cfg, store, svc, reg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("stopped")
	return nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the tenants schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(ctx); err != nil {
				return err
			}
			log.Info().Str("driver", cfg.Store.Driver).Msg("schema migrated")
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print tenant events published on Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Redis.Addr == "" {
				return errors.New("TENANT_REDIS_ADDR is required for watch")
			}

			pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				return err
			}
			defer pubsub.Close()

			return watchEvents(ctx, pubsub, cmd.OutOrStdout())
		},
	}
}
