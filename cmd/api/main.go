package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/ShipRequest_BackEnd/internal/config"
	"github.com/njprem/ShipRequest_BackEnd/internal/logging"
	"github.com/njprem/ShipRequest_BackEnd/internal/repository/memory"
	"github.com/njprem/ShipRequest_BackEnd/internal/repository/migrations"
	"github.com/njprem/ShipRequest_BackEnd/internal/repository/ports"
	"github.com/njprem/ShipRequest_BackEnd/internal/repository/postgres"
	"github.com/njprem/ShipRequest_BackEnd/internal/repository/sqlite"
	"github.com/njprem/ShipRequest_BackEnd/internal/service"
	transport "github.com/njprem/ShipRequest_BackEnd/internal/transport/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.Load()); err != nil {
		log.Fatalf("shiprequest: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	var mirror io.Writer
	if cfg.LogstashTCPAddr != "" {
		lw, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			return err
		}
		defer lw.Close()
		mirror = lw
	}
	logger, err := logging.NewZapLogger(logging.Options{Level: cfg.LogLevel, Mirror: mirror})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	users, shipments, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	auth := service.NewAuthService(users, service.AuthConfig{
		Secret:     cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL(),
		BcryptCost: cfg.BcryptCost,
	})
	shipmentSvc := service.NewShipmentService(shipments)

	e := transport.NewRouter(cfg.AllowOrigins, logger)
	transport.RegisterAuth(e, auth, logger, cfg.CookieSecure)
	transport.RegisterShipping(e, auth, shipmentSvc, logger)
	if err := transport.RegisterPages(e, auth, shipmentSvc, logger); err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	transport.RegisterSwagger(e)

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "http server listening", "port", cfg.Port, "db_driver", cfg.DBDriver)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openStore picks the repositories for cfg.DBDriver and bootstraps the schema
// for SQL drivers.
func openStore(ctx context.Context, cfg config.Config, logger logging.Logger) (ports.UserRepository, ports.ShipmentRepository, func(), error) {
	if cfg.DBDriver == config.DriverMemory {
		logger.Warn(ctx, "using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return store.Users(), store.Shipments(), func() {}, nil
	}

	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.DBDriver {
	case sqlite.Driver:
		db, err = sqlite.New(cfg.DatabaseURL)
	case postgres.DriverPgx, postgres.DriverPQ:
		db, err = postgres.New(cfg.DBDriver, cfg.DatabaseURL)
	default:
		return nil, nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.RunMigrations {
		if err := migrations.Up(ctx, db.DB, cfg.DBDriver); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		logger.Info(ctx, "schema up to date")
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error(context.Background(), "close database", "error", err)
		}
	}
	return postgres.NewUserRepo(db), postgres.NewShipmentRepo(db), closeDB, nil
}
